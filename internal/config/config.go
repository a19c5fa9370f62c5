package config

import (
	"errors"
	"fmt"
	"os"
	"time"

	"gopkg.in/yaml.v3"

	"github.com/udisondev/spawnkit/internal/model"
	"github.com/udisondev/spawnkit/internal/world"
)

// Simulation holds all configuration for the spawn simulation.
type Simulation struct {
	LogLevel string `yaml:"log_level"` // debug, info, warn, error

	// Tick loop
	TickInterval  time.Duration `yaml:"tick_interval"`  // spawn manager step period
	WorldInterval time.Duration `yaml:"world_interval"` // world aging period
	Seed          uint64        `yaml:"seed"`           // 0 picks a random seed at startup

	World    world.Config   `yaml:"world"`
	Database DatabaseConfig `yaml:"database"`
	Metrics  MetricsConfig  `yaml:"metrics"`

	// Spawner definitions. Merged with the database ones when it is enabled.
	Spawners SpawnerList `yaml:"spawners"`
}

// DatabaseConfig holds PostgreSQL connection parameters.
type DatabaseConfig struct {
	Enabled  bool   `yaml:"enabled"`
	Host     string `yaml:"host"`
	Port     int    `yaml:"port"`
	User     string `yaml:"user"`
	Password string `yaml:"password"`
	DBName   string `yaml:"dbname"`
	SSLMode  string `yaml:"sslmode"`
}

// DSN returns the PostgreSQL connection string.
func (d DatabaseConfig) DSN() string {
	return fmt.Sprintf(
		"postgres://%s:%s@%s:%d/%s?sslmode=%s",
		d.User, d.Password, d.Host, d.Port, d.DBName, d.SSLMode,
	)
}

// MetricsConfig controls the OTel metrics exporter.
type MetricsConfig struct {
	Enabled  bool          `yaml:"enabled"`
	Interval time.Duration `yaml:"interval"` // export period
}

// SpawnerList decodes spawner definitions on top of model defaults,
// so omitted fields keep their authoring defaults.
type SpawnerList []model.SpawnerConfig

// UnmarshalYAML implements yaml.Unmarshaler
func (l *SpawnerList) UnmarshalYAML(node *yaml.Node) error {
	if node.Kind != yaml.SequenceNode {
		return fmt.Errorf("line %d: spawners must be a list", node.Line)
	}

	out := make(SpawnerList, 0, len(node.Content))
	for i, item := range node.Content {
		cfg := model.DefaultSpawnerConfig()
		if err := item.Decode(&cfg); err != nil {
			return fmt.Errorf("spawner #%d: %w", i, err)
		}
		out = append(out, cfg)
	}
	*l = out
	return nil
}

// DefaultSimulation returns Simulation config with sensible defaults.
func DefaultSimulation() Simulation {
	return Simulation{
		LogLevel:      "info",
		TickInterval:  50 * time.Millisecond,
		WorldInterval: 100 * time.Millisecond,
		World: world.Config{
			CollisionRadius: 0,
			MaxObjects:      10000,
			Lifetime:        30,
		},
		Database: DatabaseConfig{
			Host:     "127.0.0.1",
			Port:     5432,
			User:     "spawnkit",
			Password: "spawnkit",
			DBName:   "spawnkit",
			SSLMode:  "disable",
		},
		Metrics: MetricsConfig{
			Interval: 10 * time.Second,
		},
	}
}

// Config errors
var (
	ErrInvalidTick      = errors.New("tick interval must be positive")
	ErrMissingSpawnerID = errors.New("spawner id is required")
	ErrDuplicateID      = errors.New("duplicate spawner id")
)

// Validate checks settings the binary can't run without.
// Per-spawner settings are validated when the spawner is registered.
func (s *Simulation) Validate() error {
	if s.TickInterval <= 0 {
		return fmt.Errorf("tick_interval %v: %w", s.TickInterval, ErrInvalidTick)
	}
	if s.WorldInterval <= 0 {
		return fmt.Errorf("world_interval %v: %w", s.WorldInterval, ErrInvalidTick)
	}

	seen := make(map[string]bool, len(s.Spawners))
	for i, sp := range s.Spawners {
		if sp.ID == "" {
			return fmt.Errorf("spawner #%d: %w", i, ErrMissingSpawnerID)
		}
		if seen[sp.ID] {
			return fmt.Errorf("spawner %q: %w", sp.ID, ErrDuplicateID)
		}
		seen[sp.ID] = true
	}
	return nil
}

// LoadSimulation loads simulation config from a YAML file.
// If the file doesn't exist, returns defaults.
func LoadSimulation(path string) (Simulation, error) {
	cfg := DefaultSimulation()

	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return cfg, nil
		}
		return cfg, fmt.Errorf("reading config %s: %w", path, err)
	}

	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return cfg, fmt.Errorf("parsing config %s: %w", path, err)
	}

	if err := cfg.Validate(); err != nil {
		return cfg, fmt.Errorf("validating config %s: %w", path, err)
	}

	return cfg, nil
}
