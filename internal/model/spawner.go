package model

import (
	"errors"
	"fmt"
)

// InstanceHandle — непрозрачная ссылка на объект, созданный хостом.
// Валидность проверяется только через запросы к хосту.
type InstanceHandle uint32

// InvalidHandle is never returned for a created instance.
const InvalidHandle InstanceHandle = 0

// PrototypeID identifies a spawnable kind. Empty string is a null entry.
type PrototypeID string

// IsNull reports whether the prototype slot is unset.
func (p PrototypeID) IsNull() bool {
	return p == ""
}

// AxisFlags enables per-axis location randomization.
type AxisFlags struct {
	X bool `yaml:"x"`
	Y bool `yaml:"y"`
	Z bool `yaml:"z"`
}

// Any reports whether at least one axis is enabled.
func (a AxisFlags) Any() bool {
	return a.X || a.Y || a.Z
}

// RotationFlags enables per-axis rotation randomization.
type RotationFlags struct {
	Pitch bool `yaml:"pitch"`
	Yaw   bool `yaml:"yaw"`
	Roll  bool `yaml:"roll"`
}

// Spawner defaults.
const (
	DefaultCapacity    = 1
	DefaultInterval    = 1.0   // seconds
	DefaultExtent      = 100.0 // half-extent on every axis
	DefaultGridSpacing = 100.0
)

// SpawnerConfig describes one volume spawner. It is set once before activation
// and never mutated by the controller.
type SpawnerConfig struct {
	ID     string    `yaml:"id"`
	Active bool      `yaml:"active"`
	Anchor Transform `yaml:"anchor"`

	RandomLocation AxisFlags     `yaml:"random_location"`
	RandomRotation RotationFlags `yaml:"random_rotation"`

	SpawnAllAtOnce bool `yaml:"spawn_all_at_once"`
	SpawnInOrder   bool `yaml:"spawn_in_order"`
	GridFill       bool `yaml:"grid_fill"`

	Capacity int `yaml:"capacity"`

	// Trickle interval in seconds. When RandomInterval is set the interval is
	// sampled from [MinInterval, MaxInterval) on every reset instead.
	Interval       float64 `yaml:"interval"`
	RandomInterval bool    `yaml:"random_interval"`
	MinInterval    float64 `yaml:"min_interval"`
	MaxInterval    float64 `yaml:"max_interval"`

	Prototypes  []PrototypeID `yaml:"prototypes,flow"`
	Extent      Extent        `yaml:"extent,flow"`
	GridSpacing float64       `yaml:"grid_spacing"`

	VisualEffect string `yaml:"visual_effect"`
	Sound        string `yaml:"sound"`
}

// DefaultSpawnerConfig returns SpawnerConfig with authoring defaults:
// active, in-order selection, one instance every second, 100 unit half-extents.
func DefaultSpawnerConfig() SpawnerConfig {
	return SpawnerConfig{
		Active:       true,
		SpawnInOrder: true,
		Capacity:     DefaultCapacity,
		Interval:     DefaultInterval,
		Extent:       Extent{DefaultExtent, DefaultExtent, DefaultExtent},
		GridSpacing:  DefaultGridSpacing,
	}
}

// Validation errors.
var (
	ErrInvalidCapacity = errors.New("capacity must be at least 1")
	ErrNegativeExtent  = errors.New("extent must be non-negative")
	ErrInvalidInterval = errors.New("invalid spawn interval")
	ErrInvalidSpacing  = errors.New("grid spacing must be positive")
)

// Validate checks static invariants of the config.
// An empty prototype list is allowed here: it is reported at spawn time.
func (c *SpawnerConfig) Validate() error {
	if c.Capacity < 1 {
		return fmt.Errorf("spawner %q: %w (got %d)", c.ID, ErrInvalidCapacity, c.Capacity)
	}
	for axis, e := range c.Extent {
		if e < 0 {
			return fmt.Errorf("spawner %q: %w (axis %d = %g)", c.ID, ErrNegativeExtent, axis, e)
		}
	}
	if c.RandomInterval {
		if c.MinInterval < 0 || c.MaxInterval < c.MinInterval {
			return fmt.Errorf("spawner %q: %w (min %g, max %g)", c.ID, ErrInvalidInterval, c.MinInterval, c.MaxInterval)
		}
	} else if c.Interval < 0 {
		return fmt.Errorf("spawner %q: %w (%g)", c.ID, ErrInvalidInterval, c.Interval)
	}
	if c.GridFill && c.GridSpacing <= 0 {
		return fmt.Errorf("spawner %q: %w (got %g)", c.ID, ErrInvalidSpacing, c.GridSpacing)
	}
	return nil
}

// Mode returns the spawning mode name for logs.
func (c *SpawnerConfig) Mode() string {
	switch {
	case c.GridFill:
		return "grid"
	case c.SpawnAllAtOnce:
		return "batch"
	default:
		return "trickle"
	}
}
