package spawn

import (
	"context"
	"errors"
	"fmt"
	"hash/fnv"
	"log/slog"
	"math/rand/v2"
	"slices"
	"sync"
	"time"

	"go.opentelemetry.io/otel/metric"

	"github.com/udisondev/spawnkit/internal/model"
)

// ErrDuplicateSpawner is returned by Add for an already registered ID
var ErrDuplicateSpawner = errors.New("spawner already registered")

// Manager owns spawn controllers and drives them from one tick loop.
// Registry methods are safe for concurrent use; controllers themselves are
// only ever stepped from StepAll.
type Manager struct {
	host    Host
	effects Effects
	diag    Diagnostics
	metrics *Metrics
	seed    uint64

	mu          sync.Mutex
	controllers map[string]*Controller
	order       []string // insertion order, stepping is deterministic

	liveGauge metric.Int64ObservableGauge
	gaugeReg  metric.Registration
	stopCh    chan struct{}
	stopOnce  sync.Once
	closeOnce sync.Once
}

// NewManager creates spawn manager.
// seed makes every controller's random source reproducible (per spawner ID).
// Uses the global OTel meter for metrics (no-op if not configured).
func NewManager(host Host, effects Effects, seed uint64) (*Manager, error) {
	return NewManagerWithMeter(host, effects, seed, meter())
}

// NewManagerWithMeter is NewManager with an explicit meter for counters and the live gauge.
// Call Close when the manager is discarded to release the gauge callback.
func NewManagerWithMeter(host Host, effects Effects, seed uint64, mt metric.Meter) (*Manager, error) {
	if mt == nil {
		mt = meter()
	}

	m := &Manager{
		host:        host,
		effects:     effects,
		diag:        LogDiagnostics{},
		seed:        seed,
		controllers: make(map[string]*Controller),
		stopCh:      make(chan struct{}),
	}

	var err error
	m.metrics, err = NewMetrics(mt)
	if err != nil {
		return nil, fmt.Errorf("creating spawn metrics: %w", err)
	}

	m.liveGauge, err = mt.Int64ObservableGauge(
		"spawner.instances.live",
		metric.WithDescription("Instances currently tracked per spawner"),
	)
	if err != nil {
		return nil, fmt.Errorf("creating live gauge: %w", err)
	}

	m.gaugeReg, err = mt.RegisterCallback(
		func(ctx context.Context, o metric.Observer) error {
			m.mu.Lock()
			defer m.mu.Unlock()
			for _, id := range m.order {
				o.ObserveInt64(m.liveGauge, int64(m.controllers[id].Live()), spawnerObserveAttr(id))
			}
			return nil
		},
		m.liveGauge,
	)
	if err != nil {
		return nil, fmt.Errorf("registering live gauge callback: %w", err)
	}

	return m, nil
}

// SetDiagnostics replaces diagnostic sink for controllers added afterwards
func (m *Manager) SetDiagnostics(d Diagnostics) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.diag = d
}

// Load adds and activates all spawners from repo.
// Invalid spawners are skipped; the first error is returned after the rest load.
func (m *Manager) Load(ctx context.Context, repo SpawnerRepository) error {
	cfgs, err := repo.LoadAll(ctx)
	if err != nil {
		return fmt.Errorf("loading spawners: %w", err)
	}

	count := 0
	var firstErr error
	for _, cfg := range cfgs {
		if _, err := m.Add(cfg); err != nil {
			if firstErr == nil {
				firstErr = err
			}
			slog.Error("failed to add spawner", "spawner", cfg.ID, "error", err)
			continue
		}
		count++
	}

	if firstErr != nil {
		slog.Warn("spawners loaded with errors", "loaded", count, "total", len(cfgs), "error", firstErr)
		return fmt.Errorf("adding spawners: %w", firstErr)
	}

	slog.Info("spawners loaded", "count", count)
	return nil
}

// Add creates, registers and activates controller for cfg
func (m *Manager) Add(cfg model.SpawnerConfig) (*Controller, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	if _, exists := m.controllers[cfg.ID]; exists {
		return nil, fmt.Errorf("adding spawner %q: %w", cfg.ID, ErrDuplicateSpawner)
	}

	c, err := New(cfg, m.host,
		WithEffects(m.effects),
		WithDiagnostics(m.diag),
		WithRand(m.randFor(cfg.ID)),
		WithMetrics(m.metrics),
	)
	if err != nil {
		return nil, fmt.Errorf("adding spawner %q: %w", cfg.ID, err)
	}

	m.controllers[cfg.ID] = c
	m.order = append(m.order, cfg.ID)
	c.Activate()

	slog.Info("spawner registered",
		"spawner", cfg.ID,
		"mode", cfg.Mode(),
		"capacity", cfg.Capacity,
		"prototypes", len(cfg.Prototypes))

	return c, nil
}

// Remove unregisters spawner. Spawned instances stay in the world.
func (m *Manager) Remove(id string) bool {
	m.mu.Lock()
	defer m.mu.Unlock()

	if _, ok := m.controllers[id]; !ok {
		return false
	}
	delete(m.controllers, id)
	m.order = slices.DeleteFunc(m.order, func(s string) bool { return s == id })

	slog.Info("spawner removed", "spawner", id)
	return true
}

// Get returns controller by spawner ID
func (m *Manager) Get(id string) (*Controller, bool) {
	m.mu.Lock()
	defer m.mu.Unlock()
	c, ok := m.controllers[id]
	return c, ok
}

// Count returns number of registered spawners
func (m *Manager) Count() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.controllers)
}

// ActiveCount returns number of spawners that still do work on Step
func (m *Manager) ActiveCount() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	n := 0
	for _, c := range m.controllers {
		if c.Active() {
			n++
		}
	}
	return n
}

// LiveCount returns instances tracked by all spawners
func (m *Manager) LiveCount() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	n := 0
	for _, c := range m.controllers {
		n += c.Live()
	}
	return n
}

// StepAll steps every spawner in registration order
func (m *Manager) StepAll(dt float64) {
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, id := range m.order {
		m.controllers[id].Step(dt)
	}
}

// Run steps all spawners every interval (blocks until context is canceled or Stop).
// dt passed to the controllers is the real time elapsed since the previous tick.
func (m *Manager) Run(ctx context.Context, interval time.Duration) error {
	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	slog.Info("spawn manager started", "interval", interval)

	last := time.Now()
	for {
		select {
		case <-ctx.Done():
			slog.Info("spawn manager stopping")
			return ctx.Err()

		case <-m.stopCh:
			slog.Info("spawn manager stopped")
			return nil

		case now := <-ticker.C:
			dt := now.Sub(last).Seconds()
			last = now
			m.StepAll(dt)
		}
	}
}

// Stop stops the Run loop
func (m *Manager) Stop() {
	m.stopOnce.Do(func() { close(m.stopCh) })
}

// Close stops the Run loop and unregisters the live gauge callback.
// Safe to call more than once.
func (m *Manager) Close() error {
	m.Stop()

	var err error
	m.closeOnce.Do(func() {
		if m.gaugeReg == nil {
			return
		}
		if uerr := m.gaugeReg.Unregister(); uerr != nil {
			err = fmt.Errorf("unregistering live gauge: %w", uerr)
		}
	})
	return err
}

// randFor derives a per-spawner source from the manager seed
func (m *Manager) randFor(id string) *rand.Rand {
	h := fnv.New64a()
	h.Write([]byte(id))
	return rand.New(rand.NewPCG(m.seed, h.Sum64()))
}
