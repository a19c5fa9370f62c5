package spawn

import (
	"fmt"
	"log/slog"
	"math/rand/v2"

	"github.com/udisondev/spawnkit/internal/model"
)

// Diagnostic messages shown to the author
const (
	msgNoPrototypes   = "No spawnable prototypes found!"
	msgInvalidProto   = "No valid prototype at index %d"
	msgInvalidSpacing = "Grid spacing must be positive"
)

// Controller spawns instances of configured prototypes inside a volume.
//
// It is single-threaded: the host calls Step once per simulation step from
// one goroutine. Instances are owned by the host; the controller keeps only
// handles and learns about their death through the host's liveness queries.
type Controller struct {
	cfg     model.SpawnerConfig
	host    Host
	effects Effects
	diag    Diagnostics
	metrics *Metrics

	gate       *Gate
	population *Population
	placement  *Placement
	selector   *Selector

	active    bool
	gridDone  bool
	batchDone bool
}

// Option configures a Controller
type Option func(c *controllerOptions)

type controllerOptions struct {
	effects Effects
	diag    Diagnostics
	rng     Rand
	metrics *Metrics
}

// WithEffects sets the visual/audio cue sink
func WithEffects(e Effects) Option {
	return func(o *controllerOptions) { o.effects = e }
}

// WithDiagnostics sets the diagnostic sink (default LogDiagnostics)
func WithDiagnostics(d Diagnostics) Option {
	return func(o *controllerOptions) { o.diag = d }
}

// WithRand sets the random source. Use a seeded source for reproducible runs.
func WithRand(r Rand) Option {
	return func(o *controllerOptions) { o.rng = r }
}

// WithMetrics sets the counters
func WithMetrics(m *Metrics) Option {
	return func(o *controllerOptions) { o.metrics = m }
}

// New creates controller for cfg. The controller stays idle until Activate.
func New(cfg model.SpawnerConfig, host Host, opts ...Option) (*Controller, error) {
	if host == nil {
		return nil, fmt.Errorf("spawner %q: host is required", cfg.ID)
	}
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("validating spawner config: %w", err)
	}

	o := controllerOptions{diag: LogDiagnostics{}}
	for _, opt := range opts {
		opt(&o)
	}
	if o.rng == nil {
		o.rng = rand.New(rand.NewPCG(rand.Uint64(), rand.Uint64()))
	}

	// Prototype list is copied so author-side edits can't leak in
	cfg.Prototypes = append([]model.PrototypeID(nil), cfg.Prototypes...)

	c := &Controller{
		cfg:        cfg,
		host:       host,
		effects:    o.effects,
		diag:       o.diag,
		metrics:    o.metrics,
		population: NewPopulation(cfg.Capacity),
		selector:   NewSelector(cfg.SpawnInOrder, o.rng),
	}
	c.gate = NewGate(&c.cfg, o.rng)
	c.placement = NewPlacement(&c.cfg, o.rng)

	return c, nil
}

// Activate starts the spawner. Grid-fill spawners fill the volume right here
// and deactivate; the others arm the timing gate and wait for Step.
func (c *Controller) Activate() {
	c.active = c.cfg.Active

	if c.cfg.GridFill {
		if c.active && !c.gridDone {
			c.fillGrid()
		}
		c.gridDone = true
		c.active = false
		return
	}

	// Batch fires once per controller lifetime
	if c.cfg.SpawnAllAtOnce && c.batchDone {
		c.active = false
		return
	}

	c.gate.Reset()

	slog.Debug("spawner activated",
		"spawner", c.cfg.ID,
		"mode", c.cfg.Mode(),
		"active", c.active,
		"capacity", c.cfg.Capacity,
		"firstSpawnIn", c.gate.Remaining())
}

// Deactivate stops future steps. A spawn already dispatched completes.
func (c *Controller) Deactivate() {
	c.active = false
}

// Step advances the spawner by dt seconds.
//
// Batch spawners fill the remaining capacity on their first active step and
// deactivate for good: a later Activate does not re-arm them. Trickle spawners either consume a ready gate (at most one spawn
// attempt, even if the population is full) or advance the countdown.
func (c *Controller) Step(dt float64) {
	if !c.active {
		return
	}

	if c.cfg.SpawnAllAtOnce {
		c.spawnBatch()
		c.batchDone = true
		c.active = false
		return
	}

	if c.gate.Ready() {
		if c.reclaimAndCheckCapacity() {
			c.spawnNext(c.placement.Position())
		}
		c.gate.Consume()
		return
	}

	c.gate.Advance(dt)
}

// SpawnOne spawns prototype at index with the given placement.
// Misconfiguration is reported through Diagnostics; host refusal is silent.
// Returns the new handle and true on success.
func (c *Controller) SpawnOne(pos model.Location, rot model.Rotator, index int) (model.InstanceHandle, bool) {
	c.metrics.attempt(c.cfg.ID)

	if len(c.cfg.Prototypes) == 0 {
		c.reportConfigError(msgNoPrototypes)
		return model.InvalidHandle, false
	}
	if index < 0 || index >= len(c.cfg.Prototypes) || c.cfg.Prototypes[index].IsNull() {
		c.reportConfigError(fmt.Sprintf(msgInvalidProto, index))
		return model.InvalidHandle, false
	}

	proto := c.cfg.Prototypes[index]
	h, ok := c.host.SpawnInstance(proto, pos, rot)
	if !ok {
		c.metrics.refuse(c.cfg.ID)
		slog.Debug("spawn refused by host",
			"spawner", c.cfg.ID,
			"prototype", proto,
			"position", pos)
		return model.InvalidHandle, false
	}

	c.population.Track(h)
	c.metrics.create(c.cfg.ID)
	c.fireEffects(pos, rot)

	slog.Debug("instance spawned",
		"spawner", c.cfg.ID,
		"handle", h,
		"prototype", proto,
		"position", pos,
		"live", c.population.Len())

	return h, true
}

// spawnNext picks orientation and prototype for pos and spawns.
// Selection is never consulted for an empty list.
func (c *Controller) spawnNext(pos model.Location) {
	rot := c.placement.Orientation()
	if len(c.cfg.Prototypes) == 0 {
		c.SpawnOne(pos, rot, 0)
		return
	}
	c.SpawnOne(pos, rot, c.selector.Next(len(c.cfg.Prototypes)))
}

// spawnBatch spawns the free capacity counted once before the loop.
// Refused spawns are not retried within the batch.
func (c *Controller) spawnBatch() {
	if !c.reclaimAndCheckCapacity() {
		return
	}

	n := c.population.Free()
	for range n {
		c.spawnNext(c.placement.Position())
	}

	slog.Debug("batch spawned",
		"spawner", c.cfg.ID,
		"requested", n,
		"live", c.population.Len())
}

// fillGrid walks the serpentine lattice until it is exhausted or capacity points were emitted
func (c *Controller) fillGrid() {
	if c.cfg.GridSpacing <= 0 {
		c.reportConfigError(msgInvalidSpacing)
		return
	}

	anchor := c.placement.Anchor().Position
	emitted := 0
	for offset := range GridOffsets(c.cfg.Extent, c.cfg.GridSpacing) {
		if emitted >= c.cfg.Capacity {
			break
		}
		c.spawnNext(anchor.Add(offset))
		emitted++
	}

	slog.Debug("grid filled",
		"spawner", c.cfg.ID,
		"points", emitted,
		"live", c.population.Len())
}

// reclaimAndCheckCapacity purges dead handles and reports whether one more fits
func (c *Controller) reclaimAndCheckCapacity() bool {
	if removed := c.population.Reclaim(c.host); removed > 0 {
		slog.Debug("reclaimed dead instances",
			"spawner", c.cfg.ID,
			"removed", removed,
			"live", c.population.Len())
	}
	return c.population.HasCapacity()
}

func (c *Controller) reportConfigError(msg string) {
	c.metrics.configError(c.cfg.ID)
	if c.diag != nil {
		c.diag.Report(fmt.Sprintf("spawner %q: %s", c.cfg.ID, msg), SeverityError)
	}
}

// fireEffects triggers optional cues. Failures never reach the caller.
func (c *Controller) fireEffects(pos model.Location, rot model.Rotator) {
	if c.effects == nil {
		return
	}
	if c.cfg.VisualEffect != "" {
		c.safeEffect("visual effect", func() error {
			return c.effects.TriggerVisualEffect(c.cfg.VisualEffect, pos, rot)
		})
	}
	if c.cfg.Sound != "" {
		c.safeEffect("sound", func() error {
			return c.effects.PlaySound(c.cfg.Sound, pos)
		})
	}
}

func (c *Controller) safeEffect(kind string, fire func() error) {
	defer func() {
		if r := recover(); r != nil {
			slog.Debug("spawn cue panicked", "spawner", c.cfg.ID, "kind", kind, "panic", r)
		}
	}()
	if err := fire(); err != nil {
		slog.Debug("spawn cue failed", "spawner", c.cfg.ID, "kind", kind, "error", err)
	}
}

// ID returns spawner ID
func (c *Controller) ID() string {
	return c.cfg.ID
}

// Config returns copy of spawner config
func (c *Controller) Config() model.SpawnerConfig {
	cfg := c.cfg
	cfg.Prototypes = append([]model.PrototypeID(nil), c.cfg.Prototypes...)
	return cfg
}

// Active reports whether Step does anything
func (c *Controller) Active() bool {
	return c.active
}

// Ready reports whether the timing gate is open
func (c *Controller) Ready() bool {
	return c.gate.Ready()
}

// Live returns number of tracked instances (without reclaiming)
func (c *Controller) Live() int {
	return c.population.Len()
}

// Handles returns tracked instance handles in spawn order
func (c *Controller) Handles() []model.InstanceHandle {
	return c.population.Handles()
}
