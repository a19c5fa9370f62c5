package world

import (
	"log/slog"
	"sync"

	"github.com/udisondev/spawnkit/internal/model"
)

// Config holds reference world settings.
type Config struct {
	CollisionRadius float64 `yaml:"collision_radius"` // 0 disables placement checks
	MaxObjects      int     `yaml:"max_objects"`      // 0 means unlimited
	Lifetime        float64 `yaml:"lifetime"`         // seconds; 0 means instances live forever
}

// Instance is a spawned object owned by the world.
type Instance struct {
	Handle     model.InstanceHandle
	Prototype  model.PrototypeID
	Transform  model.Transform
	Age        float64
	Destroying bool
}

// World is an in-memory host for spawners.
//
// Instances past their lifetime are first marked destroying and removed on
// the following Step, so spawners observe both states.
type World struct {
	cfg      Config
	cellSize float64
	ids      *HandleGenerator

	mu        sync.RWMutex
	instances map[model.InstanceHandle]*Instance
	regions   map[cellKey]*region
}

// New creates world
func New(cfg Config) *World {
	cellSize := DefaultCellSize
	if cfg.CollisionRadius > 0 {
		cellSize = cfg.CollisionRadius
	}
	return &World{
		cfg:       cfg,
		cellSize:  cellSize,
		ids:       NewHandleGenerator(),
		instances: make(map[model.InstanceHandle]*Instance),
		regions:   make(map[cellKey]*region),
	}
}

// SpawnInstance creates instance of proto.
// Refuses when the object limit is reached or another live instance is
// closer than the collision radius.
func (w *World) SpawnInstance(proto model.PrototypeID, pos model.Location, rot model.Rotator) (model.InstanceHandle, bool) {
	w.mu.Lock()
	defer w.mu.Unlock()

	if w.cfg.MaxObjects > 0 && len(w.instances) >= w.cfg.MaxObjects {
		slog.Debug("world full, spawn refused", "prototype", proto, "objects", len(w.instances))
		return model.InvalidHandle, false
	}
	if w.cfg.CollisionRadius > 0 && w.collides(pos) {
		slog.Debug("placement collides, spawn refused", "prototype", proto, "position", pos)
		return model.InvalidHandle, false
	}

	inst := &Instance{
		Handle:    w.ids.Next(),
		Prototype: proto,
		Transform: model.NewTransform(pos, rot),
	}
	w.instances[inst.Handle] = inst

	key := cellOf(pos, w.cellSize)
	r, ok := w.regions[key]
	if !ok {
		r = newRegion()
		w.regions[key] = r
	}
	r.add(inst.Handle)

	return inst.Handle, true
}

// collides reports whether a live instance lies within collision radius of pos.
// Caller must hold w.mu.
func (w *World) collides(pos model.Location) bool {
	limit := w.cfg.CollisionRadius * w.cfg.CollisionRadius
	hit := false
	for _, key := range cellOf(pos, w.cellSize).surrounding() {
		r, ok := w.regions[key]
		if !ok {
			continue
		}
		r.forEach(func(h model.InstanceHandle) bool {
			inst := w.instances[h]
			if inst.Destroying {
				return true
			}
			if model.DistanceSquared(inst.Transform.Position, pos) < limit {
				hit = true
				return false
			}
			return true
		})
		if hit {
			return true
		}
	}
	return false
}

// IsAlive implements spawn.LivenessProbe
func (w *World) IsAlive(h model.InstanceHandle) bool {
	w.mu.RLock()
	defer w.mu.RUnlock()
	_, ok := w.instances[h]
	return ok
}

// IsDestroying implements spawn.LivenessProbe
func (w *World) IsDestroying(h model.InstanceHandle) bool {
	w.mu.RLock()
	defer w.mu.RUnlock()
	inst, ok := w.instances[h]
	return ok && inst.Destroying
}

// Destroy marks instance as being destroyed. It is removed on the next Step.
func (w *World) Destroy(h model.InstanceHandle) bool {
	w.mu.Lock()
	defer w.mu.Unlock()
	inst, ok := w.instances[h]
	if !ok || inst.Destroying {
		return false
	}
	inst.Destroying = true
	return true
}

// Remove deletes instance immediately
func (w *World) Remove(h model.InstanceHandle) {
	w.mu.Lock()
	defer w.mu.Unlock()
	w.removeLocked(h)
}

func (w *World) removeLocked(h model.InstanceHandle) {
	inst, ok := w.instances[h]
	if !ok {
		return
	}
	delete(w.instances, h)

	key := cellOf(inst.Transform.Position, w.cellSize)
	if r, ok := w.regions[key]; ok {
		r.remove(h)
		if r.empty() {
			delete(w.regions, key)
		}
	}
}

// Step ages instances by dt seconds: removes those already destroying and
// marks those past their lifetime as destroying.
// Returns number of removed instances.
func (w *World) Step(dt float64) int {
	w.mu.Lock()
	defer w.mu.Unlock()

	removed := 0
	for h, inst := range w.instances {
		if inst.Destroying {
			w.removeLocked(h)
			removed++
			continue
		}
		inst.Age += dt
		if w.cfg.Lifetime > 0 && inst.Age >= w.cfg.Lifetime {
			inst.Destroying = true
		}
	}
	return removed
}

// Instance returns copy of instance by handle
func (w *World) Instance(h model.InstanceHandle) (Instance, bool) {
	w.mu.RLock()
	defer w.mu.RUnlock()
	inst, ok := w.instances[h]
	if !ok {
		return Instance{}, false
	}
	return *inst, true
}

// Count returns number of instances not being destroyed
func (w *World) Count() int {
	w.mu.RLock()
	defer w.mu.RUnlock()
	n := 0
	for _, inst := range w.instances {
		if !inst.Destroying {
			n++
		}
	}
	return n
}

// ObjectCount returns number of instances including destroying ones
func (w *World) ObjectCount() int {
	w.mu.RLock()
	defer w.mu.RUnlock()
	return len(w.instances)
}
