package spawn

import (
	"slices"

	"github.com/udisondev/spawnkit/internal/model"
)

// Population tracks instances spawned by one controller.
// It holds non-owning handles only; the host owns instance lifetime.
type Population struct {
	capacity int
	live     []model.InstanceHandle
}

// NewPopulation creates tracker with capacity cap
func NewPopulation(capacity int) *Population {
	return &Population{
		capacity: capacity,
		live:     make([]model.InstanceHandle, 0, capacity),
	}
}

// Reclaim drops every handle the probe reports gone or being destroyed.
// Survivors keep their relative order. Returns number of removed handles.
func (p *Population) Reclaim(probe LivenessProbe) int {
	before := len(p.live)
	p.live = slices.DeleteFunc(p.live, func(h model.InstanceHandle) bool {
		return !probe.IsAlive(h) || probe.IsDestroying(h)
	})
	return before - len(p.live)
}

// HasCapacity reports len(live) < capacity
func (p *Population) HasCapacity() bool {
	return len(p.live) < p.capacity
}

// Free returns how many instances fit before the cap
func (p *Population) Free() int {
	return max(p.capacity-len(p.live), 0)
}

// Track records a new handle. Already tracked handles are ignored.
func (p *Population) Track(h model.InstanceHandle) bool {
	if slices.Contains(p.live, h) {
		return false
	}
	p.live = append(p.live, h)
	return true
}

// Len returns number of tracked handles
func (p *Population) Len() int {
	return len(p.live)
}

// Capacity returns population cap
func (p *Population) Capacity() int {
	return p.capacity
}

// Handles returns copy of tracked handles in spawn order
func (p *Population) Handles() []model.InstanceHandle {
	return slices.Clone(p.live)
}
