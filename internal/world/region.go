package world

import "github.com/udisondev/spawnkit/internal/model"

// region holds handles of instances whose position falls into one bucket
type region struct {
	handles map[model.InstanceHandle]struct{}
}

func newRegion() *region {
	return &region{handles: make(map[model.InstanceHandle]struct{})}
}

func (r *region) add(h model.InstanceHandle) {
	r.handles[h] = struct{}{}
}

func (r *region) remove(h model.InstanceHandle) {
	delete(r.handles, h)
}

func (r *region) empty() bool {
	return len(r.handles) == 0
}

// forEach calls fn for every handle; stops when fn returns false
func (r *region) forEach(fn func(model.InstanceHandle) bool) {
	for h := range r.handles {
		if !fn(h) {
			return
		}
	}
}
