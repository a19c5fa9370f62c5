package world

import (
	"sync/atomic"

	"github.com/udisondev/spawnkit/internal/model"
)

// HandleGenerator generates unique instance handles.
// Handle 0 is reserved as model.InvalidHandle.
type HandleGenerator struct {
	next atomic.Uint32
}

// NewHandleGenerator creates generator starting at 1
func NewHandleGenerator() *HandleGenerator {
	return &HandleGenerator{}
}

// Next returns next unique handle.
// Thread-safe via atomic increment.
func (g *HandleGenerator) Next() model.InstanceHandle {
	return model.InstanceHandle(g.next.Add(1))
}
