package spawn

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/udisondev/spawnkit/internal/model"
)

func TestPopulation_ReclaimPreservesOrder(t *testing.T) {
	host := newMockHost()
	p := NewPopulation(10)

	const a, b, c, d model.InstanceHandle = 1, 2, 3, 4
	for _, h := range []model.InstanceHandle{a, b, c, d} {
		host.alive[h] = true
		p.Track(h)
	}

	host.markDestroying(b)

	removed := p.Reclaim(host)

	assert.Equal(t, 1, removed)
	assert.Equal(t, []model.InstanceHandle{a, c, d}, p.Handles())
}

func TestPopulation_ReclaimDeadAndDestroying(t *testing.T) {
	host := newMockHost()
	p := NewPopulation(10)

	for h := model.InstanceHandle(1); h <= 6; h++ {
		host.alive[h] = true
		p.Track(h)
	}
	host.kill(1)
	host.markDestroying(3)
	host.kill(4)
	host.markDestroying(6)

	removed := p.Reclaim(host)

	assert.Equal(t, 4, removed)
	assert.Equal(t, []model.InstanceHandle{2, 5}, p.Handles())

	// second pass finds nothing
	assert.Zero(t, p.Reclaim(host))
}

func TestPopulation_HasCapacityIsStrict(t *testing.T) {
	p := NewPopulation(2)
	assert.True(t, p.HasCapacity())
	assert.Equal(t, 2, p.Free())

	p.Track(1)
	assert.True(t, p.HasCapacity())
	assert.Equal(t, 1, p.Free())

	p.Track(2)
	assert.False(t, p.HasCapacity(), "len == capacity means full")
	assert.Zero(t, p.Free())
}

func TestPopulation_TrackIsIdempotent(t *testing.T) {
	p := NewPopulation(3)

	assert.True(t, p.Track(7))
	assert.False(t, p.Track(7))
	assert.Equal(t, 1, p.Len())
}

func TestPopulation_HandlesReturnsCopy(t *testing.T) {
	p := NewPopulation(3)
	p.Track(1)

	hs := p.Handles()
	hs[0] = 99

	assert.Equal(t, []model.InstanceHandle{1}, p.Handles())
}
