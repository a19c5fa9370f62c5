package world

import (
	"math"

	"github.com/udisondev/spawnkit/internal/model"
)

// DefaultCellSize is the bucket size when no collision radius is set
const DefaultCellSize = 2048.0

// cellKey indexes one cubic bucket of the world
type cellKey struct {
	x, y, z int32
}

// cellOf converts world position to bucket index
func cellOf(pos model.Location, size float64) cellKey {
	return cellKey{
		x: int32(math.Floor(pos.X() / size)),
		y: int32(math.Floor(pos.Y() / size)),
		z: int32(math.Floor(pos.Z() / size)),
	}
}

// surrounding returns the 3×3×3 window of buckets around k (including k)
func (k cellKey) surrounding() []cellKey {
	keys := make([]cellKey, 0, 27)
	for dx := int32(-1); dx <= 1; dx++ {
		for dy := int32(-1); dy <= 1; dy++ {
			for dz := int32(-1); dz <= 1; dz++ {
				keys = append(keys, cellKey{k.x + dx, k.y + dy, k.z + dz})
			}
		}
	}
	return keys
}
