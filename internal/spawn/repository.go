package spawn

import (
	"context"

	"github.com/udisondev/spawnkit/internal/model"
)

// SpawnerRepository loads spawner definitions
type SpawnerRepository interface {
	LoadAll(ctx context.Context) ([]model.SpawnerConfig, error)
}

// StaticRepository implements SpawnerRepository over an in-memory list
// (YAML config, tests).
type StaticRepository []model.SpawnerConfig

// LoadAll returns copy of the list
func (r StaticRepository) LoadAll(_ context.Context) ([]model.SpawnerConfig, error) {
	out := make([]model.SpawnerConfig, len(r))
	copy(out, r)
	return out, nil
}
