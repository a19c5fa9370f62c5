package model

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDefaultSpawnerConfig(t *testing.T) {
	cfg := DefaultSpawnerConfig()

	assert.True(t, cfg.Active)
	assert.True(t, cfg.SpawnInOrder)
	assert.False(t, cfg.SpawnAllAtOnce)
	assert.Equal(t, DefaultCapacity, cfg.Capacity)
	assert.Equal(t, DefaultInterval, cfg.Interval)
	assert.Equal(t, Extent{100, 100, 100}, cfg.Extent)
	assert.Empty(t, cfg.Prototypes)
	require.NoError(t, cfg.Validate())
}

func TestSpawnerConfig_Validate(t *testing.T) {
	tests := []struct {
		name    string
		mutate  func(c *SpawnerConfig)
		wantErr error
	}{
		{
			name:   "defaults",
			mutate: func(c *SpawnerConfig) {},
		},
		{
			name:   "empty prototypes are allowed",
			mutate: func(c *SpawnerConfig) { c.Prototypes = nil },
		},
		{
			name:    "zero capacity",
			mutate:  func(c *SpawnerConfig) { c.Capacity = 0 },
			wantErr: ErrInvalidCapacity,
		},
		{
			name:    "negative extent",
			mutate:  func(c *SpawnerConfig) { c.Extent = Extent{10, -1, 10} },
			wantErr: ErrNegativeExtent,
		},
		{
			name:    "negative fixed interval",
			mutate:  func(c *SpawnerConfig) { c.Interval = -0.5 },
			wantErr: ErrInvalidInterval,
		},
		{
			name: "inverted random interval",
			mutate: func(c *SpawnerConfig) {
				c.RandomInterval = true
				c.MinInterval = 3
				c.MaxInterval = 1
			},
			wantErr: ErrInvalidInterval,
		},
		{
			name: "negative interval ignored in random mode",
			mutate: func(c *SpawnerConfig) {
				c.Interval = -1
				c.RandomInterval = true
				c.MinInterval = 1
				c.MaxInterval = 2
			},
		},
		{
			name: "grid without spacing",
			mutate: func(c *SpawnerConfig) {
				c.GridFill = true
				c.GridSpacing = 0
			},
			wantErr: ErrInvalidSpacing,
		},
		{
			name:   "spacing ignored outside grid mode",
			mutate: func(c *SpawnerConfig) { c.GridSpacing = 0 },
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := DefaultSpawnerConfig()
			cfg.ID = "test"
			tt.mutate(&cfg)

			err := cfg.Validate()
			if tt.wantErr == nil {
				assert.NoError(t, err)
				return
			}
			assert.ErrorIs(t, err, tt.wantErr)
		})
	}
}

func TestSpawnerConfig_Mode(t *testing.T) {
	cfg := DefaultSpawnerConfig()
	assert.Equal(t, "trickle", cfg.Mode())

	cfg.SpawnAllAtOnce = true
	assert.Equal(t, "batch", cfg.Mode())

	cfg.GridFill = true
	assert.Equal(t, "grid", cfg.Mode())
}

func TestPrototypeID_IsNull(t *testing.T) {
	assert.True(t, PrototypeID("").IsNull())
	assert.False(t, PrototypeID("wolf").IsNull())
}
