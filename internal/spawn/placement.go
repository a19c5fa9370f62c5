package spawn

import "github.com/udisondev/spawnkit/internal/model"

// Placement chooses where and how the next instance is oriented.
type Placement struct {
	anchor model.Transform
	extent model.Extent
	loc    model.AxisFlags
	rot    model.RotationFlags
	rng    Rand
}

// NewPlacement creates placement chooser for the config
func NewPlacement(cfg *model.SpawnerConfig, rng Rand) *Placement {
	return &Placement{
		anchor: cfg.Anchor,
		extent: cfg.Extent,
		loc:    cfg.RandomLocation,
		rot:    cfg.RandomRotation,
		rng:    rng,
	}
}

// Position returns anchor position jittered on every enabled axis by a
// uniform offset in [-extent, +extent]. A zero extent yields zero offset.
func (p *Placement) Position() model.Location {
	pos := p.anchor.Position
	enabled := [3]bool{p.loc.X, p.loc.Y, p.loc.Z}
	for axis, on := range enabled {
		if !on || p.extent[axis] == 0 {
			continue
		}
		pos[axis] += uniform(p.rng, -p.extent[axis], p.extent[axis])
	}
	return pos
}

// Orientation returns anchor rotation where every enabled axis is replaced
// (not offset) by a uniform angle in [0, 360).
func (p *Placement) Orientation() model.Rotator {
	rot := p.anchor.Rotation
	if p.rot.Yaw {
		rot.Yaw = uniform(p.rng, 0, 360)
	}
	if p.rot.Pitch {
		rot.Pitch = uniform(p.rng, 0, 360)
	}
	if p.rot.Roll {
		rot.Roll = uniform(p.rng, 0, 360)
	}
	return rot
}

// Anchor returns the spawner transform
func (p *Placement) Anchor() model.Transform {
	return p.anchor
}
