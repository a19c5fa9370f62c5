package spawn

import (
	"math"

	"github.com/udisondev/spawnkit/internal/model"
)

// Gate is the trickle timing gate: a countdown that flips a ready flag.
//
// Waiting -> Ready when the countdown reaches zero; Ready -> Waiting when the
// controller consumes the flag after one spawn attempt.
type Gate struct {
	rng Rand

	interval  float64
	random    bool
	min, max  float64
	remaining float64
	ready     bool
}

// NewGate creates a gate for the config's interval settings.
// The countdown is empty until Reset.
func NewGate(cfg *model.SpawnerConfig, rng Rand) *Gate {
	return &Gate{
		rng:      rng,
		interval: cfg.Interval,
		random:   cfg.RandomInterval,
		min:      cfg.MinInterval,
		max:      cfg.MaxInterval,
	}
}

// Reset samples the first interval and clears ready
func (g *Gate) Reset() {
	g.remaining = g.sample()
	g.ready = false
}

// Advance decrements the countdown by dt seconds while waiting.
// When it reaches zero a fresh interval is sampled (overshoot is discarded)
// and the gate becomes ready. Non-finite or negative dt is ignored so a bad
// frame can't freeze or rewind the countdown. Returns the ready state.
func (g *Gate) Advance(dt float64) bool {
	if g.ready {
		return true
	}
	if dt < 0 || math.IsNaN(dt) || math.IsInf(dt, 0) {
		return false
	}

	g.remaining -= dt
	if g.remaining <= 0 {
		g.remaining = g.sample()
		g.ready = true
	}
	return g.ready
}

// Ready reports whether a spawn attempt may happen this step
func (g *Gate) Ready() bool {
	return g.ready
}

// Consume returns the gate to waiting
func (g *Gate) Consume() {
	g.ready = false
}

// Remaining returns seconds left in the current countdown
func (g *Gate) Remaining() float64 {
	return g.remaining
}

func (g *Gate) sample() float64 {
	if g.random {
		if g.max <= g.min {
			return g.min
		}
		return uniform(g.rng, g.min, g.max)
	}
	return g.interval
}
