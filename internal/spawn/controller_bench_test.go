package spawn

import (
	"math/rand/v2"
	"testing"

	"github.com/udisondev/spawnkit/internal/model"
)

// BenchmarkController_Step measures one trickle step with a full population
// where a tenth of the instances die every step.
func BenchmarkController_Step(b *testing.B) {
	host := newMockHost()
	cfg := testConfig("bench", "a", "b", "c")
	cfg.Interval = 0
	cfg.Capacity = 256
	cfg.RandomLocation = model.AxisFlags{X: true, Y: true, Z: true}

	c, err := New(cfg, host, WithRand(rand.New(rand.NewPCG(1, 1))), WithDiagnostics(&recordingDiagnostics{}))
	if err != nil {
		b.Fatal(err)
	}
	c.Activate()

	b.ReportAllocs()
	i := 0
	for b.Loop() {
		c.Step(0.016)
		if i%10 == 0 {
			for _, h := range c.Handles()[:c.Live()/10] {
				host.kill(h)
			}
		}
		i++
	}
}

// BenchmarkGridOffsets measures a full walk of a 19x19x19 lattice.
func BenchmarkGridOffsets(b *testing.B) {
	extent := model.Extent{1000, 1000, 1000}

	b.ReportAllocs()
	for b.Loop() {
		n := 0
		for range GridOffsets(extent, 100) {
			n++
		}
		if n != 6859 {
			b.Fatalf("points = %d, want 6859", n)
		}
	}
}
