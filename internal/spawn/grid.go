package spawn

import (
	"iter"
	"math"

	"github.com/udisondev/spawnkit/internal/model"
)

// gridEpsilon absorbs float error when counting lattice steps
const gridEpsilon = 1e-9

// maxGridAxisPoints caps one axis of the lattice. Fill stops at capacity long
// before this, the cap only keeps the float->int conversion in range.
const maxGridAxisPoints = math.MaxInt32

// gridAxis is one axis of the fill lattice: count points from lo to hi
type gridAxis struct {
	lo, hi float64
	count  int
}

// newGridAxis spans [-e+s, e-s]. An axis narrower than one spacing collapses to 0.
func newGridAxis(halfExtent, spacing float64) gridAxis {
	lo := -halfExtent + spacing
	hi := halfExtent - spacing
	if hi < lo {
		return gridAxis{count: 1}
	}
	steps := math.Floor((hi-lo)/spacing + gridEpsilon)
	if !(steps < maxGridAxisPoints) {
		steps = maxGridAxisPoints - 1
	}
	return gridAxis{
		lo:    lo,
		hi:    hi,
		count: int(steps) + 1,
	}
}

// GridOffsets yields fill offsets relative to the spawner anchor in serpentine order:
// X sweeps down from +x, Y alternates direction on every row, Z steps down one
// layer each time X is exhausted. The sequence ends when the lattice is exhausted.
// An axis whose half-extent is below the spacing (a zero extent included) is not
// skipped: it contributes the single coordinate 0, so a flat volume still gets one layer.
// Non-positive spacing yields nothing.
func GridOffsets(extent model.Extent, spacing float64) iter.Seq[model.Location] {
	return func(yield func(model.Location) bool) {
		if spacing <= 0 || math.IsNaN(spacing) {
			return
		}

		ax := newGridAxis(extent.X(), spacing)
		ay := newGridAxis(extent.Y(), spacing)
		az := newGridAxis(extent.Z(), spacing)

		row := 0
		for k := range az.count {
			z := az.hi - float64(k)*spacing
			for i := range ax.count {
				x := ax.hi - float64(i)*spacing
				for j := range ay.count {
					step := j
					if row%2 == 1 {
						step = ay.count - 1 - j
					}
					y := ay.lo + float64(step)*spacing
					if !yield(model.Location{x, y, z}) {
						return
					}
				}
				row++
			}
		}
	}
}

// GridCapacity returns number of lattice points for extent and spacing,
// saturating at math.MaxInt.
func GridCapacity(extent model.Extent, spacing float64) int {
	if spacing <= 0 || math.IsNaN(spacing) {
		return 0
	}
	n := 1
	for _, e := range extent {
		n = saturatingMul(n, newGridAxis(e, spacing).count)
	}
	return n
}

func saturatingMul(a, b int) int {
	if a != 0 && b > math.MaxInt/a {
		return math.MaxInt
	}
	return a * b
}
