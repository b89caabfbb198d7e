// Package heatmap accumulates hit offsets on a circular grid.
package heatmap

import "math"

// Defaults used when the caller does not configure the accumulator.
const (
	DefaultSize        = 64
	DefaultSplatRadius = 4
	DefaultScale       = 255

	epsilon = 1e-9
)

// Accumulator holds floating point weights for an N x N grid that covers the
// normalized target disk [-1,1] x [-1,1]. It is owned by a single run.
type Accumulator struct {
	size        int
	splatRadius int
	sigma       float64
	weights     []float64
	hits        int
}

// New returns an accumulator with side size and the given splat radius in cells.
// Non-positive arguments fall back to the defaults.
func New(size, splatRadius int) *Accumulator {
	if size <= 1 {
		size = DefaultSize
	}
	if splatRadius <= 0 {
		splatRadius = DefaultSplatRadius
	}
	return &Accumulator{
		size:        size,
		splatRadius: splatRadius,
		sigma:       float64(splatRadius) / 2,
		weights:     make([]float64, size*size),
	}
}

// Size returns the grid side.
func (a *Accumulator) Size() int { return a.size }

// Hits returns the number of recorded (accepted) hits.
func (a *Accumulator) Hits() int { return a.hits }

// RecordHit splats a hit at normalized offset (nx, ny), where the target edge
// is at radius 1. Hits outside the unit disk are discarded and false is returned.
func (a *Accumulator) RecordHit(nx, ny float64) bool {
	if math.IsNaN(nx) || math.IsNaN(ny) || nx*nx+ny*ny > 1 {
		return false
	}
	gx := a.toGrid(nx)
	gy := a.toGrid(ny)
	r := a.splatRadius
	twoSigmaSq := 2 * a.sigma * a.sigma
	for dy := -r; dy <= r; dy++ {
		for dx := -r; dx <= r; dx++ {
			d2 := dx*dx + dy*dy
			if d2 > r*r {
				continue
			}
			cx, cy := gx+dx, gy+dy
			if cx < 0 || cy < 0 || cx >= a.size || cy >= a.size {
				continue
			}
			if !a.inDisk(cx, cy) {
				continue
			}
			a.weights[cy*a.size+cx] += math.Exp(-float64(d2) / twoSigmaSq)
		}
	}
	a.hits++
	return true
}

// Weight returns the accumulated weight at cell (x, y).
func (a *Accumulator) Weight(x, y int) float64 {
	if x < 0 || y < 0 || x >= a.size || y >= a.size {
		return 0
	}
	return a.weights[y*a.size+x]
}

// Reset clears all weights.
func (a *Accumulator) Reset() {
	for i := range a.weights {
		a.weights[i] = 0
	}
	a.hits = 0
}

// Snapshot quantizes the grid against its own maximum weight. The hottest cell
// maps to scale; an empty grid yields all zeros.
func (a *Accumulator) Snapshot(scale int) Snapshot {
	if scale <= 0 {
		scale = DefaultScale
	}
	maxW := epsilon
	for _, w := range a.weights {
		if w > maxW {
			maxW = w
		}
	}
	counts := make([]int, len(a.weights))
	for i, w := range a.weights {
		counts[i] = int(math.Round(w / maxW * float64(scale)))
	}
	return Snapshot{Width: a.size, Height: a.size, Scale: scale, Counts: counts}
}

func (a *Accumulator) toGrid(n float64) int {
	g := int(math.Round((n + 1) / 2 * float64(a.size-1)))
	if g < 0 {
		return 0
	}
	if g >= a.size {
		return a.size - 1
	}
	return g
}

func (a *Accumulator) toNorm(g int) float64 {
	return float64(g)/float64(a.size-1)*2 - 1
}

func (a *Accumulator) inDisk(x, y int) bool {
	nx, ny := a.toNorm(x), a.toNorm(y)
	return nx*nx+ny*ny <= 1
}
