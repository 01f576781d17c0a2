package testutil

import (
	"math"
	"math/rand"

	"github.com/cwbudde/algo-deconv/dsp/grid"
)

// DeterministicNoise generates uniform noise in [-amplitude, amplitude] with a
// fixed seed for reproducibility.
func DeterministicNoise(seed int64, amplitude float64, length int) []float64 {
	out := make([]float64, length)
	rng := rand.New(rand.NewSource(seed))
	for i := range out {
		out[i] = (rng.Float64()*2 - 1) * amplitude
	}
	return out
}

// RandomGrid returns a grid of uniform noise in [lo, hi).
func RandomGrid(seed int64, lo, hi float64, dims ...int) *grid.Grid {
	g := grid.MustNew(dims...)
	rng := rand.New(rand.NewSource(seed))
	for i := range g.Data() {
		g.Data()[i] = lo + rng.Float64()*(hi-lo)
	}
	return g
}

// Impulse returns a grid with a single 1 at pos.
func Impulse(dims []int, pos ...int) *grid.Grid {
	g := grid.MustNew(dims...)
	g.Set(1, pos...)
	return g
}

// Beads returns a phantom of bright points at the given positions on a
// constant background. Every bead has the given amplitude.
func Beads(dims []int, background, amplitude float64, positions ...[]int) *grid.Grid {
	g := grid.MustNew(dims...)
	g.Fill(background)
	for _, p := range positions {
		g.Set(background+amplitude, p...)
	}
	return g
}

// GaussianKernel returns an origin-centered periodic Gaussian with the given
// sigma on every axis, normalized to sum 1. Distances wrap around the grid.
func GaussianKernel(sigma float64, dims ...int) *grid.Grid {
	g := grid.MustNew(dims...)
	d := [3]int{1, 1, 1}
	copy(d[:], dims)

	wrap := func(p, n int) float64 {
		if p > n/2 {
			p -= n
		}
		return float64(p)
	}

	for z := range d[2] {
		dz := wrap(z, d[2])
		for y := range d[1] {
			dy := wrap(y, d[1])
			for x := range d[0] {
				dx := wrap(x, d[0])
				r2 := dx*dx + dy*dy + dz*dz
				g.Data()[x+d[0]*(y+d[1]*z)] = math.Exp(-r2 / (2 * sigma * sigma))
			}
		}
	}

	if err := g.Normalize(); err != nil {
		panic(err)
	}
	return g
}
