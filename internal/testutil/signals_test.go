package testutil

import (
	"math"
	"testing"
)

func TestDeterministicNoiseReproducible(t *testing.T) {
	a := DeterministicNoise(42, 0.5, 100)
	b := DeterministicNoise(42, 0.5, 100)
	for i := range a {
		if a[i] != b[i] {
			t.Fatalf("non-deterministic at index %d", i)
		}
		if math.Abs(a[i]) > 0.5 {
			t.Fatalf("a[%d] = %v out of range", i, a[i])
		}
	}
}

func TestRandomGridRange(t *testing.T) {
	g := RandomGrid(7, 1, 2, 8, 4)
	for i, v := range g.Data() {
		if v < 1 || v >= 2 {
			t.Fatalf("sample %d = %v out of [1,2)", i, v)
		}
	}
}

func TestBeads(t *testing.T) {
	g := Beads([]int{8, 8, 4}, 0.1, 5, []int{1, 2, 3}, []int{4, 4, 0})
	if got := g.At(1, 2, 3); math.Abs(got-5.1) > 1e-12 {
		t.Fatalf("bead = %v, want 5.1", got)
	}
	if got := g.At(0, 0, 0); got != 0.1 {
		t.Fatalf("background = %v, want 0.1", got)
	}
}

func TestGaussianKernel(t *testing.T) {
	g := GaussianKernel(1.5, 16, 16)
	if math.Abs(g.Sum()-1) > 1e-12 {
		t.Fatalf("sum = %v, want 1", g.Sum())
	}
	if g.At(0, 0) != g.Max() {
		t.Fatalf("peak is not at the origin")
	}
	// Periodic symmetry: distance 1 and distance -1 match.
	if math.Abs(g.At(1, 0)-g.At(15, 0)) > 1e-15 {
		t.Fatalf("kernel not symmetric: %v vs %v", g.At(1, 0), g.At(15, 0))
	}
}
