package psf

import (
	"errors"
	"math"
	"testing"
)

func TestGaussianCenteredAndNormalized(t *testing.T) {
	g, err := Gaussian([]int{16, 12, 8}, 1.5, 2, 3)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if math.Abs(g.Sum()-1) > 1e-12 {
		t.Fatalf("sum = %v, want 1", g.Sum())
	}
	if g.At(8, 6, 4) != g.Max() {
		t.Fatalf("peak not at center")
	}
	// Symmetric around the center along x.
	if math.Abs(g.At(7, 6, 4)-g.At(9, 6, 4)) > 1e-15 {
		t.Fatalf("not symmetric: %v vs %v", g.At(7, 6, 4), g.At(9, 6, 4))
	}
	// Wider sigma on z decays slower than x.
	if g.At(8, 6, 5) <= g.At(9, 6, 4) {
		t.Fatalf("z profile should be wider than x")
	}
}

func TestGaussianErrors(t *testing.T) {
	tests := []struct {
		name   string
		dims   []int
		sigmas []float64
	}{
		{"zero sigma", []int{8}, []float64{0}},
		{"nan sigma", []int{8, 8}, []float64{1, math.NaN()}},
		{"sigma count", []int{8, 8, 8}, []float64{1, 2}},
		{"no sigma", []int{8}, nil},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := Gaussian(tt.dims, tt.sigmas...)
			if !errors.Is(err, ErrInvalidSigma) {
				t.Fatalf("expected ErrInvalidSigma, got %v", err)
			}
		})
	}
}

func TestCenterToOriginRoundTrip(t *testing.T) {
	g, err := Gaussian([]int{9, 8}, 1)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	o, err := CenterToOrigin(g)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if o.At(0, 0) != g.At(4, 4) {
		t.Fatalf("origin = %v, want center %v", o.At(0, 0), g.At(4, 4))
	}

	back, err := ToCentered(o)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	for i, v := range back.Data() {
		if v != g.Data()[i] {
			t.Fatalf("sample %d = %v, want %v", i, v, g.Data()[i])
		}
	}
}

func TestPad(t *testing.T) {
	small, err := Gaussian([]int{5, 5}, 1)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	p, err := Pad(small, 16, 16)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if p.At(0, 0) != small.At(2, 2) {
		t.Fatalf("origin = %v, want %v", p.At(0, 0), small.At(2, 2))
	}
	if p.At(15, 0) != small.At(1, 2) {
		t.Fatalf("wrapped neighbour = %v, want %v", p.At(15, 0), small.At(1, 2))
	}
	if math.Abs(p.Sum()-1) > 1e-12 {
		t.Fatalf("sum = %v, want 1", p.Sum())
	}

	if _, err := Pad(small, 4, 16); !errors.Is(err, ErrPSFTooLarge) {
		t.Fatalf("expected ErrPSFTooLarge, got %v", err)
	}
}
