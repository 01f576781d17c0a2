package fftnd

import (
	"errors"
	"math"
	"testing"

	"github.com/cwbudde/algo-deconv/internal/testutil"
)

func randomComplex(seed int64, n int) []complex128 {
	re := testutil.DeterministicNoise(seed, 1, n)
	im := testutil.DeterministicNoise(seed+1, 1, n)
	out := make([]complex128, n)
	for i := range out {
		out[i] = complex(re[i], im[i])
	}
	return out
}

func TestForwardMatchesDFT(t *testing.T) {
	const w, h = 8, 4

	p, err := NewPlan([]int{w, h})
	if err != nil {
		t.Fatalf("NewPlan: %v", err)
	}

	x := randomComplex(1, w*h)
	got := make([]complex128, w*h)
	if err := p.Forward(got, x); err != nil {
		t.Fatalf("Forward: %v", err)
	}

	testutil.RequireComplexNearlyEqual(t, got, dft2D(x, w, h), 1e-10)
}

func TestRoundTrip(t *testing.T) {
	tests := []struct {
		name string
		dims []int
	}{
		{"1d", []int{64}},
		{"2d", []int{16, 32}},
		{"3d", []int{8, 16, 4}},
		{"3d unit axis", []int{8, 1, 4}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			p, err := NewPlan(tt.dims)
			if err != nil {
				t.Fatalf("NewPlan: %v", err)
			}

			x := randomComplex(3, p.Len())
			buf := make([]complex128, p.Len())
			copy(buf, x)

			if err := p.Forward(buf, buf); err != nil {
				t.Fatalf("Forward: %v", err)
			}
			if err := p.Inverse(buf, buf); err != nil {
				t.Fatalf("Inverse: %v", err)
			}

			testutil.RequireComplexNearlyEqual(t, buf, x, 1e-12)
		})
	}
}

func TestImpulseSpectrumIsFlat(t *testing.T) {
	p, err := NewPlan([]int{4, 4, 4})
	if err != nil {
		t.Fatalf("NewPlan: %v", err)
	}

	x := make([]complex128, p.Len())
	x[0] = 1
	if err := p.Forward(x, x); err != nil {
		t.Fatalf("Forward: %v", err)
	}

	for i, v := range x {
		if math.Abs(real(v)-1) > 1e-12 || math.Abs(imag(v)) > 1e-12 {
			t.Fatalf("bin %d = %v, want 1", i, v)
		}
	}
}

func TestWorkersAgree(t *testing.T) {
	dims := []int{32, 32, 16}

	single, err := NewPlan(dims, WithWorkers(1))
	if err != nil {
		t.Fatalf("NewPlan: %v", err)
	}
	multi, err := NewPlan(dims, WithWorkers(4))
	if err != nil {
		t.Fatalf("NewPlan: %v", err)
	}
	if multi.Workers() != 4 {
		t.Fatalf("Workers = %d, want 4", multi.Workers())
	}

	x := randomComplex(5, single.Len())
	a := make([]complex128, len(x))
	b := make([]complex128, len(x))
	if err := single.Forward(a, x); err != nil {
		t.Fatalf("Forward: %v", err)
	}
	if err := multi.Forward(b, x); err != nil {
		t.Fatalf("Forward: %v", err)
	}

	testutil.RequireComplexNearlyEqual(t, b, a, 1e-12)
}

func TestWorkersClampedForSmallPlans(t *testing.T) {
	p, err := NewPlan([]int{8, 8}, WithWorkers(32))
	if err != nil {
		t.Fatalf("NewPlan: %v", err)
	}
	if p.Workers() != 1 {
		t.Fatalf("Workers = %d, want 1", p.Workers())
	}
}

func TestPlanErrors(t *testing.T) {
	if _, err := NewPlan(nil); !errors.Is(err, ErrInvalidDims) {
		t.Errorf("expected ErrInvalidDims, got %v", err)
	}
	if _, err := NewPlan([]int{8}, WithWorkers(0)); !errors.Is(err, ErrInvalidWorkers) {
		t.Errorf("expected ErrInvalidWorkers, got %v", err)
	}

	p, err := NewPlan([]int{8})
	if err != nil {
		t.Fatalf("NewPlan: %v", err)
	}
	if err := p.Forward(make([]complex128, 8), make([]complex128, 4)); !errors.Is(err, ErrLengthMismatch) {
		t.Errorf("expected ErrLengthMismatch, got %v", err)
	}
}

func TestPowerSpectrum(t *testing.T) {
	spec := []complex128{complex(3, 4), complex(0, -2), 0}
	got := make([]float64, len(spec))
	PowerSpectrum(got, spec)
	testutil.RequireSliceNearlyEqual(t, got, []float64{25, 4, 0}, 1e-12)
}

func TestNextFastSize(t *testing.T) {
	tests := []struct{ in, want int }{{0, 1}, {1, 1}, {2, 2}, {3, 4}, {17, 32}, {64, 64}}
	for _, tt := range tests {
		if got := NextFastSize(tt.in); got != tt.want {
			t.Errorf("NextFastSize(%d) = %d, want %d", tt.in, got, tt.want)
		}
	}
}

func TestSelfTest(t *testing.T) {
	r, err := SelfTest(16, 8)
	if err != nil {
		t.Fatalf("SelfTest: %v", err)
	}
	if !r.DFTChecked {
		t.Fatal("expected DFT comparison for a 16x8 image")
	}
	if !r.Passed {
		t.Fatalf("self-test failed: %+v", r)
	}
}

func BenchmarkForward3D(b *testing.B) {
	p, err := NewPlan([]int{64, 64, 32})
	if err != nil {
		b.Fatalf("NewPlan: %v", err)
	}
	x := randomComplex(9, p.Len())

	b.ResetTimer()
	for range b.N {
		if err := p.Forward(x, x); err != nil {
			b.Fatal(err)
		}
	}
}
