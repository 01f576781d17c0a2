package imconv

import (
	"errors"
	"slices"
	"testing"

	"github.com/cwbudde/algo-deconv/dsp/grid"
	"github.com/cwbudde/algo-deconv/internal/testutil"
)

func TestDirect2D(t *testing.T) {
	img, _ := grid.FromSlice([]float64{
		1, 2,
		3, 4,
	}, 2, 2)
	kernel, _ := grid.FromSlice([]float64{
		1, 1,
		1, 1,
	}, 2, 2)

	out, err := Direct(img, kernel)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	want := []float64{
		1, 3, 2,
		4, 10, 6,
		3, 7, 4,
	}
	if !slices.Equal(out.Dims(), []int{3, 3}) {
		t.Fatalf("dims = %v, want [3 3]", out.Dims())
	}
	testutil.RequireSliceNearlyEqual(t, out.Data(), want, 1e-12)
}

func TestConvolveFFTMatchesDirect(t *testing.T) {
	tests := []struct {
		name   string
		img    []int
		kernel []int
	}{
		{"2d", []int{13, 9}, []int{5, 3}},
		{"2d kernel larger", []int{4, 6}, []int{7, 7}},
		{"3d", []int{9, 7, 5}, []int{3, 5, 3}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			img := testutil.RandomGrid(1, -1, 1, tt.img...)
			kernel := testutil.RandomGrid(2, 0, 1, tt.kernel...)

			want, err := Direct(img, kernel)
			if err != nil {
				t.Fatalf("Direct: %v", err)
			}
			got, err := ConvolveFFT(img, kernel, ModeFull)
			if err != nil {
				t.Fatalf("ConvolveFFT: %v", err)
			}

			if !slices.Equal(got.Dims(), want.Dims()) {
				t.Fatalf("dims = %v, want %v", got.Dims(), want.Dims())
			}
			testutil.RequireSliceNearlyEqual(t, got.Data(), want.Data(), 1e-10)
		})
	}
}

func TestConvolveModes(t *testing.T) {
	img := testutil.RandomGrid(3, 0, 1, 10, 8)
	kernel := testutil.RandomGrid(4, 0, 1, 5, 3)

	tests := []struct {
		mode Mode
		dims []int
	}{
		{ModeFull, []int{14, 10}},
		{ModeSame, []int{10, 8}},
		{ModeValid, []int{6, 6}},
	}

	full, err := Direct(img, kernel)
	if err != nil {
		t.Fatalf("Direct: %v", err)
	}

	for _, tt := range tests {
		t.Run(tt.mode.String(), func(t *testing.T) {
			out, err := Convolve(img, kernel, tt.mode)
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			if !slices.Equal(out.Dims(), tt.dims) {
				t.Fatalf("dims = %v, want %v", out.Dims(), tt.dims)
			}
		})
	}

	same, err := Convolve(img, kernel, ModeSame)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	// ModeSame starts at ((5-1)/2, (3-1)/2) in the full result.
	if got, want := same.At(0, 0), full.At(2, 1); absDiff(got, want) > 1e-10 {
		t.Fatalf("same(0,0) = %v, want %v", got, want)
	}

	valid, err := Convolve(img, kernel, ModeValid)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if got, want := valid.At(0, 0), full.At(4, 2); absDiff(got, want) > 1e-10 {
		t.Fatalf("valid(0,0) = %v, want %v", got, want)
	}
}

func TestCircularImpulseShifts(t *testing.T) {
	img := testutil.RandomGrid(5, 0, 1, 8, 4, 4)
	kernel := testutil.Impulse([]int{8, 4, 4}, 1, 0, 3)

	out, err := Circular(img, kernel)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	want, _ := grid.CircShift(img, 1, 0, 3)
	testutil.RequireSliceNearlyEqual(t, out.Data(), want.Data(), 1e-12)
}

func TestCircularPreservesFlux(t *testing.T) {
	img := testutil.RandomGrid(6, 0, 1, 16, 16)
	kernel := testutil.GaussianKernel(2, 16, 16)

	out, err := Circular(img, kernel)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if d := absDiff(out.Sum(), img.Sum()); d > 1e-9 {
		t.Fatalf("flux changed by %v", d)
	}
}

func TestCorrelateIsAdjoint(t *testing.T) {
	dims := []int{8, 8, 4}
	kernel := testutil.RandomGrid(7, 0, 1, dims...)
	x := testutil.RandomGrid(8, -1, 1, dims...)
	y := testutil.RandomGrid(9, -1, 1, dims...)

	c, err := NewConvolver(kernel)
	if err != nil {
		t.Fatalf("NewConvolver: %v", err)
	}

	hx := grid.MustNew(dims...)
	hty := grid.MustNew(dims...)
	if err := c.Convolve(hx, x); err != nil {
		t.Fatalf("Convolve: %v", err)
	}
	if err := c.Correlate(hty, y); err != nil {
		t.Fatalf("Correlate: %v", err)
	}

	lhs := dot(hx.Data(), y.Data())
	rhs := dot(x.Data(), hty.Data())
	if absDiff(lhs, rhs) > 1e-9 {
		t.Fatalf("<Hx,y> = %v, <x,H'y> = %v", lhs, rhs)
	}
}

func TestConvolverInPlace(t *testing.T) {
	kernel := testutil.GaussianKernel(1, 8, 8)
	img := testutil.RandomGrid(10, 0, 1, 8, 8)

	c, err := NewConvolver(kernel)
	if err != nil {
		t.Fatalf("NewConvolver: %v", err)
	}

	want := grid.MustNew(8, 8)
	if err := c.Convolve(want, img); err != nil {
		t.Fatalf("Convolve: %v", err)
	}
	if err := c.Convolve(img, img); err != nil {
		t.Fatalf("Convolve in place: %v", err)
	}
	testutil.RequireSliceNearlyEqual(t, img.Data(), want.Data(), 1e-12)
}

func TestSpectrumOfOriginImpulse(t *testing.T) {
	c, err := NewConvolver(testutil.Impulse([]int{4, 8}, 0, 0))
	if err != nil {
		t.Fatalf("NewConvolver: %v", err)
	}

	want := make([]complex128, 32)
	for i := range want {
		want[i] = 1
	}
	testutil.RequireComplexNearlyEqual(t, c.Spectrum(), want, 1e-12)

	// Spectrum returns a copy.
	c.Spectrum()[0] = 5
	if c.Spectrum()[0] != 1 {
		t.Fatal("Spectrum aliases the kernel spectrum")
	}

	if !slices.Equal(c.Dims(), []int{4, 8}) {
		t.Fatalf("Dims = %v", c.Dims())
	}
}

func TestConvolveFFTReusesPaddedGrids(t *testing.T) {
	img := testutil.RandomGrid(11, 0, 1, 9, 7)
	kernel := testutil.RandomGrid(12, 0, 1, 6, 5)

	want, err := Direct(img, kernel)
	if err != nil {
		t.Fatalf("Direct: %v", err)
	}

	// Pooled pad grids must come back zeroed between calls.
	for i := range 3 {
		got, err := ConvolveFFT(img, kernel, ModeFull)
		if err != nil {
			t.Fatalf("run %d: %v", i, err)
		}
		testutil.RequireSliceNearlyEqual(t, got.Data(), want.Data(), 1e-10)
	}
}

func TestErrors(t *testing.T) {
	a := grid.MustNew(4, 4)
	b := grid.MustNew(4, 2)
	c := grid.MustNew(4)

	if _, err := Circular(a, b); !errors.Is(err, ErrShapeMismatch) {
		t.Errorf("expected ErrShapeMismatch, got %v", err)
	}
	if _, err := Circular(nil, a); !errors.Is(err, ErrEmptyInput) {
		t.Errorf("expected ErrEmptyInput, got %v", err)
	}
	if _, err := Convolve(a, nil, ModeFull); !errors.Is(err, ErrEmptyKernel) {
		t.Errorf("expected ErrEmptyKernel, got %v", err)
	}
	if _, err := Convolve(a, c, ModeFull); !errors.Is(err, ErrRankMismatch) {
		t.Errorf("expected ErrRankMismatch, got %v", err)
	}

	conv, err := NewConvolver(a)
	if err != nil {
		t.Fatalf("NewConvolver: %v", err)
	}
	if err := conv.Convolve(b, b); !errors.Is(err, ErrShapeMismatch) {
		t.Errorf("expected ErrShapeMismatch, got %v", err)
	}
}

func TestParseMode(t *testing.T) {
	for _, m := range []Mode{ModeFull, ModeSame, ModeValid} {
		got, err := ParseMode(m.String())
		if err != nil || got != m {
			t.Errorf("ParseMode(%q) = %v, %v", m.String(), got, err)
		}
	}
	if _, err := ParseMode("circular"); err == nil {
		t.Error("expected error for unknown mode")
	}
}

func absDiff(a, b float64) float64 {
	if a > b {
		return a - b
	}
	return b - a
}

func dot(a, b []float64) float64 {
	var s float64
	for i := range a {
		s += a[i] * b[i]
	}
	return s
}
