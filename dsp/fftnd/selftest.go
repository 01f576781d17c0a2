package fftnd

import (
	"fmt"
	"math"
	"math/cmplx"

	"github.com/cwbudde/algo-vecmath/cpu"
)

// SelfTestTolerance is the relative error bound a passing self-test stays under.
const SelfTestTolerance = 1e-9

// maxDFTCheck bounds the size of the O(N^2) reference DFT comparison.
const maxDFTCheck = 64 * 64

// Report summarizes a self-test run.
type Report struct {
	Width  int
	Height int

	// RoundTripMaxErr is max |x - Inverse(Forward(x))| relative to max |x|.
	RoundTripMaxErr float64

	// DFTMaxErr is max |X - DFT(x)| relative to max |X|.
	// Only meaningful when DFTChecked is true.
	DFTMaxErr  float64
	DFTChecked bool

	// ParsevalRelErr is |N*sum|x|^2 - sum|X|^2| / (N*sum|x|^2).
	ParsevalRelErr float64

	Features cpu.Features
	Passed   bool
}

// SelfTest transforms a deterministic width-by-height image forward and back
// and checks the result against a direct DFT, Parseval's theorem and the
// original input.
func SelfTest(width, height int, opts ...Option) (Report, error) {
	r := Report{Width: width, Height: height, Features: cpu.DetectFeatures()}

	p, err := NewPlan([]int{width, height}, opts...)
	if err != nil {
		return r, err
	}

	n := width * height
	x := make([]complex128, n)
	for y := range height {
		for xi := range width {
			fx := float64(xi) / float64(width)
			fy := float64(y) / float64(height)
			v := math.Sin(2*math.Pi*3*fx) + 0.5*math.Cos(2*math.Pi*fy) + 0.25*fx*fy
			x[xi+y*width] = complex(v, 0)
		}
	}

	spec := make([]complex128, n)
	if err := p.Forward(spec, x); err != nil {
		return r, fmt.Errorf("fftnd: self-test forward: %w", err)
	}

	if n <= maxDFTCheck {
		ref := dft2D(x, width, height)
		r.DFTMaxErr = maxRelDiff(spec, ref)
		r.DFTChecked = true
	}

	power := make([]float64, n)
	PowerSpectrum(power, spec)
	var timeEnergy, freqEnergy float64
	for i := range x {
		timeEnergy += real(x[i]) * real(x[i])
		freqEnergy += power[i]
	}
	timeEnergy *= float64(n)
	if timeEnergy > 0 {
		r.ParsevalRelErr = math.Abs(timeEnergy-freqEnergy) / timeEnergy
	}

	back := make([]complex128, n)
	if err := p.Inverse(back, spec); err != nil {
		return r, fmt.Errorf("fftnd: self-test inverse: %w", err)
	}
	r.RoundTripMaxErr = maxRelDiff(back, x)

	r.Passed = r.RoundTripMaxErr < SelfTestTolerance &&
		r.ParsevalRelErr < SelfTestTolerance &&
		(!r.DFTChecked || r.DFTMaxErr < SelfTestTolerance)

	return r, nil
}

// dft2D is the direct O(N^2) reference transform.
func dft2D(x []complex128, w, h int) []complex128 {
	out := make([]complex128, len(x))
	for v := range h {
		for u := range w {
			var sum complex128
			for y := range h {
				for xi := range w {
					phase := -2 * math.Pi * (float64(u*xi)/float64(w) + float64(v*y)/float64(h))
					sum += x[xi+y*w] * cmplx.Exp(complex(0, phase))
				}
			}
			out[u+v*w] = sum
		}
	}
	return out
}

func maxRelDiff(got, want []complex128) float64 {
	var maxDiff, maxRef float64
	for i := range got {
		maxDiff = math.Max(maxDiff, cmplx.Abs(got[i]-want[i]))
		maxRef = math.Max(maxRef, cmplx.Abs(want[i]))
	}
	if maxRef == 0 {
		return maxDiff
	}
	return maxDiff / maxRef
}
