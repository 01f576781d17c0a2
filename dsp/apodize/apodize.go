// Package apodize tapers image edges toward zero.
//
// FFT convolution treats images as periodic, so a bright edge wraps onto the
// opposite side and rings through deconvolution. Multiplying the image by a
// separable Tukey taper before transforming suppresses that discontinuity
// while leaving the interior untouched.
package apodize

import (
	"errors"
	"fmt"
	"math"

	"github.com/cwbudde/algo-vecmath"

	"github.com/cwbudde/algo-deconv/dsp/grid"
)

// ErrInvalidAlpha is returned for taper fractions outside [0, 1].
var ErrInvalidAlpha = errors.New("apodize: alpha must be in [0, 1]")

// Tukey returns symmetric Tukey (tapered cosine) coefficients of length n.
// alpha is the tapered fraction: 0 is rectangular, 1 is Hann.
func Tukey(n int, alpha float64) ([]float64, error) {
	if n <= 0 {
		return nil, fmt.Errorf("apodize: invalid length %d", n)
	}
	if alpha < 0 || alpha > 1 || math.IsNaN(alpha) {
		return nil, fmt.Errorf("%w: got %v", ErrInvalidAlpha, alpha)
	}

	out := make([]float64, n)
	if n == 1 {
		out[0] = 1
		return out, nil
	}

	for i := range out {
		out[i] = tukeyAt(float64(i)/float64(n-1), alpha)
	}
	return out, nil
}

func tukeyAt(x, alpha float64) float64 {
	if alpha <= 0 {
		return 1
	}

	if alpha >= 1 {
		return 0.5 * (1 - math.Cos(2*math.Pi*x))
	}

	a := alpha / 2
	switch {
	case x < a:
		return 0.5 * (1 + math.Cos(math.Pi*(2*x/alpha-1)))
	case x <= 1-a:
		return 1
	default:
		return 0.5 * (1 + math.Cos(math.Pi*(2*x/alpha-2/alpha+1)))
	}
}

// Apply multiplies g in place by a separable Tukey taper along every axis
// with extent greater than one.
func Apply(g *grid.Grid, alpha float64) error {
	nx, ny, nz := g.Dim(0), g.Dim(1), g.Dim(2)

	wx, err := Tukey(nx, alpha)
	if err != nil {
		return err
	}
	wy, err := Tukey(ny, alpha)
	if err != nil {
		return err
	}
	wz, err := Tukey(nz, alpha)
	if err != nil {
		return err
	}

	data := g.Data()
	for z := range nz {
		for y := range ny {
			row := data[(z*ny+y)*nx : (z*ny+y+1)*nx]
			if nx > 1 {
				vecmath.MulBlockInPlace(row, wx)
			}

			f := wy[y] * wz[z]
			if f == 1 {
				continue
			}
			for i := range row {
				row[i] *= f
			}
		}
	}

	return nil
}
