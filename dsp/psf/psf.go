// Package psf builds point-spread functions for convolution and
// deconvolution.
//
// FFT-based routines expect the PSF center at index 0 with the rest of the
// kernel wrapped around the edges. [Gaussian] returns a PSF centered at
// dims/2 (convenient for display and file exchange); [CenterToOrigin] and
// [Pad] move it into the wrapped layout.
package psf

import (
	"errors"
	"fmt"
	"math"

	"github.com/cwbudde/algo-deconv/dsp/grid"
)

// Errors returned by psf functions.
var (
	ErrInvalidSigma = errors.New("psf: sigma must be positive")
	ErrPSFTooLarge  = errors.New("psf: psf larger than target")
)

// Gaussian returns a normalized Gaussian PSF centered at dims/2.
// sigmas gives the standard deviation per axis in samples; a single sigma
// applies to every axis.
func Gaussian(dims []int, sigmas ...float64) (*grid.Grid, error) {
	g, err := grid.New(dims...)
	if err != nil {
		return nil, err
	}

	s := [grid.MaxRank]float64{1, 1, 1}
	switch {
	case len(sigmas) == 1:
		for i := range dims {
			s[i] = sigmas[0]
		}
	case len(sigmas) == len(dims):
		copy(s[:], sigmas)
	default:
		return nil, fmt.Errorf("%w: %d sigmas for rank %d", ErrInvalidSigma, len(sigmas), len(dims))
	}
	for i := range dims {
		if !(s[i] > 0) {
			return nil, fmt.Errorf("%w: axis %d sigma %v", ErrInvalidSigma, i, s[i])
		}
	}

	nx, ny, nz := g.Dim(0), g.Dim(1), g.Dim(2)
	cx, cy, cz := nx/2, ny/2, nz/2
	data := g.Data()

	for z := range nz {
		dz := float64(z-cz) / s[2]
		if len(dims) < 3 {
			dz = 0
		}
		for y := range ny {
			dy := float64(y-cy) / s[1]
			if len(dims) < 2 {
				dy = 0
			}
			for x := range nx {
				dx := float64(x-cx) / s[0]
				data[x+nx*(y+ny*z)] = math.Exp(-0.5 * (dx*dx + dy*dy + dz*dz))
			}
		}
	}

	if err := g.Normalize(); err != nil {
		return nil, err
	}
	return g, nil
}

// CenterToOrigin returns a copy of p circularly shifted so that the sample
// at dims/2 moves to index 0.
func CenterToOrigin(p *grid.Grid) (*grid.Grid, error) {
	shift := make([]int, p.Rank())
	for i := range shift {
		shift[i] = -(p.Dim(i) / 2)
	}
	return grid.CircShift(p, shift...)
}

// ToCentered is the inverse of CenterToOrigin.
func ToCentered(p *grid.Grid) (*grid.Grid, error) {
	shift := make([]int, p.Rank())
	for i := range shift {
		shift[i] = p.Dim(i) / 2
	}
	return grid.CircShift(p, shift...)
}

// Pad embeds a centered PSF into a grid of the given dims, keeping its
// center at dims/2, and then moves that center to the origin.
// The result is ready for FFT convolution with images of size dims.
func Pad(p *grid.Grid, dims ...int) (*grid.Grid, error) {
	if len(dims) != p.Rank() {
		return nil, fmt.Errorf("%w: rank %d into rank %d", grid.ErrShapeMismatch, p.Rank(), len(dims))
	}

	offset := make([]int, len(dims))
	for i, d := range dims {
		if p.Dim(i) > d {
			return nil, fmt.Errorf("%w: %v into %v", ErrPSFTooLarge, p.Dims(), dims)
		}
		offset[i] = d/2 - p.Dim(i)/2
	}

	out, err := grid.New(dims...)
	if err != nil {
		return nil, err
	}
	if err := grid.Embed(out, p, offset...); err != nil {
		return nil, err
	}

	return CenterToOrigin(out)
}
