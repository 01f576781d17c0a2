package imconv

import (
	"fmt"
	"math/cmplx"
	"slices"

	"github.com/cwbudde/algo-deconv/dsp/fftnd"
	"github.com/cwbudde/algo-deconv/dsp/grid"
)

// Convolver performs circular convolution with a fixed kernel.
// It is not safe for concurrent use.
type Convolver struct {
	dims []int

	// Kernel in frequency domain
	kernelFFT []complex128

	plan *fftnd.Plan

	// Scratch buffer, holds the image spectrum between transforms
	work []complex128
}

// NewConvolver creates a circular convolver for kernel. The kernel must be
// centered at the origin; its shape fixes the image shape the convolver
// accepts.
func NewConvolver(kernel *grid.Grid, opts ...fftnd.Option) (*Convolver, error) {
	if kernel == nil || kernel.Len() == 0 {
		return nil, ErrEmptyKernel
	}

	plan, err := fftnd.NewPlan(kernel.Dims(), opts...)
	if err != nil {
		return nil, fmt.Errorf("imconv: failed to create FFT plan: %w", err)
	}

	c := &Convolver{
		dims:      kernel.Dims(),
		kernelFFT: make([]complex128, kernel.Len()),
		plan:      plan,
		work:      make([]complex128, kernel.Len()),
	}

	fftnd.RealToComplex(c.kernelFFT, kernel.Data())
	if err := plan.Forward(c.kernelFFT, c.kernelFFT); err != nil {
		return nil, fmt.Errorf("imconv: failed to compute kernel FFT: %w", err)
	}

	return c, nil
}

// Dims returns the image shape the convolver accepts.
func (c *Convolver) Dims() []int {
	return slices.Clone(c.dims)
}

// Spectrum returns a copy of the kernel spectrum H.
func (c *Convolver) Spectrum() []complex128 {
	return slices.Clone(c.kernelFFT)
}

// Convolve writes the circular convolution of img with the kernel into dst.
// dst may be img.
func (c *Convolver) Convolve(dst, img *grid.Grid) error {
	return c.apply(dst, img, false)
}

// Correlate writes the circular correlation of img with the kernel into dst,
// that is convolution with the kernel mirrored through the origin.
// dst may be img.
func (c *Convolver) Correlate(dst, img *grid.Grid) error {
	return c.apply(dst, img, true)
}

func (c *Convolver) apply(dst, img *grid.Grid, conjugate bool) error {
	if img == nil || dst == nil {
		return ErrEmptyInput
	}
	if !slices.Equal(img.Dims(), c.dims) {
		return fmt.Errorf("%w: got %v, want %v", ErrShapeMismatch, img.Dims(), c.dims)
	}
	if !slices.Equal(dst.Dims(), c.dims) {
		return fmt.Errorf("%w: dst %v, want %v", ErrShapeMismatch, dst.Dims(), c.dims)
	}

	fftnd.RealToComplex(c.work, img.Data())
	if err := c.plan.Forward(c.work, c.work); err != nil {
		return fmt.Errorf("imconv: forward FFT failed: %w", err)
	}

	// Multiply in frequency domain
	if conjugate {
		for i, h := range c.kernelFFT {
			c.work[i] *= cmplx.Conj(h)
		}
	} else {
		for i, h := range c.kernelFFT {
			c.work[i] *= h
		}
	}

	if err := c.plan.Inverse(c.work, c.work); err != nil {
		return fmt.Errorf("imconv: inverse FFT failed: %w", err)
	}

	fftnd.ComplexToReal(dst.Data(), c.work)
	return nil
}
