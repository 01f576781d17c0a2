package deconv

import (
	"context"
	"fmt"
	"math"
	"slices"

	"github.com/cwbudde/algo-vecmath"

	"github.com/cwbudde/algo-deconv/dsp/fftnd"
	"github.com/cwbudde/algo-deconv/dsp/grid"
	"github.com/cwbudde/algo-deconv/dsp/imconv"
	"github.com/cwbudde/algo-deconv/dsp/psf"
)

// Deconvolver runs Richardson-Lucy iterations for one image shape and PSF.
// It owns the PSF spectrum and all work buffers and can be reused for many
// images of the same shape. It is not safe for concurrent use.
type Deconvolver struct {
	opts     Options
	dims     []int
	workDims []int
	conv     *imconv.Convolver

	// Work buffers, all with workDims
	estimate  *grid.Grid
	reblurred *grid.Grid
	ratio     *grid.Grid
	corr      *grid.Grid

	// Non-circulant state: observed image embedded in the padded grid,
	// window membership and the normalization H'1.
	observedPad *grid.Grid
	inWindow    []bool
	normal      []float64

	tv      *tvState
	tvDenom []float64
}

// New creates a Deconvolver for images with the given dims.
//
// p is the PSF in centered layout (its center at p.Dims()/2), as returned by
// psf.Gaussian. It may be smaller than dims. The PSF is copied and normalized
// to unit sum.
func New(p *grid.Grid, dims []int, opts Options) (*Deconvolver, error) {
	if err := opts.Validate(); err != nil {
		return nil, err
	}
	if _, err := grid.Volume(dims); err != nil {
		return nil, fmt.Errorf("deconv: %w", err)
	}
	if p == nil || p.Rank() != len(dims) {
		return nil, fmt.Errorf("%w: psf rank does not match image rank %d", ErrShapeMismatch, len(dims))
	}

	workDims := slices.Clone(dims)
	if opts.NonCirculant {
		for i, d := range dims {
			workDims[i] = fftnd.NextFastSize(d + p.Dim(i) - 1)
		}
	}

	kernel := p.Clone()
	if err := kernel.Normalize(); err != nil {
		return nil, fmt.Errorf("deconv: psf: %w", err)
	}
	padded, err := psf.Pad(kernel, workDims...)
	if err != nil {
		return nil, fmt.Errorf("deconv: %w", err)
	}

	var fftOpts []fftnd.Option
	if opts.Workers > 0 {
		fftOpts = append(fftOpts, fftnd.WithWorkers(opts.Workers))
	}

	conv, err := imconv.NewConvolver(padded, fftOpts...)
	if err != nil {
		return nil, fmt.Errorf("deconv: %w", err)
	}

	d := &Deconvolver{
		opts:      opts,
		dims:      slices.Clone(dims),
		workDims:  workDims,
		conv:      conv,
		estimate:  grid.MustNew(workDims...),
		reblurred: grid.MustNew(workDims...),
		ratio:     grid.MustNew(workDims...),
		corr:      grid.MustNew(workDims...),
	}

	if opts.NonCirculant {
		if err := d.initNonCirculant(); err != nil {
			return nil, err
		}
	}

	if opts.TVLambda > 0 {
		d.tv = newTVState(workDims)
		d.tvDenom = make([]float64, d.estimate.Len())
	}

	return d, nil
}

// initNonCirculant computes the window mask and the normalization factor
// H'M, where M is one inside the observed window and zero in the padding.
func (d *Deconvolver) initNonCirculant() error {
	ones := grid.MustNew(d.dims...)
	ones.Fill(1)

	mask := grid.MustNew(d.workDims...)
	if err := grid.Embed(mask, ones); err != nil {
		return fmt.Errorf("deconv: %w", err)
	}

	d.inWindow = make([]bool, mask.Len())
	for i, v := range mask.Data() {
		d.inWindow[i] = v > 0
	}

	normal := grid.MustNew(d.workDims...)
	if err := d.conv.Correlate(normal, mask); err != nil {
		return fmt.Errorf("deconv: normalization: %w", err)
	}
	d.normal = normal.Data()
	d.observedPad = grid.MustNew(d.workDims...)

	return nil
}

// Dims returns the image shape the deconvolver accepts.
func (d *Deconvolver) Dims() []int {
	return slices.Clone(d.dims)
}

// WorkDims returns the shape of the internal working grid. It differs from
// Dims only with NonCirculant.
func (d *Deconvolver) WorkDims() []int {
	return slices.Clone(d.workDims)
}

// Run deconvolves observed, using estimate as the initial guess and writing
// the result back into it. Both must have the deconvolver's dims.
//
// Cancellation is checked before every iteration. On cancellation the
// estimate holds the last completed iteration and the returned error wraps
// ctx.Err().
func (d *Deconvolver) Run(ctx context.Context, observed, estimate *grid.Grid) (res Result, err error) {
	for _, g := range []*grid.Grid{observed, estimate} {
		if g == nil || !slices.Equal(g.Dims(), d.dims) {
			var got []int
			if g != nil {
				got = g.Dims()
			}
			return res, fmt.Errorf("%w: got %v, want %v", ErrShapeMismatch, got, d.dims)
		}
	}
	if m := observed.Min(); m < 0 {
		return res, fmt.Errorf("%w: min %v", ErrNegativeInput, m)
	}

	x, err := d.loadWorking(observed, estimate)
	if err != nil {
		return res, err
	}
	defer func() {
		if storeErr := d.storeEstimate(estimate); storeErr != nil && err == nil {
			err = storeErr
		}
	}()

	for k := 1; k <= d.opts.Iterations; k++ {
		if ctxErr := ctx.Err(); ctxErr != nil {
			return res, fmt.Errorf("deconv: stopped after %d iterations: %w", res.Iterations, ctxErr)
		}

		change, err := d.step(x)
		if err != nil {
			return res, err
		}

		res.Iterations = k
		res.RelativeChange = change

		if d.opts.Observer != nil {
			d.opts.Observer(Iteration{Index: k, RelativeChange: change, Estimate: d.estimate})
		}

		if d.opts.Tolerance > 0 && change < d.opts.Tolerance {
			res.Converged = true
			break
		}
	}

	return res, nil
}

// loadWorking prepares the working estimate and returns the observed samples
// in working layout.
func (d *Deconvolver) loadWorking(observed, estimate *grid.Grid) ([]float64, error) {
	if !d.opts.NonCirculant {
		copy(d.estimate.Data(), estimate.Data())
		return observed.Data(), nil
	}

	clear(d.observedPad.Data())
	if err := grid.Embed(d.observedPad, observed); err != nil {
		return nil, fmt.Errorf("deconv: observed: %w", err)
	}

	d.estimate.Fill(estimate.Mean())
	if err := grid.Embed(d.estimate, estimate); err != nil {
		return nil, fmt.Errorf("deconv: estimate: %w", err)
	}

	return d.observedPad.Data(), nil
}

func (d *Deconvolver) storeEstimate(estimate *grid.Grid) error {
	if !d.opts.NonCirculant {
		copy(estimate.Data(), d.estimate.Data())
		return nil
	}

	window, err := grid.Extract(d.estimate, make([]int, len(d.dims)), d.dims...)
	if err != nil {
		return fmt.Errorf("deconv: %w", err)
	}
	copy(estimate.Data(), window.Data())
	return nil
}

// step performs one multiplicative update and returns the relative change.
func (d *Deconvolver) step(x []float64) (float64, error) {
	y := d.estimate.Data()
	eps := d.opts.Epsilon

	if err := d.conv.Convolve(d.reblurred, d.estimate); err != nil {
		return 0, fmt.Errorf("deconv: reblur: %w", err)
	}

	hy := d.reblurred.Data()
	r := d.ratio.Data()
	for i := range r {
		if d.inWindow != nil && !d.inWindow[i] {
			r[i] = 0
			continue
		}
		r[i] = x[i] / math.Max(hy[i], eps)
	}

	if err := d.conv.Correlate(d.corr, d.ratio); err != nil {
		return 0, fmt.Errorf("deconv: correction: %w", err)
	}
	c := d.corr.Data()

	if d.normal != nil {
		for i, n := range d.normal {
			if n < eps {
				c[i] = 0
				continue
			}
			c[i] /= n
		}
	}

	if d.tv != nil {
		d.tv.denominator(d.tvDenom, y, d.opts.TVLambda)
		for i, den := range d.tvDenom {
			c[i] /= den
		}
	}

	var num, den float64
	for i, v := range y {
		delta := v * (c[i] - 1)
		num += delta * delta
		den += v * v
	}

	vecmath.MulBlockInPlace(y, c)

	if d.opts.Positivity {
		for i, v := range y {
			if v < 0 {
				y[i] = 0
			}
		}
	}

	if den == 0 {
		return 0, nil
	}
	return math.Sqrt(num / den), nil
}

// RichardsonLucy deconvolves a 1D, 2D or 3D image starting from a flat
// estimate at the observed mean.
func RichardsonLucy(ctx context.Context, observed, p *grid.Grid, opts Options) (*grid.Grid, Result, error) {
	if observed == nil {
		return nil, Result{}, fmt.Errorf("%w: nil observed image", ErrShapeMismatch)
	}

	d, err := New(p, observed.Dims(), opts)
	if err != nil {
		return nil, Result{}, err
	}

	estimate := grid.MustNew(observed.Dims()...)
	estimate.Fill(observed.Mean())

	res, err := d.Run(ctx, observed, estimate)
	return estimate, res, err
}

// RichardsonLucy3D is RichardsonLucy restricted to volumes.
func RichardsonLucy3D(ctx context.Context, observed, p *grid.Grid, opts Options) (*grid.Grid, Result, error) {
	if observed == nil || observed.Rank() != 3 {
		rank := 0
		if observed != nil {
			rank = observed.Rank()
		}
		return nil, Result{}, fmt.Errorf("%w: want 3 dimensions, got %d", ErrRank, rank)
	}
	return RichardsonLucy(ctx, observed, p, opts)
}
