package fftnd

import (
	"errors"
	"fmt"
	"runtime"
	"slices"

	algofft "github.com/cwbudde/algo-fft"
	"golang.org/x/sync/errgroup"

	"github.com/cwbudde/algo-deconv/dsp/grid"
)

// Errors returned by fftnd functions.
var (
	ErrInvalidDims    = errors.New("fftnd: invalid dimensions")
	ErrLengthMismatch = errors.New("fftnd: buffer length mismatch")
	ErrInvalidWorkers = errors.New("fftnd: worker count must be positive")
)

// minLinesPerWorker keeps tiny transforms on a single goroutine.
const minLinesPerWorker = 16

// Config holds plan construction settings.
type Config struct {
	Workers int
}

// Option mutates a Config.
type Option func(*Config)

// WithWorkers sets the number of goroutines used per axis pass.
func WithWorkers(n int) Option {
	return func(cfg *Config) {
		cfg.Workers = n
	}
}

// worker owns one 1D plan per axis plus a scratch line.
type worker struct {
	plans [grid.MaxRank]*algofft.Plan[complex128]
	line  []complex128
}

// Plan is a reusable N-dimensional complex FFT.
// A Plan is not safe for concurrent use; create one per goroutine.
type Plan struct {
	dims    []int
	n       int
	workers []*worker
}

// NewPlan creates a plan for data with the given dims.
func NewPlan(dims []int, opts ...Option) (*Plan, error) {
	n, err := grid.Volume(dims)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidDims, dims)
	}

	cfg := Config{Workers: runtime.GOMAXPROCS(0)}
	for _, opt := range opts {
		if opt != nil {
			opt(&cfg)
		}
	}
	if cfg.Workers <= 0 {
		return nil, fmt.Errorf("%w: got %d", ErrInvalidWorkers, cfg.Workers)
	}

	maxLen := slices.Max(dims)
	maxLines := n / maxLen
	if limit := max(1, maxLines/minLinesPerWorker); cfg.Workers > limit {
		cfg.Workers = limit
	}

	p := &Plan{
		dims:    slices.Clone(dims),
		n:       n,
		workers: make([]*worker, cfg.Workers),
	}

	for w := range p.workers {
		wk := &worker{line: make([]complex128, maxLen)}
		for axis, d := range dims {
			if d == 1 {
				continue
			}
			plan, err := algofft.NewPlan64(d)
			if err != nil {
				return nil, fmt.Errorf("fftnd: failed to create FFT plan for axis %d (n=%d): %w", axis, d, err)
			}
			wk.plans[axis] = plan
		}
		p.workers[w] = wk
	}

	return p, nil
}

// Dims returns a copy of the plan dimensions.
func (p *Plan) Dims() []int {
	return slices.Clone(p.dims)
}

// Len returns the number of complex samples the plan transforms.
func (p *Plan) Len() int {
	return p.n
}

// Workers returns the number of goroutines used per axis pass.
func (p *Plan) Workers() int {
	return len(p.workers)
}

// Forward computes the unnormalized forward transform of src into dst.
// dst and src may alias.
func (p *Plan) Forward(dst, src []complex128) error {
	return p.transform(dst, src, false)
}

// Inverse computes the normalized inverse transform of src into dst.
// dst and src may alias.
func (p *Plan) Inverse(dst, src []complex128) error {
	return p.transform(dst, src, true)
}

func (p *Plan) transform(dst, src []complex128, inverse bool) error {
	if len(dst) != p.n || len(src) != p.n {
		return fmt.Errorf("%w: expected %d, got dst=%d src=%d", ErrLengthMismatch, p.n, len(dst), len(src))
	}

	if &dst[0] != &src[0] {
		copy(dst, src)
	}

	stride := 1
	for axis, d := range p.dims {
		if d > 1 {
			if err := p.transformAxis(dst, axis, d, stride, inverse); err != nil {
				return err
			}
		}
		stride *= d
	}

	return nil
}

// transformAxis runs the 1D transform over every line along axis.
// Element k of a line sits at base + k*stride.
func (p *Plan) transformAxis(data []complex128, axis, length, stride int, inverse bool) error {
	numLines := p.n / length

	if len(p.workers) == 1 {
		return p.workers[0].run(data, axis, length, stride, 0, numLines, inverse)
	}

	var g errgroup.Group
	chunk := (numLines + len(p.workers) - 1) / len(p.workers)
	for w, wk := range p.workers {
		first := w * chunk
		last := min(first+chunk, numLines)
		if first >= last {
			break
		}
		g.Go(func() error {
			return wk.run(data, axis, length, stride, first, last, inverse)
		})
	}

	return g.Wait()
}

func (wk *worker) run(data []complex128, axis, length, stride, first, last int, inverse bool) error {
	plan := wk.plans[axis]
	line := wk.line[:length]
	span := stride * length

	for l := first; l < last; l++ {
		base := (l/stride)*span + l%stride

		if stride == 1 {
			// Contiguous lines transform in place.
			seg := data[base : base+length]
			if err := apply(plan, seg, inverse); err != nil {
				return err
			}
			continue
		}

		for k := range line {
			line[k] = data[base+k*stride]
		}
		if err := apply(plan, line, inverse); err != nil {
			return err
		}
		for k, v := range line {
			data[base+k*stride] = v
		}
	}

	return nil
}

func apply(plan *algofft.Plan[complex128], buf []complex128, inverse bool) error {
	if inverse {
		if err := plan.Inverse(buf, buf); err != nil {
			return fmt.Errorf("fftnd: inverse FFT failed: %w", err)
		}
		return nil
	}

	if err := plan.Forward(buf, buf); err != nil {
		return fmt.Errorf("fftnd: forward FFT failed: %w", err)
	}
	return nil
}
