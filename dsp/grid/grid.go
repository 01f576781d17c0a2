package grid

import (
	"errors"
	"fmt"
	"math"
	"slices"
)

// MaxRank is the highest supported number of dimensions.
const MaxRank = 3

// Errors returned by grid functions.
var (
	ErrInvalidDims    = errors.New("grid: invalid dimensions")
	ErrLengthMismatch = errors.New("grid: data length does not match dimensions")
	ErrShapeMismatch  = errors.New("grid: shape mismatch")
	ErrZeroSum        = errors.New("grid: cannot normalize grid with zero sum")
	ErrOutOfRange     = errors.New("grid: position out of range")
)

// Grid is a dense real-valued grid with up to three dimensions.
type Grid struct {
	dims []int
	data []float64
}

// New returns a zero-filled grid with the given dimensions.
func New(dims ...int) (*Grid, error) {
	n, err := Volume(dims)
	if err != nil {
		return nil, err
	}

	return &Grid{dims: slices.Clone(dims), data: make([]float64, n)}, nil
}

// MustNew is like New but panics on invalid dimensions.
// Intended for tests and package-level fixtures.
func MustNew(dims ...int) *Grid {
	g, err := New(dims...)
	if err != nil {
		panic(err)
	}
	return g
}

// FromSlice wraps data without copying.
// len(data) must equal the product of dims.
func FromSlice(data []float64, dims ...int) (*Grid, error) {
	n, err := Volume(dims)
	if err != nil {
		return nil, err
	}

	if len(data) != n {
		return nil, fmt.Errorf("%w: got %d samples for dims %v", ErrLengthMismatch, len(data), dims)
	}

	return &Grid{dims: slices.Clone(dims), data: data}, nil
}

// Volume returns the number of samples for dims.
// It fails for empty dims, more than MaxRank dims or non-positive extents.
func Volume(dims []int) (int, error) {
	if len(dims) == 0 || len(dims) > MaxRank {
		return 0, fmt.Errorf("%w: rank %d", ErrInvalidDims, len(dims))
	}

	n := 1
	for _, d := range dims {
		if d <= 0 {
			return 0, fmt.Errorf("%w: %v", ErrInvalidDims, dims)
		}
		n *= d
	}

	return n, nil
}

// Dims returns a copy of the grid dimensions.
func (g *Grid) Dims() []int {
	return slices.Clone(g.dims)
}

// Dim returns the extent of axis i, or 1 for axes beyond the rank.
func (g *Grid) Dim(i int) int {
	if i < len(g.dims) {
		return g.dims[i]
	}
	return 1
}

// Rank returns the number of dimensions.
func (g *Grid) Rank() int {
	return len(g.dims)
}

// Len returns the number of samples.
func (g *Grid) Len() int {
	return len(g.data)
}

// Data returns the underlying sample slice.
func (g *Grid) Data() []float64 {
	return g.data
}

// Index returns the linear index for pos. Missing trailing coordinates are 0.
func (g *Grid) Index(pos ...int) (int, error) {
	if len(pos) > len(g.dims) {
		return 0, fmt.Errorf("%w: %d coordinates for rank %d", ErrOutOfRange, len(pos), len(g.dims))
	}

	idx := 0
	stride := 1
	for i, d := range g.dims {
		p := 0
		if i < len(pos) {
			p = pos[i]
		}
		if p < 0 || p >= d {
			return 0, fmt.Errorf("%w: %v in %v", ErrOutOfRange, pos, g.dims)
		}
		idx += p * stride
		stride *= d
	}

	return idx, nil
}

// At returns the sample at pos. It panics if pos is out of range.
func (g *Grid) At(pos ...int) float64 {
	idx, err := g.Index(pos...)
	if err != nil {
		panic(err)
	}
	return g.data[idx]
}

// Set stores v at pos. It panics if pos is out of range.
func (g *Grid) Set(v float64, pos ...int) {
	idx, err := g.Index(pos...)
	if err != nil {
		panic(err)
	}
	g.data[idx] = v
}

// Clone returns a deep copy.
func (g *Grid) Clone() *Grid {
	return &Grid{dims: slices.Clone(g.dims), data: slices.Clone(g.data)}
}

// SameShape reports whether g and o have identical dimensions.
func (g *Grid) SameShape(o *Grid) bool {
	return o != nil && slices.Equal(g.dims, o.dims)
}

// CheckShape returns ErrShapeMismatch unless g and o have identical dimensions.
func (g *Grid) CheckShape(o *Grid) error {
	if g.SameShape(o) {
		return nil
	}
	var od []int
	if o != nil {
		od = o.dims
	}
	return fmt.Errorf("%w: got %v, want %v", ErrShapeMismatch, od, g.dims)
}

// Fill sets every sample to v.
func (g *Grid) Fill(v float64) {
	for i := range g.data {
		g.data[i] = v
	}
}

// Sum returns the sum of all samples.
func (g *Grid) Sum() float64 {
	var s float64
	for _, v := range g.data {
		s += v
	}
	return s
}

// Mean returns the arithmetic mean of all samples.
func (g *Grid) Mean() float64 {
	return g.Sum() / float64(len(g.data))
}

// Min returns the smallest sample.
func (g *Grid) Min() float64 {
	m := math.Inf(1)
	for _, v := range g.data {
		if v < m {
			m = v
		}
	}
	return m
}

// Max returns the largest sample.
func (g *Grid) Max() float64 {
	m := math.Inf(-1)
	for _, v := range g.data {
		if v > m {
			m = v
		}
	}
	return m
}

// Scale multiplies every sample by f.
func (g *Grid) Scale(f float64) {
	for i := range g.data {
		g.data[i] *= f
	}
}

// Normalize scales the grid so its samples sum to 1.
func (g *Grid) Normalize() error {
	s := g.Sum()
	if s == 0 || math.IsNaN(s) || math.IsInf(s, 0) {
		return fmt.Errorf("%w: sum %v", ErrZeroSum, s)
	}

	g.Scale(1 / s)
	return nil
}

// String returns a short description such as "grid[64x64x32]".
func (g *Grid) String() string {
	s := "grid["
	for i, d := range g.dims {
		if i > 0 {
			s += "x"
		}
		s += fmt.Sprint(d)
	}
	return s + "]"
}
