package grid

import "fmt"

// FromFloat32 copies float32 samples into a new float64 grid.
func FromFloat32(data []float32, dims ...int) (*Grid, error) {
	n, err := Volume(dims)
	if err != nil {
		return nil, err
	}
	if len(data) != n {
		return nil, fmt.Errorf("%w: got %d samples for dims %v", ErrLengthMismatch, len(data), dims)
	}

	g := &Grid{dims: append([]int(nil), dims...), data: make([]float64, n)}
	for i, v := range data {
		g.data[i] = float64(v)
	}

	return g, nil
}

// FromFloat32Transposed builds an nx-by-ny grid from data stored with the
// second axis varying fastest (source index x*ny + y).
func FromFloat32Transposed(data []float32, nx, ny int) (*Grid, error) {
	g, err := New(nx, ny)
	if err != nil {
		return nil, err
	}
	if len(data) != nx*ny {
		return nil, fmt.Errorf("%w: got %d samples for %dx%d", ErrLengthMismatch, len(data), nx, ny)
	}

	for y := range ny {
		for x := range nx {
			g.data[x+y*nx] = float64(data[x*ny+y])
		}
	}

	return g, nil
}

// Float32 returns the samples converted to float32 in grid order.
func (g *Grid) Float32() []float32 {
	out := make([]float32, len(g.data))
	for i, v := range g.data {
		out[i] = float32(v)
	}
	return out
}

// InterleaveComplex packs complex values as consecutive (re, im) float32 pairs.
func InterleaveComplex(in []complex128) []float32 {
	out := make([]float32, 2*len(in))
	for i, c := range in {
		out[2*i] = float32(real(c))
		out[2*i+1] = float32(imag(c))
	}
	return out
}

// DeinterleaveComplex unpacks consecutive (re, im) float32 pairs.
func DeinterleaveComplex(in []float32) ([]complex128, error) {
	if len(in)%2 != 0 {
		return nil, fmt.Errorf("%w: odd interleaved length %d", ErrLengthMismatch, len(in))
	}

	out := make([]complex128, len(in)/2)
	for i := range out {
		out[i] = complex(float64(in[2*i]), float64(in[2*i+1]))
	}
	return out, nil
}
