package deconv

import "github.com/cwbudde/algo-deconv/dsp/grid"

const (
	// tvGradFloor keeps |grad y| away from zero in flat regions.
	tvGradFloor = 1e-12

	// tvDenomFloor bounds the regularized update from blowing up where the
	// divergence term approaches 1/lambda.
	tvDenomFloor = 1e-3
)

// tvState holds the normalized gradient components between calls.
type tvState struct {
	dims    [grid.MaxRank]int
	strides [grid.MaxRank]int
	rank    int
	unit    [grid.MaxRank][]float64
}

func newTVState(dims []int) *tvState {
	s := &tvState{rank: len(dims)}
	n := 1
	for a := range grid.MaxRank {
		s.dims[a] = 1
		if a < len(dims) {
			s.dims[a] = dims[a]
		}
		s.strides[a] = n
		n *= s.dims[a]
	}
	for a := range s.rank {
		s.unit[a] = make([]float64, n)
	}
	return s
}

// denominator writes 1 - lambda*div(grad y/|grad y|) into dst, using forward
// differences for the gradient and backward differences for the divergence.
func (s *tvState) denominator(dst []float64, y []float64, lambda float64) {
	n := len(y)

	for i := range n {
		var norm float64
		for a := range s.rank {
			g := 0.0
			if (i/s.strides[a])%s.dims[a] < s.dims[a]-1 {
				g = y[i+s.strides[a]] - y[i]
			}
			s.unit[a][i] = g
			norm += g * g
		}
		norm = mathSqrt(norm + tvGradFloor)
		for a := range s.rank {
			s.unit[a][i] /= norm
		}
	}

	for i := range n {
		var div float64
		for a := range s.rank {
			div += s.unit[a][i]
			if (i/s.strides[a])%s.dims[a] > 0 {
				div -= s.unit[a][i-s.strides[a]]
			}
		}
		dst[i] = max(1-lambda*div, tvDenomFloor)
	}
}
