package deconv

import (
	"errors"
	"fmt"

	"github.com/cwbudde/algo-deconv/dsp/grid"
)

// Errors returned by deconvolution functions.
var (
	ErrInvalidIterations = errors.New("deconv: iterations must be positive")
	ErrInvalidEpsilon    = errors.New("deconv: epsilon must be positive")
	ErrInvalidLambda     = errors.New("deconv: tv lambda must be non-negative")
	ErrInvalidTolerance  = errors.New("deconv: tolerance must be non-negative")
	ErrShapeMismatch     = errors.New("deconv: shape mismatch")
	ErrNegativeInput     = errors.New("deconv: observed image contains negative values")
	ErrRank              = errors.New("deconv: unsupported rank")
)

// Iteration is passed to Options.Observer after every update.
type Iteration struct {
	// Index is the 1-based iteration number.
	Index int

	// RelativeChange is ||y_k - y_(k-1)|| / ||y_(k-1)||.
	RelativeChange float64

	// Estimate is the working estimate. It is only valid during the callback
	// and must not be modified. With NonCirculant it has the padded shape.
	Estimate *grid.Grid
}

// Options configures Richardson-Lucy deconvolution.
type Options struct {
	// Iterations is the maximum number of updates.
	Iterations int

	// Epsilon is the floor applied to the reblurred estimate before dividing.
	// Prevents division by values close to zero in dark regions.
	Epsilon float64

	// NonCirculant pads the working volume and normalizes updates so that
	// the image is not treated as periodic.
	NonCirculant bool

	// TVLambda is the total variation regularization weight. Zero disables it.
	TVLambda float64

	// Positivity clamps the estimate to non-negative values after each update.
	Positivity bool

	// Tolerance stops the iteration once RelativeChange falls below it.
	// Zero runs all Iterations.
	Tolerance float64

	// Workers is the number of goroutines per FFT axis pass.
	// Zero uses GOMAXPROCS.
	Workers int

	// Observer, if set, is called after every iteration.
	Observer func(Iteration)
}

// DefaultOptions returns default deconvolution options.
func DefaultOptions() Options {
	return Options{
		Iterations: 10,
		Epsilon:    1e-6,
		Positivity: true,
	}
}

// Validate checks option ranges.
func (o Options) Validate() error {
	if o.Iterations <= 0 {
		return fmt.Errorf("%w: got %d", ErrInvalidIterations, o.Iterations)
	}
	if !(o.Epsilon > 0) {
		return fmt.Errorf("%w: got %v", ErrInvalidEpsilon, o.Epsilon)
	}
	if o.TVLambda < 0 {
		return fmt.Errorf("%w: got %v", ErrInvalidLambda, o.TVLambda)
	}
	if o.Tolerance < 0 {
		return fmt.Errorf("%w: got %v", ErrInvalidTolerance, o.Tolerance)
	}
	return nil
}

// Result reports how a run ended.
type Result struct {
	// Iterations is the number of completed updates.
	Iterations int

	// RelativeChange of the last completed update.
	RelativeChange float64

	// Converged is true when the run stopped on Tolerance.
	Converged bool
}
