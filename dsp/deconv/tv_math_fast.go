//go:build fastmath

package deconv

import "github.com/meko-christian/algo-approx"

// mathSqrt computes sqrt(x) using a fast approximation. The TV gradient
// magnitude tolerates the reduced precision.
func mathSqrt(x float64) float64 {
	return approx.FastSqrt(x)
}
