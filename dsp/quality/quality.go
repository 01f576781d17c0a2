// Package quality computes summary statistics of images and error metrics
// between an estimate and a reference image.
package quality

import (
	"errors"
	"fmt"
	"math"

	"github.com/cwbudde/algo-deconv/dsp/grid"
)

// Errors returned by quality functions.
var (
	ErrShapeMismatch = errors.New("quality: shape mismatch")
)

// Stats holds sample statistics of a grid.
type Stats struct {
	Len      int
	Mean     float64
	Std      float64
	Variance float64
	Skewness float64
	Kurtosis float64 // excess kurtosis
	Min      float64
	MinPos   []int
	Max      float64
	MaxPos   []int
	Sum      float64
	Energy   float64 // sum of squares
}

// Calculate computes the statistics of g in a single pass using Welford's
// online algorithm for the higher-order moments.
func Calculate(g *grid.Grid) Stats {
	data := g.Data()
	n := len(data)
	if n == 0 {
		return Stats{}
	}

	var mean, m2, m3, m4 float64
	var sum, sumSq float64
	minVal, maxVal := data[0], data[0]
	minIdx, maxIdx := 0, 0

	for i, x := range data {
		ni := float64(i + 1)
		delta := x - mean
		deltaN := delta / ni
		deltaN2 := deltaN * deltaN
		term1 := delta * deltaN * float64(i)

		// M4 before M3 before M2.
		m4 += term1*deltaN2*(ni*ni-3*ni+3) + 6*deltaN2*m2 - 4*deltaN*m3
		m3 += term1*deltaN*(float64(i)-1) - 3*deltaN*m2
		m2 += term1
		mean += deltaN

		sum += x
		sumSq += x * x

		if x > maxVal {
			maxVal, maxIdx = x, i
		}
		if x < minVal {
			minVal, minIdx = x, i
		}
	}

	nf := float64(n)
	variance := m2 / nf

	var skewness, kurtosis float64
	if variance > 0 {
		skewness = (m3 / nf) / (variance * math.Sqrt(variance))
		kurtosis = (m4/nf)/(variance*variance) - 3
	}

	return Stats{
		Len:      n,
		Mean:     mean,
		Std:      math.Sqrt(variance),
		Variance: variance,
		Skewness: skewness,
		Kurtosis: kurtosis,
		Min:      minVal,
		MinPos:   position(g.Dims(), minIdx),
		Max:      maxVal,
		MaxPos:   position(g.Dims(), maxIdx),
		Sum:      sum,
		Energy:   sumSq,
	}
}

// position converts a linear index to coordinates, x first.
func position(dims []int, idx int) []int {
	pos := make([]int, len(dims))
	for a, d := range dims {
		pos[a] = idx % d
		idx /= d
	}
	return pos
}

// Comparison holds error metrics of an estimate against a reference.
type Comparison struct {
	MSE        float64
	RMSE       float64
	MaxAbsErr  float64
	RelativeL2 float64 // ||est-ref|| / ||ref||
	SNR        float64 // dB, reference energy over error energy
	PSNR       float64 // dB, relative to the reference peak
}

// Compare computes error metrics of est against ref. SNR and PSNR are +Inf
// for identical images.
func Compare(est, ref *grid.Grid) (Comparison, error) {
	if est == nil || ref == nil || !est.SameShape(ref) {
		return Comparison{}, ErrShapeMismatch
	}
	if est.Len() == 0 {
		return Comparison{}, fmt.Errorf("%w: empty grid", ErrShapeMismatch)
	}

	e, r := est.Data(), ref.Data()

	var errSq, refSq, maxAbs, peak float64
	for i := range e {
		d := e[i] - r[i]
		errSq += d * d
		refSq += r[i] * r[i]
		maxAbs = max(maxAbs, math.Abs(d))
		peak = max(peak, math.Abs(r[i]))
	}

	mse := errSq / float64(len(e))
	c := Comparison{
		MSE:       mse,
		RMSE:      math.Sqrt(mse),
		MaxAbsErr: maxAbs,
	}

	switch {
	case refSq > 0:
		c.RelativeL2 = math.Sqrt(errSq / refSq)
	case errSq > 0:
		c.RelativeL2 = math.Inf(1)
	}

	c.SNR = powerRatioTodB(refSq, errSq)
	c.PSNR = powerRatioTodB(peak*peak, mse)

	return c, nil
}

// powerRatioTodB returns 10*log10(num/den), with +Inf for den == 0 and
// -Inf for num == 0.
func powerRatioTodB(num, den float64) float64 {
	switch {
	case den == 0 && num == 0:
		return 0
	case den == 0:
		return math.Inf(1)
	case num == 0:
		return math.Inf(-1)
	}
	return 10 * math.Log10(num/den)
}
