package fftnd

import (
	"sync"

	"github.com/cwbudde/algo-vecmath"
)

// scratchBuf holds pooled scratch memory for complex-to-real unpacking.
type scratchBuf struct {
	data []float64
}

var scratchPool = sync.Pool{
	New: func() any { return &scratchBuf{} },
}

func getScratch(n int) (re, im []float64, buf *scratchBuf) {
	buf = scratchPool.Get().(*scratchBuf)
	need := 2 * n
	if cap(buf.data) < need {
		buf.data = make([]float64, need)
	} else {
		buf.data = buf.data[:need]
	}
	return buf.data[:n], buf.data[n:need], buf
}

func putScratch(buf *scratchBuf) {
	scratchPool.Put(buf)
}

// RealToComplex packs real samples into complex values with zero imaginary part.
// dst must be at least as long as src.
func RealToComplex(dst []complex128, src []float64) {
	for i, v := range src {
		dst[i] = complex(v, 0)
	}
}

// ComplexToReal stores the real part of src into dst.
// dst must be at least as long as src.
func ComplexToReal(dst []float64, src []complex128) {
	for i, c := range src {
		dst[i] = real(c)
	}
}

// PowerSpectrum computes |X[k]|^2 for each bin into dst.
// dst and spec must have the same length.
func PowerSpectrum(dst []float64, spec []complex128) {
	if len(spec) == 0 {
		return
	}

	re, im, buf := getScratch(len(spec))
	for i, c := range spec {
		re[i] = real(c)
		im[i] = imag(c)
	}

	vecmath.Power(dst, re, im)
	putScratch(buf)
}

// NextFastSize returns the smallest power of two >= n.
func NextFastSize(n int) int {
	if n <= 1 {
		return 1
	}
	p := 1
	for p < n {
		p *= 2
	}
	return p
}

// FastDims applies NextFastSize to every extent.
func FastDims(dims []int) []int {
	out := make([]int, len(dims))
	for i, d := range dims {
		out[i] = NextFastSize(d)
	}
	return out
}
