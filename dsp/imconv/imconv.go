package imconv

import (
	"errors"
	"fmt"

	"github.com/cwbudde/algo-deconv/dsp/fftnd"
	"github.com/cwbudde/algo-deconv/dsp/grid"
)

// Errors returned by convolution functions.
var (
	ErrEmptyInput    = errors.New("imconv: empty input")
	ErrEmptyKernel   = errors.New("imconv: empty kernel")
	ErrShapeMismatch = errors.New("imconv: shape mismatch")
	ErrRankMismatch  = errors.New("imconv: rank mismatch")
)

// Mode specifies the output extent of linear convolution.
type Mode int

const (
	// ModeFull returns the full result with extent img+kernel-1 per axis.
	ModeFull Mode = iota

	// ModeSame returns output with the same extent as the image, centered
	// on the kernel.
	ModeSame

	// ModeValid returns only the region where image and kernel fully
	// overlap, with extent max(a,k) - min(a,k) + 1 per axis.
	ModeValid
)

// String returns the mode name.
func (m Mode) String() string {
	switch m {
	case ModeFull:
		return "full"
	case ModeSame:
		return "same"
	case ModeValid:
		return "valid"
	default:
		return fmt.Sprintf("Mode(%d)", int(m))
	}
}

// ParseMode maps "full", "same" and "valid" to a Mode.
func ParseMode(s string) (Mode, error) {
	switch s {
	case "full":
		return ModeFull, nil
	case "same":
		return ModeSame, nil
	case "valid":
		return ModeValid, nil
	default:
		return ModeFull, fmt.Errorf("imconv: unknown mode %q", s)
	}
}

// padPool recycles the zero-padded work grids of ConvolveFFT.
var padPool = grid.NewPool()

// directThreshold is the largest kernel (in samples) handled by Direct in Convolve.
const directThreshold = 27

// Circular performs circular convolution of img with an origin-centered
// kernel of the same shape.
func Circular(img, kernel *grid.Grid, opts ...fftnd.Option) (*grid.Grid, error) {
	if img == nil || img.Len() == 0 {
		return nil, ErrEmptyInput
	}
	if kernel == nil || kernel.Len() == 0 {
		return nil, ErrEmptyKernel
	}
	if !img.SameShape(kernel) {
		return nil, fmt.Errorf("%w: image %v, kernel %v", ErrShapeMismatch, img.Dims(), kernel.Dims())
	}

	c, err := NewConvolver(kernel, opts...)
	if err != nil {
		return nil, err
	}

	out := grid.MustNew(img.Dims()...)
	if err := c.Convolve(out, img); err != nil {
		return nil, err
	}
	return out, nil
}

// Convolve performs linear convolution with automatic algorithm selection.
func Convolve(img, kernel *grid.Grid, mode Mode, opts ...fftnd.Option) (*grid.Grid, error) {
	if err := checkLinear(img, kernel); err != nil {
		return nil, err
	}

	if kernel.Len() <= directThreshold {
		full, err := Direct(img, kernel)
		if err != nil {
			return nil, err
		}
		return trimToMode(full, img, kernel, mode)
	}

	return ConvolveFFT(img, kernel, mode, opts...)
}

// ConvolveFFT performs linear convolution by zero padding both inputs to a
// fast FFT size.
func ConvolveFFT(img, kernel *grid.Grid, mode Mode, opts ...fftnd.Option) (*grid.Grid, error) {
	if err := checkLinear(img, kernel); err != nil {
		return nil, err
	}

	full := fullDims(img, kernel)
	padDims := fftnd.FastDims(full)

	imgPad, err := padPool.Get(padDims...)
	if err != nil {
		return nil, err
	}
	defer padPool.Put(imgPad)
	if err := grid.Embed(imgPad, img); err != nil {
		return nil, err
	}

	kernelPad, err := padPool.Get(padDims...)
	if err != nil {
		return nil, err
	}
	if err := grid.Embed(kernelPad, kernel); err != nil {
		padPool.Put(kernelPad)
		return nil, err
	}
	c, err := NewConvolver(kernelPad, opts...)
	padPool.Put(kernelPad)
	if err != nil {
		return nil, err
	}
	if err := c.Convolve(imgPad, imgPad); err != nil {
		return nil, err
	}

	result, err := grid.Extract(imgPad, make([]int, len(full)), full...)
	if err != nil {
		return nil, err
	}

	return trimToMode(result, img, kernel, mode)
}

// Direct performs direct spatial-domain linear convolution of img and kernel.
// The result has extent img+kernel-1 per axis.
//
// This is an O(N*M) algorithm suitable for small kernels.
func Direct(img, kernel *grid.Grid) (*grid.Grid, error) {
	if err := checkLinear(img, kernel); err != nil {
		return nil, err
	}

	out := grid.MustNew(fullDims(img, kernel)...)

	ix, iy, iz := img.Dim(0), img.Dim(1), img.Dim(2)
	kx, ky, kz := kernel.Dim(0), kernel.Dim(1), kernel.Dim(2)
	ox, oy := out.Dim(0), out.Dim(1)
	src, k, dst := img.Data(), kernel.Data(), out.Data()

	for z := range iz {
		for y := range iy {
			for x := range ix {
				v := src[x+ix*(y+iy*z)]
				if v == 0 {
					continue
				}
				for c := range kz {
					for b := range ky {
						row := ox * ((y + b) + oy*(z+c))
						krow := kx * (b + ky*c)
						for a := range kx {
							dst[row+x+a] += v * k[krow+a]
						}
					}
				}
			}
		}
	}

	return out, nil
}

func checkLinear(img, kernel *grid.Grid) error {
	if img == nil || img.Len() == 0 {
		return ErrEmptyInput
	}
	if kernel == nil || kernel.Len() == 0 {
		return ErrEmptyKernel
	}
	if img.Rank() != kernel.Rank() {
		return fmt.Errorf("%w: image rank %d, kernel rank %d", ErrRankMismatch, img.Rank(), kernel.Rank())
	}
	return nil
}

func fullDims(img, kernel *grid.Grid) []int {
	dims := make([]int, img.Rank())
	for i := range dims {
		dims[i] = img.Dim(i) + kernel.Dim(i) - 1
	}
	return dims
}

// trimToMode extracts the appropriate portion of a full convolution result.
func trimToMode(full, img, kernel *grid.Grid, mode Mode) (*grid.Grid, error) {
	rank := img.Rank()
	offset := make([]int, rank)
	dims := make([]int, rank)

	switch mode {
	case ModeFull:
		return full, nil
	case ModeSame:
		// Center the result to match the image extent
		for i := range rank {
			offset[i] = (kernel.Dim(i) - 1) / 2
			dims[i] = img.Dim(i)
		}
	case ModeValid:
		// Return only the fully overlapping region
		for i := range rank {
			a, k := img.Dim(i), kernel.Dim(i)
			offset[i] = min(a, k) - 1
			dims[i] = max(a, k) - min(a, k) + 1
		}
	default:
		return full, nil
	}

	return grid.Extract(full, offset, dims...)
}
