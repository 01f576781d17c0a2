// Package imconv provides FFT-based convolution of 2D images and 3D volumes.
//
// Two boundary policies are offered:
//
//   - Circular: image and kernel share one shape and the kernel is centered at
//     the origin (index 0, wrapped around the edges). The result is the
//     periodic convolution IFFT(FFT(img) * FFT(kernel)), the same contract as
//     an in-place native FFT convolution of two equally sized buffers.
//   - Linear: the kernel has its own small extent. Both inputs are zero padded
//     to a fast FFT size and the result is cropped according to a [Mode].
//
// # Usage
//
// One-shot:
//
//	out, err := imconv.Circular(img, kernel)
//	out, err := imconv.Convolve(img, kernel, imconv.ModeSame)
//
// For repeated convolution with the same kernel and shape, keep a [Convolver],
// which caches the kernel spectrum and the complex work buffer:
//
//	c, err := imconv.NewConvolver(kernel)
//	err = c.Convolve(dst, img)
//	err = c.Correlate(dst, img) // uses conj(H), the adjoint operator
//
// # Algorithm Selection
//
// [Convolve] uses direct summation for kernels with at most 27 samples
// (a 3x3x3 stencil) and FFT convolution otherwise. [ConvolveFFT] and [Direct]
// force one path.
package imconv
