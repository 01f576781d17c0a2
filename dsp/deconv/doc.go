// Package deconv implements Richardson-Lucy deconvolution of 2D images and
// 3D volumes.
//
// Given an observed image x blurred by a known point-spread function h, each
// iteration updates the estimate y as
//
//	r = x / (h * y)
//	y = y * (h ⋆ r)
//
// where * is convolution and ⋆ is correlation (convolution with the mirrored
// PSF). Both run in frequency space: the PSF spectrum H is computed once and
// reused, so an iteration costs four N-d FFTs.
//
// # Usage
//
//	psf, _ := psf.Gaussian([]int{64, 64, 32}, 2, 2, 4)
//	opts := deconv.DefaultOptions()
//	opts.Iterations = 50
//	est, res, err := deconv.RichardsonLucy3D(ctx, observed, psf, opts)
//
// For many volumes of the same shape, build a [Deconvolver] once and call
// [Deconvolver.Run] per volume.
//
// # Boundaries
//
// By default the image is treated as periodic. With [Options.NonCirculant]
// the estimate lives on a padded grid and updates are normalized by the
// correlation of the PSF with the observed window (Bertero and Boccacci), which
// removes most edge ringing at the cost of larger FFTs.
//
// # Regularization
//
// [Options.TVLambda] enables total variation regularization (Dey et al.):
// the multiplicative update is divided by 1 - lambda*div(grad y / |grad y|).
// Typical values are 0.001 to 0.01.
package deconv
