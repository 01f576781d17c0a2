// Package grid provides dense real-valued 1D, 2D and 3D grids for image
// processing routines.
//
// A [Grid] stores its samples in a single contiguous []float64 with the first
// dimension varying fastest:
//
//	index = x + y*nx + z*nx*ny
//
// This is the layout expected by the FFT and convolution packages and by the
// raw float32 file format used by the rldeconv command.
//
// # Conversion
//
// Images coming from native or foreign code are usually float32. Use
// [FromFloat32] and [Grid.Float32] to move between precisions, and
// [InterleaveComplex] / [DeinterleaveComplex] for complex buffers stored as
// consecutive (re, im) pairs.
//
// # Geometry
//
// [Embed], [Extract] and [CircShift] cover padding, cropping and periodic
// shifting, which is all FFT-based convolution needs.
package grid
