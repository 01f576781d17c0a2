// Package fftnd provides separable multi-dimensional complex FFTs on top of
// algo-fft 1D plans.
//
// A [Plan] transforms 1D, 2D or 3D data stored with the first axis varying
// fastest (the [grid.Grid] layout). Each axis is transformed line by line;
// lines are spread across a fixed set of workers, each owning its own 1D
// plans and scratch line, so a single Plan call uses several cores without
// sharing mutable FFT state.
//
// Conventions follow algo-fft: the forward transform is unnormalized and the
// inverse is scaled by 1/N, so Inverse(Forward(x)) reproduces x.
//
//	p, err := fftnd.NewPlan([]int{256, 256, 64})
//	err = p.Forward(spec, data)
//	err = p.Inverse(data, spec)
//
// [SelfTest] checks a plan against a direct DFT, Parseval's theorem and the
// round trip, and reports the CPU features seen by the vector kernels.
package fftnd
