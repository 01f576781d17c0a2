package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/cwbudde/algo-deconv/dsp/apodize"
	"github.com/cwbudde/algo-deconv/dsp/fftnd"
	"github.com/cwbudde/algo-deconv/dsp/grid"
	"github.com/cwbudde/algo-deconv/dsp/imconv"
	"github.com/cwbudde/algo-deconv/dsp/psf"
)

const modeCircular = "circular"

func (a *app) newConvolveCommand() *cobra.Command {
	var (
		in, kernelPath, out     string
		dimsFlag, kernelDimsArg string
		modeFlag                string
		alpha                   float64
		workers                 int
	)

	cmd := &cobra.Command{
		Use:   "convolve",
		Short: "Convolve an image with a kernel",
		Long: `convolve blurs an image with a kernel using the FFT.

The kernel is stored in centered layout (its center at kernel-dims/2), as
written by "rldeconv psf". Mode circular wraps at the image edges and keeps
the image size. Modes full, same and valid compute the linear convolution.`,
		Example: `  rldeconv convolve --in img.raw --kernel psf.raw --dims 256,256 --kernel-dims 15,15 --out blurred.raw
  rldeconv convolve --in vol.raw --kernel psf.raw --dims 64,64,32 --mode same --out blurred.raw`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			if err := requireFlags("in", in, "kernel", kernelPath, "dims", dimsFlag, "out", out); err != nil {
				return err
			}

			dims, err := parseDims(dimsFlag)
			if err != nil {
				return err
			}
			kernelDims := dims
			if kernelDimsArg != "" {
				if kernelDims, err = parseDims(kernelDimsArg); err != nil {
					return err
				}
			}

			img, err := readGrid(in, dims)
			if err != nil {
				return err
			}
			kernel, err := readGrid(kernelPath, kernelDims)
			if err != nil {
				return err
			}

			if alpha > 0 {
				if err := apodize.Apply(img, alpha); err != nil {
					return err
				}
			}

			var opts []fftnd.Option
			if workers > 0 {
				opts = append(opts, fftnd.WithWorkers(workers))
			}

			result, err := convolve(img, kernel, modeFlag, opts)
			if err != nil {
				return err
			}

			if err := writeGrid(out, result); err != nil {
				return err
			}

			a.logger.Info().
				Str("mode", modeFlag).
				Ints("dims", dims).
				Ints("kernel_dims", kernelDims).
				Ints("out_dims", result.Dims()).
				Str("out", out).
				Msg("convolved")
			return nil
		},
	}

	cmd.Flags().StringVar(&in, "in", "", "input image file")
	cmd.Flags().StringVar(&kernelPath, "kernel", "", "kernel file (centered layout)")
	cmd.Flags().StringVar(&dimsFlag, "dims", "", "image dimensions, e.g. 256,256")
	cmd.Flags().StringVar(&kernelDimsArg, "kernel-dims", "", "kernel dimensions (default: same as --dims)")
	cmd.Flags().StringVar(&modeFlag, "mode", modeCircular, "circular, full, same or valid")
	cmd.Flags().Float64Var(&alpha, "apodize", 0, "Tukey taper fraction applied to the image (0 disables)")
	cmd.Flags().IntVar(&workers, "workers", 0, "FFT worker goroutines (0 = GOMAXPROCS)")
	cmd.Flags().StringVar(&out, "out", "", "output file")

	return cmd
}

func convolve(img, kernel *grid.Grid, mode string, opts []fftnd.Option) (*grid.Grid, error) {
	if mode == modeCircular {
		padded, err := psf.Pad(kernel, img.Dims()...)
		if err != nil {
			return nil, err
		}
		return imconv.Circular(img, padded, opts...)
	}

	m, err := imconv.ParseMode(mode)
	if err != nil {
		return nil, fmt.Errorf("%w (or %q)", err, modeCircular)
	}
	return imconv.Convolve(img, kernel, m, opts...)
}
