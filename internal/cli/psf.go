package cli

import (
	"github.com/spf13/cobra"

	"github.com/cwbudde/algo-deconv/dsp/psf"
)

func (a *app) newPSFCommand() *cobra.Command {
	var dimsFlag, sigmaFlag, out string
	var origin bool

	cmd := &cobra.Command{
		Use:   "psf",
		Short: "Write a normalized Gaussian PSF",
		Example: `  rldeconv psf --dims 64,64,32 --sigma 2,2,4 --out psf.raw
  rldeconv psf --dims 256x256 --sigma 1.5 --origin --out kernel.raw`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			if err := requireFlags("dims", dimsFlag, "out", out); err != nil {
				return err
			}
			dims, err := parseDims(dimsFlag)
			if err != nil {
				return err
			}
			sigmas, err := parseFloats(sigmaFlag)
			if err != nil {
				return err
			}

			p, err := psf.Gaussian(dims, sigmas...)
			if err != nil {
				return err
			}
			if origin {
				if p, err = psf.CenterToOrigin(p); err != nil {
					return err
				}
			}

			if err := writeGrid(out, p); err != nil {
				return err
			}

			a.logger.Info().
				Ints("dims", dims).
				Floats64("sigma", sigmas).
				Bool("origin", origin).
				Str("out", out).
				Msg("psf written")
			return nil
		},
	}

	cmd.Flags().StringVar(&dimsFlag, "dims", "", "PSF dimensions, e.g. 64,64,32")
	cmd.Flags().StringVar(&sigmaFlag, "sigma", "1", "standard deviation per axis (one value applies to all)")
	cmd.Flags().BoolVar(&origin, "origin", false, "wrap the center to index 0 instead of dims/2")
	cmd.Flags().StringVar(&out, "out", "", "output file")

	return cmd
}
