package cli

import (
	"context"
	"errors"
	"slices"
	"time"

	"github.com/spf13/cobra"

	"github.com/cwbudde/algo-deconv/dsp/apodize"
	"github.com/cwbudde/algo-deconv/dsp/deconv"
	"github.com/cwbudde/algo-deconv/dsp/grid"
	"github.com/cwbudde/algo-deconv/dsp/quality"
)

func (a *app) newDeconvolveCommand() *cobra.Command {
	var (
		in, psfPath, initPath, out string
		refPath                    string
		dimsFlag, psfDimsArg       string
		configPath                 string
	)
	flags := DefaultDeconvolveConfig()

	cmd := &cobra.Command{
		Use:   "deconvolve",
		Short: "Restore an image with Richardson-Lucy deconvolution",
		Long: `deconvolve runs Richardson-Lucy iterations on an observed image.

The PSF is stored in centered layout (its center at psf-dims/2) and may be
smaller than the image. Values from --config are applied first; flags given
on the command line take precedence. Interrupting the run writes the last
completed estimate before exiting with an error.`,
		Example: `  rldeconv deconvolve --in obs.raw --psf psf.raw --dims 64,64,32 --psf-dims 15,15,15 -n 50 --out est.raw
  rldeconv deconvolve --in obs.raw --psf psf.raw --dims 512,512 --non-circulant --tv 0.002 --out est.raw
  rldeconv deconvolve --config rl.yaml --in obs.raw --psf psf.raw --dims 128,128 --out est.raw`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			if err := requireFlags("in", in, "psf", psfPath, "dims", dimsFlag, "out", out); err != nil {
				return err
			}

			cfg := DefaultDeconvolveConfig()
			if configPath != "" {
				var err error
				if cfg, err = LoadDeconvolveConfig(configPath, cfg); err != nil {
					return err
				}
			}
			overlayChanged(cmd.Flags(), &cfg, flags)

			dims, err := parseDims(dimsFlag)
			if err != nil {
				return err
			}
			psfDims := dims
			if psfDimsArg != "" {
				if psfDims, err = parseDims(psfDimsArg); err != nil {
					return err
				}
			}

			observed, err := readGrid(in, dims)
			if err != nil {
				return err
			}
			p, err := readGrid(psfPath, psfDims)
			if err != nil {
				return err
			}

			if cfg.Apodize > 0 {
				if err := apodize.Apply(observed, cfg.Apodize); err != nil {
					return err
				}
			}

			estimate, err := initialEstimate(initPath, observed)
			if err != nil {
				return err
			}

			var ref *grid.Grid
			if refPath != "" {
				if ref, err = readGrid(refPath, dims); err != nil {
					return err
				}
			}

			return a.runDeconvolve(cmd.Context(), cfg, observed, p, estimate, ref, out)
		},
	}

	cmd.Flags().StringVar(&in, "in", "", "observed image file")
	cmd.Flags().StringVar(&psfPath, "psf", "", "PSF file (centered layout)")
	cmd.Flags().StringVar(&initPath, "init", "", "initial estimate file (default: flat image at the observed mean)")
	cmd.Flags().StringVar(&dimsFlag, "dims", "", "image dimensions, e.g. 64,64,32")
	cmd.Flags().StringVar(&psfDimsArg, "psf-dims", "", "PSF dimensions (default: same as --dims)")
	cmd.Flags().StringVar(&out, "out", "", "output file for the estimate")
	cmd.Flags().StringVar(&refPath, "ref", "", "ground truth image; logs PSNR per iteration with --verbose")
	cmd.Flags().StringVar(&configPath, "config", "", "YAML file with deconvolution parameters")
	bindDeconvolveFlags(cmd.Flags(), &flags)

	return cmd
}

// iterationLogger logs the progress of every iteration. With a reference
// image it also logs the PSNR of the current estimate.
func (a *app) iterationLogger(dims []int, ref *grid.Grid) func(deconv.Iteration) {
	var window *grid.Grid
	return func(it deconv.Iteration) {
		ev := a.logger.Debug()
		if !ev.Enabled() {
			return
		}
		ev = ev.Int("iteration", it.Index).Float64("relative_change", it.RelativeChange)

		if ref != nil {
			// The estimate may live on padded work dims.
			est := it.Estimate
			if !slices.Equal(est.Dims(), dims) {
				if window == nil {
					window = grid.MustNew(dims...)
				}
				if err := grid.Embed(window, est); err == nil {
					est = window
				}
			}
			if c, err := quality.Compare(est, ref); err == nil {
				ev = ev.Float64("psnr_db", c.PSNR)
			}
		}

		ev.Msg("iteration")
	}
}

func initialEstimate(path string, observed *grid.Grid) (*grid.Grid, error) {
	if path != "" {
		return readGrid(path, observed.Dims())
	}
	estimate := grid.MustNew(observed.Dims()...)
	estimate.Fill(observed.Mean())
	return estimate, nil
}

func (a *app) runDeconvolve(ctx context.Context, cfg DeconvolveConfig, observed, p, estimate, ref *grid.Grid, out string) error {
	opts := cfg.Options()
	opts.Observer = a.iterationLogger(observed.Dims(), ref)

	d, err := deconv.New(p, observed.Dims(), opts)
	if err != nil {
		return err
	}

	a.logger.Info().
		Ints("dims", d.Dims()).
		Ints("work_dims", d.WorkDims()).
		Int("iterations", opts.Iterations).
		Bool("non_circulant", opts.NonCirculant).
		Float64("tv_lambda", opts.TVLambda).
		Msg("deconvolving")

	start := time.Now()
	res, runErr := d.Run(ctx, observed, estimate)
	if runErr != nil && !errors.Is(runErr, context.Canceled) && !errors.Is(runErr, context.DeadlineExceeded) {
		return runErr
	}

	if err := writeGrid(out, estimate); err != nil {
		return err
	}

	ev := a.logger.Info()
	if runErr != nil {
		ev = a.logger.Warn().Err(runErr)
	}
	ev.Int("iterations", res.Iterations).
		Float64("relative_change", res.RelativeChange).
		Bool("converged", res.Converged).
		Dur("elapsed", time.Since(start)).
		Str("out", out).
		Msg("estimate written")

	return runErr
}
