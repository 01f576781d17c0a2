package cli

import (
	"errors"
	"fmt"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"github.com/cwbudde/algo-deconv/dsp/fftnd"
)

var errSelfTestFailed = errors.New("fft self-test failed")

func (a *app) newSelfTestCommand() *cobra.Command {
	var width, height, workers int

	cmd := &cobra.Command{
		Use:   "selftest",
		Short: "Verify the FFT backend against a direct DFT",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			var opts []fftnd.Option
			if workers > 0 {
				opts = append(opts, fftnd.WithWorkers(workers))
			}

			r, err := fftnd.SelfTest(width, height, opts...)
			if err != nil {
				return err
			}

			a.logger.Debug().
				Str("arch", r.Features.Architecture).
				Bool("avx2", r.Features.HasAVX2).
				Bool("sse2", r.Features.HasSSE2).
				Msg("cpu features")

			tw := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 0, 2, ' ', 0)
			fmt.Fprintf(tw, "Check\tRelative Error\n")
			fmt.Fprintf(tw, "-----\t--------------\n")
			fmt.Fprintf(tw, "round trip\t%.3e\n", r.RoundTripMaxErr)
			fmt.Fprintf(tw, "parseval\t%.3e\n", r.ParsevalRelErr)
			if r.DFTChecked {
				fmt.Fprintf(tw, "direct dft\t%.3e\n", r.DFTMaxErr)
			} else {
				fmt.Fprintf(tw, "direct dft\tskipped\n")
			}
			if err := tw.Flush(); err != nil {
				return err
			}

			status := "PASS"
			if !r.Passed {
				status = "FAIL"
			}
			fmt.Fprintf(cmd.OutOrStdout(), "%dx%d: %s\n", r.Width, r.Height, status)

			if !r.Passed {
				a.logger.Error().Int("width", width).Int("height", height).Msg("self-test failed")
				return errSelfTestFailed
			}
			a.logger.Info().Int("width", width).Int("height", height).Msg("self-test passed")
			return nil
		},
	}

	cmd.Flags().IntVar(&width, "width", 32, "test image width")
	cmd.Flags().IntVar(&height, "height", 32, "test image height")
	cmd.Flags().IntVar(&workers, "workers", 0, "FFT worker goroutines (0 = GOMAXPROCS)")

	return cmd
}
