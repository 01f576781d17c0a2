package cli

import (
	"fmt"
	"io"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"github.com/cwbudde/algo-deconv/dsp/grid"
	"github.com/cwbudde/algo-deconv/dsp/quality"
)

func (a *app) newStatsCommand() *cobra.Command {
	var in, ref, dimsFlag string

	cmd := &cobra.Command{
		Use:   "stats",
		Short: "Print image statistics, and error metrics against a reference",
		Example: `  rldeconv stats --in est.raw --dims 64,64,32
  rldeconv stats --in est.raw --ref truth.raw --dims 64,64,32`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			if err := requireFlags("in", in, "dims", dimsFlag); err != nil {
				return err
			}
			dims, err := parseDims(dimsFlag)
			if err != nil {
				return err
			}
			g, err := readGrid(in, dims)
			if err != nil {
				return err
			}

			var cmp *quality.Comparison
			if ref != "" {
				r, err := readGrid(ref, dims)
				if err != nil {
					return err
				}
				c, err := quality.Compare(g, r)
				if err != nil {
					return err
				}
				cmp = &c
			}

			return printStats(cmd.OutOrStdout(), g, quality.Calculate(g), cmp)
		},
	}

	cmd.Flags().StringVar(&in, "in", "", "image file")
	cmd.Flags().StringVar(&ref, "ref", "", "reference image file")
	cmd.Flags().StringVar(&dimsFlag, "dims", "", "image dimensions, e.g. 64,64,32")

	return cmd
}

func printStats(w io.Writer, g *grid.Grid, s quality.Stats, cmp *quality.Comparison) error {
	tw := tabwriter.NewWriter(w, 0, 0, 2, ' ', 0)
	fmt.Fprintf(tw, "Metric\tValue\n")
	fmt.Fprintf(tw, "------\t-----\n")
	fmt.Fprintf(tw, "dims\t%v\n", g.Dims())
	fmt.Fprintf(tw, "sum\t%.6g\n", s.Sum)
	fmt.Fprintf(tw, "mean\t%.6g\n", s.Mean)
	fmt.Fprintf(tw, "std\t%.6g\n", s.Std)
	fmt.Fprintf(tw, "min\t%.6g at %v\n", s.Min, s.MinPos)
	fmt.Fprintf(tw, "max\t%.6g at %v\n", s.Max, s.MaxPos)
	fmt.Fprintf(tw, "skewness\t%.4f\n", s.Skewness)
	fmt.Fprintf(tw, "kurtosis\t%.4f\n", s.Kurtosis)

	if cmp != nil {
		fmt.Fprintf(tw, "rmse\t%.6g\n", cmp.RMSE)
		fmt.Fprintf(tw, "max abs err\t%.6g\n", cmp.MaxAbsErr)
		fmt.Fprintf(tw, "relative l2\t%.6g\n", cmp.RelativeL2)
		fmt.Fprintf(tw, "snr\t%.2f dB\n", cmp.SNR)
		fmt.Fprintf(tw, "psnr\t%.2f dB\n", cmp.PSNR)
	}

	return tw.Flush()
}
