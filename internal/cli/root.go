// Package cli implements the rldeconv command tree.
package cli

import (
	"context"
	"io"
	"os"
	"time"

	"github.com/rs/zerolog"
	"github.com/spf13/cobra"
)

// app carries state shared by all subcommands.
type app struct {
	verbose bool
	logJSON bool
	logOut  io.Writer
	logger  zerolog.Logger
}

// NewRootCommand builds the rldeconv command tree. Log output goes to
// logOut (stderr when nil).
func NewRootCommand(logOut io.Writer) *cobra.Command {
	if logOut == nil {
		logOut = os.Stderr
	}
	a := &app{logOut: logOut, logger: zerolog.Nop()}

	root := &cobra.Command{
		Use:   "rldeconv",
		Short: "FFT image convolution and Richardson-Lucy deconvolution",
		Long: `rldeconv convolves and deconvolves 2D images and 3D volumes stored as
headerless little-endian float32 files (x varies fastest, then y, then z).

It can verify the FFT backend (selftest), generate Gaussian PSFs (psf),
blur images (convolve), restore them (deconvolve) and measure the
result (stats).`,
		SilenceUsage: true,
		PersistentPreRunE: func(cmd *cobra.Command, _ []string) error {
			a.logger = a.newLogger()
			return nil
		},
	}

	root.PersistentFlags().BoolVarP(&a.verbose, "verbose", "v", false, "verbose output")
	root.PersistentFlags().BoolVar(&a.logJSON, "log-json", false, "emit logs as JSON lines")

	root.AddCommand(
		a.newSelfTestCommand(),
		a.newPSFCommand(),
		a.newConvolveCommand(),
		a.newDeconvolveCommand(),
		a.newStatsCommand(),
	)

	return root
}

// Execute runs the command tree with ctx.
func Execute(ctx context.Context) error {
	return NewRootCommand(os.Stderr).ExecuteContext(ctx)
}

func (a *app) newLogger() zerolog.Logger {
	level := zerolog.InfoLevel
	if a.verbose {
		level = zerolog.DebugLevel
	}

	var out io.Writer = zerolog.ConsoleWriter{Out: a.logOut, TimeFormat: time.TimeOnly, NoColor: true}
	if a.logJSON {
		out = a.logOut
	}

	return zerolog.New(out).Level(level).With().
		Timestamp().
		Str("app", "rldeconv").
		Logger()
}
