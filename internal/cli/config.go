package cli

import (
	"errors"
	"fmt"
	"io"
	"os"

	"github.com/spf13/pflag"
	"gopkg.in/yaml.v3"

	"github.com/cwbudde/algo-deconv/dsp/deconv"
)

// DeconvolveConfig holds the tunable parameters of a deconvolve run.
// It can be loaded from YAML with --config; flags given on the command
// line override values from the file.
type DeconvolveConfig struct {
	Iterations   int     `yaml:"iterations"`
	Epsilon      float64 `yaml:"epsilon"`
	NonCirculant bool    `yaml:"non_circulant"`
	TVLambda     float64 `yaml:"tv_lambda"`
	Positivity   bool    `yaml:"positivity"`
	Tolerance    float64 `yaml:"tolerance"`
	Workers      int     `yaml:"workers"`
	Apodize      float64 `yaml:"apodize"`
}

// DefaultDeconvolveConfig mirrors deconv.DefaultOptions.
func DefaultDeconvolveConfig() DeconvolveConfig {
	o := deconv.DefaultOptions()
	return DeconvolveConfig{
		Iterations:   o.Iterations,
		Epsilon:      o.Epsilon,
		NonCirculant: o.NonCirculant,
		TVLambda:     o.TVLambda,
		Positivity:   o.Positivity,
		Tolerance:    o.Tolerance,
		Workers:      o.Workers,
	}
}

// Options converts the config to deconv.Options.
func (c DeconvolveConfig) Options() deconv.Options {
	o := deconv.DefaultOptions()
	o.Iterations = c.Iterations
	o.Epsilon = c.Epsilon
	o.NonCirculant = c.NonCirculant
	o.TVLambda = c.TVLambda
	o.Positivity = c.Positivity
	o.Tolerance = c.Tolerance
	o.Workers = c.Workers
	return o
}

// LoadDeconvolveConfig reads a YAML config file. Keys missing from the
// file keep their value from base. Unknown keys are an error.
func LoadDeconvolveConfig(path string, base DeconvolveConfig) (DeconvolveConfig, error) {
	f, err := os.Open(path)
	if err != nil {
		return base, fmt.Errorf("config: %w", err)
	}
	defer f.Close()

	cfg := base
	dec := yaml.NewDecoder(f)
	dec.KnownFields(true)
	if err := dec.Decode(&cfg); err != nil && !errors.Is(err, io.EOF) {
		return base, fmt.Errorf("config %s: %w", path, err)
	}
	return cfg, nil
}

// bindDeconvolveFlags registers the config fields on fs.
func bindDeconvolveFlags(fs *pflag.FlagSet, c *DeconvolveConfig) {
	fs.IntVarP(&c.Iterations, "iterations", "n", c.Iterations, "number of Richardson-Lucy iterations")
	fs.Float64Var(&c.Epsilon, "epsilon", c.Epsilon, "denominator floor")
	fs.BoolVar(&c.NonCirculant, "non-circulant", c.NonCirculant, "pad to avoid wrap-around at the image edges")
	fs.Float64Var(&c.TVLambda, "tv", c.TVLambda, "total variation regularization weight (0 disables)")
	fs.BoolVar(&c.Positivity, "positivity", c.Positivity, "clamp the estimate to non-negative values")
	fs.Float64Var(&c.Tolerance, "tolerance", c.Tolerance, "stop once the relative change drops below this (0 disables)")
	fs.IntVar(&c.Workers, "workers", c.Workers, "FFT worker goroutines (0 = GOMAXPROCS)")
	fs.Float64Var(&c.Apodize, "apodize", c.Apodize, "Tukey taper fraction applied to the observed image (0 disables)")
}

// overlayChanged copies the fields whose flags were set explicitly from
// flags onto cfg.
func overlayChanged(fs *pflag.FlagSet, cfg *DeconvolveConfig, flags DeconvolveConfig) {
	fs.Visit(func(f *pflag.Flag) {
		switch f.Name {
		case "iterations":
			cfg.Iterations = flags.Iterations
		case "epsilon":
			cfg.Epsilon = flags.Epsilon
		case "non-circulant":
			cfg.NonCirculant = flags.NonCirculant
		case "tv":
			cfg.TVLambda = flags.TVLambda
		case "positivity":
			cfg.Positivity = flags.Positivity
		case "tolerance":
			cfg.Tolerance = flags.Tolerance
		case "workers":
			cfg.Workers = flags.Workers
		case "apodize":
			cfg.Apodize = flags.Apodize
		}
	})
}
