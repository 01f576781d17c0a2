package cli

import (
	"errors"
	"fmt"
	"os"
	"strconv"
	"strings"

	"github.com/cwbudde/algo-deconv/dsp/grid"
)

var errMissingFlag = errors.New("missing required flag")

// parseDims parses "64,64,32" or "64x64x32".
func parseDims(s string) ([]int, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return nil, fmt.Errorf("empty dims")
	}

	fields := strings.FieldsFunc(s, func(r rune) bool { return r == ',' || r == 'x' || r == 'X' })
	dims := make([]int, 0, len(fields))
	for _, f := range fields {
		d, err := strconv.Atoi(strings.TrimSpace(f))
		if err != nil {
			return nil, fmt.Errorf("invalid dims %q: %w", s, err)
		}
		dims = append(dims, d)
	}

	if _, err := grid.Volume(dims); err != nil {
		return nil, err
	}
	return dims, nil
}

// parseFloats parses a comma separated list of floats.
func parseFloats(s string) ([]float64, error) {
	var out []float64
	for _, f := range strings.Split(s, ",") {
		v, err := strconv.ParseFloat(strings.TrimSpace(f), 64)
		if err != nil {
			return nil, fmt.Errorf("invalid number list %q: %w", s, err)
		}
		out = append(out, v)
	}
	return out, nil
}

func readGrid(path string, dims []int) (*grid.Grid, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	g, err := grid.ReadRaw32(f, dims...)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	return g, nil
}

func writeGrid(path string, g *grid.Grid) error {
	f, err := os.Create(path)
	if err != nil {
		return err
	}

	if err := grid.WriteRaw32(f, g); err != nil {
		_ = f.Close()
		return fmt.Errorf("%s: %w", path, err)
	}
	return f.Close()
}

func requireFlags(pairs ...string) error {
	for i := 0; i+1 < len(pairs); i += 2 {
		if pairs[i+1] == "" {
			return fmt.Errorf("%w --%s", errMissingFlag, pairs[i])
		}
	}
	return nil
}
