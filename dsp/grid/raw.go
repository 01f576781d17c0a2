package grid

import (
	"encoding/binary"
	"fmt"
	"io"
	"math"
)

// ReadRaw32 reads a headerless little-endian float32 grid with the given dims.
func ReadRaw32(r io.Reader, dims ...int) (*Grid, error) {
	n, err := Volume(dims)
	if err != nil {
		return nil, err
	}

	buf := make([]byte, 4*n)
	if _, err := io.ReadFull(r, buf); err != nil {
		return nil, fmt.Errorf("grid: read %d samples: %w", n, err)
	}

	g := &Grid{dims: append([]int(nil), dims...), data: make([]float64, n)}
	for i := range g.data {
		g.data[i] = float64(math.Float32frombits(binary.LittleEndian.Uint32(buf[4*i:])))
	}

	return g, nil
}

// WriteRaw32 writes g as headerless little-endian float32 samples.
func WriteRaw32(w io.Writer, g *Grid) error {
	buf := make([]byte, 4*len(g.data))
	for i, v := range g.data {
		binary.LittleEndian.PutUint32(buf[4*i:], math.Float32bits(float32(v)))
	}

	if _, err := w.Write(buf); err != nil {
		return fmt.Errorf("grid: write %d samples: %w", len(g.data), err)
	}
	return nil
}
