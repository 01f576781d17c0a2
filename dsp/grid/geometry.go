package grid

import "fmt"

// dims3 pads dims to three axes with unit extents.
func dims3(dims []int) [3]int {
	out := [3]int{1, 1, 1}
	copy(out[:], dims)
	return out
}

func offset3(offset []int) [3]int {
	var out [3]int
	copy(out[:], offset)
	return out
}

// Embed copies src into dst with src's origin placed at offset in dst.
// Samples falling outside dst are clipped; dst samples not covered by src
// are left untouched. Both grids must have the same rank.
func Embed(dst, src *Grid, offset ...int) error {
	if dst.Rank() != src.Rank() {
		return fmt.Errorf("%w: rank %d into rank %d", ErrShapeMismatch, src.Rank(), dst.Rank())
	}
	if len(offset) > dst.Rank() {
		return fmt.Errorf("%w: %d offsets for rank %d", ErrOutOfRange, len(offset), dst.Rank())
	}

	dd := dims3(dst.dims)
	sd := dims3(src.dims)
	off := offset3(offset)

	for z := range sd[2] {
		tz := z + off[2]
		if tz < 0 || tz >= dd[2] {
			continue
		}
		for y := range sd[1] {
			ty := y + off[1]
			if ty < 0 || ty >= dd[1] {
				continue
			}

			// Clip the x run once per row and copy it in one go.
			x0 := max(0, -off[0])
			x1 := min(sd[0], dd[0]-off[0])
			if x0 >= x1 {
				continue
			}

			srcRow := (z*sd[1] + y) * sd[0]
			dstRow := (tz*dd[1]+ty)*dd[0] + off[0]
			copy(dst.data[dstRow+x0:dstRow+x1], src.data[srcRow+x0:srcRow+x1])
		}
	}

	return nil
}

// Extract returns a new grid of the given dims cropped from src at offset.
// Regions outside src are zero.
func Extract(src *Grid, offset []int, dims ...int) (*Grid, error) {
	if len(dims) != src.Rank() {
		return nil, fmt.Errorf("%w: rank %d from rank %d", ErrShapeMismatch, len(dims), src.Rank())
	}

	out, err := New(dims...)
	if err != nil {
		return nil, err
	}

	neg := make([]int, len(offset))
	for i, o := range offset {
		neg[i] = -o
	}

	if err := Embed(out, src, neg...); err != nil {
		return nil, err
	}

	return out, nil
}

// CircShift returns a copy of g periodically shifted by shift along each
// axis: out[(p + shift) mod n] = g[p]. Negative shifts are allowed.
func CircShift(g *Grid, shift ...int) (*Grid, error) {
	if len(shift) > g.Rank() {
		return nil, fmt.Errorf("%w: %d shifts for rank %d", ErrOutOfRange, len(shift), g.Rank())
	}

	d := dims3(g.dims)
	s := offset3(shift)
	for i := range s {
		s[i] = ((s[i] % d[i]) + d[i]) % d[i]
	}

	out := &Grid{dims: g.Dims(), data: make([]float64, len(g.data))}
	for z := range d[2] {
		tz := (z + s[2]) % d[2]
		for y := range d[1] {
			ty := (y + s[1]) % d[1]
			srcRow := (z*d[1] + y) * d[0]
			dstRow := (tz*d[1] + ty) * d[0]
			for x := range d[0] {
				out.data[dstRow+(x+s[0])%d[0]] = g.data[srcRow+x]
			}
		}
	}

	return out, nil
}
