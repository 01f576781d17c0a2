package grid

import (
	"bytes"
	"errors"
	"math"
	"testing"
)

func TestNewErrors(t *testing.T) {
	tests := []struct {
		name string
		dims []int
	}{
		{"empty", nil},
		{"zero extent", []int{4, 0}},
		{"negative extent", []int{-1}},
		{"rank 4", []int{2, 2, 2, 2}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := New(tt.dims...)
			if !errors.Is(err, ErrInvalidDims) {
				t.Fatalf("expected ErrInvalidDims, got %v", err)
			}
		})
	}
}

func TestIndexLayout(t *testing.T) {
	g := MustNew(4, 3, 2)

	idx, err := g.Index(1, 2, 1)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if want := 1 + 2*4 + 1*4*3; idx != want {
		t.Fatalf("Index = %d, want %d", idx, want)
	}

	g.Set(7, 3, 2, 1)
	if got := g.Data()[len(g.Data())-1]; got != 7 {
		t.Fatalf("last sample = %v, want 7", got)
	}

	if _, err := g.Index(4, 0, 0); !errors.Is(err, ErrOutOfRange) {
		t.Fatalf("expected ErrOutOfRange, got %v", err)
	}
}

func TestFromSliceLengthMismatch(t *testing.T) {
	_, err := FromSlice(make([]float64, 5), 2, 3)
	if !errors.Is(err, ErrLengthMismatch) {
		t.Fatalf("expected ErrLengthMismatch, got %v", err)
	}
}

func TestNormalize(t *testing.T) {
	g, _ := FromSlice([]float64{1, 2, 3, 4}, 2, 2)
	if err := g.Normalize(); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if math.Abs(g.Sum()-1) > 1e-12 {
		t.Fatalf("sum = %v, want 1", g.Sum())
	}

	z := MustNew(3)
	if err := z.Normalize(); !errors.Is(err, ErrZeroSum) {
		t.Fatalf("expected ErrZeroSum, got %v", err)
	}
}

func TestCheckShape(t *testing.T) {
	a := MustNew(4, 4)
	b := MustNew(4, 2)
	if err := a.CheckShape(b); !errors.Is(err, ErrShapeMismatch) {
		t.Fatalf("expected ErrShapeMismatch, got %v", err)
	}
	if err := a.CheckShape(a.Clone()); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
}

func TestEmbedExtract(t *testing.T) {
	src, _ := FromSlice([]float64{1, 2, 3, 4}, 2, 2)
	dst := MustNew(4, 4)

	if err := Embed(dst, src, 1, 2); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	want := map[[2]int]float64{{1, 2}: 1, {2, 2}: 2, {1, 3}: 3, {2, 3}: 4}
	for y := range 4 {
		for x := range 4 {
			if got := dst.At(x, y); got != want[[2]int{x, y}] {
				t.Errorf("dst(%d,%d) = %v, want %v", x, y, got, want[[2]int{x, y}])
			}
		}
	}

	back, err := Extract(dst, []int{1, 2}, 2, 2)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	for i, v := range back.Data() {
		if v != src.Data()[i] {
			t.Errorf("back[%d] = %v, want %v", i, v, src.Data()[i])
		}
	}
}

func TestEmbedClipsNegativeOffset(t *testing.T) {
	src, _ := FromSlice([]float64{1, 2, 3}, 3)
	dst := MustNew(3)

	if err := Embed(dst, src, -1); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	want := []float64{2, 3, 0}
	for i, v := range dst.Data() {
		if v != want[i] {
			t.Errorf("dst[%d] = %v, want %v", i, v, want[i])
		}
	}
}

func TestCircShift(t *testing.T) {
	g, _ := FromSlice([]float64{0, 1, 2, 3, 4, 5}, 3, 2)

	out, err := CircShift(g, -1, 1)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	// Row y=0 moves to y=1 and x shifts left by one.
	want := []float64{4, 5, 3, 1, 2, 0}
	for i, v := range out.Data() {
		if v != want[i] {
			t.Errorf("out[%d] = %v, want %v", i, v, want[i])
		}
	}
}

func TestConvertFloat32(t *testing.T) {
	g, err := FromFloat32([]float32{1.5, -2, 3}, 3)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	f := g.Float32()
	if f[0] != 1.5 || f[1] != -2 || f[2] != 3 {
		t.Fatalf("round trip = %v", f)
	}
}

func TestFromFloat32Transposed(t *testing.T) {
	// 2x3 grid stored with y fastest.
	data := []float32{0, 1, 2, 10, 11, 12}
	g, err := FromFloat32Transposed(data, 2, 3)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if got := g.At(1, 2); got != 12 {
		t.Fatalf("At(1,2) = %v, want 12", got)
	}
	if got := g.At(0, 1); got != 1 {
		t.Fatalf("At(0,1) = %v, want 1", got)
	}
}

func TestInterleaveComplex(t *testing.T) {
	in := []complex128{complex(1, 2), complex(-3, 4)}
	packed := InterleaveComplex(in)

	if len(packed) != 4 || packed[2] != -3 || packed[3] != 4 {
		t.Fatalf("packed = %v", packed)
	}

	back, err := DeinterleaveComplex(packed)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	for i := range in {
		if back[i] != in[i] {
			t.Errorf("back[%d] = %v, want %v", i, back[i], in[i])
		}
	}

	if _, err := DeinterleaveComplex([]float32{1, 2, 3}); !errors.Is(err, ErrLengthMismatch) {
		t.Fatalf("expected ErrLengthMismatch, got %v", err)
	}
}

func TestRaw32RoundTrip(t *testing.T) {
	g, _ := FromSlice([]float64{0.25, -1, 8, 1e3}, 2, 2)

	var buf bytes.Buffer
	if err := WriteRaw32(&buf, g); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if buf.Len() != 16 {
		t.Fatalf("wrote %d bytes, want 16", buf.Len())
	}

	back, err := ReadRaw32(&buf, 2, 2)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	for i, v := range back.Data() {
		if v != g.Data()[i] {
			t.Errorf("back[%d] = %v, want %v", i, v, g.Data()[i])
		}
	}
}

func TestReadRaw32Short(t *testing.T) {
	_, err := ReadRaw32(bytes.NewReader(make([]byte, 6)), 2, 2)
	if err == nil {
		t.Fatal("expected error for short input")
	}
}

func TestPoolZeroes(t *testing.T) {
	p := NewPool()

	g, err := p.Get(4, 4)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	g.Fill(3)
	p.Put(g)

	g2, err := p.Get(2, 2)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if g2.Len() != 4 {
		t.Fatalf("Len = %d, want 4", g2.Len())
	}
	for i, v := range g2.Data() {
		if v != 0 {
			t.Fatalf("sample %d = %v, want 0", i, v)
		}
	}
}
