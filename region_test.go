package rasterdoc

import (
	"errors"
	"fmt"
	"math"
	"testing"
)

type point struct{ x, y int }

func collect(t *testing.T, it *RegionIterator) []point {
	t.Helper()
	var pts []point
	for !it.IsDone() {
		x, y, err := it.Current()
		if err != nil {
			t.Fatalf("Current() = %v", err)
		}
		pts = append(pts, point{x, y})
		it.Advance()
	}
	return pts
}

func TestRegionIteratorOrder(t *testing.T) {
	buf, _ := NewPixelBuffer(4, 3, 4)
	it, err := NewRegionIterator(buf, 1, 1, 2, 2)
	if err != nil {
		t.Fatal(err)
	}
	got := collect(t, it)
	want := []point{{1, 1}, {2, 1}, {1, 2}, {2, 2}}
	if fmt.Sprint(got) != fmt.Sprint(want) {
		t.Errorf("visited %v, want %v", got, want)
	}
}

func TestRegionIteratorClipping(t *testing.T) {
	buf, _ := NewPixelBuffer(4, 3, 1)
	tests := []struct {
		name       string
		x, y, w, h int
		want       Rect
		wantCount  int
	}{
		{"full", 0, 0, 4, 3, R(0, 0, 4, 3), 12},
		{"overhang right", 2, 0, 10, 3, R(2, 0, 2, 3), 6},
		{"negative origin", -1, -1, 3, 3, R(0, 0, 2, 2), 4},
		{"outside", 10, 10, 2, 2, R(10, 10, 0, 0), 0},
		{"zero width", 1, 1, 0, 2, R(1, 1, 0, 2), 0},
		{"zero both", 0, 0, 0, 0, R(0, 0, 0, 0), 0},
		{"huge width", 1, 0, math.MaxInt, 1, R(1, 0, 3, 1), 3},
		{"huge both", 2, 1, math.MaxInt, math.MaxInt, R(2, 1, 2, 2), 4},
		{"far left huge width", math.MinInt, 0, math.MaxInt, 3, R(0, 0, 0, 3), 0},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			it, err := NewRegionIterator(buf, tt.x, tt.y, tt.w, tt.h)
			if err != nil {
				t.Fatal(err)
			}
			if it.Region() != tt.want {
				t.Errorf("Region() = %v, want %v", it.Region(), tt.want)
			}
			if tt.wantCount == 0 && !it.IsDone() {
				t.Error("empty region should start done")
			}
			if got := len(collect(t, it)); got != tt.wantCount {
				t.Errorf("visited %d pixels, want %d", got, tt.wantCount)
			}
		})
	}
}

func TestRegionIteratorNegativeSize(t *testing.T) {
	buf, _ := NewPixelBuffer(4, 3, 1)
	for _, sz := range [][2]int{{-1, 2}, {2, -1}, {-1, -1}} {
		if _, err := NewRegionIterator(buf, 0, 0, sz[0], sz[1]); !errors.Is(err, ErrInvalidRegion) {
			t.Errorf("size %v error = %v, want ErrInvalidRegion", sz, err)
		}
	}
}

func TestRegionIteratorAdvanceCount(t *testing.T) {
	for _, sz := range [][2]int{{1, 1}, {4, 3}, {7, 1}, {1, 9}, {16, 16}} {
		buf, _ := NewPixelBuffer(sz[0], sz[1], 3)
		it, _ := NewRegionIterator(buf, 0, 0, sz[0], sz[1])
		advances := 0
		for !it.IsDone() {
			it.Advance()
			advances++
		}
		if advances != sz[0]*sz[1] {
			t.Errorf("%dx%d: %d advances, want %d", sz[0], sz[1], advances, sz[0]*sz[1])
		}
	}
}

func TestRegionIteratorExhausted(t *testing.T) {
	buf, _ := NewPixelBuffer(2, 1, 4)
	it, _ := NewRegionIterator(buf, 0, 0, 2, 1)
	if it.Advance() {
		t.Fatal("Advance() reported done after first pixel")
	}
	if !it.Advance() {
		t.Fatal("Advance() should report done after last pixel")
	}
	for range 3 {
		if !it.Advance() {
			t.Error("Advance() on a done iterator must return true")
		}
	}
	if _, _, err := it.Current(); !IsExhausted(err) {
		t.Errorf("Current() error = %v, want ErrIteratorExhausted", err)
	}
	if err := it.InvertPixel(); !errors.Is(err, ErrIteratorExhausted) {
		t.Errorf("InvertPixel() error = %v", err)
	}
	if _, err := it.Get(0); !errors.Is(err, ErrIteratorExhausted) {
		t.Errorf("Get() error = %v", err)
	}
	if err := it.Set(0, 1); !errors.Is(err, ErrIteratorExhausted) {
		t.Errorf("Set() error = %v", err)
	}
	if IsExhausted(ErrOutOfBounds) {
		t.Error("IsExhausted(ErrOutOfBounds) = true")
	}
}

func TestRegionIteratorGetSet(t *testing.T) {
	buf, _ := NewPixelBuffer(3, 3, 3)
	it, _ := NewRegionIterator(buf, 1, 1, 1, 1)
	if err := it.Set(2, 300); err != nil {
		t.Fatal(err)
	}
	if v, _ := buf.Get(1, 1, 2); v != 255 {
		t.Errorf("Set through iterator stored %d, want 255", v)
	}
	if v, err := it.Get(2); err != nil || v != 255 {
		t.Errorf("Get(2) = %d, %v", v, err)
	}
	if _, err := it.Get(3); !errors.Is(err, ErrOutOfBounds) {
		t.Errorf("Get(3) error = %v, want ErrOutOfBounds", err)
	}
}

func TestInvertPixel(t *testing.T) {
	tests := []struct {
		channels int
		in       []uint8
		want     []uint8
	}{
		{1, []uint8{10}, []uint8{245}},
		{2, []uint8{10, 77}, []uint8{245, 77}},
		{3, []uint8{0, 128, 255}, []uint8{255, 127, 0}},
		{4, []uint8{0, 128, 255, 33}, []uint8{255, 127, 0, 33}},
	}
	for _, tt := range tests {
		t.Run(fmt.Sprintf("%d channels", tt.channels), func(t *testing.T) {
			buf, _ := NewPixelBuffer(1, 1, tt.channels)
			_ = buf.Fill(tt.in...)
			it, _ := NewRegionIterator(buf, 0, 0, 1, 1)
			if err := it.InvertPixel(); err != nil {
				t.Fatal(err)
			}
			if fmt.Sprint(buf.Pixel(0, 0)) != fmt.Sprint(tt.want) {
				t.Errorf("inverted = %v, want %v", buf.Pixel(0, 0), tt.want)
			}
		})
	}
}

func TestInvertInvolution(t *testing.T) {
	buf, _ := NewPixelBuffer(256, 1, 4)
	for x := range 256 {
		for c := range 4 {
			_ = buf.Set(x, 0, c, x)
		}
	}
	orig := buf.Clone()
	for range 2 {
		if err := InvertRegion(buf, buf.Rect()); err != nil {
			t.Fatal(err)
		}
	}
	for i, v := range buf.Data() {
		if v != orig.Data()[i] {
			t.Fatalf("byte %d = %d after double invert, want %d", i, v, orig.Data()[i])
		}
	}
}

func TestInvertRegionLeavesOutsideUntouched(t *testing.T) {
	buf, _ := NewPixelBuffer(4, 3, 3)
	_ = buf.Fill(10, 20, 30)
	if err := InvertRegion(buf, R(1, 1, 2, 2)); err != nil {
		t.Fatal(err)
	}
	for y := range 3 {
		for x := range 4 {
			v, _ := buf.Get(x, y, 0)
			inside := R(1, 1, 2, 2).Contains(x, y)
			if inside && v != 245 || !inside && v != 10 {
				t.Errorf("pixel (%d,%d) channel 0 = %d (inside=%v)", x, y, v, inside)
			}
		}
	}
	if err := InvertRegion(buf, R(0, 0, -1, 1)); !errors.Is(err, ErrInvalidRegion) {
		t.Errorf("InvertRegion(negative) error = %v", err)
	}
}

func BenchmarkInvertRegion(b *testing.B) {
	buf, _ := NewPixelBuffer(512, 512, 4)
	b.ReportAllocs()
	for b.Loop() {
		_ = InvertRegion(buf, buf.Rect())
	}
}
