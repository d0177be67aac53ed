package x11

import (
	"bytes"
	"testing"

	shapepkg "github.com/1broseidon/shapewin/internal/shape"
)

func TestScanlinesPadsRows(t *testing.T) {
	// 3x2, row-major: row 0 = 1 0 1, row 1 = 0 1 1.
	// Continuous bits 0..5 => 1 0 1 0 1 1 => 0b110101.
	bitmap := []byte{0x35}

	data, stride := Scanlines(bitmap, 3, 2, 32, false)
	if stride != 4 {
		t.Fatalf("stride = %d, want 4", stride)
	}
	want := []byte{
		0x05, 0, 0, 0,
		0x06, 0, 0, 0,
	}
	if !bytes.Equal(data, want) {
		t.Fatalf("data = %x, want %x", data, want)
	}
}

func TestScanlinesMSBFirst(t *testing.T) {
	bitmap := []byte{0x35}

	data, stride := Scanlines(bitmap, 3, 2, 8, true)
	if stride != 1 {
		t.Fatalf("stride = %d, want 1", stride)
	}
	want := []byte{0xa0, 0x60}
	if !bytes.Equal(data, want) {
		t.Fatalf("data = %x, want %x", data, want)
	}
}

func TestScanlinesWideRow(t *testing.T) {
	// 10 pixels wide, one row, only the last pixel set.
	bitmap := []byte{0x00, 0x02}

	data, stride := Scanlines(bitmap, 10, 1, 16, false)
	if stride != 2 {
		t.Fatalf("stride = %d, want 2", stride)
	}
	if data[0] != 0 || data[1] != 0x02 {
		t.Fatalf("data = %x, want 0002", data)
	}
}

func TestRectanglesDropsEmpty(t *testing.T) {
	in := []shapepkg.Rect{
		{X: 1, Y: 2, W: 3, H: 4},
		{X: 5, Y: 5, W: 0, H: 2},
		{X: 0, Y: 0, W: 7, H: 1},
	}
	got := Rectangles(in)
	if len(got) != 2 {
		t.Fatalf("len = %d, want 2", len(got))
	}
	if got[0].X != 1 || got[0].Y != 2 || got[0].Width != 3 || got[0].Height != 4 {
		t.Fatalf("first rect = %+v", got[0])
	}
	if got[1].Width != 7 || got[1].Height != 1 {
		t.Fatalf("second rect = %+v", got[1])
	}
}

func TestMonitorPlacement(t *testing.T) {
	mon := Monitor{X: 1920, Y: 0, Width: 2560, Height: 1440}

	if !mon.Contains(1920, 0) || mon.Contains(1919, 10) || mon.Contains(4480, 10) {
		t.Fatalf("Contains gave wrong answer for edges")
	}

	x, y := mon.Center(400, 300)
	if x != 1920+1080 || y != 570 {
		t.Fatalf("Center = (%d,%d), want (3000,570)", x, y)
	}

	clipped := Intersect(mon, 0, 30, 5000, 1380)
	if clipped.X != 1920 || clipped.Y != 30 || clipped.Width != 2560 || clipped.Height != 1380 {
		t.Fatalf("Intersect = %+v", clipped)
	}

	if got := Intersect(mon, 0, 0, 100, 100); got != mon {
		t.Fatalf("disjoint work area changed monitor: %+v", got)
	}
}

func TestLockCombinations(t *testing.T) {
	got := lockCombinations([]uint16{0x02, 0x10})
	want := []uint16{0x02, 0x10, 0x12}
	if len(got) != len(want) {
		t.Fatalf("got %v, want %v", got, want)
	}
	for i := range want {
		if got[i] != want[i] {
			t.Fatalf("got %v, want %v", got, want)
		}
	}
	if got := lockCombinations(nil); len(got) != 0 {
		t.Fatalf("no masks gave %v", got)
	}
}

func TestCheckSize(t *testing.T) {
	tests := []struct {
		w, h    int
		wantErr bool
	}{
		{0, 0, false},
		{640, 480, false},
		{MaxDimension, MaxDimension, false},
		{MaxDimension + 1, 10, true},
		{10, 40000, true},
		{-1, 10, true},
	}
	for _, tt := range tests {
		if err := CheckSize(tt.w, tt.h); (err != nil) != tt.wantErr {
			t.Errorf("CheckSize(%d, %d) error = %v, wantErr %v", tt.w, tt.h, err, tt.wantErr)
		}
	}
}
