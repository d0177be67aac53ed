package shape

import (
	"fmt"
	"image"
)

// Rect is a half-open pixel region [X, X+W) x [Y, Y+H).
type Rect struct {
	X int
	Y int
	W int
	H int
}

// Empty reports whether the rect covers no pixels.
func (r Rect) Empty() bool {
	return r.W <= 0 || r.H <= 0
}

// Area returns the number of pixels covered.
func (r Rect) Area() int {
	if r.Empty() {
		return 0
	}
	return r.W * r.H
}

// Image converts r to an image.Rectangle.
func (r Rect) Image() image.Rectangle {
	return image.Rect(r.X, r.Y, r.X+r.W, r.Y+r.H)
}

// In reports whether r lies inside a width x height area anchored at the origin.
func (r Rect) In(width, height int) bool {
	return r.X >= 0 && r.Y >= 0 && r.W >= 0 && r.H >= 0 &&
		r.X+r.W <= width && r.Y+r.H <= height
}

func (r Rect) String() string {
	return fmt.Sprintf("(%d,%d %dx%d)", r.X, r.Y, r.W, r.H)
}

// Quadrants splits r at half width and half height. Odd remainders go to the
// right and bottom quadrants, so the four results exactly partition r.
// Order is up-left, up-right, down-left, down-right.
func (r Rect) Quadrants() [4]Rect {
	lw, lh := r.W/2, r.H/2
	rw, rh := r.W-lw, r.H-lh
	return [4]Rect{
		{X: r.X, Y: r.Y, W: lw, H: lh},
		{X: r.X + lw, Y: r.Y, W: rw, H: lh},
		{X: r.X, Y: r.Y + lh, W: lw, H: rh},
		{X: r.X + lw, Y: r.Y + lh, W: rw, H: rh},
	}
}
