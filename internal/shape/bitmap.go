package shape

import (
	"errors"
	"fmt"

	"github.com/1broseidon/shapewin/internal/pixel"
)

var (
	// ErrInvalidArgument is returned for out-of-range packing or build parameters.
	ErrInvalidArgument = errors.New("invalid shape argument")
	// ErrOutOfBounds is returned when a region does not fit the surface.
	ErrOutOfBounds = errors.New("region outside surface")
)

// BitmapSize returns the number of bytes PackBitmap needs for a
// width x height surface at ppb pixels per byte.
func BitmapSize(width, height, ppb int) int {
	if ppb < 1 {
		return 0
	}
	return (width*height + ppb - 1) / ppb
}

// PackBitmap classifies every pixel of s in row-major order and ORs the
// result into out. Pixel i = y*w + x lands in byte i/ppb at bit
// 7 - ((ppb-1) - i%ppb). Bits are never cleared, so out must be zeroed by
// the caller and hold at least BitmapSize(w, h, ppb) bytes.
func PackBitmap(c Classifier, s *pixel.Surface, out []byte, ppb int) error {
	if err := s.Validate(); err != nil {
		return err
	}
	if ppb < 1 || ppb > 8 {
		return fmt.Errorf("%w: pixels per byte %d not in 1..8", ErrInvalidArgument, ppb)
	}
	if need := BitmapSize(s.Width, s.Height, ppb); len(out) < need {
		return fmt.Errorf("%w: bitmap holds %d bytes, need %d", ErrInvalidArgument, len(out), need)
	}

	unlock, err := s.Lock()
	if err != nil {
		return err
	}
	defer unlock()

	for y := 0; y < s.Height; y++ {
		for x := 0; x < s.Width; x++ {
			if !c.Classify(pixel.Decode(s, x, y)) {
				continue
			}
			i := y*s.Width + x
			out[i/ppb] |= 1 << (7 - ((ppb - 1) - i%ppb))
		}
	}
	return nil
}

// Bitmap allocates a zeroed buffer and packs s into it.
func Bitmap(c Classifier, s *pixel.Surface, ppb int) ([]byte, error) {
	if s == nil {
		return nil, fmt.Errorf("%w: nil surface", ErrInvalidArgument)
	}
	out := make([]byte, BitmapSize(s.Width, s.Height, ppb))
	if err := PackBitmap(c, s, out, ppb); err != nil {
		return nil, err
	}
	return out, nil
}

// BitmapBit reports whether pixel i is set in a bitmap packed at ppb.
func BitmapBit(bitmap []byte, i, ppb int) bool {
	return bitmap[i/ppb]&(1<<(7-((ppb-1)-i%ppb))) != 0
}
