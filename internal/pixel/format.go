package pixel

import (
	"fmt"
	"image/color"
	"math/bits"
)

// Format describes how a raw pixel value is laid out in memory.
//
// Pixels are stored little-endian. A Format with BytesPerPixel 1 and a
// non-nil Palette is indexed; otherwise channels are extracted with the masks.
type Format struct {
	BytesPerPixel int
	Rmask         uint32
	Gmask         uint32
	Bmask         uint32
	Amask         uint32
	Palette       color.Palette
}

// Predefined formats.
var (
	ARGB8888 = &Format{BytesPerPixel: 4, Rmask: 0x00ff0000, Gmask: 0x0000ff00, Bmask: 0x000000ff, Amask: 0xff000000}
	ABGR8888 = &Format{BytesPerPixel: 4, Rmask: 0x000000ff, Gmask: 0x0000ff00, Bmask: 0x00ff0000, Amask: 0xff000000}
	RGB888   = &Format{BytesPerPixel: 3, Rmask: 0x00ff0000, Gmask: 0x0000ff00, Bmask: 0x000000ff}
	RGB565   = &Format{BytesPerPixel: 2, Rmask: 0xf800, Gmask: 0x07e0, Bmask: 0x001f}
	ARGB4444 = &Format{BytesPerPixel: 2, Rmask: 0x0f00, Gmask: 0x00f0, Bmask: 0x000f, Amask: 0xf000}
	ARGB1555 = &Format{BytesPerPixel: 2, Rmask: 0x7c00, Gmask: 0x03e0, Bmask: 0x001f, Amask: 0x8000}
)

// NewIndexed returns a one byte per pixel format backed by a palette.
func NewIndexed(p color.Palette) *Format {
	return &Format{BytesPerPixel: 1, Palette: p}
}

// Validate reports whether the format can be decoded.
func (f *Format) Validate() error {
	if f == nil {
		return fmt.Errorf("%w: nil pixel format", ErrInvalidFormat)
	}
	if f.BytesPerPixel < 1 || f.BytesPerPixel > 4 {
		return fmt.Errorf("%w: bytes per pixel %d not in 1..4", ErrInvalidFormat, f.BytesPerPixel)
	}
	if f.Palette != nil && f.BytesPerPixel != 1 {
		return fmt.Errorf("%w: palette requires 1 byte per pixel", ErrInvalidFormat)
	}
	return nil
}

// Indexed reports whether pixel values are palette indices.
func (f *Format) Indexed() bool {
	return f.BytesPerPixel == 1 && f.Palette != nil
}

// RGBA splits a raw pixel value into 8-bit channels.
func (f *Format) RGBA(v uint32) (r, g, b, a uint8) {
	if f.Indexed() {
		if int(v) >= len(f.Palette) {
			return 0, 0, 0, 0
		}
		c := color.NRGBAModel.Convert(f.Palette[v]).(color.NRGBA)
		return c.R, c.G, c.B, c.A
	}
	r = channel(v, f.Rmask)
	g = channel(v, f.Gmask)
	b = channel(v, f.Bmask)
	if f.Amask == 0 {
		a = 0xff
	} else {
		a = channel(v, f.Amask)
	}
	return r, g, b, a
}

// channel extracts the masked bits and stretches them to the full 8-bit range.
func channel(v, mask uint32) uint8 {
	if mask == 0 {
		return 0
	}
	shift := bits.TrailingZeros32(mask)
	width := bits.OnesCount32(mask >> shift)
	c := (v & mask) >> shift
	if width >= 8 {
		return uint8(c >> (width - 8))
	}
	top := uint32(1)<<width - 1
	return uint8(c * 255 / top)
}
