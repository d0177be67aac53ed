package pixel

import (
	"encoding/binary"
	"errors"
	"fmt"
	"image"
	"image/color"
	"math"
	"math/bits"
)

var (
	// ErrInvalidFormat is returned for pixel formats that cannot be decoded.
	ErrInvalidFormat = errors.New("invalid pixel format")
	// ErrInvalidSurface is returned when a surface's geometry does not fit its buffer.
	ErrInvalidSurface = errors.New("invalid surface")
)

// Locker guards direct access to a surface's pixel buffer.
type Locker interface {
	Lock() error
	Unlock()
}

// Surface is an image whose pixels are read directly from Pix.
type Surface struct {
	Width  int
	Height int
	// Pitch is the length of one row in bytes.
	Pitch  int
	Format *Format
	Pix    []byte

	// Locker is nil for surfaces that can be read without locking.
	Locker Locker
}

// NewSurface allocates a zeroed surface.
func NewSurface(width, height int, format *Format) (*Surface, error) {
	if err := format.Validate(); err != nil {
		return nil, err
	}
	if width < 0 || height < 0 {
		return nil, fmt.Errorf("%w: negative size %dx%d", ErrInvalidSurface, width, height)
	}
	pitch := width * format.BytesPerPixel
	return &Surface{
		Width:  width,
		Height: height,
		Pitch:  pitch,
		Format: format,
		Pix:    make([]byte, pitch*height),
	}, nil
}

// FromImage copies img into a new ARGB8888 surface with non-premultiplied alpha.
func FromImage(img image.Image) *Surface {
	b := img.Bounds()
	s, _ := NewSurface(b.Dx(), b.Dy(), ARGB8888)
	for y := 0; y < s.Height; y++ {
		for x := 0; x < s.Width; x++ {
			c := color.NRGBAModel.Convert(img.At(b.Min.X+x, b.Min.Y+y)).(color.NRGBA)
			s.SetRGBA(x, y, c.R, c.G, c.B, c.A)
		}
	}
	return s
}

// Validate checks that every row of the surface lies inside Pix.
func (s *Surface) Validate() error {
	if s == nil {
		return fmt.Errorf("%w: nil surface", ErrInvalidSurface)
	}
	if err := s.Format.Validate(); err != nil {
		return err
	}
	if s.Width < 0 || s.Height < 0 {
		return fmt.Errorf("%w: negative size %dx%d", ErrInvalidSurface, s.Width, s.Height)
	}
	if s.Width == 0 || s.Height == 0 {
		return nil
	}
	if s.Width > math.MaxInt/s.Format.BytesPerPixel {
		return fmt.Errorf("%w: width %d overflows the row size", ErrInvalidSurface, s.Width)
	}
	rowBytes := s.Width * s.Format.BytesPerPixel
	if s.Pitch < rowBytes {
		return fmt.Errorf("%w: pitch %d shorter than row of %d bytes", ErrInvalidSurface, s.Pitch, rowBytes)
	}
	if s.Height > 1 && s.Pitch > (math.MaxInt-rowBytes)/(s.Height-1) {
		return fmt.Errorf("%w: %d rows of pitch %d overflow the buffer size", ErrInvalidSurface, s.Height, s.Pitch)
	}
	need := (s.Height-1)*s.Pitch + rowBytes
	if len(s.Pix) < need {
		return fmt.Errorf("%w: buffer holds %d bytes, need %d", ErrInvalidSurface, len(s.Pix), need)
	}
	return nil
}

// Bounds returns the surface rectangle anchored at the origin.
func (s *Surface) Bounds() image.Rectangle {
	return image.Rect(0, 0, s.Width, s.Height)
}

// MustLock reports whether Lock has to be called before reading pixels.
func (s *Surface) MustLock() bool {
	return s.Locker != nil
}

// Lock acquires the surface for direct pixel reads. The returned function
// releases it and must be called on every exit path.
func (s *Surface) Lock() (unlock func(), err error) {
	if !s.MustLock() {
		return func() {}, nil
	}
	if err := s.Locker.Lock(); err != nil {
		return nil, fmt.Errorf("lock surface: %w", err)
	}
	return s.Locker.Unlock, nil
}

// Value returns the raw pixel value at (x, y).
//
// Three byte pixels are read as a four byte word with the alpha mask bits
// cleared. Bytes past the end of the buffer read as zero.
func (s *Surface) Value(x, y int) uint32 {
	off := y*s.Pitch + x*s.Format.BytesPerPixel
	switch s.Format.BytesPerPixel {
	case 1:
		return uint32(s.Pix[off])
	case 2:
		return uint32(binary.LittleEndian.Uint16(s.Pix[off:]))
	case 3:
		var word [4]byte
		copy(word[:], s.Pix[off:])
		return binary.LittleEndian.Uint32(word[:]) &^ s.Format.Amask
	default:
		return binary.LittleEndian.Uint32(s.Pix[off:])
	}
}

// Decode reads the pixel at (x, y) as 8-bit channels. The surface must
// already be locked and (x, y) must lie inside it.
func Decode(s *Surface, x, y int) (r, g, b, a uint8) {
	return s.Format.RGBA(s.Value(x, y))
}

// SetRGBA stores a colour at (x, y) using the closest value the format can hold.
// Indexed surfaces pick the nearest palette entry.
func (s *Surface) SetRGBA(x, y int, r, g, b, a uint8) {
	f := s.Format
	var v uint32
	if f.Indexed() {
		v = uint32(f.Palette.Index(color.NRGBA{R: r, G: g, B: b, A: a}))
	} else {
		v = pack(r, f.Rmask) | pack(g, f.Gmask) | pack(b, f.Bmask) | pack(a, f.Amask)
	}
	off := y*s.Pitch + x*f.BytesPerPixel
	var word [4]byte
	binary.LittleEndian.PutUint32(word[:], v)
	copy(s.Pix[off:off+f.BytesPerPixel], word[:f.BytesPerPixel])
}

func pack(c uint8, mask uint32) uint32 {
	if mask == 0 {
		return 0
	}
	shift := bits.TrailingZeros32(mask)
	width := bits.OnesCount32(mask >> shift)
	var v uint32
	if width >= 8 {
		v = uint32(c) << (width - 8)
	} else {
		top := uint32(1)<<width - 1
		v = (uint32(c)*top + 127) / 255
	}
	return v << shift & mask
}
