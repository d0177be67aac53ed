package x11

import (
	"fmt"
	"math"

	"github.com/BurntSushi/xgb/shape"
	"github.com/BurntSushi/xgb/xproto"

	shapepkg "github.com/1broseidon/shapewin/internal/shape"
)

// Kind selects the window region a shape applies to.
type Kind = shape.Kind

// Region kinds a shape can be applied to.
const (
	KindBounding = shape.Kind(shape.SkBounding)
	KindInput    = shape.Kind(shape.SkInput)
)

// requestHeader is the fixed size of the largest request header we send.
const requestHeader = 24

// maxRequestBytes returns the payload budget of one request.
func (c *Connection) maxRequestBytes() int {
	n := int(xproto.Setup(c.XUtil.Conn()).MaximumRequestLength)*4 - requestHeader
	if n < 8 {
		n = 8
	}
	return n
}

// MaxDimension is the largest window width or height whose geometry fits
// the 16-bit coordinates of X requests.
const MaxDimension = math.MaxInt16

// CheckSize rejects window sizes that X requests cannot express.
func CheckSize(width, height int) error {
	if width < 0 || height < 0 || width > MaxDimension || height > MaxDimension {
		return fmt.Errorf("window size %dx%d outside 0..%d", width, height, MaxDimension)
	}
	return nil
}

// Rectangles converts shape rects to X rectangles, dropping empty ones.
func Rectangles(rects []shapepkg.Rect) []xproto.Rectangle {
	out := make([]xproto.Rectangle, 0, len(rects))
	for _, r := range rects {
		if r.Empty() {
			continue
		}
		out = append(out, xproto.Rectangle{
			X:      int16(r.X),
			Y:      int16(r.Y),
			Width:  uint16(r.W),
			Height: uint16(r.H),
		})
	}
	return out
}

// SetShapeRectangles replaces the window's region of the given kind with the
// union of rects. Large lists are split over several requests: the first
// replaces the region and the rest are unioned into it, so an error on a
// later request leaves the window with the rects sent so far.
func (c *Connection) SetShapeRectangles(win xproto.Window, kind Kind, rects []xproto.Rectangle) error {
	if err := c.InitShape(); err != nil {
		return err
	}
	conn := c.XUtil.Conn()
	perRequest := c.maxRequestBytes() / 8

	op := shape.Op(shape.SoSet)
	for {
		n := len(rects)
		if n > perRequest {
			n = perRequest
		}
		err := shape.RectanglesChecked(
			conn,
			op,
			kind,
			xproto.ClipOrderingUnsorted,
			win,
			0, 0,
			rects[:n],
		).Check()
		if err != nil {
			return fmt.Errorf("shape rectangles: %w", err)
		}
		rects = rects[n:]
		if len(rects) == 0 {
			return nil
		}
		op = shape.SoUnion
	}
}

// SetShapeMask replaces the window's region of the given kind with a 1-bit
// mask. bitmap is packed at eight pixels per byte, least significant bit
// first, with rows running on without padding.
func (c *Connection) SetShapeMask(win xproto.Window, kind Kind, width, height int, bitmap []byte) error {
	if err := c.InitShape(); err != nil {
		return err
	}
	if err := CheckSize(width, height); err != nil {
		return err
	}
	if width == 0 || height == 0 {
		return c.SetShapeRectangles(win, kind, nil)
	}
	conn := c.XUtil.Conn()
	setup := xproto.Setup(conn)

	pid, err := xproto.NewPixmapId(conn)
	if err != nil {
		return err
	}
	if err := xproto.CreatePixmapChecked(conn, 1, pid, xproto.Drawable(win), uint16(width), uint16(height)).Check(); err != nil {
		return fmt.Errorf("create mask pixmap: %w", err)
	}
	defer xproto.FreePixmap(conn, pid)

	gc, err := xproto.NewGcontextId(conn)
	if err != nil {
		return err
	}
	if err := xproto.CreateGCChecked(conn, gc, xproto.Drawable(pid), 0, nil).Check(); err != nil {
		return fmt.Errorf("create mask gc: %w", err)
	}
	defer xproto.FreeGC(conn, gc)

	pad := int(setup.BitmapFormatScanlinePad)
	msbFirst := setup.BitmapFormatBitOrder == xproto.ImageOrderMSBFirst
	data, stride := Scanlines(bitmap, width, height, pad, msbFirst)

	rowsPerRequest := c.maxRequestBytes() / stride
	if rowsPerRequest < 1 {
		return fmt.Errorf("mask row of %d bytes exceeds the request size limit", stride)
	}
	for y := 0; y < height; y += rowsPerRequest {
		rows := rowsPerRequest
		if y+rows > height {
			rows = height - y
		}
		err := xproto.PutImageChecked(
			conn,
			xproto.ImageFormatXYPixmap,
			xproto.Drawable(pid),
			gc,
			uint16(width), uint16(rows),
			0, int16(y),
			0, 1,
			data[y*stride:(y+rows)*stride],
		).Check()
		if err != nil {
			return fmt.Errorf("upload mask rows %d-%d: %w", y, y+rows, err)
		}
	}

	if err := shape.MaskChecked(conn, shape.SoSet, kind, win, 0, 0, pid).Check(); err != nil {
		return fmt.Errorf("shape mask: %w", err)
	}
	return nil
}

// Scanlines re-lays a continuous LSB-first bitmap as X image rows padded to
// pad bits, in the server's bit order. It returns the data and the row stride
// in bytes.
func Scanlines(bitmap []byte, width, height, pad int, msbFirst bool) ([]byte, int) {
	if pad < 8 {
		pad = 8
	}
	stride := (width + pad - 1) / pad * pad / 8
	out := make([]byte, stride*height)
	for y := 0; y < height; y++ {
		for x := 0; x < width; x++ {
			if !shapepkg.BitmapBit(bitmap, y*width+x, 8) {
				continue
			}
			bit := uint(x % 8)
			if msbFirst {
				bit = 7 - bit
			}
			out[y*stride+x/8] |= 1 << bit
		}
	}
	return out, stride
}
