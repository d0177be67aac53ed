package x11

import (
	"github.com/BurntSushi/xgb/xproto"
	"github.com/BurntSushi/xgbutil/ewmh"
	"github.com/BurntSushi/xgbutil/icccm"
	"github.com/BurntSushi/xgbutil/motif"
	"github.com/BurntSushi/xgbutil/xwindow"
)

// WindowOptions describe a top-level window.
type WindowOptions struct {
	Title  string
	X      int
	Y      int
	Width  int
	Height int

	Borderless bool
	Fullscreen bool
	Resizable  bool
}

// CreateWindow creates an unmapped top-level window. Borderless windows ask
// the window manager to drop decorations through _MOTIF_WM_HINTS.
func (c *Connection) CreateWindow(opts WindowOptions) (*xwindow.Window, error) {
	win, err := xwindow.Generate(c.XUtil)
	if err != nil {
		return nil, err
	}

	// Value list order follows the bit positions of the mask (low -> high).
	err = win.CreateChecked(
		c.Root,
		opts.X, opts.Y,
		opts.Width, opts.Height,
		xproto.CwBackPixel|xproto.CwEventMask,
		c.XUtil.Screen().BlackPixel,
		xproto.EventMaskStructureNotify|xproto.EventMaskExposure|xproto.EventMaskKeyPress,
	)
	if err != nil {
		return nil, err
	}

	// Hints are best effort; a missing WM must not fail creation.
	_ = ewmh.WmNameSet(c.XUtil, win.Id, opts.Title)
	_ = icccm.WmNameSet(c.XUtil, win.Id, opts.Title)
	_ = icccm.WmProtocolsSet(c.XUtil, win.Id, []string{"WM_DELETE_WINDOW"})

	hints := &icccm.NormalHints{
		Flags:  icccm.SizeHintUSPosition | icccm.SizeHintUSSize,
		X:      opts.X,
		Y:      opts.Y,
		Width:  uint(opts.Width),
		Height: uint(opts.Height),
	}
	if !opts.Resizable {
		hints.Flags |= icccm.SizeHintPMinSize | icccm.SizeHintPMaxSize
		hints.MinWidth, hints.MaxWidth = uint(opts.Width), uint(opts.Width)
		hints.MinHeight, hints.MaxHeight = uint(opts.Height), uint(opts.Height)
	}
	_ = icccm.WmNormalHintsSet(c.XUtil, win.Id, hints)

	if opts.Borderless {
		_ = motif.WmHintsSet(c.XUtil, win.Id, &motif.Hints{
			Flags:      motif.HintDecorations,
			Decoration: motif.DecorationNone,
		})
	}
	if opts.Fullscreen {
		_ = ewmh.WmStateSet(c.XUtil, win.Id, []string{"_NET_WM_STATE_FULLSCREEN"})
	}

	return win, nil
}

// MapWindow shows a window.
func (c *Connection) MapWindow(win *xwindow.Window) error {
	return xproto.MapWindowChecked(c.XUtil.Conn(), win.Id).Check()
}

// DestroyWindow destroys a window and detaches its event handlers.
func (c *Connection) DestroyWindow(win *xwindow.Window) error {
	win.Detach()
	return xproto.DestroyWindowChecked(c.XUtil.Conn(), win.Id).Check()
}

// OnClose runs fn when the window manager asks the window to close.
func (c *Connection) OnClose(win *xwindow.Window, fn func()) {
	win.WMGracefulClose(func(*xwindow.Window) {
		fn()
	})
}
