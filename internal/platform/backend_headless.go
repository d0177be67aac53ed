package platform

import (
	"fmt"
	"sync"

	"github.com/1broseidon/shapewin/internal/pixel"
	"github.com/1broseidon/shapewin/internal/shape"
)

func init() {
	Register("headless", func(opts Options) (*Device, error) {
		sys := NewHeadlessSystem()
		return &Device{
			Windows: sys,
			Shapes:  NewHeadlessDriver(opts.PixelsPerByte),
			Logger:  opts.Logger,
		}, nil
	})
}

// HeadlessWindow is an in-memory window.
type HeadlessWindow struct {
	sys    *HeadlessSystem
	title  string
	x, y   int
	width  int
	height int

	shown     bool
	shows     int
	destroyed bool
}

// Title returns the window title.
func (w *HeadlessWindow) Title() string { return w.title }

// Size returns the window size.
func (w *HeadlessWindow) Size() (int, int) { return w.width, w.height }

// Position returns the window origin.
func (w *HeadlessWindow) Position() (int, int) { return w.x, w.y }

// Shown reports whether Show has been called.
func (w *HeadlessWindow) Shown() bool {
	w.sys.mu.Lock()
	defer w.sys.mu.Unlock()
	return w.shown
}

// ShowCount returns how many times Show has been called.
func (w *HeadlessWindow) ShowCount() int {
	w.sys.mu.Lock()
	defer w.sys.mu.Unlock()
	return w.shows
}

// Show marks the window visible.
func (w *HeadlessWindow) Show() error {
	w.sys.mu.Lock()
	defer w.sys.mu.Unlock()
	if w.destroyed {
		return fmt.Errorf("show %q: window destroyed", w.title)
	}
	w.shown = true
	w.shows++
	return nil
}

// Destroy removes the window from its system.
func (w *HeadlessWindow) Destroy() error {
	w.sys.mu.Lock()
	defer w.sys.mu.Unlock()
	if w.destroyed {
		return nil
	}
	w.destroyed = true
	for i, other := range w.sys.windows {
		if other == w {
			w.sys.windows = append(w.sys.windows[:i], w.sys.windows[i+1:]...)
			break
		}
	}
	return nil
}

// HeadlessSystem is a WindowSystem that keeps windows in memory.
type HeadlessSystem struct {
	mu      sync.Mutex
	windows []*HeadlessWindow
}

// NewHeadlessSystem returns an empty window system.
func NewHeadlessSystem() *HeadlessSystem {
	return &HeadlessSystem{}
}

// CreateWindow records a new window. Fullscreen is ignored.
func (s *HeadlessSystem) CreateWindow(cfg WindowConfig) (Window, error) {
	if cfg.Width <= 0 || cfg.Height <= 0 {
		return nil, fmt.Errorf("create window %q: invalid size %dx%d", cfg.Title, cfg.Width, cfg.Height)
	}
	x, y := cfg.X, cfg.Y
	if x == PosCentered {
		x = 0
	}
	if y == PosCentered {
		y = 0
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	w := &HeadlessWindow{
		sys:    s,
		title:  cfg.Title,
		x:      x,
		y:      y,
		width:  cfg.Width,
		height: cfg.Height,
		shown:  cfg.Shown,
	}
	if cfg.Shown {
		w.shows = 1
	}
	s.windows = append(s.windows, w)
	return w, nil
}

// Windows returns the windows that have not been destroyed.
func (s *HeadlessSystem) Windows() []*HeadlessWindow {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([]*HeadlessWindow, len(s.windows))
	copy(out, s.windows)
	return out
}

// HeadlessShaper holds the last bitmap applied to a headless window.
type HeadlessShaper struct {
	Window *HeadlessWindow

	mu     sync.Mutex
	bitmap []byte
	mode   shape.Mode
	sets   int
	closed bool
}

// Bitmap returns a copy of the last applied bitmap, or nil.
func (sh *HeadlessShaper) Bitmap() []byte {
	sh.mu.Lock()
	defer sh.mu.Unlock()
	if sh.bitmap == nil {
		return nil
	}
	return append([]byte(nil), sh.bitmap...)
}

// Mode returns the mode of the last applied shape.
func (sh *HeadlessShaper) Mode() shape.Mode {
	sh.mu.Lock()
	defer sh.mu.Unlock()
	return sh.mode
}

// Sets returns the number of successful SetWindowShape calls.
func (sh *HeadlessShaper) Sets() int {
	sh.mu.Lock()
	defer sh.mu.Unlock()
	return sh.sets
}

// HeadlessDriver packs masks into bitmaps and keeps them on the shaper.
type HeadlessDriver struct {
	PixelsPerByte int
}

// NewHeadlessDriver returns a driver packing at ppb pixels per byte; values
// outside 1..8 select 8.
func NewHeadlessDriver(ppb int) *HeadlessDriver {
	if ppb < 1 || ppb > 8 {
		ppb = 8
	}
	return &HeadlessDriver{PixelsPerByte: ppb}
}

// CreateShaper attaches a shaper to a headless window.
func (d *HeadlessDriver) CreateShaper(w Window) (Shaper, error) {
	hw, ok := w.(*HeadlessWindow)
	if !ok {
		return nil, ErrUnsupportedWindow
	}
	return &HeadlessShaper{Window: hw}, nil
}

// SetWindowShape packs s under mode and stores the result.
func (d *HeadlessDriver) SetWindowShape(sh Shaper, s *pixel.Surface, mode shape.Mode) error {
	hs, ok := sh.(*HeadlessShaper)
	if !ok {
		return ErrUnsupportedWindow
	}
	bitmap, err := shape.Bitmap(mode, s, d.PixelsPerByte)
	if err != nil {
		return err
	}

	hs.mu.Lock()
	defer hs.mu.Unlock()
	if hs.closed {
		return fmt.Errorf("shaper for %q is closed", hs.Window.Title())
	}
	hs.bitmap = bitmap
	hs.mode = mode
	hs.sets++
	return nil
}

// CloseShaper drops the stored bitmap.
func (d *HeadlessDriver) CloseShaper(sh Shaper) error {
	hs, ok := sh.(*HeadlessShaper)
	if !ok {
		return ErrUnsupportedWindow
	}
	hs.mu.Lock()
	defer hs.mu.Unlock()
	hs.closed = true
	hs.bitmap = nil
	return nil
}

var (
	_ WindowSystem = (*HeadlessSystem)(nil)
	_ ShapeDriver  = (*HeadlessDriver)(nil)
	_ ShaperCloser = (*HeadlessDriver)(nil)
)
