//go:build linux

package platform

import (
	"context"
	"fmt"
	"log/slog"
	"sync"

	"github.com/BurntSushi/xgbutil/xwindow"

	"github.com/1broseidon/shapewin/internal/pixel"
	"github.com/1broseidon/shapewin/internal/shape"
	"github.com/1broseidon/shapewin/internal/x11"
)

func init() {
	Register("x11", openX11)
}

func openX11(opts Options) (*Device, error) {
	conn, err := x11.NewConnection(opts.Display)
	if err != nil {
		return nil, fmt.Errorf("failed to connect to X11: %w", err)
	}
	b, err := NewLinuxBackend(conn, opts)
	if err != nil {
		conn.Close()
		return nil, err
	}

	dev := &Device{
		Windows: b,
		Logger:  opts.Logger,
		loop:    b.run,
		close: func() error {
			conn.Close()
			return nil
		},
	}
	if err := conn.InitShape(); err != nil {
		opts.Logger.Warn("shaped windows unavailable", "error", err)
	} else {
		dev.Shapes = b
	}
	return dev, nil
}

// LinuxBackend is the X11 window system and SHAPE extension driver.
type LinuxBackend struct {
	conn       *x11.Connection
	strategy   string
	inputShape bool
	invert     bool
	closeKey   string
	dragButton int
	logger     *slog.Logger

	mu   sync.Mutex
	live map[*x11Window]struct{}
}

var (
	_ WindowSystem = (*LinuxBackend)(nil)
	_ ShapeDriver  = (*LinuxBackend)(nil)
)

// NewLinuxBackend wraps an open X11 connection.
func NewLinuxBackend(conn *x11.Connection, opts Options) (*LinuxBackend, error) {
	strategy := opts.Strategy
	switch strategy {
	case "":
		strategy = StrategyRects
	case StrategyRects, StrategyMask:
	default:
		return nil, fmt.Errorf("unknown x11 shape strategy %q", strategy)
	}
	logger := opts.Logger
	if logger == nil {
		logger = discardLogger()
	}
	return &LinuxBackend{
		conn:       conn,
		strategy:   strategy,
		inputShape: opts.InputShape,
		invert:     opts.Invert,
		closeKey:   opts.CloseKey,
		dragButton: opts.DragButton,
		logger:     logger,
		live:       make(map[*x11Window]struct{}),
	}, nil
}

type x11Window struct {
	b      *LinuxBackend
	win    *xwindow.Window
	title  string
	width  int
	height int
}

func (w *x11Window) Title() string    { return w.title }
func (w *x11Window) Size() (int, int) { return w.width, w.height }
func (w *x11Window) Show() error      { return w.b.conn.MapWindow(w.win) }
func (w *x11Window) Destroy() error   { return w.b.destroy(w) }

// CreateWindow creates a top-level window, mapping it when cfg.Shown is set.
func (b *LinuxBackend) CreateWindow(cfg WindowConfig) (Window, error) {
	if cfg.Width <= 0 || cfg.Height <= 0 {
		return nil, fmt.Errorf("create window %q: invalid size %dx%d", cfg.Title, cfg.Width, cfg.Height)
	}
	if err := x11.CheckSize(cfg.Width, cfg.Height); err != nil {
		return nil, fmt.Errorf("create window %q: %w", cfg.Title, err)
	}
	x, y := cfg.X, cfg.Y
	if x == PosCentered || y == PosCentered {
		cx, cy := b.conn.PrimaryMonitor().Center(cfg.Width, cfg.Height)
		if x == PosCentered {
			x = cx
		}
		if y == PosCentered {
			y = cy
		}
	}

	xw, err := b.conn.CreateWindow(x11.WindowOptions{
		Title:      cfg.Title,
		X:          x,
		Y:          y,
		Width:      cfg.Width,
		Height:     cfg.Height,
		Borderless: cfg.Borderless,
		Fullscreen: cfg.Fullscreen,
		Resizable:  cfg.Resizable,
	})
	if err != nil {
		return nil, fmt.Errorf("create window %q: %w", cfg.Title, err)
	}

	w := &x11Window{b: b, win: xw, title: cfg.Title, width: cfg.Width, height: cfg.Height}
	b.mu.Lock()
	b.live[w] = struct{}{}
	b.mu.Unlock()

	b.conn.OnClose(xw, func() {
		b.logger.Debug("window close requested", "window", w.title)
		if err := w.Destroy(); err != nil {
			b.logger.Warn("failed to destroy window", "window", w.title, "error", err)
		}
	})
	b.bindInput(w)

	if cfg.Shown {
		if err := w.Show(); err != nil {
			_ = w.Destroy()
			return nil, fmt.Errorf("map window %q: %w", cfg.Title, err)
		}
	}
	b.logger.Debug("window created", "window", cfg.Title, "id", xw.Id, "x", x, "y", y, "width", cfg.Width, "height", cfg.Height)
	return w, nil
}

// bindInput attaches the close key and drag button. Failures only cost the
// binding.
func (b *LinuxBackend) bindInput(w *x11Window) {
	if b.closeKey != "" {
		err := b.conn.BindKey(w.win, b.closeKey, func() {
			b.logger.Debug("close key pressed", "window", w.title, "key", b.closeKey)
			if err := w.Destroy(); err != nil {
				b.logger.Warn("failed to destroy window", "window", w.title, "error", err)
			}
		})
		if err != nil {
			b.logger.Warn("close key unavailable", "window", w.title, "error", err)
		}
	}
	if b.dragButton != 0 {
		if err := b.conn.BindDrag(w.win, b.dragButton); err != nil {
			b.logger.Warn("window dragging unavailable", "window", w.title, "error", err)
		}
	}
}

// destroy removes w and stops the event loop once no windows remain.
func (b *LinuxBackend) destroy(w *x11Window) error {
	b.mu.Lock()
	if _, ok := b.live[w]; !ok {
		b.mu.Unlock()
		return nil
	}
	delete(b.live, w)
	remaining := len(b.live)
	b.mu.Unlock()

	err := b.conn.DestroyWindow(w.win)
	if remaining == 0 {
		b.conn.Quit()
	}
	return err
}

func (b *LinuxBackend) run(ctx context.Context) error {
	done := make(chan struct{})
	go func() {
		defer close(done)
		b.conn.EventLoop()
	}()
	select {
	case <-done:
		return nil
	case <-ctx.Done():
		b.conn.Quit()
		return nil
	}
}

// CreateShaper accepts any window created by this backend.
func (b *LinuxBackend) CreateShaper(w Window) (Shaper, error) {
	xw, ok := w.(*x11Window)
	if !ok || xw.b != b {
		return nil, ErrUnsupportedWindow
	}
	if err := b.conn.InitShape(); err != nil {
		return nil, err
	}
	return xw, nil
}

// SetWindowShape replaces the bounding region of the window, and its input
// region when configured, with the mask of s under mode.
func (b *LinuxBackend) SetWindowShape(sh Shaper, s *pixel.Surface, mode shape.Mode) error {
	xw, ok := sh.(*x11Window)
	if !ok || xw.b != b {
		return ErrUnsupportedWindow
	}

	kinds := []x11.Kind{x11.KindBounding}
	if b.inputShape {
		kinds = append(kinds, x11.KindInput)
	}

	switch b.strategy {
	case StrategyMask:
		bitmap, err := shape.Bitmap(mode, s, 8)
		if err != nil {
			return err
		}
		if b.invert {
			for i := range bitmap {
				bitmap[i] = ^bitmap[i]
			}
		}
		for _, kind := range kinds {
			if err := b.conn.SetShapeMask(xw.win.Id, kind, s.Width, s.Height, bitmap); err != nil {
				return err
			}
		}
		b.logger.Debug("window shaped", "window", xw.title, "strategy", b.strategy, "mode", mode.String())

	default:
		tree, err := shape.BuildTree(mode, s, b.invert)
		if err != nil {
			return err
		}
		defer shape.Free(&tree)

		rects := x11.Rectangles(shape.OpaqueRects(tree))
		for _, kind := range kinds {
			if err := b.conn.SetShapeRectangles(xw.win.Id, kind, rects); err != nil {
				return err
			}
		}
		b.logger.Debug("window shaped", "window", xw.title, "strategy", b.strategy, "mode", mode.String(), "rects", len(rects))
	}
	return nil
}
