// Package window implements shaped top-level windows on top of a platform
// device.
package window

import (
	"errors"
	"fmt"
	"io"
	"log/slog"

	"github.com/1broseidon/shapewin/internal/pixel"
	"github.com/1broseidon/shapewin/internal/platform"
	"github.com/1broseidon/shapewin/internal/shape"
)

// State is the lifecycle state of a shaped window.
type State int

const (
	// Unshaped windows have no shaper attached.
	Unshaped State = iota
	// ShapedNoMask windows have a shaper but no successful SetShape yet.
	ShapedNoMask
	// ShapedWithMask windows have been shaped at least once.
	ShapedWithMask
)

func (s State) String() string {
	switch s {
	case ShapedNoMask:
		return "shaped-no-mask"
	case ShapedWithMask:
		return "shaped-with-mask"
	default:
		return "unshaped"
	}
}

// ShapedWindow is a borderless window whose visible region follows a mask.
// Calls on one window must not run concurrently.
type ShapedWindow struct {
	win    platform.Window
	driver platform.ShapeDriver
	shaper platform.Shaper
	logger *slog.Logger

	mode         shape.Mode
	hasShape     bool
	deferredShow bool
}

// Create creates a shaped window on dev. The window is always created
// borderless, windowed and hidden; a Shown request is honoured after the
// first successful SetShape. When the device cannot shape the window it is
// destroyed again and ErrShaperUnavailable is returned.
func Create(dev *platform.Device, cfg platform.WindowConfig) (*ShapedWindow, error) {
	if dev == nil || dev.Windows == nil {
		return nil, fmt.Errorf("%w: no video device", ErrInvalidShapeArgument)
	}
	logger := dev.Logger
	if logger == nil {
		logger = slog.New(slog.NewTextHandler(io.Discard, nil))
	}
	if dev.Shapes == nil {
		logger.Warn("device has no shape driver", "device", dev.Name, "window", cfg.Title)
		return nil, fmt.Errorf("%w: %s device has no shape driver", ErrShaperUnavailable, dev.Name)
	}

	userShown := cfg.Shown
	cfg.Borderless = true
	cfg.Fullscreen = false
	cfg.Shown = false

	win, err := dev.Windows.CreateWindow(cfg)
	if err != nil {
		return nil, err
	}

	shaper, err := dev.Shapes.CreateShaper(win)
	if err != nil || shaper == nil {
		if derr := win.Destroy(); derr != nil {
			logger.Warn("failed to destroy unshapeable window", "window", cfg.Title, "error", derr)
		}
		if err == nil {
			return nil, ErrShaperUnavailable
		}
		return nil, fmt.Errorf("%w: %w", ErrShaperUnavailable, err)
	}

	logger.Debug("shaped window created", "window", cfg.Title, "width", cfg.Width, "height", cfg.Height, "deferred_show", userShown)
	return &ShapedWindow{
		win:          win,
		driver:       dev.Shapes,
		shaper:       shaper,
		logger:       logger,
		mode:         shape.Default(),
		deferredShow: userShown,
	}, nil
}

// IsShaped reports whether w has a shaper attached. It is false for nil.
func (w *ShapedWindow) IsShaped() bool {
	return w != nil && w.shaper != nil
}

// State returns the lifecycle state of w.
func (w *ShapedWindow) State() State {
	switch {
	case !w.IsShaped():
		return Unshaped
	case w.hasShape:
		return ShapedWithMask
	default:
		return ShapedNoMask
	}
}

// HasShape reports whether a SetShape call has succeeded.
func (w *ShapedWindow) HasShape() bool {
	return w.IsShaped() && w.hasShape
}

// Window returns the underlying platform window, or nil once destroyed.
func (w *ShapedWindow) Window() platform.Window {
	if w == nil {
		return nil
	}
	return w.win
}

// SetShape applies the mask s to the window. A non-nil mode replaces the
// stored mode first. The surface must match the window size. Driver errors
// are returned unchanged and leave the shape state as it was.
func (w *ShapedWindow) SetShape(s *pixel.Surface, mode *shape.Mode) error {
	if !w.IsShaped() {
		return ErrNonShapeableWindow
	}
	if s == nil {
		return fmt.Errorf("%w: nil surface", ErrInvalidShapeArgument)
	}
	if err := s.Validate(); err != nil {
		return fmt.Errorf("%w: %w", ErrInvalidShapeArgument, err)
	}
	if width, height := w.win.Size(); s.Width != width || s.Height != height {
		return fmt.Errorf("%w: surface is %dx%d, window is %dx%d",
			ErrInvalidShapeArgument, s.Width, s.Height, width, height)
	}

	if mode != nil {
		w.mode = *mode
	}
	if err := w.driver.SetWindowShape(w.shaper, s, w.mode); err != nil {
		w.logger.Warn("set window shape failed", "window", w.win.Title(), "mode", w.mode.String(), "error", err)
		return err
	}
	w.hasShape = true

	if w.deferredShow {
		w.deferredShow = false
		if err := w.win.Show(); err != nil {
			return fmt.Errorf("show shaped window: %w", err)
		}
		w.logger.Debug("deferred show", "window", w.win.Title())
	}
	return nil
}

// GetShapeMode writes the stored mode to out. With a nil out it only
// reports whether the window has a shape, returning ErrWindowLacksShape
// when it does not.
func (w *ShapedWindow) GetShapeMode(out *shape.Mode) error {
	if !w.IsShaped() {
		return ErrNonShapeableWindow
	}
	if out == nil {
		if !w.hasShape {
			return ErrWindowLacksShape
		}
		return nil
	}
	*out = w.mode
	return nil
}

// ShapeMode returns the stored mode.
func (w *ShapedWindow) ShapeMode() (shape.Mode, error) {
	var m shape.Mode
	err := w.GetShapeMode(&m)
	return m, err
}

// Destroy releases the shaper and destroys the window. w is Unshaped
// afterwards; destroying twice is a no-op.
func (w *ShapedWindow) Destroy() error {
	if !w.IsShaped() {
		return nil
	}
	var errs []error
	if c, ok := w.driver.(platform.ShaperCloser); ok {
		if err := c.CloseShaper(w.shaper); err != nil {
			errs = append(errs, fmt.Errorf("close shaper: %w", err))
		}
	}
	if err := w.win.Destroy(); err != nil {
		errs = append(errs, fmt.Errorf("destroy window: %w", err))
	}
	w.shaper = nil
	w.win = nil
	w.hasShape = false
	w.deferredShow = false
	return errors.Join(errs...)
}
