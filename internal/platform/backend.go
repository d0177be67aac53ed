package platform

import (
	"context"
	"errors"
	"io"
	"log/slog"

	"github.com/1broseidon/shapewin/internal/pixel"
	"github.com/1broseidon/shapewin/internal/shape"
)

// PosCentered as a WindowConfig coordinate centers the window on the
// primary monitor along that axis.
const PosCentered = 0x2FFF0000

// ErrUnsupportedWindow is returned when a driver is handed a window created
// by a different window system.
var ErrUnsupportedWindow = errors.New("window does not belong to this device")

// WindowConfig describes a window to create.
type WindowConfig struct {
	Title  string
	X      int
	Y      int
	Width  int
	Height int

	Shown      bool
	Fullscreen bool
	Borderless bool
	Resizable  bool
}

// Window is a native top-level window.
type Window interface {
	Title() string
	Size() (width, height int)
	Show() error
	Destroy() error
}

// WindowSystem creates native windows.
type WindowSystem interface {
	CreateWindow(cfg WindowConfig) (Window, error)
}

// Shaper is the per-window native shape state owned by a ShapeDriver.
type Shaper any

// ShapeDriver applies masks to windows. CreateShaper returns an error when
// the window cannot carry a shape.
type ShapeDriver interface {
	CreateShaper(w Window) (Shaper, error)
	SetWindowShape(sh Shaper, s *pixel.Surface, mode shape.Mode) error
}

// ShaperCloser is implemented by drivers whose shapers hold resources.
type ShaperCloser interface {
	CloseShaper(sh Shaper) error
}

// Device bundles the window system and shape driver of one platform.
// Shapes is nil on platforms without shaped window support.
type Device struct {
	Name    string
	Windows WindowSystem
	Shapes  ShapeDriver
	Logger  *slog.Logger

	loop  func(ctx context.Context) error
	close func() error
}

// Run dispatches native events until ctx is cancelled.
func (d *Device) Run(ctx context.Context) error {
	if d.loop == nil {
		<-ctx.Done()
		return nil
	}
	return d.loop(ctx)
}

func (d *Device) shutdown() error {
	if d.close == nil {
		return nil
	}
	return d.close()
}

func discardLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}
