package platform

import (
	"bytes"
	"context"
	"errors"
	"slices"
	"testing"

	"github.com/1broseidon/shapewin/internal/pixel"
	"github.com/1broseidon/shapewin/internal/shape"
)

func registerOnce(name string, open Opener) {
	if !slices.Contains(Registered(), name) {
		Register(name, open)
	}
}

func TestRegisteredIncludesHeadless(t *testing.T) {
	if !slices.Contains(Registered(), "headless") {
		t.Fatalf("Registered() = %v, want headless", Registered())
	}
}

func TestRegisterDuplicatePanics(t *testing.T) {
	defer func() {
		if recover() == nil {
			t.Fatalf("expected panic on duplicate Register")
		}
	}()
	Register("headless", func(Options) (*Device, error) { return &Device{}, nil })
}

func TestInitLifecycle(t *testing.T) {
	t.Cleanup(func() { _ = Quit() })

	if _, err := Init("no-such-device", Options{}); !errors.Is(err, ErrUnknownDevice) {
		t.Fatalf("Init unknown err = %v, want ErrUnknownDevice", err)
	}

	dev, err := Init("headless", Options{PixelsPerByte: 4})
	if err != nil {
		t.Fatalf("Init headless: %v", err)
	}
	if dev.Name != "headless" || dev.Shapes == nil || dev.Logger == nil {
		t.Fatalf("unexpected device: %+v", dev)
	}
	if Current() != dev {
		t.Fatalf("Current() did not return the open device")
	}

	again, err := Init("headless", Options{})
	if err != nil || again != dev {
		t.Fatalf("second Init = %v, %v; want same device", again, err)
	}

	registerOnce("platform-test-other", func(Options) (*Device, error) { return &Device{}, nil })
	if _, err := Init("platform-test-other", Options{}); !errors.Is(err, ErrAlreadyInitialized) {
		t.Fatalf("Init other err = %v, want ErrAlreadyInitialized", err)
	}

	if err := Quit(); err != nil {
		t.Fatalf("Quit: %v", err)
	}
	if Current() != nil {
		t.Fatalf("Current() after Quit should be nil")
	}
	if err := Quit(); err != nil {
		t.Fatalf("second Quit: %v", err)
	}
}

var errOpenFailed = errors.New("open failed")

func TestInitOpenerFailure(t *testing.T) {
	registerOnce("platform-test-broken", func(Options) (*Device, error) { return nil, errOpenFailed })

	if _, err := Init("platform-test-broken", Options{}); !errors.Is(err, errOpenFailed) {
		t.Fatalf("Init err = %v, want wrapped errOpenFailed", err)
	}
	if Current() != nil {
		t.Fatalf("failed Init must not leave a current device")
	}
}

func TestHeadlessWindows(t *testing.T) {
	sys := NewHeadlessSystem()

	if _, err := sys.CreateWindow(WindowConfig{Title: "bad", Width: 0, Height: 4}); err == nil {
		t.Fatalf("expected error for zero width")
	}

	w, err := sys.CreateWindow(WindowConfig{Title: "a", X: PosCentered, Y: 7, Width: 4, Height: 3})
	if err != nil {
		t.Fatalf("CreateWindow: %v", err)
	}
	hw := w.(*HeadlessWindow)
	if x, y := hw.Position(); x != 0 || y != 7 {
		t.Fatalf("Position = (%d,%d), want (0,7)", x, y)
	}
	if hw.Shown() {
		t.Fatalf("window created hidden should not be shown")
	}
	if err := w.Show(); err != nil {
		t.Fatalf("Show: %v", err)
	}
	if !hw.Shown() || hw.ShowCount() != 1 {
		t.Fatalf("Shown=%v ShowCount=%d, want true 1", hw.Shown(), hw.ShowCount())
	}

	if len(sys.Windows()) != 1 {
		t.Fatalf("Windows() len = %d, want 1", len(sys.Windows()))
	}
	if err := w.Destroy(); err != nil {
		t.Fatalf("Destroy: %v", err)
	}
	if err := w.Destroy(); err != nil {
		t.Fatalf("second Destroy: %v", err)
	}
	if len(sys.Windows()) != 0 {
		t.Fatalf("Windows() len = %d after destroy, want 0", len(sys.Windows()))
	}
	if err := w.Show(); err == nil {
		t.Fatalf("Show on destroyed window should fail")
	}
}

type foreignWindow struct{}

func (foreignWindow) Title() string    { return "foreign" }
func (foreignWindow) Size() (int, int) { return 1, 1 }
func (foreignWindow) Show() error      { return nil }
func (foreignWindow) Destroy() error   { return nil }

func TestHeadlessDriver(t *testing.T) {
	sys := NewHeadlessSystem()
	drv := NewHeadlessDriver(0)
	if drv.PixelsPerByte != 8 {
		t.Fatalf("PixelsPerByte = %d, want 8", drv.PixelsPerByte)
	}

	if _, err := drv.CreateShaper(foreignWindow{}); !errors.Is(err, ErrUnsupportedWindow) {
		t.Fatalf("CreateShaper foreign err = %v", err)
	}

	w, _ := sys.CreateWindow(WindowConfig{Title: "s", Width: 4, Height: 2})
	sh, err := drv.CreateShaper(w)
	if err != nil {
		t.Fatalf("CreateShaper: %v", err)
	}
	hs := sh.(*HeadlessShaper)
	if hs.Bitmap() != nil {
		t.Fatalf("fresh shaper should have no bitmap")
	}

	s, _ := pixel.NewSurface(4, 2, pixel.ARGB8888)
	// Opaque left column only.
	s.SetRGBA(0, 0, 0, 0, 0, 255)
	s.SetRGBA(0, 1, 0, 0, 0, 255)

	if err := drv.SetWindowShape(sh, s, shape.Default()); err != nil {
		t.Fatalf("SetWindowShape: %v", err)
	}
	// Pixels 0 and 4 => bits 0 and 4.
	if got := hs.Bitmap(); !bytes.Equal(got, []byte{0x11}) {
		t.Fatalf("Bitmap = %x, want 11", got)
	}
	if hs.Sets() != 1 || hs.Mode() != shape.Default() {
		t.Fatalf("Sets=%d Mode=%v", hs.Sets(), hs.Mode())
	}

	if err := drv.SetWindowShape(sh, nil, shape.Default()); err == nil {
		t.Fatalf("nil surface should fail")
	}
	if hs.Sets() != 1 {
		t.Fatalf("failed set must not count")
	}

	if err := drv.CloseShaper(sh); err != nil {
		t.Fatalf("CloseShaper: %v", err)
	}
	if err := drv.SetWindowShape(sh, s, shape.Default()); err == nil {
		t.Fatalf("closed shaper should fail")
	}
}

func TestDeviceRunWithoutLoop(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	if err := (&Device{}).Run(ctx); err != nil {
		t.Fatalf("Run: %v", err)
	}
}
