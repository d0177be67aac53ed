package platform

import (
	"errors"
	"fmt"
	"log/slog"
	"sort"
	"sync"
)

// Shape strategies understood by the x11 device.
const (
	StrategyRects = "rects"
	StrategyMask  = "mask"
)

var (
	// ErrUnknownDevice is returned by Init for an unregistered name.
	ErrUnknownDevice = errors.New("unknown device")
	// ErrAlreadyInitialized is returned by Init when another device is open.
	ErrAlreadyInitialized = errors.New("video subsystem already initialized")
)

// Options configure a device when it is opened.
type Options struct {
	// Display overrides $DISPLAY for the x11 device.
	Display string
	// Strategy is StrategyRects or StrategyMask.
	Strategy string
	// InputShape also applies the shape to the input region.
	InputShape bool
	// Invert flips the opaque classification of quadtree leaves.
	Invert bool
	// CloseKey closes x11 windows when pressed. Empty disables it.
	CloseKey string
	// DragButton moves x11 windows when dragged with it. Zero disables it.
	DragButton int
	// PixelsPerByte is the bitmap density of the headless driver.
	PixelsPerByte int
	Logger        *slog.Logger
}

// Opener opens a device.
type Opener func(opts Options) (*Device, error)

var (
	mu      sync.Mutex
	openers = map[string]Opener{}
	current *Device
)

// Register makes a device available to Init. It panics on duplicates.
func Register(name string, open Opener) {
	mu.Lock()
	defer mu.Unlock()
	if _, dup := openers[name]; dup {
		panic("platform: Register called twice for " + name)
	}
	openers[name] = open
}

// Registered returns the registered device names, sorted.
func Registered() []string {
	mu.Lock()
	defer mu.Unlock()
	names := make([]string, 0, len(openers))
	for name := range openers {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// Init opens the named device and makes it current. Calling Init again with
// the same name returns the open device.
func Init(name string, opts Options) (*Device, error) {
	mu.Lock()
	defer mu.Unlock()

	if current != nil {
		if current.Name == name {
			return current, nil
		}
		return nil, fmt.Errorf("%w: %s is open", ErrAlreadyInitialized, current.Name)
	}
	open, ok := openers[name]
	if !ok {
		return nil, fmt.Errorf("%w: %q", ErrUnknownDevice, name)
	}
	if opts.Logger == nil {
		opts.Logger = discardLogger()
	}

	dev, err := open(opts)
	if err != nil {
		return nil, fmt.Errorf("open %s device: %w", name, err)
	}
	dev.Name = name
	if dev.Logger == nil {
		dev.Logger = opts.Logger
	}
	current = dev
	dev.Logger.Debug("video subsystem initialized", "device", name, "shaped", dev.Shapes != nil)
	return dev, nil
}

// Current returns the open device, or nil.
func Current() *Device {
	mu.Lock()
	defer mu.Unlock()
	return current
}

// Quit closes the current device. It is a no-op when none is open.
func Quit() error {
	mu.Lock()
	dev := current
	current = nil
	mu.Unlock()

	if dev == nil {
		return nil
	}
	dev.Logger.Debug("video subsystem shut down", "device", dev.Name)
	return dev.shutdown()
}
