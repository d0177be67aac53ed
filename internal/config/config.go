package config

import (
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"strings"

	"gopkg.in/yaml.v3"

	"github.com/1broseidon/shapewin/internal/shape"
)

// Drivers that can be selected with the driver key.
const (
	DriverX11      = "x11"
	DriverHeadless = "headless"
)

// Shape strategies for the x11 driver.
const (
	StrategyRects = "rects" // quadtree leaves as a rectangle list
	StrategyMask  = "mask"  // packed bitmap uploaded as a 1-bit pixmap
)

// ShapeConfig holds the default shape mode applied to windows.
type ShapeConfig struct {
	Mode     string `yaml:"mode"`
	Cutoff   int    `yaml:"cutoff"`
	ColorKey string `yaml:"color_key"`
	Invert   bool   `yaml:"invert"`
}

// X11Config configures the x11 shape driver.
type X11Config struct {
	Strategy   string `yaml:"strategy"`
	InputShape bool   `yaml:"input_shape"`
	CloseKey   string `yaml:"close_key"`
	DragButton int    `yaml:"drag_button"`
}

// HeadlessConfig configures the in-memory driver.
type HeadlessConfig struct {
	PixelsPerByte int `yaml:"pixels_per_byte"`
}

// LoggingConfig configures the process logger.
type LoggingConfig struct {
	Level string `yaml:"level"`
}

// Config is the effective configuration.
type Config struct {
	Driver   string         `yaml:"driver"`
	Display  string         `yaml:"display,omitempty"`
	Shape    ShapeConfig    `yaml:"shape"`
	X11      X11Config      `yaml:"x11"`
	Headless HeadlessConfig `yaml:"headless"`
	Logging  LoggingConfig  `yaml:"logging"`
}

// DefaultConfig returns the configuration used when no file exists.
func DefaultConfig() *Config {
	return &Config{
		Driver: DriverX11,
		Shape: ShapeConfig{
			Mode:     shape.ModeDefault.String(),
			Cutoff:   1,
			ColorKey: "#ff00ff",
		},
		X11: X11Config{
			Strategy:   StrategyRects,
			InputShape: true,
			CloseKey:   "Escape",
			DragButton: 1,
		},
		Headless: HeadlessConfig{
			PixelsPerByte: 8,
		},
		Logging: LoggingConfig{
			Level: "info",
		},
	}
}

// ShapeMode builds the shape mode described by the shape section.
func (c *Config) ShapeMode() (shape.Mode, error) {
	kind, err := shape.ParseModeKind(c.Shape.Mode)
	if err != nil {
		return shape.Mode{}, &ValidationError{Path: "shape.mode", Err: err}
	}
	switch kind {
	case shape.ModeBinarizeAlpha:
		return shape.BinarizeAlpha(uint8(c.Shape.Cutoff)), nil
	case shape.ModeReverseBinarizeAlpha:
		return shape.ReverseBinarizeAlpha(uint8(c.Shape.Cutoff)), nil
	case shape.ModeColorKey:
		key, err := shape.ParseKey(c.Shape.ColorKey)
		if err != nil {
			return shape.Mode{}, &ValidationError{Path: "shape.color_key", Err: err}
		}
		return shape.ColorKey(key.R, key.G, key.B), nil
	default:
		return shape.Default(), nil
	}
}

// SetShapeMode stores m in the shape section. Fields m does not use keep
// their current values.
func (c *Config) SetShapeMode(m shape.Mode) {
	c.Shape.Mode = m.Kind.String()
	switch m.Kind {
	case shape.ModeBinarizeAlpha, shape.ModeReverseBinarizeAlpha:
		c.Shape.Cutoff = int(m.Cutoff)
	case shape.ModeColorKey:
		c.Shape.ColorKey = m.Key.String()
	}
}

// SlogLevel returns the configured log level.
func (c *Config) SlogLevel() slog.Level {
	switch strings.ToLower(c.Logging.Level) {
	case "debug":
		return slog.LevelDebug
	case "warn", "warning":
		return slog.LevelWarn
	case "error":
		return slog.LevelError
	default:
		return slog.LevelInfo
	}
}

// Save writes the configuration to the standard location.
//
// Note: this marshals the effective config and will not preserve comments or
// include structure from the original YAML.
func (c *Config) Save() error {
	path, err := DefaultConfigPath()
	if err != nil {
		return err
	}
	return c.SaveTo(path)
}

// SaveTo validates and writes the configuration to path.
func (c *Config) SaveTo(path string) error {
	if err := c.Validate(); err != nil {
		return err
	}
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return fmt.Errorf("failed to create config directory: %w", err)
	}
	data, err := yaml.Marshal(c)
	if err != nil {
		return fmt.Errorf("failed to marshal config: %w", err)
	}
	if err := os.WriteFile(path, data, 0644); err != nil {
		return fmt.Errorf("failed to write config file: %w", err)
	}
	return nil
}

// Validate checks the configuration for invalid values.
func (c *Config) Validate() error {
	switch c.Driver {
	case DriverX11, DriverHeadless:
	default:
		return &ValidationError{Path: "driver", Err: fmt.Errorf("driver must be one of: x11, headless")}
	}
	if _, err := shape.ParseModeKind(c.Shape.Mode); err != nil {
		return &ValidationError{Path: "shape.mode", Err: fmt.Errorf("shape.mode must be one of: default, binarize, reverse-binarize, color-key")}
	}
	if c.Shape.Cutoff < 0 || c.Shape.Cutoff > 255 {
		return &ValidationError{Path: "shape.cutoff", Err: fmt.Errorf("shape.cutoff must be between 0 and 255")}
	}
	if _, err := shape.ParseKey(c.Shape.ColorKey); err != nil {
		return &ValidationError{Path: "shape.color_key", Err: err}
	}
	switch c.X11.Strategy {
	case StrategyRects, StrategyMask:
	default:
		return &ValidationError{Path: "x11.strategy", Err: fmt.Errorf("x11.strategy must be one of: rects, mask")}
	}
	if c.X11.DragButton < 0 || c.X11.DragButton > 5 {
		return &ValidationError{Path: "x11.drag_button", Err: fmt.Errorf("x11.drag_button must be between 0 (disabled) and 5")}
	}
	if c.Headless.PixelsPerByte < 1 || c.Headless.PixelsPerByte > 8 {
		return &ValidationError{Path: "headless.pixels_per_byte", Err: fmt.Errorf("headless.pixels_per_byte must be between 1 and 8")}
	}
	switch strings.ToLower(c.Logging.Level) {
	case "debug", "info", "warn", "warning", "error":
	default:
		return &ValidationError{Path: "logging.level", Err: fmt.Errorf("logging.level must be one of: debug, info, warn, error")}
	}
	return nil
}
