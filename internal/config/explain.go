package config

import (
	"fmt"
)

// Explain returns the effective value at the given YAML path and the file
// that set it, or the defaults when no file did.
//
// Supported paths:
//
//	driver
//	display
//	shape.mode
//	shape.cutoff
//	shape.color_key
//	shape.invert
//	x11.strategy
//	x11.input_shape
//	x11.close_key
//	x11.drag_button
//	headless.pixels_per_byte
//	logging.level
func Explain(res *LoadResult, path string) (any, Source, error) {
	if res == nil || res.Config == nil {
		return nil, Source{}, fmt.Errorf("no config loaded")
	}
	if path == "" {
		return nil, Source{}, fmt.Errorf("path is empty")
	}

	value, err := lookupValue(res.Config, path)
	if err != nil {
		return nil, Source{}, err
	}
	if src, ok := res.Sources[path]; ok {
		return value, src, nil
	}
	return value, Source{Kind: SourceDefault, Name: "defaults"}, nil
}

func lookupValue(cfg *Config, path string) (any, error) {
	switch path {
	case "driver":
		return cfg.Driver, nil
	case "display":
		return cfg.Display, nil
	case "shape.mode":
		return cfg.Shape.Mode, nil
	case "shape.cutoff":
		return cfg.Shape.Cutoff, nil
	case "shape.color_key":
		return cfg.Shape.ColorKey, nil
	case "shape.invert":
		return cfg.Shape.Invert, nil
	case "x11.strategy":
		return cfg.X11.Strategy, nil
	case "x11.input_shape":
		return cfg.X11.InputShape, nil
	case "x11.close_key":
		return cfg.X11.CloseKey, nil
	case "x11.drag_button":
		return cfg.X11.DragButton, nil
	case "headless.pixels_per_byte":
		return cfg.Headless.PixelsPerByte, nil
	case "logging.level":
		return cfg.Logging.Level, nil
	default:
		return nil, fmt.Errorf("unknown path: %s", path)
	}
}
