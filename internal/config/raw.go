package config

import (
	"fmt"

	"gopkg.in/yaml.v3"
)

// IncludeList supports either:
//
//	include: "/path/to/file.yaml"
//
// or:
//
//	include:
//	  - "/path/to/file.yaml"
//	  - "/path/to/dir"
type IncludeList []string

func (l *IncludeList) UnmarshalYAML(value *yaml.Node) error {
	switch value.Kind {
	case 0:
		// Not present.
		*l = nil
		return nil
	case yaml.ScalarNode:
		if value.Tag != "!!str" {
			return fmt.Errorf("include must be a string or list of strings")
		}
		*l = []string{value.Value}
		return nil
	case yaml.SequenceNode:
		out := make([]string, 0, len(value.Content))
		for _, item := range value.Content {
			if item.Kind != yaml.ScalarNode || item.Tag != "!!str" {
				return fmt.Errorf("include entries must be strings")
			}
			out = append(out, item.Value)
		}
		*l = out
		return nil
	default:
		return fmt.Errorf("include must be a string or list of strings")
	}
}

type RawShapeConfig struct {
	Mode     *string `yaml:"mode"`
	Cutoff   *int    `yaml:"cutoff"`
	ColorKey *string `yaml:"color_key"`
	Invert   *bool   `yaml:"invert"`
}

type RawX11Config struct {
	Strategy   *string `yaml:"strategy"`
	InputShape *bool   `yaml:"input_shape"`
	CloseKey   *string `yaml:"close_key"`
	DragButton *int    `yaml:"drag_button"`
}

type RawHeadlessConfig struct {
	PixelsPerByte *int `yaml:"pixels_per_byte"`
}

type RawLoggingConfig struct {
	Level *string `yaml:"level"`
}

// RawConfig mirrors Config with optional fields so files can be layered.
type RawConfig struct {
	Include IncludeList `yaml:"include"`

	Driver   *string            `yaml:"driver"`
	Display  *string            `yaml:"display"`
	Shape    *RawShapeConfig    `yaml:"shape"`
	X11      *RawX11Config      `yaml:"x11"`
	Headless *RawHeadlessConfig `yaml:"headless"`
	Logging  *RawLoggingConfig  `yaml:"logging"`
}

// merge returns r with every field set in overlay replaced.
func (r RawConfig) merge(overlay RawConfig) RawConfig {
	out := r
	out.Include = nil
	if overlay.Driver != nil {
		out.Driver = overlay.Driver
	}
	if overlay.Display != nil {
		out.Display = overlay.Display
	}
	if overlay.Shape != nil {
		s := RawShapeConfig{}
		if out.Shape != nil {
			s = *out.Shape
		}
		if overlay.Shape.Mode != nil {
			s.Mode = overlay.Shape.Mode
		}
		if overlay.Shape.Cutoff != nil {
			s.Cutoff = overlay.Shape.Cutoff
		}
		if overlay.Shape.ColorKey != nil {
			s.ColorKey = overlay.Shape.ColorKey
		}
		if overlay.Shape.Invert != nil {
			s.Invert = overlay.Shape.Invert
		}
		out.Shape = &s
	}
	if overlay.X11 != nil {
		x := RawX11Config{}
		if out.X11 != nil {
			x = *out.X11
		}
		if overlay.X11.Strategy != nil {
			x.Strategy = overlay.X11.Strategy
		}
		if overlay.X11.InputShape != nil {
			x.InputShape = overlay.X11.InputShape
		}
		if overlay.X11.CloseKey != nil {
			x.CloseKey = overlay.X11.CloseKey
		}
		if overlay.X11.DragButton != nil {
			x.DragButton = overlay.X11.DragButton
		}
		out.X11 = &x
	}
	if overlay.Headless != nil {
		h := RawHeadlessConfig{}
		if out.Headless != nil {
			h = *out.Headless
		}
		if overlay.Headless.PixelsPerByte != nil {
			h.PixelsPerByte = overlay.Headless.PixelsPerByte
		}
		out.Headless = &h
	}
	if overlay.Logging != nil {
		l := RawLoggingConfig{}
		if out.Logging != nil {
			l = *out.Logging
		}
		if overlay.Logging.Level != nil {
			l.Level = overlay.Logging.Level
		}
		out.Logging = &l
	}
	return out
}
