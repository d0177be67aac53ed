package config

import (
	"fmt"
)

type ValidationError struct {
	Path   string
	Source Source
	Err    error
}

func (e *ValidationError) Error() string {
	if e == nil {
		return "<nil>"
	}
	if e.Source.Kind == SourceFile && e.Source.File != "" && e.Source.Line > 0 {
		return fmt.Sprintf("%s:%d:%d: %s: %v", e.Source.File, e.Source.Line, e.Source.Column, e.Path, e.Err)
	}
	if e.Path != "" {
		return fmt.Sprintf("%s: %v", e.Path, e.Err)
	}
	return e.Err.Error()
}

func (e *ValidationError) Unwrap() error {
	if e == nil {
		return nil
	}
	return e.Err
}

// BuildEffectiveConfig applies raw onto the defaults.
func BuildEffectiveConfig(raw RawConfig) *Config {
	cfg := DefaultConfig()

	if raw.Driver != nil {
		cfg.Driver = *raw.Driver
	}
	if raw.Display != nil {
		cfg.Display = *raw.Display
	}
	if s := raw.Shape; s != nil {
		if s.Mode != nil {
			cfg.Shape.Mode = *s.Mode
		}
		cfg.Shape.Cutoff = derefInt(s.Cutoff, cfg.Shape.Cutoff)
		if s.ColorKey != nil {
			cfg.Shape.ColorKey = *s.ColorKey
		}
		cfg.Shape.Invert = derefBool(s.Invert, cfg.Shape.Invert)
	}
	if x := raw.X11; x != nil {
		if x.Strategy != nil {
			cfg.X11.Strategy = *x.Strategy
		}
		cfg.X11.InputShape = derefBool(x.InputShape, cfg.X11.InputShape)
		if x.CloseKey != nil {
			cfg.X11.CloseKey = *x.CloseKey
		}
		cfg.X11.DragButton = derefInt(x.DragButton, cfg.X11.DragButton)
	}
	if h := raw.Headless; h != nil {
		cfg.Headless.PixelsPerByte = derefInt(h.PixelsPerByte, cfg.Headless.PixelsPerByte)
	}
	if l := raw.Logging; l != nil && l.Level != nil {
		cfg.Logging.Level = *l.Level
	}
	return cfg
}

func derefInt(p *int, def int) int {
	if p == nil {
		return def
	}
	return *p
}

func derefBool(p *bool, def bool) bool {
	if p == nil {
		return def
	}
	return *p
}
