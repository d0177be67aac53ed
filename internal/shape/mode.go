package shape

import (
	"fmt"
	"strconv"
	"strings"
)

// ModeKind selects the policy used to decide whether a pixel is part of the shape.
type ModeKind int

const (
	// ModeDefault includes any pixel with non-zero alpha.
	ModeDefault ModeKind = iota
	// ModeBinarizeAlpha includes pixels whose alpha is at least the cutoff.
	ModeBinarizeAlpha
	// ModeReverseBinarizeAlpha includes pixels whose alpha is at most the cutoff.
	ModeReverseBinarizeAlpha
	// ModeColorKey includes pixels that differ from the key colour in every
	// channel. Sharing any one channel with the key excludes a pixel.
	ModeColorKey
)

func (k ModeKind) String() string {
	switch k {
	case ModeDefault:
		return "default"
	case ModeBinarizeAlpha:
		return "binarize"
	case ModeReverseBinarizeAlpha:
		return "reverse-binarize"
	case ModeColorKey:
		return "color-key"
	default:
		return fmt.Sprintf("ModeKind(%d)", int(k))
	}
}

// ParseModeKind parses the names produced by ModeKind.String.
func ParseModeKind(s string) (ModeKind, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "", "default":
		return ModeDefault, nil
	case "binarize", "binarize-alpha":
		return ModeBinarizeAlpha, nil
	case "reverse-binarize", "reverse-binarize-alpha":
		return ModeReverseBinarizeAlpha, nil
	case "color-key", "colorkey":
		return ModeColorKey, nil
	default:
		return 0, fmt.Errorf("unknown shape mode %q", s)
	}
}

// Key is the colour matched by ModeColorKey.
type Key struct {
	R, G, B uint8
}

func (k Key) String() string {
	return fmt.Sprintf("#%02x%02x%02x", k.R, k.G, k.B)
}

// ParseKey parses "#rrggbb" (the leading '#' is optional).
func ParseKey(s string) (Key, error) {
	hex := strings.TrimPrefix(strings.TrimSpace(s), "#")
	if len(hex) != 6 {
		return Key{}, fmt.Errorf("invalid color key %q: want #rrggbb", s)
	}
	v, err := strconv.ParseUint(hex, 16, 32)
	if err != nil {
		return Key{}, fmt.Errorf("invalid color key %q: %w", s, err)
	}
	return Key{R: uint8(v >> 16), G: uint8(v >> 8), B: uint8(v)}, nil
}

// Mode is an immutable shape mode. Cutoff is used by the binarize kinds and
// Key by ModeColorKey; the other field is ignored.
type Mode struct {
	Kind   ModeKind
	Cutoff uint8
	Key    Key
}

// Default returns the mode new shaped windows start with.
func Default() Mode {
	return Mode{Kind: ModeDefault, Cutoff: 1}
}

// BinarizeAlpha includes pixels with alpha >= cutoff.
func BinarizeAlpha(cutoff uint8) Mode {
	return Mode{Kind: ModeBinarizeAlpha, Cutoff: cutoff}
}

// ReverseBinarizeAlpha includes pixels with alpha <= cutoff.
func ReverseBinarizeAlpha(cutoff uint8) Mode {
	return Mode{Kind: ModeReverseBinarizeAlpha, Cutoff: cutoff}
}

// ColorKey excludes pixels matching key.
func ColorKey(r, g, b uint8) Mode {
	return Mode{Kind: ModeColorKey, Key: Key{R: r, G: g, B: b}}
}

// Classifier decides whether a decoded pixel belongs to the shape.
type Classifier interface {
	Classify(r, g, b, a uint8) bool
}

var _ Classifier = Mode{}

// Classify reports whether a pixel is included in the visible region.
//
// For ModeColorKey a pixel is included only when it differs from the key in
// every channel, so a pixel sharing any single channel with the key is
// excluded.
func (m Mode) Classify(r, g, b, a uint8) bool {
	switch m.Kind {
	case ModeBinarizeAlpha:
		return a >= m.Cutoff
	case ModeReverseBinarizeAlpha:
		return a <= m.Cutoff
	case ModeColorKey:
		return m.Key.R != r && m.Key.G != g && m.Key.B != b
	default:
		return a >= 1
	}
}

func (m Mode) String() string {
	switch m.Kind {
	case ModeBinarizeAlpha, ModeReverseBinarizeAlpha:
		return fmt.Sprintf("%s:%d", m.Kind, m.Cutoff)
	case ModeColorKey:
		return fmt.Sprintf("%s:%s", m.Kind, m.Key)
	default:
		return m.Kind.String()
	}
}

// ParseMode parses "default", "binarize:N", "reverse-binarize:N" and
// "color-key:#rrggbb". Binarize modes without an argument use cutoff 1.
func ParseMode(s string) (Mode, error) {
	name, arg, hasArg := strings.Cut(strings.TrimSpace(s), ":")
	kind, err := ParseModeKind(name)
	if err != nil {
		return Mode{}, err
	}
	switch kind {
	case ModeBinarizeAlpha, ModeReverseBinarizeAlpha:
		cutoff := uint64(1)
		if hasArg {
			cutoff, err = strconv.ParseUint(strings.TrimSpace(arg), 10, 8)
			if err != nil {
				return Mode{}, fmt.Errorf("invalid cutoff in %q: %w", s, err)
			}
		}
		return Mode{Kind: kind, Cutoff: uint8(cutoff)}, nil
	case ModeColorKey:
		if !hasArg {
			return Mode{}, fmt.Errorf("color-key mode requires a colour, e.g. color-key:#ff00ff")
		}
		key, err := ParseKey(arg)
		if err != nil {
			return Mode{}, err
		}
		return Mode{Kind: kind, Key: key}, nil
	default:
		if hasArg {
			return Mode{}, fmt.Errorf("default mode takes no argument: %q", s)
		}
		return Default(), nil
	}
}
