package tui

import (
	"errors"
	"strings"
	"testing"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/1broseidon/shapewin/internal/config"
	"github.com/1broseidon/shapewin/internal/pixel"
	"github.com/1broseidon/shapewin/internal/shape"
)

func testSurface(t *testing.T) *pixel.Surface {
	t.Helper()
	s, err := pixel.NewSurface(4, 4, pixel.ARGB8888)
	if err != nil {
		t.Fatalf("NewSurface: %v", err)
	}
	// Alpha ramps from 0 to 255 across columns.
	for y := 0; y < 4; y++ {
		for x := 0; x < 4; x++ {
			s.SetRGBA(x, y, 255, 0, 0, uint8(x*85))
		}
	}
	return s
}

func key(s string) tea.KeyMsg {
	switch s {
	case "ctrl+s":
		return tea.KeyMsg{Type: tea.KeyCtrlS}
	default:
		return tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune(s)}
	}
}

func update(t *testing.T, m model, msg tea.Msg) model {
	t.Helper()
	next, _ := m.Update(msg)
	out, ok := next.(model)
	if !ok {
		t.Fatalf("Update returned %T", next)
	}
	return out
}

func TestNewModelUsesConfigMode(t *testing.T) {
	cfg := config.DefaultConfig()
	cfg.SetShapeMode(shape.BinarizeAlpha(100))

	m := newModel("mask.png", testSurface(t), cfg, func(*config.Config) error { return nil })
	if m.mode != shape.BinarizeAlpha(100) {
		t.Fatalf("mode = %v", m.mode)
	}
	if item := m.modes.SelectedItem().(modeItem); item.kind != shape.ModeBinarizeAlpha {
		t.Fatalf("selected list item = %v", item.kind)
	}
	// Columns 2 and 3 have alpha 170 and 255.
	if m.stats.OpaqueArea != 8 {
		t.Fatalf("OpaqueArea = %d, want 8", m.stats.OpaqueArea)
	}
}

func TestInvertToggle(t *testing.T) {
	m := newModel("mask.png", testSurface(t), config.DefaultConfig(), func(*config.Config) error { return nil })
	if m.stats.OpaqueArea != 12 {
		t.Fatalf("default OpaqueArea = %d, want 12", m.stats.OpaqueArea)
	}

	m = update(t, m, key("i"))
	if !m.invert || m.stats.OpaqueArea != 4 {
		t.Fatalf("after invert: invert=%v area=%d", m.invert, m.stats.OpaqueArea)
	}
}

func TestSelectKindAndNudge(t *testing.T) {
	cfg := config.DefaultConfig()
	cfg.Shape.Cutoff = 90
	m := newModel("mask.png", testSurface(t), cfg, func(*config.Config) error { return nil })

	m = update(t, m, key("+"))
	if m.mode != shape.Default() {
		t.Fatalf("cutoff nudge must not apply to default mode: %v", m.mode)
	}

	m.selectKind(shape.ModeBinarizeAlpha)
	if m.mode != shape.BinarizeAlpha(90) {
		t.Fatalf("mode = %v, want binarize:90", m.mode)
	}
	m = update(t, m, key("+"))
	if m.mode.Cutoff != 98 {
		t.Fatalf("cutoff = %d, want 98", m.mode.Cutoff)
	}

	m.selectKind(shape.ModeReverseBinarizeAlpha)
	if m.mode != shape.ReverseBinarizeAlpha(98) {
		t.Fatalf("mode = %v, want reverse-binarize:98", m.mode)
	}
	for i := 0; i < 20; i++ {
		m = update(t, m, key("-"))
	}
	if m.mode.Cutoff != 0 {
		t.Fatalf("cutoff should clamp at 0, got %d", m.mode.Cutoff)
	}

	m.selectKind(shape.ModeColorKey)
	if m.mode != shape.ColorKey(0xff, 0x00, 0xff) {
		t.Fatalf("mode = %v, want color key from config", m.mode)
	}
}

func TestSaveWritesMode(t *testing.T) {
	var saved *config.Config
	cfg := config.DefaultConfig()
	m := newModel("mask.png", testSurface(t), cfg, func(c *config.Config) error {
		saved = c
		return nil
	})
	m.selectKind(shape.ModeBinarizeAlpha)
	m = update(t, m, key("i"))
	m = update(t, m, key("ctrl+s"))

	if saved == nil {
		t.Fatalf("save was not called")
	}
	mode, err := saved.ShapeMode()
	if err != nil || mode != shape.BinarizeAlpha(1) {
		t.Fatalf("saved mode = %v, %v", mode, err)
	}
	if !saved.Shape.Invert {
		t.Fatalf("invert was not saved")
	}
	if !strings.HasPrefix(m.status, "saved") {
		t.Fatalf("status = %q", m.status)
	}
}

func TestSaveFailureShowsStatus(t *testing.T) {
	m := newModel("mask.png", testSurface(t), config.DefaultConfig(), func(*config.Config) error {
		return errors.New("read-only file system")
	})
	m = update(t, m, key("ctrl+s"))
	if !strings.Contains(m.status, "read-only file system") {
		t.Fatalf("status = %q", m.status)
	}
}

func TestApplyForm(t *testing.T) {
	cfg := config.DefaultConfig()
	m := newModel("mask.png", testSurface(t), cfg, func(*config.Config) error { return nil })
	m.selectKind(shape.ModeColorKey)

	m.startEditing()
	if !m.editing || m.fields.colorKey != "#ff00ff" || m.fields.cutoff != "1" {
		t.Fatalf("form fields = %+v", m.fields)
	}
	m.fields.colorKey = "#ff0000"
	m.fields.cutoff = "300"
	m.applyForm()

	if m.mode != shape.ColorKey(0xff, 0, 0) {
		t.Fatalf("mode = %v", m.mode)
	}
	if cfg.Shape.Cutoff != 1 {
		t.Fatalf("invalid cutoff must be ignored, got %d", cfg.Shape.Cutoff)
	}
	// Every pixel has red 255, so none differs from the key in all channels.
	if m.stats.OpaqueArea != 0 {
		t.Fatalf("OpaqueArea = %d, want 0", m.stats.OpaqueArea)
	}

	if err := validateCutoff("256"); err == nil {
		t.Fatalf("validateCutoff accepted 256")
	}
	if err := validateCutoff("128"); err != nil {
		t.Fatalf("validateCutoff(128): %v", err)
	}
}

func TestView(t *testing.T) {
	m := newModel("mask.png", testSurface(t), config.DefaultConfig(), func(*config.Config) error { return nil })
	if m.View() != "" {
		t.Fatalf("view before size should be empty")
	}
	m = update(t, m, tea.WindowSizeMsg{Width: 100, Height: 30})
	view := m.View()
	for _, part := range []string{"Shape Mode", "mask.png", "4×4 px"} {
		if !strings.Contains(view, part) {
			t.Fatalf("view missing %q", part)
		}
	}
}
