package tui

import (
	"fmt"
	"strconv"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/huh"
	"github.com/charmbracelet/lipgloss"

	"github.com/1broseidon/shapewin/internal/shape"
)

// formFields holds the form-bound values. It is shared by pointer so the
// values survive the model being copied between updates.
type formFields struct {
	cutoff   string
	colorKey string
}

func (m *model) startEditing() {
	cutoff := m.cfg.Shape.Cutoff
	if usesCutoff(m.mode.Kind) {
		cutoff = int(m.mode.Cutoff)
	}
	key := m.cfg.Shape.ColorKey
	if m.mode.Kind == shape.ModeColorKey {
		key = m.mode.Key.String()
	}
	m.fields = &formFields{cutoff: strconv.Itoa(cutoff), colorKey: key}

	w := m.width - 4
	if w < 40 {
		w = 40
	}

	m.form = huh.NewForm(
		huh.NewGroup(
			huh.NewInput().
				Key("cutoff").
				Title("Binarization Cutoff").
				Description("Alpha threshold, 0-255").
				Validate(validateCutoff).
				Value(&m.fields.cutoff),

			huh.NewInput().
				Key("color_key").
				Title("Color Key").
				Description("#rrggbb; pixels matching any channel are cut out").
				Validate(func(s string) error {
					_, err := shape.ParseKey(s)
					return err
				}).
				Value(&m.fields.colorKey),
		),
	).WithWidth(w).WithShowHelp(true).WithShowErrors(true)

	m.editing = true
}

func validateCutoff(s string) error {
	v, err := strconv.Atoi(s)
	if err != nil || v < 0 || v > 255 {
		return fmt.Errorf("cutoff must be a number between 0 and 255")
	}
	return nil
}

func (m model) updateEditing(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		switch msg.String() {
		case "ctrl+c":
			return m, tea.Quit
		case "esc":
			m.editing = false
			m.form = nil
			return m, nil
		}
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
	}

	form, cmd := m.form.Update(msg)
	if f, ok := form.(*huh.Form); ok {
		m.form = f
	}

	if m.form.State == huh.StateCompleted {
		m.applyForm()
		m.editing = false
		m.form = nil
		m.fields = nil
		return m, nil
	}
	return m, cmd
}

// applyForm stores the edited values and applies them to the current mode.
func (m *model) applyForm() {
	if m.fields == nil {
		return
	}
	if v, err := strconv.Atoi(m.fields.cutoff); err == nil && v >= 0 && v <= 255 {
		m.cfg.Shape.Cutoff = v
		if usesCutoff(m.mode.Kind) {
			m.mode.Cutoff = uint8(v)
		}
	}
	if key, err := shape.ParseKey(m.fields.colorKey); err == nil {
		m.cfg.Shape.ColorKey = key.String()
		if m.mode.Kind == shape.ModeColorKey {
			m.mode.Key = key
		}
	}
	m.rebuild()
}

func (m model) viewEditing(height int) string {
	header := lipgloss.NewStyle().
		Foreground(lipgloss.Color("62")).
		Bold(true).
		Render("Editing Shape Parameters") +
		lipgloss.NewStyle().
			Foreground(lipgloss.Color("241")).
			Render("  (esc to cancel)")

	style := lipgloss.NewStyle().
		Width(m.width).
		Height(height).
		Padding(1, 2)
	return style.Render(header + "\n\n" + m.form.View())
}
