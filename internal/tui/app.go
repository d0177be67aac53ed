package tui

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/list"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/huh"
	"github.com/charmbracelet/lipgloss"

	"github.com/1broseidon/shapewin/internal/config"
	"github.com/1broseidon/shapewin/internal/pixel"
	"github.com/1broseidon/shapewin/internal/preview"
	"github.com/1broseidon/shapewin/internal/shape"
)

// modeItem is a list item for one mode kind.
type modeItem struct {
	kind shape.ModeKind
}

func (i modeItem) Title() string { return i.kind.String() }

func (i modeItem) Description() string {
	switch i.kind {
	case shape.ModeBinarizeAlpha:
		return "alpha >= cutoff"
	case shape.ModeReverseBinarizeAlpha:
		return "alpha <= cutoff"
	case shape.ModeColorKey:
		return "differs from key"
	default:
		return "any alpha"
	}
}

func (i modeItem) FilterValue() string { return i.kind.String() }

var modeKinds = []shape.ModeKind{
	shape.ModeDefault,
	shape.ModeBinarizeAlpha,
	shape.ModeReverseBinarizeAlpha,
	shape.ModeColorKey,
}

// model is the root bubbletea model for the tuner.
type model struct {
	imagePath string
	surface   *pixel.Surface
	cfg       *config.Config
	save      func(*config.Config) error

	modes  list.Model
	mode   shape.Mode
	invert bool

	mask     *preview.Mask
	stats    shape.TreeStats
	buildErr error

	// Edit mode
	editing bool
	form    *huh.Form
	fields  *formFields

	status string
	width  int
	height int
}

func newModel(imagePath string, s *pixel.Surface, cfg *config.Config, save func(*config.Config) error) model {
	mode, err := cfg.ShapeMode()
	if err != nil {
		mode = shape.Default()
	}

	items := make([]list.Item, len(modeKinds))
	selected := 0
	for i, kind := range modeKinds {
		items[i] = modeItem{kind: kind}
		if kind == mode.Kind {
			selected = i
		}
	}

	delegate := list.NewDefaultDelegate()
	delegate.Styles.SelectedTitle = delegate.Styles.SelectedTitle.
		Foreground(lipgloss.Color("15")).
		BorderForeground(lipgloss.Color("62"))
	delegate.Styles.SelectedDesc = delegate.Styles.SelectedDesc.
		Foreground(lipgloss.Color("250")).
		BorderForeground(lipgloss.Color("62"))

	l := list.New(items, delegate, 28, 12)
	l.Title = "Shape Mode"
	l.Styles.Title = lipgloss.NewStyle().
		Bold(true).
		Foreground(lipgloss.Color("15")).
		Background(lipgloss.Color("62")).
		Padding(0, 1)
	l.SetShowStatusBar(false)
	l.SetFilteringEnabled(false)
	l.SetShowHelp(false)
	l.KeyMap.Quit.SetEnabled(false)
	l.Select(selected)

	m := model{
		imagePath: imagePath,
		surface:   s,
		cfg:       cfg,
		save:      save,
		modes:     l,
		mode:      mode,
		invert:    cfg.Shape.Invert,
	}
	m.rebuild()
	return m
}

// rebuild recomputes the mask for the current mode.
func (m *model) rebuild() {
	m.mask, m.stats, m.buildErr = preview.Build(m.mode, m.surface, m.invert)
}

// selectKind switches the mode kind. The cutoff and key carry over from the
// current mode when it uses them and come from the config otherwise.
func (m *model) selectKind(kind shape.ModeKind) {
	if kind == m.mode.Kind {
		return
	}
	cutoff := uint8(m.cfg.Shape.Cutoff)
	if usesCutoff(m.mode.Kind) {
		cutoff = m.mode.Cutoff
	}
	key, err := shape.ParseKey(m.cfg.Shape.ColorKey)
	if m.mode.Kind == shape.ModeColorKey || err != nil {
		key = m.mode.Key
	}

	switch kind {
	case shape.ModeBinarizeAlpha:
		m.mode = shape.BinarizeAlpha(cutoff)
	case shape.ModeReverseBinarizeAlpha:
		m.mode = shape.ReverseBinarizeAlpha(cutoff)
	case shape.ModeColorKey:
		m.mode = shape.ColorKey(key.R, key.G, key.B)
	default:
		m.mode = shape.Default()
	}
	m.rebuild()
}

func usesCutoff(kind shape.ModeKind) bool {
	return kind == shape.ModeBinarizeAlpha || kind == shape.ModeReverseBinarizeAlpha
}

func (m *model) nudgeCutoff(delta int) {
	if !usesCutoff(m.mode.Kind) {
		return
	}
	v := min(255, max(0, int(m.mode.Cutoff)+delta))
	m.mode.Cutoff = uint8(v)
	m.rebuild()
}

func (m *model) saveConfig() {
	m.cfg.SetShapeMode(m.mode)
	m.cfg.Shape.Invert = m.invert
	if err := m.save(m.cfg); err != nil {
		m.status = "save failed: " + err.Error()
		return
	}
	m.status = "saved " + m.mode.String()
}

// Init implements tea.Model.
func (m model) Init() tea.Cmd {
	return nil
}

// Update implements tea.Model.
func (m model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	if m.editing {
		return m.updateEditing(msg)
	}

	switch msg := msg.(type) {
	case tea.KeyMsg:
		switch msg.String() {
		case "ctrl+c", "q":
			return m, tea.Quit
		case "ctrl+s":
			m.saveConfig()
			return m, nil
		case "i":
			m.invert = !m.invert
			m.rebuild()
			return m, nil
		case "+", "=":
			m.nudgeCutoff(8)
			return m, nil
		case "-":
			m.nudgeCutoff(-8)
			return m, nil
		case "e":
			m.startEditing()
			return m, m.form.Init()
		}

	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		m.modes.SetHeight(max(4, msg.Height-4))
		return m, nil
	}

	var cmd tea.Cmd
	m.modes, cmd = m.modes.Update(msg)
	if item, ok := m.modes.SelectedItem().(modeItem); ok {
		m.selectKind(item.kind)
	}
	return m, cmd
}

// View implements tea.Model.
func (m model) View() string {
	if m.width == 0 || m.height == 0 {
		return ""
	}

	statusBar := renderStatusBar(m.imagePath, m.mode, m.invert, m.width)
	helpBar := renderHelpBar(m.width)

	contentHeight := m.height - lipgloss.Height(statusBar) - lipgloss.Height(helpBar)
	if contentHeight < 1 {
		contentHeight = 1
	}

	var content string
	if m.editing && m.form != nil {
		content = m.viewEditing(contentHeight)
	} else {
		left := m.modes.View()
		right := m.viewPreview(m.width-lipgloss.Width(left)-2, contentHeight)
		content = lipgloss.JoinHorizontal(lipgloss.Top, left, "  ", right)
	}

	return lipgloss.JoinVertical(lipgloss.Left, statusBar, content, helpBar)
}

func (m model) viewPreview(width, height int) string {
	dimStyle := lipgloss.NewStyle().Foreground(lipgloss.Color("241"))
	if m.buildErr != nil {
		return lipgloss.NewStyle().Foreground(lipgloss.Color("196")).Render(m.buildErr.Error())
	}

	// Frame border (2) and summary/status lines (3).
	lines := preview.Render(m.mask, preview.Options{
		Columns: max(1, width-2),
		Rows:    max(1, height-5),
		Color:   true,
	})
	parts := []string{
		preview.Frame(lines),
		dimStyle.Render(preview.Summary(m.stats, m.surface.Width, m.surface.Height)),
	}
	if m.status != "" {
		parts = append(parts, m.status)
	}
	return strings.Join(parts, "\n")
}

func renderStatusBar(imagePath string, mode shape.Mode, invert bool, width int) string {
	status := fmt.Sprintf("%s  mode:%s", imagePath, mode)
	if invert {
		status += "  inverted"
	}
	style := lipgloss.NewStyle().
		Width(width).
		Background(lipgloss.Color("235")).
		Foreground(lipgloss.Color("250")).
		Padding(0, 1)
	return style.Render(status)
}

func renderHelpBar(width int) string {
	help := "↑/↓: mode  +/-: cutoff  i: invert  e: edit  ctrl-s: save  q/ctrl-c: quit"
	style := lipgloss.NewStyle().
		Width(width).
		Foreground(lipgloss.Color("241")).
		Padding(0, 1)
	return style.Render(help)
}
