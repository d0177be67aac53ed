// Package preview renders window masks in the terminal.
package preview

import (
	"fmt"
	"os"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"golang.org/x/term"

	"github.com/1broseidon/shapewin/internal/pixel"
	"github.com/1broseidon/shapewin/internal/shape"
)

// Mask is a row-major grid of visible pixels.
type Mask struct {
	Width  int
	Height int
	Bits   []bool
}

// At reports whether (x, y) is visible. Out of range points are not.
func (m *Mask) At(x, y int) bool {
	if x < 0 || y < 0 || x >= m.Width || y >= m.Height {
		return false
	}
	return m.Bits[y*m.Width+x]
}

// FromTree rasterizes the opaque leaves of tree onto a width x height grid,
// the same region a rectangle based driver would send.
func FromTree(tree shape.Node, width, height int) *Mask {
	m := &Mask{Width: width, Height: height, Bits: make([]bool, width*height)}
	for _, r := range shape.OpaqueRects(tree) {
		for y := r.Y; y < r.Y+r.H && y < height; y++ {
			for x := r.X; x < r.X+r.W && x < width; x++ {
				m.Bits[y*width+x] = true
			}
		}
	}
	return m
}

// Build classifies s through a quadtree and returns the mask with its stats.
func Build(c shape.Classifier, s *pixel.Surface, invert bool) (*Mask, shape.TreeStats, error) {
	tree, err := shape.BuildTree(c, s, invert)
	if err != nil {
		return nil, shape.TreeStats{}, err
	}
	defer shape.Free(&tree)
	return FromTree(tree, s.Width, s.Height), shape.Stats(tree), nil
}

// Options control rendering.
type Options struct {
	// Columns and Rows bound the output in terminal cells. Each cell shows
	// two vertically stacked samples. Zero means unbounded.
	Columns int
	Rows    int
	// Color renders visible cells with a lipgloss style instead of plain runes.
	Color bool
}

var (
	visibleStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("62"))
	frameStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color("241"))
)

// Render draws m with half-block runes, downscaling to fit opts.
func Render(m *Mask, opts Options) []string {
	if m == nil || m.Width == 0 || m.Height == 0 {
		return nil
	}

	cols, rows := m.Width, (m.Height+1)/2
	if opts.Columns > 0 && cols > opts.Columns {
		cols = opts.Columns
	}
	if opts.Rows > 0 && rows > opts.Rows {
		rows = opts.Rows
	}
	// Keep the aspect ratio: one cell is one sample wide and two tall.
	scale := max(float64(m.Width)/float64(cols), float64(m.Height)/float64(rows*2))
	cols = max(1, int(float64(m.Width)/scale))
	rows = max(1, int(float64(m.Height)/(scale*2)+0.5))

	sample := func(cx, cy int) bool {
		return m.At(int(float64(cx)*scale), int(float64(cy)*scale))
	}

	lines := make([]string, rows)
	for row := 0; row < rows; row++ {
		var sb strings.Builder
		for col := 0; col < cols; col++ {
			top := sample(col, row*2)
			bottom := sample(col, row*2+1)
			var r rune
			switch {
			case top && bottom:
				r = '█'
			case top:
				r = '▀'
			case bottom:
				r = '▄'
			default:
				r = ' '
			}
			sb.WriteRune(r)
		}
		line := sb.String()
		if opts.Color {
			line = visibleStyle.Render(line)
		}
		lines[row] = line
	}
	return lines
}

// Frame draws a border around lines.
func Frame(lines []string) string {
	if len(lines) == 0 {
		return ""
	}
	return frameStyle.Border(lipgloss.RoundedBorder()).Render(strings.Join(lines, "\n"))
}

// Summary describes tree stats for a width x height mask.
func Summary(st shape.TreeStats, width, height int) string {
	area := width * height
	pct := 0.0
	if area > 0 {
		pct = float64(st.OpaqueArea) * 100 / float64(area)
	}
	return fmt.Sprintf("%d×%d px • %d leaves • %d rects • depth %d • %.1f%% visible",
		width, height, st.Leaves, st.OpaqueRects, st.Depth, pct)
}

// TerminalSize returns the size of stdout, or 80x24 when it is not a terminal.
func TerminalSize() (int, int) {
	w, h, err := term.GetSize(int(os.Stdout.Fd()))
	if err != nil || w <= 0 || h <= 0 {
		return 80, 24
	}
	return w, h
}
