package canvas

import (
	"context"
	"fmt"
	"math"
	"strings"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	roidto "roictl/internal/modules/roi/dto"
	"roictl/internal/ui/theme"
)

// ─── port ────────────────────────────────────────────────────────────────────

// Port is the minimal interface this view needs from the roi use-case.
type Port interface {
	PointerDown(x, y float64) bool
	PointerMove(x, y float64) roidto.SelectionOutput
	PointerUp(x, y float64, onSurface bool) (roidto.EndOutput, bool)
	Teardown()
	Persist(ctx context.Context, selection roidto.SelectionOutput) error
	Selection() roidto.SelectionOutput
	LastCrop(ctx context.Context) (roidto.LastCropOutput, error)
	ApplyCrop(last roidto.LastCropOutput) roidto.SelectionOutput
}

// ─── messages ────────────────────────────────────────────────────────────────

// PersistedMsg reports the outcome of a crop push.
type PersistedMsg struct {
	Selection roidto.SelectionOutput
	Err       error
}

type RestoredMsg struct {
	Out roidto.LastCropOutput
	Err error
}

// WarningMsg asks the host to flash a short notice.
type WarningMsg struct{ Text string }

// RefusedMsg is sent when a press on the surface did not start a drag.
type RefusedMsg struct{}

// ─── model ───────────────────────────────────────────────────────────────────

// Model renders the video surface as a cell grid and turns mouse events into
// display-pixel pointer events.
type Model struct {
	port     Port
	sel      roidto.SelectionOutput
	originX  int
	originY  int
	cols     int
	rows     int
	dragging bool
}

func New(port Port) Model {
	m := Model{port: port, cols: 48, rows: 14}
	if port != nil {
		m.sel = port.Selection()
	}
	return m
}

func (m Model) Init() tea.Cmd { return nil }

func (m Model) Selection() roidto.SelectionOutput { return m.sel }

func (m Model) Dragging() bool { return m.dragging }

// Size returns the grid in cells.
func (m Model) Size() (cols, rows int) { return m.cols, m.rows }

// SetBounds places the grid at screen cell (x, y) and fits it into the given
// box keeping the display aspect ratio; a cell is about twice as tall as wide.
func (m *Model) SetBounds(x, y, maxCols, maxRows int) {
	m.originX, m.originY = x, y
	w, h := m.sel.DisplayWidth, m.sel.DisplayHeight
	if w <= 0 || h <= 0 {
		return
	}
	cols := max(maxCols, 8)
	rows := int(math.Round(float64(cols) * h / w / 2))
	if rows > maxRows {
		rows = maxRows
		cols = int(math.Round(float64(rows) * 2 * w / h))
	}
	m.cols = max(cols, 8)
	m.rows = max(rows, 4)
}

// ToDisplay maps a screen cell to the center of that cell in display pixels.
func (m Model) ToDisplay(cellX, cellY int) (x, y float64, inside bool) {
	cx, cy := cellX-m.originX, cellY-m.originY
	inside = cx >= 0 && cy >= 0 && cx < m.cols && cy < m.rows
	x = (float64(cx) + 0.5) * m.sel.DisplayWidth / float64(m.cols)
	y = (float64(cy) + 0.5) * m.sel.DisplayHeight / float64(m.rows)
	return x, y, inside
}

// Teardown drops a drag in progress.
func (m *Model) Teardown() {
	if m.dragging && m.port != nil {
		m.port.Teardown()
	}
	m.dragging = false
}

// Refresh re-reads the selection after an outside change.
func (m *Model) Refresh() {
	if m.port != nil {
		m.sel = m.port.Selection()
	}
}

func (m Model) Update(msg tea.Msg) (Model, tea.Cmd) {
	if m.port == nil {
		return m, nil
	}
	switch msg := msg.(type) {
	case tea.MouseMsg:
		return m.handleMouse(msg)
	case RestoredMsg:
		if msg.Err != nil || !msg.Out.Found {
			return m, nil
		}
		m.dragging = false
		m.sel = m.port.ApplyCrop(msg.Out)
	}
	return m, nil
}

func (m Model) handleMouse(msg tea.MouseMsg) (Model, tea.Cmd) {
	x, y, inside := m.ToDisplay(msg.X, msg.Y)
	switch msg.Action {
	case tea.MouseActionPress:
		if msg.Button != tea.MouseButtonLeft || !inside {
			return m, nil
		}
		if !m.port.PointerDown(x, y) {
			m.sel = m.port.Selection()
			return m, func() tea.Msg { return RefusedMsg{} }
		}
		m.dragging = true
		m.sel = m.port.Selection()
	case tea.MouseActionMotion:
		if m.dragging {
			m.sel = m.port.PointerMove(x, y)
		}
	case tea.MouseActionRelease:
		if !m.dragging {
			return m, nil
		}
		m.dragging = false
		out, ok := m.port.PointerUp(x, y, inside)
		if !ok {
			return m, nil
		}
		m.sel = out.Selection
		cmds := []tea.Cmd{m.persistCmd(out.Selection)}
		if out.Warning != "" {
			warning := out.Warning
			cmds = append(cmds, func() tea.Msg { return WarningMsg{Text: warning} })
		}
		return m, tea.Batch(cmds...)
	}
	return m, nil
}

// RestoreCmd reads the last persisted selection; Update applies it.
func (m Model) RestoreCmd() tea.Cmd {
	port := m.port
	return func() tea.Msg {
		out, err := port.LastCrop(context.Background())
		return RestoredMsg{Out: out, Err: err}
	}
}

func (m Model) persistCmd(sel roidto.SelectionOutput) tea.Cmd {
	port := m.port
	return func() tea.Msg {
		err := port.Persist(context.Background(), sel)
		return PersistedMsg{Selection: sel, Err: err}
	}
}

// ─── view ────────────────────────────────────────────────────────────────────

type cellKind int

const (
	cellBackground cellKind = iota
	cellBorder
	cellInside
)

var (
	surfaceStyle = lipgloss.NewStyle().Foreground(theme.Surface1)
	pausedStyle  = lipgloss.NewStyle().Foreground(theme.Overlay0)
	insideStyle  = lipgloss.NewStyle().Foreground(theme.Surface0)
)

func (m Model) View() string {
	if !m.sel.SurfaceEnabled {
		return m.pausedView()
	}
	c0, r0, c1, r1 := m.rectCells()
	border := lipgloss.NewStyle().Foreground(theme.Outline(m.sel.OutlineColor)).Bold(true)
	dashed := m.sel.OutlineDash != "0"

	var sb strings.Builder
	for r := 0; r < m.rows; r++ {
		var run strings.Builder
		runKind := cellKind(-1)
		flush := func() {
			if run.Len() == 0 {
				return
			}
			switch runKind {
			case cellBorder:
				sb.WriteString(border.Render(run.String()))
			case cellInside:
				sb.WriteString(insideStyle.Render(run.String()))
			default:
				sb.WriteString(surfaceStyle.Render(run.String()))
			}
			run.Reset()
		}
		for c := 0; c < m.cols; c++ {
			kind, glyph := classify(c, r, c0, r0, c1, r1, dashed)
			if kind != runKind {
				flush()
				runKind = kind
			}
			run.WriteRune(glyph)
		}
		flush()
		if r < m.rows-1 {
			sb.WriteByte('\n')
		}
	}
	return sb.String()
}

func (m Model) pausedView() string {
	label := "video paused"
	var sb strings.Builder
	for r := 0; r < m.rows; r++ {
		line := strings.Repeat("░", m.cols)
		if r == m.rows/2 && m.cols > len(label)+2 {
			pad := (m.cols - len(label)) / 2
			line = strings.Repeat("░", pad) + label + strings.Repeat("░", m.cols-pad-len(label))
		}
		sb.WriteString(pausedStyle.Render(line))
		if r < m.rows-1 {
			sb.WriteByte('\n')
		}
	}
	return sb.String()
}

// Caption renders the crop definition under the surface.
func (m Model) Caption() string {
	text := "crop: " + m.sel.CropText
	if m.dragging && m.sel.Quadrant != 0 {
		text += fmt.Sprintf("  quadrant %d", m.sel.Quadrant)
	}
	if m.sel.Disabled {
		text += "  " + theme.Muted.Render("(locked)")
	}
	return text
}

// rectCells converts the selection to inclusive cell bounds.
func (m Model) rectCells() (c0, r0, c1, r1 int) {
	sx := float64(m.cols) / m.sel.DisplayWidth
	sy := float64(m.rows) / m.sel.DisplayHeight
	rect := m.sel.Rect
	c0 = clampInt(int(math.Floor(rect.X*sx)), 0, m.cols-1)
	r0 = clampInt(int(math.Floor(rect.Y*sy)), 0, m.rows-1)
	c1 = clampInt(int(math.Ceil((rect.X+rect.Width)*sx))-1, c0, m.cols-1)
	r1 = clampInt(int(math.Ceil((rect.Y+rect.Height)*sy))-1, r0, m.rows-1)
	return c0, r0, c1, r1
}

func classify(c, r, c0, r0, c1, r1 int, dashed bool) (cellKind, rune) {
	if c < c0 || c > c1 || r < r0 || r > r1 {
		return cellBackground, '·'
	}
	top, bottom, left, right := r == r0, r == r1, c == c0, c == c1
	switch {
	case top && left:
		return cellBorder, '┌'
	case top && right:
		return cellBorder, '┐'
	case bottom && left:
		return cellBorder, '└'
	case bottom && right:
		return cellBorder, '┘'
	case top || bottom:
		if dashed {
			return cellBorder, '╌'
		}
		return cellBorder, '─'
	case left || right:
		if dashed {
			return cellBorder, '╎'
		}
		return cellBorder, '│'
	}
	return cellInside, ' '
}

func clampInt(v, lo, hi int) int {
	if hi < lo {
		return lo
	}
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}
