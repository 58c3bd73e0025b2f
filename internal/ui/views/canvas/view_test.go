package canvas_test

import (
	"context"
	"strings"
	"testing"

	tea "github.com/charmbracelet/bubbletea"

	roidto "roictl/internal/modules/roi/dto"
	"roictl/internal/ui/views/canvas"
)

type fakePort struct {
	refuse  bool
	downs   int
	moves   int
	ups     []bool
	warning string
	sel     roidto.SelectionOutput
	last    roidto.LastCropOutput
	applied []roidto.LastCropOutput
}

func (p *fakePort) PointerDown(float64, float64) bool {
	p.downs++
	return !p.refuse
}

func (p *fakePort) PointerMove(float64, float64) roidto.SelectionOutput {
	p.moves++
	return p.sel
}

func (p *fakePort) PointerUp(_, _ float64, onSurface bool) (roidto.EndOutput, bool) {
	p.ups = append(p.ups, onSurface)
	return roidto.EndOutput{Selection: p.sel, Verdict: "accepted", Warning: p.warning}, true
}

func (p *fakePort) Teardown() {}

func (p *fakePort) Persist(context.Context, roidto.SelectionOutput) error { return nil }

func (p *fakePort) Selection() roidto.SelectionOutput { return p.sel }

func (p *fakePort) LastCrop(context.Context) (roidto.LastCropOutput, error) {
	return p.last, nil
}

func (p *fakePort) ApplyCrop(last roidto.LastCropOutput) roidto.SelectionOutput {
	p.applied = append(p.applied, last)
	p.sel.Rect = last.Rect
	p.sel.CropText = last.CropText
	return p.sel
}

func newPort() *fakePort {
	return &fakePort{sel: roidto.SelectionOutput{
		Rect:           roidto.RectOutput{Width: 400, Height: 400},
		OutlineColor:   "white",
		OutlineDash:    "5, 5",
		SurfaceEnabled: true,
		DisplayWidth:   800,
		DisplayHeight:  400,
	}}
}

func press(x, y int) tea.MouseMsg {
	return tea.MouseMsg{X: x, Y: y, Action: tea.MouseActionPress, Button: tea.MouseButtonLeft}
}

func TestSetBoundsKeepsAspect(t *testing.T) {
	t.Parallel()
	m := canvas.New(newPort())
	m.SetBounds(2, 3, 80, 40)
	cols, rows := m.Size()
	if cols != 80 || rows != 20 {
		t.Fatalf("expected 80x20 grid, got %dx%d", cols, rows)
	}
	m.SetBounds(0, 0, 80, 10)
	cols, rows = m.Size()
	if cols != 40 || rows != 10 {
		t.Fatalf("expected height-bound 40x10 grid, got %dx%d", cols, rows)
	}
}

func TestToDisplayMapsCellCenters(t *testing.T) {
	t.Parallel()
	m := canvas.New(newPort())
	m.SetBounds(2, 3, 80, 40)
	x, y, inside := m.ToDisplay(2, 3)
	if !inside || x != 5 || y != 10 {
		t.Fatalf("unexpected mapping %v,%v inside=%v", x, y, inside)
	}
	if _, _, inside := m.ToDisplay(1, 3); inside {
		t.Fatalf("cell left of the grid must be outside")
	}
	if _, _, inside := m.ToDisplay(82, 3); inside {
		t.Fatalf("cell right of the grid must be outside")
	}
}

func TestDragGestureReachesPort(t *testing.T) {
	t.Parallel()
	port := newPort()
	port.warning = "selection too small, try a bit larger"
	m := canvas.New(port)
	m.SetBounds(0, 0, 80, 40)

	m, _ = m.Update(press(10, 5))
	if !m.Dragging() || port.downs != 1 {
		t.Fatalf("press on the surface must start a drag")
	}
	m, _ = m.Update(tea.MouseMsg{X: 12, Y: 6, Action: tea.MouseActionMotion})
	m, cmd := m.Update(tea.MouseMsg{X: 200, Y: 6, Action: tea.MouseActionRelease})
	if m.Dragging() || port.moves != 1 {
		t.Fatalf("release must end the drag after one move")
	}
	if len(port.ups) != 1 || port.ups[0] {
		t.Fatalf("release off the grid must report off-surface, got %v", port.ups)
	}
	if cmd == nil {
		t.Fatalf("release must schedule persistence")
	}
}

func TestPressOutsideOrRefusedDoesNotDrag(t *testing.T) {
	t.Parallel()
	port := newPort()
	m := canvas.New(port)
	m.SetBounds(5, 5, 80, 40)

	m, _ = m.Update(press(0, 0))
	if m.Dragging() || port.downs != 0 {
		t.Fatalf("press outside the grid must be ignored")
	}

	port.refuse = true
	m, cmd := m.Update(press(10, 10))
	if m.Dragging() || cmd == nil {
		t.Fatalf("refused press must not drag and must report the refusal")
	}
	if _, ok := cmd().(canvas.RefusedMsg); !ok {
		t.Fatalf("expected refusal message")
	}
}

func TestViewDrawsOutlineStyle(t *testing.T) {
	t.Parallel()
	port := newPort()
	m := canvas.New(port)
	m.SetBounds(0, 0, 40, 20)
	if !strings.Contains(m.View(), "╌") {
		t.Fatalf("default outline must be dashed")
	}

	port.sel.OutlineDash = "0"
	port.sel.OutlineColor = "red"
	m.Refresh()
	if strings.Contains(m.View(), "╌") || !strings.Contains(m.View(), "─") {
		t.Fatalf("warning outline must be solid")
	}

	port.sel.SurfaceEnabled = false
	m.Refresh()
	if !strings.Contains(m.View(), "video paused") {
		t.Fatalf("disabled surface must render paused")
	}
}

func TestRestoreAppliesOnUpdateAndEndsDrag(t *testing.T) {
	t.Parallel()
	port := newPort()
	port.last = roidto.LastCropOutput{
		Rect:     roidto.RectOutput{X: 20, Y: 20, Width: 150, Height: 150},
		CropText: "crop=300:300:40:40",
		Found:    true,
	}
	m := canvas.New(port)
	m.SetBounds(0, 0, 80, 40)
	m, _ = m.Update(press(10, 5))
	if !m.Dragging() {
		t.Fatalf("press must start a drag")
	}

	msg := m.RestoreCmd()()
	if len(port.applied) != 0 {
		t.Fatalf("the restore command must only read, applied %d", len(port.applied))
	}
	m, _ = m.Update(msg)
	if len(port.applied) != 1 || m.Dragging() {
		t.Fatalf("update must apply once and end the drag, applied=%d dragging=%v", len(port.applied), m.Dragging())
	}
	if m.Selection().Rect != port.last.Rect {
		t.Fatalf("expected restored rect, got %+v", m.Selection().Rect)
	}

	m, _ = m.Update(tea.MouseMsg{X: 12, Y: 6, Action: tea.MouseActionRelease})
	if len(port.ups) != 0 {
		t.Fatalf("release after restore must not end a gesture")
	}
}

func TestRestoreWithoutSavedCropLeavesSelection(t *testing.T) {
	t.Parallel()
	port := newPort()
	m := canvas.New(port)
	m, _ = m.Update(m.RestoreCmd()())
	if len(port.applied) != 0 {
		t.Fatalf("nothing saved, nothing to apply")
	}
}
