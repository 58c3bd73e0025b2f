package components_test

import (
	"strings"
	"testing"

	tea "github.com/charmbracelet/bubbletea"

	"roictl/internal/ui/components"
)

func TestPaletteOpenWithPrefillsAndFiltersHints(t *testing.T) {
	t.Parallel()
	p := components.NewPalette()
	if p.Visible() {
		t.Fatalf("new palette must start hidden")
	}
	p.SetWidth(60)
	p.OpenWith("model ")
	if !p.Visible() {
		t.Fatalf("open must show the palette")
	}
	view := p.View()
	if !strings.Contains(view, "model upload <path>") || strings.Contains(view, "filter <value>") {
		t.Fatalf("hints must follow the prefix, got:\n%s", view)
	}
}

func TestPaletteSubmitTrimsInput(t *testing.T) {
	t.Parallel()
	p := components.NewPalette()
	p.OpenWith("  filter 3  ")
	p, cmd := p.Update(tea.KeyMsg{Type: tea.KeyEnter})
	if p.Visible() || cmd == nil {
		t.Fatalf("enter must close the palette and submit")
	}
	msg, ok := cmd().(components.PaletteSubmitMsg)
	if !ok || msg.Input != "filter 3" {
		t.Fatalf("unexpected submit %#v", cmd())
	}
}
