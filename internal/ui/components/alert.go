package components

import (
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"roictl/internal/ui/theme"
)

var alertStyle = lipgloss.NewStyle().
	BorderStyle(lipgloss.DoubleBorder()).
	BorderForeground(theme.Red).
	Background(theme.Mantle).
	Foreground(theme.Text).
	Padding(1, 2)

// Alert is a blocking message pane; while visible it swallows all keys
// until enter or esc dismisses it.
type Alert struct {
	title   string
	message string
	visible bool
}

func (a Alert) Visible() bool { return a.visible }

func (a *Alert) Show(title, message string) {
	a.title = title
	a.message = message
	a.visible = true
}

func (a Alert) Update(msg tea.Msg) Alert {
	if k, ok := msg.(tea.KeyMsg); ok {
		switch k.String() {
		case "enter", "esc":
			a.visible = false
		}
	}
	return a
}

func (a Alert) View(width int) string {
	if !a.visible {
		return ""
	}
	w := width - 8
	if w < 24 {
		w = 24
	}
	if w > 72 {
		w = 72
	}
	body := theme.Hot.Render(a.title) + "\n\n" + a.message + "\n\n" + theme.Muted.Render("enter: dismiss")
	return alertStyle.Width(w).Render(body)
}
