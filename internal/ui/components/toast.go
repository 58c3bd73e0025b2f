package components

import (
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"roictl/internal/ui/theme"
)

const DefaultToastTTL = 3 * time.Second

// ToastExpiredMsg hides the toast it was scheduled for. Older expiries are
// ignored once a newer toast replaced the text.
type ToastExpiredMsg struct{ seq int }

var toastStyle = lipgloss.NewStyle().
	Background(theme.Yellow).
	Foreground(theme.Base).
	Bold(true).
	Padding(0, 1)

type Toast struct {
	text string
	seq  int
	ttl  time.Duration
}

func NewToast(ttl time.Duration) Toast {
	if ttl <= 0 {
		ttl = DefaultToastTTL
	}
	return Toast{ttl: ttl}
}

func (t Toast) Text() string { return t.text }

// Show replaces the current text and schedules its expiry.
func (t *Toast) Show(text string) tea.Cmd {
	t.seq++
	t.text = text
	seq := t.seq
	return tea.Tick(t.ttl, func(time.Time) tea.Msg { return ToastExpiredMsg{seq: seq} })
}

func (t Toast) Update(msg tea.Msg) Toast {
	if m, ok := msg.(ToastExpiredMsg); ok && m.seq == t.seq {
		t.text = ""
	}
	return t
}

func (t Toast) View() string {
	if t.text == "" {
		return ""
	}
	return toastStyle.Render(t.text)
}
