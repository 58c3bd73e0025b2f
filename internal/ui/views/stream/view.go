package stream

import (
	"context"
	"fmt"
	"strings"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	predictiondto "roictl/internal/modules/prediction/dto"
	"roictl/internal/ui/theme"
)

// ─── port ────────────────────────────────────────────────────────────────────

// Port is the minimal interface this view needs from the prediction use-case.
type Port interface {
	TogglePredict(ctx context.Context) (predictiondto.StateOutput, error)
	SetVideo(ctx context.Context, playing bool) (predictiondto.StateOutput, error)
	UploadModel(ctx context.Context, path string) (predictiondto.StateOutput, error)
	RefreshModel(ctx context.Context) (predictiondto.StateOutput, error)
	SetFilter(ctx context.Context, value int) error
	State() predictiondto.StateOutput
}

// ─── messages ────────────────────────────────────────────────────────────────

// StateMsg carries a controller state pushed from the channel goroutine.
type StateMsg struct{ State predictiondto.StateOutput }

// ClassificationMsg carries one streamed result.
type ClassificationMsg struct {
	Result predictiondto.ClassificationOutput
}

// ActionMsg reports the outcome of an operator action.
type ActionMsg struct {
	Action string
	State  predictiondto.StateOutput
	Err    error
}

const historySize = 8

// ─── model ───────────────────────────────────────────────────────────────────

type Model struct {
	port    Port
	state   predictiondto.StateOutput
	history []predictiondto.ClassificationOutput
	busy    string
	width   int
}

func New(port Port) Model {
	m := Model{port: port}
	if port != nil {
		m.state = port.State()
	}
	return m
}

// Init asks the backend which model is already loaded.
func (m Model) Init() tea.Cmd {
	if m.port == nil {
		return nil
	}
	port := m.port
	return func() tea.Msg {
		state, err := port.RefreshModel(context.Background())
		return ActionMsg{Action: "refresh", State: state, Err: err}
	}
}

func (m Model) State() predictiondto.StateOutput { return m.state }

func (m *Model) SetWidth(w int) { m.width = w }

func (m Model) Update(msg tea.Msg) (Model, tea.Cmd) {
	switch msg := msg.(type) {
	case StateMsg:
		m.state = msg.State
	case ClassificationMsg:
		m.history = append([]predictiondto.ClassificationOutput{msg.Result}, m.history...)
		if len(m.history) > historySize {
			m.history = m.history[:historySize]
		}
	case ActionMsg:
		m.busy = ""
		m.state = msg.State
	}
	return m, nil
}

// TogglePredict flips prediction; a disabled control does nothing.
func (m *Model) TogglePredict() tea.Cmd {
	if m.port == nil || !m.state.PredictEnabled {
		return nil
	}
	port := m.port
	return m.run("predict", func(ctx context.Context) (predictiondto.StateOutput, error) {
		return port.TogglePredict(ctx)
	})
}

func (m *Model) SetVideo(playing bool) tea.Cmd {
	if m.port == nil {
		return nil
	}
	port := m.port
	return m.run("video", func(ctx context.Context) (predictiondto.StateOutput, error) {
		return port.SetVideo(ctx, playing)
	})
}

func (m *Model) UploadModel(path string) tea.Cmd {
	if m.port == nil {
		return nil
	}
	port := m.port
	return m.run("model", func(ctx context.Context) (predictiondto.StateOutput, error) {
		return port.UploadModel(ctx, path)
	})
}

func (m *Model) RefreshModel() tea.Cmd {
	if m.port == nil {
		return nil
	}
	port := m.port
	return m.run("refresh", func(ctx context.Context) (predictiondto.StateOutput, error) {
		return port.RefreshModel(ctx)
	})
}

func (m *Model) SetFilter(value int) tea.Cmd {
	if m.port == nil {
		return nil
	}
	port := m.port
	return m.run("filter", func(ctx context.Context) (predictiondto.StateOutput, error) {
		err := port.SetFilter(ctx, value)
		return port.State(), err
	})
}

func (m *Model) run(action string, fn func(ctx context.Context) (predictiondto.StateOutput, error)) tea.Cmd {
	m.busy = action
	return func() tea.Msg {
		state, err := fn(context.Background())
		return ActionMsg{Action: action, State: state, Err: err}
	}
}

// ─── view ────────────────────────────────────────────────────────────────────

func (m Model) View() string {
	s := m.state
	var sb strings.Builder
	sb.WriteString(theme.Title.Render("Prediction") + "\n\n")

	sb.WriteString(row("mode", modeBadge(s)))
	sb.WriteString(row("video", onOff(s.VideoPlaying)))
	sb.WriteString(row("stream", socketBadge(s.Socket)))
	model := theme.Muted.Render("none")
	if s.ModelLoaded {
		model = theme.Good.Render(s.ModelLabel)
	}
	sb.WriteString(row("model", model))
	if s.ModelError != "" {
		sb.WriteString(row("", theme.Bad.Render(s.ModelError)))
	}
	if s.SessionID != "" {
		sb.WriteString(row("session", theme.Muted.Render(s.SessionID)))
	}
	if m.busy != "" {
		sb.WriteString(row("", theme.Muted.Render(m.busy+"…")))
	}

	sb.WriteString("\n" + theme.Title.Render("Last result") + "\n")
	if !s.HasResult {
		sb.WriteString(theme.Muted.Render("waiting for results") + "\n")
	} else {
		sb.WriteString(theme.Hot.Render(s.Last.Label) + fmt.Sprintf("  %.2f%%", s.Last.Confidence) + "\n")
		sb.WriteString(theme.Muted.Render(s.Last.At.Local().Format("15:04:05")) + "\n")
	}

	if len(m.history) > 1 {
		sb.WriteString("\n" + theme.Title.Render("History") + "\n")
		for _, r := range m.history[1:] {
			sb.WriteString(theme.Muted.Render(r.At.Local().Format("15:04:05")) + "  " + r.Text + "\n")
		}
	}

	style := theme.Pane
	if s.Predicting {
		style = theme.PaneActive
	}
	if m.width > 4 {
		style = style.Width(m.width - 2)
	}
	return style.Render(strings.TrimRight(sb.String(), "\n"))
}

func row(label, value string) string {
	return lipgloss.NewStyle().Width(9).Foreground(theme.Subtext0).Render(label) + value + "\n"
}

func modeBadge(s predictiondto.StateOutput) string {
	switch s.Mode {
	case "predicting":
		return theme.Good.Render("● predicting")
	case "ready":
		return theme.Hot.Render("○ ready")
	default:
		return theme.Muted.Render("○ idle")
	}
}

func socketBadge(state string) string {
	switch state {
	case "OPEN":
		return theme.Good.Render("connected")
	case "CONNECTING":
		return theme.Hot.Render("connecting")
	default:
		return theme.Bad.Render("disconnected")
	}
}

func onOff(v bool) string {
	if v {
		return theme.Good.Render("playing")
	}
	return theme.Muted.Render("paused")
}
