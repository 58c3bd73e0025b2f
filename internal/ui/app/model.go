package app

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"strings"

	"github.com/charmbracelet/bubbles/help"
	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	predictiondto "roictl/internal/modules/prediction/dto"
	apperrors "roictl/internal/platform/errors"
	"roictl/internal/ui/components"
	"roictl/internal/ui/theme"
	canvasview "roictl/internal/ui/views/canvas"
	streamview "roictl/internal/ui/views/stream"
)

// ─── ports ───────────────────────────────────────────────────────────────────

type roiPort interface {
	canvasview.Port
	SetSurfaceEnabled(enabled bool)
	SetDisabled(disabled bool)
}

type predictionPort interface {
	streamview.Port
	Connect(ctx context.Context)
	QuitNeedsConfirm() bool
}

// ─── messages ────────────────────────────────────────────────────────────────

type connectedMsg struct{}

// ─── key bindings ────────────────────────────────────────────────────────────

type keyMap struct {
	Predict key.Binding
	Video   key.Binding
	Model   key.Binding
	Filter  key.Binding
	Restore key.Binding
	Palette key.Binding
	Help    key.Binding
	Quit    key.Binding
}

func defaultKeys() keyMap {
	return keyMap{
		Predict: key.NewBinding(key.WithKeys("p"), key.WithHelp("p", "start/stop prediction")),
		Video:   key.NewBinding(key.WithKeys("v"), key.WithHelp("v", "play/pause video")),
		Model:   key.NewBinding(key.WithKeys("m"), key.WithHelp("m", "upload model")),
		Filter:  key.NewBinding(key.WithKeys("f"), key.WithHelp("f", "set filter")),
		Restore: key.NewBinding(key.WithKeys("r"), key.WithHelp("r", "restore last crop")),
		Palette: key.NewBinding(key.WithKeys(":"), key.WithHelp(":", "command")),
		Help:    key.NewBinding(key.WithKeys("?"), key.WithHelp("?", "help")),
		Quit:    key.NewBinding(key.WithKeys("ctrl+c", "q"), key.WithHelp("q", "quit")),
	}
}

func (k keyMap) ShortHelp() []key.Binding {
	return []key.Binding{k.Predict, k.Video, k.Model, k.Filter, k.Help, k.Quit}
}

func (k keyMap) FullHelp() [][]key.Binding {
	return [][]key.Binding{
		{k.Predict, k.Video},
		{k.Model, k.Filter, k.Restore},
		{k.Palette, k.Help, k.Quit},
	}
}

// ─── model ───────────────────────────────────────────────────────────────────

const streamPaneWidth = 36

// Model is the root Bubble Tea model: the video surface with the selection
// overlay on the left, the prediction pane on the right.
type Model struct {
	backendURL string

	roi        roiPort
	prediction predictionPort

	canvas canvasview.Model
	stream streamview.Model

	keys        keyMap
	help        help.Model
	showHelp    bool
	palette     components.Palette
	alert       components.Alert
	toast       components.Toast
	confirmQuit bool
	status      string
	width       int
	height      int
}

func NewModel(backendURL string, roi roiPort, prediction predictionPort) Model {
	return Model{
		backendURL: backendURL,
		roi:        roi,
		prediction: prediction,
		canvas:     canvasview.New(roi),
		stream:     streamview.New(prediction),
		keys:       defaultKeys(),
		help:       help.New(),
		palette:    components.NewPalette(),
		toast:      components.NewToast(components.DefaultToastTTL),
		status:     "ready",
	}
}

func (m Model) Init() tea.Cmd {
	return tea.Batch(m.stream.Init(), m.connectCmd())
}

// ─── update ──────────────────────────────────────────────────────────────────

func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	if expired, ok := msg.(components.ToastExpiredMsg); ok {
		m.toast = m.toast.Update(expired)
		return m, nil
	}
	if m.alert.Visible() {
		if _, ok := msg.(tea.KeyMsg); ok {
			m.alert = m.alert.Update(msg)
			return m, nil
		}
	}
	if m.palette.Visible() {
		if _, ok := msg.(tea.KeyMsg); ok {
			var cmd tea.Cmd
			m.palette, cmd = m.palette.Update(msg)
			return m, cmd
		}
	}

	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		m.help.Width = m.width
		m.palette.SetWidth(min(m.width-4, 72))
		m.layout()

	case connectedMsg:

	case streamview.StateMsg:
		m.stream, _ = m.stream.Update(msg)
		m.syncSurface()

	case streamview.ClassificationMsg:
		m.stream, _ = m.stream.Update(msg)

	case streamview.ActionMsg:
		m.stream, _ = m.stream.Update(msg)
		m.syncSurface()
		return m.afterAction(msg)

	case canvasview.PersistedMsg:
		if msg.Err != nil {
			m.alert.Show("Crop not saved", msg.Err.Error())
			m.status = "crop failed"
		} else {
			m.status = "crop saved: " + msg.Selection.CropText
		}

	case canvasview.RestoredMsg:
		m.canvas, _ = m.canvas.Update(msg)
		switch {
		case msg.Err != nil:
			m.alert.Show("Restore failed", msg.Err.Error())
		case !msg.Out.Found:
			m.status = "no saved crop"
		default:
			m.status = "restored: " + msg.Out.CropText
		}

	case canvasview.WarningMsg:
		return m, m.toast.Show(msg.Text)

	case canvasview.RefusedMsg:
		if m.stream.State().Predicting {
			return m, m.toast.Show("selection is locked while predicting")
		}

	case components.PaletteSubmitMsg:
		return m.executePalette(msg.Input)

	case components.PaletteCancelMsg:
		m.status = "ready"

	case tea.MouseMsg:
		if m.showHelp || m.confirmQuit {
			return m, nil
		}
		var cmd tea.Cmd
		m.canvas, cmd = m.canvas.Update(msg)
		return m, cmd

	case tea.KeyMsg:
		return m.handleKey(msg)
	}
	return m, nil
}

func (m Model) handleKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	if m.confirmQuit {
		switch msg.String() {
		case "y", "q", "ctrl+c":
			m.canvas.Teardown()
			return m, tea.Quit
		default:
			m.confirmQuit = false
		}
		return m, nil
	}
	if m.showHelp {
		if msg.String() == "?" || msg.String() == "esc" {
			m.showHelp = false
		}
		return m, nil
	}

	switch {
	case key.Matches(msg, m.keys.Quit):
		if m.prediction != nil && m.prediction.QuitNeedsConfirm() {
			m.confirmQuit = true
			return m, nil
		}
		m.canvas.Teardown()
		return m, tea.Quit
	case key.Matches(msg, m.keys.Help):
		m.showHelp = true
	case key.Matches(msg, m.keys.Palette):
		return m, m.palette.Open()
	case key.Matches(msg, m.keys.Predict):
		if !m.stream.State().PredictEnabled {
			return m, m.toast.Show("load a model and play the video first")
		}
		return m, m.stream.TogglePredict()
	case key.Matches(msg, m.keys.Video):
		return m, m.stream.SetVideo(!m.stream.State().VideoPlaying)
	case key.Matches(msg, m.keys.Model):
		if !m.stream.State().ModelSwapAllowed {
			return m, m.toast.Show("stop prediction before changing the model")
		}
		return m, m.palette.OpenWith("model upload ")
	case key.Matches(msg, m.keys.Filter):
		return m, m.palette.OpenWith("filter ")
	case key.Matches(msg, m.keys.Restore):
		return m, m.canvas.RestoreCmd()
	}
	return m, nil
}

func (m Model) afterAction(msg streamview.ActionMsg) (tea.Model, tea.Cmd) {
	if msg.Err == nil {
		switch msg.Action {
		case "model":
			if msg.State.ModelLoaded {
				m.status = "model loaded: " + msg.State.ModelLabel
			} else {
				m.status = "model unloaded"
			}
		case "filter":
			m.status = "filter updated"
		case "predict":
			m.status = "prediction " + msg.State.Mode
		case "video":
			m.status = "video " + map[bool]string{true: "playing", false: "paused"}[msg.State.VideoPlaying]
		}
		return m, nil
	}

	switch {
	case msg.Action == "refresh":
		m.status = "model check failed: " + msg.Err.Error()
		return m, nil
	case errors.Is(msg.Err, apperrors.ErrModelLocked), errors.Is(msg.Err, apperrors.ErrPredictUnavailable):
		return m, m.toast.Show(msg.Err.Error())
	case msg.Action == "model":
		m.alert.Show("Model not loaded", msg.Err.Error())
	case msg.Action == "filter":
		m.alert.Show("Filter not applied", msg.Err.Error())
	default:
		m.alert.Show("Prediction", msg.Err.Error())
	}
	m.status = msg.Action + " failed"
	return m, nil
}

// syncSurface keeps the selection surface in step with the video flag.
func (m *Model) syncSurface() {
	if m.roi == nil {
		return
	}
	playing := m.stream.State().VideoPlaying
	if m.canvas.Selection().SurfaceEnabled != playing {
		if !playing {
			m.canvas.Teardown()
		}
		m.roi.SetSurfaceEnabled(playing)
		m.canvas.Refresh()
	}
}

// ─── view ────────────────────────────────────────────────────────────────────

func (m Model) View() string {
	header := m.renderHeader()
	statusBar := m.renderStatusBar()
	bodyH := max(m.height-lipgloss.Height(header)-lipgloss.Height(statusBar), 1)

	var body string
	switch {
	case m.alert.Visible():
		body = lipgloss.Place(m.width, bodyH, lipgloss.Center, lipgloss.Center, m.alert.View(m.width))
	case m.confirmQuit:
		prompt := theme.Hot.Render("Prediction was started in this session.") + "\n\n" +
			"Quit anyway? " + theme.Muted.Render("(y to quit, any other key to stay)")
		body = lipgloss.Place(m.width, bodyH, lipgloss.Center, lipgloss.Center, theme.PaneActive.Render(prompt))
	case m.showHelp:
		body = lipgloss.NewStyle().Width(m.width).Height(bodyH).Render(m.help.View(m.keys))
	case m.palette.Visible():
		body = lipgloss.Place(m.width, bodyH, lipgloss.Center, lipgloss.Center, m.palette.View())
	default:
		left := lipgloss.NewStyle().PaddingLeft(1).Render(lipgloss.JoinVertical(lipgloss.Left,
			theme.Title.Render("Video surface"),
			m.canvas.View(),
			m.canvas.Caption(),
		))
		body = lipgloss.JoinHorizontal(lipgloss.Top, left, "  ", m.stream.View())
		body = lipgloss.NewStyle().Height(bodyH).Render(body)
	}
	return lipgloss.JoinVertical(lipgloss.Left, header, body, statusBar)
}

func (m Model) renderHeader() string {
	bar := theme.Hot.Render("roictl") + "  " + theme.Muted.Render(m.backendURL)
	return lipgloss.NewStyle().Background(theme.Mantle).Width(m.width).Render(bar)
}

func (m Model) renderStatusBar() string {
	left := m.status
	if t := m.toast.View(); t != "" {
		left = t
	}
	right := theme.Muted.Render("p:predict  v:video  m:model  f:filter  ?:help  q:quit")
	gap := max(m.width-lipgloss.Width(left)-lipgloss.Width(right), 1)
	bar := left + strings.Repeat(" ", gap) + right
	return lipgloss.NewStyle().Background(theme.Mantle).Width(m.width).Render(bar)
}

// layout positions the canvas: one header row and one title row above it,
// one padding column to its left.
func (m *Model) layout() {
	cols := m.width - streamPaneWidth - 4
	rows := m.height - 5
	m.canvas.SetBounds(1, 2, cols, rows)
	m.stream.SetWidth(streamPaneWidth)
}

// ─── palette execution ───────────────────────────────────────────────────────

func (m Model) executePalette(input string) (tea.Model, tea.Cmd) {
	if strings.TrimSpace(input) == "" {
		return m, nil
	}
	parts := strings.Fields(input)

	switch parts[0] {
	case "predict":
		return m, m.stream.TogglePredict()

	case "video":
		if len(parts) < 2 || (parts[1] != "on" && parts[1] != "off") {
			m.status = "usage: video on|off"
			return m, nil
		}
		return m, m.stream.SetVideo(parts[1] == "on")

	case "model":
		if len(parts) < 2 {
			m.status = "usage: model upload <path> | unload | refresh"
			return m, nil
		}
		switch parts[1] {
		case "upload":
			path := strings.TrimSpace(strings.TrimPrefix(input, parts[0]+" "+parts[1]))
			if path == "" {
				m.status = "usage: model upload <path>"
				return m, nil
			}
			return m, m.stream.UploadModel(path)
		case "unload":
			return m, m.stream.UploadModel("")
		case "refresh":
			return m, m.stream.RefreshModel()
		}
		m.status = "unknown model command: " + parts[1]

	case "filter":
		if len(parts) < 2 {
			m.status = "usage: filter <value>"
			return m, nil
		}
		value, err := strconv.Atoi(parts[1])
		if err != nil {
			m.alert.Show("Filter not applied", fmt.Sprintf("%q is not an integer", parts[1]))
			return m, nil
		}
		return m, m.stream.SetFilter(value)

	case "crop":
		if len(parts) < 2 {
			m.status = "usage: crop restore|lock|unlock"
			return m, nil
		}
		switch parts[1] {
		case "restore":
			return m, m.canvas.RestoreCmd()
		case "lock", "unlock":
			if m.roi != nil {
				m.canvas.Teardown()
				m.roi.SetDisabled(parts[1] == "lock")
				m.canvas.Refresh()
			}
			m.status = "selection " + parts[1] + "ed"
			return m, nil
		}
		m.status = "unknown crop command: " + parts[1]

	default:
		m.status = "unknown command: " + parts[0]
	}
	return m, nil
}

// ─── async commands ──────────────────────────────────────────────────────────

// connectCmd opens the classification stream off the event loop; listener
// callbacks send into the program and must never run on it.
func (m Model) connectCmd() tea.Cmd {
	if m.prediction == nil {
		return nil
	}
	prediction := m.prediction
	return func() tea.Msg {
		prediction.Connect(context.Background())
		return connectedMsg{}
	}
}

// ─── listener ────────────────────────────────────────────────────────────────

// Listener forwards controller events into the running program.
type Listener struct {
	send func(tea.Msg)
}

func NewListener(send func(tea.Msg)) Listener {
	return Listener{send: send}
}

func (l Listener) OnClassification(c predictiondto.ClassificationOutput) {
	l.send(streamview.ClassificationMsg{Result: c})
}

func (l Listener) OnState(s predictiondto.StateOutput) {
	l.send(streamview.StateMsg{State: s})
}
