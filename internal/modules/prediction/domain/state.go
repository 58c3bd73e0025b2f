package domain

import "time"

type SocketState int

const (
	SocketClosed SocketState = iota
	SocketConnecting
	SocketOpen
)

func (s SocketState) String() string {
	switch s {
	case SocketConnecting:
		return "CONNECTING"
	case SocketOpen:
		return "OPEN"
	default:
		return "CLOSED"
	}
}

// Mode is the composite state derived from the session flags.
type Mode int

const (
	ModeIdle Mode = iota
	ModeReady
	ModePredicting
)

func (m Mode) String() string {
	switch m {
	case ModeReady:
		return "ready"
	case ModePredicting:
		return "predicting"
	default:
		return "idle"
	}
}

// SessionState is the single owned record of what the console is doing.
// The interactor is its only writer.
type SessionState struct {
	Predicting   bool
	ModelLoaded  bool
	VideoPlaying bool
	Socket       SocketState

	ModelLabel string
	ModelError string
	SessionID  string
	// ExitGuard is armed by the first prediction start and stays armed.
	ExitGuard bool

	Last      Classification
	LastAt    time.Time
	HasResult bool
}

func (s SessionState) Mode() Mode {
	switch {
	case s.Predicting:
		return ModePredicting
	case s.CanPredict():
		return ModeReady
	default:
		return ModeIdle
	}
}

// CanPredict gates the predict control when no prediction is running.
func (s SessionState) CanPredict() bool { return s.ModelLoaded && s.VideoPlaying }

// PredictEnabled reports whether the toggle does anything: stopping is
// always possible, starting needs a model and live video.
func (s SessionState) PredictEnabled() bool { return s.Predicting || s.CanPredict() }

func (s SessionState) ModelSwapAllowed() bool { return !s.Predicting }

func (s SessionState) DragAllowed() bool { return !s.Predicting }

func (s *SessionState) StartPredicting(sessionID string) {
	s.Predicting = true
	s.ExitGuard = true
	s.SessionID = sessionID
}

// StopPredicting returns the id of the session it ended.
func (s *SessionState) StopPredicting() string {
	id := s.SessionID
	s.Predicting = false
	s.SessionID = ""
	return id
}

func (s *SessionState) CommitModel(label string) {
	s.ModelLoaded = true
	s.ModelLabel = label
	s.ModelError = ""
}

func (s *SessionState) UnloadModel(reason string) {
	s.ModelLoaded = false
	s.ModelLabel = ""
	s.ModelError = reason
}

func (s *SessionState) Observe(c Classification, at time.Time) {
	s.Last = c
	s.LastAt = at
	s.HasResult = true
}
