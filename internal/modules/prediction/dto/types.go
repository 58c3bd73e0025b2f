package dto

import (
	"io"
	"time"
)

type ClassificationOutput struct {
	Label      string
	Confidence float64
	Text       string
	At         time.Time
}

type StateOutput struct {
	Mode             string
	Predicting       bool
	ModelLoaded      bool
	VideoPlaying     bool
	Socket           string
	ModelLabel       string
	ModelError       string
	SessionID        string
	ExitGuard        bool
	PredictEnabled   bool
	ModelSwapAllowed bool
	Last             ClassificationOutput
	HasResult        bool
}

type UploadInput struct {
	Name    string
	Content io.Reader
}

type FilterInput struct {
	Value int
}

// SignalInput drives the backend loop directly, bypassing the console state.
type SignalInput struct {
	Status string
}

type ModelStatusOutput struct {
	Label  string
	Loaded bool
}
