package domain

import (
	"encoding/json"
	"errors"
	"fmt"
)

// Classification is one inference result pushed by the backend.
type Classification struct {
	Label      string  `json:"classification"`
	Confidence float64 `json:"confidence-score"`
}

func (c Classification) String() string {
	return fmt.Sprintf("%s (%g%% confidence)", c.Label, c.Confidence)
}

// ParseResult is either a classification or the reason a frame was rejected.
type ParseResult struct {
	Classification Classification
	Err            error
}

func (r ParseResult) OK() bool { return r.Err == nil }

var ErrMalformedClassification = errors.New("malformed classification")

type wireClassification struct {
	Label      *string  `json:"classification"`
	Confidence *float64 `json:"confidence-score"`
}

// ParseClassification validates the payload shape instead of trusting it.
func ParseClassification(raw []byte) ParseResult {
	wire := wireClassification{}
	if err := json.Unmarshal(raw, &wire); err != nil {
		return ParseResult{Err: fmt.Errorf("%w: %v", ErrMalformedClassification, err)}
	}
	if wire.Label == nil {
		return ParseResult{Err: fmt.Errorf("%w: missing classification", ErrMalformedClassification)}
	}
	if wire.Confidence == nil {
		return ParseResult{Err: fmt.Errorf("%w: missing confidence-score", ErrMalformedClassification)}
	}
	return ParseResult{Classification: Classification{Label: *wire.Label, Confidence: *wire.Confidence}}
}
