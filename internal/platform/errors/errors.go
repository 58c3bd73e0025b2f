package apperrors

import (
	"errors"
	"fmt"
)

var (
	ErrInvalidInput       = errors.New("invalid input")
	ErrNotFound           = errors.New("not found")
	ErrBackend            = errors.New("backend request failed")
	ErrPredictUnavailable = errors.New("prediction unavailable: model and live video are required")
	ErrModelLocked        = errors.New("model is locked while prediction is running")
)

// BackendError carries the message a backend endpoint returned in its
// "detail" field, or the HTTP status when none was given.
type BackendError struct {
	Path   string
	Status int
	Detail string
}

func (e *BackendError) Error() string {
	if e.Detail != "" {
		return e.Detail
	}
	return fmt.Sprintf("%s: unexpected status %d", e.Path, e.Status)
}

func (e *BackendError) Unwrap() error { return ErrBackend }
