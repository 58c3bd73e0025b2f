package out

import (
	"context"
	"io"

	"roictl/internal/modules/prediction/domain"
)

// Control drives the backend inference loop.
type Control interface {
	StartInference(ctx context.Context) error
	StopInference(ctx context.Context) error
	SetFilter(ctx context.Context, value int) error
	InferNow(ctx context.Context) (domain.Classification, error)
}

type ModelStore interface {
	Upload(ctx context.Context, name string, content io.Reader) error
	// LoadedModel returns the backend's model file name, empty when none.
	LoadedModel(ctx context.Context) (string, error)
}

// Dialer opens the classification stream. A Conn returns io.EOF from Read
// once the peer closed normally.
type Dialer interface {
	Dial(ctx context.Context) (Conn, error)
}

type Conn interface {
	Read(ctx context.Context) ([]byte, error)
	Close() error
}

// Recorder appends controller activity to the local journal.
type Recorder interface {
	Record(ctx context.Context, kind, detail string, payload any, sessionID string) error
}
