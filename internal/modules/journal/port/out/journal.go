package out

import (
	"context"

	"roictl/internal/modules/journal/domain"
)

type Store interface {
	Append(ctx context.Context, entry domain.Entry) (int64, error)
	// Tail returns the newest entries first; an empty kind matches all.
	Tail(ctx context.Context, kind domain.Kind, limit int) ([]domain.Entry, error)
	Close() error
}
