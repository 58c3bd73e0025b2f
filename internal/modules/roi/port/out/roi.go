package out

import (
	"context"

	"roictl/internal/modules/roi/domain"
)

// PredictionGate reports whether a live prediction currently owns the
// surface; drags are refused while it does.
type PredictionGate interface {
	PredictionActive() bool
}

// CropStore persists the native crop on the backend.
type CropStore interface {
	SaveCrop(ctx context.Context, crop domain.CropDefinition) error
}

// CropRecorder keeps a local trail of persisted selections.
type CropRecorder interface {
	RecordCrop(ctx context.Context, rect domain.Rect, crop domain.CropDefinition) error
	LastCrop(ctx context.Context) (domain.Rect, domain.CropDefinition, bool, error)
}
