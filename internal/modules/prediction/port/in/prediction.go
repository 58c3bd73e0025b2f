package in

import (
	"context"

	"roictl/internal/modules/prediction/dto"
)

// Listener receives controller events. Callbacks run on the channel goroutine
// and must not block.
type Listener interface {
	OnClassification(dto.ClassificationOutput)
	OnState(dto.StateOutput)
}

type Usecase interface {
	Connect(ctx context.Context)
	TogglePredict(ctx context.Context) (dto.StateOutput, error)
	SetVideo(ctx context.Context, playing bool) (dto.StateOutput, error)
	UploadModel(ctx context.Context, input dto.UploadInput) (dto.StateOutput, error)
	RefreshModel(ctx context.Context) (dto.StateOutput, error)
	SetFilter(ctx context.Context, input dto.FilterInput) error
	Signal(ctx context.Context, input dto.SignalInput) error
	InferOnce(ctx context.Context) (dto.ClassificationOutput, error)
	ModelStatus(ctx context.Context) (dto.ModelStatusOutput, error)
	Snapshot() dto.StateOutput
	PredictionActive() bool
	QuitNeedsConfirm() bool
	Subscribe(l Listener) (unsubscribe func())
	Shutdown(ctx context.Context) error
}
