package in

import (
	"context"

	"roictl/internal/modules/roi/dto"
)

// Usecase is driven by pointer events. Begin/Update/End never fail: a
// refused or degenerate gesture resolves to a safe selection.
type Usecase interface {
	Begin(x, y float64) bool
	Update(x, y float64) dto.SelectionOutput
	End(input dto.PointerInput) (dto.EndOutput, bool)
	Cancel()
	Persist(ctx context.Context, selection dto.SelectionOutput) error
	Drag(ctx context.Context, input dto.DragInput) (dto.EndOutput, error)
	Snapshot() dto.SelectionOutput
	SetDisabled(disabled bool)
	SetSurfaceEnabled(enabled bool)
	Restore(ctx context.Context) (dto.LastCropOutput, error)
	LastCrop(ctx context.Context) (dto.LastCropOutput, error)
	ApplyCrop(last dto.LastCropOutput) dto.SelectionOutput
}
