package in

import (
	"context"

	roidto "roictl/internal/modules/roi/dto"
	roiin "roictl/internal/modules/roi/port/in"
)

// TUIHandler maps console pointer events onto the selector.
type TUIHandler struct {
	usecase roiin.Usecase
}

func NewTUIHandler(usecase roiin.Usecase) TUIHandler {
	return TUIHandler{usecase: usecase}
}

func (h TUIHandler) PointerDown(x, y float64) bool { return h.usecase.Begin(x, y) }

func (h TUIHandler) PointerMove(x, y float64) roidto.SelectionOutput {
	return h.usecase.Update(x, y)
}

func (h TUIHandler) PointerUp(x, y float64, onSurface bool) (roidto.EndOutput, bool) {
	return h.usecase.End(roidto.PointerInput{X: x, Y: y, OnSurface: onSurface})
}

func (h TUIHandler) Teardown() { h.usecase.Cancel() }

func (h TUIHandler) Persist(ctx context.Context, selection roidto.SelectionOutput) error {
	return h.usecase.Persist(ctx, selection)
}

func (h TUIHandler) Selection() roidto.SelectionOutput { return h.usecase.Snapshot() }

func (h TUIHandler) SetSurfaceEnabled(enabled bool) { h.usecase.SetSurfaceEnabled(enabled) }

func (h TUIHandler) SetDisabled(disabled bool) { h.usecase.SetDisabled(disabled) }

// LastCrop only reads; it is safe to call from a command goroutine.
func (h TUIHandler) LastCrop(ctx context.Context) (roidto.LastCropOutput, error) {
	return h.usecase.LastCrop(ctx)
}

func (h TUIHandler) ApplyCrop(last roidto.LastCropOutput) roidto.SelectionOutput {
	return h.usecase.ApplyCrop(last)
}
