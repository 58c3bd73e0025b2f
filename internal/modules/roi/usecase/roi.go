package usecase

import (
	"context"
	"fmt"

	"github.com/hashicorp/go-hclog"

	"roictl/internal/modules/roi/domain"
	roidto "roictl/internal/modules/roi/dto"
	roiin "roictl/internal/modules/roi/port/in"
	roiout "roictl/internal/modules/roi/port/out"
	"roictl/internal/modules/roi/service"
)

type Interactor struct {
	svc      *service.SelectionService
	store    roiout.CropStore
	recorder roiout.CropRecorder
	logger   hclog.Logger
}

func NewInteractor(svc *service.SelectionService, store roiout.CropStore, recorder roiout.CropRecorder, logger hclog.Logger) roiin.Usecase {
	if logger == nil {
		logger = hclog.NewNullLogger()
	}
	return &Interactor{svc: svc, store: store, recorder: recorder, logger: logger}
}

func (i *Interactor) Begin(x, y float64) bool {
	return i.svc.Begin(x, y)
}

func (i *Interactor) Update(x, y float64) roidto.SelectionOutput {
	i.svc.Update(x, y)
	return i.Snapshot()
}

func (i *Interactor) End(input roidto.PointerInput) (roidto.EndOutput, bool) {
	res, ok := i.svc.End(input.X, input.Y, input.OnSurface)
	if !ok {
		return roidto.EndOutput{}, false
	}
	return roidto.EndOutput{
		Selection: i.Snapshot(),
		Verdict:   verdictName(res.Verdict),
		Warning:   res.Warning,
	}, true
}

func (i *Interactor) Cancel() { i.svc.Cancel() }

// Persist pushes the crop to the backend and, once accepted, to the local
// trail. Only the backend push can fail it; a trail write failure is logged.
// It may run while a newer gesture is already in progress, so it only uses the
// selection it was handed.
func (i *Interactor) Persist(ctx context.Context, selection roidto.SelectionOutput) error {
	c := selection.Crop
	def := domain.CropDefinition{X: c.X, Y: c.Y, Width: c.Width, Height: c.Height}
	if i.store != nil {
		if err := i.store.SaveCrop(ctx, def); err != nil {
			return fmt.Errorf("save crop: %w", err)
		}
	}
	if i.recorder != nil {
		r := selection.Rect
		rect := domain.Rect{X: r.X, Y: r.Y, Width: r.Width, Height: r.Height}
		if err := i.recorder.RecordCrop(ctx, rect, def); err != nil {
			i.logger.Warn("journal record failed", "kind", "crop", "crop", def.String(), "error", err)
		}
	}
	return nil
}

// Drag replays a full gesture and persists the outcome. A refused gesture
// returns the untouched selection and persists nothing.
func (i *Interactor) Drag(ctx context.Context, input roidto.DragInput) (roidto.EndOutput, error) {
	if !i.Begin(input.FromX, input.FromY) {
		return roidto.EndOutput{Selection: i.Snapshot(), Verdict: "refused"}, nil
	}
	i.Update(input.ToX, input.ToY)
	out, _ := i.End(roidto.PointerInput{X: input.ToX, Y: input.ToY, OnSurface: true})
	if err := i.Persist(ctx, out.Selection); err != nil {
		return out, err
	}
	return out, nil
}

func (i *Interactor) Snapshot() roidto.SelectionOutput {
	sel := i.svc.Selector()
	rect := sel.Rect()
	crop := sel.Crop()
	outline := sel.Outline()
	frame := sel.Frame()
	out := roidto.SelectionOutput{
		Rect:           roidto.RectOutput{X: rect.X, Y: rect.Y, Width: rect.Width, Height: rect.Height},
		Crop:           cropOutput(crop),
		CropText:       crop.String(),
		OutlineColor:   outline.Color,
		OutlineDash:    outline.Dash,
		Dragging:       sel.Dragging(),
		Disabled:       sel.Disabled(),
		SurfaceEnabled: sel.SurfaceEnabled(),
		DisplayWidth:   frame.DisplayWidth,
		DisplayHeight:  frame.DisplayHeight,
	}
	if session := sel.Session(); session != nil {
		out.Quadrant = int(session.Quadrant)
	}
	return out
}

func (i *Interactor) SetDisabled(disabled bool) { i.svc.SetDisabled(disabled) }

func (i *Interactor) SetSurfaceEnabled(enabled bool) { i.svc.SetSurfaceEnabled(enabled) }

// Restore reloads the last persisted selection from the local trail and
// applies it. The console splits this into LastCrop and ApplyCrop so only the
// read leaves its event loop.
func (i *Interactor) Restore(ctx context.Context) (roidto.LastCropOutput, error) {
	out, err := i.LastCrop(ctx)
	if err != nil {
		return roidto.LastCropOutput{}, err
	}
	i.ApplyCrop(out)
	return out, nil
}

// LastCrop reads the last persisted selection without touching the selector.
func (i *Interactor) LastCrop(ctx context.Context) (roidto.LastCropOutput, error) {
	if i.recorder == nil {
		return roidto.LastCropOutput{}, nil
	}
	rect, crop, found, err := i.recorder.LastCrop(ctx)
	if err != nil {
		return roidto.LastCropOutput{}, fmt.Errorf("last crop: %w", err)
	}
	if !found {
		return roidto.LastCropOutput{}, nil
	}
	return roidto.LastCropOutput{
		Rect:     roidto.RectOutput{X: rect.X, Y: rect.Y, Width: rect.Width, Height: rect.Height},
		Crop:     cropOutput(crop),
		CropText: crop.String(),
		Found:    true,
	}, nil
}

// ApplyCrop puts a reloaded selection on the selector, dropping any open drag.
func (i *Interactor) ApplyCrop(last roidto.LastCropOutput) roidto.SelectionOutput {
	if last.Found {
		r := last.Rect
		i.svc.Restore(domain.Rect{X: r.X, Y: r.Y, Width: r.Width, Height: r.Height})
	}
	return i.Snapshot()
}

func cropOutput(c domain.CropDefinition) roidto.CropOutput {
	return roidto.CropOutput{X: c.X, Y: c.Y, Width: c.Width, Height: c.Height}
}

func verdictName(v domain.Verdict) string {
	switch v {
	case domain.VerdictAccidental:
		return "reset"
	case domain.VerdictTooSmall:
		return "too-small"
	default:
		return "accepted"
	}
}
