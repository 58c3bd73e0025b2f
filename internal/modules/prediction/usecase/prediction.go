package usecase

import (
	"context"
	"time"

	"roictl/internal/modules/prediction/domain"
	"roictl/internal/modules/prediction/dto"
	predin "roictl/internal/modules/prediction/port/in"
	"roictl/internal/modules/prediction/service"
	apperrors "roictl/internal/platform/errors"
)

type Interactor struct {
	svc *service.Controller
}

func NewInteractor(svc *service.Controller) predin.Usecase {
	return &Interactor{svc: svc}
}

func (i *Interactor) Connect(context.Context) { i.svc.Connect() }

func (i *Interactor) TogglePredict(ctx context.Context) (dto.StateOutput, error) {
	state, err := i.svc.Toggle(ctx)
	return stateOutput(state), err
}

func (i *Interactor) SetVideo(ctx context.Context, playing bool) (dto.StateOutput, error) {
	state, err := i.svc.SetVideo(ctx, playing)
	return stateOutput(state), err
}

func (i *Interactor) UploadModel(ctx context.Context, input dto.UploadInput) (dto.StateOutput, error) {
	state, err := i.svc.UploadModel(ctx, input.Name, input.Content)
	return stateOutput(state), err
}

func (i *Interactor) RefreshModel(ctx context.Context) (dto.StateOutput, error) {
	state, err := i.svc.RefreshModel(ctx)
	return stateOutput(state), err
}

func (i *Interactor) SetFilter(ctx context.Context, input dto.FilterInput) error {
	return i.svc.SetFilter(ctx, input.Value)
}

func (i *Interactor) Signal(ctx context.Context, input dto.SignalInput) error {
	switch input.Status {
	case "start":
		return i.svc.Signal(ctx, true)
	case "stop":
		return i.svc.Signal(ctx, false)
	default:
		return apperrors.ErrInvalidInput
	}
}

func (i *Interactor) InferOnce(ctx context.Context) (dto.ClassificationOutput, error) {
	c, at, err := i.svc.InferOnce(ctx)
	if err != nil {
		return dto.ClassificationOutput{}, err
	}
	return classificationOutput(c, at), nil
}

func (i *Interactor) ModelStatus(ctx context.Context) (dto.ModelStatusOutput, error) {
	label, err := i.svc.LoadedModel(ctx)
	if err != nil {
		return dto.ModelStatusOutput{}, err
	}
	return dto.ModelStatusOutput{Label: label, Loaded: label != ""}, nil
}

func (i *Interactor) Snapshot() dto.StateOutput { return stateOutput(i.svc.State()) }

func (i *Interactor) PredictionActive() bool { return i.svc.PredictionActive() }

func (i *Interactor) QuitNeedsConfirm() bool { return i.svc.QuitNeedsConfirm() }

func (i *Interactor) Subscribe(l predin.Listener) func() {
	return i.svc.Observe(listenerAdapter{l: l})
}

func (i *Interactor) Shutdown(ctx context.Context) error { return i.svc.Shutdown(ctx) }

type listenerAdapter struct {
	l predin.Listener
}

func (a listenerAdapter) Classified(c domain.Classification, at time.Time) {
	a.l.OnClassification(classificationOutput(c, at))
}

func (a listenerAdapter) StateChanged(state domain.SessionState) {
	a.l.OnState(stateOutput(state))
}

func classificationOutput(c domain.Classification, at time.Time) dto.ClassificationOutput {
	return dto.ClassificationOutput{Label: c.Label, Confidence: c.Confidence, Text: c.String(), At: at}
}

func stateOutput(s domain.SessionState) dto.StateOutput {
	out := dto.StateOutput{
		Mode:             s.Mode().String(),
		Predicting:       s.Predicting,
		ModelLoaded:      s.ModelLoaded,
		VideoPlaying:     s.VideoPlaying,
		Socket:           s.Socket.String(),
		ModelLabel:       s.ModelLabel,
		ModelError:       s.ModelError,
		SessionID:        s.SessionID,
		ExitGuard:        s.ExitGuard,
		PredictEnabled:   s.PredictEnabled(),
		ModelSwapAllowed: s.ModelSwapAllowed(),
		HasResult:        s.HasResult,
	}
	if s.HasResult {
		out.Last = classificationOutput(s.Last, s.LastAt)
	}
	return out
}
