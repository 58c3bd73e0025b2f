package in

import (
	"context"
	"fmt"
	"os"
	"path/filepath"

	"roictl/internal/modules/prediction/dto"
	predin "roictl/internal/modules/prediction/port/in"
)

// TUIHandler exposes the controller to the console.
type TUIHandler struct {
	usecase predin.Usecase
}

func NewTUIHandler(usecase predin.Usecase) TUIHandler {
	return TUIHandler{usecase: usecase}
}

func (h TUIHandler) Connect(ctx context.Context) { h.usecase.Connect(ctx) }

func (h TUIHandler) TogglePredict(ctx context.Context) (dto.StateOutput, error) {
	return h.usecase.TogglePredict(ctx)
}

func (h TUIHandler) SetVideo(ctx context.Context, playing bool) (dto.StateOutput, error) {
	return h.usecase.SetVideo(ctx, playing)
}

// UploadModel reads the file at path; an empty path unloads the model.
func (h TUIHandler) UploadModel(ctx context.Context, path string) (dto.StateOutput, error) {
	if path == "" {
		return h.usecase.UploadModel(ctx, dto.UploadInput{})
	}
	f, err := os.Open(path)
	if err != nil {
		return h.usecase.Snapshot(), fmt.Errorf("open model file: %w", err)
	}
	defer f.Close()
	return h.usecase.UploadModel(ctx, dto.UploadInput{Name: filepath.Base(path), Content: f})
}

func (h TUIHandler) RefreshModel(ctx context.Context) (dto.StateOutput, error) {
	return h.usecase.RefreshModel(ctx)
}

func (h TUIHandler) SetFilter(ctx context.Context, value int) error {
	return h.usecase.SetFilter(ctx, dto.FilterInput{Value: value})
}

func (h TUIHandler) State() dto.StateOutput { return h.usecase.Snapshot() }

func (h TUIHandler) QuitNeedsConfirm() bool { return h.usecase.QuitNeedsConfirm() }

func (h TUIHandler) Subscribe(l predin.Listener) func() { return h.usecase.Subscribe(l) }

func (h TUIHandler) Shutdown(ctx context.Context) error { return h.usecase.Shutdown(ctx) }
