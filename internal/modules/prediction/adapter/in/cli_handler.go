package in

import (
	"context"
	"fmt"
	"os"
	"path/filepath"

	"roictl/internal/modules/prediction/dto"
	predin "roictl/internal/modules/prediction/port/in"
)

type CLIHandler struct {
	usecase predin.Usecase
}

func NewCLIHandler(usecase predin.Usecase) CLIHandler {
	return CLIHandler{usecase: usecase}
}

func (h CLIHandler) Start(ctx context.Context) error {
	return h.usecase.Signal(ctx, dto.SignalInput{Status: "start"})
}

func (h CLIHandler) Stop(ctx context.Context) error {
	return h.usecase.Signal(ctx, dto.SignalInput{Status: "stop"})
}

func (h CLIHandler) Once(ctx context.Context) (dto.ClassificationOutput, error) {
	return h.usecase.InferOnce(ctx)
}

// Watch streams classifications until ctx ends. With start set it also runs
// a prediction session, which Shutdown stops again.
func (h CLIHandler) Watch(ctx context.Context, start bool, listener predin.Listener) error {
	unsubscribe := h.usecase.Subscribe(listener)
	defer unsubscribe()
	if start {
		if _, err := h.usecase.RefreshModel(ctx); err != nil {
			return err
		}
		if _, err := h.usecase.TogglePredict(ctx); err != nil {
			return err
		}
	} else {
		h.usecase.Connect(ctx)
	}
	<-ctx.Done()
	return nil
}

func (h CLIHandler) UploadModel(ctx context.Context, path string) (dto.StateOutput, error) {
	f, err := os.Open(path)
	if err != nil {
		return dto.StateOutput{}, fmt.Errorf("open model file: %w", err)
	}
	defer f.Close()
	return h.usecase.UploadModel(ctx, dto.UploadInput{Name: filepath.Base(path), Content: f})
}

func (h CLIHandler) ModelStatus(ctx context.Context) (dto.ModelStatusOutput, error) {
	return h.usecase.ModelStatus(ctx)
}

func (h CLIHandler) SetFilter(ctx context.Context, value int) error {
	return h.usecase.SetFilter(ctx, dto.FilterInput{Value: value})
}

func (h CLIHandler) Shutdown(ctx context.Context) error {
	return h.usecase.Shutdown(ctx)
}
