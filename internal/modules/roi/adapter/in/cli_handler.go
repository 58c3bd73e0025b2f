package in

import (
	"context"

	roidto "roictl/internal/modules/roi/dto"
	roiin "roictl/internal/modules/roi/port/in"
)

type CLIHandler struct {
	usecase roiin.Usecase
}

func NewCLIHandler(usecase roiin.Usecase) CLIHandler {
	return CLIHandler{usecase: usecase}
}

func (h CLIHandler) Drag(ctx context.Context, fromX, fromY, toX, toY float64) (roidto.EndOutput, error) {
	return h.usecase.Drag(ctx, roidto.DragInput{FromX: fromX, FromY: fromY, ToX: toX, ToY: toY})
}

func (h CLIHandler) Last(ctx context.Context) (roidto.LastCropOutput, error) {
	return h.usecase.Restore(ctx)
}
