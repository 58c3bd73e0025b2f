package in

import (
	"context"

	journaldto "roictl/internal/modules/journal/dto"
	journalin "roictl/internal/modules/journal/port/in"
)

type CLIHandler struct {
	usecase journalin.Usecase
}

func NewCLIHandler(usecase journalin.Usecase) CLIHandler {
	return CLIHandler{usecase: usecase}
}

func (h CLIHandler) Tail(ctx context.Context, kind string, limit int) ([]journaldto.EntryOutput, error) {
	return h.usecase.Tail(ctx, journaldto.TailInput{Kind: kind, Limit: limit})
}
