package in

import (
	"context"

	"roictl/internal/modules/journal/dto"
)

type Usecase interface {
	Record(ctx context.Context, input dto.RecordInput) (dto.EntryOutput, error)
	Tail(ctx context.Context, input dto.TailInput) ([]dto.EntryOutput, error)
	Latest(ctx context.Context, kind string) (dto.EntryOutput, bool, error)
}
