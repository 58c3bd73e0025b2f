package usecase

import (
	"context"
	"fmt"

	"roictl/internal/modules/journal/domain"
	journaldto "roictl/internal/modules/journal/dto"
	journalin "roictl/internal/modules/journal/port/in"
	"roictl/internal/modules/journal/service"
	apperrors "roictl/internal/platform/errors"
)

type Interactor struct {
	svc *service.JournalService
}

func NewInteractor(svc *service.JournalService) journalin.Usecase {
	return &Interactor{svc: svc}
}

func (i *Interactor) Record(ctx context.Context, input journaldto.RecordInput) (journaldto.EntryOutput, error) {
	kind, err := domain.ParseKind(input.Kind)
	if err != nil {
		return journaldto.EntryOutput{}, fmt.Errorf("%w: %v", apperrors.ErrInvalidInput, err)
	}
	entry, err := i.svc.Record(ctx, kind, input.Detail, input.Payload, input.SessionID)
	if err != nil {
		return journaldto.EntryOutput{}, err
	}
	return toOutput(entry), nil
}

func (i *Interactor) Tail(ctx context.Context, input journaldto.TailInput) ([]journaldto.EntryOutput, error) {
	var kind domain.Kind
	if input.Kind != "" {
		parsed, err := domain.ParseKind(input.Kind)
		if err != nil {
			return nil, fmt.Errorf("%w: %v", apperrors.ErrInvalidInput, err)
		}
		kind = parsed
	}
	entries, err := i.svc.Tail(ctx, kind, input.Limit)
	if err != nil {
		return nil, err
	}
	out := make([]journaldto.EntryOutput, 0, len(entries))
	for _, e := range entries {
		out = append(out, toOutput(e))
	}
	return out, nil
}

func (i *Interactor) Latest(ctx context.Context, kind string) (journaldto.EntryOutput, bool, error) {
	entries, err := i.Tail(ctx, journaldto.TailInput{Kind: kind, Limit: 1})
	if err != nil {
		return journaldto.EntryOutput{}, false, err
	}
	if len(entries) == 0 {
		return journaldto.EntryOutput{}, false, nil
	}
	return entries[0], true, nil
}

func toOutput(e domain.Entry) journaldto.EntryOutput {
	return journaldto.EntryOutput{
		ID:        e.ID,
		Kind:      string(e.Kind),
		Detail:    e.Detail,
		Payload:   e.Payload,
		SessionID: e.SessionID,
		At:        e.At,
	}
}
