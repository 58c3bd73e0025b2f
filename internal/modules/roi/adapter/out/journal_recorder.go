package out

import (
	"context"
	"encoding/json"
	"fmt"

	journaldto "roictl/internal/modules/journal/dto"
	journalin "roictl/internal/modules/journal/port/in"
	"roictl/internal/modules/roi/domain"
	roiout "roictl/internal/modules/roi/port/out"
)

const cropKind = "crop"

type cropPayload struct {
	Rect domain.Rect           `json:"rect"`
	Crop domain.CropDefinition `json:"crop"`
}

type JournalRecorder struct {
	journal journalin.Usecase
}

func NewJournalRecorder(journal journalin.Usecase) roiout.CropRecorder {
	return &JournalRecorder{journal: journal}
}

func (r *JournalRecorder) RecordCrop(ctx context.Context, rect domain.Rect, crop domain.CropDefinition) error {
	_, err := r.journal.Record(ctx, journaldto.RecordInput{
		Kind:    cropKind,
		Detail:  crop.String(),
		Payload: cropPayload{Rect: rect, Crop: crop},
	})
	return err
}

func (r *JournalRecorder) LastCrop(ctx context.Context) (domain.Rect, domain.CropDefinition, bool, error) {
	entry, found, err := r.journal.Latest(ctx, cropKind)
	if err != nil || !found {
		return domain.Rect{}, domain.CropDefinition{}, false, err
	}
	payload := cropPayload{}
	if err := json.Unmarshal([]byte(entry.Payload), &payload); err != nil {
		return domain.Rect{}, domain.CropDefinition{}, false, fmt.Errorf("decode crop entry %d: %w", entry.ID, err)
	}
	return payload.Rect, payload.Crop, true, nil
}
