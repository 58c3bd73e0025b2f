package out

import (
	"context"

	journaldto "roictl/internal/modules/journal/dto"
	journalin "roictl/internal/modules/journal/port/in"
	predout "roictl/internal/modules/prediction/port/out"
)

type JournalRecorder struct {
	journal journalin.Usecase
}

func NewJournalRecorder(journal journalin.Usecase) predout.Recorder {
	return &JournalRecorder{journal: journal}
}

func (r *JournalRecorder) Record(ctx context.Context, kind, detail string, payload any, sessionID string) error {
	_, err := r.journal.Record(ctx, journaldto.RecordInput{
		Kind:      kind,
		Detail:    detail,
		Payload:   payload,
		SessionID: sessionID,
	})
	return err
}
