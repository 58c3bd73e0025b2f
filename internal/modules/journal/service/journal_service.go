package service

import (
	"context"
	"encoding/json"
	"fmt"

	"roictl/internal/modules/journal/domain"
	journalout "roictl/internal/modules/journal/port/out"
	"roictl/internal/platform/clock"
)

const (
	defaultTailLimit = 20
	maxTailLimit     = 500
)

type JournalService struct {
	clock clock.Clock
	store journalout.Store
}

func NewJournalService(clock clock.Clock, store journalout.Store) *JournalService {
	return &JournalService{clock: clock, store: store}
}

func (s *JournalService) Record(ctx context.Context, kind domain.Kind, detail string, payload any, sessionID string) (domain.Entry, error) {
	raw := ""
	if payload != nil {
		b, err := json.Marshal(payload)
		if err != nil {
			return domain.Entry{}, fmt.Errorf("marshal %s payload: %w", kind, err)
		}
		raw = string(b)
	}
	entry := domain.Entry{
		Kind:      kind,
		Detail:    detail,
		Payload:   raw,
		SessionID: sessionID,
		At:        s.clock.Now(),
	}
	id, err := s.store.Append(ctx, entry)
	if err != nil {
		return domain.Entry{}, err
	}
	entry.ID = id
	return entry, nil
}

func (s *JournalService) Tail(ctx context.Context, kind domain.Kind, limit int) ([]domain.Entry, error) {
	if limit <= 0 {
		limit = defaultTailLimit
	}
	if limit > maxTailLimit {
		limit = maxTailLimit
	}
	return s.store.Tail(ctx, kind, limit)
}
