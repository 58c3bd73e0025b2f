package usecase_test

import (
	"context"
	"errors"
	"path/filepath"
	"testing"
	"time"

	journalout "roictl/internal/modules/journal/adapter/out"
	journaldto "roictl/internal/modules/journal/dto"
	"roictl/internal/modules/journal/service"
	"roictl/internal/modules/journal/usecase"
	"roictl/internal/platform/clock"
	apperrors "roictl/internal/platform/errors"
)

func TestRecordTailAndLatest(t *testing.T) {
	t.Parallel()
	store, err := journalout.NewSQLiteStore(filepath.Join(t.TempDir(), "journal.db"))
	if err != nil {
		t.Fatalf("new store: %v", err)
	}
	defer store.Close()
	clk := clock.NewMock(time.Date(2026, 10, 18, 9, 0, 0, 0, time.UTC))
	uc := usecase.NewInteractor(service.NewJournalService(clk, store))
	ctx := context.Background()

	if _, found, err := uc.Latest(ctx, "crop"); err != nil || found {
		t.Fatalf("expected empty journal, found=%v err=%v", found, err)
	}

	rec, err := uc.Record(ctx, journaldto.RecordInput{Kind: "crop", Detail: "x=1", Payload: map[string]int{"x": 1}})
	if err != nil {
		t.Fatalf("record: %v", err)
	}
	if rec.ID == 0 || rec.Payload != `{"x":1}` {
		t.Fatalf("unexpected record output: %+v", rec)
	}
	clk.Add(time.Minute)
	if _, err := uc.Record(ctx, journaldto.RecordInput{Kind: "model", Detail: "model.zip"}); err != nil {
		t.Fatalf("record model: %v", err)
	}

	latest, found, err := uc.Latest(ctx, "crop")
	if err != nil || !found {
		t.Fatalf("latest crop: found=%v err=%v", found, err)
	}
	if latest.Detail != "x=1" {
		t.Fatalf("unexpected latest crop: %+v", latest)
	}

	all, err := uc.Tail(ctx, journaldto.TailInput{})
	if err != nil {
		t.Fatalf("tail: %v", err)
	}
	if len(all) != 2 || all[0].Kind != "model" || !all[0].At.Equal(time.Date(2026, 10, 18, 9, 1, 0, 0, time.UTC)) {
		t.Fatalf("unexpected tail: %+v", all)
	}
}

func TestRecordRejectsUnknownKind(t *testing.T) {
	t.Parallel()
	store, err := journalout.NewSQLiteStore(filepath.Join(t.TempDir(), "journal.db"))
	if err != nil {
		t.Fatalf("new store: %v", err)
	}
	defer store.Close()
	uc := usecase.NewInteractor(service.NewJournalService(clock.NewSystemClock(), store))
	if _, err := uc.Record(context.Background(), journaldto.RecordInput{Kind: "bogus"}); !errors.Is(err, apperrors.ErrInvalidInput) {
		t.Fatalf("expected invalid input, got %v", err)
	}
	if _, err := uc.Tail(context.Background(), journaldto.TailInput{Kind: "bogus"}); !errors.Is(err, apperrors.ErrInvalidInput) {
		t.Fatalf("expected invalid input on tail, got %v", err)
	}
}
