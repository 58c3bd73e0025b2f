package out_test

import (
	"context"
	"path/filepath"
	"testing"
	"time"

	out "roictl/internal/modules/journal/adapter/out"
	"roictl/internal/modules/journal/domain"
)

func TestSQLiteStoreAppendAndTail(t *testing.T) {
	t.Parallel()
	store, err := out.NewSQLiteStore(filepath.Join(t.TempDir(), ".roictl", "journal.db"))
	if err != nil {
		t.Fatalf("new store: %v", err)
	}
	defer store.Close()

	ctx := context.Background()
	base := time.Date(2026, 10, 18, 9, 0, 0, 0, time.UTC)
	entries := []domain.Entry{
		{Kind: domain.KindCrop, Detail: "x=0, y=0, width=1080, height=1080", Payload: `{"x":0}`, At: base},
		{Kind: domain.KindPredictionStart, Detail: "start", SessionID: "s-1", At: base.Add(time.Second)},
		{Kind: domain.KindCrop, Detail: "x=270, y=270, width=270, height=270", At: base.Add(2 * time.Second)},
	}
	for _, e := range entries {
		if _, err := store.Append(ctx, e); err != nil {
			t.Fatalf("append: %v", err)
		}
	}

	all, err := store.Tail(ctx, "", 10)
	if err != nil {
		t.Fatalf("tail all: %v", err)
	}
	if len(all) != 3 || all[0].Detail != entries[2].Detail {
		t.Fatalf("expected newest first, got %+v", all)
	}
	if !all[0].At.Equal(entries[2].At) {
		t.Fatalf("time did not round trip: %v", all[0].At)
	}

	crops, err := store.Tail(ctx, domain.KindCrop, 1)
	if err != nil {
		t.Fatalf("tail crops: %v", err)
	}
	if len(crops) != 1 || crops[0].Detail != "x=270, y=270, width=270, height=270" {
		t.Fatalf("unexpected latest crop: %+v", crops)
	}

	starts, err := store.Tail(ctx, domain.KindPredictionStart, 5)
	if err != nil {
		t.Fatalf("tail starts: %v", err)
	}
	if len(starts) != 1 || starts[0].SessionID != "s-1" {
		t.Fatalf("unexpected session entries: %+v", starts)
	}
}
