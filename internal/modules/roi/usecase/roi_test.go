package usecase_test

import (
	"context"
	"errors"
	"testing"

	"github.com/google/go-cmp/cmp"

	"roictl/internal/modules/roi/domain"
	roidto "roictl/internal/modules/roi/dto"
	"roictl/internal/modules/roi/service"
	"roictl/internal/modules/roi/usecase"
)

type fakeGate struct{ active bool }

func (g *fakeGate) PredictionActive() bool { return g.active }

type fakeStore struct {
	saved []domain.CropDefinition
	err   error
}

func (s *fakeStore) SaveCrop(_ context.Context, crop domain.CropDefinition) error {
	if s.err != nil {
		return s.err
	}
	s.saved = append(s.saved, crop)
	return nil
}

type fakeRecorder struct {
	err   error
	rects []domain.Rect
	last  domain.Rect
	crop  domain.CropDefinition
	found bool
}

func (r *fakeRecorder) RecordCrop(_ context.Context, rect domain.Rect, crop domain.CropDefinition) error {
	if r.err != nil {
		return r.err
	}
	r.rects = append(r.rects, rect)
	return nil
}

func (r *fakeRecorder) LastCrop(context.Context) (domain.Rect, domain.CropDefinition, bool, error) {
	return r.last, r.crop, r.found, nil
}

var testFrame = domain.Frame{DisplayWidth: 711, DisplayHeight: 400, NativeWidth: 1600, NativeHeight: 800}

func newInteractor(gate *fakeGate, store *fakeStore, rec *fakeRecorder) *usecase.Interactor {
	svc := service.NewSelectionService(testFrame, 400, domain.DefaultThresholds, gate)
	return usecase.NewInteractor(svc, store, rec, nil).(*usecase.Interactor)
}

func TestDragPersistsScaledCrop(t *testing.T) {
	t.Parallel()
	store := &fakeStore{}
	rec := &fakeRecorder{}
	uc := newInteractor(&fakeGate{}, store, rec)

	out, err := uc.Drag(context.Background(), roidto.DragInput{FromX: 150, FromY: 150, ToX: 50, ToY: 50})
	if err != nil {
		t.Fatalf("drag: %v", err)
	}
	if out.Verdict != "accepted" {
		t.Fatalf("expected accepted, got %s", out.Verdict)
	}
	want := domain.CropDefinition{X: 100, Y: 100, Width: 200, Height: 200}
	if len(store.saved) != 1 || store.saved[0] != want {
		t.Fatalf("expected scaled crop %+v persisted once, got %+v", want, store.saved)
	}
	if out.Selection.CropText != "x=100, y=100, width=200, height=200" {
		t.Fatalf("unexpected crop text %q", out.Selection.CropText)
	}
	if len(rec.rects) != 1 || rec.rects[0] != (domain.Rect{X: 50, Y: 50, Width: 100, Height: 100}) {
		t.Fatalf("expected display rect recorded, got %+v", rec.rects)
	}
}

func TestDragRefusedWhilePredicting(t *testing.T) {
	t.Parallel()
	store := &fakeStore{}
	gate := &fakeGate{active: true}
	uc := newInteractor(gate, store, &fakeRecorder{})
	before := uc.Snapshot().Rect

	out, err := uc.Drag(context.Background(), roidto.DragInput{FromX: 200, FromY: 200, ToX: 100, ToY: 100})
	if err != nil {
		t.Fatalf("drag: %v", err)
	}
	if out.Verdict != "refused" {
		t.Fatalf("expected refused verdict, got %s", out.Verdict)
	}
	if len(store.saved) != 0 {
		t.Fatalf("store must not receive a crop while predicting, got %+v", store.saved)
	}
	if uc.Snapshot().Rect != before {
		t.Fatalf("selection changed while predicting")
	}

	gate.active = false
	if !uc.Begin(200, 200) {
		t.Fatalf("begin should be allowed once prediction stops")
	}
}

func TestSmallDragPersistsFullFrameWithWarning(t *testing.T) {
	t.Parallel()
	store := &fakeStore{}
	uc := newInteractor(&fakeGate{}, store, &fakeRecorder{})
	out, err := uc.Drag(context.Background(), roidto.DragInput{FromX: 200, FromY: 200, ToX: 170, ToY: 170})
	if err != nil {
		t.Fatalf("drag: %v", err)
	}
	if out.Verdict != "too-small" || out.Warning == "" {
		t.Fatalf("expected too-small warning, got %+v", out)
	}
	if len(store.saved) != 1 || store.saved[0] != (domain.CropDefinition{Width: 800, Height: 800}) {
		t.Fatalf("expected full square frame crop, got %+v", store.saved)
	}
}

func TestPersistFailureIsReturned(t *testing.T) {
	t.Parallel()
	store := &fakeStore{err: errors.New("connection refused")}
	rec := &fakeRecorder{}
	uc := newInteractor(&fakeGate{}, store, rec)
	if _, err := uc.Drag(context.Background(), roidto.DragInput{FromX: 200, FromY: 200, ToX: 100, ToY: 100}); err == nil {
		t.Fatalf("expected persist failure")
	}
	if len(rec.rects) != 0 {
		t.Fatalf("failed crops must not be recorded")
	}
}

func TestPointerGestureUpdatesSnapshot(t *testing.T) {
	t.Parallel()
	uc := newInteractor(&fakeGate{}, &fakeStore{}, &fakeRecorder{})
	if !uc.Begin(200, 200) {
		t.Fatalf("begin refused")
	}
	snap := uc.Update(260, 300)
	if !snap.Dragging || snap.Quadrant != int(domain.QuadrantDownRight) {
		t.Fatalf("unexpected snapshot during drag: %+v", snap)
	}
	if snap.Rect.Width != snap.Rect.Height {
		t.Fatalf("square invariant broken: %+v", snap.Rect)
	}
	end, ok := uc.End(roidto.PointerInput{X: 260, Y: 300, OnSurface: true})
	if !ok || end.Selection.Dragging {
		t.Fatalf("drag should be closed, got %+v ok=%v", end, ok)
	}
	if end.Selection.Rect != (roidto.RectOutput{X: 200, Y: 200, Width: 60, Height: 60}) {
		t.Fatalf("unexpected final rect %+v", end.Selection.Rect)
	}
}

func TestRestoreAppliesLastCrop(t *testing.T) {
	t.Parallel()
	rec := &fakeRecorder{
		last:  domain.Rect{X: 20, Y: 20, Width: 150, Height: 150},
		crop:  domain.CropDefinition{X: 40, Y: 40, Width: 300, Height: 300},
		found: true,
	}
	uc := newInteractor(&fakeGate{}, &fakeStore{}, rec)
	out, err := uc.Restore(context.Background())
	if err != nil || !out.Found {
		t.Fatalf("restore: found=%v err=%v", out.Found, err)
	}
	if uc.Snapshot().Rect.Width != 150 {
		t.Fatalf("expected restored selection, got %+v", uc.Snapshot().Rect)
	}
}

func TestLastCropReadsWithoutApplying(t *testing.T) {
	t.Parallel()
	rec := &fakeRecorder{
		last:  domain.Rect{X: 20, Y: 20, Width: 150, Height: 150},
		crop:  domain.CropDefinition{X: 40, Y: 40, Width: 300, Height: 300},
		found: true,
	}
	uc := newInteractor(&fakeGate{}, &fakeStore{}, rec)
	before := uc.Snapshot()
	out, err := uc.LastCrop(context.Background())
	if err != nil || !out.Found {
		t.Fatalf("last crop: found=%v err=%v", out.Found, err)
	}
	if diff := cmp.Diff(before, uc.Snapshot()); diff != "" {
		t.Fatalf("reading the last crop changed the selection (-before +after):\n%s", diff)
	}
}

func TestApplyCropDuringDragDropsGesture(t *testing.T) {
	t.Parallel()
	rec := &fakeRecorder{
		last:  domain.Rect{X: 0, Y: 0, Width: 200, Height: 200},
		crop:  domain.CropDefinition{Width: 400, Height: 400},
		found: true,
	}
	uc := newInteractor(&fakeGate{}, &fakeStore{}, rec)
	if !uc.Begin(300, 300) {
		t.Fatalf("begin refused")
	}
	uc.Update(100, 100)

	last, err := uc.LastCrop(context.Background())
	if err != nil {
		t.Fatalf("last crop: %v", err)
	}
	sel := uc.ApplyCrop(last)
	if sel.Dragging {
		t.Fatalf("applying a crop must drop the open drag")
	}
	if _, ok := uc.End(roidto.PointerInput{X: 100, Y: 100, OnSurface: true}); ok {
		t.Fatalf("release after restore must not end a gesture")
	}
	if sel.Rect != (roidto.RectOutput{Width: 200, Height: 200}) {
		t.Fatalf("unexpected restored rect %+v", sel.Rect)
	}
}

func TestJournalFailureDoesNotFailSavedCrop(t *testing.T) {
	t.Parallel()
	store := &fakeStore{}
	rec := &fakeRecorder{err: errors.New("database is locked")}
	uc := newInteractor(&fakeGate{}, store, rec)
	out, err := uc.Drag(context.Background(), roidto.DragInput{FromX: 200, FromY: 200, ToX: 100, ToY: 100})
	if err != nil {
		t.Fatalf("crop accepted by the backend must not fail on the journal: %v", err)
	}
	if len(store.saved) != 1 || out.Verdict != "accepted" {
		t.Fatalf("expected one saved crop, got %d verdict=%s", len(store.saved), out.Verdict)
	}
}
