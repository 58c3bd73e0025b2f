package out_test

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	out "roictl/internal/modules/roi/adapter/out"
	"roictl/internal/modules/roi/domain"
	apperrors "roictl/internal/platform/errors"
	"roictl/internal/platform/httpapi"
)

func TestHTTPCropStorePostsNativeCrop(t *testing.T) {
	t.Parallel()
	bodies := make(chan map[string]int, 1)
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodPost || r.URL.Path != "/crop" {
			t.Errorf("unexpected request %s %s", r.Method, r.URL.Path)
		}
		if ct := r.Header.Get("Content-Type"); ct != "application/json" {
			t.Errorf("unexpected content type %q", ct)
		}
		body := map[string]int{}
		_ = json.NewDecoder(r.Body).Decode(&body)
		bodies <- body
		_, _ = w.Write([]byte(`"Coordinates: ok"`))
	}))
	defer srv.Close()

	store := out.NewHTTPCropStore(httpapi.New(srv.URL, srv.Client()))
	if err := store.SaveCrop(context.Background(), domain.CropDefinition{X: 100, Y: 100, Width: 200, Height: 200}); err != nil {
		t.Fatalf("save crop: %v", err)
	}
	got := <-bodies
	if got["x"] != 100 || got["width"] != 200 || got["height"] != 200 {
		t.Fatalf("unexpected body %+v", got)
	}
}

func TestHTTPCropStoreSurfacesBackendError(t *testing.T) {
	t.Parallel()
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusUnprocessableEntity)
		_, _ = w.Write([]byte(`{"detail":"invalid crop"}`))
	}))
	defer srv.Close()

	store := out.NewHTTPCropStore(httpapi.New(srv.URL, srv.Client()))
	err := store.SaveCrop(context.Background(), domain.CropDefinition{})
	if !errors.Is(err, apperrors.ErrBackend) {
		t.Fatalf("expected backend error, got %v", err)
	}
	if err.Error() != "invalid crop" {
		t.Fatalf("expected backend detail, got %q", err.Error())
	}
}
