package httpapi_test

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	apperrors "roictl/internal/platform/errors"
	"roictl/internal/platform/httpapi"
)

func TestURLJoinsBase(t *testing.T) {
	t.Parallel()
	c := httpapi.New("http://edge:8123", nil)
	if got := c.URL("/crop"); got != "http://edge:8123/crop" {
		t.Fatalf("unexpected url %q", got)
	}
}

func TestDetailOnSuccessStatusIsAnError(t *testing.T) {
	t.Parallel()
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		_, _ = w.Write([]byte(`{"detail":"model not found"}`))
	}))
	defer srv.Close()

	err := httpapi.New(srv.URL, srv.Client()).GetJSON(context.Background(), "check-model-loaded", nil)
	var backendErr *apperrors.BackendError
	if !errors.As(err, &backendErr) || backendErr.Detail != "model not found" || backendErr.Status != http.StatusOK {
		t.Fatalf("expected backend detail error, got %v", err)
	}
}

func TestStatusWithoutDetail(t *testing.T) {
	t.Parallel()
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusBadGateway)
	}))
	defer srv.Close()

	err := httpapi.New(srv.URL, srv.Client()).PostJSON(context.Background(), "filter", map[string]int{"filter_value": 3}, nil)
	if !errors.Is(err, apperrors.ErrBackend) || err.Error() != "filter: unexpected status 502" {
		t.Fatalf("unexpected error %v", err)
	}
}

func TestValidationDetailListIsRendered(t *testing.T) {
	t.Parallel()
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusUnprocessableEntity)
		_, _ = w.Write([]byte(`{"detail":[{"loc":["body","filter_value"],"msg":"value is not a valid integer"}]}`))
	}))
	defer srv.Close()

	err := httpapi.New(srv.URL, srv.Client()).PostJSON(context.Background(), "filter", map[string]string{"filter_value": "x"}, nil)
	var backendErr *apperrors.BackendError
	if !errors.As(err, &backendErr) || backendErr.Status != http.StatusUnprocessableEntity || backendErr.Detail == "" {
		t.Fatalf("expected rendered validation detail, got %v", err)
	}
}

func TestDecodesReply(t *testing.T) {
	t.Parallel()
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		_, _ = w.Write([]byte(`{"Arquivo":"m.zip"}`))
	}))
	defer srv.Close()

	var out struct {
		File string `json:"Arquivo"`
	}
	if err := httpapi.New(srv.URL, srv.Client()).GetJSON(context.Background(), "check-model-loaded", &out); err != nil {
		t.Fatalf("get: %v", err)
	}
	if out.File != "m.zip" {
		t.Fatalf("unexpected reply %+v", out)
	}
}
