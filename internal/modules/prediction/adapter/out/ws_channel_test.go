package out_test

import (
	"context"
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"nhooyr.io/websocket"

	out "roictl/internal/modules/prediction/adapter/out"
	"roictl/internal/modules/prediction/domain"
	"roictl/internal/modules/prediction/service"
	"roictl/internal/platform/clock"
)

func TestWSDialerReadsFramesAndMapsNormalClose(t *testing.T) {
	t.Parallel()
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/predict" {
			t.Errorf("unexpected path %s", r.URL.Path)
		}
		conn, err := websocket.Accept(w, r, nil)
		if err != nil {
			t.Errorf("accept: %v", err)
			return
		}
		ctx := r.Context()
		_ = conn.Write(ctx, websocket.MessageText, []byte(`{"classification":"ok","confidence-score":90}`))
		_ = conn.Close(websocket.StatusNormalClosure, "")
	}))
	defer srv.Close()

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	url := "ws" + strings.TrimPrefix(srv.URL, "http") + "/predict"
	conn, err := out.NewWSDialer(url, srv.Client()).Dial(ctx)
	if err != nil {
		t.Fatalf("dial: %v", err)
	}
	defer conn.Close()

	raw, err := conn.Read(ctx)
	if err != nil {
		t.Fatalf("read: %v", err)
	}
	if !strings.Contains(string(raw), `"classification":"ok"`) {
		t.Fatalf("unexpected frame %s", raw)
	}
	if _, err := conn.Read(ctx); !errors.Is(err, io.EOF) {
		t.Fatalf("expected io.EOF after normal close, got %v", err)
	}
}

func TestWSDialerWrapsDialFailure(t *testing.T) {
	t.Parallel()
	srv := httptest.NewServer(http.NotFoundHandler())
	defer srv.Close()

	url := "ws" + strings.TrimPrefix(srv.URL, "http") + "/predict"
	_, err := out.NewWSDialer(url, srv.Client()).Dial(context.Background())
	if err == nil || !strings.Contains(err.Error(), "dial ") {
		t.Fatalf("expected wrapped dial error, got %v", err)
	}
}

// holdOpenServer keeps each socket open until the client closes it.
func holdOpenServer(t *testing.T) *httptest.Server {
	t.Helper()
	return httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		conn, err := websocket.Accept(w, r, nil)
		if err != nil {
			t.Errorf("accept: %v", err)
			return
		}
		for {
			if _, _, err := conn.Read(r.Context()); err != nil {
				return
			}
		}
	}))
}

func TestChannelShutdownClosesOpenSocketCleanly(t *testing.T) {
	t.Parallel()
	srv := holdOpenServer(t)
	defer srv.Close()
	url := "ws" + strings.TrimPrefix(srv.URL, "http") + "/predict"

	for i := 0; i < 5; i++ {
		ch := service.NewChannel(out.NewWSDialer(url, nil), clock.NewMock(time.Unix(0, 0)), service.ChannelOptions{}, nil)
		ch.Open()
		deadline := time.Now().Add(5 * time.Second)
		for ch.State() != domain.SocketOpen {
			if time.Now().After(deadline) {
				t.Fatalf("round %d: channel never opened", i)
			}
			time.Sleep(5 * time.Millisecond)
		}
		if err := ch.Shutdown(); err != nil {
			t.Fatalf("round %d: shutdown of an open socket returned %v", i, err)
		}
		if ch.State() != domain.SocketClosed {
			t.Fatalf("round %d: expected closed state, got %s", i, ch.State())
		}
	}
}
