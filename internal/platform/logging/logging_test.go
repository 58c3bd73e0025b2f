package logging_test

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"roictl/internal/platform/logging"
)

func TestNewWritesToFileAndDefaultsLevel(t *testing.T) {
	t.Parallel()
	path := filepath.Join(t.TempDir(), "logs", "roictl.log")
	logger, closer, err := logging.New("bogus", path)
	if err != nil {
		t.Fatalf("new logger: %v", err)
	}
	logger.Debug("hidden line")
	logger.Info("channel connected")
	if err := closer.Close(); err != nil {
		t.Fatalf("close: %v", err)
	}

	raw, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("read log: %v", err)
	}
	text := string(raw)
	if !strings.Contains(text, "roictl: channel connected") {
		t.Fatalf("expected info line in log, got %q", text)
	}
	if strings.Contains(text, "hidden line") {
		t.Fatalf("unknown level must fall back to info, got %q", text)
	}
}
