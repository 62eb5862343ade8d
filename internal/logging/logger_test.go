package logging_test

import (
	"context"
	"encoding/json"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"tubegrab/internal/config"
	"tubegrab/internal/logging"
	"tubegrab/internal/services"
)

func readLog(t *testing.T, path string) string {
	t.Helper()
	content, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("read log file: %v", err)
	}
	return string(content)
}

func TestConsoleLoggerFormatsComponentAndPosition(t *testing.T) {
	logPath := filepath.Join(t.TempDir(), "console.log")
	logger, err := logging.New(logging.Options{Level: "info", Format: "console", OutputPaths: []string{logPath}})
	if err != nil {
		t.Fatalf("New returned error: %v", err)
	}

	ctx := services.WithItem(context.Background(), 2, 7)
	ctx = services.WithReference(ctx, "https://youtu.be/abc")
	log := logging.WithContext(ctx, logging.NewComponentLogger(logger, "acquire"))
	log.Info("direct download failed", logging.String("reason", "exit status 1"))
	log.Debug("hidden")

	content := readLog(t, logPath)
	for _, fragment := range []string{"INFO", "acquire: direct download failed", "[2/7]", "ref=https://youtu.be/abc", `reason="exit status 1"`} {
		if !strings.Contains(content, fragment) {
			t.Fatalf("expected %q in %q", fragment, content)
		}
	}
	if strings.Contains(content, "hidden") {
		t.Fatalf("debug line should be filtered at info level: %q", content)
	}
	if strings.Contains(content, "\x1b[") {
		t.Fatalf("file output must not carry ANSI colors: %q", content)
	}
}

func TestJSONLoggerEmitsStructuredFields(t *testing.T) {
	logPath := filepath.Join(t.TempDir(), "json.log")
	logger, err := logging.New(logging.Options{Level: "debug", Format: "json", OutputPaths: []string{logPath}})
	if err != nil {
		t.Fatalf("New returned error: %v", err)
	}
	logger.Debug("listing collection", logging.Int("entries", 3))

	var entry map[string]any
	if err := json.Unmarshal([]byte(strings.TrimSpace(readLog(t, logPath))), &entry); err != nil {
		t.Fatalf("decode json log: %v", err)
	}
	if entry["level"] != "debug" || entry["msg"] != "listing collection" {
		t.Fatalf("unexpected entry: %v", entry)
	}
	if _, ok := entry["ts"]; !ok {
		t.Fatalf("expected ts key, got %v", entry)
	}
	if entry["entries"] != float64(3) {
		t.Fatalf("expected entries=3, got %v", entry["entries"])
	}
}

func TestNewRejectsUnknownFormat(t *testing.T) {
	if _, err := logging.New(logging.Options{Format: "xml"}); err == nil {
		t.Fatal("expected error for unsupported format")
	}
}

func TestNewFromConfigWritesStateLog(t *testing.T) {
	cfg := config.Default()
	cfg.Paths.StateDir = filepath.Join(t.TempDir(), "state")
	logger, err := logging.NewFromConfig(&cfg)
	if err != nil {
		t.Fatalf("NewFromConfig returned error: %v", err)
	}
	logger.Warn("yt-dlp self-update failed")

	if content := readLog(t, cfg.LogFilePath()); !strings.Contains(content, "yt-dlp self-update failed") {
		t.Fatalf("expected warning in state log, got %q", content)
	}
}

func TestWarnWithContextInjectsDefaults(t *testing.T) {
	logPath := filepath.Join(t.TempDir(), "warn.log")
	logger, err := logging.New(logging.Options{Format: "console", OutputPaths: []string{logPath}})
	if err != nil {
		t.Fatalf("New returned error: %v", err)
	}
	logging.WarnWithContext(logger, "tagging failed", "tag_write_failed", logging.String(logging.FieldImpact, "title tag missing"))

	content := readLog(t, logPath)
	if !strings.Contains(content, "event_type=tag_write_failed") {
		t.Fatalf("expected event type, got %q", content)
	}
	if !strings.Contains(content, `impact="title tag missing"`) {
		t.Fatalf("expected caller impact to win, got %q", content)
	}
}

func TestNopLoggerDiscards(t *testing.T) {
	logger := logging.NewNop()
	if logger.Enabled(context.Background(), 8) {
		t.Fatal("nop logger should not be enabled")
	}
}
