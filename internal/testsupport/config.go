package testsupport

import (
	"os"
	"path/filepath"
	"testing"

	"tubegrab/internal/config"
)

// ConfigOption adjusts the config returned by NewConfig.
type ConfigOption func(t testing.TB, cfg *config.Config)

// NewConfig returns defaults rooted in a fresh temp dir: dest, yt_temp and
// state sit side by side, and rename prompts are disabled.
func NewConfig(t testing.TB, opts ...ConfigOption) *config.Config {
	t.Helper()
	base := t.TempDir()
	cfg := config.Default()
	cfg.Paths.DestinationDir = filepath.Join(base, "dest")
	cfg.Paths.TransientDir = filepath.Join(base, "yt_temp")
	cfg.Paths.StateDir = filepath.Join(base, "state")
	cfg.Acquisition.Rename = config.RenameKeep
	for _, opt := range opts {
		opt(t, &cfg)
	}
	return &cfg
}

// BaseDir returns the temp root NewConfig placed the directories under.
func BaseDir(cfg *config.Config) string {
	return filepath.Dir(cfg.Paths.DestinationDir)
}

func WithDefaultFormat(name string) ConfigOption {
	return func(_ testing.TB, cfg *config.Config) {
		cfg.Acquisition.DefaultFormat = name
	}
}

// WithStubbedBinaries installs no-op executables under BaseDir/bin and puts
// that directory first on PATH. With no names, the configured yt-dlp and
// ffmpeg are stubbed.
func WithStubbedBinaries(names ...string) ConfigOption {
	return func(t testing.TB, cfg *config.Config) {
		if len(names) == 0 {
			names = []string{cfg.Tools.YTDLP, cfg.Tools.FFmpeg}
		}
		bin := filepath.Join(BaseDir(cfg), "bin")
		for _, name := range names {
			WriteScript(t, filepath.Join(bin, name), []byte("#!/bin/sh\nexit 0\n"))
		}
		PrependPath(t, bin)
	}
}

// WriteScript writes an executable file, creating parent directories.
func WriteScript(t testing.TB, path string, body []byte) {
	t.Helper()
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		t.Fatalf("mkdir for %s: %v", path, err)
	}
	if err := os.WriteFile(path, body, 0o755); err != nil {
		t.Fatalf("write script %s: %v", path, err)
	}
}

// PrependPath puts dir first on PATH until the test ends.
func PrependPath(t testing.TB, dir string) {
	t.Helper()
	t.Setenv("PATH", dir+string(os.PathListSeparator)+os.Getenv("PATH"))
}
