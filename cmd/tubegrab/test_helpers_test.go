package main

import (
	"bytes"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"tubegrab/internal/config"
	"tubegrab/internal/testsupport"
)

const stubYTDLP = `#!/bin/sh
last=""
for arg in "$@"; do last="$arg"; done
id="${last##*=}"
case "$1" in
--version) echo "2026.01.01"; exit 0 ;;
-U) echo "yt-dlp is up to date"; exit 0 ;;
--get-title)
  if [ "$id" = "broken" ]; then echo "ERROR: Video unavailable" >&2; exit 1; fi
  echo "Title $id"; exit 0 ;;
--flat-playlist)
  echo '{"id":"PL","title":"Mix","entries":[{"id":"one"},{"id":"broken"},{"id":"two"}]}'; exit 0 ;;
esac
out=""
while [ $# -gt 0 ]; do
  if [ "$1" = "-o" ]; then shift; out="$1"; fi
  shift
done
out=$(printf '%s' "$out" | sed 's/%(ext)s/m4a/')
printf 'audio-bytes' > "$out"
`

const stubFFmpeg = `#!/bin/sh
echo "ffmpeg version test-build"
`

type cliTestEnv struct {
	cfg        *config.Config
	configPath string
}

func setupCLITestEnv(t *testing.T) *cliTestEnv {
	t.Helper()

	t.Setenv("TUBEGRAB_DESTINATION_DIR", "")
	t.Setenv("TUBEGRAB_YTDLP", "")
	t.Setenv("TUBEGRAB_FFMPEG", "")
	cfg := testsupport.NewConfig(t)
	base := testsupport.BaseDir(cfg)
	t.Setenv("HOME", filepath.Join(base, "home"))

	cfg.Tools.YTDLP = filepath.Join(base, "bin", "yt-dlp")
	cfg.Tools.FFmpeg = filepath.Join(base, "bin", "ffmpeg")
	testsupport.WriteScript(t, cfg.Tools.YTDLP, []byte(stubYTDLP))
	testsupport.WriteScript(t, cfg.Tools.FFmpeg, []byte(stubFFmpeg))

	configPath := filepath.Join(base, "config.toml")
	writeTestConfig(t, configPath, cfg)
	return &cliTestEnv{cfg: cfg, configPath: configPath}
}

func writeTestConfig(t *testing.T, path string, cfg *config.Config) {
	t.Helper()
	content := fmt.Sprintf(`[paths]
destination_dir = %q
transient_dir = %q
state_dir = %q

[acquisition]
rename = "keep"

[tools]
ytdlp = %q
ffmpeg = %q
`,
		cfg.Paths.DestinationDir,
		cfg.Paths.TransientDir,
		cfg.Paths.StateDir,
		cfg.Tools.YTDLP,
		cfg.Tools.FFmpeg,
	)
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatalf("write config: %v", err)
	}
}

func runCLI(t *testing.T, args []string, configPath string) (string, string, error) {
	t.Helper()
	cmd := newRootCommand()
	var stdout, stderr bytes.Buffer
	cmd.SetOut(&stdout)
	cmd.SetErr(&stderr)
	var flags []string
	if configPath != "" {
		flags = append(flags, "--config", configPath)
	}
	cmd.SetArgs(append(flags, args...))
	err := cmd.Execute()
	return stdout.String(), stderr.String(), err
}

func requireContains(t *testing.T, output, substr string) {
	t.Helper()
	if !strings.Contains(output, substr) {
		t.Fatalf("expected %q to contain %q", output, substr)
	}
}
