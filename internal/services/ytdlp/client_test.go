package ytdlp_test

import (
	"context"
	"errors"
	"strings"
	"testing"
	"time"

	"tubegrab/internal/media/format"
	"tubegrab/internal/services"
	"tubegrab/internal/services/ytdlp"
)

type stubExecutor struct {
	lines   []string
	err     error
	calls   int
	binary  []string
	args    [][]string
	blockOn bool
}

func (s *stubExecutor) Run(ctx context.Context, binary string, args []string, onStdout func(string)) error {
	s.calls++
	s.binary = append(s.binary, binary)
	s.args = append(s.args, append([]string(nil), args...))
	if s.blockOn {
		<-ctx.Done()
		return ctx.Err()
	}
	for _, line := range s.lines {
		onStdout(line)
	}
	return s.err
}

func newClient(t *testing.T, exec *stubExecutor, opts ...ytdlp.Option) *ytdlp.Client {
	t.Helper()
	client, err := ytdlp.New("yt-dlp", append([]ytdlp.Option{ytdlp.WithExecutor(exec)}, opts...)...)
	if err != nil {
		t.Fatalf("New returned error: %v", err)
	}
	return client
}

func TestNewRequiresBinary(t *testing.T) {
	if _, err := ytdlp.New("  "); err == nil {
		t.Fatal("expected error for empty binary")
	}
}

func TestTitleReturnsFirstNonEmptyLineNormalized(t *testing.T) {
	// "e" followed by a combining acute accent composes to U+00E9 under NFC.
	exec := &stubExecutor{lines: []string{"", "  Cafe\u0301 Session  ", "ignored"}}
	client := newClient(t, exec)

	title, err := client.Title(context.Background(), "https://youtu.be/abc")
	if err != nil {
		t.Fatalf("Title returned error: %v", err)
	}
	if title != "Caf\u00e9 Session" {
		t.Fatalf("unexpected title %q", title)
	}
	args := strings.Join(exec.args[0], " ")
	if !strings.HasPrefix(args, "--get-title") || !strings.HasSuffix(args, "https://youtu.be/abc") {
		t.Fatalf("unexpected args: %s", args)
	}
}

func TestTitleFailsOnEmptyOutput(t *testing.T) {
	client := newClient(t, &stubExecutor{})
	if _, err := client.Title(context.Background(), "ref"); err == nil {
		t.Fatal("expected error for empty title")
	}
}

func TestTitlePropagatesExecutorError(t *testing.T) {
	client := newClient(t, &stubExecutor{err: errors.New("video unavailable")})
	_, err := client.Title(context.Background(), "ref")
	if err == nil || !strings.Contains(err.Error(), "video unavailable") {
		t.Fatalf("expected executor error, got %v", err)
	}
}

func TestFlatPlaylistPreservesOrder(t *testing.T) {
	exec := &stubExecutor{lines: []string{
		`{"id": "PL1", "title": "Mix", "entries": [`,
		`{"id": "a1", "title": "One", "url": "https://www.youtube.com/watch?v=a1"},`,
		`{"id": "b2", "title": "Two"},`,
		`{"id": "c3", "title": "Three"}]}`,
	}}
	client := newClient(t, exec)

	listing, err := client.FlatPlaylist(context.Background(), "https://www.youtube.com/playlist?list=PL1")
	if err != nil {
		t.Fatalf("FlatPlaylist returned error: %v", err)
	}
	if listing.ID != "PL1" || len(listing.Entries) != 3 {
		t.Fatalf("unexpected listing: %+v", listing)
	}
	for i, want := range []string{"a1", "b2", "c3"} {
		if listing.Entries[i].ID != want {
			t.Fatalf("entry %d = %q, want %q", i, listing.Entries[i].ID, want)
		}
	}
	if got := strings.Join(exec.args[0][:2], " "); got != "--flat-playlist -J" {
		t.Fatalf("unexpected args: %v", exec.args[0])
	}
}

func TestFlatPlaylistRejectsInvalidJSON(t *testing.T) {
	client := newClient(t, &stubExecutor{lines: []string{"not json"}})
	if _, err := client.FlatPlaylist(context.Background(), "ref"); err == nil {
		t.Fatal("expected decode error")
	}
}

func TestDownloadBuildsDirectMP3Args(t *testing.T) {
	exec := &stubExecutor{lines: []string{"[download]  42.5% of 3.10MiB", "[ExtractAudio] Destination: x.mp3"}}
	client := newClient(t, exec)
	sel, err := format.Direct(format.MP3, 0, 192)
	if err != nil {
		t.Fatalf("Direct: %v", err)
	}

	var updates []ytdlp.Progress
	if err := client.Download(context.Background(), "ref", sel, "/music/Song.%(ext)s", func(p ytdlp.Progress) {
		updates = append(updates, p)
	}); err != nil {
		t.Fatalf("Download returned error: %v", err)
	}
	args := strings.Join(exec.args[0], " ")
	for _, fragment := range []string{"-x --audio-format mp3 --audio-quality 192K", "--force-overwrites", "-o /music/Song.%(ext)s ref"} {
		if !strings.Contains(args, fragment) {
			t.Fatalf("expected %q in %s", fragment, args)
		}
	}
	if strings.Contains(args, " -f ") {
		t.Fatalf("mp3 extraction should not pass a format selector: %s", args)
	}
	if len(updates) != 1 || updates[0].Percent != 42.5 {
		t.Fatalf("unexpected progress updates: %+v", updates)
	}
}

func TestDownloadHonoursNoOverwrite(t *testing.T) {
	exec := &stubExecutor{}
	client := newClient(t, exec, ytdlp.WithOverwrite(false))
	if err := client.Download(context.Background(), "ref", format.Selection{Format: "bestaudio"}, "out", nil); err != nil {
		t.Fatalf("Download returned error: %v", err)
	}
	args := strings.Join(exec.args[0], " ")
	if !strings.Contains(args, "--no-overwrites") || !strings.Contains(args, "-f bestaudio") {
		t.Fatalf("unexpected args: %s", args)
	}
}

func TestDownloadTimeoutIsClassified(t *testing.T) {
	exec := &stubExecutor{blockOn: true}
	client := newClient(t, exec, ytdlp.WithTimeout(20*time.Millisecond))
	err := client.Download(context.Background(), "ref", format.Selection{Format: "bestaudio"}, "out", nil)
	if !errors.Is(err, services.ErrTimeout) {
		t.Fatalf("expected timeout marker, got %v", err)
	}
}

func TestLiteralOutputEscapesPercent(t *testing.T) {
	if got := ytdlp.LiteralOutput("/music/100% Hits.m4a"); got != "/music/100%% Hits.m4a" {
		t.Fatalf("unexpected literal output %q", got)
	}
}

func TestSelfUpdateUsesConfiguredCommand(t *testing.T) {
	exec := &stubExecutor{}
	client := newClient(t, exec)
	if err := client.SelfUpdate(context.Background(), []string{"brew", "upgrade", "yt-dlp"}); err != nil {
		t.Fatalf("SelfUpdate returned error: %v", err)
	}
	if exec.binary[0] != "brew" || strings.Join(exec.args[0], " ") != "upgrade yt-dlp" {
		t.Fatalf("unexpected invocation: %s %v", exec.binary[0], exec.args[0])
	}

	if err := client.SelfUpdate(context.Background(), nil); err != nil {
		t.Fatalf("SelfUpdate returned error: %v", err)
	}
	if exec.binary[1] != "yt-dlp" || exec.args[1][0] != "-U" {
		t.Fatalf("expected default yt-dlp -U, got %s %v", exec.binary[1], exec.args[1])
	}
}

func TestVersionReadsFirstLine(t *testing.T) {
	client := newClient(t, &stubExecutor{lines: []string{"2026.09.01", "extra"}})
	version, err := client.Version(context.Background())
	if err != nil || version != "2026.09.01" {
		t.Fatalf("unexpected version %q err=%v", version, err)
	}
}
