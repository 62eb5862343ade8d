package workflow_test

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"path/filepath"
	"strings"
	"testing"

	"tubegrab/internal/acquire"
	"tubegrab/internal/media/format"
	"tubegrab/internal/playlist"
	"tubegrab/internal/services"
	"tubegrab/internal/workflow"
)

type stubTitles struct {
	calls int
	fail  map[string]error
}

func (s *stubTitles) Title(_ context.Context, ref string) (string, error) {
	s.calls++
	if err, ok := s.fail[ref]; ok {
		return "", err
	}
	return "Title of " + ref[strings.LastIndex(ref, "=")+1:], nil
}

type stubRenamer struct {
	calls  int
	answer string
}

func (s *stubRenamer) Rename(_ context.Context, current string) (string, error) {
	s.calls++
	if s.answer != "" {
		return s.answer, nil
	}
	return current, nil
}

type stubProcessor struct {
	requests []acquire.Request
	results  map[string]acquire.Result
}

func (s *stubProcessor) Process(_ context.Context, req acquire.Request) acquire.Result {
	s.requests = append(s.requests, req)
	if res, ok := s.results[req.Reference]; ok {
		return res
	}
	return acquire.Result{Kind: acquire.Succeeded, Method: acquire.MethodDirect, Path: req.OutputPath()}
}

type stubExpander struct {
	items []playlist.Item
	err   error
	calls int
}

func (s *stubExpander) Expand(context.Context, string) ([]playlist.Item, error) {
	s.calls++
	return s.items, s.err
}

func items(ids ...string) []playlist.Item {
	out := make([]playlist.Item, 0, len(ids))
	for _, id := range ids {
		out = append(out, playlist.Item{ID: id, Reference: playlist.WatchURL(id)})
	}
	return out
}

type fixture struct {
	titles    *stubTitles
	renamer   *stubRenamer
	processor *stubProcessor
	expander  *stubExpander
	progress  *bytes.Buffer
	tagged    []string
	manager   *workflow.Manager
	dest      string
}

func newFixture(t *testing.T, target format.Target) *fixture {
	t.Helper()
	f := &fixture{
		titles:    &stubTitles{fail: map[string]error{}},
		renamer:   &stubRenamer{},
		processor: &stubProcessor{results: map[string]acquire.Result{}},
		expander:  &stubExpander{},
		progress:  &bytes.Buffer{},
		dest:      filepath.Join(t.TempDir(), "dest"),
	}
	manager, err := workflow.NewManager(
		workflow.Settings{Target: target, BitrateKbps: 192, DestinationDir: f.dest, TagAudio: true},
		workflow.Dependencies{
			Titles:    f.titles,
			Renamer:   f.renamer,
			Processor: f.processor,
			Expander:  f.expander,
			Tagger: func(path, title string) error {
				f.tagged = append(f.tagged, title)
				return nil
			},
		},
		workflow.WithProgress(f.progress),
	)
	if err != nil {
		t.Fatalf("NewManager returned error: %v", err)
	}
	f.manager = manager
	return f
}

func TestSingleItemDirectM4AScenario(t *testing.T) {
	f := newFixture(t, format.M4A)
	summary, err := f.manager.Run(context.Background(), "https://www.youtube.com/watch?v=abc")
	if err != nil {
		t.Fatalf("Run returned error: %v", err)
	}
	if f.titles.calls != 1 || f.renamer.calls != 1 || len(f.processor.requests) != 1 {
		t.Fatalf("expected one call each, got titles=%d renamer=%d processor=%d", f.titles.calls, f.renamer.calls, len(f.processor.requests))
	}
	if f.expander.calls != 0 {
		t.Fatal("single item must not be expanded")
	}
	want := filepath.Join(f.dest, "Title of abc.m4a")
	if summary.Outcomes[0].Path != want {
		t.Fatalf("unexpected path %q, want %q", summary.Outcomes[0].Path, want)
	}
	if summary.Collection || summary.Succeeded() != 1 {
		t.Fatalf("unexpected summary: %+v", summary)
	}
	if len(f.tagged) != 0 {
		t.Fatal("m4a outputs are not tagged")
	}
	if f.progress.Len() != 0 {
		t.Fatalf("single items do not print batch progress, got %q", f.progress.String())
	}
}

func TestRenamedNameFlowsIntoRequest(t *testing.T) {
	f := newFixture(t, format.MP3)
	f.renamer.answer = "My Song"
	if _, err := f.manager.Run(context.Background(), "https://youtu.be/x?v=abc"); err != nil {
		t.Fatalf("Run returned error: %v", err)
	}
	req := f.processor.requests[0]
	if req.Name != "My Song" || req.Title != "Title of abc" || !req.Overridden() {
		t.Fatalf("unexpected request: %+v", req)
	}
	if len(f.tagged) != 1 || f.tagged[0] != "My Song" {
		t.Fatalf("expected mp3 tag with resolved name, got %v", f.tagged)
	}
}

func TestTagUsesSavedFileName(t *testing.T) {
	f := newFixture(t, format.MP3)
	f.renamer.answer = "First Answer"
	ref := "https://www.youtube.com/watch?v=abc"
	saved := filepath.Join(f.dest, "Vol. 2 Second Answer.mp3")
	f.processor.results[ref] = acquire.Result{Kind: acquire.Succeeded, Method: acquire.MethodFallback, Path: saved}

	summary, err := f.manager.Run(context.Background(), ref)
	if err != nil {
		t.Fatalf("Run returned error: %v", err)
	}
	if got := summary.Outcomes[0]; got.Path != saved || got.Name != "Vol. 2 Second Answer" {
		t.Fatalf("unexpected outcome %+v", got)
	}
	if len(f.tagged) != 1 || f.tagged[0] != "Vol. 2 Second Answer" {
		t.Fatalf("expected tag from saved file name, got %v", f.tagged)
	}
}

func TestBatchContinuesAfterHardFailure(t *testing.T) {
	f := newFixture(t, format.MP3)
	f.expander.items = items("a", "b", "c", "d", "e")
	f.titles.fail[playlist.WatchURL("b")] = errors.New("video unavailable")
	f.processor.results[playlist.WatchURL("d")] = acquire.Result{Kind: acquire.Fatal, Err: services.Wrap(services.ErrExternalTool, "fallback", "transcode", "", nil)}

	summary, err := f.manager.Run(context.Background(), "https://www.youtube.com/playlist?list=PL1")
	if err != nil {
		t.Fatalf("batch runs must not fail on item errors: %v", err)
	}
	if len(summary.Outcomes) != 5 {
		t.Fatalf("expected every item attempted, got %d", len(summary.Outcomes))
	}
	if summary.Succeeded() != 3 || summary.Failed() != 2 {
		t.Fatalf("unexpected counts: ok=%d failed=%d", summary.Succeeded(), summary.Failed())
	}
	if f.titles.calls != 5 || len(f.processor.requests) != 4 {
		t.Fatalf("unexpected call counts: titles=%d processor=%d", f.titles.calls, len(f.processor.requests))
	}
	for i, line := range strings.Split(strings.TrimSpace(f.progress.String()), "\n") {
		if !strings.HasPrefix(line, fmt.Sprintf("[%d/5] ", i+1)) {
			t.Fatalf("unexpected progress line %d: %q", i, line)
		}
	}
	if summary.Outcomes[1].Failure != services.FailureTool {
		t.Fatalf("expected tool failure label, got %q", summary.Outcomes[1].Failure)
	}
}

func TestBatchWithOneFailureReportsNMinusOne(t *testing.T) {
	f := newFixture(t, format.M4A)
	f.expander.items = items("1", "2", "3", "4")
	f.titles.fail[playlist.WatchURL("2")] = errors.New("private video")

	summary, err := f.manager.Run(context.Background(), "https://www.youtube.com/watch?v=x&list=PL")
	if err != nil {
		t.Fatalf("Run returned error: %v", err)
	}
	if summary.Succeeded() != 3 {
		t.Fatalf("expected N-1 successes, got %d", summary.Succeeded())
	}
	if got := f.processor.requests[len(f.processor.requests)-1].Reference; got != playlist.WatchURL("4") {
		t.Fatalf("items after the failure must still run, last was %q", got)
	}
}

func TestSingleItemHardFailureReturnsError(t *testing.T) {
	f := newFixture(t, format.MP3)
	f.processor.results["https://youtu.be/v=zz"] = acquire.Result{Kind: acquire.Fatal, Err: errors.New("ffmpeg exited with status 1")}

	summary, err := f.manager.Run(context.Background(), "https://youtu.be/v=zz")
	if err == nil {
		t.Fatal("expected error for single-item hard failure")
	}
	if summary.Failed() != 1 {
		t.Fatalf("unexpected summary: %+v", summary)
	}
}

func TestSingleItemEmptyResultIsNotAnError(t *testing.T) {
	f := newFixture(t, format.MP3)
	f.processor.results["https://youtu.be/v=e"] = acquire.Result{Kind: acquire.Empty, Err: services.Wrap(services.ErrNoArtifact, "fallback", "", "", nil)}

	summary, err := f.manager.Run(context.Background(), "https://youtu.be/v=e")
	if err != nil {
		t.Fatalf("empty result must not fail the run: %v", err)
	}
	if summary.Empty() != 1 || summary.Outcomes[0].Failure != services.FailureEmpty {
		t.Fatalf("unexpected summary: %+v", summary.Outcomes)
	}
}

func TestListingFailureFailsRun(t *testing.T) {
	f := newFixture(t, format.MP3)
	f.expander.err = errors.New("listing failed")
	if _, err := f.manager.Run(context.Background(), "https://www.youtube.com/playlist?list=bad"); err == nil {
		t.Fatal("expected listing failure to surface")
	}
	if f.titles.calls != 0 {
		t.Fatal("no item may start before the listing succeeds")
	}
}

func TestCancelledBatchStops(t *testing.T) {
	f := newFixture(t, format.MP3)
	f.expander.items = items("a", "b")
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	summary, err := f.manager.Run(ctx, "https://www.youtube.com/playlist?list=PL")
	if !errors.Is(err, context.Canceled) {
		t.Fatalf("expected cancellation, got %v", err)
	}
	if len(summary.Outcomes) != 0 {
		t.Fatalf("no item should run after cancellation, got %d", len(summary.Outcomes))
	}
}

func TestNewManagerValidates(t *testing.T) {
	if _, err := workflow.NewManager(workflow.Settings{}, workflow.Dependencies{}); err == nil {
		t.Fatal("expected error for missing dependencies")
	}
	deps := workflow.Dependencies{Titles: &stubTitles{}, Processor: &stubProcessor{}, Expander: &stubExpander{}}
	if _, err := workflow.NewManager(workflow.Settings{DestinationDir: "/x"}, deps); !errors.Is(err, services.ErrConfiguration) {
		t.Fatalf("expected configuration error for missing target, got %v", err)
	}
}

type countingAcquirer struct {
	calls  int
	result func(acquire.Request) acquire.Result
}

func (c *countingAcquirer) Acquire(_ context.Context, req acquire.Request) acquire.Result {
	c.calls++
	return c.result(req)
}

func TestDirectSuccessNeverReachesFallback(t *testing.T) {
	dest := t.TempDir()
	direct := &countingAcquirer{result: func(req acquire.Request) acquire.Result {
		return acquire.Result{Kind: acquire.Succeeded, Method: acquire.MethodDirect, Path: req.OutputPath()}
	}}
	fallback := &countingAcquirer{result: func(acquire.Request) acquire.Result {
		return acquire.Result{Kind: acquire.Fatal, Err: errors.New("fallback must not run")}
	}}
	titles := &stubTitles{}
	renamer := &stubRenamer{}
	manager, err := workflow.NewManager(
		workflow.Settings{Target: format.M4A, BitrateKbps: 192, DestinationDir: dest},
		workflow.Dependencies{
			Titles:    titles,
			Renamer:   renamer,
			Processor: acquire.NewProcessor(direct, fallback, nil),
			Expander:  &stubExpander{},
		},
		workflow.WithProgress(&bytes.Buffer{}),
	)
	if err != nil {
		t.Fatalf("NewManager returned error: %v", err)
	}

	summary, err := manager.Run(context.Background(), "https://www.youtube.com/watch?v=m4a")
	if err != nil {
		t.Fatalf("Run returned error: %v", err)
	}
	if titles.calls != 1 || renamer.calls != 1 || direct.calls != 1 || fallback.calls != 0 {
		t.Fatalf("unexpected calls: titles=%d rename=%d direct=%d fallback=%d", titles.calls, renamer.calls, direct.calls, fallback.calls)
	}
	if got, want := summary.Outcomes[0].Path, filepath.Join(dest, "Title of m4a.m4a"); got != want {
		t.Fatalf("unexpected path %q, want %q", got, want)
	}
	if summary.Outcomes[0].Method != acquire.MethodDirect {
		t.Fatalf("unexpected method %q", summary.Outcomes[0].Method)
	}
}
