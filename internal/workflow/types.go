package workflow

import (
	"context"
	"log/slog"
	"time"

	"tubegrab/internal/acquire"
	"tubegrab/internal/media/format"
	"tubegrab/internal/playlist"
	"tubegrab/internal/rename"
)

// TitleResolver queries an item's display title.
type TitleResolver interface {
	Title(ctx context.Context, ref string) (string, error)
}

// Expander lists a collection's items.
type Expander interface {
	Expand(ctx context.Context, ref string) ([]playlist.Item, error)
}

// ItemProcessor acquires one resolved item.
type ItemProcessor interface {
	Process(ctx context.Context, req acquire.Request) acquire.Result
}

// TagFunc writes the resolved name into an output's metadata.
type TagFunc func(path, title string) error

// Settings are the per-run acquisition parameters.
type Settings struct {
	Target         format.Target
	MaxHeight      int
	BitrateKbps    int
	DestinationDir string
	TagAudio       bool
}

// Dependencies bundles the collaborators the manager orchestrates.
type Dependencies struct {
	Titles    TitleResolver
	Renamer   rename.Renamer
	Processor ItemProcessor
	Expander  Expander
	Tagger    TagFunc
	Logger    *slog.Logger
}

// Item statuses reported in a Summary.
const (
	StatusSucceeded = "succeeded"
	StatusEmpty     = "empty"
	StatusFailed    = "failed"
)

// Outcome records what happened to one item.
type Outcome struct {
	Index     int
	Reference string
	Name      string
	Path      string
	Method    string
	Status    string
	Failure   string
	Err       error
	Size      int64
	Elapsed   time.Duration
}

// Summary is the result of one run.
type Summary struct {
	Reference  string
	Collection bool
	Outcomes   []Outcome
}

func (s Summary) count(status string) int {
	n := 0
	for _, o := range s.Outcomes {
		if o.Status == status {
			n++
		}
	}
	return n
}

// Succeeded returns the number of items with an output artifact.
func (s Summary) Succeeded() int { return s.count(StatusSucceeded) }

// Failed returns the number of items that hit a hard failure.
func (s Summary) Failed() int { return s.count(StatusFailed) }

// Empty returns the number of items whose fallback produced nothing.
func (s Summary) Empty() int { return s.count(StatusEmpty) }
