package workflow

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/google/uuid"

	"tubegrab/internal/acquire"
	"tubegrab/internal/logging"
	"tubegrab/internal/media/format"
	"tubegrab/internal/playlist"
	"tubegrab/internal/rename"
	"tubegrab/internal/services"
)

// Manager drives a run: expansion, then title, rename, and acquisition for
// each item in order, one item at a time.
type Manager struct {
	settings  Settings
	titles    TitleResolver
	renamer   rename.Renamer
	processor ItemProcessor
	expander  Expander
	tagger    TagFunc
	progress  io.Writer
	logger    *slog.Logger
}

// Option configures a Manager.
type Option func(*Manager)

// WithProgress sets the writer that receives "[i/N] <ref>" lines.
func WithProgress(w io.Writer) Option {
	return func(m *Manager) {
		if w != nil {
			m.progress = w
		}
	}
}

// NewManager validates settings and wires dependencies.
func NewManager(settings Settings, deps Dependencies, opts ...Option) (*Manager, error) {
	if deps.Titles == nil || deps.Processor == nil || deps.Expander == nil {
		return nil, errors.New("workflow: title resolver, processor, and expander are required")
	}
	if settings.Target == "" {
		return nil, services.Wrap(services.ErrConfiguration, "workflow", "", "target format required", nil)
	}
	if settings.DestinationDir == "" {
		return nil, services.Wrap(services.ErrConfiguration, "workflow", "", "destination directory required", nil)
	}
	renamer := deps.Renamer
	if renamer == nil {
		renamer = rename.Keep{}
	}
	m := &Manager{
		settings:  settings,
		titles:    deps.Titles,
		renamer:   renamer,
		processor: deps.Processor,
		expander:  deps.Expander,
		tagger:    deps.Tagger,
		progress:  os.Stdout,
		logger:    logging.NewComponentLogger(deps.Logger, "workflow"),
	}
	for _, opt := range opts {
		opt(m)
	}
	return m, nil
}

// Run processes ref. A collection that cannot be listed, a cancelled context,
// or a single item's hard failure returns an error; batch item failures are
// recorded in the Summary only.
func (m *Manager) Run(ctx context.Context, ref string) (Summary, error) {
	summary := Summary{Reference: ref, Collection: playlist.IsCollection(ref)}

	if !summary.Collection {
		outcome := m.processItem(ctx, 1, 1, ref)
		summary.Outcomes = append(summary.Outcomes, outcome)
		if outcome.Status == StatusFailed {
			return summary, outcome.Err
		}
		return summary, nil
	}

	items, err := m.expander.Expand(ctx, ref)
	if err != nil {
		return summary, err
	}
	total := len(items)
	if total == 0 {
		m.logger.Warn("collection is empty", logging.String(logging.FieldReference, ref))
		return summary, nil
	}
	for i, item := range items {
		if err := ctx.Err(); err != nil {
			return summary, err
		}
		fmt.Fprintf(m.progress, "[%d/%d] %s\n", i+1, total, item.Reference)
		outcome := m.processItem(ctx, i+1, total, item.Reference)
		summary.Outcomes = append(summary.Outcomes, outcome)
		if outcome.Status == StatusFailed {
			if ctxErr := ctx.Err(); ctxErr != nil {
				return summary, ctxErr
			}
			m.logger.Error("item failed; continuing with next",
				logging.String(logging.FieldItem, fmt.Sprintf("%d/%d", i+1, total)),
				logging.String(logging.FieldReference, item.Reference),
				logging.Error(outcome.Err),
				logging.String(logging.FieldEventType, "item_failed"),
			)
		}
	}
	return summary, nil
}

func (m *Manager) processItem(ctx context.Context, index, total int, ref string) Outcome {
	start := time.Now()
	ctx = services.WithItem(ctx, index, total)
	ctx = services.WithReference(ctx, ref)
	ctx = services.WithRequestID(ctx, uuid.NewString())
	logger := logging.WithContext(ctx, m.logger)

	outcome := Outcome{Index: index, Reference: ref}
	fail := func(err error) Outcome {
		outcome.Status = StatusFailed
		outcome.Err = err
		outcome.Failure = services.FailureOutcome(err)
		outcome.Elapsed = time.Since(start)
		return outcome
	}

	title, err := m.titles.Title(ctx, ref)
	if err != nil {
		return fail(services.Wrap(services.ErrExternalTool, "title", "query", ref, err))
	}
	name, err := m.renamer.Rename(ctx, title)
	if err != nil {
		return fail(services.Wrap(services.ErrTransient, "rename", "", "", err))
	}
	outcome.Name = name

	req := acquire.Request{
		Reference:      ref,
		Target:         m.settings.Target,
		MaxHeight:      m.settings.MaxHeight,
		BitrateKbps:    m.settings.BitrateKbps,
		DestinationDir: m.settings.DestinationDir,
		Title:          title,
		Name:           name,
	}
	res := m.processor.Process(ctx, req)
	outcome.Method = res.Method
	outcome.Elapsed = time.Since(start)

	switch res.Kind {
	case acquire.Succeeded:
		outcome.Status = StatusSucceeded
		outcome.Path = res.Path
		outcome.Name = savedName(res.Path)
		if info, err := os.Stat(res.Path); err == nil {
			outcome.Size = info.Size()
		}
		m.tag(logger, res.Path, outcome.Name)
		logger.Info("item acquired",
			logging.String("path", res.Path),
			logging.String("method", res.Method),
			logging.Duration("elapsed", outcome.Elapsed),
		)
		return outcome
	case acquire.Empty:
		outcome.Status = StatusEmpty
		outcome.Err = res.Err
		outcome.Failure = services.FailureOutcome(res.Err)
		return outcome
	default:
		err := res.Err
		if err == nil {
			err = fmt.Errorf("acquisition ended as %s", res.Kind)
		}
		return fail(err)
	}
}

// savedName is the file's base name without extension. The fallback may
// rename the output after the first prompt, so the path is authoritative.
func savedName(path string) string {
	base := filepath.Base(path)
	return strings.TrimSuffix(base, filepath.Ext(base))
}

func (m *Manager) tag(logger *slog.Logger, path, title string) {
	if m.tagger == nil || !m.settings.TagAudio || m.settings.Target != format.MP3 {
		return
	}
	if err := m.tagger(path, title); err != nil {
		logging.WarnWithContext(logger, "failed to write title tag", "tag_write_failed",
			logging.String("path", path),
			logging.Error(err),
			logging.String(logging.FieldImpact, "file saved without title tag"),
		)
	}
}
