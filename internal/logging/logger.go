package logging

import (
	"fmt"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/mattn/go-isatty"

	"tubegrab/internal/config"
)

// Options configures New.
type Options struct {
	Level       string
	Format      string
	OutputPaths []string
	// Color forces ANSI colors; otherwise only terminals get them.
	Color bool
}

// New builds a logger that writes every record to each distinct output.
// Outputs are file paths or the literals "stdout" and "stderr".
func New(opts Options) (*slog.Logger, error) {
	level := new(slog.LevelVar)
	level.Set(parseLevel(opts.Level))

	build, err := handlerBuilder(opts.Format, opts.Color, level)
	if err != nil {
		return nil, err
	}

	var handlers []slog.Handler
	for _, path := range uniqueOutputs(opts.OutputPaths) {
		w, terminal, err := openOutput(path)
		if err != nil {
			return nil, err
		}
		handlers = append(handlers, build(w, terminal))
	}
	switch len(handlers) {
	case 0:
		return slog.New(newConsoleHandler(os.Stderr, level, false)), nil
	case 1:
		return slog.New(handlers[0]), nil
	}
	return slog.New(newFanoutHandler(handlers...)), nil
}

func handlerBuilder(format string, forceColor bool, level *slog.LevelVar) (func(io.Writer, bool) slog.Handler, error) {
	switch strings.ToLower(strings.TrimSpace(format)) {
	case "", "console":
		return func(w io.Writer, terminal bool) slog.Handler {
			return newConsoleHandler(w, level, forceColor || terminal)
		}, nil
	case "json":
		return func(w io.Writer, _ bool) slog.Handler { return newJSONHandler(w, level) }, nil
	default:
		return nil, fmt.Errorf("log format: unsupported value %q", format)
	}
}

// uniqueOutputs trims paths, drops blanks and duplicates, and defaults to stderr.
func uniqueOutputs(paths []string) []string {
	if len(paths) == 0 {
		return []string{"stderr"}
	}
	seen := make(map[string]bool, len(paths))
	out := make([]string, 0, len(paths))
	for _, p := range paths {
		p = strings.TrimSpace(p)
		if p == "" || seen[p] {
			continue
		}
		seen[p] = true
		out = append(out, p)
	}
	return out
}

// NewFromConfig creates a logger that writes to stderr and the state log file.
func NewFromConfig(cfg *config.Config) (*slog.Logger, error) {
	if cfg == nil {
		return New(Options{})
	}
	return New(Options{
		Level:       cfg.Logging.Level,
		Format:      cfg.Logging.Format,
		OutputPaths: []string{"stderr", cfg.LogFilePath()},
	})
}

func parseLevel(level string) slog.Level {
	switch strings.ToLower(strings.TrimSpace(level)) {
	case "debug":
		return slog.LevelDebug
	case "warn", "warning":
		return slog.LevelWarn
	case "error":
		return slog.LevelError
	default:
		return slog.LevelInfo
	}
}

func openOutput(path string) (io.Writer, bool, error) {
	switch path {
	case "stdout":
		return os.Stdout, isatty.IsTerminal(os.Stdout.Fd()), nil
	case "stderr":
		return os.Stderr, isatty.IsTerminal(os.Stderr.Fd()), nil
	}
	if dir := filepath.Dir(path); dir != "." && dir != "" {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return nil, false, fmt.Errorf("ensure log directory: %w", err)
		}
	}
	file, err := os.OpenFile(path, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0o644)
	if err != nil {
		return nil, false, fmt.Errorf("open log file %s: %w", path, err)
	}
	return file, false, nil
}

func newJSONHandler(w io.Writer, lvl *slog.LevelVar) slog.Handler {
	return slog.NewJSONHandler(w, &slog.HandlerOptions{
		Level: lvl,
		ReplaceAttr: func(groups []string, attr slog.Attr) slog.Attr {
			switch attr.Key {
			case slog.TimeKey:
				attr.Key = "ts"
				if attr.Value.Kind() == slog.KindTime {
					attr.Value = slog.StringValue(attr.Value.Time().UTC().Format(time.RFC3339))
				}
			case slog.LevelKey:
				attr.Value = slog.StringValue(strings.ToLower(attr.Value.String()))
			}
			return attr
		},
	})
}
