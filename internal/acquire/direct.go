package acquire

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"

	"tubegrab/internal/logging"
	"tubegrab/internal/media/format"
	"tubegrab/internal/services"
	"tubegrab/internal/services/command"
	"tubegrab/internal/services/ytdlp"
)

// Downloader is the subset of the yt-dlp client the acquirers use.
type Downloader interface {
	Download(ctx context.Context, ref string, sel format.Selection, output string, progress func(ytdlp.Progress)) error
}

// Acquirer produces one item's output artifact.
type Acquirer interface {
	Acquire(ctx context.Context, req Request) Result
}

// Direct asks the downloader for the final format in a single step.
type Direct struct {
	downloader Downloader
	logger     *slog.Logger
}

// NewDirect builds a Direct acquirer.
func NewDirect(downloader Downloader, logger *slog.Logger) *Direct {
	return &Direct{downloader: downloader, logger: logging.NewComponentLogger(logger, "direct")}
}

// Acquire never returns a Fatal result for a tool that ran and failed: that is
// the Recoverable signal that triggers the fallback.
func (d *Direct) Acquire(ctx context.Context, req Request) Result {
	ctx = services.WithStage(ctx, MethodDirect)
	logger := logging.WithContext(ctx, d.logger)

	sel, err := format.Direct(req.Target, req.MaxHeight, req.BitrateKbps)
	if err != nil {
		return fatal(MethodDirect, services.Wrap(services.ErrConfiguration, MethodDirect, "select", "", err))
	}
	if err := os.MkdirAll(req.DestinationDir, 0o755); err != nil {
		return fatal(MethodDirect, services.Wrap(services.ErrConfiguration, MethodDirect, "prepare destination", req.DestinationDir, err))
	}

	// The extension comes from yt-dlp so post-processed outputs are not double-suffixed.
	output := ytdlp.LiteralOutput(filepath.Join(req.DestinationDir, req.Name)) + ".%(ext)s"
	expected := req.OutputPath()

	logger.Debug("direct download starting", logging.String("selector", sel.Format), logging.String("output", expected))
	err = d.downloader.Download(ctx, req.Reference, sel, output, progressLogger(logger))
	switch {
	case err == nil:
	case ctx.Err() != nil:
		return fatal(MethodDirect, services.Wrap(services.ErrTransient, MethodDirect, "download", "interrupted", ctx.Err()))
	case command.IsExitError(err), errors.Is(err, services.ErrTimeout):
		logger.Info("direct download failed; falling back", logging.Error(err))
		return Result{Kind: Recoverable, Method: MethodDirect, Err: err}
	default:
		return fatal(MethodDirect, services.Wrap(services.ErrExternalTool, MethodDirect, "download", "", err))
	}

	if _, err := os.Stat(expected); err != nil {
		logger.Info("direct download reported success without the expected file; falling back", logging.String("expected", expected))
		return Result{Kind: Recoverable, Method: MethodDirect, Err: fmt.Errorf("expected output %s missing: %w", expected, err)}
	}
	return Result{Kind: Succeeded, Method: MethodDirect, Path: expected}
}

func fatal(method string, err error) Result {
	return Result{Kind: Fatal, Method: method, Err: err}
}

// progressLogger emits a debug line each time a download crosses a quarter.
func progressLogger(logger *slog.Logger) func(ytdlp.Progress) {
	next := 25.0
	return func(p ytdlp.Progress) {
		if p.Percent < next {
			return
		}
		logger.Debug("download progress", logging.Int("percent", int(p.Percent)))
		for next <= p.Percent {
			next += 25
		}
	}
}
