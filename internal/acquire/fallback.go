package acquire

import (
	"context"
	"errors"
	"log/slog"
	"os"
	"path/filepath"
	"strings"

	"tubegrab/internal/logging"
	"tubegrab/internal/media/format"
	"tubegrab/internal/rename"
	"tubegrab/internal/scratch"
	"tubegrab/internal/services"
	"tubegrab/internal/services/ytdlp"
)

// Transcoder converts one local file to the target format.
type Transcoder interface {
	Transcode(ctx context.Context, input, output string, target format.Target, bitrateKbps int) error
}

// Fallback fetches the best raw stream into a private workspace and
// transcodes it locally.
type Fallback struct {
	downloader Downloader
	transcoder Transcoder
	area       *scratch.Area
	renamer    rename.Renamer
	logger     *slog.Logger
}

// NewFallback builds a Fallback acquirer. A nil renamer keeps names unchanged.
func NewFallback(downloader Downloader, transcoder Transcoder, area *scratch.Area, renamer rename.Renamer, logger *slog.Logger) *Fallback {
	if renamer == nil {
		renamer = rename.Keep{}
	}
	return &Fallback{
		downloader: downloader,
		transcoder: transcoder,
		area:       area,
		renamer:    renamer,
		logger:     logging.NewComponentLogger(logger, "fallback"),
	}
}

// Acquire runs the fetch, pick, rename, and transcode steps. The workspace is
// released on every return path.
func (f *Fallback) Acquire(ctx context.Context, req Request) Result {
	ctx = services.WithStage(ctx, MethodFallback)
	logger := logging.WithContext(ctx, f.logger)

	ws, err := f.area.Acquire()
	if err != nil {
		return fatal(MethodFallback, services.Wrap(services.ErrConfiguration, MethodFallback, "scratch", "", err))
	}
	defer ws.Release()

	sel := format.Selection{Format: format.Fallback(req.Target, req.MaxHeight)}
	template := filepath.Join(ytdlp.LiteralOutput(ws.Dir()), "%(title)s.%(ext)s")
	logger.Debug("fallback fetch starting", logging.String("selector", sel.Format), logging.String("workspace", ws.Dir()))
	if err := f.downloader.Download(ctx, req.Reference, sel, template, progressLogger(logger)); err != nil {
		return fatal(MethodFallback, services.Wrap(services.ErrExternalTool, MethodFallback, "fetch", "", err))
	}

	artifact, err := ws.NewestFile()
	if errors.Is(err, scratch.ErrEmpty) {
		logger.Warn("fallback fetch produced no file",
			logging.String(logging.FieldEventType, "no_artifact"),
			logging.String(logging.FieldImpact, "item skipped"),
		)
		return Result{Kind: Empty, Method: MethodFallback, Err: services.Wrap(services.ErrNoArtifact, MethodFallback, "fetch", "", nil)}
	}
	if err != nil {
		return fatal(MethodFallback, services.Wrap(services.ErrTransient, MethodFallback, "scan workspace", "", err))
	}

	proposal := strings.TrimSuffix(filepath.Base(artifact), filepath.Ext(artifact))
	if req.Overridden() {
		proposal = req.Name
	}
	name, err := f.renamer.Rename(ctx, proposal)
	if err != nil {
		return fatal(MethodFallback, services.Wrap(services.ErrTransient, MethodFallback, "rename", "", err))
	}

	output := filepath.Join(req.DestinationDir, name+"."+req.Target.Extension())
	if err := os.MkdirAll(filepath.Dir(output), 0o755); err != nil {
		return fatal(MethodFallback, services.Wrap(services.ErrConfiguration, MethodFallback, "prepare destination", filepath.Dir(output), err))
	}

	logger.Info("transcoding fallback artifact",
		logging.String("input", filepath.Base(artifact)),
		logging.String("output", output),
		logging.Int("bitrate_kbps", req.BitrateKbps),
	)
	if err := f.transcoder.Transcode(ctx, artifact, output, req.Target, req.BitrateKbps); err != nil {
		return fatal(MethodFallback, services.Wrap(services.ErrExternalTool, MethodFallback, "transcode", "", err))
	}

	if err := os.Remove(artifact); err != nil && !errors.Is(err, os.ErrNotExist) {
		logger.Debug("artifact removal failed", logging.String("path", artifact), logging.Error(err))
	}
	return Result{Kind: Succeeded, Method: MethodFallback, Path: output}
}
