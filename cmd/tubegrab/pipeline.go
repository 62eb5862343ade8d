package main

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"os"
	"time"

	"tubegrab/internal/acquire"
	"tubegrab/internal/config"
	"tubegrab/internal/logging"
	"tubegrab/internal/media/format"
	"tubegrab/internal/media/tags"
	"tubegrab/internal/playlist"
	"tubegrab/internal/rename"
	"tubegrab/internal/scratch"
	"tubegrab/internal/services/ffmpeg"
	"tubegrab/internal/services/ytdlp"
	"tubegrab/internal/workflow"
)

type pipeline struct {
	cfg     *config.Config
	ytdlp   *ytdlp.Client
	area    *scratch.Area
	manager *workflow.Manager
	logger  *slog.Logger
}

func newPipeline(cfg *config.Config, target format.Target, in *os.File, out io.Writer, logger *slog.Logger) (*pipeline, error) {
	downloader, err := ytdlp.New(cfg.Tools.YTDLP,
		ytdlp.WithTimeout(cfg.DownloaderTimeout()),
		ytdlp.WithOverwrite(cfg.Acquisition.Overwrite),
		ytdlp.WithLogger(logger),
	)
	if err != nil {
		return nil, fmt.Errorf("init yt-dlp client: %w", err)
	}
	transcoder, err := ffmpeg.New(cfg.Tools.FFmpeg,
		ffmpeg.WithTimeout(cfg.TranscoderTimeout()),
		ffmpeg.WithOverwrite(cfg.Acquisition.Overwrite),
		ffmpeg.WithLogger(logger),
	)
	if err != nil {
		return nil, fmt.Errorf("init ffmpeg client: %w", err)
	}
	renamer, err := rename.New(cfg.Acquisition.Rename, in, out)
	if err != nil {
		return nil, err
	}
	area := scratch.NewArea(cfg.Paths.TransientDir, scratch.WithLogger(logger))

	processor := acquire.NewProcessor(
		acquire.NewDirect(downloader, logger),
		acquire.NewFallback(downloader, transcoder, area, renamer, logger),
		logger,
	)
	manager, err := workflow.NewManager(
		workflow.Settings{
			Target:         target,
			MaxHeight:      cfg.Acquisition.MaxHeight,
			BitrateKbps:    cfg.Acquisition.TargetBitrate,
			DestinationDir: cfg.Paths.DestinationDir,
			TagAudio:       cfg.Acquisition.TagAudio,
		},
		workflow.Dependencies{
			Titles:    downloader,
			Renamer:   renamer,
			Processor: processor,
			Expander:  playlist.NewExpander(downloader, logger),
			Tagger:    tags.WriteTitle,
			Logger:    logger,
		},
		workflow.WithProgress(out),
	)
	if err != nil {
		return nil, err
	}
	return &pipeline{cfg: cfg, ytdlp: downloader, area: area, manager: manager, logger: logger}, nil
}

// selfUpdate runs the configured update command; failure only warns.
func (p *pipeline) selfUpdate(ctx context.Context) {
	if err := p.ytdlp.SelfUpdate(ctx, p.cfg.SelfUpdateCommand()); err != nil {
		logging.WarnWithContext(p.logger, "downloader self-update failed", "self_update_failed",
			logging.Error(err),
			logging.String(logging.FieldImpact, "continuing with the installed yt-dlp"),
		)
	}
}

func (p *pipeline) sweepScratch(maxAge time.Duration) {
	result := p.area.CleanStale(maxAge)
	if len(result.Removed) > 0 || len(result.Errors) > 0 {
		p.logger.Debug("scratch sweep complete",
			logging.Int("removed", len(result.Removed)),
			logging.Int("errors", len(result.Errors)),
		)
	}
}
