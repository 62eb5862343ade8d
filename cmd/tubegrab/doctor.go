package main

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"

	"tubegrab/internal/preflight"
	"tubegrab/internal/services/ffmpeg"
	"tubegrab/internal/services/ytdlp"
)

type versionProbe interface {
	Version(ctx context.Context) (string, error)
}

func newDoctorCommand(ctx *commandContext) *cobra.Command {
	return &cobra.Command{
		Use:   "doctor",
		Short: "Check tool availability and directory permissions",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := ctx.ensureConfig()
			if err != nil {
				return err
			}
			logger, err := ctx.ensureLogger()
			if err != nil {
				return fmt.Errorf("init logger: %w", err)
			}

			results := preflight.RunAll(cmd.Context(), cfg)
			rows := make([][]string, 0, len(results))
			for _, r := range results {
				state := "ok"
				if !r.Passed {
					state = "FAIL"
				}
				rows = append(rows, []string{r.Name, state, r.Detail})
			}
			out := cmd.OutOrStdout()
			fmt.Fprintln(out, renderTable(tableSpec{
				Title:   "Preflight",
				Headers: []string{"Check", "Status", "Detail"},
				Rows:    rows,
			}))

			colorize := shouldColorize(out)
			probes := []struct {
				label string
				probe func() (versionProbe, error)
			}{
				{"yt-dlp", func() (versionProbe, error) { return ytdlp.New(cfg.Tools.YTDLP, ytdlp.WithLogger(logger)) }},
				{"ffmpeg", func() (versionProbe, error) { return ffmpeg.New(cfg.Tools.FFmpeg, ffmpeg.WithLogger(logger)) }},
			}
			for _, p := range probes {
				fmt.Fprintln(out, versionLine(cmd.Context(), p.label, p.probe, colorize))
			}

			failed := preflight.Failed(results)
			if len(failed) > 0 {
				fmt.Fprintln(out, renderStatusLine("Overall", statusError, fmt.Sprintf("%d check(s) failed", len(failed)), colorize))
				return fmt.Errorf("doctor: %d check(s) failed", len(failed))
			}
			fmt.Fprintln(out, renderStatusLine("Overall", statusOK, "Ready", colorize))
			return nil
		},
	}
}

func versionLine(ctx context.Context, label string, build func() (versionProbe, error), colorize bool) string {
	client, err := build()
	if err != nil {
		return renderStatusLine(label, statusWarn, err.Error(), colorize)
	}
	version, err := client.Version(ctx)
	if err != nil {
		return renderStatusLine(label, statusWarn, "version unavailable", colorize)
	}
	return renderStatusLine(label, statusInfo, version, colorize)
}
