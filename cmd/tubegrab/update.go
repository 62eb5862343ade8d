package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"tubegrab/internal/services/ytdlp"
)

func newUpdateCommand(ctx *commandContext) *cobra.Command {
	return &cobra.Command{
		Use:   "update",
		Short: "Update yt-dlp using the configured update command",
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
			lock, err := acquireRunLock(cfg)
			if err != nil {
				return err
			}
			defer lock.Unlock() //nolint:errcheck

			client, err := ytdlp.New(cfg.Tools.YTDLP, ytdlp.WithLogger(logger))
			if err != nil {
				return err
			}
			if err := client.SelfUpdate(cmd.Context(), cfg.SelfUpdateCommand()); err != nil {
				return err
			}
			out := cmd.OutOrStdout()
			if version, err := client.Version(cmd.Context()); err == nil {
				fmt.Fprintf(out, "yt-dlp is at version %s\n", version)
			} else {
				fmt.Fprintln(out, "Update command finished")
			}
			return nil
		},
	}
}
