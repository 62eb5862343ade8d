package main

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"strconv"
	"strings"

	"github.com/spf13/cobra"

	"tubegrab/internal/config"
)

func newConfigCommand(ctx *commandContext) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "config",
		Short: "Inspect or create the configuration file",
	}
	cmd.AddCommand(newConfigInitCommand(), newConfigShowCommand(ctx))
	return cmd
}

func newConfigInitCommand() *cobra.Command {
	var (
		targetPath string
		overwrite  bool
	)
	cmd := &cobra.Command{
		Use:         "init",
		Short:       "Write a commented sample configuration",
		Args:        cobra.NoArgs,
		Annotations: map[string]string{skipConfigAnnotation: "true"},
		RunE: func(cmd *cobra.Command, _ []string) error {
			target, err := initTarget(targetPath)
			if err != nil {
				return err
			}
			if !overwrite {
				_, statErr := os.Stat(target)
				if statErr == nil {
					return fmt.Errorf("config file already exists at %s (use --overwrite to replace it)", target)
				}
				if !errors.Is(statErr, fs.ErrNotExist) {
					return fmt.Errorf("check config path: %w", statErr)
				}
			}
			if err := config.CreateSample(target); err != nil {
				return fmt.Errorf("create sample config: %w", err)
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Wrote sample configuration to %s\n"+
				"Edit paths.destination_dir (or export TUBEGRAB_DESTINATION_DIR) before the first run.\n", target)
			return nil
		},
	}
	cmd.Flags().StringVarP(&targetPath, "path", "p", "", "Where to write the file (default: the standard config location)")
	cmd.Flags().BoolVar(&overwrite, "overwrite", false, "Replace an existing file")
	return cmd
}

func initTarget(flagValue string) (string, error) {
	if flagValue = strings.TrimSpace(flagValue); flagValue != "" {
		path, err := config.ExpandPath(flagValue)
		if err != nil {
			return "", fmt.Errorf("resolve config path: %w", err)
		}
		return path, nil
	}
	path, err := config.DefaultConfigPath()
	if err != nil {
		return "", fmt.Errorf("determine default config path: %w", err)
	}
	return path, nil
}

func newConfigShowCommand(ctx *commandContext) *cobra.Command {
	var asTOML bool
	cmd := &cobra.Command{
		Use:   "show",
		Short: "Print the effective configuration",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			cfg, err := ctx.ensureConfig()
			if err != nil {
				return err
			}
			out := cmd.OutOrStdout()
			if asTOML {
				text, err := cfg.Encode()
				if err != nil {
					return fmt.Errorf("encode config: %w", err)
				}
				_, err = fmt.Fprint(out, text)
				return err
			}
			_, err = fmt.Fprintln(out, renderTable(tableSpec{
				Headers: []string{"Setting", "Value"},
				Rows:    settingRows(cfg, ctx.configSource()),
			}))
			return err
		},
	}
	cmd.Flags().BoolVar(&asTOML, "toml", false, "Emit TOML instead of a table")
	return cmd
}

func settingRows(cfg *config.Config, source string) [][]string {
	defaultFormat := cfg.Acquisition.DefaultFormat
	if defaultFormat == "" {
		defaultFormat = "(flag required)"
	}
	maxHeight := "unbounded"
	if cfg.Acquisition.MaxHeight > 0 {
		maxHeight = strconv.Itoa(cfg.Acquisition.MaxHeight)
	}
	return [][]string{
		{"config file", source},
		{"destination_dir", cfg.Paths.DestinationDir},
		{"transient_dir", cfg.Paths.TransientDir},
		{"state_dir", cfg.Paths.StateDir},
		{"log file", cfg.LogFilePath()},
		{"default_format", defaultFormat},
		{"target_bitrate", fmt.Sprintf("%d kbps", cfg.Acquisition.TargetBitrate)},
		{"max_height", maxHeight},
		{"rename", cfg.Acquisition.Rename},
		{"tag_audio", yesNo(cfg.Acquisition.TagAudio)},
		{"overwrite", yesNo(cfg.Acquisition.Overwrite)},
		{"ytdlp", cfg.Tools.YTDLP},
		{"ffmpeg", cfg.Tools.FFmpeg},
		{"update_before_run", yesNo(cfg.Tools.UpdateBeforeRun)},
		{"update_command", strings.Join(cfg.SelfUpdateCommand(), " ")},
		{"logging", cfg.Logging.Format + " / " + cfg.Logging.Level},
	}
}
