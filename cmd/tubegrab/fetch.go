package main

import (
	"errors"
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/spf13/cobra"
	"github.com/spf13/pflag"

	"tubegrab/internal/config"
	"tubegrab/internal/logging"
	"tubegrab/internal/media/format"
	"tubegrab/internal/preflight"
)

// staleWorkspaceAge is how old an abandoned scratch workspace must be before
// a new run sweeps it.
const staleWorkspaceAge = 24 * time.Hour

type fetchOptions struct {
	formats   map[format.Target]*bool
	maxHeight int
	outputDir string
	noPrompt  bool
}

func bindFetchFlags(cmd *cobra.Command, opts *fetchOptions) {
	flags := cmd.Flags()
	opts.formats = make(map[format.Target]*bool, len(format.All()))
	names := make([]string, 0, len(format.All()))
	for _, t := range format.All() {
		opts.formats[t] = flags.Bool(string(t), false, t.Description())
		names = append(names, string(t))
	}
	cmd.MarkFlagsMutuallyExclusive(names...)
	bindTuningFlags(flags, opts)
}

func bindTuningFlags(flags *pflag.FlagSet, opts *fetchOptions) {
	flags.IntVar(&opts.maxHeight, "max-height", 0, "Maximum video height (e.g. 1080, 720); 0 means unbounded")
	flags.StringVarP(&opts.outputDir, "output-dir", "o", "", "Destination directory (overrides paths.destination_dir)")
	flags.BoolVar(&opts.noPrompt, "no-prompt", false, "Keep resolved titles without asking for a new name")
}

func newFetchCommand(ctx *commandContext) *cobra.Command {
	opts := &fetchOptions{}
	cmd := &cobra.Command{
		Use:   "fetch [flags] <url>",
		Short: "Download a video or every entry of a playlist",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runFetch(cmd, ctx, opts, args[0])
		},
	}
	bindFetchFlags(cmd, opts)
	return cmd
}

// target returns the single selected format, falling back to the configured default.
func (o *fetchOptions) target(cfg *config.Config) (format.Target, error) {
	var chosen []format.Target
	for _, t := range format.All() {
		if selected := o.formats[t]; selected != nil && *selected {
			chosen = append(chosen, t)
		}
	}
	switch len(chosen) {
	case 1:
		return chosen[0], nil
	case 0:
		if t, ok := cfg.DefaultTarget(); ok {
			return t, nil
		}
		flags := make([]string, 0, len(format.All()))
		for _, t := range format.All() {
			flags = append(flags, "--"+string(t))
		}
		return "", fmt.Errorf("one format flag is required: %s (or set acquisition.default_format)", strings.Join(flags, ", "))
	default:
		return "", errors.New("format flags are mutually exclusive")
	}
}

// runConfig applies command-line overrides to a copy of cfg.
func (o *fetchOptions) runConfig(cmd *cobra.Command, cfg *config.Config) (*config.Config, error) {
	runCfg := *cfg
	if cmd.Flags().Changed("max-height") {
		if o.maxHeight < 0 {
			return nil, fmt.Errorf("--max-height must be >= 0, got %d", o.maxHeight)
		}
		runCfg.Acquisition.MaxHeight = o.maxHeight
	}
	if dir := strings.TrimSpace(o.outputDir); dir != "" {
		expanded, err := config.ExpandPath(dir)
		if err != nil {
			return nil, fmt.Errorf("resolve --output-dir: %w", err)
		}
		runCfg.Paths.DestinationDir = expanded
	}
	if o.noPrompt {
		runCfg.Acquisition.Rename = config.RenameKeep
	}
	return &runCfg, nil
}

func runFetch(cmd *cobra.Command, ctx *commandContext, opts *fetchOptions, ref string) error {
	ref = strings.TrimSpace(ref)
	if ref == "" {
		return errors.New("a video or playlist URL is required")
	}
	cfg, err := ctx.ensureConfig()
	if err != nil {
		return err
	}
	target, err := opts.target(cfg)
	if err != nil {
		return err
	}
	runCfg, err := opts.runConfig(cmd, cfg)
	if err != nil {
		return err
	}
	if err := os.MkdirAll(runCfg.Paths.DestinationDir, 0o755); err != nil {
		return fmt.Errorf("create destination directory %q: %w", runCfg.Paths.DestinationDir, err)
	}

	logger, err := ctx.ensureLogger()
	if err != nil {
		return fmt.Errorf("init logger: %w", err)
	}
	lock, err := acquireRunLock(runCfg)
	if err != nil {
		return err
	}
	defer func() {
		if err := lock.Unlock(); err != nil {
			logger.Warn("failed to release run lock", logging.Error(err))
		}
	}()

	if failed := preflight.Failed(preflight.RunAll(cmd.Context(), runCfg)); len(failed) > 0 {
		return preflightError(failed)
	}

	p, err := newPipeline(runCfg, target, os.Stdin, cmd.OutOrStdout(), logger)
	if err != nil {
		return err
	}
	if runCfg.Tools.UpdateBeforeRun {
		p.selfUpdate(cmd.Context())
	}
	p.sweepScratch(staleWorkspaceAge)

	logger.Info("run started",
		logging.String(logging.FieldReference, ref),
		logging.String("format", string(target)),
		logging.String("destination", runCfg.Paths.DestinationDir),
	)
	summary, runErr := p.manager.Run(cmd.Context(), ref)
	logger.Info("run finished",
		logging.Int("succeeded", summary.Succeeded()),
		logging.Int("empty", summary.Empty()),
		logging.Int("failed", summary.Failed()),
	)

	out := cmd.OutOrStdout()
	if summary.Collection && len(summary.Outcomes) > 0 {
		fmt.Fprintln(out, renderSummary(summary))
		fmt.Fprintln(out, summaryLine(summary))
	} else {
		for _, line := range singleItemLines(summary) {
			fmt.Fprintln(out, line)
		}
	}
	return runErr
}

func preflightError(failed []preflight.Result) error {
	parts := make([]string, 0, len(failed))
	for _, r := range failed {
		parts = append(parts, fmt.Sprintf("%s: %s", r.Name, r.Detail))
	}
	return fmt.Errorf("preflight failed (run `tubegrab doctor` for details): %s", strings.Join(parts, "; "))
}
