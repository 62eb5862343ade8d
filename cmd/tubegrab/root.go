package main

import (
	"github.com/spf13/cobra"
)

// newRootCommand builds the CLI. The root itself behaves like fetch so that
// "tubegrab --mp3 <url>" works without a subcommand.
func newRootCommand() *cobra.Command {
	var configFlag string
	ctx := newCommandContext(&configFlag)
	opts := &fetchOptions{}

	root := &cobra.Command{
		Use:           "tubegrab [flags] <url>",
		Short:         "Download YouTube videos and playlists as audio or video files",
		Args:          cobra.MaximumNArgs(1),
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, _ []string) error {
			if shouldSkipConfig(cmd) {
				return nil
			}
			_, err := ctx.ensureConfig()
			return err
		},
		RunE: func(cmd *cobra.Command, args []string) error {
			if len(args) == 0 {
				return cmd.Help()
			}
			return runFetch(cmd, ctx, opts, args[0])
		},
	}
	root.PersistentFlags().StringVarP(&configFlag, "config", "c", "", "Path to config.toml")
	bindFetchFlags(root, opts)

	for _, sub := range []*cobra.Command{
		newFetchCommand(ctx),
		newUpdateCommand(ctx),
		newDoctorCommand(ctx),
		newConfigCommand(ctx),
		newLogsCommand(ctx),
	} {
		root.AddCommand(sub)
	}
	return root
}
