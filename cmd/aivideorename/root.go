package main

import (
	"github.com/spf13/cobra"
)

// version is overridden at build time with -ldflags "-X main.version=...".
var version = "dev"

func newRootCommand() *cobra.Command {
	var configFlag string
	var flags renameFlags

	ctx := newCommandContext(&configFlag)

	rootCmd := &cobra.Command{
		Use:   "aivideorename PATH",
		Short: "Rename videos with their capture date and a short caption",
		Long: `Rename video files to {name}_{YYYYMMDD}_{Caption}{ext}.

PATH may be a single video file or a directory. Files whose names already
end in a date and caption are skipped, and existing files are never
overwritten.`,
		Version:       version,
		Args:          cobra.MaximumNArgs(1),
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
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
			return runRename(cmd, ctx, flags, args[0])
		},
	}

	rootCmd.PersistentFlags().StringVarP(&configFlag, "config", "c", "", "Configuration file path")
	rootCmd.Flags().BoolVarP(&flags.recursive, "recursive", "r", false, "Process subdirectories recursively")
	rootCmd.Flags().BoolVarP(&flags.dryRun, "dry-run", "n", false, "Show what would be renamed without renaming")
	rootCmd.Flags().BoolVar(&flags.confirm, "confirm", false, "Ask before each rename")
	rootCmd.Flags().BoolVar(&flags.online, "online", false, "Caption with the configured vision model instead of the filename")

	rootCmd.AddCommand(newConfigCommand(ctx))
	rootCmd.AddCommand(newCheckCommand(ctx))

	return rootCmd
}
