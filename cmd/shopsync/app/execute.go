package app

import (
	"context"
	"os"

	"github.com/spf13/cobra"
)

// Execute runs the shopsync CLI application with the given arguments.
// This is the main entry point called from main.go.
func (a *App) Execute(ctx context.Context, args []string) error {
	rootCmd := a.createRootCommand()
	rootCmd.SetArgs(args)
	return rootCmd.ExecuteContext(ctx)
}

// createRootCommand creates the root cobra command with all subcommands.
func (a *App) createRootCommand() *cobra.Command {
	rootCmd := &cobra.Command{
		Use:     "shopsync",
		Short:   "Price sheet reconciliation for commerce catalogs",
		Version: a.version,
		Long: `Shopsync keeps a locally edited CSV price sheet and a remote commerce
backend in agreement.

The local sheet is the source of truth for prices and channel availability;
the backend is the source of truth for identifiers. A sync run fetches the
remote catalog, diffs it against the sheet, and applies additions and price
updates. Rows present remotely but missing locally are reported, never
deleted.`,
		PersistentPreRunE: a.setupCommand,
		SilenceUsage:      true,
		SilenceErrors:     true,
	}

	// Global flags
	rootCmd.PersistentFlags().StringVar(&a.config.ConfigFile, "config", "", "config file (default is $HOME/.shopsync.yaml)")
	rootCmd.PersistentFlags().BoolVarP(&a.config.Verbose, "verbose", "v", false, "verbose output (shortcut for --log-level=debug)")
	rootCmd.PersistentFlags().BoolVarP(&a.config.Quiet, "quiet", "q", false, "minimal output (shortcut for --log-level=warn)")
	rootCmd.PersistentFlags().BoolVar(&a.config.NoColor, "no-color", false, "disable colored output")
	rootCmd.PersistentFlags().StringVarP(&a.config.Format, "format", "o", "", "output format: table, json, yaml")
	rootCmd.PersistentFlags().StringVar(&a.config.LogLevel, "log-level", "", "log level: trace, debug, info, warn, error (overrides -v/-q)")
	rootCmd.PersistentFlags().StringVarP(&a.config.File, "file", "f", a.config.File, "local price sheet")
	rootCmd.PersistentFlags().StringVar(&a.config.Endpoint, "endpoint", a.config.Endpoint, "GraphQL endpoint URL")
	rootCmd.PersistentFlags().StringSliceVar(&a.config.RequiredChannels, "channels", a.config.RequiredChannels, "channels that get placeholder rows for unlisted variants")

	rootCmd.SetVersionTemplate("shopsync {{.Version}}\n")

	a.registerCommands(rootCmd)

	return rootCmd
}

// setupCommand is called before any command runs.
func (a *App) setupCommand(cmd *cobra.Command, _ []string) error {
	verbose, _ := cmd.Flags().GetBool("verbose")
	quiet, _ := cmd.Flags().GetBool("quiet")
	noColor, _ := cmd.Flags().GetBool("no-color")
	format, _ := cmd.Flags().GetString("format")
	logLevel, _ := cmd.Flags().GetString("log-level")

	a.config.UpdateFromFlags(verbose, quiet, noColor, format, logLevel)

	// Reinitialize logger with updated config
	logger := NewLogger(a.config)
	a.logger = &logger

	return nil
}

// registerCommands registers all subcommands with the root command.
func (a *App) registerCommands(rootCmd *cobra.Command) {
	rootCmd.AddCommand(a.NewExportCommand())
	rootCmd.AddCommand(a.NewDiffCommand())
	rootCmd.AddCommand(a.NewSyncCommand())
	rootCmd.AddCommand(a.NewVersionCommand())
}

// ExitOnError is a helper that prints an error and exits with status 1.
// This is meant to be used in main.go for top-level error handling.
func ExitOnError(err error) {
	if err != nil {
		_, _ = os.Stderr.WriteString(err.Error() + "\n")
		os.Exit(1)
	}
}
