package app

import (
	"bufio"
	"fmt"
	"os"
	"strings"

	"github.com/spf13/cobra"

	"github.com/quaylabs/shopsync/internal/cmd/output"
	"github.com/quaylabs/shopsync/pkg/differ"
	"github.com/quaylabs/shopsync/pkg/errors"
	"github.com/quaylabs/shopsync/pkg/tabular"

	shopsync "github.com/quaylabs/shopsync"
	"github.com/quaylabs/shopsync/pkg/catalog"
)

// NewExportCommand creates the export command. It overwrites the local
// sheet with the current remote state.
func (a *App) NewExportCommand() *cobra.Command {
	var includeIDs bool

	cmd := &cobra.Command{
		Use:   "export",
		Short: "Export the remote catalog to the local price sheet",
		Long: `Export fetches the full remote catalog and writes it to the local
price sheet, one row per variant and channel. Variants without any channel
listing get a zero-priced placeholder row per configured required channel.`,
		RunE: func(cmd *cobra.Command, _ []string) error {
			ctx := cmd.Context()
			client, err := a.Client(ctx)
			if err != nil {
				return err
			}

			rows, err := client.Snapshot(ctx)
			if err != nil {
				return err
			}

			form := tabular.FormDisplay
			if includeIDs {
				form = tabular.FormExtended
			}
			if err := tabular.WriteFile(a.config.File, rows, form); err != nil {
				return err
			}

			fmt.Fprintf(cmd.OutOrStdout(), "Exported %d rows to %s\n", len(rows), a.config.File)
			return nil
		},
	}

	cmd.Flags().BoolVar(&includeIDs, "ids", false, "include remote identifier columns")
	return cmd
}

// NewDiffCommand creates the diff command.
func (a *App) NewDiffCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "diff",
		Short: "Show the differences between the local sheet and the backend",
		RunE: func(cmd *cobra.Command, _ []string) error {
			ctx := cmd.Context()

			local, err := a.loadLocal()
			if err != nil {
				return err
			}

			client, err := a.Client(ctx)
			if err != nil {
				return err
			}

			changeset, err := client.Diff(ctx, local)
			if err != nil {
				return err
			}

			return a.printChangeset(cmd, changeset)
		},
	}
	return cmd
}

// NewSyncCommand creates the sync command.
func (a *App) NewSyncCommand() *cobra.Command {
	var (
		dryRun      bool
		assumeYes   bool
		noRefresh   bool
		updatesOnly bool
	)

	cmd := &cobra.Command{
		Use:   "sync",
		Short: "Apply local price sheet changes to the backend",
		Long: `Sync diffs the local price sheet against the remote catalog and applies
the changes: missing variants are created, parent entities published into
their channels, and prices updated. Rows present remotely but missing
locally are reported, never deleted.

When the local sheet does not exist yet, sync bootstraps it from the remote
catalog and exits so the prices can be edited first.`,
		RunE: func(cmd *cobra.Command, _ []string) error {
			ctx := cmd.Context()

			client, err := a.Client(ctx)
			if err != nil {
				return err
			}

			if _, err := os.Stat(a.config.File); os.IsNotExist(err) {
				return a.bootstrap(cmd, client)
			}

			local, err := a.loadLocal()
			if err != nil {
				return err
			}

			opts := []shopsync.SyncOption{
				shopsync.WithDryRun(dryRun),
			}
			if updatesOnly {
				opts = append(opts, shopsync.WithStrategy(differ.ApplyUpdatesOnly))
			}
			if !assumeYes && !dryRun {
				opts = append(opts, shopsync.WithConfirm(func(changeset *differ.Changeset) bool {
					if err := a.printChangeset(cmd, changeset); err != nil {
						return false
					}
					return confirm(cmd, "Apply these changes to the backend?")
				}))
			}

			result, err := client.Sync(ctx, local, opts...)
			if err != nil {
				return err
			}

			switch {
			case result.Changeset.IsEmpty():
				fmt.Fprintln(cmd.OutOrStdout(), "Local sheet and backend are in sync")
				return nil
			case dryRun:
				if err := a.printChangeset(cmd, result.Changeset); err != nil {
					return err
				}
				fmt.Fprintln(cmd.OutOrStdout(), "Dry run, nothing applied")
				return nil
			case result.Declined:
				fmt.Fprintln(cmd.OutOrStdout(), "Aborted, nothing applied")
				return nil
			}

			if err := a.printResult(cmd, result); err != nil {
				return err
			}

			if !noRefresh {
				if err := a.refreshLocal(cmd, client); err != nil {
					return err
				}
			}

			if result.Applied != nil && result.Applied.Failed > 0 {
				return errors.New(result.Applied.Summary())
			}
			return nil
		},
	}

	cmd.Flags().BoolVar(&dryRun, "dry-run", false, "compute and show the diff without applying it")
	cmd.Flags().BoolVarP(&assumeYes, "yes", "y", false, "apply without asking for confirmation")
	cmd.Flags().BoolVar(&noRefresh, "no-refresh", false, "do not rewrite the local sheet after applying")
	cmd.Flags().BoolVar(&updatesOnly, "updates-only", false, "apply price updates only, skip additions")
	return cmd
}

// NewVersionCommand creates the version command.
func (a *App) NewVersionCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: "Print version information",
		Run: func(cmd *cobra.Command, _ []string) {
			fmt.Fprintf(cmd.OutOrStdout(), "shopsync %s (commit %s, built %s)\n", a.version, a.commit, a.date)
		},
	}
}

// loadLocal reads the local price sheet.
func (a *App) loadLocal() ([]catalog.Row, error) {
	rows, form, err := tabular.ReadFile(a.config.File)
	if err != nil {
		if os.IsNotExist(errors.Unwrap(err)) {
			return nil, errors.New("local sheet " + a.config.File + " not found: run 'shopsync export' first")
		}
		return nil, err
	}

	a.logger.Debug().
		Str("file", a.config.File).
		Str("form", form.String()).
		Int("rows", len(rows)).
		Msg("local sheet loaded")
	return rows, nil
}

// bootstrap writes the initial local sheet from the remote catalog.
func (a *App) bootstrap(cmd *cobra.Command, client shopsync.Client) error {
	fmt.Fprintf(cmd.OutOrStdout(), "No local sheet found, exporting the remote catalog to %s\n", a.config.File)

	rows, err := client.Snapshot(cmd.Context())
	if err != nil {
		return err
	}
	if err := tabular.WriteFile(a.config.File, rows, tabular.FormDisplay); err != nil {
		return err
	}

	fmt.Fprintf(cmd.OutOrStdout(), "Exported %d rows. Edit the prices and run 'shopsync sync' again.\n", len(rows))
	return nil
}

// refreshLocal rewrites the local sheet from the post-apply remote state.
func (a *App) refreshLocal(cmd *cobra.Command, client shopsync.Client) error {
	rows, err := client.Snapshot(cmd.Context())
	if err != nil {
		return err
	}
	if err := tabular.WriteFile(a.config.File, rows, tabular.FormDisplay); err != nil {
		return err
	}
	fmt.Fprintf(cmd.OutOrStdout(), "Refreshed %s from the backend\n", a.config.File)
	return nil
}

// printChangeset renders a changeset in the configured format.
func (a *App) printChangeset(cmd *cobra.Command, changeset *differ.Changeset) error {
	format := output.DetectFormat(a.config.Format)
	formatter := output.NewFormatter(format)

	if format == output.FormatTable {
		if changeset.IsEmpty() {
			fmt.Fprintln(cmd.OutOrStdout(), "No changes detected")
			return nil
		}
		if err := formatter.Format(cmd.OutOrStdout(), output.ChangesetData(changeset)); err != nil {
			return err
		}
		fmt.Fprintln(cmd.OutOrStdout(), changeset.String())
		return nil
	}
	return formatter.Format(cmd.OutOrStdout(), changeset)
}

// printResult renders an apply result in the configured format.
func (a *App) printResult(cmd *cobra.Command, result *shopsync.SyncResult) error {
	format := output.DetectFormat(a.config.Format)
	formatter := output.NewFormatter(format)

	if format == output.FormatTable {
		if result.Applied == nil {
			return nil
		}
		if err := formatter.Format(cmd.OutOrStdout(), output.ResultData(result.Applied)); err != nil {
			return err
		}
		fmt.Fprintln(cmd.OutOrStdout(), result.Applied.Summary())
		return nil
	}
	return formatter.Format(cmd.OutOrStdout(), result)
}

// confirm asks a yes/no question on the command's streams.
func confirm(cmd *cobra.Command, question string) bool {
	fmt.Fprintf(cmd.OutOrStdout(), "%s (y/n): ", question)

	reader := bufio.NewReader(cmd.InOrStdin())
	answer, err := reader.ReadString('\n')
	if err != nil {
		return false
	}
	answer = strings.ToLower(strings.TrimSpace(answer))
	return answer == "y" || answer == "yes"
}
