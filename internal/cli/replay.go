package cli

import (
	"context"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/roach88/pedalboard/internal/journal"
	"github.com/roach88/pedalboard/internal/mirror"
)

// ReplayOptions holds flags for the replay command.
type ReplayOptions struct {
	*RootOptions
	Database string
}

// ReplayResult holds the replica rebuilt from a journal.
type ReplayResult struct {
	Records    int               `json:"records"`
	Banks      []mirror.BankView `json:"banks"`
	Consistent bool              `json:"consistent"`
	Error      string            `json:"error,omitempty"`
}

// NewReplayCommand creates the replay command.
func NewReplayCommand(rootOpts *RootOptions) *cobra.Command {
	opts := &ReplayOptions{RootOptions: rootOpts}

	cmd := &cobra.Command{
		Use:   "replay",
		Short: "Rebuild bank contents from the journal",
		Long: `Replay every journaled announcement, in order, into an empty replica
and print the resulting bank contents.

Replay applies CREATED as an insert, UPDATED as a substitution and
DELETED as a removal at the announced index. A journal whose
announcements cannot be applied (an index out of range, a DELETED for a
pedalboard that is not in the slot) is reported as inconsistent.

Exit codes:
  0 - Journal replayed consistently
  1 - Journal is inconsistent
  2 - Command error (database not found, etc.)`,
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runReplay(opts, cmd)
		},
	}

	cmd.Flags().StringVar(&opts.Database, "db", "", "path to journal database (default: database.path)")
	return cmd
}

func runReplay(opts *ReplayOptions, cmd *cobra.Command) error {
	ctx := context.Background()

	path, err := opts.databasePath(opts.Database)
	if err != nil {
		return err
	}
	st, err := openExisting(path)
	if err != nil {
		return err
	}
	defer st.Close()

	records, err := st.Records(ctx)
	if err != nil {
		return WrapExitError(ExitCommandError, "failed to read journal", err)
	}

	result := ReplayResult{Records: len(records), Banks: []mirror.BankView{}, Consistent: true}
	replica, err := mirror.Replay(records, mirror.WithLogger(opts.logger()))
	if err != nil {
		result.Consistent = false
		result.Error = err.Error()
	} else {
		result.Banks = replica.Banks()
	}
	opts.logger().Debug("journal replayed", "db", path, "records", result.Records, "consistent", result.Consistent)

	formatter := &OutputFormatter{Format: opts.Format, Writer: cmd.OutOrStdout(), Verbose: opts.Verbose}
	if opts.Format == "json" {
		if !result.Consistent {
			if err := formatter.Failure(result, "E_INCONSISTENT", result.Error); err != nil {
				return err
			}
			return NewExitError(ExitFailure, "journal is inconsistent")
		}
		return formatter.Success(result)
	}

	w := cmd.OutOrStdout()
	if !result.Consistent {
		fmt.Fprintf(w, "✗ Journal is inconsistent after %d record(s)\n", result.Records)
		fmt.Fprintf(w, "  %s\n", result.Error)
		return NewExitError(ExitFailure, "journal is inconsistent")
	}

	fmt.Fprintf(w, "Replayed %d record(s) into %d bank(s)\n", result.Records, len(result.Banks))
	for _, b := range result.Banks {
		fmt.Fprintf(w, "  %s\n", b.Name)
		for i, p := range b.Pedalboards {
			fmt.Fprintf(w, "    %d. %s\n", i, p.Name)
		}
	}
	fmt.Fprintln(w, "✓ Journal is consistent")
	return nil
}

// openExisting opens a journal that must already exist; opening creates
// missing files, which would hide a mistyped path.
func openExisting(path string) (*journal.Store, error) {
	if _, err := os.Stat(path); err != nil {
		return nil, WrapExitError(ExitCommandError, "failed to open database", err)
	}
	st, err := journal.Open(path)
	if err != nil {
		return nil, WrapExitError(ExitCommandError, "failed to open database", err)
	}
	return st, nil
}
