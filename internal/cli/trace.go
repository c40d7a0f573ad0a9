package cli

import (
	"cmp"
	"context"
	"fmt"
	"slices"
	"strings"

	"github.com/spf13/cobra"

	"github.com/roach88/pedalboard/internal/journal"
)

// TraceOptions holds flags for the trace command.
type TraceOptions struct {
	*RootOptions
	Database string
	Token    string // optional - filter to one correlation token
	Bank     string // optional - filter to one bank, by name or ID
}

// TraceStats holds summary statistics for the trace.
type TraceStats struct {
	Total   int `json:"total"`
	Created int `json:"created"`
	Updated int `json:"updated"`
	Deleted int `json:"deleted"`
	Tokens  int `json:"tokens"`
}

// TraceResult holds the complete trace output.
type TraceResult struct {
	Token    string           `json:"token,omitempty"`
	Timeline []journal.Record `json:"timeline"`
	Stats    TraceStats       `json:"stats"`
}

// NewTraceCommand creates the trace command.
func NewTraceCommand(rootOpts *RootOptions) *cobra.Command {
	opts := &TraceOptions{RootOptions: rootOpts}

	cmd := &cobra.Command{
		Use:   "trace",
		Short: "Show journaled announcements",
		Long: `List the announcements recorded in a journal, in announcement order.

With --token only the announcements produced by calls carrying that
token are shown, so a client can see the full echo of one request
(for example the DELETED/CREATED pair of a move).

Examples:
  pedalctl trace --db session.db
  pedalctl trace --db session.db --token t1
  pedalctl trace --db session.db --bank Live --format json`,
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runTrace(opts, cmd)
		},
	}

	cmd.Flags().StringVar(&opts.Database, "db", "", "path to journal database (default: database.path)")
	cmd.Flags().StringVar(&opts.Token, "token", "", "only announcements carrying this token")
	cmd.Flags().StringVar(&opts.Bank, "bank", "", "only announcements from this bank (name or ID)")

	return cmd
}

func runTrace(opts *TraceOptions, cmd *cobra.Command) error {
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

	var records []journal.Record
	switch {
	case opts.Bank != "":
		records, err = bankRecords(ctx, st, opts.Bank, opts.Token)
	case opts.Token != "":
		records, err = st.RecordsByToken(ctx, opts.Token)
	default:
		records, err = st.Records(ctx)
	}
	if err != nil {
		return WrapExitError(ExitCommandError, "failed to read journal", err)
	}

	result := TraceResult{
		Token:    opts.Token,
		Timeline: records,
	}
	result.Stats = traceStats(result.Timeline)
	opts.logger().Debug("journal traced", "db", path, "token", opts.Token, "events", result.Stats.Total)

	formatter := &OutputFormatter{Format: opts.Format, Writer: cmd.OutOrStdout(), Verbose: opts.Verbose}
	if opts.Format == "json" {
		return formatter.Success(result)
	}
	outputTraceText(cmd, result, opts.Verbose)
	return nil
}

// bankRecords returns the records of every bank journaled under bank, in
// seq order. A bank that was never journaled under that name is looked up
// by ID. A non-empty token narrows the result to that token.
func bankRecords(ctx context.Context, st *journal.Store, bank, token string) ([]journal.Record, error) {
	ids, err := st.BankIDs(ctx, bank)
	if err != nil {
		return nil, err
	}
	if len(ids) == 0 {
		ids = []string{bank}
	}

	records := []journal.Record{}
	for _, id := range ids {
		rs, err := st.RecordsForBank(ctx, id)
		if err != nil {
			return nil, err
		}
		for _, r := range rs {
			if token == "" || r.Token == token {
				records = append(records, r)
			}
		}
	}
	slices.SortFunc(records, func(a, b journal.Record) int {
		return cmp.Compare(a.Seq, b.Seq)
	})
	return records, nil
}

func traceStats(records []journal.Record) TraceStats {
	stats := TraceStats{Total: len(records)}
	tokens := make(map[string]bool)
	for _, r := range records {
		switch r.Type {
		case "CREATED":
			stats.Created++
		case "UPDATED":
			stats.Updated++
		case "DELETED":
			stats.Deleted++
		}
		if r.Token != "" {
			tokens[r.Token] = true
		}
	}
	stats.Tokens = len(tokens)
	return stats
}

func outputTraceText(cmd *cobra.Command, result TraceResult, verbose bool) {
	w := cmd.OutOrStdout()

	if len(result.Timeline) == 0 {
		if result.Token != "" {
			fmt.Fprintf(w, "No announcements found for token: %s\n", result.Token)
		} else {
			fmt.Fprintln(w, "Journal is empty.")
		}
		return
	}

	if result.Token != "" {
		fmt.Fprintf(w, "Token: %s\n", result.Token)
	}
	fmt.Fprintln(w, "Timeline:")
	for _, r := range result.Timeline {
		token := r.Token
		if token == "" {
			token = "-"
		}
		fmt.Fprintf(w, "  [%d] %-7s %s @ %s[%d]  token=%s\n", r.Seq, r.Type, r.PedalboardName, r.BankName, r.Index, token)
		if verbose {
			fmt.Fprintf(w, "        id=%s pedalboard_id=%s", r.ID[:12], r.PedalboardID)
			if len(r.Effects) > 0 {
				fmt.Fprintf(w, " effects=%s", strings.Join(r.Effects, ","))
			}
			fmt.Fprintln(w)
		}
	}

	s := result.Stats
	fmt.Fprintln(w)
	fmt.Fprintf(w, "Stats: %d total (%d created, %d updated, %d deleted), %d token(s)\n",
		s.Total, s.Created, s.Updated, s.Deleted, s.Tokens)
}
