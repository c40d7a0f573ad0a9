package cli

import (
	"bytes"
	"context"
	"path/filepath"
	"testing"

	"github.com/spf13/cobra"
	"github.com/stretchr/testify/require"

	"github.com/roach88/pedalboard/internal/harness"
	"github.com/roach88/pedalboard/internal/journal"
)

const moveScenario = "../harness/testdata/scenarios/move_forward.yaml"

// execute runs cmd with args and returns its stdout.
func execute(t *testing.T, cmd *cobra.Command, args ...string) (string, error) {
	t.Helper()
	var out, errOut bytes.Buffer
	cmd.SetOut(&out)
	cmd.SetErr(&errOut)
	if args == nil {
		args = []string{}
	}
	cmd.SetArgs(args)
	err := cmd.Execute()
	return out.String(), err
}

// journalFromScenario runs a scenario against a fresh journal file and
// returns the file's path.
func journalFromScenario(t *testing.T, file string) string {
	t.Helper()
	db := filepath.Join(t.TempDir(), "journal.db")
	s, err := harness.LoadScenario(file)
	require.NoError(t, err)
	result, err := harness.Run(s, harness.WithJournalPath(db))
	require.NoError(t, err)
	require.True(t, result.Pass, result.Errors)
	return db
}

// brokenJournal writes a journal whose first record deletes from an empty bank.
func brokenJournal(t *testing.T) string {
	t.Helper()
	db := filepath.Join(t.TempDir(), "broken.db")
	st, err := journal.Open(db)
	require.NoError(t, err)
	defer st.Close()

	r, err := journal.Record{
		Type:           "DELETED",
		PedalboardID:   "p1",
		PedalboardName: "Ghost",
		BankID:         "b1",
		BankName:       "Live",
		Index:          0,
	}.Stamp(1)
	require.NoError(t, err)
	require.NoError(t, st.Append(context.Background(), r))
	return db
}
