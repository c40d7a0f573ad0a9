package cli

import (
	"context"
	"encoding/json"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/roach88/pedalboard/internal/journal"
)

func TestTrace_Text(t *testing.T) {
	db := journalFromScenario(t, moveScenario)
	cmd := NewTraceCommand(&RootOptions{Format: "text"})

	out, err := execute(t, cmd, "--db", db)

	require.NoError(t, err)
	assert.Contains(t, out, "Timeline:")
	assert.Contains(t, out, "DELETED A @ Live[0]  token=t1")
	assert.Contains(t, out, "Stats: 6 total (5 created, 0 updated, 1 deleted), 2 token(s)")
}

func TestTrace_ByToken(t *testing.T) {
	db := journalFromScenario(t, moveScenario)
	cmd := NewTraceCommand(&RootOptions{Format: "json"})

	out, err := execute(t, cmd, "--db", db, "--token", "t1")
	require.NoError(t, err)

	var resp struct {
		Data TraceResult `json:"data"`
	}
	require.NoError(t, json.Unmarshal([]byte(out), &resp))
	require.Len(t, resp.Data.Timeline, 2)
	assert.Equal(t, "DELETED", resp.Data.Timeline[0].Type)
	assert.Equal(t, 0, resp.Data.Timeline[0].Index)
	assert.Equal(t, "CREATED", resp.Data.Timeline[1].Type)
	assert.Equal(t, 2, resp.Data.Timeline[1].Index)
	assert.Less(t, resp.Data.Timeline[0].Seq, resp.Data.Timeline[1].Seq)
	assert.Equal(t, TraceStats{Total: 2, Created: 1, Deleted: 1, Tokens: 1}, resp.Data.Stats)
}

func TestTrace_UnknownToken(t *testing.T) {
	db := journalFromScenario(t, moveScenario)
	cmd := NewTraceCommand(&RootOptions{Format: "text"})

	out, err := execute(t, cmd, "--db", db, "--token", "nope")

	require.NoError(t, err)
	assert.Equal(t, "No announcements found for token: nope\n", out)
}

func TestTrace_BankFilter(t *testing.T) {
	db := journalFromScenario(t, moveScenario)
	cmd := NewTraceCommand(&RootOptions{Format: "text"})

	out, err := execute(t, cmd, "--db", db, "--bank", "Elsewhere")

	require.NoError(t, err)
	assert.Equal(t, "Journal is empty.\n", out)
}

func TestTrace_BankByName(t *testing.T) {
	db := journalFromScenario(t, moveScenario)
	cmd := NewTraceCommand(&RootOptions{Format: "json"})

	out, err := execute(t, cmd, "--db", db, "--bank", "Live", "--token", "t1")
	require.NoError(t, err)

	var resp struct {
		Data TraceResult `json:"data"`
	}
	require.NoError(t, json.Unmarshal([]byte(out), &resp))
	require.Len(t, resp.Data.Timeline, 2)
	assert.Equal(t, "DELETED", resp.Data.Timeline[0].Type)
	assert.Equal(t, "CREATED", resp.Data.Timeline[1].Type)
}

func TestTrace_BankByID(t *testing.T) {
	db := journalFromScenario(t, moveScenario)
	st, err := journal.Open(db)
	require.NoError(t, err)
	records, err := st.Records(context.Background())
	require.NoError(t, err)
	require.NoError(t, st.Close())
	require.NotEmpty(t, records)

	out, err := execute(t, NewTraceCommand(&RootOptions{Format: "text"}), "--db", db, "--bank", records[0].BankID)

	require.NoError(t, err)
	assert.Contains(t, out, "Stats: 6 total (5 created, 0 updated, 1 deleted), 2 token(s)")
}

func TestTrace_MissingDatabase(t *testing.T) {
	cmd := NewTraceCommand(&RootOptions{Format: "text"})

	_, err := execute(t, cmd, "--db", filepath.Join(t.TempDir(), "missing.db"))

	assert.Equal(t, ExitCommandError, GetExitCode(err))
}

func TestTrace_DatabaseFromConfig(t *testing.T) {
	db := journalFromScenario(t, moveScenario)
	opts := &RootOptions{Format: "text"}
	opts.Config.Database.Path = db

	out, err := execute(t, NewTraceCommand(opts))

	require.NoError(t, err)
	assert.Contains(t, out, "Stats: 6 total")
}

func TestTrace_NoDatabase(t *testing.T) {
	_, err := execute(t, NewTraceCommand(&RootOptions{Format: "text"}))

	assert.Equal(t, ExitCommandError, GetExitCode(err))
}

func TestTraceStats(t *testing.T) {
	records := []journal.Record{
		{Type: "CREATED", Token: "a"},
		{Type: "UPDATED", Token: "a"},
		{Type: "DELETED"},
	}
	assert.Equal(t, TraceStats{Total: 3, Created: 1, Updated: 1, Deleted: 1, Tokens: 1}, traceStats(records))
}
