package mirror

import (
	"fmt"

	"github.com/roach88/pedalboard/internal/journal"
)

// Replay rebuilds a replica from journal records, in the order given.
// Callers pass records as returned by the journal, which are seq ordered.
// The first record that cannot be applied stops the replay.
func Replay(records []journal.Record, opts ...Option) (*Replica, error) {
	r := New(opts...)
	for _, rec := range records {
		typ, err := rec.UpdateType()
		if err != nil {
			return nil, fmt.Errorf("replay seq %d: %w", rec.Seq, err)
		}
		entry := Entry{ID: rec.PedalboardID, Name: rec.PedalboardName}
		if err := r.Apply(rec.BankID, rec.BankName, typ, rec.Index, entry); err != nil {
			return nil, fmt.Errorf("replay seq %d: %w", rec.Seq, err)
		}
	}
	return r, nil
}
