package journal

import (
	"context"
	"fmt"

	"github.com/roach88/pedalboard/internal/ir"
)

// Append inserts a stamped record.
// Uses ON CONFLICT(id) DO NOTHING so re-appending the same record is a no-op.
// A different record reusing an existing seq violates the UNIQUE constraint
// and returns an error.
func (s *Store) Append(ctx context.Context, r Record) error {
	if r.ID == "" {
		return fmt.Errorf("append: record is not stamped")
	}

	effects := r.Effects
	if effects == nil {
		effects = []string{}
	}
	effectsJSON, err := ir.MarshalCanonical(effects)
	if err != nil {
		return fmt.Errorf("append: marshal effects: %w", err)
	}

	_, err = s.db.ExecContext(ctx, `
		INSERT INTO events
		(id, seq, token, update_type, pedalboard_id, pedalboard_name, effects, bank_id, bank_name, idx)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
		ON CONFLICT(id) DO NOTHING
	`,
		r.ID,
		r.Seq,
		r.Token,
		r.Type,
		r.PedalboardID,
		r.PedalboardName,
		string(effectsJSON),
		r.BankID,
		r.BankName,
		r.Index,
	)
	if err != nil {
		return fmt.Errorf("append: %w", err)
	}
	return nil
}
