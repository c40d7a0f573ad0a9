package journal

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"
)

const selectColumns = `SELECT id, seq, token, update_type, pedalboard_id, pedalboard_name, effects, bank_id, bank_name, idx FROM events`

// Records returns every record in announcement order.
// Returns an empty slice (not nil) for an empty journal.
func (s *Store) Records(ctx context.Context) ([]Record, error) {
	return s.query(ctx, selectColumns+` ORDER BY seq ASC`)
}

// RecordsByToken returns the records produced by calls carrying token,
// in announcement order. An empty token selects untokened calls.
func (s *Store) RecordsByToken(ctx context.Context, token string) ([]Record, error) {
	return s.query(ctx, selectColumns+` WHERE token = ? ORDER BY seq ASC`, token)
}

// RecordsForBank returns the records whose origin is bankID.
func (s *Store) RecordsForBank(ctx context.Context, bankID string) ([]Record, error) {
	return s.query(ctx, selectColumns+` WHERE bank_id = ? ORDER BY seq ASC`, bankID)
}

// BankIDs returns the IDs of the banks journaled under name, in order of
// first appearance. A name reused by a recreated bank yields several IDs.
func (s *Store) BankIDs(ctx context.Context, name string) ([]string, error) {
	rows, err := s.db.QueryContext(ctx,
		`SELECT bank_id FROM events WHERE bank_name = ? GROUP BY bank_id ORDER BY MIN(seq) ASC`, name)
	if err != nil {
		return nil, fmt.Errorf("query bank ids: %w", err)
	}
	defer rows.Close()

	ids := []string{}
	for rows.Next() {
		var id string
		if err := rows.Scan(&id); err != nil {
			return nil, fmt.Errorf("scan bank id: %w", err)
		}
		ids = append(ids, id)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate bank ids: %w", err)
	}
	return ids, nil
}

// Count returns the number of records.
func (s *Store) Count(ctx context.Context) (int, error) {
	var n int
	if err := s.db.QueryRowContext(ctx, `SELECT COUNT(*) FROM events`).Scan(&n); err != nil {
		return 0, fmt.Errorf("count events: %w", err)
	}
	return n, nil
}

// LastSeq returns the highest seq in the journal, or 0 when it is empty.
// Used to resume the clock when reopening a journal.
func (s *Store) LastSeq(ctx context.Context) (int64, error) {
	var seq sql.NullInt64
	if err := s.db.QueryRowContext(ctx, `SELECT MAX(seq) FROM events`).Scan(&seq); err != nil {
		return 0, fmt.Errorf("last seq: %w", err)
	}
	return seq.Int64, nil
}

func (s *Store) query(ctx context.Context, q string, args ...any) ([]Record, error) {
	rows, err := s.db.QueryContext(ctx, q, args...)
	if err != nil {
		return nil, fmt.Errorf("query events: %w", err)
	}
	defer rows.Close()

	records := []Record{}
	for rows.Next() {
		var (
			r       Record
			effects string
		)
		if err := rows.Scan(&r.ID, &r.Seq, &r.Token, &r.Type, &r.PedalboardID, &r.PedalboardName, &effects, &r.BankID, &r.BankName, &r.Index); err != nil {
			return nil, fmt.Errorf("scan event: %w", err)
		}
		if err := json.Unmarshal([]byte(effects), &r.Effects); err != nil {
			return nil, fmt.Errorf("unmarshal effects for %s: %w", r.ID, err)
		}
		if len(r.Effects) == 0 {
			r.Effects = nil
		}
		records = append(records, r)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate events: %w", err)
	}
	return records, nil
}
