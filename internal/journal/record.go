package journal

import (
	"fmt"

	"github.com/roach88/pedalboard/internal/ir"
	"github.com/roach88/pedalboard/internal/notify"
)

// Record is one journaled announcement.
//
// Pedalboard and bank are captured by ID and by the name they had when the
// announcement was made, so a later rename does not rewrite history.
type Record struct {
	ID             string   `json:"id"`
	Seq            int64    `json:"seq"`
	Token          string   `json:"token,omitempty"`
	Type           string   `json:"type"`
	PedalboardID   string   `json:"pedalboard_id"`
	PedalboardName string   `json:"pedalboard_name"`
	Effects        []string `json:"effects,omitempty"`
	BankID         string   `json:"bank_id"`
	BankName       string   `json:"bank_name"`
	Index          int      `json:"index"`
}

// FromEvent builds an unstamped record (no ID, no Seq) from ev.
func FromEvent(ev notify.UpdateEvent) (Record, error) {
	if ev.Pedalboard == nil || ev.Origin == nil {
		return Record{}, fmt.Errorf("event %s is missing pedalboard or origin", ev.Type)
	}
	return Record{
		Token:          string(ev.Token),
		Type:           ev.Type.String(),
		PedalboardID:   ev.Pedalboard.ID,
		PedalboardName: ev.Pedalboard.Name,
		Effects:        append([]string(nil), ev.Pedalboard.Effects...),
		BankID:         ev.Origin.ID,
		BankName:       ev.Origin.Name,
		Index:          ev.Index,
	}, nil
}

// Fields returns the canonical object hashed into the record ID.
// ID and Seq are excluded; seq is mixed in separately by ir.EventID.
func (r Record) Fields() ir.Object {
	effects := r.Effects
	if effects == nil {
		effects = []string{}
	}
	return ir.Object{
		"token":           r.Token,
		"type":            r.Type,
		"pedalboard_id":   r.PedalboardID,
		"pedalboard_name": r.PedalboardName,
		"effects":         effects,
		"bank_id":         r.BankID,
		"bank_name":       r.BankName,
		"index":           r.Index,
	}
}

// Stamp assigns seq and the content-addressed ID.
func (r Record) Stamp(seq int64) (Record, error) {
	id, err := ir.EventID(r.Fields(), seq)
	if err != nil {
		return Record{}, fmt.Errorf("stamp record: %w", err)
	}
	r.Seq = seq
	r.ID = id
	return r, nil
}

// UpdateType parses the record's type.
func (r Record) UpdateType() (notify.UpdateType, error) {
	return notify.ParseUpdateType(r.Type)
}
