// Package notify fans pedalboard change announcements out to observers.
//
// The bus is synchronous: Publish invokes every registered observer inline,
// in registration order, on the caller's goroutine, and returns only after
// the last observer has returned. There is no queue and no background work.
//
// Observers must not register or unregister from inside a callback.
package notify

import (
	"fmt"

	"github.com/roach88/pedalboard/internal/model"
)

// UpdateType describes the nature of an announced change.
type UpdateType int

const (
	// Created announces a pedalboard now present at Index.
	Created UpdateType = iota + 1
	// Updated announces a pedalboard at Index whose content changed
	// (or that replaced the previous occupant of Index).
	Updated
	// Deleted announces a pedalboard removed from Index.
	Deleted
)

// String returns CREATED, UPDATED or DELETED.
func (t UpdateType) String() string {
	switch t {
	case Created:
		return "CREATED"
	case Updated:
		return "UPDATED"
	case Deleted:
		return "DELETED"
	default:
		return fmt.Sprintf("UpdateType(%d)", int(t))
	}
}

// ParseUpdateType is the inverse of UpdateType.String.
func ParseUpdateType(s string) (UpdateType, error) {
	switch s {
	case "CREATED":
		return Created, nil
	case "UPDATED":
		return Updated, nil
	case "DELETED":
		return Deleted, nil
	default:
		return 0, fmt.Errorf("unknown update type %q", s)
	}
}

// Token is an opaque correlation id supplied by the issuing client.
// It lets a client recognise the echo of its own changes. The core never
// interprets it.
type Token string

// NoToken marks a change issued without a correlation id.
const NoToken Token = ""

// IsSet reports whether t carries a correlation id.
func (t Token) IsSet() bool {
	return t != NoToken
}

// UpdateEvent is one announced change.
//
// Index is the pedalboard's true position at the moment described:
// after the mutation for Created and Updated, and the position it held
// immediately before removal for Deleted. Origin is the bank the change
// happened in.
type UpdateEvent struct {
	Pedalboard *model.Pedalboard
	Type       UpdateType
	Token      Token
	Index      int
	Origin     *model.Bank
}

// String implements fmt.Stringer.
func (e UpdateEvent) String() string {
	return fmt.Sprintf("%s %v index=%d origin=%v token=%q", e.Type, e.Pedalboard, e.Index, e.Origin, string(e.Token))
}
