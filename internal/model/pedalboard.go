package model

import (
	"fmt"

	"github.com/google/uuid"
)

// Pedalboard is a named configuration entity.
//
// A pedalboard belongs to at most one Bank at a time. Until it is appended
// to a bank it is "unregistered": Bank() returns nil and Index() returns -1.
type Pedalboard struct {
	// ID is a UUIDv7 assigned at construction. Stable across renames.
	ID string

	// Name is the display name. Callers may change it freely and then
	// announce the change through the controller.
	Name string

	// Effects lists plugin URIs in signal-chain order.
	Effects []string

	bank *Bank
}

// NewPedalboard creates an unowned pedalboard with a fresh ID.
func NewPedalboard(name string, effects ...string) *Pedalboard {
	return &Pedalboard{
		ID:      uuid.Must(uuid.NewV7()).String(),
		Name:    name,
		Effects: effects,
	}
}

// Bank returns the owning bank, or nil when the pedalboard is unowned.
func (p *Pedalboard) Bank() *Bank {
	return p.bank
}

// Index returns the pedalboard's live position within its bank.
// Returns -1 when the pedalboard is unowned.
func (p *Pedalboard) Index() int {
	if p.bank == nil {
		return -1
	}
	return p.bank.IndexOf(p)
}

// String implements fmt.Stringer.
func (p *Pedalboard) String() string {
	if p == nil {
		return "<nil pedalboard>"
	}
	return fmt.Sprintf("Pedalboard(%s)", p.Name)
}
