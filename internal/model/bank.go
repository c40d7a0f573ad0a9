package model

import (
	"fmt"
	"slices"

	"github.com/google/uuid"
)

// Bank is a named, ordered collection of pedalboards.
//
// INVARIANTS:
//   - Every pedalboard in the sequence has Bank() == this bank
//   - A pedalboard appears at most once in the sequence
//
// The ordered-container methods below maintain both invariants by updating
// the pedalboard's owner pointer whenever it enters or leaves the sequence.
type Bank struct {
	// ID is a UUIDv7 assigned at construction.
	ID string

	// Name is the display name.
	Name string

	pedalboards []*Pedalboard
	registry    *Registry
}

// NewBank creates an empty, unregistered bank with a fresh ID.
func NewBank(name string) *Bank {
	return &Bank{
		ID:   uuid.Must(uuid.NewV7()).String(),
		Name: name,
	}
}

// Append adds p at the end of the bank.
// If p is owned by another bank it is detached from that bank first.
func (b *Bank) Append(p *Pedalboard) {
	b.Insert(len(b.pedalboards), p)
}

// Insert places p at position i, shifting later pedalboards right.
// i is clamped to [0, Len()].
// If p is owned by another bank (or already by this one) it is detached first.
func (b *Bank) Insert(i int, p *Pedalboard) {
	if p.bank != nil {
		p.bank.Remove(p)
	}
	i = max(0, min(i, len(b.pedalboards)))
	b.pedalboards = slices.Insert(b.pedalboards, i, p)
	p.bank = b
}

// Remove detaches p from the bank.
// Returns the index p occupied, or -1 if p was not in the bank.
func (b *Bank) Remove(p *Pedalboard) int {
	i := b.IndexOf(p)
	if i < 0 {
		return -1
	}
	b.RemoveAt(i)
	return i
}

// RemoveAt detaches and returns the pedalboard at position i.
// Panics if i is out of range, like slice indexing.
func (b *Bank) RemoveAt(i int) *Pedalboard {
	p := b.pedalboards[i]
	b.pedalboards[i] = nil
	b.pedalboards = slices.Delete(b.pedalboards, i, i+1)
	p.bank = nil
	return p
}

// Set substitutes the pedalboard at position i with p and returns the
// pedalboard that was replaced. The replaced pedalboard becomes unowned.
// p is detached from any previous owner before taking the slot.
func (b *Bank) Set(i int, p *Pedalboard) *Pedalboard {
	old := b.pedalboards[i]
	if old == p {
		return old
	}
	if p.bank != nil {
		// Detaching from this bank could shift the slot we are about to fill.
		if p.bank == b && b.IndexOf(p) < i {
			i--
		}
		p.bank.Remove(p)
	}
	b.pedalboards[i] = p
	p.bank = b
	old.bank = nil
	return old
}

// IndexOf returns the position of p in the bank, or -1.
func (b *Bank) IndexOf(p *Pedalboard) int {
	return slices.Index(b.pedalboards, p)
}

// Contains reports whether p is in the bank.
func (b *Bank) Contains(p *Pedalboard) bool {
	return b.IndexOf(p) >= 0
}

// At returns the pedalboard at position i, or nil when i is out of range.
func (b *Bank) At(i int) *Pedalboard {
	if i < 0 || i >= len(b.pedalboards) {
		return nil
	}
	return b.pedalboards[i]
}

// Len returns the number of pedalboards in the bank.
func (b *Bank) Len() int {
	return len(b.pedalboards)
}

// Pedalboards returns a copy of the ordered sequence.
func (b *Bank) Pedalboards() []*Pedalboard {
	return slices.Clone(b.pedalboards)
}

// Lookup returns the first pedalboard named name, or nil.
func (b *Bank) Lookup(name string) *Pedalboard {
	for _, p := range b.pedalboards {
		if p.Name == name {
			return p
		}
	}
	return nil
}

// Registry returns the registry holding the bank, or nil.
func (b *Bank) Registry() *Registry {
	return b.registry
}

// Index returns the bank's live position in its registry, or -1 when the
// bank is not registered.
func (b *Bank) Index() int {
	if b.registry == nil {
		return -1
	}
	return b.registry.IndexOf(b)
}

// String implements fmt.Stringer.
func (b *Bank) String() string {
	if b == nil {
		return "<nil bank>"
	}
	return fmt.Sprintf("Bank(%s)", b.Name)
}
