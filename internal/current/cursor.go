// Package current tracks the single "current" pedalboard.
//
// The Cursor stores only an identity reference. The current bank, the bank
// number and the pedalboard number are recomputed from the live graph on
// every read, so renames and moves never require a cursor update.
package current

import (
	"log/slog"

	"github.com/roach88/pedalboard/internal/model"
)

// Cursor is the selection cursor over a registry.
//
// INVARIANT (maintained by the controllers): when the held pedalboard is
// non-nil it is owned by a bank registered in the cursor's registry.
type Cursor struct {
	registry *model.Registry
	selected *model.Pedalboard
	logger   *slog.Logger
}

// Option configures a Cursor.
type Option func(*Cursor)

// WithLogger sets the logger used for selection changes.
func WithLogger(l *slog.Logger) Option {
	return func(c *Cursor) {
		c.logger = l
	}
}

// New creates a cursor with nothing selected.
func New(registry *model.Registry, opts ...Option) *Cursor {
	c := &Cursor{
		registry: registry,
		logger:   slog.Default(),
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// Set replaces the held reference unconditionally. Passing nil clears it.
func (c *Cursor) Set(p *model.Pedalboard) {
	c.selected = p
	c.logger.Debug("current pedalboard set",
		"pedalboard", p,
		"bank_number", c.BankNumber(),
		"pedalboard_number", c.PedalboardNumber(),
	)
}

// Pedalboard returns the held reference, or nil.
func (c *Cursor) Pedalboard() *model.Pedalboard {
	return c.selected
}

// Bank returns the current pedalboard's owning bank, or nil.
func (c *Cursor) Bank() *model.Bank {
	if c.selected == nil {
		return nil
	}
	return c.selected.Bank()
}

// BankNumber returns the current bank's live index in the registry.
// Returns -1 when nothing is selected or the bank is not registered.
func (c *Cursor) BankNumber() int {
	b := c.Bank()
	if b == nil {
		return -1
	}
	return c.registry.IndexOf(b)
}

// PedalboardNumber returns the current pedalboard's live index in its bank.
// Returns -1 when nothing is selected or the pedalboard is unowned.
func (c *Cursor) PedalboardNumber() int {
	if c.selected == nil {
		return -1
	}
	return c.selected.Index()
}

// Is reports whether p is the current pedalboard.
func (c *Cursor) Is(p *model.Pedalboard) bool {
	return p != nil && c.selected == p
}

// Repair reselects after the current pedalboard was removed from bank,
// where vacated is the position it held.
//
// Order of preference:
//  1. the pedalboard now occupying vacated in the same bank
//  2. the last pedalboard of the same bank (the removed one was last)
//  3. Fallback()
//
// Returns the new selection, which may be nil.
func (c *Cursor) Repair(bank *model.Bank, vacated int) *model.Pedalboard {
	next := bank.At(vacated)
	if next == nil && bank.Len() > 0 {
		next = bank.At(bank.Len() - 1)
	}
	if next == nil || !c.registry.Contains(bank) {
		next = c.fallback()
	}
	c.selected = next
	c.logger.Info("current pedalboard repaired",
		"bank", bank,
		"vacated", vacated,
		"pedalboard", next,
	)
	return next
}

// Fallback selects the first pedalboard of the first non-empty registered
// bank, or clears the selection when every bank is empty.
// Returns the new selection.
func (c *Cursor) Fallback() *model.Pedalboard {
	c.selected = c.fallback()
	c.logger.Info("current pedalboard fell back", "pedalboard", c.selected)
	return c.selected
}

func (c *Cursor) fallback() *model.Pedalboard {
	for _, b := range c.registry.Banks() {
		if b.Len() > 0 {
			return b.At(0)
		}
	}
	return nil
}

// Next selects the following pedalboard in the current bank, wrapping to
// the first. With nothing selected it behaves like Fallback.
func (c *Cursor) Next() *model.Pedalboard {
	return c.step(1)
}

// Previous selects the preceding pedalboard in the current bank, wrapping
// to the last. With nothing selected it behaves like Fallback.
func (c *Cursor) Previous() *model.Pedalboard {
	return c.step(-1)
}

func (c *Cursor) step(delta int) *model.Pedalboard {
	b := c.Bank()
	if b == nil || !c.registry.Contains(b) || b.Len() == 0 {
		return c.Fallback()
	}
	i := (c.selected.Index() + delta + b.Len()) % b.Len()
	c.Set(b.At(i))
	return c.selected
}

// NextBank selects the first pedalboard of the next non-empty registered
// bank, wrapping around. With nothing selected it behaves like Fallback.
func (c *Cursor) NextBank() *model.Pedalboard {
	return c.stepBank(1)
}

// PreviousBank selects the first pedalboard of the previous non-empty
// registered bank, wrapping around.
func (c *Cursor) PreviousBank() *model.Pedalboard {
	return c.stepBank(-1)
}

func (c *Cursor) stepBank(delta int) *model.Pedalboard {
	start := c.BankNumber()
	n := c.registry.Len()
	if start < 0 || n == 0 {
		return c.Fallback()
	}
	for k := 1; k <= n; k++ {
		b := c.registry.At(((start+delta*k)%n + n) % n)
		if b.Len() > 0 {
			c.Set(b.At(0))
			return c.selected
		}
	}
	return c.selected
}
