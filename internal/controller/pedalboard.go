package controller

import (
	"log/slog"

	"github.com/roach88/pedalboard/internal/current"
	"github.com/roach88/pedalboard/internal/model"
	"github.com/roach88/pedalboard/internal/notify"
)

// Pedalboards announces and performs pedalboard mutations.
type Pedalboards struct {
	registry *model.Registry
	bus      *notify.Bus
	cursor   *current.Cursor
	tokens   TokenGenerator
	logger   *slog.Logger
}

// Option configures a controller.
type Option func(*options)

type options struct {
	logger *slog.Logger
	tokens TokenGenerator
}

// WithLogger sets the controller's logger. Default: slog.Default().
func WithLogger(l *slog.Logger) Option {
	return func(o *options) {
		o.logger = l
	}
}

// WithTokenGenerator sets the generator used by NewToken.
// Default: UUIDv7Generator.
func WithTokenGenerator(g TokenGenerator) Option {
	return func(o *options) {
		o.tokens = g
	}
}

func buildOptions(opts []Option) options {
	o := options{
		logger: slog.Default(),
		tokens: UUIDv7Generator{},
	}
	for _, opt := range opts {
		opt(&o)
	}
	return o
}

// NewPedalboards creates the pedalboard controller.
func NewPedalboards(registry *model.Registry, bus *notify.Bus, cursor *current.Cursor, opts ...Option) *Pedalboards {
	o := buildOptions(opts)
	return &Pedalboards{
		registry: registry,
		bus:      bus,
		cursor:   cursor,
		tokens:   o.tokens,
		logger:   o.logger,
	}
}

// NewToken issues a fresh correlation token for a client that has none.
func (c *Pedalboards) NewToken() notify.Token {
	return c.tokens.Generate()
}

// Created announces that p was appended to (or inserted into) its bank.
//
// The append itself is the caller's job; this call only checks that p is
// owned by a registered bank and emits one CREATED event at p's live index.
func (c *Pedalboards) Created(p *model.Pedalboard, token notify.Token) error {
	bank, err := c.ownerOf(p)
	if err != nil {
		return c.reject("created", p, token, err)
	}

	c.announce(p, notify.Created, token, p.Index(), bank)
	return nil
}

// Update announces that p's content changed (e.g. it was renamed).
// Emits one UPDATED event at p's live index. Cursor fields stay correct
// without any action because they are derived.
func (c *Pedalboards) Update(p *model.Pedalboard, token notify.Token) error {
	bank, err := c.ownerOf(p)
	if err != nil {
		return c.reject("update", p, token, err)
	}

	c.announce(p, notify.Updated, token, p.Index(), bank)
	return nil
}

// Delete removes p from its bank and emits one DELETED event carrying the
// index p held before removal. If p was the current pedalboard, the cursor
// is repaired after the event is emitted.
func (c *Pedalboards) Delete(p *model.Pedalboard, token notify.Token) error {
	bank, err := c.ownerOf(p)
	if err != nil {
		return c.reject("delete", p, token, err)
	}

	wasCurrent := c.cursor.Is(p)
	index := bank.Remove(p)

	c.announce(p, notify.Deleted, token, index, bank)

	if wasCurrent {
		c.cursor.Repair(bank, index)
	}
	return nil
}

// Replace substitutes newP for old at old's position in old's bank and
// emits one UPDATED event for newP at that index.
//
// newP must not already be in the bank, and must not be owned by another
// bank. If old was the current pedalboard, newP becomes current.
func (c *Pedalboards) Replace(old, newP *model.Pedalboard, token notify.Token) error {
	bank, err := c.ownerOf(old)
	if err != nil {
		return c.reject("replace", old, token, err)
	}
	if newP == nil {
		return c.reject("replace", old, token,
			newPedalboardError(ErrCodeBankUnset, old, "replacement pedalboard is nil"))
	}
	if newP.Bank() == bank {
		return c.reject("replace", newP, token,
			newPedalboardError(ErrCodeAlreadyInBank, newP, "replacement is already in bank %q", bank.Name))
	}
	if newP.Bank() != nil {
		return c.reject("replace", newP, token,
			newPedalboardError(ErrCodeOwnedElsewhere, newP, "replacement belongs to bank %q", newP.Bank().Name))
	}

	wasCurrent := c.cursor.Is(old)
	index := old.Index()
	bank.Set(index, newP)

	c.announce(newP, notify.Updated, token, index, bank)

	if wasCurrent {
		c.cursor.Set(newP)
	}
	return nil
}

// Move relocates p to newIndex within its bank, preserving the relative
// order of every other pedalboard.
//
// The relocation completes before anything is announced. Two events follow,
// in order: DELETED at the old index, then CREATED at newIndex, both with
// the same token. The cursor needs no update because its fields are derived.
func (c *Pedalboards) Move(p *model.Pedalboard, newIndex int, token notify.Token) error {
	bank, err := c.ownerOf(p)
	if err != nil {
		return c.reject("move", p, token, err)
	}
	if newIndex < 0 || newIndex >= bank.Len() {
		return c.reject("move", p, token,
			newPedalboardError(ErrCodeIndexOutOfRange, p, "index %d outside [0, %d)", newIndex, bank.Len()))
	}

	oldIndex := p.Index()
	bank.Remove(p)
	bank.Insert(newIndex, p)

	c.announce(p, notify.Deleted, token, oldIndex, bank)
	c.announce(p, notify.Created, token, newIndex, bank)
	return nil
}

// ownerOf returns p's bank after checking it is set and registered.
func (c *Pedalboards) ownerOf(p *model.Pedalboard) (*model.Bank, error) {
	if p == nil {
		return nil, newPedalboardError(ErrCodeBankUnset, nil, "pedalboard is nil")
	}
	bank := p.Bank()
	if bank == nil {
		return nil, newPedalboardError(ErrCodeBankUnset, p, "pedalboard has not been added to any bank")
	}
	if !c.registry.Contains(bank) {
		return nil, newPedalboardError(ErrCodeBankUnregistered, p, "bank %q is not registered", bank.Name)
	}
	return bank, nil
}

func (c *Pedalboards) announce(p *model.Pedalboard, typ notify.UpdateType, token notify.Token, index int, origin *model.Bank) {
	ev := notify.UpdateEvent{
		Pedalboard: p,
		Type:       typ,
		Token:      token,
		Index:      index,
		Origin:     origin,
	}
	c.bus.Publish(ev)

	c.logger.Info("pedalboard "+typ.String(),
		"pedalboard", p.Name,
		"pedalboard_id", p.ID,
		"bank", origin.Name,
		"index", index,
		"token", string(token),
	)
}

func (c *Pedalboards) reject(op string, p *model.Pedalboard, token notify.Token, err error) error {
	attrs := []any{"op", op, "error", err, "token", string(token)}
	if p != nil {
		attrs = append(attrs, "pedalboard", p.Name)
	}
	c.logger.Warn("pedalboard mutation rejected", attrs...)
	return err
}
