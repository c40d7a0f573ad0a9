package controller

import (
	"log/slog"

	"github.com/roach88/pedalboard/internal/current"
	"github.com/roach88/pedalboard/internal/model"
)

// Banks registers and unregisters banks.
//
// Bank changes are not announced on the pedalboard bus; the bus carries a
// single event shape. Deleting the bank that holds the current pedalboard
// moves the selection to the cursor's fallback.
type Banks struct {
	registry *model.Registry
	cursor   *current.Cursor
	logger   *slog.Logger
}

// NewBanks creates the bank controller.
func NewBanks(registry *model.Registry, cursor *current.Cursor, opts ...Option) *Banks {
	o := buildOptions(opts)
	return &Banks{
		registry: registry,
		cursor:   cursor,
		logger:   o.logger,
	}
}

// Create registers b, giving it the next bank index.
// Its pedalboards become eligible for pedalboard mutations.
func (c *Banks) Create(b *model.Bank) error {
	if b == nil {
		return newBankError(ErrCodeBankNotRegistered, nil, "bank is nil")
	}
	if c.registry.Contains(b) {
		return newBankError(ErrCodeBankAlreadyRegistered, b, "bank is already registered at index %d", b.Index())
	}

	index := c.registry.Register(b)
	c.logger.Info("bank created",
		"bank", b.Name,
		"bank_id", b.ID,
		"index", index,
		"pedalboards", b.Len(),
	)
	return nil
}

// Delete unregisters b. Banks after it shift down by one index.
// If the current pedalboard lived in b the cursor falls back.
func (c *Banks) Delete(b *model.Bank) error {
	if !c.registry.Contains(b) {
		return newBankError(ErrCodeBankNotRegistered, b, "bank is not registered")
	}

	holdsCurrent := c.cursor.Bank() == b
	index := c.registry.Unregister(b)

	c.logger.Info("bank deleted",
		"bank", b.Name,
		"bank_id", b.ID,
		"index", index,
	)

	if holdsCurrent {
		c.cursor.Fallback()
	}
	return nil
}

// Banks returns the registered banks in order.
func (c *Banks) Banks() []*model.Bank {
	return c.registry.Banks()
}
