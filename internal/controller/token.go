package controller

import (
	"fmt"
	"sync"

	"github.com/google/uuid"

	"github.com/roach88/pedalboard/internal/notify"
)

// TokenGenerator issues correlation tokens for clients that want one.
// Implemented by UUIDv7Generator (production) and SequenceGenerator (tests).
type TokenGenerator interface {
	Generate() notify.Token
}

// UUIDv7Generator generates time-sortable UUIDv7 tokens.
//
// Thread-safety: stateless and safe for concurrent use.
type UUIDv7Generator struct{}

// Generate returns a new hyphenated UUIDv7.
// Panics if UUID generation fails (should never happen in practice).
func (UUIDv7Generator) Generate() notify.Token {
	return notify.Token(uuid.Must(uuid.NewV7()).String())
}

// SequenceGenerator returns prefix-1, prefix-2, ... for deterministic runs.
//
// Thread-safety: safe for concurrent use via internal mutex.
type SequenceGenerator struct {
	mu     sync.Mutex
	prefix string
	n      int
}

// NewSequenceGenerator creates a generator; an empty prefix means "token".
func NewSequenceGenerator(prefix string) *SequenceGenerator {
	if prefix == "" {
		prefix = "token"
	}
	return &SequenceGenerator{prefix: prefix}
}

// Generate returns the next token in the sequence.
func (g *SequenceGenerator) Generate() notify.Token {
	g.mu.Lock()
	defer g.mu.Unlock()
	g.n++
	return notify.Token(fmt.Sprintf("%s-%d", g.prefix, g.n))
}
