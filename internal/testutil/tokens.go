package testutil

import "github.com/roach88/pedalboard/internal/notify"

// FixedTokenGenerator returns the same token on every call.
//
// Unlike controller.SequenceGenerator, every caller gets the identical token,
// which keeps golden traces byte-stable when a scenario asks for generated
// tokens.
type FixedTokenGenerator struct {
	token notify.Token
}

// NewFixedTokenGenerator creates the generator. An empty token means
// "test-token-default".
func NewFixedTokenGenerator(token string) *FixedTokenGenerator {
	if token == "" {
		token = "test-token-default"
	}
	return &FixedTokenGenerator{token: notify.Token(token)}
}

// Generate returns the fixed token.
func (g *FixedTokenGenerator) Generate() notify.Token {
	return g.token
}
