package setlist

import (
	"fmt"
	"strings"
)

// Validation error codes (E200-E299)
const (
	ErrBankNameEmpty       = "E201" // bank name is required
	ErrDuplicateBank       = "E202" // bank names must be unique
	ErrPedalboardNameEmpty = "E203" // pedalboard name is required
	ErrDuplicatePedalboard = "E204" // pedalboard names must be unique within a bank
	ErrEffectNameEmpty     = "E205" // effect names must be non-empty
	ErrNoBanks             = "E206" // a setlist needs at least one bank
)

// ValidationError represents one setlist rule violation.
type ValidationError struct {
	Field   string `json:"field"`
	Message string `json:"message"`
	Code    string `json:"code"`
}

// Error implements the error interface.
func (e ValidationError) Error() string {
	return fmt.Sprintf("[%s] %s: %s", e.Code, e.Field, e.Message)
}

// ValidationErrors collects every violation found in one setlist.
type ValidationErrors []ValidationError

func (v ValidationErrors) Error() string {
	msgs := make([]string, len(v))
	for i, e := range v {
		msgs[i] = e.Error()
	}
	return strings.Join(msgs, "; ")
}

// Validate checks names across specs.
// Returns all errors found (does not fail-fast).
func Validate(specs []BankSpec) []ValidationError {
	var errs []ValidationError

	if len(specs) == 0 {
		errs = append(errs, ValidationError{
			Field:   "banks",
			Message: "at least one bank is required",
			Code:    ErrNoBanks,
		})
	}

	seenBanks := make(map[string]bool)
	for i, b := range specs {
		field := fmt.Sprintf("banks[%d]", i)
		if strings.TrimSpace(b.Name) == "" {
			errs = append(errs, ValidationError{
				Field:   field + ".name",
				Message: "bank name is required and must be non-empty",
				Code:    ErrBankNameEmpty,
			})
		} else if seenBanks[b.Name] {
			errs = append(errs, ValidationError{
				Field:   field + ".name",
				Message: fmt.Sprintf("duplicate bank name %q", b.Name),
				Code:    ErrDuplicateBank,
			})
		}
		seenBanks[b.Name] = true

		errs = append(errs, validatePedalboards(field, b.Pedalboards)...)
	}
	return errs
}

func validatePedalboards(bankField string, pedalboards []PedalboardSpec) []ValidationError {
	var errs []ValidationError
	seen := make(map[string]bool)

	for j, p := range pedalboards {
		field := fmt.Sprintf("%s.pedalboards[%d]", bankField, j)
		if strings.TrimSpace(p.Name) == "" {
			errs = append(errs, ValidationError{
				Field:   field + ".name",
				Message: "pedalboard name is required and must be non-empty",
				Code:    ErrPedalboardNameEmpty,
			})
		} else if seen[p.Name] {
			errs = append(errs, ValidationError{
				Field:   field + ".name",
				Message: fmt.Sprintf("duplicate pedalboard name %q", p.Name),
				Code:    ErrDuplicatePedalboard,
			})
		}
		seen[p.Name] = true

		for k, e := range p.Effects {
			if strings.TrimSpace(e) == "" {
				errs = append(errs, ValidationError{
					Field:   fmt.Sprintf("%s.effects[%d]", field, k),
					Message: "effect name must be non-empty",
					Code:    ErrEffectNameEmpty,
				})
			}
		}
	}
	return errs
}
