package controller

import (
	"errors"
	"fmt"

	"github.com/roach88/pedalboard/internal/model"
)

// ErrInvalidStructure is the single error kind surfaced by the controllers.
// Every *StructuralError matches it through errors.Is.
var ErrInvalidStructure = errors.New("invalid structural state")

// StructuralErrorCode says which structural precondition failed.
type StructuralErrorCode string

const (
	// ErrCodeBankUnset: the pedalboard is not owned by any bank.
	ErrCodeBankUnset StructuralErrorCode = "BANK_UNSET"

	// ErrCodeBankUnregistered: the owning bank is not in the registry.
	ErrCodeBankUnregistered StructuralErrorCode = "BANK_UNREGISTERED"

	// ErrCodeAlreadyInBank: a replacement is already part of the target bank.
	ErrCodeAlreadyInBank StructuralErrorCode = "ALREADY_IN_BANK"

	// ErrCodeOwnedElsewhere: a replacement is owned by another bank.
	ErrCodeOwnedElsewhere StructuralErrorCode = "OWNED_ELSEWHERE"

	// ErrCodeIndexOutOfRange: a move target is outside [0, len).
	ErrCodeIndexOutOfRange StructuralErrorCode = "INDEX_OUT_OF_RANGE"

	// ErrCodeBankAlreadyRegistered: the bank is registered already.
	ErrCodeBankAlreadyRegistered StructuralErrorCode = "BANK_ALREADY_REGISTERED"

	// ErrCodeBankNotRegistered: the bank to delete is not registered.
	ErrCodeBankNotRegistered StructuralErrorCode = "BANK_NOT_REGISTERED"
)

// StructuralError reports a failed precondition.
// It is always returned before any structural change or notification.
type StructuralError struct {
	// Code identifies the failed precondition.
	Code StructuralErrorCode

	// Message is a human-readable description.
	Message string

	// Pedalboard is the offending pedalboard, when there is one.
	Pedalboard *model.Pedalboard

	// Bank is the offending bank, when there is one.
	Bank *model.Bank
}

// Error implements the error interface.
func (e *StructuralError) Error() string {
	switch {
	case e.Pedalboard != nil:
		return fmt.Sprintf("%s: %s (pedalboard=%s)", e.Code, e.Message, e.Pedalboard.Name)
	case e.Bank != nil:
		return fmt.Sprintf("%s: %s (bank=%s)", e.Code, e.Message, e.Bank.Name)
	default:
		return fmt.Sprintf("%s: %s", e.Code, e.Message)
	}
}

// Is makes every StructuralError match ErrInvalidStructure.
func (e *StructuralError) Is(target error) bool {
	return target == ErrInvalidStructure
}

// IsStructuralError returns true if err is, or wraps, a StructuralError.
func IsStructuralError(err error) bool {
	var se *StructuralError
	return errors.As(err, &se)
}

// CodeOf returns the StructuralErrorCode carried by err, or "" when err is
// not a StructuralError.
func CodeOf(err error) StructuralErrorCode {
	var se *StructuralError
	if errors.As(err, &se) {
		return se.Code
	}
	return ""
}

func newPedalboardError(code StructuralErrorCode, p *model.Pedalboard, format string, args ...any) *StructuralError {
	return &StructuralError{
		Code:       code,
		Message:    fmt.Sprintf(format, args...),
		Pedalboard: p,
	}
}

func newBankError(code StructuralErrorCode, b *model.Bank, format string, args ...any) *StructuralError {
	return &StructuralError{
		Code:    code,
		Message: fmt.Sprintf(format, args...),
		Bank:    b,
	}
}
