package core

import (
	"errors"
	"fmt"
)

var (
	ErrValidation           = errors.New("validation failed")
	ErrReferentialIntegrity = errors.New("referential integrity violation")
	ErrNotFound             = errors.New("not found")
	ErrInvalidFactor        = errors.New("invalid mood factor")
	ErrUnknownEnum          = errors.New("unknown enum value")
)

// ValidationError describes malformed input rejected at the boundary.
type ValidationError struct {
	Field  string
	Reason string
}

func NewValidationError(field, reason string) *ValidationError {
	return &ValidationError{Field: field, Reason: reason}
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("invalid %s: %s", e.Field, e.Reason)
}

func (e *ValidationError) Is(target error) bool {
	return target == ErrValidation
}
