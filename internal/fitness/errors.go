// Package fitness computes derived fitness metrics (BMI, BMR, TDEE and
// calorie targets) from personnel biometric data. All functions are pure.
package fitness

import (
	"errors"
	"fmt"
)

// Sentinel errors for calculator inputs.
var (
	// ErrInvalidGender indicates a gender outside the closed two-value set.
	ErrInvalidGender = errors.New("fitness: invalid gender")

	// ErrInvalidDate indicates a birth date that could not be parsed.
	ErrInvalidDate = errors.New("fitness: invalid date")

	// ErrIncompleteProfile indicates the personnel record lacks data required
	// for a full stats summary.
	ErrIncompleteProfile = errors.New("fitness: incomplete profile")
)

// ValidationError reports a malformed calculator input.
type ValidationError struct {
	Field   string
	Value   any
	Wrapped error
}

// Error implements the error interface.
func (e *ValidationError) Error() string {
	if e.Value != nil {
		return fmt.Sprintf("%v: field %q (got: %v)", e.Wrapped, e.Field, e.Value)
	}
	return fmt.Sprintf("%v: field %q", e.Wrapped, e.Field)
}

// Unwrap returns the underlying sentinel error.
func (e *ValidationError) Unwrap() error {
	return e.Wrapped
}
