/*
errors.go - Error types for the adjudication engine

PURPOSE:
  The engine never raises on malformed business input - amounts coerce to
  zero, unknown categories are excluded, absent evidence reads as false.
  The only errors it surfaces are structural contract violations: a request
  whose shape cannot be adjudicated at all. These are distinct from the
  ordinary Declined/EstimateOnly business outcomes, which are not errors.

USAGE:
  Callers distinguish contract violations with errors.Is:

    if errors.Is(err, claims.ErrInvalidInput) {
        // 400, not 500
    }
*/
package claims

import (
	"errors"
	"fmt"
)

// ErrInvalidInput is the sentinel for structural contract violations.
// Business declines never produce this error.
var ErrInvalidInput = errors.New("invalid adjudication input")

// InvalidInputError carries which field violated the contract and why.
type InvalidInputError struct {
	Field  string
	Detail string
}

func (e *InvalidInputError) Error() string {
	return fmt.Sprintf("invalid input: %s: %s", e.Field, e.Detail)
}

func (e *InvalidInputError) Unwrap() error {
	return ErrInvalidInput
}
