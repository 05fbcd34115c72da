// Package common defines shared constants, sentinel errors and small helpers
// used across the server and client. Callers should use errors.Is / errors.As
// to match these values.
package common

import (
	"errors"
	"fmt"
)

var (
	// Repository-level errors.
	ErrorNotFound      = errors.New("not found")
	ErrorAlreadyExists = errors.New("already exists")
	ErrorAmbiguous     = errors.New("ambiguous match")

	// Service-level errors (generic/internal flow control).
	ErrorInternal     = errors.New("internal error")
	ErrorUnauthorized = errors.New("unauthorized")
)

// ConflictError reports a uniqueness violation detected by the store.
// SQLState and Constraint carry the driver diagnostics when available.
type ConflictError struct {
	SQLState   string
	Constraint string
	Err        error
}

func (e *ConflictError) Error() string {
	if e.Constraint != "" {
		return fmt.Sprintf("conflict on %s (sqlstate %s)", e.Constraint, e.SQLState)
	}
	if e.SQLState != "" {
		return fmt.Sprintf("conflict (sqlstate %s)", e.SQLState)
	}
	return "conflict"
}

// Unwrap exposes ErrorAlreadyExists and the underlying driver error.
func (e *ConflictError) Unwrap() []error {
	if e.Err == nil {
		return []error{ErrorAlreadyExists}
	}
	return []error{ErrorAlreadyExists, e.Err}
}
