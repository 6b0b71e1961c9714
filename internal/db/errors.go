// Package db holds shared database error types for the storage backends.
package db

import "errors"

// Sentinel errors for key-value operations.
var (
	ErrKeyNotFound = errors.New("db: key not found")
)

// Error wraps an underlying error with the operation name for diagnostics.
type Error struct {
	Op  string
	Err error
}

func (e *Error) Error() string { return e.Op + ": " + e.Err.Error() }

func (e *Error) Unwrap() error { return e.Err }
