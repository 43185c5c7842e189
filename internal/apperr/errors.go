// Package apperr holds sentinel errors shared across layers.
package apperr

import "errors"

var (
	// ErrNotFound reports a missing key or checking.
	ErrNotFound = errors.New("not found")
	// ErrInvalidInput reports a value rejected before it reaches storage.
	ErrInvalidInput = errors.New("invalid input")
)
