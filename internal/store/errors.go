package store

import "errors"

// Error Handling Guidelines:
// - Stores: wrap driver errors with fmt.Errorf("context: %w", err)
// - Services map store errors to apperrors.* for the HTTP layer

var (
	// ErrNotFound indicates that a requested testimonial does not exist.
	// Malformed ids are reported as ErrNotFound too.
	ErrNotFound = errors.New("resource not found")
)
