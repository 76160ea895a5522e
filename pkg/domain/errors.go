package domain

import "errors"

// sentinel errors for the notification core; callers match with errors.Is
// and map them to transport-level responses at the boundary
var (
	// ErrNotFound indicates a reference to a non-existent or non-owned record
	ErrNotFound = errors.New("not found")

	// ErrValidation indicates malformed input, never retried
	ErrValidation = errors.New("invalid input")
)
