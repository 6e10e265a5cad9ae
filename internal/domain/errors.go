package domain

import (
	"errors"
	"fmt"
)

var (
	// ErrValidation signals malformed or out-of-range input.
	ErrValidation = errors.New("validation failed")
	// ErrRateLimited signals admission rejection.
	ErrRateLimited = errors.New("rate limited")
	// ErrBackendUnavailable signals a backend that stayed down through retries.
	ErrBackendUnavailable = errors.New("backend unavailable")
	// ErrCircuitOpen signals a short-circuited call to a failing backend.
	ErrCircuitOpen = errors.New("circuit open")
	// ErrShardNotFound signals an unknown shard key on the index backend.
	ErrShardNotFound = errors.New("shard not found")
)

// ValidationError wraps ErrValidation with the offending field.
type ValidationError struct {
	Field  string
	Reason string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("%s: %s: %s", ErrValidation.Error(), e.Field, e.Reason)
}

func (e *ValidationError) Unwrap() error { return ErrValidation }

// NewValidation creates a field-level validation error.
func NewValidation(field, reason string) error {
	return &ValidationError{Field: field, Reason: reason}
}
