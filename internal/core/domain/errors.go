package domain

import "errors"

var (
	// ErrValidation covers malformed or missing input. Nothing is mutated.
	ErrValidation = errors.New("validation failed")

	// ErrNotFound means a referenced entity is absent from the store.
	ErrNotFound = errors.New("not found")

	// ErrPaymentVerification means the client-supplied signature did not match.
	// The expected signature is never attached to this error.
	ErrPaymentVerification = errors.New("payment verification failed")

	// ErrInternal wraps unexpected store or cache failures; retryable.
	ErrInternal = errors.New("internal error")
)
