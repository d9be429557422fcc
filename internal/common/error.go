// Package common defines shared constants and sentinel errors used across
// client and server layers of messagely. Callers should use errors.Is to
// match these values.
package common

import "errors"

var (
	// Repository-level errors.
	ErrorNotFound          = errors.New("not found")
	ErrorDuplicateUsername = errors.New("username already taken")

	// Validation errors (malformed or missing fields).
	ErrorInvalidInput = errors.New("invalid input")

	// Service-level errors.
	ErrorInternal        = errors.New("internal error")
	ErrorUnauthenticated = errors.New("unauthenticated")
	ErrorForbidden       = errors.New("forbidden")

	// ErrorUnavailable marks a store that could not be reached in time.
	// It is retryable; callers decide whether to retry.
	ErrorUnavailable = errors.New("storage unavailable")

	// Auth errors (invalid or malformed token).
	ErrInvalidToken = errors.New("invalid token")

	// Token lifecycle errors.
	ErrTokenExpired = errors.New("token expired")
)
