// Package common defines sentinel errors shared across the portal client
// layers. Callers should use errors.Is to match these values.
package common

import "errors"

var (
	// Lookup errors.
	ErrNotFound = errors.New("not found")

	// Transport-level errors (network failure, malformed response body).
	ErrUnavailable = errors.New("server unavailable")

	// Generic auth failure.
	ErrUnauthorized = errors.New("unauthorized")

	// Client-local validation failures. These never reach the network.
	ErrValidation     = errors.New("validation error")
	ErrActionNotLegal = errors.New("action not allowed in current state")
	ErrActionInFlight = errors.New("another action is already in progress for this candidate")
	ErrInvalidAction  = errors.New("invalid action")

	// Token lifecycle errors, kept distinct from transport failures so the
	// UI can explain expired vs revoked vs plainly invalid differently.
	ErrTokenExpired = errors.New("token expired")
	ErrTokenInvalid = errors.New("invalid token")
	ErrTokenRevoked = errors.New("token revoked")
)
