package domain

import "errors"

// Sentinel errors shared across services, handlers, and the realtime channel.
// The API error handler maps each to a deterministic HTTP status.
var (
	// ErrValidation covers missing or malformed required fields (400).
	ErrValidation = errors.New("validation failed")

	// ErrMissingToken is returned when an Authorization header is present
	// but carries no usable bearer token (400). An absent header is not an
	// error: the caller proceeds as anonymous.
	ErrMissingToken = errors.New("token is required")

	// ErrInvalidToken covers bad signatures and expired credentials (401).
	// An invalid credential never falls back to anonymous.
	ErrInvalidToken = errors.New("invalid or expired token")

	// ErrInvalidCredentials is returned on login with a wrong secret phrase
	// or an unknown username (401 in both cases, so the endpoint does not
	// leak which usernames exist).
	ErrInvalidCredentials = errors.New("invalid username or secret phrase")

	// ErrAccessDenied is returned when the access policy forbids the
	// operation, including roles outside the enumerated set (403).
	ErrAccessDenied = errors.New("access denied")

	// ErrUserNotFound reports a missing user row (404).
	ErrUserNotFound = errors.New("user not found")

	// ErrUserExists reports a username uniqueness violation (409).
	ErrUserExists = errors.New("user already exists")

	// ErrProductNotFound reports a missing product row (404).
	ErrProductNotFound = errors.New("product not found")

	// ErrTooManyAttempts is returned when the login rate limiter trips (429).
	ErrTooManyAttempts = errors.New("too many login attempts")
)
