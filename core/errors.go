package core

import "errors"

// Deterministic request-scoped failures. Services return these; the router
// maps them onto HTTP statuses. None of them are retried or fatal.
var (
	// ErrMalformedCredential is returned when the Authorization header is
	// empty or lacks the Bearer prefix.
	ErrMalformedCredential = errors.New("malformed credential")

	// ErrInvalidCredential is returned for any token that fails verification.
	// Signature mismatch, corruption, and expiry are deliberately not
	// distinguished to the caller.
	ErrInvalidCredential = errors.New("invalid credential")

	// ErrInvalidCredentials is returned when username/password is wrong at login.
	ErrInvalidCredentials = errors.New("invalid credentials")

	// ErrForbidden is returned when a valid identity fails the
	// owner-or-admin check.
	ErrForbidden = errors.New("forbidden")

	// ErrNotFound is returned when the target resource id has no backing row.
	ErrNotFound = errors.New("not found")

	// ErrDuplicateUser is returned on sign-up with an already-used username.
	ErrDuplicateUser = errors.New("duplicate user")

	// ErrValidation is returned when required request fields are missing or
	// blank. Anything a service returns that does not wrap one of these
	// sentinels is an infrastructure failure, not a caller mistake.
	ErrValidation = errors.New("validation error")
)
