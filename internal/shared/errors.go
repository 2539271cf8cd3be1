package shared

import "errors"

var (
	// ErrValidation indicates malformed or missing input.
	ErrValidation = errors.New("validation failed")
	// ErrDuplicateEmail indicates the email address is already registered.
	ErrDuplicateEmail = errors.New("email already registered")
	// ErrNotFound indicates resource not found.
	ErrNotFound = errors.New("not found")
	// ErrInvalidCredentials indicates login failure.
	ErrInvalidCredentials = errors.New("invalid credentials")
	// ErrUnauthenticated indicates a missing, expired, or revoked bearer token.
	ErrUnauthenticated = errors.New("not authenticated")
	// ErrEmailImmutable occurs when an update attempts to change the email.
	ErrEmailImmutable = errors.New("email cannot be changed")
	// ErrCreatedAtImmutable occurs when an update attempts to set the creation timestamp.
	ErrCreatedAtImmutable = errors.New("created date cannot be changed")
	// ErrStore masks storage failures so internals never leak to callers.
	ErrStore = errors.New("storage failure")
)
