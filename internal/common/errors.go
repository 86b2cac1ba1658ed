// Package common defines shared constants and sentinel errors used across
// the chtime auth subsystem. Callers should use errors.Is to match these
// values; none of them is ever allowed to escape as a panic.
package common

import "errors"

var (
	// Repository-level errors.
	ErrNotFound = errors.New("not found")

	// Environment errors. The secure random source refusing to produce
	// bytes fails the operation, never silently degrades.
	ErrCryptoUnavailable = errors.New("secure random source unavailable")

	// Validation errors, reported in deterministic order (first failure
	// wins) so the UI can map each one to a localizable message.
	ErrUsernameTooShort  = errors.New("username must be at least 3 characters")
	ErrEmailInvalid      = errors.New("valid email address required")
	ErrSecretTooShort    = errors.New("password must be at least 6 characters")
	ErrDuplicateUsername = errors.New("username already taken")
	ErrDuplicateEmail    = errors.New("email already registered")

	// Authentication errors. Kept distinct on purpose; see the
	// username-enumeration note in DESIGN.md before unifying them.
	ErrIdentityNotFound  = errors.New("identity not found")
	ErrInvalidCredential = errors.New("invalid credential")

	// Authorization / policy errors.
	ErrRegistrationDisabled = errors.New("registration is currently disabled")
	ErrNotAuthorized        = errors.New("not authorized")

	// Bootstrap errors. ErrAlreadyAdmin signals a no-op, not a fault.
	ErrNoIdentities = errors.New("no identities found")
	ErrAlreadyAdmin = errors.New("identity is already admin")
)
