// Package identity defines registered principals and the credential store
// that persists them.
package identity

import (
	"github.com/chtime/chtime/internal/timex"
)

// Role is the privilege tier of an identity. Exactly two tiers exist.
type Role string

const (
	RoleAdmin Role = "admin"
	RoleUser  Role = "user"
)

// Identity is one registered principal. CredentialHash and Salt are
// hex-encoded; the plaintext secret is never stored anywhere.
//
// The JSON field names are part of the persisted store format and must
// not change.
type Identity struct {
	// ID is an opaque unique identifier, immutable after creation.
	ID string `json:"id"`

	// Username is unique case-insensitively and immutable (no rename).
	Username string `json:"username"`

	// Email is unique case-insensitively and usable interchangeably
	// with Username for login lookup.
	Email string `json:"email"`

	// CredentialHash is the salted PBKDF2 output, hex-encoded.
	CredentialHash string `json:"credentialHash"`

	// Salt is the per-identity random salt, hex-encoded, never reused.
	Salt string `json:"salt"`

	Role Role `json:"role"`

	// CreatedAt is set once; the earliest value across all identities
	// marks the "first user" eligible for the admin bootstrap.
	CreatedAt timex.Time `json:"createdAt"`

	// LastLoginAt is updated on every successful login.
	LastLoginAt *timex.Time `json:"lastLoginAt,omitempty"`
}

// IsAdmin reports whether the identity holds the admin tier.
func (i *Identity) IsAdmin() bool {
	return i.Role == RoleAdmin
}
