// Package cryptox implements the credential hashing primitives: salted
// PBKDF2 key derivation, constant-time verification, and generation of
// salts and session tokens from the secure random source.
package cryptox

import (
	"crypto/sha256"
	"crypto/subtle"
	"encoding/hex"

	"golang.org/x/crypto/pbkdf2"

	"github.com/chtime/chtime/internal/common"
)

const (
	// DefaultIterations matches the work factor of existing persisted
	// credential hashes. Changing it invalidates stored credentials.
	DefaultIterations = 100_000

	// KeyLength is the derived hash size in bytes.
	KeyLength = 32

	// SaltLength is the per-identity salt size in bytes.
	SaltLength = 32

	// TokenLength is the session token size in bytes before hex encoding.
	TokenLength = 32
)

// Hasher derives and verifies salted credential hashes. It is stateless
// apart from the configured work factor.
type Hasher struct {
	iterations int
}

// NewHasher returns a Hasher with the given PBKDF2 iteration count.
// Non-positive values fall back to DefaultIterations.
func NewHasher(iterations int) *Hasher {
	if iterations <= 0 {
		iterations = DefaultIterations
	}
	return &Hasher{iterations: iterations}
}

// Derive computes the salted hash of secret. Deterministic for fixed
// inputs; the cost is carried entirely by the iteration count.
func (h *Hasher) Derive(secret, salt []byte) []byte {
	return pbkdf2.Key(secret, salt, h.iterations, KeyLength, sha256.New)
}

// Verify recomputes the derivation and compares it against hash in
// constant time.
func (h *Hasher) Verify(secret, hash, salt []byte) bool {
	candidate := h.Derive(secret, salt)
	return subtle.ConstantTimeCompare(candidate, hash) == 1
}

// VerifyEncoded verifies secret against a hex-encoded hash and salt as
// stored in identity records. Malformed encodings verify as false rather
// than erroring; a corrupt record must never authenticate.
func (h *Hasher) VerifyEncoded(secret []byte, hashHex, saltHex string) bool {
	hash, err := hex.DecodeString(hashHex)
	if err != nil {
		return false
	}
	salt, err := hex.DecodeString(saltHex)
	if err != nil {
		return false
	}
	return h.Verify(secret, hash, salt)
}

// NewSalt returns a fresh per-identity salt. Fails with an error wrapping
// common.ErrCryptoUnavailable when the random source is unusable.
func NewSalt() ([]byte, error) {
	return common.RandByteArray(SaltLength)
}

// NewToken returns a fresh hex-encoded session token.
func NewToken() (string, error) {
	return common.MakeRandHexString(TokenLength)
}
