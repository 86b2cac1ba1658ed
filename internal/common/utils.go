package common

import (
	"crypto/rand"
	"encoding/hex"
	"fmt"
)

// RandByteArray returns size cryptographically random bytes. If the secure
// random source fails, the error wraps ErrCryptoUnavailable; the function
// never falls back to a weaker source.
func RandByteArray(size int) ([]byte, error) {
	b := make([]byte, size)
	if _, err := rand.Read(b); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrCryptoUnavailable, err)
	}
	return b, nil
}

// MakeRandHexString generates a random hexadecimal string of the given size.
// The size parameter specifies the number of random bytes to generate before
// encoding, so the resulting string is twice that length.
func MakeRandHexString(size int) (string, error) {
	b, err := RandByteArray(size)
	if err != nil {
		return "", err
	}
	return hex.EncodeToString(b), nil
}

// WipeByteArray overwrites the contents of the provided byte slice with
// zeros. Useful for removing plaintext secrets from memory after use.
// A nil slice is a no-op.
func WipeByteArray(b []byte) {
	if b == nil {
		return
	}
	for i := range b {
		b[i] = 0
	}
}
