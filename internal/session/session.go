// Package session manages the single persisted session slot: issuing,
// validating, and tearing down time-bounded proofs of authentication.
package session

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/chtime/chtime/internal/cryptox"
	"github.com/chtime/chtime/internal/identity"
	"github.com/chtime/chtime/internal/storage"
	"github.com/chtime/chtime/internal/timex"
)

// Persisted-store keys. SnapshotKey holds a denormalized copy of the
// authenticated identity so privilege checks avoid a credential-store
// read; every write to that identity must refresh it.
const (
	StorageKey  = "current-session"
	SnapshotKey = "current-identity-snapshot"
)

// DefaultTTL is the session validity window measured from issuance.
const DefaultTTL = 30 * 24 * time.Hour

// Session is one authenticated browsing context. The token is the sole
// proof of validity. JSON field names are part of the persisted format.
type Session struct {
	IdentityID string     `json:"identityId"`
	Token      string     `json:"token"`
	CreatedAt  timex.Time `json:"createdAt"`
	ExpiresAt  timex.Time `json:"expiresAt"`
}

// Issuer owns the session slot. There is at most one persisted session at
// a time; issuing replaces whatever was there.
type Issuer struct {
	store storage.Store
	ttl   time.Duration
}

// NewIssuer returns an Issuer with the given validity window.
// Non-positive TTLs fall back to DefaultTTL.
func NewIssuer(s storage.Store, ttl time.Duration) *Issuer {
	if ttl <= 0 {
		ttl = DefaultTTL
	}
	return &Issuer{store: s, ttl: ttl}
}

// Issue creates a session for ident, persists it together with the
// identity snapshot, and returns it. Any prior session is overwritten.
func (i *Issuer) Issue(ctx context.Context, ident identity.Identity) (*Session, error) {
	token, err := cryptox.NewToken()
	if err != nil {
		return nil, err
	}

	now := timex.Now()
	sess := &Session{
		IdentityID: ident.ID,
		Token:      token,
		CreatedAt:  now,
		ExpiresAt:  timex.At(now.Add(i.ttl)),
	}

	raw, err := json.Marshal(sess)
	if err != nil {
		return nil, fmt.Errorf("failed to serialize session: %w", err)
	}
	if err := i.store.Set(ctx, StorageKey, raw); err != nil {
		return nil, err
	}
	if err := i.RefreshSnapshot(ctx, ident); err != nil {
		return nil, err
	}
	return sess, nil
}

// Current reads the persisted session. Absent or malformed data yields
// (nil, nil); corruption is indistinguishable from being logged out.
func (i *Issuer) Current(ctx context.Context) (*Session, error) {
	raw, err := i.store.Get(ctx, StorageKey)
	if err != nil {
		return nil, err
	}
	if raw == nil {
		return nil, nil
	}

	var sess Session
	if err := json.Unmarshal(raw, &sess); err != nil {
		return nil, nil
	}
	return &sess, nil
}

// Valid reports whether the session's validity window still covers now.
func (i *Issuer) Valid(sess *Session) bool {
	if sess == nil {
		return false
	}
	return time.Now().Before(sess.ExpiresAt.Time)
}

// Snapshot returns the denormalized identity owning the current session,
// or nil when absent or malformed.
func (i *Issuer) Snapshot(ctx context.Context) (*identity.Identity, error) {
	raw, err := i.store.Get(ctx, SnapshotKey)
	if err != nil {
		return nil, err
	}
	if raw == nil {
		return nil, nil
	}

	var ident identity.Identity
	if err := json.Unmarshal(raw, &ident); err != nil {
		return nil, nil
	}
	return &ident, nil
}

// RefreshSnapshot rewrites the snapshot from the canonical record. Called
// on issue and whenever the owning identity changes, so the cached copy
// cannot drift past the next privilege check.
func (i *Issuer) RefreshSnapshot(ctx context.Context, ident identity.Identity) error {
	raw, err := json.Marshal(ident)
	if err != nil {
		return fmt.Errorf("failed to serialize identity snapshot: %w", err)
	}
	return i.store.Set(ctx, SnapshotKey, raw)
}

// Teardown removes the session and its snapshot. Idempotent.
func (i *Issuer) Teardown(ctx context.Context) error {
	if err := i.store.Remove(ctx, StorageKey); err != nil {
		return err
	}
	return i.store.Remove(ctx, SnapshotKey)
}
