// Package auth implements the credential and session state machine:
// registration, login, privilege checks, system policy gating, and the
// first-admin bootstrap. It composes the credential store, secret hasher,
// session issuer, and policy store over one persisted key-value store.
package auth

import (
	"context"
	"encoding/hex"
	"errors"
	"fmt"
	"strings"
	"unicode/utf8"

	"github.com/google/uuid"

	"github.com/chtime/chtime/internal/common"
	"github.com/chtime/chtime/internal/config"
	"github.com/chtime/chtime/internal/cryptox"
	"github.com/chtime/chtime/internal/identity"
	"github.com/chtime/chtime/internal/logging"
	"github.com/chtime/chtime/internal/policy"
	"github.com/chtime/chtime/internal/session"
	"github.com/chtime/chtime/internal/storage"
	"github.com/chtime/chtime/internal/timex"
)

const (
	minUsernameLength = 3
	minSecretLength   = 6
)

// Manager orchestrates all credential and session operations. Construct
// one per storage partition; it assumes a single logical writer.
type Manager struct {
	store      storage.Store
	identities *identity.Store
	sessions   *session.Issuer
	policies   *policy.Store
	hasher     *cryptox.Hasher
	log        logging.Logger
}

// NewManager builds a Manager over the given store using cfg for the
// session TTL and KDF work factor. A nil logger disables logging.
func NewManager(store storage.Store, cfg *config.Config, log logging.Logger) *Manager {
	if log == nil {
		log = logging.NewNopLogger()
	}
	return &Manager{
		store:      store,
		identities: identity.NewStore(store),
		sessions:   session.NewIssuer(store, cfg.SessionTTL),
		policies:   policy.NewStore(store),
		hasher:     cryptox.NewHasher(cfg.KDFIterations),
		log:        log,
	}
}

// Register creates a new identity. The first identity ever registered
// becomes admin and initializes the system policy; everyone after that is
// an ordinary user and subject to the registration gate.
//
// Validation runs in a fixed order so the first failing rule determines
// the reported error. No session is created; login is a separate step.
func (m *Manager) Register(ctx context.Context, username, email, secret string) (*identity.Identity, error) {
	all, err := m.identities.ListAll(ctx)
	if err != nil {
		return nil, err
	}

	if len(all) > 0 {
		p, err := m.policies.Get(ctx)
		if err != nil {
			return nil, err
		}
		if !p.RegistrationEnabled {
			return nil, common.ErrRegistrationDisabled
		}
	}

	if utf8.RuneCountInString(username) < minUsernameLength {
		return nil, common.ErrUsernameTooShort
	}
	if !strings.Contains(email, "@") {
		return nil, common.ErrEmailInvalid
	}
	if utf8.RuneCountInString(secret) < minSecretLength {
		return nil, common.ErrSecretTooShort
	}

	salt, err := cryptox.NewSalt()
	if err != nil {
		m.log.Error(ctx, "salt generation failed", "error", err)
		return nil, err
	}
	hash := m.hasher.Derive([]byte(secret), salt)

	first := len(all) == 0
	role := identity.RoleUser
	if first {
		role = identity.RoleAdmin
		// First registration also materializes the default policy.
		if _, err := m.policies.Get(ctx); err != nil {
			return nil, err
		}
	}

	ident := identity.Identity{
		ID:             uuid.NewString(),
		Username:       username,
		Email:          email,
		CredentialHash: hex.EncodeToString(hash),
		Salt:           hex.EncodeToString(salt),
		Role:           role,
		CreatedAt:      timex.Now(),
	}

	if err := m.identities.Insert(ctx, ident); err != nil {
		return nil, err
	}

	m.log.Info(ctx, "identity registered", "id", ident.ID, "username", username, "role", role)
	return &ident, nil
}

// Login verifies the secret for the identity matching usernameOrEmail,
// updates its lastLoginAt, and issues a fresh session replacing any prior
// one.
//
// "Identity not found" and "invalid credential" remain distinct results,
// matching the existing behavior the UI maps to separate messages.
func (m *Manager) Login(ctx context.Context, usernameOrEmail, secret string) (*identity.Identity, error) {
	ident, err := m.identities.FindByLogin(ctx, usernameOrEmail)
	if err != nil {
		if errors.Is(err, common.ErrNotFound) {
			m.log.Warn(ctx, "login for unknown identity", "login", usernameOrEmail)
			return nil, common.ErrIdentityNotFound
		}
		return nil, err
	}

	if !m.hasher.VerifyEncoded([]byte(secret), ident.CredentialHash, ident.Salt) {
		m.log.Warn(ctx, "login with invalid credential", "id", ident.ID)
		return nil, common.ErrInvalidCredential
	}

	now := timex.Now()
	ident.LastLoginAt = &now
	if err := m.identities.Update(ctx, *ident); err != nil {
		return nil, err
	}

	if _, err := m.sessions.Issue(ctx, *ident); err != nil {
		return nil, err
	}

	m.log.Info(ctx, "identity logged in", "id", ident.ID, "username", ident.Username)
	return ident, nil
}

// IsAuthenticated reports whether a valid session exists. An expired
// session is torn down as a side effect (lazy reclamation, no timers).
func (m *Manager) IsAuthenticated(ctx context.Context) bool {
	sess, err := m.sessions.Current(ctx)
	if err != nil || sess == nil {
		return false
	}
	snap, err := m.sessions.Snapshot(ctx)
	if err != nil || snap == nil {
		return false
	}

	if !m.sessions.Valid(sess) {
		if err := m.sessions.Teardown(ctx); err != nil {
			m.log.Error(ctx, "expired session teardown failed", "error", err)
		}
		return false
	}
	return true
}

// CurrentIdentity returns the authenticated identity snapshot, or nil
// when no valid session exists.
func (m *Manager) CurrentIdentity(ctx context.Context) *identity.Identity {
	if !m.IsAuthenticated(ctx) {
		return nil
	}
	snap, err := m.sessions.Snapshot(ctx)
	if err != nil {
		return nil
	}
	return snap
}

// Logout unconditionally tears down the session slot. Calling it with no
// active session is a no-op, not an error.
func (m *Manager) Logout(ctx context.Context) error {
	if err := m.sessions.Teardown(ctx); err != nil {
		return err
	}
	m.log.Info(ctx, "logged out")
	return nil
}

// IsCurrentAdmin reports whether the authenticated identity holds the
// admin tier.
func (m *Manager) IsCurrentAdmin(ctx context.Context) bool {
	ident := m.CurrentIdentity(ctx)
	return ident != nil && ident.IsAdmin()
}

// GetSystemPolicy returns the policy record, creating the permissive
// default on first access.
func (m *Manager) GetSystemPolicy(ctx context.Context) (policy.Policy, error) {
	return m.policies.Get(ctx)
}

// UpdateSystemPolicy applies patch if and only if the caller is an
// authenticated admin. It fails closed: any non-admin caller (or storage
// failure) gets false and the policy stays unchanged. The gate lives here
// so a reimplemented UI cannot bypass it.
func (m *Manager) UpdateSystemPolicy(ctx context.Context, patch policy.Patch) bool {
	if !m.IsCurrentAdmin(ctx) {
		m.log.Warn(ctx, "policy update rejected: not admin")
		return false
	}
	if _, err := m.policies.Apply(ctx, patch); err != nil {
		m.log.Error(ctx, "policy update failed", "error", err)
		return false
	}
	m.log.Info(ctx, "system policy updated")
	return true
}

// BootstrapFirstAdmin promotes the earliest-created identity to admin.
// It is the recovery path for stores that predate the admin concept, so
// it is deliberately not admin-gated; it can only ever affect the single
// "first user" identity, and only while that identity is not already
// admin, so it cannot escalate anyone else once an admin exists.
//
// Returns a human-readable message on success. ErrAlreadyAdmin signals a
// no-op, not a fault.
func (m *Manager) BootstrapFirstAdmin(ctx context.Context) (string, error) {
	all, err := m.identities.ListAll(ctx)
	if err != nil {
		return "", err
	}
	if len(all) == 0 {
		return "", common.ErrNoIdentities
	}

	first := all[0]
	for _, cand := range all[1:] {
		if cand.CreatedAt.Before(first.CreatedAt.Time) {
			first = cand
			continue
		}
		// Equal timestamps: break the tie on ID so the result is stable.
		if cand.CreatedAt.Equal(first.CreatedAt.Time) && cand.ID < first.ID {
			first = cand
		}
	}

	if first.IsAdmin() {
		return "", fmt.Errorf("%w: %s", common.ErrAlreadyAdmin, first.Username)
	}

	first.Role = identity.RoleAdmin
	if err := m.identities.Update(ctx, first); err != nil {
		return "", err
	}
	if err := m.refreshSnapshotIfCurrent(ctx, first); err != nil {
		return "", err
	}

	m.log.Info(ctx, "first identity promoted to admin", "id", first.ID, "username", first.Username)
	return fmt.Sprintf("identity %s was successfully made admin", first.Username), nil
}

// PromoteToAdmin grants the admin tier to the named identity. Unlike the
// bootstrap it can run while admins exist, so it is admin-gated.
func (m *Manager) PromoteToAdmin(ctx context.Context, username string) (string, error) {
	if !m.IsCurrentAdmin(ctx) {
		return "", common.ErrNotAuthorized
	}

	ident, err := m.identities.FindByLogin(ctx, username)
	if err != nil {
		if errors.Is(err, common.ErrNotFound) {
			return "", common.ErrIdentityNotFound
		}
		return "", err
	}

	if ident.IsAdmin() {
		return "", fmt.Errorf("%w: %s", common.ErrAlreadyAdmin, ident.Username)
	}

	ident.Role = identity.RoleAdmin
	if err := m.identities.Update(ctx, *ident); err != nil {
		return "", err
	}
	if err := m.refreshSnapshotIfCurrent(ctx, *ident); err != nil {
		return "", err
	}

	m.log.Info(ctx, "identity promoted to admin", "id", ident.ID, "username", ident.Username)
	return fmt.Sprintf("identity %s was successfully made admin", ident.Username), nil
}

// HasIdentities reports whether any identity exists; the UI uses it to
// decide between first-run setup and the login screen.
func (m *Manager) HasIdentities(ctx context.Context) bool {
	all, err := m.identities.ListAll(ctx)
	return err == nil && len(all) > 0
}

// Reset wipes all auth data: identities, session, snapshot, and policy.
// Maintenance/test hook; there is no partial undo.
func (m *Manager) Reset(ctx context.Context) error {
	if err := m.store.Remove(ctx, identity.StorageKey); err != nil {
		return err
	}
	if err := m.sessions.Teardown(ctx); err != nil {
		return err
	}
	if err := m.store.Remove(ctx, policy.StorageKey); err != nil {
		return err
	}
	m.log.Info(ctx, "auth data reset")
	return nil
}

// refreshSnapshotIfCurrent rewrites the session's identity snapshot when
// ident owns the active session, making a privilege change visible
// without a re-login.
func (m *Manager) refreshSnapshotIfCurrent(ctx context.Context, ident identity.Identity) error {
	cur := m.CurrentIdentity(ctx)
	if cur == nil || cur.ID != ident.ID {
		return nil
	}
	return m.sessions.RefreshSnapshot(ctx, ident)
}
