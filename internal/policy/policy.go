// Package policy persists the global system policy singleton. The record
// is created lazily with a permissive default; the admin gate on mutation
// lives in the auth manager, not here.
package policy

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/chtime/chtime/internal/storage"
	"github.com/chtime/chtime/internal/timex"
)

// StorageKey is the persisted-store key holding the singleton record.
const StorageKey = "system-policy"

// Policy is the global configuration record. JSON field names are part of
// the persisted format.
type Policy struct {
	// RegistrationEnabled gates the register operation once at least one
	// identity exists. The very first registration is always allowed.
	RegistrationEnabled bool `json:"registrationEnabled"`

	CreatedAt timex.Time `json:"createdAt"`
	UpdatedAt timex.Time `json:"updatedAt"`
}

// Patch carries partial updates. Nil fields leave the current value
// untouched.
type Patch struct {
	RegistrationEnabled *bool
}

// Store reads and writes the policy singleton.
type Store struct {
	store storage.Store
}

func NewStore(s storage.Store) *Store {
	return &Store{store: s}
}

// Get returns the current policy. On first access (or after corruption)
// it creates and persists the permissive default, mirroring how the
// record has always been initialized in existing stores.
func (s *Store) Get(ctx context.Context) (Policy, error) {
	raw, err := s.store.Get(ctx, StorageKey)
	if err != nil {
		return Policy{}, err
	}

	if raw != nil {
		var p Policy
		if err := json.Unmarshal(raw, &p); err == nil {
			return p, nil
		}
	}

	now := timex.Now()
	def := Policy{RegistrationEnabled: true, CreatedAt: now, UpdatedAt: now}
	if err := s.write(ctx, def); err != nil {
		return Policy{}, err
	}
	return def, nil
}

// Apply merges patch into the current policy, stamps UpdatedAt, and
// persists the result.
func (s *Store) Apply(ctx context.Context, patch Patch) (Policy, error) {
	p, err := s.Get(ctx)
	if err != nil {
		return Policy{}, err
	}

	if patch.RegistrationEnabled != nil {
		p.RegistrationEnabled = *patch.RegistrationEnabled
	}
	p.UpdatedAt = timex.Now()

	if err := s.write(ctx, p); err != nil {
		return Policy{}, err
	}
	return p, nil
}

func (s *Store) write(ctx context.Context, p Policy) error {
	raw, err := json.Marshal(p)
	if err != nil {
		return fmt.Errorf("failed to serialize system policy: %w", err)
	}
	return s.store.Set(ctx, StorageKey, raw)
}
