package identity

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"

	"github.com/chtime/chtime/internal/common"
	"github.com/chtime/chtime/internal/storage"
)

// StorageKey is the persisted-store key holding the identity list.
const StorageKey = "identities"

// Store is the credential store: CRUD over identity records keyed by ID,
// with case-insensitive secondary lookup by username or email.
//
// The underlying key-value store has no transactions; every mutation
// reads the full list, modifies it, and writes it back. That is the only
// mutation discipline the single-writer model needs.
type Store struct {
	store storage.Store
}

func NewStore(s storage.Store) *Store {
	return &Store{store: s}
}

// ListAll returns every identity. Malformed persisted data degrades to an
// empty list; corruption must never surface as a parse error.
func (s *Store) ListAll(ctx context.Context) ([]Identity, error) {
	raw, err := s.store.Get(ctx, StorageKey)
	if err != nil {
		return nil, err
	}
	if raw == nil {
		return []Identity{}, nil
	}

	var identities []Identity
	if err := json.Unmarshal(raw, &identities); err != nil {
		return []Identity{}, nil
	}
	return identities, nil
}

// FindByLogin matches identifier case-insensitively against username OR
// email. Returns common.ErrNotFound when no identity matches.
func (s *Store) FindByLogin(ctx context.Context, identifier string) (*Identity, error) {
	identities, err := s.ListAll(ctx)
	if err != nil {
		return nil, err
	}

	needle := strings.ToLower(identifier)
	for i := range identities {
		if strings.ToLower(identities[i].Username) == needle ||
			strings.ToLower(identities[i].Email) == needle {
			return &identities[i], nil
		}
	}
	return nil, common.ErrNotFound
}

// Insert appends a new identity, enforcing the uniqueness invariants.
// The username check runs before the email check so duplicate errors are
// reported in deterministic order.
func (s *Store) Insert(ctx context.Context, ident Identity) error {
	identities, err := s.ListAll(ctx)
	if err != nil {
		return err
	}

	username := strings.ToLower(ident.Username)
	email := strings.ToLower(ident.Email)
	for i := range identities {
		if strings.ToLower(identities[i].Username) == username {
			return common.ErrDuplicateUsername
		}
	}
	for i := range identities {
		if strings.ToLower(identities[i].Email) == email {
			return common.ErrDuplicateEmail
		}
	}

	return s.save(ctx, append(identities, ident))
}

// Update replaces the stored record with the same ID. Returns
// common.ErrNotFound when the ID is absent.
func (s *Store) Update(ctx context.Context, ident Identity) error {
	identities, err := s.ListAll(ctx)
	if err != nil {
		return err
	}

	for i := range identities {
		if identities[i].ID == ident.ID {
			identities[i] = ident
			return s.save(ctx, identities)
		}
	}
	return common.ErrNotFound
}

func (s *Store) save(ctx context.Context, identities []Identity) error {
	raw, err := json.Marshal(identities)
	if err != nil {
		return fmt.Errorf("failed to serialize identities: %w", err)
	}
	return s.store.Set(ctx, StorageKey, raw)
}
