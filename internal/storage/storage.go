// Package storage defines the persisted key-value collaborator the auth
// subsystem writes through, plus the bundled implementations.
//
// The contract is deliberately narrow: opaque values keyed by string, no
// transactions, no schema validation. All parsing and integrity checking
// belongs to the callers; a store only moves bytes.
package storage

import "context"

// Store is the persisted key-value collaborator.
//
// Contract:
//   - Get returns (nil, nil) when the key is absent. Callers must treat a
//     nil value as "no record", never as an error.
//   - Set overwrites any previous value for the key.
//   - Remove is a no-op for absent keys.
//   - Clear removes every key. Used by maintenance/reset flows.
type Store interface {
	Get(ctx context.Context, key string) ([]byte, error)
	Set(ctx context.Context, key string, value []byte) error
	Remove(ctx context.Context, key string) error
	Clear(ctx context.Context) error
}
