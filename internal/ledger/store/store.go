// Package store persists ledger state in a key-value backend.
//
// Error Contract:
//   - KV.Get returns sentinel.ErrNotFound when the key has never been written
//   - Backend.RunInTx commits every Put made by fn only when fn returns nil
//   - infrastructure failures are returned wrapped with context
package store

import (
	"context"

	"healthledger/internal/ledger/models"
)

// KV is the view of ledger state available inside one transaction.
// Reads observe writes made earlier in the same transaction.
type KV interface {
	Get(ctx context.Context, key models.Key) ([]byte, error)
	Put(ctx context.Context, key models.Key, value []byte) error
}

// Backend runs atomic read-modify-write units against durable state.
// fn may be invoked more than once by backends with optimistic concurrency,
// so it must not have side effects outside the KV it is handed.
type Backend interface {
	RunInTx(ctx context.Context, fn func(ctx context.Context, kv KV) error) error
	Ping(ctx context.Context) error
	Close() error
}
