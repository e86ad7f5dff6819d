package store

import (
	"context"
	"sync"

	"healthledger/internal/ledger/models"
	"healthledger/pkg/platform/sentinel"
)

// InMemoryStore keeps ledger state in a map for tests and single-process dev runs.
// One mutex serializes transactions; writes are staged and applied on success.
type InMemoryStore struct {
	mu     sync.Mutex
	values map[models.Key][]byte
}

// NewInMemory constructs an empty in-memory backend.
func NewInMemory() *InMemoryStore {
	return &InMemoryStore{values: make(map[models.Key][]byte)}
}

func (s *InMemoryStore) RunInTx(ctx context.Context, fn func(ctx context.Context, kv KV) error) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	kv := &memoryKV{committed: s.values, writes: newStagedWrites()}
	if err := fn(ctx, kv); err != nil {
		return err
	}
	// Check again before applying writes
	if err := ctx.Err(); err != nil {
		return err
	}
	return kv.writes.each(func(key models.Key, value []byte) error {
		s.values[key] = value
		return nil
	})
}

func (s *InMemoryStore) Ping(_ context.Context) error {
	return nil
}

func (s *InMemoryStore) Close() error {
	return nil
}

// Len reports how many keys hold a value.
func (s *InMemoryStore) Len() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.values)
}

type memoryKV struct {
	committed map[models.Key][]byte
	writes    *stagedWrites
}

func (kv *memoryKV) Get(_ context.Context, key models.Key) ([]byte, error) {
	if v, ok := kv.writes.get(key); ok {
		return v, nil
	}
	v, ok := kv.committed[key]
	if !ok {
		return nil, sentinel.ErrNotFound
	}
	return cloneBytes(v), nil
}

func (kv *memoryKV) Put(_ context.Context, key models.Key, value []byte) error {
	kv.writes.put(key, value)
	return nil
}
