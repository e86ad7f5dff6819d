package store

import (
	"context"

	"healthledger/internal/ledger/models"
	"healthledger/pkg/platform/sentinel"
)

// WorldState is the subset of the chaincode stub the ledger needs.
// A nil value from GetState means the key does not exist.
type WorldState interface {
	GetState(key string) ([]byte, error)
	PutState(key string, value []byte) error
}

// FabricStore runs ledger transactions against chaincode world state.
// The peer already isolates each invocation; writes are staged so that a
// failed operation leaves the write set empty and so reads see earlier writes.
type FabricStore struct {
	state WorldState
}

// NewFabric binds a store to the world state of the current invocation.
func NewFabric(state WorldState) *FabricStore {
	return &FabricStore{state: state}
}

func (s *FabricStore) RunInTx(ctx context.Context, fn func(ctx context.Context, kv KV) error) error {
	kv := &fabricKV{state: s.state, writes: newStagedWrites()}
	if err := fn(ctx, kv); err != nil {
		return err
	}
	return kv.writes.each(func(key models.Key, value []byte) error {
		return s.state.PutState(string(key), value)
	})
}

func (s *FabricStore) Ping(_ context.Context) error {
	return nil
}

func (s *FabricStore) Close() error {
	return nil
}

type fabricKV struct {
	state  WorldState
	writes *stagedWrites
}

func (kv *fabricKV) Get(_ context.Context, key models.Key) ([]byte, error) {
	if v, ok := kv.writes.get(key); ok {
		return v, nil
	}
	v, err := kv.state.GetState(string(key))
	if err != nil {
		return nil, err
	}
	if v == nil {
		return nil, sentinel.ErrNotFound
	}
	return v, nil
}

func (kv *fabricKV) Put(_ context.Context, key models.Key, value []byte) error {
	kv.writes.put(key, value)
	return nil
}
