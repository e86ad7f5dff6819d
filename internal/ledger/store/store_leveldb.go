package store

import (
	"context"
	"errors"
	"fmt"

	"github.com/syndtr/goleveldb/leveldb"
	"github.com/syndtr/goleveldb/leveldb/storage"

	"healthledger/internal/ledger/models"
	"healthledger/pkg/platform/sentinel"
)

// LevelDBStore persists ledger state in an embedded LevelDB database.
// Transactions use leveldb.Transaction, which excludes other writers until
// it is committed or discarded.
type LevelDBStore struct {
	db *leveldb.DB
}

// OpenLevelDB opens (or creates) a LevelDB database at path.
func OpenLevelDB(path string) (*LevelDBStore, error) {
	db, err := leveldb.OpenFile(path, nil)
	if err != nil {
		return nil, fmt.Errorf("open leveldb %s: %w", path, err)
	}
	return &LevelDBStore{db: db}, nil
}

// OpenLevelDBMemory opens a LevelDB database backed by memory storage.
func OpenLevelDBMemory() (*LevelDBStore, error) {
	db, err := leveldb.Open(storage.NewMemStorage(), nil)
	if err != nil {
		return nil, fmt.Errorf("open leveldb memory storage: %w", err)
	}
	return &LevelDBStore{db: db}, nil
}

func (s *LevelDBStore) RunInTx(ctx context.Context, fn func(ctx context.Context, kv KV) error) error {
	tr, err := s.db.OpenTransaction()
	if err != nil {
		return fmt.Errorf("open leveldb transaction: %w", err)
	}

	if err := fn(ctx, &levelDBKV{tr: tr}); err != nil {
		tr.Discard()
		return err
	}
	if err := ctx.Err(); err != nil {
		tr.Discard()
		return err
	}
	if err := tr.Commit(); err != nil {
		return fmt.Errorf("commit leveldb transaction: %w", err)
	}
	return nil
}

func (s *LevelDBStore) Ping(_ context.Context) error {
	if _, err := s.db.GetProperty("leveldb.num-files-at-level0"); err != nil {
		return fmt.Errorf("leveldb ping: %w", err)
	}
	return nil
}

func (s *LevelDBStore) Close() error {
	return s.db.Close()
}

type levelDBKV struct {
	tr *leveldb.Transaction
}

func (kv *levelDBKV) Get(_ context.Context, key models.Key) ([]byte, error) {
	v, err := kv.tr.Get([]byte(key), nil)
	if err != nil {
		if errors.Is(err, leveldb.ErrNotFound) {
			return nil, sentinel.ErrNotFound
		}
		return nil, err
	}
	return v, nil
}

func (kv *levelDBKV) Put(_ context.Context, key models.Key, value []byte) error {
	return kv.tr.Put([]byte(key), value, nil)
}
