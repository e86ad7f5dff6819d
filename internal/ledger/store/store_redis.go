package store

import (
	"context"
	"errors"
	"fmt"

	"github.com/redis/go-redis/v9"

	"healthledger/internal/ledger/models"
	"healthledger/pkg/platform/sentinel"
)

const defaultRedisTxRetries = 16

// RedisStore persists ledger state in Redis under a key prefix.
//
// Transactions are optimistic: every key read is WATCHed, writes are staged
// and sent in one MULTI/EXEC. A concurrent change to a watched key aborts the
// EXEC and fn runs again, up to maxRetries times.
type RedisStore struct {
	client     redis.UniversalClient
	prefix     string
	maxRetries int
}

// NewRedis constructs a Redis-backed ledger store. prefix namespaces the ledger keys.
func NewRedis(client redis.UniversalClient, prefix string) *RedisStore {
	return &RedisStore{client: client, prefix: prefix, maxRetries: defaultRedisTxRetries}
}

func (s *RedisStore) RunInTx(ctx context.Context, fn func(ctx context.Context, kv KV) error) error {
	for attempt := 0; attempt < s.maxRetries; attempt++ {
		err := s.client.Watch(ctx, func(tx *redis.Tx) error {
			kv := &redisKV{tx: tx, prefix: s.prefix, writes: newStagedWrites()}
			if err := fn(ctx, kv); err != nil {
				return err
			}
			if kv.writes.len() == 0 {
				return nil
			}
			_, err := tx.TxPipelined(ctx, func(pipe redis.Pipeliner) error {
				return kv.writes.each(func(key models.Key, value []byte) error {
					return pipe.Set(ctx, kv.redisKey(key), value, 0).Err()
				})
			})
			return err
		})
		if errors.Is(err, redis.TxFailedErr) {
			continue
		}
		return err
	}
	return fmt.Errorf("redis transaction retries exhausted: %w", sentinel.ErrConflict)
}

func (s *RedisStore) Ping(ctx context.Context) error {
	return s.client.Ping(ctx).Err()
}

// Close is a no-op; the client is owned by the caller.
func (s *RedisStore) Close() error {
	return nil
}

type redisKV struct {
	tx     *redis.Tx
	prefix string
	writes *stagedWrites
}

func (kv *redisKV) redisKey(key models.Key) string {
	return kv.prefix + string(key)
}

func (kv *redisKV) Get(ctx context.Context, key models.Key) ([]byte, error) {
	if v, ok := kv.writes.get(key); ok {
		return v, nil
	}
	k := kv.redisKey(key)
	if err := kv.tx.Watch(ctx, k).Err(); err != nil {
		return nil, fmt.Errorf("watch %s: %w", k, err)
	}
	v, err := kv.tx.Get(ctx, k).Bytes()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return nil, sentinel.ErrNotFound
		}
		return nil, err
	}
	return v, nil
}

func (kv *redisKV) Put(_ context.Context, key models.Key, value []byte) error {
	kv.writes.put(key, value)
	return nil
}
