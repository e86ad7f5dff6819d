package main

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"

	"github.com/prometheus/client_golang/prometheus"

	"healthledger/internal/ledger/store"
	"healthledger/internal/platform/config"
	"healthledger/internal/platform/database"
	ledgerredis "healthledger/internal/platform/redis"
)

// redisKeyPrefix namespaces ledger keys in a shared Redis.
const redisKeyPrefix = "healthledger:"

// openedBackend is the selected ledger backend plus anything that must be
// closed with it and any background work it needs.
type openedBackend struct {
	backend store.Backend
	redis   *ledgerredis.Client
	closers []func() error
}

func (o *openedBackend) Close() error {
	var first error
	for i := len(o.closers) - 1; i >= 0; i-- {
		if err := o.closers[i](); err != nil && first == nil {
			first = err
		}
	}
	return first
}

// openBackend builds the backend named by cfg.Store.Backend.
func openBackend(ctx context.Context, cfg config.Server, reg prometheus.Registerer, log *slog.Logger) (*openedBackend, error) {
	opened := &openedBackend{}

	switch cfg.Store.Backend {
	case config.BackendMemory:
		opened.backend = store.NewInMemory()

	case config.BackendLevelDB:
		if err := ensureParentDir(cfg.Store.LevelDBPath); err != nil {
			return nil, err
		}
		s, err := store.OpenLevelDB(cfg.Store.LevelDBPath)
		if err != nil {
			return nil, err
		}
		opened.backend = s
		opened.closers = append(opened.closers, s.Close)

	case config.BackendSQLite:
		if err := ensureParentDir(cfg.Store.SQLitePath); err != nil {
			return nil, err
		}
		s, err := store.OpenSQLite(ctx, cfg.Store.SQLitePath)
		if err != nil {
			return nil, err
		}
		opened.backend = s
		opened.closers = append(opened.closers, s.Close)

	case config.BackendPostgres:
		db, err := database.Open(ctx, database.DefaultConfig(cfg.Store.DatabaseURL))
		if err != nil {
			return nil, err
		}
		s := store.NewPostgres(db)
		if err := s.EnsureSchema(ctx); err != nil {
			_ = s.Close()
			return nil, fmt.Errorf("apply migrations: %w", err)
		}
		opened.backend = s
		opened.closers = append(opened.closers, s.Close)

	case config.BackendRedis:
		client, err := ledgerredis.New(ctx, cfg.Redis, reg)
		if err != nil {
			return nil, err
		}
		if client == nil {
			return nil, fmt.Errorf("REDIS_URL is required for the redis backend")
		}
		opened.backend = store.NewRedis(client.Client, redisKeyPrefix)
		opened.redis = client
		opened.closers = append(opened.closers, client.Close)

	default:
		return nil, fmt.Errorf("unknown store backend %q", cfg.Store.Backend)
	}

	log.Info("ledger backend ready", "backend", cfg.Store.Backend)
	return opened, nil
}

func ensureParentDir(path string) error {
	dir := filepath.Dir(path)
	if dir == "." || dir == "" {
		return nil
	}
	if err := os.MkdirAll(dir, 0o750); err != nil {
		return fmt.Errorf("create data dir %s: %w", dir, err)
	}
	return nil
}
