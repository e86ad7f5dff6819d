package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	_ "modernc.org/sqlite" // registers the "sqlite" driver

	"healthledger/internal/ledger/models"
	"healthledger/migrations"
	"healthledger/pkg/platform/sentinel"
)

// ledgerLockID is the PostgreSQL advisory lock key serializing ledger transactions.
const ledgerLockID int64 = 0x6865616c7468

// Dialect holds the statements that differ between SQL engines.
type Dialect struct {
	Name   string
	Select string
	Upsert string
	// Lock serializes transactions. Empty when the engine is already serialized.
	Lock string
}

var (
	PostgresDialect = Dialect{
		Name:   "postgres",
		Select: `SELECT value FROM ledger_state WHERE key = $1`,
		Upsert: `
			INSERT INTO ledger_state (key, value, updated_at)
			VALUES ($1, $2, NOW())
			ON CONFLICT (key) DO UPDATE SET value = EXCLUDED.value, updated_at = EXCLUDED.updated_at
		`,
		Lock: `SELECT pg_advisory_xact_lock($1)`,
	}

	SQLiteDialect = Dialect{
		Name:   "sqlite",
		Select: `SELECT value FROM ledger_state WHERE key = ?`,
		Upsert: `
			INSERT INTO ledger_state (key, value, updated_at)
			VALUES (?, ?, CURRENT_TIMESTAMP)
			ON CONFLICT (key) DO UPDATE SET value = excluded.value, updated_at = excluded.updated_at
		`,
	}
)

const sqliteSchema = `
CREATE TABLE IF NOT EXISTS ledger_state (
	key        TEXT PRIMARY KEY,
	value      BLOB NOT NULL,
	updated_at TEXT NOT NULL DEFAULT CURRENT_TIMESTAMP
)`

// SQLStore persists ledger state in a single key/value table.
type SQLStore struct {
	db      *sql.DB
	dialect Dialect
}

// NewPostgres constructs a PostgreSQL-backed ledger store. The schema comes from migrations.
func NewPostgres(db *sql.DB) *SQLStore {
	return &SQLStore{db: db, dialect: PostgresDialect}
}

// NewSQLite constructs a SQLite-backed ledger store.
// SQLite allows one writer, so the pool is pinned to a single connection.
func NewSQLite(db *sql.DB) *SQLStore {
	db.SetMaxOpenConns(1)
	return &SQLStore{db: db, dialect: SQLiteDialect}
}

// OpenSQLite opens the database file at path and ensures the schema exists.
func OpenSQLite(ctx context.Context, path string) (*SQLStore, error) {
	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("open sqlite %s: %w", path, err)
	}
	s := NewSQLite(db)
	if err := s.EnsureSchema(ctx); err != nil {
		_ = db.Close()
		return nil, err
	}
	return s, nil
}

// EnsureSchema creates the ledger_state table when it does not exist.
func (s *SQLStore) EnsureSchema(ctx context.Context) error {
	if s.dialect.Name == PostgresDialect.Name {
		return migrations.Up(ctx, s.db)
	}
	if _, err := s.db.ExecContext(ctx, sqliteSchema); err != nil {
		return fmt.Errorf("create ledger_state: %w", err)
	}
	return nil
}

func (s *SQLStore) RunInTx(ctx context.Context, fn func(ctx context.Context, kv KV) error) error {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin %s transaction: %w", s.dialect.Name, err)
	}
	defer func() {
		_ = tx.Rollback() //nolint:errcheck // rollback after commit is no-op; error already captured
	}()

	if s.dialect.Lock != "" {
		if _, err := tx.ExecContext(ctx, s.dialect.Lock, ledgerLockID); err != nil {
			return fmt.Errorf("acquire ledger lock: %w", err)
		}
	}

	if err := fn(ctx, &sqlKV{tx: tx, dialect: s.dialect}); err != nil {
		return err
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("commit %s transaction: %w", s.dialect.Name, err)
	}
	return nil
}

func (s *SQLStore) Ping(ctx context.Context) error {
	return s.db.PingContext(ctx)
}

func (s *SQLStore) Close() error {
	return s.db.Close()
}

type sqlKV struct {
	tx      *sql.Tx
	dialect Dialect
}

func (kv *sqlKV) Get(ctx context.Context, key models.Key) ([]byte, error) {
	var value []byte
	err := kv.tx.QueryRowContext(ctx, kv.dialect.Select, string(key)).Scan(&value)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, sentinel.ErrNotFound
		}
		return nil, err
	}
	return value, nil
}

func (kv *sqlKV) Put(ctx context.Context, key models.Key, value []byte) error {
	_, err := kv.tx.ExecContext(ctx, kv.dialect.Upsert, string(key), value)
	return err
}
