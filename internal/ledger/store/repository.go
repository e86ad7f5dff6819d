package store

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"healthledger/internal/ledger/models"
	"healthledger/pkg/platform/sentinel"
)

// Repository gives typed access to the ledger keys inside one transaction.
// Find methods return sentinel.ErrNotFound for absent entities; the aggregate
// Counters and the sequence default to zero instead.
type Repository struct {
	kv KV
}

// NewRepository binds a repository to a transaction's KV.
func NewRepository(kv KV) *Repository {
	return &Repository{kv: kv}
}

func (r *Repository) FindRecord(ctx context.Context, id uint64) (*models.HealthRecord, error) {
	var record models.HealthRecord
	if err := r.load(ctx, models.DataKey(id), &record); err != nil {
		return nil, err
	}
	return &record, nil
}

func (r *Repository) SaveRecord(ctx context.Context, id uint64, record *models.HealthRecord) error {
	if record == nil {
		return fmt.Errorf("health record is required")
	}
	return r.save(ctx, models.DataKey(id), record)
}

func (r *Repository) FindGrant(ctx context.Context, id uint64) (*models.AccessGrant, error) {
	var grant models.AccessGrant
	if err := r.load(ctx, models.AdminControlKey(id), &grant); err != nil {
		return nil, err
	}
	return &grant, nil
}

func (r *Repository) SaveGrant(ctx context.Context, id uint64, grant *models.AccessGrant) error {
	if grant == nil {
		return fmt.Errorf("access grant is required")
	}
	return r.save(ctx, models.AdminControlKey(id), grant)
}

func (r *Repository) LoadCounters(ctx context.Context) (models.Counters, error) {
	var counters models.Counters
	if err := r.load(ctx, models.KeyAllData, &counters); err != nil {
		if errors.Is(err, sentinel.ErrNotFound) {
			return models.Counters{}, nil
		}
		return models.Counters{}, err
	}
	return counters, nil
}

func (r *Repository) SaveCounters(ctx context.Context, counters models.Counters) error {
	return r.save(ctx, models.KeyAllData, counters)
}

func (r *Repository) LoadSequence(ctx context.Context) (uint64, error) {
	var seq uint64
	if err := r.load(ctx, models.KeySequence, &seq); err != nil {
		if errors.Is(err, sentinel.ErrNotFound) {
			return 0, nil
		}
		return 0, err
	}
	return seq, nil
}

func (r *Repository) SaveSequence(ctx context.Context, seq uint64) error {
	return r.save(ctx, models.KeySequence, seq)
}

func (r *Repository) load(ctx context.Context, key models.Key, dst any) error {
	raw, err := r.kv.Get(ctx, key)
	if err != nil {
		if errors.Is(err, sentinel.ErrNotFound) {
			return sentinel.ErrNotFound
		}
		return fmt.Errorf("get %s: %w", key, err)
	}
	if err := json.Unmarshal(raw, dst); err != nil {
		return fmt.Errorf("decode %s: %w", key, err)
	}
	return nil
}

func (r *Repository) save(ctx context.Context, key models.Key, v any) error {
	raw, err := json.Marshal(v)
	if err != nil {
		return fmt.Errorf("encode %s: %w", key, err)
	}
	if err := r.kv.Put(ctx, key, raw); err != nil {
		return fmt.Errorf("put %s: %w", key, err)
	}
	return nil
}
