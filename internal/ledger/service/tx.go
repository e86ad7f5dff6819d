package service

import (
	"context"
	"errors"
	"time"

	"healthledger/internal/ledger/store"
	dErrors "healthledger/pkg/domain-errors"
	"healthledger/pkg/platform/sentinel"
)

// defaultTxTimeout is the maximum duration for a ledger transaction.
const defaultTxTimeout = 5 * time.Second

type backendTx struct {
	backend store.Backend
	timeout time.Duration
}

// NewStoreTx adapts a key-value backend to StoreTx. A zero timeout uses the default.
func NewStoreTx(backend store.Backend, timeout time.Duration) StoreTx {
	return &backendTx{backend: backend, timeout: timeout}
}

func (t *backendTx) RunInTx(ctx context.Context, fn func(ctx context.Context, s Store) error) error {
	if err := ctx.Err(); err != nil {
		return dErrors.Wrap(err, dErrors.CodeTimeout, "transaction aborted: context cancelled")
	}

	timeout := t.timeout
	if timeout == 0 {
		timeout = defaultTxTimeout
	}
	if _, hasDeadline := ctx.Deadline(); !hasDeadline {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, timeout)
		defer cancel()
	}

	err := t.backend.RunInTx(ctx, func(ctx context.Context, kv store.KV) error {
		return fn(ctx, store.NewRepository(kv))
	})
	return translateTxError(err)
}

// translateTxError passes domain errors through and classifies the rest.
func translateTxError(err error) error {
	if err == nil {
		return nil
	}
	var domainErr *dErrors.Error
	switch {
	case errors.As(err, &domainErr):
		return err
	case errors.Is(err, context.DeadlineExceeded), errors.Is(err, context.Canceled):
		return dErrors.Wrap(err, dErrors.CodeTimeout, "ledger transaction timed out")
	case errors.Is(err, sentinel.ErrConflict):
		return dErrors.Wrap(err, dErrors.CodeConflict, "ledger transaction conflicted, retry")
	default:
		return dErrors.Wrap(err, dErrors.CodeInternal, "ledger transaction failed")
	}
}
