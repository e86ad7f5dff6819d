package service_test

import (
	"context"
	"io"
	"log/slog"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"healthledger/internal/ledger/models"
	"healthledger/internal/ledger/service"
	"healthledger/internal/ledger/store"
	"healthledger/pkg/platform/middleware/requesttime"
	"healthledger/pkg/testutil"
)

func newLedger(t *testing.T) (*service.Service, *store.InMemoryStore) {
	t.Helper()
	backend := store.NewInMemory()
	svc := service.New(service.NewStoreTx(backend, 0), slog.New(slog.NewTextHandler(io.Discard, nil)))
	return svc, backend
}

func status(t *testing.T, svc *service.Service) models.Counters {
	t.Helper()
	c, err := svc.ViewAllStatus(context.Background())
	require.NoError(t, err)
	return c
}

func TestLedgerScenario_CreateGrantRevoke(t *testing.T) {
	svc, _ := newLedger(t)
	at := time.Unix(1700000000, 0)
	ctx := requesttime.WithTime(context.Background(), at)

	id, err := svc.CreateRecord(ctx, "p1", "hash1")
	require.NoError(t, err)
	assert.Equal(t, uint64(1), id)
	assert.Equal(t, models.Counters{Pending: 1, Total: 1}, status(t, svc))

	record, err := svc.ViewRecord(ctx, id)
	require.NoError(t, err)
	assert.Equal(t, models.HealthRecord{
		RecordID:  1,
		PatientID: "p1",
		DataHash:  "hash1",
		Timestamp: uint64(at.Unix()),
	}, record)

	require.NoError(t, svc.RequestAccess(ctx, id))
	assert.Equal(t, models.Counters{Granted: 1, Pending: 0, Total: 1}, status(t, svc))

	grant, err := svc.ViewGrant(ctx, id)
	require.NoError(t, err)
	assert.Equal(t, models.AccessGrant{RecordID: 1, AccessGranted: true}, grant)

	require.NoError(t, svc.RevokeRecord(ctx, id))
	assert.Equal(t, models.Counters{Granted: 1, Pending: 0, Revoked: 1, Total: 1}, status(t, svc))

	before := status(t, svc)
	err = svc.RevokeRecord(ctx, id)
	assert.ErrorIs(t, err, service.ErrAlreadyRevokedOrNotFound)
	assert.Equal(t, before, status(t, svc))

	// The grant is left as it was after revocation.
	grant, err = svc.ViewGrant(ctx, id)
	require.NoError(t, err)
	assert.True(t, grant.AccessGranted)
}

func TestLedgerScenario_RevokeNeverCreated(t *testing.T) {
	svc, backend := newLedger(t)

	err := svc.RevokeRecord(context.Background(), 999)
	assert.ErrorIs(t, err, service.ErrAlreadyRevokedOrNotFound)
	assert.Zero(t, backend.Len(), "a rejected operation writes nothing")
}

func TestLedger_MissingRecordIsSentinel(t *testing.T) {
	svc, _ := newLedger(t)
	ctx := context.Background()

	_, err := svc.CreateRecord(ctx, "p1", "hash1")
	require.NoError(t, err)

	for _, id := range []uint64{0, 2, 12345} {
		record, err := svc.ViewRecord(ctx, id)
		require.NoError(t, err)
		assert.Equal(t, models.MissingRecord(), record, "id %d", id)
	}
}

func TestLedger_SecondGrantRejectedWithoutChange(t *testing.T) {
	svc, _ := newLedger(t)
	ctx := context.Background()

	id, err := svc.CreateRecord(ctx, "p1", "hash1")
	require.NoError(t, err)
	require.NoError(t, svc.RequestAccess(ctx, id))
	before := status(t, svc)

	err = svc.RequestAccess(ctx, id)
	assert.ErrorIs(t, err, service.ErrAlreadyGranted)
	assert.Equal(t, before, status(t, svc))
}

func TestLedger_GrantWithoutPendingGoesNegative(t *testing.T) {
	svc, _ := newLedger(t)

	require.NoError(t, svc.RequestAccess(context.Background(), 77))
	assert.Equal(t, models.Counters{Granted: 1, Pending: -1}, status(t, svc))
}

// A record already sitting in the next slot blocks creation.
func TestLedger_CreateOverActiveSlot(t *testing.T) {
	svc, backend := newLedger(t)
	ctx := context.Background()

	require.NoError(t, backend.RunInTx(ctx, func(ctx context.Context, kv store.KV) error {
		squatter := models.NewHealthRecord(1, "someone", "h", 1)
		return store.NewRepository(kv).SaveRecord(ctx, 1, &squatter)
	}))

	_, err := svc.CreateRecord(ctx, "p1", "hash1")
	assert.ErrorIs(t, err, service.ErrInvalidState)
	assert.Equal(t, models.Counters{}, status(t, svc))

	// Once the squatter is revoked the slot can be taken.
	require.NoError(t, svc.RevokeRecord(ctx, 1))
	id, err := svc.CreateRecord(ctx, "p1", "hash1")
	require.NoError(t, err)
	assert.Equal(t, uint64(1), id)
}

func TestLedger_ViewsAreIdempotent(t *testing.T) {
	svc, _ := newLedger(t)
	ctx := context.Background()

	id, err := svc.CreateRecord(ctx, "p1", "hash1")
	require.NoError(t, err)

	r1, err := svc.ViewRecord(ctx, id)
	require.NoError(t, err)
	r2, err := svc.ViewRecord(ctx, id)
	require.NoError(t, err)
	assert.Equal(t, r1, r2)

	g1, err := svc.ViewGrant(ctx, id)
	require.NoError(t, err)
	g2, err := svc.ViewGrant(ctx, id)
	require.NoError(t, err)
	assert.Equal(t, g1, g2)

	assert.Equal(t, status(t, svc), status(t, svc))
}

func TestLedger_ConcurrentCreatesGetDistinctIDs(t *testing.T) {
	svc, _ := newLedger(t)
	const workers = 32

	ids := make([]uint64, workers)
	result := testutil.RunConcurrent(workers, func(idx int) error {
		id, err := svc.CreateRecord(context.Background(), "p", "h")
		ids[idx] = id
		return err
	})
	require.Equal(t, int32(workers), result.Successes)

	seen := make(map[uint64]bool)
	for _, id := range ids {
		assert.False(t, seen[id], "duplicate id %d", id)
		seen[id] = true
	}
	assert.Equal(t, int64(workers), status(t, svc).Total)
}

func TestLedger_ConcurrentGrantsOnOneRecord(t *testing.T) {
	svc, _ := newLedger(t)
	ctx := context.Background()
	id, err := svc.CreateRecord(ctx, "p1", "hash1")
	require.NoError(t, err)

	result := testutil.RunConcurrent(16, func(int) error {
		return svc.RequestAccess(ctx, id)
	})

	assert.Equal(t, int32(1), result.Successes)
	assert.Equal(t, int32(15), result.Rejections)
	assert.Equal(t, models.Counters{Granted: 1, Total: 1}, status(t, svc))
}
