package audit

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"healthledger/pkg/platform/circuit"
)

type flakyStore struct {
	err    error
	calls  int
	events []Event
}

func (f *flakyStore) Append(_ context.Context, e Event) error {
	f.calls++
	if f.err != nil {
		return f.err
	}
	f.events = append(f.events, e)
	return nil
}

func recordIDs(events []Event) []uint64 {
	ids := make([]uint64, 0, len(events))
	for _, e := range events {
		ids = append(ids, e.RecordID)
	}
	return ids
}

func TestFailoverStoreSkipsPrimaryWhileOpen(t *testing.T) {
	primary := &flakyStore{err: errors.New("broker down")}
	fallback := NewInMemoryStore()
	s := NewFailoverStore(primary, fallback, nil,
		circuit.WithFailureThreshold(2),
		circuit.WithCooldown(time.Hour),
	)

	for i := uint64(1); i <= 50; i++ {
		require.NoError(t, s.Append(context.Background(), Event{RecordID: i}))
	}

	assert.True(t, s.Degraded())
	assert.Equal(t, 2, primary.calls)
	assert.Len(t, fallback.All(), 50)
}

func TestFailoverStoreReplaysSpilledEventsOnRecovery(t *testing.T) {
	primary := &flakyStore{err: errors.New("broker down")}
	fallback := NewInMemoryStore()
	s := NewFailoverStore(primary, fallback, nil,
		circuit.WithFailureThreshold(2),
		circuit.WithSuccessThreshold(1),
		circuit.WithCooldown(0),
	)

	for i := uint64(1); i <= 3; i++ {
		require.NoError(t, s.Append(context.Background(), Event{RecordID: i}))
	}
	assert.True(t, s.Degraded())
	assert.Len(t, fallback.All(), 3)

	primary.err = nil
	require.NoError(t, s.Append(context.Background(), Event{RecordID: 4}))

	assert.False(t, s.Degraded())
	assert.Equal(t, []uint64{4, 1, 2, 3}, recordIDs(primary.events))
	assert.Empty(t, fallback.All())
}

type failAfterStore struct {
	ok     int
	events []Event
}

func (f *failAfterStore) Append(_ context.Context, e Event) error {
	if len(f.events) >= f.ok {
		return errors.New("broker down")
	}
	f.events = append(f.events, e)
	return nil
}

func TestFailoverStoreKeepsUndeliveredReplayEvents(t *testing.T) {
	fallback := NewInMemoryStore()
	for i := uint64(1); i <= 3; i++ {
		require.NoError(t, fallback.Append(context.Background(), Event{RecordID: i}))
	}
	primary := &failAfterStore{ok: 2}
	s := NewFailoverStore(primary, fallback, nil)
	s.replay.Store(true)

	require.NoError(t, s.Append(context.Background(), Event{RecordID: 4}))

	assert.Equal(t, []uint64{4, 1}, recordIDs(primary.events))
	assert.Equal(t, []uint64{2, 3}, recordIDs(fallback.All()))
}

func TestFailoverStoreReportsFallbackError(t *testing.T) {
	s := NewFailoverStore(&flakyStore{err: errors.New("broker down")}, &erroringSpill{err: errors.New("disk full")}, nil)

	err := s.Append(context.Background(), Event{RecordID: 1})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "disk full")
}

type erroringSpill struct{ err error }

func (e *erroringSpill) Append(context.Context, Event) error { return e.err }
func (e *erroringSpill) Drain() []Event                      { return nil }
func (e *erroringSpill) Evicted() uint64                     { return 0 }
