package audit

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"healthledger/internal/platform/kafka/producer"
)

func TestPublisherSyncFillsDefaults(t *testing.T) {
	store := NewInMemoryStore()
	p := NewPublisher(store)

	require.NoError(t, p.Emit(context.Background(), Event{Action: "record_created", RecordID: 1}))

	events := store.All()
	require.Len(t, events, 1)
	assert.NotEmpty(t, events[0].ID)
	assert.False(t, events[0].Timestamp.IsZero())
}

func TestPublisherKeepsProvidedFields(t *testing.T) {
	store := NewInMemoryStore()
	p := NewPublisher(store)
	ts := time.Unix(1700000000, 0)

	require.NoError(t, p.Emit(context.Background(), Event{ID: "evt-1", Timestamp: ts, RecordID: 2}))

	events := store.All()
	require.Len(t, events, 1)
	assert.Equal(t, "evt-1", events[0].ID)
	assert.Equal(t, ts, events[0].Timestamp)
}

func TestPublisherAsyncDrainsOnClose(t *testing.T) {
	store := NewInMemoryStore()
	p := NewPublisher(store, WithAsyncBuffer(16))

	for i := uint64(1); i <= 5; i++ {
		require.NoError(t, p.Emit(context.Background(), Event{Action: "record_created", RecordID: i}))
	}
	p.Close()

	assert.Len(t, store.All(), 5)
}

type blockingStore struct {
	release chan struct{}
	mu      sync.Mutex
	count   int
}

func (b *blockingStore) Append(context.Context, Event) error {
	<-b.release
	b.mu.Lock()
	b.count++
	b.mu.Unlock()
	return nil
}

func TestPublisherAsyncDropsWhenFull(t *testing.T) {
	store := &blockingStore{release: make(chan struct{})}
	p := NewPublisher(store, WithAsyncBuffer(1))

	// One event may be held by the worker and one in the buffer; the rest are dropped.
	for i := 0; i < 10; i++ {
		require.NoError(t, p.Emit(context.Background(), Event{RecordID: 1}))
	}
	close(store.release)
	p.Close()

	assert.LessOrEqual(t, store.count, 2)
	assert.GreaterOrEqual(t, store.count, 1)
}

type fakeProducer struct {
	msgs []*producer.Message
	err  error
}

func (f *fakeProducer) Produce(_ context.Context, msg *producer.Message) error {
	if f.err != nil {
		return f.err
	}
	f.msgs = append(f.msgs, msg)
	return nil
}

func TestKafkaStoreAppend(t *testing.T) {
	fp := &fakeProducer{}
	s := NewKafkaStore(fp, "ledger.audit")

	err := s.Append(context.Background(), Event{
		ID:        "evt-1",
		Timestamp: time.Unix(1700000000, 0).UTC(),
		Action:    "record_revoked",
		RecordID:  42,
		RequestID: "req-1",
	})
	require.NoError(t, err)
	require.Len(t, fp.msgs, 1)

	msg := fp.msgs[0]
	assert.Equal(t, "ledger.audit", msg.Topic)
	assert.Equal(t, []byte("42"), msg.Key)
	assert.Equal(t, "record_revoked", msg.Headers["action"])
	assert.Equal(t, "req-1", msg.Headers["request_id"])
	assert.JSONEq(t, `{"id":"evt-1","timestamp":"2023-11-14T22:13:20Z","action":"record_revoked","record_id":42,"request_id":"req-1"}`, string(msg.Value))
}

func TestKafkaStoreAppendError(t *testing.T) {
	s := NewKafkaStore(&fakeProducer{err: errors.New("broker down")}, "ledger.audit")

	err := s.Append(context.Background(), Event{RecordID: 1})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "broker down")
}

func TestInMemoryStoreEvictsOldestBeyondCapacity(t *testing.T) {
	s := NewInMemoryStore(WithCapacity(3))
	for i := uint64(1); i <= 5; i++ {
		require.NoError(t, s.Append(context.Background(), Event{RecordID: i}))
	}

	assert.Equal(t, []uint64{3, 4, 5}, recordIDs(s.All()))
	assert.Equal(t, uint64(2), s.Evicted())
}

func TestInMemoryStoreDrain(t *testing.T) {
	s := NewInMemoryStore()
	require.NoError(t, s.Append(context.Background(), Event{RecordID: 1}))
	require.NoError(t, s.Append(context.Background(), Event{RecordID: 2}))

	assert.Equal(t, []uint64{1, 2}, recordIDs(s.Drain()))
	assert.Empty(t, s.All())
	assert.Empty(t, s.Drain())
}
