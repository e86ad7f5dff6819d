package audit

import (
	"context"
	"sync"
)

// DefaultMemoryCapacity bounds an InMemoryStore created without WithCapacity.
const DefaultMemoryCapacity = 10_000

// InMemoryStore keeps the most recent events up to its capacity; older events
// are evicted first.
type InMemoryStore struct {
	mu       sync.Mutex
	events   []Event
	capacity int
	evicted  uint64
}

// MemoryOption configures an InMemoryStore.
type MemoryOption func(*InMemoryStore)

// WithCapacity sets the maximum number of retained events.
func WithCapacity(n int) MemoryOption {
	return func(s *InMemoryStore) {
		if n > 0 {
			s.capacity = n
		}
	}
}

func NewInMemoryStore(opts ...MemoryOption) *InMemoryStore {
	s := &InMemoryStore{capacity: DefaultMemoryCapacity}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

func (s *InMemoryStore) Append(_ context.Context, event Event) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if len(s.events) >= s.capacity {
		s.events = s.events[1:]
		s.evicted++
	}
	s.events = append(s.events, event)
	return nil
}

// Drain removes and returns every retained event in append order.
func (s *InMemoryStore) Drain() []Event {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := s.events
	s.events = nil
	return out
}

// Evicted returns how many events were dropped to stay within capacity.
func (s *InMemoryStore) Evicted() uint64 {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.evicted
}

// All returns every retained event in append order.
func (s *InMemoryStore) All() []Event {
	s.mu.Lock()
	defer s.mu.Unlock()
	return append([]Event{}, s.events...)
}
