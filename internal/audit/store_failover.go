package audit

import (
	"context"
	"log/slog"
	"sync/atomic"

	"healthledger/pkg/platform/circuit"
)

// FailoverStore appends to primary and spills to fallback while primary is
// failing. Once the circuit closes again the spilled events are replayed to
// primary in their original order. Events survive an outage only as long as
// the process does and only up to the fallback's capacity.
type FailoverStore struct {
	primary  Store
	fallback SpillStore
	breaker  *circuit.Breaker
	logger   *slog.Logger
	replay   atomic.Bool
}

func NewFailoverStore(primary Store, fallback SpillStore, logger *slog.Logger, opts ...circuit.Option) *FailoverStore {
	s := &FailoverStore{
		primary:  primary,
		fallback: fallback,
		logger:   logger,
	}
	opts = append(opts, circuit.WithOnStateChange(func(name string, to circuit.State) {
		if logger != nil {
			logger.Warn("audit sink circuit changed state", "sink", name, "state", to.String())
		}
		if to == circuit.StateClosed {
			s.replay.Store(true)
		}
	}))
	s.breaker = circuit.New("audit", opts...)
	return s
}

func (s *FailoverStore) Append(ctx context.Context, event Event) error {
	err := s.breaker.Do(
		func() error { return s.primary.Append(ctx, event) },
		func() error { return s.fallback.Append(ctx, event) },
	)
	if s.replay.CompareAndSwap(true, false) {
		s.replaySpilled(ctx)
	}
	return err
}

// replaySpilled moves spilled events back to primary. Events that cannot be
// delivered are returned to the fallback.
func (s *FailoverStore) replaySpilled(ctx context.Context) {
	events := s.fallback.Drain()
	for i, event := range events {
		if err := s.primary.Append(ctx, event); err != nil {
			for _, rest := range events[i:] {
				_ = s.fallback.Append(ctx, rest)
			}
			if s.logger != nil {
				s.logger.Error("audit replay interrupted", "error", err, "replayed", i, "remaining", len(events)-i)
			}
			return
		}
	}
	if s.logger != nil && len(events) > 0 {
		s.logger.Info("audit events replayed", "count", len(events), "evicted_total", s.fallback.Evicted())
	}
}

// Degraded reports whether events are currently bypassing the primary.
func (s *FailoverStore) Degraded() bool {
	return s.breaker.State() != circuit.StateClosed
}
