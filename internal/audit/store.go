package audit

import "context"

// Store is an append-only audit sink.
type Store interface {
	Append(ctx context.Context, event Event) error
}

// SpillStore holds events while the primary sink is unavailable and hands
// them back for replay.
type SpillStore interface {
	Store
	Drain() []Event
	Evicted() uint64
}
