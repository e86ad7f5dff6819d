// Package circuit provides a circuit breaker for calls to optional
// dependencies such as the audit broker.
package circuit

import (
	"sync"
	"time"
)

// State represents the circuit breaker state.
type State int

const (
	// StateClosed means the primary path is healthy.
	StateClosed State = iota
	// StateOpen means the primary path has failed repeatedly; calls go straight to the fallback.
	StateOpen
	// StateHalfOpen means the cooldown elapsed and the primary is being tried again.
	StateHalfOpen
)

func (s State) String() string {
	switch s {
	case StateOpen:
		return "open"
	case StateHalfOpen:
		return "half_open"
	default:
		return "closed"
	}
}

// Breaker opens after FailureThreshold consecutive failures. While open the
// primary is skipped until Cooldown has passed; the breaker then goes half-open
// and closes after SuccessThreshold consecutive successes. A failure while
// half-open reopens it and restarts the cooldown.
type Breaker struct {
	mu               sync.Mutex
	state            State
	name             string
	failureCount     int
	successCount     int
	failureThreshold int
	successThreshold int
	cooldown         time.Duration
	openedAt         time.Time
	now              func() time.Time
	onChange         func(name string, to State)
}

// Option configures a Breaker instance.
type Option func(*Breaker)

// WithFailureThreshold sets the number of consecutive failures to open the circuit.
// Default is 5.
func WithFailureThreshold(n int) Option {
	return func(b *Breaker) {
		if n > 0 {
			b.failureThreshold = n
		}
	}
}

// WithSuccessThreshold sets the number of consecutive half-open successes to close the circuit.
// Default is 3.
func WithSuccessThreshold(n int) Option {
	return func(b *Breaker) {
		if n > 0 {
			b.successThreshold = n
		}
	}
}

// WithCooldown sets how long the circuit stays open before the primary is retried.
// Default is 30s; zero retries on the next call.
func WithCooldown(d time.Duration) Option {
	return func(b *Breaker) {
		if d >= 0 {
			b.cooldown = d
		}
	}
}

// WithOnStateChange registers a callback invoked on every transition, outside the lock.
func WithOnStateChange(fn func(name string, to State)) Option {
	return func(b *Breaker) {
		b.onChange = fn
	}
}

// New creates a circuit breaker with the given name and options.
func New(name string, opts ...Option) *Breaker {
	b := &Breaker{
		name:             name,
		state:            StateClosed,
		failureThreshold: 5,
		successThreshold: 3,
		cooldown:         30 * time.Second,
		now:              time.Now,
	}
	for _, opt := range opts {
		if opt != nil {
			opt(b)
		}
	}
	return b
}

// Name returns the circuit breaker's name for logging/metrics.
func (b *Breaker) Name() string {
	return b.name
}

// State returns the current circuit state.
func (b *Breaker) State() State {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.state
}

// IsOpen reports whether calls currently bypass the primary.
func (b *Breaker) IsOpen() bool {
	return b.State() == StateOpen
}

// Do runs primary unless the circuit is open, and runs fallback when the
// primary was skipped or failed. It returns the fallback's error when the
// fallback ran, otherwise nil.
func (b *Breaker) Do(primary, fallback func() error) error {
	if !b.allow() {
		return fallback()
	}
	if err := primary(); err != nil {
		b.record(false)
		return fallback()
	}
	b.record(true)
	return nil
}

// allow reports whether the primary may run, moving an open circuit to
// half-open once the cooldown has elapsed.
func (b *Breaker) allow() bool {
	b.mu.Lock()
	if b.state != StateOpen {
		b.mu.Unlock()
		return true
	}
	if b.now().Sub(b.openedAt) < b.cooldown {
		b.mu.Unlock()
		return false
	}
	b.state = StateHalfOpen
	b.successCount = 0
	onChange := b.onChange
	b.mu.Unlock()

	if onChange != nil {
		onChange(b.name, StateHalfOpen)
	}
	return true
}

// record updates the counters and fires the transition callback.
func (b *Breaker) record(success bool) {
	b.mu.Lock()
	prev := b.state
	switch {
	case success && b.state == StateHalfOpen:
		b.successCount++
		if b.successCount >= b.successThreshold {
			b.state = StateClosed
			b.failureCount = 0
			b.successCount = 0
		}
	case success:
		b.failureCount = 0
	case b.state == StateHalfOpen:
		b.open()
	default:
		b.failureCount++
		if b.state == StateClosed && b.failureCount >= b.failureThreshold {
			b.open()
		}
	}
	state, onChange := b.state, b.onChange
	b.mu.Unlock()

	if state != prev && onChange != nil {
		onChange(b.name, state)
	}
}

// open must be called with mu held.
func (b *Breaker) open() {
	b.state = StateOpen
	b.openedAt = b.now()
	b.successCount = 0
}

// Reset resets the circuit breaker to closed state with zero counts.
func (b *Breaker) Reset() {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.state = StateClosed
	b.failureCount = 0
	b.successCount = 0
}
