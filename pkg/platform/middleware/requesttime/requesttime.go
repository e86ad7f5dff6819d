// Package requesttime provides the request-scoped clock used as the ledger's host clock.
// Every operation within one request (or one chaincode transaction) observes the same "now",
// so a record's timestamp, its audit event and its log line agree.
package requesttime

import (
	"context"
	"net/http"
	"time"
)

type contextKeyRequestTime struct{}

// Middleware captures the current time at the start of the request
// and stores it in the context for consistent time references throughout the request.
func Middleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		ctx := WithTime(r.Context(), time.Now())
		next.ServeHTTP(w, r.WithContext(ctx))
	})
}

// Now retrieves the request-scoped time from context.
// Falls back to time.Now() if not set (workers, CLI, tests).
func Now(ctx context.Context) time.Time {
	if t, ok := ctx.Value(contextKeyRequestTime{}).(time.Time); ok {
		return t
	}
	return time.Now()
}

// Seconds returns the request-scoped time as a ledger timestamp (seconds since the Unix epoch).
// Times before the epoch clamp to zero.
func Seconds(ctx context.Context) uint64 {
	unix := Now(ctx).Unix()
	if unix < 0 {
		return 0
	}
	return uint64(unix)
}

// WithTime injects a specific time into a context.
// The chaincode host uses it to pin the transaction timestamp; tests use it for determinism.
func WithTime(ctx context.Context, t time.Time) context.Context {
	return context.WithValue(ctx, contextKeyRequestTime{}, t)
}
