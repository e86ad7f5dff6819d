// Package requestcontext carries request-scoped values (correlation ID, authenticated caller)
// from transport middleware down to services without importing transport packages.
package requestcontext

import "context"

type requestIDKey struct{}

type callerKey struct{}

// Caller identifies the authenticated party invoking a ledger operation.
// Role is informational: the ledger core does not authorize by role.
type Caller struct {
	Subject string
	Role    string
}

// WithRequestID returns a context carrying the request correlation ID.
func WithRequestID(ctx context.Context, requestID string) context.Context {
	return context.WithValue(ctx, requestIDKey{}, requestID)
}

// RequestID retrieves the correlation ID, or "" outside a request.
func RequestID(ctx context.Context) string {
	if id, ok := ctx.Value(requestIDKey{}).(string); ok {
		return id
	}
	return ""
}

// WithCaller returns a context carrying the authenticated caller.
func WithCaller(ctx context.Context, caller Caller) context.Context {
	return context.WithValue(ctx, callerKey{}, caller)
}

// CallerFrom retrieves the authenticated caller. ok is false when the request was not authenticated.
func CallerFrom(ctx context.Context) (Caller, bool) {
	c, ok := ctx.Value(callerKey{}).(Caller)
	return c, ok
}
