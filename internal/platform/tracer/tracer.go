// Package tracer provides a small tracing abstraction for ledger operations.
//
// Callers depend on the Tracer interface rather than OpenTelemetry directly.
// NoopTracer is used in tests; OTelTracer adapts the global OpenTelemetry
// provider for the server.
package tracer

import "context"

// Span represents an active trace span.
type Span interface {
	// End completes the span, marking it failed when err is non-nil.
	// End must be called exactly once, typically via defer.
	End(err error)

	SetAttributes(attrs ...Attribute)

	AddEvent(name string, attrs ...Attribute)
}

// Tracer creates spans. Implementations must be safe for concurrent use.
type Tracer interface {
	// Start creates a span and returns a context carrying it.
	//
	// Example:
	//   ctx, span := tr.Start(ctx, tracer.SpanRevokeRecord,
	//       tracer.Int64(tracer.AttrRecordID, int64(id)),
	//   )
	//   defer span.End(err)
	Start(ctx context.Context, name string, attrs ...Attribute) (context.Context, Span)
}

// Attribute represents a key-value pair attached to spans.
type Attribute struct {
	Key   string
	Value any
}

// String creates a string attribute.
func String(key, value string) Attribute {
	return Attribute{Key: key, Value: value}
}

// Bool creates a boolean attribute.
func Bool(key string, value bool) Attribute {
	return Attribute{Key: key, Value: value}
}

// Int64 creates an int64 attribute.
func Int64(key string, value int64) Attribute {
	return Attribute{Key: key, Value: value}
}

// Span names for ledger operations.
const (
	SpanCreateRecord  = "ledger.create_record"
	SpanRevokeRecord  = "ledger.revoke_record"
	SpanRequestAccess = "ledger.request_access"
	SpanViewRecord    = "ledger.view_record"
	SpanViewGrant     = "ledger.view_grant"
	SpanViewAllStatus = "ledger.view_all_status"
)

// Attribute keys for ledger spans.
const (
	AttrRecordID    = "ledger.record_id"
	AttrPatientHash = "ledger.patient_hash"
	AttrOutcome     = "ledger.outcome"
	AttrDrift       = "ledger.counter_drift"
)

// Event names for ledger spans.
const (
	EventCommitted = "ledger.committed"
)
