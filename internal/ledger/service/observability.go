package service

import (
	"context"
	"time"

	"healthledger/internal/audit"
	"healthledger/internal/ledger/metrics"
	"healthledger/internal/ledger/models"
	"healthledger/internal/platform/tracer"
	dErrors "healthledger/pkg/domain-errors"
	"healthledger/pkg/platform/middleware/requesttime"
	"healthledger/pkg/requestcontext"
)

// observe records the outcome of one operation. Caller errors log at warn,
// infrastructure errors at error.
func (s *Service) observe(ctx context.Context, operation string, start time.Time, err error) {
	outcome := metrics.OutcomeOK
	switch {
	case err == nil:
	case isRejection(err):
		outcome = metrics.OutcomeRejected
		s.logger.WarnContext(ctx, "ledger operation rejected",
			"operation", operation,
			"code", dErrors.CodeOf(err),
			"error", err,
		)
	default:
		outcome = metrics.OutcomeError
		s.logger.ErrorContext(ctx, "ledger operation failed",
			"operation", operation,
			"code", dErrors.CodeOf(err),
			"error", err,
		)
	}
	if s.metrics != nil {
		s.metrics.ObserveOperation(operation, outcome, time.Since(start).Seconds())
	}
}

// afterCommit publishes the committed counters and flags drift between
// total and the per-state sums.
func (s *Service) afterCommit(ctx context.Context, span tracer.Span, counters models.Counters) {
	span.AddEvent(tracer.EventCommitted, tracer.Int64(tracer.AttrDrift, counters.Drift()))
	if s.metrics != nil {
		s.metrics.SetCounters(counters)
	}
	if drift := counters.Drift(); drift != 0 {
		s.logger.WarnContext(ctx, "aggregate counters drifted",
			"drift", drift,
			"total", counters.Total,
			"pending", counters.Pending,
			"granted", counters.Granted,
			"revoked", counters.Revoked,
		)
	}
}

// emitAudit fills in caller context and publishes the event. Audit failures
// are logged and never fail the committed operation.
func (s *Service) emitAudit(ctx context.Context, event audit.Event) {
	if s.auditor == nil {
		return
	}
	if caller, ok := requestcontext.CallerFrom(ctx); ok {
		event.Actor = caller.Subject
	}
	event.RequestID = requestcontext.RequestID(ctx)
	event.Timestamp = requesttime.Now(ctx)
	if err := s.auditor.Emit(ctx, event); err != nil {
		s.logger.ErrorContext(ctx, "failed to emit audit event",
			"action", event.Action,
			"record_id", event.RecordID,
			"error", err,
		)
	}
}
