package service

import (
	"context"
	"log/slog"

	"healthledger/internal/audit"
	"healthledger/internal/ledger/metrics"
	"healthledger/internal/ledger/models"
	"healthledger/internal/platform/tracer"
)

// Store is the typed view of ledger state inside one transaction.
// Error Contract:
//   - FindRecord and FindGrant return sentinel.ErrNotFound when nothing is stored for the id
//   - LoadCounters and LoadSequence return zero values when uninitialized
//   - other failures are infrastructure errors
type Store interface {
	FindRecord(ctx context.Context, id uint64) (*models.HealthRecord, error)
	SaveRecord(ctx context.Context, id uint64, record *models.HealthRecord) error
	FindGrant(ctx context.Context, id uint64) (*models.AccessGrant, error)
	SaveGrant(ctx context.Context, id uint64, grant *models.AccessGrant) error
	LoadCounters(ctx context.Context) (models.Counters, error)
	SaveCounters(ctx context.Context, counters models.Counters) error
	LoadSequence(ctx context.Context) (uint64, error)
	SaveSequence(ctx context.Context, seq uint64) error
}

// StoreTx runs fn as one atomic unit. Nothing fn writes is visible unless
// fn returns nil. fn may run more than once.
type StoreTx interface {
	RunInTx(ctx context.Context, fn func(ctx context.Context, store Store) error) error
}

type Option func(*Service)

// Service implements the record ledger, the access controller and the
// aggregate counters on top of a transactional store.
type Service struct {
	tx      StoreTx
	logger  *slog.Logger
	auditor *audit.Publisher
	metrics *metrics.Metrics
	tracer  tracer.Tracer
}

func New(tx StoreTx, logger *slog.Logger, opts ...Option) *Service {
	svc := &Service{
		tx:     tx,
		logger: logger,
	}
	for _, opt := range opts {
		opt(svc)
	}
	if svc.logger == nil {
		svc.logger = slog.Default()
	}
	if svc.tracer == nil {
		svc.tracer = tracer.NewNoop()
	}
	return svc
}

// WithMetrics sets the metrics instance for the service
func WithMetrics(m *metrics.Metrics) Option {
	return func(s *Service) {
		s.metrics = m
	}
}

// WithAuditor publishes an audit event after every committed mutation.
func WithAuditor(p *audit.Publisher) Option {
	return func(s *Service) {
		s.auditor = p
	}
}

func WithTracer(t tracer.Tracer) Option {
	return func(s *Service) {
		s.tracer = t
	}
}
