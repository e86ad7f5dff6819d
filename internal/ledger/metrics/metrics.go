package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"

	"healthledger/internal/ledger/models"
)

// Operation outcomes.
const (
	OutcomeOK       = "ok"
	OutcomeRejected = "rejected"
	OutcomeError    = "error"
)

// Metrics holds Prometheus collectors for ledger operations.
type Metrics struct {
	Operations       *prometheus.CounterVec
	OperationLatency *prometheus.HistogramVec
	// Counters mirrors the persisted aggregate, labeled by state.
	Counters     *prometheus.GaugeVec
	CounterDrift prometheus.Gauge
}

// New registers ledger collectors with reg. Tests pass a fresh registry.
func New(reg prometheus.Registerer) *Metrics {
	factory := promauto.With(reg)
	return &Metrics{
		Operations: factory.NewCounterVec(prometheus.CounterOpts{
			Name: "healthledger_operations_total",
			Help: "Total number of ledger operations, labeled by operation and outcome",
		}, []string{"operation", "outcome"}),
		OperationLatency: factory.NewHistogramVec(prometheus.HistogramOpts{
			Name:    "healthledger_operation_latency_seconds",
			Help:    "Latency of ledger operations in seconds, including the store transaction",
			Buckets: []float64{0.0001, 0.0005, 0.001, 0.005, 0.01, 0.05, 0.1, 0.5, 1},
		}, []string{"operation"}),
		Counters: factory.NewGaugeVec(prometheus.GaugeOpts{
			Name: "healthledger_records",
			Help: "Aggregate record counters as last committed, labeled by state",
		}, []string{"state"}),
		CounterDrift: factory.NewGauge(prometheus.GaugeOpts{
			Name: "healthledger_counter_drift",
			Help: "total minus (pending + granted + revoked) after the last mutation",
		}),
	}
}

// ObserveOperation records one operation's outcome and latency.
func (m *Metrics) ObserveOperation(operation, outcome string, durationSeconds float64) {
	m.Operations.WithLabelValues(operation, outcome).Inc()
	m.OperationLatency.WithLabelValues(operation).Observe(durationSeconds)
}

// SetCounters publishes the committed aggregate.
func (m *Metrics) SetCounters(c models.Counters) {
	m.Counters.WithLabelValues("granted").Set(float64(c.Granted))
	m.Counters.WithLabelValues("pending").Set(float64(c.Pending))
	m.Counters.WithLabelValues("revoked").Set(float64(c.Revoked))
	m.Counters.WithLabelValues("total").Set(float64(c.Total))
	m.CounterDrift.Set(float64(c.Drift()))
}
