package metrics

import (
	"testing"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"

	"healthledger/internal/ledger/models"
)

func TestObserveOperation(t *testing.T) {
	m := New(prometheus.NewRegistry())

	m.ObserveOperation("create_record", OutcomeOK, 0.002)
	m.ObserveOperation("create_record", OutcomeOK, 0.003)
	m.ObserveOperation("revoke_record", OutcomeRejected, 0.001)

	assert.Equal(t, 2.0, testutil.ToFloat64(m.Operations.WithLabelValues("create_record", OutcomeOK)))
	assert.Equal(t, 1.0, testutil.ToFloat64(m.Operations.WithLabelValues("revoke_record", OutcomeRejected)))
	assert.Equal(t, 2, testutil.CollectAndCount(m.OperationLatency))
}

func TestSetCounters(t *testing.T) {
	m := New(prometheus.NewRegistry())

	m.SetCounters(models.Counters{Granted: 1, Pending: 0, Revoked: 1, Total: 1})

	assert.Equal(t, 1.0, testutil.ToFloat64(m.Counters.WithLabelValues("granted")))
	assert.Equal(t, 0.0, testutil.ToFloat64(m.Counters.WithLabelValues("pending")))
	assert.Equal(t, 1.0, testutil.ToFloat64(m.Counters.WithLabelValues("revoked")))
	assert.Equal(t, 1.0, testutil.ToFloat64(m.Counters.WithLabelValues("total")))
	assert.Equal(t, -1.0, testutil.ToFloat64(m.CounterDrift))
}

func TestNewOnSeparateRegistries(t *testing.T) {
	assert.NotPanics(t, func() {
		New(prometheus.NewRegistry())
		New(prometheus.NewRegistry())
	})
}
