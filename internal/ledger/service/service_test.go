package service_test

// Unit tests for the ledger service against a mocked Store.
//
// These cover invariants that are awkward to reach through the HTTP
// features: the create guard, no writes on rejection, and error mapping
// across the transaction boundary. Happy paths also run end to end in
// e2e/features/ledger.feature.

//go:generate mockgen -source=service.go -destination=mocks/mocks.go -package=mocks Store,StoreTx

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"log/slog"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	promtestutil "github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/suite"
	"go.uber.org/mock/gomock"

	"healthledger/internal/audit"
	"healthledger/internal/ledger/metrics"
	"healthledger/internal/ledger/models"
	"healthledger/internal/ledger/service"
	"healthledger/internal/ledger/service/mocks"
	"healthledger/internal/platform/privacy"
	dErrors "healthledger/pkg/domain-errors"
	"healthledger/pkg/platform/middleware/requesttime"
	"healthledger/pkg/platform/sentinel"
	"healthledger/pkg/requestcontext"
)

type ServiceSuite struct {
	suite.Suite
	ctrl       *gomock.Controller
	mockStore  *mocks.MockStore
	mockTx     *mocks.MockStoreTx
	auditStore *audit.InMemoryStore
	metrics    *metrics.Metrics
	service    *service.Service
	ctx        context.Context
	now        time.Time
}

func (s *ServiceSuite) SetupTest() {
	s.ctrl = gomock.NewController(s.T())
	s.mockStore = mocks.NewMockStore(s.ctrl)
	s.mockTx = mocks.NewMockStoreTx(s.ctrl)
	s.auditStore = audit.NewInMemoryStore()
	s.metrics = metrics.New(prometheus.NewRegistry())
	s.service = service.New(
		s.mockTx,
		slog.New(slog.NewTextHandler(io.Discard, nil)),
		service.WithAuditor(audit.NewPublisher(s.auditStore)),
		service.WithMetrics(s.metrics),
	)
	s.now = time.Unix(1700000000, 0)
	s.ctx = requesttime.WithTime(context.Background(), s.now)
	s.ctx = requestcontext.WithRequestID(s.ctx, "req-1")
}

func (s *ServiceSuite) TearDownTest() {
	s.ctrl.Finish()
}

func TestServiceSuite(t *testing.T) {
	suite.Run(t, new(ServiceSuite))
}

// expectTx runs the transaction body against the mocked store.
func (s *ServiceSuite) expectTx() {
	s.mockTx.EXPECT().RunInTx(gomock.Any(), gomock.Any()).DoAndReturn(
		func(ctx context.Context, fn func(context.Context, service.Store) error) error {
			return fn(ctx, s.mockStore)
		})
}

func (s *ServiceSuite) operations(op, outcome string) float64 {
	return promtestutil.ToFloat64(s.metrics.Operations.WithLabelValues(op, outcome))
}

// =============================================================================
// CreateRecord
// =============================================================================

func (s *ServiceSuite) TestCreateRecord_FirstRecord() {
	s.expectTx()
	gomock.InOrder(
		s.mockStore.EXPECT().LoadSequence(gomock.Any()).Return(uint64(0), nil),
		s.mockStore.EXPECT().FindRecord(gomock.Any(), uint64(1)).Return(nil, sentinel.ErrNotFound),
		s.mockStore.EXPECT().LoadCounters(gomock.Any()).Return(models.Counters{}, nil),
		s.mockStore.EXPECT().SaveRecord(gomock.Any(), uint64(1), &models.HealthRecord{
			RecordID:  1,
			PatientID: "p1",
			DataHash:  "hash1",
			Timestamp: uint64(s.now.Unix()),
		}).Return(nil),
		s.mockStore.EXPECT().SaveCounters(gomock.Any(), models.Counters{Pending: 1, Total: 1}).Return(nil),
		s.mockStore.EXPECT().SaveSequence(gomock.Any(), uint64(1)).Return(nil),
	)

	id, err := s.service.CreateRecord(s.ctx, "p1", "hash1")
	s.Require().NoError(err)
	s.Equal(uint64(1), id)

	events := s.auditStore.All()
	s.Require().Len(events, 1)
	s.Equal(models.AuditActionRecordCreated, events[0].Action)
	s.Equal(uint64(1), events[0].RecordID)
	s.Equal(privacy.PatientRef("p1"), events[0].PatientRef)
	s.Equal("req-1", events[0].RequestID)
	encoded, err := json.Marshal(events[0])
	s.Require().NoError(err)
	s.NotContains(string(encoded), `"p1"`)
	s.Equal(s.now, events[0].Timestamp)
	s.Equal(1.0, s.operations("create_record", metrics.OutcomeOK))
}

// The id comes from total+1 while the guard reads the slot at sequence+1.
func (s *ServiceSuite) TestCreateRecord_IDFromTotalGuardFromSequence() {
	s.expectTx()
	s.mockStore.EXPECT().LoadSequence(gomock.Any()).Return(uint64(7), nil)
	s.mockStore.EXPECT().FindRecord(gomock.Any(), uint64(8)).Return(nil, sentinel.ErrNotFound)
	s.mockStore.EXPECT().LoadCounters(gomock.Any()).Return(models.Counters{Pending: 2, Revoked: 1, Total: 3}, nil)
	s.mockStore.EXPECT().SaveRecord(gomock.Any(), uint64(4), gomock.Any()).Return(nil)
	s.mockStore.EXPECT().SaveCounters(gomock.Any(), models.Counters{Pending: 3, Revoked: 1, Total: 4}).Return(nil)
	s.mockStore.EXPECT().SaveSequence(gomock.Any(), uint64(8)).Return(nil)

	id, err := s.service.CreateRecord(s.ctx, "p2", "hash2")
	s.Require().NoError(err)
	s.Equal(uint64(4), id)
}

func (s *ServiceSuite) TestCreateRecord_RevokedSlotIsReusable() {
	revoked := models.NewHealthRecord(1, "old", "old-hash", 1).Revoked()

	s.expectTx()
	s.mockStore.EXPECT().LoadSequence(gomock.Any()).Return(uint64(0), nil)
	s.mockStore.EXPECT().FindRecord(gomock.Any(), uint64(1)).Return(&revoked, nil)
	s.mockStore.EXPECT().LoadCounters(gomock.Any()).Return(models.Counters{}, nil)
	s.mockStore.EXPECT().SaveRecord(gomock.Any(), uint64(1), gomock.Any()).Return(nil)
	s.mockStore.EXPECT().SaveCounters(gomock.Any(), gomock.Any()).Return(nil)
	s.mockStore.EXPECT().SaveSequence(gomock.Any(), uint64(1)).Return(nil)

	_, err := s.service.CreateRecord(s.ctx, "p1", "hash1")
	s.NoError(err)
}

// An active record at the next slot blocks creation and nothing is written.
func (s *ServiceSuite) TestCreateRecord_ActiveSlotIsInvalidState() {
	active := models.NewHealthRecord(3, "p1", "hash1", 1)

	s.expectTx()
	s.mockStore.EXPECT().LoadSequence(gomock.Any()).Return(uint64(2), nil)
	s.mockStore.EXPECT().FindRecord(gomock.Any(), uint64(3)).Return(&active, nil)

	id, err := s.service.CreateRecord(s.ctx, "p9", "hash9")
	s.Require().Error(err)
	s.ErrorIs(err, service.ErrInvalidState)
	s.True(dErrors.HasCode(err, dErrors.CodeInvalidState))
	s.Zero(id)
	s.Empty(s.auditStore.All())
	s.Equal(1.0, s.operations("create_record", metrics.OutcomeRejected))
}

func (s *ServiceSuite) TestCreateRecord_StoreFailureWritesNothingAfterIt() {
	boom := errors.New("disk full")

	s.expectTx()
	s.mockStore.EXPECT().LoadSequence(gomock.Any()).Return(uint64(0), nil)
	s.mockStore.EXPECT().FindRecord(gomock.Any(), uint64(1)).Return(nil, sentinel.ErrNotFound)
	s.mockStore.EXPECT().LoadCounters(gomock.Any()).Return(models.Counters{}, nil)
	s.mockStore.EXPECT().SaveRecord(gomock.Any(), uint64(1), gomock.Any()).Return(boom)

	_, err := s.service.CreateRecord(s.ctx, "p1", "hash1")
	s.ErrorIs(err, boom)
	s.Empty(s.auditStore.All())
	s.Equal(1.0, s.operations("create_record", metrics.OutcomeError))
}

// =============================================================================
// RevokeRecord
// =============================================================================

func (s *ServiceSuite) TestRevokeRecord_LeavesPendingUntouched() {
	record := models.NewHealthRecord(1, "p1", "hash1", 10)

	s.expectTx()
	s.mockStore.EXPECT().FindRecord(gomock.Any(), uint64(1)).Return(&record, nil)
	s.mockStore.EXPECT().LoadCounters(gomock.Any()).Return(models.Counters{Pending: 1, Total: 1}, nil)
	s.mockStore.EXPECT().SaveRecord(gomock.Any(), uint64(1), &models.HealthRecord{
		RecordID: 1, PatientID: "p1", DataHash: "hash1", Timestamp: 10, IsRevoked: true,
	}).Return(nil)
	s.mockStore.EXPECT().SaveCounters(gomock.Any(), models.Counters{Pending: 1, Revoked: 1, Total: 1}).Return(nil)

	s.Require().NoError(s.service.RevokeRecord(s.ctx, 1))

	events := s.auditStore.All()
	s.Require().Len(events, 1)
	s.Equal(models.AuditActionRecordRevoked, events[0].Action)
	s.Equal(privacy.PatientRef("p1"), events[0].PatientRef)
	s.Equal(-1.0, promtestutil.ToFloat64(s.metrics.CounterDrift))
}

func (s *ServiceSuite) TestRevokeRecord_Rejections() {
	revoked := models.NewHealthRecord(2, "p1", "hash1", 10).Revoked()

	tests := []struct {
		name   string
		id     uint64
		record *models.HealthRecord
		err    error
	}{
		{name: "never created", id: 999, err: sentinel.ErrNotFound},
		{name: "already revoked", id: 2, record: &revoked},
	}

	for _, tt := range tests {
		s.Run(tt.name, func() {
			s.expectTx()
			s.mockStore.EXPECT().FindRecord(gomock.Any(), tt.id).Return(tt.record, tt.err)

			err := s.service.RevokeRecord(s.ctx, tt.id)
			s.ErrorIs(err, service.ErrAlreadyRevokedOrNotFound)
			s.True(dErrors.HasCode(err, dErrors.CodeAlreadyRevoked))
		})
	}
	s.Empty(s.auditStore.All())
}

// =============================================================================
// RequestAccess
// =============================================================================

func (s *ServiceSuite) TestRequestAccess_GrantsWithoutPendingFloor() {
	s.expectTx()
	s.mockStore.EXPECT().FindGrant(gomock.Any(), uint64(5)).Return(nil, sentinel.ErrNotFound)
	s.mockStore.EXPECT().LoadCounters(gomock.Any()).Return(models.Counters{}, nil)
	s.mockStore.EXPECT().SaveGrant(gomock.Any(), uint64(5), &models.AccessGrant{RecordID: 5, AccessGranted: true}).Return(nil)
	s.mockStore.EXPECT().SaveCounters(gomock.Any(), models.Counters{Granted: 1, Pending: -1}).Return(nil)

	s.Require().NoError(s.service.RequestAccess(s.ctx, 5))

	events := s.auditStore.All()
	s.Require().Len(events, 1)
	s.Equal(models.AuditActionAccessRequested, events[0].Action)
}

func (s *ServiceSuite) TestRequestAccess_AlreadyGranted() {
	granted := models.Granted(1)

	s.expectTx()
	s.mockStore.EXPECT().FindGrant(gomock.Any(), uint64(1)).Return(&granted, nil)

	err := s.service.RequestAccess(s.ctx, 1)
	s.ErrorIs(err, service.ErrAlreadyGranted)
	s.True(dErrors.HasCode(err, dErrors.CodeAlreadyGranted))
	s.Empty(s.auditStore.All())
}

func (s *ServiceSuite) TestRequestAccess_RecordsCaller() {
	ctx := requestcontext.WithCaller(s.ctx, requestcontext.Caller{Subject: "dr-who", Role: "provider"})

	s.expectTx()
	s.mockStore.EXPECT().FindGrant(gomock.Any(), uint64(1)).Return(nil, sentinel.ErrNotFound)
	s.mockStore.EXPECT().LoadCounters(gomock.Any()).Return(models.Counters{Pending: 1, Total: 1}, nil)
	s.mockStore.EXPECT().SaveGrant(gomock.Any(), uint64(1), gomock.Any()).Return(nil)
	s.mockStore.EXPECT().SaveCounters(gomock.Any(), models.Counters{Granted: 1, Total: 1}).Return(nil)

	s.Require().NoError(s.service.RequestAccess(ctx, 1))
	s.Equal("dr-who", s.auditStore.All()[0].Actor)
}

// =============================================================================
// Views
// =============================================================================

func (s *ServiceSuite) TestViews_Defaults() {
	s.expectTx()
	s.mockStore.EXPECT().FindRecord(gomock.Any(), uint64(42)).Return(nil, sentinel.ErrNotFound)
	record, err := s.service.ViewRecord(s.ctx, 42)
	s.Require().NoError(err)
	s.Equal(models.MissingRecord(), record)

	s.expectTx()
	s.mockStore.EXPECT().FindGrant(gomock.Any(), uint64(42)).Return(nil, sentinel.ErrNotFound)
	grant, err := s.service.ViewGrant(s.ctx, 42)
	s.Require().NoError(err)
	s.Equal(models.AccessGrant{}, grant)

	s.expectTx()
	s.mockStore.EXPECT().LoadCounters(gomock.Any()).Return(models.Counters{}, nil)
	counters, err := s.service.ViewAllStatus(s.ctx)
	s.Require().NoError(err)
	s.Equal(models.Counters{}, counters)
}

func (s *ServiceSuite) TestViews_PropagateTxErrors() {
	timeout := dErrors.New(dErrors.CodeTimeout, "ledger transaction timed out")
	s.mockTx.EXPECT().RunInTx(gomock.Any(), gomock.Any()).Return(timeout).Times(3)

	_, err := s.service.ViewRecord(s.ctx, 1)
	s.True(dErrors.HasCode(err, dErrors.CodeTimeout))
	_, err = s.service.ViewGrant(s.ctx, 1)
	s.True(dErrors.HasCode(err, dErrors.CodeTimeout))
	_, err = s.service.ViewAllStatus(s.ctx)
	s.True(dErrors.HasCode(err, dErrors.CodeTimeout))

	s.Equal(1.0, s.operations("view_record", metrics.OutcomeError))
}

// Side effects happen once per committed operation even when the store re-runs the body.
func (s *ServiceSuite) TestRetriedTransactionAuditsOnce() {
	s.mockTx.EXPECT().RunInTx(gomock.Any(), gomock.Any()).DoAndReturn(
		func(ctx context.Context, fn func(context.Context, service.Store) error) error {
			if err := fn(ctx, s.mockStore); err != nil {
				return err
			}
			return fn(ctx, s.mockStore)
		})
	s.mockStore.EXPECT().FindGrant(gomock.Any(), uint64(1)).Return(nil, sentinel.ErrNotFound).Times(2)
	s.mockStore.EXPECT().LoadCounters(gomock.Any()).Return(models.Counters{Pending: 1, Total: 1}, nil).Times(2)
	s.mockStore.EXPECT().SaveGrant(gomock.Any(), uint64(1), gomock.Any()).Return(nil).Times(2)
	s.mockStore.EXPECT().SaveCounters(gomock.Any(), gomock.Any()).Return(nil).Times(2)

	s.Require().NoError(s.service.RequestAccess(s.ctx, 1))
	s.Len(s.auditStore.All(), 1)
}
