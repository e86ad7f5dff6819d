package chaincode

import (
	"io"
	"log/slog"
	"testing"
	"time"

	"github.com/hyperledger/fabric-chaincode-go/shim"
	"github.com/hyperledger/fabric-contract-api-go/contractapi"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"google.golang.org/protobuf/types/known/timestamppb"

	"healthledger/internal/ledger/models"
	dErrors "healthledger/pkg/domain-errors"
)

// fakeStub implements the world-state subset of the chaincode stub.
// Unimplemented stub methods panic through the nil embedded interface.
type fakeStub struct {
	shim.ChaincodeStubInterface
	state map[string][]byte
	txID  string
	ts    time.Time
}

func (f *fakeStub) GetState(key string) ([]byte, error) {
	return f.state[key], nil
}

func (f *fakeStub) PutState(key string, value []byte) error {
	f.state[key] = value
	return nil
}

func (f *fakeStub) GetTxID() string {
	return f.txID
}

func (f *fakeStub) GetTxTimestamp() (*timestamppb.Timestamp, error) {
	return timestamppb.New(f.ts), nil
}

type fakeContext struct {
	contractapi.TransactionContextInterface
	stub *fakeStub
}

func (f *fakeContext) GetStub() shim.ChaincodeStubInterface {
	return f.stub
}

func newFakeContext(at time.Time) *fakeContext {
	return &fakeContext{stub: &fakeStub{state: map[string][]byte{}, txID: "tx-1", ts: at}}
}

func newTestContract() *HealthcareDataContract {
	return NewContract(slog.New(slog.NewTextHandler(io.Discard, nil)))
}

func TestContract_Lifecycle(t *testing.T) {
	at := time.Unix(1_700_000_000, 0)
	ctx := newFakeContext(at)
	c := newTestContract()

	id, err := c.CreateData(ctx, "p1", "hash1")
	require.NoError(t, err)
	assert.Equal(t, uint64(1), id)

	record, err := c.ViewData(ctx, 1)
	require.NoError(t, err)
	assert.Equal(t, models.HealthRecord{RecordID: 1, PatientID: "p1", DataHash: "hash1", Timestamp: 1_700_000_000}, *record)

	require.NoError(t, c.RequestAccess(ctx, 1))
	grant, err := c.ViewAdminControl(ctx, 1)
	require.NoError(t, err)
	assert.True(t, grant.AccessGranted)

	require.NoError(t, c.RevokeAccess(ctx, 1))
	counters, err := c.ViewAllDataStatus(ctx)
	require.NoError(t, err)
	assert.Equal(t, models.Counters{Granted: 1, Pending: 0, Revoked: 1, Total: 1}, *counters)

	assert.Contains(t, ctx.stub.state, "ALL_DATA")
	assert.Contains(t, ctx.stub.state, "C_DATA")
	assert.Contains(t, ctx.stub.state, "Data:1")
	assert.Contains(t, ctx.stub.state, "AdminControl:1")
}

func TestContract_FailedInvocationWritesNothing(t *testing.T) {
	ctx := newFakeContext(time.Unix(1_700_000_000, 0))
	c := newTestContract()

	err := c.RevokeAccess(ctx, 999)
	require.Error(t, err)
	assert.True(t, dErrors.HasCode(err, dErrors.CodeAlreadyRevoked))
	assert.Empty(t, ctx.stub.state)

	require.NoError(t, c.RequestAccess(ctx, 5))
	before := len(ctx.stub.state)
	err = c.RequestAccess(ctx, 5)
	require.Error(t, err)
	assert.True(t, dErrors.HasCode(err, dErrors.CodeAlreadyGranted))
	assert.Len(t, ctx.stub.state, before)
}

func TestContract_ViewDataSentinel(t *testing.T) {
	ctx := newFakeContext(time.Unix(1_700_000_000, 0))

	record, err := newTestContract().ViewData(ctx, 42)
	require.NoError(t, err)
	assert.Equal(t, models.MissingRecord(), *record)
	assert.Empty(t, ctx.stub.state)
}

func TestContract_ChaincodeBuilds(t *testing.T) {
	_, err := contractapi.NewChaincode(newTestContract())
	require.NoError(t, err)
}
