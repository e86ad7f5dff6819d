// Package chaincode hosts the ledger as a Hyperledger Fabric smart contract.
// Each invocation binds the service to the stub's world state and pins the
// clock to the transaction timestamp, so every endorsing peer computes the
// same write set.
package chaincode

import (
	"context"
	"log/slog"

	"github.com/hyperledger/fabric-contract-api-go/contractapi"

	"healthledger/internal/ledger/models"
	"healthledger/internal/ledger/service"
	"healthledger/internal/ledger/store"
	"healthledger/pkg/platform/middleware/requesttime"
	"healthledger/pkg/requestcontext"
)

// HealthcareDataContract exposes the ledger operations as chaincode transactions.
type HealthcareDataContract struct {
	contractapi.Contract

	Logger *slog.Logger `json:"-"`
}

// NewContract builds the contract with the given logger.
func NewContract(logger *slog.Logger) *HealthcareDataContract {
	c := &HealthcareDataContract{Logger: logger}
	c.Name = "HealthcareDataContract"
	return c
}

// CreateData registers a new health record and returns its id.
func (c *HealthcareDataContract) CreateData(ctx contractapi.TransactionContextInterface, patientID, dataHash string) (uint64, error) {
	svc, tctx, err := c.bind(ctx)
	if err != nil {
		return 0, err
	}
	return svc.CreateRecord(tctx, patientID, dataHash)
}

// RevokeAccess revokes an active record.
func (c *HealthcareDataContract) RevokeAccess(ctx contractapi.TransactionContextInterface, recordID uint64) error {
	svc, tctx, err := c.bind(ctx)
	if err != nil {
		return err
	}
	return svc.RevokeRecord(tctx, recordID)
}

// RequestAccess grants access to a record id.
func (c *HealthcareDataContract) RequestAccess(ctx contractapi.TransactionContextInterface, recordID uint64) error {
	svc, tctx, err := c.bind(ctx)
	if err != nil {
		return err
	}
	return svc.RequestAccess(tctx, recordID)
}

// ViewAllDataStatus returns the aggregate counters.
func (c *HealthcareDataContract) ViewAllDataStatus(ctx contractapi.TransactionContextInterface) (*models.Counters, error) {
	svc, tctx, err := c.bind(ctx)
	if err != nil {
		return nil, err
	}
	counters, err := svc.ViewAllStatus(tctx)
	if err != nil {
		return nil, err
	}
	return &counters, nil
}

// ViewData returns the record, or the not-found sentinel.
func (c *HealthcareDataContract) ViewData(ctx contractapi.TransactionContextInterface, recordID uint64) (*models.HealthRecord, error) {
	svc, tctx, err := c.bind(ctx)
	if err != nil {
		return nil, err
	}
	record, err := svc.ViewRecord(tctx, recordID)
	if err != nil {
		return nil, err
	}
	return &record, nil
}

// ViewAdminControl returns the access grant for a record id.
func (c *HealthcareDataContract) ViewAdminControl(ctx contractapi.TransactionContextInterface, recordID uint64) (*models.AccessGrant, error) {
	svc, tctx, err := c.bind(ctx)
	if err != nil {
		return nil, err
	}
	grant, err := svc.ViewGrant(tctx, recordID)
	if err != nil {
		return nil, err
	}
	return &grant, nil
}

// bind builds a service over the invocation's world state.
func (c *HealthcareDataContract) bind(ctx contractapi.TransactionContextInterface) (*service.Service, context.Context, error) {
	stub := ctx.GetStub()

	tctx := requestcontext.WithRequestID(context.Background(), stub.GetTxID())
	ts, err := stub.GetTxTimestamp()
	if err != nil {
		return nil, nil, err
	}
	if ts != nil {
		tctx = requesttime.WithTime(tctx, ts.AsTime())
	}

	logger := c.Logger
	if logger == nil {
		logger = slog.Default()
	}
	svc := service.New(service.NewStoreTx(store.NewFabric(stub), 0), logger)
	return svc, tctx, nil
}
