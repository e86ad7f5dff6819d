package models

import (
	s "healthledger/pkg/string"
	"healthledger/pkg/validation"
)

// CreateRecordRequest is the HTTP body for registering a record.
// The ledger core accepts any strings; the HTTP surface rejects empty ones.
type CreateRecordRequest struct {
	PatientID string `json:"patient_id" validate:"required,notblank,max=256,nocontrol"`
	DataHash  string `json:"data_hash" validate:"required,notblank,max=1024,nocontrol"`
}

// Sanitize trims surrounding whitespace.
func (r *CreateRecordRequest) Sanitize() {
	if r == nil {
		return
	}
	s.TrimStrings(&r.PatientID, &r.DataHash)
}

// Validate checks that the request is well-formed.
func (r *CreateRecordRequest) Validate() error {
	return validation.Validate(r)
}

// CreateRecordResponse carries the id assigned by the ledger.
type CreateRecordResponse struct {
	RecordID uint64 `json:"record_id"`
}

// ActionResponse acknowledges a revoke or access request.
type ActionResponse struct {
	RecordID uint64 `json:"record_id"`
	Message  string `json:"message"`
}

// StatusResponse is the aggregate view returned by the status endpoint.
type StatusResponse struct {
	Granted int64 `json:"granted"`
	Pending int64 `json:"pending"`
	Revoked int64 `json:"revoked"`
	Total   int64 `json:"total"`
	Drift   int64 `json:"drift"`
}

// ToStatusResponse converts the counters for transport.
func ToStatusResponse(c Counters) StatusResponse {
	return StatusResponse{
		Granted: c.Granted,
		Pending: c.Pending,
		Revoked: c.Revoked,
		Total:   c.Total,
		Drift:   c.Drift(),
	}
}
