package models

// NotFound is the patient and hash placeholder carried by the missing-record sentinel.
const NotFound = "Not Found"

// HealthRecord is one data submission registered by a patient.
//
// RecordID is assigned by the ledger. DataHash is an opaque reference to
// off-ledger content and is never interpreted. Timestamp is fixed at
// creation. IsRevoked flips to true at most once and never back.
type HealthRecord struct {
	RecordID  uint64 `json:"record_id"`
	PatientID string `json:"patient_id"`
	DataHash  string `json:"data_hash"`
	Timestamp uint64 `json:"timestamp"`
	IsRevoked bool   `json:"is_revoked"`
}

// NewHealthRecord builds an active record.
func NewHealthRecord(recordID uint64, patientID, dataHash string, timestamp uint64) HealthRecord {
	return HealthRecord{
		RecordID:  recordID,
		PatientID: patientID,
		DataHash:  dataHash,
		Timestamp: timestamp,
	}
}

// MissingRecord is what callers see for an id that was never created.
// It reads as revoked, so it can be neither revoked nor overwritten by the create guard.
func MissingRecord() HealthRecord {
	return HealthRecord{
		RecordID:  0,
		PatientID: NotFound,
		DataHash:  NotFound,
		Timestamp: 0,
		IsRevoked: true,
	}
}

// CanRevoke returns true if the record is still active.
func (r HealthRecord) CanRevoke() bool {
	return !r.IsRevoked
}

// Revoked returns a copy of r marked revoked.
func (r HealthRecord) Revoked() HealthRecord {
	r.IsRevoked = true
	return r
}

// AccessGrant is the admin-control entry for a record. It exists implicitly
// as the zero value until the first successful access request persists it.
type AccessGrant struct {
	RecordID      uint64 `json:"record_id"`
	AccessGranted bool   `json:"access_granted"`
}

// DefaultGrant is returned for ids with no persisted grant.
func DefaultGrant() AccessGrant {
	return AccessGrant{}
}

// Granted returns the persisted form of a grant for recordID.
func Granted(recordID uint64) AccessGrant {
	return AccessGrant{RecordID: recordID, AccessGranted: true}
}
