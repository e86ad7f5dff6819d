package audit

import "time"

// Event is emitted after a ledger mutation commits. Keep it
// transport-agnostic so stores and sinks can fan out.
type Event struct {
	ID        string    `json:"id"`
	Timestamp time.Time `json:"timestamp"`
	Action    string    `json:"action"`
	RecordID  uint64    `json:"record_id"`
	// PatientRef is the hashed patient id; raw ids never leave the ledger.
	PatientRef string `json:"patient_ref,omitempty"`
	// Actor is the authenticated caller subject, empty for unauthenticated hosts.
	Actor     string `json:"actor,omitempty"`
	RequestID string `json:"request_id,omitempty"`
}
