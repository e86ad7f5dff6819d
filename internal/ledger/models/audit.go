package models

// Audit event actions, one per successful mutation.
const (
	AuditActionRecordCreated   = "record_created"
	AuditActionRecordRevoked   = "record_revoked"
	AuditActionAccessRequested = "access_granted"
)
