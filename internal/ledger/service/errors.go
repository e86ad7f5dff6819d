package service

import (
	dErrors "healthledger/pkg/domain-errors"
)

// Caller errors. They are detected before any write, so a failed operation leaves state untouched.
var (
	ErrInvalidState             = dErrors.New(dErrors.CodeInvalidState, "record slot is still active")
	ErrAlreadyRevokedOrNotFound = dErrors.New(dErrors.CodeAlreadyRevoked, "record already revoked or not found")
	ErrAlreadyGranted           = dErrors.New(dErrors.CodeAlreadyGranted, "access already granted")
)

// isRejection reports whether err is one of the caller errors above.
func isRejection(err error) bool {
	switch dErrors.CodeOf(err) {
	case dErrors.CodeInvalidState, dErrors.CodeAlreadyRevoked, dErrors.CodeAlreadyGranted:
		return true
	}
	return false
}
