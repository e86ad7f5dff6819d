package httputil

import (
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"

	dErrors "healthledger/pkg/domain-errors"
)

func TestWriteError(t *testing.T) {
	tests := []struct {
		name       string
		err        error
		wantStatus int
		wantCode   string
		wantDesc   bool
	}{
		{"invalid state", dErrors.New(dErrors.CodeInvalidState, "slot active"), http.StatusConflict, "invalid_state", true},
		{"already revoked", dErrors.New(dErrors.CodeAlreadyRevoked, "revoked"), http.StatusConflict, "already_revoked_or_not_found", true},
		{"already granted", dErrors.New(dErrors.CodeAlreadyGranted, "granted"), http.StatusConflict, "already_granted", true},
		{"timeout", dErrors.New(dErrors.CodeTimeout, "deadline"), http.StatusGatewayTimeout, "timeout", true},
		{"internal hides description", dErrors.New(dErrors.CodeInternal, "leveldb: closed"), http.StatusInternalServerError, "internal_error", false},
		{"plain error", errors.New("boom"), http.StatusInternalServerError, "internal_error", false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			w := httptest.NewRecorder()
			WriteError(w, tt.err)

			assert.Equal(t, tt.wantStatus, w.Code)
			body := decodeError(t, w)
			assert.Equal(t, tt.wantCode, body["error"])
			_, hasDesc := body["error_description"]
			assert.Equal(t, tt.wantDesc, hasDesc)
		})
	}
}
