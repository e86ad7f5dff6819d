package secrets

import (
	"crypto/rand"
	"encoding/base64"

	dErrors "healthledger/pkg/domain-errors"
)

// MinSigningKeyLength is the shortest HS256 key the server accepts.
const MinSigningKeyLength = 32

// Generate creates a cryptographically secure random secret, base64url encoded.
// It is long enough to serve as a token signing key.
func Generate() (string, error) {
	buf := make([]byte, 32)
	if _, err := rand.Read(buf); err != nil {
		return "", dErrors.Wrap(err, dErrors.CodeInternal, "could not generate secret")
	}
	return base64.RawURLEncoding.EncodeToString(buf), nil
}

// CheckSigningKey rejects keys too short to sign caller tokens safely.
func CheckSigningKey(key string) error {
	if len(key) < MinSigningKeyLength {
		return dErrors.New(dErrors.CodeValidation, "signing key must be at least 32 bytes")
	}
	return nil
}
