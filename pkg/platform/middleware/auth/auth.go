// Package auth authenticates ledger callers from bearer tokens.
// It only establishes who is calling; the ledger does not restrict operations by caller.
package auth

import (
	"log/slog"
	"net/http"
	"strings"

	dErrors "healthledger/pkg/domain-errors"
	"healthledger/pkg/platform/httputil"
	"healthledger/pkg/requestcontext"
)

// JWTValidator defines the interface for validating JWT tokens
type JWTValidator interface {
	ValidateToken(tokenString string) (*JWTClaims, error)
}

// JWTClaims represents the claims we expect from the JWT validator
type JWTClaims struct {
	Subject string
	Role    string
}

// RequireCaller rejects requests without a valid bearer token and stores
// the caller in the request context.
func RequireCaller(validator JWTValidator, logger *slog.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			ctx := r.Context()

			token, ok := strings.CutPrefix(r.Header.Get("Authorization"), "Bearer ")
			if !ok || token == "" {
				logger.WarnContext(ctx, "unauthorized access - missing token",
					"request_id", requestcontext.RequestID(ctx),
				)
				httputil.WriteError(w, dErrors.New(dErrors.CodeUnauthorized, "Missing or invalid Authorization header"))
				return
			}

			claims, err := validator.ValidateToken(token)
			if err != nil {
				logger.WarnContext(ctx, "unauthorized access - invalid token",
					"error", err,
					"request_id", requestcontext.RequestID(ctx),
				)
				httputil.WriteError(w, dErrors.New(dErrors.CodeUnauthorized, "Invalid or expired token"))
				return
			}

			ctx = requestcontext.WithCaller(ctx, requestcontext.Caller{Subject: claims.Subject, Role: claims.Role})
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

// OptionalCaller records the caller when a valid token is present and
// passes every request through. Used when authentication is disabled.
func OptionalCaller(validator JWTValidator, logger *slog.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if validator == nil {
				next.ServeHTTP(w, r)
				return
			}
			ctx := r.Context()
			if token, ok := strings.CutPrefix(r.Header.Get("Authorization"), "Bearer "); ok && token != "" {
				if claims, err := validator.ValidateToken(token); err == nil {
					ctx = requestcontext.WithCaller(ctx, requestcontext.Caller{Subject: claims.Subject, Role: claims.Role})
				} else {
					logger.DebugContext(ctx, "ignoring invalid token",
						"error", err,
						"request_id", requestcontext.RequestID(ctx),
					)
				}
			}
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}
