package httptransport

import (
	"log/slog"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"

	"healthledger/internal/ledger/handler"
	"healthledger/internal/platform/health"
	"healthledger/pkg/platform/httputil"
	"healthledger/pkg/platform/middleware/request"
	"healthledger/pkg/platform/middleware/requesttime"
)

// defaultRequestTimeout applies when RouterDeps.RequestTimeout is zero.
const defaultRequestTimeout = 30 * time.Second

// RouterDeps are the pieces the router mounts. Optional fields may be nil.
type RouterDeps struct {
	Logger  *slog.Logger
	Ledger  *handler.Handler
	Health  *health.Handler
	Metrics *request.Metrics
	// Auth wraps the ledger routes, typically auth.RequireCaller or auth.OptionalCaller.
	Auth func(http.Handler) http.Handler
	// MetricsHandler serves /metrics.
	MetricsHandler http.Handler
	RequestTimeout time.Duration
}

// NewRouter wires all public endpoints with middleware.
// Probes and /metrics sit outside authentication.
func NewRouter(d RouterDeps) http.Handler {
	timeout := d.RequestTimeout
	if timeout == 0 {
		timeout = defaultRequestTimeout
	}

	r := chi.NewRouter()

	r.Use(request.Recovery(d.Logger))
	r.Use(request.RequestID)
	r.Use(requesttime.Middleware)
	r.Use(request.Logger(d.Logger))
	r.Use(request.LatencyMiddleware(d.Metrics))
	r.Use(request.Timeout(timeout))
	r.Use(request.ContentTypeJSON)
	r.Use(request.BodyLimit(httputil.MaxBodyBytes))

	if d.Health != nil {
		d.Health.Register(r)
	}
	if d.MetricsHandler != nil {
		r.Method(http.MethodGet, "/metrics", d.MetricsHandler)
	}

	r.Group(func(r chi.Router) {
		if d.Auth != nil {
			r.Use(d.Auth)
		}
		d.Ledger.Register(r)
	})

	return r
}
