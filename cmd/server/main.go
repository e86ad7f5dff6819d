package main

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"golang.org/x/sync/errgroup"

	"healthledger/internal/audit"
	jwttoken "healthledger/internal/jwt_token"
	"healthledger/internal/ledger/handler"
	ledgermetrics "healthledger/internal/ledger/metrics"
	"healthledger/internal/ledger/service"
	"healthledger/internal/platform/config"
	"healthledger/internal/platform/health"
	"healthledger/internal/platform/kafka/producer"
	"healthledger/internal/platform/logger"
	"healthledger/internal/platform/tracer"
	httptransport "healthledger/internal/transport/http"
	"healthledger/pkg/platform/middleware/auth"
	"healthledger/pkg/platform/middleware/request"
	"healthledger/pkg/secrets"
)

const (
	shutdownTimeout   = 10 * time.Second
	poolStatsInterval = 15 * time.Second
)

// main wires high-level dependencies, exposes the HTTP router, and keeps the
// server lifecycle small. Business logic lives in internal/ledger.
func main() {
	cfg := config.FromEnv()
	log := logger.New(cfg.LogLevel)

	if err := run(cfg, log); err != nil {
		log.Error("server exited", "error", err)
		os.Exit(1)
	}
	log.Info("server stopped")
}

func run(cfg config.Server, log *slog.Logger) error {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	log.Info("initializing healthledger",
		"addr", cfg.Addr,
		"env", cfg.Environment,
		"backend", cfg.Store.Backend,
		"auth", cfg.AuthEnabled(),
	)

	reg := prometheus.NewRegistry()
	reg.MustRegister(collectors.NewGoCollector(), collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}))

	backend, err := openBackend(ctx, cfg, reg, log)
	if err != nil {
		return fmt.Errorf("open backend: %w", err)
	}
	defer func() {
		if err := backend.Close(); err != nil {
			log.Error("failed to close backend", "error", err)
		}
	}()

	healthHandler := health.New(cfg.Environment)
	healthHandler.RegisterCheck("store", backend.backend.Ping)

	auditor, closeAudit, err := buildAuditor(cfg, log, healthHandler)
	if err != nil {
		return fmt.Errorf("audit sink: %w", err)
	}
	defer closeAudit()

	svc := service.New(
		service.NewStoreTx(backend.backend, cfg.TxTimeout),
		log,
		service.WithMetrics(ledgermetrics.New(reg)),
		service.WithAuditor(auditor),
		service.WithTracer(tracer.NewOTel()),
	)

	var authMW func(http.Handler) http.Handler
	if cfg.AuthEnabled() {
		if err := secrets.CheckSigningKey(cfg.JWTSigningKey); err != nil {
			return err
		}
		jwtSvc := jwttoken.NewJWTService(cfg.JWTSigningKey, config.TokenIssuer, config.TokenAudience, time.Hour)
		authMW = auth.RequireCaller(jwttoken.NewJWTServiceAdapter(jwtSvc), log)
	}

	router := httptransport.NewRouter(httptransport.RouterDeps{
		Logger:         log,
		Ledger:         handler.New(svc, log),
		Health:         healthHandler,
		Metrics:        request.NewMetrics(reg),
		Auth:           authMW,
		MetricsHandler: promhttp.HandlerFor(reg, promhttp.HandlerOpts{Registry: reg}),
	})

	srv := &http.Server{
		Addr:              cfg.Addr,
		Handler:           router,
		ReadHeaderTimeout: 5 * time.Second,
	}

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		log.Info("starting http server", "addr", cfg.Addr)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return err
		}
		return nil
	})
	g.Go(func() error {
		<-gctx.Done()
		log.Info("shutting down server gracefully")
		shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
		defer cancel()
		return srv.Shutdown(shutdownCtx)
	})
	if backend.redis != nil {
		g.Go(func() error {
			return backend.redis.RunPoolStats(gctx, poolStatsInterval)
		})
	}

	return g.Wait()
}

// buildAuditor selects the Kafka sink when brokers are configured, otherwise
// events stay in memory. The returned func drains and closes the sink.
func buildAuditor(cfg config.Server, log *slog.Logger, hh *health.Handler) (*audit.Publisher, func(), error) {
	opts := []audit.PublisherOption{audit.WithPublisherLogger(log)}
	if cfg.Audit.Buffer > 0 {
		opts = append(opts, audit.WithAsyncBuffer(cfg.Audit.Buffer))
	}

	if len(cfg.Audit.Brokers) == 0 {
		p := audit.NewPublisher(audit.NewInMemoryStore(audit.WithCapacity(cfg.Audit.MemoryCapacity)), opts...)
		return p, p.Close, nil
	}

	prod, err := producer.New(producer.DefaultConfig(strings.Join(cfg.Audit.Brokers, ",")), log)
	if err != nil {
		return nil, nil, err
	}
	hh.RegisterCheck("audit", prod.Ping)

	sink := audit.NewFailoverStore(
		audit.NewKafkaStore(prod, cfg.Audit.Topic),
		audit.NewInMemoryStore(audit.WithCapacity(cfg.Audit.MemoryCapacity)),
		log,
	)
	p := audit.NewPublisher(sink, opts...)
	closeFn := func() {
		p.Close()
		if err := prod.Close(); err != nil {
			log.Error("failed to close kafka producer", "error", err)
		}
	}
	log.Info("audit events routed to kafka", "topic", cfg.Audit.Topic)
	return p, closeFn, nil
}
