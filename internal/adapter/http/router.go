package http

import (
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	chimiddleware "github.com/go-chi/chi/v5/middleware"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/rs/zerolog"

	"github.com/iho/chronledger/internal/adapter/http/handler"
	"github.com/iho/chronledger/internal/adapter/http/middleware"
	"github.com/iho/chronledger/internal/usecase"
)

// RouterConfig holds dependencies for the router.
type RouterConfig struct {
	AccountHandler  *handler.AccountHandler
	TransferHandler *handler.TransferHandler
	ListingHandler  *handler.ListingHandler
	LedgerHandler   *handler.LedgerHandler
	HealthHandler   *handler.HealthHandler

	IdempotencyStore usecase.IdempotencyStore // optional
	IdempotencyTTL   time.Duration
	RateLimiter      *middleware.RateLimiter // optional
	MetricsHandler   http.Handler            // defaults to promhttp.Handler()
	Logger           zerolog.Logger
}

// NewRouter creates a new HTTP router.
func NewRouter(cfg RouterConfig) http.Handler {
	r := chi.NewRouter()

	// Global middleware
	r.Use(chimiddleware.RequestID)
	r.Use(chimiddleware.RealIP)
	r.Use(middleware.NewLoggingMiddleware(cfg.Logger).Wrap)
	r.Use(middleware.Recovery(cfg.Logger))
	r.Use(middleware.Metrics)

	if cfg.RateLimiter != nil {
		r.Use(cfg.RateLimiter.Limit)
	}

	// Health endpoints
	r.Get("/health", cfg.HealthHandler.Liveness)
	r.Get("/ready", cfg.HealthHandler.Readiness)

	metricsHandler := cfg.MetricsHandler
	if metricsHandler == nil {
		metricsHandler = promhttp.Handler()
	}
	r.Handle("/metrics", metricsHandler)

	// API v1
	r.Route("/api/v1", func(r chi.Router) {
		// Idempotency middleware for mutating requests
		if cfg.IdempotencyStore != nil {
			idempotencyMiddleware := middleware.NewIdempotencyMiddleware(cfg.IdempotencyStore, cfg.IdempotencyTTL, cfg.Logger)
			r.Use(idempotencyMiddleware.Wrap)
		}

		// Accounts
		r.Route("/accounts/{id}", func(r chi.Router) {
			r.Get("/balance", cfg.AccountHandler.Balance)
			r.Post("/apply", cfg.AccountHandler.Apply)
			r.Get("/audit", cfg.AccountHandler.Audit)
			r.Get("/reconcile", cfg.AccountHandler.Reconcile)
		})

		// Transfers
		r.Post("/transfers", cfg.TransferHandler.Create)

		// Marketplace
		r.Route("/listings", func(r chi.Router) {
			r.Post("/", cfg.ListingHandler.Create)
			r.Get("/", cfg.ListingHandler.List)
			r.Get("/{id}", cfg.ListingHandler.Get)
			r.Patch("/{id}", cfg.ListingHandler.Edit)
			r.Delete("/{id}", cfg.ListingHandler.Cancel)
			r.Post("/{id}/purchase", cfg.ListingHandler.Purchase)
		})

		// Ledger-wide operations
		r.Post("/interest", cfg.LedgerHandler.ApplyInterest)
		r.Get("/ledger/consistency", cfg.LedgerHandler.CheckConsistency)
	})

	return r
}
