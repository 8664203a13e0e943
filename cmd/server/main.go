package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/rs/zerolog"

	httpAdapter "github.com/iho/chronledger/internal/adapter/http"
	"github.com/iho/chronledger/internal/adapter/http/handler"
	"github.com/iho/chronledger/internal/adapter/http/middleware"
	"github.com/iho/chronledger/internal/infrastructure/accrual"
	"github.com/iho/chronledger/internal/infrastructure/config"
	"github.com/iho/chronledger/internal/infrastructure/idgen"
	"github.com/iho/chronledger/internal/infrastructure/logger"
	"github.com/iho/chronledger/internal/infrastructure/metrics"
	"github.com/iho/chronledger/internal/usecase"
)

const limiterIdleTTL = time.Hour

func main() {
	// Load configuration
	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintf(os.Stderr, "failed to load configuration: %v\n", err)
		os.Exit(1)
	}

	log := logger.New(logger.Config{Level: cfg.LogLevel, Format: cfg.LogFormat})

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	if err := run(ctx, cfg, log); err != nil {
		log.Fatal().Err(err).Msg("server failed")
	}

	log.Info().Msg("server stopped")
}

// services holds the use cases built on top of one backend.
type services struct {
	ledger    *usecase.LedgerUseCase
	transfer  *usecase.TransferUseCase
	market    *usecase.MarketUseCase
	interest  *usecase.InterestUseCase
	reconcile *usecase.ReconciliationUseCase
}

func newServices(b *backend, m usecase.Metrics, log zerolog.Logger) *services {
	return &services{
		ledger:   usecase.NewLedgerUseCase(b.txManager, b.accounts, b.audit, b.retrier, m),
		transfer: usecase.NewTransferUseCase(b.txManager, b.accounts, b.audit, b.retrier, m),
		market: usecase.NewMarketUseCase(
			b.txManager, b.accounts, b.audit, b.listings,
			b.inventory, idgen.NewULIDGenerator(), b.retrier, m, log,
		),
		interest:  usecase.NewInterestUseCase(b.txManager, b.accounts, b.audit, b.sweepRetrier, m, log),
		reconcile: usecase.NewReconciliationUseCase(b.accounts, b.audit, b.ledger),
	}
}

func newRouter(cfg *config.Config, b *backend, svc *services, log zerolog.Logger) (http.Handler, *middleware.RateLimiter) {
	var limiter *middleware.RateLimiter
	if cfg.HTTPRateLimit > 0 {
		limiter = middleware.NewRateLimiter(cfg.HTTPRateLimit, cfg.HTTPRateBurst)
	}

	router := httpAdapter.NewRouter(httpAdapter.RouterConfig{
		AccountHandler:   handler.NewAccountHandler(svc.ledger, svc.reconcile),
		TransferHandler:  handler.NewTransferHandler(svc.transfer),
		ListingHandler:   handler.NewListingHandler(svc.market),
		LedgerHandler:    handler.NewLedgerHandler(svc.reconcile, svc.interest),
		HealthHandler:    handler.NewHealthHandler(b.checks),
		IdempotencyStore: b.idempotency,
		IdempotencyTTL:   cfg.IdempotencyTTL,
		RateLimiter:      limiter,
		Logger:           log,
	})

	return router, limiter
}

func run(ctx context.Context, cfg *config.Config, log zerolog.Logger) error {
	b, err := openBackend(ctx, cfg, log)
	if err != nil {
		return err
	}
	defer b.Close()

	svc := newServices(b, metrics.New(prometheus.DefaultRegisterer), log)
	router, limiter := newRouter(cfg, b, svc, log)

	if cfg.InterestEnabled {
		worker := accrual.NewWorker(accrual.Config{
			Sweeper:  svc.interest,
			Locker:   b.locker,
			Logger:   log,
			Rate:     cfg.InterestRate,
			Interval: cfg.InterestInterval,
			LeaseTTL: cfg.InterestLeaseTTL,
		})
		go func() {
			if err := worker.Start(ctx); err != nil && !errors.Is(err, context.Canceled) {
				log.Error().Err(err).Msg("accrual worker stopped")
			}
		}()
	}

	if limiter != nil {
		go func() {
			ticker := time.NewTicker(limiterIdleTTL)
			defer ticker.Stop()
			for {
				select {
				case <-ctx.Done():
					return
				case <-ticker.C:
					limiter.CleanupLimiters(limiterIdleTTL)
				}
			}
		}()
	}

	// Create server
	server := &http.Server{
		Addr:         fmt.Sprintf(":%s", cfg.HTTPPort),
		Handler:      router,
		ReadTimeout:  cfg.HTTPReadTimeout,
		WriteTimeout: cfg.HTTPWriteTimeout,
		IdleTimeout:  cfg.HTTPIdleTimeout,
	}

	serverErr := make(chan error, 1)
	go func() {
		log.Info().Str("port", cfg.HTTPPort).Str("backend", b.name).Msg("starting server")
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			serverErr <- err
		}
		close(serverErr)
	}()

	select {
	case err := <-serverErr:
		return err
	case <-ctx.Done():
	}

	log.Info().Msg("shutting down server...")

	// Graceful shutdown
	shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.HTTPShutdownTimeout)
	defer cancel()

	if err := server.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("server forced to shutdown: %w", err)
	}

	return nil
}
