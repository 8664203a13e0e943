package main

import (
	"context"
	"fmt"

	"github.com/rs/zerolog"

	"github.com/iho/chronledger/internal/adapter/http/handler"
	"github.com/iho/chronledger/internal/adapter/inventory"
	"github.com/iho/chronledger/internal/adapter/repository/memory"
	postgresRepo "github.com/iho/chronledger/internal/adapter/repository/postgres"
	redisRepo "github.com/iho/chronledger/internal/adapter/repository/redis"
	"github.com/iho/chronledger/internal/infrastructure/config"
	"github.com/iho/chronledger/internal/infrastructure/postgres"
	"github.com/iho/chronledger/internal/infrastructure/redis"
	"github.com/iho/chronledger/internal/usecase"
)

// backend is the set of ports one storage choice provides.
type backend struct {
	name string

	txManager usecase.TransactionManager
	accounts  usecase.AccountRepository
	audit     usecase.AuditRepository
	ledger    usecase.LedgerRepository
	listings  usecase.ListingRepository

	// retrier wraps caller-facing mutations; sweepRetrier also retries lock timeouts.
	retrier      usecase.Retrier
	sweepRetrier usecase.Retrier

	// Optional Redis-backed collaborators.
	idempotency usecase.IdempotencyStore
	locker      usecase.Locker
	inventory   usecase.Inventory

	checks  map[string]handler.Checker
	closers []func()
}

// Close releases connections in reverse order of acquisition.
func (b *backend) Close() {
	for i := len(b.closers) - 1; i >= 0; i-- {
		b.closers[i]()
	}
}

// openBackend selects PostgreSQL when DATABASE_URL is set and the in-memory store otherwise.
func openBackend(ctx context.Context, cfg *config.Config, logger zerolog.Logger) (*backend, error) {
	b := &backend{checks: map[string]handler.Checker{}}

	if cfg.Persistent() {
		if err := b.openPostgres(ctx, cfg, logger); err != nil {
			b.Close()
			return nil, err
		}
	} else {
		b.openMemory(logger)
	}

	b.inventory = inventory.NewLogDeliverer(logger)

	if cfg.RedisEnabled() {
		client, err := redis.NewClient(ctx, cfg.RedisURL, logger)
		if err != nil {
			b.Close()
			return nil, err
		}
		b.closers = append(b.closers, func() { _ = client.Close() })
		b.checks["redis"] = func(ctx context.Context) error { return client.Ping(ctx).Err() }

		b.idempotency = redisRepo.NewIdempotencyStore(client)
		b.locker = redisRepo.NewLeaseLocker(client)
		b.inventory = redisRepo.NewDeliveryQueue(client)
	}

	return b, nil
}

func (b *backend) openPostgres(ctx context.Context, cfg *config.Config, logger zerolog.Logger) error {
	if cfg.RunMigrations {
		if err := postgres.RunMigrations(cfg.DatabaseURL, cfg.MigrationsPath, logger); err != nil {
			return fmt.Errorf("failed to run migrations: %w", err)
		}
	}

	connectCtx, cancel := context.WithTimeout(ctx, cfg.DatabaseTimeout)
	defer cancel()

	pool, err := postgres.NewPoolWithConfig(connectCtx, postgres.PoolConfig{
		DatabaseURL: cfg.DatabaseURL,
		MaxConns:    cfg.DatabaseMaxConns,
		MinConns:    cfg.DatabaseMinConns,
	})
	if err != nil {
		return fmt.Errorf("failed to connect to postgres: %w", err)
	}
	b.closers = append(b.closers, pool.Close)
	b.checks["postgres"] = pool.Ping

	retrier := postgresRepo.NewRetrier(logger)

	b.name = "postgres"
	b.txManager = postgresRepo.NewTxManager(pool, cfg.DatabaseLockTimeout)
	b.accounts = postgresRepo.NewAccountRepository(pool)
	b.audit = postgresRepo.NewAuditRepository(pool)
	b.ledger = postgresRepo.NewLedgerRepository(pool)
	b.listings = postgresRepo.NewListingRepository(pool)
	b.retrier = retrier
	b.sweepRetrier = retrier.RetryingLockTimeouts()

	logger.Info().Int("max_conns", cfg.DatabaseMaxConns).Dur("lock_timeout", cfg.DatabaseLockTimeout).Msg("using postgres backend")

	return nil
}

func (b *backend) openMemory(logger zerolog.Logger) {
	store := memory.NewStore()

	b.name = "memory"
	b.txManager = memory.NewTxManager(store)
	b.accounts = memory.NewAccountRepository(store)
	b.audit = memory.NewAuditRepository(store)
	b.ledger = memory.NewLedgerRepository(store)
	b.listings = memory.NewListingRepository(store)
	b.retrier = usecase.DirectRetrier{}
	b.sweepRetrier = usecase.DirectRetrier{}

	logger.Warn().Msg("DATABASE_URL not set, using in-memory backend; balances are lost on restart")
}
