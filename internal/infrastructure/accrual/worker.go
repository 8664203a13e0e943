// Package accrual runs the periodic interest sweep.
package accrual

import (
	"context"
	"time"

	"github.com/rs/zerolog"
	"github.com/shopspring/decimal"

	"github.com/iho/chronledger/internal/usecase"
)

// LeaseKey prefixes the per-period lock that keeps concurrent processes from
// sweeping the same period.
const LeaseKey = "interest"

// PeriodLeaseKey returns the lease key for the period containing at. Periods
// are aligned to multiples of interval in UTC, so replicas with skewed tickers
// agree on the key.
func PeriodLeaseKey(at time.Time, interval time.Duration) string {
	return LeaseKey + ":" + at.UTC().Truncate(interval).Format(time.RFC3339)
}

// Sweeper credits interest to every positive account.
type Sweeper interface {
	ApplyInterest(ctx context.Context, ratePercent decimal.Decimal) (*usecase.AccrualReport, error)
}

// Worker triggers a sweep on every tick.
type Worker struct {
	sweeper  Sweeper
	locker   usecase.Locker
	logger   zerolog.Logger
	rate     decimal.Decimal
	interval time.Duration
	leaseTTL time.Duration
	now      func() time.Time
}

// Config for Worker.
type Config struct {
	Sweeper  Sweeper
	Locker   usecase.Locker // optional; nil sweeps without a lease
	Logger   zerolog.Logger
	Rate     decimal.Decimal
	Interval time.Duration // Tick interval
	LeaseTTL time.Duration // Lease lifetime, defaults to Interval
}

// NewWorker creates a new Worker.
func NewWorker(cfg Config) *Worker {
	if cfg.Interval == 0 {
		cfg.Interval = 24 * time.Hour
	}
	if cfg.LeaseTTL == 0 {
		cfg.LeaseTTL = cfg.Interval
	}
	if cfg.Rate.IsZero() {
		cfg.Rate = decimal.RequireFromString(usecase.DefaultInterestRate)
	}

	return &Worker{
		sweeper:  cfg.Sweeper,
		locker:   cfg.Locker,
		logger:   cfg.Logger.With().Str("component", "accrual").Logger(),
		rate:     cfg.Rate,
		interval: cfg.Interval,
		leaseTTL: cfg.LeaseTTL,
		now:      time.Now,
	}
}

// Start runs until ctx is cancelled. The first sweep happens one interval after start.
func (w *Worker) Start(ctx context.Context) error {
	w.logger.Info().
		Str("rate_percent", w.rate.String()).
		Dur("interval", w.interval).
		Bool("leased", w.locker != nil).
		Msg("accrual worker started")

	ticker := time.NewTicker(w.interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			w.logger.Info().Msg("accrual worker shutting down")
			return ctx.Err()
		case <-ticker.C:
			if err := w.sweep(ctx); err != nil {
				w.logger.Error().Err(err).Msg("interest sweep failed")
			}
		}
	}
}

// sweep runs one accrual under the period lease when a locker is configured.
// A lease that led to credits is never released; it expires on its own so no
// other process sweeps the same period.
func (w *Worker) sweep(ctx context.Context) error {
	if w.locker == nil {
		_, err := w.sweeper.ApplyInterest(ctx, w.rate)
		return err
	}

	key := PeriodLeaseKey(w.now(), w.interval)

	acquired, err := w.locker.TryLock(ctx, key, w.leaseTTL)
	if err != nil {
		return err
	}
	if !acquired {
		w.logger.Debug().Str("lease", key).Msg("interest already swept this period, skipping")
		return nil
	}

	report, err := w.sweeper.ApplyInterest(ctx, w.rate)
	if err != nil {
		if report == nil || report.Credited == 0 {
			w.release(ctx, key)
		}
		return err
	}

	if report.Failed > 0 {
		w.logger.Warn().
			Int("failed", report.Failed).
			Int("credited", report.Credited).
			Msg("interest sweep finished with failures")
	}

	return nil
}

// release hands the period back so another process can retry a sweep that
// credited nobody.
func (w *Worker) release(ctx context.Context, key string) {
	if err := w.locker.Unlock(context.WithoutCancel(ctx), key); err != nil {
		w.logger.Warn().Err(err).Str("lease", key).Msg("failed to release interest lease")
	}
}
