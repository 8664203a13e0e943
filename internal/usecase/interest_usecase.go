package usecase

import (
	"context"
	"fmt"
	"time"

	"github.com/rs/zerolog"
	"github.com/shopspring/decimal"

	"github.com/iho/chronledger/internal/domain"
)

// AccrualReport summarizes one interest sweep.
type AccrualReport struct {
	RatePercent   decimal.Decimal
	Scanned       int
	Credited      int
	Skipped       int
	Failed        int
	TotalCredited int64
	StartedAt     time.Time
	FinishedAt    time.Time
}

// InterestUseCase credits interest to every account with a positive balance.
type InterestUseCase struct {
	txManager   TransactionManager
	accountRepo AccountRepository
	auditRepo   AuditRepository
	retrier     Retrier
	metrics     Metrics
	logger      zerolog.Logger
}

// NewInterestUseCase creates a new InterestUseCase. retrier should also retry
// lock timeouts; a busy account is worth waiting for in a batch job.
func NewInterestUseCase(
	txManager TransactionManager,
	accountRepo AccountRepository,
	auditRepo AuditRepository,
	retrier Retrier,
	metrics Metrics,
	logger zerolog.Logger,
) *InterestUseCase {
	return &InterestUseCase{
		txManager:   txManager,
		accountRepo: accountRepo,
		auditRepo:   auditRepo,
		retrier:     retrier,
		metrics:     metrics,
		logger:      logger.With().Str("component", "interest").Logger(),
	}
}

// ApplyInterest sweeps all positive accounts by ascending id and credits
// floor(balance * rate / 100) to each in its own unit. A failing account is
// counted and skipped. The sweep stops early only when ctx is done or the
// account scan itself fails.
func (uc *InterestUseCase) ApplyInterest(ctx context.Context, ratePercent decimal.Decimal) (*AccrualReport, error) {
	if err := domain.ValidateRate(ratePercent); err != nil {
		return nil, err
	}

	report := &AccrualReport{
		RatePercent: ratePercent,
		StartedAt:   time.Now().UTC(),
	}
	reason := domain.InterestReason(ratePercent)

	var afterID int64

	for {
		if err := ctx.Err(); err != nil {
			uc.finish(report)
			return report, err
		}

		page, err := uc.accountRepo.ListPositive(ctx, afterID, accrualPageSize)
		if err != nil {
			uc.finish(report)
			return report, fmt.Errorf("list accounts after %d: %w", afterID, err)
		}

		for _, acc := range page {
			afterID = acc.ID
			report.Scanned++

			credit, err := uc.credit(ctx, acc.ID, ratePercent, reason)
			switch {
			case err != nil:
				report.Failed++
				uc.logger.Warn().Err(err).Int64("account_id", acc.ID).Msg("interest credit failed")
			case credit == 0:
				report.Skipped++
			default:
				report.Credited++
				report.TotalCredited += credit
			}
		}

		if len(page) < accrualPageSize {
			break
		}
	}

	uc.finish(report)

	return report, nil
}

func (uc *InterestUseCase) finish(report *AccrualReport) {
	report.FinishedAt = time.Now().UTC()

	uc.metrics.InterestSwept(report.Credited, report.Failed, report.TotalCredited)
	uc.logger.Info().
		Str("rate_percent", report.RatePercent.String()).
		Int("scanned", report.Scanned).
		Int("credited", report.Credited).
		Int("skipped", report.Skipped).
		Int("failed", report.Failed).
		Int64("total_credited", report.TotalCredited).
		Dur("duration", report.FinishedAt.Sub(report.StartedAt)).
		Msg("interest sweep finished")
}

func (uc *InterestUseCase) credit(ctx context.Context, accountID int64, ratePercent decimal.Decimal, reason string) (int64, error) {
	var credit int64

	err := uc.retrier.Retry(ctx, func() error {
		var err error
		credit, err = uc.creditOnce(ctx, accountID, ratePercent, reason)

		return err
	})
	if err != nil {
		uc.metrics.MutationRejected(OpInterest, err)
		return 0, err
	}

	if credit > 0 {
		uc.metrics.MutationApplied(OpInterest)
	}

	return credit, nil
}

func (uc *InterestUseCase) creditOnce(ctx context.Context, accountID int64, ratePercent decimal.Decimal, reason string) (int64, error) {
	ctx, cancel := context.WithTimeout(ctx, DefaultTransactionTimeout)
	defer cancel()

	tx, err := uc.txManager.Begin(ctx)
	if err != nil {
		return 0, err
	}
	defer func() { _ = tx.Rollback(ctx) }()

	now := time.Now().UTC()

	accounts, err := uc.accountRepo.LockForUpdate(ctx, tx, []int64{accountID}, now)
	if err != nil {
		return 0, err
	}

	// The scanned balance may be stale; only the locked one counts.
	credit := domain.ComputeInterest(accounts[0].Balance, ratePercent)
	if credit <= 0 {
		return 0, nil
	}

	if _, err := postDelta(ctx, tx, uc.accountRepo, uc.auditRepo, accounts[0], credit, reason, now); err != nil {
		return 0, err
	}

	if err := tx.Commit(ctx); err != nil {
		return 0, err
	}

	return credit, nil
}
