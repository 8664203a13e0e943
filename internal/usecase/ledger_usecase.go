package usecase

import (
	"context"
	"time"

	"github.com/iho/chronledger/internal/domain"
)

// LedgerUseCase is the transaction executor: it applies single-account
// deltas and serves balance and history reads.
type LedgerUseCase struct {
	txManager   TransactionManager
	accountRepo AccountRepository
	auditRepo   AuditRepository
	retrier     Retrier
	metrics     Metrics
}

// NewLedgerUseCase creates a new LedgerUseCase.
func NewLedgerUseCase(
	txManager TransactionManager,
	accountRepo AccountRepository,
	auditRepo AuditRepository,
	retrier Retrier,
	metrics Metrics,
) *LedgerUseCase {
	return &LedgerUseCase{
		txManager:   txManager,
		accountRepo: accountRepo,
		auditRepo:   auditRepo,
		retrier:     retrier,
		metrics:     metrics,
	}
}

// Apply adds delta to the account balance in one atomic unit and returns the
// new balance. A missing account is created at zero first.
func (uc *LedgerUseCase) Apply(ctx context.Context, accountID, delta int64, reason string) (int64, error) {
	if err := domain.ValidateDelta(delta); err != nil {
		return 0, err
	}

	if err := domain.ValidateReason(reason); err != nil {
		return 0, err
	}

	var balance int64

	err := uc.retrier.Retry(ctx, func() error {
		var err error
		balance, err = uc.apply(ctx, accountID, delta, reason)

		return err
	})
	if err != nil {
		uc.metrics.MutationRejected(OpApply, err)
		return 0, err
	}

	uc.metrics.MutationApplied(OpApply)

	return balance, nil
}

func (uc *LedgerUseCase) apply(ctx context.Context, accountID, delta int64, reason string) (int64, error) {
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

	balance, err := postDelta(ctx, tx, uc.accountRepo, uc.auditRepo, accounts[0], delta, reason, now)
	if err != nil {
		return 0, err
	}

	if err := tx.Commit(ctx); err != nil {
		return 0, err
	}

	return balance, nil
}

// GetBalance returns the committed balance. Unknown accounts read as zero.
func (uc *LedgerUseCase) GetBalance(ctx context.Context, accountID int64) (int64, error) {
	return uc.accountRepo.GetBalance(ctx, accountID)
}

// History returns the account's audit records, newest first.
func (uc *LedgerUseCase) History(ctx context.Context, accountID int64, limit, offset int) ([]*domain.AuditRecord, error) {
	limit, offset, err := domain.ValidatePagination(limit, offset)
	if err != nil {
		return nil, err
	}

	return uc.auditRepo.List(ctx, domain.AuditFilter{
		AccountID: accountID,
		Limit:     limit,
		Offset:    offset,
	})
}

// postDelta is the one code path that changes a balance. acc must already be
// locked in tx. The new balance and its audit record are written in tx, and
// acc is updated only once both writes succeed.
func postDelta(
	ctx context.Context,
	tx Transaction,
	accountRepo AccountRepository,
	auditRepo AuditRepository,
	acc *domain.Account,
	delta int64,
	reason string,
	now time.Time,
) (int64, error) {
	balance, err := acc.ApplyDelta(delta)
	if err != nil {
		return 0, err
	}

	if err := accountRepo.UpdateBalance(ctx, tx, acc.ID, balance, now); err != nil {
		return 0, err
	}

	record := &domain.AuditRecord{
		AccountID:    acc.ID,
		Delta:        delta,
		Reason:       reason,
		BalanceAfter: balance,
		CreatedAt:    now,
	}
	if err := auditRepo.Append(ctx, tx, record); err != nil {
		return 0, err
	}

	acc.Balance = balance
	acc.UpdatedAt = now

	return balance, nil
}
