package usecase

import (
	"context"
	"slices"
	"time"

	"github.com/iho/chronledger/internal/domain"
)

// TransferInput holds input for moving Chrons between two accounts.
type TransferInput struct {
	PayerID int64
	PayeeID int64
	Amount  int64
}

// TransferUseCase handles two-account transfers.
type TransferUseCase struct {
	txManager   TransactionManager
	accountRepo AccountRepository
	auditRepo   AuditRepository
	retrier     Retrier
	metrics     Metrics
}

// NewTransferUseCase creates a new TransferUseCase.
func NewTransferUseCase(
	txManager TransactionManager,
	accountRepo AccountRepository,
	auditRepo AuditRepository,
	retrier Retrier,
	metrics Metrics,
) *TransferUseCase {
	return &TransferUseCase{
		txManager:   txManager,
		accountRepo: accountRepo,
		auditRepo:   auditRepo,
		retrier:     retrier,
		metrics:     metrics,
	}
}

// Transfer debits the payer and credits the payee in one atomic unit and
// returns the payer's new balance.
func (uc *TransferUseCase) Transfer(ctx context.Context, input TransferInput) (int64, error) {
	if input.PayerID == input.PayeeID {
		return 0, domain.ErrSameAccount
	}

	if err := domain.ValidateAmount(input.Amount); err != nil {
		return 0, err
	}

	var balance int64

	err := uc.retrier.Retry(ctx, func() error {
		var err error
		balance, err = uc.transfer(ctx, input)

		return err
	})
	if err != nil {
		uc.metrics.MutationRejected(OpTransfer, err)
		return 0, err
	}

	uc.metrics.MutationApplied(OpTransfer)

	return balance, nil
}

func (uc *TransferUseCase) transfer(ctx context.Context, input TransferInput) (int64, error) {
	ctx, cancel := context.WithTimeout(ctx, DefaultTransactionTimeout)
	defer cancel()

	tx, err := uc.txManager.Begin(ctx)
	if err != nil {
		return 0, err
	}
	defer func() { _ = tx.Rollback(ctx) }()

	now := time.Now().UTC()

	// Both directions between a pair lock in the same order.
	accounts, err := uc.accountRepo.LockForUpdate(ctx, tx, lockOrder(input.PayerID, input.PayeeID), now)
	if err != nil {
		return 0, err
	}

	accountMap := buildAccountMap(accounts)
	payer, payee := accountMap[input.PayerID], accountMap[input.PayeeID]

	if !payer.CanCover(input.Amount) {
		return 0, domain.ErrInsufficientFunds
	}

	balance, err := postDelta(ctx, tx, uc.accountRepo, uc.auditRepo, payer, -input.Amount, domain.TransferOutReason(payee.ID), now)
	if err != nil {
		return 0, err
	}

	if _, err := postDelta(ctx, tx, uc.accountRepo, uc.auditRepo, payee, input.Amount, domain.TransferInReason(payer.ID), now); err != nil {
		return 0, err
	}

	if err := tx.Commit(ctx); err != nil {
		return 0, err
	}

	return balance, nil
}

// lockOrder returns the distinct ids sorted ascending, the only order in
// which accounts may be locked together.
func lockOrder(ids ...int64) []int64 {
	sorted := slices.Clone(ids)
	slices.Sort(sorted)

	return slices.Compact(sorted)
}

func buildAccountMap(accounts []*domain.Account) map[int64]*domain.Account {
	accountMap := make(map[int64]*domain.Account, len(accounts))
	for _, acc := range accounts {
		accountMap[acc.ID] = acc
	}

	return accountMap
}
