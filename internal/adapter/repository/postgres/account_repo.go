package postgres

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"

	"github.com/iho/chronledger/internal/domain"
	"github.com/iho/chronledger/internal/infrastructure/postgres/generated"
	"github.com/iho/chronledger/internal/usecase"
)

// AccountRepository implements usecase.AccountRepository.
type AccountRepository struct {
	queries *generated.Queries
}

// NewAccountRepository creates a new AccountRepository. db is usually a
// *pgxpool.Pool.
func NewAccountRepository(db generated.DBTX) *AccountRepository {
	return &AccountRepository{queries: generated.New(db)}
}

// GetBalance returns the committed balance; unknown accounts read as zero.
func (r *AccountRepository) GetBalance(ctx context.Context, id int64) (int64, error) {
	balance, err := r.queries.GetAccountBalance(ctx, id)
	if err != nil {
		return 0, mapError(err)
	}

	return balance, nil
}

// GetByID retrieves an account by ID.
func (r *AccountRepository) GetByID(ctx context.Context, id int64) (*domain.Account, error) {
	row, err := r.queries.GetAccount(ctx, id)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, domain.ErrAccountNotFound
		}

		return nil, mapError(err)
	}

	return rowToAccount(row), nil
}

// LockForUpdate inserts missing rows at zero and locks all of them with
// FOR UPDATE in ascending id order.
func (r *AccountRepository) LockForUpdate(ctx context.Context, tx usecase.Transaction, ids []int64, now time.Time) ([]*domain.Account, error) {
	pgxTx, err := pgxTx(tx)
	if err != nil {
		return nil, err
	}

	queries := r.queries.WithTx(pgxTx)

	if err := queries.EnsureAccounts(ctx, generated.EnsureAccountsParams{Ids: ids, Now: now}); err != nil {
		return nil, mapError(err)
	}

	rows, err := queries.LockAccounts(ctx, ids)
	if err != nil {
		return nil, mapError(err)
	}

	if len(rows) != len(ids) {
		return nil, fmt.Errorf("%w: locked %d of %d accounts", domain.ErrBackendUnavailable, len(rows), len(ids))
	}

	accounts := make([]*domain.Account, 0, len(rows))
	for _, row := range rows {
		accounts = append(accounts, rowToAccount(row))
	}

	return accounts, nil
}

// UpdateBalance updates an account's balance.
func (r *AccountRepository) UpdateBalance(ctx context.Context, tx usecase.Transaction, id int64, balance int64, updatedAt time.Time) error {
	pgxTx, err := pgxTx(tx)
	if err != nil {
		return err
	}

	n, err := r.queries.WithTx(pgxTx).UpdateAccountBalance(ctx, generated.UpdateAccountBalanceParams{
		AccountID: id,
		Balance:   balance,
		UpdatedAt: updatedAt,
	})
	if err != nil {
		return mapError(err)
	}

	if n == 0 {
		return domain.ErrAccountNotFound
	}

	return nil
}

// ListPositive lists accounts with a positive balance after afterID.
func (r *AccountRepository) ListPositive(ctx context.Context, afterID int64, limit int) ([]*domain.Account, error) {
	rows, err := r.queries.ListPositiveAccounts(ctx, generated.ListPositiveAccountsParams{
		AfterID: afterID,
		Limit:   int32(limit),
	})
	if err != nil {
		return nil, mapError(err)
	}

	return rowsToAccounts(rows), nil
}

// List lists accounts ordered by ID.
func (r *AccountRepository) List(ctx context.Context, limit, offset int) ([]*domain.Account, error) {
	rows, err := r.queries.ListAccounts(ctx, generated.ListAccountsParams{
		Limit:  int32(limit),
		Offset: int32(offset),
	})
	if err != nil {
		return nil, mapError(err)
	}

	return rowsToAccounts(rows), nil
}

func rowToAccount(row generated.Account) *domain.Account {
	return &domain.Account{
		ID:        row.AccountID,
		Balance:   row.Balance,
		CreatedAt: row.CreatedAt,
		UpdatedAt: row.UpdatedAt,
	}
}

func rowsToAccounts(rows []generated.Account) []*domain.Account {
	accounts := make([]*domain.Account, 0, len(rows))
	for _, row := range rows {
		accounts = append(accounts, rowToAccount(row))
	}

	return accounts
}
