package memory

import (
	"context"
	"sort"
	"time"

	"github.com/iho/chronledger/internal/domain"
	"github.com/iho/chronledger/internal/usecase"
)

// AccountRepository implements usecase.AccountRepository.
type AccountRepository struct {
	store *Store
}

// NewAccountRepository creates a new AccountRepository.
func NewAccountRepository(store *Store) *AccountRepository {
	return &AccountRepository{store: store}
}

// GetBalance returns the committed balance, zero for unknown accounts.
func (r *AccountRepository) GetBalance(ctx context.Context, id int64) (int64, error) {
	if err := r.store.lock(ctx); err != nil {
		return 0, err
	}
	defer r.store.unlock()

	return r.store.accounts[id].Balance, nil
}

// GetByID retrieves an account by ID.
func (r *AccountRepository) GetByID(ctx context.Context, id int64) (*domain.Account, error) {
	if err := r.store.lock(ctx); err != nil {
		return nil, err
	}
	defer r.store.unlock()

	a, ok := r.store.accounts[id]
	if !ok {
		return nil, domain.ErrAccountNotFound
	}

	return &a, nil
}

// LockForUpdate creates missing accounts at zero inside tx. The store lock
// held by tx already excludes every other writer.
func (r *AccountRepository) LockForUpdate(_ context.Context, tx usecase.Transaction, ids []int64, now time.Time) ([]*domain.Account, error) {
	t, err := asTx(tx)
	if err != nil {
		return nil, err
	}

	accounts := make([]*domain.Account, 0, len(ids))
	for _, id := range ids {
		a, ok := t.account(id)
		if !ok {
			a = domain.Account{ID: id, CreatedAt: now, UpdatedAt: now}
			t.accounts[id] = a
		}
		accounts = append(accounts, &a)
	}

	return accounts, nil
}

// UpdateBalance stages a new balance.
func (r *AccountRepository) UpdateBalance(_ context.Context, tx usecase.Transaction, id int64, balance int64, updatedAt time.Time) error {
	t, err := asTx(tx)
	if err != nil {
		return err
	}

	a, ok := t.account(id)
	if !ok {
		return domain.ErrAccountNotFound
	}

	a.Balance = balance
	a.UpdatedAt = updatedAt
	t.accounts[id] = a

	return nil
}

// ListPositive lists accounts with a positive balance after afterID.
func (r *AccountRepository) ListPositive(ctx context.Context, afterID int64, limit int) ([]*domain.Account, error) {
	if err := r.store.lock(ctx); err != nil {
		return nil, err
	}
	defer r.store.unlock()

	var accounts []*domain.Account
	for _, a := range r.sortedLocked() {
		if a.ID <= afterID || a.Balance <= 0 {
			continue
		}
		accounts = append(accounts, a)
		if len(accounts) == limit {
			break
		}
	}

	return accounts, nil
}

// List lists accounts ordered by ID.
func (r *AccountRepository) List(ctx context.Context, limit, offset int) ([]*domain.Account, error) {
	if err := r.store.lock(ctx); err != nil {
		return nil, err
	}
	defer r.store.unlock()

	all := r.sortedLocked()
	if offset >= len(all) {
		return []*domain.Account{}, nil
	}

	end := min(offset+limit, len(all))

	return all[offset:end], nil
}

func (r *AccountRepository) sortedLocked() []*domain.Account {
	accounts := make([]*domain.Account, 0, len(r.store.accounts))
	for _, a := range r.store.accounts {
		accounts = append(accounts, &a)
	}

	sort.Slice(accounts, func(i, j int) bool { return accounts[i].ID < accounts[j].ID })

	return accounts
}
