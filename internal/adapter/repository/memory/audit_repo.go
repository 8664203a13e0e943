package memory

import (
	"context"

	"github.com/iho/chronledger/internal/domain"
	"github.com/iho/chronledger/internal/usecase"
)

// AuditRepository implements usecase.AuditRepository.
type AuditRepository struct {
	store *Store
}

// NewAuditRepository creates a new AuditRepository.
func NewAuditRepository(store *Store) *AuditRepository {
	return &AuditRepository{store: store}
}

// Append stages an audit record and assigns its ID. IDs of rolled back
// records are not reused.
func (r *AuditRepository) Append(_ context.Context, tx usecase.Transaction, record *domain.AuditRecord) error {
	t, err := asTx(tx)
	if err != nil {
		return err
	}

	r.store.nextAuditID++
	record.ID = r.store.nextAuditID
	t.audit = append(t.audit, *record)

	return nil
}

// List returns an account's records newest first.
func (r *AuditRepository) List(ctx context.Context, filter domain.AuditFilter) ([]*domain.AuditRecord, error) {
	if err := r.store.lock(ctx); err != nil {
		return nil, err
	}
	defer r.store.unlock()

	records := []*domain.AuditRecord{}
	skipped := 0
	for i := len(r.store.audit) - 1; i >= 0; i-- {
		rec := r.store.audit[i]
		if rec.AccountID != filter.AccountID {
			continue
		}
		if skipped < filter.Offset {
			skipped++
			continue
		}
		records = append(records, &rec)
		if filter.Limit > 0 && len(records) == filter.Limit {
			break
		}
	}

	return records, nil
}

// SumDeltas sums every delta recorded for an account.
func (r *AuditRepository) SumDeltas(ctx context.Context, accountID int64) (int64, error) {
	if err := r.store.lock(ctx); err != nil {
		return 0, err
	}
	defer r.store.unlock()

	var sum int64
	for _, rec := range r.store.audit {
		if rec.AccountID == accountID {
			sum += rec.Delta
		}
	}

	return sum, nil
}

// LedgerRepository implements usecase.LedgerRepository.
type LedgerRepository struct {
	store *Store
}

// NewLedgerRepository creates a new LedgerRepository.
func NewLedgerRepository(store *Store) *LedgerRepository {
	return &LedgerRepository{store: store}
}

// CheckConsistency returns the sum of all balances and of all audit deltas.
func (r *LedgerRepository) CheckConsistency(ctx context.Context) (int64, int64, error) {
	if err := r.store.lock(ctx); err != nil {
		return 0, 0, err
	}
	defer r.store.unlock()

	var totalBalance, totalDelta int64
	for _, a := range r.store.accounts {
		totalBalance += a.Balance
	}
	for _, rec := range r.store.audit {
		totalDelta += rec.Delta
	}

	return totalBalance, totalDelta, nil
}
