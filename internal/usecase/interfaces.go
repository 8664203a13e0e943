package usecase

import (
	"context"
	"time"

	"github.com/iho/chronledger/internal/domain"
)

// AccountRepository defines data access for accounts.
type AccountRepository interface {
	// GetBalance returns the current balance; a missing account reads as zero
	// and is not created.
	GetBalance(ctx context.Context, id int64) (int64, error)
	GetByID(ctx context.Context, id int64) (*domain.Account, error)
	// LockForUpdate creates any missing account at zero and takes an exclusive
	// hold on every id for the rest of tx. ids must be sorted ascending.
	LockForUpdate(ctx context.Context, tx Transaction, ids []int64, now time.Time) ([]*domain.Account, error)
	UpdateBalance(ctx context.Context, tx Transaction, id int64, balance int64, updatedAt time.Time) error
	// ListPositive returns accounts with balance > 0 and id > afterID, ascending by id.
	ListPositive(ctx context.Context, afterID int64, limit int) ([]*domain.Account, error)
	List(ctx context.Context, limit, offset int) ([]*domain.Account, error)
}

// AuditRepository defines data access for the append-only audit trail.
type AuditRepository interface {
	Append(ctx context.Context, tx Transaction, record *domain.AuditRecord) error
	List(ctx context.Context, filter domain.AuditFilter) ([]*domain.AuditRecord, error)
	SumDeltas(ctx context.Context, accountID int64) (int64, error)
}

// LedgerRepository defines data access for ledger-wide checks.
type LedgerRepository interface {
	CheckConsistency(ctx context.Context) (totalBalance, totalDelta int64, err error)
}

// ListingRepository defines data access for marketplace listings.
type ListingRepository interface {
	Create(ctx context.Context, listing *domain.Listing) error
	GetByID(ctx context.Context, id int64) (*domain.Listing, error)
	GetByIDForUpdate(ctx context.Context, tx Transaction, id int64) (*domain.Listing, error)
	List(ctx context.Context, limit, offset int) ([]*domain.Listing, error)
	Update(ctx context.Context, tx Transaction, listing *domain.Listing) error
	Delete(ctx context.Context, tx Transaction, id int64) error
}

// Transaction represents one atomic unit against the backend.
type Transaction interface {
	Commit(ctx context.Context) error
	Rollback(ctx context.Context) error
	// Begin opens a nested unit. Rolling it back discards only its own writes
	// and leaves the parent usable.
	Begin(ctx context.Context) (Transaction, error)
}

// TransactionManager handles transaction lifecycle.
type TransactionManager interface {
	Begin(ctx context.Context) (Transaction, error)
}

// Retrier re-runs an operation that failed with a transient backend error.
type Retrier interface {
	Retry(ctx context.Context, operation func() error) error
}

// IDGenerator generates unique IDs.
type IDGenerator interface {
	Generate() string
}

// Inventory hands a purchased item to the buyer. It lives outside the ledger.
type Inventory interface {
	Deliver(ctx context.Context, buyerID int64, listing *domain.Listing) error
}

// Metrics records ledger outcomes.
type Metrics interface {
	MutationApplied(operation string)
	MutationRejected(operation string, err error)
	CompensationApplied()
	DeliveryFailed()
	InterestSwept(credited, failed int, total int64)
}

// IdempotencyStore handles idempotency key storage.
type IdempotencyStore interface {
	// CheckAndSet atomically checks if key exists, sets if not.
	// Returns (exists, existingValue, error).
	CheckAndSet(ctx context.Context, key string, response []byte, ttl time.Duration) (bool, []byte, error)
	// Update updates an existing key with the final response.
	Update(ctx context.Context, key string, response []byte, ttl time.Duration) error
	// Release drops a claim so the request may be retried.
	Release(ctx context.Context, key string) error
}

// Locker provides a cross-process lease for periodic jobs.
type Locker interface {
	TryLock(ctx context.Context, key string, ttl time.Duration) (bool, error)
	Unlock(ctx context.Context, key string) error
}
