package domain

import (
	"math"
	"time"
)

// Account is a single Chron balance keyed by the caller-supplied identity.
type Account struct {
	ID        int64
	Balance   int64
	CreatedAt time.Time
	UpdatedAt time.Time
}

// ApplyDelta returns the balance that results from adding delta.
// It never mutates the account.
func (a *Account) ApplyDelta(delta int64) (int64, error) {
	if delta > 0 && a.Balance > math.MaxInt64-delta {
		return 0, ErrInvalidAmount
	}

	newBalance := a.Balance + delta
	if newBalance < 0 {
		return 0, ErrInsufficientFunds
	}

	return newBalance, nil
}

// CanCover reports whether the account can be debited by amount.
func (a *Account) CanCover(amount int64) bool {
	return a.Balance >= amount
}
