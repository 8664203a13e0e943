package usecase

import "time"

const (
	// DefaultTransactionTimeout bounds a single ledger unit end to end, on top
	// of the backend's own lock timeout.
	DefaultTransactionTimeout = 10 * time.Second

	// DefaultInterestRate is the daily interest in percent.
	DefaultInterestRate = "0.1"

	// accrualPageSize is how many accounts the interest sweep reads per page.
	accrualPageSize = 500

	// IdempotencyKeyTTL is how long idempotency keys are cached
	IdempotencyKeyTTL = 24 * time.Hour
)

// Operation labels used for metrics.
const (
	OpApply    = "apply"
	OpTransfer = "transfer"
	OpPurchase = "purchase"
	OpInterest = "interest"
	OpRefund   = "refund"
)
