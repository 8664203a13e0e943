package domain

import "errors"

var (
	// Ledger errors
	ErrInsufficientFunds  = errors.New("insufficient funds")
	ErrSameAccount        = errors.New("payer and payee must be different accounts")
	ErrInvalidAmount      = errors.New("amount must be a non-zero integer within range")
	ErrAccountNotFound    = errors.New("account not found")
	ErrLockTimeout        = errors.New("timed out waiting for account lock")
	ErrBackendUnavailable = errors.New("ledger backend unavailable")

	// Marketplace errors
	ErrListingNotFound    = errors.New("listing not found")
	ErrSellerCreditFailed = errors.New("seller credit failed; buyer refunded")
	ErrInvalidPrice       = errors.New("price must be positive")

	// Interest errors
	ErrInvalidRate = errors.New("interest rate must be positive")
)

// IsRetryable reports whether err is a transient failure the caller may retry
// without risking a double application.
func IsRetryable(err error) bool {
	return errors.Is(err, ErrLockTimeout)
}

// IsValidation reports whether err rejects the caller's input.
func IsValidation(err error) bool {
	return errors.Is(err, ErrInvalidAmount) ||
		errors.Is(err, ErrInvalidReason) ||
		errors.Is(err, ErrInvalidItem) ||
		errors.Is(err, ErrInvalidPrice) ||
		errors.Is(err, ErrInvalidRate) ||
		errors.Is(err, ErrSameAccount)
}
