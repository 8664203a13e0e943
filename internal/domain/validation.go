package domain

import (
	"errors"
	"fmt"
	"strings"
	"unicode/utf8"
)

// Validation errors
var (
	ErrInvalidReason = errors.New("invalid reason")
	ErrInvalidItem   = errors.New("invalid item")
)

// Validation constants
const (
	MaxReasonLength = 255
	MaxItemLength   = 512
	MaxAmount       = int64(1_000_000_000_000) // 1 trillion Chrons
)

// ValidateReason validates the free-text label attached to a mutation.
// The length limit applies to the reason as stored, including surrounding
// whitespace.
func ValidateReason(reason string) error {
	if strings.TrimSpace(reason) == "" {
		return fmt.Errorf("%w: reason cannot be empty", ErrInvalidReason)
	}

	if len(reason) > MaxReasonLength {
		return fmt.Errorf("%w: reason exceeds %d bytes", ErrInvalidReason, MaxReasonLength)
	}

	if !utf8.ValidString(reason) {
		return fmt.Errorf("%w: reason is not valid UTF-8", ErrInvalidReason)
	}

	return nil
}

// ValidateItem validates the opaque item payload of a listing.
func ValidateItem(item string) error {
	item = normalizeItem(item)

	if item == "" {
		return fmt.Errorf("%w: item cannot be empty", ErrInvalidItem)
	}

	if len(item) > MaxItemLength {
		return fmt.Errorf("%w: item exceeds %d bytes", ErrInvalidItem, MaxItemLength)
	}

	return nil
}

// ValidateDelta validates a signed balance change.
func ValidateDelta(delta int64) error {
	if delta == 0 {
		return fmt.Errorf("%w: delta cannot be zero", ErrInvalidAmount)
	}

	if delta > MaxAmount || delta < -MaxAmount {
		return fmt.Errorf("%w: magnitude exceeds %d", ErrInvalidAmount, MaxAmount)
	}

	return nil
}

// ValidateAmount validates a positive transfer or price amount.
func ValidateAmount(amount int64) error {
	if amount <= 0 {
		return ErrInvalidAmount
	}

	if amount > MaxAmount {
		return fmt.Errorf("%w: maximum amount is %d", ErrInvalidAmount, MaxAmount)
	}

	return nil
}

// ValidatePagination validates and limits pagination parameters
func ValidatePagination(limit, offset int) (int, int, error) {
	const MaxPageSize = 1000
	const DefaultPageSize = 50

	if limit <= 0 {
		limit = DefaultPageSize
	}

	if limit > MaxPageSize {
		limit = MaxPageSize
	}

	if offset < 0 {
		offset = 0
	}

	return limit, offset, nil
}
