package usecase

import (
	"context"

	"github.com/iho/chronledger/internal/domain"
)

// DirectRetrier runs the operation once. Used by backends with no transient
// conflicts, such as the in-memory store.
type DirectRetrier struct{}

// Retry executes operation exactly once.
func (DirectRetrier) Retry(_ context.Context, operation func() error) error {
	return operation()
}

// NopMetrics discards all measurements.
type NopMetrics struct{}

func (NopMetrics) MutationApplied(string) {}

func (NopMetrics) MutationRejected(string, error) {}

func (NopMetrics) CompensationApplied() {}

func (NopMetrics) DeliveryFailed() {}

func (NopMetrics) InterestSwept(int, int, int64) {}

// InventoryFunc adapts a function to the Inventory interface.
type InventoryFunc func(ctx context.Context, buyerID int64, listing *domain.Listing) error

// Deliver calls f.
func (f InventoryFunc) Deliver(ctx context.Context, buyerID int64, listing *domain.Listing) error {
	return f(ctx, buyerID, listing)
}
