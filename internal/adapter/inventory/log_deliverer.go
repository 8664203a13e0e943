// Package inventory hands purchased items to buyers when no external inventory is configured.
package inventory

import (
	"context"

	"github.com/rs/zerolog"

	"github.com/iho/chronledger/internal/domain"
)

// LogDeliverer records each delivery as a log line for an operator to fulfil.
type LogDeliverer struct {
	logger zerolog.Logger
}

// NewLogDeliverer creates a new LogDeliverer.
func NewLogDeliverer(logger zerolog.Logger) *LogDeliverer {
	return &LogDeliverer{logger: logger.With().Str("component", "inventory").Logger()}
}

// Deliver logs the item handed to buyerID.
func (d *LogDeliverer) Deliver(ctx context.Context, buyerID int64, listing *domain.Listing) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	d.logger.Info().
		Int64("buyer_id", buyerID).
		Int64("listing_id", listing.ID).
		Int64("seller_id", listing.SellerID).
		Str("item", listing.Item).
		Msg("ITEM DELIVERED")

	return nil
}
