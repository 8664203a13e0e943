package domain

import (
	"strings"
	"time"
)

// Listing is an item offered for sale on the marketplace.
type Listing struct {
	ID        int64
	SellerID  int64
	Item      string
	Price     int64
	CreatedAt time.Time
}

// Validate checks listing fields before it is stored.
func (l *Listing) Validate() error {
	if l.Price <= 0 {
		return ErrInvalidPrice
	}

	return ValidateItem(l.Item)
}

// Receipt describes a completed purchase. Delivered is false when the money
// moved but the item could not be handed to the buyer's inventory.
type Receipt struct {
	ID           string
	ListingID    int64
	BuyerID      int64
	SellerID     int64
	Item         string
	Price        int64
	BuyerBalance int64
	Delivered    bool
	PurchasedAt  time.Time
}

func normalizeItem(item string) string {
	return strings.TrimSpace(item)
}
