package redis

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/iho/chronledger/internal/domain"
)

// DeliveryQueueKey is the list the inventory service consumes.
const DeliveryQueueKey = "chronledger:deliveries"

// Delivery is one queued item hand-off.
type Delivery struct {
	BuyerID   int64     `json:"buyer_id"`
	SellerID  int64     `json:"seller_id"`
	ListingID int64     `json:"listing_id"`
	Item      string    `json:"item"`
	Price     int64     `json:"price"`
	QueuedAt  time.Time `json:"queued_at"`
}

// DeliveryQueue implements usecase.Inventory by pushing deliveries onto a
// Redis list.
type DeliveryQueue struct {
	client *redis.Client
	key    string
}

// NewDeliveryQueue creates a new DeliveryQueue.
func NewDeliveryQueue(client *redis.Client) *DeliveryQueue {
	return &DeliveryQueue{client: client, key: DeliveryQueueKey}
}

// Deliver enqueues the purchased item for the buyer.
func (q *DeliveryQueue) Deliver(ctx context.Context, buyerID int64, listing *domain.Listing) error {
	payload, err := json.Marshal(Delivery{
		BuyerID:   buyerID,
		SellerID:  listing.SellerID,
		ListingID: listing.ID,
		Item:      listing.Item,
		Price:     listing.Price,
		QueuedAt:  time.Now().UTC(),
	})
	if err != nil {
		return fmt.Errorf("encode delivery: %w", err)
	}

	if err := q.client.RPush(ctx, q.key, payload).Err(); err != nil {
		return fmt.Errorf("enqueue delivery of listing %d: %w", listing.ID, err)
	}

	return nil
}

// Pending returns the number of deliveries not yet consumed.
func (q *DeliveryQueue) Pending(ctx context.Context) (int64, error) {
	return q.client.LLen(ctx, q.key).Result()
}
