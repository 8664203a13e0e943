package redis

import (
	"context"
	"encoding/json"
	"testing"

	"github.com/iho/chronledger/internal/domain"
)

func TestDeliveryQueue_Deliver(t *testing.T) {
	client, mr := newTestRedis(t)

	ctx := context.Background()
	queue := NewDeliveryQueue(client)

	listing := &domain.Listing{ID: 9, SellerID: 3, Item: "compass", Price: 120}
	if err := queue.Deliver(ctx, 4, listing); err != nil {
		t.Fatalf("deliver failed: %v", err)
	}

	pending, err := queue.Pending(ctx)
	if err != nil || pending != 1 {
		t.Fatalf("expected 1 pending delivery, got %d err=%v", pending, err)
	}

	items, err := mr.List(DeliveryQueueKey)
	if err != nil || len(items) != 1 {
		t.Fatalf("unexpected queue contents: %v err=%v", items, err)
	}

	var d Delivery
	if err := json.Unmarshal([]byte(items[0]), &d); err != nil {
		t.Fatalf("decode delivery: %v", err)
	}
	if d.BuyerID != 4 || d.ListingID != 9 || d.Item != "compass" || d.Price != 120 || d.SellerID != 3 {
		t.Fatalf("unexpected delivery: %+v", d)
	}
}

func TestDeliveryQueue_UnavailableRedis(t *testing.T) {
	client, mr := newTestRedis(t)
	mr.Close()

	err := NewDeliveryQueue(client).Deliver(context.Background(), 1, &domain.Listing{ID: 1, Item: "x", Price: 1})
	if err == nil {
		t.Fatalf("expected error when redis is down")
	}
}
