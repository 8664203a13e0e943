package postgres

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/pashagolub/pgxmock/v4"

	"github.com/iho/chronledger/internal/domain"
)

var listingColumns = []string{"listing_id", "seller_id", "item", "price", "created_at"}

func TestListingRepositoryCreate(t *testing.T) {
	pool := newMockPool(t)
	repo := NewListingRepository(pool)
	now := time.Now()

	pool.ExpectQuery("INSERT INTO listings").
		WithArgs(int64(5), "lamp", int64(40), now).
		WillReturnRows(pgxmock.NewRows([]string{"listing_id"}).AddRow(int64(12)))

	listing := &domain.Listing{SellerID: 5, Item: "lamp", Price: 40, CreatedAt: now}
	if err := repo.Create(context.Background(), listing); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if listing.ID != 12 {
		t.Fatalf("expected id 12, got %d", listing.ID)
	}

	assertExpectations(t, pool)
}

func TestListingRepositoryGetByIDForUpdate(t *testing.T) {
	pool := newMockPool(t)
	repo := NewListingRepository(pool)
	tx := beginMockTx(t, pool)
	now := time.Now()

	pool.ExpectQuery("FROM listings\\s+WHERE listing_id = \\$1\\s+FOR UPDATE").
		WithArgs(int64(12)).
		WillReturnRows(pgxmock.NewRows(listingColumns).AddRow(int64(12), int64(5), "lamp", int64(40), now))
	pool.ExpectQuery("FOR UPDATE").
		WithArgs(int64(13)).
		WillReturnError(pgx.ErrNoRows)

	listing, err := repo.GetByIDForUpdate(context.Background(), tx, 12)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if listing.SellerID != 5 || listing.Price != 40 {
		t.Fatalf("unexpected listing: %+v", listing)
	}

	if _, err := repo.GetByIDForUpdate(context.Background(), tx, 13); !errors.Is(err, domain.ErrListingNotFound) {
		t.Fatalf("expected ErrListingNotFound, got %v", err)
	}

	assertExpectations(t, pool)
}

func TestListingRepositoryDelete(t *testing.T) {
	pool := newMockPool(t)
	repo := NewListingRepository(pool)
	tx := beginMockTx(t, pool)

	pool.ExpectExec("DELETE FROM listings").WithArgs(int64(12)).WillReturnResult(pgxmock.NewResult("DELETE", 1))
	pool.ExpectExec("DELETE FROM listings").WithArgs(int64(12)).WillReturnResult(pgxmock.NewResult("DELETE", 0))

	if err := repo.Delete(context.Background(), tx, 12); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if err := repo.Delete(context.Background(), tx, 12); !errors.Is(err, domain.ErrListingNotFound) {
		t.Fatalf("expected ErrListingNotFound, got %v", err)
	}

	assertExpectations(t, pool)
}

func TestListingRepositoryUpdate(t *testing.T) {
	pool := newMockPool(t)
	repo := NewListingRepository(pool)
	tx := beginMockTx(t, pool)

	pool.ExpectExec("UPDATE listings").
		WithArgs(int64(12), "brass lamp", int64(55)).
		WillReturnResult(pgxmock.NewResult("UPDATE", 1))

	err := repo.Update(context.Background(), tx, &domain.Listing{ID: 12, Item: "brass lamp", Price: 55})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	assertExpectations(t, pool)
}
