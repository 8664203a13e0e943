package postgres

import (
	"context"
	"errors"

	"github.com/jackc/pgx/v5"

	"github.com/iho/chronledger/internal/domain"
	"github.com/iho/chronledger/internal/infrastructure/postgres/generated"
	"github.com/iho/chronledger/internal/usecase"
)

// ListingRepository implements usecase.ListingRepository.
type ListingRepository struct {
	queries *generated.Queries
}

// NewListingRepository creates a new ListingRepository.
func NewListingRepository(db generated.DBTX) *ListingRepository {
	return &ListingRepository{queries: generated.New(db)}
}

// Create inserts a listing and sets its ID.
func (r *ListingRepository) Create(ctx context.Context, listing *domain.Listing) error {
	id, err := r.queries.CreateListing(ctx, generated.CreateListingParams{
		SellerID:  listing.SellerID,
		Item:      listing.Item,
		Price:     listing.Price,
		CreatedAt: listing.CreatedAt,
	})
	if err != nil {
		return mapError(err)
	}

	listing.ID = id

	return nil
}

// GetByID retrieves a listing by ID.
func (r *ListingRepository) GetByID(ctx context.Context, id int64) (*domain.Listing, error) {
	row, err := r.queries.GetListing(ctx, id)
	if err != nil {
		return nil, listingError(err)
	}

	return rowToListing(row), nil
}

// GetByIDForUpdate retrieves a listing with a FOR UPDATE lock.
func (r *ListingRepository) GetByIDForUpdate(ctx context.Context, tx usecase.Transaction, id int64) (*domain.Listing, error) {
	pgxTx, err := pgxTx(tx)
	if err != nil {
		return nil, err
	}

	row, err := r.queries.WithTx(pgxTx).GetListingForUpdate(ctx, id)
	if err != nil {
		return nil, listingError(err)
	}

	return rowToListing(row), nil
}

// List lists listings ordered by ID.
func (r *ListingRepository) List(ctx context.Context, limit, offset int) ([]*domain.Listing, error) {
	rows, err := r.queries.ListListings(ctx, generated.ListListingsParams{
		Limit:  int32(limit),
		Offset: int32(offset),
	})
	if err != nil {
		return nil, mapError(err)
	}

	listings := make([]*domain.Listing, 0, len(rows))
	for _, row := range rows {
		listings = append(listings, rowToListing(row))
	}

	return listings, nil
}

// Update writes item and price of a locked listing.
func (r *ListingRepository) Update(ctx context.Context, tx usecase.Transaction, listing *domain.Listing) error {
	pgxTx, err := pgxTx(tx)
	if err != nil {
		return err
	}

	n, err := r.queries.WithTx(pgxTx).UpdateListing(ctx, generated.UpdateListingParams{
		ListingID: listing.ID,
		Item:      listing.Item,
		Price:     listing.Price,
	})
	if err != nil {
		return mapError(err)
	}

	if n == 0 {
		return domain.ErrListingNotFound
	}

	return nil
}

// Delete removes a listing.
func (r *ListingRepository) Delete(ctx context.Context, tx usecase.Transaction, id int64) error {
	pgxTx, err := pgxTx(tx)
	if err != nil {
		return err
	}

	n, err := r.queries.WithTx(pgxTx).DeleteListing(ctx, id)
	if err != nil {
		return mapError(err)
	}

	if n == 0 {
		return domain.ErrListingNotFound
	}

	return nil
}

func listingError(err error) error {
	if errors.Is(err, pgx.ErrNoRows) {
		return domain.ErrListingNotFound
	}

	return mapError(err)
}

func rowToListing(row generated.Listing) *domain.Listing {
	return &domain.Listing{
		ID:        row.ListingID,
		SellerID:  row.SellerID,
		Item:      row.Item,
		Price:     row.Price,
		CreatedAt: row.CreatedAt,
	}
}
