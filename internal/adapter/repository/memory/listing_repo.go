package memory

import (
	"context"
	"sort"

	"github.com/iho/chronledger/internal/domain"
	"github.com/iho/chronledger/internal/usecase"
)

// ListingRepository implements usecase.ListingRepository.
type ListingRepository struct {
	store *Store
}

// NewListingRepository creates a new ListingRepository.
func NewListingRepository(store *Store) *ListingRepository {
	return &ListingRepository{store: store}
}

// Create stores a listing and assigns its ID.
func (r *ListingRepository) Create(ctx context.Context, listing *domain.Listing) error {
	if err := r.store.lock(ctx); err != nil {
		return err
	}
	defer r.store.unlock()

	r.store.nextListingID++
	listing.ID = r.store.nextListingID
	r.store.listings[listing.ID] = *listing

	return nil
}

// GetByID retrieves a listing by ID.
func (r *ListingRepository) GetByID(ctx context.Context, id int64) (*domain.Listing, error) {
	if err := r.store.lock(ctx); err != nil {
		return nil, err
	}
	defer r.store.unlock()

	l, ok := r.store.listings[id]
	if !ok {
		return nil, domain.ErrListingNotFound
	}

	return &l, nil
}

// GetByIDForUpdate reads a listing inside tx.
func (r *ListingRepository) GetByIDForUpdate(_ context.Context, tx usecase.Transaction, id int64) (*domain.Listing, error) {
	t, err := asTx(tx)
	if err != nil {
		return nil, err
	}

	l, ok := t.listing(id)
	if !ok {
		return nil, domain.ErrListingNotFound
	}

	return &l, nil
}

// List lists listings ordered by ID.
func (r *ListingRepository) List(ctx context.Context, limit, offset int) ([]*domain.Listing, error) {
	if err := r.store.lock(ctx); err != nil {
		return nil, err
	}
	defer r.store.unlock()

	all := make([]*domain.Listing, 0, len(r.store.listings))
	for _, l := range r.store.listings {
		all = append(all, &l)
	}
	sort.Slice(all, func(i, j int) bool { return all[i].ID < all[j].ID })

	if offset >= len(all) {
		return []*domain.Listing{}, nil
	}

	return all[offset:min(offset+limit, len(all))], nil
}

// Update stages new listing fields.
func (r *ListingRepository) Update(_ context.Context, tx usecase.Transaction, listing *domain.Listing) error {
	t, err := asTx(tx)
	if err != nil {
		return err
	}

	if _, ok := t.listing(listing.ID); !ok {
		return domain.ErrListingNotFound
	}

	l := *listing
	t.listings[listing.ID] = &l

	return nil
}

// Delete stages removal of a listing.
func (r *ListingRepository) Delete(_ context.Context, tx usecase.Transaction, id int64) error {
	t, err := asTx(tx)
	if err != nil {
		return err
	}

	if _, ok := t.listing(id); !ok {
		return domain.ErrListingNotFound
	}

	t.listings[id] = nil

	return nil
}
