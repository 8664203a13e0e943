package usecase

import (
	"context"
	"fmt"
	"time"

	"github.com/rs/zerolog"

	"github.com/iho/chronledger/internal/domain"
)

// EditListingInput holds the listing fields to change. Nil fields are kept.
type EditListingInput struct {
	Price *int64
	Item  *string
}

// MarketUseCase runs the marketplace: listing management and the escrow
// purchase flow.
type MarketUseCase struct {
	txManager   TransactionManager
	accountRepo AccountRepository
	auditRepo   AuditRepository
	listingRepo ListingRepository
	inventory   Inventory
	idGen       IDGenerator
	retrier     Retrier
	metrics     Metrics
	logger      zerolog.Logger
}

// NewMarketUseCase creates a new MarketUseCase.
func NewMarketUseCase(
	txManager TransactionManager,
	accountRepo AccountRepository,
	auditRepo AuditRepository,
	listingRepo ListingRepository,
	inventory Inventory,
	idGen IDGenerator,
	retrier Retrier,
	metrics Metrics,
	logger zerolog.Logger,
) *MarketUseCase {
	return &MarketUseCase{
		txManager:   txManager,
		accountRepo: accountRepo,
		auditRepo:   auditRepo,
		listingRepo: listingRepo,
		inventory:   inventory,
		idGen:       idGen,
		retrier:     retrier,
		metrics:     metrics,
		logger:      logger.With().Str("component", "market").Logger(),
	}
}

// ListItem puts an item up for sale.
func (uc *MarketUseCase) ListItem(ctx context.Context, sellerID int64, item string, price int64) (*domain.Listing, error) {
	listing := &domain.Listing{
		SellerID:  sellerID,
		Item:      item,
		Price:     price,
		CreatedAt: time.Now().UTC(),
	}
	if err := listing.Validate(); err != nil {
		return nil, err
	}

	if err := uc.listingRepo.Create(ctx, listing); err != nil {
		return nil, err
	}

	return listing, nil
}

// GetListing retrieves a listing by ID.
func (uc *MarketUseCase) GetListing(ctx context.Context, id int64) (*domain.Listing, error) {
	return uc.listingRepo.GetByID(ctx, id)
}

// ListListings returns open listings ordered by ID.
func (uc *MarketUseCase) ListListings(ctx context.Context, limit, offset int) ([]*domain.Listing, error) {
	limit, offset, err := domain.ValidatePagination(limit, offset)
	if err != nil {
		return nil, err
	}

	return uc.listingRepo.List(ctx, limit, offset)
}

// EditListing changes price or item of an open listing.
func (uc *MarketUseCase) EditListing(ctx context.Context, id int64, input EditListingInput) (*domain.Listing, error) {
	var listing *domain.Listing

	err := uc.retrier.Retry(ctx, func() error {
		return uc.inListingTx(ctx, id, func(tx Transaction, l *domain.Listing) error {
			if input.Price != nil {
				l.Price = *input.Price
			}
			if input.Item != nil {
				l.Item = *input.Item
			}

			if err := l.Validate(); err != nil {
				return err
			}

			if err := uc.listingRepo.Update(ctx, tx, l); err != nil {
				return err
			}

			listing = l

			return nil
		})
	})
	if err != nil {
		return nil, err
	}

	return listing, nil
}

// CancelListing removes an open listing.
func (uc *MarketUseCase) CancelListing(ctx context.Context, id int64) error {
	return uc.retrier.Retry(ctx, func() error {
		return uc.inListingTx(ctx, id, func(tx Transaction, l *domain.Listing) error {
			return uc.listingRepo.Delete(ctx, tx, l.ID)
		})
	})
}

func (uc *MarketUseCase) inListingTx(ctx context.Context, id int64, fn func(Transaction, *domain.Listing) error) error {
	ctx, cancel := context.WithTimeout(ctx, DefaultTransactionTimeout)
	defer cancel()

	tx, err := uc.txManager.Begin(ctx)
	if err != nil {
		return err
	}
	defer func() { _ = tx.Rollback(ctx) }()

	listing, err := uc.listingRepo.GetByIDForUpdate(ctx, tx, id)
	if err != nil {
		return err
	}

	if err := fn(tx, listing); err != nil {
		return err
	}

	return tx.Commit(ctx)
}

// Purchase buys a listing. The buyer is debited, the seller credited and the
// listing removed in one atomic unit. Item delivery happens after commit and
// never unwinds the payment.
func (uc *MarketUseCase) Purchase(ctx context.Context, listingID, buyerID int64) (*domain.Receipt, error) {
	var (
		listing      *domain.Listing
		buyerBalance int64
	)

	err := uc.retrier.Retry(ctx, func() error {
		var err error
		listing, buyerBalance, err = uc.settle(ctx, listingID, buyerID)

		return err
	})
	if err != nil {
		uc.metrics.MutationRejected(OpPurchase, err)
		return nil, err
	}

	uc.metrics.MutationApplied(OpPurchase)

	receipt := &domain.Receipt{
		ID:           uc.idGen.Generate(),
		ListingID:    listing.ID,
		BuyerID:      buyerID,
		SellerID:     listing.SellerID,
		Item:         listing.Item,
		Price:        listing.Price,
		BuyerBalance: buyerBalance,
		Delivered:    true,
		PurchasedAt:  time.Now().UTC(),
	}

	if err := uc.inventory.Deliver(ctx, buyerID, listing); err != nil {
		receipt.Delivered = false
		uc.metrics.DeliveryFailed()
		uc.logger.Error().
			Err(err).
			Str("receipt_id", receipt.ID).
			Int64("listing_id", listing.ID).
			Int64("buyer_id", buyerID).
			Str("item", listing.Item).
			Msg("item delivery failed, manual reconciliation required")
	}

	return receipt, nil
}

func (uc *MarketUseCase) settle(ctx context.Context, listingID, buyerID int64) (*domain.Listing, int64, error) {
	ctx, cancel := context.WithTimeout(ctx, DefaultTransactionTimeout)
	defer cancel()

	tx, err := uc.txManager.Begin(ctx)
	if err != nil {
		return nil, 0, err
	}
	defer func() { _ = tx.Rollback(ctx) }()

	// The listing is always locked before any account.
	listing, err := uc.listingRepo.GetByIDForUpdate(ctx, tx, listingID)
	if err != nil {
		return nil, 0, err
	}

	if listing.SellerID == buyerID {
		return nil, 0, domain.ErrSameAccount
	}

	now := time.Now().UTC()

	accounts, err := uc.accountRepo.LockForUpdate(ctx, tx, lockOrder(buyerID, listing.SellerID), now)
	if err != nil {
		return nil, 0, err
	}

	accountMap := buildAccountMap(accounts)
	buyer, seller := accountMap[buyerID], accountMap[listing.SellerID]

	buyerBalance, err := postDelta(ctx, tx, uc.accountRepo, uc.auditRepo, buyer, -listing.Price, domain.MarketBuyReason(listing.ID), now)
	if err != nil {
		return nil, 0, err
	}

	if creditErr := uc.creditSeller(ctx, tx, seller, listing, now); creditErr != nil {
		if err := uc.refundBuyer(ctx, tx, buyer, listing, now); err != nil {
			return nil, 0, fmt.Errorf("refund buyer after failed seller credit: %w", err)
		}

		uc.metrics.CompensationApplied()
		uc.logger.Warn().
			Err(creditErr).
			Int64("listing_id", listing.ID).
			Int64("buyer_id", buyerID).
			Int64("seller_id", listing.SellerID).
			Int64("price", listing.Price).
			Msg("seller credit failed, buyer refunded")

		// The cause is flattened so the retrier never replays a committed refund.
		return nil, 0, fmt.Errorf("%w: %v", domain.ErrSellerCreditFailed, creditErr)
	}

	if err := uc.listingRepo.Delete(ctx, tx, listing.ID); err != nil {
		return nil, 0, err
	}

	if err := tx.Commit(ctx); err != nil {
		return nil, 0, err
	}

	return listing, buyerBalance, nil
}

func (uc *MarketUseCase) creditSeller(ctx context.Context, tx Transaction, seller *domain.Account, listing *domain.Listing, now time.Time) error {
	nested, err := tx.Begin(ctx)
	if err != nil {
		return err
	}
	defer func() { _ = nested.Rollback(ctx) }()

	if _, err := postDelta(ctx, nested, uc.accountRepo, uc.auditRepo, seller, listing.Price, domain.MarketSellReason(listing.ID), now); err != nil {
		return err
	}

	return nested.Commit(ctx)
}

func (uc *MarketUseCase) refundBuyer(ctx context.Context, tx Transaction, buyer *domain.Account, listing *domain.Listing, now time.Time) error {
	if _, err := postDelta(ctx, tx, uc.accountRepo, uc.auditRepo, buyer, listing.Price, domain.MarketRefundReason(listing.ID), now); err != nil {
		return err
	}

	if err := tx.Commit(ctx); err != nil {
		return err
	}

	uc.metrics.MutationApplied(OpRefund)

	return nil
}
