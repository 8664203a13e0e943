package dto

import (
	"github.com/shopspring/decimal"

	"github.com/iho/chronledger/internal/usecase"
)

// ApplyRequest represents a request to apply a signed delta to an account.
type ApplyRequest struct {
	Delta  int64  `json:"delta"`
	Reason string `json:"reason"`
}

// TransferRequest represents a request to move funds between accounts.
type TransferRequest struct {
	PayerID int64 `json:"payer_id"`
	PayeeID int64 `json:"payee_id"`
	Amount  int64 `json:"amount"`
}

// ToUseCaseInput converts the request to use case input.
func (r *TransferRequest) ToUseCaseInput() usecase.TransferInput {
	return usecase.TransferInput{
		PayerID: r.PayerID,
		PayeeID: r.PayeeID,
		Amount:  r.Amount,
	}
}

// CreateListingRequest represents a request to offer an item for sale.
type CreateListingRequest struct {
	SellerID int64  `json:"seller_id"`
	Item     string `json:"item"`
	Price    int64  `json:"price"`
}

// EditListingRequest represents a partial listing update. Absent fields stay unchanged.
type EditListingRequest struct {
	Item  *string `json:"item,omitempty"`
	Price *int64  `json:"price,omitempty"`
}

// ToUseCaseInput converts the request to use case input.
func (r *EditListingRequest) ToUseCaseInput() usecase.EditListingInput {
	return usecase.EditListingInput{
		Item:  r.Item,
		Price: r.Price,
	}
}

// Empty reports whether the request changes nothing.
func (r *EditListingRequest) Empty() bool {
	return r.Item == nil && r.Price == nil
}

// PurchaseRequest represents a request to buy a listing.
type PurchaseRequest struct {
	BuyerID int64 `json:"buyer_id"`
}

// InterestRequest triggers an interest sweep. A zero rate selects the default.
type InterestRequest struct {
	RatePercent decimal.Decimal `json:"rate_percent"`
}

// Rate returns the requested rate or the default daily rate.
func (r *InterestRequest) Rate() decimal.Decimal {
	if r.RatePercent.IsZero() {
		return decimal.RequireFromString(usecase.DefaultInterestRate)
	}
	return r.RatePercent
}
