package handler

import (
	"context"
	"net/http"

	"github.com/iho/chronledger/internal/adapter/http/dto"
	"github.com/iho/chronledger/internal/domain"
	"github.com/iho/chronledger/internal/usecase"
)

// MarketService defines the behavior needed by ListingHandler.
type MarketService interface {
	ListItem(ctx context.Context, sellerID int64, item string, price int64) (*domain.Listing, error)
	GetListing(ctx context.Context, id int64) (*domain.Listing, error)
	ListListings(ctx context.Context, limit, offset int) ([]*domain.Listing, error)
	EditListing(ctx context.Context, id int64, input usecase.EditListingInput) (*domain.Listing, error)
	CancelListing(ctx context.Context, id int64) error
	Purchase(ctx context.Context, listingID, buyerID int64) (*domain.Receipt, error)
}

// ListingHandler handles marketplace HTTP requests.
type ListingHandler struct {
	marketUC MarketService
}

// NewListingHandler creates a new ListingHandler.
func NewListingHandler(marketUC MarketService) *ListingHandler {
	return &ListingHandler{marketUC: marketUC}
}

// Create offers an item for sale.
func (h *ListingHandler) Create(w http.ResponseWriter, r *http.Request) {
	var req dto.CreateListingRequest
	if err := decodeJSON(r, &req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid_request_body", err.Error())
		return
	}

	listing, err := h.marketUC.ListItem(r.Context(), req.SellerID, req.Item, req.Price)
	if err != nil {
		writeDomainError(w, err)
		return
	}

	writeJSON(w, http.StatusCreated, dto.ListingFromDomain(listing))
}

// List returns open listings, oldest first.
func (h *ListingHandler) List(w http.ResponseWriter, r *http.Request) {
	limit := parseIntQuery(r, "limit", 0)
	offset := parseIntQuery(r, "offset", 0)

	listings, err := h.marketUC.ListListings(r.Context(), limit, offset)
	if err != nil {
		writeDomainError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, dto.ListingsFromDomain(listings))
}

// Get retrieves a listing by ID.
func (h *ListingHandler) Get(w http.ResponseWriter, r *http.Request) {
	id, ok := parseIDParam(r, "id")
	if !ok {
		writeError(w, http.StatusBadRequest, "invalid_listing_id", "listing id must be a positive integer")
		return
	}

	listing, err := h.marketUC.GetListing(r.Context(), id)
	if err != nil {
		writeDomainError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, dto.ListingFromDomain(listing))
}

// Edit changes a listing's price or item.
func (h *ListingHandler) Edit(w http.ResponseWriter, r *http.Request) {
	id, ok := parseIDParam(r, "id")
	if !ok {
		writeError(w, http.StatusBadRequest, "invalid_listing_id", "listing id must be a positive integer")
		return
	}

	var req dto.EditListingRequest
	if err := decodeJSON(r, &req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid_request_body", err.Error())
		return
	}
	if req.Empty() {
		writeError(w, http.StatusBadRequest, "invalid_request_body", "nothing to update")
		return
	}

	listing, err := h.marketUC.EditListing(r.Context(), id, req.ToUseCaseInput())
	if err != nil {
		writeDomainError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, dto.ListingFromDomain(listing))
}

// Cancel removes a listing.
func (h *ListingHandler) Cancel(w http.ResponseWriter, r *http.Request) {
	id, ok := parseIDParam(r, "id")
	if !ok {
		writeError(w, http.StatusBadRequest, "invalid_listing_id", "listing id must be a positive integer")
		return
	}

	if err := h.marketUC.CancelListing(r.Context(), id); err != nil {
		writeDomainError(w, err)
		return
	}

	w.WriteHeader(http.StatusNoContent)
}

// Purchase settles a listing for the buyer.
func (h *ListingHandler) Purchase(w http.ResponseWriter, r *http.Request) {
	id, ok := parseIDParam(r, "id")
	if !ok {
		writeError(w, http.StatusBadRequest, "invalid_listing_id", "listing id must be a positive integer")
		return
	}

	var req dto.PurchaseRequest
	if err := decodeJSON(r, &req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid_request_body", err.Error())
		return
	}

	receipt, err := h.marketUC.Purchase(r.Context(), id, req.BuyerID)
	if err != nil {
		writeDomainError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, dto.ReceiptFromDomain(receipt))
}
