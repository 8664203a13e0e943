package dto

import (
	"time"

	"github.com/shopspring/decimal"

	"github.com/iho/chronledger/internal/domain"
	"github.com/iho/chronledger/internal/usecase"
)

// BalanceResponse represents an account balance in API responses.
type BalanceResponse struct {
	AccountID int64 `json:"account_id"`
	Balance   int64 `json:"balance"`
}

// AuditRecordResponse represents one audit record in API responses.
type AuditRecordResponse struct {
	ID           int64     `json:"id"`
	AccountID    int64     `json:"account_id"`
	Delta        int64     `json:"delta"`
	Reason       string    `json:"reason"`
	BalanceAfter int64     `json:"balance_after"`
	CreatedAt    time.Time `json:"created_at"`
}

// AuditRecordFromDomain converts a domain audit record to response.
func AuditRecordFromDomain(r *domain.AuditRecord) *AuditRecordResponse {
	return &AuditRecordResponse{
		ID:           r.ID,
		AccountID:    r.AccountID,
		Delta:        r.Delta,
		Reason:       r.Reason,
		BalanceAfter: r.BalanceAfter,
		CreatedAt:    r.CreatedAt,
	}
}

// AuditRecordsFromDomain converts domain audit records to responses.
func AuditRecordsFromDomain(records []*domain.AuditRecord) []*AuditRecordResponse {
	result := make([]*AuditRecordResponse, len(records))
	for i, r := range records {
		result[i] = AuditRecordFromDomain(r)
	}
	return result
}

// TransferResponse represents a completed transfer in API responses.
type TransferResponse struct {
	PayerID      int64 `json:"payer_id"`
	PayeeID      int64 `json:"payee_id"`
	Amount       int64 `json:"amount"`
	PayerBalance int64 `json:"payer_balance"`
}

// ListingResponse represents a listing in API responses.
type ListingResponse struct {
	ID        int64     `json:"id"`
	SellerID  int64     `json:"seller_id"`
	Item      string    `json:"item"`
	Price     int64     `json:"price"`
	CreatedAt time.Time `json:"created_at"`
}

// ListingFromDomain converts a domain listing to response.
func ListingFromDomain(l *domain.Listing) *ListingResponse {
	return &ListingResponse{
		ID:        l.ID,
		SellerID:  l.SellerID,
		Item:      l.Item,
		Price:     l.Price,
		CreatedAt: l.CreatedAt,
	}
}

// ListingsFromDomain converts domain listings to responses.
func ListingsFromDomain(listings []*domain.Listing) []*ListingResponse {
	result := make([]*ListingResponse, len(listings))
	for i, l := range listings {
		result[i] = ListingFromDomain(l)
	}
	return result
}

// ReceiptResponse represents a settled purchase in API responses.
type ReceiptResponse struct {
	ID           string    `json:"id"`
	ListingID    int64     `json:"listing_id"`
	BuyerID      int64     `json:"buyer_id"`
	SellerID     int64     `json:"seller_id"`
	Item         string    `json:"item"`
	Price        int64     `json:"price"`
	BuyerBalance int64     `json:"buyer_balance"`
	Delivered    bool      `json:"delivered"`
	PurchasedAt  time.Time `json:"purchased_at"`
}

// ReceiptFromDomain converts a domain receipt to response.
func ReceiptFromDomain(r *domain.Receipt) *ReceiptResponse {
	return &ReceiptResponse{
		ID:           r.ID,
		ListingID:    r.ListingID,
		BuyerID:      r.BuyerID,
		SellerID:     r.SellerID,
		Item:         r.Item,
		Price:        r.Price,
		BuyerBalance: r.BuyerBalance,
		Delivered:    r.Delivered,
		PurchasedAt:  r.PurchasedAt,
	}
}

// AccrualReportResponse summarises an interest sweep.
type AccrualReportResponse struct {
	RatePercent      decimal.Decimal `json:"rate_percent"`
	Scanned          int             `json:"scanned"`
	AccountsCredited int             `json:"accounts_credited"`
	Skipped          int             `json:"skipped"`
	Failed           int             `json:"failed"`
	TotalCredited    int64           `json:"total_credited"`
	StartedAt        time.Time       `json:"started_at"`
	FinishedAt       time.Time       `json:"finished_at"`
}

// AccrualReportFromUseCase converts an accrual report to response.
func AccrualReportFromUseCase(r *usecase.AccrualReport) *AccrualReportResponse {
	return &AccrualReportResponse{
		RatePercent:      r.RatePercent,
		Scanned:          r.Scanned,
		AccountsCredited: r.Credited,
		Skipped:          r.Skipped,
		Failed:           r.Failed,
		TotalCredited:    r.TotalCredited,
		StartedAt:        r.StartedAt,
		FinishedAt:       r.FinishedAt,
	}
}

// ReconciliationResponse represents one account's reconciliation in API responses.
type ReconciliationResponse struct {
	AccountID         int64     `json:"account_id"`
	RecordedBalance   int64     `json:"recorded_balance"`
	CalculatedBalance int64     `json:"calculated_balance"`
	Difference        int64     `json:"difference"`
	IsReconciled      bool      `json:"is_reconciled"`
	LastChecked       time.Time `json:"last_checked"`
}

// ReconciliationFromUseCase converts a reconciliation result to response.
func ReconciliationFromUseCase(r *usecase.ReconciliationResult) *ReconciliationResponse {
	return &ReconciliationResponse{
		AccountID:         r.AccountID,
		RecordedBalance:   r.RecordedBalance,
		CalculatedBalance: r.CalculatedBalance,
		Difference:        r.Difference,
		IsReconciled:      r.IsReconciled,
		LastChecked:       r.LastChecked,
	}
}

// ErrorResponse represents an error in API responses.
type ErrorResponse struct {
	Error   string `json:"error"`
	Message string `json:"message,omitempty"`
}
