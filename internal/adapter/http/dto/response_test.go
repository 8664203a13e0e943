package dto

import (
	"encoding/json"
	"testing"
	"time"

	"github.com/shopspring/decimal"

	"github.com/iho/chronledger/internal/domain"
	"github.com/iho/chronledger/internal/usecase"
)

func TestAuditRecordsFromDomain(t *testing.T) {
	now := time.Now()
	records := []*domain.AuditRecord{
		{ID: 2, AccountID: 1, Delta: -300, Reason: "fine", BalanceAfter: 700, CreatedAt: now},
		{ID: 1, AccountID: 1, Delta: 1000, Reason: "seed", BalanceAfter: 1000, CreatedAt: now},
	}

	resp := AuditRecordsFromDomain(records)
	if len(resp) != 2 || resp[0].ID != 2 || resp[0].BalanceAfter != 700 || resp[1].Delta != 1000 {
		t.Fatalf("unexpected audit responses: %+v", resp)
	}
}

func TestListingsFromDomain(t *testing.T) {
	listings := []*domain.Listing{{ID: 1, SellerID: 2, Item: "sword", Price: 50}}

	resp := ListingsFromDomain(listings)
	if len(resp) != 1 || resp[0].Item != "sword" || resp[0].SellerID != 2 {
		t.Fatalf("unexpected listing responses: %+v", resp)
	}
}

func TestReceiptFromDomain(t *testing.T) {
	receipt := &domain.Receipt{
		ID:           "01J0000000000000000000000",
		ListingID:    7,
		BuyerID:      3,
		SellerID:     2,
		Item:         "sword",
		Price:        50,
		BuyerBalance: 450,
		Delivered:    true,
	}

	resp := ReceiptFromDomain(receipt)
	if resp.ID != receipt.ID || resp.BuyerBalance != 450 || !resp.Delivered {
		t.Fatalf("unexpected receipt response: %+v", resp)
	}
}

func TestAccrualReportFromUseCase(t *testing.T) {
	report := &usecase.AccrualReport{
		RatePercent:   decimal.RequireFromString("0.1"),
		Scanned:       4,
		Credited:      3,
		Skipped:       1,
		TotalCredited: 151,
	}

	data, err := json.Marshal(AccrualReportFromUseCase(report))
	if err != nil {
		t.Fatalf("marshal failed: %v", err)
	}

	var decoded map[string]any
	if err := json.Unmarshal(data, &decoded); err != nil {
		t.Fatalf("unmarshal failed: %v", err)
	}

	if decoded["accounts_credited"] != float64(3) || decoded["rate_percent"] != "0.1" || decoded["total_credited"] != float64(151) {
		t.Fatalf("unexpected report json: %s", data)
	}
}
