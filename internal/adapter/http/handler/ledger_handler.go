package handler

import (
	"context"
	"errors"
	"io"
	"net/http"

	"github.com/shopspring/decimal"

	"github.com/iho/chronledger/internal/adapter/http/dto"
	"github.com/iho/chronledger/internal/usecase"
)

// ConsistencyChecker verifies ledger-wide invariants.
type ConsistencyChecker interface {
	CheckLedgerConsistency(ctx context.Context) error
}

// InterestService runs an interest sweep.
type InterestService interface {
	ApplyInterest(ctx context.Context, ratePercent decimal.Decimal) (*usecase.AccrualReport, error)
}

// LedgerHandler handles ledger-wide operations.
type LedgerHandler struct {
	checker    ConsistencyChecker
	interestUC InterestService
}

// NewLedgerHandler creates a new LedgerHandler.
func NewLedgerHandler(checker ConsistencyChecker, interestUC InterestService) *LedgerHandler {
	return &LedgerHandler{checker: checker, interestUC: interestUC}
}

// CheckConsistency checks that the sum of balances equals the sum of audited deltas.
func (h *LedgerHandler) CheckConsistency(w http.ResponseWriter, r *http.Request) {
	err := h.checker.CheckLedgerConsistency(r.Context())
	if err != nil {
		if errors.Is(err, usecase.ErrInconsistentLedger) {
			writeJSON(w, http.StatusConflict, map[string]any{
				"status":     "inconsistent",
				"consistent": false,
				"message":    err.Error(),
			})
			return
		}
		writeDomainError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, map[string]any{
		"status":     "consistent",
		"consistent": true,
	})
}

// ApplyInterest runs one interest sweep synchronously and returns its report.
func (h *LedgerHandler) ApplyInterest(w http.ResponseWriter, r *http.Request) {
	var req dto.InterestRequest
	if err := decodeJSON(r, &req); err != nil && !errors.Is(err, io.EOF) {
		writeError(w, http.StatusBadRequest, "invalid_request_body", err.Error())
		return
	}

	report, err := h.interestUC.ApplyInterest(r.Context(), req.Rate())
	if err != nil {
		writeDomainError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, dto.AccrualReportFromUseCase(report))
}
