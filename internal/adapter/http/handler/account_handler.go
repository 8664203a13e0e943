package handler

import (
	"context"
	"net/http"

	"github.com/iho/chronledger/internal/adapter/http/dto"
	"github.com/iho/chronledger/internal/domain"
	"github.com/iho/chronledger/internal/usecase"
)

// AccountService defines the behavior needed by AccountHandler.
type AccountService interface {
	Apply(ctx context.Context, accountID, delta int64, reason string) (int64, error)
	GetBalance(ctx context.Context, accountID int64) (int64, error)
	History(ctx context.Context, accountID int64, limit, offset int) ([]*domain.AuditRecord, error)
}

// AccountReconciler checks one account's balance against its audit trail.
type AccountReconciler interface {
	ReconcileAccount(ctx context.Context, accountID int64) (*usecase.ReconciliationResult, error)
}

// AccountHandler handles account-related HTTP requests.
type AccountHandler struct {
	ledgerUC    AccountService
	reconcileUC AccountReconciler
}

// NewAccountHandler creates a new AccountHandler.
func NewAccountHandler(ledgerUC AccountService, reconcileUC AccountReconciler) *AccountHandler {
	return &AccountHandler{ledgerUC: ledgerUC, reconcileUC: reconcileUC}
}

// Balance returns the current balance. Unknown accounts read as zero.
func (h *AccountHandler) Balance(w http.ResponseWriter, r *http.Request) {
	id, ok := parseIDParam(r, "id")
	if !ok {
		writeError(w, http.StatusBadRequest, "invalid_account_id", "account id must be a positive integer")
		return
	}

	balance, err := h.ledgerUC.GetBalance(r.Context(), id)
	if err != nil {
		writeDomainError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, dto.BalanceResponse{AccountID: id, Balance: balance})
}

// Apply applies a signed delta with a reason.
func (h *AccountHandler) Apply(w http.ResponseWriter, r *http.Request) {
	id, ok := parseIDParam(r, "id")
	if !ok {
		writeError(w, http.StatusBadRequest, "invalid_account_id", "account id must be a positive integer")
		return
	}

	var req dto.ApplyRequest
	if err := decodeJSON(r, &req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid_request_body", err.Error())
		return
	}

	balance, err := h.ledgerUC.Apply(r.Context(), id, req.Delta, req.Reason)
	if err != nil {
		writeDomainError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, dto.BalanceResponse{AccountID: id, Balance: balance})
}

// Audit lists the account's audit records, newest first.
func (h *AccountHandler) Audit(w http.ResponseWriter, r *http.Request) {
	id, ok := parseIDParam(r, "id")
	if !ok {
		writeError(w, http.StatusBadRequest, "invalid_account_id", "account id must be a positive integer")
		return
	}

	limit := parseIntQuery(r, "limit", 0)
	offset := parseIntQuery(r, "offset", 0)

	records, err := h.ledgerUC.History(r.Context(), id, limit, offset)
	if err != nil {
		writeDomainError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, dto.AuditRecordsFromDomain(records))
}

// Reconcile compares the stored balance with the sum of its audit deltas.
func (h *AccountHandler) Reconcile(w http.ResponseWriter, r *http.Request) {
	id, ok := parseIDParam(r, "id")
	if !ok {
		writeError(w, http.StatusBadRequest, "invalid_account_id", "account id must be a positive integer")
		return
	}

	result, err := h.reconcileUC.ReconcileAccount(r.Context(), id)
	if err != nil {
		writeDomainError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, dto.ReconciliationFromUseCase(result))
}
