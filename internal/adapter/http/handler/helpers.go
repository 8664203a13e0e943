package handler

import (
	"encoding/json"
	"errors"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"

	"github.com/iho/chronledger/internal/adapter/http/dto"
	"github.com/iho/chronledger/internal/domain"
	"github.com/iho/chronledger/internal/usecase"
)

// retryAfterSeconds is advertised when an account lock could not be acquired in time.
const retryAfterSeconds = "1"

// writeJSON writes a JSON response.
func writeJSON(w http.ResponseWriter, status int, data any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(data)
}

// writeError writes an error response.
func writeError(w http.ResponseWriter, status int, code, message string) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(dto.ErrorResponse{
		Error:   code,
		Message: message,
	})
}

// writeDomainError maps err onto a status and code and writes it.
func writeDomainError(w http.ResponseWriter, err error) {
	status, code := mapDomainError(err)
	if status == http.StatusServiceUnavailable {
		w.Header().Set("Retry-After", retryAfterSeconds)
	}
	writeError(w, status, code, err.Error())
}

// mapDomainError maps domain errors to HTTP status codes and error codes.
func mapDomainError(err error) (int, string) {
	switch {
	case errors.Is(err, domain.ErrInsufficientFunds):
		return http.StatusConflict, "insufficient_funds"
	case errors.Is(err, domain.ErrSameAccount):
		return http.StatusBadRequest, "same_account"
	case errors.Is(err, domain.ErrInvalidAmount):
		return http.StatusBadRequest, "invalid_amount"
	case errors.Is(err, domain.ErrInvalidReason):
		return http.StatusBadRequest, "invalid_reason"
	case errors.Is(err, domain.ErrInvalidItem):
		return http.StatusBadRequest, "invalid_item"
	case errors.Is(err, domain.ErrInvalidPrice):
		return http.StatusBadRequest, "invalid_price"
	case errors.Is(err, domain.ErrInvalidRate):
		return http.StatusBadRequest, "invalid_rate"
	case errors.Is(err, domain.ErrAccountNotFound):
		return http.StatusNotFound, "account_not_found"
	case errors.Is(err, domain.ErrListingNotFound):
		return http.StatusNotFound, "listing_not_found"
	case errors.Is(err, domain.ErrLockTimeout):
		return http.StatusServiceUnavailable, "lock_timeout"
	case errors.Is(err, domain.ErrSellerCreditFailed):
		return http.StatusBadGateway, "seller_credit_failed"
	case errors.Is(err, usecase.ErrInconsistentLedger):
		return http.StatusConflict, "inconsistent_ledger"
	case errors.Is(err, domain.ErrBackendUnavailable):
		return http.StatusInternalServerError, "backend_unavailable"
	default:
		return http.StatusInternalServerError, "internal_error"
	}
}

// decodeJSON decodes the request body into v, rejecting unknown fields.
func decodeJSON(r *http.Request, v any) error {
	dec := json.NewDecoder(r.Body)
	dec.DisallowUnknownFields()
	return dec.Decode(v)
}

// parseIDParam parses a positive integer path parameter.
func parseIDParam(r *http.Request, key string) (int64, bool) {
	id, err := strconv.ParseInt(chi.URLParam(r, key), 10, 64)
	if err != nil || id <= 0 {
		return 0, false
	}
	return id, true
}

// parseIntQuery parses an integer query parameter with a default value.
func parseIntQuery(r *http.Request, key string, defaultValue int) int {
	val := r.URL.Query().Get(key)
	if val == "" {
		return defaultValue
	}
	i, err := strconv.Atoi(val)
	if err != nil {
		return defaultValue
	}
	return i
}
