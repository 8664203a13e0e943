package handler

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/go-chi/chi/v5"

	"github.com/iho/chronledger/internal/adapter/http/dto"
	"github.com/iho/chronledger/internal/domain"
	"github.com/iho/chronledger/internal/usecase"
)

type accountServiceStub struct {
	applyFn   func(ctx context.Context, accountID, delta int64, reason string) (int64, error)
	balanceFn func(ctx context.Context, accountID int64) (int64, error)
	historyFn func(ctx context.Context, accountID int64, limit, offset int) ([]*domain.AuditRecord, error)
}

func (s *accountServiceStub) Apply(ctx context.Context, accountID, delta int64, reason string) (int64, error) {
	return s.applyFn(ctx, accountID, delta, reason)
}

func (s *accountServiceStub) GetBalance(ctx context.Context, accountID int64) (int64, error) {
	return s.balanceFn(ctx, accountID)
}

func (s *accountServiceStub) History(ctx context.Context, accountID int64, limit, offset int) ([]*domain.AuditRecord, error) {
	return s.historyFn(ctx, accountID, limit, offset)
}

type reconcilerStub struct {
	result *usecase.ReconciliationResult
	err    error
}

func (s *reconcilerStub) ReconcileAccount(ctx context.Context, accountID int64) (*usecase.ReconciliationResult, error) {
	return s.result, s.err
}

func TestAccountHandler_Apply_Success(t *testing.T) {
	var captured struct {
		id     int64
		delta  int64
		reason string
	}

	handler := NewAccountHandler(&accountServiceStub{
		applyFn: func(ctx context.Context, accountID, delta int64, reason string) (int64, error) {
			captured.id, captured.delta, captured.reason = accountID, delta, reason
			return 700, nil
		},
	}, nil)

	body, _ := json.Marshal(dto.ApplyRequest{Delta: -300, Reason: "fine"})
	req := httptest.NewRequest(http.MethodPost, "/accounts/1/apply", bytes.NewReader(body))
	req = setChiURLParam(req, "id", "1")
	rec := httptest.NewRecorder()

	handler.Apply(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d: %s", rec.Code, rec.Body.String())
	}

	if captured.id != 1 || captured.delta != -300 || captured.reason != "fine" {
		t.Fatalf("expected input to match request, got %+v", captured)
	}

	var resp dto.BalanceResponse
	if err := json.Unmarshal(rec.Body.Bytes(), &resp); err != nil {
		t.Fatalf("failed to decode response: %v", err)
	}
	if resp.AccountID != 1 || resp.Balance != 700 {
		t.Fatalf("unexpected response: %+v", resp)
	}
}

func TestAccountHandler_Apply_InsufficientFunds(t *testing.T) {
	handler := NewAccountHandler(&accountServiceStub{
		applyFn: func(ctx context.Context, accountID, delta int64, reason string) (int64, error) {
			return 0, domain.ErrInsufficientFunds
		},
	}, nil)

	req := httptest.NewRequest(http.MethodPost, "/accounts/1/apply", bytes.NewBufferString(`{"delta":-5000,"reason":"overdraw"}`))
	req = setChiURLParam(req, "id", "1")
	rec := httptest.NewRecorder()

	handler.Apply(rec, req)

	if rec.Code != http.StatusConflict {
		t.Fatalf("expected 409, got %d", rec.Code)
	}

	var resp dto.ErrorResponse
	if err := json.Unmarshal(rec.Body.Bytes(), &resp); err != nil {
		t.Fatalf("failed to decode response: %v", err)
	}
	if resp.Error != "insufficient_funds" {
		t.Fatalf("expected insufficient_funds, got %+v", resp)
	}
}

func TestAccountHandler_Apply_BadInput(t *testing.T) {
	handler := NewAccountHandler(&accountServiceStub{
		applyFn: func(ctx context.Context, accountID, delta int64, reason string) (int64, error) {
			t.Fatal("Apply should not be called")
			return 0, nil
		},
	}, nil)

	tests := []struct {
		name string
		id   string
		body string
	}{
		{"bad id", "abc", `{"delta":1,"reason":"x"}`},
		{"bad json", "1", `{bad json`},
		{"unknown field", "1", `{"delta":1,"reason":"x","extra":true}`},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := httptest.NewRequest(http.MethodPost, "/accounts/x/apply", bytes.NewBufferString(tt.body))
			req = setChiURLParam(req, "id", tt.id)
			rec := httptest.NewRecorder()

			handler.Apply(rec, req)

			if rec.Code != http.StatusBadRequest {
				t.Fatalf("expected 400, got %d", rec.Code)
			}
		})
	}
}

func TestAccountHandler_Balance(t *testing.T) {
	handler := NewAccountHandler(&accountServiceStub{
		balanceFn: func(ctx context.Context, accountID int64) (int64, error) {
			if accountID != 9 {
				t.Fatalf("unexpected account id %d", accountID)
			}
			return 0, nil
		},
	}, nil)

	req := setChiURLParam(httptest.NewRequest(http.MethodGet, "/accounts/9/balance", nil), "id", "9")
	rec := httptest.NewRecorder()

	handler.Balance(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rec.Code)
	}

	var resp dto.BalanceResponse
	if err := json.Unmarshal(rec.Body.Bytes(), &resp); err != nil {
		t.Fatalf("failed to decode response: %v", err)
	}
	if resp.AccountID != 9 || resp.Balance != 0 {
		t.Fatalf("unexpected response: %+v", resp)
	}
}

func TestAccountHandler_Audit(t *testing.T) {
	var gotLimit, gotOffset int
	handler := NewAccountHandler(&accountServiceStub{
		historyFn: func(ctx context.Context, accountID int64, limit, offset int) ([]*domain.AuditRecord, error) {
			gotLimit, gotOffset = limit, offset
			return []*domain.AuditRecord{{ID: 2, AccountID: accountID, Delta: -300, Reason: "fine", BalanceAfter: 700}}, nil
		},
	}, nil)

	req := httptest.NewRequest(http.MethodGet, "/accounts/1/audit?limit=10&offset=5", nil)
	req = setChiURLParam(req, "id", "1")
	rec := httptest.NewRecorder()

	handler.Audit(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rec.Code)
	}
	if gotLimit != 10 || gotOffset != 5 {
		t.Fatalf("expected paging to be forwarded, got limit=%d offset=%d", gotLimit, gotOffset)
	}

	var resp []dto.AuditRecordResponse
	if err := json.Unmarshal(rec.Body.Bytes(), &resp); err != nil {
		t.Fatalf("failed to decode response: %v", err)
	}
	if len(resp) != 1 || resp[0].BalanceAfter != 700 {
		t.Fatalf("unexpected response: %+v", resp)
	}
}

func TestAccountHandler_Reconcile(t *testing.T) {
	handler := NewAccountHandler(nil, &reconcilerStub{
		result: &usecase.ReconciliationResult{AccountID: 1, RecordedBalance: 130, CalculatedBalance: 100, Difference: 30},
	})

	req := setChiURLParam(httptest.NewRequest(http.MethodGet, "/accounts/1/reconcile", nil), "id", "1")
	rec := httptest.NewRecorder()

	handler.Reconcile(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rec.Code)
	}

	var resp dto.ReconciliationResponse
	if err := json.Unmarshal(rec.Body.Bytes(), &resp); err != nil {
		t.Fatalf("failed to decode response: %v", err)
	}
	if resp.Difference != 30 || resp.IsReconciled {
		t.Fatalf("unexpected response: %+v", resp)
	}
}

func setChiURLParam(r *http.Request, key, value string) *http.Request {
	return r.WithContext(context.WithValue(r.Context(), chi.RouteCtxKey, &chi.Context{
		URLParams: chi.RouteParams{
			Keys:   []string{key},
			Values: []string{value},
		},
	}))
}
