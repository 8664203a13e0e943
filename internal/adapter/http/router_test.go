package http

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strconv"
	"strings"
	"testing"
	"time"

	miniredis "github.com/alicebob/miniredis/v2"
	"github.com/go-chi/chi/v5"
	goredis "github.com/redis/go-redis/v9"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/iho/chronledger/internal/adapter/http/handler"
	apimiddleware "github.com/iho/chronledger/internal/adapter/http/middleware"
	"github.com/iho/chronledger/internal/adapter/inventory"
	"github.com/iho/chronledger/internal/adapter/repository/memory"
	redisRepo "github.com/iho/chronledger/internal/adapter/repository/redis"
	"github.com/iho/chronledger/internal/infrastructure/idgen"
	"github.com/iho/chronledger/internal/usecase"
)

func TestNewRouter_HealthEndpointAvailable(t *testing.T) {
	router := NewRouter(newRouterConfig())

	rec := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/health", nil)
	router.ServeHTTP(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("expected /health to return 200, got %d", rec.Code)
	}
}

func TestNewRouter_RateLimiterBlocksExcessRequests(t *testing.T) {
	rl := apimiddleware.NewRateLimiter(1, 1)
	router := NewRouter(newRouterConfig(func(cfg *RouterConfig) {
		cfg.RateLimiter = rl
	}))

	req1 := httptest.NewRequest(http.MethodGet, "/health", nil)
	req1.RemoteAddr = "1.2.3.4:1234"
	rec1 := httptest.NewRecorder()
	router.ServeHTTP(rec1, req1)
	if rec1.Code != http.StatusOK {
		t.Fatalf("expected first request to succeed, got %d", rec1.Code)
	}

	req2 := httptest.NewRequest(http.MethodGet, "/health", nil)
	req2.RemoteAddr = "1.2.3.4:1234"
	rec2 := httptest.NewRecorder()
	router.ServeHTTP(rec2, req2)
	if rec2.Code != http.StatusTooManyRequests {
		t.Fatalf("expected second request to be throttled, got %d", rec2.Code)
	}
}

func TestNewRouter_RegistersKeyRoutes(t *testing.T) {
	router := NewRouter(newRouterConfig())

	chiRoutes, ok := router.(chi.Router)
	if !ok {
		t.Fatal("router does not implement chi.Routes")
	}

	seen := map[string]bool{}
	if err := chi.Walk(chiRoutes, func(method string, route string, _ http.Handler, _ ...func(http.Handler) http.Handler) error {
		seen[method+" "+route] = true
		return nil
	}); err != nil {
		t.Fatalf("walk failed: %v", err)
	}

	expected := []string{
		"GET /health",
		"GET /ready",
		"GET /metrics",
		"GET /api/v1/accounts/{id}/balance",
		"POST /api/v1/accounts/{id}/apply",
		"GET /api/v1/accounts/{id}/audit",
		"GET /api/v1/accounts/{id}/reconcile",
		"POST /api/v1/transfers",
		"POST /api/v1/listings/",
		"GET /api/v1/listings/",
		"PATCH /api/v1/listings/{id}",
		"DELETE /api/v1/listings/{id}",
		"POST /api/v1/listings/{id}/purchase",
		"POST /api/v1/interest",
		"GET /api/v1/ledger/consistency",
	}

	for _, route := range expected {
		if !seen[route] {
			t.Fatalf("expected route %s to be registered", route)
		}
	}
}

func TestNewRouter_LedgerScenario(t *testing.T) {
	router := NewRouter(newRouterConfig())

	rec := do(t, router, http.MethodPost, "/api/v1/accounts/1/apply", `{"delta":1000,"reason":"seed"}`, "")
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())

	rec = do(t, router, http.MethodPost, "/api/v1/accounts/1/apply", `{"delta":-300,"reason":"fine"}`, "")
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, float64(700), decode(t, rec)["balance"])

	rec = do(t, router, http.MethodPost, "/api/v1/accounts/1/apply", `{"delta":-5000,"reason":"overdraw"}`, "")
	require.Equal(t, http.StatusConflict, rec.Code)
	assert.Equal(t, "insufficient_funds", decode(t, rec)["error"])

	rec = do(t, router, http.MethodPost, "/api/v1/transfers", `{"payer_id":1,"payee_id":2,"amount":200}`, "")
	require.Equal(t, http.StatusCreated, rec.Code)
	assert.Equal(t, float64(500), decode(t, rec)["payer_balance"])

	rec = do(t, router, http.MethodGet, "/api/v1/accounts/2/balance", "", "")
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, float64(200), decode(t, rec)["balance"])

	rec = do(t, router, http.MethodPost, "/api/v1/listings/", `{"seller_id":2,"item":"sword","price":50}`, "")
	require.Equal(t, http.StatusCreated, rec.Code)
	listingID := int64(decode(t, rec)["id"].(float64))

	rec = do(t, router, http.MethodPost, "/api/v1/listings/"+itoa(listingID)+"/purchase", `{"buyer_id":1}`, "")
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	receipt := decode(t, rec)
	assert.Equal(t, float64(450), receipt["buyer_balance"])
	assert.Equal(t, true, receipt["delivered"])

	rec = do(t, router, http.MethodPost, "/api/v1/listings/"+itoa(listingID)+"/purchase", `{"buyer_id":1}`, "")
	require.Equal(t, http.StatusNotFound, rec.Code)

	rec = do(t, router, http.MethodPost, "/api/v1/interest", `{"rate_percent":"10"}`, "")
	require.Equal(t, http.StatusOK, rec.Code)
	report := decode(t, rec)
	assert.Equal(t, float64(2), report["accounts_credited"])
	assert.Equal(t, float64(70), report["total_credited"])

	rec = do(t, router, http.MethodGet, "/api/v1/ledger/consistency", "", "")
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, true, decode(t, rec)["consistent"])

	rec = do(t, router, http.MethodGet, "/api/v1/accounts/1/reconcile", "", "")
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, true, decode(t, rec)["is_reconciled"])

	rec = do(t, router, http.MethodGet, "/api/v1/accounts/1/audit?limit=2", "", "")
	require.Equal(t, http.StatusOK, rec.Code)
	var audit []map[string]any
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &audit))
	require.Len(t, audit, 2)
	assert.Equal(t, "interest 10%", audit[0]["reason"])
}

func TestNewRouter_IdempotentApplyIsNotReplayed(t *testing.T) {
	s := miniredis.RunT(t)
	client := goredis.NewClient(&goredis.Options{Addr: s.Addr()})
	t.Cleanup(func() { _ = client.Close() })

	router := NewRouter(newRouterConfig(func(cfg *RouterConfig) {
		cfg.IdempotencyStore = redisRepo.NewIdempotencyStore(client)
		cfg.IdempotencyTTL = time.Minute
	}))

	first := do(t, router, http.MethodPost, "/api/v1/accounts/5/apply", `{"delta":100,"reason":"deposit"}`, "abc")
	require.Equal(t, http.StatusOK, first.Code)

	second := do(t, router, http.MethodPost, "/api/v1/accounts/5/apply", `{"delta":100,"reason":"deposit"}`, "abc")
	require.Equal(t, http.StatusOK, second.Code)
	assert.Equal(t, "true", second.Header().Get(apimiddleware.IdempotencyReplayHeader))
	assert.JSONEq(t, first.Body.String(), second.Body.String())

	rec := do(t, router, http.MethodGet, "/api/v1/accounts/5/balance", "", "")
	assert.Equal(t, float64(100), decode(t, rec)["balance"])
}

func newRouterConfig(opts ...func(*RouterConfig)) RouterConfig {
	store := memory.NewStore()
	txManager := memory.NewTxManager(store)
	accounts := memory.NewAccountRepository(store)
	audit := memory.NewAuditRepository(store)
	listings := memory.NewListingRepository(store)
	retrier := usecase.DirectRetrier{}
	metrics := usecase.NopMetrics{}
	logger := zerolog.Nop()

	ledgerUC := usecase.NewLedgerUseCase(txManager, accounts, audit, retrier, metrics)
	transferUC := usecase.NewTransferUseCase(txManager, accounts, audit, retrier, metrics)
	marketUC := usecase.NewMarketUseCase(txManager, accounts, audit, listings,
		inventory.NewLogDeliverer(logger), idgen.NewULIDGenerator(), retrier, metrics, logger)
	interestUC := usecase.NewInterestUseCase(txManager, accounts, audit, retrier, metrics, logger)
	reconUC := usecase.NewReconciliationUseCase(accounts, audit, memory.NewLedgerRepository(store))

	cfg := RouterConfig{
		AccountHandler:  handler.NewAccountHandler(ledgerUC, reconUC),
		TransferHandler: handler.NewTransferHandler(transferUC),
		ListingHandler:  handler.NewListingHandler(marketUC),
		LedgerHandler:   handler.NewLedgerHandler(reconUC, interestUC),
		HealthHandler:   handler.NewHealthHandler(nil),
		Logger:          logger,
	}

	for _, opt := range opts {
		opt(&cfg)
	}

	return cfg
}

func do(t *testing.T, h http.Handler, method, path, body, idempotencyKey string) *httptest.ResponseRecorder {
	t.Helper()

	var req *http.Request
	if body == "" {
		req = httptest.NewRequest(method, path, nil)
	} else {
		req = httptest.NewRequest(method, path, strings.NewReader(body))
		req.Header.Set("Content-Type", "application/json")
	}
	if idempotencyKey != "" {
		req.Header.Set(apimiddleware.IdempotencyKeyHeader, idempotencyKey)
	}

	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)
	return rec
}

func decode(t *testing.T, rec *httptest.ResponseRecorder) map[string]any {
	t.Helper()

	var body map[string]any
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body), rec.Body.String())
	return body
}

func itoa(v int64) string {
	return strconv.FormatInt(v, 10)
}
