package usecase_test

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/rs/zerolog"

	"github.com/iho/chronledger/internal/adapter/repository/memory"
	"github.com/iho/chronledger/internal/domain"
	"github.com/iho/chronledger/internal/usecase"
)

var errInjected = errors.New("injected write failure")

// failingAccounts fails every balance write for one account.
type failingAccounts struct {
	*memory.AccountRepository
	failID int64
}

func (f *failingAccounts) UpdateBalance(ctx context.Context, tx usecase.Transaction, id int64, balance int64, at time.Time) error {
	if id == f.failID {
		return errInjected
	}

	return f.AccountRepository.UpdateBalance(ctx, tx, id, balance, at)
}

type harness struct {
	store    *memory.Store
	tx       *memory.TxManager
	accounts usecase.AccountRepository
	audit    *memory.AuditRepository
	listings *memory.ListingRepository
	ledger   *usecase.LedgerUseCase
	transfer *usecase.TransferUseCase
	recon    *usecase.ReconciliationUseCase
}

func newHarness(t *testing.T) *harness {
	t.Helper()

	store := memory.NewStore()

	return newHarnessWithAccounts(t, store, memory.NewAccountRepository(store))
}

func newHarnessWithAccounts(t *testing.T, store *memory.Store, accounts usecase.AccountRepository) *harness {
	t.Helper()

	h := &harness{
		store:    store,
		tx:       memory.NewTxManager(store),
		accounts: accounts,
		audit:    memory.NewAuditRepository(store),
		listings: memory.NewListingRepository(store),
	}

	h.ledger = usecase.NewLedgerUseCase(h.tx, accounts, h.audit, usecase.DirectRetrier{}, usecase.NopMetrics{})
	h.transfer = usecase.NewTransferUseCase(h.tx, accounts, h.audit, usecase.DirectRetrier{}, usecase.NopMetrics{})
	h.recon = usecase.NewReconciliationUseCase(accounts, h.audit, memory.NewLedgerRepository(store))

	return h
}

func (h *harness) market(inventory usecase.Inventory, idGen usecase.IDGenerator, metrics usecase.Metrics) *usecase.MarketUseCase {
	return usecase.NewMarketUseCase(
		h.tx, h.accounts, h.audit, h.listings,
		inventory, idGen, usecase.DirectRetrier{}, metrics, zerolog.Nop(),
	)
}

func (h *harness) interest() *usecase.InterestUseCase {
	return usecase.NewInterestUseCase(h.tx, h.accounts, h.audit, usecase.DirectRetrier{}, usecase.NopMetrics{}, zerolog.Nop())
}

func (h *harness) fund(t *testing.T, accountID, amount int64) {
	t.Helper()

	if _, err := h.ledger.Apply(context.Background(), accountID, amount, "seed"); err != nil {
		t.Fatalf("fund account %d: %v", accountID, err)
	}
}

func (h *harness) balance(t *testing.T, accountID int64) int64 {
	t.Helper()

	balance, err := h.ledger.GetBalance(context.Background(), accountID)
	if err != nil {
		t.Fatalf("get balance %d: %v", accountID, err)
	}

	return balance
}

func (h *harness) history(t *testing.T, accountID int64) []*domain.AuditRecord {
	t.Helper()

	records, err := h.ledger.History(context.Background(), accountID, 1000, 0)
	if err != nil {
		t.Fatalf("history %d: %v", accountID, err)
	}

	return records
}

type fixedID string

func (f fixedID) Generate() string { return string(f) }

var deliverNothing = usecase.InventoryFunc(func(context.Context, int64, *domain.Listing) error { return nil })
