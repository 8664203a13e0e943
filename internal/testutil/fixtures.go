// Package testutil provides a real PostgreSQL fixture for integration tests.
package testutil

import (
	"context"
	"os"
	"testing"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/rs/zerolog"

	"github.com/iho/chronledger/internal/infrastructure/postgres"
	"github.com/iho/chronledger/internal/infrastructure/postgres/generated"
)

// TestDB provides isolated test database connections.
type TestDB struct {
	Pool    *pgxpool.Pool
	Queries *generated.Queries
	t       *testing.T
}

// NewTestDB connects to DATABASE_URL and migrates it. The test is skipped
// in -short mode or when DATABASE_URL is unset.
func NewTestDB(t *testing.T) *TestDB {
	t.Helper()

	if testing.Short() {
		t.Skip("skipping integration test in short mode")
	}

	dbURL := os.Getenv("DATABASE_URL")
	if dbURL == "" {
		t.Skip("DATABASE_URL not set")
	}

	// The embedded migrations avoid guessing a path relative to the test.
	if err := postgres.RunMigrations(dbURL, "", zerolog.Nop()); err != nil {
		t.Fatalf("failed to run migrations: %v", err)
	}

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	pool, err := postgres.NewPool(ctx, dbURL, 20, 0)
	if err != nil {
		t.Fatalf("failed to connect to test database: %v", err)
	}

	db := &TestDB{
		Pool:    pool,
		Queries: generated.New(pool),
		t:       t,
	}
	t.Cleanup(db.Cleanup)

	return db
}

// Cleanup closes the database connection.
func (db *TestDB) Cleanup() {
	db.Pool.Close()
}

// TruncateAll removes all data from tables.
func (db *TestDB) TruncateAll(ctx context.Context) {
	db.t.Helper()

	_, err := db.Pool.Exec(ctx, `TRUNCATE TABLE ledger_audit, listings, accounts RESTART IDENTITY CASCADE`)
	if err != nil {
		db.t.Fatalf("failed to truncate tables: %v", err)
	}
}

// SeedAccount creates an account holding balance, with the matching audit
// record so reconciliation stays clean.
func (db *TestDB) SeedAccount(ctx context.Context, id, balance int64) {
	db.t.Helper()

	now := time.Now().UTC()

	if err := db.Queries.EnsureAccounts(ctx, generated.EnsureAccountsParams{Ids: []int64{id}, Now: now}); err != nil {
		db.t.Fatalf("failed to create account %d: %v", id, err)
	}

	if balance == 0 {
		return
	}

	if _, err := db.Queries.UpdateAccountBalance(ctx, generated.UpdateAccountBalanceParams{
		AccountID: id,
		Balance:   balance,
		UpdatedAt: now,
	}); err != nil {
		db.t.Fatalf("failed to set balance of %d: %v", id, err)
	}

	if _, err := db.Queries.InsertAuditRecord(ctx, generated.InsertAuditRecordParams{
		AccountID:    id,
		Delta:        balance,
		Reason:       "seed",
		BalanceAfter: balance,
		CreatedAt:    now,
	}); err != nil {
		db.t.Fatalf("failed to audit seed of %d: %v", id, err)
	}
}

// Balance reads a committed balance.
func (db *TestDB) Balance(ctx context.Context, id int64) int64 {
	db.t.Helper()

	balance, err := db.Queries.GetAccountBalance(ctx, id)
	if err != nil {
		db.t.Fatalf("failed to read balance of %d: %v", id, err)
	}

	return balance
}
