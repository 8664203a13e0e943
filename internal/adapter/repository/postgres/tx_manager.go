package postgres

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"

	"github.com/iho/chronledger/internal/usecase"
)

// DefaultLockTimeout bounds how long a unit waits for a row lock.
const DefaultLockTimeout = 5 * time.Second

const setLockTimeout = `SELECT set_config('lock_timeout', $1, true)`

type pgxPool interface {
	Begin(context.Context) (pgx.Tx, error)
}

// TxManager implements usecase.TransactionManager.
type TxManager struct {
	pool        pgxPool
	lockTimeout time.Duration
}

// NewTxManager creates a new TxManager. A non-positive lockTimeout uses
// DefaultLockTimeout.
func NewTxManager(pool pgxPool, lockTimeout time.Duration) *TxManager {
	if lockTimeout <= 0 {
		lockTimeout = DefaultLockTimeout
	}

	return &TxManager{pool: pool, lockTimeout: lockTimeout}
}

// Begin starts a new transaction with a transaction-local lock timeout.
func (m *TxManager) Begin(ctx context.Context) (usecase.Transaction, error) {
	tx, err := m.pool.Begin(ctx)
	if err != nil {
		return nil, mapError(err)
	}

	if _, err := tx.Exec(ctx, setLockTimeout, fmt.Sprintf("%dms", m.lockTimeout.Milliseconds())); err != nil {
		_ = tx.Rollback(ctx)
		return nil, mapError(err)
	}

	return &Tx{tx: tx}, nil
}

// Tx wraps a pgx transaction or savepoint.
type Tx struct {
	tx pgx.Tx
}

// Begin opens a savepoint.
func (t *Tx) Begin(ctx context.Context) (usecase.Transaction, error) {
	sp, err := t.tx.Begin(ctx)
	if err != nil {
		return nil, mapError(err)
	}

	return &Tx{tx: sp}, nil
}

// Commit commits the transaction, or releases the savepoint.
func (t *Tx) Commit(ctx context.Context) error {
	return mapError(t.tx.Commit(ctx))
}

// Rollback rolls back the transaction. It is a no-op once the transaction
// is closed.
func (t *Tx) Rollback(ctx context.Context) error {
	err := t.tx.Rollback(ctx)
	if errors.Is(err, pgx.ErrTxClosed) {
		return nil
	}

	return mapError(err)
}

// PgxTx returns the underlying pgx.Tx.
func (t *Tx) PgxTx() pgx.Tx {
	return t.tx
}

func pgxTx(tx usecase.Transaction) (pgx.Tx, error) {
	t, ok := tx.(*Tx)
	if !ok || t == nil {
		return nil, errors.New("postgres: foreign or nil transaction")
	}

	return t.tx, nil
}
