// Package memory is the development fallback backend. It keeps every account,
// audit record and listing in process memory behind a single lock that is
// held for the whole life of a transaction, so all mutations in the process
// are serialized. Nothing survives a restart.
package memory

import (
	"context"
	"errors"
	"fmt"

	"golang.org/x/sync/semaphore"

	"github.com/iho/chronledger/internal/domain"
	"github.com/iho/chronledger/internal/usecase"
)

// ErrTxDone is returned when a transaction is used after Commit or Rollback.
var ErrTxDone = errors.New("memory: transaction already committed or rolled back")

// Store owns all fallback state. Only the repositories in this package can
// reach it.
type Store struct {
	sem *semaphore.Weighted

	accounts      map[int64]domain.Account
	audit         []domain.AuditRecord
	listings      map[int64]domain.Listing
	nextAuditID   int64
	nextListingID int64
}

// NewStore creates an empty store.
func NewStore() *Store {
	return &Store{
		sem:      semaphore.NewWeighted(1),
		accounts: make(map[int64]domain.Account),
		listings: make(map[int64]domain.Listing),
	}
}

// lock waits for exclusive access to the store until ctx is done. A wait cut
// short by a deadline is reported as ErrLockTimeout.
func (s *Store) lock(ctx context.Context) error {
	err := ctx.Err()
	if err == nil {
		err = s.sem.Acquire(ctx, 1)
	}

	if errors.Is(err, context.DeadlineExceeded) {
		return fmt.Errorf("%w: %v", domain.ErrLockTimeout, err)
	}

	return err
}

func (s *Store) unlock() {
	s.sem.Release(1)
}

// TxManager implements usecase.TransactionManager.
type TxManager struct {
	store *Store
}

// NewTxManager creates a new TxManager.
func NewTxManager(store *Store) *TxManager {
	return &TxManager{store: store}
}

// Begin takes the store lock, waiting no longer than ctx allows. It is
// released by Commit or Rollback.
func (m *TxManager) Begin(ctx context.Context) (usecase.Transaction, error) {
	if err := m.store.lock(ctx); err != nil {
		return nil, err
	}

	return newTx(m.store, nil), nil
}

// Tx stages writes until Commit. A nested Tx stages on top of its parent.
type Tx struct {
	store  *Store
	parent *Tx

	accounts map[int64]domain.Account
	audit    []domain.AuditRecord
	// A nil entry marks a deleted listing.
	listings map[int64]*domain.Listing
	done     bool
}

func newTx(store *Store, parent *Tx) *Tx {
	return &Tx{
		store:    store,
		parent:   parent,
		accounts: make(map[int64]domain.Account),
		listings: make(map[int64]*domain.Listing),
	}
}

// Begin opens a nested transaction.
func (t *Tx) Begin(context.Context) (usecase.Transaction, error) {
	if t.done {
		return nil, ErrTxDone
	}

	return newTx(t.store, t), nil
}

// Commit folds staged writes into the parent, or into the store for a root
// transaction, and releases the store lock.
func (t *Tx) Commit(context.Context) error {
	if t.done {
		return ErrTxDone
	}
	t.done = true

	if t.parent != nil {
		for id, a := range t.accounts {
			t.parent.accounts[id] = a
		}
		t.parent.audit = append(t.parent.audit, t.audit...)
		for id, l := range t.listings {
			t.parent.listings[id] = l
		}

		return nil
	}

	s := t.store
	for id, a := range t.accounts {
		s.accounts[id] = a
	}
	s.audit = append(s.audit, t.audit...)
	for id, l := range t.listings {
		if l == nil {
			delete(s.listings, id)
			continue
		}
		s.listings[id] = *l
	}

	s.unlock()

	return nil
}

// Rollback discards staged writes. It is a no-op after Commit.
func (t *Tx) Rollback(context.Context) error {
	if t.done {
		return nil
	}
	t.done = true

	if t.parent == nil {
		t.store.unlock()
	}

	return nil
}

func (t *Tx) account(id int64) (domain.Account, bool) {
	for cur := t; cur != nil; cur = cur.parent {
		if a, ok := cur.accounts[id]; ok {
			return a, true
		}
	}

	a, ok := t.store.accounts[id]

	return a, ok
}

func (t *Tx) listing(id int64) (domain.Listing, bool) {
	for cur := t; cur != nil; cur = cur.parent {
		if l, ok := cur.listings[id]; ok {
			if l == nil {
				return domain.Listing{}, false
			}
			return *l, true
		}
	}

	l, ok := t.store.listings[id]

	return l, ok
}

func asTx(tx usecase.Transaction) (*Tx, error) {
	t, ok := tx.(*Tx)
	if !ok || t == nil {
		return nil, errors.New("memory: foreign or nil transaction")
	}

	if t.done {
		return nil, ErrTxDone
	}

	return t, nil
}
