package postgres

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5/pgconn"

	"github.com/iho/chronledger/internal/domain"
)

// PostgreSQL error codes the ledger reacts to.
const (
	pgErrDeadlock             = "40P01"
	pgErrSerializationFailure = "40001"
	pgErrLockNotAvailable     = "55P03"
	pgErrQueryCanceled        = "57014"
)

// mapError normalizes driver errors at the repository edge. Lock waits that
// ran out become domain.ErrLockTimeout; deadlock and serialization failures
// stay as they are for the Retrier; anything else is
// domain.ErrBackendUnavailable. The driver error stays in the chain.
func mapError(err error) error {
	if err == nil {
		return nil
	}

	if errors.Is(err, domain.ErrLockTimeout) || errors.Is(err, domain.ErrBackendUnavailable) {
		return err
	}

	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) {
		switch pgErr.Code {
		case pgErrLockNotAvailable, pgErrQueryCanceled:
			return fmt.Errorf("%w: %w", domain.ErrLockTimeout, err)
		case pgErrDeadlock, pgErrSerializationFailure:
			return err
		}

		return fmt.Errorf("%w: %w", domain.ErrBackendUnavailable, err)
	}

	if errors.Is(err, context.DeadlineExceeded) {
		return fmt.Errorf("%w: %w", domain.ErrLockTimeout, err)
	}

	if errors.Is(err, context.Canceled) {
		return err
	}

	return fmt.Errorf("%w: %w", domain.ErrBackendUnavailable, err)
}
