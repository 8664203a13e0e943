package postgres

import (
	"context"

	"github.com/iho/chronledger/internal/domain"
	"github.com/iho/chronledger/internal/infrastructure/postgres/generated"
	"github.com/iho/chronledger/internal/usecase"
)

// AuditRepository implements usecase.AuditRepository over ledger_audit.
type AuditRepository struct {
	queries *generated.Queries
}

// NewAuditRepository creates a new audit repository
func NewAuditRepository(db generated.DBTX) *AuditRepository {
	return &AuditRepository{queries: generated.New(db)}
}

// Append inserts a record in tx and sets its ID.
func (r *AuditRepository) Append(ctx context.Context, tx usecase.Transaction, record *domain.AuditRecord) error {
	pgxTx, err := pgxTx(tx)
	if err != nil {
		return err
	}

	id, err := r.queries.WithTx(pgxTx).InsertAuditRecord(ctx, generated.InsertAuditRecordParams{
		AccountID:    record.AccountID,
		Delta:        record.Delta,
		Reason:       record.Reason,
		BalanceAfter: record.BalanceAfter,
		CreatedAt:    record.CreatedAt,
	})
	if err != nil {
		return mapError(err)
	}

	record.ID = id

	return nil
}

// List returns an account's records newest first.
func (r *AuditRepository) List(ctx context.Context, filter domain.AuditFilter) ([]*domain.AuditRecord, error) {
	rows, err := r.queries.ListAuditRecords(ctx, generated.ListAuditRecordsParams{
		AccountID: filter.AccountID,
		Limit:     int32(filter.Limit),
		Offset:    int32(filter.Offset),
	})
	if err != nil {
		return nil, mapError(err)
	}

	records := make([]*domain.AuditRecord, 0, len(rows))
	for _, row := range rows {
		records = append(records, &domain.AuditRecord{
			ID:           row.ID,
			AccountID:    row.AccountID,
			Delta:        row.Delta,
			Reason:       row.Reason,
			BalanceAfter: row.BalanceAfter,
			CreatedAt:    row.CreatedAt,
		})
	}

	return records, nil
}

// SumDeltas sums every delta recorded for an account.
func (r *AuditRepository) SumDeltas(ctx context.Context, accountID int64) (int64, error) {
	sum, err := r.queries.SumAuditDeltas(ctx, accountID)
	if err != nil {
		return 0, mapError(err)
	}

	return sum, nil
}
