package domain

import "time"

// AuditRecord is one append-only entry of the ledger audit trail. Exactly one
// record is written for every successful balance mutation.
type AuditRecord struct {
	ID           int64
	AccountID    int64
	Delta        int64
	Reason       string
	BalanceAfter int64
	CreatedAt    time.Time
}

// AuditFilter selects audit records of one account, newest first.
type AuditFilter struct {
	AccountID int64
	Limit     int
	Offset    int
}

// ReplayBalance sums the deltas of records in creation order starting from zero.
func ReplayBalance(records []*AuditRecord) int64 {
	var balance int64
	for _, r := range records {
		balance += r.Delta
	}

	return balance
}
