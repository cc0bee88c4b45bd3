package domain

import (
	"context"
	"time"
)

// TransactionRepository defines the interface for transaction persistence operations
type TransactionRepository interface {
	// Insert persists a new transaction atomically. It returns
	// ErrDuplicateTransaction when a record with the same business
	// identifier already exists; it never overwrites an existing record.
	Insert(ctx context.Context, tx *Transaction) error

	// GetByTransactionID retrieves a transaction by its business identifier.
	// Returns ErrTransactionNotFound when no record exists.
	GetByTransactionID(ctx context.Context, transactionID string) (*Transaction, error)

	// TransitionStatus atomically moves a transaction from one status to
	// another, stamping processed_at, but only if the stored status still
	// equals `from` (a compare-and-swap, never a read-then-write). The
	// returned count is 1 when the transition applied and 0 when the record
	// is missing or its status had already advanced.
	TransitionStatus(ctx context.Context, transactionID string, from, to Status, processedAt time.Time) (int64, error)
}
