package postgres

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/lib/pq"

	"github.com/rickylaikhuram/backend-webhook-walnut/internal/domain"
)

// uniqueViolation is the Postgres error code raised when an insert breaks
// a unique constraint.
const uniqueViolation = "23505"

// transactionRepository implements domain.TransactionRepository
type transactionRepository struct {
	db *DB
}

// NewTransactionRepository creates a new transaction repository
func NewTransactionRepository(db *DB) domain.TransactionRepository {
	return &transactionRepository{db: db}
}

// Insert persists a new transaction. Uniqueness of the business identifier
// is enforced by the transactions_transaction_id_key constraint, so a
// duplicate delivery fails atomically inside the database rather than via
// a separate existence check.
func (r *transactionRepository) Insert(ctx context.Context, tx *domain.Transaction) error {
	query := `
		INSERT INTO transactions (id, transaction_id, source_account, destination_account, amount, currency, status, created_at, processed_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)
	`

	_, err := r.db.ExecContext(ctx, query,
		tx.ID,
		tx.TransactionID,
		tx.SourceAccount,
		tx.DestinationAccount,
		tx.Amount,
		tx.Currency,
		string(tx.Status),
		tx.CreatedAt,
		tx.ProcessedAt,
	)
	if err != nil {
		var pqErr *pq.Error
		if errors.As(err, &pqErr) && pqErr.Code == uniqueViolation {
			return domain.ErrDuplicateTransaction
		}
		return fmt.Errorf("failed to insert transaction: %w", err)
	}

	return nil
}

// GetByTransactionID retrieves a transaction by its business identifier.
func (r *transactionRepository) GetByTransactionID(ctx context.Context, transactionID string) (*domain.Transaction, error) {
	query := `
		SELECT id, transaction_id, source_account, destination_account, amount, currency, status, created_at, processed_at
		FROM transactions
		WHERE transaction_id = $1
	`

	var tx domain.Transaction
	var status string
	var processedAt sql.NullTime

	err := r.db.QueryRowContext(ctx, query, transactionID).Scan(
		&tx.ID,
		&tx.TransactionID,
		&tx.SourceAccount,
		&tx.DestinationAccount,
		&tx.Amount,
		&tx.Currency,
		&status,
		&tx.CreatedAt,
		&processedAt,
	)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, domain.ErrTransactionNotFound
		}
		return nil, fmt.Errorf("failed to query transaction: %w", err)
	}

	tx.Status = domain.Status(status)
	if processedAt.Valid {
		t := processedAt.Time
		tx.ProcessedAt = &t
	}

	return &tx, nil
}

// TransitionStatus applies the status compare-and-swap as a single UPDATE
// so concurrent finalization attempts resolve inside the database.
func (r *transactionRepository) TransitionStatus(ctx context.Context, transactionID string, from, to domain.Status, processedAt time.Time) (int64, error) {
	query := `
		UPDATE transactions
		SET status = $1, processed_at = $2
		WHERE transaction_id = $3 AND status = $4
	`

	res, err := r.db.ExecContext(ctx, query, string(to), processedAt, transactionID, string(from))
	if err != nil {
		return 0, fmt.Errorf("failed to update transaction status: %w", err)
	}

	affected, err := res.RowsAffected()
	if err != nil {
		return 0, fmt.Errorf("failed to read affected rows: %w", err)
	}

	return affected, nil
}
