// Package sqlite provides an embedded transaction store for single-node
// deployments and local development. It honors the same contract as the
// Postgres adapter: unique insert and compare-and-swap status updates.
package sqlite

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/mattn/go-sqlite3"

	"github.com/rickylaikhuram/backend-webhook-walnut/internal/domain"
)

type transactionRepository struct {
	db *sql.DB
}

// NewTransactionRepository opens (or creates) the SQLite database at dbPath
// and ensures the transactions table exists.
func NewTransactionRepository(dbPath string) (domain.TransactionRepository, func() error, error) {
	db, err := sql.Open("sqlite3", dbPath)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to open sqlite database: %w", err)
	}

	repo := &transactionRepository{db: db}
	if err := repo.migrate(); err != nil {
		db.Close()
		return nil, nil, err
	}

	return repo, db.Close, nil
}

func (r *transactionRepository) migrate() error {
	schema := `
		CREATE TABLE IF NOT EXISTS transactions (
			id TEXT PRIMARY KEY,
			transaction_id TEXT NOT NULL UNIQUE,
			source_account TEXT NOT NULL,
			destination_account TEXT NOT NULL,
			amount INTEGER NOT NULL,
			currency TEXT NOT NULL,
			status TEXT NOT NULL,
			created_at DATETIME NOT NULL,
			processed_at DATETIME
		);
	`
	if _, err := r.db.Exec(schema); err != nil {
		return fmt.Errorf("failed to migrate sqlite schema: %w", err)
	}
	return nil
}

func (r *transactionRepository) Insert(ctx context.Context, tx *domain.Transaction) error {
	query := `
		INSERT INTO transactions (id, transaction_id, source_account, destination_account, amount, currency, status, created_at, processed_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)
	`

	_, err := r.db.ExecContext(ctx, query,
		tx.ID.String(),
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
		var sqliteErr sqlite3.Error
		if errors.As(err, &sqliteErr) &&
			(sqliteErr.ExtendedCode == sqlite3.ErrConstraintUnique || sqliteErr.ExtendedCode == sqlite3.ErrConstraintPrimaryKey) {
			return domain.ErrDuplicateTransaction
		}
		return fmt.Errorf("failed to insert transaction: %w", err)
	}

	return nil
}

func (r *transactionRepository) GetByTransactionID(ctx context.Context, transactionID string) (*domain.Transaction, error) {
	query := `
		SELECT id, transaction_id, source_account, destination_account, amount, currency, status, created_at, processed_at
		FROM transactions
		WHERE transaction_id = ?
	`

	var tx domain.Transaction
	var id, status string
	var processedAt sql.NullTime

	err := r.db.QueryRowContext(ctx, query, transactionID).Scan(
		&id,
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

	parsed, err := uuid.Parse(id)
	if err != nil {
		return nil, fmt.Errorf("corrupt transaction id %q: %w", id, err)
	}
	tx.ID = parsed
	tx.Status = domain.Status(status)
	if processedAt.Valid {
		t := processedAt.Time
		tx.ProcessedAt = &t
	}

	return &tx, nil
}

func (r *transactionRepository) TransitionStatus(ctx context.Context, transactionID string, from, to domain.Status, processedAt time.Time) (int64, error) {
	query := `
		UPDATE transactions
		SET status = ?, processed_at = ?
		WHERE transaction_id = ? AND status = ?
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
