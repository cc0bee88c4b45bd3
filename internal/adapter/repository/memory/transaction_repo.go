// Package memory implements domain.TransactionRepository on a mutex-guarded
// map. It backs unit tests and the "memory" store driver for local runs
// without a database; the compare-and-swap semantics match the SQL adapters.
package memory

import (
	"context"
	"sync"
	"time"

	"github.com/rickylaikhuram/backend-webhook-walnut/internal/domain"
)

// TransactionRepository is the in-memory store.
type TransactionRepository struct {
	mu   sync.Mutex
	byID map[string]*domain.Transaction // keyed by business identifier

	insertErr     error
	getErr        error
	transitionErr error
}

// NewTransactionRepository creates an empty in-memory store.
func NewTransactionRepository() *TransactionRepository {
	return &TransactionRepository{
		byID: make(map[string]*domain.Transaction),
	}
}

// WithInsertError forces subsequent Insert calls to fail with err.
func (r *TransactionRepository) WithInsertError(err error) *TransactionRepository {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.insertErr = err
	return r
}

// WithGetError forces subsequent GetByTransactionID calls to fail with err.
func (r *TransactionRepository) WithGetError(err error) *TransactionRepository {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.getErr = err
	return r
}

// WithTransitionError forces subsequent TransitionStatus calls to fail with err.
func (r *TransactionRepository) WithTransitionError(err error) *TransactionRepository {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.transitionErr = err
	return r
}

// Insert stores a copy of the transaction, rejecting duplicate business ids.
func (r *TransactionRepository) Insert(_ context.Context, tx *domain.Transaction) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if r.insertErr != nil {
		return r.insertErr
	}
	if _, exists := r.byID[tx.TransactionID]; exists {
		return domain.ErrDuplicateTransaction
	}

	clone := *tx
	r.byID[tx.TransactionID] = &clone
	return nil
}

// GetByTransactionID returns a copy of the stored record.
func (r *TransactionRepository) GetByTransactionID(_ context.Context, transactionID string) (*domain.Transaction, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	if r.getErr != nil {
		return nil, r.getErr
	}
	tx, exists := r.byID[transactionID]
	if !exists {
		return nil, domain.ErrTransactionNotFound
	}

	clone := *tx
	if tx.ProcessedAt != nil {
		t := *tx.ProcessedAt
		clone.ProcessedAt = &t
	}
	return &clone, nil
}

// TransitionStatus applies the compare-and-swap under the store mutex, so
// concurrent callers observe the same exactly-one-winner behaviour as the
// SQL adapters.
func (r *TransactionRepository) TransitionStatus(_ context.Context, transactionID string, from, to domain.Status, processedAt time.Time) (int64, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	if r.transitionErr != nil {
		return 0, r.transitionErr
	}
	tx, exists := r.byID[transactionID]
	if !exists || tx.Status != from {
		return 0, nil
	}

	tx.Status = to
	t := processedAt
	tx.ProcessedAt = &t
	return 1, nil
}
