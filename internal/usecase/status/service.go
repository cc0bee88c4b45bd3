package status

import (
	"context"

	"github.com/rickylaikhuram/backend-webhook-walnut/internal/domain"
)

// Service answers point lookups for the current persisted state of a
// transaction. Reads are not synchronized with in-flight finalization;
// callers may observe PROCESSING moments before it completes.
type Service struct {
	repo domain.TransactionRepository
}

// NewService creates a new status query service.
func NewService(repo domain.TransactionRepository) *Service {
	return &Service{repo: repo}
}

// Get returns the full current record, or domain.ErrTransactionNotFound.
func (s *Service) Get(ctx context.Context, transactionID string) (*domain.Transaction, error) {
	return s.repo.GetByTransactionID(ctx, transactionID)
}
