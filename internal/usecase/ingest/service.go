package ingest

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"github.com/rickylaikhuram/backend-webhook-walnut/internal/domain"
	"github.com/rickylaikhuram/backend-webhook-walnut/internal/observability"
)

// Ack messages mirror the webhook response contract.
const (
	MessageAccepted  = "Transaction added successfully"
	MessageDuplicate = "Transaction already exists"
)

// ErrInvalidPayload wraps domain validation failures so the transport can
// report them as a client error.
var ErrInvalidPayload = errors.New("invalid payload")

// Scheduler submits finalization work after a durable insert. The worker
// pool is a long-lived component owned by main, never request-scoped.
type Scheduler interface {
	Schedule(transactionID string)
}

// ReceiveInput carries a well-typed webhook payload.
type ReceiveInput struct {
	TransactionID      string
	SourceAccount      string
	DestinationAccount string
	Amount             int64
	Currency           string
}

// Ack is the acknowledgement returned to the webhook sender.
type Ack struct {
	Message       string
	TransactionID string
	Status        domain.Status // empty on a duplicate ack
	Duplicate     bool
}

// Service handles idempotent webhook ingestion.
type Service struct {
	repo      domain.TransactionRepository
	scheduler Scheduler
	logger    *slog.Logger
	metrics   *observability.Metrics
}

// NewService creates a new ingestion service.
func NewService(repo domain.TransactionRepository, scheduler Scheduler, logger *slog.Logger, metrics *observability.Metrics) *Service {
	return &Service{
		repo:      repo,
		scheduler: scheduler,
		logger:    logger,
		metrics:   metrics,
	}
}

// Receive records a transaction exactly once and schedules its
// finalization. Repeated delivery of the same transaction_id acks as a
// duplicate without inserting or scheduling anything: the uniqueness
// constraint inside the store decides, not a read-then-write check.
func (s *Service) Receive(ctx context.Context, input ReceiveInput) (Ack, error) {
	tx := domain.NewTransaction(
		input.TransactionID,
		input.SourceAccount,
		input.DestinationAccount,
		input.Amount,
		input.Currency,
	)
	if err := tx.Validate(); err != nil {
		return Ack{}, fmt.Errorf("%w: %v", ErrInvalidPayload, err)
	}

	if err := s.repo.Insert(ctx, tx); err != nil {
		if errors.Is(err, domain.ErrDuplicateTransaction) {
			s.logger.Info("duplicate webhook delivery", "transactionId", input.TransactionID)
			s.metrics.ObserveIngest(observability.IngestDuplicate)
			return Ack{
				Message:       MessageDuplicate,
				TransactionID: input.TransactionID,
				Duplicate:     true,
			}, nil
		}
		s.metrics.ObserveIngest(observability.IngestError)
		return Ack{}, fmt.Errorf("failed to store transaction: %w", err)
	}

	// The record is durable at this point, so the worker can never observe
	// "not found" for its own transaction.
	s.scheduler.Schedule(tx.TransactionID)

	s.logger.Info("transaction accepted", "transactionId", tx.TransactionID, "currency", tx.Currency)
	s.metrics.ObserveIngest(observability.IngestAccepted)

	return Ack{
		Message:       MessageAccepted,
		TransactionID: tx.TransactionID,
		Status:        tx.Status,
	}, nil
}
