package domain

import (
	"errors"
	"time"

	"github.com/google/uuid"
)

// Status represents the lifecycle state of a transaction
type Status string

const (
	StatusProcessing Status = "PROCESSING"
	StatusProcessed  Status = "PROCESSED"
)

// Sentinel errors surfaced by the repository layer
var (
	// ErrDuplicateTransaction is returned by Insert when a record with the
	// same business identifier already exists.
	ErrDuplicateTransaction = errors.New("transaction already exists")

	// ErrTransactionNotFound is returned when no record exists for the
	// requested business identifier.
	ErrTransactionNotFound = errors.New("transaction not found")
)

// Transaction represents a payment notification tracked by the system.
// The record only tracks status; no transfer is ever executed here.
type Transaction struct {
	ID                 uuid.UUID // storage primary key, never the business key
	TransactionID      string    // caller-supplied business identifier, globally unique
	SourceAccount      string
	DestinationAccount string
	Amount             int64 // minor units (e.g. cents)
	Currency           string
	Status             Status
	CreatedAt          time.Time
	ProcessedAt        *time.Time // set exactly once, when finalization succeeds
}

// NewTransaction constructs a freshly received transaction in the
// PROCESSING state with a generated storage ID.
func NewTransaction(transactionID, sourceAccount, destinationAccount string, amount int64, currency string) *Transaction {
	return &Transaction{
		ID:                 uuid.New(),
		TransactionID:      transactionID,
		SourceAccount:      sourceAccount,
		DestinationAccount: destinationAccount,
		Amount:             amount,
		Currency:           currency,
		Status:             StatusProcessing,
		CreatedAt:          time.Now().UTC(),
	}
}

// Validate ensures the transaction adheres to domain rules
// Returns an error if validation fails
func (t *Transaction) Validate() error {
	if t.TransactionID == "" {
		return errors.New("transaction_id is required")
	}
	if t.SourceAccount == "" {
		return errors.New("source_account is required")
	}
	if t.DestinationAccount == "" {
		return errors.New("destination_account is required")
	}
	if t.Amount <= 0 {
		return errors.New("amount must be a positive minor-unit value")
	}
	if t.Currency == "" {
		return errors.New("currency is required")
	}
	if t.Status != StatusProcessing && t.Status != StatusProcessed {
		return errors.New("status must be PROCESSING or PROCESSED")
	}
	// processed_at is set if and only if the transaction is PROCESSED
	if t.Status == StatusProcessed && t.ProcessedAt == nil {
		return errors.New("processed transaction must carry processed_at")
	}
	if t.Status == StatusProcessing && t.ProcessedAt != nil {
		return errors.New("processing transaction must not carry processed_at")
	}
	return nil
}
