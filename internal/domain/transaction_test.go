package domain

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestNewTransaction(t *testing.T) {
	tx := NewTransaction("tx-1", "A", "B", 500, "USD")

	assert.NotEqual(t, tx.ID.String(), "00000000-0000-0000-0000-000000000000")
	assert.Equal(t, "tx-1", tx.TransactionID)
	assert.Equal(t, StatusProcessing, tx.Status)
	assert.Nil(t, tx.ProcessedAt)
	assert.False(t, tx.CreatedAt.IsZero())
	assert.NoError(t, tx.Validate())
}

func TestTransaction_Validate(t *testing.T) {
	processedAt := time.Now().UTC()

	tests := []struct {
		name    string
		tx      Transaction
		wantErr bool
		errMsg  string
	}{
		{
			name: "valid processing transaction",
			tx: Transaction{
				TransactionID:      "tx-1",
				SourceAccount:      "A",
				DestinationAccount: "B",
				Amount:             500,
				Currency:           "USD",
				Status:             StatusProcessing,
			},
			wantErr: false,
		},
		{
			name: "valid processed transaction",
			tx: Transaction{
				TransactionID:      "tx-1",
				SourceAccount:      "A",
				DestinationAccount: "B",
				Amount:             500,
				Currency:           "USD",
				Status:             StatusProcessed,
				ProcessedAt:        &processedAt,
			},
			wantErr: false,
		},
		{
			name: "missing transaction_id should fail",
			tx: Transaction{
				SourceAccount:      "A",
				DestinationAccount: "B",
				Amount:             500,
				Currency:           "USD",
				Status:             StatusProcessing,
			},
			wantErr: true,
			errMsg:  "transaction_id is required",
		},
		{
			name: "missing source account should fail",
			tx: Transaction{
				TransactionID:      "tx-1",
				DestinationAccount: "B",
				Amount:             500,
				Currency:           "USD",
				Status:             StatusProcessing,
			},
			wantErr: true,
			errMsg:  "source_account is required",
		},
		{
			name: "zero amount should fail",
			tx: Transaction{
				TransactionID:      "tx-1",
				SourceAccount:      "A",
				DestinationAccount: "B",
				Amount:             0,
				Currency:           "USD",
				Status:             StatusProcessing,
			},
			wantErr: true,
			errMsg:  "amount must be a positive minor-unit value",
		},
		{
			name: "negative amount should fail",
			tx: Transaction{
				TransactionID:      "tx-1",
				SourceAccount:      "A",
				DestinationAccount: "B",
				Amount:             -5,
				Currency:           "USD",
				Status:             StatusProcessing,
			},
			wantErr: true,
			errMsg:  "amount must be a positive minor-unit value",
		},
		{
			name: "missing currency should fail",
			tx: Transaction{
				TransactionID:      "tx-1",
				SourceAccount:      "A",
				DestinationAccount: "B",
				Amount:             500,
				Status:             StatusProcessing,
			},
			wantErr: true,
			errMsg:  "currency is required",
		},
		{
			name: "processed without processed_at should fail",
			tx: Transaction{
				TransactionID:      "tx-1",
				SourceAccount:      "A",
				DestinationAccount: "B",
				Amount:             500,
				Currency:           "USD",
				Status:             StatusProcessed,
			},
			wantErr: true,
			errMsg:  "processed transaction must carry processed_at",
		},
		{
			name: "processing with processed_at should fail",
			tx: Transaction{
				TransactionID:      "tx-1",
				SourceAccount:      "A",
				DestinationAccount: "B",
				Amount:             500,
				Currency:           "USD",
				Status:             StatusProcessing,
				ProcessedAt:        &processedAt,
			},
			wantErr: true,
			errMsg:  "processing transaction must not carry processed_at",
		},
		{
			name: "unknown status should fail",
			tx: Transaction{
				TransactionID:      "tx-1",
				SourceAccount:      "A",
				DestinationAccount: "B",
				Amount:             500,
				Currency:           "USD",
				Status:             Status("SETTLED"),
			},
			wantErr: true,
			errMsg:  "status must be PROCESSING or PROCESSED",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := tt.tx.Validate()
			if tt.wantErr {
				assert.Error(t, err)
				assert.Contains(t, err.Error(), tt.errMsg)
			} else {
				assert.NoError(t, err)
			}
		})
	}
}
