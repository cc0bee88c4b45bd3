package ingest

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/rickylaikhuram/backend-webhook-walnut/internal/domain"
)

// MockTransactionRepository is a mock implementation of TransactionRepository for testing
type MockTransactionRepository struct {
	mock.Mock
}

func (m *MockTransactionRepository) Insert(ctx context.Context, tx *domain.Transaction) error {
	args := m.Called(ctx, tx)
	return args.Error(0)
}

func (m *MockTransactionRepository) GetByTransactionID(ctx context.Context, transactionID string) (*domain.Transaction, error) {
	args := m.Called(ctx, transactionID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Transaction), args.Error(1)
}

func (m *MockTransactionRepository) TransitionStatus(ctx context.Context, transactionID string, from, to domain.Status, processedAt time.Time) (int64, error) {
	args := m.Called(ctx, transactionID, from, to, processedAt)
	return args.Get(0).(int64), args.Error(1)
}

// MockScheduler is a mock implementation of Scheduler for testing
type MockScheduler struct {
	mock.Mock
}

func (m *MockScheduler) Schedule(transactionID string) {
	m.Called(transactionID)
}

func testLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func validInput() ReceiveInput {
	return ReceiveInput{
		TransactionID:      "tx-1",
		SourceAccount:      "A",
		DestinationAccount: "B",
		Amount:             500,
		Currency:           "USD",
	}
}

func TestReceive_AcceptsAndSchedulesOnce(t *testing.T) {
	ctx := context.Background()
	mockRepo := new(MockTransactionRepository)
	mockScheduler := new(MockScheduler)
	service := NewService(mockRepo, mockScheduler, testLogger(), nil)

	var inserted *domain.Transaction
	mockRepo.On("Insert", ctx, mock.AnythingOfType("*domain.Transaction")).
		Run(func(args mock.Arguments) {
			inserted = args.Get(1).(*domain.Transaction)
		}).
		Return(nil)
	mockScheduler.On("Schedule", "tx-1").Return()

	ack, err := service.Receive(ctx, validInput())
	require.NoError(t, err)

	assert.Equal(t, MessageAccepted, ack.Message)
	assert.Equal(t, "tx-1", ack.TransactionID)
	assert.Equal(t, domain.StatusProcessing, ack.Status)
	assert.False(t, ack.Duplicate)

	require.NotNil(t, inserted)
	assert.Equal(t, domain.StatusProcessing, inserted.Status)
	assert.Nil(t, inserted.ProcessedAt)
	assert.False(t, inserted.CreatedAt.IsZero())

	mockScheduler.AssertNumberOfCalls(t, "Schedule", 1)
	mockRepo.AssertExpectations(t)
	mockScheduler.AssertExpectations(t)
}

func TestReceive_DuplicateDoesNotScheduleOrError(t *testing.T) {
	ctx := context.Background()
	mockRepo := new(MockTransactionRepository)
	mockScheduler := new(MockScheduler)
	service := NewService(mockRepo, mockScheduler, testLogger(), nil)

	mockRepo.On("Insert", ctx, mock.AnythingOfType("*domain.Transaction")).
		Return(domain.ErrDuplicateTransaction)

	// Same id, different fields: still a duplicate by identifier only.
	input := validInput()
	input.Amount = 999
	input.SourceAccount = "C"

	ack, err := service.Receive(ctx, input)
	require.NoError(t, err)

	assert.Equal(t, MessageDuplicate, ack.Message)
	assert.Equal(t, "tx-1", ack.TransactionID)
	assert.True(t, ack.Duplicate)
	assert.Empty(t, ack.Status)

	mockScheduler.AssertNotCalled(t, "Schedule", mock.Anything)
	mockRepo.AssertExpectations(t)
}

func TestReceive_StoreFailurePropagates(t *testing.T) {
	ctx := context.Background()
	mockRepo := new(MockTransactionRepository)
	mockScheduler := new(MockScheduler)
	service := NewService(mockRepo, mockScheduler, testLogger(), nil)

	storeErr := errors.New("store unavailable")
	mockRepo.On("Insert", ctx, mock.AnythingOfType("*domain.Transaction")).Return(storeErr)

	_, err := service.Receive(ctx, validInput())
	require.Error(t, err)
	assert.ErrorIs(t, err, storeErr)

	mockScheduler.AssertNotCalled(t, "Schedule", mock.Anything)
}

func TestReceive_InvalidPayload(t *testing.T) {
	ctx := context.Background()
	mockRepo := new(MockTransactionRepository)
	mockScheduler := new(MockScheduler)
	service := NewService(mockRepo, mockScheduler, testLogger(), nil)

	input := validInput()
	input.Amount = -1

	_, err := service.Receive(ctx, input)
	require.Error(t, err)
	assert.ErrorIs(t, err, ErrInvalidPayload)

	mockRepo.AssertNotCalled(t, "Insert", mock.Anything, mock.Anything)
	mockScheduler.AssertNotCalled(t, "Schedule", mock.Anything)
}
