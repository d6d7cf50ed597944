package service

import (
	"context"
	"errors"
	"testing"

	"housie/events"
	"housie/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
)

func TestRecordBalanceChange(t *testing.T) {
	ctx := context.Background()

	mockUoW := new(MockUnitOfWork)
	mockBalanceHistoryRepo := new(MockBalanceHistoryRepository)
	mockPublisher := new(MockEventPublisher)
	mockUoW.SetRepositories(nil, mockBalanceHistoryRepo, nil, nil)
	mockUoW.SetEventBus(mockPublisher)

	history := &models.BalanceHistory{
		DiscordID:       123456,
		BalanceBefore:   5000,
		BalanceAfter:    4000,
		ChangeAmount:    -1000,
		TransactionType: models.TransactionTypeHousieTicket,
	}

	mockBalanceHistoryRepo.On("Record", ctx, history).Return(nil)
	mockPublisher.On("Publish", events.BalanceChangeEvent{
		UserID:          123456,
		OldBalance:      5000,
		NewBalance:      4000,
		TransactionType: models.TransactionTypeHousieTicket,
		ChangeAmount:    -1000,
	}).Return()

	err := RecordBalanceChange(ctx, mockUoW, history)

	assert.NoError(t, err)
	mockBalanceHistoryRepo.AssertExpectations(t)
	mockPublisher.AssertExpectations(t)
}

func TestRecordBalanceChange_RecordFails(t *testing.T) {
	ctx := context.Background()

	mockUoW := new(MockUnitOfWork)
	mockBalanceHistoryRepo := new(MockBalanceHistoryRepository)
	mockPublisher := new(MockEventPublisher)
	mockUoW.SetRepositories(nil, mockBalanceHistoryRepo, nil, nil)
	mockUoW.SetEventBus(mockPublisher)

	mockBalanceHistoryRepo.On("Record", ctx, mock.Anything).Return(errors.New("disk full"))

	err := RecordBalanceChange(ctx, mockUoW, &models.BalanceHistory{DiscordID: 1})

	assert.Error(t, err)
	assert.Contains(t, err.Error(), "failed to record balance history")
	mockPublisher.AssertNotCalled(t, "Publish", mock.Anything)
}
