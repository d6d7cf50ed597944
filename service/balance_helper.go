package service

import (
	"context"
	"fmt"

	"housie/events"
	"housie/models"
)

// RecordBalanceChange records a balance history entry and queues the matching
// event on the unit of work's bus. Every wallet change goes through here.
func RecordBalanceChange(ctx context.Context, uow UnitOfWork, history *models.BalanceHistory) error {
	if err := uow.BalanceHistoryRepository().Record(ctx, history); err != nil {
		return fmt.Errorf("failed to record balance history: %w", err)
	}

	uow.EventBus().Publish(events.BalanceChangeEvent{
		UserID:          history.DiscordID,
		OldBalance:      history.BalanceBefore,
		NewBalance:      history.BalanceAfter,
		TransactionType: history.TransactionType,
		ChangeAmount:    history.ChangeAmount,
	})

	return nil
}
