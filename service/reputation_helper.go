package service

import (
	"context"
	"fmt"

	"raffler/events"
	"raffler/models"
)

// RecordReputationChange records a reputation history entry and emits the
// matching events. This is the single entry point for all ledger mutations'
// bookkeeping: pairing the history row with the balance update in one
// transaction is what keeps the audit trail conserving points.
func RecordReputationChange(ctx context.Context, uow UnitOfWork, history *models.ReputationHistory) error {
	if err := uow.ReputationHistoryRepository().Record(ctx, history); err != nil {
		return fmt.Errorf("failed to record reputation history: %w", err)
	}

	// Emitted after the transaction commits
	event := events.ReputationChangeEvent{
		UserID:          history.DiscordID,
		OldBalance:      history.BalanceBefore,
		NewBalance:      history.BalanceAfter,
		TransactionType: history.TransactionType,
		ChangeAmount:    history.ChangeAmount,
	}
	uow.EventBus().Publish(event)

	// Also emit user created event if this is an initial balance
	if history.TransactionType == models.TransactionTypeInitial {
		if username, ok := history.TransactionMetadata["username"].(string); ok {
			uow.EventBus().Publish(events.UserCreatedEvent{
				UserID:         history.DiscordID,
				Username:       username,
				InitialBalance: history.BalanceAfter,
			})
		}
	}

	return nil
}
