package testutil

import (
	"raffler/models"
)

// CreateTestReputationHistory creates a test reputation history entry
func CreateTestReputationHistory(discordID int64, transactionType models.TransactionType) *models.ReputationHistory {
	return &models.ReputationHistory{
		DiscordID:       discordID,
		BalanceBefore:   1000,
		BalanceAfter:    900,
		ChangeAmount:    -100,
		TransactionType: transactionType,
		TransactionMetadata: map[string]interface{}{
			"test": true,
		},
	}
}
