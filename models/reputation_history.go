package models

import (
	"time"
)

// TransactionType represents the type of reputation change
type TransactionType string

const (
	TransactionTypeInitial     TransactionType = "initial"
	TransactionTypeBid         TransactionType = "giveaway_bid"
	TransactionTypeAdminAdd    TransactionType = "admin_add"
	TransactionTypeAdminRemove TransactionType = "admin_remove"
)

// ReputationHistory represents a historical reputation change
type ReputationHistory struct {
	ID                  int64           `db:"id"`
	DiscordID           int64           `db:"discord_id"`
	BalanceBefore       int64           `db:"balance_before"`
	BalanceAfter        int64           `db:"balance_after"`
	ChangeAmount        int64           `db:"change_amount"`
	TransactionType     TransactionType `db:"transaction_type"`
	TransactionMetadata map[string]any  `db:"transaction_metadata"`
	CreatedAt           time.Time       `db:"created_at"`
}
