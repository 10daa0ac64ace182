package repository

import (
	"context"
	"encoding/json"
	"fmt"

	"raffler/database"
	"raffler/models"
)

// ReputationHistoryRepository implements the ReputationHistoryRepository
// interface. Every ledger mutation leaves a row here, which is what lets the
// conservation-of-points invariant be audited after the fact.
type ReputationHistoryRepository struct {
	q queryable
}

// NewReputationHistoryRepository creates a new reputation history repository
func NewReputationHistoryRepository(db *database.DB) *ReputationHistoryRepository {
	return &ReputationHistoryRepository{q: db.Pool}
}

// newReputationHistoryRepositoryWithTx creates a new reputation history repository with a transaction
func newReputationHistoryRepositoryWithTx(tx queryable) *ReputationHistoryRepository {
	return &ReputationHistoryRepository{q: tx}
}

// Record creates a new reputation history entry
func (r *ReputationHistoryRepository) Record(ctx context.Context, history *models.ReputationHistory) error {
	metadataJSON, err := json.Marshal(history.TransactionMetadata)
	if err != nil {
		return fmt.Errorf("failed to marshal transaction metadata: %w", err)
	}

	query := `
		INSERT INTO reputation_history
		(discord_id, balance_before, balance_after, change_amount, transaction_type, transaction_metadata)
		VALUES ($1, $2, $3, $4, $5, $6)
		RETURNING id, created_at
	`

	err = r.q.QueryRow(ctx, query,
		history.DiscordID,
		history.BalanceBefore,
		history.BalanceAfter,
		history.ChangeAmount,
		history.TransactionType,
		metadataJSON,
	).Scan(&history.ID, &history.CreatedAt)

	if err != nil {
		return fmt.Errorf("failed to record reputation history for user %d: %w", history.DiscordID, err)
	}

	return nil
}

// GetByUser returns reputation history for a specific user
func (r *ReputationHistoryRepository) GetByUser(ctx context.Context, discordID int64, limit int) ([]*models.ReputationHistory, error) {
	query := `
		SELECT id, discord_id, balance_before, balance_after, change_amount,
		       transaction_type, transaction_metadata, created_at
		FROM reputation_history
		WHERE discord_id = $1
		ORDER BY created_at DESC
		LIMIT $2
	`

	rows, err := r.q.Query(ctx, query, discordID, limit)
	if err != nil {
		return nil, fmt.Errorf("failed to get reputation history for user %d: %w", discordID, err)
	}
	defer rows.Close()

	var histories []*models.ReputationHistory
	for rows.Next() {
		var history models.ReputationHistory
		var metadataJSON []byte

		err := rows.Scan(
			&history.ID,
			&history.DiscordID,
			&history.BalanceBefore,
			&history.BalanceAfter,
			&history.ChangeAmount,
			&history.TransactionType,
			&metadataJSON,
			&history.CreatedAt,
		)
		if err != nil {
			return nil, fmt.Errorf("failed to scan reputation history: %w", err)
		}

		if len(metadataJSON) > 0 {
			if err := json.Unmarshal(metadataJSON, &history.TransactionMetadata); err != nil {
				return nil, fmt.Errorf("failed to unmarshal transaction metadata: %w", err)
			}
		}

		histories = append(histories, &history)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate reputation history: %w", err)
	}

	return histories, nil
}
