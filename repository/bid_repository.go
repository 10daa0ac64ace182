package repository

import (
	"context"
	"fmt"

	"raffler/database"
	"raffler/models"

	"github.com/jackc/pgx/v5"
)

// BidRepository implements the BidRepository interface. A bid is a delta
// applied to the user's cumulative entry, never a standalone record.
type BidRepository struct {
	q queryable
}

// NewBidRepository creates a new bid repository
func NewBidRepository(db *database.DB) *BidRepository {
	return &BidRepository{q: db.Pool}
}

// newBidRepositoryWithTx creates a new bid repository with a transaction
func newBidRepositoryWithTx(tx queryable) *BidRepository {
	return &BidRepository{q: tx}
}

// AddToBid increases the user's cumulative entry for a giveaway by amount and
// returns the new cumulative entry. Entries only ever grow.
func (r *BidRepository) AddToBid(ctx context.Context, giveawayID, discordID int64, amount int64) (int64, error) {
	if amount <= 0 {
		return 0, fmt.Errorf("bid amount must be positive, got %d", amount)
	}

	query := `
		INSERT INTO giveaway_bids (giveaway_id, discord_id, amount)
		VALUES ($1, $2, $3)
		ON CONFLICT (giveaway_id, discord_id)
		DO UPDATE SET amount = giveaway_bids.amount + EXCLUDED.amount, updated_at = NOW()
		RETURNING amount
	`

	var newBid int64
	err := r.q.QueryRow(ctx, query, giveawayID, discordID, amount).Scan(&newBid)
	if err != nil {
		return 0, fmt.Errorf("failed to add bid for user %d on giveaway %d: %w", discordID, giveawayID, err)
	}

	return newBid, nil
}

// GetUserBid returns the user's cumulative entry for a giveaway, zero if none
func (r *BidRepository) GetUserBid(ctx context.Context, giveawayID, discordID int64) (int64, error) {
	query := `
		SELECT amount FROM giveaway_bids
		WHERE giveaway_id = $1 AND discord_id = $2
	`

	var amount int64
	err := r.q.QueryRow(ctx, query, giveawayID, discordID).Scan(&amount)
	if err == pgx.ErrNoRows {
		return 0, nil
	}
	if err != nil {
		return 0, fmt.Errorf("failed to get bid for user %d on giveaway %d: %w", discordID, giveawayID, err)
	}

	return amount, nil
}

// GetByGiveaway returns all cumulative entries for a giveaway, ordered by
// user ID so draw snapshots are deterministic for a given random point
func (r *BidRepository) GetByGiveaway(ctx context.Context, giveawayID int64) ([]*models.GiveawayBid, error) {
	query := `
		SELECT giveaway_id, discord_id, amount, updated_at
		FROM giveaway_bids
		WHERE giveaway_id = $1
		ORDER BY discord_id
	`

	rows, err := r.q.Query(ctx, query, giveawayID)
	if err != nil {
		return nil, fmt.Errorf("failed to get bids for giveaway %d: %w", giveawayID, err)
	}
	defer rows.Close()

	var bids []*models.GiveawayBid
	for rows.Next() {
		var bid models.GiveawayBid
		err := rows.Scan(
			&bid.GiveawayID,
			&bid.DiscordID,
			&bid.Amount,
			&bid.UpdatedAt,
		)
		if err != nil {
			return nil, fmt.Errorf("failed to scan bid: %w", err)
		}
		bids = append(bids, &bid)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate bids: %w", err)
	}

	return bids, nil
}

// CountEntrants returns the number of distinct users with entries in a giveaway
func (r *BidRepository) CountEntrants(ctx context.Context, giveawayID int64) (int, error) {
	query := `SELECT COUNT(*) FROM giveaway_bids WHERE giveaway_id = $1`

	var count int
	if err := r.q.QueryRow(ctx, query, giveawayID).Scan(&count); err != nil {
		return 0, fmt.Errorf("failed to count entrants for giveaway %d: %w", giveawayID, err)
	}

	return count, nil
}
