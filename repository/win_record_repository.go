package repository

import (
	"context"
	"fmt"
	"time"

	"raffler/database"
	"raffler/models"

	"github.com/jackc/pgx/v5"
)

// WinRecordRepository implements the WinRecordRepository interface
type WinRecordRepository struct {
	q queryable
}

// NewWinRecordRepository creates a new win record repository
func NewWinRecordRepository(db *database.DB) *WinRecordRepository {
	return &WinRecordRepository{q: db.Pool}
}

// newWinRecordRepositoryWithTx creates a new win record repository with a transaction
func newWinRecordRepositoryWithTx(tx queryable) *WinRecordRepository {
	return &WinRecordRepository{q: tx}
}

// Get retrieves a user's win record. Returns nil if the user has never won.
func (r *WinRecordRepository) Get(ctx context.Context, discordID int64) (*models.WinRecord, error) {
	query := `
		SELECT discord_id, wins, window_start, updated_at
		FROM win_records
		WHERE discord_id = $1
	`

	var rec models.WinRecord
	err := r.q.QueryRow(ctx, query, discordID).Scan(
		&rec.DiscordID,
		&rec.Wins,
		&rec.WindowStart,
		&rec.UpdatedAt,
	)

	if err == pgx.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get win record for user %d: %w", discordID, err)
	}

	return &rec, nil
}

// ResetExpired rolls a stale win record forward to the given window start,
// zeroing the count. The window guard makes it idempotent: a record already
// in the current window is untouched, so the reset is safe to run on every
// read. The row lock it takes also serializes against a concurrent RecordWin.
func (r *WinRecordRepository) ResetExpired(ctx context.Context, discordID int64, windowStart time.Time) error {
	query := `
		UPDATE win_records
		SET wins = 0, window_start = $2, updated_at = NOW()
		WHERE discord_id = $1 AND window_start < $2
	`

	if _, err := r.q.Exec(ctx, query, discordID, windowStart); err != nil {
		return fmt.Errorf("failed to reset win window for user %d: %w", discordID, err)
	}

	return nil
}

// IncrementWins records a win in the given window and returns the new count.
// The cap guard refuses to push a user past the limit: callers must treat
// WinCapViolationError as an internal invariant failure, since draw-time
// filtering is supposed to make it unreachable. Callers must run ResetExpired
// in the same transaction first so a stale window cannot absorb the guard.
func (r *WinRecordRepository) IncrementWins(ctx context.Context, discordID int64, windowStart time.Time, cap int) (int, error) {
	query := `
		INSERT INTO win_records (discord_id, wins, window_start)
		VALUES ($1, 1, $2)
		ON CONFLICT (discord_id) DO UPDATE
		SET wins = win_records.wins + 1, updated_at = NOW()
		WHERE win_records.wins < $3
		RETURNING wins
	`

	var wins int
	err := r.q.QueryRow(ctx, query, discordID, windowStart, cap).Scan(&wins)
	if err == pgx.ErrNoRows {
		rec, lookupErr := r.Get(ctx, discordID)
		if lookupErr != nil {
			return 0, fmt.Errorf("failed to check win record after rejected increment: %w", lookupErr)
		}
		current := cap
		if rec != nil {
			current = rec.Wins
		}
		return 0, &models.WinCapViolationError{DiscordID: discordID, Wins: current, Cap: cap}
	}
	if err != nil {
		return 0, fmt.Errorf("failed to increment wins for user %d: %w", discordID, err)
	}

	return wins, nil
}
