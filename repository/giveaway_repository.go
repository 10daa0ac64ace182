package repository

import (
	"context"
	"fmt"
	"time"

	"raffler/database"
	"raffler/models"

	"github.com/jackc/pgx/v5"
)

// GiveawayRepository implements the GiveawayRepository interface
type GiveawayRepository struct {
	q queryable
}

// NewGiveawayRepository creates a new giveaway repository
func NewGiveawayRepository(db *database.DB) *GiveawayRepository {
	return &GiveawayRepository{q: db.Pool}
}

// newGiveawayRepositoryWithTx creates a new giveaway repository with a transaction
func newGiveawayRepositoryWithTx(tx queryable) *GiveawayRepository {
	return &GiveawayRepository{q: tx}
}

const giveawayColumns = `id, state, close_time, pool_total, winner_count, created_at, drawn_at`

func scanGiveaway(row pgx.Row) (*models.Giveaway, error) {
	var g models.Giveaway
	err := row.Scan(
		&g.ID,
		&g.State,
		&g.CloseTime,
		&g.PoolTotal,
		&g.WinnerCount,
		&g.CreatedAt,
		&g.DrawnAt,
	)
	if err != nil {
		return nil, err
	}
	return &g, nil
}

// Create opens a new giveaway with the given scheduled close time
func (r *GiveawayRepository) Create(ctx context.Context, closeTime time.Time, winnerCount int) (*models.Giveaway, error) {
	query := `
		INSERT INTO giveaways (state, close_time, winner_count)
		VALUES ('open', $1, $2)
		RETURNING ` + giveawayColumns

	giveaway, err := scanGiveaway(r.q.QueryRow(ctx, query, closeTime, winnerCount))
	if err != nil {
		return nil, fmt.Errorf("failed to create giveaway: %w", err)
	}

	return giveaway, nil
}

// GetByID retrieves a giveaway by its ID. Returns nil if not found.
func (r *GiveawayRepository) GetByID(ctx context.Context, id int64) (*models.Giveaway, error) {
	query := `SELECT ` + giveawayColumns + ` FROM giveaways WHERE id = $1`

	giveaway, err := scanGiveaway(r.q.QueryRow(ctx, query, id))
	if err == pgx.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get giveaway %d: %w", id, err)
	}

	return giveaway, nil
}

// GetCurrentOpen returns the open giveaway closing soonest, or nil if none exists
func (r *GiveawayRepository) GetCurrentOpen(ctx context.Context) (*models.Giveaway, error) {
	query := `
		SELECT ` + giveawayColumns + `
		FROM giveaways
		WHERE state = 'open'
		ORDER BY close_time
		LIMIT 1
	`

	giveaway, err := scanGiveaway(r.q.QueryRow(ctx, query))
	if err == pgx.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get current open giveaway: %w", err)
	}

	return giveaway, nil
}

// IncrementPool adds amount to an open giveaway's pool total and returns the
// new total. The state guard rejects bids that race with the close: a bid
// transaction that loses the race fails with GiveawayClosedError and rolls
// back its debit.
func (r *GiveawayRepository) IncrementPool(ctx context.Context, id int64, amount int64) (int64, error) {
	query := `
		UPDATE giveaways
		SET pool_total = pool_total + $1
		WHERE id = $2 AND state = 'open'
		RETURNING pool_total
	`

	var poolTotal int64
	err := r.q.QueryRow(ctx, query, amount, id).Scan(&poolTotal)
	if err == pgx.ErrNoRows {
		return 0, &models.GiveawayClosedError{GiveawayID: id}
	}
	if err != nil {
		return 0, fmt.Errorf("failed to increment pool for giveaway %d: %w", id, err)
	}

	return poolTotal, nil
}

// MarkDrawn performs the one-shot open-to-drawn transition. Exactly one
// caller can succeed; any later attempt fails with GiveawayClosedError.
// In-flight bid transactions hold the row lock until they commit, so the
// returned giveaway's pool total already includes every bid that will be
// visible in the snapshot.
func (r *GiveawayRepository) MarkDrawn(ctx context.Context, id int64) (*models.Giveaway, error) {
	query := `
		UPDATE giveaways
		SET state = 'drawn', drawn_at = NOW()
		WHERE id = $1 AND state = 'open'
		RETURNING ` + giveawayColumns

	giveaway, err := scanGiveaway(r.q.QueryRow(ctx, query, id))
	if err == pgx.ErrNoRows {
		return nil, &models.GiveawayClosedError{GiveawayID: id}
	}
	if err != nil {
		return nil, fmt.Errorf("failed to mark giveaway %d drawn: %w", id, err)
	}

	return giveaway, nil
}

// GetNextCloseTime returns the soonest close time among open giveaways, or
// nil when there is none
func (r *GiveawayRepository) GetNextCloseTime(ctx context.Context) (*time.Time, error) {
	query := `SELECT MIN(close_time) FROM giveaways WHERE state = 'open'`

	var closeTime *time.Time
	if err := r.q.QueryRow(ctx, query).Scan(&closeTime); err != nil {
		return nil, fmt.Errorf("failed to get next close time: %w", err)
	}

	return closeTime, nil
}

// GetDueGiveaways returns open giveaways whose close time has passed
func (r *GiveawayRepository) GetDueGiveaways(ctx context.Context, now time.Time) ([]*models.Giveaway, error) {
	query := `
		SELECT ` + giveawayColumns + `
		FROM giveaways
		WHERE state = 'open' AND close_time <= $1
		ORDER BY close_time
	`

	rows, err := r.q.Query(ctx, query, now)
	if err != nil {
		return nil, fmt.Errorf("failed to get due giveaways: %w", err)
	}
	defer rows.Close()

	var giveaways []*models.Giveaway
	for rows.Next() {
		giveaway, err := scanGiveaway(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan giveaway: %w", err)
		}
		giveaways = append(giveaways, giveaway)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate giveaways: %w", err)
	}

	return giveaways, nil
}
