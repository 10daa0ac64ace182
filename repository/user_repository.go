package repository

import (
	"context"
	"fmt"

	"raffler/database"
	"raffler/models"

	"github.com/jackc/pgx/v5"
)

// UserRepository implements the UserRepository interface. It is the
// reputation ledger: every debit and credit goes through it.
type UserRepository struct {
	q queryable
}

// NewUserRepository creates a new user repository
func NewUserRepository(db *database.DB) *UserRepository {
	return &UserRepository{q: db.Pool}
}

// newUserRepositoryWithTx creates a new user repository with a transaction
func newUserRepositoryWithTx(tx queryable) *UserRepository {
	return &UserRepository{q: tx}
}

// GetByDiscordID retrieves a user by their Discord ID. Returns nil if the
// user has no reputation record.
func (r *UserRepository) GetByDiscordID(ctx context.Context, discordID int64) (*models.User, error) {
	query := `
		SELECT discord_id, username, reputation, alerts_enabled, created_at, updated_at
		FROM users
		WHERE discord_id = $1
	`

	var user models.User
	err := r.q.QueryRow(ctx, query, discordID).Scan(
		&user.DiscordID,
		&user.Username,
		&user.Reputation,
		&user.AlertsEnabled,
		&user.CreatedAt,
		&user.UpdatedAt,
	)

	if err == pgx.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get user by discord ID %d: %w", discordID, err)
	}

	return &user, nil
}

// Create creates a new user with the initial reputation
func (r *UserRepository) Create(ctx context.Context, discordID int64, username string, initialReputation int64) (*models.User, error) {
	query := `
		INSERT INTO users (discord_id, username, reputation)
		VALUES ($1, $2, $3)
		RETURNING discord_id, username, reputation, alerts_enabled, created_at, updated_at
	`

	var user models.User
	err := r.q.QueryRow(ctx, query, discordID, username, initialReputation).Scan(
		&user.DiscordID,
		&user.Username,
		&user.Reputation,
		&user.AlertsEnabled,
		&user.CreatedAt,
		&user.UpdatedAt,
	)

	if err != nil {
		return nil, fmt.Errorf("failed to create user with discord ID %d: %w", discordID, err)
	}

	return &user, nil
}

// Debit atomically deducts reputation, returning the new balance. The guarded
// update means two concurrent debits can never jointly overdraw: the second
// one sees the already-reduced balance. Fails with NoBalanceError when the
// user has no reputation record and InsufficientFundsError when the balance
// is short.
func (r *UserRepository) Debit(ctx context.Context, discordID int64, amount int64) (int64, error) {
	if amount <= 0 {
		return 0, fmt.Errorf("debit amount must be positive, got %d", amount)
	}

	query := `
		UPDATE users
		SET reputation = reputation - $1, updated_at = NOW()
		WHERE discord_id = $2 AND reputation >= $1
		RETURNING reputation
	`

	var newBalance int64
	err := r.q.QueryRow(ctx, query, amount, discordID).Scan(&newBalance)
	if err == pgx.ErrNoRows {
		// Either the user is unknown or the balance is short
		user, lookupErr := r.GetByDiscordID(ctx, discordID)
		if lookupErr != nil {
			return 0, fmt.Errorf("failed to check user after rejected debit: %w", lookupErr)
		}
		if user == nil {
			return 0, &models.NoBalanceError{DiscordID: discordID}
		}
		return 0, &models.InsufficientFundsError{Requested: amount, Balance: user.Reputation}
	}
	if err != nil {
		return 0, fmt.Errorf("failed to debit user %d: %w", discordID, err)
	}

	return newBalance, nil
}

// Credit atomically adds reputation, returning the new balance
func (r *UserRepository) Credit(ctx context.Context, discordID int64, amount int64) (int64, error) {
	if amount <= 0 {
		return 0, fmt.Errorf("credit amount must be positive, got %d", amount)
	}

	query := `
		UPDATE users
		SET reputation = reputation + $1, updated_at = NOW()
		WHERE discord_id = $2
		RETURNING reputation
	`

	var newBalance int64
	err := r.q.QueryRow(ctx, query, amount, discordID).Scan(&newBalance)
	if err == pgx.ErrNoRows {
		return 0, &models.NoBalanceError{DiscordID: discordID}
	}
	if err != nil {
		return 0, fmt.Errorf("failed to credit user %d: %w", discordID, err)
	}

	return newBalance, nil
}

// SetAlertsEnabled toggles the user's giveaway alert subscription
func (r *UserRepository) SetAlertsEnabled(ctx context.Context, discordID int64, enabled bool) error {
	query := `
		UPDATE users
		SET alerts_enabled = $1, updated_at = NOW()
		WHERE discord_id = $2
	`

	result, err := r.q.Exec(ctx, query, enabled, discordID)
	if err != nil {
		return fmt.Errorf("failed to set alerts for user %d: %w", discordID, err)
	}

	if result.RowsAffected() == 0 {
		return &models.NoBalanceError{DiscordID: discordID}
	}

	return nil
}

// GetAlertSubscribers returns all users who opted into giveaway alerts
func (r *UserRepository) GetAlertSubscribers(ctx context.Context) ([]*models.User, error) {
	query := `
		SELECT discord_id, username, reputation, alerts_enabled, created_at, updated_at
		FROM users
		WHERE alerts_enabled
		ORDER BY discord_id
	`

	rows, err := r.q.Query(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("failed to get alert subscribers: %w", err)
	}
	defer rows.Close()

	var users []*models.User
	for rows.Next() {
		var user models.User
		err := rows.Scan(
			&user.DiscordID,
			&user.Username,
			&user.Reputation,
			&user.AlertsEnabled,
			&user.CreatedAt,
			&user.UpdatedAt,
		)
		if err != nil {
			return nil, fmt.Errorf("failed to scan user: %w", err)
		}
		users = append(users, &user)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate users: %w", err)
	}

	return users, nil
}
