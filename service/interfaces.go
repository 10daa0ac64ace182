package service

import (
	"context"
	"time"

	"raffler/events"
	"raffler/models"
)

// UserRepository defines the interface for user data access. It doubles as
// the reputation ledger: Debit and Credit are the only balance mutations.
type UserRepository interface {
	// GetByDiscordID retrieves a user by their Discord ID, nil if absent
	GetByDiscordID(ctx context.Context, discordID int64) (*models.User, error)

	// Create creates a new user with the initial reputation
	Create(ctx context.Context, discordID int64, username string, initialReputation int64) (*models.User, error)

	// Debit atomically deducts reputation, returning the new balance.
	// Fails with NoBalanceError or InsufficientFundsError.
	Debit(ctx context.Context, discordID int64, amount int64) (int64, error)

	// Credit atomically adds reputation, returning the new balance
	Credit(ctx context.Context, discordID int64, amount int64) (int64, error)

	// SetAlertsEnabled toggles the user's giveaway alert subscription
	SetAlertsEnabled(ctx context.Context, discordID int64, enabled bool) error

	// GetAlertSubscribers returns all users who opted into giveaway alerts
	GetAlertSubscribers(ctx context.Context) ([]*models.User, error)
}

// GiveawayRepository defines the interface for giveaway data access
type GiveawayRepository interface {
	// Create opens a new giveaway with the given scheduled close time
	Create(ctx context.Context, closeTime time.Time, winnerCount int) (*models.Giveaway, error)

	// GetByID retrieves a giveaway by its ID, nil if absent
	GetByID(ctx context.Context, id int64) (*models.Giveaway, error)

	// GetCurrentOpen returns the open giveaway closing soonest, nil if none
	GetCurrentOpen(ctx context.Context) (*models.Giveaway, error)

	// IncrementPool adds to an open giveaway's pool total, returning the new
	// total. Fails with GiveawayClosedError if the giveaway is not open.
	IncrementPool(ctx context.Context, id int64, amount int64) (int64, error)

	// MarkDrawn performs the one-shot open-to-drawn transition.
	// Fails with GiveawayClosedError if it already happened.
	MarkDrawn(ctx context.Context, id int64) (*models.Giveaway, error)

	// GetNextCloseTime returns the soonest close time among open giveaways
	GetNextCloseTime(ctx context.Context) (*time.Time, error)

	// GetDueGiveaways returns open giveaways whose close time has passed
	GetDueGiveaways(ctx context.Context, now time.Time) ([]*models.Giveaway, error)
}

// BidRepository defines the interface for giveaway bid data access
type BidRepository interface {
	// AddToBid increases the user's cumulative entry, returning the new entry
	AddToBid(ctx context.Context, giveawayID, discordID int64, amount int64) (int64, error)

	// GetUserBid returns the user's cumulative entry, zero if none
	GetUserBid(ctx context.Context, giveawayID, discordID int64) (int64, error)

	// GetByGiveaway returns all cumulative entries for a giveaway
	GetByGiveaway(ctx context.Context, giveawayID int64) ([]*models.GiveawayBid, error)

	// CountEntrants returns the number of distinct users with entries
	CountEntrants(ctx context.Context, giveawayID int64) (int, error)
}

// WinRecordRepository defines the interface for monthly win tracking
type WinRecordRepository interface {
	// Get retrieves a user's win record, nil if the user has never won
	Get(ctx context.Context, discordID int64) (*models.WinRecord, error)

	// ResetExpired rolls a stale record forward to windowStart, zeroing the
	// count. Idempotent; a no-op for records already in the window.
	ResetExpired(ctx context.Context, discordID int64, windowStart time.Time) error

	// IncrementWins records a win, returning the new count. Fails with
	// WinCapViolationError when the user is already at the cap.
	IncrementWins(ctx context.Context, discordID int64, windowStart time.Time, cap int) (int, error)
}

// ReputationHistoryRepository defines the interface for reputation audit entries
type ReputationHistoryRepository interface {
	// Record creates a new reputation history entry
	Record(ctx context.Context, history *models.ReputationHistory) error

	// GetByUser returns reputation history for a specific user
	GetByUser(ctx context.Context, discordID int64, limit int) ([]*models.ReputationHistory, error)
}

// UserService defines the interface for user operations
type UserService interface {
	// GetOrCreateUser retrieves an existing user or creates a new one
	GetOrCreateUser(ctx context.Context, discordID int64, username string) (*models.User, error)

	// AdjustReputation credits (positive) or debits (negative) a user's
	// reputation on behalf of an administrator, returning the new balance
	AdjustReputation(ctx context.Context, discordID int64, amount int64, adminID int64) (int64, error)

	// SetAlertSubscription toggles the user's giveaway alert subscription
	SetAlertSubscription(ctx context.Context, discordID int64, enabled bool) error

	// GetAlertSubscribers returns all users who opted into giveaway alerts
	GetAlertSubscribers(ctx context.Context) ([]*models.User, error)
}

// GiveawayService defines the interface for giveaway operations
type GiveawayService interface {
	// PlaceBid converts reputation into giveaway entries for a user
	PlaceBid(ctx context.Context, giveawayID, discordID int64, amount int64) (*models.BidResult, error)

	// CloseGiveaway performs the draw for a giveaway at its close time
	CloseGiveaway(ctx context.Context, giveawayID int64) (*models.DrawResult, error)

	// GetOrCreateCurrentGiveaway returns the open giveaway, creating the next
	// scheduled one if none exists
	GetOrCreateCurrentGiveaway(ctx context.Context) (*models.Giveaway, error)

	// GetEntry returns a user's cumulative entry and chance for a giveaway
	GetEntry(ctx context.Context, giveawayID, discordID int64) (*models.BidResult, error)

	// NextCloseTime returns the next scheduled giveaway close time
	NextCloseTime(ctx context.Context) (*time.Time, error)
}

// EventPublisher defines the interface for publishing events
type EventPublisher interface {
	Publish(event events.Event)
}

// UnitOfWork defines the interface for transactional repository operations
type UnitOfWork interface {
	// Begin starts a new transaction
	Begin(ctx context.Context) error

	// Commit commits the transaction
	Commit() error

	// Rollback rolls back the transaction
	Rollback() error

	// Repository getters
	UserRepository() UserRepository
	GiveawayRepository() GiveawayRepository
	BidRepository() BidRepository
	WinRecordRepository() WinRecordRepository
	ReputationHistoryRepository() ReputationHistoryRepository
	EventBus() EventPublisher
}

// UnitOfWorkFactory defines the interface for creating UnitOfWork instances
type UnitOfWorkFactory interface {
	// Create creates a new UnitOfWork instance
	Create() UnitOfWork
}
