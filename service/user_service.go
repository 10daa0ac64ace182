package service

import (
	"context"
	"fmt"

	"raffler/config"
	"raffler/models"
)

// userService implements the UserService interface
type userService struct {
	uowFactory UnitOfWorkFactory
	cfg        *config.Config
}

// NewUserService creates a new user service
func NewUserService(uowFactory UnitOfWorkFactory, cfg *config.Config) UserService {
	return &userService{
		uowFactory: uowFactory,
		cfg:        cfg,
	}
}

// GetOrCreateUser retrieves an existing user or creates a new one with the
// configured starting reputation
func (s *userService) GetOrCreateUser(ctx context.Context, discordID int64, username string) (*models.User, error) {
	uow := s.uowFactory.Create()
	if err := uow.Begin(ctx); err != nil {
		return nil, fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer uow.Rollback() // No-op if already committed

	user, err := uow.UserRepository().GetByDiscordID(ctx, discordID)
	if err != nil {
		return nil, fmt.Errorf("failed to check existing user: %w", err)
	}

	if user == nil {
		// Database unique constraint on discord_id prevents duplicate users
		user, err = uow.UserRepository().Create(ctx, discordID, username, s.cfg.StartingRep)
		if err != nil {
			return nil, fmt.Errorf("failed to create user: %w", err)
		}

		history := &models.ReputationHistory{
			DiscordID:       discordID,
			BalanceBefore:   0,
			BalanceAfter:    s.cfg.StartingRep,
			ChangeAmount:    s.cfg.StartingRep,
			TransactionType: models.TransactionTypeInitial,
			TransactionMetadata: map[string]any{
				"username": username,
			},
		}
		if err := RecordReputationChange(ctx, uow, history); err != nil {
			return nil, fmt.Errorf("failed to record initial reputation: %w", err)
		}
	}

	if err := uow.Commit(); err != nil {
		return nil, fmt.Errorf("failed to commit transaction: %w", err)
	}

	return user, nil
}

// AdjustReputation credits (positive amount) or debits (negative amount) a
// user's reputation on behalf of an administrator
func (s *userService) AdjustReputation(ctx context.Context, discordID int64, amount int64, adminID int64) (int64, error) {
	if amount == 0 {
		return 0, fmt.Errorf("adjustment amount must be non-zero")
	}

	uow := s.uowFactory.Create()
	if err := uow.Begin(ctx); err != nil {
		return 0, fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer uow.Rollback()

	var newBalance int64
	var err error
	transactionType := models.TransactionTypeAdminAdd
	if amount > 0 {
		newBalance, err = uow.UserRepository().Credit(ctx, discordID, amount)
	} else {
		transactionType = models.TransactionTypeAdminRemove
		newBalance, err = uow.UserRepository().Debit(ctx, discordID, -amount)
	}
	if err != nil {
		return 0, err
	}

	history := &models.ReputationHistory{
		DiscordID:       discordID,
		BalanceBefore:   newBalance - amount,
		BalanceAfter:    newBalance,
		ChangeAmount:    amount,
		TransactionType: transactionType,
		TransactionMetadata: map[string]any{
			"admin_id": adminID,
		},
	}
	if err := RecordReputationChange(ctx, uow, history); err != nil {
		return 0, fmt.Errorf("failed to record reputation change: %w", err)
	}

	if err := uow.Commit(); err != nil {
		return 0, fmt.Errorf("failed to commit transaction: %w", err)
	}

	return newBalance, nil
}

// SetAlertSubscription toggles the user's giveaway alert subscription
func (s *userService) SetAlertSubscription(ctx context.Context, discordID int64, enabled bool) error {
	uow := s.uowFactory.Create()
	if err := uow.Begin(ctx); err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer uow.Rollback()

	if err := uow.UserRepository().SetAlertsEnabled(ctx, discordID, enabled); err != nil {
		return err
	}

	if err := uow.Commit(); err != nil {
		return fmt.Errorf("failed to commit transaction: %w", err)
	}

	return nil
}

// GetAlertSubscribers returns all users who opted into giveaway alerts
func (s *userService) GetAlertSubscribers(ctx context.Context) ([]*models.User, error) {
	uow := s.uowFactory.Create()
	if err := uow.Begin(ctx); err != nil {
		return nil, fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer uow.Rollback()

	return uow.UserRepository().GetAlertSubscribers(ctx)
}
