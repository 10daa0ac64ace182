package service

import (
	"context"
	"errors"
	"testing"

	"raffler/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
)

func TestUserService_GetOrCreateUser_ExistingUser(t *testing.T) {
	ctx := context.Background()

	mockUoW := new(MockUnitOfWork)
	mockFactory := new(MockUnitOfWorkFactory)
	mockUserRepo := new(MockUserRepository)
	mockHistoryRepo := new(MockReputationHistoryRepository)

	mockUoW.SetRepositories(mockUserRepo, nil, nil, nil, mockHistoryRepo)

	svc := NewUserService(mockFactory, testConfig())

	existingUser := &models.User{
		DiscordID:  123456,
		Username:   "testuser",
		Reputation: 500,
	}

	mockFactory.On("Create").Return(mockUoW)
	mockUoW.On("Begin", ctx).Return(nil)
	mockUoW.On("Commit").Return(nil)
	mockUoW.On("Rollback").Return(nil)

	mockUserRepo.On("GetByDiscordID", ctx, int64(123456)).Return(existingUser, nil)

	user, err := svc.GetOrCreateUser(ctx, 123456, "testuser")

	assert.NoError(t, err)
	assert.Equal(t, existingUser, user)

	mockFactory.AssertExpectations(t)
	mockUserRepo.AssertExpectations(t)
	mockHistoryRepo.AssertNotCalled(t, "Record")
}

func TestUserService_GetOrCreateUser_NewUser(t *testing.T) {
	ctx := context.Background()

	mockUoW := new(MockUnitOfWork)
	mockFactory := new(MockUnitOfWorkFactory)
	mockUserRepo := new(MockUserRepository)
	mockHistoryRepo := new(MockReputationHistoryRepository)

	mockUoW.SetRepositories(mockUserRepo, nil, nil, nil, mockHistoryRepo)

	cfg := testConfig()
	cfg.StartingRep = 100
	svc := NewUserService(mockFactory, cfg)

	newUser := &models.User{
		DiscordID:  123456,
		Username:   "newuser",
		Reputation: 100,
	}

	mockFactory.On("Create").Return(mockUoW)
	mockUoW.On("Begin", ctx).Return(nil)
	mockUoW.On("Commit").Return(nil)
	mockUoW.On("Rollback").Return(nil)

	mockUserRepo.On("GetByDiscordID", ctx, int64(123456)).Return(nil, nil)
	mockUserRepo.On("Create", ctx, int64(123456), "newuser", int64(100)).Return(newUser, nil)

	mockHistoryRepo.On("Record", ctx, mock.MatchedBy(func(h *models.ReputationHistory) bool {
		return h.DiscordID == 123456 &&
			h.BalanceBefore == 0 &&
			h.BalanceAfter == 100 &&
			h.ChangeAmount == 100 &&
			h.TransactionType == models.TransactionTypeInitial
	})).Return(nil)

	user, err := svc.GetOrCreateUser(ctx, 123456, "newuser")

	assert.NoError(t, err)
	assert.Equal(t, newUser, user)

	mockFactory.AssertExpectations(t)
	mockUoW.AssertExpectations(t)
	mockUserRepo.AssertExpectations(t)
	mockHistoryRepo.AssertExpectations(t)
}

func TestUserService_GetOrCreateUser_CreateError(t *testing.T) {
	ctx := context.Background()

	mockUoW := new(MockUnitOfWork)
	mockFactory := new(MockUnitOfWorkFactory)
	mockUserRepo := new(MockUserRepository)

	mockUoW.SetRepositories(mockUserRepo, nil, nil, nil, nil)

	svc := NewUserService(mockFactory, testConfig())

	mockFactory.On("Create").Return(mockUoW)
	mockUoW.On("Begin", ctx).Return(nil)
	mockUoW.On("Rollback").Return(nil)

	mockUserRepo.On("GetByDiscordID", ctx, int64(123456)).Return(nil, nil)
	mockUserRepo.On("Create", ctx, int64(123456), "newuser", int64(0)).
		Return(nil, errors.New("duplicate key"))

	user, err := svc.GetOrCreateUser(ctx, 123456, "newuser")

	assert.Error(t, err)
	assert.Nil(t, user)
	mockUoW.AssertNotCalled(t, "Commit")
}

func TestUserService_AdjustReputation_Credit(t *testing.T) {
	ctx := context.Background()

	mockUoW := new(MockUnitOfWork)
	mockFactory := new(MockUnitOfWorkFactory)
	mockUserRepo := new(MockUserRepository)
	mockHistoryRepo := new(MockReputationHistoryRepository)

	mockUoW.SetRepositories(mockUserRepo, nil, nil, nil, mockHistoryRepo)

	svc := NewUserService(mockFactory, testConfig())

	mockFactory.On("Create").Return(mockUoW)
	mockUoW.On("Begin", ctx).Return(nil)
	mockUoW.On("Commit").Return(nil)
	mockUoW.On("Rollback").Return(nil)

	mockUserRepo.On("Credit", ctx, int64(100), int64(250)).Return(int64(750), nil)

	mockHistoryRepo.On("Record", ctx, mock.MatchedBy(func(h *models.ReputationHistory) bool {
		return h.DiscordID == 100 &&
			h.BalanceBefore == 500 &&
			h.BalanceAfter == 750 &&
			h.ChangeAmount == 250 &&
			h.TransactionType == models.TransactionTypeAdminAdd &&
			h.TransactionMetadata["admin_id"] == int64(42)
	})).Return(nil)

	newBalance, err := svc.AdjustReputation(ctx, 100, 250, 42)

	assert.NoError(t, err)
	assert.Equal(t, int64(750), newBalance)
	mockUserRepo.AssertExpectations(t)
	mockHistoryRepo.AssertExpectations(t)
}

func TestUserService_AdjustReputation_Debit(t *testing.T) {
	ctx := context.Background()

	mockUoW := new(MockUnitOfWork)
	mockFactory := new(MockUnitOfWorkFactory)
	mockUserRepo := new(MockUserRepository)
	mockHistoryRepo := new(MockReputationHistoryRepository)

	mockUoW.SetRepositories(mockUserRepo, nil, nil, nil, mockHistoryRepo)

	svc := NewUserService(mockFactory, testConfig())

	mockFactory.On("Create").Return(mockUoW)
	mockUoW.On("Begin", ctx).Return(nil)
	mockUoW.On("Commit").Return(nil)
	mockUoW.On("Rollback").Return(nil)

	// Negative adjustment debits the absolute amount
	mockUserRepo.On("Debit", ctx, int64(100), int64(250)).Return(int64(250), nil)

	mockHistoryRepo.On("Record", ctx, mock.MatchedBy(func(h *models.ReputationHistory) bool {
		return h.BalanceBefore == 500 &&
			h.BalanceAfter == 250 &&
			h.ChangeAmount == -250 &&
			h.TransactionType == models.TransactionTypeAdminRemove
	})).Return(nil)

	newBalance, err := svc.AdjustReputation(ctx, 100, -250, 42)

	assert.NoError(t, err)
	assert.Equal(t, int64(250), newBalance)
	mockUserRepo.AssertExpectations(t)
}

func TestUserService_AdjustReputation_InsufficientFunds(t *testing.T) {
	ctx := context.Background()

	mockUoW := new(MockUnitOfWork)
	mockFactory := new(MockUnitOfWorkFactory)
	mockUserRepo := new(MockUserRepository)

	mockUoW.SetRepositories(mockUserRepo, nil, nil, nil, nil)

	svc := NewUserService(mockFactory, testConfig())

	mockFactory.On("Create").Return(mockUoW)
	mockUoW.On("Begin", ctx).Return(nil)
	mockUoW.On("Rollback").Return(nil)

	mockUserRepo.On("Debit", ctx, int64(100), int64(1000)).
		Return(int64(0), &models.InsufficientFundsError{Requested: 1000, Balance: 500})

	newBalance, err := svc.AdjustReputation(ctx, 100, -1000, 42)

	assert.Equal(t, int64(0), newBalance)
	var fundsErr *models.InsufficientFundsError
	assert.ErrorAs(t, err, &fundsErr)
	mockUoW.AssertNotCalled(t, "Commit")
}

func TestUserService_AdjustReputation_ZeroAmount(t *testing.T) {
	ctx := context.Background()
	mockFactory := new(MockUnitOfWorkFactory)

	svc := NewUserService(mockFactory, testConfig())

	_, err := svc.AdjustReputation(ctx, 100, 0, 42)

	assert.Error(t, err)
	mockFactory.AssertNotCalled(t, "Create")
}

func TestUserService_SetAlertSubscription(t *testing.T) {
	ctx := context.Background()

	mockUoW := new(MockUnitOfWork)
	mockFactory := new(MockUnitOfWorkFactory)
	mockUserRepo := new(MockUserRepository)

	mockUoW.SetRepositories(mockUserRepo, nil, nil, nil, nil)

	svc := NewUserService(mockFactory, testConfig())

	mockFactory.On("Create").Return(mockUoW)
	mockUoW.On("Begin", ctx).Return(nil)
	mockUoW.On("Commit").Return(nil)
	mockUoW.On("Rollback").Return(nil)

	mockUserRepo.On("SetAlertsEnabled", ctx, int64(100), true).Return(nil)

	err := svc.SetAlertSubscription(ctx, 100, true)

	assert.NoError(t, err)
	mockUserRepo.AssertExpectations(t)
	mockUoW.AssertExpectations(t)
}
