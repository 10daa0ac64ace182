package service

import (
	"context"
	"time"

	"raffler/events"
	"raffler/models"

	"github.com/stretchr/testify/mock"
)

// MockUserRepository is a mock implementation of UserRepository
type MockUserRepository struct {
	mock.Mock
}

func (m *MockUserRepository) GetByDiscordID(ctx context.Context, discordID int64) (*models.User, error) {
	args := m.Called(ctx, discordID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.User), args.Error(1)
}

func (m *MockUserRepository) Create(ctx context.Context, discordID int64, username string, initialReputation int64) (*models.User, error) {
	args := m.Called(ctx, discordID, username, initialReputation)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.User), args.Error(1)
}

func (m *MockUserRepository) Debit(ctx context.Context, discordID int64, amount int64) (int64, error) {
	args := m.Called(ctx, discordID, amount)
	return args.Get(0).(int64), args.Error(1)
}

func (m *MockUserRepository) Credit(ctx context.Context, discordID int64, amount int64) (int64, error) {
	args := m.Called(ctx, discordID, amount)
	return args.Get(0).(int64), args.Error(1)
}

func (m *MockUserRepository) SetAlertsEnabled(ctx context.Context, discordID int64, enabled bool) error {
	args := m.Called(ctx, discordID, enabled)
	return args.Error(0)
}

func (m *MockUserRepository) GetAlertSubscribers(ctx context.Context) ([]*models.User, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*models.User), args.Error(1)
}

// MockGiveawayRepository is a mock implementation of GiveawayRepository
type MockGiveawayRepository struct {
	mock.Mock
}

func (m *MockGiveawayRepository) Create(ctx context.Context, closeTime time.Time, winnerCount int) (*models.Giveaway, error) {
	args := m.Called(ctx, closeTime, winnerCount)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.Giveaway), args.Error(1)
}

func (m *MockGiveawayRepository) GetByID(ctx context.Context, id int64) (*models.Giveaway, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.Giveaway), args.Error(1)
}

func (m *MockGiveawayRepository) GetCurrentOpen(ctx context.Context) (*models.Giveaway, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.Giveaway), args.Error(1)
}

func (m *MockGiveawayRepository) IncrementPool(ctx context.Context, id int64, amount int64) (int64, error) {
	args := m.Called(ctx, id, amount)
	return args.Get(0).(int64), args.Error(1)
}

func (m *MockGiveawayRepository) MarkDrawn(ctx context.Context, id int64) (*models.Giveaway, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.Giveaway), args.Error(1)
}

func (m *MockGiveawayRepository) GetNextCloseTime(ctx context.Context) (*time.Time, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*time.Time), args.Error(1)
}

func (m *MockGiveawayRepository) GetDueGiveaways(ctx context.Context, now time.Time) ([]*models.Giveaway, error) {
	args := m.Called(ctx, now)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*models.Giveaway), args.Error(1)
}

// MockBidRepository is a mock implementation of BidRepository
type MockBidRepository struct {
	mock.Mock
}

func (m *MockBidRepository) AddToBid(ctx context.Context, giveawayID, discordID int64, amount int64) (int64, error) {
	args := m.Called(ctx, giveawayID, discordID, amount)
	return args.Get(0).(int64), args.Error(1)
}

func (m *MockBidRepository) GetUserBid(ctx context.Context, giveawayID, discordID int64) (int64, error) {
	args := m.Called(ctx, giveawayID, discordID)
	return args.Get(0).(int64), args.Error(1)
}

func (m *MockBidRepository) GetByGiveaway(ctx context.Context, giveawayID int64) ([]*models.GiveawayBid, error) {
	args := m.Called(ctx, giveawayID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*models.GiveawayBid), args.Error(1)
}

func (m *MockBidRepository) CountEntrants(ctx context.Context, giveawayID int64) (int, error) {
	args := m.Called(ctx, giveawayID)
	return args.Get(0).(int), args.Error(1)
}

// MockWinRecordRepository is a mock implementation of WinRecordRepository
type MockWinRecordRepository struct {
	mock.Mock
}

func (m *MockWinRecordRepository) Get(ctx context.Context, discordID int64) (*models.WinRecord, error) {
	args := m.Called(ctx, discordID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.WinRecord), args.Error(1)
}

func (m *MockWinRecordRepository) ResetExpired(ctx context.Context, discordID int64, windowStart time.Time) error {
	args := m.Called(ctx, discordID, windowStart)
	return args.Error(0)
}

func (m *MockWinRecordRepository) IncrementWins(ctx context.Context, discordID int64, windowStart time.Time, winCap int) (int, error) {
	args := m.Called(ctx, discordID, windowStart, winCap)
	return args.Get(0).(int), args.Error(1)
}

// MockReputationHistoryRepository is a mock implementation of ReputationHistoryRepository
type MockReputationHistoryRepository struct {
	mock.Mock
}

func (m *MockReputationHistoryRepository) Record(ctx context.Context, history *models.ReputationHistory) error {
	args := m.Called(ctx, history)
	return args.Error(0)
}

func (m *MockReputationHistoryRepository) GetByUser(ctx context.Context, discordID int64, limit int) ([]*models.ReputationHistory, error) {
	args := m.Called(ctx, discordID, limit)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*models.ReputationHistory), args.Error(1)
}

// MockEventPublisher is a mock implementation of EventPublisher for testing
type MockEventPublisher struct {
	mock.Mock
}

func (m *MockEventPublisher) Publish(event events.Event) {
	m.Called(event)
}

// noopPublisher swallows events so tests that don't care about them don't
// have to set expectations
type noopPublisher struct{}

func (noopPublisher) Publish(event events.Event) {}

// MockUnitOfWork is a mock implementation of UnitOfWork. Repository getters
// return whatever SetRepositories installed rather than going through
// testify, since tests always want the same instance back.
type MockUnitOfWork struct {
	mock.Mock

	userRepo      UserRepository
	giveawayRepo  GiveawayRepository
	bidRepo       BidRepository
	winRecordRepo WinRecordRepository
	historyRepo   ReputationHistoryRepository
	eventBus      EventPublisher
}

// SetRepositories installs the repositories the getters hand out. Nil is fine
// for repositories the code under test never touches.
func (m *MockUnitOfWork) SetRepositories(
	userRepo UserRepository,
	giveawayRepo GiveawayRepository,
	bidRepo BidRepository,
	winRecordRepo WinRecordRepository,
	historyRepo ReputationHistoryRepository,
) {
	m.userRepo = userRepo
	m.giveawayRepo = giveawayRepo
	m.bidRepo = bidRepo
	m.winRecordRepo = winRecordRepo
	m.historyRepo = historyRepo
}

// SetEventBus installs an event publisher; without one events are discarded
func (m *MockUnitOfWork) SetEventBus(bus EventPublisher) {
	m.eventBus = bus
}

func (m *MockUnitOfWork) Begin(ctx context.Context) error {
	args := m.Called(ctx)
	return args.Error(0)
}

func (m *MockUnitOfWork) Commit() error {
	args := m.Called()
	return args.Error(0)
}

func (m *MockUnitOfWork) Rollback() error {
	args := m.Called()
	return args.Error(0)
}

func (m *MockUnitOfWork) UserRepository() UserRepository {
	return m.userRepo
}

func (m *MockUnitOfWork) GiveawayRepository() GiveawayRepository {
	return m.giveawayRepo
}

func (m *MockUnitOfWork) BidRepository() BidRepository {
	return m.bidRepo
}

func (m *MockUnitOfWork) WinRecordRepository() WinRecordRepository {
	return m.winRecordRepo
}

func (m *MockUnitOfWork) ReputationHistoryRepository() ReputationHistoryRepository {
	return m.historyRepo
}

func (m *MockUnitOfWork) EventBus() EventPublisher {
	if m.eventBus == nil {
		return noopPublisher{}
	}
	return m.eventBus
}

// MockUnitOfWorkFactory is a mock implementation of UnitOfWorkFactory
type MockUnitOfWorkFactory struct {
	mock.Mock
}

func (m *MockUnitOfWorkFactory) Create() UnitOfWork {
	args := m.Called()
	return args.Get(0).(UnitOfWork)
}
