package service

import (
	"context"

	"housie/events"
	"housie/models"
	"housie/ticket"

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

func (m *MockUserRepository) Create(ctx context.Context, discordID int64, username string, initialBalance int64) (*models.User, error) {
	args := m.Called(ctx, discordID, username, initialBalance)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.User), args.Error(1)
}

func (m *MockUserRepository) DeductBalance(ctx context.Context, discordID int64, amount int64) (int64, error) {
	args := m.Called(ctx, discordID, amount)
	return args.Get(0).(int64), args.Error(1)
}

// MockBalanceHistoryRepository is a mock implementation of BalanceHistoryRepository
type MockBalanceHistoryRepository struct {
	mock.Mock
}

func (m *MockBalanceHistoryRepository) Record(ctx context.Context, history *models.BalanceHistory) error {
	args := m.Called(ctx, history)
	return args.Error(0)
}

func (m *MockBalanceHistoryRepository) GetByUser(ctx context.Context, discordID int64, limit int) ([]*models.BalanceHistory, error) {
	args := m.Called(ctx, discordID, limit)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*models.BalanceHistory), args.Error(1)
}

// MockHousieTicketRepository is a mock implementation of HousieTicketRepository
type MockHousieTicketRepository struct {
	mock.Mock
}

func (m *MockHousieTicketRepository) Create(ctx context.Context, t *models.HousieTicket) error {
	args := m.Called(ctx, t)
	return args.Error(0)
}

func (m *MockHousieTicketRepository) GetByID(ctx context.Context, id int64) (*models.HousieTicket, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.HousieTicket), args.Error(1)
}

func (m *MockHousieTicketRepository) GetByUser(ctx context.Context, discordID int64, limit int) ([]*models.HousieTicket, error) {
	args := m.Called(ctx, discordID, limit)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*models.HousieTicket), args.Error(1)
}

func (m *MockHousieTicketRepository) ListAfter(ctx context.Context, afterID int64, limit int) ([]*models.HousieTicket, error) {
	args := m.Called(ctx, afterID, limit)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*models.HousieTicket), args.Error(1)
}

func (m *MockHousieTicketRepository) UpdateNumbers(ctx context.Context, id int64, numbers []int) error {
	args := m.Called(ctx, id, numbers)
	return args.Error(0)
}

func (m *MockHousieTicketRepository) CountAll(ctx context.Context) (int64, error) {
	args := m.Called(ctx)
	return args.Get(0).(int64), args.Error(1)
}

// MockTicketRepairRunRepository is a mock implementation of TicketRepairRunRepository
type MockTicketRepairRunRepository struct {
	mock.Mock
}

func (m *MockTicketRepairRunRepository) Create(ctx context.Context, run *models.TicketRepairRun) error {
	args := m.Called(ctx, run)
	return args.Error(0)
}

func (m *MockTicketRepairRunRepository) GetLatest(ctx context.Context) (*models.TicketRepairRun, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.TicketRepairRun), args.Error(1)
}

// MockEventPublisher is a mock implementation of EventPublisher
type MockEventPublisher struct {
	mock.Mock
}

func (m *MockEventPublisher) Publish(event events.Event) {
	m.Called(event)
}

type discardPublisher struct{}

func (discardPublisher) Publish(events.Event) {}

// MockUnitOfWork is a mock implementation of UnitOfWork. Transaction calls
// go through testify; repository accessors return what SetRepositories set.
type MockUnitOfWork struct {
	mock.Mock
	userRepo           UserRepository
	balanceHistoryRepo BalanceHistoryRepository
	ticketRepo         HousieTicketRepository
	repairRunRepo      TicketRepairRunRepository
	eventBus           EventPublisher
}

// SetRepositories wires the repositories returned by the accessors
func (m *MockUnitOfWork) SetRepositories(userRepo UserRepository, balanceHistoryRepo BalanceHistoryRepository, ticketRepo HousieTicketRepository, repairRunRepo TicketRepairRunRepository) {
	m.userRepo = userRepo
	m.balanceHistoryRepo = balanceHistoryRepo
	m.ticketRepo = ticketRepo
	m.repairRunRepo = repairRunRepo
}

// SetEventBus replaces the default publisher, which drops every event
func (m *MockUnitOfWork) SetEventBus(publisher EventPublisher) {
	m.eventBus = publisher
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

func (m *MockUnitOfWork) BalanceHistoryRepository() BalanceHistoryRepository {
	return m.balanceHistoryRepo
}

func (m *MockUnitOfWork) HousieTicketRepository() HousieTicketRepository {
	return m.ticketRepo
}

func (m *MockUnitOfWork) TicketRepairRunRepository() TicketRepairRunRepository {
	return m.repairRunRepo
}

func (m *MockUnitOfWork) EventBus() EventPublisher {
	if m.eventBus == nil {
		return discardPublisher{}
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

// MockTicketGenerator is a mock implementation of TicketGenerator
type MockTicketGenerator struct {
	mock.Mock
}

func (m *MockTicketGenerator) Generate() ticket.Ticket {
	args := m.Called()
	return args.Get(0).(ticket.Ticket)
}

func (m *MockTicketGenerator) Reconstruct(numbers []int) (ticket.Ticket, bool) {
	args := m.Called(numbers)
	return args.Get(0).(ticket.Ticket), args.Bool(1)
}
