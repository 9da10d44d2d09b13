// Package mocks provides testify mocks for the core ports.
package mocks

import (
	"context"

	"github.com/stretchr/testify/mock"

	"github.com/gauravasodariya/crux-finance/internal/core/domain"
	"github.com/gauravasodariya/crux-finance/internal/core/ports"
)

// MockTicketRepository is a mock implementation of ports.TicketRepository
type MockTicketRepository struct {
	mock.Mock
}

func NewMockTicketRepository() *MockTicketRepository {
	return &MockTicketRepository{}
}

func (m *MockTicketRepository) Create(ctx context.Context, ticket *domain.Ticket) (*domain.Ticket, error) {
	args := m.Called(ctx, ticket)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Ticket), args.Error(1)
}

func (m *MockTicketRepository) Get(ctx context.Context, id string) (*domain.Ticket, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Ticket), args.Error(1)
}

func (m *MockTicketRepository) List(ctx context.Context) ([]*domain.Ticket, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*domain.Ticket), args.Error(1)
}

func (m *MockTicketRepository) AppendMessage(ctx context.Context, ticketID string, msg domain.Message) (*domain.Ticket, error) {
	args := m.Called(ctx, ticketID, msg)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Ticket), args.Error(1)
}

func (m *MockTicketRepository) Update(ctx context.Context, ticketID string, patch ports.TicketPatch) (*domain.Ticket, error) {
	args := m.Called(ctx, ticketID, patch)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Ticket), args.Error(1)
}

func (m *MockTicketRepository) Mutate(ctx context.Context, ticketID string, fn ports.Mutator) (*domain.Ticket, error) {
	args := m.Called(ctx, ticketID, fn)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Ticket), args.Error(1)
}

// MockDirectoryRepository is a mock implementation of ports.DirectoryRepository
type MockDirectoryRepository struct {
	mock.Mock
}

func NewMockDirectoryRepository() *MockDirectoryRepository {
	return &MockDirectoryRepository{}
}

func (m *MockDirectoryRepository) GetCustomer(ctx context.Context, id string) (*domain.Customer, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Customer), args.Error(1)
}

func (m *MockDirectoryRepository) GetCustomerByPhone(ctx context.Context, phone string) (*domain.Customer, error) {
	args := m.Called(ctx, phone)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Customer), args.Error(1)
}

func (m *MockDirectoryRepository) ListCustomers(ctx context.Context) ([]*domain.Customer, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*domain.Customer), args.Error(1)
}

func (m *MockDirectoryRepository) GetAgent(ctx context.Context, username string) (*domain.Agent, error) {
	args := m.Called(ctx, username)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Agent), args.Error(1)
}

func (m *MockDirectoryRepository) ListAgents(ctx context.Context) ([]*domain.Agent, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*domain.Agent), args.Error(1)
}

// MockStateStore is a mock implementation of ports.StateStore
type MockStateStore struct {
	mock.Mock
}

func NewMockStateStore() *MockStateStore {
	return &MockStateStore{}
}

func (m *MockStateStore) Save(ctx context.Context, key string, value any) error {
	args := m.Called(ctx, key, value)
	return args.Error(0)
}

func (m *MockStateStore) Load(ctx context.Context, key string, dest any) error {
	args := m.Called(ctx, key, dest)
	return args.Error(0)
}

func (m *MockStateStore) Remove(ctx context.Context, key string) error {
	args := m.Called(ctx, key)
	return args.Error(0)
}

// MockNotificationService is a mock implementation of ports.NotificationService
type MockNotificationService struct {
	mock.Mock
}

func NewMockNotificationService() *MockNotificationService {
	return &MockNotificationService{}
}

func (m *MockNotificationService) Emit(agent, message string, kind domain.NotificationKind) {
	m.Called(agent, message, kind)
}

func (m *MockNotificationService) Active(agent string) []domain.Notification {
	args := m.Called(agent)
	if args.Get(0) == nil {
		return nil
	}
	return args.Get(0).([]domain.Notification)
}

func (m *MockNotificationService) ObserveTicket(ticket *domain.Ticket) {
	m.Called(ticket)
}

func (m *MockNotificationService) StartWatch(agent string) {
	m.Called(agent)
}

func (m *MockNotificationService) StopWatch(agent string) {
	m.Called(agent)
}

func (m *MockNotificationService) SetSoundEnabled(agent string, enabled bool) {
	m.Called(agent, enabled)
}

// MockEventBroadcaster is a mock implementation of ports.EventBroadcaster
type MockEventBroadcaster struct {
	mock.Mock
}

func NewMockEventBroadcaster() *MockEventBroadcaster {
	return &MockEventBroadcaster{}
}

func (m *MockEventBroadcaster) Broadcast(event domain.Event) error {
	args := m.Called(event)
	return args.Error(0)
}

func (m *MockEventBroadcaster) SendToUser(actorID string, event domain.Event) {
	m.Called(actorID, event)
}

// MockChatService is a mock implementation of ports.ChatService
type MockChatService struct {
	mock.Mock
}

func NewMockChatService() *MockChatService {
	return &MockChatService{}
}

func (m *MockChatService) StartConversation(ctx context.Context, customerID string) (*domain.Ticket, error) {
	args := m.Called(ctx, customerID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Ticket), args.Error(1)
}

func (m *MockChatService) HandleMessage(ctx context.Context, ticketID, customerID, content string) (*domain.Ticket, error) {
	args := m.Called(ctx, ticketID, customerID, content)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Ticket), args.Error(1)
}

func (m *MockChatService) CancelPendingForCustomer(ctx context.Context, customerID string) {
	m.Called(ctx, customerID)
}

// MockTokenIssuer is a mock for the login token mint.
type MockTokenIssuer struct {
	mock.Mock
}

func NewMockTokenIssuer() *MockTokenIssuer {
	return &MockTokenIssuer{}
}

func (m *MockTokenIssuer) Issue(actorID string, userType domain.UserType) (string, error) {
	args := m.Called(actorID, userType)
	return args.String(0), args.Error(1)
}
