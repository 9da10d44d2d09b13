package services

import (
	"context"
	"log/slog"
	"sync"

	"github.com/gauravasodariya/crux-finance/internal/core/domain"
	apperrors "github.com/gauravasodariya/crux-finance/internal/core/errors"
	"github.com/gauravasodariya/crux-finance/internal/core/ports"
)

// TokenIssuer mints the bearer token handed back on login.
type TokenIssuer interface {
	Issue(actorID string, userType domain.UserType) (string, error)
}

// SessionService authenticates customers and agents and tracks their live
// sessions. Customers identify by registered phone number; agents present a
// password. The current identity is mirrored to the state store so the
// last-seen login survives a restart.
type SessionService struct {
	mu        sync.RWMutex
	sessions  map[string]*domain.Session
	directory ports.DirectoryRepository
	state     ports.StateStore
	notifier  ports.NotificationService
	chat      ports.ChatService
	tokens    TokenIssuer
	logger    *slog.Logger
}

var _ ports.SessionService = (*SessionService)(nil)

// NewSessionService creates a new session service.
func NewSessionService(
	directory ports.DirectoryRepository,
	state ports.StateStore,
	notifier ports.NotificationService,
	chat ports.ChatService,
	tokens TokenIssuer,
	logger *slog.Logger,
) *SessionService {
	return &SessionService{
		sessions:  make(map[string]*domain.Session),
		directory: directory,
		state:     state,
		notifier:  notifier,
		chat:      chat,
		tokens:    tokens,
		logger:    logger.With("component", "sessions"),
	}
}

// LoginCustomer authenticates a customer by registered phone number. An
// unknown phone comes back as invalid credentials, not a lookup miss, so the
// response does not reveal which numbers are registered.
func (s *SessionService) LoginCustomer(ctx context.Context, phone string) (*domain.Session, string, error) {
	customer, err := s.directory.GetCustomerByPhone(ctx, phone)
	if err != nil {
		return nil, "", apperrors.ErrInvalidCredentials
	}

	session := &domain.Session{
		UserType: domain.UserTypeCustomer,
		Customer: customer,
	}
	token, err := s.tokens.Issue(customer.ID, domain.UserTypeCustomer)
	if err != nil {
		return nil, "", err
	}

	s.mu.Lock()
	s.sessions[customer.ID] = session
	s.mu.Unlock()

	s.persistIdentity(ctx, customer.ID, domain.UserTypeCustomer)
	s.logger.Info("customer logged in", "customer_id", customer.ID)
	return session, token, nil
}

// LoginAgent authenticates an agent by username and password.
func (s *SessionService) LoginAgent(ctx context.Context, username, password string) (*domain.Session, string, error) {
	agent, err := s.directory.GetAgent(ctx, username)
	if err != nil {
		return nil, "", apperrors.ErrInvalidCredentials
	}
	if !agent.CheckPassword(password) {
		return nil, "", apperrors.ErrInvalidCredentials
	}

	session := &domain.Session{
		UserType:     domain.UserTypeAgent,
		Agent:        agent,
		SoundEnabled: true,
	}
	token, err := s.tokens.Issue(agent.Username, domain.UserTypeAgent)
	if err != nil {
		return nil, "", err
	}

	s.mu.Lock()
	s.sessions[agent.Username] = session
	s.mu.Unlock()

	s.notifier.StartWatch(agent.Username)
	s.persistIdentity(ctx, agent.Username, domain.UserTypeAgent)
	s.logger.Info("agent logged in", "agent", agent.Username)
	return session, token, nil
}

// Get returns the live session for an actor.
func (s *SessionService) Get(actorID string) (*domain.Session, error) {
	s.mu.RLock()
	session, ok := s.sessions[actorID]
	s.mu.RUnlock()
	if !ok {
		return nil, apperrors.ErrSessionNotFound
	}
	return session, nil
}

// SetActiveTicket records which conversation the actor has open.
func (s *SessionService) SetActiveTicket(ctx context.Context, actorID, ticketID string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	session, ok := s.sessions[actorID]
	if !ok {
		return apperrors.ErrSessionNotFound
	}
	session.ActiveTicketID = ticketID
	return nil
}

// SetSoundEnabled toggles the audible notification cue for an agent session.
func (s *SessionService) SetSoundEnabled(ctx context.Context, actorID string, enabled bool) error {
	s.mu.Lock()
	session, ok := s.sessions[actorID]
	if !ok {
		s.mu.Unlock()
		return apperrors.ErrSessionNotFound
	}
	session.SoundEnabled = enabled
	s.mu.Unlock()

	if session.UserType == domain.UserTypeAgent {
		s.notifier.SetSoundEnabled(actorID, enabled)
	}
	return nil
}

// Logout drops the session. A departing customer's pending bot timers are
// cancelled so no reply lands in an abandoned conversation; a departing
// agent stops receiving notification pushes.
func (s *SessionService) Logout(ctx context.Context, actorID string) error {
	s.mu.Lock()
	session, ok := s.sessions[actorID]
	if ok {
		delete(s.sessions, actorID)
	}
	s.mu.Unlock()
	if !ok {
		return apperrors.ErrSessionNotFound
	}

	switch session.UserType {
	case domain.UserTypeCustomer:
		// Looked up by customer, not by the session's active ticket: a
		// customer who never selected a conversation still has timers armed.
		s.chat.CancelPendingForCustomer(ctx, actorID)
	case domain.UserTypeAgent:
		s.notifier.StopWatch(actorID)
	}

	s.clearIdentity(ctx)
	s.logger.Info("logged out", "actor_id", actorID, "user_type", session.UserType)
	return nil
}

// persistIdentity mirrors the last login to the state store. Best effort.
func (s *SessionService) persistIdentity(ctx context.Context, actorID string, userType domain.UserType) {
	if s.state == nil {
		return
	}
	if err := s.state.Save(ctx, ports.StateKeyCurrentUser, actorID); err != nil {
		s.logger.Warn("failed to persist current user", "error", err)
	}
	if err := s.state.Save(ctx, ports.StateKeyUserType, userType); err != nil {
		s.logger.Warn("failed to persist user type", "error", err)
	}
}

func (s *SessionService) clearIdentity(ctx context.Context) {
	if s.state == nil {
		return
	}
	if err := s.state.Remove(ctx, ports.StateKeyCurrentUser); err != nil {
		s.logger.Warn("failed to clear current user", "error", err)
	}
	if err := s.state.Remove(ctx, ports.StateKeyUserType); err != nil {
		s.logger.Warn("failed to clear user type", "error", err)
	}
}
