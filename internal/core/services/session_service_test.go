package services

import (
	"context"
	"log/slog"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/gauravasodariya/crux-finance/internal/core/domain"
	apperrors "github.com/gauravasodariya/crux-finance/internal/core/errors"
	"github.com/gauravasodariya/crux-finance/internal/core/mocks"
	"github.com/gauravasodariya/crux-finance/internal/core/ports"
)

type sessionServiceFixture struct {
	svc       *SessionService
	directory *mocks.MockDirectoryRepository
	state     *mocks.MockStateStore
	notifier  *mocks.MockNotificationService
	chat      *mocks.MockChatService
	tokens    *mocks.MockTokenIssuer
}

func newSessionServiceFixture() *sessionServiceFixture {
	f := &sessionServiceFixture{
		directory: mocks.NewMockDirectoryRepository(),
		state:     mocks.NewMockStateStore(),
		notifier:  mocks.NewMockNotificationService(),
		chat:      mocks.NewMockChatService(),
		tokens:    mocks.NewMockTokenIssuer(),
	}
	f.state.On("Save", mock.Anything, mock.Anything, mock.Anything).Return(nil).Maybe()
	f.state.On("Remove", mock.Anything, mock.Anything).Return(nil).Maybe()
	f.tokens.On("Issue", mock.Anything, mock.Anything).Return("token-123", nil).Maybe()

	f.svc = NewSessionService(f.directory, f.state, f.notifier, f.chat, f.tokens, slog.Default())
	return f
}

func (f *sessionServiceFixture) loginAgent(t *testing.T) *domain.Session {
	t.Helper()
	hash, err := domain.HashPassword("agent123")
	require.NoError(t, err)
	f.directory.On("GetAgent", mock.Anything, "amit.kumar").Return(
		&domain.Agent{Username: "amit.kumar", Name: "Amit Kumar", HashedPassword: hash}, nil)
	f.notifier.On("StartWatch", "amit.kumar")

	session, token, err := f.svc.LoginAgent(context.Background(), "amit.kumar", "agent123")
	require.NoError(t, err)
	require.Equal(t, "token-123", token)
	return session
}

func TestSessionService_LoginCustomer(t *testing.T) {
	f := newSessionServiceFixture()
	f.directory.On("GetCustomerByPhone", mock.Anything, "8799300210").Return(
		&domain.Customer{ID: "C001", Name: "Gaurav Asodariya", Phone: "8799300210"}, nil)

	session, token, err := f.svc.LoginCustomer(context.Background(), "8799300210")
	require.NoError(t, err)

	assert.Equal(t, "token-123", token)
	assert.Equal(t, domain.UserTypeCustomer, session.UserType)
	assert.Equal(t, "C001", session.ActorID())

	f.state.AssertCalled(t, "Save", mock.Anything, ports.StateKeyCurrentUser, "C001")
	f.state.AssertCalled(t, "Save", mock.Anything, ports.StateKeyUserType, domain.UserTypeCustomer)

	got, err := f.svc.Get("C001")
	require.NoError(t, err)
	assert.Same(t, session, got)
}

func TestSessionService_LoginCustomer_UnknownPhoneMasked(t *testing.T) {
	f := newSessionServiceFixture()
	f.directory.On("GetCustomerByPhone", mock.Anything, "0000000000").Return(nil, apperrors.ErrCustomerNotFound)

	// A lookup miss must look exactly like bad credentials.
	_, _, err := f.svc.LoginCustomer(context.Background(), "0000000000")
	assert.ErrorIs(t, err, apperrors.ErrInvalidCredentials)
}

func TestSessionService_LoginAgent(t *testing.T) {
	f := newSessionServiceFixture()

	session := f.loginAgent(t)

	assert.Equal(t, domain.UserTypeAgent, session.UserType)
	assert.True(t, session.SoundEnabled)
	f.notifier.AssertCalled(t, "StartWatch", "amit.kumar")
}

func TestSessionService_LoginAgent_WrongPassword(t *testing.T) {
	f := newSessionServiceFixture()
	hash, err := domain.HashPassword("agent123")
	require.NoError(t, err)
	f.directory.On("GetAgent", mock.Anything, "amit.kumar").Return(
		&domain.Agent{Username: "amit.kumar", HashedPassword: hash}, nil)

	_, _, err = f.svc.LoginAgent(context.Background(), "amit.kumar", "nope")
	assert.ErrorIs(t, err, apperrors.ErrInvalidCredentials)

	_, getErr := f.svc.Get("amit.kumar")
	assert.ErrorIs(t, getErr, apperrors.ErrSessionNotFound)
}

func TestSessionService_LoginAgent_UnknownUser(t *testing.T) {
	f := newSessionServiceFixture()
	f.directory.On("GetAgent", mock.Anything, "nobody").Return(nil, apperrors.ErrAgentNotFound)

	_, _, err := f.svc.LoginAgent(context.Background(), "nobody", "agent123")
	assert.ErrorIs(t, err, apperrors.ErrInvalidCredentials)
}

func TestSessionService_SetActiveTicket(t *testing.T) {
	f := newSessionServiceFixture()
	session := f.loginAgent(t)

	require.NoError(t, f.svc.SetActiveTicket(context.Background(), "amit.kumar", "TKT-1"))
	assert.Equal(t, "TKT-1", session.ActiveTicketID)

	err := f.svc.SetActiveTicket(context.Background(), "ghost", "TKT-1")
	assert.ErrorIs(t, err, apperrors.ErrSessionNotFound)
}

func TestSessionService_SetSoundEnabled_ForwardsToNotifier(t *testing.T) {
	f := newSessionServiceFixture()
	session := f.loginAgent(t)
	f.notifier.On("SetSoundEnabled", "amit.kumar", false)

	require.NoError(t, f.svc.SetSoundEnabled(context.Background(), "amit.kumar", false))

	assert.False(t, session.SoundEnabled)
	f.notifier.AssertCalled(t, "SetSoundEnabled", "amit.kumar", false)
}

func TestSessionService_Logout_Agent(t *testing.T) {
	f := newSessionServiceFixture()
	f.loginAgent(t)
	f.notifier.On("StopWatch", "amit.kumar")

	require.NoError(t, f.svc.Logout(context.Background(), "amit.kumar"))

	f.notifier.AssertCalled(t, "StopWatch", "amit.kumar")
	f.state.AssertCalled(t, "Remove", mock.Anything, ports.StateKeyCurrentUser)

	_, err := f.svc.Get("amit.kumar")
	assert.ErrorIs(t, err, apperrors.ErrSessionNotFound)
}

func TestSessionService_Logout_CustomerCancelsPendingBotReply(t *testing.T) {
	f := newSessionServiceFixture()
	f.directory.On("GetCustomerByPhone", mock.Anything, "8799300210").Return(
		&domain.Customer{ID: "C001", Phone: "8799300210"}, nil)
	f.chat.On("CancelPendingForCustomer", mock.Anything, "C001")

	_, _, err := f.svc.LoginCustomer(context.Background(), "8799300210")
	require.NoError(t, err)
	require.NoError(t, f.svc.SetActiveTicket(context.Background(), "C001", "TKT-1"))

	require.NoError(t, f.svc.Logout(context.Background(), "C001"))
	f.chat.AssertCalled(t, "CancelPendingForCustomer", mock.Anything, "C001")
}

func TestSessionService_Logout_CustomerWithoutActiveTicketStillCancels(t *testing.T) {
	f := newSessionServiceFixture()
	f.directory.On("GetCustomerByPhone", mock.Anything, "8799300210").Return(
		&domain.Customer{ID: "C001", Phone: "8799300210"}, nil)
	f.chat.On("CancelPendingForCustomer", mock.Anything, "C001")

	// The customer never selects a conversation, so the session carries no
	// active ticket. Cancellation must run regardless.
	_, _, err := f.svc.LoginCustomer(context.Background(), "8799300210")
	require.NoError(t, err)

	require.NoError(t, f.svc.Logout(context.Background(), "C001"))
	f.chat.AssertCalled(t, "CancelPendingForCustomer", mock.Anything, "C001")
}

func TestSessionService_Logout_UnknownActor(t *testing.T) {
	f := newSessionServiceFixture()
	assert.ErrorIs(t, f.svc.Logout(context.Background(), "ghost"), apperrors.ErrSessionNotFound)
}
