package http

import (
	"bytes"
	"encoding/json"
	"io"
	"log/slog"
	stdhttp "net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	mw "github.com/gauravasodariya/crux-finance/internal/adapters/primary/http/middleware"
	"github.com/gauravasodariya/crux-finance/internal/adapters/secondary/memory"
	"github.com/gauravasodariya/crux-finance/internal/auth"
	"github.com/gauravasodariya/crux-finance/internal/core/domain"
	apperrors "github.com/gauravasodariya/crux-finance/internal/core/errors"
	"github.com/gauravasodariya/crux-finance/internal/core/mocks"
	"github.com/gauravasodariya/crux-finance/internal/core/services"
)

// apiFixture wires the real service layer behind the real router, with the
// in-memory ticket store and a mocked directory. Only the database and the
// websocket transport are substituted; routing, auth middleware, validation
// and error mapping are all exercised end to end.
type apiFixture struct {
	handler  stdhttp.Handler
	tokens   *auth.TokenManager
	repo     *memory.TicketRepository
	notifier *services.NotificationService
}

func newAPIFixture(t *testing.T) *apiFixture {
	t.Helper()

	logger := slog.New(slog.NewTextHandler(io.Discard, nil))

	hash, err := domain.HashPassword("agent123")
	require.NoError(t, err)

	customer := &domain.Customer{
		ID:    "C001",
		Name:  "Gaurav Asodariya",
		Phone: "8799300210",
		Email: "gaurav@example.com",
		Applications: []domain.Application{
			{ID: "APP-15621", Type: "Personal Loan", Amount: 150000, Status: "Under Review"},
		},
	}
	amit := &domain.Agent{Username: "amit.kumar", Name: "Amit Kumar", Status: domain.AgentAvailable, HashedPassword: hash}
	sneha := &domain.Agent{Username: "sneha.singh", Name: "Sneha Singh", Status: domain.AgentAvailable, HashedPassword: hash}

	directory := mocks.NewMockDirectoryRepository()
	directory.On("GetCustomer", mock.Anything, "C001").Return(customer, nil)
	directory.On("GetCustomer", mock.Anything, mock.Anything).Return(nil, apperrors.ErrCustomerNotFound).Maybe()
	directory.On("GetCustomerByPhone", mock.Anything, "8799300210").Return(customer, nil)
	directory.On("GetCustomerByPhone", mock.Anything, mock.Anything).Return(nil, apperrors.ErrCustomerNotFound).Maybe()
	directory.On("GetAgent", mock.Anything, "amit.kumar").Return(amit, nil)
	directory.On("GetAgent", mock.Anything, "sneha.singh").Return(sneha, nil).Maybe()
	directory.On("GetAgent", mock.Anything, mock.Anything).Return(nil, apperrors.ErrAgentNotFound).Maybe()
	directory.On("ListCustomers", mock.Anything).Return([]*domain.Customer{customer}, nil).Maybe()
	directory.On("ListAgents", mock.Anything).Return([]*domain.Agent{amit, sneha}, nil).Maybe()

	broadcaster := mocks.NewMockEventBroadcaster()
	broadcaster.On("Broadcast", mock.Anything).Return(nil).Maybe()
	broadcaster.On("SendToUser", mock.Anything, mock.Anything).Maybe()

	repo := memory.NewTicketRepository(nil, logger)
	scheduler := services.NewScheduler()
	t.Cleanup(func() { scheduler.CancelOwner("notifications") })

	notifier := services.NewNotificationService(scheduler, broadcaster, logger)
	queueService := services.NewQueueService(repo)
	ticketService := services.NewTicketService(repo, directory, notifier, broadcaster, logger)
	chatService := services.NewChatService(repo, directory, notifier, broadcaster, scheduler, 20*time.Millisecond, 20*time.Millisecond, logger)

	tokens := auth.NewTokenManager("test-secret", time.Hour)
	sessionService := services.NewSessionService(directory, nil, notifier, chatService, tokens, logger)

	errorHandler := NewErrorHandler(logger)
	sessionHandler := NewSessionHandler(sessionService, errorHandler, logger)
	chatHandler := NewChatHandler(chatService, errorHandler, logger)
	ticketHandler := NewTicketHandler(ticketService, queueService, errorHandler, logger)
	directoryHandler := NewDirectoryHandler(directory, errorHandler, logger)
	notificationHandler := NewNotificationHandler(notifier, errorHandler, logger)

	r := chi.NewRouter()
	r.Route("/api/v1", func(r chi.Router) {
		r.Route("/auth", sessionHandler.RegisterPublicRoutes)
		r.Group(func(r chi.Router) {
			r.Use(mw.JWTMiddleware(tokens))
			r.Route("/session", sessionHandler.RegisterProtectedRoutes)
			r.Route("/chat", chatHandler.RegisterRoutes)
			r.Route("/tickets", ticketHandler.RegisterRoutes)
			r.Route("/directory", directoryHandler.RegisterRoutes)
			r.Route("/notifications", notificationHandler.RegisterRoutes)
		})
	})

	return &apiFixture{handler: r, tokens: tokens, repo: repo, notifier: notifier}
}

func (f *apiFixture) do(t *testing.T, method, path, token string, body any) *httptest.ResponseRecorder {
	t.Helper()

	var reader io.Reader
	if body != nil {
		payload, err := json.Marshal(body)
		require.NoError(t, err)
		reader = bytes.NewReader(payload)
	}

	req := httptest.NewRequest(method, path, reader)
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}

	rec := httptest.NewRecorder()
	f.handler.ServeHTTP(rec, req)
	return rec
}

func decodeBody[T any](t *testing.T, rec *httptest.ResponseRecorder) T {
	t.Helper()
	var out T
	require.NoError(t, json.NewDecoder(rec.Body).Decode(&out))
	return out
}

func (f *apiFixture) loginAgent(t *testing.T) string {
	t.Helper()
	rec := f.do(t, stdhttp.MethodPost, "/api/v1/auth/agent/login", "", AgentLoginRequest{Username: "amit.kumar", Password: "agent123"})
	require.Equal(t, stdhttp.StatusOK, rec.Code, rec.Body.String())
	return decodeBody[LoginResponse](t, rec).Token
}

func (f *apiFixture) loginCustomer(t *testing.T) string {
	t.Helper()
	rec := f.do(t, stdhttp.MethodPost, "/api/v1/auth/customer/login", "", CustomerLoginRequest{Phone: "8799300210"})
	require.Equal(t, stdhttp.StatusOK, rec.Code, rec.Body.String())
	return decodeBody[LoginResponse](t, rec).Token
}

func (f *apiFixture) createTicket(t *testing.T, token string) *domain.Ticket {
	t.Helper()
	rec := f.do(t, stdhttp.MethodPost, "/api/v1/tickets", token, CreateTicketRequest{
		CustomerID:     "C001",
		Category:       "General Inquiry",
		Priority:       "medium",
		InitialMessage: "Hello, I have a question about my loan",
	})
	require.Equal(t, stdhttp.StatusCreated, rec.Code, rec.Body.String())
	ticket := decodeBody[*domain.Ticket](t, rec)
	return ticket
}

func TestAgentLogin(t *testing.T) {
	f := newAPIFixture(t)

	rec := f.do(t, stdhttp.MethodPost, "/api/v1/auth/agent/login", "", AgentLoginRequest{Username: "amit.kumar", Password: "agent123"})
	require.Equal(t, stdhttp.StatusOK, rec.Code)

	resp := decodeBody[LoginResponse](t, rec)
	require.NotEmpty(t, resp.Token)
	require.NotNil(t, resp.Session)
	assert.Equal(t, domain.UserTypeAgent, resp.Session.UserType)
	assert.Equal(t, "amit.kumar", resp.Session.Agent.Username)
	assert.True(t, resp.Session.SoundEnabled)
	assert.Empty(t, resp.Session.Agent.HashedPassword, "hash must never leave the server")

	claims, err := f.tokens.ValidateToken(resp.Token)
	require.NoError(t, err)
	assert.Equal(t, "amit.kumar", claims.ActorID)
	assert.Equal(t, domain.UserTypeAgent, claims.UserType)
}

func TestAgentLogin_WrongPassword(t *testing.T) {
	f := newAPIFixture(t)

	rec := f.do(t, stdhttp.MethodPost, "/api/v1/auth/agent/login", "", AgentLoginRequest{Username: "amit.kumar", Password: "nope"})
	require.Equal(t, stdhttp.StatusUnauthorized, rec.Code)
	assert.Equal(t, "INVALID_CREDENTIALS", decodeBody[ErrorResponse](t, rec).Code)
}

func TestCustomerLogin(t *testing.T) {
	f := newAPIFixture(t)

	rec := f.do(t, stdhttp.MethodPost, "/api/v1/auth/customer/login", "", CustomerLoginRequest{Phone: "8799300210"})
	require.Equal(t, stdhttp.StatusOK, rec.Code)

	resp := decodeBody[LoginResponse](t, rec)
	assert.Equal(t, domain.UserTypeCustomer, resp.Session.UserType)
	assert.Equal(t, "C001", resp.Session.Customer.ID)
}

func TestCustomerLogin_UnknownPhone(t *testing.T) {
	f := newAPIFixture(t)

	rec := f.do(t, stdhttp.MethodPost, "/api/v1/auth/customer/login", "", CustomerLoginRequest{Phone: "9999999999"})
	require.Equal(t, stdhttp.StatusUnauthorized, rec.Code)
	assert.Equal(t, "INVALID_CREDENTIALS", decodeBody[ErrorResponse](t, rec).Code)
}

func TestCustomerLogin_MalformedPhone(t *testing.T) {
	f := newAPIFixture(t)

	rec := f.do(t, stdhttp.MethodPost, "/api/v1/auth/customer/login", "", CustomerLoginRequest{Phone: "12345"})
	require.Equal(t, stdhttp.StatusUnprocessableEntity, rec.Code)

	resp := decodeBody[ValidationErrorResponse](t, rec)
	assert.Contains(t, resp.Fields, "phone")
}

func TestProtectedRoutes_RequireToken(t *testing.T) {
	f := newAPIFixture(t)

	for _, path := range []string{"/api/v1/tickets", "/api/v1/session", "/api/v1/notifications"} {
		rec := f.do(t, stdhttp.MethodGet, path, "", nil)
		assert.Equal(t, stdhttp.StatusUnauthorized, rec.Code, path)
	}

	rec := f.do(t, stdhttp.MethodGet, "/api/v1/tickets", "not-a-jwt", nil)
	assert.Equal(t, stdhttp.StatusUnauthorized, rec.Code)
}

func TestCreateAndFetchTicket(t *testing.T) {
	f := newAPIFixture(t)
	token := f.loginAgent(t)

	created := f.createTicket(t, token)
	assert.NotEmpty(t, created.ID)
	assert.Equal(t, "amit.kumar", created.AssignedAgent, "creator owns the ticket")
	require.Len(t, created.Messages, 1)
	assert.Equal(t, domain.RoleCustomer, created.Messages[0].SenderRole)

	rec := f.do(t, stdhttp.MethodGet, "/api/v1/tickets/"+created.ID, token, nil)
	require.Equal(t, stdhttp.StatusOK, rec.Code)
	assert.Equal(t, created.ID, decodeBody[*domain.Ticket](t, rec).ID)

	rec = f.do(t, stdhttp.MethodGet, "/api/v1/tickets/TKT-0", token, nil)
	require.Equal(t, stdhttp.StatusNotFound, rec.Code)
	assert.Equal(t, "TICKET_NOT_FOUND", decodeBody[ErrorResponse](t, rec).Code)
}

func TestCreateTicket_UnknownCustomer(t *testing.T) {
	f := newAPIFixture(t)
	token := f.loginAgent(t)

	rec := f.do(t, stdhttp.MethodPost, "/api/v1/tickets", token, CreateTicketRequest{
		CustomerID: "C999",
		Category:   "General Inquiry",
		Priority:   "low",
	})
	require.Equal(t, stdhttp.StatusNotFound, rec.Code)
	assert.Equal(t, "CUSTOMER_NOT_FOUND", decodeBody[ErrorResponse](t, rec).Code)
}

func TestCreateTicket_InvalidPriority(t *testing.T) {
	f := newAPIFixture(t)
	token := f.loginAgent(t)

	rec := f.do(t, stdhttp.MethodPost, "/api/v1/tickets", token, CreateTicketRequest{
		CustomerID: "C001",
		Category:   "General Inquiry",
		Priority:   "urgent",
	})
	require.Equal(t, stdhttp.StatusUnprocessableEntity, rec.Code)
	assert.Contains(t, decodeBody[ValidationErrorResponse](t, rec).Fields, "priority")
}

func TestQueue_SortAndFilter(t *testing.T) {
	f := newAPIFixture(t)
	token := f.loginAgent(t)

	rec := f.do(t, stdhttp.MethodPost, "/api/v1/tickets", token, CreateTicketRequest{
		CustomerID: "C001", Category: "General Inquiry", Priority: "low",
	})
	require.Equal(t, stdhttp.StatusCreated, rec.Code)
	low := decodeBody[*domain.Ticket](t, rec)

	rec = f.do(t, stdhttp.MethodPost, "/api/v1/tickets", token, CreateTicketRequest{
		CustomerID: "C001", Category: "Escalation", Priority: "high",
	})
	require.Equal(t, stdhttp.StatusCreated, rec.Code)
	high := decodeBody[*domain.Ticket](t, rec)

	type queuePage struct {
		Data  []*domain.Ticket `json:"data"`
		Count int              `json:"count"`
	}

	rec = f.do(t, stdhttp.MethodGet, "/api/v1/tickets?sort=priority", token, nil)
	require.Equal(t, stdhttp.StatusOK, rec.Code)
	page := decodeBody[queuePage](t, rec)
	require.Equal(t, 2, page.Count)
	assert.Equal(t, high.ID, page.Data[0].ID)
	assert.Equal(t, low.ID, page.Data[1].ID)

	rec = f.do(t, stdhttp.MethodGet, "/api/v1/tickets?queue=escalations", token, nil)
	require.Equal(t, stdhttp.StatusOK, rec.Code)
	page = decodeBody[queuePage](t, rec)
	require.Equal(t, 1, page.Count)
	assert.Equal(t, high.ID, page.Data[0].ID)

	rec = f.do(t, stdhttp.MethodGet, "/api/v1/tickets?status=resolved", token, nil)
	require.Equal(t, stdhttp.StatusOK, rec.Code)
	assert.Equal(t, 0, decodeBody[queuePage](t, rec).Count)
}

func TestQueue_RejectsUnknownFilter(t *testing.T) {
	f := newAPIFixture(t)
	token := f.loginAgent(t)

	rec := f.do(t, stdhttp.MethodGet, "/api/v1/tickets?queue=bogus", token, nil)
	require.Equal(t, stdhttp.StatusUnprocessableEntity, rec.Code)
	assert.Contains(t, decodeBody[ValidationErrorResponse](t, rec).Fields, "queue")
}

func TestTickets_CustomerTokenRejected(t *testing.T) {
	f := newAPIFixture(t)
	token := f.loginCustomer(t)

	rec := f.do(t, stdhttp.MethodGet, "/api/v1/tickets", token, nil)
	require.Equal(t, stdhttp.StatusUnauthorized, rec.Code)

	rec = f.do(t, stdhttp.MethodGet, "/api/v1/directory/customers", token, nil)
	require.Equal(t, stdhttp.StatusUnauthorized, rec.Code)
}

func TestReplyAndResolveFlow(t *testing.T) {
	f := newAPIFixture(t)
	token := f.loginAgent(t)
	created := f.createTicket(t, token)

	rec := f.do(t, stdhttp.MethodPost, "/api/v1/tickets/"+created.ID+"/reply", token, ReplyRequest{Content: "Happy to help, let me take a look."})
	require.Equal(t, stdhttp.StatusOK, rec.Code)
	ticket := decodeBody[*domain.Ticket](t, rec)
	assert.Equal(t, domain.StatusInProgress, ticket.Status)
	require.NotNil(t, ticket.FirstResponseAt)
	assert.Equal(t, domain.RoleAgent, ticket.Messages[len(ticket.Messages)-1].SenderRole)

	rec = f.do(t, stdhttp.MethodPost, "/api/v1/tickets/"+created.ID+"/resolve", token, nil)
	require.Equal(t, stdhttp.StatusOK, rec.Code)
	ticket = decodeBody[*domain.Ticket](t, rec)
	assert.Equal(t, domain.StatusResolved, ticket.Status)
	assert.Equal(t, domain.PriorityLow, ticket.Priority)
	require.NotNil(t, ticket.ResolvedAt)
}

func TestReply_EmptyContent(t *testing.T) {
	f := newAPIFixture(t)
	token := f.loginAgent(t)
	created := f.createTicket(t, token)

	rec := f.do(t, stdhttp.MethodPost, "/api/v1/tickets/"+created.ID+"/reply", token, ReplyRequest{Content: ""})
	require.Equal(t, stdhttp.StatusUnprocessableEntity, rec.Code)
}

func TestEscalateAndNotes(t *testing.T) {
	f := newAPIFixture(t)
	token := f.loginAgent(t)
	created := f.createTicket(t, token)

	rec := f.do(t, stdhttp.MethodPost, "/api/v1/tickets/"+created.ID+"/escalate", token, nil)
	require.Equal(t, stdhttp.StatusOK, rec.Code)
	ticket := decodeBody[*domain.Ticket](t, rec)
	assert.Equal(t, domain.PriorityHigh, ticket.Priority)
	assert.Equal(t, domain.CategoryEscalation, ticket.Category)
	assert.Equal(t, "amit.kumar", ticket.EscalatedBy)

	rec = f.do(t, stdhttp.MethodPut, "/api/v1/tickets/"+created.ID+"/notes", token, NoteRequest{Note: "customer asked for a callback"})
	require.Equal(t, stdhttp.StatusOK, rec.Code)
	ticket = decodeBody[*domain.Ticket](t, rec)
	assert.Contains(t, ticket.InternalNotes, "customer asked for a callback")
}

func TestAssignTicket(t *testing.T) {
	f := newAPIFixture(t)
	token := f.loginAgent(t)
	created := f.createTicket(t, token)

	rec := f.do(t, stdhttp.MethodPatch, "/api/v1/tickets/"+created.ID+"/assignee", token, AssignRequest{Agent: "sneha.singh"})
	require.Equal(t, stdhttp.StatusOK, rec.Code)
	assert.Equal(t, "sneha.singh", decodeBody[*domain.Ticket](t, rec).AssignedAgent)

	rec = f.do(t, stdhttp.MethodPatch, "/api/v1/tickets/"+created.ID+"/assignee", token, AssignRequest{Agent: "ghost"})
	require.Equal(t, stdhttp.StatusNotFound, rec.Code)
}

func TestBulkResolve(t *testing.T) {
	f := newAPIFixture(t)
	token := f.loginAgent(t)
	a := f.createTicket(t, token)
	b := f.createTicket(t, token)

	rec := f.do(t, stdhttp.MethodPost, "/api/v1/tickets/bulk/resolve", token, BulkRequest{TicketIDs: []string{a.ID, b.ID, "TKT-0"}})
	require.Equal(t, stdhttp.StatusOK, rec.Code)
	assert.Equal(t, 2, decodeBody[BulkResponse](t, rec).Affected)

	rec = f.do(t, stdhttp.MethodPost, "/api/v1/tickets/bulk/resolve", token, BulkRequest{TicketIDs: nil})
	require.Equal(t, stdhttp.StatusUnprocessableEntity, rec.Code)
}

func TestBulkTransfer(t *testing.T) {
	f := newAPIFixture(t)
	token := f.loginAgent(t)
	a := f.createTicket(t, token)
	b := f.createTicket(t, token)

	rec := f.do(t, stdhttp.MethodPost, "/api/v1/tickets/bulk/transfer", token, BulkRequest{TicketIDs: []string{a.ID, b.ID}, Agent: "sneha.singh"})
	require.Equal(t, stdhttp.StatusOK, rec.Code)
	assert.Equal(t, 2, decodeBody[BulkResponse](t, rec).Affected)
}

func TestChatConversation(t *testing.T) {
	f := newAPIFixture(t)
	token := f.loginCustomer(t)

	rec := f.do(t, stdhttp.MethodPost, "/api/v1/chat/conversation", token, nil)
	require.Equal(t, stdhttp.StatusOK, rec.Code)
	ticket := decodeBody[*domain.Ticket](t, rec)
	require.Len(t, ticket.Messages, 1)
	assert.Equal(t, domain.RoleBot, ticket.Messages[0].SenderRole)

	// Starting again returns the same unresolved conversation.
	rec = f.do(t, stdhttp.MethodPost, "/api/v1/chat/conversation", token, nil)
	require.Equal(t, stdhttp.StatusOK, rec.Code)
	assert.Equal(t, ticket.ID, decodeBody[*domain.Ticket](t, rec).ID)

	rec = f.do(t, stdhttp.MethodPost, "/api/v1/chat/conversation/"+ticket.ID+"/messages", token, ChatMessageRequest{Content: "What documents do I need?"})
	require.Equal(t, stdhttp.StatusOK, rec.Code)
	ticket = decodeBody[*domain.Ticket](t, rec)
	assert.Equal(t, domain.RoleCustomer, ticket.Messages[len(ticket.Messages)-1].SenderRole)

	// The bot reply lands asynchronously after the typing delay.
	require.Eventually(t, func() bool {
		stored, err := f.repo.Get(t.Context(), ticket.ID)
		return err == nil && len(stored.Messages) == 3 && stored.Messages[2].SenderRole == domain.RoleBot
	}, 2*time.Second, 10*time.Millisecond)
}

func TestChat_AgentTokenRejected(t *testing.T) {
	f := newAPIFixture(t)
	token := f.loginAgent(t)

	rec := f.do(t, stdhttp.MethodPost, "/api/v1/chat/conversation", token, nil)
	require.Equal(t, stdhttp.StatusUnauthorized, rec.Code)
}

func TestChat_EmptyMessage(t *testing.T) {
	f := newAPIFixture(t)
	token := f.loginCustomer(t)

	rec := f.do(t, stdhttp.MethodPost, "/api/v1/chat/conversation", token, nil)
	require.Equal(t, stdhttp.StatusOK, rec.Code)
	ticket := decodeBody[*domain.Ticket](t, rec)

	rec = f.do(t, stdhttp.MethodPost, "/api/v1/chat/conversation/"+ticket.ID+"/messages", token, ChatMessageRequest{Content: ""})
	require.Equal(t, stdhttp.StatusUnprocessableEntity, rec.Code)
}

func TestSessionLifecycle(t *testing.T) {
	f := newAPIFixture(t)
	token := f.loginAgent(t)

	rec := f.do(t, stdhttp.MethodGet, "/api/v1/session", token, nil)
	require.Equal(t, stdhttp.StatusOK, rec.Code)
	session := decodeBody[*domain.Session](t, rec)
	assert.True(t, session.SoundEnabled)

	rec = f.do(t, stdhttp.MethodPut, "/api/v1/session/sound", token, SoundRequest{Enabled: false})
	require.Equal(t, stdhttp.StatusNoContent, rec.Code)

	rec = f.do(t, stdhttp.MethodGet, "/api/v1/session", token, nil)
	require.Equal(t, stdhttp.StatusOK, rec.Code)
	assert.False(t, decodeBody[*domain.Session](t, rec).SoundEnabled)

	rec = f.do(t, stdhttp.MethodPost, "/api/v1/session/logout", token, nil)
	require.Equal(t, stdhttp.StatusNoContent, rec.Code)

	// The token is still cryptographically valid but the session is gone.
	rec = f.do(t, stdhttp.MethodGet, "/api/v1/session", token, nil)
	require.Equal(t, stdhttp.StatusUnauthorized, rec.Code)
	assert.Equal(t, "SESSION_NOT_FOUND", decodeBody[ErrorResponse](t, rec).Code)
}

func TestSession_ActiveTicket(t *testing.T) {
	f := newAPIFixture(t)
	agentToken := f.loginAgent(t)
	created := f.createTicket(t, agentToken)

	rec := f.do(t, stdhttp.MethodPut, "/api/v1/session/active-ticket", agentToken, ActiveTicketRequest{TicketID: created.ID})
	require.Equal(t, stdhttp.StatusNoContent, rec.Code)

	rec = f.do(t, stdhttp.MethodGet, "/api/v1/session", agentToken, nil)
	require.Equal(t, stdhttp.StatusOK, rec.Code)
	assert.Equal(t, created.ID, decodeBody[*domain.Session](t, rec).ActiveTicketID)
}

func TestNotifications_ActiveList(t *testing.T) {
	f := newAPIFixture(t)
	token := f.loginAgent(t)

	f.notifier.Emit("amit.kumar", "Ticket TKT-1 resolved successfully", domain.NotifySuccess)

	type page struct {
		Data  []domain.Notification `json:"data"`
		Count int                   `json:"count"`
	}

	rec := f.do(t, stdhttp.MethodGet, "/api/v1/notifications", token, nil)
	require.Equal(t, stdhttp.StatusOK, rec.Code)
	resp := decodeBody[page](t, rec)
	require.Equal(t, 1, resp.Count)
	assert.Equal(t, "Ticket TKT-1 resolved successfully", resp.Data[0].Message)
}

func TestDirectory(t *testing.T) {
	f := newAPIFixture(t)
	token := f.loginAgent(t)

	type customersPage struct {
		Data  []*domain.Customer `json:"data"`
		Count int                `json:"count"`
	}

	rec := f.do(t, stdhttp.MethodGet, "/api/v1/directory/customers", token, nil)
	require.Equal(t, stdhttp.StatusOK, rec.Code)
	customers := decodeBody[customersPage](t, rec)
	require.Equal(t, 1, customers.Count)
	assert.Equal(t, "C001", customers.Data[0].ID)

	rec = f.do(t, stdhttp.MethodGet, "/api/v1/directory/customers/C001", token, nil)
	require.Equal(t, stdhttp.StatusOK, rec.Code)
	assert.Equal(t, "Gaurav Asodariya", decodeBody[*domain.Customer](t, rec).Name)

	rec = f.do(t, stdhttp.MethodGet, "/api/v1/directory/customers/C999", token, nil)
	require.Equal(t, stdhttp.StatusNotFound, rec.Code)

	type agentsPage struct {
		Data  []*domain.Agent `json:"data"`
		Count int             `json:"count"`
	}

	rec = f.do(t, stdhttp.MethodGet, "/api/v1/directory/agents", token, nil)
	require.Equal(t, stdhttp.StatusOK, rec.Code)
	assert.Equal(t, 2, decodeBody[agentsPage](t, rec).Count)
}
