package http

import (
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"

	mw "github.com/gauravasodariya/crux-finance/internal/adapters/primary/http/middleware"
	"github.com/gauravasodariya/crux-finance/internal/adapters/primary/validation"
	"github.com/gauravasodariya/crux-finance/internal/core/domain"
	"github.com/gauravasodariya/crux-finance/internal/core/ports"
)

// SessionHandler handles login, logout and session preferences for both
// customers and agents.
type SessionHandler struct {
	sessions     ports.SessionService
	errorHandler *ErrorHandler
	logger       *slog.Logger
}

// NewSessionHandler creates a new session handler
func NewSessionHandler(sessions ports.SessionService, errorHandler *ErrorHandler, logger *slog.Logger) *SessionHandler {
	return &SessionHandler{
		sessions:     sessions,
		errorHandler: errorHandler,
		logger:       logger.With("handler", "session"),
	}
}

// RegisterPublicRoutes sets up the unauthenticated login endpoints.
func (h *SessionHandler) RegisterPublicRoutes(r chi.Router) {
	r.Post("/customer/login", h.HandleCustomerLogin)
	r.Post("/agent/login", h.HandleAgentLogin)
}

// RegisterProtectedRoutes sets up the endpoints that require a session.
func (h *SessionHandler) RegisterProtectedRoutes(r chi.Router) {
	r.Get("/", h.HandleGetSession)
	r.Post("/logout", h.HandleLogout)
	r.Put("/active-ticket", h.HandleSetActiveTicket)
	r.Put("/sound", h.HandleSetSound)
}

// --- Request/Response DTOs ---

// CustomerLoginRequest carries the registered phone number.
type CustomerLoginRequest struct {
	Phone string `json:"phone"`
}

// Validate validates the customer login request
func (r *CustomerLoginRequest) Validate() error {
	v := validation.NewValidator()
	v.Required("phone", r.Phone).
		Phone("phone", r.Phone)
	if v.HasErrors() {
		return v.Errors()
	}
	return nil
}

// AgentLoginRequest carries agent credentials.
type AgentLoginRequest struct {
	Username string `json:"username"`
	Password string `json:"password"`
}

// Validate validates the agent login request
func (r *AgentLoginRequest) Validate() error {
	v := validation.NewValidator()
	v.Required("username", r.Username)
	v.Required("password", r.Password)
	if v.HasErrors() {
		return v.Errors()
	}
	return nil
}

// LoginResponse returns the session and its bearer token.
type LoginResponse struct {
	Token   string          `json:"token"`
	Session *domain.Session `json:"session"`
}

// ActiveTicketRequest selects the conversation a session has open.
type ActiveTicketRequest struct {
	TicketID string `json:"ticketId"`
}

// SoundRequest toggles the audible notification cue.
type SoundRequest struct {
	Enabled bool `json:"enabled"`
}

// --- Handlers ---

// HandleCustomerLogin handles POST /auth/customer/login
func (h *SessionHandler) HandleCustomerLogin(w http.ResponseWriter, r *http.Request) {
	req, err := validation.DecodeAndValidate[CustomerLoginRequest](r)
	if err != nil {
		h.errorHandler.Handle(w, r, err)
		return
	}
	if err := req.Validate(); err != nil {
		h.errorHandler.Handle(w, r, err)
		return
	}

	session, token, err := h.sessions.LoginCustomer(r.Context(), req.Phone)
	if err != nil {
		h.errorHandler.Handle(w, r, err)
		return
	}

	WriteJSON(w, http.StatusOK, LoginResponse{Token: token, Session: session})
}

// HandleAgentLogin handles POST /auth/agent/login
func (h *SessionHandler) HandleAgentLogin(w http.ResponseWriter, r *http.Request) {
	req, err := validation.DecodeAndValidate[AgentLoginRequest](r)
	if err != nil {
		h.errorHandler.Handle(w, r, err)
		return
	}
	if err := req.Validate(); err != nil {
		h.errorHandler.Handle(w, r, err)
		return
	}

	session, token, err := h.sessions.LoginAgent(r.Context(), req.Username, req.Password)
	if err != nil {
		h.errorHandler.Handle(w, r, err)
		return
	}

	WriteJSON(w, http.StatusOK, LoginResponse{Token: token, Session: session})
}

// HandleGetSession handles GET /session
func (h *SessionHandler) HandleGetSession(w http.ResponseWriter, r *http.Request) {
	claims, ok := mw.GetClaims(r.Context())
	if !ok {
		WriteJSON(w, http.StatusUnauthorized, ErrorResponse{Error: "Not authorized", Code: "UNAUTHORIZED"})
		return
	}

	session, err := h.sessions.Get(claims.ActorID)
	if err != nil {
		h.errorHandler.Handle(w, r, err)
		return
	}

	WriteJSON(w, http.StatusOK, session)
}

// HandleLogout handles POST /session/logout
func (h *SessionHandler) HandleLogout(w http.ResponseWriter, r *http.Request) {
	claims, ok := mw.GetClaims(r.Context())
	if !ok {
		WriteJSON(w, http.StatusUnauthorized, ErrorResponse{Error: "Not authorized", Code: "UNAUTHORIZED"})
		return
	}

	if err := h.sessions.Logout(r.Context(), claims.ActorID); err != nil {
		h.errorHandler.Handle(w, r, err)
		return
	}

	WriteNoContent(w)
}

// HandleSetActiveTicket handles PUT /session/active-ticket
func (h *SessionHandler) HandleSetActiveTicket(w http.ResponseWriter, r *http.Request) {
	claims, ok := mw.GetClaims(r.Context())
	if !ok {
		WriteJSON(w, http.StatusUnauthorized, ErrorResponse{Error: "Not authorized", Code: "UNAUTHORIZED"})
		return
	}

	req, err := validation.DecodeAndValidate[ActiveTicketRequest](r)
	if err != nil {
		h.errorHandler.Handle(w, r, err)
		return
	}

	if err := h.sessions.SetActiveTicket(r.Context(), claims.ActorID, req.TicketID); err != nil {
		h.errorHandler.Handle(w, r, err)
		return
	}

	WriteNoContent(w)
}

// HandleSetSound handles PUT /session/sound
func (h *SessionHandler) HandleSetSound(w http.ResponseWriter, r *http.Request) {
	claims, ok := mw.GetClaims(r.Context())
	if !ok {
		WriteJSON(w, http.StatusUnauthorized, ErrorResponse{Error: "Not authorized", Code: "UNAUTHORIZED"})
		return
	}

	req, err := validation.DecodeAndValidate[SoundRequest](r)
	if err != nil {
		h.errorHandler.Handle(w, r, err)
		return
	}

	if err := h.sessions.SetSoundEnabled(r.Context(), claims.ActorID, req.Enabled); err != nil {
		h.errorHandler.Handle(w, r, err)
		return
	}

	WriteNoContent(w)
}
