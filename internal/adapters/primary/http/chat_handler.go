package http

import (
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"

	mw "github.com/gauravasodariya/crux-finance/internal/adapters/primary/http/middleware"
	"github.com/gauravasodariya/crux-finance/internal/adapters/primary/validation"
	"github.com/gauravasodariya/crux-finance/internal/auth"
	"github.com/gauravasodariya/crux-finance/internal/core/domain"
	apperrors "github.com/gauravasodariya/crux-finance/internal/core/errors"
	"github.com/gauravasodariya/crux-finance/internal/core/ports"
)

// ChatHandler handles the customer-facing conversation endpoints.
type ChatHandler struct {
	chatService  ports.ChatService
	errorHandler *ErrorHandler
	logger       *slog.Logger
}

// NewChatHandler creates a new chat handler
func NewChatHandler(chatService ports.ChatService, errorHandler *ErrorHandler, logger *slog.Logger) *ChatHandler {
	return &ChatHandler{
		chatService:  chatService,
		errorHandler: errorHandler,
		logger:       logger.With("handler", "chat"),
	}
}

// RegisterRoutes sets up the routing for the chat endpoints.
func (h *ChatHandler) RegisterRoutes(r chi.Router) {
	r.Post("/conversation", h.HandleStartConversation)
	r.Post("/conversation/{ticketID}/messages", h.HandleSendMessage)
}

// ChatMessageRequest carries one inbound customer message.
type ChatMessageRequest struct {
	Content string `json:"content"`
}

// Validate validates the chat message request
func (r *ChatMessageRequest) Validate() error {
	v := validation.NewValidator()
	v.Required("content", r.Content).
		MaxLength("content", r.Content, 4000)
	if v.HasErrors() {
		return v.Errors()
	}
	return nil
}

// HandleStartConversation handles POST /chat/conversation. Idempotent: a
// customer with an unresolved ticket gets that ticket back.
func (h *ChatHandler) HandleStartConversation(w http.ResponseWriter, r *http.Request) {
	claims, ok := h.getCustomerClaims(w, r)
	if !ok {
		return
	}

	ticket, err := h.chatService.StartConversation(r.Context(), claims.ActorID)
	if err != nil {
		h.errorHandler.Handle(w, r, err)
		return
	}

	WriteJSON(w, http.StatusOK, ticket)
}

// HandleSendMessage handles POST /chat/conversation/{ticketID}/messages.
// The response carries the conversation as of the customer's message; the
// bot's reply follows over the websocket after its typing delay.
func (h *ChatHandler) HandleSendMessage(w http.ResponseWriter, r *http.Request) {
	claims, ok := h.getCustomerClaims(w, r)
	if !ok {
		return
	}

	req, err := validation.DecodeAndValidate[ChatMessageRequest](r)
	if err != nil {
		h.errorHandler.Handle(w, r, err)
		return
	}
	if err := req.Validate(); err != nil {
		h.errorHandler.Handle(w, r, err)
		return
	}

	ticket, err := h.chatService.HandleMessage(r.Context(), chi.URLParam(r, "ticketID"), claims.ActorID, req.Content)
	if err != nil {
		h.errorHandler.Handle(w, r, err)
		return
	}

	WriteJSON(w, http.StatusOK, ticket)
}

// getCustomerClaims extracts the authenticated claims and rejects non-customers.
func (h *ChatHandler) getCustomerClaims(w http.ResponseWriter, r *http.Request) (*auth.Claims, bool) {
	claims, ok := mw.GetClaims(r.Context())
	if !ok {
		WriteJSON(w, http.StatusUnauthorized, ErrorResponse{
			Error: "Not authorized",
			Code:  "UNAUTHORIZED",
		})
		return nil, false
	}
	if claims.UserType != domain.UserTypeCustomer {
		h.errorHandler.Handle(w, r, apperrors.ErrUnauthorized)
		return nil, false
	}
	return claims, true
}
