package http

import (
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"

	mw "github.com/gauravasodariya/crux-finance/internal/adapters/primary/http/middleware"
	"github.com/gauravasodariya/crux-finance/internal/core/domain"
	apperrors "github.com/gauravasodariya/crux-finance/internal/core/errors"
	"github.com/gauravasodariya/crux-finance/internal/core/ports"
)

// NotificationHandler serves the active toast list for the signed-in agent.
// Alerts are pushed over the websocket; this endpoint backfills the stack
// after a page reload.
type NotificationHandler struct {
	notifications ports.NotificationService
	errorHandler  *ErrorHandler
	logger        *slog.Logger
}

// NewNotificationHandler creates a new notification handler
func NewNotificationHandler(notifications ports.NotificationService, errorHandler *ErrorHandler, logger *slog.Logger) *NotificationHandler {
	return &NotificationHandler{
		notifications: notifications,
		errorHandler:  errorHandler,
		logger:        logger.With("handler", "notifications"),
	}
}

// RegisterRoutes sets up the routing for the notification endpoints.
func (h *NotificationHandler) RegisterRoutes(r chi.Router) {
	r.Get("/", h.HandleListActive)
}

// HandleListActive handles GET /notifications
func (h *NotificationHandler) HandleListActive(w http.ResponseWriter, r *http.Request) {
	claims, ok := mw.GetClaims(r.Context())
	if !ok {
		WriteJSON(w, http.StatusUnauthorized, ErrorResponse{Error: "Not authorized", Code: "UNAUTHORIZED"})
		return
	}
	if claims.UserType != domain.UserTypeAgent {
		h.errorHandler.Handle(w, r, apperrors.ErrUnauthorized)
		return
	}

	WriteList(w, h.notifications.Active(claims.ActorID))
}
