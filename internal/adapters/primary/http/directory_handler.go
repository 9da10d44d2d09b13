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

// DirectoryHandler exposes the customer and agent directories to operators.
// The ticket wizard needs the customer list; transfer pickers need agents.
type DirectoryHandler struct {
	directory    ports.DirectoryRepository
	errorHandler *ErrorHandler
	logger       *slog.Logger
}

// NewDirectoryHandler creates a new directory handler
func NewDirectoryHandler(directory ports.DirectoryRepository, errorHandler *ErrorHandler, logger *slog.Logger) *DirectoryHandler {
	return &DirectoryHandler{
		directory:    directory,
		errorHandler: errorHandler,
		logger:       logger.With("handler", "directory"),
	}
}

// RegisterRoutes sets up the routing for the directory endpoints.
func (h *DirectoryHandler) RegisterRoutes(r chi.Router) {
	r.Get("/customers", h.HandleListCustomers)
	r.Get("/customers/{customerID}", h.HandleGetCustomer)
	r.Get("/agents", h.HandleListAgents)
}

// HandleListCustomers handles GET /directory/customers
func (h *DirectoryHandler) HandleListCustomers(w http.ResponseWriter, r *http.Request) {
	if !h.requireAgent(w, r) {
		return
	}

	customers, err := h.directory.ListCustomers(r.Context())
	if err != nil {
		h.errorHandler.Handle(w, r, err)
		return
	}

	WriteList(w, customers)
}

// HandleGetCustomer handles GET /directory/customers/{customerID}
func (h *DirectoryHandler) HandleGetCustomer(w http.ResponseWriter, r *http.Request) {
	if !h.requireAgent(w, r) {
		return
	}

	customer, err := h.directory.GetCustomer(r.Context(), chi.URLParam(r, "customerID"))
	if err != nil {
		h.errorHandler.Handle(w, r, err)
		return
	}

	WriteJSON(w, http.StatusOK, customer)
}

// HandleListAgents handles GET /directory/agents
func (h *DirectoryHandler) HandleListAgents(w http.ResponseWriter, r *http.Request) {
	if !h.requireAgent(w, r) {
		return
	}

	agents, err := h.directory.ListAgents(r.Context())
	if err != nil {
		h.errorHandler.Handle(w, r, err)
		return
	}

	WriteList(w, agents)
}

func (h *DirectoryHandler) requireAgent(w http.ResponseWriter, r *http.Request) bool {
	claims, ok := mw.GetClaims(r.Context())
	if !ok {
		WriteJSON(w, http.StatusUnauthorized, ErrorResponse{Error: "Not authorized", Code: "UNAUTHORIZED"})
		return false
	}
	if claims.UserType != domain.UserTypeAgent {
		h.errorHandler.Handle(w, r, apperrors.ErrUnauthorized)
		return false
	}
	return true
}
