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

// TicketHandler handles the operator-facing ticket endpoints.
type TicketHandler struct {
	ticketService ports.TicketService
	queueService  ports.QueueService
	errorHandler  *ErrorHandler
	logger        *slog.Logger
}

// NewTicketHandler creates a new ticket handler
func NewTicketHandler(
	ticketService ports.TicketService,
	queueService ports.QueueService,
	errorHandler *ErrorHandler,
	logger *slog.Logger,
) *TicketHandler {
	return &TicketHandler{
		ticketService: ticketService,
		queueService:  queueService,
		errorHandler:  errorHandler,
		logger:        logger.With("handler", "ticket"),
	}
}

// Router sets up a new chi Router for all ticket-related routes.
func (h *TicketHandler) Router() http.Handler {
	r := chi.NewRouter()
	h.RegisterRoutes(r)
	return r
}

// RegisterRoutes sets up the routing for all ticket endpoints.
func (h *TicketHandler) RegisterRoutes(r chi.Router) {
	r.Get("/", h.HandleQueue)
	r.Post("/", h.HandleCreateTicket)
	r.Post("/bulk/resolve", h.HandleBulkResolve)
	r.Post("/bulk/transfer", h.HandleBulkTransfer)

	// Routes for a specific ticket
	r.Route("/{ticketID}", func(r chi.Router) {
		r.Get("/", h.HandleGetTicket)
		r.Post("/reply", h.HandleSendReply)
		r.Post("/resolve", h.HandleResolve)
		r.Post("/escalate", h.HandleEscalate)
		r.Post("/transfer", h.HandleTransfer)
		r.Patch("/assignee", h.HandleAssign)
		r.Put("/notes", h.HandleSaveNote)
	})
}

// --- Request DTOs ---

// CreateTicketRequest defines the expected JSON body for creating a ticket
type CreateTicketRequest struct {
	CustomerID     string `json:"customerId"`
	Category       string `json:"category"`
	Priority       string `json:"priority"`
	InitialMessage string `json:"initialMessage"`
}

// Validate validates the create ticket request
func (r *CreateTicketRequest) Validate() error {
	v := validation.NewValidator()

	v.Required("customerId", r.CustomerID)
	v.Required("category", r.Category).
		MaxLength("category", r.Category, 64)
	v.Required("priority", r.Priority).
		OneOf("priority", r.Priority, []string{"low", "medium", "high"})
	v.MaxLength("initialMessage", r.InitialMessage, 4000)

	if v.HasErrors() {
		return v.Errors()
	}
	return nil
}

// ReplyRequest defines the expected JSON body for an agent reply
type ReplyRequest struct {
	Content string `json:"content"`
}

// Validate validates the reply request
func (r *ReplyRequest) Validate() error {
	v := validation.NewValidator()

	v.Required("content", r.Content).
		MaxLength("content", r.Content, 4000)

	if v.HasErrors() {
		return v.Errors()
	}
	return nil
}

// AssignRequest defines the expected JSON body for assigning a ticket
type AssignRequest struct {
	Agent string `json:"agent"`
}

// NoteRequest defines the expected JSON body for saving an internal note
type NoteRequest struct {
	Note string `json:"note"`
}

// BulkRequest defines the expected JSON body for bulk operations
type BulkRequest struct {
	TicketIDs []string `json:"ticketIds"`
	Agent     string   `json:"agent,omitempty"`
}

// BulkResponse reports how many tickets a bulk operation touched
type BulkResponse struct {
	Affected int `json:"affected"`
}

// --- Handlers ---

// HandleQueue handles GET /tickets. The queue projection is driven entirely
// by query parameters: status, queue, q and sort.
func (h *TicketHandler) HandleQueue(w http.ResponseWriter, r *http.Request) {
	claims, ok := h.getAgentClaims(w, r)
	if !ok {
		return
	}

	query := ports.QueueQuery{
		StatusFilter: r.URL.Query().Get("status"),
		Queue:        r.URL.Query().Get("queue"),
		Search:       r.URL.Query().Get("q"),
		SortBy:       r.URL.Query().Get("sort"),
		Agent:        claims.ActorID,
	}

	v := validation.NewValidator()
	v.OneOf("status", query.StatusFilter, []string{ports.FilterAll, "open", "in-progress", "resolved"})
	v.OneOf("queue", query.Queue, []string{
		ports.QueueAll, ports.QueueUnassigned, ports.QueueMyOpen, ports.QueueWaiting, ports.QueueEscalations,
	})
	v.OneOf("sort", query.SortBy, []string{
		ports.SortNewest, ports.SortOldest, ports.SortPriority, ports.SortStatus,
	})
	if v.HasErrors() {
		h.errorHandler.Handle(w, r, v.Errors())
		return
	}

	tickets, err := h.queueService.Project(r.Context(), query)
	if err != nil {
		h.errorHandler.Handle(w, r, err)
		return
	}

	WriteList(w, tickets)
}

// HandleCreateTicket handles POST /tickets
func (h *TicketHandler) HandleCreateTicket(w http.ResponseWriter, r *http.Request) {
	claims, ok := h.getAgentClaims(w, r)
	if !ok {
		return
	}

	req, err := validation.DecodeAndValidate[CreateTicketRequest](r)
	if err != nil {
		h.errorHandler.Handle(w, r, err)
		return
	}
	if err := req.Validate(); err != nil {
		h.errorHandler.Handle(w, r, err)
		return
	}

	params := ports.CreateTicketParams{
		CustomerID:     req.CustomerID,
		Category:       req.Category,
		Priority:       domain.TicketPriority(req.Priority),
		InitialMessage: req.InitialMessage,
		Agent:          claims.ActorID,
	}

	ticket, err := h.ticketService.CreateTicket(r.Context(), params)
	if err != nil {
		h.errorHandler.Handle(w, r, err)
		return
	}

	WriteCreated(w, ticket)
}

// HandleGetTicket handles GET /tickets/{ticketID}
func (h *TicketHandler) HandleGetTicket(w http.ResponseWriter, r *http.Request) {
	if _, ok := h.getAgentClaims(w, r); !ok {
		return
	}

	ticket, err := h.ticketService.GetTicket(r.Context(), chi.URLParam(r, "ticketID"))
	if err != nil {
		h.errorHandler.Handle(w, r, err)
		return
	}

	WriteJSON(w, http.StatusOK, ticket)
}

// HandleSendReply handles POST /tickets/{ticketID}/reply
func (h *TicketHandler) HandleSendReply(w http.ResponseWriter, r *http.Request) {
	claims, ok := h.getAgentClaims(w, r)
	if !ok {
		return
	}

	req, err := validation.DecodeAndValidate[ReplyRequest](r)
	if err != nil {
		h.errorHandler.Handle(w, r, err)
		return
	}
	if err := req.Validate(); err != nil {
		h.errorHandler.Handle(w, r, err)
		return
	}

	ticket, err := h.ticketService.SendReply(r.Context(), chi.URLParam(r, "ticketID"), claims.ActorID, req.Content)
	if err != nil {
		h.errorHandler.Handle(w, r, err)
		return
	}

	WriteJSON(w, http.StatusOK, ticket)
}

// HandleResolve handles POST /tickets/{ticketID}/resolve
func (h *TicketHandler) HandleResolve(w http.ResponseWriter, r *http.Request) {
	claims, ok := h.getAgentClaims(w, r)
	if !ok {
		return
	}

	ticket, err := h.ticketService.Resolve(r.Context(), chi.URLParam(r, "ticketID"), claims.ActorID)
	if err != nil {
		h.errorHandler.Handle(w, r, err)
		return
	}

	WriteJSON(w, http.StatusOK, ticket)
}

// HandleEscalate handles POST /tickets/{ticketID}/escalate
func (h *TicketHandler) HandleEscalate(w http.ResponseWriter, r *http.Request) {
	claims, ok := h.getAgentClaims(w, r)
	if !ok {
		return
	}

	ticket, err := h.ticketService.Escalate(r.Context(), chi.URLParam(r, "ticketID"), claims.ActorID)
	if err != nil {
		h.errorHandler.Handle(w, r, err)
		return
	}

	WriteJSON(w, http.StatusOK, ticket)
}

// HandleTransfer handles POST /tickets/{ticketID}/transfer
func (h *TicketHandler) HandleTransfer(w http.ResponseWriter, r *http.Request) {
	claims, ok := h.getAgentClaims(w, r)
	if !ok {
		return
	}

	ticket, err := h.ticketService.Transfer(r.Context(), chi.URLParam(r, "ticketID"), claims.ActorID)
	if err != nil {
		h.errorHandler.Handle(w, r, err)
		return
	}

	WriteJSON(w, http.StatusOK, ticket)
}

// HandleAssign handles PATCH /tickets/{ticketID}/assignee
func (h *TicketHandler) HandleAssign(w http.ResponseWriter, r *http.Request) {
	claims, ok := h.getAgentClaims(w, r)
	if !ok {
		return
	}

	req, err := validation.DecodeAndValidate[AssignRequest](r)
	if err != nil {
		h.errorHandler.Handle(w, r, err)
		return
	}

	v := validation.NewValidator()
	v.Required("agent", req.Agent)
	if v.HasErrors() {
		h.errorHandler.Handle(w, r, v.Errors())
		return
	}

	ticket, err := h.ticketService.Assign(r.Context(), chi.URLParam(r, "ticketID"), req.Agent, claims.ActorID)
	if err != nil {
		h.errorHandler.Handle(w, r, err)
		return
	}

	WriteJSON(w, http.StatusOK, ticket)
}

// HandleSaveNote handles PUT /tickets/{ticketID}/notes
func (h *TicketHandler) HandleSaveNote(w http.ResponseWriter, r *http.Request) {
	claims, ok := h.getAgentClaims(w, r)
	if !ok {
		return
	}

	req, err := validation.DecodeAndValidate[NoteRequest](r)
	if err != nil {
		h.errorHandler.Handle(w, r, err)
		return
	}

	ticket, err := h.ticketService.SaveNote(r.Context(), chi.URLParam(r, "ticketID"), claims.ActorID, req.Note)
	if err != nil {
		h.errorHandler.Handle(w, r, err)
		return
	}

	WriteJSON(w, http.StatusOK, ticket)
}

// HandleBulkResolve handles POST /tickets/bulk/resolve
func (h *TicketHandler) HandleBulkResolve(w http.ResponseWriter, r *http.Request) {
	claims, ok := h.getAgentClaims(w, r)
	if !ok {
		return
	}

	req, err := validation.DecodeAndValidate[BulkRequest](r)
	if err != nil {
		h.errorHandler.Handle(w, r, err)
		return
	}

	v := validation.NewValidator()
	v.Custom("ticketIds", len(req.TicketIDs) > 0, "At least one ticket ID is required")
	if v.HasErrors() {
		h.errorHandler.Handle(w, r, v.Errors())
		return
	}

	affected, err := h.ticketService.BulkResolve(r.Context(), req.TicketIDs, claims.ActorID)
	if err != nil {
		h.errorHandler.Handle(w, r, err)
		return
	}

	WriteJSON(w, http.StatusOK, BulkResponse{Affected: affected})
}

// HandleBulkTransfer handles POST /tickets/bulk/transfer
func (h *TicketHandler) HandleBulkTransfer(w http.ResponseWriter, r *http.Request) {
	claims, ok := h.getAgentClaims(w, r)
	if !ok {
		return
	}

	req, err := validation.DecodeAndValidate[BulkRequest](r)
	if err != nil {
		h.errorHandler.Handle(w, r, err)
		return
	}

	v := validation.NewValidator()
	v.Custom("ticketIds", len(req.TicketIDs) > 0, "At least one ticket ID is required")
	v.Required("agent", req.Agent)
	if v.HasErrors() {
		h.errorHandler.Handle(w, r, v.Errors())
		return
	}

	affected, err := h.ticketService.BulkTransfer(r.Context(), req.TicketIDs, req.Agent, claims.ActorID)
	if err != nil {
		h.errorHandler.Handle(w, r, err)
		return
	}

	WriteJSON(w, http.StatusOK, BulkResponse{Affected: affected})
}

// --- Helper methods ---

// getAgentClaims extracts the authenticated claims and rejects non-agents.
// Every route in this handler is operator-only.
func (h *TicketHandler) getAgentClaims(w http.ResponseWriter, r *http.Request) (*auth.Claims, bool) {
	claims, ok := mw.GetClaims(r.Context())
	if !ok {
		WriteJSON(w, http.StatusUnauthorized, ErrorResponse{
			Error: "Not authorized",
			Code:  "UNAUTHORIZED",
		})
		return nil, false
	}
	if claims.UserType != domain.UserTypeAgent {
		h.errorHandler.Handle(w, r, apperrors.ErrUnauthorized)
		return nil, false
	}
	return claims, true
}
