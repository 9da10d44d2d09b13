package ports

import (
	"context"

	"github.com/gauravasodariya/crux-finance/internal/core/domain"
)

// StatusFilter values accepted by the queue projection.
const (
	FilterAll = "all"
)

// Queue selector names.
const (
	QueueAll         = "all"
	QueueUnassigned  = "unassigned"
	QueueMyOpen      = "my-open"
	QueueWaiting     = "waiting"
	QueueEscalations = "escalations"
)

// Sort order names.
const (
	SortNewest   = "newest"
	SortOldest   = "oldest"
	SortPriority = "priority"
	SortStatus   = "status"
)

// QueueQuery describes one operator view over the ticket population.
type QueueQuery struct {
	StatusFilter string // "all" or an exact status value
	Queue        string // one of the Queue* selectors
	Search       string // free text, empty passes everything
	SortBy       string // one of the Sort* orders
	Agent        string // acting operator username (for "my-open")
}

// QueueService derives filtered, sorted operator views. Project never
// mutates its input and is safe to call concurrently with store mutations.
type QueueService interface {
	Project(ctx context.Context, query QueueQuery) ([]*domain.Ticket, error)
}

// CreateTicketParams is the input for operator-initiated ticket creation.
type CreateTicketParams struct {
	CustomerID     string
	Category       string
	Priority       domain.TicketPriority
	InitialMessage string
	Agent          string // creating operator; assigned if non-empty
}

// TicketService is the operator-facing command set over the ticket store.
type TicketService interface {
	CreateTicket(ctx context.Context, params CreateTicketParams) (*domain.Ticket, error)
	GetTicket(ctx context.Context, ticketID string) (*domain.Ticket, error)
	SendReply(ctx context.Context, ticketID, agent, content string) (*domain.Ticket, error)
	Resolve(ctx context.Context, ticketID, agent string) (*domain.Ticket, error)
	Escalate(ctx context.Context, ticketID, agent string) (*domain.Ticket, error)
	Transfer(ctx context.Context, ticketID, agent string) (*domain.Ticket, error)
	Assign(ctx context.Context, ticketID, toAgent, byAgent string) (*domain.Ticket, error)
	SaveNote(ctx context.Context, ticketID, agent, note string) (*domain.Ticket, error)
	BulkResolve(ctx context.Context, ticketIDs []string, agent string) (int, error)
	BulkTransfer(ctx context.Context, ticketIDs []string, toAgent, byAgent string) (int, error)
}

// ChatService drives the customer-facing automated conversation.
type ChatService interface {
	// StartConversation returns the customer's unresolved ticket, creating
	// one seeded with the bot welcome when none exists.
	StartConversation(ctx context.Context, customerID string) (*domain.Ticket, error)
	// HandleMessage ingests an inbound customer message: append, reclassify,
	// then schedule either the scripted reply or the escalation hand-off.
	HandleMessage(ctx context.Context, ticketID, customerID, content string) (*domain.Ticket, error)
	// CancelPendingForCustomer drops scheduled bot replies on the customer's
	// open conversation, looked up by customer rather than by ticket. Logout
	// uses this so cancellation holds even when the session never recorded
	// an active ticket.
	CancelPendingForCustomer(ctx context.Context, customerID string)
}

// TicketObserver sees a snapshot of every ticket mutation. The notification
// dispatcher implements this to run its per-agent delta watch.
type TicketObserver interface {
	ObserveTicket(ticket *domain.Ticket)
}

// NotificationService is the per-operator alert dispatcher.
type NotificationService interface {
	TicketObserver
	// Emit fires a direct notification at an agent. Fire-and-forget; not
	// deduplicated against the delta-watch path.
	Emit(agent, message string, kind domain.NotificationKind)
	// Active returns the agent's not-yet-expired notifications.
	Active(agent string) []domain.Notification
	StartWatch(agent string)
	StopWatch(agent string)
	SetSoundEnabled(agent string, enabled bool)
}

// SessionService resolves actors via the identity collaborator and owns
// per-session state (active ticket selection, sound preference).
type SessionService interface {
	LoginCustomer(ctx context.Context, phone string) (*domain.Session, string, error)
	LoginAgent(ctx context.Context, username, password string) (*domain.Session, string, error)
	Logout(ctx context.Context, actorID string) error
	Get(actorID string) (*domain.Session, error)
	SetActiveTicket(ctx context.Context, actorID, ticketID string) error
	SetSoundEnabled(ctx context.Context, actorID string, enabled bool) error
}

// EventBroadcaster pushes real-time events to connected clients.
type EventBroadcaster interface {
	Broadcast(event domain.Event) error
	SendToUser(actorID string, event domain.Event)
}
