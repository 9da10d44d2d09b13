package ports

import (
	"context"
	"errors"
	"time"

	"github.com/gauravasodariya/crux-finance/internal/core/domain"
)

// Fixed keys in the durable key-value store.
const (
	StateKeyTickets     = "crux_tickets"
	StateKeyCurrentUser = "crux_current_user"
	StateKeyUserType    = "crux_user_type"
)

// ErrStateNotFound is returned by StateStore.Load when the key is absent.
var ErrStateNotFound = errors.New("state key not found")

// TicketPatch is a partial update applied to a ticket. Nil fields are left
// untouched. ID and Messages cannot be patched; messages are append-only via
// TicketRepository.AppendMessage.
type TicketPatch struct {
	Status          *domain.TicketStatus
	Priority        *domain.TicketPriority
	Category        *string
	AssignedAgent   *string
	InternalNotes   *string
	FirstResponseAt *time.Time
	ResolvedAt      *time.Time
	ResolutionTime  *time.Duration
	EscalatedAt     *time.Time
	EscalatedBy     *string
	TransferredAt   *time.Time
	TransferredBy   *string
}

// Apply merges the patch into the ticket. The caller is responsible for
// refreshing UpdatedAt and for holding the ticket's write lock.
func (p TicketPatch) Apply(t *domain.Ticket) {
	if p.Status != nil {
		t.Status = *p.Status
	}
	if p.Priority != nil {
		t.Priority = *p.Priority
	}
	if p.Category != nil {
		t.Category = *p.Category
	}
	if p.AssignedAgent != nil {
		t.AssignedAgent = *p.AssignedAgent
	}
	if p.InternalNotes != nil {
		t.InternalNotes = *p.InternalNotes
	}
	if p.FirstResponseAt != nil {
		ts := *p.FirstResponseAt
		t.FirstResponseAt = &ts
	}
	if p.ResolvedAt != nil {
		ts := *p.ResolvedAt
		t.ResolvedAt = &ts
	}
	if p.ResolutionTime != nil {
		t.ResolutionTime = *p.ResolutionTime
	}
	if p.EscalatedAt != nil {
		ts := *p.EscalatedAt
		t.EscalatedAt = &ts
	}
	if p.EscalatedBy != nil {
		t.EscalatedBy = *p.EscalatedBy
	}
	if p.TransferredAt != nil {
		ts := *p.TransferredAt
		t.TransferredAt = &ts
	}
	if p.TransferredBy != nil {
		t.TransferredBy = *p.TransferredBy
	}
}

// Mutator is a closure applied to a ticket while its write lock is held. It
// must not retain the ticket beyond the call.
type Mutator func(t *domain.Ticket) error

// TicketRepository is the authoritative ticket store. Mutations are
// serialized per ticket ID; reads return deep snapshots so callers never
// observe a partially-applied mutation.
type TicketRepository interface {
	Create(ctx context.Context, ticket *domain.Ticket) (*domain.Ticket, error)
	Get(ctx context.Context, id string) (*domain.Ticket, error)
	List(ctx context.Context) ([]*domain.Ticket, error)
	AppendMessage(ctx context.Context, ticketID string, msg domain.Message) (*domain.Ticket, error)
	Update(ctx context.Context, ticketID string, patch TicketPatch) (*domain.Ticket, error)
	// Mutate runs an arbitrary mutation under the ticket's write lock.
	Mutate(ctx context.Context, ticketID string, fn Mutator) (*domain.Ticket, error)
}

// DirectoryRepository serves the read-only customer and agent directories.
type DirectoryRepository interface {
	GetCustomer(ctx context.Context, id string) (*domain.Customer, error)
	GetCustomerByPhone(ctx context.Context, phone string) (*domain.Customer, error)
	ListCustomers(ctx context.Context) ([]*domain.Customer, error)
	GetAgent(ctx context.Context, username string) (*domain.Agent, error)
	ListAgents(ctx context.Context) ([]*domain.Agent, error)
}

// StateStore is the durable key-value persistence collaborator. Failures are
// non-fatal to the core: callers log and continue with in-memory state.
type StateStore interface {
	Save(ctx context.Context, key string, value any) error
	Load(ctx context.Context, key string, out any) error
	Remove(ctx context.Context, key string) error
}
