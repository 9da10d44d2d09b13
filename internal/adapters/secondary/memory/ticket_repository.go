// Package memory holds the authoritative in-memory ticket store. A customer
// session and an operator session can race on the same ticket, so every
// mutation runs under a per-ticket lock; reads hand out deep snapshots.
package memory

import (
	"context"
	"log/slog"
	"sort"
	"sync"
	"time"

	"github.com/gauravasodariya/crux-finance/internal/core/domain"
	apperrors "github.com/gauravasodariya/crux-finance/internal/core/errors"
	"github.com/gauravasodariya/crux-finance/internal/core/ports"
)

// entry pairs a ticket with its write lock. The lock serializes all
// mutations for one ticket ID.
type entry struct {
	mu     sync.Mutex
	ticket *domain.Ticket
}

// TicketRepository implements ports.TicketRepository over a process-local
// map, mirrored best-effort to the durable key-value store after every
// mutation. Storage failures are logged and swallowed.
type TicketRepository struct {
	mu      sync.RWMutex // guards the tickets map itself
	tickets map[string]*entry
	state   ports.StateStore
	logger  *slog.Logger
}

var _ ports.TicketRepository = (*TicketRepository)(nil)

// NewTicketRepository creates an empty store. Pass a nil state store to run
// purely in memory.
func NewTicketRepository(state ports.StateStore, logger *slog.Logger) *TicketRepository {
	return &TicketRepository{
		tickets: make(map[string]*entry),
		state:   state,
		logger:  logger.With("component", "ticket_store"),
	}
}

// Hydrate loads the persisted ticket collection, if any. Called once at
// startup before the store is shared; best-effort, never fatal.
func (r *TicketRepository) Hydrate(ctx context.Context) {
	if r.state == nil {
		return
	}

	var tickets []*domain.Ticket
	if err := r.state.Load(ctx, ports.StateKeyTickets, &tickets); err != nil {
		if err != ports.ErrStateNotFound {
			r.logger.Warn("could not load persisted tickets, starting empty", "error", err)
		}
		return
	}

	r.mu.Lock()
	for _, t := range tickets {
		r.tickets[t.ID] = &entry{ticket: t}
	}
	r.mu.Unlock()

	r.logger.Info("hydrated ticket store", "count", len(tickets))
}

// Create registers a new ticket. The aggregate has already been validated by
// domain.NewTicket.
func (r *TicketRepository) Create(ctx context.Context, ticket *domain.Ticket) (*domain.Ticket, error) {
	if ticket == nil || ticket.CustomerID == "" {
		return nil, apperrors.ErrCustomerRequired
	}

	r.mu.Lock()
	r.tickets[ticket.ID] = &entry{ticket: ticket.Clone()}
	r.mu.Unlock()

	r.persist(ctx)
	return ticket.Clone(), nil
}

// Get returns a snapshot of one ticket.
func (r *TicketRepository) Get(ctx context.Context, id string) (*domain.Ticket, error) {
	e, err := r.lookup(id)
	if err != nil {
		return nil, err
	}

	e.mu.Lock()
	snapshot := e.ticket.Clone()
	e.mu.Unlock()
	return snapshot, nil
}

// List returns snapshots of every ticket, ordered by creation time.
func (r *TicketRepository) List(ctx context.Context) ([]*domain.Ticket, error) {
	r.mu.RLock()
	entries := make([]*entry, 0, len(r.tickets))
	for _, e := range r.tickets {
		entries = append(entries, e)
	}
	r.mu.RUnlock()

	out := make([]*domain.Ticket, 0, len(entries))
	for _, e := range entries {
		e.mu.Lock()
		out = append(out, e.ticket.Clone())
		e.mu.Unlock()
	}

	sort.Slice(out, func(i, j int) bool {
		if out[i].CreatedAt.Equal(out[j].CreatedAt) {
			return out[i].ID < out[j].ID
		}
		return out[i].CreatedAt.Before(out[j].CreatedAt)
	})
	return out, nil
}

// AppendMessage appends to the ticket's conversation under its write lock.
func (r *TicketRepository) AppendMessage(ctx context.Context, ticketID string, msg domain.Message) (*domain.Ticket, error) {
	return r.Mutate(ctx, ticketID, func(t *domain.Ticket) error {
		t.AppendMessage(msg)
		return nil
	})
}

// Update merges a partial patch into the ticket under its write lock.
func (r *TicketRepository) Update(ctx context.Context, ticketID string, patch ports.TicketPatch) (*domain.Ticket, error) {
	return r.Mutate(ctx, ticketID, func(t *domain.Ticket) error {
		patch.Apply(t)
		return nil
	})
}

// Mutate runs fn against the live ticket while holding its write lock, then
// persists and returns a snapshot. An error from fn aborts the mutation
// without any partial write.
func (r *TicketRepository) Mutate(ctx context.Context, ticketID string, fn ports.Mutator) (*domain.Ticket, error) {
	e, err := r.lookup(ticketID)
	if err != nil {
		return nil, err
	}

	e.mu.Lock()
	working := e.ticket.Clone()
	if err := fn(working); err != nil {
		e.mu.Unlock()
		return nil, err
	}
	working.UpdatedAt = maxTime(working.UpdatedAt, e.ticket.UpdatedAt)
	e.ticket = working
	snapshot := working.Clone()
	e.mu.Unlock()

	r.persist(ctx)
	return snapshot, nil
}

func (r *TicketRepository) lookup(id string) (*entry, error) {
	r.mu.RLock()
	e, ok := r.tickets[id]
	r.mu.RUnlock()
	if !ok {
		return nil, apperrors.ErrTicketNotFound
	}
	return e, nil
}

// persist mirrors the full collection to the key-value store. Best effort:
// a failure leaves the in-memory state authoritative.
func (r *TicketRepository) persist(ctx context.Context) {
	if r.state == nil {
		return
	}

	tickets, err := r.List(ctx)
	if err != nil {
		return
	}
	if err := r.state.Save(ctx, ports.StateKeyTickets, tickets); err != nil {
		r.logger.Warn("failed to persist tickets, continuing with in-memory state", "error", err)
	}
}

func maxTime(a, b time.Time) time.Time {
	if a.After(b) {
		return a
	}
	return b
}
