// Package services contains the application services that drive ticket
// lifecycle, chat, queue projection and notification fan-out.
package services

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/gauravasodariya/crux-finance/internal/core/domain"
	apperrors "github.com/gauravasodariya/crux-finance/internal/core/errors"
	"github.com/gauravasodariya/crux-finance/internal/core/ports"
)

// TicketService implements the operator-facing ticket commands. Every
// mutation goes through the repository's per-ticket serialization, then the
// resulting snapshot is broadcast and handed to the notification observer.
type TicketService struct {
	repo        ports.TicketRepository
	directory   ports.DirectoryRepository
	notifier    ports.NotificationService
	broadcaster ports.EventBroadcaster
	logger      *slog.Logger
}

var _ ports.TicketService = (*TicketService)(nil)

// NewTicketService creates a new ticket service.
func NewTicketService(
	repo ports.TicketRepository,
	directory ports.DirectoryRepository,
	notifier ports.NotificationService,
	broadcaster ports.EventBroadcaster,
	logger *slog.Logger,
) *TicketService {
	return &TicketService{
		repo:        repo,
		directory:   directory,
		notifier:    notifier,
		broadcaster: broadcaster,
		logger:      logger.With("component", "ticket_service"),
	}
}

// CreateTicket opens a new ticket for a customer, optionally seeded with an
// initial message.
func (s *TicketService) CreateTicket(ctx context.Context, params ports.CreateTicketParams) (*domain.Ticket, error) {
	customer, err := s.directory.GetCustomer(ctx, params.CustomerID)
	if err != nil {
		return nil, err
	}

	ticket, err := domain.NewTicket(customer, params.Category, params.Priority)
	if err != nil {
		return nil, err
	}
	if params.Agent != "" {
		ticket.AssignedAgent = params.Agent
	}
	if params.InitialMessage != "" {
		ticket.AppendMessage(domain.NewMessage(customer.ID, domain.RoleCustomer, params.InitialMessage, false))
	}

	created, err := s.repo.Create(ctx, ticket)
	if err != nil {
		return nil, err
	}

	s.logger.Info("ticket created", "ticket_id", created.ID, "customer_id", created.CustomerID, "category", created.Category)
	s.publish(domain.EventTicketCreated, created)
	return created, nil
}

// GetTicket returns a snapshot of one ticket.
func (s *TicketService) GetTicket(ctx context.Context, ticketID string) (*domain.Ticket, error) {
	return s.repo.Get(ctx, ticketID)
}

// SendReply appends an agent message to the conversation. The first reply
// on an open ticket moves it to in-progress, stamps the first response time
// and assigns the replying agent if nobody owns the ticket yet.
func (s *TicketService) SendReply(ctx context.Context, ticketID, agent, content string) (*domain.Ticket, error) {
	if content == "" {
		return nil, apperrors.ErrEmptyMessage
	}

	updated, err := s.repo.Mutate(ctx, ticketID, func(t *domain.Ticket) error {
		t.AppendMessage(domain.NewMessage(agent, domain.RoleAgent, content, true))
		t.RecordFirstResponse(agent)
		return nil
	})
	if err != nil {
		return nil, err
	}

	s.notifier.Emit(agent, "Message sent successfully", domain.NotifySuccess)
	s.publish(domain.EventMessageAdded, updated)
	return updated, nil
}

// Resolve closes a ticket and records its resolution time.
func (s *TicketService) Resolve(ctx context.Context, ticketID, agent string) (*domain.Ticket, error) {
	updated, err := s.repo.Mutate(ctx, ticketID, func(t *domain.Ticket) error {
		t.Resolve()
		return nil
	})
	if err != nil {
		return nil, err
	}

	s.logger.Info("ticket resolved", "ticket_id", updated.ID, "by", agent, "resolution_time", updated.ResolutionTime)
	s.notifier.Emit(agent, fmt.Sprintf("Ticket %s resolved successfully", updated.ID), domain.NotifySuccess)
	s.publish(domain.EventTicketUpdated, updated)
	return updated, nil
}

// Escalate raises a ticket to high priority under the Escalation category.
func (s *TicketService) Escalate(ctx context.Context, ticketID, agent string) (*domain.Ticket, error) {
	updated, err := s.repo.Mutate(ctx, ticketID, func(t *domain.Ticket) error {
		t.Escalate(agent)
		return nil
	})
	if err != nil {
		return nil, err
	}

	s.logger.Info("ticket escalated", "ticket_id", updated.ID, "by", agent)
	s.notifier.Emit(agent, fmt.Sprintf("Ticket %s escalated to high priority", updated.ID), domain.NotifyWarning)
	s.publish(domain.EventTicketUpdated, updated)
	return updated, nil
}

// Transfer hands the ticket to the first available agent in the directory
// whose username differs from the acting agent. When no such agent exists
// the ticket is left untouched and a warning notification is emitted instead
// of an error.
func (s *TicketService) Transfer(ctx context.Context, ticketID, agent string) (*domain.Ticket, error) {
	agents, err := s.directory.ListAgents(ctx)
	if err != nil {
		return nil, err
	}

	var next *domain.Agent
	for _, a := range agents {
		if a.Username != agent && a.IsAvailable() {
			next = a
			break
		}
	}
	if next == nil {
		s.notifier.Emit(agent, "No available agent to transfer this ticket", domain.NotifyWarning)
		return s.repo.Get(ctx, ticketID)
	}

	updated, err := s.repo.Mutate(ctx, ticketID, func(t *domain.Ticket) error {
		t.Transfer(next.Username, agent)
		return nil
	})
	if err != nil {
		return nil, err
	}

	s.notifier.Emit(agent, fmt.Sprintf("Ticket %s transferred to %s", updated.ID, next.Username), domain.NotifyInfo)
	s.publish(domain.EventTicketUpdated, updated)
	return updated, nil
}

// Assign sets the owning agent directly, without transfer bookkeeping.
func (s *TicketService) Assign(ctx context.Context, ticketID, toAgent, byAgent string) (*domain.Ticket, error) {
	if _, err := s.directory.GetAgent(ctx, toAgent); err != nil {
		return nil, err
	}

	updated, err := s.repo.Update(ctx, ticketID, ports.TicketPatch{AssignedAgent: &toAgent})
	if err != nil {
		return nil, err
	}

	s.logger.Info("ticket assigned", "ticket_id", updated.ID, "to", toAgent, "by", byAgent)
	s.notifier.Emit(byAgent, fmt.Sprintf("Ticket %s assigned to %s", updated.ID, toAgent), domain.NotifyInfo)
	s.publish(domain.EventTicketUpdated, updated)
	return updated, nil
}

// SaveNote appends an internal note. Notes are operator-only and never reach
// the customer conversation.
func (s *TicketService) SaveNote(ctx context.Context, ticketID, agent, note string) (*domain.Ticket, error) {
	if note == "" {
		return nil, apperrors.ErrEmptyNote
	}

	updated, err := s.repo.Mutate(ctx, ticketID, func(t *domain.Ticket) error {
		t.AppendNote(note)
		return nil
	})
	if err != nil {
		return nil, err
	}

	s.notifier.Emit(agent, "Note saved successfully", domain.NotifySuccess)
	s.publish(domain.EventTicketUpdated, updated)
	return updated, nil
}

// BulkResolve resolves every ticket in ticketIDs that is not already
// resolved and reports how many were touched. Unknown IDs are skipped, not
// fatal; the summary notification counts the whole selection, matching the
// single line the operator sees.
func (s *TicketService) BulkResolve(ctx context.Context, ticketIDs []string, agent string) (int, error) {
	resolved := 0
	for _, id := range ticketIDs {
		updated, err := s.repo.Mutate(ctx, id, func(t *domain.Ticket) error {
			if t.Status == domain.StatusResolved {
				return nil
			}
			now := timeNow()
			t.Status = domain.StatusResolved
			t.ResolvedAt = &now
			return nil
		})
		if err != nil {
			s.logger.Warn("bulk resolve skipped ticket", "ticket_id", id, "error", err)
			continue
		}
		resolved++
		s.publish(domain.EventTicketUpdated, updated)
	}

	s.notifier.Emit(agent, fmt.Sprintf("%d tickets resolved", len(ticketIDs)), domain.NotifySuccess)
	return resolved, nil
}

// BulkTransfer reassigns every ticket in ticketIDs to toAgent and reports
// how many were touched.
func (s *TicketService) BulkTransfer(ctx context.Context, ticketIDs []string, toAgent, byAgent string) (int, error) {
	if _, err := s.directory.GetAgent(ctx, toAgent); err != nil {
		return 0, err
	}

	transferred := 0
	for _, id := range ticketIDs {
		updated, err := s.repo.Mutate(ctx, id, func(t *domain.Ticket) error {
			t.Transfer(toAgent, byAgent)
			return nil
		})
		if err != nil {
			s.logger.Warn("bulk transfer skipped ticket", "ticket_id", id, "error", err)
			continue
		}
		transferred++
		s.publish(domain.EventTicketUpdated, updated)
	}

	s.notifier.Emit(byAgent, fmt.Sprintf("%d tickets transferred to %s", len(ticketIDs), toAgent), domain.NotifyInfo)
	return transferred, nil
}

// publish fans a ticket snapshot out to websocket subscribers and the
// notification observer. Broadcast runs on its own goroutine so a slow
// subscriber never blocks the command path.
func (s *TicketService) publish(eventType domain.EventType, ticket *domain.Ticket) {
	event := domain.Event{Type: eventType, TicketID: ticket.ID, Payload: ticket}
	go func() {
		if err := s.broadcaster.Broadcast(event); err != nil {
			s.logger.Warn("broadcast failed", "event", event.Type, "ticket_id", ticket.ID, "error", err)
		}
	}()

	s.notifier.ObserveTicket(ticket)
}
