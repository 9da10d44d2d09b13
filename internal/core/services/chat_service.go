package services

import (
	"context"
	"log/slog"
	"time"

	"github.com/gauravasodariya/crux-finance/internal/core/bot"
	"github.com/gauravasodariya/crux-finance/internal/core/domain"
	apperrors "github.com/gauravasodariya/crux-finance/internal/core/errors"
	"github.com/gauravasodariya/crux-finance/internal/core/ports"
)

// botSenderID is the sender recorded on automated replies.
const botSenderID = "bot"

// Timer slot names, one pending bot action per ticket.
const slotBotReply = "bot_reply"

// ChatService drives the customer side of a conversation. Incoming messages
// are classified immediately; the bot's reply or the hand-off to a human
// agent lands after a short typing delay on a scheduler timer, so a
// disconnect can still cancel it.
type ChatService struct {
	repo         ports.TicketRepository
	directory    ports.DirectoryRepository
	notifier     ports.NotificationService
	broadcaster  ports.EventBroadcaster
	scheduler    *Scheduler
	botDelay     time.Duration
	handoffDelay time.Duration
	logger       *slog.Logger
}

var _ ports.ChatService = (*ChatService)(nil)

// NewChatService creates a new chat service.
func NewChatService(
	repo ports.TicketRepository,
	directory ports.DirectoryRepository,
	notifier ports.NotificationService,
	broadcaster ports.EventBroadcaster,
	scheduler *Scheduler,
	botDelay, handoffDelay time.Duration,
	logger *slog.Logger,
) *ChatService {
	return &ChatService{
		repo:         repo,
		directory:    directory,
		notifier:     notifier,
		broadcaster:  broadcaster,
		scheduler:    scheduler,
		botDelay:     botDelay,
		handoffDelay: handoffDelay,
		logger:       logger.With("component", "chat_service"),
	}
}

// StartConversation returns the customer's active ticket, creating one with
// the bot's welcome message when no unresolved ticket exists. A customer has
// at most one active conversation at a time.
func (s *ChatService) StartConversation(ctx context.Context, customerID string) (*domain.Ticket, error) {
	customer, err := s.directory.GetCustomer(ctx, customerID)
	if err != nil {
		return nil, err
	}

	tickets, err := s.repo.List(ctx)
	if err != nil {
		return nil, err
	}
	for _, t := range tickets {
		if t.CustomerID == customerID && t.Status != domain.StatusResolved {
			return t, nil
		}
	}

	ticket, err := domain.NewTicket(customer, domain.CategoryGeneralInquiry, domain.PriorityMedium)
	if err != nil {
		return nil, err
	}
	ticket.AppendMessage(domain.NewMessage(botSenderID, domain.RoleBot, bot.Reply("hello"), true))

	created, err := s.repo.Create(ctx, ticket)
	if err != nil {
		return nil, err
	}

	s.logger.Info("conversation started", "ticket_id", created.ID, "customer_id", customerID)
	s.publish(domain.EventTicketCreated, created)
	return created, nil
}

// HandleMessage records a customer message, reclassifies the ticket and arms
// the bot's follow-up. Messages asking for a human schedule a hand-off; all
// others schedule a canned reply.
func (s *ChatService) HandleMessage(ctx context.Context, ticketID, customerID, content string) (*domain.Ticket, error) {
	if content == "" {
		return nil, apperrors.ErrEmptyMessage
	}

	result := bot.Classify(content)

	updated, err := s.repo.Mutate(ctx, ticketID, func(t *domain.Ticket) error {
		if t.CustomerID != customerID {
			return apperrors.ErrUnauthorized
		}
		t.AppendMessage(domain.NewMessage(customerID, domain.RoleCustomer, content, false))
		t.Category = result.Category
		return nil
	})
	if err != nil {
		return nil, err
	}

	s.publish(domain.EventMessageAdded, updated)

	if result.Escalate {
		s.scheduler.Schedule(ticketID, slotBotReply, s.handoffDelay, func() {
			s.deliverHandoff(context.Background(), ticketID)
		})
	} else {
		reply := result.Reply
		s.scheduler.Schedule(ticketID, slotBotReply, s.botDelay, func() {
			s.deliverBotReply(context.Background(), ticketID, reply)
		})
	}

	return updated, nil
}

// CancelPendingForCustomer drops the armed bot action on the customer's open
// conversation, so no reply lands after logout. Keyed by customer rather
// than by ticket because the session may never have recorded an active
// ticket; the conversation is found by the one-unresolved-ticket-per-customer
// rule instead.
func (s *ChatService) CancelPendingForCustomer(ctx context.Context, customerID string) {
	tickets, err := s.repo.List(ctx)
	if err != nil {
		s.logger.Warn("pending cancel skipped", "customer_id", customerID, "error", err)
		return
	}
	for _, t := range tickets {
		if t.CustomerID == customerID && t.Status != domain.StatusResolved {
			s.scheduler.CancelOwner(t.ID)
		}
	}
}

// deliverBotReply lands the canned reply as a bot message.
func (s *ChatService) deliverBotReply(ctx context.Context, ticketID, reply string) {
	updated, err := s.repo.AppendMessage(ctx, ticketID, domain.NewMessage(botSenderID, domain.RoleBot, reply, true))
	if err != nil {
		s.logger.Warn("bot reply dropped", "ticket_id", ticketID, "error", err)
		return
	}

	s.publish(domain.EventMessageAdded, updated)
}

// deliverHandoff posts the connecting message and flips the ticket into the
// human support queue: in-progress, high priority, Agent Request category.
func (s *ChatService) deliverHandoff(ctx context.Context, ticketID string) {
	updated, err := s.repo.Mutate(ctx, ticketID, func(t *domain.Ticket) error {
		t.AppendMessage(domain.NewMessage(botSenderID, domain.RoleBot, bot.HandoffMessage, true))
		t.Status = domain.StatusInProgress
		t.Priority = domain.PriorityHigh
		t.Category = domain.CategoryAgentRequest
		return nil
	})
	if err != nil {
		s.logger.Warn("handoff dropped", "ticket_id", ticketID, "error", err)
		return
	}

	s.logger.Info("conversation handed off", "ticket_id", ticketID)
	s.publish(domain.EventTicketUpdated, updated)
}

// publish mirrors the command-side fan-out: async broadcast plus the
// notification observer.
func (s *ChatService) publish(eventType domain.EventType, ticket *domain.Ticket) {
	event := domain.Event{Type: eventType, TicketID: ticket.ID, Payload: ticket}
	go func() {
		if err := s.broadcaster.Broadcast(event); err != nil {
			s.logger.Warn("broadcast failed", "event", event.Type, "ticket_id", ticket.ID, "error", err)
		}
	}()

	s.notifier.ObserveTicket(ticket)
}
