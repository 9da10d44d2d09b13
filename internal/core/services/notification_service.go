package services

import (
	"fmt"
	"log/slog"
	"sync"

	"github.com/gauravasodariya/crux-finance/internal/core/domain"
	"github.com/gauravasodariya/crux-finance/internal/core/ports"
)

const notificationOwner = "notifications"

// watch tracks one dashboard session. lastCounts remembers how many messages
// of each ticket the agent has already been told about, so a burst of
// messages produces a single alert.
type watch struct {
	lastCounts   map[string]int
	soundEnabled bool
}

// NotificationService owns the transient per-operator notifications. Each
// notification lives for a fixed TTL, is pushed over the websocket to its
// agent and then expires on a scheduler timer. The message-delta observer
// raises an info alert when a customer writes into a ticket the watching
// agent owns.
type NotificationService struct {
	mu          sync.Mutex
	active      map[string][]domain.Notification
	watches     map[string]*watch
	scheduler   *Scheduler
	broadcaster ports.EventBroadcaster
	logger      *slog.Logger
}

var _ ports.NotificationService = (*NotificationService)(nil)

// NewNotificationService creates a new dispatcher.
func NewNotificationService(scheduler *Scheduler, broadcaster ports.EventBroadcaster, logger *slog.Logger) *NotificationService {
	return &NotificationService{
		active:      make(map[string][]domain.Notification),
		watches:     make(map[string]*watch),
		scheduler:   scheduler,
		broadcaster: broadcaster,
		logger:      logger.With("component", "notifications"),
	}
}

// StartWatch registers an agent's dashboard session. Message counts start
// from zero, matching a freshly opened dashboard; sound starts enabled.
func (s *NotificationService) StartWatch(agent string) {
	s.mu.Lock()
	if _, ok := s.watches[agent]; !ok {
		s.watches[agent] = &watch{
			lastCounts:   make(map[string]int),
			soundEnabled: true,
		}
	}
	s.mu.Unlock()
}

// StopWatch drops the agent's session state and any notifications still on
// screen.
func (s *NotificationService) StopWatch(agent string) {
	s.mu.Lock()
	delete(s.watches, agent)
	delete(s.active, agent)
	s.mu.Unlock()
}

// SetSoundEnabled toggles the audible cue for one agent's pushes.
func (s *NotificationService) SetSoundEnabled(agent string, enabled bool) {
	s.mu.Lock()
	if w, ok := s.watches[agent]; ok {
		w.soundEnabled = enabled
	}
	s.mu.Unlock()
}

// Emit fires a notification at one agent. It shows for domain.NotificationTTL
// and then removes itself.
func (s *NotificationService) Emit(agent, message string, kind domain.NotificationKind) {
	n := domain.NewNotification(message, kind)

	s.mu.Lock()
	s.active[agent] = append(s.active[agent], n)
	sound := false
	if w, ok := s.watches[agent]; ok {
		sound = w.soundEnabled && kind != domain.NotifyInfo
	}
	s.mu.Unlock()

	s.scheduler.Schedule(notificationOwner, agent+"/"+n.ID, domain.NotificationTTL, func() {
		s.expire(agent, n.ID)
	})

	s.push(agent, n, sound)
}

// Active returns the agent's not-yet-expired notifications, oldest first.
func (s *NotificationService) Active(agent string) []domain.Notification {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([]domain.Notification, len(s.active[agent]))
	copy(out, s.active[agent])
	return out
}

// ObserveTicket compares the ticket's message count against what each
// watching agent last saw. A fresh customer message on a ticket the agent
// owns raises one info alert no matter how many messages arrived in the
// burst.
func (s *NotificationService) ObserveTicket(ticket *domain.Ticket) {
	var alerted []string
	now := timeNow()

	s.mu.Lock()
	for agent, w := range s.watches {
		lastCount := w.lastCounts[ticket.ID]
		count := len(ticket.Messages)
		if count > lastCount {
			fresh := false
			for _, m := range ticket.Messages[lastCount:] {
				if m.SenderRole == domain.RoleCustomer && now.Sub(m.CreatedAt) < domain.NotificationTTL {
					fresh = true
					break
				}
			}
			if fresh && ticket.AssignedAgent == agent {
				alerted = append(alerted, agent)
			}
		}
		w.lastCounts[ticket.ID] = count
	}
	s.mu.Unlock()

	for _, agent := range alerted {
		s.Emit(agent, fmt.Sprintf("New message from %s", ticket.CustomerName), domain.NotifyInfo)
	}
}

func (s *NotificationService) push(agent string, n domain.Notification, sound bool) {
	event := domain.Event{
		Type:    domain.EventNotification,
		Payload: domain.NotificationPayload{Notification: n, Sound: sound},
	}
	s.broadcaster.SendToUser(agent, event)
}

func (s *NotificationService) expire(agent, id string) {
	s.mu.Lock()
	list := s.active[agent]
	for i, n := range list {
		if n.ID == id {
			s.active[agent] = append(list[:i], list[i+1:]...)
			break
		}
	}
	s.mu.Unlock()
}
