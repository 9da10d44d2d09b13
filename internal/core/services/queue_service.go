package services

import (
	"context"
	"sort"
	"strings"

	"github.com/gauravasodariya/crux-finance/internal/core/domain"
	"github.com/gauravasodariya/crux-finance/internal/core/ports"
)

// QueueService projects the ticket collection into the ordered list an
// operator sees. Projection is pure over a snapshot: a status filter, then a
// queue selector, then a free-text search, then a sort.
type QueueService struct {
	repo ports.TicketRepository
}

var _ ports.QueueService = (*QueueService)(nil)

// NewQueueService creates a new queue projection service.
func NewQueueService(repo ports.TicketRepository) *QueueService {
	return &QueueService{repo: repo}
}

var priorityRank = map[domain.TicketPriority]int{
	domain.PriorityHigh:   3,
	domain.PriorityMedium: 2,
	domain.PriorityLow:    1,
}

// statusRank keeps a slot for a waiting status that tickets never carry.
// Open sorts first, resolved last.
var statusRank = map[domain.TicketStatus]int{
	domain.StatusOpen:       4,
	domain.StatusInProgress: 3,
	"waiting":               2,
	domain.StatusResolved:   1,
}

// Project returns the tickets matching query, ordered per query.SortBy.
func (s *QueueService) Project(ctx context.Context, query ports.QueueQuery) ([]*domain.Ticket, error) {
	tickets, err := s.repo.List(ctx)
	if err != nil {
		return nil, err
	}

	result := make([]*domain.Ticket, 0, len(tickets))
	for _, t := range tickets {
		if !matchesStatus(t, query.StatusFilter) {
			continue
		}
		if !matchesQueue(t, query.Queue, query.Agent) {
			continue
		}
		if !matchesSearch(t, query.Search) {
			continue
		}
		result = append(result, t)
	}

	sortTickets(result, query.SortBy)
	return result, nil
}

func matchesStatus(t *domain.Ticket, filter string) bool {
	if filter == "" || filter == ports.FilterAll {
		return true
	}
	return string(t.Status) == filter
}

func matchesQueue(t *domain.Ticket, queue, agent string) bool {
	switch queue {
	case "", ports.QueueAll:
		return true
	case ports.QueueUnassigned:
		return t.AssignedAgent == ""
	case ports.QueueMyOpen:
		return t.AssignedAgent == agent && t.Status != domain.StatusResolved
	case ports.QueueWaiting:
		last := t.LastMessage()
		return last != nil && last.SenderRole == domain.RoleAgent && t.Status != domain.StatusResolved
	case ports.QueueEscalations:
		return t.Priority == domain.PriorityHigh ||
			strings.Contains(strings.ToLower(t.Category), "escalation")
	default:
		return true
	}
}

// matchesSearch scans customer name, phone, category and every message body.
// An empty needle matches everything.
func matchesSearch(t *domain.Ticket, search string) bool {
	if search == "" {
		return true
	}
	q := strings.ToLower(search)

	if strings.Contains(strings.ToLower(t.CustomerName), q) ||
		strings.Contains(strings.ToLower(t.CustomerPhone), q) ||
		strings.Contains(strings.ToLower(t.Category), q) {
		return true
	}
	for _, m := range t.Messages {
		if strings.Contains(strings.ToLower(m.Content), q) {
			return true
		}
	}
	return false
}

// sortTickets orders in place. The sort is stable so tickets tied on the
// sort key keep their creation order.
func sortTickets(tickets []*domain.Ticket, sortBy string) {
	switch sortBy {
	case ports.SortOldest:
		sort.SliceStable(tickets, func(i, j int) bool {
			return tickets[i].CreatedAt.Before(tickets[j].CreatedAt)
		})
	case ports.SortPriority:
		sort.SliceStable(tickets, func(i, j int) bool {
			return priorityRank[tickets[i].Priority] > priorityRank[tickets[j].Priority]
		})
	case ports.SortStatus:
		sort.SliceStable(tickets, func(i, j int) bool {
			return statusRank[tickets[i].Status] > statusRank[tickets[j].Status]
		})
	default: // ports.SortNewest
		sort.SliceStable(tickets, func(i, j int) bool {
			return tickets[i].CreatedAt.After(tickets[j].CreatedAt)
		})
	}
}
