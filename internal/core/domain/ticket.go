package domain

import (
	"fmt"
	"sync/atomic"
	"time"

	apperrors "github.com/gauravasodariya/crux-finance/internal/core/errors"
)

// TicketStatus represents the lifecycle state of a ticket.
type TicketStatus string

const (
	StatusOpen       TicketStatus = "open"
	StatusInProgress TicketStatus = "in-progress"
	StatusResolved   TicketStatus = "resolved"
)

// IsValid reports whether the status is one of the known values.
func (s TicketStatus) IsValid() bool {
	switch s {
	case StatusOpen, StatusInProgress, StatusResolved:
		return true
	}
	return false
}

// TicketPriority represents the urgency of a ticket.
type TicketPriority string

const (
	PriorityLow    TicketPriority = "low"
	PriorityMedium TicketPriority = "medium"
	PriorityHigh   TicketPriority = "high"
)

// IsValid reports whether the priority is one of the known values.
func (p TicketPriority) IsValid() bool {
	switch p {
	case PriorityLow, PriorityMedium, PriorityHigh:
		return true
	}
	return false
}

// Well-known category labels. Category is a free-text field; these are the
// values the classifier and the escalation paths assign. The customer-triggered
// and operator-triggered escalation labels intentionally differ.
const (
	CategoryGeneralInquiry = "General Inquiry"
	CategoryAgentRequest   = "Agent Request"
	CategoryEscalation     = "Escalation"
)

// Ticket is the aggregate for a single customer support conversation.
type Ticket struct {
	ID            string         `json:"id"`
	CustomerID    string         `json:"customerId"`
	CustomerName  string         `json:"customerName"`
	CustomerPhone string         `json:"customerPhone"`
	Category      string         `json:"category"`
	Priority      TicketPriority `json:"priority"`
	Status        TicketStatus   `json:"status"`
	Messages      []Message      `json:"messages"`
	AssignedAgent string         `json:"assignedAgent,omitempty"`
	InternalNotes string         `json:"internalNotes"`
	CreatedAt     time.Time      `json:"createdAt"`
	UpdatedAt     time.Time      `json:"updatedAt"`

	// Lifecycle timestamps, set by the corresponding commands.
	FirstResponseAt *time.Time    `json:"firstResponseAt,omitempty"`
	ResolvedAt      *time.Time    `json:"resolvedAt,omitempty"`
	ResolutionTime  time.Duration `json:"resolutionTime,omitempty"`
	EscalatedAt     *time.Time    `json:"escalatedAt,omitempty"`
	EscalatedBy     string        `json:"escalatedBy,omitempty"`
	TransferredAt   *time.Time    `json:"transferredAt,omitempty"`
	TransferredBy   string        `json:"transferredBy,omitempty"`
}

var ticketSeq atomic.Int64

func init() {
	ticketSeq.Store(time.Now().UnixMilli())
}

// NextTicketID allocates a process-unique ticket ID.
func NextTicketID() string {
	return fmt.Sprintf("TKT-%d", ticketSeq.Add(1))
}

// NewTicket creates an open ticket for the given customer.
func NewTicket(customer *Customer, category string, priority TicketPriority) (*Ticket, error) {
	if customer == nil || customer.ID == "" {
		return nil, apperrors.ErrCustomerRequired
	}
	if category == "" {
		category = CategoryGeneralInquiry
	}
	if !priority.IsValid() {
		return nil, apperrors.ErrInvalidPriority
	}

	now := time.Now().UTC()
	return &Ticket{
		ID:            NextTicketID(),
		CustomerID:    customer.ID,
		CustomerName:  customer.Name,
		CustomerPhone: customer.Phone,
		Category:      category,
		Priority:      priority,
		Status:        StatusOpen,
		Messages:      []Message{},
		CreatedAt:     now,
		UpdatedAt:     now,
	}, nil
}

// AppendMessage appends to the conversation and refreshes UpdatedAt. The
// message sequence is append-only and non-decreasing in CreatedAt; a message
// whose stamp predates the current tail is clamped to the tail's stamp so the
// ordering invariant holds even across clock jitter.
func (t *Ticket) AppendMessage(msg Message) {
	if n := len(t.Messages); n > 0 && msg.CreatedAt.Before(t.Messages[n-1].CreatedAt) {
		msg.CreatedAt = t.Messages[n-1].CreatedAt
	}
	t.Messages = append(t.Messages, msg)
	t.touch()
}

// LastMessage returns the most recent message, or nil for an empty conversation.
func (t *Ticket) LastMessage() *Message {
	if len(t.Messages) == 0 {
		return nil
	}
	return &t.Messages[len(t.Messages)-1]
}

// Resolve closes out the ticket: status resolved, priority dropped to low,
// resolution time measured from creation. Re-resolving overwrites ResolvedAt
// and ResolutionTime; CreatedAt is never touched.
func (t *Ticket) Resolve() {
	now := time.Now().UTC()
	t.Status = StatusResolved
	t.Priority = PriorityLow
	t.ResolvedAt = &now
	t.ResolutionTime = now.Sub(t.CreatedAt)
	t.touch()
}

// Escalate is the operator-triggered escalation: the ticket is forced into
// in-progress at high priority under the "Escalation" label.
func (t *Ticket) Escalate(byAgent string) {
	now := time.Now().UTC()
	t.Status = StatusInProgress
	t.Priority = PriorityHigh
	t.Category = CategoryEscalation
	t.EscalatedAt = &now
	t.EscalatedBy = byAgent
	t.touch()
}

// Transfer reassigns the ticket to another agent and stamps the transfer.
func (t *Ticket) Transfer(toAgent, byAgent string) {
	now := time.Now().UTC()
	t.AssignedAgent = toAgent
	t.TransferredAt = &now
	t.TransferredBy = byAgent
	t.touch()
}

// RecordFirstResponse applies the side effects of the first agent reply on an
// open ticket: transition to in-progress, stamp FirstResponseAt if unset, and
// claim the ticket for the replying agent if it is unassigned.
func (t *Ticket) RecordFirstResponse(agent string) {
	if t.Status == StatusOpen {
		t.Status = StatusInProgress
	}
	if t.FirstResponseAt == nil {
		now := time.Now().UTC()
		t.FirstResponseAt = &now
	}
	if t.AssignedAgent == "" {
		t.AssignedAgent = agent
	}
	t.touch()
}

// AppendNote appends a note line to the internal notes field.
func (t *Ticket) AppendNote(note string) {
	if t.InternalNotes != "" {
		t.InternalNotes += "\n"
	}
	t.InternalNotes += "[Note] " + note
	t.touch()
}

// IsAssignedTo reports whether the ticket is assigned to the given agent.
func (t *Ticket) IsAssignedTo(agent string) bool {
	return t.AssignedAgent != "" && t.AssignedAgent == agent
}

// Clone returns a deep copy. Projections and observers work over clones so
// they can never see a half-applied mutation.
func (t *Ticket) Clone() *Ticket {
	c := *t
	c.Messages = make([]Message, len(t.Messages))
	copy(c.Messages, t.Messages)
	if t.FirstResponseAt != nil {
		ts := *t.FirstResponseAt
		c.FirstResponseAt = &ts
	}
	if t.ResolvedAt != nil {
		ts := *t.ResolvedAt
		c.ResolvedAt = &ts
	}
	if t.EscalatedAt != nil {
		ts := *t.EscalatedAt
		c.EscalatedAt = &ts
	}
	if t.TransferredAt != nil {
		ts := *t.TransferredAt
		c.TransferredAt = &ts
	}
	return &c
}

func (t *Ticket) touch() {
	t.UpdatedAt = time.Now().UTC()
}
