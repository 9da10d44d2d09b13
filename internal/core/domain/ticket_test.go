package domain

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	apperrors "github.com/gauravasodariya/crux-finance/internal/core/errors"
)

func testCustomer() *Customer {
	return &Customer{ID: "C001", Name: "Gaurav Asodariya", Phone: "8799300210"}
}

func TestNewTicket(t *testing.T) {
	ticket, err := NewTicket(testCustomer(), "Loan Application", PriorityMedium)
	require.NoError(t, err)

	assert.True(t, len(ticket.ID) > 4)
	assert.Equal(t, "C001", ticket.CustomerID)
	assert.Equal(t, "Gaurav Asodariya", ticket.CustomerName)
	assert.Equal(t, StatusOpen, ticket.Status)
	assert.Empty(t, ticket.Messages)
	assert.Nil(t, ticket.FirstResponseAt)
}

func TestNewTicket_DefaultsCategory(t *testing.T) {
	ticket, err := NewTicket(testCustomer(), "", PriorityLow)
	require.NoError(t, err)
	assert.Equal(t, CategoryGeneralInquiry, ticket.Category)
}

func TestNewTicket_RequiresCustomer(t *testing.T) {
	_, err := NewTicket(nil, "x", PriorityLow)
	assert.ErrorIs(t, err, apperrors.ErrCustomerRequired)

	_, err = NewTicket(&Customer{}, "x", PriorityLow)
	assert.ErrorIs(t, err, apperrors.ErrCustomerRequired)
}

func TestNewTicket_RejectsInvalidPriority(t *testing.T) {
	_, err := NewTicket(testCustomer(), "x", TicketPriority("urgent"))
	assert.ErrorIs(t, err, apperrors.ErrInvalidPriority)
}

func TestNextTicketID_Unique(t *testing.T) {
	seen := make(map[string]bool)
	for i := 0; i < 100; i++ {
		id := NextTicketID()
		assert.False(t, seen[id], "duplicate id %s", id)
		seen[id] = true
	}
}

func TestTicket_AppendMessage(t *testing.T) {
	ticket, _ := NewTicket(testCustomer(), "", PriorityMedium)
	before := ticket.UpdatedAt

	ticket.AppendMessage(NewMessage("C001", RoleCustomer, "hello", false))

	require.Len(t, ticket.Messages, 1)
	assert.Equal(t, "hello", ticket.Messages[0].Content)
	assert.False(t, ticket.UpdatedAt.Before(before))
}

func TestTicket_AppendMessage_ClampsBackdatedStamp(t *testing.T) {
	ticket, _ := NewTicket(testCustomer(), "", PriorityMedium)

	first := NewMessage("C001", RoleCustomer, "first", false)
	ticket.AppendMessage(first)

	backdated := NewMessage("bot", RoleBot, "second", true)
	backdated.CreatedAt = first.CreatedAt.Add(-time.Minute)
	ticket.AppendMessage(backdated)

	require.Len(t, ticket.Messages, 2)
	assert.Equal(t, ticket.Messages[0].CreatedAt, ticket.Messages[1].CreatedAt)
}

func TestTicket_LastMessage(t *testing.T) {
	ticket, _ := NewTicket(testCustomer(), "", PriorityMedium)
	assert.Nil(t, ticket.LastMessage())

	ticket.AppendMessage(NewMessage("C001", RoleCustomer, "a", false))
	ticket.AppendMessage(NewMessage("bot", RoleBot, "b", true))

	require.NotNil(t, ticket.LastMessage())
	assert.Equal(t, "b", ticket.LastMessage().Content)
}

func TestTicket_Resolve(t *testing.T) {
	ticket, _ := NewTicket(testCustomer(), "", PriorityHigh)
	ticket.CreatedAt = time.Now().UTC().Add(-time.Hour)

	ticket.Resolve()

	assert.Equal(t, StatusResolved, ticket.Status)
	assert.Equal(t, PriorityLow, ticket.Priority)
	require.NotNil(t, ticket.ResolvedAt)
	assert.InDelta(t, time.Hour.Seconds(), ticket.ResolutionTime.Seconds(), 5)
}

func TestTicket_Escalate(t *testing.T) {
	ticket, _ := NewTicket(testCustomer(), "Status Check", PriorityLow)

	ticket.Escalate("amit.kumar")

	assert.Equal(t, StatusInProgress, ticket.Status)
	assert.Equal(t, PriorityHigh, ticket.Priority)
	assert.Equal(t, CategoryEscalation, ticket.Category)
	assert.Equal(t, "amit.kumar", ticket.EscalatedBy)
	require.NotNil(t, ticket.EscalatedAt)
}

func TestTicket_Transfer(t *testing.T) {
	ticket, _ := NewTicket(testCustomer(), "", PriorityMedium)
	ticket.AssignedAgent = "amit.kumar"

	ticket.Transfer("sneha.singh", "amit.kumar")

	assert.Equal(t, "sneha.singh", ticket.AssignedAgent)
	assert.Equal(t, "amit.kumar", ticket.TransferredBy)
	require.NotNil(t, ticket.TransferredAt)
}

func TestTicket_RecordFirstResponse(t *testing.T) {
	ticket, _ := NewTicket(testCustomer(), "", PriorityMedium)

	ticket.RecordFirstResponse("amit.kumar")

	assert.Equal(t, StatusInProgress, ticket.Status)
	assert.Equal(t, "amit.kumar", ticket.AssignedAgent)
	require.NotNil(t, ticket.FirstResponseAt)
	stamp := *ticket.FirstResponseAt

	// A later reply by another agent keeps the original stamp and owner.
	ticket.RecordFirstResponse("sneha.singh")
	assert.Equal(t, "amit.kumar", ticket.AssignedAgent)
	assert.Equal(t, stamp, *ticket.FirstResponseAt)
}

func TestTicket_AppendNote(t *testing.T) {
	ticket, _ := NewTicket(testCustomer(), "", PriorityMedium)

	ticket.AppendNote("called the customer")
	ticket.AppendNote("waiting on documents")

	assert.Equal(t, "[Note] called the customer\n[Note] waiting on documents", ticket.InternalNotes)
}

func TestTicket_Clone_Isolation(t *testing.T) {
	ticket, _ := NewTicket(testCustomer(), "", PriorityMedium)
	ticket.AppendMessage(NewMessage("C001", RoleCustomer, "hello", false))
	ticket.Resolve()

	clone := ticket.Clone()
	clone.Messages[0].Content = "mutated"
	clone.AppendMessage(NewMessage("bot", RoleBot, "extra", true))
	*clone.ResolvedAt = clone.ResolvedAt.Add(time.Hour)

	assert.Equal(t, "hello", ticket.Messages[0].Content)
	assert.Len(t, ticket.Messages, 1)
	assert.NotEqual(t, *ticket.ResolvedAt, *clone.ResolvedAt)
}

func TestSession_ActorID(t *testing.T) {
	cust := &Session{UserType: UserTypeCustomer, Customer: testCustomer()}
	assert.Equal(t, "C001", cust.ActorID())

	agent := &Session{UserType: UserTypeAgent, Agent: &Agent{Username: "amit.kumar"}}
	assert.Equal(t, "amit.kumar", agent.ActorID())

	assert.Equal(t, "", (&Session{UserType: UserTypeAgent}).ActorID())
}

func TestNotification_ExpiresAt(t *testing.T) {
	n := NewNotification("saved", NotifySuccess)
	assert.Equal(t, n.CreatedAt.Add(NotificationTTL), n.ExpiresAt())
	assert.NotEmpty(t, n.ID)
}
