package domain

import (
	"fmt"
	"sync/atomic"
	"time"
)

// SenderRole identifies who authored a chat message.
type SenderRole string

const (
	RoleCustomer SenderRole = "customer"
	RoleBot      SenderRole = "bot"
	RoleAgent    SenderRole = "agent"
)

// IsValid reports whether the role is one of the known sender roles.
func (r SenderRole) IsValid() bool {
	switch r {
	case RoleCustomer, RoleBot, RoleAgent:
		return true
	}
	return false
}

// Message is a single chat message inside a ticket conversation.
// Messages are immutable once created and owned exclusively by their ticket.
type Message struct {
	ID         string     `json:"id"`
	SenderID   string     `json:"senderId"`
	SenderRole SenderRole `json:"senderRole"`
	Content    string     `json:"content"`
	CreatedAt  time.Time  `json:"createdAt"`
	Read       bool       `json:"read"`
}

// messageSeq backs NextMessageID. Seeded from the wall clock so IDs stay
// monotonically orderable across process restarts.
var messageSeq atomic.Int64

func init() {
	messageSeq.Store(time.Now().UnixMilli())
}

// NextMessageID allocates a process-unique, monotonically increasing message ID.
func NextMessageID() string {
	return fmt.Sprintf("MSG-%d", messageSeq.Add(1))
}

// NewMessage creates a message stamped with the current time.
func NewMessage(senderID string, role SenderRole, content string, read bool) Message {
	return Message{
		ID:         NextMessageID(),
		SenderID:   senderID,
		SenderRole: role,
		Content:    content,
		CreatedAt:  time.Now().UTC(),
		Read:       read,
	}
}
