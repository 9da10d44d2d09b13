package domain

// UserType discriminates which kind of actor a session belongs to.
type UserType string

const (
	UserTypeCustomer UserType = "customer"
	UserTypeAgent    UserType = "agent"
)

// Session is the per-actor application state: exactly one of Customer or
// Agent is set, matching UserType. ActiveTicketID is pure selection state and
// has no side effects on the ticket itself.
type Session struct {
	UserType       UserType  `json:"userType"`
	Customer       *Customer `json:"customer,omitempty"`
	Agent          *Agent    `json:"agent,omitempty"`
	ActiveTicketID string    `json:"activeTicketId,omitempty"`
	SoundEnabled   bool      `json:"soundEnabled"`
}

// ActorID returns the stable identifier of the session's actor.
func (s *Session) ActorID() string {
	switch s.UserType {
	case UserTypeCustomer:
		if s.Customer != nil {
			return s.Customer.ID
		}
	case UserTypeAgent:
		if s.Agent != nil {
			return s.Agent.Username
		}
	}
	return ""
}
