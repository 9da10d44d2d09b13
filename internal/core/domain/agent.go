package domain

import "golang.org/x/crypto/bcrypt"

// AgentStatus is the presence state of a support agent.
type AgentStatus string

const (
	AgentAvailable AgentStatus = "available"
	AgentBusy      AgentStatus = "busy"
	AgentAway      AgentStatus = "away"
)

// IsValid reports whether the status is one of the known values.
func (s AgentStatus) IsValid() bool {
	switch s {
	case AgentAvailable, AgentBusy, AgentAway:
		return true
	}
	return false
}

// Agent is a human support operator.
type Agent struct {
	Username       string      `json:"username"`
	Name           string      `json:"name"`
	Status         AgentStatus `json:"status"`
	Email          string      `json:"email"`
	Phone          string      `json:"phone"`
	HashedPassword string      `json:"-"`
}

// IsAvailable reports whether the agent can take new tickets.
func (a *Agent) IsAvailable() bool {
	return a.Status == AgentAvailable
}

// CheckPassword verifies a plaintext password against the stored hash.
func (a *Agent) CheckPassword(password string) bool {
	return bcrypt.CompareHashAndPassword([]byte(a.HashedPassword), []byte(password)) == nil
}

// HashPassword hashes a plaintext password for storage.
func HashPassword(password string) (string, error) {
	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return "", err
	}
	return string(hash), nil
}
