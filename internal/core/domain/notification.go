package domain

import (
	"time"

	"github.com/google/uuid"
)

// NotificationKind classifies operator alerts.
type NotificationKind string

const (
	NotifyInfo    NotificationKind = "info"
	NotifyWarning NotificationKind = "warning"
	NotifySuccess NotificationKind = "success"
)

// NotificationTTL is how long an alert stays alive before it self-expires.
const NotificationTTL = 5000 * time.Millisecond

// Notification is a transient operator alert. It is never persisted and never
// mutated; it disappears exactly NotificationTTL after creation.
type Notification struct {
	ID        string           `json:"id"`
	Message   string           `json:"message"`
	Kind      NotificationKind `json:"kind"`
	CreatedAt time.Time        `json:"createdAt"`
}

// NewNotification creates an alert stamped with the current time.
func NewNotification(message string, kind NotificationKind) Notification {
	return Notification{
		ID:        "NOTIF-" + uuid.NewString(),
		Message:   message,
		Kind:      kind,
		CreatedAt: time.Now().UTC(),
	}
}

// ExpiresAt returns the instant the notification self-expires.
func (n Notification) ExpiresAt() time.Time {
	return n.CreatedAt.Add(NotificationTTL)
}
