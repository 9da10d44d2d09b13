package domain

// EventType defines the type of real-time event pushed to connected clients.
type EventType string

const (
	EventTicketCreated EventType = "TICKET_CREATED"
	EventTicketUpdated EventType = "TICKET_UPDATED"
	EventMessageAdded  EventType = "MESSAGE_ADDED"
	EventNotification  EventType = "NOTIFICATION"
)

// Event is the payload sent over WebSocket. TicketID routes ticket events to
// their subscriber rooms; notification events are addressed to a single agent
// and carry no room.
type Event struct {
	Type     EventType   `json:"type"`
	Payload  interface{} `json:"payload"`
	TicketID string      `json:"ticketId,omitempty"`
}

// NotificationPayload is the payload for EventNotification events. Sound is
// resolved server-side from the session preference and the notification kind.
type NotificationPayload struct {
	Notification Notification `json:"notification"`
	Sound        bool         `json:"sound"`
}
