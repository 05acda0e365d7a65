// Package queue defines message payloads exchanged over the message broker.
package queue

// EmergencyEventMessage is published whenever an emergency event is created
// or its status changes. It carries enough information for downstream
// consumers to log, notify, or feed dispatch tooling without querying the
// primary database.
type EmergencyEventMessage struct {
	MessageID   string `json:"message_id"` // unique per publication, for de-duplication
	Action      string `json:"action"`     // "created" or "status_changed"
	EventID     uint64 `json:"event_id"`
	UserID      string `json:"user_id"`
	EventType   string `json:"event_type"`
	Status      string `json:"status"`
	Location    string `json:"location,omitempty"`
	Description string `json:"description,omitempty"`
	OccurredAt  string `json:"occurred_at"` // RFC 3339 UTC
}

// Queue actions.
const (
	ActionCreated       = "created"
	ActionStatusChanged = "status_changed"
)
