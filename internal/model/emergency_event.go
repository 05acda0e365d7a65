package model

import "time"

// Emergency event status values. New events start as active; any status may
// be set to any other via update, no transition rules apply.
const (
	EventStatusActive    = "active"
	EventStatusResolved  = "resolved"
	EventStatusCancelled = "cancelled"
)

// ValidEventStatus reports whether s is one of the known status values.
func ValidEventStatus(s string) bool {
	return s == EventStatusActive || s == EventStatusResolved || s == EventStatusCancelled
}

// EmergencyEvent records an emergency reported for a user, either by the
// user directly or by a trusted backend caller acting on their behalf.
//
// Fields:
//  ID          – primary key identifier.
//  UserID      – user the event belongs to.
//  EventType   – category, e.g. "medical", "fire", "accident".
//  Description – optional free-text description.
//  Location    – optional location description.
//  Status      – one of active, resolved, cancelled.
//  CreatedAt   – creation timestamp.
//  UpdatedAt   – last update timestamp.
type EmergencyEvent struct {
	ID          uint64    `json:"id"`
	UserID      string    `json:"user_id"`
	EventType   string    `json:"event_type"`
	Description *string   `json:"description,omitempty"`
	Location    *string   `json:"location,omitempty"`
	Status      string    `json:"status"`
	CreatedAt   time.Time `json:"created_at"`
	UpdatedAt   time.Time `json:"updated_at"`
}
