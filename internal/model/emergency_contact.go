package model

import "time"

// EmergencyContact is a person to notify on behalf of a user. Users may
// register any number of contacts; listing returns newest first.
type EmergencyContact struct {
	ID           uint64    `json:"id"`
	UserID       string    `json:"user_id"`
	Name         string    `json:"name"`
	Phone        string    `json:"phone"`
	Relationship string    `json:"relationship"`
	CreatedAt    time.Time `json:"created_at"`
	UpdatedAt    time.Time `json:"updated_at"`
}
