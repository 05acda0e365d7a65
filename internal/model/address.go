package model

import "time"

// Address is a location registered by a user. At most one address per user
// may be flagged primary; the repository enforces that invariant whenever a
// primary flag changes. Listing returns the primary address first, then the
// rest newest first.
type Address struct {
	ID         uint64    `json:"id"`
	UserID     string    `json:"user_id"`
	Street     string    `json:"street"`
	City       string    `json:"city"`
	Region     string    `json:"region"`
	PostalCode *string   `json:"postal_code,omitempty"`
	IsPrimary  bool      `json:"is_primary"`
	CreatedAt  time.Time `json:"created_at"`
	UpdatedAt  time.Time `json:"updated_at"`
}
