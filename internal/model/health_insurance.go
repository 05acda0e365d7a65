package model

import "time"

// HealthInsurance is a health or supplementary insurance policy held by a
// user. PlanName and PolicyNumber are nullable and can be cleared through a
// patch update.
type HealthInsurance struct {
	ID           uint64    `json:"id"`
	UserID       string    `json:"user_id"`
	Provider     string    `json:"provider"`
	PlanName     *string   `json:"plan_name,omitempty"`
	PolicyNumber *string   `json:"policy_number,omitempty"`
	CreatedAt    time.Time `json:"created_at"`
	UpdatedAt    time.Time `json:"updated_at"`
}
