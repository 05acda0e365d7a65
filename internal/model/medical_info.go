package model

import "time"

// MedicalInfo holds the medical sheet for a user. It is a singleton per
// user: the user_id column carries a unique constraint, so at most one row
// exists for any account.
//
// Fields:
//  ID          – primary key identifier.
//  UserID      – owning user (unique foreign key).
//  BloodType   – optional blood type, e.g. "O+".
//  Allergies   – optional free-text list of allergies.
//  Medications – optional free-text list of current medications.
//  Conditions  – optional free-text list of chronic conditions.
//  Notes       – optional additional notes for responders.
//  CreatedAt   – creation timestamp.
//  UpdatedAt   – last update timestamp.
type MedicalInfo struct {
	ID          uint64    `json:"id"`
	UserID      string    `json:"user_id"`
	BloodType   *string   `json:"blood_type,omitempty"`
	Allergies   *string   `json:"allergies,omitempty"`
	Medications *string   `json:"medications,omitempty"`
	Conditions  *string   `json:"conditions,omitempty"`
	Notes       *string   `json:"notes,omitempty"`
	CreatedAt   time.Time `json:"created_at"`
	UpdatedAt   time.Time `json:"updated_at"`
}
