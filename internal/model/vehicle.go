package model

import "time"

// Vehicle is a vehicle registered by a user. A vehicle owns zero or more
// insurance policies; deleting the vehicle removes them as well.
type Vehicle struct {
	ID           uint64    `json:"id"`
	UserID       string    `json:"user_id"`
	LicensePlate string    `json:"license_plate"`
	Make         string    `json:"make"`
	Model        string    `json:"model"`
	Year         int       `json:"year"`
	Color        *string   `json:"color,omitempty"`
	CreatedAt    time.Time `json:"created_at"`
	UpdatedAt    time.Time `json:"updated_at"`
}

// VehicleInsurance is an insurance policy attached to a single vehicle.
//
// Fields:
//  ID           – primary key identifier.
//  VehicleID    – owning vehicle (cascade delete).
//  Company      – insurer name.
//  PolicyNumber – policy reference at the insurer.
//  ExpiresAt    – optional policy expiry date.
//  CreatedAt    – creation timestamp.
//  UpdatedAt    – last update timestamp.
type VehicleInsurance struct {
	ID           uint64     `json:"id"`
	VehicleID    uint64     `json:"vehicle_id"`
	Company      string     `json:"company"`
	PolicyNumber string     `json:"policy_number"`
	ExpiresAt    *time.Time `json:"expires_at,omitempty"`
	CreatedAt    time.Time  `json:"created_at"`
	UpdatedAt    time.Time  `json:"updated_at"`
}
