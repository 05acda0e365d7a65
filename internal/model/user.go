package model

import "time"

// User represents a platform account as stored in the `users` table. The ID
// is not generated locally: it is the subject identifier assigned by the
// external identity provider, so verified sessions map directly onto rows
// here. Deleting a user cascades to every owned resource.
//
// Fields:
//  ID         – identity-provider subject id (primary key).
//  Email      – unique email address.
//  FullName   – display name.
//  Phone      – optional contact phone number.
//  RUT        – optional Chilean national id, unique, stored normalized.
//  PictureURL – optional profile picture URL.
//  CreatedAt  – timestamp of creation.
//  UpdatedAt  – timestamp of last update.
type User struct {
	ID         string    `json:"id"`
	Email      string    `json:"email"`
	FullName   string    `json:"full_name"`
	Phone      *string   `json:"phone,omitempty"`
	RUT        *string   `json:"rut,omitempty"`
	PictureURL *string   `json:"picture_url,omitempty"`
	CreatedAt  time.Time `json:"created_at"`
	UpdatedAt  time.Time `json:"updated_at"`
}
