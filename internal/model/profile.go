package model

import "time"

// Profile is a named set of generator settings saved by a user. Only the
// settings are stored, never a generated password.
type Profile struct {
	ID        int64
	ProfileID string
	UserID    int64
	Name      string
	Length    int
	Symbols   bool
	CreatedAt time.Time
	UpdatedAt time.Time
}

// ProfileRequest represents a create or update request for a profile.
type ProfileRequest struct {
	Name    string `json:"name" validate:"required,max=64"`
	Length  *int   `json:"length" validate:"required,min=0"`
	Symbols *bool  `json:"symbols"`
}

// ProfileResponse represents a profile in API responses.
type ProfileResponse struct {
	ProfileID string    `json:"profile_id"`
	Name      string    `json:"name"`
	Length    int       `json:"length"`
	Symbols   bool      `json:"symbols"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}
