package entity

import (
	"time"

	"github.com/google/uuid"
)

// GeoPoint is a WGS84 coordinate
type GeoPoint struct {
	Latitude  float64 `json:"latitude"`
	Longitude float64 `json:"longitude"`
}

// User represents a registered user
type User struct {
	ID           uuid.UUID `json:"id"`
	Username     string    `json:"username"`
	Email        string    `json:"email"`
	PasswordHash string    `json:"-"`
	Location     *GeoPoint `json:"location,omitempty"`
	CreatedAt    time.Time `json:"created_at"`
}

// Principal is the authenticated caller extracted from an access token
type Principal struct {
	SubjectID uuid.UUID
	Role      string
	ExpiresAt time.Time
}
