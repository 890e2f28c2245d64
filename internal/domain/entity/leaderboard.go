package entity

import (
	"math"

	"github.com/google/uuid"
)

// LeaderboardEntry is one row of a habit's streak leaderboard
type LeaderboardEntry struct {
	Username      string `json:"username"`
	CurrentStreak int    `json:"current_streak"`
}

// NearbyCandidate is a subscriber with a known location
type NearbyCandidate struct {
	UserID        uuid.UUID
	Username      string
	CurrentStreak int
	Location      GeoPoint
}

// NearbyEntry is one row of the nearby leaderboard
type NearbyEntry struct {
	Username      string  `json:"username"`
	CurrentStreak int     `json:"current_streak"`
	Distance      float64 `json:"distance_m"`
}

const earthRadiusMeters = 6371008.8

// DistanceMeters returns the great-circle distance between a and b
func DistanceMeters(a, b GeoPoint) float64 {
	lat1 := a.Latitude * math.Pi / 180
	lat2 := b.Latitude * math.Pi / 180
	dLat := (b.Latitude - a.Latitude) * math.Pi / 180
	dLng := (b.Longitude - a.Longitude) * math.Pi / 180

	h := math.Sin(dLat/2)*math.Sin(dLat/2) +
		math.Cos(lat1)*math.Cos(lat2)*math.Sin(dLng/2)*math.Sin(dLng/2)
	return 2 * earthRadiusMeters * math.Asin(math.Min(1, math.Sqrt(h)))
}
