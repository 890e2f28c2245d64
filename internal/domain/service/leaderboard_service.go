package service

import (
	"context"

	"habitlog-service/internal/domain/entity"

	"github.com/google/uuid"
)

// LeaderboardService defines the interface for streak leaderboards
type LeaderboardService interface {
	// Top returns the highest current streaks of a habit
	Top(ctx context.Context, habitID uuid.UUID) ([]entity.LeaderboardEntry, error)

	// Nearby returns the closest other subscribers of a habit to the user
	Nearby(ctx context.Context, userID, habitID uuid.UUID) ([]entity.NearbyEntry, error)

	// Invalidate drops the cached leaderboard of a habit
	Invalidate(ctx context.Context, habitID uuid.UUID)

	// RefreshAll recomputes and caches the leaderboard of every habit
	RefreshAll(ctx context.Context) error
}
