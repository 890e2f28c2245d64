package repository

import (
	"context"
	"time"

	"habitlog-service/internal/domain/entity"

	"github.com/google/uuid"
)

// SubscriptionRepository defines the interface for user-habit persistence
type SubscriptionRepository interface {
	// Create creates a subscription; a duplicate (user, habit) pair yields
	// ErrUniqueViolation and an unknown habit ErrForeignKeyViolation
	Create(ctx context.Context, userHabit *entity.UserHabit) error

	// GetByID retrieves a subscription
	GetByID(ctx context.Context, id uuid.UUID) (*entity.UserHabit, error)

	// ListByUser retrieves all subscriptions of a user joined with their habit
	ListByUser(ctx context.Context, userID uuid.UUID) ([]*entity.UserHabitDetail, error)

	// GetVerificationTarget retrieves the owner and reference embeddings of a subscription
	GetVerificationTarget(ctx context.Context, id uuid.UUID) (*entity.VerificationTarget, error)

	// GetStreakForUpdate reads the streak state and locks the row until the
	// enclosing transaction ends
	GetStreakForUpdate(ctx context.Context, id uuid.UUID) (*entity.StreakState, error)

	// UpdateStreak persists a new streak and last-streak date
	UpdateStreak(ctx context.Context, id uuid.UUID, streak int, lastStreakDate time.Time) error

	// Leaderboard returns the top subscribers of a habit by current streak
	Leaderboard(ctx context.Context, habitID uuid.UUID, limit int) ([]entity.LeaderboardEntry, error)

	// NearbyCandidates returns located subscribers of a habit other than excludeUserID
	NearbyCandidates(ctx context.Context, habitID, excludeUserID uuid.UUID) ([]entity.NearbyCandidate, error)
}
