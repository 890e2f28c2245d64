package service

import (
	"context"
	"time"

	"habitlog-service/internal/domain/entity"

	"github.com/google/uuid"
)

// HabitService defines the interface for catalog and subscription business logic
type HabitService interface {
	// ListHabits retrieves the habit catalog
	ListHabits(ctx context.Context) ([]*entity.Habit, error)

	// Subscribe enrolls a user in a habit starting today
	Subscribe(ctx context.Context, userID, habitID uuid.UUID, today time.Time) (*entity.UserHabit, error)

	// ListSubscriptions retrieves all subscriptions of a user
	ListSubscriptions(ctx context.Context, userID uuid.UUID) ([]*entity.UserHabitDetail, error)

	// UpdateLocation sets the user's location
	UpdateLocation(ctx context.Context, userID uuid.UUID, point entity.GeoPoint) error

	// WeeklyBreakdown reports which days of the current week each subscription was logged
	WeeklyBreakdown(ctx context.Context, userID uuid.UUID, today time.Time) ([]entity.WeeklyBreakdown, error)
}
