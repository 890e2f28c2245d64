package repository

import (
	"context"
	"time"

	"habitlog-service/internal/domain/entity"

	"github.com/google/uuid"
)

// HabitLogRepository defines the interface for habit log persistence
type HabitLogRepository interface {
	// Insert records a log; an existing (subscription, date) pair yields
	// ErrUniqueViolation and an unknown subscription ErrForeignKeyViolation
	Insert(ctx context.Context, log *entity.HabitLog) error

	// ExistsForDate checks if a log exists for a subscription on a date
	ExistsForDate(ctx context.Context, userHabitID uuid.UUID, date time.Time) (bool, error)

	// ListBetween retrieves logs of the given subscriptions within [from, to]
	ListBetween(ctx context.Context, userHabitIDs []uuid.UUID, from, to time.Time) ([]*entity.HabitLog, error)
}
