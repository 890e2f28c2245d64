package service

import (
	"context"
	"time"

	"habitlog-service/internal/domain/entity"

	"github.com/google/uuid"
)

// StreakEngine records verified completions and advances streaks
type StreakEngine interface {
	// RecordVerifiedCompletion atomically inserts the log for date and advances
	// the subscription's streak. Nothing is persisted when it returns an error.
	RecordVerifiedCompletion(ctx context.Context, userHabitID uuid.UUID, date time.Time) (*entity.StreakUpdate, error)
}
