package repository

import (
	"context"

	"habitlog-service/internal/domain/entity"

	"github.com/google/uuid"
)

// LeaderboardCache stores computed leaderboards. A miss returns ok == false
// with a nil error.
type LeaderboardCache interface {
	Get(ctx context.Context, habitID uuid.UUID) (entries []entity.LeaderboardEntry, ok bool, err error)
	Set(ctx context.Context, habitID uuid.UUID, entries []entity.LeaderboardEntry) error
	Delete(ctx context.Context, habitID uuid.UUID) error
}
