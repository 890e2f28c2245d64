package service

import (
	"context"
	"time"

	"habitlog-service/internal/domain/entity"

	"github.com/google/uuid"
)

// VerificationService verifies photographic evidence and logs the completion
type VerificationService interface {
	// VerifyAndLog captions image, gates it against the habit's reference
	// embeddings and, when accepted, records the completion for today
	VerifyAndLog(ctx context.Context, principal entity.Principal, userHabitID uuid.UUID, image []byte, today time.Time) (*entity.StreakUpdate, error)
}
