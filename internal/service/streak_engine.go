package service

import (
	"context"
	"errors"
	"time"

	"habitlog-service/internal/domain/apperr"
	"habitlog-service/internal/domain/entity"
	"habitlog-service/internal/domain/repository"
	"habitlog-service/internal/domain/service"

	"github.com/google/uuid"
	"go.uber.org/zap"
)

type streakEngine struct {
	store  repository.Store
	logger *zap.Logger
}

// NewStreakEngine creates a new streak engine
func NewStreakEngine(store repository.Store, logger *zap.Logger) service.StreakEngine {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &streakEngine{
		store:  store,
		logger: logger,
	}
}

// RecordVerifiedCompletion inserts the log first so that a same-day
// resubmission is reported as a duplicate, then advances the streak under a
// row lock. Any failure rolls back both writes.
func (e *streakEngine) RecordVerifiedCompletion(ctx context.Context, userHabitID uuid.UUID, date time.Time) (*entity.StreakUpdate, error) {
	date = entity.CalendarDate(date)
	var update *entity.StreakUpdate

	err := e.store.Transaction(ctx, func(ctx context.Context, tx repository.Repositories) error {
		err := tx.Logs().Insert(ctx, &entity.HabitLog{UserHabitID: userHabitID, PerformedAt: date})
		switch {
		case errors.Is(err, repository.ErrUniqueViolation):
			return apperr.ErrDuplicateLog
		case errors.Is(err, repository.ErrForeignKeyViolation):
			return apperr.ErrSubscriptionNotFound
		case err != nil:
			return apperr.Wrap(apperr.KindStoreError, "failed to insert habit log", err)
		}

		state, err := tx.Subscriptions().GetStreakForUpdate(ctx, userHabitID)
		if errors.Is(err, repository.ErrNotFound) {
			return apperr.ErrSubscriptionNotFound
		}
		if err != nil {
			return apperr.Wrap(apperr.KindStoreError, "failed to read streak", err)
		}

		streak, transition, err := entity.AdvanceStreak(date, state.LastStreakDate, state.CurrentStreak)
		if err != nil {
			return err
		}

		if err := tx.Subscriptions().UpdateStreak(ctx, userHabitID, streak, date); err != nil {
			return apperr.Wrap(apperr.KindStoreError, "failed to update streak", err)
		}

		update = &entity.StreakUpdate{
			UserHabitID:    userHabitID,
			UserID:         state.UserID,
			HabitID:        state.HabitID,
			LoggedOn:       date,
			PreviousStreak: state.CurrentStreak,
			CurrentStreak:  streak,
			Transition:     transition,
		}
		return nil
	})
	if err != nil {
		err = storeError("habit log transaction failed", err)
		if apperr.KindOf(err).IsInternal() {
			e.logger.Error("failed to record completion",
				zap.String("user_habit_id", userHabitID.String()),
				zap.String("date", entity.FormatDate(date)),
				zap.Error(err),
			)
		}
		return nil, err
	}

	e.logger.Info("streak updated",
		zap.String("user_habit_id", userHabitID.String()),
		zap.String("date", entity.FormatDate(date)),
		zap.Int("streak", update.CurrentStreak),
		zap.String("transition", string(update.Transition)),
	)

	return update, nil
}
