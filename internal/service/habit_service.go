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

//nolint:gochecknoglobals
var weekDayNames = [7]string{"Monday", "Tuesday", "Wednesday", "Thursday", "Friday", "Saturday", "Sunday"}

type habitService struct {
	store  repository.Store
	logger *zap.Logger
}

// NewHabitService creates a new habit service
func NewHabitService(store repository.Store, logger *zap.Logger) service.HabitService {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &habitService{
		store:  store,
		logger: logger,
	}
}

func (s *habitService) ListHabits(ctx context.Context) ([]*entity.Habit, error) {
	habits, err := s.store.Habits().List(ctx)
	if err != nil {
		s.logger.Error("failed to list habits", zap.Error(err))
		return nil, storeError("failed to list habits", err)
	}

	if habits == nil {
		habits = []*entity.Habit{}
	}
	return habits, nil
}

func (s *habitService) Subscribe(ctx context.Context, userID, habitID uuid.UUID, today time.Time) (*entity.UserHabit, error) {
	userHabit := &entity.UserHabit{
		ID:            uuid.New(),
		UserID:        userID,
		HabitID:       habitID,
		StartDate:     today,
		CurrentStreak: 0,
	}

	if err := s.store.Subscriptions().Create(ctx, userHabit); err != nil {
		switch {
		case errors.Is(err, repository.ErrUniqueViolation):
			return nil, apperr.New(apperr.KindConflict, "You have already added this habit")
		case errors.Is(err, repository.ErrForeignKeyViolation):
			return nil, apperr.New(apperr.KindNotFound, "Habit not found")
		}
		s.logger.Error("failed to create user habit", zap.Error(err))
		return nil, storeError("failed to add habit", err)
	}

	s.logger.Info("habit subscribed",
		zap.String("user_id", userID.String()),
		zap.String("habit_id", habitID.String()),
		zap.String("user_habit_id", userHabit.ID.String()),
	)

	return userHabit, nil
}

func (s *habitService) ListSubscriptions(ctx context.Context, userID uuid.UUID) ([]*entity.UserHabitDetail, error) {
	details, err := s.store.Subscriptions().ListByUser(ctx, userID)
	if err != nil {
		s.logger.Error("failed to list user habits", zap.Error(err))
		return nil, storeError("failed to list user habits", err)
	}

	if details == nil {
		details = []*entity.UserHabitDetail{}
	}
	return details, nil
}

func (s *habitService) UpdateLocation(ctx context.Context, userID uuid.UUID, point entity.GeoPoint) error {
	if err := checkLocation(point); err != nil {
		return err
	}

	if err := s.store.Users().UpdateLocation(ctx, userID, point); err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return apperr.New(apperr.KindNotFound, "User not found")
		}
		s.logger.Error("failed to update location", zap.Error(err))
		return storeError("failed to update location", err)
	}

	return nil
}

func (s *habitService) WeeklyBreakdown(ctx context.Context, userID uuid.UUID, today time.Time) ([]entity.WeeklyBreakdown, error) {
	subscriptions, err := s.store.Subscriptions().ListByUser(ctx, userID)
	if err != nil {
		s.logger.Error("failed to list user habits", zap.Error(err))
		return nil, storeError("failed to list user habits", err)
	}

	result := make([]entity.WeeklyBreakdown, 0, len(subscriptions))
	if len(subscriptions) == 0 {
		return result, nil
	}

	monday := entity.StartOfWeek(today)
	sunday := monday.AddDate(0, 0, 6)

	ids := make([]uuid.UUID, len(subscriptions))
	for i, sub := range subscriptions {
		ids[i] = sub.UserHabitID
	}

	logs, err := s.store.Logs().ListBetween(ctx, ids, monday, sunday)
	if err != nil {
		s.logger.Error("failed to list habit logs", zap.Error(err))
		return nil, storeError("failed to list habit logs", err)
	}

	// Organize logs by user_habit_id
	logged := make(map[uuid.UUID]map[string]bool, len(subscriptions))
	for _, log := range logs {
		if logged[log.UserHabitID] == nil {
			logged[log.UserHabitID] = make(map[string]bool)
		}
		logged[log.UserHabitID][entity.FormatDate(log.PerformedAt)] = true
	}

	for _, sub := range subscriptions {
		breakdown := make(map[string]bool, len(weekDayNames))
		for i, name := range weekDayNames {
			d := monday.AddDate(0, 0, i)
			breakdown[name] = logged[sub.UserHabitID][entity.FormatDate(d)]
		}
		result = append(result, entity.WeeklyBreakdown{
			HabitName: sub.HabitName,
			Breakdown: breakdown,
		})
	}

	return result, nil
}
