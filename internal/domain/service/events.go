package service

import (
	"context"

	"habitlog-service/internal/domain/entity"
)

// EventHabitLogged is published after a completion is committed
const EventHabitLogged = "habit.logged"

// HabitEventPublisher publishes domain events after commit
type HabitEventPublisher interface {
	PublishHabitLogged(ctx context.Context, update *entity.StreakUpdate) error
	Close() error
}
