package repository

import (
	"context"

	"habitlog-service/internal/domain/entity"

	"github.com/google/uuid"
)

// HabitRepository defines the interface for habit catalog persistence
type HabitRepository interface {
	// List retrieves the catalog without embeddings
	List(ctx context.Context) ([]*entity.Habit, error)

	// GetByID retrieves a habit including its embeddings
	GetByID(ctx context.Context, id uuid.UUID) (*entity.Habit, error)

	// Upsert creates a habit or replaces description and embeddings of the
	// habit with the same name. The stored ID is written back to habit.ID.
	Upsert(ctx context.Context, habit *entity.Habit) error
}
