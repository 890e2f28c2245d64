package entity

import (
	"time"

	"github.com/google/uuid"
)

// Habit is a catalog entry users can subscribe to
type Habit struct {
	ID          uuid.UUID `json:"habit_id"`
	Name        string    `json:"habit_name"`
	Description string    `json:"description"`

	// Reference embeddings of acceptable completion evidence.
	// Never serialized to API clients.
	Embeddings [][]float64 `json:"-"`
}

// HabitLog is a verified completion of a subscription on a calendar date
type HabitLog struct {
	UserHabitID uuid.UUID `json:"user_habit_id"`
	PerformedAt time.Time `json:"performed_at"`
}
