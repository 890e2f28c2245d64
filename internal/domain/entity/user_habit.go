package entity

import (
	"time"

	"github.com/google/uuid"
)

// UserHabit is a user's subscription to a habit, carrying its own streak state
type UserHabit struct {
	ID             uuid.UUID  `json:"user_habit_id"`
	UserID         uuid.UUID  `json:"user_id"`
	HabitID        uuid.UUID  `json:"habit_id"`
	StartDate      time.Time  `json:"start_date"`
	CurrentStreak  int        `json:"current_streak"`
	LastStreakDate *time.Time `json:"last_streak_date,omitempty"`
}

// UserHabitDetail is a subscription joined with its catalog entry
type UserHabitDetail struct {
	UserHabitID   uuid.UUID `json:"user_habit_id"`
	HabitID       uuid.UUID `json:"habit_id"`
	StartDate     string    `json:"start_date"`
	CurrentStreak int       `json:"current_streak"`
	HabitName     string    `json:"habit_name"`
	Description   string    `json:"description"`
}

// VerificationTarget is the read-only snapshot the verification gate needs
type VerificationTarget struct {
	UserHabitID uuid.UUID
	UserID      uuid.UUID
	HabitID     uuid.UUID
	Embeddings  [][]float64
}

// StreakState is the current streak of a subscription as read inside a transaction
type StreakState struct {
	UserHabitID    uuid.UUID
	UserID         uuid.UUID
	HabitID        uuid.UUID
	CurrentStreak  int
	LastStreakDate *time.Time
}

// StreakUpdate is the outcome of a successfully recorded completion
type StreakUpdate struct {
	UserHabitID    uuid.UUID  `json:"user_habit_id"`
	UserID         uuid.UUID  `json:"-"`
	HabitID        uuid.UUID  `json:"habit_id"`
	LoggedOn       time.Time  `json:"-"`
	PreviousStreak int        `json:"previous_streak"`
	CurrentStreak  int        `json:"current_streak"`
	Transition     Transition `json:"transition"`
}

// WeeklyBreakdown reports, per weekday name, whether a subscription was logged
type WeeklyBreakdown struct {
	HabitName string          `json:"habit_name"`
	Breakdown map[string]bool `json:"breakdown"`
}
