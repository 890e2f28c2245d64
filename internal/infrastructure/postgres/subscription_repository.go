package postgres

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"habitlog-service/internal/domain/entity"
	"habitlog-service/internal/domain/repository"

	"github.com/google/uuid"
)

type subscriptionRepository struct {
	db DBTX
}

// NewSubscriptionRepository creates a new PostgreSQL user-habit repository
func NewSubscriptionRepository(db DBTX) repository.SubscriptionRepository {
	return &subscriptionRepository{db: db}
}

func (r *subscriptionRepository) Create(ctx context.Context, uh *entity.UserHabit) error {
	query := `
		INSERT INTO user_habits (user_habit_id, user_id, habit_id, start_date, current_streak, last_streak_date)
		VALUES ($1, $2, $3, $4, $5, $6)
	`

	_, err := r.db.Exec(ctx, query, uh.ID, uh.UserID, uh.HabitID, uh.StartDate, uh.CurrentStreak, uh.LastStreakDate)
	if err != nil {
		return wrapError("failed to create user habit", err)
	}

	return nil
}

func (r *subscriptionRepository) GetByID(ctx context.Context, id uuid.UUID) (*entity.UserHabit, error) {
	query := `
		SELECT user_habit_id, user_id, habit_id, start_date, current_streak, last_streak_date
		FROM user_habits
		WHERE user_habit_id = $1
	`

	uh := &entity.UserHabit{}
	err := r.db.QueryRow(ctx, query, id).Scan(
		&uh.ID, &uh.UserID, &uh.HabitID, &uh.StartDate, &uh.CurrentStreak, &uh.LastStreakDate,
	)
	if err != nil {
		return nil, wrapError("failed to get user habit", err)
	}

	return uh, nil
}

func (r *subscriptionRepository) ListByUser(ctx context.Context, userID uuid.UUID) ([]*entity.UserHabitDetail, error) {
	query := `
		SELECT uh.user_habit_id, uh.habit_id, uh.start_date, uh.current_streak, h.habit_name, h.description
		FROM user_habits uh
		JOIN habits h ON uh.habit_id = h.habit_id
		WHERE uh.user_id = $1
		ORDER BY uh.start_date, h.habit_name
	`

	rows, err := r.db.Query(ctx, query, userID)
	if err != nil {
		return nil, wrapError("failed to list user habits", err)
	}
	defer rows.Close()

	var details []*entity.UserHabitDetail
	for rows.Next() {
		var startDate time.Time
		d := &entity.UserHabitDetail{}
		if err := rows.Scan(&d.UserHabitID, &d.HabitID, &startDate, &d.CurrentStreak, &d.HabitName, &d.Description); err != nil {
			return nil, fmt.Errorf("failed to scan user habit: %w", err)
		}
		d.StartDate = entity.FormatDate(startDate)
		details = append(details, d)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating user habits: %w", err)
	}

	return details, nil
}

func (r *subscriptionRepository) GetVerificationTarget(ctx context.Context, id uuid.UUID) (*entity.VerificationTarget, error) {
	query := `
		SELECT uh.user_habit_id, uh.user_id, uh.habit_id, h.embeddings
		FROM user_habits uh
		JOIN habits h ON uh.habit_id = h.habit_id
		WHERE uh.user_habit_id = $1
	`

	var raw []byte
	target := &entity.VerificationTarget{}
	err := r.db.QueryRow(ctx, query, id).Scan(&target.UserHabitID, &target.UserID, &target.HabitID, &raw)
	if err != nil {
		return nil, wrapError("failed to get verification target", err)
	}

	if err := json.Unmarshal(raw, &target.Embeddings); err != nil {
		return nil, fmt.Errorf("failed to decode embeddings: %w", err)
	}

	return target, nil
}

func (r *subscriptionRepository) GetStreakForUpdate(ctx context.Context, id uuid.UUID) (*entity.StreakState, error) {
	query := `
		SELECT user_habit_id, user_id, habit_id, current_streak, last_streak_date
		FROM user_habits
		WHERE user_habit_id = $1
		FOR UPDATE
	`

	state := &entity.StreakState{}
	err := r.db.QueryRow(ctx, query, id).Scan(
		&state.UserHabitID, &state.UserID, &state.HabitID, &state.CurrentStreak, &state.LastStreakDate,
	)
	if err != nil {
		return nil, wrapError("failed to lock streak", err)
	}

	return state, nil
}

func (r *subscriptionRepository) UpdateStreak(ctx context.Context, id uuid.UUID, streak int, lastStreakDate time.Time) error {
	query := `
		UPDATE user_habits
		SET current_streak = $1, last_streak_date = $2
		WHERE user_habit_id = $3
	`

	result, err := r.db.Exec(ctx, query, streak, lastStreakDate, id)
	if err != nil {
		return wrapError("failed to update streak", err)
	}

	if result.RowsAffected() == 0 {
		return fmt.Errorf("failed to update streak: %w", repository.ErrNotFound)
	}

	return nil
}

func (r *subscriptionRepository) Leaderboard(ctx context.Context, habitID uuid.UUID, limit int) ([]entity.LeaderboardEntry, error) {
	query := `
		SELECT u.username, uh.current_streak
		FROM user_habits uh
		JOIN users u ON uh.user_id = u.user_id
		WHERE uh.habit_id = $1
		ORDER BY uh.current_streak DESC, u.username
		LIMIT $2
	`

	rows, err := r.db.Query(ctx, query, habitID, limit)
	if err != nil {
		return nil, wrapError("failed to get leaderboard", err)
	}
	defer rows.Close()

	var entries []entity.LeaderboardEntry
	for rows.Next() {
		var e entity.LeaderboardEntry
		if err := rows.Scan(&e.Username, &e.CurrentStreak); err != nil {
			return nil, fmt.Errorf("failed to scan leaderboard entry: %w", err)
		}
		entries = append(entries, e)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating leaderboard: %w", err)
	}

	return entries, nil
}

func (r *subscriptionRepository) NearbyCandidates(ctx context.Context, habitID, excludeUserID uuid.UUID) ([]entity.NearbyCandidate, error) {
	query := `
		SELECT u.user_id, u.username, uh.current_streak, u.latitude, u.longitude
		FROM user_habits uh
		JOIN users u ON uh.user_id = u.user_id
		WHERE uh.habit_id = $1
		  AND u.user_id <> $2
		  AND u.latitude IS NOT NULL
		  AND u.longitude IS NOT NULL
	`

	rows, err := r.db.Query(ctx, query, habitID, excludeUserID)
	if err != nil {
		return nil, wrapError("failed to get nearby candidates", err)
	}
	defer rows.Close()

	var candidates []entity.NearbyCandidate
	for rows.Next() {
		var c entity.NearbyCandidate
		if err := rows.Scan(&c.UserID, &c.Username, &c.CurrentStreak, &c.Location.Latitude, &c.Location.Longitude); err != nil {
			return nil, fmt.Errorf("failed to scan nearby candidate: %w", err)
		}
		candidates = append(candidates, c)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating nearby candidates: %w", err)
	}

	return candidates, nil
}
