package sqlite

import (
	"context"
	"database/sql"
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

// NewSubscriptionRepository creates a new SQLite user-habit repository
func NewSubscriptionRepository(db DBTX) repository.SubscriptionRepository {
	return &subscriptionRepository{db: db}
}

func nullDate(d *time.Time) sql.NullString {
	if d == nil {
		return sql.NullString{}
	}
	return sql.NullString{String: entity.FormatDate(*d), Valid: true}
}

func parseNullDate(s sql.NullString) (*time.Time, error) {
	if !s.Valid {
		return nil, nil
	}
	d, err := entity.ParseDate(s.String)
	if err != nil {
		return nil, err
	}
	return &d, nil
}

func (r *subscriptionRepository) Create(ctx context.Context, uh *entity.UserHabit) error {
	_, err := r.db.ExecContext(ctx, `
		INSERT INTO user_habits (user_habit_id, user_id, habit_id, start_date, current_streak, last_streak_date)
		VALUES (?, ?, ?, ?, ?, ?)`,
		uh.ID, uh.UserID, uh.HabitID, entity.FormatDate(uh.StartDate), uh.CurrentStreak, nullDate(uh.LastStreakDate),
	)
	if err != nil {
		return wrapError("failed to create user habit", err)
	}

	return nil
}

func (r *subscriptionRepository) GetByID(ctx context.Context, id uuid.UUID) (*entity.UserHabit, error) {
	var (
		startDate string
		last      sql.NullString
	)

	uh := &entity.UserHabit{}
	err := r.db.QueryRowContext(ctx, `
		SELECT user_habit_id, user_id, habit_id, start_date, current_streak, last_streak_date
		FROM user_habits WHERE user_habit_id = ?`, id,
	).Scan(&uh.ID, &uh.UserID, &uh.HabitID, &startDate, &uh.CurrentStreak, &last)
	if err != nil {
		return nil, wrapError("failed to get user habit", err)
	}

	if uh.StartDate, err = entity.ParseDate(startDate); err != nil {
		return nil, err
	}
	if uh.LastStreakDate, err = parseNullDate(last); err != nil {
		return nil, err
	}

	return uh, nil
}

func (r *subscriptionRepository) ListByUser(ctx context.Context, userID uuid.UUID) ([]*entity.UserHabitDetail, error) {
	rows, err := r.db.QueryContext(ctx, `
		SELECT uh.user_habit_id, uh.habit_id, uh.start_date, uh.current_streak, h.habit_name, h.description
		FROM user_habits uh
		JOIN habits h ON uh.habit_id = h.habit_id
		WHERE uh.user_id = ?
		ORDER BY uh.start_date, h.habit_name`, userID)
	if err != nil {
		return nil, wrapError("failed to list user habits", err)
	}
	defer rows.Close()

	var details []*entity.UserHabitDetail
	for rows.Next() {
		d := &entity.UserHabitDetail{}
		if err := rows.Scan(&d.UserHabitID, &d.HabitID, &d.StartDate, &d.CurrentStreak, &d.HabitName, &d.Description); err != nil {
			return nil, fmt.Errorf("failed to scan user habit: %w", err)
		}
		details = append(details, d)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating user habits: %w", err)
	}

	return details, nil
}

func (r *subscriptionRepository) GetVerificationTarget(ctx context.Context, id uuid.UUID) (*entity.VerificationTarget, error) {
	var raw string
	target := &entity.VerificationTarget{}
	err := r.db.QueryRowContext(ctx, `
		SELECT uh.user_habit_id, uh.user_id, uh.habit_id, h.embeddings
		FROM user_habits uh
		JOIN habits h ON uh.habit_id = h.habit_id
		WHERE uh.user_habit_id = ?`, id,
	).Scan(&target.UserHabitID, &target.UserID, &target.HabitID, &raw)
	if err != nil {
		return nil, wrapError("failed to get verification target", err)
	}

	if err := json.Unmarshal([]byte(raw), &target.Embeddings); err != nil {
		return nil, fmt.Errorf("failed to decode embeddings: %w", err)
	}

	return target, nil
}

// GetStreakForUpdate needs no explicit lock: the store runs on a single
// connection, so the enclosing transaction is the only writer
func (r *subscriptionRepository) GetStreakForUpdate(ctx context.Context, id uuid.UUID) (*entity.StreakState, error) {
	var last sql.NullString
	state := &entity.StreakState{}
	err := r.db.QueryRowContext(ctx, `
		SELECT user_habit_id, user_id, habit_id, current_streak, last_streak_date
		FROM user_habits WHERE user_habit_id = ?`, id,
	).Scan(&state.UserHabitID, &state.UserID, &state.HabitID, &state.CurrentStreak, &last)
	if err != nil {
		return nil, wrapError("failed to lock streak", err)
	}

	if state.LastStreakDate, err = parseNullDate(last); err != nil {
		return nil, err
	}

	return state, nil
}

func (r *subscriptionRepository) UpdateStreak(ctx context.Context, id uuid.UUID, streak int, lastStreakDate time.Time) error {
	result, err := r.db.ExecContext(ctx,
		`UPDATE user_habits SET current_streak = ?, last_streak_date = ? WHERE user_habit_id = ?`,
		streak, entity.FormatDate(lastStreakDate), id,
	)
	if err != nil {
		return wrapError("failed to update streak", err)
	}

	if n, _ := result.RowsAffected(); n == 0 {
		return fmt.Errorf("failed to update streak: %w", repository.ErrNotFound)
	}

	return nil
}

func (r *subscriptionRepository) Leaderboard(ctx context.Context, habitID uuid.UUID, limit int) ([]entity.LeaderboardEntry, error) {
	rows, err := r.db.QueryContext(ctx, `
		SELECT u.username, uh.current_streak
		FROM user_habits uh
		JOIN users u ON uh.user_id = u.user_id
		WHERE uh.habit_id = ?
		ORDER BY uh.current_streak DESC, u.username
		LIMIT ?`, habitID, limit)
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
	rows, err := r.db.QueryContext(ctx, `
		SELECT u.user_id, u.username, uh.current_streak, u.latitude, u.longitude
		FROM user_habits uh
		JOIN users u ON uh.user_id = u.user_id
		WHERE uh.habit_id = ?
		  AND u.user_id <> ?
		  AND u.latitude IS NOT NULL
		  AND u.longitude IS NOT NULL`, habitID, excludeUserID)
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
