package postgres

import (
	"context"
	"fmt"
	"time"

	"habitlog-service/internal/domain/entity"
	"habitlog-service/internal/domain/repository"

	"github.com/google/uuid"
)

type habitLogRepository struct {
	db DBTX
}

// NewHabitLogRepository creates a new PostgreSQL habit log repository
func NewHabitLogRepository(db DBTX) repository.HabitLogRepository {
	return &habitLogRepository{db: db}
}

func (r *habitLogRepository) Insert(ctx context.Context, log *entity.HabitLog) error {
	query := `INSERT INTO habit_logs (user_habit_id, performed_at) VALUES ($1, $2)`

	if _, err := r.db.Exec(ctx, query, log.UserHabitID, log.PerformedAt); err != nil {
		return wrapError("failed to insert habit log", err)
	}

	return nil
}

func (r *habitLogRepository) ExistsForDate(ctx context.Context, userHabitID uuid.UUID, date time.Time) (bool, error) {
	query := `
		SELECT EXISTS(
			SELECT 1 FROM habit_logs
			WHERE user_habit_id = $1 AND performed_at = $2
		)
	`

	var exists bool
	if err := r.db.QueryRow(ctx, query, userHabitID, date).Scan(&exists); err != nil {
		return false, wrapError("failed to check habit log", err)
	}

	return exists, nil
}

func (r *habitLogRepository) ListBetween(ctx context.Context, userHabitIDs []uuid.UUID, from, to time.Time) ([]*entity.HabitLog, error) {
	if len(userHabitIDs) == 0 {
		return nil, nil
	}

	ids := make([]string, len(userHabitIDs))
	for i, id := range userHabitIDs {
		ids[i] = id.String()
	}

	query := `
		SELECT user_habit_id, performed_at
		FROM habit_logs
		WHERE user_habit_id = ANY($1::uuid[])
		  AND performed_at BETWEEN $2 AND $3
		ORDER BY performed_at
	`

	rows, err := r.db.Query(ctx, query, ids, from, to)
	if err != nil {
		return nil, wrapError("failed to list habit logs", err)
	}
	defer rows.Close()

	var logs []*entity.HabitLog
	for rows.Next() {
		log := &entity.HabitLog{}
		if err := rows.Scan(&log.UserHabitID, &log.PerformedAt); err != nil {
			return nil, fmt.Errorf("failed to scan habit log: %w", err)
		}
		logs = append(logs, log)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating habit logs: %w", err)
	}

	return logs, nil
}
