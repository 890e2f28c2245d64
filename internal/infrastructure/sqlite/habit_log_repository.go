package sqlite

import (
	"context"
	"fmt"
	"strings"
	"time"

	"habitlog-service/internal/domain/entity"
	"habitlog-service/internal/domain/repository"

	"github.com/google/uuid"
)

type habitLogRepository struct {
	db DBTX
}

// NewHabitLogRepository creates a new SQLite habit log repository
func NewHabitLogRepository(db DBTX) repository.HabitLogRepository {
	return &habitLogRepository{db: db}
}

func (r *habitLogRepository) Insert(ctx context.Context, log *entity.HabitLog) error {
	_, err := r.db.ExecContext(ctx,
		`INSERT INTO habit_logs (user_habit_id, performed_at) VALUES (?, ?)`,
		log.UserHabitID, entity.FormatDate(log.PerformedAt),
	)
	if err != nil {
		return wrapError("failed to insert habit log", err)
	}

	return nil
}

func (r *habitLogRepository) ExistsForDate(ctx context.Context, userHabitID uuid.UUID, date time.Time) (bool, error) {
	var exists bool
	err := r.db.QueryRowContext(ctx,
		`SELECT EXISTS(SELECT 1 FROM habit_logs WHERE user_habit_id = ? AND performed_at = ?)`,
		userHabitID, entity.FormatDate(date),
	).Scan(&exists)
	if err != nil {
		return false, wrapError("failed to check habit log", err)
	}

	return exists, nil
}

func (r *habitLogRepository) ListBetween(ctx context.Context, userHabitIDs []uuid.UUID, from, to time.Time) ([]*entity.HabitLog, error) {
	if len(userHabitIDs) == 0 {
		return nil, nil
	}

	args := make([]any, 0, len(userHabitIDs)+2)
	for _, id := range userHabitIDs {
		args = append(args, id)
	}
	args = append(args, entity.FormatDate(from), entity.FormatDate(to))

	placeholders := strings.TrimSuffix(strings.Repeat("?,", len(userHabitIDs)), ",")
	query := fmt.Sprintf(`
		SELECT user_habit_id, performed_at
		FROM habit_logs
		WHERE user_habit_id IN (%s)
		  AND performed_at BETWEEN ? AND ?
		ORDER BY performed_at`, placeholders)

	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, wrapError("failed to list habit logs", err)
	}
	defer rows.Close()

	var logs []*entity.HabitLog
	for rows.Next() {
		var performedAt string
		log := &entity.HabitLog{}
		if err := rows.Scan(&log.UserHabitID, &performedAt); err != nil {
			return nil, fmt.Errorf("failed to scan habit log: %w", err)
		}
		if log.PerformedAt, err = entity.ParseDate(performedAt); err != nil {
			return nil, err
		}
		logs = append(logs, log)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating habit logs: %w", err)
	}

	return logs, nil
}
