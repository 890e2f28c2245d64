package sqlite

import (
	"context"
	"encoding/json"
	"fmt"

	"habitlog-service/internal/domain/entity"
	"habitlog-service/internal/domain/repository"

	"github.com/google/uuid"
)

type habitRepository struct {
	db DBTX
}

// NewHabitRepository creates a new SQLite habit repository
func NewHabitRepository(db DBTX) repository.HabitRepository {
	return &habitRepository{db: db}
}

func (r *habitRepository) List(ctx context.Context) ([]*entity.Habit, error) {
	rows, err := r.db.QueryContext(ctx, `SELECT habit_id, habit_name, description FROM habits ORDER BY habit_name`)
	if err != nil {
		return nil, wrapError("failed to list habits", err)
	}
	defer rows.Close()

	var habits []*entity.Habit
	for rows.Next() {
		habit := &entity.Habit{}
		if err := rows.Scan(&habit.ID, &habit.Name, &habit.Description); err != nil {
			return nil, fmt.Errorf("failed to scan habit: %w", err)
		}
		habits = append(habits, habit)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating habits: %w", err)
	}

	return habits, nil
}

func (r *habitRepository) GetByID(ctx context.Context, id uuid.UUID) (*entity.Habit, error) {
	var raw string
	habit := &entity.Habit{}
	err := r.db.QueryRowContext(ctx,
		`SELECT habit_id, habit_name, description, embeddings FROM habits WHERE habit_id = ?`, id,
	).Scan(&habit.ID, &habit.Name, &habit.Description, &raw)
	if err != nil {
		return nil, wrapError("failed to get habit", err)
	}

	if err := json.Unmarshal([]byte(raw), &habit.Embeddings); err != nil {
		return nil, fmt.Errorf("failed to decode embeddings: %w", err)
	}

	return habit, nil
}

func (r *habitRepository) Upsert(ctx context.Context, habit *entity.Habit) error {
	embeddings := habit.Embeddings
	if embeddings == nil {
		embeddings = [][]float64{}
	}
	data, err := json.Marshal(embeddings)
	if err != nil {
		return fmt.Errorf("failed to encode embeddings: %w", err)
	}

	err = r.db.QueryRowContext(ctx, `
		INSERT INTO habits (habit_id, habit_name, description, embeddings)
		VALUES (?, ?, ?, ?)
		ON CONFLICT (habit_name) DO UPDATE
		SET description = excluded.description, embeddings = excluded.embeddings
		RETURNING habit_id`,
		habit.ID, habit.Name, habit.Description, string(data),
	).Scan(&habit.ID)
	if err != nil {
		return wrapError("failed to upsert habit", err)
	}

	return nil
}
