package postgres

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

// NewHabitRepository creates a new PostgreSQL habit repository
func NewHabitRepository(db DBTX) repository.HabitRepository {
	return &habitRepository{db: db}
}

func (r *habitRepository) List(ctx context.Context) ([]*entity.Habit, error) {
	query := `
		SELECT habit_id, habit_name, description
		FROM habits
		ORDER BY habit_name
	`

	rows, err := r.db.Query(ctx, query)
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
	query := `
		SELECT habit_id, habit_name, description, embeddings
		FROM habits
		WHERE habit_id = $1
	`

	var raw []byte
	habit := &entity.Habit{}
	err := r.db.QueryRow(ctx, query, id).Scan(&habit.ID, &habit.Name, &habit.Description, &raw)
	if err != nil {
		return nil, wrapError("failed to get habit", err)
	}

	if err := json.Unmarshal(raw, &habit.Embeddings); err != nil {
		return nil, fmt.Errorf("failed to decode embeddings: %w", err)
	}

	return habit, nil
}

func (r *habitRepository) Upsert(ctx context.Context, habit *entity.Habit) error {
	embeddings, err := encodeEmbeddings(habit.Embeddings)
	if err != nil {
		return err
	}

	query := `
		INSERT INTO habits (habit_id, habit_name, description, embeddings)
		VALUES ($1, $2, $3, $4::jsonb)
		ON CONFLICT (habit_name) DO UPDATE
		SET description = EXCLUDED.description, embeddings = EXCLUDED.embeddings
		RETURNING habit_id
	`

	if err := r.db.QueryRow(ctx, query, habit.ID, habit.Name, habit.Description, embeddings).Scan(&habit.ID); err != nil {
		return wrapError("failed to upsert habit", err)
	}

	return nil
}

func encodeEmbeddings(embeddings [][]float64) (string, error) {
	if embeddings == nil {
		embeddings = [][]float64{}
	}
	data, err := json.Marshal(embeddings)
	if err != nil {
		return "", fmt.Errorf("failed to encode embeddings: %w", err)
	}
	return string(data), nil
}
