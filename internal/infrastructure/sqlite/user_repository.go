package sqlite

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"habitlog-service/internal/domain/entity"
	"habitlog-service/internal/domain/repository"

	"github.com/google/uuid"
)

type userRepository struct {
	db DBTX
}

// NewUserRepository creates a new SQLite user repository
func NewUserRepository(db DBTX) repository.UserRepository {
	return &userRepository{db: db}
}

func (r *userRepository) Create(ctx context.Context, user *entity.User) error {
	_, err := r.db.ExecContext(ctx, `
		INSERT INTO users (user_id, username, email, password, created_at)
		VALUES (?, ?, ?, ?, ?)`,
		user.ID, user.Username, user.Email, user.PasswordHash, user.CreatedAt.UTC().Format(time.RFC3339Nano),
	)
	if err != nil {
		return wrapError("failed to create user", err)
	}

	return nil
}

func (r *userRepository) GetByID(ctx context.Context, id uuid.UUID) (*entity.User, error) {
	return r.scanOne(ctx, `
		SELECT user_id, username, email, password, latitude, longitude, created_at
		FROM users WHERE user_id = ?`, id)
}

func (r *userRepository) GetByEmail(ctx context.Context, email string) (*entity.User, error) {
	return r.scanOne(ctx, `
		SELECT user_id, username, email, password, latitude, longitude, created_at
		FROM users WHERE email = ?`, email)
}

func (r *userRepository) scanOne(ctx context.Context, query string, arg any) (*entity.User, error) {
	var (
		user      entity.User
		lat, lng  sql.NullFloat64
		createdAt string
	)

	err := r.db.QueryRowContext(ctx, query, arg).Scan(
		&user.ID, &user.Username, &user.Email, &user.PasswordHash, &lat, &lng, &createdAt,
	)
	if err != nil {
		return nil, wrapError("failed to get user", err)
	}

	user.CreatedAt, err = time.Parse(time.RFC3339Nano, createdAt)
	if err != nil {
		return nil, fmt.Errorf("failed to parse created_at: %w", err)
	}

	if lat.Valid && lng.Valid {
		user.Location = &entity.GeoPoint{Latitude: lat.Float64, Longitude: lng.Float64}
	}

	return &user, nil
}

func (r *userRepository) UpdateLocation(ctx context.Context, id uuid.UUID, point entity.GeoPoint) error {
	result, err := r.db.ExecContext(ctx,
		`UPDATE users SET latitude = ?, longitude = ? WHERE user_id = ?`,
		point.Latitude, point.Longitude, id,
	)
	if err != nil {
		return wrapError("failed to update location", err)
	}

	if n, _ := result.RowsAffected(); n == 0 {
		return fmt.Errorf("failed to update location: %w", repository.ErrNotFound)
	}

	return nil
}
