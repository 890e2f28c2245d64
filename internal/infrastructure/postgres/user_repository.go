package postgres

import (
	"context"
	"fmt"

	"habitlog-service/internal/domain/entity"
	"habitlog-service/internal/domain/repository"

	"github.com/google/uuid"
)

type userRepository struct {
	db DBTX
}

// NewUserRepository creates a new PostgreSQL user repository
func NewUserRepository(db DBTX) repository.UserRepository {
	return &userRepository{db: db}
}

func (r *userRepository) Create(ctx context.Context, user *entity.User) error {
	query := `
		INSERT INTO users (user_id, username, email, password, created_at)
		VALUES ($1, $2, $3, $4, $5)
	`

	_, err := r.db.Exec(ctx, query, user.ID, user.Username, user.Email, user.PasswordHash, user.CreatedAt)
	if err != nil {
		return wrapError("failed to create user", err)
	}

	return nil
}

func (r *userRepository) GetByID(ctx context.Context, id uuid.UUID) (*entity.User, error) {
	query := `
		SELECT user_id, username, email, password, latitude, longitude, created_at
		FROM users
		WHERE user_id = $1
	`

	return r.scanOne(ctx, query, id)
}

func (r *userRepository) GetByEmail(ctx context.Context, email string) (*entity.User, error) {
	query := `
		SELECT user_id, username, email, password, latitude, longitude, created_at
		FROM users
		WHERE email = $1
	`

	return r.scanOne(ctx, query, email)
}

func (r *userRepository) scanOne(ctx context.Context, query string, arg any) (*entity.User, error) {
	var (
		user     entity.User
		lat, lng *float64
	)

	err := r.db.QueryRow(ctx, query, arg).Scan(
		&user.ID, &user.Username, &user.Email, &user.PasswordHash, &lat, &lng, &user.CreatedAt,
	)
	if err != nil {
		return nil, wrapError("failed to get user", err)
	}

	if lat != nil && lng != nil {
		user.Location = &entity.GeoPoint{Latitude: *lat, Longitude: *lng}
	}

	return &user, nil
}

func (r *userRepository) UpdateLocation(ctx context.Context, id uuid.UUID, point entity.GeoPoint) error {
	query := `UPDATE users SET latitude = $1, longitude = $2 WHERE user_id = $3`

	result, err := r.db.Exec(ctx, query, point.Latitude, point.Longitude, id)
	if err != nil {
		return wrapError("failed to update location", err)
	}

	if result.RowsAffected() == 0 {
		return fmt.Errorf("failed to update location: %w", repository.ErrNotFound)
	}

	return nil
}
