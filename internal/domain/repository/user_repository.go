package repository

import (
	"context"

	"habitlog-service/internal/domain/entity"

	"github.com/google/uuid"
)

// UserRepository defines the interface for user persistence
type UserRepository interface {
	// Create creates a new user; duplicate username or email yields ErrUniqueViolation
	Create(ctx context.Context, user *entity.User) error

	// GetByID retrieves a user by ID
	GetByID(ctx context.Context, id uuid.UUID) (*entity.User, error)

	// GetByEmail retrieves a user by email
	GetByEmail(ctx context.Context, email string) (*entity.User, error)

	// UpdateLocation sets the user's location
	UpdateLocation(ctx context.Context, id uuid.UUID, point entity.GeoPoint) error
}
