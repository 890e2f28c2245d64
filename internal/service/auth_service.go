package service

import (
	"context"
	"errors"
	"strings"
	"time"

	"habitlog-service/internal/domain/apperr"
	"habitlog-service/internal/domain/entity"
	"habitlog-service/internal/domain/repository"
	"habitlog-service/internal/domain/service"
	"habitlog-service/pkg/hash"
	"habitlog-service/pkg/jwt"

	"github.com/google/uuid"
	"go.uber.org/zap"
)

type authService struct {
	users  repository.UserRepository
	tokens *jwt.TokenManager
	hasher *hash.Hasher
	logger *zap.Logger
}

// NewAuthService creates a new auth service
func NewAuthService(users repository.UserRepository, tokens *jwt.TokenManager, hasher *hash.Hasher, logger *zap.Logger) service.AuthService {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &authService{
		users:  users,
		tokens: tokens,
		hasher: hasher,
		logger: logger,
	}
}

func (s *authService) Signup(ctx context.Context, username, email, password string) (*entity.User, error) {
	username = strings.TrimSpace(username)
	email = strings.ToLower(strings.TrimSpace(email))

	if err := checkInput(signupInput{Username: username, Email: email, Password: password}); err != nil {
		return nil, err
	}

	hashed, err := s.hasher.HashPassword(password)
	if err != nil {
		return nil, apperr.Wrap(apperr.KindInternal, "failed to hash password", err)
	}

	user := &entity.User{
		ID:           uuid.New(),
		Username:     username,
		Email:        email,
		PasswordHash: hashed,
		CreatedAt:    time.Now().UTC(),
	}

	if err := s.users.Create(ctx, user); err != nil {
		if errors.Is(err, repository.ErrUniqueViolation) {
			return nil, apperr.New(apperr.KindConflict, "Username or email already exists")
		}
		s.logger.Error("failed to create user", zap.Error(err))
		return nil, storeError("failed to create user", err)
	}

	s.logger.Info("user signed up", zap.String("user_id", user.ID.String()))

	return user, nil
}

func (s *authService) Login(ctx context.Context, email, password string) (*service.LoginResult, error) {
	email = strings.ToLower(strings.TrimSpace(email))

	user, err := s.users.GetByEmail(ctx, email)
	if errors.Is(err, repository.ErrNotFound) {
		return nil, apperr.New(apperr.KindUnauthorized, "Incorrect email or password")
	}
	if err != nil {
		s.logger.Error("failed to load user", zap.Error(err))
		return nil, storeError("failed to load user", err)
	}

	if err := s.hasher.ComparePassword(user.PasswordHash, password); err != nil {
		return nil, apperr.New(apperr.KindUnauthorized, "Incorrect email or password")
	}

	token, _, err := s.tokens.GenerateAccessToken(user.ID, jwt.DefaultRole)
	if err != nil {
		return nil, apperr.Wrap(apperr.KindInternal, "failed to issue token", err)
	}

	return &service.LoginResult{
		AccessToken: token,
		TokenType:   "bearer",
		Username:    user.Username,
	}, nil
}

func (s *authService) Verify(_ context.Context, token string) (*entity.Principal, error) {
	claims, err := s.tokens.ValidateAccessToken(token)
	if err != nil {
		return nil, apperr.Wrap(apperr.KindUnauthorized, "Could not validate credentials", err)
	}

	principal := &entity.Principal{
		SubjectID: claims.UserID,
		Role:      claims.Role,
	}
	if claims.ExpiresAt != nil {
		principal.ExpiresAt = claims.ExpiresAt.Time
	}

	return principal, nil
}
