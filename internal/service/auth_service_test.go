package service

import (
	"context"
	"testing"
	"time"

	"habitlog-service/internal/domain/apperr"
	"habitlog-service/pkg/hash"
	"habitlog-service/pkg/jwt"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestAuth(t *testing.T) *authService {
	t.Helper()
	store := newTestStore(t)
	tokens := jwt.NewTokenManager("test-secret", time.Hour, "habitlog")
	return NewAuthService(store.Users(), tokens, hash.NewHasher(4), nil).(*authService)
}

func TestAuthService_SignupAndLogin(t *testing.T) {
	svc := newTestAuth(t)
	ctx := context.Background()

	user, err := svc.Signup(ctx, "alice", "Alice@Example.com", "correct-horse")
	require.NoError(t, err)
	assert.Equal(t, "alice@example.com", user.Email)
	assert.NotEqual(t, "correct-horse", user.PasswordHash)

	result, err := svc.Login(ctx, "alice@example.com", "correct-horse")
	require.NoError(t, err)
	assert.Equal(t, "bearer", result.TokenType)
	assert.Equal(t, "alice", result.Username)

	principal, err := svc.Verify(ctx, result.AccessToken)
	require.NoError(t, err)
	assert.Equal(t, user.ID, principal.SubjectID)
	assert.Equal(t, jwt.DefaultRole, principal.Role)
}

func TestAuthService_SignupValidation(t *testing.T) {
	svc := newTestAuth(t)

	tests := []struct {
		name     string
		username string
		email    string
		password string
		message  string
	}{
		{name: "missing username", username: " ", email: "a@example.com", password: "long-enough", message: "username is required and at most 64 characters"},
		{name: "bad email", username: "a", email: "not-an-email", password: "long-enough", message: "email is invalid"},
		{name: "short password", username: "a", email: "a@example.com", password: "short", message: "password must be between 8 and 128 characters"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := svc.Signup(context.Background(), tt.username, tt.email, tt.password)
			assert.Equal(t, apperr.KindInvalidArgument, apperr.KindOf(err))
			assert.Equal(t, tt.message, apperr.MessageOf(err))
		})
	}
}

func TestAuthService_SignupDuplicate(t *testing.T) {
	svc := newTestAuth(t)
	ctx := context.Background()

	_, err := svc.Signup(ctx, "alice", "alice@example.com", "correct-horse")
	require.NoError(t, err)

	_, err = svc.Signup(ctx, "alice", "other@example.com", "correct-horse")
	assert.ErrorIs(t, err, apperr.ErrConflict)
	assert.Equal(t, "Username or email already exists", apperr.MessageOf(err))
}

func TestAuthService_LoginFailures(t *testing.T) {
	svc := newTestAuth(t)
	ctx := context.Background()

	_, err := svc.Signup(ctx, "alice", "alice@example.com", "correct-horse")
	require.NoError(t, err)

	_, err = svc.Login(ctx, "alice@example.com", "wrong-password")
	assert.ErrorIs(t, err, apperr.ErrUnauthorized)

	_, err = svc.Login(ctx, "nobody@example.com", "correct-horse")
	assert.ErrorIs(t, err, apperr.ErrUnauthorized)
	assert.Equal(t, "Incorrect email or password", apperr.MessageOf(err))
}

func TestAuthService_VerifyRejectsGarbage(t *testing.T) {
	svc := newTestAuth(t)

	_, err := svc.Verify(context.Background(), "not.a.token")
	assert.ErrorIs(t, err, apperr.ErrUnauthorized)
	assert.Equal(t, "Could not validate credentials", apperr.MessageOf(err))
}
