package service

import (
	"context"

	"habitlog-service/internal/domain/entity"
)

// LoginResult is returned to a client after successful authentication
type LoginResult struct {
	AccessToken string `json:"access_token"`
	TokenType   string `json:"token_type"`
	Username    string `json:"username"`
}

// AuthService handles accounts and access tokens
type AuthService interface {
	// Signup registers a user
	Signup(ctx context.Context, username, email, password string) (*entity.User, error)

	// Login checks credentials and issues an access token
	Login(ctx context.Context, email, password string) (*LoginResult, error)

	// Verify validates an access token and returns its principal
	Verify(ctx context.Context, token string) (*entity.Principal, error)
}
