package service

import (
	"context"
	"errors"
	"fmt"

	"github.com/hongminglow/taskdesk/internal/auth"
	"github.com/hongminglow/taskdesk/internal/models"
	"github.com/hongminglow/taskdesk/internal/storage"
)

// AuthService verifies credentials and issues session tokens.
type AuthService struct {
	users  storage.UserStore
	hasher *auth.PasswordHasher
	tokens *auth.TokenManager
}

// NewAuthService constructs the service.
func NewAuthService(users storage.UserStore, hasher *auth.PasswordHasher, tokens *auth.TokenManager) *AuthService {
	return &AuthService{users: users, hasher: hasher, tokens: tokens}
}

// Login checks userID and password and returns a session token with the
// matching user. Unknown users and wrong passwords both yield
// ErrInvalidCredentials.
func (s *AuthService) Login(ctx context.Context, userID, password string) (string, models.User, error) {
	user, err := s.users.FindUser(ctx, userID)
	if err != nil {
		if errors.Is(err, storage.ErrNotFound) {
			s.hasher.Burn(password)
			return "", models.User{}, ErrInvalidCredentials
		}
		return "", models.User{}, fmt.Errorf("find user %s: %w", userID, err)
	}

	ok, err := s.hasher.Verify(user.PasswordHash, password)
	if err != nil {
		return "", models.User{}, err
	}
	if !ok {
		return "", models.User{}, ErrInvalidCredentials
	}

	token, err := s.tokens.Generate(user)
	if err != nil {
		return "", models.User{}, err
	}
	return token, user, nil
}
