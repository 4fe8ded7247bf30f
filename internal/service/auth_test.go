package service

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"

	"github.com/hongminglow/taskdesk/internal/auth"
	"github.com/hongminglow/taskdesk/internal/models"
	"github.com/hongminglow/taskdesk/internal/storage/memory"
)

func newAuthService(t *testing.T) (*AuthService, *auth.TokenManager) {
	t.Helper()
	store := memory.NewStore()
	hasher := auth.NewPasswordHasher(bcrypt.MinCost)
	tokens := auth.NewTokenManager("test-secret", "taskdesk", time.Hour)

	hash, err := hasher.Hash("password123")
	require.NoError(t, err)
	_, err = store.CreateUser(context.Background(), models.User{
		UserID:       "admin001",
		Name:         "Admin User",
		Role:         models.RoleAdmin,
		PasswordHash: hash,
	})
	require.NoError(t, err)

	return NewAuthService(store, hasher, tokens), tokens
}

func TestLoginIssuesVerifiableToken(t *testing.T) {
	svc, tokens := newAuthService(t)

	token, user, err := svc.Login(context.Background(), "admin001", "password123")
	require.NoError(t, err)
	assert.Equal(t, models.RoleAdmin, user.Role)

	id, err := tokens.Verify(token)
	require.NoError(t, err)
	assert.Equal(t, "admin001", id.UserID)
	assert.True(t, id.IsAdmin())
}

func TestLoginRejectsBadCredentials(t *testing.T) {
	svc, _ := newAuthService(t)
	ctx := context.Background()

	_, _, err := svc.Login(ctx, "admin001", "wrong")
	require.ErrorIs(t, err, ErrInvalidCredentials)

	_, _, err = svc.Login(ctx, "nobody", "password123")
	require.ErrorIs(t, err, ErrInvalidCredentials)
}
