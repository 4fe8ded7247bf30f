package auth

import (
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/hongminglow/taskdesk/internal/models"
)

var testUser = models.User{UserID: "user001", Name: "John Doe", Role: models.RoleGeneralUser}

func TestTokenRoundTrip(t *testing.T) {
	tm := NewTokenManager("secret", "taskdesk", time.Hour)

	token, err := tm.Generate(testUser)
	require.NoError(t, err)

	id, err := tm.Verify(token)
	require.NoError(t, err)
	assert.Equal(t, Identity{UserID: "user001", Role: models.RoleGeneralUser, Name: "John Doe"}, id)
	assert.False(t, id.IsAdmin())
}

func TestVerifyRejectsExpiredToken(t *testing.T) {
	issued := time.Date(2026, 1, 1, 12, 0, 0, 0, time.UTC)
	tm := NewTokenManager("secret", "taskdesk", time.Hour)
	tm.now = func() time.Time { return issued }

	token, err := tm.Generate(testUser)
	require.NoError(t, err)

	tm.now = func() time.Time { return issued.Add(2 * time.Hour) }
	_, err = tm.Verify(token)
	require.ErrorIs(t, err, ErrTokenExpired)
}

func TestVerifyRejectsWrongSecret(t *testing.T) {
	token, err := NewTokenManager("secret", "taskdesk", time.Hour).Generate(testUser)
	require.NoError(t, err)

	_, err = NewTokenManager("other", "taskdesk", time.Hour).Verify(token)
	require.ErrorIs(t, err, ErrTokenInvalid)
}

func TestVerifyRejectsWrongIssuer(t *testing.T) {
	token, err := NewTokenManager("secret", "someone-else", time.Hour).Generate(testUser)
	require.NoError(t, err)

	_, err = NewTokenManager("secret", "taskdesk", time.Hour).Verify(token)
	require.ErrorIs(t, err, ErrTokenInvalid)
}

func TestVerifyRejectsTamperedToken(t *testing.T) {
	tm := NewTokenManager("secret", "taskdesk", time.Hour)
	token, err := tm.Generate(testUser)
	require.NoError(t, err)

	_, err = tm.Verify(token[:len(token)-2] + "xx")
	require.ErrorIs(t, err, ErrTokenInvalid)

	_, err = tm.Verify("not-a-jwt")
	require.ErrorIs(t, err, ErrTokenInvalid)
}

func TestVerifyRejectsMissingToken(t *testing.T) {
	_, err := NewTokenManager("secret", "", 0).Verify("")
	require.ErrorIs(t, err, ErrTokenMissing)
}

func TestVerifyRejectsUnknownRole(t *testing.T) {
	now := time.Now()
	claims := Claims{
		RegisteredClaims: jwt.RegisteredClaims{
			Issuer:    "taskdesk",
			ExpiresAt: jwt.NewNumericDate(now.Add(time.Hour)),
		},
		UserID: "user001",
		Role:   "Superuser",
	}
	token, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString([]byte("secret"))
	require.NoError(t, err)

	_, err = NewTokenManager("secret", "taskdesk", time.Hour).Verify(token)
	require.ErrorIs(t, err, ErrTokenInvalid)
}

func TestVerifyRejectsOtherSigningMethods(t *testing.T) {
	claims := Claims{
		RegisteredClaims: jwt.RegisteredClaims{ExpiresAt: jwt.NewNumericDate(time.Now().Add(time.Hour))},
		UserID:           "admin001",
		Role:             models.RoleAdmin,
	}
	token, err := jwt.NewWithClaims(jwt.SigningMethodNone, claims).SignedString(jwt.UnsafeAllowNoneSignatureType)
	require.NoError(t, err)

	_, err = NewTokenManager("secret", "", time.Hour).Verify(token)
	require.ErrorIs(t, err, ErrTokenInvalid)
}

func TestNewTokenManagerDefaultsTTL(t *testing.T) {
	tm := NewTokenManager("secret", "", 0)
	assert.Equal(t, SessionTTL, tm.ttl)
}
