package middleware

import (
	"bytes"
	"errors"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/hongminglow/taskdesk/internal/access"
	"github.com/hongminglow/taskdesk/internal/auth"
	"github.com/hongminglow/taskdesk/internal/models"
)

// stubVerifier maps raw tokens to identities.
type stubVerifier map[string]auth.Identity

func (s stubVerifier) Verify(token string) (auth.Identity, error) {
	if token == "expired" {
		return auth.Identity{}, auth.ErrTokenExpired
	}
	id, ok := s[token]
	if !ok {
		return auth.Identity{}, auth.ErrTokenInvalid
	}
	return id, nil
}

func discardLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func TestRequire(t *testing.T) {
	authn := NewAuthenticator(stubVerifier{
		"admin": {UserID: "admin001", Role: models.RoleAdmin},
		"user":  {UserID: "user001", Role: models.RoleGeneralUser},
	}, discardLogger())

	var seen auth.Identity
	handler := authn.Require(access.OpManageUsers, func(w http.ResponseWriter, _ *http.Request, id auth.Identity) {
		seen = id
		w.WriteHeader(http.StatusNoContent)
	})

	tests := []struct {
		header string
		status int
		body   string
	}{
		{"", http.StatusUnauthorized, "No token provided"},
		{"Bearer expired", http.StatusUnauthorized, "Token expired"},
		{"Bearer forged", http.StatusUnauthorized, "Invalid token"},
		{"Token admin", http.StatusUnauthorized, "Invalid token"},
		{"Bearer user", http.StatusForbidden, "Admin access required"},
		{"Bearer admin", http.StatusNoContent, ""},
	}
	for _, tc := range tests {
		rec := httptest.NewRecorder()
		req := httptest.NewRequest(http.MethodGet, "/api/users", nil)
		if tc.header != "" {
			req.Header.Set("Authorization", tc.header)
		}
		handler.ServeHTTP(rec, req)

		assert.Equal(t, tc.status, rec.Code, tc.header)
		if tc.body != "" {
			assert.Contains(t, rec.Body.String(), tc.body, tc.header)
		}
	}
	assert.Equal(t, "admin001", seen.UserID)
}

func TestRequireNamesDeniedOperation(t *testing.T) {
	authn := NewAuthenticator(stubVerifier{
		"user": {UserID: "user001", Role: models.RoleGeneralUser},
	}, discardLogger())
	next := func(w http.ResponseWriter, _ *http.Request, _ auth.Identity) { w.WriteHeader(http.StatusNoContent) }

	tests := map[access.Operation]string{
		access.OpCreateTask:  "Only admins can create tasks",
		access.OpUpdateTask:  "Only admins can update tasks",
		access.OpDeleteTask:  "Only admins can delete tasks",
		access.OpManageUsers: "Admin access required",
	}
	for op, want := range tests {
		rec := httptest.NewRecorder()
		req := httptest.NewRequest(http.MethodPost, "/api/tasks", nil)
		req.Header.Set("Authorization", "Bearer user")
		authn.Require(op, next).ServeHTTP(rec, req)

		assert.Equal(t, http.StatusForbidden, rec.Code, want)
		assert.Contains(t, rec.Body.String(), want)
	}
}

func TestCORS(t *testing.T) {
	next := http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) { w.WriteHeader(http.StatusOK) })

	restricted := CORS([]string{"https://app.example.com"})(next)

	rec := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/", nil)
	req.Header.Set("Origin", "https://APP.example.com")
	restricted.ServeHTTP(rec, req)
	assert.Equal(t, "https://APP.example.com", rec.Header().Get("Access-Control-Allow-Origin"))
	assert.Equal(t, "true", rec.Header().Get("Access-Control-Allow-Credentials"))

	rec = httptest.NewRecorder()
	req = httptest.NewRequest(http.MethodGet, "/", nil)
	req.Header.Set("Origin", "https://evil.example.com")
	restricted.ServeHTTP(rec, req)
	assert.Empty(t, rec.Header().Get("Access-Control-Allow-Origin"))

	rec = httptest.NewRecorder()
	req = httptest.NewRequest(http.MethodOptions, "/", nil)
	req.Header.Set("Origin", "https://other.example.com")
	CORS([]string{"*"})(next).ServeHTTP(rec, req)
	assert.Equal(t, http.StatusNoContent, rec.Code)
	assert.Equal(t, "*", rec.Header().Get("Access-Control-Allow-Origin"))
}

func TestRequestID(t *testing.T) {
	var fromCtx string
	handler := RequestID(http.HandlerFunc(func(_ http.ResponseWriter, r *http.Request) {
		fromCtx = RequestIDFrom(r.Context())
	}))

	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/", nil))
	require.NotEmpty(t, fromCtx)
	assert.Equal(t, fromCtx, rec.Header().Get(RequestIDHeader))

	rec = httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/", nil)
	req.Header.Set(RequestIDHeader, "client-chosen")
	handler.ServeHTTP(rec, req)
	assert.Equal(t, "client-chosen", fromCtx)
}

func TestLoggingRecordsStatus(t *testing.T) {
	var buf bytes.Buffer
	logger := slog.New(slog.NewTextHandler(&buf, nil))
	handler := Logging(logger)(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusTeapot)
	}))

	handler.ServeHTTP(httptest.NewRecorder(), httptest.NewRequest(http.MethodGet, "/api/health", nil))
	assert.Contains(t, buf.String(), "status=418")
	assert.Contains(t, buf.String(), "path=/api/health")
}

func TestRecover(t *testing.T) {
	handler := Recover(discardLogger())(http.HandlerFunc(func(http.ResponseWriter, *http.Request) {
		panic("boom")
	}))

	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/", nil))
	assert.Equal(t, http.StatusInternalServerError, rec.Code)
	assert.Contains(t, rec.Body.String(), "Server error")
}

func TestLimitBody(t *testing.T) {
	var readErr error
	handler := LimitBody(http.HandlerFunc(func(_ http.ResponseWriter, r *http.Request) {
		_, readErr = io.ReadAll(r.Body)
	}))

	big := strings.NewReader(strings.Repeat("x", maxRequestBodySize+1))
	handler.ServeHTTP(httptest.NewRecorder(), httptest.NewRequest(http.MethodPost, "/", big))

	var tooLarge *http.MaxBytesError
	require.True(t, errors.As(readErr, &tooLarge))
}
