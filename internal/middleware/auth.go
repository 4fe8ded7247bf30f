package middleware

import (
	"errors"
	"log/slog"
	"net/http"

	"github.com/hongminglow/taskdesk/internal/access"
	"github.com/hongminglow/taskdesk/internal/auth"
	"github.com/hongminglow/taskdesk/internal/http/respond"
)

// IdentityHandler is a handler that receives the verified caller as an argument.
type IdentityHandler func(w http.ResponseWriter, r *http.Request, id auth.Identity)

// TokenVerifier turns a bearer token into an identity.
type TokenVerifier interface {
	Verify(token string) (auth.Identity, error)
}

// Authenticator guards protected routes.
type Authenticator struct {
	tokens TokenVerifier
	logger *slog.Logger
}

// NewAuthenticator constructs an Authenticator.
func NewAuthenticator(tokens TokenVerifier, logger *slog.Logger) *Authenticator {
	return &Authenticator{tokens: tokens, logger: logger}
}

// Require verifies the bearer token (401 on failure), applies the role gate
// of op (403 on failure), then calls next with the identity.
func (a *Authenticator) Require(op access.Operation, next IdentityHandler) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		token, err := auth.BearerToken(r.Header.Get("Authorization"))
		if err != nil {
			respond.Error(w, http.StatusUnauthorized, unauthenticatedMessage(err))
			return
		}
		id, err := a.tokens.Verify(token)
		if err != nil {
			a.logger.Debug("token rejected", "error", err, "request_id", RequestIDFrom(r.Context()))
			respond.Error(w, http.StatusUnauthorized, unauthenticatedMessage(err))
			return
		}
		if err := access.AuthorizeRole(id, op); err != nil {
			respond.Error(w, http.StatusForbidden, forbiddenMessage(op))
			return
		}
		next(w, r, id)
	}
}

// forbiddenMessage names the denied operation where clients expect it.
func forbiddenMessage(op access.Operation) string {
	switch op {
	case access.OpCreateTask:
		return "Only admins can create tasks"
	case access.OpUpdateTask:
		return "Only admins can update tasks"
	case access.OpDeleteTask:
		return "Only admins can delete tasks"
	default:
		return "Admin access required"
	}
}

func unauthenticatedMessage(err error) string {
	switch {
	case errors.Is(err, auth.ErrTokenMissing):
		return "No token provided"
	case errors.Is(err, auth.ErrTokenExpired):
		return "Token expired"
	default:
		return "Invalid token"
	}
}
