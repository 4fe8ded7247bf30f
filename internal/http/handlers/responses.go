package handlers

import (
	"encoding/json"
	"errors"
	"io"
	"log/slog"
	"net/http"

	"github.com/hongminglow/taskdesk/internal/access"
	"github.com/hongminglow/taskdesk/internal/http/respond"
	"github.com/hongminglow/taskdesk/internal/middleware"
	"github.com/hongminglow/taskdesk/internal/service"
)

// errorMessages names the resource in not-found and conflict responses.
type errorMessages struct {
	notFound  string
	conflict  string
	forbidden string
}

var (
	taskMessages = errorMessages{
		notFound:  "Task not found",
		conflict:  "Task ID already exists",
		forbidden: "Not authorized to update this task",
	}
	userMessages = errorMessages{
		notFound:  "User not found",
		conflict:  "User already exists",
		forbidden: "Admin access required",
	}
	recordMessages = errorMessages{
		notFound:  "Record not found",
		conflict:  "Record already exists",
		forbidden: "Not authorized to read records",
	}
)

// decodeJSON reads the request body into dst. An empty body decodes as {}.
func decodeJSON(r *http.Request, dst any) error {
	if err := json.NewDecoder(r.Body).Decode(dst); err != nil && !errors.Is(err, io.EOF) {
		return err
	}
	return nil
}

// writeServiceError maps business-rule failures to status codes. Anything it
// does not recognise is logged and reported as a generic 500.
func writeServiceError(w http.ResponseWriter, r *http.Request, logger *slog.Logger, msgs errorMessages, err error) {
	var validation *service.ValidationError
	switch {
	case errors.As(err, &validation):
		respond.Error(w, http.StatusBadRequest, validation.Message)
	case errors.Is(err, service.ErrInvalidCredentials):
		respond.Error(w, http.StatusUnauthorized, "Invalid credentials")
	case errors.Is(err, access.ErrForbidden):
		respond.Error(w, http.StatusForbidden, msgs.forbidden)
	case errors.Is(err, service.ErrConflict):
		respond.Error(w, http.StatusBadRequest, msgs.conflict)
	case errors.Is(err, service.ErrNotFound):
		respond.Error(w, http.StatusNotFound, msgs.notFound)
	default:
		logger.Error("request failed",
			"error", err,
			"method", r.Method,
			"path", r.URL.Path,
			"request_id", middleware.RequestIDFrom(r.Context()),
		)
		respond.Error(w, http.StatusInternalServerError, "Server error")
	}
}
