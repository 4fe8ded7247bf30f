package handlers

import (
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/hongminglow/taskdesk/internal/access"
	"github.com/hongminglow/taskdesk/internal/auth"
	"github.com/hongminglow/taskdesk/internal/http/respond"
	"github.com/hongminglow/taskdesk/internal/middleware"
	"github.com/hongminglow/taskdesk/internal/models/dto"
	"github.com/hongminglow/taskdesk/internal/service"
)

// UserHandler owns the admin user-management endpoints.
type UserHandler struct {
	users  *service.UserService
	authn  *middleware.Authenticator
	delay  *Delayer
	logger *slog.Logger
}

// NewUserHandler constructs the handler.
func NewUserHandler(users *service.UserService, authn *middleware.Authenticator, delay *Delayer, logger *slog.Logger) *UserHandler {
	return &UserHandler{users: users, authn: authn, delay: delay, logger: logger}
}

// Register attaches user routes to the router.
func (h *UserHandler) Register(r chi.Router) {
	r.Route("/users", func(r chi.Router) {
		r.Get("/", h.authn.Require(access.OpManageUsers, h.handleList))
		r.Post("/", h.authn.Require(access.OpManageUsers, h.handleCreate))
		r.Put("/{id}", h.authn.Require(access.OpManageUsers, h.handleUpdate))
		r.Delete("/{id}", h.authn.Require(access.OpManageUsers, h.handleDelete))
	})
}

func (h *UserHandler) handleList(w http.ResponseWriter, r *http.Request, id auth.Identity) {
	h.delay.WaitQuery(r.URL.Query().Get("delay"))

	users, err := h.users.List(r.Context(), id)
	if err != nil {
		writeServiceError(w, r, h.logger, userMessages, err)
		return
	}
	respond.JSON(w, http.StatusOK, users)
}

func (h *UserHandler) handleCreate(w http.ResponseWriter, r *http.Request, id auth.Identity) {
	var req dto.CreateUserRequest
	if err := decodeJSON(r, &req); err != nil {
		respond.Error(w, http.StatusBadRequest, "invalid JSON payload")
		return
	}
	in, err := req.Parse()
	if err != nil {
		writeServiceError(w, r, h.logger, userMessages, err)
		return
	}

	user, err := h.users.Create(r.Context(), id, in)
	if err != nil {
		writeServiceError(w, r, h.logger, userMessages, err)
		return
	}
	h.logger.Info("user created", "user_id", user.UserID, "role", user.Role, "created_by", id.UserID)
	respond.JSON(w, http.StatusCreated, dto.CreateUserResponse{Message: "User created successfully", UserID: user.UserID})
}

func (h *UserHandler) handleUpdate(w http.ResponseWriter, r *http.Request, id auth.Identity) {
	var req dto.UpdateUserRequest
	if err := decodeJSON(r, &req); err != nil {
		respond.Error(w, http.StatusBadRequest, "invalid JSON payload")
		return
	}
	patch, err := req.Parse()
	if err != nil {
		writeServiceError(w, r, h.logger, userMessages, err)
		return
	}

	user, err := h.users.Update(r.Context(), id, chi.URLParam(r, "id"), patch)
	if err != nil {
		writeServiceError(w, r, h.logger, userMessages, err)
		return
	}
	h.logger.Info("user updated", "user_id", user.UserID, "updated_by", id.UserID, "password_rotated", patch.Password != nil)
	respond.JSON(w, http.StatusOK, dto.UpdateUserResponse{Message: "User updated successfully", User: user})
}

func (h *UserHandler) handleDelete(w http.ResponseWriter, r *http.Request, id auth.Identity) {
	userID := chi.URLParam(r, "id")
	if err := h.users.Delete(r.Context(), id, userID); err != nil {
		writeServiceError(w, r, h.logger, userMessages, err)
		return
	}
	h.logger.Info("user deleted", "user_id", userID, "deleted_by", id.UserID)
	respond.JSON(w, http.StatusOK, dto.MessageResponse{Message: "User deleted successfully"})
}
