package handlers

import (
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/hongminglow/taskdesk/internal/http/respond"
	"github.com/hongminglow/taskdesk/internal/models/dto"
	"github.com/hongminglow/taskdesk/internal/service"
)

// AuthHandler owns the login endpoint.
type AuthHandler struct {
	auth   *service.AuthService
	delay  *Delayer
	logger *slog.Logger
}

// NewAuthHandler constructs the handler.
func NewAuthHandler(auth *service.AuthService, delay *Delayer, logger *slog.Logger) *AuthHandler {
	return &AuthHandler{auth: auth, delay: delay, logger: logger}
}

// Register attaches auth routes to the router.
func (h *AuthHandler) Register(r chi.Router) {
	r.Post("/auth/login", h.handleLogin)
}

func (h *AuthHandler) handleLogin(w http.ResponseWriter, r *http.Request) {
	var req dto.LoginRequest
	if err := decodeJSON(r, &req); err != nil {
		respond.Error(w, http.StatusBadRequest, "invalid JSON payload")
		return
	}
	h.delay.Wait(int(req.DelayMs))

	creds, err := req.Parse()
	if err != nil {
		writeServiceError(w, r, h.logger, userMessages, err)
		return
	}

	token, user, err := h.auth.Login(r.Context(), creds.UserID, creds.Password)
	if err != nil {
		writeServiceError(w, r, h.logger, userMessages, err)
		return
	}
	h.logger.Info("login succeeded", "user_id", user.UserID, "role", user.Role)
	respond.JSON(w, http.StatusOK, dto.LoginResponse{Token: token, User: dto.NewUserView(user)})
}
