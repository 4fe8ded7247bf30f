package dto

import (
	"strings"

	"github.com/hongminglow/taskdesk/internal/models"
	"github.com/hongminglow/taskdesk/internal/service"
)

type CreateUserRequest struct {
	UserID     string `json:"userId"`
	Password   string `json:"password"`
	Role       string `json:"role"`
	Name       string `json:"name"`
	Email      string `json:"email"`
	Department string `json:"department"`
}

// Parse validates the request.
func (r CreateUserRequest) Parse() (service.NewUser, error) {
	in := service.NewUser{
		UserID:     strings.TrimSpace(r.UserID),
		Password:   r.Password,
		Role:       models.Role(strings.TrimSpace(r.Role)),
		Name:       strings.TrimSpace(r.Name),
		Email:      strings.TrimSpace(r.Email),
		Department: strings.TrimSpace(r.Department),
	}
	if in.UserID == "" || in.Password == "" || in.Role == "" || in.Name == "" || in.Email == "" || in.Department == "" {
		return service.NewUser{}, service.Invalid("userId, password, role, name, email, and department are required")
	}
	if !in.Role.Valid() {
		return service.NewUser{}, service.Invalid("invalid role %q", in.Role)
	}
	return in, nil
}

type CreateUserResponse struct {
	Message string `json:"message"`
	UserID  string `json:"userId"`
}

// UpdateUserRequest is a partial user update. Empty strings count as absent.
type UpdateUserRequest struct {
	Name       string `json:"name,omitempty"`
	Email      string `json:"email,omitempty"`
	Department string `json:"department,omitempty"`
	Role       string `json:"role,omitempty"`
	Password   string `json:"password,omitempty"`
}

// Parse validates the request.
func (r UpdateUserRequest) Parse() (service.UserPatch, error) {
	patch := service.UserPatch{
		Name:       present(r.Name),
		Email:      present(r.Email),
		Department: present(r.Department),
	}
	if r.Password != "" {
		password := r.Password
		patch.Password = &password
	}
	if role := present(r.Role); role != nil {
		parsed := models.Role(*role)
		if !parsed.Valid() {
			return service.UserPatch{}, service.Invalid("invalid role %q", parsed)
		}
		patch.Role = &parsed
	}
	return patch, nil
}

type UpdateUserResponse struct {
	Message string      `json:"message"`
	User    models.User `json:"user"`
}

type MessageResponse struct {
	Message string `json:"message"`
}
