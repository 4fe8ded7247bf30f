package service

import (
	"time"

	"github.com/hongminglow/taskdesk/internal/models"
)

// NewTask is a validated task creation request.
type NewTask struct {
	TaskID      string
	Title       string
	Description string
	AssignedTo  string
	Priority    models.Priority
	DueDate     time.Time
}

// TaskPatch is a validated partial task update. Nil fields are left untouched.
type TaskPatch struct {
	Title       *string
	Description *string
	Priority    *models.Priority
	DueDate     *time.Time
	AssignedTo  *string
}

// NewUser is a validated user creation request.
type NewUser struct {
	UserID     string
	Password   string
	Role       models.Role
	Name       string
	Email      string
	Department string
}

// UserPatch is a validated partial user update. Nil fields are left untouched;
// a non-nil Password rotates the stored hash.
type UserPatch struct {
	Name       *string
	Email      *string
	Department *string
	Role       *models.Role
	Password   *string
}
