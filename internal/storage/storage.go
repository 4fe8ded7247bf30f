package storage

import (
	"context"
	"errors"

	"github.com/hongminglow/taskdesk/internal/models"
)

// ErrNotFound indicates a document does not exist.
var ErrNotFound = errors.New("record not found")

// ErrAlreadyExists indicates a uniqueness conflict.
var ErrAlreadyExists = errors.New("record already exists")

// RecordFilter narrows a record listing. The zero value matches every record.
type RecordFilter struct {
	// Scoped restricts the listing to records owned by VisibleTo or marked public.
	Scoped    bool
	VisibleTo string
}

// Matches reports whether rec passes the filter.
func (f RecordFilter) Matches(rec models.Record) bool {
	if !f.Scoped {
		return true
	}
	return (f.VisibleTo != "" && rec.UserID == f.VisibleTo) || rec.AccessLevel == models.AccessPublic
}

// TaskFilter narrows a task listing. The zero value matches every task.
type TaskFilter struct {
	// Scoped restricts the listing to tasks assigned to AssignedTo.
	Scoped     bool
	AssignedTo string
}

// Matches reports whether task passes the filter.
func (f TaskFilter) Matches(task models.Task) bool {
	if !f.Scoped {
		return true
	}
	return f.AssignedTo != "" && task.AssignedTo == f.AssignedTo
}

// UserStore captures persistence operations on identities.
type UserStore interface {
	CreateUser(ctx context.Context, user models.User) (models.User, error)
	FindUser(ctx context.Context, userID string) (models.User, error)
	ListUsers(ctx context.Context) ([]models.User, error)
	UpdateUser(ctx context.Context, user models.User) (models.User, error)
	DeleteUser(ctx context.Context, userID string) error
}

// RecordStore captures persistence operations on records.
type RecordStore interface {
	CreateRecord(ctx context.Context, rec models.Record) (models.Record, error)
	ListRecords(ctx context.Context, filter RecordFilter) ([]models.Record, error)
}

// TaskStore captures persistence operations on tasks. ListTasks returns
// tasks newest-created first.
type TaskStore interface {
	CreateTask(ctx context.Context, task models.Task) (models.Task, error)
	FindTask(ctx context.Context, taskID string) (models.Task, error)
	ListTasks(ctx context.Context, filter TaskFilter) ([]models.Task, error)
	UpdateTask(ctx context.Context, task models.Task) (models.Task, error)
	DeleteTask(ctx context.Context, taskID string) error
}

// Store is the full persistence surface a driver provides.
type Store interface {
	UserStore
	RecordStore
	TaskStore
	Close()
}
