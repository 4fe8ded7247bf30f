package service

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/hongminglow/taskdesk/internal/access"
	"github.com/hongminglow/taskdesk/internal/auth"
	"github.com/hongminglow/taskdesk/internal/models"
	"github.com/hongminglow/taskdesk/internal/storage"
)

// TaskService applies the task scoping rules on top of a TaskStore.
type TaskService struct {
	tasks storage.TaskStore
	now   func() time.Time
}

// NewTaskService constructs the service.
func NewTaskService(tasks storage.TaskStore) *TaskService {
	return &TaskService{tasks: tasks, now: func() time.Time { return time.Now().UTC() }}
}

// List returns the tasks id may read, newest-created first.
func (s *TaskService) List(ctx context.Context, id auth.Identity) ([]models.Task, error) {
	if err := access.AuthorizeRole(id, access.OpReadTask); err != nil {
		return nil, err
	}
	return s.tasks.ListTasks(ctx, access.TaskScope(id))
}

// Create stores a new task assigned by id. The status always starts as Not
// Started and the priority defaults to Medium.
func (s *TaskService) Create(ctx context.Context, id auth.Identity, in NewTask) (models.Task, error) {
	if err := access.Authorize(id, access.OpCreateTask, access.Resource{}); err != nil {
		return models.Task{}, err
	}

	if _, err := s.tasks.FindTask(ctx, in.TaskID); err == nil {
		return models.Task{}, fmt.Errorf("task %s: %w", in.TaskID, ErrConflict)
	} else if !errors.Is(err, storage.ErrNotFound) {
		return models.Task{}, fmt.Errorf("find task %s: %w", in.TaskID, err)
	}

	priority := in.Priority
	if priority == "" {
		priority = models.PriorityMedium
	}
	now := s.now()
	task := models.Task{
		TaskID:      in.TaskID,
		Title:       in.Title,
		Description: in.Description,
		AssignedTo:  in.AssignedTo,
		AssignedBy:  id.UserID,
		Status:      models.StatusNotStarted,
		Priority:    priority,
		DueDate:     in.DueDate,
		CreatedAt:   now,
		UpdatedAt:   now,
	}

	created, err := s.tasks.CreateTask(ctx, task)
	if err != nil {
		if errors.Is(err, storage.ErrAlreadyExists) {
			return models.Task{}, fmt.Errorf("task %s: %w", in.TaskID, ErrConflict)
		}
		return models.Task{}, fmt.Errorf("create task %s: %w", in.TaskID, err)
	}
	return created, nil
}

// UpdateStatus changes only the status of a task. Admins may change any
// task; other users only tasks assigned to them.
func (s *TaskService) UpdateStatus(ctx context.Context, id auth.Identity, taskID string, status models.TaskStatus) (models.Task, error) {
	if err := access.AuthorizeRole(id, access.OpUpdateTaskStatus); err != nil {
		return models.Task{}, err
	}

	task, err := s.find(ctx, taskID)
	if err != nil {
		return models.Task{}, err
	}
	if err := access.Authorize(id, access.OpUpdateTaskStatus, access.TaskResource(task)); err != nil {
		return models.Task{}, err
	}

	task.Status = status
	task.UpdatedAt = s.now()
	return s.save(ctx, task)
}

// Update applies patch to a task. Admin only.
func (s *TaskService) Update(ctx context.Context, id auth.Identity, taskID string, patch TaskPatch) (models.Task, error) {
	if err := access.Authorize(id, access.OpUpdateTask, access.Resource{}); err != nil {
		return models.Task{}, err
	}

	task, err := s.find(ctx, taskID)
	if err != nil {
		return models.Task{}, err
	}

	if patch.Title != nil {
		task.Title = *patch.Title
	}
	if patch.Description != nil {
		task.Description = *patch.Description
	}
	if patch.Priority != nil {
		task.Priority = *patch.Priority
	}
	if patch.DueDate != nil {
		task.DueDate = *patch.DueDate
	}
	if patch.AssignedTo != nil {
		task.AssignedTo = *patch.AssignedTo
	}
	task.UpdatedAt = s.now()
	return s.save(ctx, task)
}

// Delete removes a task. Admin only.
func (s *TaskService) Delete(ctx context.Context, id auth.Identity, taskID string) error {
	if err := access.Authorize(id, access.OpDeleteTask, access.Resource{}); err != nil {
		return err
	}
	if err := s.tasks.DeleteTask(ctx, taskID); err != nil {
		if errors.Is(err, storage.ErrNotFound) {
			return fmt.Errorf("task %s: %w", taskID, ErrNotFound)
		}
		return fmt.Errorf("delete task %s: %w", taskID, err)
	}
	return nil
}

func (s *TaskService) find(ctx context.Context, taskID string) (models.Task, error) {
	task, err := s.tasks.FindTask(ctx, taskID)
	if err != nil {
		if errors.Is(err, storage.ErrNotFound) {
			return models.Task{}, fmt.Errorf("task %s: %w", taskID, ErrNotFound)
		}
		return models.Task{}, fmt.Errorf("find task %s: %w", taskID, err)
	}
	return task, nil
}

func (s *TaskService) save(ctx context.Context, task models.Task) (models.Task, error) {
	updated, err := s.tasks.UpdateTask(ctx, task)
	if err != nil {
		if errors.Is(err, storage.ErrNotFound) {
			return models.Task{}, fmt.Errorf("task %s: %w", task.TaskID, ErrNotFound)
		}
		return models.Task{}, fmt.Errorf("update task %s: %w", task.TaskID, err)
	}
	return updated, nil
}
