package dto

import (
	"strings"
	"time"

	"github.com/hongminglow/taskdesk/internal/models"
	"github.com/hongminglow/taskdesk/internal/service"
)

// dueDateLayouts are the accepted formats for dueDate, tried in order.
var dueDateLayouts = []string{time.RFC3339Nano, "2006-01-02T15:04:05", "2006-01-02"}

// ParseDueDate reads a dueDate value in RFC 3339 or YYYY-MM-DD form.
func ParseDueDate(value string) (time.Time, error) {
	value = strings.TrimSpace(value)
	for _, layout := range dueDateLayouts {
		if t, err := time.Parse(layout, value); err == nil {
			return t.UTC(), nil
		}
	}
	return time.Time{}, service.Invalid("dueDate %q is not a valid date", value)
}

type CreateTaskRequest struct {
	TaskID      string `json:"taskId"`
	Title       string `json:"title"`
	Description string `json:"description"`
	AssignedTo  string `json:"assignedTo"`
	Priority    string `json:"priority,omitempty"`
	DueDate     string `json:"dueDate"`
}

// Parse validates the request. Missing required fields are reported together.
func (r CreateTaskRequest) Parse() (service.NewTask, error) {
	in := service.NewTask{
		TaskID:      strings.TrimSpace(r.TaskID),
		Title:       strings.TrimSpace(r.Title),
		Description: strings.TrimSpace(r.Description),
		AssignedTo:  strings.TrimSpace(r.AssignedTo),
	}
	if in.TaskID == "" || in.Title == "" || in.Description == "" || in.AssignedTo == "" || strings.TrimSpace(r.DueDate) == "" {
		return service.NewTask{}, service.Invalid("Missing required fields")
	}

	due, err := ParseDueDate(r.DueDate)
	if err != nil {
		return service.NewTask{}, err
	}
	in.DueDate = due

	if p := strings.TrimSpace(r.Priority); p != "" {
		priority := models.Priority(p)
		if !priority.Valid() {
			return service.NewTask{}, service.Invalid("invalid priority %q", p)
		}
		in.Priority = priority
	}
	return in, nil
}

type UpdateTaskStatusRequest struct {
	Status string `json:"status"`
}

// Parse validates the request.
func (r UpdateTaskStatusRequest) Parse() (models.TaskStatus, error) {
	status := models.TaskStatus(strings.TrimSpace(r.Status))
	if status == "" {
		return "", service.Invalid("Status is required")
	}
	if !status.Valid() {
		return "", service.Invalid("invalid status %q", status)
	}
	return status, nil
}

// UpdateTaskRequest is a partial task update. Empty strings count as absent.
type UpdateTaskRequest struct {
	Title       string `json:"title,omitempty"`
	Description string `json:"description,omitempty"`
	Priority    string `json:"priority,omitempty"`
	DueDate     string `json:"dueDate,omitempty"`
	AssignedTo  string `json:"assignedTo,omitempty"`
}

// Parse validates the request.
func (r UpdateTaskRequest) Parse() (service.TaskPatch, error) {
	var patch service.TaskPatch
	patch.Title = present(r.Title)
	patch.Description = present(r.Description)
	patch.AssignedTo = present(r.AssignedTo)

	if p := present(r.Priority); p != nil {
		priority := models.Priority(*p)
		if !priority.Valid() {
			return service.TaskPatch{}, service.Invalid("invalid priority %q", *p)
		}
		patch.Priority = &priority
	}
	if d := present(r.DueDate); d != nil {
		due, err := ParseDueDate(*d)
		if err != nil {
			return service.TaskPatch{}, err
		}
		patch.DueDate = &due
	}
	return patch, nil
}

// present returns a pointer to the trimmed value, or nil when it is empty.
func present(value string) *string {
	value = strings.TrimSpace(value)
	if value == "" {
		return nil
	}
	return &value
}
