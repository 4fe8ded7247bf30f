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

// TaskHandler owns the task endpoints.
type TaskHandler struct {
	tasks  *service.TaskService
	authn  *middleware.Authenticator
	delay  *Delayer
	logger *slog.Logger
}

// NewTaskHandler constructs the handler.
func NewTaskHandler(tasks *service.TaskService, authn *middleware.Authenticator, delay *Delayer, logger *slog.Logger) *TaskHandler {
	return &TaskHandler{tasks: tasks, authn: authn, delay: delay, logger: logger}
}

// Register attaches task routes to the router.
func (h *TaskHandler) Register(r chi.Router) {
	r.Route("/tasks", func(r chi.Router) {
		r.Get("/", h.authn.Require(access.OpReadTask, h.handleList))
		r.Post("/", h.authn.Require(access.OpCreateTask, h.handleCreate))
		r.Patch("/{taskId}/status", h.authn.Require(access.OpUpdateTaskStatus, h.handleUpdateStatus))
		r.Patch("/{taskId}", h.authn.Require(access.OpUpdateTask, h.handleUpdate))
		r.Delete("/{taskId}", h.authn.Require(access.OpDeleteTask, h.handleDelete))
	})
}

func (h *TaskHandler) handleList(w http.ResponseWriter, r *http.Request, id auth.Identity) {
	h.delay.WaitQuery(r.URL.Query().Get("delay"))

	tasks, err := h.tasks.List(r.Context(), id)
	if err != nil {
		writeServiceError(w, r, h.logger, taskMessages, err)
		return
	}
	respond.JSON(w, http.StatusOK, tasks)
}

func (h *TaskHandler) handleCreate(w http.ResponseWriter, r *http.Request, id auth.Identity) {
	var req dto.CreateTaskRequest
	if err := decodeJSON(r, &req); err != nil {
		respond.Error(w, http.StatusBadRequest, "invalid JSON payload")
		return
	}
	in, err := req.Parse()
	if err != nil {
		writeServiceError(w, r, h.logger, taskMessages, err)
		return
	}

	task, err := h.tasks.Create(r.Context(), id, in)
	if err != nil {
		writeServiceError(w, r, h.logger, taskMessages, err)
		return
	}
	h.logger.Info("task created", "task_id", task.TaskID, "assigned_to", task.AssignedTo, "assigned_by", id.UserID)
	respond.JSON(w, http.StatusCreated, task)
}

func (h *TaskHandler) handleUpdateStatus(w http.ResponseWriter, r *http.Request, id auth.Identity) {
	var req dto.UpdateTaskStatusRequest
	if err := decodeJSON(r, &req); err != nil {
		respond.Error(w, http.StatusBadRequest, "invalid JSON payload")
		return
	}
	status, err := req.Parse()
	if err != nil {
		writeServiceError(w, r, h.logger, taskMessages, err)
		return
	}

	task, err := h.tasks.UpdateStatus(r.Context(), id, chi.URLParam(r, "taskId"), status)
	if err != nil {
		writeServiceError(w, r, h.logger, taskMessages, err)
		return
	}
	respond.JSON(w, http.StatusOK, task)
}

func (h *TaskHandler) handleUpdate(w http.ResponseWriter, r *http.Request, id auth.Identity) {
	var req dto.UpdateTaskRequest
	if err := decodeJSON(r, &req); err != nil {
		respond.Error(w, http.StatusBadRequest, "invalid JSON payload")
		return
	}
	patch, err := req.Parse()
	if err != nil {
		writeServiceError(w, r, h.logger, taskMessages, err)
		return
	}

	task, err := h.tasks.Update(r.Context(), id, chi.URLParam(r, "taskId"), patch)
	if err != nil {
		writeServiceError(w, r, h.logger, taskMessages, err)
		return
	}
	respond.JSON(w, http.StatusOK, task)
}

func (h *TaskHandler) handleDelete(w http.ResponseWriter, r *http.Request, id auth.Identity) {
	taskID := chi.URLParam(r, "taskId")
	if err := h.tasks.Delete(r.Context(), id, taskID); err != nil {
		writeServiceError(w, r, h.logger, taskMessages, err)
		return
	}
	h.logger.Info("task deleted", "task_id", taskID, "deleted_by", id.UserID)
	respond.JSON(w, http.StatusOK, dto.MessageResponse{Message: "Task deleted successfully"})
}
