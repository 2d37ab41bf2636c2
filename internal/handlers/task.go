package handlers

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/yukikurage/task-tracker-api/internal/dto"
	apierrors "github.com/yukikurage/task-tracker-api/internal/errors"
	"github.com/yukikurage/task-tracker-api/internal/logging"
	"github.com/yukikurage/task-tracker-api/internal/middleware"
	"github.com/yukikurage/task-tracker-api/internal/models"
	"github.com/yukikurage/task-tracker-api/internal/services"
)

type TaskHandler struct {
	taskService *services.TaskService
	log         logging.Logger
}

func NewTaskHandler(taskService *services.TaskService, log logging.Logger) *TaskHandler {
	return &TaskHandler{
		taskService: taskService,
		log:         log,
	}
}

// ListTasks returns every task owned by the current user
func (h *TaskHandler) ListTasks(c *gin.Context) {
	identity, exists := middleware.GetIdentity(c)
	if !exists {
		apierrors.Unauthorized(c, "Not authenticated")
		return
	}

	tasks, err := h.taskService.ListTasks(c.Request.Context(), identity)
	if err != nil {
		h.respondTaskError(c, err)
		return
	}

	c.JSON(http.StatusOK, dto.ToTaskDTOs(tasks))
}

// CreateTask creates a new task owned by the current user
func (h *TaskHandler) CreateTask(c *gin.Context) {
	identity, exists := middleware.GetIdentity(c)
	if !exists {
		apierrors.Unauthorized(c, "Not authenticated")
		return
	}

	var req dto.CreateTaskRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		apierrors.BadRequest(c, "Invalid request body")
		return
	}

	dueDate, err := dto.ParseDueDate(req.DueDate)
	if err != nil {
		h.respondTaskError(c, err)
		return
	}

	task, err := h.taskService.CreateTask(c.Request.Context(), identity, services.CreateTaskInput{
		Title:       req.Title,
		Description: req.Description,
		DueDate:     dueDate,
		Status:      models.TaskStatus(req.Status),
	})
	if err != nil {
		h.respondTaskError(c, err)
		return
	}

	c.JSON(http.StatusCreated, dto.ToTaskDTO(*task))
}

// UpdateTask applies the fields present in the body
func (h *TaskHandler) UpdateTask(c *gin.Context) {
	identity, exists := middleware.GetIdentity(c)
	if !exists {
		apierrors.Unauthorized(c, "Not authenticated")
		return
	}
	taskID, exists := middleware.GetTaskID(c)
	if !exists {
		apierrors.NotFound(c, "Task not found.")
		return
	}

	// Parse raw JSON to detect which fields were sent
	var rawReq map[string]any
	if err := c.ShouldBindJSON(&rawReq); err != nil {
		apierrors.BadRequest(c, "Invalid request body")
		return
	}

	req, err := dto.ParseUpdateTaskRequest(rawReq)
	if err != nil {
		h.respondTaskError(c, err)
		return
	}

	task, err := h.taskService.UpdateTask(c.Request.Context(), identity, taskID, services.UpdateTaskInput{
		Title:       req.Title,
		Description: req.Description,
		DueDate:     req.DueDate,
		Status:      req.Status,
	})
	if err != nil {
		h.respondTaskError(c, err)
		return
	}

	c.JSON(http.StatusOK, dto.ToTaskDTO(*task))
}

// DeleteTask deletes a task
func (h *TaskHandler) DeleteTask(c *gin.Context) {
	identity, exists := middleware.GetIdentity(c)
	if !exists {
		apierrors.Unauthorized(c, "Not authenticated")
		return
	}
	taskID, exists := middleware.GetTaskID(c)
	if !exists {
		apierrors.NotFound(c, "Task not found.")
		return
	}

	if err := h.taskService.DeleteTask(c.Request.Context(), identity, taskID); err != nil {
		h.respondTaskError(c, err)
		return
	}

	c.JSON(http.StatusOK, dto.MessageResponse{Message: "Task deleted."})
}

func (h *TaskHandler) respondTaskError(c *gin.Context, err error) {
	var (
		verr     *services.ValidationError
		fieldErr *dto.FieldError
	)
	switch {
	case errors.As(err, &verr):
		apierrors.BadRequestWithDetails(c, verr.Error(), dto.FieldError{Field: verr.Field, Message: verr.Message})
	case errors.As(err, &fieldErr):
		apierrors.BadRequestWithDetails(c, fieldErr.Error(), fieldErr)
	case errors.Is(err, services.ErrTaskNotFound):
		apierrors.NotFound(c, "Task not found.")
	default:
		h.log.Error(c.Request.Context(), "task request failed", "path", c.FullPath(), "error", err)
		apierrors.InternalError(c, "")
	}
}
