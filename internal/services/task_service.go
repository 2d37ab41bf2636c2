package services

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/yukikurage/task-tracker-api/internal/auth"
	"github.com/yukikurage/task-tracker-api/internal/models"
	"github.com/yukikurage/task-tracker-api/internal/repository"
)

// TaskService handles task business logic
type TaskService struct {
	taskRepo         repository.TaskRepository
	enforceOwnership bool
}

// NewTaskService creates a new TaskService. With enforceOwnership, update and
// delete treat tasks owned by someone else as missing.
func NewTaskService(taskRepo repository.TaskRepository, enforceOwnership bool) *TaskService {
	return &TaskService{
		taskRepo:         taskRepo,
		enforceOwnership: enforceOwnership,
	}
}

// CreateTaskInput represents input for creating a task
type CreateTaskInput struct {
	Title       string
	Description string
	DueDate     time.Time
	// Status defaults to Pending when empty.
	Status models.TaskStatus
}

// UpdateTaskInput represents a partial update; nil fields are left untouched.
type UpdateTaskInput struct {
	Title       *string
	Description *string
	DueDate     *time.Time
	Status      *models.TaskStatus
}

// CreateTask creates a task owned by the caller
func (s *TaskService) CreateTask(ctx context.Context, identity auth.Identity, input CreateTaskInput) (*models.Task, error) {
	if strings.TrimSpace(input.Title) == "" {
		return nil, invalid("title", "is required")
	}
	if strings.TrimSpace(input.Description) == "" {
		return nil, invalid("description", "is required")
	}
	if input.DueDate.IsZero() {
		return nil, invalid("dueDate", "is required")
	}

	status := models.TaskStatusPending
	if input.Status != "" {
		parsed, ok := models.ParseTaskStatus(string(input.Status))
		if !ok {
			return nil, invalid("status", "must be one of Pending, In Progress, Completed")
		}
		status = parsed
	}

	task := &models.Task{
		Title:       input.Title,
		Description: input.Description,
		DueDate:     calendarDate(input.DueDate),
		Status:      status,
		OwnerID:     identity.UserID,
	}

	if err := s.taskRepo.Create(ctx, task); err != nil {
		return nil, storageError("create task", err)
	}
	return task, nil
}

// ListTasks returns every task owned by the caller
func (s *TaskService) ListTasks(ctx context.Context, identity auth.Identity) ([]models.Task, error) {
	tasks, err := s.taskRepo.ListByOwner(ctx, identity.UserID)
	if err != nil {
		return nil, storageError("list tasks", err)
	}
	return tasks, nil
}

// UpdateTask applies the fields present in input
func (s *TaskService) UpdateTask(ctx context.Context, identity auth.Identity, taskID string, input UpdateTaskInput) (*models.Task, error) {
	fields := repository.TaskFields{}

	if input.Title != nil {
		if strings.TrimSpace(*input.Title) == "" {
			return nil, invalid("title", "cannot be empty")
		}
		fields["title"] = *input.Title
	}
	if input.Description != nil {
		if strings.TrimSpace(*input.Description) == "" {
			return nil, invalid("description", "cannot be empty")
		}
		fields["description"] = *input.Description
	}
	if input.DueDate != nil {
		if input.DueDate.IsZero() {
			return nil, invalid("dueDate", "cannot be empty")
		}
		fields["due_date"] = calendarDate(*input.DueDate)
	}
	if input.Status != nil {
		status, ok := models.ParseTaskStatus(string(*input.Status))
		if !ok {
			return nil, invalid("status", "must be one of Pending, In Progress, Completed")
		}
		fields["status"] = status
	}

	task, err := s.findTask(ctx, identity, taskID)
	if err != nil {
		return nil, err
	}

	if err := s.taskRepo.Update(ctx, task, fields); err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, ErrTaskNotFound
		}
		return nil, storageError("update task", err)
	}
	return task, nil
}

// DeleteTask removes a task
func (s *TaskService) DeleteTask(ctx context.Context, identity auth.Identity, taskID string) error {
	if s.enforceOwnership {
		if _, err := s.findTask(ctx, identity, taskID); err != nil {
			return err
		}
	}

	if err := s.taskRepo.Delete(ctx, taskID); err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return ErrTaskNotFound
		}
		return storageError("delete task", err)
	}
	return nil
}

// findTask loads a task the caller may modify. Tasks of other owners are
// reported as missing so their existence does not leak.
func (s *TaskService) findTask(ctx context.Context, identity auth.Identity, taskID string) (*models.Task, error) {
	task, err := s.taskRepo.FindByID(ctx, taskID)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, ErrTaskNotFound
		}
		return nil, storageError("find task", err)
	}

	if s.enforceOwnership && task.OwnerID != identity.UserID {
		return nil, ErrTaskNotFound
	}
	return task, nil
}

// calendarDate drops the time of day, keeping the date as seen in t's location.
func calendarDate(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, time.UTC)
}
