package dto

import (
	"fmt"
	"time"

	"github.com/yukikurage/task-tracker-api/internal/constants"
	"github.com/yukikurage/task-tracker-api/internal/models"
)

// FieldError reports a request field that could not be decoded
type FieldError struct {
	Field   string `json:"field"`
	Message string `json:"message"`
}

func (e *FieldError) Error() string {
	return fmt.Sprintf("%s %s", e.Field, e.Message)
}

// TaskDTO represents a task in API responses
type TaskDTO struct {
	ID          string            `json:"id"`
	Title       string            `json:"title"`
	Description string            `json:"description"`
	DueDate     string            `json:"dueDate"`
	Status      models.TaskStatus `json:"status"`
	OwnerID     string            `json:"ownerId"`
	CreatedAt   time.Time         `json:"createdAt"`
	UpdatedAt   time.Time         `json:"updatedAt"`
}

// CreateTaskRequest is the body of POST /tasks
type CreateTaskRequest struct {
	Title       string `json:"title"`
	Description string `json:"description"`
	DueDate     string `json:"dueDate"`
	Status      string `json:"status"`
}

// UpdateTaskRequest holds the fields present in a PUT /tasks/:id body
type UpdateTaskRequest struct {
	Title       *string
	Description *string
	DueDate     *time.Time
	Status      *models.TaskStatus
}

// ToTaskDTO converts a Task model to TaskDTO
func ToTaskDTO(task models.Task) TaskDTO {
	return TaskDTO{
		ID:          task.ID,
		Title:       task.Title,
		Description: task.Description,
		DueDate:     task.DueDate.UTC().Format(constants.DueDateLayout),
		Status:      task.Status,
		OwnerID:     task.OwnerID,
		CreatedAt:   task.CreatedAt,
		UpdatedAt:   task.UpdatedAt,
	}
}

// ToTaskDTOs converts a slice of tasks, never returning nil
func ToTaskDTOs(tasks []models.Task) []TaskDTO {
	items := make([]TaskDTO, len(tasks))
	for i, task := range tasks {
		items[i] = ToTaskDTO(task)
	}
	return items
}

// ParseDueDate accepts a calendar date (2006-01-02) or an RFC 3339 timestamp.
// An empty string yields the zero time.
func ParseDueDate(value string) (time.Time, error) {
	if value == "" {
		return time.Time{}, nil
	}
	if t, err := time.Parse(constants.DueDateLayout, value); err == nil {
		return t, nil
	}
	if t, err := time.Parse(time.RFC3339, value); err == nil {
		return t, nil
	}
	return time.Time{}, &FieldError{Field: "dueDate", Message: "must be a date (YYYY-MM-DD)"}
}

// ParseUpdateTaskRequest picks the known fields out of a decoded JSON object.
// Only presence matters; unknown keys are ignored.
func ParseUpdateTaskRequest(raw map[string]any) (UpdateTaskRequest, error) {
	var req UpdateTaskRequest

	if v, ok := raw["title"]; ok {
		s, err := stringField("title", v)
		if err != nil {
			return req, err
		}
		req.Title = &s
	}
	if v, ok := raw["description"]; ok {
		s, err := stringField("description", v)
		if err != nil {
			return req, err
		}
		req.Description = &s
	}
	if v, ok := raw["dueDate"]; ok {
		s, err := stringField("dueDate", v)
		if err != nil {
			return req, err
		}
		due, err := ParseDueDate(s)
		if err != nil {
			return req, err
		}
		req.DueDate = &due
	}
	if v, ok := raw["status"]; ok {
		s, err := stringField("status", v)
		if err != nil {
			return req, err
		}
		status := models.TaskStatus(s)
		req.Status = &status
	}

	return req, nil
}

func stringField(field string, value any) (string, error) {
	s, ok := value.(string)
	if !ok {
		return "", &FieldError{Field: field, Message: "must be a string"}
	}
	return s, nil
}
