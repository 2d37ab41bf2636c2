package models

import (
	"strings"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type TaskStatus string

const (
	TaskStatusPending    TaskStatus = "Pending"
	TaskStatusInProgress TaskStatus = "In Progress"
	TaskStatusCompleted  TaskStatus = "Completed"
)

// ParseTaskStatus normalizes a wire value. "InProgress" is accepted as an alias.
func ParseTaskStatus(s string) (TaskStatus, bool) {
	switch TaskStatus(strings.TrimSpace(s)) {
	case TaskStatusPending:
		return TaskStatusPending, true
	case TaskStatusInProgress, "InProgress":
		return TaskStatusInProgress, true
	case TaskStatusCompleted:
		return TaskStatusCompleted, true
	default:
		return "", false
	}
}

type Task struct {
	ID          string     `gorm:"type:varchar(36);primaryKey" json:"id"`
	Title       string     `gorm:"type:varchar(255);not null" json:"title"`
	Description string     `gorm:"type:text;not null" json:"description"`
	Status      TaskStatus `gorm:"type:varchar(20);not null;default:'Pending'" json:"status"`
	DueDate     time.Time  `gorm:"not null" json:"dueDate"`
	OwnerID     string     `gorm:"type:varchar(36);not null" json:"ownerId"`
	CreatedAt   time.Time  `json:"createdAt"`
	UpdatedAt   time.Time  `json:"updatedAt"`
}

func (t *Task) BeforeCreate(tx *gorm.DB) error {
	if t.ID == "" {
		t.ID = uuid.NewString()
	}
	return nil
}
