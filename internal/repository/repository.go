package repository

import (
	"context"
	"errors"

	"github.com/go-sql-driver/mysql"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/yukikurage/task-tracker-api/internal/models"
	"gorm.io/gorm"
)

var (
	// ErrNotFound is returned when the requested record does not exist.
	ErrNotFound = errors.New("repository: record not found")
	// ErrDuplicate is returned when a unique index rejects a write.
	ErrDuplicate = errors.New("repository: duplicate key")
)

// UserRepository defines the interface for user data access
type UserRepository interface {
	// Create inserts a new user. Duplicate email or phone yields ErrDuplicate.
	Create(ctx context.Context, user *models.User) error

	// FindByEmail finds a user by email
	FindByEmail(ctx context.Context, email string) (*models.User, error)

	// ExistsByEmailOrPhone reports whether any user holds the email or the phone
	ExistsByEmailOrPhone(ctx context.Context, email, phone string) (bool, error)
}

// TaskRepository defines the interface for task data access
type TaskRepository interface {
	// Create creates a new task
	Create(ctx context.Context, task *models.Task) error

	// FindByID finds a task by ID
	FindByID(ctx context.Context, id string) (*models.Task, error)

	// ListByOwner returns every task owned by ownerID, oldest first
	ListByOwner(ctx context.Context, ownerID string) ([]models.Task, error)

	// Update writes the given columns of a task and reloads it
	Update(ctx context.Context, task *models.Task, fields TaskFields) error

	// Delete removes a task by ID. A missing task yields ErrNotFound.
	Delete(ctx context.Context, id string) error
}

// TaskFields holds the columns changed by a partial update
type TaskFields map[string]any

// translate maps driver errors onto repository sentinels.
func translate(err error) error {
	if err == nil {
		return nil
	}
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return ErrNotFound
	}
	if isUniqueViolation(err) {
		return ErrDuplicate
	}
	return err
}

func isUniqueViolation(err error) bool {
	if errors.Is(err, gorm.ErrDuplicatedKey) {
		return true
	}

	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) && pgErr.Code == "23505" {
		return true
	}

	var myErr *mysql.MySQLError
	if errors.As(err, &myErr) && myErr.Number == 1062 {
		return true
	}

	return false
}
