package services

import (
	"errors"
	"fmt"
)

var (
	// ErrValidation marks client-correctable input problems.
	ErrValidation = errors.New("validation failed")
	// ErrConflict is returned when the email or phone is already registered.
	ErrConflict = errors.New("email or phone number already registered")
	// ErrInvalidCredentials is the single login failure; it never says which part was wrong.
	ErrInvalidCredentials = errors.New("invalid email or password")
	// ErrTaskNotFound is returned when the referenced task is absent.
	ErrTaskNotFound = errors.New("task not found")
	// ErrStorage wraps underlying persistence failures.
	ErrStorage = errors.New("storage failure")
)

// ValidationError carries the offending field.
type ValidationError struct {
	Field   string
	Message string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("%s: %s", e.Field, e.Message)
}

func (e *ValidationError) Unwrap() error {
	return ErrValidation
}

func invalid(field, message string) error {
	return &ValidationError{Field: field, Message: message}
}

func storageError(op string, err error) error {
	return fmt.Errorf("%w: %s: %v", ErrStorage, op, err)
}
