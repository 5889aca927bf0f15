package domain

import (
	"errors"
	"strings"
	"time"

	"github.com/google/uuid"
)

// Task validation errors
var (
	ErrEmptyTaskID      = errors.New("task ID cannot be empty")
	ErrEmptyTaskOwner   = errors.New("task owner ID cannot be empty")
	ErrEmptyDescription = errors.New("task description cannot be empty")
)

// Task is a single to-do item owned by exactly one user. The owner is set at
// creation from the authenticated identity and never changes; every store
// query on tasks filters by (task id, owner id) together.
type Task struct {
	ID          uuid.UUID `json:"id"`
	UserID      uuid.UUID `json:"user_id"`
	Description string    `json:"description"`
	Completed   bool      `json:"completed"`
	CreatedAt   time.Time `json:"created_at"`
	UpdatedAt   time.Time `json:"updated_at"`
}

// NewTask creates a new incomplete Task owned by the given user.
// Returns an error if validation fails.
func NewTask(userID uuid.UUID, description string) (*Task, error) {
	now := time.Now().UTC()
	task := &Task{
		ID:          uuid.New(),
		UserID:      userID,
		Description: strings.TrimSpace(description),
		Completed:   false,
		CreatedAt:   now,
		UpdatedAt:   now,
	}

	if err := task.Validate(); err != nil {
		return nil, err
	}

	return task, nil
}

// Touch records that the task was modified. Callers must invoke it before
// persisting an update so updated_at tracks the last write.
func (t *Task) Touch() {
	t.UpdatedAt = time.Now().UTC()
}

// Validate checks if the Task has valid data.
func (t *Task) Validate() error {
	if t.ID == uuid.Nil {
		return ErrEmptyTaskID
	}
	if t.UserID == uuid.Nil {
		return ErrEmptyTaskOwner
	}
	if t.Description == "" {
		return ErrEmptyDescription
	}
	return nil
}
