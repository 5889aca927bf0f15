package store

import (
	"context"
	"database/sql"

	"github.com/google/uuid"
	"github.com/taskdeck/taskdeck-api/internal/domain"
)

// TaskSortField names a column tasks may be sorted by. Listing rejects
// anything outside this set so client input never reaches the ORDER BY
// clause directly.
type TaskSortField string

const (
	TaskSortCreatedAt   TaskSortField = "created_at"
	TaskSortUpdatedAt   TaskSortField = "updated_at"
	TaskSortDescription TaskSortField = "description"
	TaskSortCompleted   TaskSortField = "completed"
)

// TaskFilter narrows and pages a task listing.
type TaskFilter struct {
	// Completed filters by completion state when non-nil.
	Completed *bool

	// Limit caps the number of rows returned; zero means no cap.
	Limit int

	// Offset skips that many rows from the start of the result.
	Offset int

	// SortBy orders the result; defaults to TaskSortCreatedAt.
	SortBy TaskSortField

	// SortDesc reverses the sort order.
	SortDesc bool
}

// TaskStore defines the interface for task persistence. Every method that
// touches an existing task takes the owner's ID and applies it in the same
// predicate as the task ID: a task that exists but belongs to someone else
// behaves exactly like one that does not exist.
type TaskStore interface {
	// Create saves a new task to the store.
	Create(ctx context.Context, task *domain.Task) error

	// GetForUser retrieves the task with the given ID owned by the given
	// user. Returns ErrTaskNotFound when no such task exists for that owner.
	GetForUser(ctx context.Context, id, userID uuid.UUID) (*domain.Task, error)

	// ListForUser retrieves the user's tasks, filtered and paged.
	ListForUser(ctx context.Context, userID uuid.UUID, filter TaskFilter) ([]*domain.Task, error)

	// Update persists the task's mutable fields, scoped to its owner.
	// Returns ErrTaskNotFound when no such task exists for that owner.
	Update(ctx context.Context, task *domain.Task) error

	// DeleteForUser removes the task with the given ID owned by the given
	// user. Returns ErrTaskNotFound when no such task exists for that owner.
	DeleteForUser(ctx context.Context, id, userID uuid.UUID) error

	// WithTx returns a new TaskStore instance that uses the provided
	// transaction.
	WithTx(tx *sql.Tx) TaskStore
}
