package mocks

import (
	"context"
	"database/sql"
	"sort"

	"github.com/google/uuid"
	"github.com/taskdeck/taskdeck-api/internal/domain"
	"github.com/taskdeck/taskdeck-api/internal/store"
)

// MockTaskStore implements store.TaskStore for testing
type MockTaskStore struct {
	// Function fields for customizable behavior
	CreateFn        func(ctx context.Context, task *domain.Task) error
	GetForUserFn    func(ctx context.Context, id, userID uuid.UUID) (*domain.Task, error)
	ListForUserFn   func(ctx context.Context, userID uuid.UUID, filter store.TaskFilter) ([]*domain.Task, error)
	UpdateFn        func(ctx context.Context, task *domain.Task) error
	DeleteForUserFn func(ctx context.Context, id, userID uuid.UUID) error

	// Data for default implementation
	Tasks map[uuid.UUID]*domain.Task
}

// Ensure MockTaskStore implements store.TaskStore
var _ store.TaskStore = (*MockTaskStore)(nil)

// NewMockTaskStore creates a new mock store with initialized defaults
func NewMockTaskStore() *MockTaskStore {
	return &MockTaskStore{
		Tasks: make(map[uuid.UUID]*domain.Task),
	}
}

// Create implements the TaskStore interface
func (m *MockTaskStore) Create(ctx context.Context, task *domain.Task) error {
	if m.CreateFn != nil {
		return m.CreateFn(ctx, task)
	}

	m.Tasks[task.ID] = task
	return nil
}

// GetForUser implements the TaskStore interface
func (m *MockTaskStore) GetForUser(ctx context.Context, id, userID uuid.UUID) (*domain.Task, error) {
	if m.GetForUserFn != nil {
		return m.GetForUserFn(ctx, id, userID)
	}

	task, exists := m.Tasks[id]
	if !exists || task.UserID != userID {
		return nil, store.ErrTaskNotFound
	}
	return task, nil
}

// ListForUser implements the TaskStore interface. The default
// implementation honors the completed filter, sorting by creation time,
// and paging.
func (m *MockTaskStore) ListForUser(ctx context.Context, userID uuid.UUID, filter store.TaskFilter) ([]*domain.Task, error) {
	if m.ListForUserFn != nil {
		return m.ListForUserFn(ctx, userID, filter)
	}

	var tasks []*domain.Task
	for _, task := range m.Tasks {
		if task.UserID != userID {
			continue
		}
		if filter.Completed != nil && task.Completed != *filter.Completed {
			continue
		}
		tasks = append(tasks, task)
	}

	sort.Slice(tasks, func(i, j int) bool {
		if filter.SortDesc {
			return tasks[i].CreatedAt.After(tasks[j].CreatedAt)
		}
		return tasks[i].CreatedAt.Before(tasks[j].CreatedAt)
	})

	if filter.Offset > 0 {
		if filter.Offset >= len(tasks) {
			return nil, nil
		}
		tasks = tasks[filter.Offset:]
	}
	if filter.Limit > 0 && filter.Limit < len(tasks) {
		tasks = tasks[:filter.Limit]
	}

	return tasks, nil
}

// Update implements the TaskStore interface
func (m *MockTaskStore) Update(ctx context.Context, task *domain.Task) error {
	if m.UpdateFn != nil {
		return m.UpdateFn(ctx, task)
	}

	existing, exists := m.Tasks[task.ID]
	if !exists || existing.UserID != task.UserID {
		return store.ErrTaskNotFound
	}
	m.Tasks[task.ID] = task
	return nil
}

// DeleteForUser implements the TaskStore interface
func (m *MockTaskStore) DeleteForUser(ctx context.Context, id, userID uuid.UUID) error {
	if m.DeleteForUserFn != nil {
		return m.DeleteForUserFn(ctx, id, userID)
	}

	task, exists := m.Tasks[id]
	if !exists || task.UserID != userID {
		return store.ErrTaskNotFound
	}
	delete(m.Tasks, id)
	return nil
}

// WithTx implements the TaskStore interface; the mock ignores transactions.
func (m *MockTaskStore) WithTx(tx *sql.Tx) store.TaskStore {
	return m
}
