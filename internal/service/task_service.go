package service

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/google/uuid"

	"github.com/taskdeck/taskdeck-api/internal/domain"
	"github.com/taskdeck/taskdeck-api/internal/platform/logger"
	"github.com/taskdeck/taskdeck-api/internal/store"
)

// TaskUpdate carries a partial task update. Nil fields are left untouched.
type TaskUpdate struct {
	Description *string
	Completed   *bool
}

// Empty reports whether the update changes nothing.
func (u TaskUpdate) Empty() bool {
	return u.Description == nil && u.Completed == nil
}

// TaskService implements task operations. Every operation on an existing
// task is scoped to the calling user; tasks owned by someone else are
// indistinguishable from tasks that do not exist.
type TaskService struct {
	tasks  store.TaskStore
	logger *slog.Logger
}

// NewTaskService creates a new TaskService.
func NewTaskService(tasks store.TaskStore, log *slog.Logger) (*TaskService, error) {
	if tasks == nil {
		return nil, fmt.Errorf("task store cannot be nil")
	}
	if log == nil {
		log = slog.Default()
	}

	return &TaskService{
		tasks:  tasks,
		logger: log.With(slog.String("component", "task_service")),
	}, nil
}

// Create adds a new task owned by the given user. Tasks start incomplete
// unless the creation payload says otherwise.
func (s *TaskService) Create(ctx context.Context, userID uuid.UUID, description string, completed bool) (*domain.Task, error) {
	log := logger.FromContextOrDefault(ctx, s.logger)

	task, err := domain.NewTask(userID, description)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", domain.ErrValidation, err)
	}
	task.Completed = completed

	if err := s.tasks.Create(ctx, task); err != nil {
		return nil, err
	}

	log.Debug("task created",
		slog.String("task_id", task.ID.String()),
		slog.String("user_id", userID.String()))
	return task, nil
}

// Get returns the task with the given ID if the user owns it.
func (s *TaskService) Get(ctx context.Context, id, userID uuid.UUID) (*domain.Task, error) {
	return s.tasks.GetForUser(ctx, id, userID)
}

// List returns the user's tasks, filtered and paged.
func (s *TaskService) List(ctx context.Context, userID uuid.UUID, filter store.TaskFilter) ([]*domain.Task, error) {
	tasks, err := s.tasks.ListForUser(ctx, userID, filter)
	if err != nil {
		return nil, err
	}
	if tasks == nil {
		tasks = []*domain.Task{}
	}
	return tasks, nil
}

// Update applies a partial update to a task the user owns.
func (s *TaskService) Update(ctx context.Context, id, userID uuid.UUID, update TaskUpdate) (*domain.Task, error) {
	log := logger.FromContextOrDefault(ctx, s.logger)

	if update.Empty() {
		return nil, fmt.Errorf("%w: %w", domain.ErrValidation, ErrNoFields)
	}

	task, err := s.tasks.GetForUser(ctx, id, userID)
	if err != nil {
		return nil, err
	}

	if update.Description != nil {
		task.Description = *update.Description
	}
	if update.Completed != nil {
		task.Completed = *update.Completed
	}

	if err := task.Validate(); err != nil {
		return nil, fmt.Errorf("%w: %w", domain.ErrValidation, err)
	}

	task.Touch()
	if err := s.tasks.Update(ctx, task); err != nil {
		return nil, err
	}

	log.Debug("task updated",
		slog.String("task_id", task.ID.String()),
		slog.String("user_id", userID.String()))
	return task, nil
}

// Delete removes a task the user owns.
func (s *TaskService) Delete(ctx context.Context, id, userID uuid.UUID) error {
	log := logger.FromContextOrDefault(ctx, s.logger)

	if err := s.tasks.DeleteForUser(ctx, id, userID); err != nil {
		return err
	}

	log.Debug("task deleted",
		slog.String("task_id", id.String()),
		slog.String("user_id", userID.String()))
	return nil
}
