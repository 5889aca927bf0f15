package api

import (
	"log/slog"
	"net/http"
	"strconv"
	"strings"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"

	"github.com/taskdeck/taskdeck-api/internal/api/middleware"
	"github.com/taskdeck/taskdeck-api/internal/api/shared"
	"github.com/taskdeck/taskdeck-api/internal/domain"
	"github.com/taskdeck/taskdeck-api/internal/platform/logger"
	"github.com/taskdeck/taskdeck-api/internal/service"
	"github.com/taskdeck/taskdeck-api/internal/store"
)

// TaskHandler handles task HTTP requests. Every route requires
// authentication; the owner scope comes from the authenticated user, never
// from the request.
type TaskHandler struct {
	tasks  *service.TaskService
	logger *slog.Logger
}

// NewTaskHandler creates a new TaskHandler.
func NewTaskHandler(tasks *service.TaskService, logger *slog.Logger) *TaskHandler {
	if tasks == nil {
		// ALLOW-PANIC: Constructor enforcing required dependency
		panic("task service cannot be nil for TaskHandler")
	}
	if logger == nil {
		logger = slog.Default()
	}

	return &TaskHandler{
		tasks:  tasks,
		logger: logger.With(slog.String("component", "task_handler")),
	}
}

// Create handles POST /tasks requests.
func (h *TaskHandler) Create(w http.ResponseWriter, r *http.Request) {
	log := logger.FromContextOrDefault(r.Context(), h.logger)

	user, ok := middleware.GetUser(r)
	if !ok {
		shared.RespondWithError(w, r, http.StatusUnauthorized, "Authentication required")
		return
	}

	var req CreateTaskRequest
	if err := shared.DecodeJSON(r, &req); err != nil {
		shared.RespondWithError(w, r, http.StatusBadRequest, "Invalid request format")
		return
	}
	if err := shared.ValidateRequest(req); err != nil {
		shared.RespondWithError(w, r, http.StatusBadRequest, SanitizeValidationError(err))
		return
	}

	task, err := h.tasks.Create(r.Context(), user.ID, req.Description, req.Completed)
	if err != nil {
		shared.RespondWithErrorAndLog(w, r, MapErrorToStatusCode(err), GetSafeErrorMessage(err), err)
		return
	}

	log.Debug("task created",
		slog.String("task_id", task.ID.String()),
		slog.String("user_id", user.ID.String()))
	shared.RespondWithJSON(w, r, http.StatusCreated, task)
}

// List handles GET /tasks requests. Supported query parameters:
// completed=true|false, limit, skip, and sortBy=field:asc|desc.
func (h *TaskHandler) List(w http.ResponseWriter, r *http.Request) {
	user, ok := middleware.GetUser(r)
	if !ok {
		shared.RespondWithError(w, r, http.StatusUnauthorized, "Authentication required")
		return
	}

	filter, err := parseTaskFilter(r)
	if err != nil {
		shared.RespondWithError(w, r, http.StatusBadRequest, err.Error())
		return
	}

	tasks, err := h.tasks.List(r.Context(), user.ID, filter)
	if err != nil {
		shared.RespondWithErrorAndLog(w, r, MapErrorToStatusCode(err), GetSafeErrorMessage(err), err)
		return
	}

	shared.RespondWithJSON(w, r, http.StatusOK, TaskListResponse{Tasks: tasks, Count: len(tasks)})
}

// Get handles GET /tasks/{id} requests.
func (h *TaskHandler) Get(w http.ResponseWriter, r *http.Request) {
	user, taskID, ok := h.userAndTaskID(w, r)
	if !ok {
		return
	}

	task, err := h.tasks.Get(r.Context(), taskID, user.ID)
	if err != nil {
		shared.RespondWithErrorAndLog(w, r, MapErrorToStatusCode(err), GetSafeErrorMessage(err), err)
		return
	}

	shared.RespondWithJSON(w, r, http.StatusOK, task)
}

// Update handles PATCH /tasks/{id} requests. The body is decoded strictly:
// fields outside the updatable set fail the request.
func (h *TaskHandler) Update(w http.ResponseWriter, r *http.Request) {
	user, taskID, ok := h.userAndTaskID(w, r)
	if !ok {
		return
	}

	var req UpdateTaskRequest
	if err := shared.DecodeJSONStrict(r, &req); err != nil {
		shared.RespondWithError(w, r, http.StatusBadRequest, "Invalid update: unknown or malformed fields")
		return
	}
	if err := shared.ValidateRequest(req); err != nil {
		shared.RespondWithError(w, r, http.StatusBadRequest, SanitizeValidationError(err))
		return
	}

	task, err := h.tasks.Update(r.Context(), taskID, user.ID, service.TaskUpdate{
		Description: req.Description,
		Completed:   req.Completed,
	})
	if err != nil {
		shared.RespondWithErrorAndLog(w, r, MapErrorToStatusCode(err), GetSafeErrorMessage(err), err)
		return
	}

	shared.RespondWithJSON(w, r, http.StatusOK, task)
}

// Delete handles DELETE /tasks/{id} requests.
func (h *TaskHandler) Delete(w http.ResponseWriter, r *http.Request) {
	user, taskID, ok := h.userAndTaskID(w, r)
	if !ok {
		return
	}

	if err := h.tasks.Delete(r.Context(), taskID, user.ID); err != nil {
		shared.RespondWithErrorAndLog(w, r, MapErrorToStatusCode(err), GetSafeErrorMessage(err), err)
		return
	}

	w.WriteHeader(http.StatusNoContent)
}

// userAndTaskID extracts the authenticated user and the {id} path UUID,
// writing the error response itself on failure.
func (h *TaskHandler) userAndTaskID(w http.ResponseWriter, r *http.Request) (*domain.User, uuid.UUID, bool) {
	user, ok := middleware.GetUser(r)
	if !ok {
		shared.RespondWithError(w, r, http.StatusUnauthorized, "Authentication required")
		return nil, uuid.Nil, false
	}

	taskID, err := uuid.Parse(chi.URLParam(r, "id"))
	if err != nil {
		shared.RespondWithError(w, r, http.StatusBadRequest, "Invalid ID format")
		return nil, uuid.Nil, false
	}

	return user, taskID, true
}

// parseTaskFilter translates the listing query parameters into a store
// filter. Unknown sort fields and malformed numbers are rejected.
func parseTaskFilter(r *http.Request) (store.TaskFilter, error) {
	var filter store.TaskFilter
	q := r.URL.Query()

	if v := q.Get("completed"); v != "" {
		completed, err := strconv.ParseBool(v)
		if err != nil {
			return filter, errInvalidQueryParam("completed")
		}
		filter.Completed = &completed
	}

	if v := q.Get("limit"); v != "" {
		limit, err := strconv.Atoi(v)
		if err != nil || limit < 0 {
			return filter, errInvalidQueryParam("limit")
		}
		filter.Limit = limit
	}

	if v := q.Get("skip"); v != "" {
		skip, err := strconv.Atoi(v)
		if err != nil || skip < 0 {
			return filter, errInvalidQueryParam("skip")
		}
		filter.Offset = skip
	}

	if v := q.Get("sortBy"); v != "" {
		field, direction, found := strings.Cut(v, ":")
		sortField, err := parseSortField(field)
		if err != nil {
			return filter, err
		}
		filter.SortBy = sortField

		if found {
			switch direction {
			case "asc":
			case "desc":
				filter.SortDesc = true
			default:
				return filter, errInvalidQueryParam("sortBy")
			}
		}
	}

	return filter, nil
}

func parseSortField(field string) (store.TaskSortField, error) {
	switch store.TaskSortField(field) {
	case store.TaskSortCreatedAt, store.TaskSortUpdatedAt,
		store.TaskSortDescription, store.TaskSortCompleted:
		return store.TaskSortField(field), nil
	default:
		return "", errInvalidQueryParam("sortBy")
	}
}

type queryParamError string

func (e queryParamError) Error() string {
	return "Invalid query parameter: " + string(e)
}

func errInvalidQueryParam(name string) error {
	return queryParamError(name)
}
