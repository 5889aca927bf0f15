package api

import (
	"github.com/taskdeck/taskdeck-api/internal/domain"
)

// Common request/response structures

// SignUpRequest defines the payload for the user signup endpoint.
type SignUpRequest struct {
	Name     string `json:"name"     validate:"required"`
	Email    string `json:"email"    validate:"required,email"`
	Password string `json:"password" validate:"required,min=7,max=72"`
	Age      int    `json:"age"      validate:"gte=0"`
}

// LogInRequest defines the payload for the user login endpoint.
type LogInRequest struct {
	Email    string `json:"email"    validate:"required,email"`
	Password string `json:"password" validate:"required,min=1"`
}

// AuthResponse defines the successful response for signup and login.
// The user's json tags keep the password hash and avatar out of the body.
type AuthResponse struct {
	User  *domain.User `json:"user"`
	Token string       `json:"token"`
}

// LogOutAllResponse reports how many sessions a logout-all revoked.
type LogOutAllResponse struct {
	SessionsRevoked int64 `json:"sessions_revoked"`
}

// UpdateUserRequest defines the payload for profile updates. Decoded
// strictly: any field outside this set rejects the request. Pointer fields
// distinguish "absent" from a zero value.
type UpdateUserRequest struct {
	Name     *string `json:"name"     validate:"omitempty,min=1"`
	Email    *string `json:"email"    validate:"omitempty,email"`
	Password *string `json:"password" validate:"omitempty,min=7,max=72"`
	Age      *int    `json:"age"      validate:"omitempty,gte=0"`
}

// CreateTaskRequest defines the payload for task creation.
type CreateTaskRequest struct {
	Description string `json:"description" validate:"required"`
	Completed   bool   `json:"completed"`
}

// UpdateTaskRequest defines the payload for task updates. Decoded strictly
// like UpdateUserRequest; the owner is never updatable.
type UpdateTaskRequest struct {
	Description *string `json:"description" validate:"omitempty,min=1"`
	Completed   *bool   `json:"completed"`
}

// TaskListResponse wraps a task listing.
type TaskListResponse struct {
	Tasks []*domain.Task `json:"tasks"`
	Count int            `json:"count"`
}
