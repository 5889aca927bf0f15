package store

import (
	"context"
	"database/sql"

	"github.com/google/uuid"
	"github.com/taskdeck/taskdeck-api/internal/domain"
)

// SessionStore tracks which issued tokens are still live. A token that
// verifies cryptographically but has no session row has been revoked.
type SessionStore interface {
	// Create records a new active session.
	Create(ctx context.Context, session *domain.Session) error

	// Exists reports whether the given token digest is a live session for
	// the given user.
	Exists(ctx context.Context, userID uuid.UUID, tokenHash string) (bool, error)

	// Delete removes exactly the session matching (user, token digest).
	// Returns ErrSessionNotFound if no such session exists.
	Delete(ctx context.Context, userID uuid.UUID, tokenHash string) error

	// DeleteAllForUser removes every session belonging to the user and
	// returns the number removed. Deleting zero sessions is not an error.
	DeleteAllForUser(ctx context.Context, userID uuid.UUID) (int64, error)

	// WithTx returns a new SessionStore instance that uses the provided
	// transaction.
	WithTx(tx *sql.Tx) SessionStore
}
