package mocks

import (
	"context"
	"database/sql"

	"github.com/google/uuid"
	"github.com/taskdeck/taskdeck-api/internal/domain"
	"github.com/taskdeck/taskdeck-api/internal/store"
)

// MockSessionStore implements store.SessionStore for testing
type MockSessionStore struct {
	// Function fields for customizable behavior
	CreateFn           func(ctx context.Context, session *domain.Session) error
	ExistsFn           func(ctx context.Context, userID uuid.UUID, tokenHash string) (bool, error)
	DeleteFn           func(ctx context.Context, userID uuid.UUID, tokenHash string) error
	DeleteAllForUserFn func(ctx context.Context, userID uuid.UUID) (int64, error)

	// Data for default implementation
	Sessions []*domain.Session
}

// Ensure MockSessionStore implements store.SessionStore
var _ store.SessionStore = (*MockSessionStore)(nil)

// NewMockSessionStore creates a new mock store with initialized defaults
func NewMockSessionStore() *MockSessionStore {
	return &MockSessionStore{}
}

// Create implements the SessionStore interface
func (m *MockSessionStore) Create(ctx context.Context, session *domain.Session) error {
	if m.CreateFn != nil {
		return m.CreateFn(ctx, session)
	}

	m.Sessions = append(m.Sessions, session)
	return nil
}

// Exists implements the SessionStore interface
func (m *MockSessionStore) Exists(ctx context.Context, userID uuid.UUID, tokenHash string) (bool, error) {
	if m.ExistsFn != nil {
		return m.ExistsFn(ctx, userID, tokenHash)
	}

	for _, s := range m.Sessions {
		if s.UserID == userID && s.TokenHash == tokenHash {
			return true, nil
		}
	}
	return false, nil
}

// Delete implements the SessionStore interface
func (m *MockSessionStore) Delete(ctx context.Context, userID uuid.UUID, tokenHash string) error {
	if m.DeleteFn != nil {
		return m.DeleteFn(ctx, userID, tokenHash)
	}

	for i, s := range m.Sessions {
		if s.UserID == userID && s.TokenHash == tokenHash {
			m.Sessions = append(m.Sessions[:i], m.Sessions[i+1:]...)
			return nil
		}
	}
	return store.ErrSessionNotFound
}

// DeleteAllForUser implements the SessionStore interface
func (m *MockSessionStore) DeleteAllForUser(ctx context.Context, userID uuid.UUID) (int64, error) {
	if m.DeleteAllForUserFn != nil {
		return m.DeleteAllForUserFn(ctx, userID)
	}

	var kept []*domain.Session
	var removed int64
	for _, s := range m.Sessions {
		if s.UserID == userID {
			removed++
			continue
		}
		kept = append(kept, s)
	}
	m.Sessions = kept
	return removed, nil
}

// WithTx implements the SessionStore interface; the mock ignores transactions.
func (m *MockSessionStore) WithTx(tx *sql.Tx) store.SessionStore {
	return m
}
