package domain

import (
	"errors"
	"time"

	"github.com/google/uuid"
)

// Session validation errors
var (
	ErrEmptySessionID   = errors.New("session ID cannot be empty")
	ErrEmptySessionUser = errors.New("session user ID cannot be empty")
	ErrEmptyTokenHash   = errors.New("session token hash cannot be empty")
)

// Session records one active login for a user. The raw signed token is never
// persisted; only its digest is, so a leaked sessions table yields no usable
// bearer tokens. A token that verifies cryptographically but has no matching
// session row has been revoked by logout.
type Session struct {
	ID        uuid.UUID `json:"id"`
	UserID    uuid.UUID `json:"user_id"`
	TokenHash string    `json:"-"`
	CreatedAt time.Time `json:"created_at"`
}

// NewSession creates a session binding the given token digest to a user.
func NewSession(userID uuid.UUID, tokenHash string) (*Session, error) {
	session := &Session{
		ID:        uuid.New(),
		UserID:    userID,
		TokenHash: tokenHash,
		CreatedAt: time.Now().UTC(),
	}

	if err := session.Validate(); err != nil {
		return nil, err
	}

	return session, nil
}

// Validate checks if the Session has valid data.
func (s *Session) Validate() error {
	if s.ID == uuid.Nil {
		return ErrEmptySessionID
	}
	if s.UserID == uuid.Nil {
		return ErrEmptySessionUser
	}
	if s.TokenHash == "" {
		return ErrEmptyTokenHash
	}
	return nil
}
