package auth

import (
	"context"
	"time"

	"github.com/google/uuid"
)

// TokenService issues and verifies signed session tokens.
//
// Verify only proves the token was issued by this system and is inside its
// validity window. Whether the session is still live (not logged out) is a
// store concern checked by the auth middleware, not by this service.
type TokenService interface {
	// Issue creates a signed token bound to the user's identity.
	// Returns the token string or an error if signing fails.
	Issue(ctx context.Context, userID uuid.UUID) (string, error)

	// Verify validates the provided token string and extracts the claims.
	// Returns ErrInvalidToken, ErrExpiredToken, or ErrTokenNotYetValid on
	// failure.
	Verify(ctx context.Context, tokenString string) (*Claims, error)
}

// Claims represents the decoded contents of a session token.
type Claims struct {
	// UserID is the unique identifier of the user the token was issued for.
	UserID uuid.UUID `json:"uid,omitempty"`

	// Standard registered JWT claims
	Subject   string    `json:"sub,omitempty"`
	IssuedAt  time.Time `json:"iat,omitempty"`
	ExpiresAt time.Time `json:"exp,omitempty"`
	ID        string    `json:"jti,omitempty"`
}
