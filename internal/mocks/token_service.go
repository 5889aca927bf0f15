package mocks

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/taskdeck/taskdeck-api/internal/service/auth"
)

// MockTokenService implements auth.TokenService for testing
type MockTokenService struct {
	// Function fields for customizable behavior
	IssueFn  func(ctx context.Context, userID uuid.UUID) (string, error)
	VerifyFn func(ctx context.Context, tokenString string) (*auth.Claims, error)

	// Default response values
	Token string
	Err   error
}

// Ensure MockTokenService implements auth.TokenService
var _ auth.TokenService = (*MockTokenService)(nil)

// Issue implements the TokenService interface
func (m *MockTokenService) Issue(ctx context.Context, userID uuid.UUID) (string, error) {
	if m.IssueFn != nil {
		return m.IssueFn(ctx, userID)
	}

	if m.Err != nil {
		return "", m.Err
	}
	if m.Token != "" {
		return m.Token, nil
	}
	return "token-" + userID.String(), nil
}

// Verify implements the TokenService interface. The default implementation
// accepts tokens produced by the default Issue and extracts the user ID.
func (m *MockTokenService) Verify(ctx context.Context, tokenString string) (*auth.Claims, error) {
	if m.VerifyFn != nil {
		return m.VerifyFn(ctx, tokenString)
	}

	if m.Err != nil {
		return nil, m.Err
	}

	const prefix = "token-"
	if len(tokenString) <= len(prefix) || tokenString[:len(prefix)] != prefix {
		return nil, auth.ErrInvalidToken
	}

	userID, err := uuid.Parse(tokenString[len(prefix):])
	if err != nil {
		return nil, auth.ErrInvalidToken
	}

	now := time.Now().UTC()
	return &auth.Claims{
		UserID:    userID,
		Subject:   userID.String(),
		IssuedAt:  now,
		ExpiresAt: now.Add(time.Hour),
		ID:        uuid.NewString(),
	}, nil
}
