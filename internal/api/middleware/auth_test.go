package middleware

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/taskdeck/taskdeck-api/internal/domain"
	"github.com/taskdeck/taskdeck-api/internal/mocks"
	"github.com/taskdeck/taskdeck-api/internal/service/auth"
)

// seedUser registers a user with a live session and returns the bearer token.
func seedUser(t *testing.T, users *mocks.MockUserStore, sessions *mocks.MockSessionStore) (*domain.User, string) {
	t.Helper()

	user := &domain.User{
		ID:             uuid.New(),
		Name:           "Alice",
		Email:          "alice@example.com",
		HashedPassword: "$2a$10$hash",
	}
	require.NoError(t, users.Create(context.Background(), user))

	token := "token-" + user.ID.String()
	session, err := domain.NewSession(user.ID, auth.HashToken(token))
	require.NoError(t, err)
	require.NoError(t, sessions.Create(context.Background(), session))

	return user, token
}

func TestAuthenticate(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name       string
		setup      func(t *testing.T, users *mocks.MockUserStore, sessions *mocks.MockSessionStore, tokens *mocks.MockTokenService) string
		wantStatus int
		wantNext   bool
	}{
		{
			name: "valid token with live session",
			setup: func(t *testing.T, users *mocks.MockUserStore, sessions *mocks.MockSessionStore, tokens *mocks.MockTokenService) string {
				_, token := seedUser(t, users, sessions)
				return "Bearer " + token
			},
			wantStatus: http.StatusOK,
			wantNext:   true,
		},
		{
			name: "missing header",
			setup: func(t *testing.T, users *mocks.MockUserStore, sessions *mocks.MockSessionStore, tokens *mocks.MockTokenService) string {
				return ""
			},
			wantStatus: http.StatusUnauthorized,
		},
		{
			name: "malformed header",
			setup: func(t *testing.T, users *mocks.MockUserStore, sessions *mocks.MockSessionStore, tokens *mocks.MockTokenService) string {
				return "NotBearer xyz"
			},
			wantStatus: http.StatusUnauthorized,
		},
		{
			name: "invalid token",
			setup: func(t *testing.T, users *mocks.MockUserStore, sessions *mocks.MockSessionStore, tokens *mocks.MockTokenService) string {
				return "Bearer garbage"
			},
			wantStatus: http.StatusUnauthorized,
		},
		{
			name: "expired token",
			setup: func(t *testing.T, users *mocks.MockUserStore, sessions *mocks.MockSessionStore, tokens *mocks.MockTokenService) string {
				tokens.VerifyFn = func(ctx context.Context, tokenString string) (*auth.Claims, error) {
					return nil, auth.ErrExpiredToken
				}
				return "Bearer whatever"
			},
			wantStatus: http.StatusUnauthorized,
		},
		{
			name: "valid token for deleted user",
			setup: func(t *testing.T, users *mocks.MockUserStore, sessions *mocks.MockSessionStore, tokens *mocks.MockTokenService) string {
				user, token := seedUser(t, users, sessions)
				require.NoError(t, users.Delete(context.Background(), user.ID))
				return "Bearer " + token
			},
			wantStatus: http.StatusUnauthorized,
		},
		{
			name: "valid token with revoked session",
			setup: func(t *testing.T, users *mocks.MockUserStore, sessions *mocks.MockSessionStore, tokens *mocks.MockTokenService) string {
				user, token := seedUser(t, users, sessions)
				require.NoError(t, sessions.Delete(context.Background(), user.ID, auth.HashToken(token)))
				return "Bearer " + token
			},
			wantStatus: http.StatusUnauthorized,
		},
	}

	for _, tt := range tests {
		tt := tt
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			users := mocks.NewMockUserStore()
			sessions := mocks.NewMockSessionStore()
			tokens := &mocks.MockTokenService{}

			header := tt.setup(t, users, sessions, tokens)

			m := NewAuthMiddleware(tokens, users, sessions)

			nextCalled := false
			next := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				nextCalled = true

				user, ok := GetUser(r)
				assert.True(t, ok, "user must be attached to the context")
				assert.NotNil(t, user)

				token, ok := GetSessionToken(r)
				assert.True(t, ok, "session token must be attached to the context")
				assert.NotEmpty(t, token)

				w.WriteHeader(http.StatusOK)
			})

			req := httptest.NewRequest(http.MethodGet, "/tasks", nil)
			if header != "" {
				req.Header.Set("Authorization", header)
			}
			rec := httptest.NewRecorder()

			m.Authenticate(next).ServeHTTP(rec, req)

			assert.Equal(t, tt.wantStatus, rec.Code)
			assert.Equal(t, tt.wantNext, nextCalled)
		})
	}
}

func TestGetUserWithoutMiddleware(t *testing.T) {
	t.Parallel()

	req := httptest.NewRequest(http.MethodGet, "/", nil)

	_, ok := GetUser(req)
	assert.False(t, ok)

	_, ok = GetSessionToken(req)
	assert.False(t, ok)
}
