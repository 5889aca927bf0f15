package auth

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestIssue(t *testing.T) {
	t.Parallel()

	fixedTime := time.Date(2026, 1, 1, 12, 0, 0, 0, time.UTC)
	tokenLifetime := 60 * time.Minute
	secret := "test-secret-that-is-long-enough-for-testing"
	userID := uuid.New()

	svc := NewTestTokenService(secret, tokenLifetime, func() time.Time {
		return fixedTime
	})

	t.Run("issues verifiable token", func(t *testing.T) {
		t.Parallel()
		token, err := svc.Issue(context.Background(), userID)
		require.NoError(t, err)
		require.NotEmpty(t, token)

		claims, err := svc.Verify(context.Background(), token)
		require.NoError(t, err)

		assert.Equal(t, userID, claims.UserID)
		assert.Equal(t, userID.String(), claims.Subject)
		// Compare Unix timestamps to avoid timezone issues
		assert.Equal(t, fixedTime.Unix(), claims.IssuedAt.Unix())
		assert.Equal(t, fixedTime.Add(tokenLifetime).Unix(), claims.ExpiresAt.Unix())
		assert.NotEmpty(t, claims.ID)
	})

	t.Run("issues unique token IDs", func(t *testing.T) {
		t.Parallel()
		first, err := svc.Issue(context.Background(), userID)
		require.NoError(t, err)
		second, err := svc.Issue(context.Background(), userID)
		require.NoError(t, err)
		assert.NotEqual(t, first, second)
	})
}

func TestVerify(t *testing.T) {
	t.Parallel()

	fixedTime := time.Date(2026, 1, 1, 12, 0, 0, 0, time.UTC)
	tokenLifetime := 60 * time.Minute
	secret := "test-secret-that-is-long-enough-for-testing"
	wrongSecret := "wrong-secret-that-is-long-enough-for-testing"
	userID := uuid.New()

	tests := []struct {
		name      string
		setupFunc func() (TokenService, string)
		wantErr   error
	}{
		{
			name: "valid token",
			setupFunc: func() (TokenService, string) {
				svc := NewTestTokenService(secret, tokenLifetime, func() time.Time {
					return fixedTime
				})
				token, _ := svc.Issue(context.Background(), userID)
				return svc, token
			},
			wantErr: nil,
		},
		{
			name: "expired token",
			setupFunc: func() (TokenService, string) {
				genSvc := NewTestTokenService(secret, tokenLifetime, func() time.Time {
					return fixedTime
				})
				token, _ := genSvc.Issue(context.Background(), userID)

				// Verify well past expiry plus the allowed clock skew.
				valSvc := NewTestTokenService(secret, tokenLifetime, func() time.Time {
					return fixedTime.Add(tokenLifetime + time.Hour)
				})
				return valSvc, token
			},
			wantErr: ErrExpiredToken,
		},
		{
			name: "token inside clock skew is still valid",
			setupFunc: func() (TokenService, string) {
				genSvc := NewTestTokenService(secret, tokenLifetime, func() time.Time {
					return fixedTime
				})
				token, _ := genSvc.Issue(context.Background(), userID)

				valSvc := NewTestTokenService(secret, tokenLifetime, func() time.Time {
					return fixedTime.Add(tokenLifetime + time.Minute)
				})
				return valSvc, token
			},
			wantErr: nil,
		},
		{
			name: "wrong signing key",
			setupFunc: func() (TokenService, string) {
				genSvc := NewTestTokenService(wrongSecret, tokenLifetime, func() time.Time {
					return fixedTime
				})
				token, _ := genSvc.Issue(context.Background(), userID)

				valSvc := NewTestTokenService(secret, tokenLifetime, func() time.Time {
					return fixedTime
				})
				return valSvc, token
			},
			wantErr: ErrInvalidToken,
		},
		{
			name: "malformed token",
			setupFunc: func() (TokenService, string) {
				svc := NewTestTokenService(secret, tokenLifetime, func() time.Time {
					return fixedTime
				})
				return svc, "not.a.token"
			},
			wantErr: ErrInvalidToken,
		},
		{
			name: "empty token",
			setupFunc: func() (TokenService, string) {
				svc := NewTestTokenService(secret, tokenLifetime, func() time.Time {
					return fixedTime
				})
				return svc, ""
			},
			wantErr: ErrInvalidToken,
		},
	}

	for _, tt := range tests {
		tt := tt
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			svc, token := tt.setupFunc()
			claims, err := svc.Verify(context.Background(), token)

			if tt.wantErr != nil {
				assert.ErrorIs(t, err, tt.wantErr)
				assert.Nil(t, claims)
				return
			}

			require.NoError(t, err)
			assert.Equal(t, userID, claims.UserID)
		})
	}
}

func TestHashToken(t *testing.T) {
	t.Parallel()

	first := HashToken("some-token")
	second := HashToken("some-token")
	other := HashToken("another-token")

	assert.Equal(t, first, second, "digest must be deterministic")
	assert.NotEqual(t, first, other)
	assert.Len(t, first, 64, "hex-encoded SHA-256 digest")
	assert.NotContains(t, first, "some-token")
}
