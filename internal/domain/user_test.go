package domain

import (
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewUser(t *testing.T) {
	t.Parallel()

	t.Run("creates valid user", func(t *testing.T) {
		t.Parallel()
		user, err := NewUser("Alice", "Alice@Example.COM", "supersecret", 30)
		require.NoError(t, err)

		assert.NotEqual(t, uuid.Nil, user.ID)
		assert.Equal(t, "Alice", user.Name)
		assert.Equal(t, "alice@example.com", user.Email, "email should be normalized")
		assert.Equal(t, 30, user.Age)
		assert.False(t, user.CreatedAt.IsZero())
		assert.Equal(t, user.CreatedAt, user.UpdatedAt)
	})

	t.Run("trims whitespace from name", func(t *testing.T) {
		t.Parallel()
		user, err := NewUser("  Bob  ", "bob@example.com", "supersecret", 0)
		require.NoError(t, err)
		assert.Equal(t, "Bob", user.Name)
	})

	tests := []struct {
		name     string
		userName string
		email    string
		password string
		age      int
		wantErr  error
	}{
		{"empty name", "", "a@example.com", "supersecret", 0, ErrEmptyName},
		{"empty email", "A", "", "supersecret", 0, ErrEmptyEmail},
		{"malformed email", "A", "not-an-email", "supersecret", 0, ErrInvalidEmail},
		{"email without domain dot", "A", "a@example", "supersecret", 0, ErrInvalidEmail},
		{"short password", "A", "a@example.com", "six666", 0, ErrPasswordTooShort},
		{"password contains password", "A", "a@example.com", "myPassword1", 0, ErrPasswordTooObvious},
		{"negative age", "A", "a@example.com", "supersecret", -1, ErrNegativeAge},
	}

	for _, tt := range tests {
		tt := tt
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			_, err := NewUser(tt.userName, tt.email, tt.password, tt.age)
			assert.ErrorIs(t, err, tt.wantErr)
		})
	}
}

func TestValidatePassword(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name     string
		password string
		wantErr  error
	}{
		{"minimum length", "1234567", nil},
		{"too short", "123456", ErrPasswordTooShort},
		{"too long", string(make([]byte, 73)), ErrPasswordTooLong},
		{"contains password lowercase", "abcpasswordxyz", ErrPasswordTooObvious},
		{"contains password mixed case", "abcPaSsWoRdxyz", ErrPasswordTooObvious},
		{"ordinary passphrase", "correct horse battery", nil},
	}

	for _, tt := range tests {
		tt := tt
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			err := ValidatePassword(tt.password)
			if tt.wantErr == nil {
				assert.NoError(t, err)
			} else {
				assert.ErrorIs(t, err, tt.wantErr)
			}
		})
	}
}

func TestUserValidate(t *testing.T) {
	t.Parallel()

	t.Run("stored user with only hash is valid", func(t *testing.T) {
		t.Parallel()
		user := &User{
			ID:             uuid.New(),
			Name:           "Alice",
			Email:          "alice@example.com",
			HashedPassword: "$2a$10$something",
		}
		assert.NoError(t, user.Validate())
	})

	t.Run("user without password or hash is invalid", func(t *testing.T) {
		t.Parallel()
		user := &User{
			ID:    uuid.New(),
			Name:  "Alice",
			Email: "alice@example.com",
		}
		assert.ErrorIs(t, user.Validate(), ErrEmptyPassword)
	})
}

func TestNormalizeEmail(t *testing.T) {
	t.Parallel()

	assert.Equal(t, "a@b.co", NormalizeEmail("  A@B.Co "))
	assert.Equal(t, "a@b.co", NormalizeEmail("a@b.co"))
}
