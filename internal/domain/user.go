package domain

import (
	"errors"
	"strings"
	"time"

	"github.com/google/uuid"
)

// Common validation errors
var (
	ErrEmptyUserID         = errors.New("user ID cannot be empty")
	ErrEmptyName           = errors.New("name cannot be empty")
	ErrEmptyEmail          = errors.New("email cannot be empty")
	ErrInvalidEmail        = errors.New("invalid email format")
	ErrEmptyPassword       = errors.New("password cannot be empty")
	ErrPasswordTooShort    = errors.New("password must be at least 7 characters long")
	ErrPasswordTooLong     = errors.New("password must be at most 72 characters long")
	ErrPasswordTooObvious  = errors.New("password cannot contain the word \"password\"")
	ErrNegativeAge         = errors.New("age cannot be negative")
	ErrEmptyHashedPassword = errors.New("hashed password cannot be empty")
)

// User represents a registered account.
//
// HashedPassword, the transient plaintext Password, and the Avatar blob are
// never serialized: signup/login/profile responses marshal this struct
// directly, so the json tags are the single enforcement point for the
// "no secrets in responses" rule.
type User struct {
	ID             uuid.UUID `json:"id"`
	Name           string    `json:"name"`
	Email          string    `json:"email"`
	Password       string    `json:"-"` // Plaintext, held only between decode and hashing
	HashedPassword string    `json:"-"`
	Age            int       `json:"age"`
	Avatar         []byte    `json:"-"`
	CreatedAt      time.Time `json:"created_at"`
	UpdatedAt      time.Time `json:"updated_at"`
}

// NewUser creates a new User with the given profile fields.
// It generates a new UUID, normalizes the email, and sets the
// creation/update timestamps. Returns an error if validation fails.
//
// NOTE: the returned user carries the plaintext password; the caller is
// responsible for hashing it before the user is stored.
func NewUser(name, email, password string, age int) (*User, error) {
	now := time.Now().UTC()
	user := &User{
		ID:        uuid.New(),
		Name:      strings.TrimSpace(name),
		Email:     NormalizeEmail(email),
		Password:  password,
		Age:       age,
		CreatedAt: now,
		UpdatedAt: now,
	}

	if err := user.Validate(); err != nil {
		return nil, err
	}

	return user, nil
}

// Touch records that the user was modified. Callers must invoke it before
// persisting an update so updated_at tracks the last write.
func (u *User) Touch() {
	u.UpdatedAt = time.Now().UTC()
}

// NormalizeEmail lowercases and trims an email address so that uniqueness
// and login lookups are case-insensitive.
func NormalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}

// Validate checks if the User has valid data.
// Returns an error if any field fails validation.
func (u *User) Validate() error {
	if u.ID == uuid.Nil {
		return ErrEmptyUserID
	}

	if u.Name == "" {
		return ErrEmptyName
	}

	if u.Email == "" {
		return ErrEmptyEmail
	}

	if !validEmailFormat(u.Email) {
		return ErrInvalidEmail
	}

	if u.Age < 0 {
		return ErrNegativeAge
	}

	if u.Password != "" {
		if err := ValidatePassword(u.Password); err != nil {
			return err
		}
	} else if u.HashedPassword == "" {
		// Existing users loaded from the store carry only the hash.
		return ErrEmptyPassword
	}

	return nil
}

// ValidatePassword checks a plaintext password against the account password
// policy: 7-72 characters (72 is bcrypt's practical limit) and must not
// contain the word "password".
func ValidatePassword(password string) error {
	if len(password) < 7 {
		return ErrPasswordTooShort
	}
	if len(password) > 72 {
		return ErrPasswordTooLong
	}
	if strings.Contains(strings.ToLower(password), "password") {
		return ErrPasswordTooObvious
	}
	return nil
}

// validEmailFormat performs basic validation of email format: a single "@"
// with a dotted domain after it. Request payloads get the stricter
// validator-tag check; this is the last line of defense at the entity level.
func validEmailFormat(email string) bool {
	at := strings.Index(email, "@")
	if at <= 0 || at == len(email)-1 {
		return false
	}

	domain := email[at+1:]
	if strings.Contains(domain, "@") {
		return false
	}

	dot := strings.Index(domain, ".")
	return dot > 0 && dot < len(domain)-1
}
