// Package service implements the application's use cases on top of the
// store interfaces. Services own transactional boundaries and emit events
// for background work; they never touch HTTP concerns.
package service

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"github.com/google/uuid"

	"github.com/taskdeck/taskdeck-api/internal/domain"
	"github.com/taskdeck/taskdeck-api/internal/events"
	"github.com/taskdeck/taskdeck-api/internal/platform/imaging"
	"github.com/taskdeck/taskdeck-api/internal/platform/logger"
	"github.com/taskdeck/taskdeck-api/internal/service/auth"
	"github.com/taskdeck/taskdeck-api/internal/store"
)

// dummyBcryptHash is compared against when login targets an unknown email,
// so both branches of a failed login cost one bcrypt comparison.
const dummyBcryptHash = "$2a$10$N9qo8uLOickgx2ZMRZoMyeIjZAgcfl7p92ldGxad68LJZdL17lhWy"

// UserUpdate carries a partial profile update. Nil fields are left
// untouched; the allowed field set is enforced at the API layer.
type UserUpdate struct {
	Name     *string
	Email    *string
	Password *string
	Age      *int
}

// Empty reports whether the update changes nothing.
func (u UserUpdate) Empty() bool {
	return u.Name == nil && u.Email == nil && u.Password == nil && u.Age == nil
}

// UserService implements account lifecycle operations: signup, login,
// session revocation, profile maintenance, avatars, and deletion.
type UserService struct {
	users          store.UserStore
	sessions       store.SessionStore
	tokens         auth.TokenService
	hasher         auth.PasswordHasher
	verifier       auth.PasswordVerifier
	emitter        events.EventEmitter
	imaging        *imaging.Processor
	maxAvatarBytes int64
	logger         *slog.Logger
}

// UserServiceConfig bundles the dependencies of a UserService.
type UserServiceConfig struct {
	Users          store.UserStore
	Sessions       store.SessionStore
	Tokens         auth.TokenService
	Hasher         auth.PasswordHasher
	Verifier       auth.PasswordVerifier
	Emitter        events.EventEmitter
	Imaging        *imaging.Processor
	MaxAvatarBytes int64
	Logger         *slog.Logger
}

// NewUserService creates a new UserService.
func NewUserService(cfg UserServiceConfig) (*UserService, error) {
	if cfg.Users == nil {
		return nil, errors.New("user store cannot be nil")
	}
	if cfg.Sessions == nil {
		return nil, errors.New("session store cannot be nil")
	}
	if cfg.Tokens == nil {
		return nil, errors.New("token service cannot be nil")
	}
	if cfg.Hasher == nil {
		return nil, errors.New("password hasher cannot be nil")
	}
	if cfg.Verifier == nil {
		return nil, errors.New("password verifier cannot be nil")
	}
	if cfg.Emitter == nil {
		return nil, errors.New("event emitter cannot be nil")
	}
	if cfg.Imaging == nil {
		return nil, errors.New("image processor cannot be nil")
	}
	log := cfg.Logger
	if log == nil {
		log = slog.Default()
	}

	return &UserService{
		users:          cfg.Users,
		sessions:       cfg.Sessions,
		tokens:         cfg.Tokens,
		hasher:         cfg.Hasher,
		verifier:       cfg.Verifier,
		emitter:        cfg.Emitter,
		imaging:        cfg.Imaging,
		maxAvatarBytes: cfg.MaxAvatarBytes,
		logger:         log.With(slog.String("component", "user_service")),
	}, nil
}

// SignUp registers a new account and opens its first session. It returns
// the created user together with a fresh session token.
func (s *UserService) SignUp(ctx context.Context, name, email, password string, age int) (*domain.User, string, error) {
	log := logger.FromContextOrDefault(ctx, s.logger)

	user, err := domain.NewUser(name, email, password, age)
	if err != nil {
		return nil, "", fmt.Errorf("%w: %w", domain.ErrValidation, err)
	}

	hashed, err := s.hasher.Hash(user.Password)
	if err != nil {
		log.Error("failed to hash password", slog.String("error", err.Error()))
		return nil, "", fmt.Errorf("failed to hash password: %w", err)
	}
	user.HashedPassword = hashed
	user.Password = ""

	if err := s.users.Create(ctx, user); err != nil {
		return nil, "", err
	}

	token, err := s.openSession(ctx, user.ID)
	if err != nil {
		log.Error("failed to open session after signup",
			slog.String("user_id", user.ID.String()),
			slog.String("error", err.Error()))
		return nil, "", err
	}

	s.emitUserEvent(ctx, events.TypeWelcomeEmail, user)

	log.Info("user signed up", slog.String("user_id", user.ID.String()))
	return user, token, nil
}

// LogIn authenticates the given credentials and opens a new session.
// Every failure mode collapses to ErrInvalidCredentials.
func (s *UserService) LogIn(ctx context.Context, email, password string) (*domain.User, string, error) {
	log := logger.FromContextOrDefault(ctx, s.logger)

	user, err := s.users.GetByEmail(ctx, domain.NormalizeEmail(email))
	if err != nil {
		if errors.Is(err, store.ErrUserNotFound) {
			// Burn a comparison so unknown emails take as long as bad passwords.
			_ = s.verifier.Compare(dummyBcryptHash, password)
			return nil, "", ErrInvalidCredentials
		}
		log.Error("failed to look up user for login", slog.String("error", err.Error()))
		return nil, "", err
	}

	if err := s.verifier.Compare(user.HashedPassword, password); err != nil {
		return nil, "", ErrInvalidCredentials
	}

	token, err := s.openSession(ctx, user.ID)
	if err != nil {
		log.Error("failed to open session after login",
			slog.String("user_id", user.ID.String()),
			slog.String("error", err.Error()))
		return nil, "", err
	}

	log.Info("user logged in", slog.String("user_id", user.ID.String()))
	return user, token, nil
}

// LogOut revokes exactly the session the given token belongs to. Other
// sessions of the same user stay live.
func (s *UserService) LogOut(ctx context.Context, userID uuid.UUID, token string) error {
	return s.sessions.Delete(ctx, userID, auth.HashToken(token))
}

// LogOutAll revokes every session of the user and returns how many were
// revoked.
func (s *UserService) LogOutAll(ctx context.Context, userID uuid.UUID) (int64, error) {
	log := logger.FromContextOrDefault(ctx, s.logger)

	count, err := s.sessions.DeleteAllForUser(ctx, userID)
	if err != nil {
		return 0, err
	}

	log.Info("revoked all sessions",
		slog.String("user_id", userID.String()),
		slog.Int64("count", count))
	return count, nil
}

// GetProfile returns the user's own profile.
func (s *UserService) GetProfile(ctx context.Context, userID uuid.UUID) (*domain.User, error) {
	return s.users.GetByID(ctx, userID)
}

// UpdateProfile applies a partial update to the user's profile. A new
// password is re-validated against the password policy and re-hashed.
func (s *UserService) UpdateProfile(ctx context.Context, userID uuid.UUID, update UserUpdate) (*domain.User, error) {
	log := logger.FromContextOrDefault(ctx, s.logger)

	if update.Empty() {
		return nil, fmt.Errorf("%w: %w", domain.ErrValidation, ErrNoFields)
	}

	user, err := s.users.GetByID(ctx, userID)
	if err != nil {
		return nil, err
	}

	if update.Name != nil {
		user.Name = *update.Name
	}
	if update.Email != nil {
		user.Email = domain.NormalizeEmail(*update.Email)
	}
	if update.Age != nil {
		user.Age = *update.Age
	}
	if update.Password != nil {
		if err := domain.ValidatePassword(*update.Password); err != nil {
			return nil, fmt.Errorf("%w: %w", domain.ErrValidation, err)
		}
		hashed, err := s.hasher.Hash(*update.Password)
		if err != nil {
			log.Error("failed to hash password", slog.String("error", err.Error()))
			return nil, fmt.Errorf("failed to hash password: %w", err)
		}
		user.HashedPassword = hashed
	}

	if err := user.Validate(); err != nil {
		return nil, fmt.Errorf("%w: %w", domain.ErrValidation, err)
	}

	user.Touch()
	if err := s.users.Update(ctx, user); err != nil {
		return nil, err
	}

	log.Info("profile updated", slog.String("user_id", userID.String()))
	return user, nil
}

// DeleteAccount removes the account. The schema cascades the delete to the
// user's sessions and tasks, so a single delete ends everything.
func (s *UserService) DeleteAccount(ctx context.Context, userID uuid.UUID) error {
	log := logger.FromContextOrDefault(ctx, s.logger)

	user, err := s.users.GetByID(ctx, userID)
	if err != nil {
		return err
	}

	if err := s.users.Delete(ctx, userID); err != nil {
		return err
	}

	s.emitUserEvent(ctx, events.TypeCancellationEmail, user)

	log.Info("account deleted", slog.String("user_id", userID.String()))
	return nil
}

// SetAvatar normalizes the uploaded image and stores it on the profile.
func (s *UserService) SetAvatar(ctx context.Context, userID uuid.UUID, data []byte) error {
	log := logger.FromContextOrDefault(ctx, s.logger)

	if s.maxAvatarBytes > 0 && int64(len(data)) > s.maxAvatarBytes {
		return fmt.Errorf("%w: %w", domain.ErrValidation, ErrAvatarTooLarge)
	}

	normalized, err := s.imaging.Normalize(data)
	if err != nil {
		if errors.Is(err, imaging.ErrUnsupportedFormat) {
			return fmt.Errorf("%w: %w", domain.ErrValidation, err)
		}
		log.Error("failed to process avatar",
			slog.String("user_id", userID.String()),
			slog.String("error", err.Error()))
		return err
	}

	user, err := s.users.GetByID(ctx, userID)
	if err != nil {
		return err
	}

	user.Avatar = normalized
	user.Touch()
	if err := s.users.Update(ctx, user); err != nil {
		return err
	}

	log.Info("avatar updated", slog.String("user_id", userID.String()))
	return nil
}

// RemoveAvatar clears the user's stored avatar. Clearing an already empty
// avatar is not an error.
func (s *UserService) RemoveAvatar(ctx context.Context, userID uuid.UUID) error {
	user, err := s.users.GetByID(ctx, userID)
	if err != nil {
		return err
	}

	user.Avatar = nil
	user.Touch()
	return s.users.Update(ctx, user)
}

// GetAvatar returns any user's avatar as PNG bytes. This is the one
// user-scoped read open to unauthenticated callers.
func (s *UserService) GetAvatar(ctx context.Context, userID uuid.UUID) ([]byte, error) {
	user, err := s.users.GetByID(ctx, userID)
	if err != nil {
		return nil, err
	}
	if len(user.Avatar) == 0 {
		return nil, ErrNoAvatar
	}
	return user.Avatar, nil
}

// openSession issues a token and records its digest as a live session.
func (s *UserService) openSession(ctx context.Context, userID uuid.UUID) (string, error) {
	token, err := s.tokens.Issue(ctx, userID)
	if err != nil {
		return "", fmt.Errorf("failed to issue token: %w", err)
	}

	session, err := domain.NewSession(userID, auth.HashToken(token))
	if err != nil {
		return "", err
	}
	if err := s.sessions.Create(ctx, session); err != nil {
		return "", fmt.Errorf("failed to create session: %w", err)
	}

	return token, nil
}

// emitUserEvent publishes a lifecycle event. Event emission failures are
// logged but never fail the request that triggered them.
func (s *UserService) emitUserEvent(ctx context.Context, eventType string, user *domain.User) {
	log := logger.FromContextOrDefault(ctx, s.logger)

	event, err := events.NewEvent(eventType, map[string]string{
		"email": user.Email,
		"name":  user.Name,
	})
	if err != nil {
		log.Error("failed to build event",
			slog.String("event_type", eventType),
			slog.String("error", err.Error()))
		return
	}

	if err := s.emitter.EmitEvent(ctx, event); err != nil {
		log.Error("failed to emit event",
			slog.String("event_type", eventType),
			slog.String("error", err.Error()))
	}
}
