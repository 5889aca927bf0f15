package postgres

import (
	"context"
	"database/sql"
	"log/slog"

	"github.com/google/uuid"
	"github.com/taskdeck/taskdeck-api/internal/domain"
	"github.com/taskdeck/taskdeck-api/internal/platform/logger"
	"github.com/taskdeck/taskdeck-api/internal/store"
)

// PostgresSessionStore implements the store.SessionStore interface
// using a PostgreSQL database as the storage backend.
type PostgresSessionStore struct {
	db     store.DBTX
	logger *slog.Logger
}

// NewPostgresSessionStore creates a new PostgreSQL implementation of the
// SessionStore interface.
func NewPostgresSessionStore(db store.DBTX, logger *slog.Logger) *PostgresSessionStore {
	if db == nil {
		panic("db cannot be nil")
	}
	if logger == nil {
		logger = slog.Default()
	}

	return &PostgresSessionStore{
		db:     db,
		logger: logger.With(slog.String("component", "session_store")),
	}
}

// Ensure PostgresSessionStore implements store.SessionStore interface
var _ store.SessionStore = (*PostgresSessionStore)(nil)

// Create implements store.SessionStore.Create
func (s *PostgresSessionStore) Create(ctx context.Context, session *domain.Session) error {
	log := logger.FromContextOrDefault(ctx, s.logger)

	if err := session.Validate(); err != nil {
		log.Warn("session validation failed during create",
			slog.String("error", err.Error()),
			slog.String("session_id", session.ID.String()))
		return err
	}

	query := `
		INSERT INTO sessions (id, user_id, token_hash, created_at)
		VALUES ($1, $2, $3, $4)
	`
	_, err := s.db.ExecContext(
		ctx,
		query,
		session.ID,
		session.UserID,
		session.TokenHash,
		session.CreatedAt,
	)

	if err != nil {
		if isForeignKeyViolation(err) {
			// The user was deleted between token issue and session write.
			return store.ErrUserNotFound
		}
		log.Error("failed to create session",
			slog.String("error", err.Error()),
			slog.String("user_id", session.UserID.String()))
		return err
	}

	log.Debug("session created",
		slog.String("session_id", session.ID.String()),
		slog.String("user_id", session.UserID.String()))
	return nil
}

// Exists implements store.SessionStore.Exists
func (s *PostgresSessionStore) Exists(
	ctx context.Context,
	userID uuid.UUID,
	tokenHash string,
) (bool, error) {
	log := logger.FromContextOrDefault(ctx, s.logger)

	query := `SELECT EXISTS (SELECT 1 FROM sessions WHERE user_id = $1 AND token_hash = $2)`

	var exists bool
	if err := s.db.QueryRowContext(ctx, query, userID, tokenHash).Scan(&exists); err != nil {
		log.Error("failed to check session existence",
			slog.String("error", err.Error()),
			slog.String("user_id", userID.String()))
		return false, err
	}

	return exists, nil
}

// Delete implements store.SessionStore.Delete
func (s *PostgresSessionStore) Delete(
	ctx context.Context,
	userID uuid.UUID,
	tokenHash string,
) error {
	log := logger.FromContextOrDefault(ctx, s.logger)

	result, err := s.db.ExecContext(
		ctx,
		`DELETE FROM sessions WHERE user_id = $1 AND token_hash = $2`,
		userID,
		tokenHash,
	)
	if err != nil {
		log.Error("failed to delete session",
			slog.String("error", err.Error()),
			slog.String("user_id", userID.String()))
		return err
	}

	rows, err := result.RowsAffected()
	if err != nil {
		return err
	}
	if rows == 0 {
		return store.ErrSessionNotFound
	}

	log.Debug("session deleted", slog.String("user_id", userID.String()))
	return nil
}

// DeleteAllForUser implements store.SessionStore.DeleteAllForUser
func (s *PostgresSessionStore) DeleteAllForUser(
	ctx context.Context,
	userID uuid.UUID,
) (int64, error) {
	log := logger.FromContextOrDefault(ctx, s.logger)

	result, err := s.db.ExecContext(ctx, `DELETE FROM sessions WHERE user_id = $1`, userID)
	if err != nil {
		log.Error("failed to delete sessions for user",
			slog.String("error", err.Error()),
			slog.String("user_id", userID.String()))
		return 0, err
	}

	rows, err := result.RowsAffected()
	if err != nil {
		return 0, err
	}

	log.Debug("sessions deleted for user",
		slog.String("user_id", userID.String()),
		slog.Int64("count", rows))
	return rows, nil
}

// WithTx implements store.SessionStore.WithTx
func (s *PostgresSessionStore) WithTx(tx *sql.Tx) store.SessionStore {
	return &PostgresSessionStore{
		db:     tx,
		logger: s.logger,
	}
}
