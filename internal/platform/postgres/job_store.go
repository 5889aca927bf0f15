package postgres

import (
	"context"
	"database/sql"
	"log/slog"
	"time"

	"github.com/google/uuid"
	"github.com/taskdeck/taskdeck-api/internal/job"
	"github.com/taskdeck/taskdeck-api/internal/platform/logger"
	"github.com/taskdeck/taskdeck-api/internal/store"
)

// PostgresJobStore implements the job.Store interface using PostgreSQL.
type PostgresJobStore struct {
	db     store.DBTX
	logger *slog.Logger
}

// NewPostgresJobStore creates a new PostgresJobStore.
func NewPostgresJobStore(db store.DBTX, logger *slog.Logger) *PostgresJobStore {
	if db == nil {
		panic("db cannot be nil")
	}
	if logger == nil {
		logger = slog.Default()
	}

	return &PostgresJobStore{
		db:     db,
		logger: logger.With(slog.String("component", "job_store")),
	}
}

// Ensure PostgresJobStore implements job.Store interface
var _ job.Store = (*PostgresJobStore)(nil)

// SaveJob implements job.Store.SaveJob
func (s *PostgresJobStore) SaveJob(ctx context.Context, j job.Job) error {
	log := logger.FromContextOrDefault(ctx, s.logger)

	query := `
		INSERT INTO notification_jobs (id, type, payload, status, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6)
	`

	now := time.Now().UTC()
	_, err := s.db.ExecContext(ctx, query,
		j.ID(),
		j.Type(),
		j.Payload(),
		j.Status(),
		now,
		now,
	)

	if err != nil {
		log.Error("failed to save job",
			slog.String("job_id", j.ID().String()),
			slog.String("job_type", j.Type()),
			slog.String("error", err.Error()))
		return err
	}

	return nil
}

// UpdateJobStatus implements job.Store.UpdateJobStatus
func (s *PostgresJobStore) UpdateJobStatus(
	ctx context.Context,
	jobID uuid.UUID,
	status job.Status,
	errorMsg string,
) error {
	log := logger.FromContextOrDefault(ctx, s.logger)

	query := `
		UPDATE notification_jobs
		SET status = $1, error_message = $2, updated_at = $3
		WHERE id = $4
	`

	result, err := s.db.ExecContext(ctx, query,
		status,
		errorMsg,
		time.Now().UTC(),
		jobID,
	)
	if err != nil {
		log.Error("failed to update job status",
			slog.String("job_id", jobID.String()),
			slog.String("status", string(status)),
			slog.String("error", err.Error()))
		return err
	}

	rows, err := result.RowsAffected()
	if err != nil {
		return err
	}
	if rows == 0 {
		// Job not found, treat as no-op.
		log.Warn("no job found to update status", slog.String("job_id", jobID.String()))
	}

	return nil
}

// GetPendingJobs implements job.Store.GetPendingJobs
func (s *PostgresJobStore) GetPendingJobs(ctx context.Context) ([]job.Record, error) {
	return s.getJobsByStatus(ctx, job.StatusPending, 0)
}

// GetProcessingJobs implements job.Store.GetProcessingJobs
func (s *PostgresJobStore) GetProcessingJobs(
	ctx context.Context,
	olderThan time.Duration,
) ([]job.Record, error) {
	return s.getJobsByStatus(ctx, job.StatusProcessing, olderThan)
}

// getJobsByStatus is a helper to get jobs by status with an optional age filter
func (s *PostgresJobStore) getJobsByStatus(
	ctx context.Context,
	status job.Status,
	olderThan time.Duration,
) ([]job.Record, error) {
	log := logger.FromContextOrDefault(ctx, s.logger)

	query := `
		SELECT id, type, payload, status, error_message, created_at, updated_at
		FROM notification_jobs
		WHERE status = $1
	`
	args := []any{status}

	if olderThan > 0 {
		args = append(args, time.Now().UTC().Add(-olderThan))
		query += ` AND updated_at < $2`
	}
	query += ` ORDER BY created_at ASC`

	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		log.Error("failed to query jobs by status",
			slog.String("status", string(status)),
			slog.String("error", err.Error()))
		return nil, err
	}
	defer func() { _ = rows.Close() }()

	var records []job.Record
	for rows.Next() {
		var rec job.Record
		var errorMessage sql.NullString

		if err := rows.Scan(
			&rec.ID,
			&rec.Type,
			&rec.Payload,
			&rec.Status,
			&errorMessage,
			&rec.CreatedAt,
			&rec.UpdatedAt,
		); err != nil {
			log.Error("failed to scan job row",
				slog.String("status", string(status)),
				slog.String("error", err.Error()))
			return nil, err
		}

		rec.ErrorMessage = errorMessage.String
		records = append(records, rec)
	}

	if err := rows.Err(); err != nil {
		log.Error("error iterating job rows",
			slog.String("status", string(status)),
			slog.String("error", err.Error()))
		return nil, err
	}

	return records, nil
}

// WithTx implements job.Store.WithTx
func (s *PostgresJobStore) WithTx(tx *sql.Tx) job.Store {
	return &PostgresJobStore{
		db:     tx,
		logger: s.logger,
	}
}
