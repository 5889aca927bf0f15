// Package job runs background work that must survive a restart, such as
// outbound notification emails. Jobs are persisted before execution and
// recovered from the store on startup.
package job

import (
	"context"
	"database/sql"
	"time"

	"github.com/google/uuid"
)

// Status represents the current state of a job
type Status string

// Possible job status values
const (
	StatusPending    Status = "pending"
	StatusProcessing Status = "processing"
	StatusCompleted  Status = "completed"
	StatusFailed     Status = "failed"
)

// Job represents a unit of background work to be processed
type Job interface {
	// ID returns the job's unique identifier
	ID() uuid.UUID

	// Type returns the job type identifier
	Type() string

	// Payload returns the job data as a byte slice
	Payload() []byte

	// Status returns the current job status
	Status() Status

	// Execute runs the job logic
	Execute(ctx context.Context) error
}

// Factory rebuilds an executable Job from its persisted type and payload.
// The runner uses it to rehydrate jobs recovered from the store, which carry
// data but no behavior.
type Factory interface {
	Build(id uuid.UUID, jobType string, payload []byte) (Job, error)
}

// Store defines the interface for persisting jobs
type Store interface {
	// SaveJob persists a job to the database
	SaveJob(ctx context.Context, j Job) error

	// UpdateJobStatus updates the status of a job
	UpdateJobStatus(ctx context.Context, jobID uuid.UUID, status Status, errorMsg string) error

	// GetPendingJobs retrieves all jobs with "pending" status
	GetPendingJobs(ctx context.Context) ([]Record, error)

	// GetProcessingJobs retrieves jobs with "processing" status.
	// If olderThan is non-zero, only returns jobs that have been in this
	// state longer than the specified duration.
	GetProcessingJobs(ctx context.Context, olderThan time.Duration) ([]Record, error)

	// WithTx returns a new Store instance that uses the provided transaction.
	WithTx(tx *sql.Tx) Store
}

// Record is a job as loaded from the store: data without behavior.
type Record struct {
	ID           uuid.UUID
	Type         string
	Payload      []byte
	Status       Status
	ErrorMessage string
	CreatedAt    time.Time
	UpdatedAt    time.Time
}
