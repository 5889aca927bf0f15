package job

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/google/uuid"
	"github.com/taskdeck/taskdeck-api/internal/events"
	"github.com/taskdeck/taskdeck-api/internal/notify"
)

// EmailPayload is the persisted payload of a notification job.
type EmailPayload struct {
	Email string `json:"email"`
	Name  string `json:"name"`
}

// NotificationJob delivers one account lifecycle email through a Mailer.
type NotificationJob struct {
	id      uuid.UUID
	jobType string
	payload []byte
	status  Status
	mailer  notify.Mailer
}

// Ensure NotificationJob implements Job
var _ Job = (*NotificationJob)(nil)

// NewNotificationJob creates a notification job of the given event type.
func NewNotificationJob(jobType string, payload EmailPayload, mailer notify.Mailer) (*NotificationJob, error) {
	switch jobType {
	case events.TypeWelcomeEmail, events.TypeCancellationEmail:
	default:
		return nil, fmt.Errorf("unknown notification job type: %q", jobType)
	}

	data, err := json.Marshal(payload)
	if err != nil {
		return nil, fmt.Errorf("failed to marshal notification payload: %w", err)
	}

	return &NotificationJob{
		id:      uuid.New(),
		jobType: jobType,
		payload: data,
		status:  StatusPending,
		mailer:  mailer,
	}, nil
}

// ID implements Job.
func (j *NotificationJob) ID() uuid.UUID { return j.id }

// Type implements Job.
func (j *NotificationJob) Type() string { return j.jobType }

// Payload implements Job.
func (j *NotificationJob) Payload() []byte { return j.payload }

// Status implements Job.
func (j *NotificationJob) Status() Status { return j.status }

// Execute implements Job. It sends the email through the mailer.
func (j *NotificationJob) Execute(ctx context.Context) error {
	var payload EmailPayload
	if err := json.Unmarshal(j.payload, &payload); err != nil {
		return fmt.Errorf("failed to unmarshal notification payload: %w", err)
	}

	switch j.jobType {
	case events.TypeWelcomeEmail:
		return j.mailer.SendWelcome(ctx, payload.Email, payload.Name)
	case events.TypeCancellationEmail:
		return j.mailer.SendCancellation(ctx, payload.Email, payload.Name)
	default:
		return fmt.Errorf("unknown notification job type: %q", j.jobType)
	}
}

// NotificationFactory rebuilds notification jobs from persisted records and
// from events. It implements Factory.
type NotificationFactory struct {
	mailer notify.Mailer
}

// Ensure NotificationFactory implements Factory
var _ Factory = (*NotificationFactory)(nil)

// NewNotificationFactory creates a factory bound to the given mailer.
func NewNotificationFactory(mailer notify.Mailer) *NotificationFactory {
	return &NotificationFactory{mailer: mailer}
}

// Build implements Factory.
func (f *NotificationFactory) Build(id uuid.UUID, jobType string, payload []byte) (Job, error) {
	switch jobType {
	case events.TypeWelcomeEmail, events.TypeCancellationEmail:
	default:
		return nil, fmt.Errorf("unknown job type: %q", jobType)
	}

	return &NotificationJob{
		id:      id,
		jobType: jobType,
		payload: payload,
		status:  StatusPending,
		mailer:  f.mailer,
	}, nil
}
