package job

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/taskdeck/taskdeck-api/internal/events"
)

// EventHandler turns notification events into persisted jobs and submits
// them to the runner. It implements events.EventHandler.
type EventHandler struct {
	runner  *Runner
	factory *NotificationFactory
	logger  *slog.Logger
}

// Ensure EventHandler implements events.EventHandler
var _ events.EventHandler = (*EventHandler)(nil)

// NewEventHandler creates an EventHandler bound to the given runner.
func NewEventHandler(runner *Runner, factory *NotificationFactory, logger *slog.Logger) *EventHandler {
	if logger == nil {
		logger = slog.Default()
	}
	return &EventHandler{
		runner:  runner,
		factory: factory,
		logger:  logger.With(slog.String("component", "job_event_handler")),
	}
}

// HandleEvent implements events.EventHandler.
func (h *EventHandler) HandleEvent(ctx context.Context, event *events.Event) error {
	var payload EmailPayload
	if err := event.UnmarshalPayload(&payload); err != nil {
		return fmt.Errorf("failed to unmarshal event payload: %w", err)
	}

	j, err := NewNotificationJob(event.Type, payload, h.factory.mailer)
	if err != nil {
		return err
	}

	if err := h.runner.Submit(ctx, j); err != nil {
		return fmt.Errorf("failed to submit notification job: %w", err)
	}

	h.logger.Debug("notification job submitted",
		"event_id", event.ID,
		"event_type", event.Type,
		"job_id", j.ID())
	return nil
}
