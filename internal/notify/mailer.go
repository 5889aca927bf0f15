// Package notify delivers account lifecycle notifications to users.
// Delivery is best-effort: callers enqueue notifications as background jobs
// and a failed send never propagates to the request that triggered it.
package notify

import (
	"context"
	"log/slog"
)

// Mailer sends account lifecycle emails.
type Mailer interface {
	// SendWelcome greets a newly registered user.
	SendWelcome(ctx context.Context, email, name string) error

	// SendCancellation acknowledges an account deletion.
	SendCancellation(ctx context.Context, email, name string) error
}

// LogMailer is a Mailer that only logs. Used in development and tests, and
// as the fallback when no SMTP host is configured.
type LogMailer struct {
	logger *slog.Logger
}

// NewLogMailer creates a new LogMailer.
func NewLogMailer(logger *slog.Logger) *LogMailer {
	if logger == nil {
		logger = slog.Default()
	}
	return &LogMailer{logger: logger.With(slog.String("component", "log_mailer"))}
}

// SendWelcome implements Mailer.
func (m *LogMailer) SendWelcome(ctx context.Context, email, name string) error {
	m.logger.Info("welcome email (not sent, no mailer configured)",
		slog.String("email", email),
		slog.String("name", name))
	return nil
}

// SendCancellation implements Mailer.
func (m *LogMailer) SendCancellation(ctx context.Context, email, name string) error {
	m.logger.Info("cancellation email (not sent, no mailer configured)",
		slog.String("email", email),
		slog.String("name", name))
	return nil
}
