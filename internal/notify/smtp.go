package notify

import (
	"context"
	"fmt"
	"net/smtp"

	"github.com/taskdeck/taskdeck-api/internal/config"
)

// SMTPMailer sends notifications over SMTP. It is a thin adapter; retry and
// failure policy belong to the background job runner that invokes it.
type SMTPMailer struct {
	addr string
	from string
	auth smtp.Auth
}

// NewSMTPMailer creates a mailer from the email configuration.
func NewSMTPMailer(cfg config.EmailConfig) *SMTPMailer {
	var auth smtp.Auth
	if cfg.User != "" {
		auth = smtp.PlainAuth("", cfg.User, cfg.Pass, cfg.Host)
	}

	return &SMTPMailer{
		addr: fmt.Sprintf("%s:%d", cfg.Host, cfg.Port),
		from: cfg.From,
		auth: auth,
	}
}

// SendWelcome implements Mailer.
func (m *SMTPMailer) SendWelcome(ctx context.Context, email, name string) error {
	return m.send(email, "Welcome to the app!", fmt.Sprintf("Hi, %s!", name))
}

// SendCancellation implements Mailer.
func (m *SMTPMailer) SendCancellation(ctx context.Context, email, name string) error {
	return m.send(email, "Sorry to see you go", fmt.Sprintf("Bye, %s!", name))
}

func (m *SMTPMailer) send(to, subject, body string) error {
	msg := fmt.Sprintf("From: %s\r\nTo: %s\r\nSubject: %s\r\n\r\n%s\r\n",
		m.from, to, subject, body)

	if err := smtp.SendMail(m.addr, m.auth, m.from, []string{to}, []byte(msg)); err != nil {
		return fmt.Errorf("failed to send mail to %s: %w", to, err)
	}
	return nil
}
