package mocks

import (
	"context"
	"sync"

	"github.com/taskdeck/taskdeck-api/internal/notify"
)

// MockMailer implements notify.Mailer for testing
type MockMailer struct {
	// Function fields for customizable behavior
	SendWelcomeFn      func(ctx context.Context, email, name string) error
	SendCancellationFn func(ctx context.Context, email, name string) error

	// Call tracking for verification
	mu            sync.Mutex
	Welcomes      []string
	Cancellations []string
}

// Ensure MockMailer implements notify.Mailer
var _ notify.Mailer = (*MockMailer)(nil)

// SendWelcome implements the Mailer interface
func (m *MockMailer) SendWelcome(ctx context.Context, email, name string) error {
	m.mu.Lock()
	m.Welcomes = append(m.Welcomes, email)
	m.mu.Unlock()

	if m.SendWelcomeFn != nil {
		return m.SendWelcomeFn(ctx, email, name)
	}
	return nil
}

// SendCancellation implements the Mailer interface
func (m *MockMailer) SendCancellation(ctx context.Context, email, name string) error {
	m.mu.Lock()
	m.Cancellations = append(m.Cancellations, email)
	m.mu.Unlock()

	if m.SendCancellationFn != nil {
		return m.SendCancellationFn(ctx, email, name)
	}
	return nil
}

// WelcomeCount returns how many welcome sends were recorded.
func (m *MockMailer) WelcomeCount() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.Welcomes)
}

// CancellationCount returns how many cancellation sends were recorded.
func (m *MockMailer) CancellationCount() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.Cancellations)
}
