package job

import (
	"context"
	"database/sql"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/taskdeck/taskdeck-api/internal/events"
	"github.com/taskdeck/taskdeck-api/internal/mocks"
)

// memoryJobStore is an in-memory Store for runner tests.
type memoryJobStore struct {
	mu      sync.Mutex
	records map[uuid.UUID]Record
	saveErr error
}

func newMemoryJobStore() *memoryJobStore {
	return &memoryJobStore{records: make(map[uuid.UUID]Record)}
}

func (s *memoryJobStore) SaveJob(_ context.Context, j Job) error {
	if s.saveErr != nil {
		return s.saveErr
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	now := time.Now().UTC()
	s.records[j.ID()] = Record{
		ID:        j.ID(),
		Type:      j.Type(),
		Payload:   j.Payload(),
		Status:    j.Status(),
		CreatedAt: now,
		UpdatedAt: now,
	}
	return nil
}

func (s *memoryJobStore) UpdateJobStatus(_ context.Context, jobID uuid.UUID, status Status, errorMsg string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	rec, ok := s.records[jobID]
	if !ok {
		return nil
	}
	rec.Status = status
	rec.ErrorMessage = errorMsg
	rec.UpdatedAt = time.Now().UTC()
	s.records[jobID] = rec
	return nil
}

func (s *memoryJobStore) GetPendingJobs(_ context.Context) ([]Record, error) {
	return s.byStatus(StatusPending, 0), nil
}

func (s *memoryJobStore) GetProcessingJobs(_ context.Context, olderThan time.Duration) ([]Record, error) {
	return s.byStatus(StatusProcessing, olderThan), nil
}

func (s *memoryJobStore) WithTx(_ *sql.Tx) Store { return s }

func (s *memoryJobStore) byStatus(status Status, olderThan time.Duration) []Record {
	s.mu.Lock()
	defer s.mu.Unlock()
	var out []Record
	cutoff := time.Now().UTC().Add(-olderThan)
	for _, rec := range s.records {
		if rec.Status != status {
			continue
		}
		if olderThan > 0 && rec.UpdatedAt.After(cutoff) {
			continue
		}
		out = append(out, rec)
	}
	return out
}

func (s *memoryJobStore) statusOf(jobID uuid.UUID) Status {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.records[jobID].Status
}

func (s *memoryJobStore) errorOf(jobID uuid.UUID) string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.records[jobID].ErrorMessage
}

func (s *memoryJobStore) seed(rec Record) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.records[rec.ID] = rec
}

// recordingObserver counts job outcomes.
type recordingObserver struct {
	mu       sync.Mutex
	outcomes map[string]int
}

func (o *recordingObserver) ObserveJob(_, outcome string) {
	o.mu.Lock()
	defer o.mu.Unlock()
	if o.outcomes == nil {
		o.outcomes = make(map[string]int)
	}
	o.outcomes[outcome]++
}

func (o *recordingObserver) count(outcome string) int {
	o.mu.Lock()
	defer o.mu.Unlock()
	return o.outcomes[outcome]
}

// testJob is a minimal Job whose behavior the tests control.
type testJob struct {
	id        uuid.UUID
	executeFn func(ctx context.Context) error
}

func newTestJob(executeFn func(ctx context.Context) error) *testJob {
	return &testJob{id: uuid.New(), executeFn: executeFn}
}

func (j *testJob) ID() uuid.UUID   { return j.id }
func (j *testJob) Type() string    { return events.TypeWelcomeEmail }
func (j *testJob) Payload() []byte { return []byte(`{"email":"a@example.com","name":"A"}`) }
func (j *testJob) Status() Status  { return StatusPending }

func (j *testJob) Execute(ctx context.Context) error {
	if j.executeFn != nil {
		return j.executeFn(ctx)
	}
	return nil
}

func testRunnerConfig() RunnerConfig {
	cfg := DefaultRunnerConfig()
	cfg.WorkerCount = 1
	cfg.QueueSize = 10
	return cfg
}

func waitForStatus(t *testing.T, store *memoryJobStore, jobID uuid.UUID, want Status) {
	t.Helper()
	require.Eventually(t, func() bool {
		return store.statusOf(jobID) == want
	}, 2*time.Second, 10*time.Millisecond, "job never reached status %q", want)
}

func TestRunnerProcessesSubmittedJob(t *testing.T) {
	store := newMemoryJobStore()
	runner := NewRunner(store, NewNotificationFactory(&mocks.MockMailer{}), testRunnerConfig(), nil)
	require.NoError(t, runner.Start())
	defer runner.Stop()

	executed := make(chan struct{})
	j := newTestJob(func(context.Context) error {
		close(executed)
		return nil
	})

	require.NoError(t, runner.Submit(context.Background(), j))

	select {
	case <-executed:
	case <-time.After(2 * time.Second):
		t.Fatal("job was never executed")
	}
	waitForStatus(t, store, j.ID(), StatusCompleted)
}

func TestRunnerMarksFailedJob(t *testing.T) {
	store := newMemoryJobStore()
	observer := &recordingObserver{}
	runner := NewRunner(store, NewNotificationFactory(&mocks.MockMailer{}), testRunnerConfig(), nil)
	runner.SetObserver(observer)
	require.NoError(t, runner.Start())
	defer runner.Stop()

	j := newTestJob(func(context.Context) error {
		return errors.New("smtp connection refused")
	})

	require.NoError(t, runner.Submit(context.Background(), j))

	waitForStatus(t, store, j.ID(), StatusFailed)
	assert.Equal(t, "smtp connection refused", store.errorOf(j.ID()))
	assert.Equal(t, 1, observer.count("failed"))
	assert.Zero(t, observer.count("completed"))
}

func TestSubmitPersistsBeforeQueueing(t *testing.T) {
	store := newMemoryJobStore()
	store.saveErr = errors.New("database down")
	runner := NewRunner(store, NewNotificationFactory(&mocks.MockMailer{}), testRunnerConfig(), nil)

	err := runner.Submit(context.Background(), newTestJob(nil))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "failed to save job")
}

func TestSubmitFullQueue(t *testing.T) {
	store := newMemoryJobStore()
	cfg := testRunnerConfig()
	cfg.QueueSize = 1
	// Runner never started, so nothing drains the queue.
	runner := NewRunner(store, NewNotificationFactory(&mocks.MockMailer{}), cfg, nil)

	require.NoError(t, runner.Submit(context.Background(), newTestJob(nil)))

	err := runner.Submit(context.Background(), newTestJob(nil))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "queue is full")
}

func TestSubmitAfterStop(t *testing.T) {
	store := newMemoryJobStore()
	runner := NewRunner(store, NewNotificationFactory(&mocks.MockMailer{}), testRunnerConfig(), nil)
	require.NoError(t, runner.Start())
	runner.Stop()

	// A straggling Submit after shutdown must not panic; the job is
	// persisted and waits for the next startup recovery.
	j := newTestJob(nil)
	require.NotPanics(t, func() {
		require.NoError(t, runner.Submit(context.Background(), j))
	})
	assert.Equal(t, StatusPending, store.statusOf(j.ID()))
}

func TestRunnerRecoversPersistedJobs(t *testing.T) {
	store := newMemoryJobStore()
	mailer := &mocks.MockMailer{}
	payload := []byte(`{"email":"back@example.com","name":"Back"}`)

	// One job never started, one interrupted mid-flight.
	pendingID, processingID := uuid.New(), uuid.New()
	store.seed(Record{ID: pendingID, Type: events.TypeWelcomeEmail, Payload: payload, Status: StatusPending})
	store.seed(Record{ID: processingID, Type: events.TypeCancellationEmail, Payload: payload, Status: StatusProcessing})

	runner := NewRunner(store, NewNotificationFactory(mailer), testRunnerConfig(), nil)
	require.NoError(t, runner.Start())
	defer runner.Stop()

	waitForStatus(t, store, pendingID, StatusCompleted)
	waitForStatus(t, store, processingID, StatusCompleted)

	assert.Equal(t, 1, mailer.WelcomeCount())
	assert.Equal(t, 1, mailer.CancellationCount())
}

func TestRunnerRecoveryFailsUnbuildableJobs(t *testing.T) {
	store := newMemoryJobStore()
	badID := uuid.New()
	store.seed(Record{ID: badID, Type: "unknown_type", Status: StatusPending})

	runner := NewRunner(store, NewNotificationFactory(&mocks.MockMailer{}), testRunnerConfig(), nil)
	require.NoError(t, runner.Start())
	defer runner.Stop()

	waitForStatus(t, store, badID, StatusFailed)
	assert.Contains(t, store.errorOf(badID), "unknown job type")
}

func TestNotificationJob(t *testing.T) {
	t.Parallel()
	ctx := context.Background()
	payload := EmailPayload{Email: "alice@example.com", Name: "Alice"}

	t.Run("welcome job sends welcome email", func(t *testing.T) {
		t.Parallel()
		mailer := &mocks.MockMailer{}
		j, err := NewNotificationJob(events.TypeWelcomeEmail, payload, mailer)
		require.NoError(t, err)

		require.NoError(t, j.Execute(ctx))
		assert.Equal(t, []string{"alice@example.com"}, mailer.Welcomes)
		assert.Empty(t, mailer.Cancellations)
	})

	t.Run("cancellation job sends cancellation email", func(t *testing.T) {
		t.Parallel()
		mailer := &mocks.MockMailer{}
		j, err := NewNotificationJob(events.TypeCancellationEmail, payload, mailer)
		require.NoError(t, err)

		require.NoError(t, j.Execute(ctx))
		assert.Equal(t, []string{"alice@example.com"}, mailer.Cancellations)
	})

	t.Run("unknown type rejected", func(t *testing.T) {
		t.Parallel()
		_, err := NewNotificationJob("password_reset", payload, &mocks.MockMailer{})
		assert.Error(t, err)
	})

	t.Run("factory rebuilds persisted jobs", func(t *testing.T) {
		t.Parallel()
		mailer := &mocks.MockMailer{}
		factory := NewNotificationFactory(mailer)

		id := uuid.New()
		rebuilt, err := factory.Build(id, events.TypeWelcomeEmail, []byte(`{"email":"b@example.com","name":"B"}`))
		require.NoError(t, err)
		assert.Equal(t, id, rebuilt.ID())

		require.NoError(t, rebuilt.Execute(ctx))
		assert.Equal(t, []string{"b@example.com"}, mailer.Welcomes)

		_, err = factory.Build(uuid.New(), "unknown_type", nil)
		assert.Error(t, err)
	})
}

func TestEventHandler(t *testing.T) {
	store := newMemoryJobStore()
	mailer := &mocks.MockMailer{}
	factory := NewNotificationFactory(mailer)
	runner := NewRunner(store, factory, testRunnerConfig(), nil)
	require.NoError(t, runner.Start())
	defer runner.Stop()

	handler := NewEventHandler(runner, factory, nil)

	event, err := events.NewEvent(events.TypeWelcomeEmail, EmailPayload{Email: "new@example.com", Name: "New"})
	require.NoError(t, err)

	require.NoError(t, handler.HandleEvent(context.Background(), event))

	require.Eventually(t, func() bool {
		return mailer.WelcomeCount() == 1
	}, 2*time.Second, 10*time.Millisecond)
}
