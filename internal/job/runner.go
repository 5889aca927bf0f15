package job

import (
	"context"
	"fmt"
	"log/slog"
	"sync"
	"time"
)

// RunnerConfig holds configuration for the job runner
type RunnerConfig struct {
	// WorkerCount determines how many concurrent workers process jobs
	WorkerCount int

	// QueueSize determines the buffer size for the in-memory job queue
	QueueSize int

	// StuckJobAge defines how long a job can be in processing state
	// before it's considered stuck and reset
	StuckJobAge time.Duration

	// StuckJobCheckInterval defines how often to check for stuck jobs.
	// If zero, defaults to 5 minutes.
	StuckJobCheckInterval time.Duration
}

// DefaultRunnerConfig returns a RunnerConfig with reasonable defaults
func DefaultRunnerConfig() RunnerConfig {
	return RunnerConfig{
		WorkerCount:           2,
		QueueSize:             100,
		StuckJobAge:           30 * time.Minute,
		StuckJobCheckInterval: 5 * time.Minute,
	}
}

// Observer receives the outcome of every processed job. The server wires
// the Prometheus collectors in through this.
type Observer interface {
	ObserveJob(jobType, outcome string)
}

// Runner manages background job processing
type Runner struct {
	store      Store
	factory    Factory
	jobChan    chan Job
	ctx        context.Context
	cancelFunc context.CancelFunc
	wg         sync.WaitGroup
	config     RunnerConfig
	observer   Observer
	logger     *slog.Logger
}

// NewRunner creates a new Runner. The factory rehydrates jobs recovered
// from the store on startup.
func NewRunner(store Store, factory Factory, config RunnerConfig, logger *slog.Logger) *Runner {
	if config.StuckJobCheckInterval == 0 {
		config.StuckJobCheckInterval = 5 * time.Minute
	}
	if logger == nil {
		logger = slog.Default()
	}

	ctx, cancel := context.WithCancel(context.Background())

	return &Runner{
		store:      store,
		factory:    factory,
		jobChan:    make(chan Job, config.QueueSize),
		ctx:        ctx,
		cancelFunc: cancel,
		config:     config,
		logger:     logger.With(slog.String("component", "job_runner")),
	}
}

// SetObserver attaches an outcome observer. Must be called before Start.
func (r *Runner) SetObserver(o Observer) {
	r.observer = o
}

func (r *Runner) observe(jobType, outcome string) {
	if r.observer != nil {
		r.observer.ObserveJob(jobType, outcome)
	}
}

// Submit persists a new job and adds it to the queue.
func (r *Runner) Submit(ctx context.Context, j Job) error {
	// Save the job first so a crash between here and execution loses nothing.
	if err := r.store.SaveJob(ctx, j); err != nil {
		return fmt.Errorf("failed to save job: %w", err)
	}

	select {
	case r.jobChan <- j:
		return nil
	default:
		// Queue is full; the job stays pending and is picked up on the next
		// recovery pass.
		return fmt.Errorf("job queue is full, try again later")
	}
}

// Start recovers unfinished jobs and begins processing.
func (r *Runner) Start() error {
	if err := r.recover(); err != nil {
		return fmt.Errorf("failed to recover jobs: %w", err)
	}

	for i := 0; i < r.config.WorkerCount; i++ {
		r.wg.Add(1)
		go r.worker(i)
	}

	r.wg.Add(1)
	go r.stuckJobMonitor()

	return nil
}

// Stop gracefully shuts down the job runner. The job channel is left open
// so a straggling Submit cannot panic; its job stays pending for the next
// startup recovery.
func (r *Runner) Stop() {
	r.cancelFunc()
	r.wg.Wait()
}

// recover loads unfinished jobs from the store and requeues them.
func (r *Runner) recover() error {
	ctx := context.Background()

	pending, err := r.store.GetPendingJobs(ctx)
	if err != nil {
		return fmt.Errorf("failed to get pending jobs: %w", err)
	}

	// Jobs left in "processing" were interrupted by a crash.
	processing, err := r.store.GetProcessingJobs(ctx, 0)
	if err != nil {
		return fmt.Errorf("failed to get processing jobs: %w", err)
	}

	r.logger.Info("recovering unfinished jobs",
		"pending_count", len(pending),
		"processing_count", len(processing))

	for _, rec := range pending {
		r.requeue(ctx, rec, false)
	}
	for _, rec := range processing {
		r.requeue(ctx, rec, true)
	}

	return nil
}

// requeue rehydrates a stored record and puts it back on the queue,
// optionally resetting its status to pending first.
func (r *Runner) requeue(ctx context.Context, rec Record, resetStatus bool) {
	j, err := r.factory.Build(rec.ID, rec.Type, rec.Payload)
	if err != nil {
		r.logger.Error("failed to rebuild recovered job",
			"job_id", rec.ID,
			"job_type", rec.Type,
			"error", err)
		if updateErr := r.store.UpdateJobStatus(ctx, rec.ID, StatusFailed, err.Error()); updateErr != nil {
			r.logger.Error("failed to mark unbuildable job as failed",
				"job_id", rec.ID,
				"error", updateErr)
		}
		return
	}

	if resetStatus {
		if err := r.store.UpdateJobStatus(ctx, rec.ID, StatusPending, "reset after recovery"); err != nil {
			r.logger.Error("failed to reset job status",
				"job_id", rec.ID,
				"job_type", rec.Type,
				"error", err)
			return
		}
	}

	select {
	case r.jobChan <- j:
	default:
		r.logger.Error("failed to requeue job, queue is full",
			"job_id", rec.ID,
			"job_type", rec.Type)
	}
}

// worker processes jobs from the queue
func (r *Runner) worker(id int) {
	defer r.wg.Done()

	r.logger.Debug("starting worker", "worker_id", id)

	for {
		select {
		case <-r.ctx.Done():
			r.logger.Debug("stopping worker", "worker_id", id)
			return

		case j, ok := <-r.jobChan:
			if !ok {
				return
			}
			r.processJob(j, id)
		}
	}
}

// processJob handles execution of a single job
func (r *Runner) processJob(j Job, workerID int) {
	ctx := context.Background()
	log := r.logger.With(
		"job_id", j.ID(),
		"job_type", j.Type(),
		"worker_id", workerID,
	)

	if err := r.store.UpdateJobStatus(ctx, j.ID(), StatusProcessing, ""); err != nil {
		log.Error("failed to update job status to processing", "error", err)
		return
	}

	log.Info("processing job")

	if err := j.Execute(ctx); err != nil {
		log.Error("job execution failed", "error", err)
		r.observe(j.Type(), "failed")
		if updateErr := r.store.UpdateJobStatus(ctx, j.ID(), StatusFailed, err.Error()); updateErr != nil {
			log.Error("failed to update job status to failed", "error", updateErr)
		}
		return
	}

	log.Info("job completed")
	r.observe(j.Type(), "completed")
	if err := r.store.UpdateJobStatus(ctx, j.ID(), StatusCompleted, ""); err != nil {
		log.Error("failed to update job status to completed", "error", err)
	}
}

// stuckJobMonitor periodically checks for jobs that have been in
// "processing" state for too long and resets them.
func (r *Runner) stuckJobMonitor() {
	defer r.wg.Done()

	ticker := time.NewTicker(r.config.StuckJobCheckInterval)
	defer ticker.Stop()

	for {
		select {
		case <-r.ctx.Done():
			return

		case <-ticker.C:
			ctx := context.Background()

			stuck, err := r.store.GetProcessingJobs(ctx, r.config.StuckJobAge)
			if err != nil {
				r.logger.Error("failed to check for stuck jobs", "error", err)
				continue
			}

			if len(stuck) > 0 {
				r.logger.Info("found stuck jobs", "count", len(stuck))
				for _, rec := range stuck {
					r.requeue(ctx, rec, true)
				}
			}
		}
	}
}
