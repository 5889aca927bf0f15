package main

import (
	"context"
	"database/sql"
	"fmt"
	"log/slog"
	"time"

	apiMiddleware "github.com/taskdeck/taskdeck-api/internal/api/middleware"
	"github.com/taskdeck/taskdeck-api/internal/config"
	"github.com/taskdeck/taskdeck-api/internal/events"
	"github.com/taskdeck/taskdeck-api/internal/job"
	"github.com/taskdeck/taskdeck-api/internal/notify"
	"github.com/taskdeck/taskdeck-api/internal/platform/imaging"
	"github.com/taskdeck/taskdeck-api/internal/platform/metrics"
	"github.com/taskdeck/taskdeck-api/internal/platform/postgres"
	"github.com/taskdeck/taskdeck-api/internal/service"
	"github.com/taskdeck/taskdeck-api/internal/service/auth"
	"github.com/taskdeck/taskdeck-api/internal/store"
)

// application holds all the shared application dependencies to simplify
// management and ensure proper cleanup on shutdown.
type application struct {
	config *config.Config
	logger *slog.Logger
	db     *sql.DB

	// Stores
	userStore    store.UserStore
	sessionStore store.SessionStore
	taskStore    store.TaskStore
	jobStore     job.Store

	// Services
	tokenService auth.TokenService
	userService  *service.UserService
	taskService  *service.TaskService

	// Background notifications
	mailer       notify.Mailer
	eventEmitter *events.InMemoryEventEmitter
	jobRunner    *job.Runner

	// Observability
	metrics *metrics.Metrics

	authLimiter *apiMiddleware.RateLimiter
}

// newApplication creates a new application instance with all dependencies
// initialized. Core dependencies like configuration, logging, and the
// database connection must be established first.
func newApplication(ctx context.Context, cfg *config.Config, logger *slog.Logger, db *sql.DB) (*application, error) {
	app := &application{
		config:  cfg,
		logger:  logger,
		db:      db,
		metrics: metrics.New(),
	}

	var err error
	app.tokenService, err = auth.NewTokenService(cfg.Auth)
	if err != nil {
		return nil, fmt.Errorf("failed to initialize token service: %w", err)
	}
	logger.Info("Token service initialized",
		"token_lifetime_minutes", cfg.Auth.TokenLifetimeMinutes)

	// Stores
	app.userStore = postgres.NewPostgresUserStore(db, logger)
	app.sessionStore = postgres.NewPostgresSessionStore(db, logger)
	app.taskStore = postgres.NewPostgresTaskStore(db, logger)
	app.jobStore = postgres.NewPostgresJobStore(db, logger)

	// Notification delivery. Without an SMTP host configured,
	// notifications go to the log.
	if cfg.Email.Host != "" {
		app.mailer = notify.NewSMTPMailer(cfg.Email)
	} else {
		logger.Info("No SMTP host configured, logging notifications instead")
		app.mailer = notify.NewLogMailer(logger)
	}

	// Background job runner
	runnerCfg := job.DefaultRunnerConfig()
	if cfg.Worker.Count > 0 {
		runnerCfg.WorkerCount = cfg.Worker.Count
	}
	if cfg.Worker.QueueSize > 0 {
		runnerCfg.QueueSize = cfg.Worker.QueueSize
	}
	factory := job.NewNotificationFactory(app.mailer)
	app.jobRunner = job.NewRunner(app.jobStore, factory, runnerCfg, logger)
	app.jobRunner.SetObserver(app.metrics)

	// Event wiring: services emit, the job package persists and delivers.
	app.eventEmitter = events.NewInMemoryEventEmitter(logger)
	app.eventEmitter.RegisterHandler(job.NewEventHandler(app.jobRunner, factory, logger))

	processor, err := imaging.NewProcessor(cfg.Upload.AvatarSize)
	if err != nil {
		return nil, fmt.Errorf("failed to initialize image processor: %w", err)
	}

	app.userService, err = service.NewUserService(service.UserServiceConfig{
		Users:          app.userStore,
		Sessions:       app.sessionStore,
		Tokens:         app.tokenService,
		Hasher:         auth.NewBcryptHasher(cfg.Auth.BcryptCost),
		Verifier:       auth.NewBcryptVerifier(),
		Emitter:        app.eventEmitter,
		Imaging:        processor,
		MaxAvatarBytes: cfg.Upload.MaxAvatarBytes,
		Logger:         logger,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to create user service: %w", err)
	}

	app.taskService, err = service.NewTaskService(app.taskStore, logger)
	if err != nil {
		return nil, fmt.Errorf("failed to create task service: %w", err)
	}

	return app, nil
}

// serve starts the background runner and the HTTP server, blocking until
// shutdown.
func (app *application) serve(ctx context.Context) error {
	if err := app.jobRunner.Start(); err != nil {
		return fmt.Errorf("failed to start job runner: %w", err)
	}

	return app.startHTTPServer(ctx, app.setupRouter())
}

// cleanup releases application resources during shutdown.
func (app *application) cleanup() {
	app.jobRunner.Stop()
	if app.authLimiter != nil {
		app.authLimiter.Stop()
	}

	// Give in-flight log writes a moment before the process exits.
	time.Sleep(100 * time.Millisecond)
}
