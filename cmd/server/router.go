package main

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"

	"github.com/taskdeck/taskdeck-api/internal/api"
	apiMiddleware "github.com/taskdeck/taskdeck-api/internal/api/middleware"
)

// setupRouter creates and configures the application router with all routes
// and middleware.
func (app *application) setupRouter() http.Handler {
	r := chi.NewRouter()

	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(middleware.Recoverer)
	r.Use(apiMiddleware.TraceMiddleware)
	r.Use(apiMiddleware.MetricsMiddleware(app.metrics))

	userHandler := api.NewUserHandler(app.userService, app.logger)
	avatarHandler := api.NewAvatarHandler(app.userService, app.config.Upload.MaxAvatarBytes, app.logger)
	taskHandler := api.NewTaskHandler(app.taskService, app.logger)

	authMiddleware := apiMiddleware.NewAuthMiddleware(
		app.tokenService,
		app.userStore,
		app.sessionStore,
	)

	// Credential endpoints are the brute-force surface; throttle per IP.
	// Stopped in cleanup.
	app.authLimiter = apiMiddleware.NewRateLimiter(5, 10)

	// Public routes
	r.Group(func(r chi.Router) {
		r.Use(app.authLimiter.Limit)
		r.Post("/users", userHandler.SignUp)
		r.Post("/users/login", userHandler.LogIn)
	})
	r.Get("/users/{id}/avatar", avatarHandler.Serve)

	// Protected routes
	r.Group(func(r chi.Router) {
		r.Use(authMiddleware.Authenticate)

		r.Post("/users/logout", userHandler.LogOut)
		r.Post("/users/logoutAll", userHandler.LogOutAll)

		r.Get("/users/me", userHandler.GetMe)
		r.Patch("/users/me", userHandler.UpdateMe)
		r.Delete("/users/me", userHandler.DeleteMe)

		r.Post("/users/me/avatar", avatarHandler.Upload)
		r.Delete("/users/me/avatar", avatarHandler.Delete)

		r.Post("/tasks", taskHandler.Create)
		r.Get("/tasks", taskHandler.List)
		r.Get("/tasks/{id}", taskHandler.Get)
		r.Patch("/tasks/{id}", taskHandler.Update)
		r.Delete("/tasks/{id}", taskHandler.Delete)
	})

	// Operational endpoints
	r.Method(http.MethodGet, "/metrics", app.metrics.Handler())
	r.Get("/health", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
		if _, err := w.Write([]byte("OK")); err != nil {
			app.logger.Error("Failed to write health check response", "error", err)
		}
	})

	return r
}
