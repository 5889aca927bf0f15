package api

import (
	"errors"
	"io"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"

	"github.com/taskdeck/taskdeck-api/internal/api/middleware"
	"github.com/taskdeck/taskdeck-api/internal/api/shared"
	"github.com/taskdeck/taskdeck-api/internal/platform/imaging"
	"github.com/taskdeck/taskdeck-api/internal/platform/logger"
	"github.com/taskdeck/taskdeck-api/internal/service"
)

// avatarFormField is the multipart form field carrying the upload.
const avatarFormField = "avatar"

// AvatarHandler handles avatar upload, deletion, and public serving.
type AvatarHandler struct {
	users          *service.UserService
	maxUploadBytes int64
	logger         *slog.Logger
}

// NewAvatarHandler creates a new AvatarHandler. maxUploadBytes caps the
// accepted request body size.
func NewAvatarHandler(users *service.UserService, maxUploadBytes int64, logger *slog.Logger) *AvatarHandler {
	if users == nil {
		// ALLOW-PANIC: Constructor enforcing required dependency
		panic("user service cannot be nil for AvatarHandler")
	}
	if logger == nil {
		logger = slog.Default()
	}

	return &AvatarHandler{
		users:          users,
		maxUploadBytes: maxUploadBytes,
		logger:         logger.With(slog.String("component", "avatar_handler")),
	}
}

// Upload handles POST /users/me/avatar requests. The image arrives as a
// multipart form file; it is normalized to a fixed-size PNG before storage.
func (h *AvatarHandler) Upload(w http.ResponseWriter, r *http.Request) {
	log := logger.FromContextOrDefault(r.Context(), h.logger)

	user, ok := middleware.GetUser(r)
	if !ok {
		shared.RespondWithError(w, r, http.StatusUnauthorized, "Authentication required")
		return
	}

	// Cap the whole body; a little headroom over the file limit covers
	// the multipart framing.
	r.Body = http.MaxBytesReader(w, r.Body, h.maxUploadBytes+4096)

	file, header, err := r.FormFile(avatarFormField)
	if err != nil {
		var maxBytesErr *http.MaxBytesError
		if errors.As(err, &maxBytesErr) {
			shared.RespondWithError(w, r, http.StatusBadRequest, "Avatar exceeds the maximum allowed size")
			return
		}
		shared.RespondWithError(w, r, http.StatusBadRequest, "Avatar file is required")
		return
	}
	defer func() { _ = file.Close() }()

	if !imaging.AllowedExtension(header.Filename) {
		shared.RespondWithError(w, r, http.StatusBadRequest, "Avatar must be a JPEG or PNG image")
		return
	}

	data, err := io.ReadAll(io.LimitReader(file, h.maxUploadBytes+1))
	if err != nil {
		log.Error("failed to read avatar upload", slog.String("error", err.Error()))
		shared.RespondWithError(w, r, http.StatusInternalServerError, "Failed to read avatar")
		return
	}
	if int64(len(data)) > h.maxUploadBytes {
		shared.RespondWithError(w, r, http.StatusBadRequest, "Avatar exceeds the maximum allowed size")
		return
	}

	if err := h.users.SetAvatar(r.Context(), user.ID, data); err != nil {
		shared.RespondWithErrorAndLog(w, r, MapErrorToStatusCode(err), GetSafeErrorMessage(err), err)
		return
	}

	log.Info("avatar uploaded",
		slog.String("user_id", user.ID.String()),
		slog.Int("size_bytes", len(data)))
	w.WriteHeader(http.StatusOK)
}

// Delete handles DELETE /users/me/avatar requests. Deleting an absent
// avatar succeeds.
func (h *AvatarHandler) Delete(w http.ResponseWriter, r *http.Request) {
	user, ok := middleware.GetUser(r)
	if !ok {
		shared.RespondWithError(w, r, http.StatusUnauthorized, "Authentication required")
		return
	}

	if err := h.users.RemoveAvatar(r.Context(), user.ID); err != nil {
		shared.RespondWithErrorAndLog(w, r, MapErrorToStatusCode(err), GetSafeErrorMessage(err), err)
		return
	}

	w.WriteHeader(http.StatusOK)
}

// Serve handles GET /users/{id}/avatar requests. Avatars are public:
// anyone holding a user ID may fetch that user's picture.
func (h *AvatarHandler) Serve(w http.ResponseWriter, r *http.Request) {
	log := logger.FromContextOrDefault(r.Context(), h.logger)

	pathID := chi.URLParam(r, "id")
	userID, err := uuid.Parse(pathID)
	if err != nil {
		shared.RespondWithError(w, r, http.StatusBadRequest, "Invalid ID format")
		return
	}

	avatar, err := h.users.GetAvatar(r.Context(), userID)
	if err != nil {
		shared.RespondWithErrorAndLog(w, r, MapErrorToStatusCode(err), GetSafeErrorMessage(err), err)
		return
	}

	w.Header().Set("Content-Type", "image/png")
	w.WriteHeader(http.StatusOK)
	if _, err := w.Write(avatar); err != nil {
		log.Error("failed to write avatar response", slog.String("error", err.Error()))
	}
}
