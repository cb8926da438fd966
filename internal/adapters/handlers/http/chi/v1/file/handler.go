package file

import (
	"fileshare/internal/adapters/handlers/http/auth"
	"fileshare/internal/config"
	"fileshare/internal/core/port"
	"log/slog"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
)

// HandlerV1 is the handler for v1 files routes
type HandlerV1 struct {
	uploadService port.UploadService
	accessService port.AccessService
	auth          *auth.Middleware
	cfg           config.FileUploadConfig
	timeout       time.Duration
	logger        *slog.Logger
}

// NewFileHandlerV1 creates HandlerV1
func NewFileHandlerV1(uploadService port.UploadService, accessService port.AccessService, authMiddleware *auth.Middleware, cfg config.FileUploadConfig, timeout time.Duration, logger *slog.Logger) *HandlerV1 {
	return &HandlerV1{
		uploadService: uploadService,
		accessService: accessService,
		auth:          authMiddleware,
		cfg:           cfg,
		timeout:       timeout,
		logger:        logger,
	}
}

// Routes exposes handler routes. Downloads stream for as long as the client reads,
// every other route is bounded by the request timeout.
func (h *HandlerV1) Routes() chi.Router {
	router := chi.NewRouter()

	router.Group(func(r chi.Router) {
		r.Use(h.auth.Required)
		r.Use(middleware.Timeout(h.timeout))

		r.Post("/uploads", h.StartUploadV1)
		r.Get("/uploads/{sessionID}", h.GetUploadV1)
		r.Put("/uploads/{sessionID}/chunks/{index}", h.UploadChunkV1)
		r.Post("/uploads/{sessionID}/complete", h.CompleteUploadV1)
		r.Delete("/uploads/{sessionID}", h.CancelUploadV1)

		r.Post("/", h.UploadDirectV1)
		r.Get("/", h.ListFilesV1)
		r.Post("/{fileID}/visibility", h.ToggleVisibilityV1)
		r.Delete("/{fileID}", h.DeleteFileV1)
	})

	router.Group(func(r chi.Router) {
		r.Use(h.auth.Optional)

		r.Get("/{fileID}/download", h.DownloadFileV1)
		r.With(middleware.Timeout(h.timeout)).Get("/{fileID}/preview", h.PreviewFileV1)
	})

	return router
}
