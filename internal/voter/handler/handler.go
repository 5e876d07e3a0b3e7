package handler

import (
	"context"
	"log/slog"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"

	"votegate/internal/voter"
	"votegate/pkg/platform/httputil"
	"votegate/pkg/requestcontext"
)

// Service defines the interface for voter registration operations.
type Service interface {
	Register(ctx context.Context, req voter.RegisterRequest) (int64, error)
	Stats(ctx context.Context) (voter.Stats, error)
}

// Handler wires voter endpoints to the registration service.
type Handler struct {
	service Service
	logger  *slog.Logger
}

// New constructs a voter handler with its dependencies.
func New(service Service, logger *slog.Logger) *Handler {
	return &Handler{
		service: service,
		logger:  logger,
	}
}

// Register mounts voter endpoints on the router.
func (h *Handler) Register(r chi.Router) {
	r.Post("/voters", h.HandleRegister)
	r.Get("/stats", h.HandleStats)
}

type registerResponse struct {
	ID      int64  `json:"id"`
	Message string `json:"message"`
}

// HandleRegister handles POST /voters requests.
func (h *Handler) HandleRegister(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	requestID := requestcontext.RequestID(ctx)
	start := time.Now()

	req, ok := httputil.DecodeJSON[voter.RegisterRequest](w, r, h.logger)
	if !ok {
		return
	}

	id, err := h.service.Register(ctx, req)
	if err != nil {
		h.logger.ErrorContext(ctx, "voter registration failed",
			"request_id", requestID,
			"voter_id", req.VoterID,
			"error", err,
		)
		httputil.WriteError(w, err)
		return
	}

	h.logger.InfoContext(ctx, "voter registered",
		"request_id", requestID,
		"voter_id", req.VoterID,
		"duration_ms", time.Since(start).Milliseconds(),
	)
	httputil.WriteJSON(w, http.StatusCreated, registerResponse{
		ID:      id,
		Message: "Voter registered successfully",
	})
}

// HandleStats handles GET /stats requests.
func (h *Handler) HandleStats(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	stats, err := h.service.Stats(ctx)
	if err != nil {
		h.logger.ErrorContext(ctx, "stats lookup failed",
			"request_id", requestcontext.RequestID(ctx),
			"error", err,
		)
		httputil.WriteError(w, err)
		return
	}

	httputil.WriteJSON(w, http.StatusOK, stats)
}
