package handler

import (
	"context"
	"log/slog"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"

	"votegate/internal/verification"
	"votegate/pkg/platform/httputil"
	"votegate/pkg/requestcontext"
)

// Service defines the interface for the verification flow.
type Service interface {
	Search(ctx context.Context, voterID string) (verification.SearchResult, error)
	Verify(ctx context.Context) (verification.VerifyResult, error)
	State() verification.State
}

// Handler wires verification endpoints to the flow.
type Handler struct {
	service Service
	logger  *slog.Logger
}

// New constructs a verification handler with its dependencies.
func New(service Service, logger *slog.Logger) *Handler {
	return &Handler{
		service: service,
		logger:  logger,
	}
}

// Register mounts verification endpoints on the router.
func (h *Handler) Register(r chi.Router) {
	r.Post("/verification/search", h.HandleSearch)
	r.Post("/verification/verify", h.HandleVerify)
	r.Get("/verification/state", h.HandleState)
}

type searchRequest struct {
	VoterID string `json:"voter_id"`
}

// HandleSearch handles POST /verification/search requests.
func (h *Handler) HandleSearch(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	requestID := requestcontext.RequestID(ctx)

	req, ok := httputil.DecodeJSON[searchRequest](w, r, h.logger)
	if !ok {
		return
	}

	result, err := h.service.Search(ctx, req.VoterID)
	if err != nil {
		h.logger.WarnContext(ctx, "voter search rejected",
			"request_id", requestID,
			"voter_id", req.VoterID,
			"error", err,
		)
		httputil.WriteError(w, err)
		return
	}

	h.logger.InfoContext(ctx, "voter search completed",
		"request_id", requestID,
		"voter_id", req.VoterID,
		"outcome", result.Outcome,
	)
	httputil.WriteJSON(w, http.StatusOK, result)
}

// HandleVerify handles POST /verification/verify requests. The call blocks
// while the biometric check runs, up to the flow's configured timeout.
func (h *Handler) HandleVerify(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	requestID := requestcontext.RequestID(ctx)
	start := time.Now()

	result, err := h.service.Verify(ctx)
	if err != nil {
		h.logger.WarnContext(ctx, "verification rejected",
			"request_id", requestID,
			"error", err,
		)
		httputil.WriteError(w, err)
		return
	}

	h.logger.InfoContext(ctx, "verification completed",
		"request_id", requestID,
		"outcome", result.Outcome,
		"duration_ms", time.Since(start).Milliseconds(),
	)
	httputil.WriteJSON(w, http.StatusOK, result)
}

type stateResponse struct {
	State verification.State `json:"state"`
}

// HandleState handles GET /verification/state requests.
func (h *Handler) HandleState(w http.ResponseWriter, r *http.Request) {
	httputil.WriteJSON(w, http.StatusOK, stateResponse{State: h.service.State()})
}
