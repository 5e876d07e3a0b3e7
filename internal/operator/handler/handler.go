package handler

import (
	"context"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"

	"votegate/internal/operator"
	"votegate/pkg/platform/httputil"
	"votegate/pkg/requestcontext"
)

// Service defines the interface for operator authentication.
type Service interface {
	Login(ctx context.Context, req operator.LoginRequest) (operator.LoginResponse, error)
}

type Handler struct {
	service Service
	logger  *slog.Logger
}

func New(service Service, logger *slog.Logger) *Handler {
	return &Handler{
		service: service,
		logger:  logger,
	}
}

// Register mounts operator endpoints on the router.
func (h *Handler) Register(r chi.Router) {
	r.Post("/operator/login", h.HandleLogin)
}

// HandleLogin handles POST /operator/login requests.
func (h *Handler) HandleLogin(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	req, ok := httputil.DecodeJSON[operator.LoginRequest](w, r, h.logger)
	if !ok {
		return
	}

	resp, err := h.service.Login(ctx, req)
	if err != nil {
		h.logger.WarnContext(ctx, "operator login failed",
			"request_id", requestcontext.RequestID(ctx),
			"operator", req.Operator,
			"error", err,
		)
		httputil.WriteError(w, err)
		return
	}

	httputil.WriteJSON(w, http.StatusOK, resp)
}
