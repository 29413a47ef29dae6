package handler

import (
	"context"
	"log/slog"
	"net/http"
	"time"
)

// Pinger is satisfied by every repository.Store.
type Pinger interface {
	Ping(ctx context.Context) error
}

// HealthHandler reports whether the store is reachable. Load balancers
// only look at the status code.
type HealthHandler struct {
	db     Pinger
	resp   *Responder
	logger *slog.Logger
}

func NewHealthHandler(db Pinger, resp *Responder, logger *slog.Logger) *HealthHandler {
	return &HealthHandler{db: db, resp: resp, logger: logger}
}

// HandleHealth answers 200 when the store responds within two seconds and
// 503 otherwise.
//
// HTTP: GET /healthz
func (h *HealthHandler) HandleHealth(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), 2*time.Second)
	defer cancel()

	if err := h.db.Ping(ctx); err != nil {
		h.logger.Warn("health check failed", slog.String("error", err.Error()))
		h.resp.JSON(w, http.StatusServiceUnavailable, errorEnvelope{Error: "database unavailable"})
		return
	}
	h.resp.Success(w, http.StatusOK, "ok", nil)
}
