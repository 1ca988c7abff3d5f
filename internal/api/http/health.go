package apihttp

import (
	"context"
	"net/http"
	"time"
)

// Pinger reports storage reachability.
type Pinger interface {
	PingContext(ctx context.Context) error
}

// HealthHandler serves liveness checks.
type HealthHandler struct {
	db Pinger
}

// NewHealthHandler constructs a HealthHandler. db may be nil in memory mode.
func NewHealthHandler(db Pinger) *HealthHandler {
	return &HealthHandler{db: db}
}

// ServeHTTP answers {"status":"ok"} or 503 when the database is unreachable.
func (h *HealthHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	if h != nil && h.db != nil {
		ctx, cancel := context.WithTimeout(r.Context(), 2*time.Second)
		defer cancel()
		if err := h.db.PingContext(ctx); err != nil {
			WriteJSON(w, http.StatusServiceUnavailable, map[string]string{"status": "unavailable"})
			return
		}
	}
	WriteJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}
