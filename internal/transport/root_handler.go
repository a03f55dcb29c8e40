package transport

import (
	"context"
	"net/http"

	"storefront/internal/middleware"

	"github.com/go-chi/chi/v5"
)

// HealthChecker reports the health of a backing dependency
type HealthChecker interface {
	Health(ctx context.Context) map[string]string
}

// RootHandler serves the welcome document and the health probe
type RootHandler struct {
	health   HealthChecker
	statuses []string
}

// NewRootHandler creates a new RootHandler. health may be nil.
func NewRootHandler(health HealthChecker, statuses []string) *RootHandler {
	return &RootHandler{health: health, statuses: statuses}
}

// RegisterRoutes registers the root and health routes
func (h *RootHandler) RegisterRoutes(r chi.Router) {
	r.Get("/", h.Welcome)
	r.Get("/health", h.Health)
}

func (h *RootHandler) Welcome(w http.ResponseWriter, r *http.Request) {
	middleware.RespondWithJSON(w, http.StatusOK, map[string]any{
		"message":        "Welcome to the storefront API",
		"resources":      []string{"/products", "/customers", "/orders"},
		"order_statuses": h.statuses,
	})
}

// Health answers 503 when the database is down
func (h *RootHandler) Health(w http.ResponseWriter, r *http.Request) {
	if h.health == nil {
		middleware.RespondWithJSON(w, http.StatusOK, map[string]string{"status": "ok"})
		return
	}

	stats := h.health.Health(r.Context())
	status := http.StatusOK
	if stats["status"] != "up" {
		status = http.StatusServiceUnavailable
	}
	middleware.RespondWithJSON(w, status, stats)
}
