// Package health implements the liveness endpoint reporting the state of
// the database and the token cache.
package health

import (
	"context"
	"log/slog"
	"net/http"
	"time"

	"github.com/go-chi/render"

	"github.com/hirwa-dev/subscription-manager/internal/lib/sl"
)

// Pinger reports whether a backing store answers.
type Pinger interface {
	Ping(ctx context.Context) error
}

// Handler serves health check requests.
type Handler struct {
	log     *slog.Logger
	storage Pinger
	cache   Pinger
}

// New creates a new Handler checking the given stores.
func New(log *slog.Logger, storage, cache Pinger) *Handler {
	return &Handler{log: log, storage: storage, cache: cache}
}

// ServeHTTP godoc
// @Summary Health check
// @Description Reports the state of the service and its backing stores. Returns 503 when either store does not answer.
// @Tags Health
// @Produce json
// @Success 200 {object} map[string]string "All stores healthy"
// @Failure 503 {object} map[string]string "A store is down"
// @Router /health [get]
func (h *Handler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	const op = "handlers.health"

	ctx, cancel := context.WithTimeout(r.Context(), 2*time.Second)
	defer cancel()

	status := "healthy"
	database := "up"
	cache := "up"

	if err := h.storage.Ping(ctx); err != nil {
		h.log.Error("database ping failed", slog.String("op", op), sl.Err(err))
		status = "unhealthy"
		database = "down"
	}
	if err := h.cache.Ping(ctx); err != nil {
		h.log.Error("cache ping failed", slog.String("op", op), sl.Err(err))
		status = "unhealthy"
		cache = "down"
	}

	if status != "healthy" {
		w.WriteHeader(http.StatusServiceUnavailable)
	}
	render.JSON(w, r, map[string]string{
		"status":    status,
		"timestamp": time.Now().UTC().Format(time.RFC3339),
		"database":  database,
		"redis":     cache,
	})
}
