// Package search implements the HTTP handler running a substring search
// over subscription records.
package search

import (
	"context"
	"log/slog"
	"net/http"
	"strconv"
	"strings"

	"github.com/go-chi/chi/middleware"
	"github.com/go-chi/render"

	"github.com/hirwa-dev/subscription-manager/internal/http/response"
	"github.com/hirwa-dev/subscription-manager/internal/lib/sl"
	"github.com/hirwa-dev/subscription-manager/internal/models"
)

// Handler serves subscription search requests.
type Handler struct {
	log     *slog.Logger
	service Service
}

// Service is the business logic behind the search.
type Service interface {
	Search(ctx context.Context, q string, page, perPage int) (*models.SubscriptionPage, error)
}

// New creates a new Handler with the given logger and service.
func New(log *slog.Logger, service Service) *Handler {
	return &Handler{log: log, service: service}
}

// ServeHTTP godoc
// @Summary Search subscription records
// @Description Case-insensitive substring match over phone number, email, child name, parent name, area and location of active records.
// @Tags Subscriptions
// @Produce json
// @Security BearerAuth
// @Param q query string true "Search term"
// @Param page query int false "Page number, starting at 1"
// @Param per_page query int false "Page size, at most 100"
// @Success 200 {object} response.Response "Page of matching records"
// @Failure 400 {object} response.ErrorResponse "Missing search term"
// @Failure 401 {object} response.ErrorResponse "Not authenticated"
// @Failure 500 {object} response.ErrorResponse "Server error"
// @Router /subscriptions/search [get]
func (h *Handler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	const op = "handlers.subscription.search"
	log := h.log.With(
		slog.String("op", op),
		slog.String("request_id", middleware.GetReqID(r.Context())),
	)

	q := strings.TrimSpace(r.URL.Query().Get("q"))
	if q == "" {
		log.Warn("missing search term")
		w.WriteHeader(http.StatusBadRequest)
		render.JSON(w, r, response.Error("query parameter q is required"))
		return
	}
	page, _ := strconv.Atoi(r.URL.Query().Get("page"))
	perPage, _ := strconv.Atoi(r.URL.Query().Get("per_page"))

	result, err := h.service.Search(r.Context(), q, page, perPage)
	if err != nil {
		log.Error("failed to search subscriptions", sl.Err(err))
		w.WriteHeader(http.StatusInternalServerError)
		render.JSON(w, r, response.Error("could not search subscriptions"))
		return
	}

	render.JSON(w, r, response.StatusOKWithData(result))
}
