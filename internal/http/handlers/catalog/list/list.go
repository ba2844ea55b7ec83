// Package list implements the HTTP handler returning the package catalog.
package list

import (
	"context"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/middleware"
	"github.com/go-chi/render"

	"github.com/hirwa-dev/subscription-manager/internal/http/middlewarectx"
	"github.com/hirwa-dev/subscription-manager/internal/http/response"
	"github.com/hirwa-dev/subscription-manager/internal/lib/sl"
	"github.com/hirwa-dev/subscription-manager/internal/models"
)

// Handler serves package listing requests.
type Handler struct {
	log     *slog.Logger
	service Service
}

// Service is the catalog business logic behind the package list.
type Service interface {
	List(ctx context.Context, includeInactive bool) ([]*models.Package, error)
}

// New creates a new Handler with the given logger and service.
func New(log *slog.Logger, service Service) *Handler {
	return &Handler{log: log, service: service}
}

// ServeHTTP godoc
// @Summary List packages
// @Description Returns the catalog sorted by name. Admins may include soft-deleted packages with include_inactive=true.
// @Tags Packages
// @Produce json
// @Security BearerAuth
// @Param include_inactive query bool false "Include soft-deleted packages, admin only"
// @Success 200 {object} response.Response "Packages"
// @Failure 401 {object} response.ErrorResponse "Not authenticated"
// @Failure 500 {object} response.ErrorResponse "Server error"
// @Router /packages [get]
func (h *Handler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	const op = "handlers.catalog.list"
	log := h.log.With(
		slog.String("op", op),
		slog.String("request_id", middleware.GetReqID(r.Context())),
	)

	includeInactive := r.URL.Query().Get("include_inactive") == "true"
	if includeInactive {
		role, _ := r.Context().Value(middlewarectx.Role).(string)
		if role != "admin" {
			includeInactive = false
		}
	}

	packages, err := h.service.List(r.Context(), includeInactive)
	if err != nil {
		log.Error("failed to list packages", sl.Err(err))
		w.WriteHeader(http.StatusInternalServerError)
		render.JSON(w, r, response.Error("could not list packages"))
		return
	}

	render.JSON(w, r, response.StatusOKWithData(packages))
}
