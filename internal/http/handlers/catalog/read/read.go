// Package read implements the HTTP handler returning a single package by
// UID.
package read

import (
	"context"
	"errors"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi"
	"github.com/go-chi/chi/middleware"
	"github.com/go-chi/render"

	"github.com/hirwa-dev/subscription-manager/internal/http/response"
	"github.com/hirwa-dev/subscription-manager/internal/lib/sl"
	"github.com/hirwa-dev/subscription-manager/internal/models"
	"github.com/hirwa-dev/subscription-manager/internal/storage/repository"
)

// Handler serves single-package read requests.
type Handler struct {
	log     *slog.Logger
	service Service
}

// Service is the catalog business logic behind the package read.
type Service interface {
	Get(ctx context.Context, packageUID string) (*models.Package, error)
}

// New creates a new Handler with the given logger and service.
func New(log *slog.Logger, service Service) *Handler {
	return &Handler{log: log, service: service}
}

// ServeHTTP godoc
// @Summary Get a package
// @Description Returns one package by UID, soft-deleted packages included.
// @Tags Packages
// @Produce json
// @Security BearerAuth
// @Param uid path string true "Package UID"
// @Success 200 {object} response.Response "Package"
// @Failure 401 {object} response.ErrorResponse "Not authenticated"
// @Failure 404 {object} response.ErrorResponse "Package not found"
// @Failure 500 {object} response.ErrorResponse "Server error"
// @Router /packages/{uid} [get]
func (h *Handler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	const op = "handlers.catalog.read"
	log := h.log.With(
		slog.String("op", op),
		slog.String("request_id", middleware.GetReqID(r.Context())),
	)

	uid := chi.URLParam(r, "uid")

	pkg, err := h.service.Get(r.Context(), uid)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			log.Warn("package not found", slog.String("uid", uid))
			w.WriteHeader(http.StatusNotFound)
			render.JSON(w, r, response.Error("package not found"))
			return
		}
		log.Error("failed to read package", sl.Err(err))
		w.WriteHeader(http.StatusInternalServerError)
		render.JSON(w, r, response.Error("could not read package"))
		return
	}

	render.JSON(w, r, response.StatusOKWithData(pkg))
}
