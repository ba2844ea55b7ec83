// Package update implements the admin HTTP handler applying a partial
// update to a catalog package.
package update

import (
	"context"
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi"
	"github.com/go-chi/chi/middleware"
	"github.com/go-chi/render"
	"github.com/go-playground/validator"

	"github.com/hirwa-dev/subscription-manager/internal/http/response"
	"github.com/hirwa-dev/subscription-manager/internal/lib/sl"
	"github.com/hirwa-dev/subscription-manager/internal/models"
	"github.com/hirwa-dev/subscription-manager/internal/storage/repository"
)

// DummyPackagePatch receives a partial package update from a JSON request.
type DummyPackagePatch struct {
	Name         *string  `json:"name,omitempty" validate:"omitempty,min=1,max=100"`
	Description  *string  `json:"description,omitempty"`
	Price        *float64 `json:"price,omitempty" validate:"omitempty,gte=0"`
	DurationDays *int     `json:"duration_days,omitempty" validate:"omitempty,gt=0"`
	Features     []string `json:"features,omitempty"`
}

// Handler serves package update requests.
type Handler struct {
	log      *slog.Logger
	service  Service
	validate *validator.Validate
}

// Service is the catalog business logic behind the package update.
type Service interface {
	Update(ctx context.Context, packageUID string, patch models.PackagePatch) (int, error)
}

// New creates a new Handler with the given logger and service.
func New(log *slog.Logger, service Service) *Handler {
	return &Handler{
		log:      log,
		service:  service,
		validate: validator.New(),
	}
}

// ServeHTTP godoc
// @Summary Update a package
// @Description Applies a partial update to a package, admin only. A name change must stay unique among active packages.
// @Tags Packages
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param uid path string true "Package UID"
// @Param request body DummyPackagePatch true "Fields to change"
// @Success 200 {object} response.Response "Number of updated packages"
// @Failure 400 {object} response.ErrorResponse "Invalid JSON or package name already taken"
// @Failure 401 {object} response.ErrorResponse "Not authenticated"
// @Failure 403 {object} response.ErrorResponse "Admin access required"
// @Failure 404 {object} response.ErrorResponse "Package not found"
// @Failure 422 {object} response.ErrorResponse "Validation failure"
// @Failure 500 {object} response.ErrorResponse "Server error"
// @Router /packages/{uid} [put]
func (h *Handler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	const op = "handlers.catalog.update"
	log := h.log.With(
		slog.String("op", op),
		slog.String("request_id", middleware.GetReqID(r.Context())),
	)

	uid := chi.URLParam(r, "uid")

	var req DummyPackagePatch
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		log.Error("failed to decode request", sl.Err(err))
		w.WriteHeader(http.StatusBadRequest)
		render.JSON(w, r, response.Error("invalid request body"))
		return
	}

	if err := h.validate.Struct(req); err != nil {
		log.Error("validation failed", sl.Err(err))
		w.WriteHeader(http.StatusUnprocessableEntity)
		render.JSON(w, r, response.ValidationError(err.(validator.ValidationErrors)))
		return
	}

	patch := models.PackagePatch{
		Name:         req.Name,
		Description:  req.Description,
		Price:        req.Price,
		DurationDays: req.DurationDays,
		Features:     req.Features,
	}

	count, err := h.service.Update(r.Context(), uid, patch)
	if err != nil {
		switch {
		case errors.Is(err, repository.ErrNotFound):
			log.Warn("package not found", slog.String("uid", uid))
			w.WriteHeader(http.StatusNotFound)
			render.JSON(w, r, response.Error("package not found"))
		case errors.Is(err, repository.ErrDuplicateName):
			log.Warn("package name already taken")
			w.WriteHeader(http.StatusBadRequest)
			render.JSON(w, r, response.Error("package name already taken"))
		default:
			log.Error("failed to update package", sl.Err(err))
			w.WriteHeader(http.StatusInternalServerError)
			render.JSON(w, r, response.Error("could not update package"))
		}
		return
	}

	log.Info("package updated", slog.String("uid", uid))
	render.JSON(w, r, response.StatusOKWithData(map[string]any{
		"updated": count,
	}))
}
