// Package update implements the HTTP handler applying a partial update to
// a subscription record.
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

	"github.com/hirwa-dev/subscription-manager/internal/geography"
	"github.com/hirwa-dev/subscription-manager/internal/http/response"
	"github.com/hirwa-dev/subscription-manager/internal/lib/sl"
	"github.com/hirwa-dev/subscription-manager/internal/models"
	services "github.com/hirwa-dev/subscription-manager/internal/services/subscription"
	"github.com/hirwa-dev/subscription-manager/internal/storage/repository"
)

// Handler serves subscription update requests.
type Handler struct {
	log      *slog.Logger
	service  Service
	validate *validator.Validate
}

// Service is the business logic behind the record update.
type Service interface {
	Update(ctx context.Context, uid string, patch models.DummySubscriptionPatch) (int, error)
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
// @Summary Update a subscription record
// @Description Applies a partial update. Geography fields are re-validated against the stored record; a date or package change re-derives the renewal date.
// @Tags Subscriptions
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param uid path string true "Record UID"
// @Param request body models.DummySubscriptionPatch true "Fields to change"
// @Success 200 {object} response.Response "Number of updated records"
// @Failure 400 {object} response.ErrorResponse "Invalid JSON or field value"
// @Failure 401 {object} response.ErrorResponse "Not authenticated"
// @Failure 404 {object} response.ErrorResponse "Record not found"
// @Failure 422 {object} response.ErrorResponse "Validation failure"
// @Failure 500 {object} response.ErrorResponse "Server error"
// @Router /subscriptions/{uid} [put]
func (h *Handler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	const op = "handlers.subscription.update"
	log := h.log.With(
		slog.String("op", op),
		slog.String("request_id", middleware.GetReqID(r.Context())),
	)

	uid := chi.URLParam(r, "uid")

	var patch models.DummySubscriptionPatch
	if err := json.NewDecoder(r.Body).Decode(&patch); err != nil {
		log.Error("failed to decode request", sl.Err(err))
		w.WriteHeader(http.StatusBadRequest)
		render.JSON(w, r, response.Error("invalid request body"))
		return
	}

	if err := h.validate.Struct(patch); err != nil {
		log.Error("validation failed", sl.Err(err))
		w.WriteHeader(http.StatusUnprocessableEntity)
		render.JSON(w, r, response.ValidationError(err.(validator.ValidationErrors)))
		return
	}

	count, err := h.service.Update(r.Context(), uid, patch)
	if err != nil {
		var locErr *geography.LocationError
		switch {
		case errors.Is(err, repository.ErrNotFound):
			log.Warn("subscription not found", slog.String("uid", uid))
			w.WriteHeader(http.StatusNotFound)
			render.JSON(w, r, response.Error("subscription not found"))
		case errors.Is(err, services.ErrEmptyPatch),
			errors.Is(err, services.ErrInvalidDate),
			errors.Is(err, services.ErrInvalidAgreement),
			errors.Is(err, services.ErrInvalidPaymentStatus),
			errors.As(err, &locErr):
			log.Warn("rejected update", sl.Err(err))
			w.WriteHeader(http.StatusBadRequest)
			render.JSON(w, r, response.Error(err.Error()))
		default:
			log.Error("failed to update subscription", sl.Err(err))
			w.WriteHeader(http.StatusInternalServerError)
			render.JSON(w, r, response.Error("could not update subscription"))
		}
		return
	}

	log.Info("subscription updated", slog.String("uid", uid))
	render.JSON(w, r, response.StatusOKWithData(map[string]any{
		"updated": count,
	}))
}
