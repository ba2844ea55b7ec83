// Package bulkupdate implements the HTTP handler applying one partial
// update to many subscription records at once.
package bulkupdate

import (
	"context"
	"encoding/json"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/middleware"
	"github.com/go-chi/render"
	"github.com/go-playground/validator"

	"github.com/hirwa-dev/subscription-manager/internal/http/response"
	"github.com/hirwa-dev/subscription-manager/internal/lib/sl"
	"github.com/hirwa-dev/subscription-manager/internal/models"
)

// DummyBulkUpdate receives the record UIDs and the shared patch from a JSON
// request.
type DummyBulkUpdate struct {
	UIDs   []string                      `json:"uids" validate:"required,min=1,dive,required"`
	Update models.DummySubscriptionPatch `json:"update" validate:"required"`
}

// Handler serves bulk update requests.
type Handler struct {
	log      *slog.Logger
	service  Service
	validate *validator.Validate
}

// Service is the business logic behind the bulk update.
type Service interface {
	BulkUpdate(ctx context.Context, uids []string, patch models.DummySubscriptionPatch) []models.BulkUpdateResult
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
// @Summary Bulk update subscription records
// @Description Applies one patch to many records, admin only. Each record is processed independently and a per-record failure does not abort the batch.
// @Tags Subscriptions
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param request body DummyBulkUpdate true "UIDs and the shared patch"
// @Success 200 {object} response.Response "Per-record results"
// @Failure 400 {object} response.ErrorResponse "Invalid JSON"
// @Failure 401 {object} response.ErrorResponse "Not authenticated"
// @Failure 403 {object} response.ErrorResponse "Admin access required"
// @Failure 422 {object} response.ErrorResponse "Validation failure"
// @Router /subscriptions/bulk-update [put]
func (h *Handler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	const op = "handlers.subscription.bulkupdate"
	log := h.log.With(
		slog.String("op", op),
		slog.String("request_id", middleware.GetReqID(r.Context())),
	)

	var req DummyBulkUpdate
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

	results := h.service.BulkUpdate(r.Context(), req.UIDs, req.Update)

	updated := 0
	for _, res := range results {
		updated += res.Updated
	}
	log.Info("bulk update finished",
		slog.Int("requested", len(req.UIDs)),
		slog.Int("updated", updated))

	render.JSON(w, r, response.StatusOKWithData(map[string]any{
		"results": results,
		"updated": updated,
	}))
}
