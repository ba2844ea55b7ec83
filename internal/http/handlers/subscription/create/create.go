// Package create implements the HTTP handler creating new subscription
// records.
//
// The handler decodes a JSON request, validates it, delegates creation to
// the subscription service and returns the UID of the new record. The
// service enforces the enum values, the geography hierarchy and derives the
// renewal date.
package create

import (
	"context"
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/middleware"
	"github.com/go-chi/render"
	"github.com/go-playground/validator"

	"github.com/hirwa-dev/subscription-manager/internal/geography"
	"github.com/hirwa-dev/subscription-manager/internal/http/response"
	"github.com/hirwa-dev/subscription-manager/internal/lib/sl"
	"github.com/hirwa-dev/subscription-manager/internal/models"
	services "github.com/hirwa-dev/subscription-manager/internal/services/subscription"
)

// Handler serves subscription creation requests.
type Handler struct {
	log      *slog.Logger
	service  Service
	validate *validator.Validate

	// requireKnownPackage is set on the public funnel, where free-text
	// package names are rejected.
	requireKnownPackage bool
}

// Service is the business logic behind subscription creation.
type Service interface {
	Create(ctx context.Context, req models.DummySubscription, requireKnownPackage bool) (string, error)
}

// New creates a new Handler for the authenticated creation route.
func New(log *slog.Logger, service Service) *Handler {
	return &Handler{
		log:      log,
		service:  service,
		validate: validator.New(),
	}
}

// NewPublic creates a new Handler for the unauthenticated signup funnel,
// which only accepts packages present in the catalog.
func NewPublic(log *slog.Logger, service Service) *Handler {
	h := New(log, service)
	h.requireKnownPackage = true
	return h
}

// ServeHTTP godoc
// @Summary Create a subscription record
// @Description Creates a new subscription record. The area, location and cell must form a valid Kigali hierarchy; the renewal date is derived from the package duration.
// @Tags Subscriptions
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param request body models.DummySubscription true "Subscription data"
// @Success 201 {object} response.Response "Record created"
// @Failure 400 {object} response.ErrorResponse "Invalid JSON or field value"
// @Failure 401 {object} response.ErrorResponse "Not authenticated"
// @Failure 422 {object} response.ErrorResponse "Validation failure"
// @Failure 500 {object} response.ErrorResponse "Server error"
// @Router /subscriptions [post]
func (h *Handler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	const op = "handlers.subscription.create"
	log := h.log.With(
		slog.String("op", op),
		slog.String("request_id", middleware.GetReqID(r.Context())),
	)

	var req models.DummySubscription
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

	uid, err := h.service.Create(r.Context(), req, h.requireKnownPackage)
	if err != nil {
		var locErr *geography.LocationError
		switch {
		case errors.Is(err, services.ErrInvalidDate),
			errors.Is(err, services.ErrInvalidAgreement),
			errors.Is(err, services.ErrInvalidPaymentStatus),
			errors.Is(err, services.ErrUnknownPackage),
			errors.As(err, &locErr):
			log.Warn("rejected subscription data", sl.Err(err))
			w.WriteHeader(http.StatusBadRequest)
			render.JSON(w, r, response.Error(err.Error()))
		default:
			log.Error("failed to create subscription", sl.Err(err))
			w.WriteHeader(http.StatusInternalServerError)
			render.JSON(w, r, response.Error("could not create subscription"))
		}
		return
	}

	log.Info("subscription created", slog.String("uid", uid))
	w.WriteHeader(http.StatusCreated)
	render.JSON(w, r, response.StatusOKWithData(map[string]any{
		"uid": uid,
	}))
}
