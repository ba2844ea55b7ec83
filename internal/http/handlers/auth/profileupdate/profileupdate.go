// Package profileupdate implements the HTTP handler applying a self-service
// profile update to the authenticated user.
package profileupdate

import (
	"context"
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/middleware"
	"github.com/go-chi/render"
	"github.com/go-playground/validator"

	"github.com/hirwa-dev/subscription-manager/internal/http/middlewarectx"
	"github.com/hirwa-dev/subscription-manager/internal/http/response"
	"github.com/hirwa-dev/subscription-manager/internal/lib/sl"
	"github.com/hirwa-dev/subscription-manager/internal/models"
	"github.com/hirwa-dev/subscription-manager/internal/storage/repository"
)

// Handler serves profile update requests.
type Handler struct {
	log      *slog.Logger
	service  Service
	validate *validator.Validate
}

// Service is the auth business logic behind the profile update.
type Service interface {
	UpdateProfile(ctx context.Context, userUID string, req models.DummyProfileUpdate) (int, error)
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
// @Summary Update the current user
// @Description Updates the email or the password of the authenticated user. The role cannot be changed on this route.
// @Tags Auth
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param request body models.DummyProfileUpdate true "Fields to change"
// @Success 200 {object} response.Response "Number of updated accounts"
// @Failure 400 {object} response.ErrorResponse "Invalid JSON or email already taken"
// @Failure 401 {object} response.ErrorResponse "Not authenticated"
// @Failure 404 {object} response.ErrorResponse "Account no longer active"
// @Failure 422 {object} response.ErrorResponse "Validation failure"
// @Failure 500 {object} response.ErrorResponse "Server error"
// @Router /auth/profile [put]
func (h *Handler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	const op = "handlers.auth.profileupdate"
	log := h.log.With(
		slog.String("op", op),
		slog.String("request_id", middleware.GetReqID(r.Context())),
	)

	userUID, ok := r.Context().Value(middlewarectx.UserUID).(string)
	if !ok || userUID == "" {
		log.Error("user identification missing")
		w.WriteHeader(http.StatusUnauthorized)
		render.JSON(w, r, response.Error("unauthorized"))
		return
	}

	var req models.DummyProfileUpdate
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

	count, err := h.service.UpdateProfile(r.Context(), userUID, req)
	if err != nil {
		switch {
		case errors.Is(err, repository.ErrNotFound):
			w.WriteHeader(http.StatusNotFound)
			render.JSON(w, r, response.Error("account not found"))
		case errors.Is(err, repository.ErrDuplicateEmail):
			w.WriteHeader(http.StatusBadRequest)
			render.JSON(w, r, response.Error("email already taken"))
		default:
			log.Error("failed to update profile", sl.Err(err))
			w.WriteHeader(http.StatusInternalServerError)
			render.JSON(w, r, response.Error("could not update profile"))
		}
		return
	}

	log.Info("profile updated", slog.String("uid", userUID))
	render.JSON(w, r, response.StatusOKWithData(map[string]any{
		"updated": count,
	}))
}
