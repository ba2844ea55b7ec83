// Package profile implements the HTTP handler returning the account of the
// authenticated user.
package profile

import (
	"context"
	"errors"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/middleware"
	"github.com/go-chi/render"

	"github.com/hirwa-dev/subscription-manager/internal/http/middlewarectx"
	"github.com/hirwa-dev/subscription-manager/internal/http/response"
	"github.com/hirwa-dev/subscription-manager/internal/lib/sl"
	"github.com/hirwa-dev/subscription-manager/internal/models"
	"github.com/hirwa-dev/subscription-manager/internal/storage/repository"
)

// Handler serves profile read requests.
type Handler struct {
	log     *slog.Logger
	service Service
}

// Service is the auth business logic behind the profile read.
type Service interface {
	Profile(ctx context.Context, userUID string) (*models.User, error)
}

// New creates a new Handler with the given logger and service.
func New(log *slog.Logger, service Service) *Handler {
	return &Handler{log: log, service: service}
}

// ServeHTTP godoc
// @Summary Get the current user
// @Description Returns the public account fields of the authenticated user.
// @Tags Auth
// @Produce json
// @Security BearerAuth
// @Success 200 {object} response.Response "Account"
// @Failure 401 {object} response.ErrorResponse "Not authenticated"
// @Failure 404 {object} response.ErrorResponse "Account no longer active"
// @Failure 500 {object} response.ErrorResponse "Server error"
// @Router /auth/profile [get]
func (h *Handler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	const op = "handlers.auth.profile"
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

	user, err := h.service.Profile(r.Context(), userUID)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			log.Warn("account not found", slog.String("uid", userUID))
			w.WriteHeader(http.StatusNotFound)
			render.JSON(w, r, response.Error("account not found"))
			return
		}
		log.Error("failed to load profile", sl.Err(err))
		w.WriteHeader(http.StatusInternalServerError)
		render.JSON(w, r, response.Error("could not load profile"))
		return
	}

	render.JSON(w, r, response.StatusOKWithData(user))
}
