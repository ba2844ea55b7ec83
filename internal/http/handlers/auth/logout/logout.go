// Package logout implements the HTTP handler revoking the current access
// token of the authenticated user.
package logout

import (
	"context"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/middleware"
	"github.com/go-chi/render"

	"github.com/hirwa-dev/subscription-manager/internal/http/middlewarectx"
	"github.com/hirwa-dev/subscription-manager/internal/http/response"
	"github.com/hirwa-dev/subscription-manager/internal/lib/sl"
)

// Handler serves logout requests.
type Handler struct {
	log     *slog.Logger
	service Service
}

// Service is the auth business logic behind logout.
type Service interface {
	Logout(ctx context.Context, userUID string) error
}

// New creates a new Handler with the given logger and service.
func New(log *slog.Logger, service Service) *Handler {
	return &Handler{log: log, service: service}
}

// ServeHTTP godoc
// @Summary Log out
// @Description Revokes the current access token. The still-unexpired token stops being accepted immediately.
// @Tags Auth
// @Produce json
// @Security BearerAuth
// @Success 200 {object} response.Response "Logged out"
// @Failure 401 {object} response.ErrorResponse "Not authenticated"
// @Failure 500 {object} response.ErrorResponse "Server error"
// @Router /auth/logout [post]
func (h *Handler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	const op = "handlers.auth.logout"
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

	if err := h.service.Logout(r.Context(), userUID); err != nil {
		log.Error("failed to log out", sl.Err(err))
		w.WriteHeader(http.StatusInternalServerError)
		render.JSON(w, r, response.Error("could not log out"))
		return
	}

	log.Info("user logged out", slog.String("uid", userUID))
	render.JSON(w, r, response.StatusOKWithData(map[string]any{
		"message": "logged out",
	}))
}
