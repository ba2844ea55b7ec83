// Package users implements the admin HTTP handler listing active accounts.
package users

import (
	"context"
	"log/slog"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/middleware"
	"github.com/go-chi/render"

	"github.com/hirwa-dev/subscription-manager/internal/http/response"
	"github.com/hirwa-dev/subscription-manager/internal/lib/sl"
	"github.com/hirwa-dev/subscription-manager/internal/models"
)

// Handler serves user listing requests.
type Handler struct {
	log     *slog.Logger
	service Service
}

// Service is the auth business logic behind the user list.
type Service interface {
	ListUsers(ctx context.Context, page, perPage int) (*models.UserPage, error)
}

// New creates a new Handler with the given logger and service.
func New(log *slog.Logger, service Service) *Handler {
	return &Handler{log: log, service: service}
}

// ServeHTTP godoc
// @Summary List users
// @Description Returns a page of active accounts, admin only.
// @Tags Auth
// @Produce json
// @Security BearerAuth
// @Param page query int false "Page number, starting at 1"
// @Param per_page query int false "Page size, at most 100"
// @Success 200 {object} response.Response "Page of users"
// @Failure 401 {object} response.ErrorResponse "Not authenticated"
// @Failure 403 {object} response.ErrorResponse "Admin access required"
// @Failure 500 {object} response.ErrorResponse "Server error"
// @Router /auth/users [get]
func (h *Handler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	const op = "handlers.auth.users"
	log := h.log.With(
		slog.String("op", op),
		slog.String("request_id", middleware.GetReqID(r.Context())),
	)

	page, _ := strconv.Atoi(r.URL.Query().Get("page"))
	perPage, _ := strconv.Atoi(r.URL.Query().Get("per_page"))

	result, err := h.service.ListUsers(r.Context(), page, perPage)
	if err != nil {
		log.Error("failed to list users", sl.Err(err))
		w.WriteHeader(http.StatusInternalServerError)
		render.JSON(w, r, response.Error("could not list users"))
		return
	}

	render.JSON(w, r, response.StatusOKWithData(result))
}
