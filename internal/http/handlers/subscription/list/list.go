// Package list implements the HTTP handler returning a filtered page of
// subscription records.
package list

import (
	"context"
	"log/slog"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/middleware"
	"github.com/go-chi/render"

	"github.com/hirwa-dev/subscription-manager/internal/http/middlewarectx"
	"github.com/hirwa-dev/subscription-manager/internal/http/response"
	"github.com/hirwa-dev/subscription-manager/internal/lib/sl"
	"github.com/hirwa-dev/subscription-manager/internal/models"
	services "github.com/hirwa-dev/subscription-manager/internal/services/subscription"
)

// Handler serves subscription listing requests.
type Handler struct {
	log     *slog.Logger
	service Service
}

// Service is the business logic behind the subscription list.
type Service interface {
	List(ctx context.Context, filter models.SubscriptionFilter, page, perPage int) (*models.SubscriptionPage, error)
}

// New creates a new Handler with the given logger and service.
func New(log *slog.Logger, service Service) *Handler {
	return &Handler{log: log, service: service}
}

// ServeHTTP godoc
// @Summary List subscription records
// @Description Returns a page of active records, newest first, optionally filtered by agreement status, payment status, district or package. Admins may include soft-deleted records.
// @Tags Subscriptions
// @Produce json
// @Security BearerAuth
// @Param page query int false "Page number, starting at 1"
// @Param per_page query int false "Page size, at most 100"
// @Param agreed_refused query string false "Agreed or Refused"
// @Param payment_status query string false "Pending, Paid or Failed"
// @Param area query string false "Kigali district"
// @Param package query string false "Package name"
// @Param include_inactive query bool false "Include soft-deleted records, admin only"
// @Success 200 {object} response.Response "Page of records"
// @Failure 400 {object} response.ErrorResponse "Invalid filter value"
// @Failure 401 {object} response.ErrorResponse "Not authenticated"
// @Failure 500 {object} response.ErrorResponse "Server error"
// @Router /subscriptions [get]
func (h *Handler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	const op = "handlers.subscription.list"
	log := h.log.With(
		slog.String("op", op),
		slog.String("request_id", middleware.GetReqID(r.Context())),
	)

	q := r.URL.Query()
	page, _ := strconv.Atoi(q.Get("page"))
	perPage, _ := strconv.Atoi(q.Get("per_page"))

	includeInactive := q.Get("include_inactive") == "true"
	if includeInactive {
		role, _ := r.Context().Value(middlewarectx.Role).(string)
		if role != "admin" {
			includeInactive = false
		}
	}

	filter, err := services.ParseFilter(
		q.Get("agreed_refused"),
		q.Get("payment_status"),
		q.Get("area"),
		q.Get("package"),
		includeInactive,
	)
	if err != nil {
		log.Warn("rejected filter", sl.Err(err))
		w.WriteHeader(http.StatusBadRequest)
		render.JSON(w, r, response.Error(err.Error()))
		return
	}

	result, err := h.service.List(r.Context(), filter, page, perPage)
	if err != nil {
		log.Error("failed to list subscriptions", sl.Err(err))
		w.WriteHeader(http.StatusInternalServerError)
		render.JSON(w, r, response.Error("could not list subscriptions"))
		return
	}

	render.JSON(w, r, response.StatusOKWithData(result))
}
