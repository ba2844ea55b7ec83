// Package export implements the HTTP handler downloading filtered
// subscription records as CSV or JSON.
package export

import (
	"context"
	"encoding/csv"
	"log/slog"
	"net/http"
	"time"

	"github.com/go-chi/chi/middleware"
	"github.com/go-chi/render"

	"github.com/hirwa-dev/subscription-manager/internal/http/response"
	"github.com/hirwa-dev/subscription-manager/internal/lib/sl"
	"github.com/hirwa-dev/subscription-manager/internal/models"
	services "github.com/hirwa-dev/subscription-manager/internal/services/subscription"
)

// Handler serves subscription export requests.
type Handler struct {
	log     *slog.Logger
	service Service
}

// Service is the business logic behind the export.
type Service interface {
	Export(ctx context.Context, filter models.SubscriptionFilter) ([]*models.Subscription, error)
}

// New creates a new Handler with the given logger and service.
func New(log *slog.Logger, service Service) *Handler {
	return &Handler{log: log, service: service}
}

var csvHeader = []string{
	"uid", "phone_number", "email", "child_name", "parent_name",
	"agreed_refused", "package", "date_of_subscription",
	"renew_subscription_by", "payment_status", "area", "location", "cell",
}

// ServeHTTP godoc
// @Summary Export subscription records
// @Description Downloads filtered active records, admin only. format=csv (default) streams a CSV attachment, format=json returns the standard envelope. At most 10000 records per export.
// @Tags Subscriptions
// @Produce json
// @Produce text/csv
// @Security BearerAuth
// @Param format query string false "csv or json"
// @Param agreed_refused query string false "Agreed or Refused"
// @Param payment_status query string false "Pending, Paid or Failed"
// @Param area query string false "Kigali district"
// @Param package query string false "Package name"
// @Success 200 {object} response.Response "Exported records"
// @Failure 400 {object} response.ErrorResponse "Invalid filter value"
// @Failure 401 {object} response.ErrorResponse "Not authenticated"
// @Failure 403 {object} response.ErrorResponse "Admin access required"
// @Failure 500 {object} response.ErrorResponse "Server error"
// @Router /subscriptions/export [get]
func (h *Handler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	const op = "handlers.subscription.export"
	log := h.log.With(
		slog.String("op", op),
		slog.String("request_id", middleware.GetReqID(r.Context())),
	)

	q := r.URL.Query()
	filter, err := services.ParseFilter(
		q.Get("agreed_refused"),
		q.Get("payment_status"),
		q.Get("area"),
		q.Get("package"),
		false,
	)
	if err != nil {
		log.Warn("rejected filter", sl.Err(err))
		w.WriteHeader(http.StatusBadRequest)
		render.JSON(w, r, response.Error(err.Error()))
		return
	}

	subs, err := h.service.Export(r.Context(), filter)
	if err != nil {
		log.Error("failed to export subscriptions", sl.Err(err))
		w.WriteHeader(http.StatusInternalServerError)
		render.JSON(w, r, response.Error("could not export subscriptions"))
		return
	}

	if q.Get("format") == "json" {
		log.Info("exported subscriptions as json", slog.Int("count", len(subs)))
		render.JSON(w, r, response.StatusOKWithData(map[string]any{
			"subscriptions": subs,
			"count":         len(subs),
		}))
		return
	}

	filename := "subscriptions_" + time.Now().UTC().Format("2006-01-02") + ".csv"
	w.Header().Set("Content-Type", "text/csv")
	w.Header().Set("Content-Disposition", `attachment; filename="`+filename+`"`)

	cw := csv.NewWriter(w)
	if err := cw.Write(csvHeader); err != nil {
		log.Error("failed to write csv header", sl.Err(err))
		return
	}
	for _, s := range subs {
		row := []string{
			s.UID, s.PhoneNumber, s.Email, s.ChildName, s.ParentName,
			s.AgreedRefused, s.Package,
			s.DateOfSubscription.Format(models.DateLayout),
			s.RenewSubscriptionBy.Format(models.DateLayout),
			s.PaymentStatus, s.Area, s.Location, s.Cell,
		}
		if err := cw.Write(row); err != nil {
			log.Error("failed to write csv row", sl.Err(err))
			return
		}
	}
	cw.Flush()
	if err := cw.Error(); err != nil {
		log.Error("failed to flush csv", sl.Err(err))
		return
	}
	log.Info("exported subscriptions as csv", slog.Int("count", len(subs)))
}
