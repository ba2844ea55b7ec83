// Package report implements the HTTP handlers exposing the read-only
// aggregates: the dashboard counters, the summary, monthly trends, area
// distribution, package popularity and upcoming renewals.
package report

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
	services "github.com/hirwa-dev/subscription-manager/internal/services/report"
)

// Handler serves the report endpoints.
type Handler struct {
	log     *slog.Logger
	service Service
}

// Service is the report business logic.
type Service interface {
	Stats(ctx context.Context) (*models.SubscriptionStats, error)
	Summary(ctx context.Context) (*services.Summary, error)
	MonthlyTrends(ctx context.Context, months int) ([]models.MonthlyTrend, error)
	AreaDistribution(ctx context.Context) ([]models.AreaShare, error)
	PackagePopularity(ctx context.Context) ([]models.StatusCount, error)
	UpcomingRenewals(ctx context.Context, daysAhead, page, perPage int) (*models.SubscriptionPage, error)
}

// New creates a new Handler with the given logger and service.
func New(log *slog.Logger, service Service) *Handler {
	return &Handler{log: log, service: service}
}

// Stats godoc
// @Summary Dashboard counters
// @Description Returns the scalar counters over active records: totals, agreement and payment splits, this-month count and renewals due within a week.
// @Tags Reports
// @Produce json
// @Security BearerAuth
// @Success 200 {object} response.Response "Counters"
// @Failure 401 {object} response.ErrorResponse "Not authenticated"
// @Failure 500 {object} response.ErrorResponse "Server error"
// @Router /reports/dashboard-stats [get]
func (h *Handler) Stats(w http.ResponseWriter, r *http.Request) {
	const op = "handlers.report.stats"
	log := h.log.With(
		slog.String("op", op),
		slog.String("request_id", middleware.GetReqID(r.Context())),
	)

	stats, err := h.service.Stats(r.Context())
	if err != nil {
		log.Error("failed to compute dashboard stats", sl.Err(err))
		w.WriteHeader(http.StatusInternalServerError)
		render.JSON(w, r, response.Error("could not compute dashboard stats"))
		return
	}
	render.JSON(w, r, response.StatusOKWithData(stats))
}

// Summary godoc
// @Summary Subscription summary
// @Description Returns the full dashboard payload: counters, the agreement, payment, area and package breakdowns and the overall success rate.
// @Tags Reports
// @Produce json
// @Security BearerAuth
// @Success 200 {object} response.Response "Summary"
// @Failure 401 {object} response.ErrorResponse "Not authenticated"
// @Failure 500 {object} response.ErrorResponse "Server error"
// @Router /reports/subscription-summary [get]
func (h *Handler) Summary(w http.ResponseWriter, r *http.Request) {
	const op = "handlers.report.summary"
	log := h.log.With(
		slog.String("op", op),
		slog.String("request_id", middleware.GetReqID(r.Context())),
	)

	summary, err := h.service.Summary(r.Context())
	if err != nil {
		log.Error("failed to compute summary", sl.Err(err))
		w.WriteHeader(http.StatusInternalServerError)
		render.JSON(w, r, response.Error("could not compute summary"))
		return
	}
	render.JSON(w, r, response.StatusOKWithData(summary))
}

// MonthlyTrends godoc
// @Summary Monthly trends
// @Description Returns per-month totals, agreed counts and success rates, most recent months first.
// @Tags Reports
// @Produce json
// @Security BearerAuth
// @Param months query int false "Number of months, default 12"
// @Success 200 {object} response.Response "Trends"
// @Failure 401 {object} response.ErrorResponse "Not authenticated"
// @Failure 500 {object} response.ErrorResponse "Server error"
// @Router /reports/monthly-trends [get]
func (h *Handler) MonthlyTrends(w http.ResponseWriter, r *http.Request) {
	const op = "handlers.report.monthlytrends"
	log := h.log.With(
		slog.String("op", op),
		slog.String("request_id", middleware.GetReqID(r.Context())),
	)

	months, _ := strconv.Atoi(r.URL.Query().Get("months"))
	trends, err := h.service.MonthlyTrends(r.Context(), months)
	if err != nil {
		log.Error("failed to compute monthly trends", sl.Err(err))
		w.WriteHeader(http.StatusInternalServerError)
		render.JSON(w, r, response.Error("could not compute monthly trends"))
		return
	}
	render.JSON(w, r, response.StatusOKWithData(map[string]any{
		"trends": trends,
	}))
}

// AreaDistribution godoc
// @Summary Area distribution
// @Description Returns per-district counts of active records with each district's percentage share, largest first.
// @Tags Reports
// @Produce json
// @Security BearerAuth
// @Success 200 {object} response.Response "Distribution"
// @Failure 401 {object} response.ErrorResponse "Not authenticated"
// @Failure 500 {object} response.ErrorResponse "Server error"
// @Router /reports/area-distribution [get]
func (h *Handler) AreaDistribution(w http.ResponseWriter, r *http.Request) {
	const op = "handlers.report.areadistribution"
	log := h.log.With(
		slog.String("op", op),
		slog.String("request_id", middleware.GetReqID(r.Context())),
	)

	shares, err := h.service.AreaDistribution(r.Context())
	if err != nil {
		log.Error("failed to compute area distribution", sl.Err(err))
		w.WriteHeader(http.StatusInternalServerError)
		render.JSON(w, r, response.Error("could not compute area distribution"))
		return
	}
	render.JSON(w, r, response.StatusOKWithData(map[string]any{
		"areas": shares,
	}))
}

// PackagePopularity godoc
// @Summary Package popularity
// @Description Returns per-package counts of agreed active records, most popular first.
// @Tags Reports
// @Produce json
// @Security BearerAuth
// @Success 200 {object} response.Response "Popularity"
// @Failure 401 {object} response.ErrorResponse "Not authenticated"
// @Failure 500 {object} response.ErrorResponse "Server error"
// @Router /reports/package-popularity [get]
func (h *Handler) PackagePopularity(w http.ResponseWriter, r *http.Request) {
	const op = "handlers.report.packagepopularity"
	log := h.log.With(
		slog.String("op", op),
		slog.String("request_id", middleware.GetReqID(r.Context())),
	)

	counts, err := h.service.PackagePopularity(r.Context())
	if err != nil {
		log.Error("failed to compute package popularity", sl.Err(err))
		w.WriteHeader(http.StatusInternalServerError)
		render.JSON(w, r, response.Error("could not compute package popularity"))
		return
	}
	render.JSON(w, r, response.StatusOKWithData(map[string]any{
		"packages": counts,
	}))
}

// UpcomingRenewals godoc
// @Summary Upcoming renewals
// @Description Returns a page of agreed active subscriptions whose renewal date falls within the window, soonest first.
// @Tags Reports
// @Produce json
// @Security BearerAuth
// @Param days query int false "Window in days, default 7"
// @Param page query int false "Page number, starting at 1"
// @Param per_page query int false "Page size, at most 100"
// @Success 200 {object} response.Response "Page of renewals"
// @Failure 401 {object} response.ErrorResponse "Not authenticated"
// @Failure 500 {object} response.ErrorResponse "Server error"
// @Router /reports/upcoming-renewals [get]
func (h *Handler) UpcomingRenewals(w http.ResponseWriter, r *http.Request) {
	const op = "handlers.report.upcomingrenewals"
	log := h.log.With(
		slog.String("op", op),
		slog.String("request_id", middleware.GetReqID(r.Context())),
	)

	q := r.URL.Query()
	days, _ := strconv.Atoi(q.Get("days"))
	page, _ := strconv.Atoi(q.Get("page"))
	perPage, _ := strconv.Atoi(q.Get("per_page"))

	result, err := h.service.UpcomingRenewals(r.Context(), days, page, perPage)
	if err != nil {
		log.Error("failed to list upcoming renewals", sl.Err(err))
		w.WriteHeader(http.StatusInternalServerError)
		render.JSON(w, r, response.Error("could not list upcoming renewals"))
		return
	}
	render.JSON(w, r, response.StatusOKWithData(result))
}
