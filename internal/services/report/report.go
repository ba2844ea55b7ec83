// Package services contains the business logic for reports: the dashboard
// counters, grouped breakdowns, monthly trends and upcoming renewals.
package services

import (
	"context"
	"log/slog"
	"math"
	"time"

	"github.com/hirwa-dev/subscription-manager/internal/models"
)

// DefaultTrendMonths bounds the monthly trend report.
const DefaultTrendMonths = 12

// DefaultRenewalWindowDays is how far ahead the renewal report looks.
const DefaultRenewalWindowDays = 7

// ReportRepository is the storage contract for the aggregation queries.
type ReportRepository interface {
	SubscriptionStats(ctx context.Context, startOfMonth, renewalCutoff time.Time) (*models.SubscriptionStats, error)
	AgreementBreakdown(ctx context.Context) ([]models.StatusCount, error)
	PaymentBreakdown(ctx context.Context) ([]models.StatusCount, error)
	AreaBreakdown(ctx context.Context) ([]models.StatusCount, error)
	PackagePopularity(ctx context.Context) ([]models.StatusCount, error)
	MonthlyTrends(ctx context.Context, months int) ([]models.MonthlyTrend, error)
	UpcomingRenewals(ctx context.Context, cutoff time.Time, limit, offset int) ([]*models.Subscription, int, error)
}

// Summary is the full dashboard payload.
type Summary struct {
	Stats             *models.SubscriptionStats `json:"stats"`
	AgreementStatus   []models.StatusCount      `json:"agreement_status"`
	PaymentStatus     []models.StatusCount      `json:"payment_status"`
	AreaDistribution  []models.StatusCount      `json:"area_distribution"`
	PackagePopularity []models.StatusCount      `json:"package_popularity"`
	MonthlyTrends     []models.MonthlyTrend     `json:"monthly_trends"`
	SuccessRate       float64                   `json:"success_rate"`
}

// ReportService computes read-only aggregates over active subscriptions.
type ReportService struct {
	reports ReportRepository
	now     func() time.Time
	log     *slog.Logger
}

// NewReportService creates a new ReportService using the wall clock.
func NewReportService(reports ReportRepository, log *slog.Logger) *ReportService {
	return &ReportService{reports: reports, now: time.Now, log: log}
}

// Stats returns the scalar dashboard counters.
func (s *ReportService) Stats(ctx context.Context) (*models.SubscriptionStats, error) {
	now := s.now().UTC()
	startOfMonth := time.Date(now.Year(), now.Month(), 1, 0, 0, 0, 0, time.UTC)
	cutoff := now.AddDate(0, 0, DefaultRenewalWindowDays)
	return s.reports.SubscriptionStats(ctx, startOfMonth, cutoff)
}

// Summary assembles the dashboard: counters, the four breakdowns, the
// recent monthly trend and the overall success rate.
func (s *ReportService) Summary(ctx context.Context) (*Summary, error) {
	stats, err := s.Stats(ctx)
	if err != nil {
		return nil, err
	}
	agreement, err := s.reports.AgreementBreakdown(ctx)
	if err != nil {
		return nil, err
	}
	payment, err := s.reports.PaymentBreakdown(ctx)
	if err != nil {
		return nil, err
	}
	areas, err := s.reports.AreaBreakdown(ctx)
	if err != nil {
		return nil, err
	}
	packages, err := s.reports.PackagePopularity(ctx)
	if err != nil {
		return nil, err
	}
	trends, err := s.MonthlyTrends(ctx, DefaultTrendMonths)
	if err != nil {
		return nil, err
	}
	return &Summary{
		Stats:             stats,
		AgreementStatus:   agreement,
		PaymentStatus:     payment,
		AreaDistribution:  areas,
		PackagePopularity: packages,
		MonthlyTrends:     trends,
		SuccessRate:       SuccessRate(stats.Agreed, stats.Total),
	}, nil
}

// AreaDistribution returns active record counts per district with each
// district's percentage share.
func (s *ReportService) AreaDistribution(ctx context.Context) ([]models.AreaShare, error) {
	counts, err := s.reports.AreaBreakdown(ctx)
	if err != nil {
		return nil, err
	}
	total := 0
	for _, c := range counts {
		total += c.Count
	}
	shares := make([]models.AreaShare, 0, len(counts))
	for _, c := range counts {
		shares = append(shares, models.AreaShare{
			Label:      c.Label,
			Count:      c.Count,
			Percentage: SuccessRate(c.Count, total),
		})
	}
	return shares, nil
}

// PackagePopularity returns active record counts per package name.
func (s *ReportService) PackagePopularity(ctx context.Context) ([]models.StatusCount, error) {
	return s.reports.PackagePopularity(ctx)
}

// MonthlyTrends returns per-month totals with derived month names and
// success rates, most recent first. months falls back to the default when
// out of range.
func (s *ReportService) MonthlyTrends(ctx context.Context, months int) ([]models.MonthlyTrend, error) {
	if months < 1 || months > 60 {
		months = DefaultTrendMonths
	}
	trends, err := s.reports.MonthlyTrends(ctx, months)
	if err != nil {
		return nil, err
	}
	for i := range trends {
		trends[i].MonthName = time.Month(trends[i].Month).String()
		trends[i].SuccessRate = SuccessRate(trends[i].Agreed, trends[i].Total)
	}
	return trends, nil
}

// UpcomingRenewals pages through agreed subscriptions due to renew within
// daysAhead days.
func (s *ReportService) UpcomingRenewals(ctx context.Context, daysAhead, page, perPage int) (*models.SubscriptionPage, error) {
	if daysAhead < 1 {
		daysAhead = DefaultRenewalWindowDays
	}
	page, perPage = models.ClampPage(page, perPage)
	cutoff := s.now().UTC().AddDate(0, 0, daysAhead)

	items, total, err := s.reports.UpcomingRenewals(ctx, cutoff, perPage, (page-1)*perPage)
	if err != nil {
		return nil, err
	}
	return &models.SubscriptionPage{
		Subscriptions: items,
		Total:         total,
		Page:          page,
		PerPage:       perPage,
		TotalPages:    models.TotalPages(total, perPage),
	}, nil
}

// SuccessRate is the share of agreed records as a percentage, rounded to
// two decimals. Zero totals yield zero instead of NaN.
func SuccessRate(agreed, total int) float64 {
	if total == 0 {
		return 0
	}
	return math.Round(float64(agreed)/float64(total)*10000) / 100
}
