package services

import (
	"context"
	"io"
	"log/slog"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/hirwa-dev/subscription-manager/internal/models"
)

type MockReportRepository struct {
	mock.Mock
}

func (m *MockReportRepository) SubscriptionStats(ctx context.Context, startOfMonth, renewalCutoff time.Time) (*models.SubscriptionStats, error) {
	args := m.Called(ctx, startOfMonth, renewalCutoff)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.SubscriptionStats), args.Error(1)
}

func (m *MockReportRepository) AgreementBreakdown(ctx context.Context) ([]models.StatusCount, error) {
	args := m.Called(ctx)
	return args.Get(0).([]models.StatusCount), args.Error(1)
}

func (m *MockReportRepository) PaymentBreakdown(ctx context.Context) ([]models.StatusCount, error) {
	args := m.Called(ctx)
	return args.Get(0).([]models.StatusCount), args.Error(1)
}

func (m *MockReportRepository) AreaBreakdown(ctx context.Context) ([]models.StatusCount, error) {
	args := m.Called(ctx)
	return args.Get(0).([]models.StatusCount), args.Error(1)
}

func (m *MockReportRepository) PackagePopularity(ctx context.Context) ([]models.StatusCount, error) {
	args := m.Called(ctx)
	return args.Get(0).([]models.StatusCount), args.Error(1)
}

func (m *MockReportRepository) MonthlyTrends(ctx context.Context, months int) ([]models.MonthlyTrend, error) {
	args := m.Called(ctx, months)
	return args.Get(0).([]models.MonthlyTrend), args.Error(1)
}

func (m *MockReportRepository) UpcomingRenewals(ctx context.Context, cutoff time.Time, limit, offset int) ([]*models.Subscription, int, error) {
	args := m.Called(ctx, cutoff, limit, offset)
	return args.Get(0).([]*models.Subscription), args.Int(1), args.Error(2)
}

func discardLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func TestSuccessRate(t *testing.T) {
	assert.Equal(t, 0.0, SuccessRate(0, 0))
	assert.Equal(t, 50.0, SuccessRate(1, 2))
	assert.Equal(t, 66.67, SuccessRate(2, 3))
	assert.Equal(t, 100.0, SuccessRate(5, 5))
}

func TestSummary(t *testing.T) {
	repo := new(MockReportRepository)
	svc := NewReportService(repo, discardLogger())

	repo.On("SubscriptionStats", mock.Anything, mock.Anything, mock.Anything).
		Return(&models.SubscriptionStats{Total: 3, Agreed: 2, Refused: 1}, nil)
	repo.On("AgreementBreakdown", mock.Anything).
		Return([]models.StatusCount{{Label: "Agreed", Count: 2}, {Label: "Refused", Count: 1}}, nil)
	repo.On("PaymentBreakdown", mock.Anything).
		Return([]models.StatusCount{{Label: "Pending", Count: 3}}, nil)
	repo.On("AreaBreakdown", mock.Anything).
		Return([]models.StatusCount{{Label: "Gasabo", Count: 3}}, nil)
	repo.On("PackagePopularity", mock.Anything).
		Return([]models.StatusCount{{Label: "Basic", Count: 3}}, nil)
	repo.On("MonthlyTrends", mock.Anything, DefaultTrendMonths).
		Return([]models.MonthlyTrend{{Year: 2024, Month: 6, Total: 3, Agreed: 2}}, nil)

	summary, err := svc.Summary(context.Background())
	require.NoError(t, err)
	assert.Equal(t, 66.67, summary.SuccessRate)
	assert.Len(t, summary.AgreementStatus, 2)
	require.Len(t, summary.MonthlyTrends, 1)
	assert.Equal(t, "June", summary.MonthlyTrends[0].MonthName)
	repo.AssertExpectations(t)
}

func TestStatsWindowBoundaries(t *testing.T) {
	repo := new(MockReportRepository)
	svc := NewReportService(repo, discardLogger())
	svc.now = func() time.Time {
		return time.Date(2024, 6, 15, 12, 0, 0, 0, time.UTC)
	}

	repo.On("SubscriptionStats", mock.Anything,
		time.Date(2024, 6, 1, 0, 0, 0, 0, time.UTC),
		time.Date(2024, 6, 22, 12, 0, 0, 0, time.UTC)).
		Return(&models.SubscriptionStats{}, nil)

	_, err := svc.Stats(context.Background())
	require.NoError(t, err)
	repo.AssertExpectations(t)
}

func TestMonthlyTrendsDerivedFields(t *testing.T) {
	repo := new(MockReportRepository)
	svc := NewReportService(repo, discardLogger())

	repo.On("MonthlyTrends", mock.Anything, 12).Return([]models.MonthlyTrend{
		{Year: 2024, Month: 2, Total: 4, Agreed: 3},
		{Year: 2024, Month: 1, Total: 0, Agreed: 0},
	}, nil)

	trends, err := svc.MonthlyTrends(context.Background(), 0)
	require.NoError(t, err)
	require.Len(t, trends, 2)
	assert.Equal(t, "February", trends[0].MonthName)
	assert.Equal(t, 75.0, trends[0].SuccessRate)
	assert.Equal(t, "January", trends[1].MonthName)
	assert.Equal(t, 0.0, trends[1].SuccessRate)
}

func TestAreaDistributionPercentages(t *testing.T) {
	repo := new(MockReportRepository)
	svc := NewReportService(repo, discardLogger())

	repo.On("AreaBreakdown", mock.Anything).Return([]models.StatusCount{
		{Label: "Gasabo", Count: 2},
		{Label: "Kicukiro", Count: 1},
	}, nil)

	shares, err := svc.AreaDistribution(context.Background())
	require.NoError(t, err)
	require.Len(t, shares, 2)
	assert.Equal(t, 66.67, shares[0].Percentage)
	assert.Equal(t, 33.33, shares[1].Percentage)
}

func TestUpcomingRenewals(t *testing.T) {
	repo := new(MockReportRepository)
	svc := NewReportService(repo, discardLogger())
	svc.now = func() time.Time {
		return time.Date(2024, 6, 15, 0, 0, 0, 0, time.UTC)
	}

	repo.On("UpcomingRenewals", mock.Anything,
		time.Date(2024, 6, 22, 0, 0, 0, 0, time.UTC), 20, 0).
		Return([]*models.Subscription{{UID: "uid-1"}}, 1, nil)

	page, err := svc.UpcomingRenewals(context.Background(), 0, 1, 0)
	require.NoError(t, err)
	assert.Equal(t, 1, page.Total)
	assert.Equal(t, 1, page.TotalPages)
	repo.AssertExpectations(t)
}
