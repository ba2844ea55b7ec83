package export

import (
	"context"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"os"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/hirwa-dev/subscription-manager/internal/models"
)

// MockService implements export.Service.
type MockService struct {
	mock.Mock
}

func (m *MockService) Export(ctx context.Context, filter models.SubscriptionFilter) ([]*models.Subscription, error) {
	args := m.Called(ctx, filter)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*models.Subscription), args.Error(1)
}

func sampleRecords(t *testing.T) []*models.Subscription {
	t.Helper()
	date, err := time.Parse(models.DateLayout, "2024-01-01")
	require.NoError(t, err)
	return []*models.Subscription{
		{
			UID:                 "uid-1",
			PhoneNumber:         "+250788123456",
			Email:               "parent@example.com",
			ChildName:           "Keza",
			ParentName:          "Mukamana",
			AgreedRefused:       "Agreed",
			Package:             "Basic",
			DateOfSubscription:  date,
			RenewSubscriptionBy: date.AddDate(0, 0, 30),
			PaymentStatus:       "Pending",
			Area:                "Gasabo",
			Location:            "Remera",
			Cell:                "Rukiri",
		},
	}
}

func TestExportCSV(t *testing.T) {
	logger := slog.New(slog.NewTextHandler(os.Stdout, &slog.HandlerOptions{Level: slog.LevelDebug}))

	mockService := new(MockService)
	mockService.On("Export", mock.Anything, mock.AnythingOfType("models.SubscriptionFilter")).
		Return(sampleRecords(t), nil)

	handler := New(logger, mockService)

	req := httptest.NewRequest(http.MethodGet, "/subscriptions/export", nil)
	w := httptest.NewRecorder()
	handler.ServeHTTP(w, req)

	assert.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "text/csv", w.Header().Get("Content-Type"))
	assert.Contains(t, w.Header().Get("Content-Disposition"), "attachment")
	assert.Contains(t, w.Body.String(), "uid,phone_number,email")
	assert.Contains(t, w.Body.String(), "2024-01-31")
	mockService.AssertExpectations(t)
}

func TestExportJSON(t *testing.T) {
	logger := slog.New(slog.NewTextHandler(os.Stdout, &slog.HandlerOptions{Level: slog.LevelDebug}))

	mockService := new(MockService)
	mockService.On("Export", mock.Anything, mock.AnythingOfType("models.SubscriptionFilter")).
		Return(sampleRecords(t), nil)

	handler := New(logger, mockService)

	req := httptest.NewRequest(http.MethodGet, "/subscriptions/export?format=json", nil)
	w := httptest.NewRecorder()
	handler.ServeHTTP(w, req)

	assert.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), `"count":1`)
	assert.Contains(t, w.Body.String(), `"date_of_subscription":"2024-01-01"`)
}

func TestExportRejectsBadFilter(t *testing.T) {
	logger := slog.New(slog.NewTextHandler(os.Stdout, &slog.HandlerOptions{Level: slog.LevelDebug}))

	mockService := new(MockService)
	handler := New(logger, mockService)

	req := httptest.NewRequest(http.MethodGet, "/subscriptions/export?agreed_refused=Maybe", nil)
	w := httptest.NewRecorder()
	handler.ServeHTTP(w, req)

	assert.Equal(t, http.StatusBadRequest, w.Code)
	mockService.AssertNotCalled(t, "Export")
}
