package register

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"os"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"

	"github.com/hirwa-dev/subscription-manager/internal/models"
	"github.com/hirwa-dev/subscription-manager/internal/storage/repository"
)

// MockService implements register.Service.
type MockService struct {
	mock.Mock
}

func (m *MockService) Register(ctx context.Context, req models.DummyRegister) (string, error) {
	args := m.Called(ctx, req)
	return args.String(0), args.Error(1)
}

func TestRegisterHandler(t *testing.T) {
	logger := slog.New(slog.NewTextHandler(os.Stdout, &slog.HandlerOptions{Level: slog.LevelDebug}))

	tests := []struct {
		name           string
		requestBody    interface{}
		setupMock      func(*MockService)
		expectedStatus int
		expectedBody   string
	}{
		{
			name:        "successful registration",
			requestBody: models.DummyRegister{Username: "john", Email: "john@example.com", Password: "secretpass"},
			setupMock: func(m *MockService) {
				m.On("Register", mock.Anything, mock.AnythingOfType("models.DummyRegister")).
					Return("uid-1", nil)
			},
			expectedStatus: http.StatusCreated,
			expectedBody:   `"uid":"uid-1"`,
		},
		{
			name:           "invalid JSON",
			requestBody:    "not a json",
			setupMock:      func(_ *MockService) {},
			expectedStatus: http.StatusBadRequest,
			expectedBody:   `{"status":"Error","error":"invalid request body"}`,
		},
		{
			name:           "invalid email",
			requestBody:    models.DummyRegister{Username: "john", Email: "not-an-email", Password: "secretpass"},
			setupMock:      func(_ *MockService) {},
			expectedStatus: http.StatusUnprocessableEntity,
			expectedBody:   `field Email must be a valid email address`,
		},
		{
			name:           "invalid role",
			requestBody:    models.DummyRegister{Username: "john", Email: "john@example.com", Password: "secretpass", Role: "root"},
			setupMock:      func(_ *MockService) {},
			expectedStatus: http.StatusUnprocessableEntity,
			expectedBody:   `field Role must be one of: admin user`,
		},
		{
			name:        "duplicate username",
			requestBody: models.DummyRegister{Username: "john", Email: "john@example.com", Password: "secretpass"},
			setupMock: func(m *MockService) {
				m.On("Register", mock.Anything, mock.AnythingOfType("models.DummyRegister")).
					Return("", repository.ErrDuplicateUsername)
			},
			expectedStatus: http.StatusBadRequest,
			expectedBody:   `{"status":"Error","error":"username already taken"}`,
		},
		{
			name:        "duplicate email",
			requestBody: models.DummyRegister{Username: "john", Email: "john@example.com", Password: "secretpass"},
			setupMock: func(m *MockService) {
				m.On("Register", mock.Anything, mock.AnythingOfType("models.DummyRegister")).
					Return("", repository.ErrDuplicateEmail)
			},
			expectedStatus: http.StatusBadRequest,
			expectedBody:   `{"status":"Error","error":"email already taken"}`,
		},
		{
			name:        "service failure",
			requestBody: models.DummyRegister{Username: "john", Email: "john@example.com", Password: "secretpass"},
			setupMock: func(m *MockService) {
				m.On("Register", mock.Anything, mock.AnythingOfType("models.DummyRegister")).
					Return("", errors.New("db error"))
			},
			expectedStatus: http.StatusInternalServerError,
			expectedBody:   `{"status":"Error","error":"could not register user"}`,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			mockService := new(MockService)
			tt.setupMock(mockService)

			handler := New(logger, mockService)

			var body []byte
			var err error
			if str, ok := tt.requestBody.(string); ok {
				body = []byte(str)
			} else {
				body, err = json.Marshal(tt.requestBody)
				assert.NoError(t, err)
			}

			req := httptest.NewRequest(http.MethodPost, "/auth/register", bytes.NewReader(body))
			req.Header.Set("Content-Type", "application/json")

			w := httptest.NewRecorder()
			handler.ServeHTTP(w, req)

			assert.Equal(t, tt.expectedStatus, w.Code)
			assert.Contains(t, w.Body.String(), tt.expectedBody)

			mockService.AssertExpectations(t)
		})
	}
}
