package geographic

import (
	"bytes"
	"context"
	"encoding/json"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"os"
	"testing"

	"github.com/go-chi/chi"
	"github.com/stretchr/testify/assert"
)

func newHandler() *Handler {
	logger := slog.New(slog.NewTextHandler(os.Stdout, &slog.HandlerOptions{Level: slog.LevelDebug}))
	return New(logger)
}

func TestDistricts(t *testing.T) {
	w := httptest.NewRecorder()
	newHandler().Districts(w, httptest.NewRequest(http.MethodGet, "/geographic/districts", nil))

	assert.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), "Gasabo")
	assert.Contains(t, w.Body.String(), "Kicukiro")
	assert.Contains(t, w.Body.String(), "Nyarugenge")
}

func TestSectors(t *testing.T) {
	tests := []struct {
		name           string
		district       string
		expectedStatus int
		expectedBody   string
	}{
		{"known district", "Gasabo", http.StatusOK, "Remera"},
		{"unknown district", "Nairobi", http.StatusNotFound, "unknown district"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := httptest.NewRequest(http.MethodGet, "/geographic/sectors/"+tt.district, nil)
			rctx := chi.NewRouteContext()
			rctx.URLParams.Add("district", tt.district)
			req = req.WithContext(context.WithValue(req.Context(), chi.RouteCtxKey, rctx))

			w := httptest.NewRecorder()
			newHandler().Sectors(w, req)

			assert.Equal(t, tt.expectedStatus, w.Code)
			assert.Contains(t, w.Body.String(), tt.expectedBody)
		})
	}
}

func TestCells(t *testing.T) {
	req := httptest.NewRequest(http.MethodGet, "/geographic/cells/Gasabo/Remera", nil)
	rctx := chi.NewRouteContext()
	rctx.URLParams.Add("district", "Gasabo")
	rctx.URLParams.Add("sector", "Remera")
	req = req.WithContext(context.WithValue(req.Context(), chi.RouteCtxKey, rctx))

	w := httptest.NewRecorder()
	newHandler().Cells(w, req)

	assert.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), "Rukiri")
}

func TestValidateLocation(t *testing.T) {
	tests := []struct {
		name           string
		requestBody    interface{}
		expectedStatus int
		expectedBody   string
	}{
		{
			name:           "valid triple",
			requestBody:    DummyLocation{Area: "Gasabo", Location: "Remera", Cell: "Rukiri"},
			expectedStatus: http.StatusOK,
			expectedBody:   `"valid":true`,
		},
		{
			name:           "cell optional",
			requestBody:    DummyLocation{Area: "Gasabo", Location: "Remera"},
			expectedStatus: http.StatusOK,
			expectedBody:   `"valid":true`,
		},
		{
			name:           "sector from another city",
			requestBody:    DummyLocation{Area: "Gasabo", Location: "Nairobi"},
			expectedStatus: http.StatusBadRequest,
			expectedBody:   `invalid location`,
		},
		{
			name:           "missing fields",
			requestBody:    DummyLocation{},
			expectedStatus: http.StatusUnprocessableEntity,
			expectedBody:   `field Area is a required field`,
		},
		{
			name:           "invalid JSON",
			requestBody:    "not a json",
			expectedStatus: http.StatusBadRequest,
			expectedBody:   `invalid request body`,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var body []byte
			var err error
			if str, ok := tt.requestBody.(string); ok {
				body = []byte(str)
			} else {
				body, err = json.Marshal(tt.requestBody)
				assert.NoError(t, err)
			}

			req := httptest.NewRequest(http.MethodPost, "/geographic/validate", bytes.NewReader(body))
			req.Header.Set("Content-Type", "application/json")

			w := httptest.NewRecorder()
			newHandler().Validate(w, req)

			assert.Equal(t, tt.expectedStatus, w.Code)
			assert.Contains(t, w.Body.String(), tt.expectedBody)
		})
	}
}
