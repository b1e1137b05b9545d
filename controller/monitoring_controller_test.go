// api/controller/monitoring_controller_test.go
package controller_test

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	testify_mock "github.com/stretchr/testify/mock"

	"github.com/openspectrum/sas-registry/controller"
	logger "github.com/openspectrum/sas-registry/logging"
	"github.com/openspectrum/sas-registry/model"
	"github.com/openspectrum/sas-registry/test/mock"
)

func TestMonitoringController(t *testing.T) {
	logger.InitLogger(t.TempDir())
	defer logger.Sync()

	mockMonitoringService := new(mock.MockMonitoringService)
	monitoringController := controller.NewMonitoringController(mockMonitoringService)
	router := setupRouter()
	monitoringController.RegisterRoutes(router)

	t.Run("Health", func(t *testing.T) {
		w := httptest.NewRecorder()
		req, _ := http.NewRequest("GET", "/health", nil)
		router.ServeHTTP(w, req)

		assert.Equal(t, http.StatusOK, w.Code)

		var resp map[string]interface{}
		assert.NoError(t, json.NewDecoder(w.Body).Decode(&resp))
		assert.Equal(t, "healthy", resp["status"])
		assert.Equal(t, "1.0.0", resp["version"])
		assert.NotEmpty(t, resp["timestamp"])
	})

	t.Run("Stats", func(t *testing.T) {
		mockMonitoringService.On("Stats", testify_mock.Anything).
			Return(&model.Stats{
				TotalCbsds:    2,
				TotalGrants:   3,
				TotalEvents:   7,
				AuthorizedSAS: 1,
				Timestamp:     "2026-09-01T00:00:00Z",
			}, nil).Once()

		w := httptest.NewRecorder()
		req, _ := http.NewRequest("GET", "/stats", nil)
		router.ServeHTTP(w, req)

		assert.Equal(t, http.StatusOK, w.Code)

		var resp model.Stats
		assert.NoError(t, json.NewDecoder(w.Body).Decode(&resp))
		assert.Equal(t, int64(2), resp.TotalCbsds)
		assert.Equal(t, int64(7), resp.TotalEvents)
	})

	t.Run("RecentEvents_DefaultLimit", func(t *testing.T) {
		mockMonitoringService.On("RecentEvents", testify_mock.Anything, 10).
			Return([]model.Event{{ID: 1, EventType: model.EventCbsdRegistered}}, nil).Once()

		w := httptest.NewRecorder()
		req, _ := http.NewRequest("GET", "/events/recent", nil)
		router.ServeHTTP(w, req)

		assert.Equal(t, http.StatusOK, w.Code)

		var resp struct {
			Events []model.Event `json:"events"`
			Count  int           `json:"count"`
		}
		assert.NoError(t, json.NewDecoder(w.Body).Decode(&resp))
		assert.Equal(t, 1, resp.Count)
		assert.Len(t, resp.Events, 1)
	})

	t.Run("RecentEvents_ExplicitLimit", func(t *testing.T) {
		mockMonitoringService.On("RecentEvents", testify_mock.Anything, 3).
			Return([]model.Event{}, nil).Once()

		w := httptest.NewRecorder()
		req, _ := http.NewRequest("GET", "/events/recent?limit=3", nil)
		router.ServeHTTP(w, req)

		assert.Equal(t, http.StatusOK, w.Code)
	})

	t.Run("RecentEvents_InvalidLimit", func(t *testing.T) {
		w := httptest.NewRecorder()
		req, _ := http.NewRequest("GET", "/events/recent?limit=abc", nil)
		router.ServeHTTP(w, req)

		assert.Equal(t, http.StatusBadRequest, w.Code)
	})

	mockMonitoringService.AssertExpectations(t)
}
