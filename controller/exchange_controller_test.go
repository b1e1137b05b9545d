// api/controller/exchange_controller_test.go
package controller_test

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	testify_mock "github.com/stretchr/testify/mock"

	"github.com/openspectrum/sas-registry/controller"
	sas_errors "github.com/openspectrum/sas-registry/errors"
	logger "github.com/openspectrum/sas-registry/logging"
	"github.com/openspectrum/sas-registry/model"
	"github.com/openspectrum/sas-registry/test/mock"
)

const cbsdRecordBody = `{
	"id": "SN200",
	"fccId": "FCC200",
	"userId": "user-2",
	"cbsdSerialNumber": "SN200",
	"cbsdCategory": "B",
	"heightType": "AMSL"
}`

func TestExchangeController(t *testing.T) {
	logger.InitLogger(t.TempDir())
	defer logger.Sync()

	mockCbsdService := new(mock.MockCbsdService)
	mockMonitoringService := new(mock.MockMonitoringService)
	exchangeController := controller.NewExchangeController(mockCbsdService, mockMonitoringService)
	router := setupRouter()
	v13 := router.Group("/v1.3")
	exchangeController.RegisterRoutes(v13)

	t.Run("GetCbsdRecord_Success", func(t *testing.T) {
		mockCbsdService.On("GetBySerial", testify_mock.Anything, "SN200").
			Return(&model.Cbsd{FccID: "FCC200", CbsdSerialNumber: "SN200"}, nil).Once()

		w := httptest.NewRecorder()
		req, _ := http.NewRequest("GET", "/v1.3/cbsd/SN200", nil)
		router.ServeHTTP(w, req)

		assert.Equal(t, http.StatusOK, w.Code)

		var resp struct {
			Cbsd model.CbsdRecord `json:"cbsd"`
		}
		assert.NoError(t, json.NewDecoder(w.Body).Decode(&resp))
		assert.Equal(t, "SN200", resp.Cbsd.ID)
		assert.Equal(t, "FCC200", resp.Cbsd.FccID)
	})

	t.Run("GetCbsdRecord_NotFound", func(t *testing.T) {
		mockCbsdService.On("GetBySerial", testify_mock.Anything, "SN404").
			Return(nil, sas_errors.ErrCbsdNotFound).Once()

		w := httptest.NewRecorder()
		req, _ := http.NewRequest("GET", "/v1.3/cbsd/SN404", nil)
		router.ServeHTTP(w, req)

		assert.Equal(t, http.StatusNotFound, w.Code)
	})

	t.Run("PushCbsdRecord_Created", func(t *testing.T) {
		mockCbsdService.On("Push", testify_mock.Anything, "SN200", testify_mock.Anything).
			Return(true, nil).Once()

		w := httptest.NewRecorder()
		req, _ := http.NewRequest("POST", "/v1.3/cbsd/SN200", strings.NewReader(cbsdRecordBody))
		router.ServeHTTP(w, req)

		assert.Equal(t, http.StatusOK, w.Code)

		var resp map[string]interface{}
		assert.NoError(t, json.NewDecoder(w.Body).Decode(&resp))
		assert.Equal(t, true, resp["success"])
		assert.Equal(t, "CBSD record created", resp["message"])
	})

	t.Run("PushCbsdRecord_Updated", func(t *testing.T) {
		mockCbsdService.On("Push", testify_mock.Anything, "SN200", testify_mock.Anything).
			Return(false, nil).Once()

		w := httptest.NewRecorder()
		req, _ := http.NewRequest("POST", "/v1.3/cbsd/SN200", strings.NewReader(cbsdRecordBody))
		router.ServeHTTP(w, req)

		assert.Equal(t, http.StatusOK, w.Code)

		var resp map[string]interface{}
		assert.NoError(t, json.NewDecoder(w.Body).Decode(&resp))
		assert.Equal(t, "CBSD record updated", resp["message"])
	})

	t.Run("PushCbsdRecord_InvalidBody", func(t *testing.T) {
		w := httptest.NewRecorder()
		req, _ := http.NewRequest("POST", "/v1.3/cbsd/SN200", strings.NewReader(`{"fccId":"FCC200"}`))
		router.ServeHTTP(w, req)

		assert.Equal(t, http.StatusBadRequest, w.Code)
	})

	t.Run("ZoneRoundTrip", func(t *testing.T) {
		body := strings.NewReader(`{"id":"zone-1","name":"Coastal DPA","type":"protected","geometry":{"type":"Polygon"}}`)
		w := httptest.NewRecorder()
		req, _ := http.NewRequest("POST", "/v1.3/zone/zone-1", body)
		router.ServeHTTP(w, req)

		assert.Equal(t, http.StatusOK, w.Code)

		w = httptest.NewRecorder()
		req, _ = http.NewRequest("GET", "/v1.3/zone/zone-1", nil)
		router.ServeHTTP(w, req)

		assert.Equal(t, http.StatusOK, w.Code)

		var resp struct {
			Zone model.ZoneRecord `json:"zone"`
		}
		assert.NoError(t, json.NewDecoder(w.Body).Decode(&resp))
		assert.Equal(t, "zone-1", resp.Zone.ID)
		assert.Equal(t, "Coastal DPA", resp.Zone.Name)
	})

	t.Run("ZoneUnknownReturnsPlaceholder", func(t *testing.T) {
		w := httptest.NewRecorder()
		req, _ := http.NewRequest("GET", "/v1.3/zone/zone-unknown", nil)
		router.ServeHTTP(w, req)

		assert.Equal(t, http.StatusOK, w.Code)

		var resp struct {
			Zone model.ZoneRecord `json:"zone"`
		}
		assert.NoError(t, json.NewDecoder(w.Body).Decode(&resp))
		assert.Equal(t, "zone-unknown", resp.Zone.ID)
		assert.Equal(t, "protected", resp.Zone.Type)
	})

	t.Run("ActivityDump", func(t *testing.T) {
		mockMonitoringService.On("ActivityDump", testify_mock.Anything).
			Return(&model.ActivityDump{
				GeneratedAt: "2026-09-01T00:00:00Z",
				Cbsds:       []model.Cbsd{{FccID: "FCC200", CbsdSerialNumber: "SN200"}},
				Grants:      []model.Grant{},
				Totals:      model.Stats{TotalCbsds: 1},
			}, nil).Once()

		w := httptest.NewRecorder()
		req, _ := http.NewRequest("GET", "/v1.3/dump", nil)
		router.ServeHTTP(w, req)

		assert.Equal(t, http.StatusOK, w.Code)

		var resp model.ActivityDump
		assert.NoError(t, json.NewDecoder(w.Body).Decode(&resp))
		assert.Len(t, resp.Cbsds, 1)
		assert.Equal(t, int64(1), resp.Totals.TotalCbsds)
	})

	mockCbsdService.AssertExpectations(t)
	mockMonitoringService.AssertExpectations(t)
}
