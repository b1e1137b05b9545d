// api/controller/grant_controller_test.go
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

const grantBody = `{
	"fccId": "FCC001",
	"cbsdSerialNumber": "SN001",
	"channelType": "GAA",
	"maxEirp": 20,
	"lowFrequency": 3550000000,
	"highFrequency": 3560000000
}`

func TestGrantController(t *testing.T) {
	logger.InitLogger(t.TempDir())
	defer logger.Sync()

	mockGrantService := new(mock.MockGrantService)
	grantController := controller.NewGrantController(mockGrantService)
	router := setupRouter()
	v13 := router.Group("/v1.3")
	grantController.RegisterRoutes(v13)

	t.Run("Grant_Success", func(t *testing.T) {
		mockGrantService.On("Create", testify_mock.Anything, testify_mock.Anything, "sas.peer.example.com").
			Return(&model.Grant{
				GrantID:          "grant_FCC001_SN001_0badcafe",
				FccID:            "FCC001",
				CbsdSerialNumber: "SN001",
				ChannelType:      "GAA",
				MaxEirp:          20,
			}, nil).Once()

		w := httptest.NewRecorder()
		req, _ := http.NewRequest("POST", "/v1.3/grant", strings.NewReader(grantBody))
		req.Header.Set("X-SAS-Address", "sas.peer.example.com")
		router.ServeHTTP(w, req)

		assert.Equal(t, http.StatusOK, w.Code)

		var resp model.GrantResponse
		assert.NoError(t, json.NewDecoder(w.Body).Decode(&resp))
		assert.Equal(t, 0, resp.ResponseCode)
		assert.Equal(t, "SN001", resp.CbsdID)
		assert.Equal(t, "grant_FCC001_SN001_0badcafe", resp.GrantResponse["grantId"])
		assert.Equal(t, "SUCCESS", resp.GrantResponse["grant"])
	})

	t.Run("Grant_MissingHeader", func(t *testing.T) {
		w := httptest.NewRecorder()
		req, _ := http.NewRequest("POST", "/v1.3/grant", strings.NewReader(grantBody))
		router.ServeHTTP(w, req)

		assert.Equal(t, http.StatusBadRequest, w.Code)
	})

	t.Run("Grant_UnknownDevice", func(t *testing.T) {
		mockGrantService.On("Create", testify_mock.Anything, testify_mock.Anything, "sas.peer.example.com").
			Return(nil, sas_errors.ErrCbsdNotFound).Once()

		w := httptest.NewRecorder()
		req, _ := http.NewRequest("POST", "/v1.3/grant", strings.NewReader(grantBody))
		req.Header.Set("X-SAS-Address", "sas.peer.example.com")
		router.ServeHTTP(w, req)

		assert.Equal(t, http.StatusNotFound, w.Code)
	})

	t.Run("Grant_UnauthorizedSAS", func(t *testing.T) {
		mockGrantService.On("Create", testify_mock.Anything, testify_mock.Anything, "sas.rogue.example.com").
			Return(nil, sas_errors.ErrSASNotAuthorized).Once()

		w := httptest.NewRecorder()
		req, _ := http.NewRequest("POST", "/v1.3/grant", strings.NewReader(grantBody))
		req.Header.Set("X-SAS-Address", "sas.rogue.example.com")
		router.ServeHTTP(w, req)

		assert.Equal(t, http.StatusForbidden, w.Code)
	})

	t.Run("Relinquishment_Success", func(t *testing.T) {
		mockGrantService.On("Relinquish", testify_mock.Anything, testify_mock.Anything, "sas.peer.example.com").
			Return(nil).Once()

		body := strings.NewReader(`{"fccId":"FCC001","cbsdSerialNumber":"SN001","grantId":"grant_FCC001_SN001_0badcafe"}`)
		w := httptest.NewRecorder()
		req, _ := http.NewRequest("POST", "/v1.3/relinquishment", body)
		req.Header.Set("X-SAS-Address", "sas.peer.example.com")
		router.ServeHTTP(w, req)

		assert.Equal(t, http.StatusOK, w.Code)

		var resp model.RelinquishmentResponse
		assert.NoError(t, json.NewDecoder(w.Body).Decode(&resp))
		assert.Equal(t, "SUCCESS", resp.RelinquishmentResponse["relinquishment"])
	})

	t.Run("Relinquishment_AlreadyTerminated", func(t *testing.T) {
		mockGrantService.On("Relinquish", testify_mock.Anything, testify_mock.Anything, "sas.peer.example.com").
			Return(sas_errors.ErrGrantTerminated).Once()

		body := strings.NewReader(`{"fccId":"FCC001","cbsdSerialNumber":"SN001","grantId":"grant_FCC001_SN001_0badcafe"}`)
		w := httptest.NewRecorder()
		req, _ := http.NewRequest("POST", "/v1.3/relinquishment", body)
		req.Header.Set("X-SAS-Address", "sas.peer.example.com")
		router.ServeHTTP(w, req)

		assert.Equal(t, http.StatusBadRequest, w.Code)
	})

	t.Run("Relinquishment_GrantNotFound", func(t *testing.T) {
		mockGrantService.On("Relinquish", testify_mock.Anything, testify_mock.Anything, "sas.peer.example.com").
			Return(sas_errors.ErrGrantNotFound).Once()

		body := strings.NewReader(`{"fccId":"FCC001","cbsdSerialNumber":"SN001","grantId":"grant_FCC001_SN001_deadbeef"}`)
		w := httptest.NewRecorder()
		req, _ := http.NewRequest("POST", "/v1.3/relinquishment", body)
		req.Header.Set("X-SAS-Address", "sas.peer.example.com")
		router.ServeHTTP(w, req)

		assert.Equal(t, http.StatusNotFound, w.Code)
	})

	t.Run("ListGrants_Success", func(t *testing.T) {
		grants := []model.Grant{
			{GrantID: "grant_FCC001_SN001_0badcafe", ChannelType: "GAA"},
			{GrantID: "grant_FCC001_SN001_1badcafe", ChannelType: "PAL"},
		}
		mockGrantService.On("ListForDevice", testify_mock.Anything, "FCC001", "SN001").
			Return(grants, nil).Once()

		w := httptest.NewRecorder()
		req, _ := http.NewRequest("GET", "/v1.3/grants/FCC001/SN001", nil)
		router.ServeHTTP(w, req)

		assert.Equal(t, http.StatusOK, w.Code)

		var resp struct {
			Grants []model.Grant `json:"grants"`
		}
		assert.NoError(t, json.NewDecoder(w.Body).Decode(&resp))
		assert.Len(t, resp.Grants, 2)
	})

	mockGrantService.AssertExpectations(t)
}
