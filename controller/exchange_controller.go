// api/controller/exchange_controller.go
package controller

import (
	"net/http"
	"sync"

	"github.com/gin-gonic/gin"

	sas_errors "github.com/openspectrum/sas-registry/errors"
	"github.com/openspectrum/sas-registry/model"
	"github.com/openspectrum/sas-registry/service"
	"github.com/openspectrum/sas-registry/util"
)

// ExchangeController serves the push-style SAS-SAS record exchange:
// record GET/POST keyed by serial number, the simplified zone exchange
// and the full activity dump.
type ExchangeController struct {
	cbsdService       service.ICbsdService
	monitoringService service.IMonitoringService

	zoneMu sync.RWMutex
	zones  map[string]model.ZoneRecord
}

func NewExchangeController(cbsdService service.ICbsdService, monitoringService service.IMonitoringService) *ExchangeController {
	return &ExchangeController{
		cbsdService:       cbsdService,
		monitoringService: monitoringService,
		zones:             make(map[string]model.ZoneRecord),
	}
}

// RegisterRoutes registers the exchange routes
func (ec *ExchangeController) RegisterRoutes(r *gin.RouterGroup) {
	r.GET("/cbsd/:id", ec.GetCbsdRecord)
	r.POST("/cbsd/:id", ec.PushCbsdRecord)
	r.GET("/zone/:id", ec.GetZoneRecord)
	r.POST("/zone/:id", ec.PushZoneRecord)
	r.GET("/dump", ec.ActivityDump)
}

// GetCbsdRecord endpoint
func (ec *ExchangeController) GetCbsdRecord(c *gin.Context) {
	serialNumber := c.Param("id")

	cbsd, err := ec.cbsdService.GetBySerial(c, serialNumber)
	if err != nil {
		if err == sas_errors.ErrCbsdNotFound {
			util.RespondWithError(c, http.StatusNotFound, "CBSD not found", err)
		} else {
			util.RespondWithError(c, http.StatusInternalServerError, "Failed to retrieve CBSD record", err)
		}
		return
	}

	c.JSON(http.StatusOK, gin.H{"cbsd": model.CbsdRecord{
		ID:               cbsd.CbsdSerialNumber,
		FccID:            cbsd.FccID,
		UserID:           cbsd.UserID,
		CbsdSerialNumber: cbsd.CbsdSerialNumber,
		CallSign:         cbsd.CallSign,
		CbsdCategory:     cbsd.CbsdCategory,
		AirInterface:     cbsd.AirInterface,
		MeasCapability:   cbsd.MeasCapability,
		EirpCapability:   cbsd.EirpCapability,
		Latitude:         cbsd.Latitude,
		Longitude:        cbsd.Longitude,
		Height:           cbsd.Height,
		HeightType:       cbsd.HeightType,
		IndoorDeployment: cbsd.IndoorDeployment,
		AntennaGain:      cbsd.AntennaGain,
		AntennaBeamwidth: cbsd.AntennaBeamwidth,
		AntennaAzimuth:   cbsd.AntennaAzimuth,
		GroupingParam:    cbsd.GroupingParam,
		CbsdAddress:      cbsd.CbsdAddress,
	}})
}

// PushCbsdRecord endpoint
func (ec *ExchangeController) PushCbsdRecord(c *gin.Context) {
	serialNumber := c.Param("id")

	var record model.CbsdRecord
	if err := c.ShouldBindJSON(&record); err != nil {
		util.RespondWithError(c, http.StatusBadRequest, "Invalid CBSD record", sas_errors.ErrInvalidCbsdData)
		return
	}

	created, err := ec.cbsdService.Push(c, serialNumber, record)
	if err != nil {
		switch err {
		case sas_errors.ErrCbsdConflict:
			util.RespondWithError(c, http.StatusBadRequest, "CBSD record conflicts with an existing registration", err)
		case sas_errors.ErrDatabaseOperation:
			util.RespondWithError(c, http.StatusInternalServerError, "Database operation failed", err)
		default:
			util.RespondWithError(c, http.StatusInternalServerError, "Failed to store CBSD record", sas_errors.ErrInternalServer)
		}
		return
	}

	message := "CBSD record updated"
	if created {
		message = "CBSD record created"
	}
	c.JSON(http.StatusOK, gin.H{
		"success": true,
		"message": message,
	})
}

// GetZoneRecord endpoint
func (ec *ExchangeController) GetZoneRecord(c *gin.Context) {
	zoneID := c.Param("id")

	ec.zoneMu.RLock()
	zone, ok := ec.zones[zoneID]
	ec.zoneMu.RUnlock()

	if !ok {
		// Zones are not persisted; unknown ids answer with an empty
		// protected-zone placeholder like the reference exchange.
		zone = model.ZoneRecord{
			ID:       zoneID,
			Name:     "Zone Example",
			Type:     "protected",
			Geometry: map[string]interface{}{},
		}
	}

	c.JSON(http.StatusOK, gin.H{"zone": zone})
}

// PushZoneRecord endpoint
func (ec *ExchangeController) PushZoneRecord(c *gin.Context) {
	zoneID := c.Param("id")

	var record model.ZoneRecord
	if err := c.ShouldBindJSON(&record); err != nil {
		util.RespondWithError(c, http.StatusBadRequest, "Invalid zone record", sas_errors.ErrInvalidSASData)
		return
	}
	record.ID = zoneID

	ec.zoneMu.Lock()
	ec.zones[zoneID] = record
	ec.zoneMu.Unlock()

	c.JSON(http.StatusOK, gin.H{
		"success": true,
		"message": "Zone record stored",
	})
}

// ActivityDump endpoint
func (ec *ExchangeController) ActivityDump(c *gin.Context) {
	dump, err := ec.monitoringService.ActivityDump(c)
	if err != nil {
		util.RespondWithError(c, http.StatusInternalServerError, "Failed to assemble activity dump", err)
		return
	}

	c.JSON(http.StatusOK, dump)
}
