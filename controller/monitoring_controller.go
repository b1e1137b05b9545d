// api/controller/monitoring_controller.go
package controller

import (
	"net/http"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"

	sas_errors "github.com/openspectrum/sas-registry/errors"
	"github.com/openspectrum/sas-registry/service"
	"github.com/openspectrum/sas-registry/util"
)

const apiVersion = "1.0.0"

type MonitoringController struct {
	monitoringService service.IMonitoringService
}

func NewMonitoringController(monitoringService service.IMonitoringService) *MonitoringController {
	return &MonitoringController{
		monitoringService: monitoringService,
	}
}

// RegisterRoutes registers the monitoring routes at the engine root
func (mc *MonitoringController) RegisterRoutes(r *gin.Engine) {
	r.GET("/health", mc.Health)
	r.GET("/stats", mc.Stats)
	r.GET("/events/recent", mc.RecentEvents)
}

// Health endpoint
func (mc *MonitoringController) Health(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{
		"status":    "healthy",
		"timestamp": time.Now().UTC().Format(time.RFC3339),
		"version":   apiVersion,
	})
}

// Stats endpoint
func (mc *MonitoringController) Stats(c *gin.Context) {
	stats, err := mc.monitoringService.Stats(c)
	if err != nil {
		util.RespondWithError(c, http.StatusInternalServerError, "Failed to gather stats", err)
		return
	}

	c.JSON(http.StatusOK, stats)
}

// RecentEvents endpoint
func (mc *MonitoringController) RecentEvents(c *gin.Context) {
	limit, err := strconv.Atoi(c.DefaultQuery("limit", "10"))
	if err != nil {
		util.RespondWithError(c, http.StatusBadRequest, "Invalid limit parameter", sas_errors.ErrInvalidPagination)
		return
	}

	events, err := mc.monitoringService.RecentEvents(c, limit)
	if err != nil {
		util.RespondWithError(c, http.StatusInternalServerError, "Failed to list recent events", err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"events": events,
		"count":  len(events),
	})
}
