// api/controller/sas_controller.go
package controller

import (
	"fmt"
	"net/http"

	"github.com/gin-gonic/gin"

	sas_errors "github.com/openspectrum/sas-registry/errors"
	"github.com/openspectrum/sas-registry/model"
	"github.com/openspectrum/sas-registry/service"
	"github.com/openspectrum/sas-registry/util"
)

type SASController struct {
	sasAuthService service.ISASAuthorizationService
}

func NewSASController(sasAuthService service.ISASAuthorizationService) *SASController {
	return &SASController{
		sasAuthService: sasAuthService,
	}
}

// RegisterRoutes registers the peer-SAS administration routes
func (sc *SASController) RegisterRoutes(r *gin.RouterGroup) {
	r.POST("/authorize", sc.Authorize)
	r.POST("/revoke", sc.Revoke)
	r.GET("/:address/authorized", sc.CheckAuthorization)
}

// Authorize endpoint
func (sc *SASController) Authorize(c *gin.Context) {
	var req model.SASAuthorizationRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		util.RespondWithError(c, http.StatusBadRequest, "Invalid authorization data", sas_errors.ErrInvalidSASData)
		return
	}

	if err := sc.sasAuthService.Authorize(c, req.SASAddress); err != nil {
		switch err {
		case sas_errors.ErrInvalidSASData:
			util.RespondWithError(c, http.StatusBadRequest, "Invalid authorization data", err)
		case sas_errors.ErrDatabaseOperation:
			util.RespondWithError(c, http.StatusInternalServerError, "Database operation failed", err)
		default:
			util.RespondWithError(c, http.StatusInternalServerError, "Failed to authorize SAS", sas_errors.ErrInternalServer)
		}
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"success": true,
		"message": fmt.Sprintf("SAS %s authorized", req.SASAddress),
	})
}

// Revoke endpoint
func (sc *SASController) Revoke(c *gin.Context) {
	var req model.SASAuthorizationRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		util.RespondWithError(c, http.StatusBadRequest, "Invalid revocation data", sas_errors.ErrInvalidSASData)
		return
	}

	if err := sc.sasAuthService.Revoke(c, req.SASAddress); err != nil {
		switch err {
		case sas_errors.ErrInvalidSASData:
			util.RespondWithError(c, http.StatusBadRequest, "Invalid revocation data", err)
		case sas_errors.ErrDatabaseOperation:
			util.RespondWithError(c, http.StatusInternalServerError, "Database operation failed", err)
		default:
			util.RespondWithError(c, http.StatusInternalServerError, "Failed to revoke SAS", sas_errors.ErrInternalServer)
		}
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"success": true,
		"message": fmt.Sprintf("SAS %s revoked", req.SASAddress),
	})
}

// CheckAuthorization endpoint
func (sc *SASController) CheckAuthorization(c *gin.Context) {
	address := c.Param("address")

	authorized, err := sc.sasAuthService.IsAuthorized(c, address)
	if err != nil {
		util.RespondWithError(c, http.StatusInternalServerError, "Failed to check SAS authorization", err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"sas_address": address,
		"authorized":  authorized,
	})
}
