// api/controller/grant_controller.go
package controller

import (
	"net/http"

	"github.com/gin-gonic/gin"

	sas_errors "github.com/openspectrum/sas-registry/errors"
	"github.com/openspectrum/sas-registry/middleware"
	"github.com/openspectrum/sas-registry/model"
	"github.com/openspectrum/sas-registry/service"
	"github.com/openspectrum/sas-registry/util"
)

type GrantController struct {
	grantService service.IGrantService
}

func NewGrantController(grantService service.IGrantService) *GrantController {
	return &GrantController{
		grantService: grantService,
	}
}

// RegisterRoutes registers the spectrum grant routes
func (gc *GrantController) RegisterRoutes(r *gin.RouterGroup) {
	r.POST("/grant", middleware.RequireSASAddress(), gc.Grant)
	r.POST("/relinquishment", middleware.RequireSASAddress(), gc.Relinquishment)
	r.GET("/grants/:fccId/:serialNumber", gc.ListGrants)
}

// Grant endpoint
func (gc *GrantController) Grant(c *gin.Context) {
	var req model.GrantRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		util.RespondWithError(c, http.StatusBadRequest, "Invalid grant data", sas_errors.ErrInvalidGrantData)
		return
	}
	sasAddress, err := util.GetSASAddressFromContext(c)
	if err != nil {
		util.RespondWithError(c, http.StatusBadRequest, "Missing X-SAS-Address header", err)
		return
	}

	grant, err := gc.grantService.Create(c, req, sasAddress)
	if err != nil {
		switch err {
		case sas_errors.ErrSASNotAuthorized:
			util.RespondWithError(c, http.StatusForbidden, "SAS not authorized", err)
		case sas_errors.ErrCbsdNotFound:
			util.RespondWithError(c, http.StatusNotFound, "CBSD not registered", err)
		case sas_errors.ErrInvalidGrantData:
			util.RespondWithError(c, http.StatusBadRequest, "Invalid grant data", err)
		case sas_errors.ErrDatabaseOperation:
			util.RespondWithError(c, http.StatusInternalServerError, "Database operation failed", err)
		default:
			util.RespondWithError(c, http.StatusInternalServerError, "Failed to create grant", sas_errors.ErrInternalServer)
		}
		return
	}

	c.JSON(http.StatusOK, model.GrantResponse{
		ResponseCode: 0,
		CbsdID:       grant.CbsdSerialNumber,
		GrantResponse: map[string]interface{}{
			"cbsdId":          grant.CbsdSerialNumber,
			"grantId":         grant.GrantID,
			"grant":           "SUCCESS",
			"channelType":     grant.ChannelType,
			"maxEirp":         grant.MaxEirp,
			"lowFrequency":    grant.LowFrequency,
			"highFrequency":   grant.HighFrequency,
			"grantExpireTime": grant.GrantExpireTime,
		},
	})
}

// Relinquishment endpoint
func (gc *GrantController) Relinquishment(c *gin.Context) {
	var req model.RelinquishmentRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		util.RespondWithError(c, http.StatusBadRequest, "Invalid relinquishment data", sas_errors.ErrInvalidGrantData)
		return
	}
	sasAddress, err := util.GetSASAddressFromContext(c)
	if err != nil {
		util.RespondWithError(c, http.StatusBadRequest, "Missing X-SAS-Address header", err)
		return
	}

	if err := gc.grantService.Relinquish(c, req, sasAddress); err != nil {
		switch err {
		case sas_errors.ErrSASNotAuthorized:
			util.RespondWithError(c, http.StatusForbidden, "SAS not authorized", err)
		case sas_errors.ErrCbsdNotFound:
			util.RespondWithError(c, http.StatusNotFound, "CBSD not registered", err)
		case sas_errors.ErrGrantNotFound:
			util.RespondWithError(c, http.StatusNotFound, "Grant not found", err)
		case sas_errors.ErrGrantTerminated:
			util.RespondWithError(c, http.StatusBadRequest, "Grant already terminated", err)
		case sas_errors.ErrDatabaseOperation:
			util.RespondWithError(c, http.StatusInternalServerError, "Database operation failed", err)
		default:
			util.RespondWithError(c, http.StatusInternalServerError, "Failed to relinquish grant", sas_errors.ErrInternalServer)
		}
		return
	}

	c.JSON(http.StatusOK, model.RelinquishmentResponse{
		ResponseCode: 0,
		CbsdID:       req.CbsdSerialNumber,
		RelinquishmentResponse: map[string]interface{}{
			"cbsdId":         req.CbsdSerialNumber,
			"grantId":        req.GrantID,
			"relinquishment": "SUCCESS",
		},
	})
}

// ListGrants endpoint
func (gc *GrantController) ListGrants(c *gin.Context) {
	fccID := c.Param("fccId")
	serialNumber := c.Param("serialNumber")

	grants, err := gc.grantService.ListForDevice(c, fccID, serialNumber)
	if err != nil {
		util.RespondWithError(c, http.StatusInternalServerError, "Failed to list grants", err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"grants": grants})
}
