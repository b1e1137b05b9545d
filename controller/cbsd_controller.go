// api/controller/cbsd_controller.go
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

type CbsdController struct {
	cbsdService service.ICbsdService
}

func NewCbsdController(cbsdService service.ICbsdService) *CbsdController {
	return &CbsdController{
		cbsdService: cbsdService,
	}
}

// RegisterRoutes registers the CBSD lifecycle routes
func (cc *CbsdController) RegisterRoutes(r *gin.RouterGroup) {
	r.POST("/registration", middleware.RequireSASAddress(), cc.Registration)
	r.POST("/deregistration", middleware.RequireSASAddress(), cc.Deregistration)
	// The push exchange registers GET /cbsd/:id, so the first segment
	// must reuse the same parameter name. Here it carries the FCC ID.
	r.GET("/cbsd/:id/:serialNumber", cc.GetCbsd)
}

// Registration endpoint
func (cc *CbsdController) Registration(c *gin.Context) {
	var req model.RegistrationRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		util.RespondWithError(c, http.StatusBadRequest, "Invalid registration data", sas_errors.ErrInvalidCbsdData)
		return
	}
	sasAddress, err := util.GetSASAddressFromContext(c)
	if err != nil {
		util.RespondWithError(c, http.StatusBadRequest, "Missing X-SAS-Address header", err)
		return
	}

	cbsd, err := cc.cbsdService.Register(c, req, sasAddress)
	if err != nil {
		switch err {
		case sas_errors.ErrSASNotAuthorized:
			util.RespondWithError(c, http.StatusForbidden, "SAS not authorized", err)
		case sas_errors.ErrCbsdConflict:
			util.RespondWithError(c, http.StatusBadRequest, "CBSD already registered", err)
		case sas_errors.ErrInvalidCbsdData:
			util.RespondWithError(c, http.StatusBadRequest, "Invalid registration data", err)
		case sas_errors.ErrDatabaseOperation:
			util.RespondWithError(c, http.StatusInternalServerError, "Database operation failed", err)
		default:
			util.RespondWithError(c, http.StatusInternalServerError, "Failed to register CBSD", sas_errors.ErrInternalServer)
		}
		return
	}

	c.JSON(http.StatusOK, model.RegistrationResponse{
		ResponseCode: 0,
		CbsdID:       cbsd.CbsdSerialNumber,
		RegistrationResponse: map[string]interface{}{
			"cbsdId":       cbsd.CbsdSerialNumber,
			"registration": "SUCCESS",
		},
	})
}

// Deregistration endpoint
func (cc *CbsdController) Deregistration(c *gin.Context) {
	var req model.DeregistrationRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		util.RespondWithError(c, http.StatusBadRequest, "Invalid deregistration data", sas_errors.ErrInvalidCbsdData)
		return
	}
	sasAddress, err := util.GetSASAddressFromContext(c)
	if err != nil {
		util.RespondWithError(c, http.StatusBadRequest, "Missing X-SAS-Address header", err)
		return
	}

	if err := cc.cbsdService.Deregister(c, req, sasAddress); err != nil {
		switch err {
		case sas_errors.ErrSASNotAuthorized:
			util.RespondWithError(c, http.StatusForbidden, "SAS not authorized", err)
		case sas_errors.ErrCbsdNotFound:
			util.RespondWithError(c, http.StatusNotFound, "CBSD not registered", err)
		case sas_errors.ErrDatabaseOperation:
			util.RespondWithError(c, http.StatusInternalServerError, "Database operation failed", err)
		default:
			util.RespondWithError(c, http.StatusInternalServerError, "Failed to deregister CBSD", sas_errors.ErrInternalServer)
		}
		return
	}

	c.JSON(http.StatusOK, model.DeregistrationResponse{
		ResponseCode: 0,
		CbsdID:       req.CbsdSerialNumber,
		DeregistrationResponse: map[string]interface{}{
			"cbsdId":         req.CbsdSerialNumber,
			"deregistration": "SUCCESS",
		},
	})
}

// GetCbsd endpoint
func (cc *CbsdController) GetCbsd(c *gin.Context) {
	fccID := c.Param("id")
	serialNumber := c.Param("serialNumber")

	cbsd, err := cc.cbsdService.Get(c, fccID, serialNumber)
	if err != nil {
		if err == sas_errors.ErrCbsdNotFound {
			util.RespondWithError(c, http.StatusNotFound, "CBSD not found", err)
		} else {
			util.RespondWithError(c, http.StatusInternalServerError, "Failed to retrieve CBSD", err)
		}
		return
	}

	c.JSON(http.StatusOK, cbsd)
}
