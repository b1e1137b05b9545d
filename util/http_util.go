// api/util/http_util.go
package util

import (
	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	sas_errors "github.com/openspectrum/sas-registry/errors"
	logger "github.com/openspectrum/sas-registry/logging"
)

func RespondWithError(c *gin.Context, code int, message string, err error) {
	logger.Error(message,
		zap.Error(err),
		zap.String("path", c.Request.URL.Path),
		zap.String("method", c.Request.Method))
	c.JSON(code, gin.H{"error": message})
}

// GetSASAddressFromContext returns the peer SAS address extracted from the
// X-SAS-Address header by the middleware.
func GetSASAddressFromContext(c *gin.Context) (string, error) {
	sasAddress, exists := c.Get("sasAddress")
	if !exists {
		return "", sas_errors.ErrMissingSASAddress
	}
	return sasAddress.(string), nil
}
