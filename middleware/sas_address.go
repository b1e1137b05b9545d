// api/middleware/sas_address.go

package middleware

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	logger "github.com/openspectrum/sas-registry/logging"
)

// RequireSASAddress extracts the X-SAS-Address header identifying the
// requesting peer SAS and stores it on the context. Requests without
// the header are rejected before they reach a handler; whether the
// address is actually authorized is decided in the service layer.
func RequireSASAddress() gin.HandlerFunc {
	return func(c *gin.Context) {
		sasAddress := c.GetHeader("X-SAS-Address")
		if sasAddress == "" {
			logger.Warn("Request missing X-SAS-Address header",
				zap.String("path", c.Request.URL.Path),
				zap.String("ip", c.ClientIP()))
			c.JSON(http.StatusBadRequest, gin.H{"error": "X-SAS-Address header is required"})
			c.Abort()
			return
		}

		c.Set("sasAddress", sasAddress)
		c.Next()
	}
}
