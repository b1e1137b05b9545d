// api/router/router.go

package router

import (
	"time"

	"github.com/gin-gonic/gin"

	"github.com/openspectrum/sas-registry/controller"
	"github.com/openspectrum/sas-registry/middleware"
)

func SetupRouter(
	controllers *controller.Controllers,
	rateLimitEnabled bool,
	rateLimitRequests int,
	rateLimitWindow time.Duration,
) *gin.Engine {
	router := gin.New()
	router.Use(gin.Recovery())
	router.Use(middleware.Logger())
	if rateLimitEnabled {
		router.Use(middleware.RateLimiter(rateLimitRequests, rateLimitWindow))
	}

	controllers.Monitoring.RegisterRoutes(router)

	sas := router.Group("/sas")
	controllers.SAS.RegisterRoutes(sas)

	v13 := router.Group("/v1.3")
	controllers.Cbsd.RegisterRoutes(v13)
	controllers.Grant.RegisterRoutes(v13)
	controllers.Exchange.RegisterRoutes(v13)

	return router
}
