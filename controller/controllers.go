// api/controller/controllers.go
package controller

import "github.com/openspectrum/sas-registry/service"

type Controllers struct {
	Cbsd       *CbsdController
	Grant      *GrantController
	SAS        *SASController
	Monitoring *MonitoringController
	Exchange   *ExchangeController
}

func InitializeControllers(services *service.Services) *Controllers {
	return &Controllers{
		Cbsd:       NewCbsdController(services.Cbsd),
		Grant:      NewGrantController(services.Grant),
		SAS:        NewSASController(services.SASAuth),
		Monitoring: NewMonitoringController(services.Monitoring),
		Exchange:   NewExchangeController(services.Cbsd, services.Monitoring),
	}
}
