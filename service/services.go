// api/service/services.go
package service

import (
	"context"
	"database/sql"
	"encoding/json"
	"time"

	"go.uber.org/zap"

	"github.com/openspectrum/sas-registry/audit"
	"github.com/openspectrum/sas-registry/dao"
	logger "github.com/openspectrum/sas-registry/logging"
	"github.com/openspectrum/sas-registry/util"
)

type Services struct {
	Cbsd       ICbsdService
	Grant      IGrantService
	SASAuth    ISASAuthorizationService
	Monitoring IMonitoringService
}

func InitializeServices(
	dbHandle *sql.DB,
	auditService audit.Service,
	validationUtil *util.ValidationUtil,
	cacheService *util.CacheService,
	notificationSvc *util.NotificationService,
	eventBus *util.EventBus,
	cascadeGrants bool,
) (*Services, error) {
	eventDAO := dao.NewEventDAO(dbHandle)
	cbsdDAO := dao.NewCbsdDAO(dbHandle, eventDAO)
	grantDAO := dao.NewGrantDAO(dbHandle, eventDAO)
	sasAuthDAO := dao.NewSASAuthorizationDAO(dbHandle, eventDAO)

	services := &Services{
		Cbsd:       NewCbsdService(cbsdDAO, sasAuthDAO, validationUtil, cacheService, notificationSvc, eventBus, auditService, cascadeGrants),
		Grant:      NewGrantService(grantDAO, cbsdDAO, sasAuthDAO, validationUtil, notificationSvc, eventBus, auditService),
		SASAuth:    NewSASAuthorizationService(sasAuthDAO, validationUtil, notificationSvc, eventBus, auditService),
		Monitoring: NewMonitoringService(cbsdDAO, grantDAO, sasAuthDAO, eventDAO),
	}

	return services, nil
}

// auditor mirrors committed mutations into the audit index. The sqlite
// event log is the system of record, so indexing failures are logged
// and never fail the request.
type auditor struct {
	auditService audit.Service
}

func newAuditor(auditService audit.Service) *auditor {
	return &auditor{auditService: auditService}
}

func (a *auditor) record(ctx context.Context, eventType, sasAddress string, payload interface{}) {
	data, err := json.Marshal(payload)
	if err != nil {
		logger.Warn("Failed to marshal audit payload", zap.Error(err), zap.String("eventType", eventType))
		return
	}

	entry := audit.Entry{
		Timestamp:  time.Now().UTC(),
		EventType:  eventType,
		SASAddress: sasAddress,
		Payload:    data,
	}
	if err := a.auditService.Record(ctx, entry); err != nil {
		logger.Warn("Failed to index audit entry", zap.Error(err), zap.String("eventType", eventType))
	}
}
