// api/service/grant_service.go
package service

import (
	"context"
	"fmt"
	"time"

	"go.uber.org/zap"

	"github.com/openspectrum/sas-registry/audit"
	"github.com/openspectrum/sas-registry/dao"
	sas_errors "github.com/openspectrum/sas-registry/errors"
	logger "github.com/openspectrum/sas-registry/logging"
	"github.com/openspectrum/sas-registry/model"
	"github.com/openspectrum/sas-registry/util"
)

// IGrantService defines the interface for spectrum grant operations
type IGrantService interface {
	Create(ctx context.Context, req model.GrantRequest, sasAddress string) (*model.Grant, error)
	Relinquish(ctx context.Context, req model.RelinquishmentRequest, sasAddress string) error
	ListForDevice(ctx context.Context, fccID, serialNumber string) ([]model.Grant, error)
}

// GrantService handles business logic for spectrum grant operations
type GrantService struct {
	grantDAO        *dao.GrantDAO
	cbsdDAO         *dao.CbsdDAO
	sasAuthDAO      *dao.SASAuthorizationDAO
	validationUtil  *util.ValidationUtil
	notificationSvc *util.NotificationService
	eventBus        *util.EventBus
	auditor         *auditor
}

var _ IGrantService = &GrantService{}

// NewGrantService creates a new instance of GrantService
func NewGrantService(grantDAO *dao.GrantDAO, cbsdDAO *dao.CbsdDAO, sasAuthDAO *dao.SASAuthorizationDAO, validationUtil *util.ValidationUtil, notificationSvc *util.NotificationService, eventBus *util.EventBus, auditService audit.Service) *GrantService {
	service := &GrantService{
		grantDAO:        grantDAO,
		cbsdDAO:         cbsdDAO,
		sasAuthDAO:      sasAuthDAO,
		validationUtil:  validationUtil,
		notificationSvc: notificationSvc,
		eventBus:        eventBus,
		auditor:         newAuditor(auditService),
	}

	// Set up event subscriptions
	eventBus.Subscribe("grant.created", service.handleGrantCreated)
	eventBus.Subscribe("grant.terminated", service.handleGrantTerminated)

	return service
}

func (s *GrantService) handleGrantCreated(ctx context.Context, event util.Event) error {
	grant, ok := event.Payload.(model.Grant)
	if !ok {
		logger.Error("Invalid event payload type", zap.Any("payload", event.Payload))
		return fmt.Errorf("invalid event payload type: %T", event.Payload)
	}

	logger.Info("Grant created event received", zap.String("grantId", grant.GrantID))

	if err := s.notificationSvc.NotifyGrantChange(ctx, "created", grant.GrantID); err != nil {
		logger.Warn("Failed to send grant creation notification", zap.Error(err), zap.String("grantId", grant.GrantID))
	}

	return nil
}

func (s *GrantService) handleGrantTerminated(ctx context.Context, event util.Event) error {
	grantID, ok := event.Payload.(string)
	if !ok {
		logger.Error("Invalid event payload type", zap.Any("payload", event.Payload))
		return fmt.Errorf("invalid event payload type: %T", event.Payload)
	}

	logger.Info("Grant terminated event received", zap.String("grantId", grantID))

	if err := s.notificationSvc.NotifyGrantChange(ctx, "terminated", grantID); err != nil {
		logger.Warn("Failed to send grant termination notification", zap.Error(err), zap.String("grantId", grantID))
	}

	return nil
}

// Create issues a new grant against a registered CBSD. The requesting
// SAS must be authorized and the target device must exist.
func (s *GrantService) Create(ctx context.Context, req model.GrantRequest, sasAddress string) (*model.Grant, error) {
	authorized, err := s.sasAuthDAO.IsAuthorized(ctx, sasAddress)
	if err != nil {
		return nil, err
	}
	if !authorized {
		logger.Warn("Grant attempt from unauthorized SAS", zap.String("sasAddress", sasAddress))
		return nil, sas_errors.ErrSASNotAuthorized
	}

	if err := s.validationUtil.ValidateGrant(req); err != nil {
		logger.Warn("Invalid grant request",
			zap.Error(err),
			zap.String("fccId", req.FccID),
			zap.String("serialNumber", req.CbsdSerialNumber))
		return nil, sas_errors.ErrInvalidGrantData
	}

	grant := model.Grant{
		FccID:                  req.FccID,
		CbsdSerialNumber:       req.CbsdSerialNumber,
		ChannelType:            req.ChannelType,
		MaxEirp:                req.MaxEirp,
		LowFrequency:           req.LowFrequency,
		HighFrequency:          req.HighFrequency,
		RequestedMaxEirp:       req.RequestedMaxEirp,
		RequestedLowFrequency:  req.RequestedLowFrequency,
		RequestedHighFrequency: req.RequestedHighFrequency,
		GrantExpireTime:        req.GrantExpireTime,
		SASOrigin:              sasAddress,
		GrantTimestamp:         time.Now().Unix(),
	}

	created, err := s.grantDAO.Create(ctx, grant)
	if err != nil {
		logger.Error("Error creating grant",
			zap.Error(err),
			zap.String("fccId", req.FccID),
			zap.String("serialNumber", req.CbsdSerialNumber))
		return nil, err
	}

	// Publish event for asynchronous processing
	s.eventBus.Publish(ctx, "grant.created", *created)

	s.auditor.record(ctx, model.EventGrantCreated, sasAddress, map[string]interface{}{
		"fccId":        created.FccID,
		"serialNumber": created.CbsdSerialNumber,
		"grantId":      created.GrantID,
		"sasOrigin":    sasAddress,
	})

	logger.Info("Grant created successfully",
		zap.String("grantId", created.GrantID),
		zap.String("sasAddress", sasAddress))
	return created, nil
}

// Relinquish terminates an existing grant. The device is resolved first
// so a relinquishment against an unknown device reports the device as
// missing rather than the grant.
func (s *GrantService) Relinquish(ctx context.Context, req model.RelinquishmentRequest, sasAddress string) error {
	authorized, err := s.sasAuthDAO.IsAuthorized(ctx, sasAddress)
	if err != nil {
		return err
	}
	if !authorized {
		logger.Warn("Relinquishment attempt from unauthorized SAS", zap.String("sasAddress", sasAddress))
		return sas_errors.ErrSASNotAuthorized
	}

	if _, err := s.cbsdDAO.Get(ctx, req.FccID, req.CbsdSerialNumber); err != nil {
		return err
	}

	if err := s.grantDAO.Relinquish(ctx, req.GrantID, req.FccID, req.CbsdSerialNumber, sasAddress); err != nil {
		logger.Error("Error relinquishing grant",
			zap.Error(err),
			zap.String("grantId", req.GrantID))
		return err
	}

	// Publish event for asynchronous processing
	s.eventBus.Publish(ctx, "grant.terminated", req.GrantID)

	s.auditor.record(ctx, model.EventGrantTerminated, sasAddress, map[string]interface{}{
		"fccId":        req.FccID,
		"serialNumber": req.CbsdSerialNumber,
		"grantId":      req.GrantID,
		"sasOrigin":    sasAddress,
	})

	logger.Info("Grant relinquished successfully",
		zap.String("grantId", req.GrantID),
		zap.String("sasAddress", sasAddress))
	return nil
}

// ListForDevice returns the grants of a device in insertion order
func (s *GrantService) ListForDevice(ctx context.Context, fccID, serialNumber string) ([]model.Grant, error) {
	grants, err := s.grantDAO.ListForDevice(ctx, fccID, serialNumber)
	if err != nil {
		logger.Error("Error listing grants",
			zap.Error(err),
			zap.String("fccId", fccID),
			zap.String("serialNumber", serialNumber))
		return nil, err
	}

	return grants, nil
}
