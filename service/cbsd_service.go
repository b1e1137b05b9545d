// api/service/cbsd_service.go
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

// ICbsdService defines the interface for CBSD registration operations
type ICbsdService interface {
	Register(ctx context.Context, req model.RegistrationRequest, sasAddress string) (*model.Cbsd, error)
	Deregister(ctx context.Context, req model.DeregistrationRequest, sasAddress string) error
	Get(ctx context.Context, fccID, serialNumber string) (*model.Cbsd, error)
	GetBySerial(ctx context.Context, serialNumber string) (*model.Cbsd, error)
	Push(ctx context.Context, serialNumber string, record model.CbsdRecord) (bool, error)
}

// CbsdService handles business logic for CBSD registration operations
type CbsdService struct {
	cbsdDAO         *dao.CbsdDAO
	sasAuthDAO      *dao.SASAuthorizationDAO
	validationUtil  *util.ValidationUtil
	cacheService    *util.CacheService
	notificationSvc *util.NotificationService
	eventBus        *util.EventBus
	auditor         *auditor
	cascadeGrants   bool
}

var _ ICbsdService = &CbsdService{}

// NewCbsdService creates a new instance of CbsdService
func NewCbsdService(cbsdDAO *dao.CbsdDAO, sasAuthDAO *dao.SASAuthorizationDAO, validationUtil *util.ValidationUtil, cacheService *util.CacheService, notificationSvc *util.NotificationService, eventBus *util.EventBus, auditService audit.Service, cascadeGrants bool) *CbsdService {
	service := &CbsdService{
		cbsdDAO:         cbsdDAO,
		sasAuthDAO:      sasAuthDAO,
		validationUtil:  validationUtil,
		cacheService:    cacheService,
		notificationSvc: notificationSvc,
		eventBus:        eventBus,
		auditor:         newAuditor(auditService),
		cascadeGrants:   cascadeGrants,
	}

	// Set up event subscriptions
	eventBus.Subscribe("cbsd.registered", service.handleCbsdRegistered)
	eventBus.Subscribe("cbsd.deregistered", service.handleCbsdDeregistered)

	return service
}

func (s *CbsdService) handleCbsdRegistered(ctx context.Context, event util.Event) error {
	cbsd, ok := event.Payload.(model.Cbsd)
	if !ok {
		logger.Error("Invalid event payload type", zap.Any("payload", event.Payload))
		return fmt.Errorf("invalid event payload type: %T", event.Payload)
	}

	logger.Info("CBSD registered event received",
		zap.String("fccId", cbsd.FccID),
		zap.String("serialNumber", cbsd.CbsdSerialNumber))

	if err := s.notificationSvc.NotifyCbsdChange(ctx, "registered", cbsd.FccID, cbsd.CbsdSerialNumber); err != nil {
		logger.Warn("Failed to send CBSD registration notification", zap.Error(err), zap.String("fccId", cbsd.FccID))
	}

	return nil
}

func (s *CbsdService) handleCbsdDeregistered(ctx context.Context, event util.Event) error {
	req, ok := event.Payload.(model.DeregistrationRequest)
	if !ok {
		logger.Error("Invalid event payload type", zap.Any("payload", event.Payload))
		return fmt.Errorf("invalid event payload type: %T", event.Payload)
	}

	logger.Info("CBSD deregistered event received",
		zap.String("fccId", req.FccID),
		zap.String("serialNumber", req.CbsdSerialNumber))

	if err := s.notificationSvc.NotifyCbsdChange(ctx, "deregistered", req.FccID, req.CbsdSerialNumber); err != nil {
		logger.Warn("Failed to send CBSD deregistration notification", zap.Error(err), zap.String("fccId", req.FccID))
	}

	return nil
}

// Register handles the registration of a new CBSD on behalf of the
// requesting SAS. The requester must already be authorized.
func (s *CbsdService) Register(ctx context.Context, req model.RegistrationRequest, sasAddress string) (*model.Cbsd, error) {
	authorized, err := s.sasAuthDAO.IsAuthorized(ctx, sasAddress)
	if err != nil {
		return nil, err
	}
	if !authorized {
		logger.Warn("Registration attempt from unauthorized SAS", zap.String("sasAddress", sasAddress))
		return nil, sas_errors.ErrSASNotAuthorized
	}

	if err := s.validationUtil.ValidateRegistration(req); err != nil {
		logger.Warn("Invalid registration request",
			zap.Error(err),
			zap.String("fccId", req.FccID),
			zap.String("serialNumber", req.CbsdSerialNumber))
		return nil, sas_errors.ErrInvalidCbsdData
	}

	measCapability := req.MeasCapability
	if measCapability == nil {
		measCapability = []string{}
	}

	cbsd := model.Cbsd{
		FccID:                 req.FccID,
		UserID:                req.UserID,
		CbsdSerialNumber:      req.CbsdSerialNumber,
		CallSign:              req.CallSign,
		CbsdCategory:          req.CbsdCategory,
		AirInterface:          req.AirInterface,
		MeasCapability:        measCapability,
		EirpCapability:        req.EirpCapability,
		Latitude:              req.Latitude,
		Longitude:             req.Longitude,
		Height:                req.Height,
		HeightType:            req.HeightType,
		IndoorDeployment:      req.IndoorDeployment,
		AntennaGain:           req.AntennaGain,
		AntennaBeamwidth:      req.AntennaBeamwidth,
		AntennaAzimuth:        req.AntennaAzimuth,
		GroupingParam:         req.GroupingParam,
		CbsdAddress:           req.CbsdAddress,
		SASOrigin:             sasAddress,
		RegistrationTimestamp: time.Now().Unix(),
	}

	created, err := s.cbsdDAO.Register(ctx, cbsd)
	if err != nil {
		logger.Error("Error registering CBSD",
			zap.Error(err),
			zap.String("fccId", req.FccID),
			zap.String("serialNumber", req.CbsdSerialNumber))
		return nil, err
	}

	// Update cache
	if err := s.cacheService.SetCbsd(ctx, *created); err != nil {
		logger.Warn("Failed to cache CBSD", zap.Error(err), zap.String("fccId", created.FccID))
	}

	// Publish event for asynchronous processing
	s.eventBus.Publish(ctx, "cbsd.registered", *created)

	s.auditor.record(ctx, model.EventCbsdRegistered, sasAddress, map[string]interface{}{
		"fccId":        created.FccID,
		"serialNumber": created.CbsdSerialNumber,
		"sasOrigin":    sasAddress,
	})

	logger.Info("CBSD registered successfully",
		zap.String("fccId", created.FccID),
		zap.String("serialNumber", created.CbsdSerialNumber),
		zap.String("sasAddress", sasAddress))
	return created, nil
}

// Deregister removes a registered CBSD. With cascading enabled, active
// grants of the device are terminated in the same transaction.
func (s *CbsdService) Deregister(ctx context.Context, req model.DeregistrationRequest, sasAddress string) error {
	authorized, err := s.sasAuthDAO.IsAuthorized(ctx, sasAddress)
	if err != nil {
		return err
	}
	if !authorized {
		logger.Warn("Deregistration attempt from unauthorized SAS", zap.String("sasAddress", sasAddress))
		return sas_errors.ErrSASNotAuthorized
	}

	if err := s.cbsdDAO.Deregister(ctx, req.FccID, req.CbsdSerialNumber, sasAddress, s.cascadeGrants); err != nil {
		logger.Error("Error deregistering CBSD",
			zap.Error(err),
			zap.String("fccId", req.FccID),
			zap.String("serialNumber", req.CbsdSerialNumber))
		return err
	}

	// Remove from cache
	if err := s.cacheService.DeleteCbsd(ctx, req.FccID, req.CbsdSerialNumber); err != nil {
		logger.Warn("Failed to delete CBSD from cache", zap.Error(err), zap.String("fccId", req.FccID))
	}

	// Publish event for asynchronous processing
	s.eventBus.Publish(ctx, "cbsd.deregistered", req)

	s.auditor.record(ctx, model.EventCbsdDeregistered, sasAddress, map[string]interface{}{
		"fccId":        req.FccID,
		"serialNumber": req.CbsdSerialNumber,
		"sasOrigin":    sasAddress,
	})

	logger.Info("CBSD deregistered successfully",
		zap.String("fccId", req.FccID),
		zap.String("serialNumber", req.CbsdSerialNumber),
		zap.String("sasAddress", sasAddress))
	return nil
}

// Get retrieves a CBSD by its (fccId, serialNumber) pair
func (s *CbsdService) Get(ctx context.Context, fccID, serialNumber string) (*model.Cbsd, error) {
	// Try to get from cache first
	cachedCbsd, err := s.cacheService.GetCbsd(ctx, fccID, serialNumber)
	if err == nil && cachedCbsd != nil {
		return cachedCbsd, nil
	}

	cbsd, err := s.cbsdDAO.Get(ctx, fccID, serialNumber)
	if err != nil {
		return nil, err
	}

	// Update cache
	if err := s.cacheService.SetCbsd(ctx, *cbsd); err != nil {
		logger.Warn("Failed to cache CBSD", zap.Error(err), zap.String("fccId", fccID))
	}

	return cbsd, nil
}

// GetBySerial retrieves a CBSD by serial number alone (push-exchange key)
func (s *CbsdService) GetBySerial(ctx context.Context, serialNumber string) (*model.Cbsd, error) {
	return s.cbsdDAO.GetBySerial(ctx, serialNumber)
}

// Push stores a record received over the push-style SAS-SAS exchange. It
// creates or replaces the record keyed by serial number and reports
// whether a new record was created. Pushed records do not enter the
// event log; only canonical registrations do.
func (s *CbsdService) Push(ctx context.Context, serialNumber string, record model.CbsdRecord) (bool, error) {
	measCapability := record.MeasCapability
	if measCapability == nil {
		measCapability = []string{}
	}

	cbsd := model.Cbsd{
		FccID:                 record.FccID,
		UserID:                record.UserID,
		CbsdSerialNumber:      serialNumber,
		CallSign:              record.CallSign,
		CbsdCategory:          record.CbsdCategory,
		AirInterface:          record.AirInterface,
		MeasCapability:        measCapability,
		EirpCapability:        record.EirpCapability,
		Latitude:              record.Latitude,
		Longitude:             record.Longitude,
		Height:                record.Height,
		HeightType:            record.HeightType,
		IndoorDeployment:      record.IndoorDeployment,
		AntennaGain:           record.AntennaGain,
		AntennaBeamwidth:      record.AntennaBeamwidth,
		AntennaAzimuth:        record.AntennaAzimuth,
		GroupingParam:         record.GroupingParam,
		CbsdAddress:           record.CbsdAddress,
		SASOrigin:             "push-exchange",
		RegistrationTimestamp: time.Now().Unix(),
	}

	created, err := s.cbsdDAO.Upsert(ctx, serialNumber, cbsd)
	if err != nil {
		logger.Error("Error pushing CBSD record", zap.Error(err), zap.String("serialNumber", serialNumber))
		return false, err
	}

	// Invalidate any cached copy of the replaced record
	if err := s.cacheService.DeleteCbsd(ctx, record.FccID, serialNumber); err != nil {
		logger.Warn("Failed to invalidate cached CBSD", zap.Error(err), zap.String("serialNumber", serialNumber))
	}

	return created, nil
}
