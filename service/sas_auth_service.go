// api/service/sas_auth_service.go
package service

import (
	"context"
	"fmt"

	"go.uber.org/zap"

	"github.com/openspectrum/sas-registry/audit"
	"github.com/openspectrum/sas-registry/dao"
	sas_errors "github.com/openspectrum/sas-registry/errors"
	logger "github.com/openspectrum/sas-registry/logging"
	"github.com/openspectrum/sas-registry/model"
	"github.com/openspectrum/sas-registry/util"
)

// ISASAuthorizationService defines the interface for peer-SAS
// authorization operations
type ISASAuthorizationService interface {
	Authorize(ctx context.Context, address string) error
	Revoke(ctx context.Context, address string) error
	IsAuthorized(ctx context.Context, address string) (bool, error)
}

// SASAuthorizationService handles business logic for peer-SAS
// authorization operations
type SASAuthorizationService struct {
	sasAuthDAO      *dao.SASAuthorizationDAO
	validationUtil  *util.ValidationUtil
	notificationSvc *util.NotificationService
	eventBus        *util.EventBus
	auditor         *auditor
}

var _ ISASAuthorizationService = &SASAuthorizationService{}

// NewSASAuthorizationService creates a new instance of SASAuthorizationService
func NewSASAuthorizationService(sasAuthDAO *dao.SASAuthorizationDAO, validationUtil *util.ValidationUtil, notificationSvc *util.NotificationService, eventBus *util.EventBus, auditService audit.Service) *SASAuthorizationService {
	service := &SASAuthorizationService{
		sasAuthDAO:      sasAuthDAO,
		validationUtil:  validationUtil,
		notificationSvc: notificationSvc,
		eventBus:        eventBus,
		auditor:         newAuditor(auditService),
	}

	// Set up event subscriptions
	eventBus.Subscribe("sas.authorized", service.handleSASAuthorized)
	eventBus.Subscribe("sas.revoked", service.handleSASRevoked)

	return service
}

func (s *SASAuthorizationService) handleSASAuthorized(ctx context.Context, event util.Event) error {
	address, ok := event.Payload.(string)
	if !ok {
		logger.Error("Invalid event payload type", zap.Any("payload", event.Payload))
		return fmt.Errorf("invalid event payload type: %T", event.Payload)
	}

	logger.Info("SAS authorized event received", zap.String("sasAddress", address))

	if err := s.notificationSvc.NotifySASAuthorizationChange(ctx, "authorized", address); err != nil {
		logger.Warn("Failed to send SAS authorization notification", zap.Error(err), zap.String("sasAddress", address))
	}

	return nil
}

func (s *SASAuthorizationService) handleSASRevoked(ctx context.Context, event util.Event) error {
	address, ok := event.Payload.(string)
	if !ok {
		logger.Error("Invalid event payload type", zap.Any("payload", event.Payload))
		return fmt.Errorf("invalid event payload type: %T", event.Payload)
	}

	logger.Info("SAS revoked event received", zap.String("sasAddress", address))

	if err := s.notificationSvc.NotifySASAuthorizationChange(ctx, "revoked", address); err != nil {
		logger.Warn("Failed to send SAS revocation notification", zap.Error(err), zap.String("sasAddress", address))
	}

	return nil
}

// Authorize grants registry access to a peer SAS. Authorizing an
// already-authorized address succeeds again; both commits append an
// SAS_AUTHORIZED event.
func (s *SASAuthorizationService) Authorize(ctx context.Context, address string) error {
	if err := s.validationUtil.ValidateSASAddress(address); err != nil {
		logger.Warn("Invalid SAS address", zap.Error(err))
		return sas_errors.ErrInvalidSASData
	}

	if err := s.sasAuthDAO.Authorize(ctx, address); err != nil {
		logger.Error("Error authorizing SAS", zap.Error(err), zap.String("sasAddress", address))
		return err
	}

	// Publish event for asynchronous processing
	s.eventBus.Publish(ctx, "sas.authorized", address)

	s.auditor.record(ctx, model.EventSASAuthorized, address, map[string]interface{}{
		"sas_address": address,
	})

	logger.Info("SAS authorized successfully", zap.String("sasAddress", address))
	return nil
}

// Revoke withdraws registry access from a peer SAS. Revoking an unknown
// address is a successful no-op and emits nothing.
func (s *SASAuthorizationService) Revoke(ctx context.Context, address string) error {
	if err := s.validationUtil.ValidateSASAddress(address); err != nil {
		logger.Warn("Invalid SAS address", zap.Error(err))
		return sas_errors.ErrInvalidSASData
	}

	existed, err := s.sasAuthDAO.Revoke(ctx, address)
	if err != nil {
		logger.Error("Error revoking SAS", zap.Error(err), zap.String("sasAddress", address))
		return err
	}
	if !existed {
		logger.Info("Revoke for unknown SAS address, nothing to do", zap.String("sasAddress", address))
		return nil
	}

	// Publish event for asynchronous processing
	s.eventBus.Publish(ctx, "sas.revoked", address)

	s.auditor.record(ctx, model.EventSASRevoked, address, map[string]interface{}{
		"sas_address": address,
	})

	logger.Info("SAS revoked successfully", zap.String("sasAddress", address))
	return nil
}

// IsAuthorized reports the current authorization state of an address
func (s *SASAuthorizationService) IsAuthorized(ctx context.Context, address string) (bool, error) {
	return s.sasAuthDAO.IsAuthorized(ctx, address)
}
