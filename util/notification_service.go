// api/util/notification_service.go

package util

import (
	"context"
	"fmt"

	"go.uber.org/zap"

	logger "github.com/openspectrum/sas-registry/logging"
)

type NotificationService struct {
	// You might want to add dependencies here, such as a message queue client
}

func NewNotificationService() *NotificationService {
	return &NotificationService{}
}

func (n *NotificationService) NotifyCbsdChange(ctx context.Context, changeType, fccID, serialNumber string) error {
	// In a real implementation, you might send this to a message queue or external notification service
	switch changeType {
	case "registered":
		logger.Info("NOTIFICATION: CBSD registered",
			zap.String("fccId", fccID),
			zap.String("serialNumber", serialNumber))
	case "deregistered":
		logger.Info("NOTIFICATION: CBSD deregistered",
			zap.String("fccId", fccID),
			zap.String("serialNumber", serialNumber))
	default:
		return fmt.Errorf("unknown change type: %s", changeType)
	}

	return nil
}

func (n *NotificationService) NotifyGrantChange(ctx context.Context, changeType, grantID string) error {
	switch changeType {
	case "created":
		logger.Info("NOTIFICATION: Grant created", zap.String("grantId", grantID))
	case "terminated":
		logger.Info("NOTIFICATION: Grant terminated", zap.String("grantId", grantID))
	default:
		return fmt.Errorf("unknown change type: %s", changeType)
	}

	return nil
}

func (n *NotificationService) NotifySASAuthorizationChange(ctx context.Context, changeType, sasAddress string) error {
	switch changeType {
	case "authorized":
		logger.Info("NOTIFICATION: SAS authorized", zap.String("sasAddress", sasAddress))
	case "revoked":
		logger.Info("NOTIFICATION: SAS revoked", zap.String("sasAddress", sasAddress))
	default:
		return fmt.Errorf("unknown change type: %s", changeType)
	}

	return nil
}
