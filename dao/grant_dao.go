// api/dao/grant_dao.go
package dao

import (
	"context"
	"database/sql"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/openspectrum/sas-registry/db"
	sas_errors "github.com/openspectrum/sas-registry/errors"
	logger "github.com/openspectrum/sas-registry/logging"
	"github.com/openspectrum/sas-registry/model"
)

type GrantDAO struct {
	DB       *sql.DB
	EventDAO *EventDAO
}

func NewGrantDAO(handle *sql.DB, eventDAO *EventDAO) *GrantDAO {
	return &GrantDAO{DB: handle, EventDAO: eventDAO}
}

const grantColumns = `id, grant_id, fcc_id, cbsd_serial_number, channel_type, max_eirp,
	low_frequency, high_frequency, requested_max_eirp, requested_low_frequency,
	requested_high_frequency, grant_expire_time, transmit_expire_time, state, terminated,
	sas_origin, grant_timestamp, created_at, updated_at`

// newGrantID keeps the ledger-era format: device key plus a short random
// suffix. URL-safe and globally unique.
func newGrantID(fccID, serialNumber string) string {
	suffix := strings.ReplaceAll(uuid.New().String(), "-", "")[:8]
	return fmt.Sprintf("grant_%s_%s_%s", fccID, serialNumber, suffix)
}

func scanGrant(row interface{ Scan(...interface{}) error }) (*model.Grant, error) {
	var grant model.Grant
	err := row.Scan(
		&grant.ID, &grant.GrantID, &grant.FccID, &grant.CbsdSerialNumber, &grant.ChannelType,
		&grant.MaxEirp, &grant.LowFrequency, &grant.HighFrequency, &grant.RequestedMaxEirp,
		&grant.RequestedLowFrequency, &grant.RequestedHighFrequency, &grant.GrantExpireTime,
		&grant.TransmitExpireTime, &grant.State, &grant.Terminated, &grant.SASOrigin,
		&grant.GrantTimestamp, &grant.CreatedAt, &grant.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	return &grant, nil
}

// Create issues a new grant for a registered device. The device existence
// check runs inside the transaction so the grant cannot attach to a device
// deregistered concurrently. Terms are stored verbatim.
func (dao *GrantDAO) Create(ctx context.Context, grant model.Grant) (*model.Grant, error) {
	start := time.Now()
	logger.Info("Creating grant",
		zap.String("fccId", grant.FccID),
		zap.String("serialNumber", grant.CbsdSerialNumber),
		zap.String("channelType", grant.ChannelType))

	grant.GrantID = newGrantID(grant.FccID, grant.CbsdSerialNumber)
	grant.State = model.GrantStateGranted
	grant.Terminated = false

	err := db.WithTx(ctx, dao.DB, func(tx *sql.Tx) error {
		var deviceID int64
		err := tx.QueryRow(
			`SELECT id FROM cbsds WHERE fcc_id = ? AND cbsd_serial_number = ?`,
			grant.FccID, grant.CbsdSerialNumber,
		).Scan(&deviceID)
		if err == sql.ErrNoRows {
			return sas_errors.ErrCbsdNotFound
		}
		if err != nil {
			logger.Error("Failed to look up cbsd for grant", zap.Error(err))
			return sas_errors.ErrDatabaseOperation
		}

		result, err := tx.Exec(
			`INSERT INTO grants (grant_id, fcc_id, cbsd_serial_number, channel_type, max_eirp,
				low_frequency, high_frequency, requested_max_eirp, requested_low_frequency,
				requested_high_frequency, grant_expire_time, transmit_expire_time, state,
				terminated, sas_origin, grant_timestamp)
			 VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, 0, ?, ?)`,
			grant.GrantID, grant.FccID, grant.CbsdSerialNumber, grant.ChannelType,
			grant.MaxEirp, grant.LowFrequency, grant.HighFrequency, grant.RequestedMaxEirp,
			grant.RequestedLowFrequency, grant.RequestedHighFrequency, grant.GrantExpireTime,
			grant.TransmitExpireTime, grant.State, grant.SASOrigin, grant.GrantTimestamp,
		)
		if err != nil {
			logger.Error("Failed to insert grant", zap.Error(err))
			return sas_errors.ErrDatabaseOperation
		}
		if grant.ID, err = result.LastInsertId(); err != nil {
			return sas_errors.ErrDatabaseOperation
		}

		return dao.EventDAO.AppendTx(tx, model.EventGrantCreated, map[string]interface{}{
			"fccId":        grant.FccID,
			"serialNumber": grant.CbsdSerialNumber,
			"grantId":      grant.GrantID,
			"sasOrigin":    grant.SASOrigin,
		})
	})

	duration := time.Since(start)
	if err != nil {
		logger.Error("Failed to create grant",
			zap.Error(err),
			zap.String("fccId", grant.FccID),
			zap.String("serialNumber", grant.CbsdSerialNumber),
			zap.Duration("duration", duration))
		return nil, err
	}

	logger.Info("Grant created successfully",
		zap.String("grantId", grant.GrantID),
		zap.Duration("duration", duration))
	return &grant, nil
}

// Relinquish terminates a grant. The grant must exist under the given
// device key; a terminated grant stays terminated and further attempts
// fail with ErrGrantTerminated.
func (dao *GrantDAO) Relinquish(ctx context.Context, grantID, fccID, serialNumber, sasOrigin string) error {
	start := time.Now()
	logger.Info("Relinquishing grant",
		zap.String("grantId", grantID),
		zap.String("fccId", fccID),
		zap.String("serialNumber", serialNumber))

	err := db.WithTx(ctx, dao.DB, func(tx *sql.Tx) error {
		var terminated bool
		err := tx.QueryRow(
			`SELECT terminated FROM grants WHERE grant_id = ? AND fcc_id = ? AND cbsd_serial_number = ?`,
			grantID, fccID, serialNumber,
		).Scan(&terminated)
		if err == sql.ErrNoRows {
			return sas_errors.ErrGrantNotFound
		}
		if err != nil {
			logger.Error("Failed to look up grant", zap.Error(err))
			return sas_errors.ErrDatabaseOperation
		}
		if terminated {
			return sas_errors.ErrGrantTerminated
		}

		if _, err := tx.Exec(
			`UPDATE grants SET terminated = 1, state = ?, updated_at = CURRENT_TIMESTAMP WHERE grant_id = ?`,
			model.GrantStateTerminated, grantID,
		); err != nil {
			logger.Error("Failed to terminate grant", zap.Error(err))
			return sas_errors.ErrDatabaseOperation
		}

		return dao.EventDAO.AppendTx(tx, model.EventGrantTerminated, map[string]interface{}{
			"fccId":        fccID,
			"serialNumber": serialNumber,
			"grantId":      grantID,
			"sasOrigin":    sasOrigin,
		})
	})

	duration := time.Since(start)
	if err != nil {
		logger.Error("Failed to relinquish grant",
			zap.Error(err),
			zap.String("grantId", grantID),
			zap.Duration("duration", duration))
		return err
	}

	logger.Info("Grant relinquished successfully",
		zap.String("grantId", grantID),
		zap.Duration("duration", duration))
	return nil
}

// ListForDevice returns the grants of a device in insertion order.
func (dao *GrantDAO) ListForDevice(ctx context.Context, fccID, serialNumber string) ([]model.Grant, error) {
	rows, err := dao.DB.QueryContext(ctx,
		`SELECT `+grantColumns+` FROM grants WHERE fcc_id = ? AND cbsd_serial_number = ? ORDER BY id`,
		fccID, serialNumber)
	if err != nil {
		logger.Error("Failed to list grants",
			zap.Error(err),
			zap.String("fccId", fccID),
			zap.String("serialNumber", serialNumber))
		return nil, sas_errors.ErrDatabaseOperation
	}
	defer rows.Close()

	return collectGrants(rows)
}

func (dao *GrantDAO) Count(ctx context.Context) (int64, error) {
	var count int64
	if err := dao.DB.QueryRowContext(ctx, `SELECT COUNT(*) FROM grants`).Scan(&count); err != nil {
		logger.Error("Failed to count grants", zap.Error(err))
		return 0, sas_errors.ErrDatabaseOperation
	}
	return count, nil
}

// List returns every grant record for the activity dump.
func (dao *GrantDAO) List(ctx context.Context) ([]model.Grant, error) {
	rows, err := dao.DB.QueryContext(ctx, `SELECT `+grantColumns+` FROM grants ORDER BY id`)
	if err != nil {
		logger.Error("Failed to list all grants", zap.Error(err))
		return nil, sas_errors.ErrDatabaseOperation
	}
	defer rows.Close()

	return collectGrants(rows)
}

func collectGrants(rows *sql.Rows) ([]model.Grant, error) {
	grants := []model.Grant{}
	for rows.Next() {
		grant, err := scanGrant(rows)
		if err != nil {
			logger.Error("Failed to scan grant row", zap.Error(err))
			return nil, sas_errors.ErrDatabaseOperation
		}
		grants = append(grants, *grant)
	}
	if err := rows.Err(); err != nil {
		return nil, sas_errors.ErrDatabaseOperation
	}
	return grants, nil
}
