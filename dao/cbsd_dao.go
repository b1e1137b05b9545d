// api/dao/cbsd_dao.go
package dao

import (
	"context"
	"database/sql"
	"encoding/json"
	"strings"
	"time"

	"go.uber.org/zap"

	"github.com/openspectrum/sas-registry/db"
	sas_errors "github.com/openspectrum/sas-registry/errors"
	logger "github.com/openspectrum/sas-registry/logging"
	"github.com/openspectrum/sas-registry/model"
)

type CbsdDAO struct {
	DB       *sql.DB
	EventDAO *EventDAO
}

func NewCbsdDAO(handle *sql.DB, eventDAO *EventDAO) *CbsdDAO {
	return &CbsdDAO{DB: handle, EventDAO: eventDAO}
}

const cbsdColumns = `id, fcc_id, user_id, cbsd_serial_number, call_sign, cbsd_category,
	air_interface, meas_capability, eirp_capability, latitude, longitude, height,
	height_type, indoor_deployment, antenna_gain, antenna_beamwidth, antenna_azimuth,
	grouping_param, cbsd_address, sas_origin, registration_timestamp, created_at, updated_at`

func isUniqueViolation(err error) bool {
	return err != nil && strings.Contains(err.Error(), "UNIQUE constraint failed")
}

func scanCbsd(row interface{ Scan(...interface{}) error }) (*model.Cbsd, error) {
	var cbsd model.Cbsd
	var measCapability string
	err := row.Scan(
		&cbsd.ID, &cbsd.FccID, &cbsd.UserID, &cbsd.CbsdSerialNumber, &cbsd.CallSign,
		&cbsd.CbsdCategory, &cbsd.AirInterface, &measCapability, &cbsd.EirpCapability,
		&cbsd.Latitude, &cbsd.Longitude, &cbsd.Height, &cbsd.HeightType,
		&cbsd.IndoorDeployment, &cbsd.AntennaGain, &cbsd.AntennaBeamwidth,
		&cbsd.AntennaAzimuth, &cbsd.GroupingParam, &cbsd.CbsdAddress, &cbsd.SASOrigin,
		&cbsd.RegistrationTimestamp, &cbsd.CreatedAt, &cbsd.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	if err := json.Unmarshal([]byte(measCapability), &cbsd.MeasCapability); err != nil {
		cbsd.MeasCapability = []string{}
	}
	return &cbsd, nil
}

// Register inserts a new device record. Pair uniqueness is decided by the
// store constraint, so a losing racer gets ErrCbsdConflict even when its
// advisory pre-check in the service layer passed.
func (dao *CbsdDAO) Register(ctx context.Context, cbsd model.Cbsd) (*model.Cbsd, error) {
	start := time.Now()
	logger.Info("Registering CBSD",
		zap.String("fccId", cbsd.FccID),
		zap.String("serialNumber", cbsd.CbsdSerialNumber))

	measCapability, err := json.Marshal(cbsd.MeasCapability)
	if err != nil {
		return nil, sas_errors.ErrInvalidCbsdData
	}

	err = db.WithTx(ctx, dao.DB, func(tx *sql.Tx) error {
		result, err := tx.Exec(
			`INSERT INTO cbsds (fcc_id, user_id, cbsd_serial_number, call_sign, cbsd_category,
				air_interface, meas_capability, eirp_capability, latitude, longitude, height,
				height_type, indoor_deployment, antenna_gain, antenna_beamwidth, antenna_azimuth,
				grouping_param, cbsd_address, sas_origin, registration_timestamp)
			 VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
			cbsd.FccID, cbsd.UserID, cbsd.CbsdSerialNumber, cbsd.CallSign, cbsd.CbsdCategory,
			cbsd.AirInterface, string(measCapability), cbsd.EirpCapability, cbsd.Latitude,
			cbsd.Longitude, cbsd.Height, cbsd.HeightType, cbsd.IndoorDeployment,
			cbsd.AntennaGain, cbsd.AntennaBeamwidth, cbsd.AntennaAzimuth, cbsd.GroupingParam,
			cbsd.CbsdAddress, cbsd.SASOrigin, cbsd.RegistrationTimestamp,
		)
		if isUniqueViolation(err) {
			return sas_errors.ErrCbsdConflict
		}
		if err != nil {
			logger.Error("Failed to insert cbsd", zap.Error(err))
			return sas_errors.ErrDatabaseOperation
		}

		if cbsd.ID, err = result.LastInsertId(); err != nil {
			return sas_errors.ErrDatabaseOperation
		}

		return dao.EventDAO.AppendTx(tx, model.EventCbsdRegistered, map[string]interface{}{
			"fccId":        cbsd.FccID,
			"serialNumber": cbsd.CbsdSerialNumber,
			"sasOrigin":    cbsd.SASOrigin,
		})
	})

	duration := time.Since(start)
	if err != nil {
		logger.Error("Failed to register CBSD",
			zap.Error(err),
			zap.String("fccId", cbsd.FccID),
			zap.String("serialNumber", cbsd.CbsdSerialNumber),
			zap.Duration("duration", duration))
		return nil, err
	}

	logger.Info("CBSD registered successfully",
		zap.String("fccId", cbsd.FccID),
		zap.String("serialNumber", cbsd.CbsdSerialNumber),
		zap.Duration("duration", duration))
	return &cbsd, nil
}

// Upsert is the push-style create-or-replace keyed by serial number alone.
// It overwrites every record field and, unlike Register, emits no event.
func (dao *CbsdDAO) Upsert(ctx context.Context, serialNumber string, cbsd model.Cbsd) (bool, error) {
	start := time.Now()
	logger.Info("Upserting CBSD record", zap.String("serialNumber", serialNumber))

	measCapability, err := json.Marshal(cbsd.MeasCapability)
	if err != nil {
		return false, sas_errors.ErrInvalidCbsdData
	}

	var created bool
	err = db.WithTx(ctx, dao.DB, func(tx *sql.Tx) error {
		var existingID int64
		err := tx.QueryRow(`SELECT id FROM cbsds WHERE cbsd_serial_number = ?`, serialNumber).Scan(&existingID)
		switch {
		case err == sql.ErrNoRows:
			created = true
			_, err = tx.Exec(
				`INSERT INTO cbsds (fcc_id, user_id, cbsd_serial_number, call_sign, cbsd_category,
					air_interface, meas_capability, eirp_capability, latitude, longitude, height,
					height_type, indoor_deployment, antenna_gain, antenna_beamwidth, antenna_azimuth,
					grouping_param, cbsd_address, sas_origin, registration_timestamp)
				 VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
				cbsd.FccID, cbsd.UserID, serialNumber, cbsd.CallSign, cbsd.CbsdCategory,
				cbsd.AirInterface, string(measCapability), cbsd.EirpCapability, cbsd.Latitude,
				cbsd.Longitude, cbsd.Height, cbsd.HeightType, cbsd.IndoorDeployment,
				cbsd.AntennaGain, cbsd.AntennaBeamwidth, cbsd.AntennaAzimuth, cbsd.GroupingParam,
				cbsd.CbsdAddress, cbsd.SASOrigin, cbsd.RegistrationTimestamp,
			)
		case err != nil:
			logger.Error("Failed to look up cbsd by serial", zap.Error(err))
			return sas_errors.ErrDatabaseOperation
		default:
			_, err = tx.Exec(
				`UPDATE cbsds SET fcc_id = ?, user_id = ?, call_sign = ?, cbsd_category = ?,
					air_interface = ?, meas_capability = ?, eirp_capability = ?, latitude = ?,
					longitude = ?, height = ?, height_type = ?, indoor_deployment = ?,
					antenna_gain = ?, antenna_beamwidth = ?, antenna_azimuth = ?,
					grouping_param = ?, cbsd_address = ?, updated_at = CURRENT_TIMESTAMP
				 WHERE id = ?`,
				cbsd.FccID, cbsd.UserID, cbsd.CallSign, cbsd.CbsdCategory, cbsd.AirInterface,
				string(measCapability), cbsd.EirpCapability, cbsd.Latitude, cbsd.Longitude,
				cbsd.Height, cbsd.HeightType, cbsd.IndoorDeployment, cbsd.AntennaGain,
				cbsd.AntennaBeamwidth, cbsd.AntennaAzimuth, cbsd.GroupingParam,
				cbsd.CbsdAddress, existingID,
			)
		}
		if isUniqueViolation(err) {
			return sas_errors.ErrCbsdConflict
		}
		if err != nil {
			logger.Error("Failed to upsert cbsd", zap.Error(err))
			return sas_errors.ErrDatabaseOperation
		}
		return nil
	})

	duration := time.Since(start)
	if err != nil {
		logger.Error("Failed to upsert CBSD record",
			zap.Error(err),
			zap.String("serialNumber", serialNumber),
			zap.Duration("duration", duration))
		return false, err
	}

	logger.Info("CBSD record upserted successfully",
		zap.String("serialNumber", serialNumber),
		zap.Bool("created", created),
		zap.Duration("duration", duration))
	return created, nil
}

// Get retrieves a device by its (fccId, serialNumber) pair.
func (dao *CbsdDAO) Get(ctx context.Context, fccID, serialNumber string) (*model.Cbsd, error) {
	row := dao.DB.QueryRowContext(ctx,
		`SELECT `+cbsdColumns+` FROM cbsds WHERE fcc_id = ? AND cbsd_serial_number = ?`,
		fccID, serialNumber)

	cbsd, err := scanCbsd(row)
	if err == sql.ErrNoRows {
		return nil, sas_errors.ErrCbsdNotFound
	}
	if err != nil {
		logger.Error("Failed to get cbsd",
			zap.Error(err),
			zap.String("fccId", fccID),
			zap.String("serialNumber", serialNumber))
		return nil, sas_errors.ErrDatabaseOperation
	}
	return cbsd, nil
}

// GetBySerial retrieves a device by serial number alone (push-style key).
func (dao *CbsdDAO) GetBySerial(ctx context.Context, serialNumber string) (*model.Cbsd, error) {
	row := dao.DB.QueryRowContext(ctx,
		`SELECT `+cbsdColumns+` FROM cbsds WHERE cbsd_serial_number = ?`, serialNumber)

	cbsd, err := scanCbsd(row)
	if err == sql.ErrNoRows {
		return nil, sas_errors.ErrCbsdNotFound
	}
	if err != nil {
		logger.Error("Failed to get cbsd by serial", zap.Error(err), zap.String("serialNumber", serialNumber))
		return nil, sas_errors.ErrDatabaseOperation
	}
	return cbsd, nil
}

// Deregister deletes the device. With cascade enabled, active grants of
// the device are terminated in the same transaction; otherwise they are
// left in place, matching the original contract behavior.
func (dao *CbsdDAO) Deregister(ctx context.Context, fccID, serialNumber, sasOrigin string, cascade bool) error {
	start := time.Now()
	logger.Info("Deregistering CBSD",
		zap.String("fccId", fccID),
		zap.String("serialNumber", serialNumber))

	err := db.WithTx(ctx, dao.DB, func(tx *sql.Tx) error {
		result, err := tx.Exec(
			`DELETE FROM cbsds WHERE fcc_id = ? AND cbsd_serial_number = ?`,
			fccID, serialNumber,
		)
		if err != nil {
			logger.Error("Failed to delete cbsd", zap.Error(err))
			return sas_errors.ErrDatabaseOperation
		}
		affected, err := result.RowsAffected()
		if err != nil {
			return sas_errors.ErrDatabaseOperation
		}
		if affected == 0 {
			return sas_errors.ErrCbsdNotFound
		}

		payload := map[string]interface{}{
			"fccId":        fccID,
			"serialNumber": serialNumber,
			"sasOrigin":    sasOrigin,
		}

		if cascade {
			result, err := tx.Exec(
				`UPDATE grants SET terminated = 1, state = ?, updated_at = CURRENT_TIMESTAMP
				 WHERE fcc_id = ? AND cbsd_serial_number = ? AND terminated = 0`,
				model.GrantStateTerminated, fccID, serialNumber,
			)
			if err != nil {
				logger.Error("Failed to cascade-terminate grants", zap.Error(err))
				return sas_errors.ErrDatabaseOperation
			}
			terminated, err := result.RowsAffected()
			if err != nil {
				return sas_errors.ErrDatabaseOperation
			}
			payload["terminatedGrants"] = terminated
		}

		return dao.EventDAO.AppendTx(tx, model.EventCbsdDeregistered, payload)
	})

	duration := time.Since(start)
	if err != nil {
		logger.Error("Failed to deregister CBSD",
			zap.Error(err),
			zap.String("fccId", fccID),
			zap.String("serialNumber", serialNumber),
			zap.Duration("duration", duration))
		return err
	}

	logger.Info("CBSD deregistered successfully",
		zap.String("fccId", fccID),
		zap.String("serialNumber", serialNumber),
		zap.Duration("duration", duration))
	return nil
}

func (dao *CbsdDAO) Count(ctx context.Context) (int64, error) {
	var count int64
	if err := dao.DB.QueryRowContext(ctx, `SELECT COUNT(*) FROM cbsds`).Scan(&count); err != nil {
		logger.Error("Failed to count cbsds", zap.Error(err))
		return 0, sas_errors.ErrDatabaseOperation
	}
	return count, nil
}

// List returns every device record, insertion order, for the activity dump.
func (dao *CbsdDAO) List(ctx context.Context) ([]model.Cbsd, error) {
	rows, err := dao.DB.QueryContext(ctx, `SELECT `+cbsdColumns+` FROM cbsds ORDER BY id`)
	if err != nil {
		logger.Error("Failed to list cbsds", zap.Error(err))
		return nil, sas_errors.ErrDatabaseOperation
	}
	defer rows.Close()

	cbsds := []model.Cbsd{}
	for rows.Next() {
		cbsd, err := scanCbsd(rows)
		if err != nil {
			logger.Error("Failed to scan cbsd row", zap.Error(err))
			return nil, sas_errors.ErrDatabaseOperation
		}
		cbsds = append(cbsds, *cbsd)
	}
	if err := rows.Err(); err != nil {
		return nil, sas_errors.ErrDatabaseOperation
	}
	return cbsds, nil
}
