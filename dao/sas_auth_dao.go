// api/dao/sas_auth_dao.go
package dao

import (
	"context"
	"database/sql"
	"time"

	"go.uber.org/zap"

	"github.com/openspectrum/sas-registry/db"
	sas_errors "github.com/openspectrum/sas-registry/errors"
	logger "github.com/openspectrum/sas-registry/logging"
	"github.com/openspectrum/sas-registry/model"
)

type SASAuthorizationDAO struct {
	DB       *sql.DB
	EventDAO *EventDAO
}

func NewSASAuthorizationDAO(handle *sql.DB, eventDAO *EventDAO) *SASAuthorizationDAO {
	return &SASAuthorizationDAO{DB: handle, EventDAO: eventDAO}
}

// Authorize upserts the address with authorized=true. Re-authorizing an
// already-authorized address succeeds and still emits SAS_AUTHORIZED.
func (dao *SASAuthorizationDAO) Authorize(ctx context.Context, address string) error {
	start := time.Now()
	logger.Info("Authorizing SAS", zap.String("sasAddress", address))

	err := db.WithTx(ctx, dao.DB, func(tx *sql.Tx) error {
		_, err := tx.Exec(
			`INSERT INTO sas_authorizations (sas_address, authorized) VALUES (?, 1)
			 ON CONFLICT(sas_address) DO UPDATE SET authorized = 1, updated_at = CURRENT_TIMESTAMP`,
			address,
		)
		if err != nil {
			logger.Error("Failed to upsert sas authorization", zap.Error(err))
			return sas_errors.ErrDatabaseOperation
		}

		return dao.EventDAO.AppendTx(tx, model.EventSASAuthorized, map[string]interface{}{
			"sas_address": address,
		})
	})

	duration := time.Since(start)
	if err != nil {
		logger.Error("Failed to authorize SAS",
			zap.Error(err),
			zap.String("sasAddress", address),
			zap.Duration("duration", duration))
		return err
	}

	logger.Info("SAS authorized successfully",
		zap.String("sasAddress", address),
		zap.Duration("duration", duration))
	return nil
}

// Revoke flips authorized to false. Revoking an address that was never
// authorized is a successful no-op and emits no event; the returned bool
// reports whether a record existed.
func (dao *SASAuthorizationDAO) Revoke(ctx context.Context, address string) (bool, error) {
	start := time.Now()
	logger.Info("Revoking SAS", zap.String("sasAddress", address))

	var existed bool
	err := db.WithTx(ctx, dao.DB, func(tx *sql.Tx) error {
		result, err := tx.Exec(
			`UPDATE sas_authorizations SET authorized = 0, updated_at = CURRENT_TIMESTAMP WHERE sas_address = ?`,
			address,
		)
		if err != nil {
			logger.Error("Failed to update sas authorization", zap.Error(err))
			return sas_errors.ErrDatabaseOperation
		}

		affected, err := result.RowsAffected()
		if err != nil {
			return sas_errors.ErrDatabaseOperation
		}
		if affected == 0 {
			// Unknown address: defined as success, nothing to record.
			return nil
		}
		existed = true

		return dao.EventDAO.AppendTx(tx, model.EventSASRevoked, map[string]interface{}{
			"sas_address": address,
		})
	})

	duration := time.Since(start)
	if err != nil {
		logger.Error("Failed to revoke SAS",
			zap.Error(err),
			zap.String("sasAddress", address),
			zap.Duration("duration", duration))
		return false, err
	}

	logger.Info("SAS revoked successfully",
		zap.String("sasAddress", address),
		zap.Bool("existed", existed),
		zap.Duration("duration", duration))
	return existed, nil
}

// IsAuthorized reports whether the address is currently authorized.
// Unknown addresses read as not authorized, never as an error.
func (dao *SASAuthorizationDAO) IsAuthorized(ctx context.Context, address string) (bool, error) {
	var authorized bool
	err := dao.DB.QueryRowContext(ctx,
		`SELECT authorized FROM sas_authorizations WHERE sas_address = ?`, address,
	).Scan(&authorized)
	if err == sql.ErrNoRows {
		return false, nil
	}
	if err != nil {
		logger.Error("Failed to query sas authorization", zap.Error(err), zap.String("sasAddress", address))
		return false, sas_errors.ErrDatabaseOperation
	}
	return authorized, nil
}

func (dao *SASAuthorizationDAO) CountAuthorized(ctx context.Context) (int64, error) {
	var count int64
	err := dao.DB.QueryRowContext(ctx,
		`SELECT COUNT(*) FROM sas_authorizations WHERE authorized = 1`,
	).Scan(&count)
	if err != nil {
		logger.Error("Failed to count authorized SAS", zap.Error(err))
		return 0, sas_errors.ErrDatabaseOperation
	}
	return count, nil
}
