// api/db/db.go
package db

import (
	"context"
	"database/sql"
	"fmt"

	"go.uber.org/zap"
	_ "modernc.org/sqlite"

	"github.com/openspectrum/sas-registry/config"
	logger "github.com/openspectrum/sas-registry/logging"
)

var SasDB *sql.DB

// Schema for the four registry tables. Pair uniqueness on
// (fcc_id, cbsd_serial_number) is enforced here, not in application code:
// the existence check before insert is advisory only and the constraint
// closes the check-then-act race under concurrent registration.
var schema = []string{
	`CREATE TABLE IF NOT EXISTS cbsds (
		id INTEGER PRIMARY KEY AUTOINCREMENT,
		fcc_id TEXT NOT NULL,
		user_id TEXT NOT NULL,
		cbsd_serial_number TEXT NOT NULL,
		call_sign TEXT NOT NULL DEFAULT '',
		cbsd_category TEXT NOT NULL DEFAULT '',
		air_interface TEXT NOT NULL DEFAULT '',
		meas_capability TEXT NOT NULL DEFAULT '[]',
		eirp_capability INTEGER NOT NULL DEFAULT 0,
		latitude INTEGER NOT NULL DEFAULT 0,
		longitude INTEGER NOT NULL DEFAULT 0,
		height INTEGER NOT NULL DEFAULT 0,
		height_type TEXT NOT NULL DEFAULT '',
		indoor_deployment INTEGER NOT NULL DEFAULT 0,
		antenna_gain INTEGER NOT NULL DEFAULT 0,
		antenna_beamwidth INTEGER NOT NULL DEFAULT 0,
		antenna_azimuth INTEGER NOT NULL DEFAULT 0,
		grouping_param TEXT NOT NULL DEFAULT '',
		cbsd_address TEXT NOT NULL DEFAULT '',
		sas_origin TEXT NOT NULL DEFAULT '',
		registration_timestamp INTEGER NOT NULL DEFAULT 0,
		created_at TIMESTAMP NOT NULL DEFAULT CURRENT_TIMESTAMP,
		updated_at TIMESTAMP,
		UNIQUE (fcc_id, cbsd_serial_number)
	)`,
	`CREATE UNIQUE INDEX IF NOT EXISTS idx_cbsds_serial ON cbsds (cbsd_serial_number)`,
	`CREATE TABLE IF NOT EXISTS grants (
		id INTEGER PRIMARY KEY AUTOINCREMENT,
		grant_id TEXT NOT NULL UNIQUE,
		fcc_id TEXT NOT NULL,
		cbsd_serial_number TEXT NOT NULL,
		channel_type TEXT NOT NULL,
		max_eirp INTEGER NOT NULL DEFAULT 0,
		low_frequency INTEGER NOT NULL DEFAULT 0,
		high_frequency INTEGER NOT NULL DEFAULT 0,
		requested_max_eirp INTEGER NOT NULL DEFAULT 0,
		requested_low_frequency INTEGER NOT NULL DEFAULT 0,
		requested_high_frequency INTEGER NOT NULL DEFAULT 0,
		grant_expire_time INTEGER NOT NULL DEFAULT 0,
		transmit_expire_time INTEGER,
		state TEXT NOT NULL DEFAULT 'GRANTED',
		terminated INTEGER NOT NULL DEFAULT 0,
		sas_origin TEXT NOT NULL DEFAULT '',
		grant_timestamp INTEGER NOT NULL DEFAULT 0,
		created_at TIMESTAMP NOT NULL DEFAULT CURRENT_TIMESTAMP,
		updated_at TIMESTAMP
	)`,
	`CREATE INDEX IF NOT EXISTS idx_grants_device ON grants (fcc_id, cbsd_serial_number)`,
	`CREATE TABLE IF NOT EXISTS sas_authorizations (
		id INTEGER PRIMARY KEY AUTOINCREMENT,
		sas_address TEXT NOT NULL UNIQUE,
		authorized INTEGER NOT NULL DEFAULT 1,
		created_at TIMESTAMP NOT NULL DEFAULT CURRENT_TIMESTAMP,
		updated_at TIMESTAMP
	)`,
	`CREATE TABLE IF NOT EXISTS events (
		id INTEGER PRIMARY KEY AUTOINCREMENT,
		event_type TEXT NOT NULL,
		payload TEXT NOT NULL,
		transaction_hash TEXT,
		block_number INTEGER,
		created_at TIMESTAMP NOT NULL DEFAULT CURRENT_TIMESTAMP
	)`,
}

func InitSQLite() error {
	path := config.GetString("sqlite.path")
	logger.Info("Opening registry database", zap.String("path", path))

	handle, err := Open(path)
	if err != nil {
		return err
	}

	SasDB = handle
	logger.Info("Successfully opened registry database")
	return nil
}

// Open opens a sqlite database at path and bootstraps the schema. Tests
// use this directly with ":memory:" to get an isolated store per test.
func Open(path string) (*sql.DB, error) {
	handle, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}

	if err := handle.Ping(); err != nil {
		return nil, fmt.Errorf("failed to ping database: %w", err)
	}

	// A single writer connection avoids SQLITE_BUSY under concurrent
	// mutations and keeps :memory: databases on one connection.
	handle.SetMaxOpenConns(1)

	if _, err := handle.Exec("PRAGMA foreign_keys = ON"); err != nil {
		return nil, fmt.Errorf("failed to enable foreign keys: %w", err)
	}

	for _, stmt := range schema {
		if _, err := handle.Exec(stmt); err != nil {
			return nil, fmt.Errorf("failed to create tables: %w", err)
		}
	}

	return handle, nil
}

func CloseSQLite() {
	if SasDB != nil {
		if err := SasDB.Close(); err != nil {
			logger.Error("Error closing registry database", zap.Error(err))
		} else {
			logger.Info("Registry database closed successfully")
		}
	}
}

// WithTx runs work inside a transaction, rolling back on error or panic.
// Every mutating operation, including its event append, goes through here
// so that no partial writes survive a failure.
func WithTx(ctx context.Context, handle *sql.DB, work func(tx *sql.Tx) error) error {
	tx, err := handle.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}

	defer func() {
		if p := recover(); p != nil {
			tx.Rollback()
			panic(p)
		}
	}()

	if err := work(tx); err != nil {
		if rbErr := tx.Rollback(); rbErr != nil && rbErr != sql.ErrTxDone {
			logger.Error("Failed to roll back transaction", zap.Error(rbErr))
		}
		return err
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("failed to commit transaction: %w", err)
	}
	return nil
}
