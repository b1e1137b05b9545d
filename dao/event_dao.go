// api/dao/event_dao.go
package dao

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	sas_errors "github.com/openspectrum/sas-registry/errors"
	logger "github.com/openspectrum/sas-registry/logging"
	"github.com/openspectrum/sas-registry/model"
)

type EventDAO struct {
	DB *sql.DB
}

func NewEventDAO(db *sql.DB) *EventDAO {
	return &EventDAO{DB: db}
}

// newTransactionHash mirrors the ledger-compatibility format: 0x followed
// by 32 hex characters. It is a correlation id, not a real hash.
func newTransactionHash() string {
	return "0x" + strings.ReplaceAll(uuid.New().String(), "-", "")
}

// AppendTx writes an event row inside the caller's transaction so the
// event commits or rolls back together with the mutation it records.
func (dao *EventDAO) AppendTx(tx *sql.Tx, eventType string, payload interface{}) error {
	data, err := json.Marshal(payload)
	if err != nil {
		return fmt.Errorf("failed to marshal event payload: %w", err)
	}

	_, err = tx.Exec(
		`INSERT INTO events (event_type, payload, transaction_hash, block_number) VALUES (?, ?, ?, 1)`,
		eventType, string(data), newTransactionHash(),
	)
	if err != nil {
		logger.Error("Failed to append event", zap.Error(err), zap.String("eventType", eventType))
		return sas_errors.ErrDatabaseOperation
	}
	return nil
}

// Recent returns up to limit events, most recent first.
func (dao *EventDAO) Recent(ctx context.Context, limit int) ([]model.Event, error) {
	start := time.Now()

	rows, err := dao.DB.QueryContext(ctx,
		`SELECT id, event_type, payload, COALESCE(transaction_hash, ''), COALESCE(block_number, 0), created_at
		 FROM events ORDER BY id DESC LIMIT ?`, limit)
	if err != nil {
		logger.Error("Failed to query recent events", zap.Error(err))
		return nil, sas_errors.ErrDatabaseOperation
	}
	defer rows.Close()

	events := []model.Event{}
	for rows.Next() {
		var event model.Event
		var payload string
		if err := rows.Scan(&event.ID, &event.EventType, &payload,
			&event.TransactionHash, &event.BlockNumber, &event.CreatedAt); err != nil {
			logger.Error("Failed to scan event row", zap.Error(err))
			return nil, sas_errors.ErrDatabaseOperation
		}
		event.Payload = json.RawMessage(payload)
		events = append(events, event)
	}
	if err := rows.Err(); err != nil {
		return nil, sas_errors.ErrDatabaseOperation
	}

	logger.Debug("Recent events listed",
		zap.Int("count", len(events)),
		zap.Duration("duration", time.Since(start)))
	return events, nil
}

func (dao *EventDAO) Count(ctx context.Context) (int64, error) {
	var count int64
	if err := dao.DB.QueryRowContext(ctx, `SELECT COUNT(*) FROM events`).Scan(&count); err != nil {
		logger.Error("Failed to count events", zap.Error(err))
		return 0, sas_errors.ErrDatabaseOperation
	}
	return count, nil
}
