// api/model/event.go
package model

import (
	"encoding/json"
	"time"
)

// Event types emitted by the canonical state transitions.
const (
	EventCbsdRegistered   = "CBSD_REGISTERED"
	EventCbsdDeregistered = "CBSD_DEREGISTERED"
	EventGrantCreated     = "GRANT_CREATED"
	EventGrantTerminated  = "GRANT_TERMINATED"
	EventSASAuthorized    = "SAS_AUTHORIZED"
	EventSASRevoked       = "SAS_REVOKED"
)

// Event is an append-only audit record written in the same transaction as
// the mutation that produced it. TransactionHash and BlockNumber are
// opaque compatibility fields for the external ledger interface; they
// carry no ordering guarantee.
type Event struct {
	ID              int64           `json:"id"`
	EventType       string          `json:"type"`
	Payload         json.RawMessage `json:"payload"`
	TransactionHash string          `json:"transaction_hash"`
	BlockNumber     int64           `json:"block_number"`
	CreatedAt       time.Time       `json:"created_at"`
}
