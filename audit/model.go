// api/audit/model.go
package audit

import (
	"encoding/json"
	"time"
)

// Entry mirrors a committed registry event into the search index. The
// sqlite events table stays the system of record; entries here are an
// asynchronous copy for operator queries.
type Entry struct {
	Timestamp       time.Time       `json:"timestamp"`
	EventType       string          `json:"event_type"`
	SASAddress      string          `json:"sas_address"`
	Payload         json.RawMessage `json:"payload,omitempty"`
	TransactionHash string          `json:"transaction_hash,omitempty"`
	BlockNumber     int64           `json:"block_number,omitempty"`
}
