package gateway

import (
	"encoding/json"
	"time"
)

// LiveEvent is the frame pushed to websocket clients. Data carries the
// original event payload untouched; clients switch on Type.
type LiveEvent struct {
	ID          string          `json:"id"`
	AggregateID string          `json:"aggregate_id"` // draft, trade, or claim UUID
	Type        string          `json:"type"`
	Timestamp   time.Time       `json:"timestamp"`
	Data        json.RawMessage `json:"data"`
}
