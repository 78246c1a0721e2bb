package outbox

import (
	"encoding/json"
	"time"

	"github.com/google/uuid"
)

// Event is a pending or sent outbox row. AggregateID identifies the
// entity the event is about (draft, trade, or waiver claim id) and doubles
// as the ordering key on the bus.
type Event struct {
	ID          uuid.UUID       `json:"id"`
	AggregateID uuid.UUID       `json:"aggregate_id"`
	EventType   string          `json:"event_type"`
	Payload     json.RawMessage `json:"payload"`
	CreatedAt   time.Time       `json:"created_at"`
	SentAt      *time.Time      `json:"sent_at,omitempty"`
}
