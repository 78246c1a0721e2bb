package models

import (
	"encoding/json"
	"time"

	"github.com/google/uuid"
)

// TransactionType defines the channel a roster mutation came through.
type TransactionType string

const (
	TransactionTypeDraft  TransactionType = "DRAFT"
	TransactionTypeTrade  TransactionType = "TRADE"
	TransactionTypeWaiver TransactionType = "WAIVER"
)

// Transaction is an immutable audit record of a roster mutation.
// Entries are append-only; they are never mutated, deleted, or consulted
// to gate a business decision.
type Transaction struct {
	ID        uuid.UUID       `json:"id"`
	Type      TransactionType `json:"type"`
	TeamIDs   []uuid.UUID     `json:"team_ids"`
	PlayerIDs []uuid.UUID     `json:"player_ids"`
	Detail    json.RawMessage `json:"detail,omitempty"`
	CreatedAt time.Time       `json:"created_at"`
}
