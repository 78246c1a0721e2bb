package models

import (
	"time"

	"github.com/google/uuid"
)

// TradeStatus defines the status of a trade proposal.
type TradeStatus string

const (
	TradeStatusPending   TradeStatus = "PENDING"
	TradeStatusAccepted  TradeStatus = "ACCEPTED"
	TradeStatusRejected  TradeStatus = "REJECTED"
	TradeStatusCancelled TradeStatus = "CANCELLED"
)

// Terminal reports whether the status permits no further transitions.
func (s TradeStatus) Terminal() bool {
	return s != TradeStatusPending
}

// Trade represents a bilateral trade proposal. A trade is immutable once
// its status leaves PENDING; accepting one atomically reassigns every
// player in both sets to the opposite team.
type Trade struct {
	ID             uuid.UUID   `json:"id"`
	FromTeamID     uuid.UUID   `json:"from_team_id"`
	ToTeamID       uuid.UUID   `json:"to_team_id"`
	PlayersOffered []uuid.UUID `json:"players_offered"`
	PlayersWanted  []uuid.UUID `json:"players_wanted"`
	Status         TradeStatus `json:"status"`
	ProposedAt     time.Time   `json:"proposed_at"`
	ResolvedAt     *time.Time  `json:"resolved_at,omitempty"`
}
