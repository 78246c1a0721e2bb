package models

import (
	"time"

	"github.com/google/uuid"
)

// DraftPick represents a single pick slot in a draft.
// Overall pick numbers are globally unique and strictly increasing within
// a round.
type DraftPick struct {
	ID          uuid.UUID  `json:"id"`
	DraftID     uuid.UUID  `json:"draft_id"`
	Round       int        `json:"round"`
	Pick        int        `json:"pick"`         // pick number in the round
	OverallPick int        `json:"overall_pick"` // pick number overall
	TeamID      uuid.UUID  `json:"team_id"`
	ProspectID  *uuid.UUID `json:"prospect_id,omitempty"` // nil until picked
	PlayerID    *uuid.UUID `json:"player_id,omitempty"`   // promoted player, nil until picked
	PlayerName  string     `json:"player_name,omitempty"`
	PickedAt    *time.Time `json:"picked_at,omitempty"`
	Skipped     bool       `json:"skipped"` // timer expired before a pick was made
}

// IsSelected reports whether the slot has been filled.
func (p *DraftPick) IsSelected() bool {
	return p.ProspectID != nil
}
