package models

import (
	"time"

	"github.com/google/uuid"
)

// ScoutingRatings holds 0-100 scouting grades for a prospect.
type ScoutingRatings struct {
	Skating    int `json:"skating"`
	Shooting   int `json:"shooting"`
	Playmaking int `json:"playmaking"`
	Defense    int `json:"defense"`
	Physical   int `json:"physical"`
}

// DraftProspect is a player-shaped entity not yet in the league.
// Once IsDrafted flips true the DraftedBy/DraftRound/DraftPick fields are
// permanent and the prospect is promoted into a Player owned by DraftedBy.
// A prospect can be drafted exactly once.
type DraftProspect struct {
	ID           uuid.UUID       `json:"id"`
	FullName     string          `json:"full_name"`
	Position     Position        `json:"position"`
	JerseyNumber int             `json:"jersey_number"`
	DraftRank    int             `json:"draft_rank"` // advisory display ranking
	Ratings      ScoutingRatings `json:"ratings"`
	IsDrafted    bool            `json:"is_drafted"`
	DraftedBy    *uuid.UUID      `json:"drafted_by,omitempty"`
	DraftRound   *int            `json:"draft_round,omitempty"`
	DraftPick    *int            `json:"draft_pick,omitempty"`
	CreatedAt    time.Time       `json:"created_at"`
}
