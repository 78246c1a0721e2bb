package models

import (
	"time"

	"github.com/google/uuid"
)

// WaiverStatus defines the status of a waiver claim window.
type WaiverStatus string

const (
	WaiverStatusActive    WaiverStatus = "ACTIVE"
	WaiverStatusAwarded   WaiverStatus = "AWARDED"
	WaiverStatusExpired   WaiverStatus = "EXPIRED"
	WaiverStatusCancelled WaiverStatus = "CANCELLED"
)

// WaiverClaim is the claim window opened when a player is waived.
// While ACTIVE, LeadingTeamID reflects the current highest-priority
// claimant and may still change; it becomes permanent at AWARDED.
type WaiverClaim struct {
	ID             uuid.UUID    `json:"id"`
	PlayerID       uuid.UUID    `json:"player_id"`
	DroppingTeamID uuid.UUID    `json:"dropping_team_id"`
	LeadingTeamID  *uuid.UUID   `json:"leading_team_id,omitempty"`
	Status         WaiverStatus `json:"status"`
	SubmittedAt    time.Time    `json:"submitted_at"`
	ProcessDate    time.Time    `json:"process_date"` // claims resolve here, not immediately
	ProcessedAt    *time.Time   `json:"processed_at,omitempty"`
}

// WindowOpen reports whether the claim still accepts bids at t.
func (c *WaiverClaim) WindowOpen(t time.Time) bool {
	return c.Status == WaiverStatusActive && t.Before(c.ProcessDate)
}

// WaiverBid is a single team's claim on a waived player. Priority is
// snapshotted from the team's waiver priority at submission so leader
// selection is deterministic for the life of the window.
type WaiverBid struct {
	ID          uuid.UUID `json:"id"`
	ClaimID     uuid.UUID `json:"claim_id"`
	TeamID      uuid.UUID `json:"team_id"`
	Priority    int       `json:"priority"` // lower is earlier
	SubmittedAt time.Time `json:"submitted_at"`
	Cancelled   bool      `json:"cancelled"`
}
