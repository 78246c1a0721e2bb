package events

import (
	"time"
)

// Event payload types shared between the engines, the outbox relay, and
// the live gateway.

// Event type names as stored in the outbox and published on the bus.
const (
	TypeDraftStarted   = "DraftStarted"
	TypeDraftPaused    = "DraftPaused"
	TypeDraftResumed   = "DraftResumed"
	TypeDraftCompleted = "DraftCompleted"
	TypePickStarted    = "PickStarted"
	TypePickMade       = "PickMade"
	TypePickSkipped    = "PickSkipped"
	TypeTradeAccepted  = "TradeAccepted"
	TypePlayerWaived   = "PlayerWaived"
	TypeWaiverAwarded  = "WaiverAwarded"
	TypeWaiverExpired  = "WaiverExpired"
)

// DraftStartedPayload is the payload for a DraftStarted event
type DraftStartedPayload struct {
	DraftID     string    `json:"draft_id"`
	Season      string    `json:"season"`
	StartedAt   time.Time `json:"started_at"`
	TotalRounds int       `json:"total_rounds"`
	TotalPicks  int       `json:"total_picks"`
}

// DraftPausedPayload is the payload for a DraftPaused event
type DraftPausedPayload struct {
	DraftID  string    `json:"draft_id"`
	PausedAt time.Time `json:"paused_at"`
	Reason   string    `json:"reason"`
}

// DraftResumedPayload is the payload for a DraftResumed event
type DraftResumedPayload struct {
	DraftID   string    `json:"draft_id"`
	ResumedAt time.Time `json:"resumed_at"`
}

// DraftCompletedPayload is the payload for a DraftCompleted event
type DraftCompletedPayload struct {
	DraftID     string    `json:"draft_id"`
	CompletedAt time.Time `json:"completed_at"`
	TotalPicks  int       `json:"total_picks"`
}

// PickStartedPayload is the payload for a PickStarted event
type PickStartedPayload struct {
	PickID         string    `json:"pick_id"`
	TeamID         string    `json:"team_id"`
	Round          int       `json:"round"`
	Pick           int       `json:"pick"`
	OverallPick    int       `json:"overall_pick"`
	StartedAt      time.Time `json:"started_at"`
	TimeoutAt      time.Time `json:"timeout_at"`
	TimePerPickSec int       `json:"time_per_pick_sec"`
}

// PickMadePayload is the payload for a PickMade event
type PickMadePayload struct {
	PickID       string    `json:"pick_id"`
	TeamID       string    `json:"team_id"`
	ProspectID   string    `json:"prospect_id"`
	ProspectName string    `json:"prospect_name"`
	Round        int       `json:"round"`
	Pick         int       `json:"pick"`
	OverallPick  int       `json:"overall_pick"`
	MadeAt       time.Time `json:"made_at"`
}

// PickSkippedPayload is the payload for a PickSkipped event
type PickSkippedPayload struct {
	PickID        string    `json:"pick_id"`
	TeamID        string    `json:"team_id"`
	Round         int       `json:"round"`
	Pick          int       `json:"pick"`
	OverallPick   int       `json:"overall_pick"`
	RequeuedAsID  string    `json:"requeued_as_id"`
	SkippedAt     time.Time `json:"skipped_at"`
}

// TradeAcceptedPayload is the payload for a TradeAccepted event
type TradeAcceptedPayload struct {
	TradeID        string    `json:"trade_id"`
	FromTeamID     string    `json:"from_team_id"`
	ToTeamID       string    `json:"to_team_id"`
	PlayersOffered []string  `json:"players_offered"`
	PlayersWanted  []string  `json:"players_wanted"`
	AcceptedAt     time.Time `json:"accepted_at"`
}

// PlayerWaivedPayload is the payload for a PlayerWaived event
type PlayerWaivedPayload struct {
	ClaimID        string    `json:"claim_id"`
	PlayerID       string    `json:"player_id"`
	DroppingTeamID string    `json:"dropping_team_id"`
	ProcessDate    time.Time `json:"process_date"`
	WaivedAt       time.Time `json:"waived_at"`
}

// WaiverAwardedPayload is the payload for a WaiverAwarded event
type WaiverAwardedPayload struct {
	ClaimID       string    `json:"claim_id"`
	PlayerID      string    `json:"player_id"`
	WinningTeamID string    `json:"winning_team_id"`
	AwardedAt     time.Time `json:"awarded_at"`
}

// WaiverExpiredPayload is the payload for a WaiverExpired event
type WaiverExpiredPayload struct {
	ClaimID   string    `json:"claim_id"`
	PlayerID  string    `json:"player_id"`
	ExpiredAt time.Time `json:"expired_at"`
}
