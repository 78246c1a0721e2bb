package models

import (
	"time"

	"github.com/google/uuid"
)

// DraftOrderType defines how the team sequence repeats across rounds.
type DraftOrderType string

const (
	// DraftOrderStraight repeats the same team sequence every round.
	DraftOrderStraight DraftOrderType = "STRAIGHT"
	// DraftOrderSnake reverses the team sequence on even rounds.
	DraftOrderSnake DraftOrderType = "SNAKE"
)

// DraftStatus defines the status of a draft.
type DraftStatus string

const (
	DraftStatusNotStarted DraftStatus = "NOT_STARTED"
	DraftStatusInProgress DraftStatus = "IN_PROGRESS"
	DraftStatusPaused     DraftStatus = "PAUSED"
	DraftStatusCompleted  DraftStatus = "COMPLETED"
	DraftStatusCancelled  DraftStatus = "CANCELLED"
)

// DraftSettings holds JSONB configuration for a draft.
// The pick order itself is a configuration input; the engine only expands
// it into slots (straight or snake) at start.
type DraftSettings struct {
	Rounds         int            `json:"rounds"`
	TimePerPickSec int            `json:"time_per_pick_sec"`
	OrderType      DraftOrderType `json:"order_type"`
	DraftOrder     []uuid.UUID    `json:"draft_order"`
}

// PicksPerRound returns the number of pick slots in each round.
func (s DraftSettings) PicksPerRound() int {
	return len(s.DraftOrder)
}

// TotalPicks returns the number of pick slots across all rounds.
func (s DraftSettings) TotalPicks() int {
	return s.Rounds * len(s.DraftOrder)
}

// Draft represents an entry draft for a season. Exactly one pick is
// "current" while the draft is in progress; CurrentRound/CurrentPick track
// it and are advanced atomically with each made or skipped pick.
type Draft struct {
	ID           uuid.UUID     `json:"id"`
	Season       string        `json:"season"`
	Status       DraftStatus   `json:"status"`
	Settings     DraftSettings `json:"settings"`
	CurrentRound int           `json:"current_round"`
	CurrentPick  int           `json:"current_pick"`
	ScheduledAt  *time.Time    `json:"scheduled_at,omitempty"`
	StartedAt    *time.Time    `json:"started_at,omitempty"`
	CompletedAt  *time.Time    `json:"completed_at,omitempty"`
	NextDeadline *time.Time    `json:"next_deadline,omitempty"`
	CreatedAt    time.Time     `json:"created_at"`
	UpdatedAt    time.Time     `json:"updated_at"`
}
