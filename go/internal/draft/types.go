package draft

import (
	"time"

	"github.com/google/uuid"

	"github.com/rinkhq/faceoff/go/internal/models"
)

// CreateDraftRequest carries the fields needed to create a draft
type CreateDraftRequest struct {
	ID          uuid.UUID            `json:"id"`
	Season      string               `json:"season"`
	Settings    models.DraftSettings `json:"settings"`
	ScheduledAt *time.Time           `json:"scheduled_at,omitempty"`
}

// StatusChange describes a draft status write plus the outbox event that
// must land in the same transaction. A nil Deadline clears the pick timer.
type StatusChange struct {
	Status    models.DraftStatus
	Deadline  *time.Time
	EventType string // empty means no event
	Payload   []byte
}

// MakePickParams carries everything the repository needs to record a pick
// atomically. The app layer validates turn order and prospect availability
// before building one.
type MakePickParams struct {
	Draft    *models.Draft
	Slot     *models.DraftPick
	Prospect *models.DraftProspect
	// Deadline for the following pick, ignored when the draft completes.
	NextDeadline time.Time
}

// SkipPickParams carries what the repository needs to skip the current
// slot and requeue it at the end of the draft.
type SkipPickParams struct {
	Draft        *models.Draft
	Slot         *models.DraftPick
	NextDeadline time.Time
}

// PickOutcome reports what a recorded pick did to the draft.
type PickOutcome struct {
	Pick      *models.DraftPick
	Completed bool
	MadeAt    time.Time
}

// SkipOutcome reports the result of a skip. Skipped is false when the slot
// was already filled or skipped by a concurrent writer.
type SkipOutcome struct {
	Skipped      bool
	RequeuedAsID uuid.UUID
}

// NextDeadline is the soonest pick deadline across all in-progress drafts.
type NextDeadline struct {
	DraftID  uuid.UUID  `json:"draft_id"`
	Deadline *time.Time `json:"deadline"`
}
