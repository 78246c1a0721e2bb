package draft

import (
	"context"
	"encoding/json"
	"fmt"
	"log"
	"time"

	"github.com/google/uuid"
	"github.com/jonboulle/clockwork"

	"github.com/rinkhq/faceoff/go/internal/apperrors"
	"github.com/rinkhq/faceoff/go/internal/events"
	"github.com/rinkhq/faceoff/go/internal/models"
)

// DraftRepository defines what the draft app layer needs from the draft repository
type DraftRepository interface {
	CreateDraft(ctx context.Context, req CreateDraftRequest) (*models.Draft, error)
	GetDraft(ctx context.Context, id uuid.UUID) (*models.Draft, error)
	ListDrafts(ctx context.Context) ([]models.Draft, error)
	UpdateDraftStatus(ctx context.Context, id uuid.UUID, change StatusChange) (*models.Draft, error)
	StartDraft(ctx context.Context, id uuid.UUID, picks []models.DraftPick, deadline time.Time, payload []byte) (*models.Draft, error)
	GetDraftPicksByDraft(ctx context.Context, draftID uuid.UUID) ([]models.DraftPick, error)
	GetDraftPicksByRound(ctx context.Context, draftID uuid.UUID, round int) ([]models.DraftPick, error)
	GetNextPickForDraft(ctx context.Context, draftID uuid.UUID) (*models.DraftPick, error)
	CountRemainingPicks(ctx context.Context, draftID uuid.UUID) (int, error)
	MakePick(ctx context.Context, params MakePickParams) (*PickOutcome, error)
	SkipCurrentPick(ctx context.Context, params SkipPickParams) (*SkipOutcome, error)
	FetchNextDeadline(ctx context.Context) (*NextDeadline, error)
	FetchDraftsDueForPick(ctx context.Context, limit int32) ([]uuid.UUID, error)
	UpdateNextDeadline(ctx context.Context, draftID uuid.UUID, deadline *time.Time) error
	ClearNextDeadline(ctx context.Context, draftID uuid.UUID) error
}

// ProspectGetter defines what the draft app layer needs from the prospect app
type ProspectGetter interface {
	GetProspect(ctx context.Context, id uuid.UUID) (*models.DraftProspect, error)
}

// App handles draft business logic
type App struct {
	repo      DraftRepository
	prospects ProspectGetter
	clock     clockwork.Clock
}

// NewApp creates a new draft App
func NewApp(repo DraftRepository, prospects ProspectGetter, clock clockwork.Clock) *App {
	return &App{
		repo:      repo,
		prospects: prospects,
		clock:     clock,
	}
}

// CreateDraft creates a new draft with validation
func (a *App) CreateDraft(ctx context.Context, req CreateDraftRequest) (*models.Draft, error) {
	if err := a.validateCreateDraftRequest(req); err != nil {
		return nil, fmt.Errorf("validation failed: %w", err)
	}

	draft, err := a.repo.CreateDraft(ctx, req)
	if err != nil {
		return nil, fmt.Errorf("failed to create draft: %w", err)
	}

	log.Printf("Created draft for season %s: %d rounds, %d teams, %s order",
		draft.Season, draft.Settings.Rounds, len(draft.Settings.DraftOrder), draft.Settings.OrderType)
	return draft, nil
}

// GetDraft retrieves a draft by ID
func (a *App) GetDraft(ctx context.Context, id uuid.UUID) (*models.Draft, error) {
	draft, err := a.repo.GetDraft(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("failed to get draft: %w", err)
	}
	return draft, nil
}

// ListDrafts retrieves all drafts, newest first
func (a *App) ListDrafts(ctx context.Context) ([]models.Draft, error) {
	drafts, err := a.repo.ListDrafts(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to list drafts: %w", err)
	}
	return drafts, nil
}

// GetDraftPicks retrieves the full board for a draft in overall pick order
func (a *App) GetDraftPicks(ctx context.Context, draftID uuid.UUID) ([]models.DraftPick, error) {
	picks, err := a.repo.GetDraftPicksByDraft(ctx, draftID)
	if err != nil {
		return nil, fmt.Errorf("failed to get draft picks: %w", err)
	}
	return picks, nil
}

// GetDraftPicksByRound retrieves the board for a single round
func (a *App) GetDraftPicksByRound(ctx context.Context, draftID uuid.UUID, round int) ([]models.DraftPick, error) {
	if round <= 0 {
		return nil, fmt.Errorf("round must be greater than 0")
	}
	picks, err := a.repo.GetDraftPicksByRound(ctx, draftID, round)
	if err != nil {
		return nil, fmt.Errorf("failed to get draft picks by round: %w", err)
	}
	return picks, nil
}

// GetCurrentPick returns the slot on the clock for an in-progress draft
func (a *App) GetCurrentPick(ctx context.Context, draftID uuid.UUID) (*models.DraftPick, error) {
	pick, err := a.repo.GetNextPickForDraft(ctx, draftID)
	if err != nil {
		return nil, fmt.Errorf("failed to get current pick: %w", err)
	}
	return pick, nil
}

// StartDraft moves a NOT_STARTED draft to IN_PROGRESS, creating every pick
// slot from the configured order and arming the first pick deadline.
func (a *App) StartDraft(ctx context.Context, id uuid.UUID) (*models.Draft, error) {
	draft, err := a.repo.GetDraft(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("draft not found: %w", err)
	}
	if draft.Status != models.DraftStatusNotStarted {
		return nil, fmt.Errorf("draft %s is %s, only NOT_STARTED drafts can start: %w",
			id, draft.Status, apperrors.ErrInvalidState)
	}

	picks := generatePickSlots(id, draft.Settings)
	startedAt := a.clock.Now()
	deadline := startedAt.Add(time.Duration(draft.Settings.TimePerPickSec) * time.Second)

	payload, err := json.Marshal(events.DraftStartedPayload{
		DraftID:     id.String(),
		Season:      draft.Season,
		StartedAt:   startedAt,
		TotalRounds: draft.Settings.Rounds,
		TotalPicks:  draft.Settings.TotalPicks(),
	})
	if err != nil {
		return nil, fmt.Errorf("failed to marshal start payload: %w", err)
	}

	started, err := a.repo.StartDraft(ctx, id, picks, deadline, payload)
	if err != nil {
		return nil, fmt.Errorf("failed to start draft: %w", err)
	}

	log.Printf("Started draft %s: %d pick slots, first deadline %s", id, len(picks), deadline.Format(time.RFC3339))
	return started, nil
}

// PauseDraft pauses an in-progress draft and disarms the pick timer
func (a *App) PauseDraft(ctx context.Context, id uuid.UUID, reason string) (*models.Draft, error) {
	draft, err := a.repo.GetDraft(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("draft not found: %w", err)
	}
	if err := validateStatusTransition(draft.Status, models.DraftStatusPaused); err != nil {
		return nil, err
	}

	payload, err := json.Marshal(events.DraftPausedPayload{
		DraftID:  id.String(),
		PausedAt: a.clock.Now(),
		Reason:   reason,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to marshal pause payload: %w", err)
	}

	paused, err := a.repo.UpdateDraftStatus(ctx, id, StatusChange{
		Status:    models.DraftStatusPaused,
		EventType: events.TypeDraftPaused,
		Payload:   payload,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to pause draft: %w", err)
	}

	log.Printf("Paused draft %s: %s", id, reason)
	return paused, nil
}

// ResumeDraft returns a paused draft to IN_PROGRESS with a fresh deadline
// for the slot on the clock.
func (a *App) ResumeDraft(ctx context.Context, id uuid.UUID) (*models.Draft, error) {
	draft, err := a.repo.GetDraft(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("draft not found: %w", err)
	}
	if err := validateStatusTransition(draft.Status, models.DraftStatusInProgress); err != nil {
		return nil, err
	}

	resumedAt := a.clock.Now()
	deadline := resumedAt.Add(time.Duration(draft.Settings.TimePerPickSec) * time.Second)

	payload, err := json.Marshal(events.DraftResumedPayload{
		DraftID:   id.String(),
		ResumedAt: resumedAt,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to marshal resume payload: %w", err)
	}

	resumed, err := a.repo.UpdateDraftStatus(ctx, id, StatusChange{
		Status:    models.DraftStatusInProgress,
		Deadline:  &deadline,
		EventType: events.TypeDraftResumed,
		Payload:   payload,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to resume draft: %w", err)
	}

	log.Printf("Resumed draft %s, next deadline %s", id, deadline.Format(time.RFC3339))
	return resumed, nil
}

// CancelDraft cancels a draft that has not completed
func (a *App) CancelDraft(ctx context.Context, id uuid.UUID) (*models.Draft, error) {
	draft, err := a.repo.GetDraft(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("draft not found: %w", err)
	}
	if err := validateStatusTransition(draft.Status, models.DraftStatusCancelled); err != nil {
		return nil, err
	}

	cancelled, err := a.repo.UpdateDraftStatus(ctx, id, StatusChange{
		Status: models.DraftStatusCancelled,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to cancel draft: %w", err)
	}

	log.Printf("Cancelled draft %s (was %s)", id, draft.Status)
	return cancelled, nil
}

// MakePick records teamID selecting prospectID on the slot currently on
// the clock. The pick, the prospect promotion, the roster write, the log
// entry, and the pointer advance land in one transaction.
func (a *App) MakePick(ctx context.Context, draftID, teamID, prospectID uuid.UUID) (*PickOutcome, error) {
	draft, err := a.repo.GetDraft(ctx, draftID)
	if err != nil {
		return nil, fmt.Errorf("draft not found: %w", err)
	}
	if draft.Status != models.DraftStatusInProgress {
		return nil, fmt.Errorf("draft %s is %s, picks require IN_PROGRESS: %w",
			draftID, draft.Status, apperrors.ErrInvalidState)
	}

	slot, err := a.repo.GetNextPickForDraft(ctx, draftID)
	if err != nil {
		return nil, fmt.Errorf("failed to get slot on the clock: %w", err)
	}
	if slot.TeamID != teamID {
		return nil, fmt.Errorf("team %s picked out of turn, team %s is on the clock: %w",
			teamID, slot.TeamID, apperrors.ErrNotYourTurn)
	}

	pr, err := a.prospects.GetProspect(ctx, prospectID)
	if err != nil {
		return nil, fmt.Errorf("prospect not found: %w", err)
	}
	if pr.IsDrafted {
		return nil, fmt.Errorf("prospect %s: %w", prospectID, apperrors.ErrAlreadyDrafted)
	}

	deadline := a.clock.Now().Add(time.Duration(draft.Settings.TimePerPickSec) * time.Second)
	outcome, err := a.repo.MakePick(ctx, MakePickParams{
		Draft:        draft,
		Slot:         slot,
		Prospect:     pr,
		NextDeadline: deadline,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to make pick: %w", err)
	}

	if outcome.Completed {
		log.Printf("Draft %s completed with pick %d: %s to team %s",
			draftID, slot.OverallPick, pr.FullName, teamID)
	} else {
		log.Printf("Pick %d made in draft %s: %s to team %s",
			slot.OverallPick, draftID, pr.FullName, teamID)
	}
	return outcome, nil
}

// SkipCurrentPick marks the slot on the clock skipped and requeues it for
// the same team at the end of the draft. Called by the orchestrator when
// the pick deadline expires; a no-op when the slot has already resolved.
func (a *App) SkipCurrentPick(ctx context.Context, draftID uuid.UUID) (*SkipOutcome, error) {
	draft, err := a.repo.GetDraft(ctx, draftID)
	if err != nil {
		return nil, fmt.Errorf("draft not found: %w", err)
	}
	if draft.Status != models.DraftStatusInProgress {
		// Deadline fired against a draft that paused or finished in the
		// meantime. Nothing to skip.
		return &SkipOutcome{Skipped: false}, nil
	}

	slot, err := a.repo.GetNextPickForDraft(ctx, draftID)
	if err != nil {
		return nil, fmt.Errorf("failed to get slot on the clock: %w", err)
	}

	deadline := a.clock.Now().Add(time.Duration(draft.Settings.TimePerPickSec) * time.Second)
	outcome, err := a.repo.SkipCurrentPick(ctx, SkipPickParams{
		Draft:        draft,
		Slot:         slot,
		NextDeadline: deadline,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to skip pick: %w", err)
	}

	if outcome.Skipped {
		log.Printf("Skipped pick %d in draft %s for team %s, requeued as %s",
			slot.OverallPick, draftID, slot.TeamID, outcome.RequeuedAsID)
	}
	return outcome, nil
}

// FetchNextDeadline retrieves the soonest pick deadline across all active drafts
func (a *App) FetchNextDeadline(ctx context.Context) (*NextDeadline, error) {
	deadline, err := a.repo.FetchNextDeadline(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch next deadline: %w", err)
	}
	return deadline, nil
}

// FetchDraftsDueForPick retrieves drafts that have exceeded their pick deadline
func (a *App) FetchDraftsDueForPick(ctx context.Context, limit int32) ([]uuid.UUID, error) {
	if limit <= 0 {
		return nil, fmt.Errorf("limit must be greater than 0")
	}
	draftIDs, err := a.repo.FetchDraftsDueForPick(ctx, limit)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch drafts due for pick: %w", err)
	}
	return draftIDs, nil
}

// Validation methods

func (a *App) validateCreateDraftRequest(req CreateDraftRequest) error {
	if req.ID == uuid.Nil {
		return fmt.Errorf("id is required")
	}
	if req.Season == "" {
		return fmt.Errorf("season is required")
	}
	return validateDraftSettings(req.Settings)
}

func validateDraftSettings(settings models.DraftSettings) error {
	if settings.Rounds <= 0 {
		return fmt.Errorf("rounds must be greater than 0")
	}
	if settings.TimePerPickSec <= 0 {
		return fmt.Errorf("time_per_pick_sec must be greater than 0")
	}
	switch settings.OrderType {
	case models.DraftOrderStraight, models.DraftOrderSnake:
	default:
		return fmt.Errorf("invalid order type: %s", settings.OrderType)
	}
	if len(settings.DraftOrder) == 0 {
		return fmt.Errorf("draft_order is required")
	}
	seen := make(map[uuid.UUID]bool, len(settings.DraftOrder))
	for _, teamID := range settings.DraftOrder {
		if teamID == uuid.Nil {
			return fmt.Errorf("draft_order contains a nil team id")
		}
		if seen[teamID] {
			return fmt.Errorf("draft_order contains team %s more than once", teamID)
		}
		seen[teamID] = true
	}
	return nil
}

// validateStatusTransition validates if a status transition is allowed
func validateStatusTransition(currentStatus, newStatus models.DraftStatus) error {
	allowedTransitions := map[models.DraftStatus][]models.DraftStatus{
		models.DraftStatusNotStarted: {models.DraftStatusInProgress, models.DraftStatusCancelled},
		models.DraftStatusInProgress: {models.DraftStatusPaused, models.DraftStatusCompleted, models.DraftStatusCancelled},
		models.DraftStatusPaused:     {models.DraftStatusInProgress, models.DraftStatusCancelled},
		models.DraftStatusCompleted:  {}, // No transitions allowed from completed
		models.DraftStatusCancelled:  {}, // No transitions allowed from cancelled
	}

	allowedNext, exists := allowedTransitions[currentStatus]
	if !exists {
		return fmt.Errorf("unknown current status %s: %w", currentStatus, apperrors.ErrInvalidState)
	}
	for _, allowed := range allowedNext {
		if newStatus == allowed {
			return nil
		}
	}
	return fmt.Errorf("transition from %s to %s is not allowed: %w",
		currentStatus, newStatus, apperrors.ErrInvalidState)
}
