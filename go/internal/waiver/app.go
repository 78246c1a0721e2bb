package waiver

import (
	"context"
	"fmt"
	"log"
	"time"

	"github.com/google/uuid"
	"github.com/jonboulle/clockwork"

	"github.com/rinkhq/faceoff/go/internal/apperrors"
	"github.com/rinkhq/faceoff/go/internal/models"
)

// WaiverRepository defines what the waiver app layer needs from the waiver repository
type WaiverRepository interface {
	CreateClaim(ctx context.Context, claim models.WaiverClaim) (*models.WaiverClaim, error)
	GetClaim(ctx context.Context, id uuid.UUID) (*models.WaiverClaim, error)
	GetActiveClaimByPlayer(ctx context.Context, playerID uuid.UUID) (*models.WaiverClaim, error)
	ListClaimsByStatus(ctx context.Context, status models.WaiverStatus) ([]models.WaiverClaim, error)
	ListBids(ctx context.Context, claimID uuid.UUID) ([]models.WaiverBid, error)
	InsertBid(ctx context.Context, bid models.WaiverBid) error
	CancelBid(ctx context.Context, claimID, teamID uuid.UUID) error
	FetchClaimsDue(ctx context.Context, limit int32) ([]models.WaiverClaim, error)
	ProcessClaim(ctx context.Context, claim *models.WaiverClaim) (*models.WaiverClaim, error)
}

// RosterReader defines what the waiver app layer needs from the roster app
type RosterReader interface {
	GetPlayer(ctx context.Context, id uuid.UUID) (*models.Player, error)
}

// TeamReader defines what the waiver app layer needs from the team app
type TeamReader interface {
	GetTeam(ctx context.Context, id uuid.UUID) (*models.Team, error)
}

// Config sets the daily waiver cutoff. Claims on a player waived at any
// point in the day resolve together at the next cutoff.
type Config struct {
	CutoffHour   int
	CutoffMinute int
}

// DefaultConfig processes waivers at noon UTC.
func DefaultConfig() Config {
	return Config{CutoffHour: 12, CutoffMinute: 0}
}

// App handles waiver business logic
type App struct {
	repo   WaiverRepository
	roster RosterReader
	teams  TeamReader
	clock  clockwork.Clock
	config Config
}

// NewApp creates a new waiver App
func NewApp(repo WaiverRepository, roster RosterReader, teams TeamReader, clock clockwork.Clock, config Config) *App {
	return &App{
		repo:   repo,
		roster: roster,
		teams:  teams,
		clock:  clock,
		config: config,
	}
}

// WaivePlayer drops a player from teamID to free agency and opens a claim
// window that resolves at the next daily cutoff.
func (a *App) WaivePlayer(ctx context.Context, playerID, teamID uuid.UUID) (*models.WaiverClaim, error) {
	player, err := a.roster.GetPlayer(ctx, playerID)
	if err != nil {
		return nil, fmt.Errorf("player not found: %w", err)
	}
	if player.TeamID == nil || *player.TeamID != teamID {
		return nil, fmt.Errorf("player %s does not belong to team %s: %w",
			playerID, teamID, apperrors.ErrInvalidOwnership)
	}

	if _, err := a.repo.GetActiveClaimByPlayer(ctx, playerID); err == nil {
		return nil, fmt.Errorf("player %s is already on waivers: %w", playerID, apperrors.ErrInvalidState)
	}

	claim, err := a.repo.CreateClaim(ctx, models.WaiverClaim{
		ID:             uuid.New(),
		PlayerID:       playerID,
		DroppingTeamID: teamID,
		Status:         models.WaiverStatusActive,
		ProcessDate:    a.nextCutoff(),
	})
	if err != nil {
		return nil, fmt.Errorf("failed to waive player: %w", err)
	}

	log.Printf("Waived player %s from team %s, claim %s processes at %s",
		playerID, teamID, claim.ID, claim.ProcessDate.Format(time.RFC3339))
	return claim, nil
}

// ClaimPlayer submits teamID's claim on a waived player. The team's
// current waiver priority is snapshotted on the bid so later standings
// changes do not reshuffle an open window.
func (a *App) ClaimPlayer(ctx context.Context, claimID, teamID uuid.UUID) (*models.WaiverClaim, error) {
	claim, err := a.repo.GetClaim(ctx, claimID)
	if err != nil {
		return nil, fmt.Errorf("claim not found: %w", err)
	}
	if !claim.WindowOpen(a.clock.Now()) {
		return nil, fmt.Errorf("claim %s no longer accepts bids: %w", claimID, apperrors.ErrWindowClosed)
	}
	if claim.DroppingTeamID == teamID {
		return nil, fmt.Errorf("team %s cannot claim the player it waived: %w", teamID, apperrors.ErrInvalidState)
	}

	bids, err := a.repo.ListBids(ctx, claimID)
	if err != nil {
		return nil, fmt.Errorf("failed to list bids: %w", err)
	}
	for _, bid := range bids {
		if bid.TeamID == teamID {
			return nil, fmt.Errorf("team %s already has a bid on claim %s: %w", teamID, claimID, apperrors.ErrInvalidState)
		}
	}

	team, err := a.teams.GetTeam(ctx, teamID)
	if err != nil {
		return nil, fmt.Errorf("team not found: %w", err)
	}

	if err := a.repo.InsertBid(ctx, models.WaiverBid{
		ID:       uuid.New(),
		ClaimID:  claimID,
		TeamID:   teamID,
		Priority: team.WaiverPriority,
	}); err != nil {
		return nil, fmt.Errorf("failed to claim player: %w", err)
	}

	updated, err := a.repo.GetClaim(ctx, claimID)
	if err != nil {
		return nil, fmt.Errorf("failed to reload claim: %w", err)
	}

	log.Printf("Team %s claimed player %s (priority %d) on claim %s",
		teamID, claim.PlayerID, team.WaiverPriority, claimID)
	return updated, nil
}

// CancelClaim withdraws teamID's bid. The next-highest-priority claimant
// becomes the leader; the window itself stays open.
func (a *App) CancelClaim(ctx context.Context, claimID, teamID uuid.UUID) (*models.WaiverClaim, error) {
	claim, err := a.repo.GetClaim(ctx, claimID)
	if err != nil {
		return nil, fmt.Errorf("claim not found: %w", err)
	}
	if claim.Status != models.WaiverStatusActive {
		return nil, fmt.Errorf("claim %s is %s: %w", claimID, claim.Status, apperrors.ErrInvalidState)
	}

	if err := a.repo.CancelBid(ctx, claimID, teamID); err != nil {
		return nil, fmt.Errorf("failed to cancel claim: %w", err)
	}

	updated, err := a.repo.GetClaim(ctx, claimID)
	if err != nil {
		return nil, fmt.Errorf("failed to reload claim: %w", err)
	}

	log.Printf("Team %s withdrew its bid on claim %s", teamID, claimID)
	return updated, nil
}

// GetClaim retrieves a waiver claim by ID
func (a *App) GetClaim(ctx context.Context, id uuid.UUID) (*models.WaiverClaim, error) {
	claim, err := a.repo.GetClaim(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("failed to get claim: %w", err)
	}
	return claim, nil
}

// ListActiveClaims retrieves all open claim windows
func (a *App) ListActiveClaims(ctx context.Context) ([]models.WaiverClaim, error) {
	claims, err := a.repo.ListClaimsByStatus(ctx, models.WaiverStatusActive)
	if err != nil {
		return nil, fmt.Errorf("failed to list active claims: %w", err)
	}
	return claims, nil
}

// ListBids retrieves the live bids on a claim in priority order
func (a *App) ListBids(ctx context.Context, claimID uuid.UUID) ([]models.WaiverBid, error) {
	bids, err := a.repo.ListBids(ctx, claimID)
	if err != nil {
		return nil, fmt.Errorf("failed to list bids: %w", err)
	}
	return bids, nil
}

// ProcessDueClaims resolves every claim window whose process date has
// passed. Awarded players move to the leading team, which drops to the
// back of the waiver line; windows with no bids expire. Safe to call
// repeatedly.
func (a *App) ProcessDueClaims(ctx context.Context, limit int32) (int, error) {
	if limit <= 0 {
		return 0, fmt.Errorf("limit must be greater than 0")
	}

	due, err := a.repo.FetchClaimsDue(ctx, limit)
	if err != nil {
		return 0, fmt.Errorf("failed to fetch due claims: %w", err)
	}

	processed := 0
	for i := range due {
		claim := &due[i]
		resolved, err := a.repo.ProcessClaim(ctx, claim)
		if err != nil {
			return processed, fmt.Errorf("failed to process claim %s: %w", claim.ID, err)
		}
		processed++

		switch resolved.Status {
		case models.WaiverStatusAwarded:
			log.Printf("Awarded claim %s: player %s to team %s",
				claim.ID, claim.PlayerID, resolved.LeadingTeamID)
		case models.WaiverStatusExpired:
			log.Printf("Expired claim %s: player %s stays a free agent", claim.ID, claim.PlayerID)
		}
	}
	return processed, nil
}

// nextCutoff returns the next occurrence of the configured daily cutoff.
func (a *App) nextCutoff() time.Time {
	now := a.clock.Now().UTC()
	cutoff := time.Date(now.Year(), now.Month(), now.Day(), a.config.CutoffHour, a.config.CutoffMinute, 0, 0, time.UTC)
	if !cutoff.After(now) {
		cutoff = cutoff.Add(24 * time.Hour)
	}
	return cutoff
}
