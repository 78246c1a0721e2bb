package roster

import (
	"context"
	"fmt"
	"log"

	"github.com/google/uuid"

	"github.com/rinkhq/faceoff/go/internal/models"
)

// RosterRepository defines what the app layer needs from the repository.
type RosterRepository interface {
	GetPlayer(ctx context.Context, id uuid.UUID) (*models.Player, error)
	GetRosterByTeam(ctx context.Context, teamID uuid.UUID) ([]models.Player, error)
	ListFreeAgents(ctx context.Context) ([]models.Player, error)
	AssignPlayer(ctx context.Context, playerID uuid.UUID, teamID *uuid.UUID) error
	AssignPlayerFrom(ctx context.Context, playerID uuid.UUID, from, to *uuid.UUID) error
}

// App is the roster store: the single source of truth for player-to-team
// assignment. No business rules live here beyond existence checks; the
// draft, trade, and waiver engines own their own validation and share this
// one mutation choke point.
type App struct {
	repo RosterRepository
}

// NewApp creates a new roster App
func NewApp(repo RosterRepository) *App {
	return &App{repo: repo}
}

// GetPlayer retrieves a player by ID
func (a *App) GetPlayer(ctx context.Context, id uuid.UUID) (*models.Player, error) {
	player, err := a.repo.GetPlayer(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("failed to get player: %w", err)
	}
	return player, nil
}

// GetRoster retrieves all players currently assigned to a team
func (a *App) GetRoster(ctx context.Context, teamID uuid.UUID) ([]models.Player, error) {
	players, err := a.repo.GetRosterByTeam(ctx, teamID)
	if err != nil {
		return nil, fmt.Errorf("failed to get roster: %w", err)
	}
	return players, nil
}

// ListFreeAgents retrieves all players with no owning team
func (a *App) ListFreeAgents(ctx context.Context) ([]models.Player, error) {
	players, err := a.repo.ListFreeAgents(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to list free agents: %w", err)
	}
	return players, nil
}

// Assign moves a player to teamID (nil makes the player a free agent).
// Existence is the only check; callers validate everything else first.
func (a *App) Assign(ctx context.Context, playerID uuid.UUID, teamID *uuid.UUID) error {
	if _, err := a.repo.GetPlayer(ctx, playerID); err != nil {
		return fmt.Errorf("player not found: %w", err)
	}

	if err := a.repo.AssignPlayer(ctx, playerID, teamID); err != nil {
		return fmt.Errorf("failed to assign player: %w", err)
	}

	log.Printf("Assigned player %s to team %v", playerID, teamID)
	return nil
}

// AssignFrom moves a player to teamID only if the player's owner still
// matches from; fails with an ownership conflict otherwise.
func (a *App) AssignFrom(ctx context.Context, playerID uuid.UUID, from, to *uuid.UUID) error {
	if err := a.repo.AssignPlayerFrom(ctx, playerID, from, to); err != nil {
		return fmt.Errorf("failed to reassign player: %w", err)
	}

	log.Printf("Reassigned player %s from team %v to team %v", playerID, from, to)
	return nil
}
