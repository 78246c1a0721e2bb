package player

import (
	"context"
	"fmt"
	"log"

	"github.com/google/uuid"

	"github.com/rinkhq/faceoff/go/internal/models"
)

// PlayerRepository defines what the app layer needs from the repository
type PlayerRepository interface {
	CreatePlayer(ctx context.Context, req CreatePlayerRequest) (*models.Player, error)
	GetPlayer(ctx context.Context, id uuid.UUID) (*models.Player, error)
	ListPlayers(ctx context.Context) ([]models.Player, error)
	UpdateAvailability(ctx context.Context, id uuid.UUID, availability models.Availability) error
	UpdateSkaterStats(ctx context.Context, id uuid.UUID, stats models.SkaterStats) error
	UpdateGoalieStats(ctx context.Context, id uuid.UUID, stats models.GoalieStats) error
}

// App handles player business logic
type App struct {
	repo PlayerRepository
}

// NewApp creates a new player App
func NewApp(repo PlayerRepository) *App {
	return &App{repo: repo}
}

// CreatePlayer creates a new player with validation
func (a *App) CreatePlayer(ctx context.Context, req CreatePlayerRequest) (*models.Player, error) {
	if err := a.validateCreatePlayerRequest(req); err != nil {
		return nil, fmt.Errorf("validation failed: %w", err)
	}

	player, err := a.repo.CreatePlayer(ctx, req)
	if err != nil {
		return nil, fmt.Errorf("failed to create player: %w", err)
	}

	log.Printf("Created player: %s (%s)", player.FullName, player.Position)
	return player, nil
}

// GetPlayer retrieves a player by ID
func (a *App) GetPlayer(ctx context.Context, id uuid.UUID) (*models.Player, error) {
	player, err := a.repo.GetPlayer(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("failed to get player: %w", err)
	}
	return player, nil
}

// ListPlayers retrieves all players in the league
func (a *App) ListPlayers(ctx context.Context) ([]models.Player, error) {
	players, err := a.repo.ListPlayers(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to list players: %w", err)
	}
	return players, nil
}

// UpdateAvailability updates a player's availability status
func (a *App) UpdateAvailability(ctx context.Context, id uuid.UUID, availability models.Availability) error {
	if err := a.validateAvailability(availability); err != nil {
		return fmt.Errorf("validation failed: %w", err)
	}

	if err := a.repo.UpdateAvailability(ctx, id, availability); err != nil {
		return fmt.Errorf("failed to update availability: %w", err)
	}

	log.Printf("Updated player availability: %s -> %s", id, availability)
	return nil
}

// UpdateStats updates a player's season stats. The stat line must match the
// player's position: skater lines for skaters, goalie lines for goalies.
func (a *App) UpdateStats(ctx context.Context, id uuid.UUID, stats models.StatLine) error {
	player, err := a.repo.GetPlayer(ctx, id)
	if err != nil {
		return fmt.Errorf("player not found: %w", err)
	}

	switch line := stats.(type) {
	case *models.SkaterStats:
		if player.Position == models.PositionGoalie {
			return fmt.Errorf("cannot record skater stats for goalie %s", player.FullName)
		}
		if err := a.repo.UpdateSkaterStats(ctx, id, *line); err != nil {
			return fmt.Errorf("failed to update skater stats: %w", err)
		}
	case *models.GoalieStats:
		if player.Position != models.PositionGoalie {
			return fmt.Errorf("cannot record goalie stats for skater %s", player.FullName)
		}
		if err := a.repo.UpdateGoalieStats(ctx, id, *line); err != nil {
			return fmt.Errorf("failed to update goalie stats: %w", err)
		}
	default:
		return fmt.Errorf("unknown stat line kind: %s", stats.StatKind())
	}

	return nil
}

// Validation methods

func (a *App) validateCreatePlayerRequest(req CreatePlayerRequest) error {
	if req.ID == uuid.Nil {
		return fmt.Errorf("id is required")
	}
	if req.FullName == "" {
		return fmt.Errorf("full_name is required")
	}
	if req.JerseyNumber < 1 || req.JerseyNumber > 99 {
		return fmt.Errorf("jersey_number must be between 1 and 99")
	}
	if err := a.validatePosition(req.Position); err != nil {
		return err
	}
	return a.validateAvailability(req.Availability)
}

func (a *App) validatePosition(position models.Position) error {
	switch position {
	case models.PositionCenter, models.PositionLeftWing, models.PositionRightWing,
		models.PositionLeftDefense, models.PositionRightDefense, models.PositionDefense,
		models.PositionGoalie:
		return nil
	default:
		return fmt.Errorf("invalid position: %s", position)
	}
}

func (a *App) validateAvailability(availability models.Availability) error {
	switch availability {
	case models.AvailabilityAvailable, models.AvailabilityMaybe, models.AvailabilityUnavailable:
		return nil
	default:
		return fmt.Errorf("invalid availability: %s", availability)
	}
}
