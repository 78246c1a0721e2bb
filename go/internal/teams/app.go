package teams

import (
	"context"
	"fmt"
	"log"
	"sort"

	"github.com/google/uuid"

	"github.com/rinkhq/faceoff/go/internal/models"
)

// GameOutcome is the result of a single game from one team's perspective.
type GameOutcome string

const (
	OutcomeWin          GameOutcome = "WIN"
	OutcomeLoss         GameOutcome = "LOSS"
	OutcomeOvertimeLoss GameOutcome = "OT_LOSS"
)

// TeamsRepository defines what the app layer needs from the repository
type TeamsRepository interface {
	CreateTeam(ctx context.Context, req CreateTeamRequest) (*models.Team, error)
	GetTeam(ctx context.Context, id uuid.UUID) (*models.Team, error)
	ListTeams(ctx context.Context) ([]models.Team, error)
	ListTeamsByStandings(ctx context.Context) ([]models.Team, error)
	UpdateRecord(ctx context.Context, id uuid.UUID, record models.TeamRecord) (*models.Team, error)
	SetWaiverPriorities(ctx context.Context, order []uuid.UUID) error
}

// App handles team business logic
type App struct {
	repo TeamsRepository
}

// NewApp creates a new teams App
func NewApp(repo TeamsRepository) *App {
	return &App{repo: repo}
}

// CreateTeam creates a new team with validation
func (a *App) CreateTeam(ctx context.Context, req CreateTeamRequest) (*models.Team, error) {
	if err := a.validateCreateTeamRequest(req); err != nil {
		return nil, fmt.Errorf("validation failed: %w", err)
	}

	team, err := a.repo.CreateTeam(ctx, req)
	if err != nil {
		return nil, fmt.Errorf("failed to create team: %w", err)
	}

	// Slot the new team into the waiver line by the standings rule; with
	// every record fresh this orders the line by team id.
	if err := a.reorderWaiverLine(ctx); err != nil {
		return nil, fmt.Errorf("failed to assign waiver priority: %w", err)
	}
	team, err = a.repo.GetTeam(ctx, team.ID)
	if err != nil {
		return nil, fmt.Errorf("failed to reload team: %w", err)
	}

	log.Printf("Created team: %s %s (%s)", team.City, team.Name, team.Abbreviation)
	return team, nil
}

// GetTeam retrieves a team by ID
func (a *App) GetTeam(ctx context.Context, id uuid.UUID) (*models.Team, error) {
	team, err := a.repo.GetTeam(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("failed to get team: %w", err)
	}
	return team, nil
}

// ListTeams retrieves all teams
func (a *App) ListTeams(ctx context.Context) ([]models.Team, error) {
	teams, err := a.repo.ListTeams(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to list teams: %w", err)
	}
	return teams, nil
}

// Standings returns teams ordered best record first for display.
func (a *App) Standings(ctx context.Context) ([]models.Team, error) {
	teams, err := a.repo.ListTeams(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to get standings: %w", err)
	}

	sort.Slice(teams, func(i, j int) bool {
		if teams[i].Record.Points != teams[j].Record.Points {
			return teams[i].Record.Points > teams[j].Record.Points
		}
		if teams[i].Record.Wins != teams[j].Record.Wins {
			return teams[i].Record.Wins > teams[j].Record.Wins
		}
		return teams[i].ID.String() < teams[j].ID.String()
	})
	return teams, nil
}

// ApplyGameResult records a game outcome against a team's cumulative
// record. Points stays locked to 2*wins + otLosses; the repository
// recomputes it on write.
func (a *App) ApplyGameResult(ctx context.Context, id uuid.UUID, outcome GameOutcome) (*models.Team, error) {
	team, err := a.repo.GetTeam(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("team not found: %w", err)
	}

	record := team.Record
	switch outcome {
	case OutcomeWin:
		record.Wins++
	case OutcomeLoss:
		record.Losses++
	case OutcomeOvertimeLoss:
		record.OTLosses++
	default:
		return nil, fmt.Errorf("invalid game outcome: %s", outcome)
	}

	updated, err := a.repo.UpdateRecord(ctx, id, record)
	if err != nil {
		return nil, fmt.Errorf("failed to apply game result: %w", err)
	}

	log.Printf("Applied %s to %s: now %d-%d-%d (%d pts)",
		outcome, updated.Abbreviation, updated.Record.Wins, updated.Record.Losses,
		updated.Record.OTLosses, updated.Record.Points)
	return updated, nil
}

// ResetWaiverPriorities recomputes the waiver order from current
// standings: worst record claims first (points ascending, ties by fewer
// wins, then team id).
func (a *App) ResetWaiverPriorities(ctx context.Context) ([]models.Team, error) {
	if err := a.reorderWaiverLine(ctx); err != nil {
		return nil, err
	}

	log.Printf("Reset waiver priorities from standings")
	return a.repo.ListTeamsByStandings(ctx)
}

// reorderWaiverLine renumbers every team's waiver priority from reverse
// standings: worst record claims first, ties by fewer wins, then team id.
func (a *App) reorderWaiverLine(ctx context.Context) error {
	teams, err := a.repo.ListTeamsByStandings(ctx)
	if err != nil {
		return fmt.Errorf("failed to order teams for waiver priority: %w", err)
	}

	order := make([]uuid.UUID, len(teams))
	for i, team := range teams {
		order[i] = team.ID
	}

	if err := a.repo.SetWaiverPriorities(ctx, order); err != nil {
		return fmt.Errorf("failed to set waiver priorities: %w", err)
	}
	return nil
}

// Validation methods

func (a *App) validateCreateTeamRequest(req CreateTeamRequest) error {
	if req.ID == uuid.Nil {
		return fmt.Errorf("id is required")
	}
	if req.Name == "" {
		return fmt.Errorf("name is required")
	}
	if req.City == "" {
		return fmt.Errorf("city is required")
	}
	if len(req.Abbreviation) < 2 || len(req.Abbreviation) > 3 {
		return fmt.Errorf("abbreviation must be 2-3 characters")
	}
	if err := a.validateConference(req.Conference); err != nil {
		return err
	}
	return a.validateDivision(req.Division)
}

func (a *App) validateConference(conference models.Conference) error {
	switch conference {
	case models.ConferenceEastern, models.ConferenceWestern:
		return nil
	default:
		return fmt.Errorf("invalid conference: %s", conference)
	}
}

func (a *App) validateDivision(division models.Division) error {
	switch division {
	case models.DivisionAtlantic, models.DivisionMetropolitan, models.DivisionCentral, models.DivisionPacific:
		return nil
	default:
		return fmt.Errorf("invalid division: %s", division)
	}
}
