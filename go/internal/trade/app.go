package trade

import (
	"context"
	"fmt"
	"log"

	"github.com/google/uuid"

	"github.com/rinkhq/faceoff/go/internal/apperrors"
	"github.com/rinkhq/faceoff/go/internal/models"
)

// TradeRepository defines what the trade app layer needs from the trade repository
type TradeRepository interface {
	CreateTrade(ctx context.Context, trade models.Trade) (*models.Trade, error)
	GetTrade(ctx context.Context, id uuid.UUID) (*models.Trade, error)
	ListTradesByTeam(ctx context.Context, teamID uuid.UUID) ([]models.Trade, error)
	ListTradesByStatus(ctx context.Context, status models.TradeStatus) ([]models.Trade, error)
	UpdateTradeStatus(ctx context.Context, id uuid.UUID, status models.TradeStatus) (*models.Trade, error)
	AcceptTrade(ctx context.Context, trade *models.Trade) (*models.Trade, error)
}

// RosterReader defines what the trade app layer needs from the roster app
type RosterReader interface {
	GetPlayer(ctx context.Context, id uuid.UUID) (*models.Player, error)
}

// ProposeTradeRequest carries the fields needed to propose a trade
type ProposeTradeRequest struct {
	ID             uuid.UUID   `json:"id"`
	FromTeamID     uuid.UUID   `json:"from_team_id"`
	ToTeamID       uuid.UUID   `json:"to_team_id"`
	PlayersOffered []uuid.UUID `json:"players_offered"`
	PlayersWanted  []uuid.UUID `json:"players_wanted"`
}

// App handles trade business logic
type App struct {
	repo   TradeRepository
	roster RosterReader
}

// NewApp creates a new trade App
func NewApp(repo TradeRepository, roster RosterReader) *App {
	return &App{
		repo:   repo,
		roster: roster,
	}
}

// ProposeTrade creates a PENDING trade after verifying every offered
// player belongs to the proposing team and every wanted player belongs to
// the receiving team.
func (a *App) ProposeTrade(ctx context.Context, req ProposeTradeRequest) (*models.Trade, error) {
	if err := a.validateProposeTradeRequest(req); err != nil {
		return nil, fmt.Errorf("validation failed: %w", err)
	}

	if err := a.verifyOwnership(ctx, req.FromTeamID, req.PlayersOffered); err != nil {
		return nil, err
	}
	if err := a.verifyOwnership(ctx, req.ToTeamID, req.PlayersWanted); err != nil {
		return nil, err
	}

	trade, err := a.repo.CreateTrade(ctx, models.Trade{
		ID:             req.ID,
		FromTeamID:     req.FromTeamID,
		ToTeamID:       req.ToTeamID,
		PlayersOffered: req.PlayersOffered,
		PlayersWanted:  req.PlayersWanted,
		Status:         models.TradeStatusPending,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to propose trade: %w", err)
	}

	log.Printf("Proposed trade %s: team %s offers %d players to team %s for %d players",
		trade.ID, req.FromTeamID, len(req.PlayersOffered), req.ToTeamID, len(req.PlayersWanted))
	return trade, nil
}

// GetTrade retrieves a trade by ID
func (a *App) GetTrade(ctx context.Context, id uuid.UUID) (*models.Trade, error) {
	trade, err := a.repo.GetTrade(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("failed to get trade: %w", err)
	}
	return trade, nil
}

// ListTradesByTeam retrieves trades the team proposed or received
func (a *App) ListTradesByTeam(ctx context.Context, teamID uuid.UUID) ([]models.Trade, error) {
	trades, err := a.repo.ListTradesByTeam(ctx, teamID)
	if err != nil {
		return nil, fmt.Errorf("failed to list trades: %w", err)
	}
	return trades, nil
}

// ListTradesByStatus retrieves trades in a given status
func (a *App) ListTradesByStatus(ctx context.Context, status models.TradeStatus) ([]models.Trade, error) {
	switch status {
	case models.TradeStatusPending, models.TradeStatusAccepted, models.TradeStatusRejected, models.TradeStatusCancelled:
	default:
		return nil, fmt.Errorf("invalid trade status: %s", status)
	}
	trades, err := a.repo.ListTradesByStatus(ctx, status)
	if err != nil {
		return nil, fmt.Errorf("failed to list trades: %w", err)
	}
	return trades, nil
}

// AcceptTrade executes a PENDING trade. Ownership is re-validated against
// the current rosters; any drift since proposal rejects the trade as stale
// rather than moving a player the proposer no longer owns. All player
// moves land in one transaction.
func (a *App) AcceptTrade(ctx context.Context, id uuid.UUID) (*models.Trade, error) {
	trade, err := a.repo.GetTrade(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("trade not found: %w", err)
	}
	if trade.Status.Terminal() {
		return nil, fmt.Errorf("trade %s is %s: %w", id, trade.Status, apperrors.ErrInvalidState)
	}

	if err := a.verifyOwnership(ctx, trade.FromTeamID, trade.PlayersOffered); err != nil {
		return nil, fmt.Errorf("offered players drifted since proposal: %w", apperrors.ErrStaleTrade)
	}
	if err := a.verifyOwnership(ctx, trade.ToTeamID, trade.PlayersWanted); err != nil {
		return nil, fmt.Errorf("wanted players drifted since proposal: %w", apperrors.ErrStaleTrade)
	}

	accepted, err := a.repo.AcceptTrade(ctx, trade)
	if err != nil {
		return nil, fmt.Errorf("failed to accept trade: %w", err)
	}

	log.Printf("Accepted trade %s: %d players moved between teams %s and %s",
		id, len(trade.PlayersOffered)+len(trade.PlayersWanted), trade.FromTeamID, trade.ToTeamID)
	return accepted, nil
}

// RejectTrade resolves a PENDING trade as rejected by the receiving team
func (a *App) RejectTrade(ctx context.Context, id uuid.UUID) (*models.Trade, error) {
	return a.resolve(ctx, id, models.TradeStatusRejected)
}

// CancelTrade withdraws a PENDING trade by the proposing team
func (a *App) CancelTrade(ctx context.Context, id uuid.UUID) (*models.Trade, error) {
	return a.resolve(ctx, id, models.TradeStatusCancelled)
}

func (a *App) resolve(ctx context.Context, id uuid.UUID, status models.TradeStatus) (*models.Trade, error) {
	trade, err := a.repo.GetTrade(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("trade not found: %w", err)
	}
	if trade.Status.Terminal() {
		return nil, fmt.Errorf("trade %s is %s: %w", id, trade.Status, apperrors.ErrInvalidState)
	}

	resolved, err := a.repo.UpdateTradeStatus(ctx, id, status)
	if err != nil {
		return nil, fmt.Errorf("failed to resolve trade: %w", err)
	}

	log.Printf("Trade %s resolved: %s", id, status)
	return resolved, nil
}

// verifyOwnership checks that every player in the set currently belongs to
// teamID.
func (a *App) verifyOwnership(ctx context.Context, teamID uuid.UUID, playerIDs []uuid.UUID) error {
	for _, playerID := range playerIDs {
		player, err := a.roster.GetPlayer(ctx, playerID)
		if err != nil {
			return fmt.Errorf("player %s: %w", playerID, err)
		}
		if player.TeamID == nil || *player.TeamID != teamID {
			return fmt.Errorf("player %s does not belong to team %s: %w",
				playerID, teamID, apperrors.ErrInvalidOwnership)
		}
	}
	return nil
}

// Validation methods

func (a *App) validateProposeTradeRequest(req ProposeTradeRequest) error {
	if req.ID == uuid.Nil {
		return fmt.Errorf("id is required")
	}
	if req.FromTeamID == uuid.Nil {
		return fmt.Errorf("from_team_id is required")
	}
	if req.ToTeamID == uuid.Nil {
		return fmt.Errorf("to_team_id is required")
	}
	if req.FromTeamID == req.ToTeamID {
		return fmt.Errorf("a team cannot trade with itself")
	}
	if len(req.PlayersOffered) == 0 && len(req.PlayersWanted) == 0 {
		return fmt.Errorf("trade must include at least one player")
	}
	seen := make(map[uuid.UUID]bool, len(req.PlayersOffered)+len(req.PlayersWanted))
	for _, playerID := range append(append([]uuid.UUID{}, req.PlayersOffered...), req.PlayersWanted...) {
		if playerID == uuid.Nil {
			return fmt.Errorf("trade contains a nil player id")
		}
		if seen[playerID] {
			return fmt.Errorf("player %s appears more than once", playerID)
		}
		seen[playerID] = true
	}
	return nil
}
