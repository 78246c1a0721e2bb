package prospect

import (
	"context"
	"fmt"
	"log"

	"github.com/google/uuid"

	"github.com/rinkhq/faceoff/go/internal/models"
)

// ProspectRepository defines what the app layer needs from the repository
type ProspectRepository interface {
	CreateProspect(ctx context.Context, req CreateProspectRequest) (*models.DraftProspect, error)
	GetProspect(ctx context.Context, id uuid.UUID) (*models.DraftProspect, error)
	ListBoard(ctx context.Context, undraftedOnly bool) ([]models.DraftProspect, error)
}

// App handles draft prospect business logic
type App struct {
	repo ProspectRepository
}

// NewApp creates a new prospect App
func NewApp(repo ProspectRepository) *App {
	return &App{repo: repo}
}

// CreateProspect adds a prospect to the draft board with validation
func (a *App) CreateProspect(ctx context.Context, req CreateProspectRequest) (*models.DraftProspect, error) {
	if err := a.validateCreateProspectRequest(req); err != nil {
		return nil, fmt.Errorf("validation failed: %w", err)
	}

	prospect, err := a.repo.CreateProspect(ctx, req)
	if err != nil {
		return nil, fmt.Errorf("failed to create prospect: %w", err)
	}

	log.Printf("Created prospect: %s (%s, rank %d)", prospect.FullName, prospect.Position, prospect.DraftRank)
	return prospect, nil
}

// GetProspect retrieves a prospect by ID
func (a *App) GetProspect(ctx context.Context, id uuid.UUID) (*models.DraftProspect, error) {
	prospect, err := a.repo.GetProspect(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("failed to get prospect: %w", err)
	}
	return prospect, nil
}

// ListBoard returns the prospect board ordered by draft rank
func (a *App) ListBoard(ctx context.Context, undraftedOnly bool) ([]models.DraftProspect, error) {
	prospects, err := a.repo.ListBoard(ctx, undraftedOnly)
	if err != nil {
		return nil, fmt.Errorf("failed to list prospect board: %w", err)
	}
	return prospects, nil
}

// Validation methods

func (a *App) validateCreateProspectRequest(req CreateProspectRequest) error {
	if req.ID == uuid.Nil {
		return fmt.Errorf("id is required")
	}
	if req.FullName == "" {
		return fmt.Errorf("full_name is required")
	}
	if req.DraftRank <= 0 {
		return fmt.Errorf("draft_rank must be greater than 0")
	}
	for name, rating := range map[string]int{
		"skating":    req.Ratings.Skating,
		"shooting":   req.Ratings.Shooting,
		"playmaking": req.Ratings.Playmaking,
		"defense":    req.Ratings.Defense,
		"physical":   req.Ratings.Physical,
	} {
		if rating < 0 || rating > 100 {
			return fmt.Errorf("%s rating must be between 0 and 100", name)
		}
	}
	return nil
}
