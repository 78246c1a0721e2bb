package txlog

import (
	"context"
	"fmt"

	"github.com/google/uuid"

	"github.com/rinkhq/faceoff/go/internal/models"
)

// TransactionRepository defines what the app layer needs from the repository
type TransactionRepository interface {
	Append(ctx context.Context, entry models.Transaction) error
	Query(ctx context.Context, filter QueryFilter) ([]models.Transaction, error)
}

// App exposes the transaction log: an append-only audit trail of roster
// mutations. Nothing reads it to gate a business decision.
type App struct {
	repo TransactionRepository
}

// NewApp creates a new transaction log App
func NewApp(repo TransactionRepository) *App {
	return &App{repo: repo}
}

// Append records a roster mutation. Only required fields are validated.
func (a *App) Append(ctx context.Context, entry models.Transaction) error {
	if entry.ID == uuid.Nil {
		entry.ID = uuid.New()
	}
	if err := a.validateEntry(entry); err != nil {
		return fmt.Errorf("validation failed: %w", err)
	}

	if err := a.repo.Append(ctx, entry); err != nil {
		return fmt.Errorf("failed to append transaction: %w", err)
	}
	return nil
}

// Query returns log entries matching the filter, newest first.
func (a *App) Query(ctx context.Context, filter QueryFilter) ([]models.Transaction, error) {
	entries, err := a.repo.Query(ctx, filter)
	if err != nil {
		return nil, fmt.Errorf("failed to query transactions: %w", err)
	}
	return entries, nil
}

func (a *App) validateEntry(entry models.Transaction) error {
	switch entry.Type {
	case models.TransactionTypeDraft, models.TransactionTypeTrade, models.TransactionTypeWaiver:
	default:
		return fmt.Errorf("invalid transaction type: %s", entry.Type)
	}
	if len(entry.TeamIDs) == 0 {
		return fmt.Errorf("at least one team id is required")
	}
	if len(entry.PlayerIDs) == 0 {
		return fmt.Errorf("at least one player id is required")
	}
	return nil
}
