package teams

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/google/uuid"

	"github.com/rinkhq/faceoff/go/internal/apperrors"
	"github.com/rinkhq/faceoff/go/internal/models"
)

type Repository struct {
	db *sql.DB
}

func NewRepository(db *sql.DB) *Repository {
	return &Repository{db: db}
}

type CreateTeamRequest struct {
	ID           uuid.UUID         `json:"id"`
	Name         string            `json:"name"`
	City         string            `json:"city"`
	Abbreviation string            `json:"abbreviation"`
	Conference   models.Conference `json:"conference"`
	Division     models.Division   `json:"division"`
}

const teamColumns = `id, name, city, abbreviation, conference, division, wins, losses, ot_losses, points, waiver_priority, created_at`

func (r *Repository) CreateTeam(ctx context.Context, req CreateTeamRequest) (*models.Team, error) {
	// Placeholder priority; the app renumbers the whole line from
	// standings right after the insert.
	_, err := r.db.ExecContext(ctx, `
		INSERT INTO teams (id, name, city, abbreviation, conference, division, wins, losses, ot_losses, points, waiver_priority, created_at)
		VALUES ($1, $2, $3, $4, $5, $6, 0, 0, 0, 0,
			(SELECT COALESCE(MAX(waiver_priority), 0) + 1 FROM teams), NOW())`,
		req.ID, req.Name, req.City, req.Abbreviation, string(req.Conference), string(req.Division))
	if err != nil {
		return nil, fmt.Errorf("failed to create team: %w", err)
	}

	return r.GetTeam(ctx, req.ID)
}

func (r *Repository) GetTeam(ctx context.Context, id uuid.UUID) (*models.Team, error) {
	row := r.db.QueryRowContext(ctx,
		`SELECT `+teamColumns+` FROM teams WHERE id = $1`, id)

	team, err := scanTeam(row)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, fmt.Errorf("team %s: %w", id, apperrors.ErrNotFound)
		}
		return nil, fmt.Errorf("failed to get team: %w", err)
	}
	return team, nil
}

func (r *Repository) ListTeams(ctx context.Context) ([]models.Team, error) {
	rows, err := r.db.QueryContext(ctx,
		`SELECT `+teamColumns+` FROM teams ORDER BY city, name`)
	if err != nil {
		return nil, fmt.Errorf("failed to list teams: %w", err)
	}
	defer rows.Close()

	return scanTeams(rows)
}

// ListTeamsByStandings orders teams worst record first: points ascending,
// ties broken by fewer wins, then team id. This is the waiver priority
// ordering.
func (r *Repository) ListTeamsByStandings(ctx context.Context) ([]models.Team, error) {
	rows, err := r.db.QueryContext(ctx,
		`SELECT `+teamColumns+` FROM teams ORDER BY points ASC, wins ASC, id ASC`)
	if err != nil {
		return nil, fmt.Errorf("failed to list teams by standings: %w", err)
	}
	defer rows.Close()

	return scanTeams(rows)
}

// UpdateRecord writes a team's record. Points is always recomputed from the
// formula rather than accepted from the caller.
func (r *Repository) UpdateRecord(ctx context.Context, id uuid.UUID, record models.TeamRecord) (*models.Team, error) {
	points := models.RecordPoints(record.Wins, record.OTLosses)
	res, err := r.db.ExecContext(ctx, `
		UPDATE teams SET wins = $2, losses = $3, ot_losses = $4, points = $5 WHERE id = $1`,
		id, record.Wins, record.Losses, record.OTLosses, points)
	if err != nil {
		return nil, fmt.Errorf("failed to update record: %w", err)
	}
	rows, err := res.RowsAffected()
	if err != nil {
		return nil, fmt.Errorf("failed to update record: %w", err)
	}
	if rows == 0 {
		return nil, fmt.Errorf("team %s: %w", id, apperrors.ErrNotFound)
	}

	return r.GetTeam(ctx, id)
}

// SetWaiverPriorities writes the full priority order in one transaction.
// order[0] receives priority 1 (first to claim).
func (r *Repository) SetWaiverPriorities(ctx context.Context, order []uuid.UUID) error {
	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer func() {
		if err != nil {
			_ = tx.Rollback()
		}
	}()

	for i, teamID := range order {
		if _, err = tx.ExecContext(ctx,
			`UPDATE teams SET waiver_priority = $2 WHERE id = $1`, teamID, i+1); err != nil {
			return fmt.Errorf("failed to set waiver priority for team %s: %w", teamID, err)
		}
	}

	if err = tx.Commit(); err != nil {
		return fmt.Errorf("failed to commit transaction: %w", err)
	}
	return nil
}

// DemoteWaiverPriorityTx moves teamID to the back of the waiver order
// inside an open transaction, closing the gap so priorities stay dense
// 1..N. Called by the waiver engine when a claim is awarded.
func DemoteWaiverPriorityTx(ctx context.Context, tx *sql.Tx, teamID uuid.UUID) error {
	var current, max int
	if err := tx.QueryRowContext(ctx,
		`SELECT waiver_priority, (SELECT MAX(waiver_priority) FROM teams) FROM teams WHERE id = $1`,
		teamID).Scan(&current, &max); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return fmt.Errorf("team %s: %w", teamID, apperrors.ErrNotFound)
		}
		return fmt.Errorf("failed to read waiver priority: %w", err)
	}

	if current == max {
		return nil // already last
	}

	if _, err := tx.ExecContext(ctx,
		`UPDATE teams SET waiver_priority = waiver_priority - 1 WHERE waiver_priority > $1`, current); err != nil {
		return fmt.Errorf("failed to close waiver priority gap: %w", err)
	}
	if _, err := tx.ExecContext(ctx,
		`UPDATE teams SET waiver_priority = $2 WHERE id = $1`, teamID, max); err != nil {
		return fmt.Errorf("failed to demote waiver priority: %w", err)
	}
	return nil
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanTeam(row rowScanner) (*models.Team, error) {
	var (
		t          models.Team
		conference string
		division   string
	)
	if err := row.Scan(&t.ID, &t.Name, &t.City, &t.Abbreviation, &conference, &division,
		&t.Record.Wins, &t.Record.Losses, &t.Record.OTLosses, &t.Record.Points,
		&t.WaiverPriority, &t.CreatedAt); err != nil {
		return nil, err
	}
	t.Conference = models.Conference(conference)
	t.Division = models.Division(division)
	return &t, nil
}

func scanTeams(rows *sql.Rows) ([]models.Team, error) {
	var teams []models.Team
	for rows.Next() {
		team, err := scanTeam(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan team: %w", err)
		}
		teams = append(teams, *team)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to read teams: %w", err)
	}
	return teams, nil
}
