package player

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/sqlc-dev/pqtype"

	"github.com/rinkhq/faceoff/go/internal/apperrors"
	"github.com/rinkhq/faceoff/go/internal/models"
	"github.com/rinkhq/faceoff/go/internal/sqlutil"
)

type Repository struct {
	db *sql.DB
}

func NewRepository(db *sql.DB) *Repository {
	return &Repository{db: db}
}

type CreatePlayerRequest struct {
	ID           uuid.UUID           `json:"id"`
	FullName     string              `json:"full_name"`
	JerseyNumber int                 `json:"jersey_number"`
	Position     models.Position     `json:"position"`
	TeamID       *uuid.UUID          `json:"team_id,omitempty"`
	Availability models.Availability `json:"availability"`
}

func (r *Repository) CreatePlayer(ctx context.Context, req CreatePlayerRequest) (*models.Player, error) {
	teamID := sqlutil.ToNullUUID(req.TeamID)

	_, err := r.db.ExecContext(ctx, `
		INSERT INTO players (id, full_name, jersey_number, position, team_id, availability, created_at)
		VALUES ($1, $2, $3, $4, $5, $6, NOW())`,
		req.ID, req.FullName, req.JerseyNumber, string(req.Position), teamID, string(req.Availability))
	if err != nil {
		return nil, fmt.Errorf("failed to create player: %w", err)
	}

	return r.GetPlayer(ctx, req.ID)
}

func (r *Repository) GetPlayer(ctx context.Context, id uuid.UUID) (*models.Player, error) {
	row := r.db.QueryRowContext(ctx, `
		SELECT id, full_name, jersey_number, position, team_id, availability, skater_stats, goalie_stats, created_at
		FROM players WHERE id = $1`, id)

	player, err := scanPlayer(row)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, fmt.Errorf("player %s: %w", id, apperrors.ErrNotFound)
		}
		return nil, fmt.Errorf("failed to get player: %w", err)
	}
	return player, nil
}

func (r *Repository) ListPlayers(ctx context.Context) ([]models.Player, error) {
	rows, err := r.db.QueryContext(ctx, `
		SELECT id, full_name, jersey_number, position, team_id, availability, skater_stats, goalie_stats, created_at
		FROM players ORDER BY full_name`)
	if err != nil {
		return nil, fmt.Errorf("failed to list players: %w", err)
	}
	defer rows.Close()

	var players []models.Player
	for rows.Next() {
		player, err := scanPlayer(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan player: %w", err)
		}
		players = append(players, *player)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to read players: %w", err)
	}
	return players, nil
}

func (r *Repository) UpdateAvailability(ctx context.Context, id uuid.UUID, availability models.Availability) error {
	res, err := r.db.ExecContext(ctx,
		`UPDATE players SET availability = $2 WHERE id = $1`, id, string(availability))
	if err != nil {
		return fmt.Errorf("failed to update availability: %w", err)
	}
	rows, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to update availability: %w", err)
	}
	if rows == 0 {
		return fmt.Errorf("player %s: %w", id, apperrors.ErrNotFound)
	}
	return nil
}

func (r *Repository) UpdateSkaterStats(ctx context.Context, id uuid.UUID, stats models.SkaterStats) error {
	raw, err := json.Marshal(stats)
	if err != nil {
		return fmt.Errorf("failed to marshal skater stats: %w", err)
	}
	return r.updateStats(ctx, id, "skater_stats", raw)
}

func (r *Repository) UpdateGoalieStats(ctx context.Context, id uuid.UUID, stats models.GoalieStats) error {
	raw, err := json.Marshal(stats)
	if err != nil {
		return fmt.Errorf("failed to marshal goalie stats: %w", err)
	}
	return r.updateStats(ctx, id, "goalie_stats", raw)
}

func (r *Repository) updateStats(ctx context.Context, id uuid.UUID, column string, raw json.RawMessage) error {
	res, err := r.db.ExecContext(ctx,
		`UPDATE players SET `+column+` = $2 WHERE id = $1`, id, raw)
	if err != nil {
		return fmt.Errorf("failed to update %s: %w", column, err)
	}
	rows, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to update %s: %w", column, err)
	}
	if rows == 0 {
		return fmt.Errorf("player %s: %w", id, apperrors.ErrNotFound)
	}
	return nil
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanPlayer(row rowScanner) (*models.Player, error) {
	var (
		p        models.Player
		position string
		avail    string
		teamID   uuid.NullUUID
		skater   pqtype.NullRawMessage
		goalie   pqtype.NullRawMessage
	)
	if err := row.Scan(&p.ID, &p.FullName, &p.JerseyNumber, &position, &teamID, &avail, &skater, &goalie, &p.CreatedAt); err != nil {
		return nil, err
	}

	p.Position = models.Position(position)
	p.Availability = models.Availability(avail)
	p.TeamID = sqlutil.FromNullUUID(teamID)
	if skater.Valid {
		var stats models.SkaterStats
		if err := json.Unmarshal(skater.RawMessage, &stats); err != nil {
			return nil, fmt.Errorf("failed to unmarshal skater stats: %w", err)
		}
		p.SkaterStats = &stats
	}
	if goalie.Valid {
		var stats models.GoalieStats
		if err := json.Unmarshal(goalie.RawMessage, &stats); err != nil {
			return nil, fmt.Errorf("failed to unmarshal goalie stats: %w", err)
		}
		p.GoalieStats = &stats
	}
	return &p, nil
}
