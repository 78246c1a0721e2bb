package roster

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/sqlc-dev/pqtype"

	"github.com/rinkhq/faceoff/go/internal/apperrors"
	"github.com/rinkhq/faceoff/go/internal/models"
	"github.com/rinkhq/faceoff/go/internal/sqlutil"
)

// Repository is the single point of SQL that changes player ownership.
// The draft, trade, and waiver engines all funnel their roster mutations
// through this package so ownership writes stay in one audited place.
type Repository struct {
	db *sql.DB
}

func NewRepository(db *sql.DB) *Repository {
	return &Repository{db: db}
}

const playerColumns = `id, full_name, jersey_number, position, team_id, availability, skater_stats, goalie_stats, created_at`

func (r *Repository) GetPlayer(ctx context.Context, id uuid.UUID) (*models.Player, error) {
	row := r.db.QueryRowContext(ctx,
		`SELECT `+playerColumns+` FROM players WHERE id = $1`, id)

	player, err := scanPlayer(row)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, fmt.Errorf("player %s: %w", id, apperrors.ErrNotFound)
		}
		return nil, fmt.Errorf("failed to get player: %w", err)
	}
	return player, nil
}

func (r *Repository) GetRosterByTeam(ctx context.Context, teamID uuid.UUID) ([]models.Player, error) {
	rows, err := r.db.QueryContext(ctx,
		`SELECT `+playerColumns+` FROM players WHERE team_id = $1 ORDER BY jersey_number`, teamID)
	if err != nil {
		return nil, fmt.Errorf("failed to get roster: %w", err)
	}
	defer rows.Close()

	return scanPlayers(rows)
}

func (r *Repository) ListFreeAgents(ctx context.Context) ([]models.Player, error) {
	rows, err := r.db.QueryContext(ctx,
		`SELECT `+playerColumns+` FROM players WHERE team_id IS NULL ORDER BY full_name`)
	if err != nil {
		return nil, fmt.Errorf("failed to list free agents: %w", err)
	}
	defer rows.Close()

	return scanPlayers(rows)
}

// AssignPlayer unconditionally reassigns a player to teamID (nil clears
// ownership). Prefer AssignPlayerFrom when the caller validated against a
// previously observed owner.
func (r *Repository) AssignPlayer(ctx context.Context, playerID uuid.UUID, teamID *uuid.UUID) error {
	res, err := r.db.ExecContext(ctx,
		`UPDATE players SET team_id = $2 WHERE id = $1`,
		playerID, sqlutil.ToNullUUID(teamID))
	if err != nil {
		return fmt.Errorf("failed to assign player: %w", err)
	}
	rows, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to assign player: %w", err)
	}
	if rows == 0 {
		return fmt.Errorf("player %s: %w", playerID, apperrors.ErrNotFound)
	}
	return nil
}

// AssignPlayerFrom reassigns a player only if its current owner still
// matches from. Zero rows affected means ownership drifted since the
// caller validated.
func (r *Repository) AssignPlayerFrom(ctx context.Context, playerID uuid.UUID, from, to *uuid.UUID) error {
	return AssignPlayerFromTx(ctx, r.db, playerID, from, to)
}

// execer lets the ownership CAS run on either a pool or an open txn.
type execer interface {
	ExecContext(ctx context.Context, query string, args ...any) (sql.Result, error)
}

// AssignPlayerFromTx is the compare-and-swap ownership write. Engines that
// need multi-player atomicity (trade accept, waiver award) call this inside
// their own transaction so a single conflict rolls the whole batch back.
func AssignPlayerFromTx(ctx context.Context, tx execer, playerID uuid.UUID, from, to *uuid.UUID) error {
	res, err := tx.ExecContext(ctx,
		`UPDATE players SET team_id = $3 WHERE id = $1 AND team_id IS NOT DISTINCT FROM $2`,
		playerID, sqlutil.ToNullUUID(from), sqlutil.ToNullUUID(to))
	if err != nil {
		return fmt.Errorf("failed to reassign player: %w", err)
	}
	rows, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to reassign player: %w", err)
	}
	if rows == 0 {
		return fmt.Errorf("player %s: %w", playerID, apperrors.ErrOwnershipConflict)
	}
	return nil
}

// InsertPlayerTx creates a player row inside an open transaction. Used by
// the draft engine to promote a drafted prospect.
func InsertPlayerTx(ctx context.Context, tx *sql.Tx, player models.Player) error {
	var skater, goalie pqtype.NullRawMessage
	if player.SkaterStats != nil {
		raw, err := json.Marshal(player.SkaterStats)
		if err != nil {
			return fmt.Errorf("failed to marshal skater stats: %w", err)
		}
		skater = pqtype.NullRawMessage{RawMessage: raw, Valid: true}
	}
	if player.GoalieStats != nil {
		raw, err := json.Marshal(player.GoalieStats)
		if err != nil {
			return fmt.Errorf("failed to marshal goalie stats: %w", err)
		}
		goalie = pqtype.NullRawMessage{RawMessage: raw, Valid: true}
	}

	_, err := tx.ExecContext(ctx, `
		INSERT INTO players (id, full_name, jersey_number, position, team_id, availability, skater_stats, goalie_stats, created_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, NOW())`,
		player.ID, player.FullName, player.JerseyNumber, string(player.Position),
		sqlutil.ToNullUUID(player.TeamID), string(player.Availability), skater, goalie)
	if err != nil {
		return fmt.Errorf("failed to insert player: %w", err)
	}
	return nil
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanPlayer(row rowScanner) (*models.Player, error) {
	var (
		p         models.Player
		position  string
		avail     string
		teamID    uuid.NullUUID
		skater    pqtype.NullRawMessage
		goalie    pqtype.NullRawMessage
		createdAt time.Time
	)
	if err := row.Scan(&p.ID, &p.FullName, &p.JerseyNumber, &position, &teamID, &avail, &skater, &goalie, &createdAt); err != nil {
		return nil, err
	}

	p.Position = models.Position(position)
	p.Availability = models.Availability(avail)
	p.CreatedAt = createdAt
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

func scanPlayers(rows *sql.Rows) ([]models.Player, error) {
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
