package waiver

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/rinkhq/faceoff/go/internal/apperrors"
	"github.com/rinkhq/faceoff/go/internal/events"
	"github.com/rinkhq/faceoff/go/internal/models"
	"github.com/rinkhq/faceoff/go/internal/outbox"
	"github.com/rinkhq/faceoff/go/internal/roster"
	"github.com/rinkhq/faceoff/go/internal/sqlutil"
	"github.com/rinkhq/faceoff/go/internal/teams"
	"github.com/rinkhq/faceoff/go/internal/txlog"
)

type Repository struct {
	db *sql.DB
}

func NewRepository(db *sql.DB) *Repository {
	return &Repository{db: db}
}

const claimColumns = `id, player_id, dropping_team_id, leading_team_id, status, submitted_at, process_date, processed_at`

// CreateClaim opens a waiver window: the player drops to free agency and
// the claim row lands in the same transaction, with the log entry and the
// PlayerWaived event.
func (r *Repository) CreateClaim(ctx context.Context, claim models.WaiverClaim) (*models.WaiverClaim, error) {
	err := sqlutil.Run(ctx, r.db, func(tx *sql.Tx) error {
		droppingTeam := claim.DroppingTeamID
		if err := roster.AssignPlayerFromTx(ctx, tx, claim.PlayerID, &droppingTeam, nil); err != nil {
			return err
		}

		_, err := tx.ExecContext(ctx, `
			INSERT INTO waiver_claims (id, player_id, dropping_team_id, status, submitted_at, process_date)
			VALUES ($1, $2, $3, $4, NOW(), $5)`,
			claim.ID, claim.PlayerID, claim.DroppingTeamID, string(models.WaiverStatusActive), claim.ProcessDate)
		if err != nil {
			return fmt.Errorf("failed to create waiver claim: %w", err)
		}

		payload, err := json.Marshal(events.PlayerWaivedPayload{
			ClaimID:        claim.ID.String(),
			PlayerID:       claim.PlayerID.String(),
			DroppingTeamID: claim.DroppingTeamID.String(),
			ProcessDate:    claim.ProcessDate,
			WaivedAt:       time.Now(),
		})
		if err != nil {
			return fmt.Errorf("failed to marshal waive payload: %w", err)
		}

		if err := txlog.AppendTx(ctx, tx, models.Transaction{
			ID:        uuid.New(),
			Type:      models.TransactionTypeWaiver,
			TeamIDs:   []uuid.UUID{claim.DroppingTeamID},
			PlayerIDs: []uuid.UUID{claim.PlayerID},
			Detail:    payload,
		}); err != nil {
			return err
		}

		return outbox.InsertTx(ctx, tx, claim.ID, events.TypePlayerWaived, payload)
	})
	if err != nil {
		return nil, err
	}

	return r.GetClaim(ctx, claim.ID)
}

func (r *Repository) GetClaim(ctx context.Context, id uuid.UUID) (*models.WaiverClaim, error) {
	row := r.db.QueryRowContext(ctx,
		`SELECT `+claimColumns+` FROM waiver_claims WHERE id = $1`, id)

	claim, err := scanClaim(row)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, fmt.Errorf("waiver claim %s: %w", id, apperrors.ErrNotFound)
		}
		return nil, fmt.Errorf("failed to get waiver claim: %w", err)
	}
	return claim, nil
}

// GetActiveClaimByPlayer returns the open claim window for a player, if any.
func (r *Repository) GetActiveClaimByPlayer(ctx context.Context, playerID uuid.UUID) (*models.WaiverClaim, error) {
	row := r.db.QueryRowContext(ctx, `
		SELECT `+claimColumns+` FROM waiver_claims
		WHERE player_id = $1 AND status = 'ACTIVE'`, playerID)

	claim, err := scanClaim(row)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, fmt.Errorf("no active claim for player %s: %w", playerID, apperrors.ErrNotFound)
		}
		return nil, fmt.Errorf("failed to get active claim: %w", err)
	}
	return claim, nil
}

func (r *Repository) ListClaimsByStatus(ctx context.Context, status models.WaiverStatus) ([]models.WaiverClaim, error) {
	rows, err := r.db.QueryContext(ctx, `
		SELECT `+claimColumns+` FROM waiver_claims
		WHERE status = $1
		ORDER BY process_date ASC`, string(status))
	if err != nil {
		return nil, fmt.Errorf("failed to list waiver claims: %w", err)
	}
	defer rows.Close()

	return scanClaims(rows)
}

// ListBids returns every non-cancelled bid on a claim in priority order.
func (r *Repository) ListBids(ctx context.Context, claimID uuid.UUID) ([]models.WaiverBid, error) {
	rows, err := r.db.QueryContext(ctx, `
		SELECT id, claim_id, team_id, priority, submitted_at, cancelled
		FROM waiver_bids
		WHERE claim_id = $1 AND NOT cancelled
		ORDER BY priority ASC, submitted_at ASC`, claimID)
	if err != nil {
		return nil, fmt.Errorf("failed to list waiver bids: %w", err)
	}
	defer rows.Close()

	var bids []models.WaiverBid
	for rows.Next() {
		var b models.WaiverBid
		if err := rows.Scan(&b.ID, &b.ClaimID, &b.TeamID, &b.Priority, &b.SubmittedAt, &b.Cancelled); err != nil {
			return nil, fmt.Errorf("failed to scan waiver bid: %w", err)
		}
		bids = append(bids, b)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to read waiver bids: %w", err)
	}
	return bids, nil
}

// InsertBid records a team's claim with its priority snapshot and
// recomputes the window leader in the same transaction.
func (r *Repository) InsertBid(ctx context.Context, bid models.WaiverBid) error {
	return sqlutil.Run(ctx, r.db, func(tx *sql.Tx) error {
		_, err := tx.ExecContext(ctx, `
			INSERT INTO waiver_bids (id, claim_id, team_id, priority, submitted_at, cancelled)
			VALUES ($1, $2, $3, $4, NOW(), FALSE)`,
			bid.ID, bid.ClaimID, bid.TeamID, bid.Priority)
		if err != nil {
			return fmt.Errorf("failed to insert waiver bid: %w", err)
		}
		return recomputeLeaderTx(ctx, tx, bid.ClaimID)
	})
}

// CancelBid withdraws a team's bid and recomputes the leader so the
// next-highest-priority claimant takes over.
func (r *Repository) CancelBid(ctx context.Context, claimID, teamID uuid.UUID) error {
	return sqlutil.Run(ctx, r.db, func(tx *sql.Tx) error {
		res, err := tx.ExecContext(ctx, `
			UPDATE waiver_bids SET cancelled = TRUE
			WHERE claim_id = $1 AND team_id = $2 AND NOT cancelled`,
			claimID, teamID)
		if err != nil {
			return fmt.Errorf("failed to cancel waiver bid: %w", err)
		}
		rows, err := res.RowsAffected()
		if err != nil {
			return fmt.Errorf("failed to cancel waiver bid: %w", err)
		}
		if rows == 0 {
			return fmt.Errorf("no active bid by team %s on claim %s: %w", teamID, claimID, apperrors.ErrNotFound)
		}
		return recomputeLeaderTx(ctx, tx, claimID)
	})
}

// recomputeLeaderTx points leading_team_id at the lowest-priority-number
// live bid, or clears it when none remain. Only ACTIVE claims move.
func recomputeLeaderTx(ctx context.Context, tx *sql.Tx, claimID uuid.UUID) error {
	_, err := tx.ExecContext(ctx, `
		UPDATE waiver_claims SET leading_team_id = (
			SELECT team_id FROM waiver_bids
			WHERE claim_id = $1 AND NOT cancelled
			ORDER BY priority ASC, submitted_at ASC
			LIMIT 1
		)
		WHERE id = $1 AND status = 'ACTIVE'`, claimID)
	if err != nil {
		return fmt.Errorf("failed to recompute claim leader: %w", err)
	}
	return nil
}

// FetchClaimsDue returns ACTIVE claims whose process date has passed.
func (r *Repository) FetchClaimsDue(ctx context.Context, limit int32) ([]models.WaiverClaim, error) {
	rows, err := r.db.QueryContext(ctx, `
		SELECT `+claimColumns+` FROM waiver_claims
		WHERE status = 'ACTIVE' AND process_date <= NOW()
		ORDER BY process_date ASC
		LIMIT $1`, limit)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch due claims: %w", err)
	}
	defer rows.Close()

	return scanClaims(rows)
}

// ProcessClaim resolves a due claim window. With a leader the player moves
// to the winning team and that team drops to the back of the waiver line;
// with no bids the claim expires and the player stays a free agent. The
// status guard makes reprocessing a no-op.
func (r *Repository) ProcessClaim(ctx context.Context, claim *models.WaiverClaim) (*models.WaiverClaim, error) {
	processedAt := time.Now()

	err := sqlutil.Run(ctx, r.db, func(tx *sql.Tx) error {
		if claim.LeadingTeamID == nil {
			res, err := tx.ExecContext(ctx, `
				UPDATE waiver_claims SET status = 'EXPIRED', processed_at = $2
				WHERE id = $1 AND status = 'ACTIVE'`,
				claim.ID, processedAt)
			if err != nil {
				return fmt.Errorf("failed to expire claim: %w", err)
			}
			rows, err := res.RowsAffected()
			if err != nil {
				return fmt.Errorf("failed to expire claim: %w", err)
			}
			if rows == 0 {
				// Already processed.
				return nil
			}

			payload, err := json.Marshal(events.WaiverExpiredPayload{
				ClaimID:   claim.ID.String(),
				PlayerID:  claim.PlayerID.String(),
				ExpiredAt: processedAt,
			})
			if err != nil {
				return fmt.Errorf("failed to marshal expiry payload: %w", err)
			}
			return outbox.InsertTx(ctx, tx, claim.ID, events.TypeWaiverExpired, payload)
		}

		winner := *claim.LeadingTeamID
		res, err := tx.ExecContext(ctx, `
			UPDATE waiver_claims SET status = 'AWARDED', processed_at = $2
			WHERE id = $1 AND status = 'ACTIVE'`,
			claim.ID, processedAt)
		if err != nil {
			return fmt.Errorf("failed to award claim: %w", err)
		}
		rows, err := res.RowsAffected()
		if err != nil {
			return fmt.Errorf("failed to award claim: %w", err)
		}
		if rows == 0 {
			// Already processed.
			return nil
		}

		// The waived player is a free agent for the life of the window.
		if err := roster.AssignPlayerFromTx(ctx, tx, claim.PlayerID, nil, &winner); err != nil {
			return err
		}

		// Winning a claim costs the team its spot in line.
		if err := teams.DemoteWaiverPriorityTx(ctx, tx, winner); err != nil {
			return err
		}

		payload, err := json.Marshal(events.WaiverAwardedPayload{
			ClaimID:       claim.ID.String(),
			PlayerID:      claim.PlayerID.String(),
			WinningTeamID: winner.String(),
			AwardedAt:     processedAt,
		})
		if err != nil {
			return fmt.Errorf("failed to marshal award payload: %w", err)
		}

		if err := txlog.AppendTx(ctx, tx, models.Transaction{
			ID:        uuid.New(),
			Type:      models.TransactionTypeWaiver,
			TeamIDs:   []uuid.UUID{winner},
			PlayerIDs: []uuid.UUID{claim.PlayerID},
			Detail:    payload,
		}); err != nil {
			return err
		}

		return outbox.InsertTx(ctx, tx, claim.ID, events.TypeWaiverAwarded, payload)
	})
	if err != nil {
		return nil, err
	}

	return r.GetClaim(ctx, claim.ID)
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanClaim(row rowScanner) (*models.WaiverClaim, error) {
	var (
		c           models.WaiverClaim
		leadingTeam uuid.NullUUID
		status      string
		processedAt sql.NullTime
	)
	if err := row.Scan(&c.ID, &c.PlayerID, &c.DroppingTeamID, &leadingTeam, &status,
		&c.SubmittedAt, &c.ProcessDate, &processedAt); err != nil {
		return nil, err
	}

	c.Status = models.WaiverStatus(status)
	c.LeadingTeamID = sqlutil.FromNullUUID(leadingTeam)
	c.ProcessedAt = sqlutil.FromSqlTime(processedAt)
	return &c, nil
}

func scanClaims(rows *sql.Rows) ([]models.WaiverClaim, error) {
	var claims []models.WaiverClaim
	for rows.Next() {
		claim, err := scanClaim(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan waiver claim: %w", err)
		}
		claims = append(claims, *claim)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to read waiver claims: %w", err)
	}
	return claims, nil
}
