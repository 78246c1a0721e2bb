package trade

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
	"github.com/rinkhq/faceoff/go/internal/txlog"
)

type Repository struct {
	db *sql.DB
}

func NewRepository(db *sql.DB) *Repository {
	return &Repository{db: db}
}

const tradeColumns = `id, from_team_id, to_team_id, players_offered, players_wanted, status, proposed_at, resolved_at`

func (r *Repository) CreateTrade(ctx context.Context, trade models.Trade) (*models.Trade, error) {
	offered, err := json.Marshal(trade.PlayersOffered)
	if err != nil {
		return nil, fmt.Errorf("failed to marshal offered players: %w", err)
	}
	wanted, err := json.Marshal(trade.PlayersWanted)
	if err != nil {
		return nil, fmt.Errorf("failed to marshal wanted players: %w", err)
	}

	_, err = r.db.ExecContext(ctx, `
		INSERT INTO trades (id, from_team_id, to_team_id, players_offered, players_wanted, status, proposed_at)
		VALUES ($1, $2, $3, $4, $5, $6, NOW())`,
		trade.ID, trade.FromTeamID, trade.ToTeamID, offered, wanted, string(models.TradeStatusPending))
	if err != nil {
		return nil, fmt.Errorf("failed to create trade: %w", err)
	}

	return r.GetTrade(ctx, trade.ID)
}

func (r *Repository) GetTrade(ctx context.Context, id uuid.UUID) (*models.Trade, error) {
	row := r.db.QueryRowContext(ctx,
		`SELECT `+tradeColumns+` FROM trades WHERE id = $1`, id)

	trade, err := scanTrade(row)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, fmt.Errorf("trade %s: %w", id, apperrors.ErrNotFound)
		}
		return nil, fmt.Errorf("failed to get trade: %w", err)
	}
	return trade, nil
}

// ListTradesByTeam returns trades the team proposed or received, newest first.
func (r *Repository) ListTradesByTeam(ctx context.Context, teamID uuid.UUID) ([]models.Trade, error) {
	rows, err := r.db.QueryContext(ctx, `
		SELECT `+tradeColumns+` FROM trades
		WHERE from_team_id = $1 OR to_team_id = $1
		ORDER BY proposed_at DESC`, teamID)
	if err != nil {
		return nil, fmt.Errorf("failed to list trades: %w", err)
	}
	defer rows.Close()

	return scanTrades(rows)
}

func (r *Repository) ListTradesByStatus(ctx context.Context, status models.TradeStatus) ([]models.Trade, error) {
	rows, err := r.db.QueryContext(ctx, `
		SELECT `+tradeColumns+` FROM trades
		WHERE status = $1
		ORDER BY proposed_at DESC`, string(status))
	if err != nil {
		return nil, fmt.Errorf("failed to list trades: %w", err)
	}
	defer rows.Close()

	return scanTrades(rows)
}

// UpdateTradeStatus resolves a PENDING trade to a terminal status. The
// status guard makes the write a compare-and-swap: zero rows means the
// trade already resolved.
func (r *Repository) UpdateTradeStatus(ctx context.Context, id uuid.UUID, status models.TradeStatus) (*models.Trade, error) {
	res, err := r.db.ExecContext(ctx, `
		UPDATE trades SET status = $2, resolved_at = NOW()
		WHERE id = $1 AND status = 'PENDING'`,
		id, string(status))
	if err != nil {
		return nil, fmt.Errorf("failed to update trade status: %w", err)
	}
	rows, err := res.RowsAffected()
	if err != nil {
		return nil, fmt.Errorf("failed to update trade status: %w", err)
	}
	if rows == 0 {
		return nil, fmt.Errorf("trade %s already resolved: %w", id, apperrors.ErrInvalidState)
	}

	return r.GetTrade(ctx, id)
}

// AcceptTrade swaps every player in both sets atomically. Each ownership
// write is a compare-and-swap against the roster the trade was validated
// on, so any player that moved since proposal rolls the whole swap back.
func (r *Repository) AcceptTrade(ctx context.Context, trade *models.Trade) (*models.Trade, error) {
	acceptedAt := time.Now()

	err := sqlutil.Run(ctx, r.db, func(tx *sql.Tx) error {
		res, err := tx.ExecContext(ctx, `
			UPDATE trades SET status = 'ACCEPTED', resolved_at = $2
			WHERE id = $1 AND status = 'PENDING'`,
			trade.ID, acceptedAt)
		if err != nil {
			return fmt.Errorf("failed to accept trade: %w", err)
		}
		rows, err := res.RowsAffected()
		if err != nil {
			return fmt.Errorf("failed to accept trade: %w", err)
		}
		if rows == 0 {
			return fmt.Errorf("trade %s already resolved: %w", trade.ID, apperrors.ErrInvalidState)
		}

		from := trade.FromTeamID
		to := trade.ToTeamID
		for _, playerID := range trade.PlayersOffered {
			if err := roster.AssignPlayerFromTx(ctx, tx, playerID, &from, &to); err != nil {
				return err
			}
		}
		for _, playerID := range trade.PlayersWanted {
			if err := roster.AssignPlayerFromTx(ctx, tx, playerID, &to, &from); err != nil {
				return err
			}
		}

		payload, err := json.Marshal(events.TradeAcceptedPayload{
			TradeID:        trade.ID.String(),
			FromTeamID:     trade.FromTeamID.String(),
			ToTeamID:       trade.ToTeamID.String(),
			PlayersOffered: uuidStrings(trade.PlayersOffered),
			PlayersWanted:  uuidStrings(trade.PlayersWanted),
			AcceptedAt:     acceptedAt,
		})
		if err != nil {
			return fmt.Errorf("failed to marshal trade payload: %w", err)
		}

		allPlayers := make([]uuid.UUID, 0, len(trade.PlayersOffered)+len(trade.PlayersWanted))
		allPlayers = append(allPlayers, trade.PlayersOffered...)
		allPlayers = append(allPlayers, trade.PlayersWanted...)

		if err := txlog.AppendTx(ctx, tx, models.Transaction{
			ID:        uuid.New(),
			Type:      models.TransactionTypeTrade,
			TeamIDs:   []uuid.UUID{trade.FromTeamID, trade.ToTeamID},
			PlayerIDs: allPlayers,
			Detail:    payload,
		}); err != nil {
			return err
		}

		return outbox.InsertTx(ctx, tx, trade.ID, events.TypeTradeAccepted, payload)
	})
	if err != nil {
		return nil, err
	}

	return r.GetTrade(ctx, trade.ID)
}

func uuidStrings(ids []uuid.UUID) []string {
	out := make([]string, len(ids))
	for i, id := range ids {
		out[i] = id.String()
	}
	return out
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanTrade(row rowScanner) (*models.Trade, error) {
	var (
		t          models.Trade
		offered    json.RawMessage
		wanted     json.RawMessage
		status     string
		resolvedAt sql.NullTime
	)
	if err := row.Scan(&t.ID, &t.FromTeamID, &t.ToTeamID, &offered, &wanted, &status, &t.ProposedAt, &resolvedAt); err != nil {
		return nil, err
	}

	t.Status = models.TradeStatus(status)
	if err := json.Unmarshal(offered, &t.PlayersOffered); err != nil {
		return nil, fmt.Errorf("failed to unmarshal offered players: %w", err)
	}
	if err := json.Unmarshal(wanted, &t.PlayersWanted); err != nil {
		return nil, fmt.Errorf("failed to unmarshal wanted players: %w", err)
	}
	t.ResolvedAt = sqlutil.FromSqlTime(resolvedAt)
	return &t, nil
}

func scanTrades(rows *sql.Rows) ([]models.Trade, error) {
	var trades []models.Trade
	for rows.Next() {
		trade, err := scanTrade(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan trade: %w", err)
		}
		trades = append(trades, *trade)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to read trades: %w", err)
	}
	return trades, nil
}
