package txlog

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"
	"strconv"
	"time"

	"github.com/google/uuid"
	"github.com/sqlc-dev/pqtype"

	"github.com/rinkhq/faceoff/go/internal/models"
)

type Repository struct {
	db *sql.DB
}

func NewRepository(db *sql.DB) *Repository {
	return &Repository{db: db}
}

// QueryFilter narrows a transaction log query. Zero values are ignored.
type QueryFilter struct {
	TeamID   *uuid.UUID             `json:"team_id,omitempty"`
	PlayerID *uuid.UUID             `json:"player_id,omitempty"`
	Type     models.TransactionType `json:"type,omitempty"`
	From     *time.Time             `json:"from,omitempty"`
	To       *time.Time             `json:"to,omitempty"`
	Limit    int                    `json:"limit,omitempty"`
}

func (r *Repository) Append(ctx context.Context, entry models.Transaction) error {
	return AppendTx(ctx, r.db, entry)
}

// execer lets Append run on either the pool or an open transaction.
type execer interface {
	ExecContext(ctx context.Context, query string, args ...any) (sql.Result, error)
}

// AppendTx writes a log entry, usually inside the same transaction as the
// roster mutation it records so the audit trail can never miss a mutation.
func AppendTx(ctx context.Context, tx execer, entry models.Transaction) error {
	teamIDs, err := json.Marshal(entry.TeamIDs)
	if err != nil {
		return fmt.Errorf("failed to marshal team ids: %w", err)
	}
	playerIDs, err := json.Marshal(entry.PlayerIDs)
	if err != nil {
		return fmt.Errorf("failed to marshal player ids: %w", err)
	}

	detail := pqtype.NullRawMessage{RawMessage: entry.Detail, Valid: len(entry.Detail) > 0}

	_, err = tx.ExecContext(ctx, `
		INSERT INTO transactions (id, type, team_ids, player_ids, detail, created_at)
		VALUES ($1, $2, $3, $4, $5, NOW())`,
		entry.ID, string(entry.Type), teamIDs, playerIDs, detail)
	if err != nil {
		return fmt.Errorf("failed to append transaction: %w", err)
	}
	return nil
}

// Query returns matching entries sorted by timestamp descending.
func (r *Repository) Query(ctx context.Context, filter QueryFilter) ([]models.Transaction, error) {
	query := `SELECT id, type, team_ids, player_ids, detail, created_at FROM transactions`
	var (
		conds []string
		args  []any
	)

	arg := func(v any) string {
		args = append(args, v)
		return "$" + strconv.Itoa(len(args))
	}

	if filter.Type != "" {
		conds = append(conds, "type = "+arg(string(filter.Type)))
	}
	if filter.TeamID != nil {
		conds = append(conds, "team_ids @> "+arg(quoteJSON(*filter.TeamID)))
	}
	if filter.PlayerID != nil {
		conds = append(conds, "player_ids @> "+arg(quoteJSON(*filter.PlayerID)))
	}
	if filter.From != nil {
		conds = append(conds, "created_at >= "+arg(*filter.From))
	}
	if filter.To != nil {
		conds = append(conds, "created_at <= "+arg(*filter.To))
	}

	for i, cond := range conds {
		if i == 0 {
			query += " WHERE " + cond
		} else {
			query += " AND " + cond
		}
	}
	query += " ORDER BY created_at DESC"
	if filter.Limit > 0 {
		query += " LIMIT " + arg(filter.Limit)
	}

	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to query transactions: %w", err)
	}
	defer rows.Close()

	var entries []models.Transaction
	for rows.Next() {
		var (
			entry     models.Transaction
			txType    string
			teamIDs   json.RawMessage
			playerIDs json.RawMessage
			detail    pqtype.NullRawMessage
		)
		if err := rows.Scan(&entry.ID, &txType, &teamIDs, &playerIDs, &detail, &entry.CreatedAt); err != nil {
			return nil, fmt.Errorf("failed to scan transaction: %w", err)
		}
		entry.Type = models.TransactionType(txType)
		if err := json.Unmarshal(teamIDs, &entry.TeamIDs); err != nil {
			return nil, fmt.Errorf("failed to unmarshal team ids: %w", err)
		}
		if err := json.Unmarshal(playerIDs, &entry.PlayerIDs); err != nil {
			return nil, fmt.Errorf("failed to unmarshal player ids: %w", err)
		}
		if detail.Valid {
			entry.Detail = detail.RawMessage
		}
		entries = append(entries, entry)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to read transactions: %w", err)
	}
	return entries, nil
}

// quoteJSON renders a uuid as a JSON array element for jsonb containment.
func quoteJSON(id uuid.UUID) string {
	return `["` + id.String() + `"]`
}
