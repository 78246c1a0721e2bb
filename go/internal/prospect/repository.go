package prospect

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/google/uuid"

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

type CreateProspectRequest struct {
	ID           uuid.UUID              `json:"id"`
	FullName     string                 `json:"full_name"`
	Position     models.Position        `json:"position"`
	JerseyNumber int                    `json:"jersey_number"`
	DraftRank    int                    `json:"draft_rank"`
	Ratings      models.ScoutingRatings `json:"ratings"`
}

const prospectColumns = `id, full_name, position, jersey_number, draft_rank, ratings, is_drafted, drafted_by, draft_round, draft_pick, created_at`

func (r *Repository) CreateProspect(ctx context.Context, req CreateProspectRequest) (*models.DraftProspect, error) {
	ratings, err := json.Marshal(req.Ratings)
	if err != nil {
		return nil, fmt.Errorf("failed to marshal ratings: %w", err)
	}

	_, err = r.db.ExecContext(ctx, `
		INSERT INTO prospects (id, full_name, position, jersey_number, draft_rank, ratings, is_drafted, created_at)
		VALUES ($1, $2, $3, $4, $5, $6, FALSE, NOW())`,
		req.ID, req.FullName, string(req.Position), req.JerseyNumber, req.DraftRank, ratings)
	if err != nil {
		return nil, fmt.Errorf("failed to create prospect: %w", err)
	}

	return r.GetProspect(ctx, req.ID)
}

func (r *Repository) GetProspect(ctx context.Context, id uuid.UUID) (*models.DraftProspect, error) {
	row := r.db.QueryRowContext(ctx,
		`SELECT `+prospectColumns+` FROM prospects WHERE id = $1`, id)

	prospect, err := scanProspect(row)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, fmt.Errorf("prospect %s: %w", id, apperrors.ErrNotFound)
		}
		return nil, fmt.Errorf("failed to get prospect: %w", err)
	}
	return prospect, nil
}

// ListBoard returns all prospects ordered by draft rank ascending. The
// ordering is advisory for display; it never constrains who may be picked.
func (r *Repository) ListBoard(ctx context.Context, undraftedOnly bool) ([]models.DraftProspect, error) {
	query := `SELECT ` + prospectColumns + ` FROM prospects ORDER BY draft_rank ASC`
	if undraftedOnly {
		query = `SELECT ` + prospectColumns + ` FROM prospects WHERE NOT is_drafted ORDER BY draft_rank ASC`
	}

	rows, err := r.db.QueryContext(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("failed to list prospects: %w", err)
	}
	defer rows.Close()

	var prospects []models.DraftProspect
	for rows.Next() {
		prospect, err := scanProspect(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan prospect: %w", err)
		}
		prospects = append(prospects, *prospect)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to read prospects: %w", err)
	}
	return prospects, nil
}

// MarkDraftedTx permanently records a prospect as drafted inside an open
// transaction. The is_drafted guard makes the write a compare-and-swap:
// zero rows means someone drafted the prospect first.
func MarkDraftedTx(ctx context.Context, tx *sql.Tx, prospectID, teamID uuid.UUID, round, pick int) error {
	res, err := tx.ExecContext(ctx, `
		UPDATE prospects
		SET is_drafted = TRUE, drafted_by = $2, draft_round = $3, draft_pick = $4
		WHERE id = $1 AND NOT is_drafted`,
		prospectID, teamID, round, pick)
	if err != nil {
		return fmt.Errorf("failed to mark prospect drafted: %w", err)
	}
	rows, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to mark prospect drafted: %w", err)
	}
	if rows == 0 {
		return fmt.Errorf("prospect %s: %w", prospectID, apperrors.ErrAlreadyDrafted)
	}
	return nil
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanProspect(row rowScanner) (*models.DraftProspect, error) {
	var (
		p         models.DraftProspect
		position  string
		ratings   json.RawMessage
		draftedBy uuid.NullUUID
		round     sql.NullInt32
		pick      sql.NullInt32
	)
	if err := row.Scan(&p.ID, &p.FullName, &position, &p.JerseyNumber, &p.DraftRank,
		&ratings, &p.IsDrafted, &draftedBy, &round, &pick, &p.CreatedAt); err != nil {
		return nil, err
	}

	p.Position = models.Position(position)
	if err := json.Unmarshal(ratings, &p.Ratings); err != nil {
		return nil, fmt.Errorf("failed to unmarshal ratings: %w", err)
	}
	p.DraftedBy = sqlutil.FromNullUUID(draftedBy)
	p.DraftRound = sqlutil.FromSqlInt32(round)
	p.DraftPick = sqlutil.FromSqlInt32(pick)
	return &p, nil
}
