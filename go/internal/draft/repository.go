package draft

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
	"github.com/rinkhq/faceoff/go/internal/sqlutil"
)

type Repository struct {
	db *sql.DB
}

func NewRepository(db *sql.DB) *Repository {
	return &Repository{db: db}
}

const draftColumns = `id, season, status, settings, current_round, current_pick, scheduled_at, started_at, completed_at, next_deadline, created_at, updated_at`

func (r *Repository) CreateDraft(ctx context.Context, req CreateDraftRequest) (*models.Draft, error) {
	settings, err := json.Marshal(req.Settings)
	if err != nil {
		return nil, fmt.Errorf("failed to marshal draft settings: %w", err)
	}

	_, err = r.db.ExecContext(ctx, `
		INSERT INTO drafts (id, season, status, settings, current_round, current_pick, scheduled_at, created_at, updated_at)
		VALUES ($1, $2, $3, $4, 1, 1, $5, NOW(), NOW())`,
		req.ID, req.Season, string(models.DraftStatusNotStarted), settings, sqlutil.ToSqlTime(req.ScheduledAt))
	if err != nil {
		return nil, fmt.Errorf("failed to create draft: %w", err)
	}

	return r.GetDraft(ctx, req.ID)
}

func (r *Repository) GetDraft(ctx context.Context, id uuid.UUID) (*models.Draft, error) {
	row := r.db.QueryRowContext(ctx,
		`SELECT `+draftColumns+` FROM drafts WHERE id = $1`, id)

	draft, err := scanDraft(row)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, fmt.Errorf("draft %s: %w", id, apperrors.ErrNotFound)
		}
		return nil, fmt.Errorf("failed to get draft: %w", err)
	}
	return draft, nil
}

func (r *Repository) ListDrafts(ctx context.Context) ([]models.Draft, error) {
	rows, err := r.db.QueryContext(ctx,
		`SELECT `+draftColumns+` FROM drafts ORDER BY created_at DESC`)
	if err != nil {
		return nil, fmt.Errorf("failed to list drafts: %w", err)
	}
	defer rows.Close()

	var drafts []models.Draft
	for rows.Next() {
		draft, err := scanDraft(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan draft: %w", err)
		}
		drafts = append(drafts, *draft)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to read drafts: %w", err)
	}
	return drafts, nil
}

// UpdateDraftStatus writes the new status and, when change.EventType is
// set, the matching outbox event in one transaction.
func (r *Repository) UpdateDraftStatus(ctx context.Context, id uuid.UUID, change StatusChange) (*models.Draft, error) {
	err := sqlutil.Run(ctx, r.db, func(tx *sql.Tx) error {
		res, err := tx.ExecContext(ctx, `
			UPDATE drafts
			SET status = $2,
			    next_deadline = $3,
			    started_at = CASE WHEN $2 = 'IN_PROGRESS' AND started_at IS NULL THEN NOW() ELSE started_at END,
			    completed_at = CASE WHEN $2 = 'COMPLETED' THEN NOW() ELSE completed_at END,
			    updated_at = NOW()
			WHERE id = $1`,
			id, string(change.Status), sqlutil.ToSqlTime(change.Deadline))
		if err != nil {
			return fmt.Errorf("failed to update draft status: %w", err)
		}
		rows, err := res.RowsAffected()
		if err != nil {
			return fmt.Errorf("failed to update draft status: %w", err)
		}
		if rows == 0 {
			return fmt.Errorf("draft %s: %w", id, apperrors.ErrNotFound)
		}

		if change.EventType != "" {
			if err := outbox.InsertTx(ctx, tx, id, change.EventType, change.Payload); err != nil {
				return err
			}
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	return r.GetDraft(ctx, id)
}

// StartDraft flips the draft to IN_PROGRESS and creates every pick slot in
// the same transaction, so a draft is never live with a partial board.
func (r *Repository) StartDraft(ctx context.Context, id uuid.UUID, picks []models.DraftPick, deadline time.Time, payload []byte) (*models.Draft, error) {
	err := sqlutil.Run(ctx, r.db, func(tx *sql.Tx) error {
		res, err := tx.ExecContext(ctx, `
			UPDATE drafts
			SET status = 'IN_PROGRESS',
			    current_round = 1,
			    current_pick = 1,
			    started_at = NOW(),
			    next_deadline = $2,
			    updated_at = NOW()
			WHERE id = $1 AND status = 'NOT_STARTED'`,
			id, deadline)
		if err != nil {
			return fmt.Errorf("failed to start draft: %w", err)
		}
		rows, err := res.RowsAffected()
		if err != nil {
			return fmt.Errorf("failed to start draft: %w", err)
		}
		if rows == 0 {
			return fmt.Errorf("draft %s is not startable: %w", id, apperrors.ErrInvalidState)
		}

		if err := insertPicksTx(ctx, tx, picks); err != nil {
			return err
		}

		return outbox.InsertTx(ctx, tx, id, events.TypeDraftStarted, payload)
	})
	if err != nil {
		return nil, err
	}

	return r.GetDraft(ctx, id)
}

// FetchNextDeadline returns the soonest deadline among in-progress drafts,
// or nil when no draft has a timer armed.
func (r *Repository) FetchNextDeadline(ctx context.Context) (*NextDeadline, error) {
	row := r.db.QueryRowContext(ctx, `
		SELECT id, next_deadline FROM drafts
		WHERE status = 'IN_PROGRESS' AND next_deadline IS NOT NULL
		ORDER BY next_deadline ASC
		LIMIT 1`)

	var nd NextDeadline
	var deadline time.Time
	if err := row.Scan(&nd.DraftID, &deadline); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to fetch next deadline: %w", err)
	}
	nd.Deadline = &deadline
	return &nd, nil
}

// FetchDraftsDueForPick returns drafts whose pick deadline has passed.
func (r *Repository) FetchDraftsDueForPick(ctx context.Context, limit int32) ([]uuid.UUID, error) {
	rows, err := r.db.QueryContext(ctx, `
		SELECT id FROM drafts
		WHERE status = 'IN_PROGRESS' AND next_deadline IS NOT NULL AND next_deadline <= NOW()
		ORDER BY next_deadline ASC
		LIMIT $1`, limit)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch drafts due for pick: %w", err)
	}
	defer rows.Close()

	var ids []uuid.UUID
	for rows.Next() {
		var id uuid.UUID
		if err := rows.Scan(&id); err != nil {
			return nil, fmt.Errorf("failed to scan draft id: %w", err)
		}
		ids = append(ids, id)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to read due drafts: %w", err)
	}
	return ids, nil
}

func (r *Repository) UpdateNextDeadline(ctx context.Context, draftID uuid.UUID, deadline *time.Time) error {
	_, err := r.db.ExecContext(ctx,
		`UPDATE drafts SET next_deadline = $2, updated_at = NOW() WHERE id = $1`,
		draftID, sqlutil.ToSqlTime(deadline))
	if err != nil {
		return fmt.Errorf("failed to update next deadline: %w", err)
	}
	return nil
}

func (r *Repository) ClearNextDeadline(ctx context.Context, draftID uuid.UUID) error {
	return r.UpdateNextDeadline(ctx, draftID, nil)
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanDraft(row rowScanner) (*models.Draft, error) {
	var (
		d           models.Draft
		status      string
		settings    json.RawMessage
		scheduledAt sql.NullTime
		startedAt   sql.NullTime
		completedAt sql.NullTime
		deadline    sql.NullTime
	)
	if err := row.Scan(&d.ID, &d.Season, &status, &settings, &d.CurrentRound, &d.CurrentPick,
		&scheduledAt, &startedAt, &completedAt, &deadline, &d.CreatedAt, &d.UpdatedAt); err != nil {
		return nil, err
	}

	d.Status = models.DraftStatus(status)
	if err := json.Unmarshal(settings, &d.Settings); err != nil {
		return nil, fmt.Errorf("failed to unmarshal draft settings: %w", err)
	}
	d.ScheduledAt = sqlutil.FromSqlTime(scheduledAt)
	d.StartedAt = sqlutil.FromSqlTime(startedAt)
	d.CompletedAt = sqlutil.FromSqlTime(completedAt)
	d.NextDeadline = sqlutil.FromSqlTime(deadline)
	return &d, nil
}
