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
	"github.com/rinkhq/faceoff/go/internal/prospect"
	"github.com/rinkhq/faceoff/go/internal/roster"
	"github.com/rinkhq/faceoff/go/internal/sqlutil"
	"github.com/rinkhq/faceoff/go/internal/txlog"
)

const pickColumns = `id, draft_id, round, pick, overall_pick, team_id, prospect_id, player_id, player_name, picked_at, skipped`

func insertPicksTx(ctx context.Context, tx *sql.Tx, picks []models.DraftPick) error {
	stmt, err := tx.PrepareContext(ctx, `
		INSERT INTO draft_picks (id, draft_id, round, pick, overall_pick, team_id, skipped)
		VALUES ($1, $2, $3, $4, $5, $6, FALSE)`)
	if err != nil {
		return fmt.Errorf("failed to prepare pick insert: %w", err)
	}
	defer stmt.Close()

	for _, p := range picks {
		if _, err := stmt.ExecContext(ctx, p.ID, p.DraftID, p.Round, p.Pick, p.OverallPick, p.TeamID); err != nil {
			return fmt.Errorf("failed to insert pick slot %d: %w", p.OverallPick, err)
		}
	}
	return nil
}

func (r *Repository) GetDraftPicksByDraft(ctx context.Context, draftID uuid.UUID) ([]models.DraftPick, error) {
	rows, err := r.db.QueryContext(ctx,
		`SELECT `+pickColumns+` FROM draft_picks WHERE draft_id = $1 ORDER BY overall_pick`, draftID)
	if err != nil {
		return nil, fmt.Errorf("failed to get draft picks: %w", err)
	}
	defer rows.Close()

	return scanPicks(rows)
}

func (r *Repository) GetDraftPicksByRound(ctx context.Context, draftID uuid.UUID, round int) ([]models.DraftPick, error) {
	rows, err := r.db.QueryContext(ctx,
		`SELECT `+pickColumns+` FROM draft_picks WHERE draft_id = $1 AND round = $2 ORDER BY overall_pick`,
		draftID, round)
	if err != nil {
		return nil, fmt.Errorf("failed to get draft picks by round: %w", err)
	}
	defer rows.Close()

	return scanPicks(rows)
}

// GetNextPickForDraft returns the slot on the clock: the lowest unfilled,
// unskipped overall pick. This is also how requeued slots get their turn.
func (r *Repository) GetNextPickForDraft(ctx context.Context, draftID uuid.UUID) (*models.DraftPick, error) {
	row := r.db.QueryRowContext(ctx, `
		SELECT `+pickColumns+` FROM draft_picks
		WHERE draft_id = $1 AND prospect_id IS NULL AND NOT skipped
		ORDER BY overall_pick ASC
		LIMIT 1`, draftID)

	pick, err := scanPick(row)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, fmt.Errorf("no pick on the clock for draft %s: %w", draftID, apperrors.ErrNotFound)
		}
		return nil, fmt.Errorf("failed to get next pick: %w", err)
	}
	return pick, nil
}

func (r *Repository) CountRemainingPicks(ctx context.Context, draftID uuid.UUID) (int, error) {
	var count int
	err := r.db.QueryRowContext(ctx,
		`SELECT COUNT(*) FROM draft_picks WHERE draft_id = $1 AND prospect_id IS NULL AND NOT skipped`,
		draftID).Scan(&count)
	if err != nil {
		return 0, fmt.Errorf("failed to count remaining picks: %w", err)
	}
	return count, nil
}

// MakePick records a selection atomically: fill the slot, mark the
// prospect drafted, promote them onto the picking team's roster, advance
// the draft pointer (or complete the draft), and write the transaction log
// entry plus outbox event. Any conflict rolls the whole thing back.
func (r *Repository) MakePick(ctx context.Context, params MakePickParams) (*PickOutcome, error) {
	d := params.Draft
	slot := params.Slot
	pr := params.Prospect
	madeAt := time.Now()

	outcome := &PickOutcome{MadeAt: madeAt}

	err := sqlutil.Run(ctx, r.db, func(tx *sql.Tx) error {
		// Fill the slot. The prospect_id IS NULL guard makes this a
		// compare-and-swap against concurrent picks on the same slot.
		res, err := tx.ExecContext(ctx, `
			UPDATE draft_picks
			SET prospect_id = $2, player_id = $2, player_name = $3, picked_at = $4
			WHERE id = $1 AND prospect_id IS NULL AND NOT skipped`,
			slot.ID, pr.ID, pr.FullName, madeAt)
		if err != nil {
			return fmt.Errorf("failed to fill pick slot: %w", err)
		}
		rows, err := res.RowsAffected()
		if err != nil {
			return fmt.Errorf("failed to fill pick slot: %w", err)
		}
		if rows == 0 {
			return fmt.Errorf("pick slot %d already resolved: %w", slot.OverallPick, apperrors.ErrInvalidState)
		}

		if err := prospect.MarkDraftedTx(ctx, tx, pr.ID, slot.TeamID, slot.Round, slot.Pick); err != nil {
			return err
		}

		// Promote the prospect into the league under the same ID.
		teamID := slot.TeamID
		if err := roster.InsertPlayerTx(ctx, tx, models.Player{
			ID:           pr.ID,
			FullName:     pr.FullName,
			JerseyNumber: pr.JerseyNumber,
			Position:     pr.Position,
			TeamID:       &teamID,
			Availability: models.AvailabilityAvailable,
		}); err != nil {
			return err
		}

		// Advance the pointer to the next open slot, or complete the
		// draft when this was the last one.
		var nextRound, nextPick int
		err = tx.QueryRowContext(ctx, `
			SELECT round, pick FROM draft_picks
			WHERE draft_id = $1 AND prospect_id IS NULL AND NOT skipped
			ORDER BY overall_pick ASC
			LIMIT 1`, d.ID).Scan(&nextRound, &nextPick)
		switch {
		case errors.Is(err, sql.ErrNoRows):
			outcome.Completed = true
			if _, err := tx.ExecContext(ctx, `
				UPDATE drafts
				SET status = 'COMPLETED', completed_at = $2, next_deadline = NULL, updated_at = NOW()
				WHERE id = $1`, d.ID, madeAt); err != nil {
				return fmt.Errorf("failed to complete draft: %w", err)
			}
		case err != nil:
			return fmt.Errorf("failed to find next pick slot: %w", err)
		default:
			if _, err := tx.ExecContext(ctx, `
				UPDATE drafts
				SET current_round = $2, current_pick = $3, next_deadline = $4, updated_at = NOW()
				WHERE id = $1`, d.ID, nextRound, nextPick, params.NextDeadline); err != nil {
				return fmt.Errorf("failed to advance draft pointer: %w", err)
			}
		}

		pickPayload, err := json.Marshal(events.PickMadePayload{
			PickID:       slot.ID.String(),
			TeamID:       slot.TeamID.String(),
			ProspectID:   pr.ID.String(),
			ProspectName: pr.FullName,
			Round:        slot.Round,
			Pick:         slot.Pick,
			OverallPick:  slot.OverallPick,
			MadeAt:       madeAt,
		})
		if err != nil {
			return fmt.Errorf("failed to marshal pick payload: %w", err)
		}

		if err := txlog.AppendTx(ctx, tx, models.Transaction{
			ID:        uuid.New(),
			Type:      models.TransactionTypeDraft,
			TeamIDs:   []uuid.UUID{slot.TeamID},
			PlayerIDs: []uuid.UUID{pr.ID},
			Detail:    pickPayload,
		}); err != nil {
			return err
		}

		if err := outbox.InsertTx(ctx, tx, d.ID, events.TypePickMade, pickPayload); err != nil {
			return err
		}

		if outcome.Completed {
			completedPayload, err := json.Marshal(events.DraftCompletedPayload{
				DraftID:     d.ID.String(),
				CompletedAt: madeAt,
				TotalPicks:  slot.OverallPick,
			})
			if err != nil {
				return fmt.Errorf("failed to marshal completion payload: %w", err)
			}
			return outbox.InsertTx(ctx, tx, d.ID, events.TypeDraftCompleted, completedPayload)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	filled := *slot
	filledID := pr.ID
	filled.ProspectID = &filledID
	filled.PlayerID = &filledID
	filled.PlayerName = pr.FullName
	filled.PickedAt = &madeAt
	outcome.Pick = &filled
	return outcome, nil
}

// SkipCurrentPick marks the slot on the clock as skipped and requeues a
// fresh slot for the same team at the end of the draft. A slot that was
// resolved between the deadline firing and this write is left alone, so
// the operation is safe to retry.
func (r *Repository) SkipCurrentPick(ctx context.Context, params SkipPickParams) (*SkipOutcome, error) {
	d := params.Draft
	slot := params.Slot
	skippedAt := time.Now()

	outcome := &SkipOutcome{}

	err := sqlutil.Run(ctx, r.db, func(tx *sql.Tx) error {
		res, err := tx.ExecContext(ctx, `
			UPDATE draft_picks
			SET skipped = TRUE
			WHERE id = $1 AND prospect_id IS NULL AND NOT skipped`, slot.ID)
		if err != nil {
			return fmt.Errorf("failed to skip pick slot: %w", err)
		}
		rows, err := res.RowsAffected()
		if err != nil {
			return fmt.Errorf("failed to skip pick slot: %w", err)
		}
		if rows == 0 {
			// Already picked or skipped. Nothing to do.
			return nil
		}
		outcome.Skipped = true

		// Requeue at the back of the board: final round, after the
		// current last slot.
		requeueID := uuid.New()
		outcome.RequeuedAsID = requeueID

		var maxOverall, maxPickInFinal int
		if err := tx.QueryRowContext(ctx, `
			SELECT MAX(overall_pick), MAX(pick) FILTER (WHERE round = $2)
			FROM draft_picks WHERE draft_id = $1`,
			d.ID, d.Settings.Rounds).Scan(&maxOverall, &maxPickInFinal); err != nil {
			return fmt.Errorf("failed to find requeue position: %w", err)
		}

		if _, err := tx.ExecContext(ctx, `
			INSERT INTO draft_picks (id, draft_id, round, pick, overall_pick, team_id, skipped)
			VALUES ($1, $2, $3, $4, $5, $6, FALSE)`,
			requeueID, d.ID, d.Settings.Rounds, maxPickInFinal+1, maxOverall+1, slot.TeamID); err != nil {
			return fmt.Errorf("failed to requeue skipped slot: %w", err)
		}

		// The requeue guarantees an open slot exists, so a skip never
		// completes a draft.
		var nextRound, nextPick int
		if err := tx.QueryRowContext(ctx, `
			SELECT round, pick FROM draft_picks
			WHERE draft_id = $1 AND prospect_id IS NULL AND NOT skipped
			ORDER BY overall_pick ASC
			LIMIT 1`, d.ID).Scan(&nextRound, &nextPick); err != nil {
			return fmt.Errorf("failed to find next pick slot: %w", err)
		}
		if _, err := tx.ExecContext(ctx, `
			UPDATE drafts
			SET current_round = $2, current_pick = $3, next_deadline = $4, updated_at = NOW()
			WHERE id = $1`, d.ID, nextRound, nextPick, params.NextDeadline); err != nil {
			return fmt.Errorf("failed to advance draft pointer: %w", err)
		}

		payload, err := json.Marshal(events.PickSkippedPayload{
			PickID:       slot.ID.String(),
			TeamID:       slot.TeamID.String(),
			Round:        slot.Round,
			Pick:         slot.Pick,
			OverallPick:  slot.OverallPick,
			RequeuedAsID: requeueID.String(),
			SkippedAt:    skippedAt,
		})
		if err != nil {
			return fmt.Errorf("failed to marshal skip payload: %w", err)
		}
		return outbox.InsertTx(ctx, tx, d.ID, events.TypePickSkipped, payload)
	})
	if err != nil {
		return nil, err
	}
	return outcome, nil
}

func scanPick(row rowScanner) (*models.DraftPick, error) {
	var (
		p          models.DraftPick
		prospectID uuid.NullUUID
		playerID   uuid.NullUUID
		playerName sql.NullString
		pickedAt   sql.NullTime
	)
	if err := row.Scan(&p.ID, &p.DraftID, &p.Round, &p.Pick, &p.OverallPick, &p.TeamID,
		&prospectID, &playerID, &playerName, &pickedAt, &p.Skipped); err != nil {
		return nil, err
	}
	p.ProspectID = sqlutil.FromNullUUID(prospectID)
	p.PlayerID = sqlutil.FromNullUUID(playerID)
	p.PlayerName = playerName.String
	p.PickedAt = sqlutil.FromSqlTime(pickedAt)
	return &p, nil
}

func scanPicks(rows *sql.Rows) ([]models.DraftPick, error) {
	var picks []models.DraftPick
	for rows.Next() {
		pick, err := scanPick(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan draft pick: %w", err)
		}
		picks = append(picks, *pick)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to read draft picks: %w", err)
	}
	return picks, nil
}
