package outbox

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/google/uuid"
)

type Repository struct {
	db *sql.DB
}

func NewRepository(db *sql.DB) *Repository {
	return &Repository{db: db}
}

// execer lets inserts run on either the pool or an open transaction.
type execer interface {
	ExecContext(ctx context.Context, query string, args ...any) (sql.Result, error)
}

// InsertTx writes an event row inside an open transaction. Engines call
// this in the same transaction as their roster mutation so the event is
// exactly as durable as the state change it announces.
func InsertTx(ctx context.Context, tx execer, aggregateID uuid.UUID, eventType string, payload []byte) error {
	_, err := tx.ExecContext(ctx, `
		INSERT INTO outbox (id, aggregate_id, event_type, payload, created_at)
		VALUES ($1, $2, $3, $4, NOW())`,
		uuid.New(), aggregateID, eventType, payload)
	if err != nil {
		return fmt.Errorf("failed to insert %s outbox event: %w", eventType, err)
	}
	return nil
}

// Insert writes an event row outside of any caller transaction.
func (r *Repository) Insert(ctx context.Context, aggregateID uuid.UUID, eventType string, payload []byte) error {
	return InsertTx(ctx, r.db, aggregateID, eventType, payload)
}

// FetchUnsent returns up to limit unsent events oldest first.
func (r *Repository) FetchUnsent(ctx context.Context, limit int32) ([]Event, error) {
	rows, err := r.db.QueryContext(ctx, `
		SELECT id, aggregate_id, event_type, payload, created_at
		FROM outbox WHERE sent_at IS NULL
		ORDER BY created_at ASC
		LIMIT $1`, limit)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch unsent outbox events: %w", err)
	}
	defer rows.Close()

	var events []Event
	for rows.Next() {
		var event Event
		if err := rows.Scan(&event.ID, &event.AggregateID, &event.EventType, &event.Payload, &event.CreatedAt); err != nil {
			return nil, fmt.Errorf("failed to scan outbox event: %w", err)
		}
		events = append(events, event)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to read outbox events: %w", err)
	}
	return events, nil
}

// MarkSent stamps an event as published.
func (r *Repository) MarkSent(ctx context.Context, id uuid.UUID) error {
	_, err := r.db.ExecContext(ctx,
		`UPDATE outbox SET sent_at = $2 WHERE id = $1 AND sent_at IS NULL`, id, time.Now())
	if err != nil {
		return fmt.Errorf("failed to mark outbox event as sent: %w", err)
	}
	return nil
}
