package orchestrator

import (
	"context"
	"fmt"
	"testing"

	"github.com/google/uuid"
	"github.com/jonboulle/clockwork"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/rinkhq/faceoff/go/internal/apperrors"
	"github.com/rinkhq/faceoff/go/internal/draft"
)

type fakeDraftApp struct {
	deadline *draft.NextDeadline
	due      []uuid.UUID

	skipped []uuid.UUID
	skipErr error
	outcome *draft.SkipOutcome
}

func (f *fakeDraftApp) FetchNextDeadline(ctx context.Context) (*draft.NextDeadline, error) {
	return f.deadline, nil
}

func (f *fakeDraftApp) FetchDraftsDueForPick(ctx context.Context, limit int32) ([]uuid.UUID, error) {
	return f.due, nil
}

func (f *fakeDraftApp) SkipCurrentPick(ctx context.Context, draftID uuid.UUID) (*draft.SkipOutcome, error) {
	f.skipped = append(f.skipped, draftID)
	if f.skipErr != nil {
		return nil, f.skipErr
	}
	if f.outcome != nil {
		return f.outcome, nil
	}
	return &draft.SkipOutcome{Skipped: true, RequeuedAsID: uuid.New()}, nil
}

func TestHandleTimeout_SkipsExpiredSlot(t *testing.T) {
	t.Parallel()

	app := &fakeDraftApp{}
	o := NewOrchestrator(app, clockwork.NewFakeClock(), 10)
	draftID := uuid.New()

	err := o.handleTimeout(context.Background(), draftID)
	require.NoError(t, err)
	assert.Equal(t, []uuid.UUID{draftID}, app.skipped)
}

func TestHandleTimeout_DraftAlreadyResolved(t *testing.T) {
	t.Parallel()

	app := &fakeDraftApp{skipErr: fmt.Errorf("no slot: %w", apperrors.ErrNotFound)}
	o := NewOrchestrator(app, clockwork.NewFakeClock(), 10)

	// A draft that completed between the deadline firing and the skip is
	// not an error.
	err := o.handleTimeout(context.Background(), uuid.New())
	assert.NoError(t, err)
}

func TestHandleTimeout_PropagatesOtherErrors(t *testing.T) {
	t.Parallel()

	app := &fakeDraftApp{skipErr: fmt.Errorf("db down")}
	o := NewOrchestrator(app, clockwork.NewFakeClock(), 10)

	err := o.handleTimeout(context.Background(), uuid.New())
	assert.Error(t, err)
}

func TestWake_NeverBlocks(t *testing.T) {
	t.Parallel()

	o := NewOrchestrator(&fakeDraftApp{}, clockwork.NewFakeClock(), 10)

	// The wake channel holds one nudge; extra calls must drop, not block.
	for i := 0; i < 5; i++ {
		o.Wake()
	}
}
