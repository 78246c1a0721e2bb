package draft

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/jonboulle/clockwork"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/rinkhq/faceoff/go/internal/apperrors"
	"github.com/rinkhq/faceoff/go/internal/models"
)

type fakeDraftRepo struct {
	draft *models.Draft
	slot  *models.DraftPick

	makePickParams *MakePickParams
	skipParams     *SkipPickParams
	startPicks     []models.DraftPick
	startDeadline  time.Time
	statusChange   *StatusChange
}

func (f *fakeDraftRepo) CreateDraft(ctx context.Context, req CreateDraftRequest) (*models.Draft, error) {
	return &models.Draft{ID: req.ID, Season: req.Season, Settings: req.Settings, Status: models.DraftStatusNotStarted}, nil
}

func (f *fakeDraftRepo) GetDraft(ctx context.Context, id uuid.UUID) (*models.Draft, error) {
	if f.draft == nil || f.draft.ID != id {
		return nil, apperrors.ErrNotFound
	}
	return f.draft, nil
}

func (f *fakeDraftRepo) ListDrafts(ctx context.Context) ([]models.Draft, error) {
	if f.draft == nil {
		return nil, nil
	}
	return []models.Draft{*f.draft}, nil
}

func (f *fakeDraftRepo) UpdateDraftStatus(ctx context.Context, id uuid.UUID, change StatusChange) (*models.Draft, error) {
	f.statusChange = &change
	updated := *f.draft
	updated.Status = change.Status
	return &updated, nil
}

func (f *fakeDraftRepo) StartDraft(ctx context.Context, id uuid.UUID, picks []models.DraftPick, deadline time.Time, payload []byte) (*models.Draft, error) {
	f.startPicks = picks
	f.startDeadline = deadline
	started := *f.draft
	started.Status = models.DraftStatusInProgress
	return &started, nil
}

func (f *fakeDraftRepo) GetDraftPicksByDraft(ctx context.Context, draftID uuid.UUID) ([]models.DraftPick, error) {
	return f.startPicks, nil
}

func (f *fakeDraftRepo) GetDraftPicksByRound(ctx context.Context, draftID uuid.UUID, round int) ([]models.DraftPick, error) {
	return nil, nil
}

func (f *fakeDraftRepo) GetNextPickForDraft(ctx context.Context, draftID uuid.UUID) (*models.DraftPick, error) {
	if f.slot == nil {
		return nil, apperrors.ErrNotFound
	}
	return f.slot, nil
}

func (f *fakeDraftRepo) CountRemainingPicks(ctx context.Context, draftID uuid.UUID) (int, error) {
	return 0, nil
}

func (f *fakeDraftRepo) MakePick(ctx context.Context, params MakePickParams) (*PickOutcome, error) {
	f.makePickParams = &params
	filled := *params.Slot
	filled.ProspectID = &params.Prospect.ID
	return &PickOutcome{Pick: &filled, MadeAt: params.NextDeadline}, nil
}

func (f *fakeDraftRepo) SkipCurrentPick(ctx context.Context, params SkipPickParams) (*SkipOutcome, error) {
	f.skipParams = &params
	return &SkipOutcome{Skipped: true, RequeuedAsID: uuid.New()}, nil
}

func (f *fakeDraftRepo) FetchNextDeadline(ctx context.Context) (*NextDeadline, error) {
	return nil, nil
}

func (f *fakeDraftRepo) FetchDraftsDueForPick(ctx context.Context, limit int32) ([]uuid.UUID, error) {
	return nil, nil
}

func (f *fakeDraftRepo) UpdateNextDeadline(ctx context.Context, draftID uuid.UUID, deadline *time.Time) error {
	return nil
}

func (f *fakeDraftRepo) ClearNextDeadline(ctx context.Context, draftID uuid.UUID) error {
	return nil
}

type fakeProspects struct {
	prospects map[uuid.UUID]*models.DraftProspect
}

func (f *fakeProspects) GetProspect(ctx context.Context, id uuid.UUID) (*models.DraftProspect, error) {
	p, ok := f.prospects[id]
	if !ok {
		return nil, apperrors.ErrNotFound
	}
	return p, nil
}

func testOrder(n int) []uuid.UUID {
	order := make([]uuid.UUID, n)
	for i := range order {
		order[i] = uuid.New()
	}
	return order
}

func testSettings(rounds int, orderType models.DraftOrderType, order []uuid.UUID) models.DraftSettings {
	return models.DraftSettings{
		Rounds:         rounds,
		TimePerPickSec: 60,
		OrderType:      orderType,
		DraftOrder:     order,
	}
}

func TestGeneratePickSlots_Straight(t *testing.T) {
	t.Parallel()

	order := testOrder(3)
	picks := generatePickSlots(uuid.New(), testSettings(2, models.DraftOrderStraight, order))

	require.Len(t, picks, 6)
	for i, p := range picks {
		assert.Equal(t, i+1, p.OverallPick)
		assert.Equal(t, order[i%3], p.TeamID)
	}
	assert.Equal(t, 1, picks[3].Pick)
	assert.Equal(t, 2, picks[3].Round)
}

func TestGeneratePickSlots_Snake(t *testing.T) {
	t.Parallel()

	order := testOrder(3)
	picks := generatePickSlots(uuid.New(), testSettings(3, models.DraftOrderSnake, order))

	require.Len(t, picks, 9)
	// Round 1 runs forward, round 2 reversed, round 3 forward again.
	assert.Equal(t, order[0], picks[0].TeamID)
	assert.Equal(t, order[2], picks[2].TeamID)
	assert.Equal(t, order[2], picks[3].TeamID)
	assert.Equal(t, order[0], picks[5].TeamID)
	assert.Equal(t, order[0], picks[6].TeamID)

	for i, p := range picks {
		assert.Equal(t, i+1, p.OverallPick)
	}
}

func TestCreateDraft_Validation(t *testing.T) {
	t.Parallel()

	app := NewApp(&fakeDraftRepo{}, &fakeProspects{}, clockwork.NewFakeClock())
	order := testOrder(2)

	cases := []struct {
		name string
		req  CreateDraftRequest
	}{
		{"missing id", CreateDraftRequest{Season: "2026", Settings: testSettings(3, models.DraftOrderSnake, order)}},
		{"missing season", CreateDraftRequest{ID: uuid.New(), Settings: testSettings(3, models.DraftOrderSnake, order)}},
		{"zero rounds", CreateDraftRequest{ID: uuid.New(), Season: "2026", Settings: testSettings(0, models.DraftOrderSnake, order)}},
		{"bad order type", CreateDraftRequest{ID: uuid.New(), Season: "2026", Settings: testSettings(3, "ZIGZAG", order)}},
		{"empty order", CreateDraftRequest{ID: uuid.New(), Season: "2026", Settings: testSettings(3, models.DraftOrderSnake, nil)}},
		{"duplicate team", CreateDraftRequest{ID: uuid.New(), Season: "2026",
			Settings: testSettings(3, models.DraftOrderSnake, []uuid.UUID{order[0], order[0]})}},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			_, err := app.CreateDraft(context.Background(), tc.req)
			assert.Error(t, err)
		})
	}
}

func TestStartDraft_ArmsFirstDeadline(t *testing.T) {
	t.Parallel()

	clock := clockwork.NewFakeClock()
	order := testOrder(2)
	repo := &fakeDraftRepo{
		draft: &models.Draft{
			ID:       uuid.New(),
			Season:   "2026",
			Status:   models.DraftStatusNotStarted,
			Settings: testSettings(2, models.DraftOrderStraight, order),
		},
	}
	app := NewApp(repo, &fakeProspects{}, clock)

	started, err := app.StartDraft(context.Background(), repo.draft.ID)
	require.NoError(t, err)
	assert.Equal(t, models.DraftStatusInProgress, started.Status)
	assert.Len(t, repo.startPicks, 4)
	assert.Equal(t, clock.Now().Add(60*time.Second), repo.startDeadline)
}

func TestStartDraft_RejectsNonNotStarted(t *testing.T) {
	t.Parallel()

	repo := &fakeDraftRepo{
		draft: &models.Draft{
			ID:       uuid.New(),
			Status:   models.DraftStatusInProgress,
			Settings: testSettings(2, models.DraftOrderStraight, testOrder(2)),
		},
	}
	app := NewApp(repo, &fakeProspects{}, clockwork.NewFakeClock())

	_, err := app.StartDraft(context.Background(), repo.draft.ID)
	assert.ErrorIs(t, err, apperrors.ErrInvalidState)
}

func TestMakePick_OutOfTurn(t *testing.T) {
	t.Parallel()

	order := testOrder(2)
	draftID := uuid.New()
	repo := &fakeDraftRepo{
		draft: &models.Draft{ID: draftID, Status: models.DraftStatusInProgress,
			Settings: testSettings(2, models.DraftOrderStraight, order)},
		slot: &models.DraftPick{DraftID: draftID, Round: 1, Pick: 1, OverallPick: 1, TeamID: order[0]},
	}
	app := NewApp(repo, &fakeProspects{}, clockwork.NewFakeClock())

	_, err := app.MakePick(context.Background(), draftID, order[1], uuid.New())
	assert.ErrorIs(t, err, apperrors.ErrNotYourTurn)
}

func TestMakePick_AlreadyDrafted(t *testing.T) {
	t.Parallel()

	order := testOrder(2)
	draftID := uuid.New()
	prospectID := uuid.New()
	repo := &fakeDraftRepo{
		draft: &models.Draft{ID: draftID, Status: models.DraftStatusInProgress,
			Settings: testSettings(2, models.DraftOrderStraight, order)},
		slot: &models.DraftPick{DraftID: draftID, Round: 1, Pick: 1, OverallPick: 1, TeamID: order[0]},
	}
	prospects := &fakeProspects{prospects: map[uuid.UUID]*models.DraftProspect{
		prospectID: {ID: prospectID, FullName: "Emil Lindqvist", IsDrafted: true},
	}}
	app := NewApp(repo, prospects, clockwork.NewFakeClock())

	_, err := app.MakePick(context.Background(), draftID, order[0], prospectID)
	assert.ErrorIs(t, err, apperrors.ErrAlreadyDrafted)
}

func TestMakePick_RequiresInProgress(t *testing.T) {
	t.Parallel()

	draftID := uuid.New()
	repo := &fakeDraftRepo{
		draft: &models.Draft{ID: draftID, Status: models.DraftStatusPaused,
			Settings: testSettings(2, models.DraftOrderStraight, testOrder(2))},
	}
	app := NewApp(repo, &fakeProspects{}, clockwork.NewFakeClock())

	_, err := app.MakePick(context.Background(), draftID, uuid.New(), uuid.New())
	assert.ErrorIs(t, err, apperrors.ErrInvalidState)
}

func TestMakePick_ArmsNextDeadline(t *testing.T) {
	t.Parallel()

	clock := clockwork.NewFakeClock()
	order := testOrder(2)
	draftID := uuid.New()
	prospectID := uuid.New()
	repo := &fakeDraftRepo{
		draft: &models.Draft{ID: draftID, Status: models.DraftStatusInProgress,
			Settings: testSettings(2, models.DraftOrderStraight, order)},
		slot: &models.DraftPick{DraftID: draftID, Round: 1, Pick: 1, OverallPick: 1, TeamID: order[0]},
	}
	prospects := &fakeProspects{prospects: map[uuid.UUID]*models.DraftProspect{
		prospectID: {ID: prospectID, FullName: "Emil Lindqvist"},
	}}
	app := NewApp(repo, prospects, clock)

	outcome, err := app.MakePick(context.Background(), draftID, order[0], prospectID)
	require.NoError(t, err)
	require.NotNil(t, repo.makePickParams)
	assert.Equal(t, clock.Now().Add(60*time.Second), repo.makePickParams.NextDeadline)
	assert.Equal(t, prospectID, *outcome.Pick.ProspectID)
}

func TestSkipCurrentPick_NoopWhenNotInProgress(t *testing.T) {
	t.Parallel()

	draftID := uuid.New()
	repo := &fakeDraftRepo{
		draft: &models.Draft{ID: draftID, Status: models.DraftStatusPaused,
			Settings: testSettings(2, models.DraftOrderStraight, testOrder(2))},
	}
	app := NewApp(repo, &fakeProspects{}, clockwork.NewFakeClock())

	outcome, err := app.SkipCurrentPick(context.Background(), draftID)
	require.NoError(t, err)
	assert.False(t, outcome.Skipped)
	assert.Nil(t, repo.skipParams)
}

func TestSkipCurrentPick_SkipsSlotOnClock(t *testing.T) {
	t.Parallel()

	clock := clockwork.NewFakeClock()
	order := testOrder(2)
	draftID := uuid.New()
	repo := &fakeDraftRepo{
		draft: &models.Draft{ID: draftID, Status: models.DraftStatusInProgress,
			Settings: testSettings(2, models.DraftOrderStraight, order)},
		slot: &models.DraftPick{DraftID: draftID, Round: 1, Pick: 2, OverallPick: 2, TeamID: order[1]},
	}
	app := NewApp(repo, &fakeProspects{}, clock)

	outcome, err := app.SkipCurrentPick(context.Background(), draftID)
	require.NoError(t, err)
	assert.True(t, outcome.Skipped)
	require.NotNil(t, repo.skipParams)
	assert.Equal(t, 2, repo.skipParams.Slot.OverallPick)
	assert.Equal(t, clock.Now().Add(60*time.Second), repo.skipParams.NextDeadline)
}

func TestStatusTransitions(t *testing.T) {
	t.Parallel()

	allowed := []struct{ from, to models.DraftStatus }{
		{models.DraftStatusNotStarted, models.DraftStatusInProgress},
		{models.DraftStatusNotStarted, models.DraftStatusCancelled},
		{models.DraftStatusInProgress, models.DraftStatusPaused},
		{models.DraftStatusInProgress, models.DraftStatusCompleted},
		{models.DraftStatusInProgress, models.DraftStatusCancelled},
		{models.DraftStatusPaused, models.DraftStatusInProgress},
		{models.DraftStatusPaused, models.DraftStatusCancelled},
	}
	for _, tr := range allowed {
		assert.NoError(t, validateStatusTransition(tr.from, tr.to), "%s -> %s", tr.from, tr.to)
	}

	denied := []struct{ from, to models.DraftStatus }{
		{models.DraftStatusNotStarted, models.DraftStatusPaused},
		{models.DraftStatusCompleted, models.DraftStatusInProgress},
		{models.DraftStatusCancelled, models.DraftStatusInProgress},
		{models.DraftStatusPaused, models.DraftStatusCompleted},
	}
	for _, tr := range denied {
		assert.ErrorIs(t, validateStatusTransition(tr.from, tr.to), apperrors.ErrInvalidState, "%s -> %s", tr.from, tr.to)
	}
}

func TestPauseDraft_DisarmsDeadline(t *testing.T) {
	t.Parallel()

	draftID := uuid.New()
	repo := &fakeDraftRepo{
		draft: &models.Draft{ID: draftID, Status: models.DraftStatusInProgress,
			Settings: testSettings(2, models.DraftOrderStraight, testOrder(2))},
	}
	app := NewApp(repo, &fakeProspects{}, clockwork.NewFakeClock())

	paused, err := app.PauseDraft(context.Background(), draftID, "commissioner timeout")
	require.NoError(t, err)
	assert.Equal(t, models.DraftStatusPaused, paused.Status)
	require.NotNil(t, repo.statusChange)
	assert.Nil(t, repo.statusChange.Deadline)
}

func TestResumeDraft_ArmsFreshDeadline(t *testing.T) {
	t.Parallel()

	clock := clockwork.NewFakeClock()
	draftID := uuid.New()
	repo := &fakeDraftRepo{
		draft: &models.Draft{ID: draftID, Status: models.DraftStatusPaused,
			Settings: testSettings(2, models.DraftOrderStraight, testOrder(2))},
	}
	app := NewApp(repo, &fakeProspects{}, clock)

	resumed, err := app.ResumeDraft(context.Background(), draftID)
	require.NoError(t, err)
	assert.Equal(t, models.DraftStatusInProgress, resumed.Status)
	require.NotNil(t, repo.statusChange)
	require.NotNil(t, repo.statusChange.Deadline)
	assert.Equal(t, clock.Now().Add(60*time.Second), *repo.statusChange.Deadline)
}
