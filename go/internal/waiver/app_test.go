package waiver

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

type fakeWaiverRepo struct {
	claims map[uuid.UUID]*models.WaiverClaim
	bids   map[uuid.UUID][]models.WaiverBid

	processed []uuid.UUID
}

func newFakeWaiverRepo() *fakeWaiverRepo {
	return &fakeWaiverRepo{
		claims: make(map[uuid.UUID]*models.WaiverClaim),
		bids:   make(map[uuid.UUID][]models.WaiverBid),
	}
}

func (f *fakeWaiverRepo) CreateClaim(ctx context.Context, claim models.WaiverClaim) (*models.WaiverClaim, error) {
	f.claims[claim.ID] = &claim
	return &claim, nil
}

func (f *fakeWaiverRepo) GetClaim(ctx context.Context, id uuid.UUID) (*models.WaiverClaim, error) {
	c, ok := f.claims[id]
	if !ok {
		return nil, apperrors.ErrNotFound
	}
	return c, nil
}

func (f *fakeWaiverRepo) GetActiveClaimByPlayer(ctx context.Context, playerID uuid.UUID) (*models.WaiverClaim, error) {
	for _, c := range f.claims {
		if c.PlayerID == playerID && c.Status == models.WaiverStatusActive {
			return c, nil
		}
	}
	return nil, apperrors.ErrNotFound
}

func (f *fakeWaiverRepo) ListClaimsByStatus(ctx context.Context, status models.WaiverStatus) ([]models.WaiverClaim, error) {
	var out []models.WaiverClaim
	for _, c := range f.claims {
		if c.Status == status {
			out = append(out, *c)
		}
	}
	return out, nil
}

func (f *fakeWaiverRepo) ListBids(ctx context.Context, claimID uuid.UUID) ([]models.WaiverBid, error) {
	return f.bids[claimID], nil
}

func (f *fakeWaiverRepo) InsertBid(ctx context.Context, bid models.WaiverBid) error {
	f.bids[bid.ClaimID] = append(f.bids[bid.ClaimID], bid)
	return nil
}

func (f *fakeWaiverRepo) CancelBid(ctx context.Context, claimID, teamID uuid.UUID) error {
	kept := f.bids[claimID][:0]
	for _, b := range f.bids[claimID] {
		if b.TeamID != teamID {
			kept = append(kept, b)
		}
	}
	f.bids[claimID] = kept
	return nil
}

func (f *fakeWaiverRepo) FetchClaimsDue(ctx context.Context, limit int32) ([]models.WaiverClaim, error) {
	var out []models.WaiverClaim
	for _, c := range f.claims {
		if c.Status == models.WaiverStatusActive && int32(len(out)) < limit {
			out = append(out, *c)
		}
	}
	return out, nil
}

func (f *fakeWaiverRepo) ProcessClaim(ctx context.Context, claim *models.WaiverClaim) (*models.WaiverClaim, error) {
	if stored := f.claims[claim.ID]; stored.Status != models.WaiverStatusActive {
		// Already processed by an earlier pass.
		return stored, nil
	}
	f.processed = append(f.processed, claim.ID)
	resolved := *claim
	if bids := f.bids[claim.ID]; len(bids) > 0 {
		best := bids[0]
		for _, b := range bids[1:] {
			if b.Priority < best.Priority {
				best = b
			}
		}
		resolved.Status = models.WaiverStatusAwarded
		resolved.LeadingTeamID = &best.TeamID
	} else {
		resolved.Status = models.WaiverStatusExpired
	}
	f.claims[claim.ID] = &resolved
	return &resolved, nil
}

type fakeWaiverRoster struct {
	owners map[uuid.UUID]uuid.UUID
}

func (f *fakeWaiverRoster) GetPlayer(ctx context.Context, id uuid.UUID) (*models.Player, error) {
	teamID, ok := f.owners[id]
	if !ok {
		return nil, apperrors.ErrNotFound
	}
	p := &models.Player{ID: id}
	if teamID != uuid.Nil {
		p.TeamID = &teamID
	}
	return p, nil
}

type fakeTeams struct {
	priorities map[uuid.UUID]int
}

func (f *fakeTeams) GetTeam(ctx context.Context, id uuid.UUID) (*models.Team, error) {
	prio, ok := f.priorities[id]
	if !ok {
		return nil, apperrors.ErrNotFound
	}
	return &models.Team{ID: id, WaiverPriority: prio}, nil
}

type waiverFixture struct {
	app      *App
	repo     *fakeWaiverRepo
	clock    *clockwork.FakeClock
	dropper  uuid.UUID
	claimerA uuid.UUID
	claimerB uuid.UUID
	playerID uuid.UUID
}

// 09:00 UTC, three hours before the default noon cutoff.
var waiverTestStart = time.Date(2026, time.March, 10, 9, 0, 0, 0, time.UTC)

func newWaiverFixture() *waiverFixture {
	fx := &waiverFixture{
		repo:     newFakeWaiverRepo(),
		clock:    clockwork.NewFakeClockAt(waiverTestStart),
		dropper:  uuid.New(),
		claimerA: uuid.New(),
		claimerB: uuid.New(),
		playerID: uuid.New(),
	}
	roster := &fakeWaiverRoster{owners: map[uuid.UUID]uuid.UUID{fx.playerID: fx.dropper}}
	teams := &fakeTeams{priorities: map[uuid.UUID]int{fx.dropper: 1, fx.claimerA: 2, fx.claimerB: 3}}
	fx.app = NewApp(fx.repo, roster, teams, fx.clock, DefaultConfig())
	return fx
}

func TestWaivePlayer(t *testing.T) {
	t.Parallel()

	fx := newWaiverFixture()
	claim, err := fx.app.WaivePlayer(context.Background(), fx.playerID, fx.dropper)
	require.NoError(t, err)
	assert.Equal(t, models.WaiverStatusActive, claim.Status)
	assert.Equal(t, time.Date(2026, time.March, 10, 12, 0, 0, 0, time.UTC), claim.ProcessDate)
}

func TestWaivePlayer_AfterCutoffRollsToTomorrow(t *testing.T) {
	t.Parallel()

	fx := newWaiverFixture()
	fx.clock.Advance(5 * time.Hour) // 14:00, past today's noon cutoff

	claim, err := fx.app.WaivePlayer(context.Background(), fx.playerID, fx.dropper)
	require.NoError(t, err)
	assert.Equal(t, time.Date(2026, time.March, 11, 12, 0, 0, 0, time.UTC), claim.ProcessDate)
}

func TestWaivePlayer_WrongOwner(t *testing.T) {
	t.Parallel()

	fx := newWaiverFixture()
	_, err := fx.app.WaivePlayer(context.Background(), fx.playerID, fx.claimerA)
	assert.ErrorIs(t, err, apperrors.ErrInvalidOwnership)
}

func TestWaivePlayer_AlreadyOnWaivers(t *testing.T) {
	t.Parallel()

	fx := newWaiverFixture()
	_, err := fx.app.WaivePlayer(context.Background(), fx.playerID, fx.dropper)
	require.NoError(t, err)

	_, err = fx.app.WaivePlayer(context.Background(), fx.playerID, fx.dropper)
	assert.ErrorIs(t, err, apperrors.ErrInvalidState)
}

func TestClaimPlayer(t *testing.T) {
	t.Parallel()

	fx := newWaiverFixture()
	claim, err := fx.app.WaivePlayer(context.Background(), fx.playerID, fx.dropper)
	require.NoError(t, err)

	_, err = fx.app.ClaimPlayer(context.Background(), claim.ID, fx.claimerA)
	require.NoError(t, err)

	bids, err := fx.app.ListBids(context.Background(), claim.ID)
	require.NoError(t, err)
	require.Len(t, bids, 1)
	assert.Equal(t, fx.claimerA, bids[0].TeamID)
	assert.Equal(t, 2, bids[0].Priority)
}

func TestClaimPlayer_WindowClosed(t *testing.T) {
	t.Parallel()

	fx := newWaiverFixture()
	claim, err := fx.app.WaivePlayer(context.Background(), fx.playerID, fx.dropper)
	require.NoError(t, err)

	fx.clock.Advance(4 * time.Hour) // past the noon cutoff

	_, err = fx.app.ClaimPlayer(context.Background(), claim.ID, fx.claimerA)
	assert.ErrorIs(t, err, apperrors.ErrWindowClosed)
}

func TestClaimPlayer_DroppingTeamBlocked(t *testing.T) {
	t.Parallel()

	fx := newWaiverFixture()
	claim, err := fx.app.WaivePlayer(context.Background(), fx.playerID, fx.dropper)
	require.NoError(t, err)

	_, err = fx.app.ClaimPlayer(context.Background(), claim.ID, fx.dropper)
	assert.ErrorIs(t, err, apperrors.ErrInvalidState)
}

func TestClaimPlayer_DuplicateBid(t *testing.T) {
	t.Parallel()

	fx := newWaiverFixture()
	claim, err := fx.app.WaivePlayer(context.Background(), fx.playerID, fx.dropper)
	require.NoError(t, err)

	_, err = fx.app.ClaimPlayer(context.Background(), claim.ID, fx.claimerA)
	require.NoError(t, err)
	_, err = fx.app.ClaimPlayer(context.Background(), claim.ID, fx.claimerA)
	assert.ErrorIs(t, err, apperrors.ErrInvalidState)
}

func TestCancelClaim_ThenRebid(t *testing.T) {
	t.Parallel()

	fx := newWaiverFixture()
	claim, err := fx.app.WaivePlayer(context.Background(), fx.playerID, fx.dropper)
	require.NoError(t, err)

	_, err = fx.app.ClaimPlayer(context.Background(), claim.ID, fx.claimerA)
	require.NoError(t, err)
	_, err = fx.app.CancelClaim(context.Background(), claim.ID, fx.claimerA)
	require.NoError(t, err)

	// Withdrawing does not burn the team's chance while the window is open.
	_, err = fx.app.ClaimPlayer(context.Background(), claim.ID, fx.claimerA)
	require.NoError(t, err)
}

func TestProcessDueClaims_AwardsToBestPriority(t *testing.T) {
	t.Parallel()

	fx := newWaiverFixture()
	claim, err := fx.app.WaivePlayer(context.Background(), fx.playerID, fx.dropper)
	require.NoError(t, err)

	_, err = fx.app.ClaimPlayer(context.Background(), claim.ID, fx.claimerB)
	require.NoError(t, err)
	_, err = fx.app.ClaimPlayer(context.Background(), claim.ID, fx.claimerA)
	require.NoError(t, err)

	n, err := fx.app.ProcessDueClaims(context.Background(), 10)
	require.NoError(t, err)
	assert.Equal(t, 1, n)

	resolved, err := fx.app.GetClaim(context.Background(), claim.ID)
	require.NoError(t, err)
	assert.Equal(t, models.WaiverStatusAwarded, resolved.Status)
	require.NotNil(t, resolved.LeadingTeamID)
	assert.Equal(t, fx.claimerA, *resolved.LeadingTeamID)
}

func TestProcessDueClaims_ExpiresWithoutBids(t *testing.T) {
	t.Parallel()

	fx := newWaiverFixture()
	claim, err := fx.app.WaivePlayer(context.Background(), fx.playerID, fx.dropper)
	require.NoError(t, err)

	n, err := fx.app.ProcessDueClaims(context.Background(), 10)
	require.NoError(t, err)
	assert.Equal(t, 1, n)

	resolved, err := fx.app.GetClaim(context.Background(), claim.ID)
	require.NoError(t, err)
	assert.Equal(t, models.WaiverStatusExpired, resolved.Status)
}

func TestProcessDueClaims_SecondPassIsNoop(t *testing.T) {
	t.Parallel()

	fx := newWaiverFixture()
	claim, err := fx.app.WaivePlayer(context.Background(), fx.playerID, fx.dropper)
	require.NoError(t, err)
	_, err = fx.app.ClaimPlayer(context.Background(), claim.ID, fx.claimerA)
	require.NoError(t, err)

	n, err := fx.app.ProcessDueClaims(context.Background(), 10)
	require.NoError(t, err)
	require.Equal(t, 1, n)

	n, err = fx.app.ProcessDueClaims(context.Background(), 10)
	require.NoError(t, err)
	assert.Equal(t, 0, n)
	assert.Len(t, fx.repo.processed, 1)

	resolved, err := fx.app.GetClaim(context.Background(), claim.ID)
	require.NoError(t, err)
	assert.Equal(t, models.WaiverStatusAwarded, resolved.Status)
	require.NotNil(t, resolved.LeadingTeamID)
	assert.Equal(t, fx.claimerA, *resolved.LeadingTeamID)
}

func TestProcessDueClaims_RequiresPositiveLimit(t *testing.T) {
	t.Parallel()

	fx := newWaiverFixture()
	_, err := fx.app.ProcessDueClaims(context.Background(), 0)
	assert.Error(t, err)
}
