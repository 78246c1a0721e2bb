package trade

import (
	"context"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/rinkhq/faceoff/go/internal/apperrors"
	"github.com/rinkhq/faceoff/go/internal/models"
)

type fakeTradeRepo struct {
	trades map[uuid.UUID]*models.Trade

	accepted *models.Trade
}

func newFakeTradeRepo() *fakeTradeRepo {
	return &fakeTradeRepo{trades: make(map[uuid.UUID]*models.Trade)}
}

func (f *fakeTradeRepo) CreateTrade(ctx context.Context, trade models.Trade) (*models.Trade, error) {
	f.trades[trade.ID] = &trade
	return &trade, nil
}

func (f *fakeTradeRepo) GetTrade(ctx context.Context, id uuid.UUID) (*models.Trade, error) {
	t, ok := f.trades[id]
	if !ok {
		return nil, apperrors.ErrNotFound
	}
	return t, nil
}

func (f *fakeTradeRepo) ListTradesByTeam(ctx context.Context, teamID uuid.UUID) ([]models.Trade, error) {
	return nil, nil
}

func (f *fakeTradeRepo) ListTradesByStatus(ctx context.Context, status models.TradeStatus) ([]models.Trade, error) {
	var out []models.Trade
	for _, t := range f.trades {
		if t.Status == status {
			out = append(out, *t)
		}
	}
	return out, nil
}

func (f *fakeTradeRepo) UpdateTradeStatus(ctx context.Context, id uuid.UUID, status models.TradeStatus) (*models.Trade, error) {
	t := f.trades[id]
	t.Status = status
	return t, nil
}

func (f *fakeTradeRepo) AcceptTrade(ctx context.Context, trade *models.Trade) (*models.Trade, error) {
	f.accepted = trade
	done := *trade
	done.Status = models.TradeStatusAccepted
	f.trades[trade.ID] = &done
	return &done, nil
}

type fakeRoster struct {
	owners map[uuid.UUID]uuid.UUID // player -> team
}

func (f *fakeRoster) GetPlayer(ctx context.Context, id uuid.UUID) (*models.Player, error) {
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

type tradeFixture struct {
	app     *App
	repo    *fakeTradeRepo
	roster  *fakeRoster
	teamA   uuid.UUID
	teamB   uuid.UUID
	playerA uuid.UUID
	playerB uuid.UUID
}

func newTradeFixture() *tradeFixture {
	fx := &tradeFixture{
		repo:    newFakeTradeRepo(),
		teamA:   uuid.New(),
		teamB:   uuid.New(),
		playerA: uuid.New(),
		playerB: uuid.New(),
	}
	fx.roster = &fakeRoster{owners: map[uuid.UUID]uuid.UUID{
		fx.playerA: fx.teamA,
		fx.playerB: fx.teamB,
	}}
	fx.app = NewApp(fx.repo, fx.roster)
	return fx
}

func (fx *tradeFixture) proposal() ProposeTradeRequest {
	return ProposeTradeRequest{
		ID:             uuid.New(),
		FromTeamID:     fx.teamA,
		ToTeamID:       fx.teamB,
		PlayersOffered: []uuid.UUID{fx.playerA},
		PlayersWanted:  []uuid.UUID{fx.playerB},
	}
}

func TestProposeTrade(t *testing.T) {
	t.Parallel()

	fx := newTradeFixture()
	trade, err := fx.app.ProposeTrade(context.Background(), fx.proposal())
	require.NoError(t, err)
	assert.Equal(t, models.TradeStatusPending, trade.Status)
	assert.Equal(t, []uuid.UUID{fx.playerA}, trade.PlayersOffered)
}

func TestProposeTrade_Validation(t *testing.T) {
	t.Parallel()

	fx := newTradeFixture()

	cases := []struct {
		name   string
		mutate func(*ProposeTradeRequest)
	}{
		{"missing id", func(r *ProposeTradeRequest) { r.ID = uuid.Nil }},
		{"same team", func(r *ProposeTradeRequest) { r.ToTeamID = r.FromTeamID }},
		{"empty trade", func(r *ProposeTradeRequest) { r.PlayersOffered = nil; r.PlayersWanted = nil }},
		{"nil player", func(r *ProposeTradeRequest) { r.PlayersOffered = []uuid.UUID{uuid.Nil} }},
		{"duplicate player", func(r *ProposeTradeRequest) { r.PlayersWanted = []uuid.UUID{fx.playerA} }},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			req := fx.proposal()
			tc.mutate(&req)
			_, err := fx.app.ProposeTrade(context.Background(), req)
			assert.Error(t, err)
		})
	}
}

func TestProposeTrade_WrongOwner(t *testing.T) {
	t.Parallel()

	fx := newTradeFixture()
	req := fx.proposal()
	// playerB belongs to teamB, not the proposer.
	req.PlayersOffered = []uuid.UUID{fx.playerB}
	req.PlayersWanted = nil

	_, err := fx.app.ProposeTrade(context.Background(), req)
	assert.ErrorIs(t, err, apperrors.ErrInvalidOwnership)
}

func TestProposeTrade_FreeAgentOffered(t *testing.T) {
	t.Parallel()

	fx := newTradeFixture()
	freeAgent := uuid.New()
	fx.roster.owners[freeAgent] = uuid.Nil
	req := fx.proposal()
	req.PlayersOffered = []uuid.UUID{freeAgent}

	_, err := fx.app.ProposeTrade(context.Background(), req)
	assert.ErrorIs(t, err, apperrors.ErrInvalidOwnership)
}

func TestAcceptTrade(t *testing.T) {
	t.Parallel()

	fx := newTradeFixture()
	trade, err := fx.app.ProposeTrade(context.Background(), fx.proposal())
	require.NoError(t, err)

	accepted, err := fx.app.AcceptTrade(context.Background(), trade.ID)
	require.NoError(t, err)
	assert.Equal(t, models.TradeStatusAccepted, accepted.Status)
	require.NotNil(t, fx.repo.accepted)
	assert.Equal(t, trade.ID, fx.repo.accepted.ID)
}

func TestAcceptTrade_StaleAfterOwnershipDrift(t *testing.T) {
	t.Parallel()

	fx := newTradeFixture()
	trade, err := fx.app.ProposeTrade(context.Background(), fx.proposal())
	require.NoError(t, err)

	// playerA moved teams between proposal and acceptance.
	fx.roster.owners[fx.playerA] = uuid.New()

	_, err = fx.app.AcceptTrade(context.Background(), trade.ID)
	assert.ErrorIs(t, err, apperrors.ErrStaleTrade)
}

func TestAcceptTrade_TerminalStatus(t *testing.T) {
	t.Parallel()

	fx := newTradeFixture()
	trade, err := fx.app.ProposeTrade(context.Background(), fx.proposal())
	require.NoError(t, err)

	_, err = fx.app.RejectTrade(context.Background(), trade.ID)
	require.NoError(t, err)

	_, err = fx.app.AcceptTrade(context.Background(), trade.ID)
	assert.ErrorIs(t, err, apperrors.ErrInvalidState)
}

func TestCancelTrade(t *testing.T) {
	t.Parallel()

	fx := newTradeFixture()
	trade, err := fx.app.ProposeTrade(context.Background(), fx.proposal())
	require.NoError(t, err)

	cancelled, err := fx.app.CancelTrade(context.Background(), trade.ID)
	require.NoError(t, err)
	assert.Equal(t, models.TradeStatusCancelled, cancelled.Status)

	_, err = fx.app.CancelTrade(context.Background(), trade.ID)
	assert.ErrorIs(t, err, apperrors.ErrInvalidState)
}

func TestListTradesByStatus_InvalidStatus(t *testing.T) {
	t.Parallel()

	fx := newTradeFixture()
	_, err := fx.app.ListTradesByStatus(context.Background(), "EXPLODED")
	assert.Error(t, err)
}
