package player

import (
	"context"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/rinkhq/faceoff/go/internal/apperrors"
	"github.com/rinkhq/faceoff/go/internal/models"
)

type fakePlayerRepo struct {
	players map[uuid.UUID]*models.Player

	skaterUpdates map[uuid.UUID]models.SkaterStats
	goalieUpdates map[uuid.UUID]models.GoalieStats
}

func newFakePlayerRepo() *fakePlayerRepo {
	return &fakePlayerRepo{
		players:       make(map[uuid.UUID]*models.Player),
		skaterUpdates: make(map[uuid.UUID]models.SkaterStats),
		goalieUpdates: make(map[uuid.UUID]models.GoalieStats),
	}
}

func (f *fakePlayerRepo) CreatePlayer(ctx context.Context, req CreatePlayerRequest) (*models.Player, error) {
	p := &models.Player{
		ID:           req.ID,
		FullName:     req.FullName,
		JerseyNumber: req.JerseyNumber,
		Position:     req.Position,
		TeamID:       req.TeamID,
		Availability: req.Availability,
	}
	f.players[req.ID] = p
	return p, nil
}

func (f *fakePlayerRepo) GetPlayer(ctx context.Context, id uuid.UUID) (*models.Player, error) {
	p, ok := f.players[id]
	if !ok {
		return nil, apperrors.ErrNotFound
	}
	return p, nil
}

func (f *fakePlayerRepo) ListPlayers(ctx context.Context) ([]models.Player, error) {
	out := make([]models.Player, 0, len(f.players))
	for _, p := range f.players {
		out = append(out, *p)
	}
	return out, nil
}

func (f *fakePlayerRepo) UpdateAvailability(ctx context.Context, id uuid.UUID, availability models.Availability) error {
	f.players[id].Availability = availability
	return nil
}

func (f *fakePlayerRepo) UpdateSkaterStats(ctx context.Context, id uuid.UUID, stats models.SkaterStats) error {
	f.skaterUpdates[id] = stats
	return nil
}

func (f *fakePlayerRepo) UpdateGoalieStats(ctx context.Context, id uuid.UUID, stats models.GoalieStats) error {
	f.goalieUpdates[id] = stats
	return nil
}

func validPlayerRequest() CreatePlayerRequest {
	return CreatePlayerRequest{
		ID:           uuid.New(),
		FullName:     "Mats Korhonen",
		JerseyNumber: 27,
		Position:     models.PositionCenter,
		Availability: models.AvailabilityAvailable,
	}
}

func TestCreatePlayer_Validation(t *testing.T) {
	t.Parallel()

	app := NewApp(newFakePlayerRepo())

	cases := []struct {
		name   string
		mutate func(*CreatePlayerRequest)
	}{
		{"missing id", func(r *CreatePlayerRequest) { r.ID = uuid.Nil }},
		{"missing name", func(r *CreatePlayerRequest) { r.FullName = "" }},
		{"jersey zero", func(r *CreatePlayerRequest) { r.JerseyNumber = 0 }},
		{"jersey too high", func(r *CreatePlayerRequest) { r.JerseyNumber = 100 }},
		{"bad position", func(r *CreatePlayerRequest) { r.Position = "ROVER" }},
		{"bad availability", func(r *CreatePlayerRequest) { r.Availability = "retired" }},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			req := validPlayerRequest()
			tc.mutate(&req)
			_, err := app.CreatePlayer(context.Background(), req)
			assert.Error(t, err)
		})
	}
}

func TestUpdateAvailability(t *testing.T) {
	t.Parallel()

	repo := newFakePlayerRepo()
	app := NewApp(repo)
	p, err := app.CreatePlayer(context.Background(), validPlayerRequest())
	require.NoError(t, err)

	require.NoError(t, app.UpdateAvailability(context.Background(), p.ID, models.AvailabilityMaybe))
	assert.Equal(t, models.AvailabilityMaybe, repo.players[p.ID].Availability)

	assert.Error(t, app.UpdateAvailability(context.Background(), p.ID, "benched"))
}

func TestUpdateStats_MatchesPosition(t *testing.T) {
	t.Parallel()

	repo := newFakePlayerRepo()
	app := NewApp(repo)

	skater, err := app.CreatePlayer(context.Background(), validPlayerRequest())
	require.NoError(t, err)

	goalieReq := validPlayerRequest()
	goalieReq.Position = models.PositionGoalie
	goalie, err := app.CreatePlayer(context.Background(), goalieReq)
	require.NoError(t, err)

	err = app.UpdateStats(context.Background(), skater.ID, &models.SkaterStats{GamesPlayed: 10, Goals: 4, Assists: 6, Points: 10})
	require.NoError(t, err)
	assert.Equal(t, 4, repo.skaterUpdates[skater.ID].Goals)

	err = app.UpdateStats(context.Background(), goalie.ID, &models.GoalieStats{GamesPlayed: 8, Wins: 5, SavePercentage: 0.913})
	require.NoError(t, err)
	assert.Equal(t, 5, repo.goalieUpdates[goalie.ID].Wins)
}

func TestUpdateStats_RejectsMismatchedLine(t *testing.T) {
	t.Parallel()

	app := NewApp(newFakePlayerRepo())

	skater, err := app.CreatePlayer(context.Background(), validPlayerRequest())
	require.NoError(t, err)

	err = app.UpdateStats(context.Background(), skater.ID, &models.GoalieStats{Wins: 1})
	assert.Error(t, err)
}
