package prospect

import (
	"context"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/rinkhq/faceoff/go/internal/apperrors"
	"github.com/rinkhq/faceoff/go/internal/models"
)

type fakeProspectRepo struct {
	prospects map[uuid.UUID]*models.DraftProspect
}

func newFakeProspectRepo() *fakeProspectRepo {
	return &fakeProspectRepo{prospects: make(map[uuid.UUID]*models.DraftProspect)}
}

func (f *fakeProspectRepo) CreateProspect(ctx context.Context, req CreateProspectRequest) (*models.DraftProspect, error) {
	p := &models.DraftProspect{
		ID:        req.ID,
		FullName:  req.FullName,
		Position:  req.Position,
		DraftRank: req.DraftRank,
		Ratings:   req.Ratings,
	}
	f.prospects[req.ID] = p
	return p, nil
}

func (f *fakeProspectRepo) GetProspect(ctx context.Context, id uuid.UUID) (*models.DraftProspect, error) {
	p, ok := f.prospects[id]
	if !ok {
		return nil, apperrors.ErrNotFound
	}
	return p, nil
}

func (f *fakeProspectRepo) ListBoard(ctx context.Context, undraftedOnly bool) ([]models.DraftProspect, error) {
	var out []models.DraftProspect
	for _, p := range f.prospects {
		if undraftedOnly && p.IsDrafted {
			continue
		}
		out = append(out, *p)
	}
	return out, nil
}

func validProspectRequest() CreateProspectRequest {
	return CreateProspectRequest{
		ID:        uuid.New(),
		FullName:  "Emil Lindqvist",
		Position:  models.PositionCenter,
		DraftRank: 1,
		Ratings:   models.ScoutingRatings{Skating: 88, Shooting: 82, Playmaking: 90, Defense: 60, Physical: 70},
	}
}

func TestCreateProspect(t *testing.T) {
	t.Parallel()

	app := NewApp(newFakeProspectRepo())
	p, err := app.CreateProspect(context.Background(), validProspectRequest())
	require.NoError(t, err)
	assert.Equal(t, "Emil Lindqvist", p.FullName)
	assert.False(t, p.IsDrafted)
}

func TestCreateProspect_Validation(t *testing.T) {
	t.Parallel()

	app := NewApp(newFakeProspectRepo())

	cases := []struct {
		name   string
		mutate func(*CreateProspectRequest)
	}{
		{"missing id", func(r *CreateProspectRequest) { r.ID = uuid.Nil }},
		{"missing name", func(r *CreateProspectRequest) { r.FullName = "" }},
		{"zero rank", func(r *CreateProspectRequest) { r.DraftRank = 0 }},
		{"rating over 100", func(r *CreateProspectRequest) { r.Ratings.Shooting = 101 }},
		{"negative rating", func(r *CreateProspectRequest) { r.Ratings.Defense = -1 }},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			req := validProspectRequest()
			tc.mutate(&req)
			_, err := app.CreateProspect(context.Background(), req)
			assert.Error(t, err)
		})
	}
}

func TestListBoard_UndraftedOnly(t *testing.T) {
	t.Parallel()

	repo := newFakeProspectRepo()
	app := NewApp(repo)

	drafted, err := app.CreateProspect(context.Background(), validProspectRequest())
	require.NoError(t, err)
	_, err = app.CreateProspect(context.Background(), validProspectRequest())
	require.NoError(t, err)
	repo.prospects[drafted.ID].IsDrafted = true

	board, err := app.ListBoard(context.Background(), true)
	require.NoError(t, err)
	require.Len(t, board, 1)
	assert.NotEqual(t, drafted.ID, board[0].ID)
}
