package txlog

import (
	"context"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/rinkhq/faceoff/go/internal/models"
)

type fakeTxRepo struct {
	entries []models.Transaction
	filter  *QueryFilter
}

func (f *fakeTxRepo) Append(ctx context.Context, entry models.Transaction) error {
	f.entries = append(f.entries, entry)
	return nil
}

func (f *fakeTxRepo) Query(ctx context.Context, filter QueryFilter) ([]models.Transaction, error) {
	f.filter = &filter
	return f.entries, nil
}

func TestAppend_AssignsID(t *testing.T) {
	t.Parallel()

	repo := &fakeTxRepo{}
	app := NewApp(repo)

	err := app.Append(context.Background(), models.Transaction{
		Type:      models.TransactionTypeTrade,
		TeamIDs:   []uuid.UUID{uuid.New(), uuid.New()},
		PlayerIDs: []uuid.UUID{uuid.New()},
	})
	require.NoError(t, err)
	require.Len(t, repo.entries, 1)
	assert.NotEqual(t, uuid.Nil, repo.entries[0].ID)
}

func TestAppend_Validation(t *testing.T) {
	t.Parallel()

	app := NewApp(&fakeTxRepo{})
	teamID := uuid.New()
	playerID := uuid.New()

	cases := []struct {
		name  string
		entry models.Transaction
	}{
		{"bad type", models.Transaction{Type: "LOTTERY", TeamIDs: []uuid.UUID{teamID}, PlayerIDs: []uuid.UUID{playerID}}},
		{"no teams", models.Transaction{Type: models.TransactionTypeDraft, PlayerIDs: []uuid.UUID{playerID}}},
		{"no players", models.Transaction{Type: models.TransactionTypeWaiver, TeamIDs: []uuid.UUID{teamID}}},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			err := app.Append(context.Background(), tc.entry)
			assert.Error(t, err)
		})
	}
}

func TestQuery_PassesFilterThrough(t *testing.T) {
	t.Parallel()

	repo := &fakeTxRepo{}
	app := NewApp(repo)
	teamID := uuid.New()

	_, err := app.Query(context.Background(), QueryFilter{TeamID: &teamID, Type: models.TransactionTypeDraft, Limit: 25})
	require.NoError(t, err)
	require.NotNil(t, repo.filter)
	assert.Equal(t, teamID, *repo.filter.TeamID)
	assert.Equal(t, 25, repo.filter.Limit)
}
