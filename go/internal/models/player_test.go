package models

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestPlayerStats_PicksLineByPosition(t *testing.T) {
	t.Parallel()

	skater := &Player{Position: PositionCenter, SkaterStats: &SkaterStats{Goals: 12}}
	line := skater.Stats()
	assert.Equal(t, "skater", line.StatKind())
	assert.Equal(t, 12, line.(*SkaterStats).Goals)

	goalie := &Player{Position: PositionGoalie, GoalieStats: &GoalieStats{Shutouts: 3}}
	line = goalie.Stats()
	assert.Equal(t, "goalie", line.StatKind())
	assert.Equal(t, 3, line.(*GoalieStats).Shutouts)
}

func TestPlayerStats_ZeroValueWhenUnset(t *testing.T) {
	t.Parallel()

	skater := &Player{Position: PositionLeftWing}
	assert.Equal(t, "skater", skater.Stats().StatKind())

	// A goalie with stray skater stats still reads as a goalie.
	goalie := &Player{Position: PositionGoalie, SkaterStats: &SkaterStats{Goals: 1}}
	assert.Equal(t, "goalie", goalie.Stats().StatKind())
}
