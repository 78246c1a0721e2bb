package draft

import (
	"github.com/google/uuid"

	"github.com/rinkhq/faceoff/go/internal/models"
)

// generatePickSlots expands the configured team order into every pick slot
// for the draft. Straight order repeats the sequence each round; snake
// order reverses it on even rounds.
func generatePickSlots(draftID uuid.UUID, settings models.DraftSettings) []models.DraftPick {
	numTeams := len(settings.DraftOrder)
	picks := make([]models.DraftPick, 0, settings.TotalPicks())

	overallPick := 1
	for round := 1; round <= settings.Rounds; round++ {
		roundOrder := settings.DraftOrder
		if settings.OrderType == models.DraftOrderSnake && round%2 == 0 {
			reversed := make([]uuid.UUID, numTeams)
			for i, teamID := range settings.DraftOrder {
				reversed[numTeams-1-i] = teamID
			}
			roundOrder = reversed
		}

		for pick, teamID := range roundOrder {
			picks = append(picks, models.DraftPick{
				ID:          uuid.New(),
				DraftID:     draftID,
				Round:       round,
				Pick:        pick + 1, // 1-indexed pick number within round
				OverallPick: overallPick,
				TeamID:      teamID,
			})
			overallPick++
		}
	}

	return picks
}
