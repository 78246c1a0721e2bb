package models

import (
	"time"

	"github.com/google/uuid"
)

// Conference defines the conference a team plays in.
type Conference string

const (
	ConferenceEastern Conference = "EASTERN"
	ConferenceWestern Conference = "WESTERN"
)

// Division defines the division a team plays in.
type Division string

const (
	DivisionAtlantic     Division = "ATLANTIC"
	DivisionMetropolitan Division = "METROPOLITAN"
	DivisionCentral      Division = "CENTRAL"
	DivisionPacific      Division = "PACIFIC"
)

// TeamRecord holds a team's cumulative season record.
// Points is derived: 2*Wins + OTLosses. Repositories recompute it on every
// record write so the stored value never drifts from the formula.
type TeamRecord struct {
	Wins     int `json:"wins"`
	Losses   int `json:"losses"`
	OTLosses int `json:"ot_losses"`
	Points   int `json:"points"`
}

// RecordPoints returns the derived point total for a record.
func RecordPoints(wins, otLosses int) int {
	return 2*wins + otLosses
}

// Team represents a league team.
type Team struct {
	ID             uuid.UUID  `json:"id"`
	Name           string     `json:"name"`
	City           string     `json:"city"`
	Abbreviation   string     `json:"abbreviation"`
	Conference     Conference `json:"conference"`
	Division       Division   `json:"division"`
	Record         TeamRecord `json:"record"`
	WaiverPriority int        `json:"waiver_priority"` // lower = earlier claim
	CreatedAt      time.Time  `json:"created_at"`
}
