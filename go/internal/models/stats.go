package models

// StatLine is a marker interface over position-specific stat lines.
// Skaters and goalies record different stats; code that handles both must
// switch on the concrete type rather than poking at optional fields.
type StatLine interface {
	StatKind() string
}

// SkaterStats holds season statistics for a skater.
type SkaterStats struct {
	GamesPlayed    int `json:"games_played"`
	Goals          int `json:"goals"`
	Assists        int `json:"assists"`
	Points         int `json:"points"`
	PlusMinus      int `json:"plus_minus"`
	PenaltyMinutes int `json:"penalty_minutes"`
	Shots          int `json:"shots"`
}

// StatKind returns the stat line discriminator for skaters.
func (s *SkaterStats) StatKind() string {
	return "skater"
}

// GoalieStats holds season statistics for a goalie.
type GoalieStats struct {
	GamesPlayed     int     `json:"games_played"`
	Wins            int     `json:"wins"`
	Losses          int     `json:"losses"`
	OTLosses        int     `json:"ot_losses"`
	GoalsAgainstAvg float64 `json:"goals_against_avg"`
	SavePercentage  float64 `json:"save_percentage"`
	Shutouts        int     `json:"shutouts"`
}

// StatKind returns the stat line discriminator for goalies.
func (g *GoalieStats) StatKind() string {
	return "goalie"
}
