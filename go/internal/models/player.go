package models

import (
	"time"

	"github.com/google/uuid"
)

// Position defines a player's position on the ice. Fixed at creation;
// drafting or trading a player never changes it.
type Position string

const (
	PositionCenter       Position = "C"
	PositionLeftWing     Position = "LW"
	PositionRightWing    Position = "RW"
	PositionLeftDefense  Position = "LD"
	PositionRightDefense Position = "RD"
	PositionDefense      Position = "D"
	PositionGoalie       Position = "G"
)

// Availability defines whether a player can dress for the next game.
type Availability string

const (
	AvailabilityAvailable   Availability = "available"
	AvailabilityMaybe       Availability = "maybe"
	AvailabilityUnavailable Availability = "unavailable"
)

// Player represents a skater or goalie in the league.
// TeamID is nil for free agents, waived players, and undrafted players.
type Player struct {
	ID           uuid.UUID    `json:"id"`
	FullName     string       `json:"full_name"`
	JerseyNumber int          `json:"jersey_number"`
	Position     Position     `json:"position"`
	TeamID       *uuid.UUID   `json:"team_id,omitempty"`
	Availability Availability `json:"availability"`
	CreatedAt    time.Time    `json:"created_at"`

	SkaterStats *SkaterStats `json:"skater_stats,omitempty"`
	GoalieStats *GoalieStats `json:"goalie_stats,omitempty"`
}

// Stats returns the position-appropriate stat line for the player.
func (p *Player) Stats() StatLine {
	if p.Position == PositionGoalie {
		if p.GoalieStats != nil {
			return p.GoalieStats
		}
		return &GoalieStats{}
	}
	if p.SkaterStats != nil {
		return p.SkaterStats
	}
	return &SkaterStats{}
}
