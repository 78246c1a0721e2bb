package main

import (
	"context"
	"encoding/json"
	"flag"
	"fmt"
	"os"

	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/rinkhq/faceoff/go/internal/dbconfig"
)

// Team mirrors the teams.json snapshot layout
type Team struct {
	ID             string `json:"id"`
	Name           string `json:"name"`
	City           string `json:"city"`
	Abbreviation   string `json:"abbreviation"`
	Conference     string `json:"conference"`
	Division       string `json:"division"`
	WaiverPriority int    `json:"waiver_priority"`
}

// Prospect mirrors the prospects.json snapshot layout
type Prospect struct {
	ID           string          `json:"id"`
	FullName     string          `json:"full_name"`
	Position     string          `json:"position"`
	JerseyNumber int             `json:"jersey_number"`
	DraftRank    int             `json:"draft_rank"`
	Ratings      json.RawMessage `json:"ratings"`
}

func main() {
	teamsPath := flag.String("teams", "go/internal/assets/teams.json", "path to teams snapshot")
	prospectsPath := flag.String("prospects", "go/internal/assets/prospects.json", "path to prospects snapshot")
	flag.Parse()

	ctx := context.Background()

	cfg := dbconfig.NewConfigFromEnv()
	pool, err := pgxpool.New(ctx, cfg.DSN())
	if err != nil {
		fmt.Fprintf(os.Stderr, "failed to connect: %v\n", err)
		os.Exit(1)
	}
	defer pool.Close()

	if err := seedTeams(ctx, pool, *teamsPath); err != nil {
		fmt.Fprintf(os.Stderr, "seed teams: %v\n", err)
		os.Exit(1)
	}
	if err := seedProspects(ctx, pool, *prospectsPath); err != nil {
		fmt.Fprintf(os.Stderr, "seed prospects: %v\n", err)
		os.Exit(1)
	}
}

func seedTeams(ctx context.Context, pool *pgxpool.Pool, path string) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("read JSON: %w", err)
	}
	var teams []Team
	if err := json.Unmarshal(data, &teams); err != nil {
		return fmt.Errorf("unmarshal JSON: %w", err)
	}

	var inserted, skipped, errs int
	for _, t := range teams {
		cmdTag, err := pool.Exec(ctx, `
            INSERT INTO teams (
              id, name, city, abbreviation, conference, division,
              wins, losses, ot_losses, points, waiver_priority, created_at
            ) VALUES (
              $1,$2,$3,$4,$5,$6,0,0,0,0,$7,NOW()
            )
            ON CONFLICT (id) DO NOTHING
        `,
			t.ID, t.Name, t.City, t.Abbreviation, t.Conference, t.Division, t.WaiverPriority,
		)
		if err != nil {
			fmt.Fprintf(os.Stderr, "error inserting team %s: %v\n", t.ID, err)
			errs++
			continue
		}
		if cmdTag.RowsAffected() == 1 {
			inserted++
		} else {
			skipped++
		}
	}

	fmt.Printf(
		"Teams seed complete: %d total, %d inserted, %d skipped, %d errors\n",
		len(teams), inserted, skipped, errs,
	)
	return nil
}

func seedProspects(ctx context.Context, pool *pgxpool.Pool, path string) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("read JSON: %w", err)
	}
	var prospects []Prospect
	if err := json.Unmarshal(data, &prospects); err != nil {
		return fmt.Errorf("unmarshal JSON: %w", err)
	}

	var inserted, skipped, errs int
	for _, p := range prospects {
		cmdTag, err := pool.Exec(ctx, `
            INSERT INTO prospects (
              id, full_name, position, jersey_number, draft_rank,
              ratings, is_drafted, created_at
            ) VALUES (
              $1,$2,$3,$4,$5,$6,FALSE,NOW()
            )
            ON CONFLICT (id) DO NOTHING
        `,
			p.ID, p.FullName, p.Position, p.JerseyNumber, p.DraftRank, p.Ratings,
		)
		if err != nil {
			fmt.Fprintf(os.Stderr, "error inserting prospect %s: %v\n", p.ID, err)
			errs++
			continue
		}
		if cmdTag.RowsAffected() == 1 {
			inserted++
		} else {
			skipped++
		}
	}

	fmt.Printf(
		"Prospects seed complete: %d total, %d inserted, %d skipped, %d errors\n",
		len(prospects), inserted, skipped, errs,
	)
	return nil
}
