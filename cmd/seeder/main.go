package main

import (
	"flag"
	"fmt"
	"math/rand"
	"os"
	"time"

	"github.com/charmbracelet/log"
	"github.com/google/uuid"
	"github.com/joho/godotenv"
	"github.com/mauv0809/touchline/internal/database"
	"github.com/mauv0809/touchline/internal/formation"
	"github.com/mauv0809/touchline/internal/league"
)

var clubNames = []string{
	"Northside Rovers", "Harbour Athletic", "Old Mill United", "Riverside Wanderers",
	"Castle Park", "Eastgate Town", "Meadow Lane", "Foundry FC",
}

// Simplified config loading for the script
func loadConfig() map[string]string {
	if err := godotenv.Load(); err != nil {
		log.Warn("No .env file found, reading from environment variables")
	}
	config := map[string]string{"DB_NAME": "touchline.db"}
	for _, key := range []string{"DB_NAME", "TURSO_PRIMARY_URL", "TURSO_AUTH_TOKEN"} {
		if value, ok := os.LookupEnv(key); ok {
			config[key] = value
		}
	}
	return config
}

func main() {
	numTeams := flag.Int("teams", 6, "number of teams to create")
	squadSize := flag.Int("squad", 14, "players per team")
	rounds := flag.Int("rounds", 2, "times every pairing is played")
	flag.Parse()

	if *numTeams < 2 || *numTeams > len(clubNames) {
		log.Fatalf("teams must be between 2 and %d", len(clubNames))
	}

	log.Info("Starting database seeder...")
	cfg := loadConfig()

	db, teardown, err := database.InitDB(cfg["DB_NAME"], cfg["TURSO_PRIMARY_URL"], cfg["TURSO_AUTH_TOKEN"])
	if err != nil {
		log.Fatalf("Failed to open database: %s", err)
	}
	defer teardown()
	store := league.New(db)

	teams := make([]*league.Team, 0, *numTeams)
	for i := 0; i < *numTeams; i++ {
		team := &league.Team{
			ID:        uuid.NewString(),
			Name:      clubNames[i],
			ShortCode: fmt.Sprintf("T%02d", i+1),
			Sport:     league.SportFootball,
			CreatedAt: time.Now().UTC(),
		}
		for n := 1; n <= *squadSize; n++ {
			team.Roster = append(team.Roster, league.Player{
				ID:          uuid.NewString(),
				Name:        fmt.Sprintf("%s #%d", team.ShortCode, n),
				ShirtNumber: n,
			})
		}
		engine := formation.New(team.Sport, team.Roster, nil)
		if team.DefaultFormation, err = engine.ApplyPreset("4-4-2", team.Roster); err != nil {
			log.Fatalf("Failed to build default formation: %s", err)
		}
		if err := store.UpsertTeam(team); err != nil {
			log.Fatalf("Failed to insert team %s: %s", team.Name, err)
		}
		teams = append(teams, team)
	}
	log.Info("Inserted teams", "count", len(teams))

	tournament := &league.Tournament{ID: uuid.NewString(), Name: "Seeded League", Sport: league.SportFootball}
	for _, team := range teams {
		tournament.TeamIDs = append(tournament.TeamIDs, team.ID)
	}
	if err := store.UpsertTournament(tournament); err != nil {
		log.Fatalf("Failed to insert tournament: %s", err)
	}

	startTime := time.Now()
	inserted := 0
	for round := 0; round < *rounds; round++ {
		for i, home := range teams {
			for j, away := range teams {
				if i == j {
					continue
				}
				kickoff := time.Now().Add(-time.Duration(rand.Intn(60*24)) * time.Hour).UTC()
				match := &league.Match{
					ID:           uuid.NewString(),
					TournamentID: tournament.ID,
					HomeTeamID:   home.ID,
					AwayTeamID:   away.ID,
					Status:       league.MatchFinished,
					Type:         league.MatchTypeLeague,
					HomeScore:    rand.Intn(5),
					AwayScore:    rand.Intn(4),
					ArenaName:    home.Name + " Ground",
					ScheduledAt:  kickoff,
					StartedAt:    &kickoff,
					Period:       2,
					// Seeded history must not reach the Slack channel.
					NotificationStatus: league.NotificationCompleted,
				}
				if err := store.UpsertMatch(match); err != nil {
					log.Fatalf("Failed to insert match: %s", err)
				}
				inserted++
			}
		}
		log.Info("Inserted round", "round", round+1, "matches", inserted)
	}

	log.Info("Successfully seeded league.", "tournament", tournament.ID, "matches", inserted, "duration", time.Since(startTime))
}
