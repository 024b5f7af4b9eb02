package notifier

import (
	"github.com/mauv0809/touchline/internal/league"
	"github.com/mauv0809/touchline/internal/standings"
)

// MatchCard is a match with both sides resolved for display.
type MatchCard struct {
	Match league.Match
	Home  league.Team
	Away  league.Team
}

// Notifier defines a high-level interface for sending notifications about business events.
// This decouples the rest of the application from the specific notification provider (e.g., Slack).
type Notifier interface {
	// For accepted challenges
	SendFixtureNotification(card MatchCard, dryRun bool) error
	// For finished matches
	SendResultNotification(card MatchCard, dryRun bool) error
	// For refreshed tables
	SendStandings(title string, rows []standings.Row, dryRun bool) error

	// For formatting responses for slash commands
	FormatStandingsResponse(title string, rows []standings.Row) (any, error)
	FormatNotFoundResponse(query string) (any, error)
}
