package fixtures

import "github.com/mauv0809/touchline/internal/league"

// Store defines the persistence operations required by the fixture service.
type Store interface {
	GetTeam(teamID string) (*league.Team, error)
	UpdatePlayerStats(players []league.Player) error
	UpsertMatch(match *league.Match) error
	GetMatch(matchID string) (*league.Match, error)
	DeleteMatch(matchID string) error
	SaveRecap(matchID, recap string) error
	AddEvent(event *league.MatchEvent) error
	GetEvents(matchID string) ([]league.MatchEvent, error)
}
