package league

import "errors"

var (
	ErrTeamNotFound       = errors.New("team not found")
	ErrMatchNotFound      = errors.New("match not found")
	ErrTournamentNotFound = errors.New("tournament not found")
	ErrPlayerNotFound     = errors.New("player not found")
	ErrPlayerOnOtherTeam  = errors.New("player is registered with another team")
)

// LeagueStore defines the interface for interacting with the league's data.
type LeagueStore interface {
	UpsertTeam(team *Team) error
	GetTeam(teamID string) (*Team, error)
	GetAllTeams() ([]Team, error)
	DeleteTeam(teamID string) error
	UpsertPlayer(teamID string, player Player) error
	RemovePlayer(teamID, playerID string) error
	UpdatePlayerStats(players []Player) error

	UpsertTournament(tournament *Tournament) error
	GetTournament(tournamentID string) (*Tournament, error)
	GetAllTournaments() ([]Tournament, error)

	UpsertMatch(match *Match) error
	GetMatch(matchID string) (*Match, error)
	GetAllMatches() ([]Match, error)
	DeleteMatch(matchID string) error
	GetMatchesForProcessing() ([]Match, error)
	UpdateNotificationStatus(matchID string, status NotificationStatus) error
	SaveRecap(matchID, recap string) error

	AddEvent(event *MatchEvent) error
	GetEvents(matchID string) ([]MatchEvent, error)

	SaveFormation(teamID, matchID string, positions []TacticalPosition) error
	GetFormation(teamID, matchID string) ([]TacticalPosition, error)

	Clear()
}
