package processor

import (
	"github.com/mauv0809/touchline/internal/league"
	"github.com/mauv0809/touchline/internal/notifier"
)

// Store defines the database operations required by the processor.
type Store interface {
	GetMatchesForProcessing() ([]league.Match, error)
	UpdateNotificationStatus(matchID string, status league.NotificationStatus) error
	GetTeam(teamID string) (*league.Team, error)
	GetAllTeams() ([]league.Team, error)
	GetAllMatches() ([]league.Match, error)
	GetTournament(tournamentID string) (*league.Tournament, error)
}

// Notifier defines the notification operations required by the processor.
type Notifier interface {
	notifier.Notifier
}
