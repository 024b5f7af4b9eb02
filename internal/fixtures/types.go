package fixtures

import (
	"errors"
	"time"

	"github.com/mauv0809/touchline/internal/league"
	"github.com/mauv0809/touchline/internal/metrics"
	"github.com/mauv0809/touchline/internal/pubsub"
	"github.com/mauv0809/touchline/internal/recap"
)

var (
	ErrInvalidTransition = errors.New("match cannot move to the requested status")
	ErrSameTeam          = errors.New("a team cannot play itself")
	ErrInvalidMatchType  = errors.New("unknown match type")
	ErrInvalidEvent      = errors.New("invalid match event")
	ErrInvalidScore      = errors.New("scores cannot be negative")
)

// Challenge is a request from one team to play another.
type Challenge struct {
	HomeTeamID   string           `json:"home_team_id"`
	AwayTeamID   string           `json:"away_team_id"`
	TournamentID string           `json:"tournament_id,omitempty"`
	Type         league.MatchType `json:"type"`
	ScheduledAt  time.Time        `json:"scheduled_at"`
	ArenaName    string           `json:"arena_name,omitempty"`
}

// Service drives matches through their lifecycle.
type Service struct {
	store   Store
	pubsub  pubsub.PubSubClient
	metrics metrics.Metrics
	recap   recap.RecapClient
	now     func() time.Time
}
