package pubsub

import "cloud.google.com/go/pubsub"

type client struct {
	client   *pubsub.Client
	teardown func()
}

// EventType represents the type of event/message sent via pubsub. It doubles
// as the topic name.
type EventType string

const (
	EventMatchFinished    EventType = "match-finished"
	EventStandingsRefresh EventType = "standings-refresh"
	EventFormationUpdated EventType = "formation-updated"
)

// MatchFinishedMessage is published when a match reaches FINISHED.
type MatchFinishedMessage struct {
	MatchID      string `msgpack:"match_id"`
	TournamentID string `msgpack:"tournament_id"`
	HomeTeamID   string `msgpack:"home_team_id"`
	AwayTeamID   string `msgpack:"away_team_id"`
	HomeScore    int    `msgpack:"home_score"`
	AwayScore    int    `msgpack:"away_score"`
	Counts       bool   `msgpack:"counts"`
}

// StandingsRefreshMessage asks subscribers to recompute and publish a table.
// An empty TournamentID means the overall league table.
type StandingsRefreshMessage struct {
	TournamentID string `msgpack:"tournament_id"`
	MatchID      string `msgpack:"match_id"`
}

// FormationUpdatedMessage is published after a formation is saved.
type FormationUpdatedMessage struct {
	TeamID    string `msgpack:"team_id"`
	MatchID   string `msgpack:"match_id"`
	Operation string `msgpack:"operation"`
	Slots     int    `msgpack:"slots"`
}

// PushRequest is the JSON envelope of a Pub/Sub push delivery.
type PushRequest struct {
	Subscription string `json:"subscription"`
	Message      struct {
		ID   string `json:"messageId"`
		Data string `json:"data"` // base64-encoded message payload
	} `json:"message"`
}
