package league

import (
	"database/sql"
	"sync"
	"time"
)

// store handles all database operations for the league.
type store struct {
	db *sql.DB
	mu sync.RWMutex
}

// SportType selects which formation catalogue applies to a team.
type SportType string

const (
	SportFootball    SportType = "FOOTBALL"
	SportSociety     SportType = "SOCIETY"
	SportFutsal      SportType = "FUTSAL"
	SportBeachSoccer SportType = "BEACH_SOCCER"
	SportHandball    SportType = "HANDBALL"
	SportFieldHockey SportType = "FIELD_HOCKEY"
)

// Sports lists every supported sport in display order.
var Sports = []SportType{
	SportFootball,
	SportSociety,
	SportFutsal,
	SportBeachSoccer,
	SportHandball,
	SportFieldHockey,
}

// ParseSportType maps a stored sport string onto the enum. The boolean is
// false when the value is not recognised.
func ParseSportType(s string) (SportType, bool) {
	for _, sport := range Sports {
		if string(sport) == s {
			return sport, true
		}
	}
	return "", false
}

type MatchStatus string

const (
	MatchScheduled         MatchStatus = "SCHEDULED"
	MatchLive              MatchStatus = "LIVE"
	MatchFinished          MatchStatus = "FINISHED"
	MatchWaitingAcceptance MatchStatus = "WAITING_ACCEPTANCE"
)

type MatchType string

const (
	MatchTypeLeague   MatchType = "LEAGUE"
	MatchTypeFriendly MatchType = "FRIENDLY"
	MatchTypeKnockout MatchType = "KNOCKOUT"
)

// NotificationStatus tracks how far the processor has taken a finished match.
type NotificationStatus string

const (
	NotificationNew                NotificationStatus = "NEW"
	NotificationResultNotified     NotificationStatus = "RESULT_NOTIFIED"
	NotificationStandingsPublished NotificationStatus = "STANDINGS_PUBLISHED"
	NotificationCompleted          NotificationStatus = "COMPLETED"
)

// PlayerStats is read-only from the engines' point of view; only the match
// event layer changes it.
type PlayerStats struct {
	Goals         int `json:"goals" msgpack:"goals"`
	Assists       int `json:"assists" msgpack:"assists"`
	YellowCards   int `json:"yellow_cards" msgpack:"yellow_cards"`
	RedCards      int `json:"red_cards" msgpack:"red_cards"`
	MatchesPlayed int `json:"matches_played" msgpack:"matches_played"`
}

type Player struct {
	ID          string      `json:"id" msgpack:"id"`
	Name        string      `json:"name" msgpack:"name"`
	ShirtNumber int         `json:"shirt_number" msgpack:"shirt_number"`
	Position    string      `json:"position" msgpack:"position"`
	Stats       PlayerStats `json:"stats" msgpack:"stats"`
}

// Team is a squad plus its league record. The record fields are derived by
// the standings package and are not trusted as stored state.
type Team struct {
	ID               string             `json:"id" msgpack:"id"`
	Name             string             `json:"name" msgpack:"name"`
	ShortCode        string             `json:"short_code" msgpack:"short_code"`
	Sport            SportType          `json:"sport" msgpack:"sport"`
	LogoURL          string             `json:"logo_url,omitempty" msgpack:"logo_url"`
	Roster           []Player           `json:"roster" msgpack:"roster"`
	DefaultFormation []TacticalPosition `json:"default_formation,omitempty" msgpack:"default_formation"`
	CreatedAt        time.Time          `json:"created_at" msgpack:"created_at"`

	Played       int `json:"played" msgpack:"played"`
	Wins         int `json:"wins" msgpack:"wins"`
	Draws        int `json:"draws" msgpack:"draws"`
	Losses       int `json:"losses" msgpack:"losses"`
	GoalsFor     int `json:"goals_for" msgpack:"goals_for"`
	GoalsAgainst int `json:"goals_against" msgpack:"goals_against"`
	Points       int `json:"points" msgpack:"points"`
}

// GoalDifference returns GoalsFor minus GoalsAgainst.
func (t Team) GoalDifference() int {
	return t.GoalsFor - t.GoalsAgainst
}

type Match struct {
	ID                 string             `json:"id" msgpack:"id"`
	TournamentID       string             `json:"tournament_id,omitempty" msgpack:"tournament_id"`
	HomeTeamID         string             `json:"home_team_id" msgpack:"home_team_id"`
	AwayTeamID         string             `json:"away_team_id" msgpack:"away_team_id"`
	Status             MatchStatus        `json:"status" msgpack:"status"`
	Type               MatchType          `json:"type" msgpack:"type"`
	HomeScore          int                `json:"home_score" msgpack:"home_score"`
	AwayScore          int                `json:"away_score" msgpack:"away_score"`
	ArenaName          string             `json:"arena_name,omitempty" msgpack:"arena_name"`
	ScheduledAt        time.Time          `json:"scheduled_at" msgpack:"scheduled_at"`
	StartedAt          *time.Time         `json:"started_at,omitempty" msgpack:"started_at"`
	Period             int                `json:"period" msgpack:"period"`
	NotificationStatus NotificationStatus `json:"notification_status" msgpack:"notification_status"`
	Recap              string             `json:"recap,omitempty" msgpack:"recap"`
}

// Involves reports whether the team plays in the match.
func (m Match) Involves(teamID string) bool {
	return m.HomeTeamID == teamID || m.AwayTeamID == teamID
}

type Tournament struct {
	ID      string    `json:"id"`
	Name    string    `json:"name"`
	Sport   SportType `json:"sport"`
	TeamIDs []string  `json:"team_ids"`
}

type EventType string

const (
	EventGoal         EventType = "GOAL"
	EventOwnGoal      EventType = "OWN_GOAL"
	EventYellowCard   EventType = "YELLOW_CARD"
	EventRedCard      EventType = "RED_CARD"
	EventSubstitution EventType = "SUBSTITUTION"
	EventPeriodStart  EventType = "PERIOD_START"
	EventPeriodEnd    EventType = "PERIOD_END"
)

// MatchEvent is one entry on a live match timeline. For OWN_GOAL events
// TeamID is the side of the player who scored it, not the side credited.
type MatchEvent struct {
	ID             string    `json:"id"`
	MatchID        string    `json:"match_id"`
	Type           EventType `json:"type"`
	TeamID         string    `json:"team_id,omitempty"`
	PlayerID       string    `json:"player_id,omitempty"`
	AssistPlayerID string    `json:"assist_player_id,omitempty"`
	Period         int       `json:"period"`
	Minute         int       `json:"minute"`
	CreatedAt      time.Time `json:"created_at"`
}
