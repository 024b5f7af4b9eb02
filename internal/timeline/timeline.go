// Package timeline derives match state from the live event log.
package timeline

import (
	"sort"
	"time"

	"github.com/charmbracelet/log"
	"github.com/mauv0809/touchline/internal/league"
)

// Sort returns the events in match order: period, minute, then creation time.
func Sort(events []league.MatchEvent) []league.MatchEvent {
	sorted := append([]league.MatchEvent(nil), events...)
	sort.SliceStable(sorted, func(i, j int) bool {
		a, b := sorted[i], sorted[j]
		if a.Period != b.Period {
			return a.Period < b.Period
		}
		if a.Minute != b.Minute {
			return a.Minute < b.Minute
		}
		return a.CreatedAt.Before(b.CreatedAt)
	})
	return sorted
}

// Score counts goals for each side. Own goals are credited to the opponent of
// the event's team. Events for teams not playing the match are ignored.
func Score(match league.Match, events []league.MatchEvent) (home, away int) {
	for _, event := range events {
		if event.MatchID != "" && event.MatchID != match.ID {
			continue
		}
		var credited string
		switch event.Type {
		case league.EventGoal:
			credited = event.TeamID
		case league.EventOwnGoal:
			credited = opponent(match, event.TeamID)
		default:
			continue
		}
		switch credited {
		case match.HomeTeamID:
			home++
		case match.AwayTeamID:
			away++
		default:
			log.Debug("Ignoring goal for team outside match", "matchID", match.ID, "teamID", event.TeamID)
		}
	}
	return home, away
}

// HasGoals reports whether any event changes the score.
func HasGoals(events []league.MatchEvent) bool {
	for _, event := range events {
		if event.Type == league.EventGoal || event.Type == league.EventOwnGoal {
			return true
		}
	}
	return false
}

func opponent(match league.Match, teamID string) string {
	switch teamID {
	case match.HomeTeamID:
		return match.AwayTeamID
	case match.AwayTeamID:
		return match.HomeTeamID
	}
	return ""
}

// CurrentPeriod is the highest period seen in the log, or 0 before kick-off.
func CurrentPeriod(events []league.MatchEvent) int {
	period := 0
	for _, event := range events {
		period = max(period, event.Period)
	}
	return period
}

// Elapsed returns whole minutes since the match started. Matches that have not
// started report zero.
func Elapsed(match league.Match, now time.Time) int {
	if match.StartedAt == nil || now.Before(*match.StartedAt) {
		return 0
	}
	return int(now.Sub(*match.StartedAt) / time.Minute)
}

// ApplyPlayerStats returns a copy of roster with goals, assists and cards
// from events added to each player's stats.
func ApplyPlayerStats(roster []league.Player, events []league.MatchEvent) []league.Player {
	out := append([]league.Player(nil), roster...)
	index := make(map[string]int, len(out))
	for i, player := range out {
		index[player.ID] = i
	}
	for _, event := range events {
		if i, ok := index[event.PlayerID]; ok {
			switch event.Type {
			case league.EventGoal:
				out[i].Stats.Goals++
			case league.EventYellowCard:
				out[i].Stats.YellowCards++
			case league.EventRedCard:
				out[i].Stats.RedCards++
			}
		}
		if event.Type == league.EventGoal {
			if i, ok := index[event.AssistPlayerID]; ok {
				out[i].Stats.Assists++
			}
		}
	}
	return out
}

// Summary is the derived view of a match served to clients.
type Summary struct {
	Match     league.Match        `json:"match"`
	Events    []league.MatchEvent `json:"events"`
	HomeScore int                 `json:"home_score"`
	AwayScore int                 `json:"away_score"`
	Period    int                 `json:"period"`
	Elapsed   int                 `json:"elapsed_minutes"`
}

// Build assembles the sorted timeline and derived score of a match.
func Build(match league.Match, events []league.MatchEvent, now time.Time) Summary {
	sorted := Sort(events)
	home, away := Score(match, sorted)
	if !HasGoals(sorted) {
		home, away = match.HomeScore, match.AwayScore
	}
	return Summary{
		Match:     match,
		Events:    sorted,
		HomeScore: home,
		AwayScore: away,
		Period:    CurrentPeriod(sorted),
		Elapsed:   Elapsed(match, now),
	}
}
