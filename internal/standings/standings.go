package standings

import (
	"sort"

	"github.com/charmbracelet/log"
	"github.com/mauv0809/touchline/internal/league"
)

// Points awarded per result.
const (
	PointsWin  = 3
	PointsDraw = 1
)

// Row is one line of a rendered league table.
type Row struct {
	Rank           int         `json:"rank"`
	Team           league.Team `json:"team"`
	GoalDifference int         `json:"goal_difference"`
}

// Compute derives a ranked league table. Only finished league matches count,
// and matches involving a team outside teams are skipped. The returned teams
// are copies; neither input slice is modified.
func Compute(teams []league.Team, matches []league.Match) []league.Team {
	table := make([]league.Team, len(teams))
	index := make(map[string]int, len(teams))
	for i, team := range teams {
		team.Played = 0
		team.Wins = 0
		team.Draws = 0
		team.Losses = 0
		team.GoalsFor = 0
		team.GoalsAgainst = 0
		team.Points = 0
		table[i] = team
		index[team.ID] = i
	}

	for _, match := range matches {
		if !Counts(match) {
			continue
		}
		homeIdx, okHome := index[match.HomeTeamID]
		awayIdx, okAway := index[match.AwayTeamID]
		if !okHome || !okAway {
			log.Debug("Skipping match outside of table", "matchID", match.ID)
			continue
		}
		home := &table[homeIdx]
		away := &table[awayIdx]

		home.Played++
		away.Played++
		home.GoalsFor += match.HomeScore
		home.GoalsAgainst += match.AwayScore
		away.GoalsFor += match.AwayScore
		away.GoalsAgainst += match.HomeScore

		switch {
		case match.HomeScore > match.AwayScore:
			home.Wins++
			home.Points += PointsWin
			away.Losses++
		case match.HomeScore < match.AwayScore:
			away.Wins++
			away.Points += PointsWin
			home.Losses++
		default:
			home.Draws++
			away.Draws++
			home.Points += PointsDraw
			away.Points += PointsDraw
		}
	}

	sort.SliceStable(table, func(i, j int) bool {
		if table[i].Points != table[j].Points {
			return table[i].Points > table[j].Points
		}
		return table[i].GoalDifference() > table[j].GoalDifference()
	})
	return table
}

// Counts reports whether a match contributes to standings.
func Counts(match league.Match) bool {
	return match.Status == league.MatchFinished && match.Type == league.MatchTypeLeague
}

// ForTournament computes the table of a single tournament: its registered
// teams and only the matches played under it.
func ForTournament(tournament league.Tournament, teams []league.Team, matches []league.Match) []league.Team {
	registered := make(map[string]struct{}, len(tournament.TeamIDs))
	for _, id := range tournament.TeamIDs {
		registered[id] = struct{}{}
	}

	var participants []league.Team
	for _, team := range teams {
		if _, ok := registered[team.ID]; ok {
			participants = append(participants, team)
		}
	}

	var fixtures []league.Match
	for _, match := range matches {
		if match.TournamentID == tournament.ID {
			fixtures = append(fixtures, match)
		}
	}
	return Compute(participants, fixtures)
}

// Rows attaches display ranks to a computed table.
func Rows(table []league.Team) []Row {
	rows := make([]Row, 0, len(table))
	for i, team := range table {
		rows = append(rows, Row{
			Rank:           i + 1,
			Team:           team,
			GoalDifference: team.GoalDifference(),
		})
	}
	return rows
}
