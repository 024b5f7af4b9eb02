package fixtures_test

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/mauv0809/touchline/internal/database"
	"github.com/mauv0809/touchline/internal/fixtures"
	"github.com/mauv0809/touchline/internal/league"
	"github.com/mauv0809/touchline/internal/metrics"
	"github.com/mauv0809/touchline/internal/pubsub"
	"github.com/mauv0809/touchline/internal/recap"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type env struct {
	svc     *fixtures.Service
	store   league.LeagueStore
	pubsub  *pubsub.MockPubSubClient
	metrics *metrics.Mock
	recap   *recap.Mock
}

func setup(t *testing.T) env {
	t.Helper()
	db, teardown, err := database.InitDB(":memory:", "", "")
	require.NoError(t, err)
	t.Cleanup(teardown)

	store := league.New(db)
	for _, team := range []*league.Team{
		{ID: "A", Name: "Alpha", Sport: league.SportFootball, Roster: []league.Player{{ID: "a1", Name: "Ada"}, {ID: "a2", Name: "Ali"}}},
		{ID: "B", Name: "Bravo", Sport: league.SportFootball, Roster: []league.Player{{ID: "b1", Name: "Bo"}}},
	} {
		require.NoError(t, store.UpsertTeam(team))
	}

	e := env{store: store, pubsub: pubsub.NewMock(), metrics: metrics.NewMock(), recap: recap.NewMock()}
	e.svc = fixtures.New(store, e.pubsub, e.metrics, e.recap)
	return e
}

func (e env) liveMatch(t *testing.T, matchType league.MatchType) *league.Match {
	t.Helper()
	match, err := e.svc.Challenge(fixtures.Challenge{HomeTeamID: "A", AwayTeamID: "B", Type: matchType, ScheduledAt: time.Now()})
	require.NoError(t, err)
	_, err = e.svc.Accept(match.ID, false)
	require.NoError(t, err)
	match, err = e.svc.Start(match.ID, false)
	require.NoError(t, err)
	return match
}

func TestLifecycle(t *testing.T) {
	e := setup(t)

	match, err := e.svc.Challenge(fixtures.Challenge{HomeTeamID: "A", AwayTeamID: "B", Type: league.MatchTypeLeague, ArenaName: "Pitch 2"})
	require.NoError(t, err)
	assert.Equal(t, league.MatchWaitingAcceptance, match.Status)

	_, err = e.svc.Start(match.ID, false)
	assert.ErrorIs(t, err, fixtures.ErrInvalidTransition)

	match, err = e.svc.Accept(match.ID, false)
	require.NoError(t, err)
	assert.Equal(t, league.MatchScheduled, match.Status)

	_, err = e.svc.Accept(match.ID, false)
	assert.ErrorIs(t, err, fixtures.ErrInvalidTransition)

	match, err = e.svc.Start(match.ID, false)
	require.NoError(t, err)
	assert.Equal(t, league.MatchLive, match.Status)
	require.NotNil(t, match.StartedAt)
	assert.Equal(t, 1, match.Period)

	match, err = e.svc.Finish(match.ID, 1, 0, false)
	require.NoError(t, err)
	assert.Equal(t, league.MatchFinished, match.Status)
	assert.Equal(t, 1, match.HomeScore)

	stored, err := e.store.GetMatch(match.ID)
	require.NoError(t, err)
	assert.Equal(t, league.MatchFinished, stored.Status)
	assert.Equal(t, league.NotificationNew, stored.NotificationStatus)

	require.Len(t, e.pubsub.SendMessageCalls, 1)
	assert.Equal(t, pubsub.EventMatchFinished, e.pubsub.SendMessageCalls[0].Topic)
	msg := e.pubsub.SendMessageCalls[0].Data.(pubsub.MatchFinishedMessage)
	assert.True(t, msg.Counts)
	assert.Equal(t, 1, msg.HomeScore)

	_, err = e.svc.Finish(match.ID, 1, 0, false)
	assert.ErrorIs(t, err, fixtures.ErrInvalidTransition)
}

func TestChallenge(t *testing.T) {
	e := setup(t)

	t.Run("defaults to friendly", func(t *testing.T) {
		match, err := e.svc.Challenge(fixtures.Challenge{HomeTeamID: "A", AwayTeamID: "B"})
		require.NoError(t, err)
		assert.Equal(t, league.MatchTypeFriendly, match.Type)
		assert.NotEmpty(t, match.ID)
	})

	t.Run("same team", func(t *testing.T) {
		_, err := e.svc.Challenge(fixtures.Challenge{HomeTeamID: "A", AwayTeamID: "A"})
		assert.ErrorIs(t, err, fixtures.ErrSameTeam)
	})

	t.Run("unknown team", func(t *testing.T) {
		_, err := e.svc.Challenge(fixtures.Challenge{HomeTeamID: "A", AwayTeamID: "Z"})
		assert.ErrorIs(t, err, league.ErrTeamNotFound)
	})

	t.Run("unknown type", func(t *testing.T) {
		_, err := e.svc.Challenge(fixtures.Challenge{HomeTeamID: "A", AwayTeamID: "B", Type: "EXHIBITION"})
		assert.ErrorIs(t, err, fixtures.ErrInvalidMatchType)
	})
}

func TestDecline(t *testing.T) {
	e := setup(t)
	match, err := e.svc.Challenge(fixtures.Challenge{HomeTeamID: "A", AwayTeamID: "B"})
	require.NoError(t, err)

	require.NoError(t, e.svc.Decline(match.ID, false))
	_, err = e.store.GetMatch(match.ID)
	assert.ErrorIs(t, err, league.ErrMatchNotFound)

	t.Run("accepted matches cannot be declined", func(t *testing.T) {
		match, err := e.svc.Challenge(fixtures.Challenge{HomeTeamID: "A", AwayTeamID: "B"})
		require.NoError(t, err)
		_, err = e.svc.Accept(match.ID, false)
		require.NoError(t, err)
		assert.ErrorIs(t, e.svc.Decline(match.ID, false), fixtures.ErrInvalidTransition)
	})
}

func TestRecordEvent(t *testing.T) {
	e := setup(t)
	match := e.liveMatch(t, league.MatchTypeLeague)

	_, err := e.svc.RecordEvent(match.ID, league.MatchEvent{Type: league.EventGoal, TeamID: "A", PlayerID: "a1", AssistPlayerID: "a2", Minute: 10}, false)
	require.NoError(t, err)
	_, err = e.svc.RecordEvent(match.ID, league.MatchEvent{Type: league.EventOwnGoal, TeamID: "A", PlayerID: "a2", Minute: 20}, false)
	require.NoError(t, err)
	ev, err := e.svc.RecordEvent(match.ID, league.MatchEvent{Type: league.EventPeriodStart, Period: 2, Minute: 45}, false)
	require.NoError(t, err)
	assert.NotEmpty(t, ev.ID)
	assert.Equal(t, match.ID, ev.MatchID)

	stored, err := e.store.GetMatch(match.ID)
	require.NoError(t, err)
	assert.Equal(t, 1, stored.HomeScore)
	assert.Equal(t, 1, stored.AwayScore)
	assert.Equal(t, 2, stored.Period)
	assert.Equal(t, 2, e.metrics.MatchEvents(string(league.EventGoal))+e.metrics.MatchEvents(string(league.EventOwnGoal)))

	t.Run("foreign team", func(t *testing.T) {
		_, err := e.svc.RecordEvent(match.ID, league.MatchEvent{Type: league.EventGoal, TeamID: "Z"}, false)
		assert.ErrorIs(t, err, fixtures.ErrInvalidEvent)
	})

	t.Run("unknown type", func(t *testing.T) {
		_, err := e.svc.RecordEvent(match.ID, league.MatchEvent{Type: "CORNER", TeamID: "A"}, false)
		assert.ErrorIs(t, err, fixtures.ErrInvalidEvent)
	})

	t.Run("not live", func(t *testing.T) {
		scheduled, err := e.svc.Challenge(fixtures.Challenge{HomeTeamID: "A", AwayTeamID: "B"})
		require.NoError(t, err)
		_, err = e.svc.RecordEvent(scheduled.ID, league.MatchEvent{Type: league.EventGoal, TeamID: "A"}, false)
		assert.ErrorIs(t, err, fixtures.ErrInvalidTransition)
	})

	t.Run("finish takes the timeline score and updates player stats", func(t *testing.T) {
		finished, err := e.svc.Finish(match.ID, 7, 7, false)
		require.NoError(t, err)
		assert.Equal(t, 1, finished.HomeScore)
		assert.Equal(t, 1, finished.AwayScore)

		alpha, err := e.store.GetTeam("A")
		require.NoError(t, err)
		stats := map[string]league.PlayerStats{}
		for _, p := range alpha.Roster {
			stats[p.ID] = p.Stats
		}
		assert.Equal(t, league.PlayerStats{Goals: 1, MatchesPlayed: 1}, stats["a1"])
		assert.Equal(t, league.PlayerStats{Assists: 1, MatchesPlayed: 1}, stats["a2"])
	})
}

func TestFinish_WithoutEvents(t *testing.T) {
	e := setup(t)
	match, err := e.svc.Challenge(fixtures.Challenge{HomeTeamID: "A", AwayTeamID: "B", Type: league.MatchTypeFriendly})
	require.NoError(t, err)
	_, err = e.svc.Accept(match.ID, false)
	require.NoError(t, err)

	_, err = e.svc.Finish(match.ID, -1, 0, false)
	assert.ErrorIs(t, err, fixtures.ErrInvalidScore)

	finished, err := e.svc.Finish(match.ID, 3, 2, false)
	require.NoError(t, err)
	assert.Equal(t, 3, finished.HomeScore)
	assert.Equal(t, 2, finished.AwayScore)
	msg := e.pubsub.SendMessageCalls[0].Data.(pubsub.MatchFinishedMessage)
	assert.False(t, msg.Counts)
}

func TestDryRun(t *testing.T) {
	e := setup(t)
	match, err := e.svc.Challenge(fixtures.Challenge{HomeTeamID: "A", AwayTeamID: "B", Type: league.MatchTypeLeague})
	require.NoError(t, err)

	status := func() league.MatchStatus {
		stored, err := e.store.GetMatch(match.ID)
		require.NoError(t, err)
		return stored.Status
	}

	accepted, err := e.svc.Accept(match.ID, true)
	require.NoError(t, err)
	assert.Equal(t, league.MatchScheduled, accepted.Status)
	assert.Equal(t, league.MatchWaitingAcceptance, status())

	require.NoError(t, e.svc.Decline(match.ID, true))
	assert.Equal(t, league.MatchWaitingAcceptance, status())

	_, err = e.svc.Start(match.ID, true)
	assert.ErrorIs(t, err, fixtures.ErrInvalidTransition, "dry run still validates the transition")

	live := e.liveMatch(t, league.MatchTypeLeague)
	event, err := e.svc.RecordEvent(live.ID, league.MatchEvent{Type: league.EventGoal, TeamID: "A", PlayerID: "a1", Minute: 12}, true)
	require.NoError(t, err)
	assert.Equal(t, live.ID, event.MatchID)
	events, err := e.store.GetEvents(live.ID)
	require.NoError(t, err)
	assert.Empty(t, events)
	assert.Equal(t, 0, e.metrics.MatchEvents(string(league.EventGoal)))

	finished, err := e.svc.Finish(live.ID, 2, 1, true)
	require.NoError(t, err)
	assert.Equal(t, league.MatchFinished, finished.Status)
	assert.Equal(t, 2, finished.HomeScore)

	stored, err := e.store.GetMatch(live.ID)
	require.NoError(t, err)
	assert.Equal(t, league.MatchLive, stored.Status)
	assert.Empty(t, e.pubsub.SendMessageCalls)
	team, err := e.store.GetTeam("A")
	require.NoError(t, err)
	assert.Zero(t, team.Roster[0].Stats.MatchesPlayed)
}

func TestTimeline(t *testing.T) {
	e := setup(t)
	match := e.liveMatch(t, league.MatchTypeLeague)
	_, err := e.svc.RecordEvent(match.ID, league.MatchEvent{Type: league.EventGoal, TeamID: "B", PlayerID: "b1", Minute: 30}, false)
	require.NoError(t, err)
	_, err = e.svc.RecordEvent(match.ID, league.MatchEvent{Type: league.EventYellowCard, TeamID: "A", PlayerID: "a1", Minute: 5}, false)
	require.NoError(t, err)

	summary, err := e.svc.Timeline(match.ID)
	require.NoError(t, err)
	require.Len(t, summary.Events, 2)
	assert.Equal(t, league.EventYellowCard, summary.Events[0].Type)
	assert.Equal(t, 0, summary.HomeScore)
	assert.Equal(t, 1, summary.AwayScore)

	_, err = e.svc.Timeline("missing")
	assert.ErrorIs(t, err, league.ErrMatchNotFound)
}

func TestGenerateRecap(t *testing.T) {
	e := setup(t)
	match := e.liveMatch(t, league.MatchTypeLeague)

	_, err := e.svc.GenerateRecap(context.Background(), match.ID)
	assert.ErrorIs(t, err, fixtures.ErrInvalidTransition)

	_, err = e.svc.Finish(match.ID, 2, 0, false)
	require.NoError(t, err)

	text, err := e.svc.GenerateRecap(context.Background(), match.ID)
	require.NoError(t, err)
	assert.Equal(t, "What a match.", text)
	require.Len(t, e.recap.GenerateCalls, 1)
	assert.Equal(t, "Alpha", e.recap.GenerateCalls[0].Home.Name)

	stored, err := e.store.GetMatch(match.ID)
	require.NoError(t, err)
	assert.Equal(t, "What a match.", stored.Recap)
	assert.Equal(t, 1, e.metrics.RecapsGenerated())

	e.recap.GenerateFunc = func(ctx context.Context, summary recap.MatchSummary) (string, error) {
		return "", errors.New("quota exceeded")
	}
	_, err = e.svc.GenerateRecap(context.Background(), match.ID)
	assert.Error(t, err)
	assert.Equal(t, 1, e.metrics.RecapsFailed())
}
