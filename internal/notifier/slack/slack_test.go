package slack

import (
	"context"
	"errors"
	"strings"
	"testing"
	"time"

	"github.com/mauv0809/touchline/internal/league"
	"github.com/mauv0809/touchline/internal/metrics"
	"github.com/mauv0809/touchline/internal/notifier"
	"github.com/mauv0809/touchline/internal/standings"
	slackapi "github.com/slack-go/slack"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// mockSlackAPI is a mock implementation of the parts of the slack.Client that we use.
type mockSlackAPI struct {
	postMessageContextFunc func(ctx context.Context, channelID string, options ...slackapi.MsgOption) (string, string, error)
}

func (m *mockSlackAPI) PostMessageContext(ctx context.Context, channelID string, options ...slackapi.MsgOption) (string, string, error) {
	if m.postMessageContextFunc != nil {
		return m.postMessageContextFunc(ctx, channelID, options...)
	}
	return "C12345", "123456789.12345", nil
}

func card() notifier.MatchCard {
	return notifier.MatchCard{
		Match: league.Match{
			ID:          "m1",
			HomeTeamID:  "A",
			AwayTeamID:  "B",
			HomeScore:   2,
			AwayScore:   1,
			Status:      league.MatchFinished,
			Type:        league.MatchTypeLeague,
			ArenaName:   "North Field",
			ScheduledAt: time.Date(2025, 7, 9, 18, 0, 0, 0, time.UTC),
		},
		Home: league.Team{ID: "A", Name: "Harbour FC"},
		Away: league.Team{ID: "B", Name: "Hill Rovers"},
	}
}

func TestSendMessage_DryRun(t *testing.T) {
	metrics := metrics.NewMock()
	// Pass nil for the api, as it shouldn't be called in dry-run mode.
	notifier := NewNotifierWithAPI(nil, "C123", metrics)

	_, _, err := notifier.sendMessage(slackapi.NewBlockMessage(), true)
	require.NoError(t, err)
	assert.Equal(t, 0, metrics.SlackNotifSent())
}

func TestSendMessage_Success(t *testing.T) {
	postMessageCalled := false
	api := &mockSlackAPI{
		postMessageContextFunc: func(ctx context.Context, channelID string, options ...slackapi.MsgOption) (string, string, error) {
			postMessageCalled = true
			assert.Equal(t, "C123", channelID)
			return "C123", "ts123", nil
		},
	}

	metrics := metrics.NewMock()
	notifier := NewNotifierWithAPI(api, "C123", metrics)

	message := slackapi.NewBlockMessage(slackapi.NewSectionBlock(plain("hello"), nil, nil))
	_, _, err := notifier.sendMessage(message, false)

	require.NoError(t, err)
	assert.True(t, postMessageCalled, "PostMessageContext should have been called")
	assert.Equal(t, 1, metrics.SlackNotifSent())
	assert.Equal(t, 0, metrics.SlackNotifFailed())
}

func TestSendMessage_Failure(t *testing.T) {
	expectedErr := errors.New("slack API is down")
	api := &mockSlackAPI{
		postMessageContextFunc: func(ctx context.Context, channelID string, options ...slackapi.MsgOption) (string, string, error) {
			return "", "", expectedErr
		},
	}

	metrics := metrics.NewMock()
	notifier := NewNotifierWithAPI(api, "C123", metrics)

	_, _, err := notifier.sendMessage(slackapi.NewBlockMessage(), false)

	require.Error(t, err)
	assert.ErrorIs(t, err, expectedErr)
	assert.Equal(t, 0, metrics.SlackNotifSent())
	assert.Equal(t, 1, metrics.SlackNotifFailed())
}

func TestSendResultNotification_CallsSender(t *testing.T) {
	postMessageCalled := false
	api := &mockSlackAPI{
		postMessageContextFunc: func(ctx context.Context, channelID string, options ...slackapi.MsgOption) (string, string, error) {
			postMessageCalled = true
			return "C123", "ts123", nil
		},
	}
	notifier := NewNotifierWithAPI(api, "C123", metrics.NewMock())

	require.NoError(t, notifier.SendResultNotification(card(), false))
	assert.True(t, postMessageCalled, "PostMessageContext should have been called via SendResultNotification")
}

func TestFormatFixture(t *testing.T) {
	n := NewNotifierWithAPI(nil, "C123", metrics.NewMock())
	msg := n.formatFixture(card())
	require.Len(t, msg.Blocks.BlockSet, 3)

	header, ok := msg.Blocks.BlockSet[0].(*slackapi.HeaderBlock)
	require.True(t, ok, "First block should be a HeaderBlock")
	assert.Equal(t, ":calendar: Match scheduled", header.Text.Text)

	details, ok := msg.Blocks.BlockSet[1].(*slackapi.SectionBlock)
	require.True(t, ok)
	assert.Equal(t, "Harbour FC vs Hill Rovers\nKick-off: Wednesday 09 Jul, 18:00\nArena: North Field", details.Text.Text)

	t.Run("timezone", func(t *testing.T) {
		n := NewNotifierWithAPI(nil, "C123", metrics.NewMock()).WithTimezone("Europe/Copenhagen")
		details := n.formatFixture(card()).Blocks.BlockSet[1].(*slackapi.SectionBlock)
		assert.Contains(t, details.Text.Text, "Kick-off: Wednesday 09 Jul, 20:00")
	})
}

func TestFormatResult(t *testing.T) {
	n := NewNotifierWithAPI(nil, "C123", metrics.NewMock())

	t.Run("home win", func(t *testing.T) {
		msg := n.formatResult(card())
		require.Len(t, msg.Blocks.BlockSet, 4)
		score := msg.Blocks.BlockSet[1].(*slackapi.SectionBlock)
		assert.Equal(t, "Harbour FC 2 - 1 Hill Rovers", score.Text.Text)
		verdict := msg.Blocks.BlockSet[2].(*slackapi.SectionBlock)
		assert.Equal(t, ":trophy: Harbour FC take the win", verdict.Text.Text)
	})

	t.Run("draw with recap", func(t *testing.T) {
		c := card()
		c.Match.AwayScore = 2
		c.Match.Recap = "A late equaliser."
		msg := n.formatResult(c)
		require.Len(t, msg.Blocks.BlockSet, 6)
		verdict := msg.Blocks.BlockSet[2].(*slackapi.SectionBlock)
		assert.Equal(t, ":handshake: Points shared", verdict.Text.Text)
		_, ok := msg.Blocks.BlockSet[3].(*slackapi.DividerBlock)
		assert.True(t, ok)
	})
}

func TestFormatStandings(t *testing.T) {
	n := NewNotifierWithAPI(nil, "C123", metrics.NewMock())

	t.Run("table", func(t *testing.T) {
		table := standings.Compute(
			[]league.Team{{ID: "A", Name: "Harbour FC"}, {ID: "B", Name: "A Very Long Team Name Indeed"}},
			[]league.Match{{ID: "m1", HomeTeamID: "B", AwayTeamID: "A", HomeScore: 3, AwayScore: 0, Status: league.MatchFinished, Type: league.MatchTypeLeague}},
		)
		msg := n.formatStandings("League table", standings.Rows(table))
		require.Len(t, msg.Blocks.BlockSet, 2)

		section := msg.Blocks.BlockSet[1].(*slackapi.SectionBlock)
		assert.Equal(t, "mrkdwn", section.Text.Type)
		lines := strings.Split(section.Text.Text, "\n")
		require.Len(t, lines, 5)
		assert.True(t, strings.HasPrefix(lines[2], "1   A Very Long Team."), lines[2])
		assert.Contains(t, lines[2], "+3")
		assert.True(t, strings.HasPrefix(lines[3], "2   Harbour FC"), lines[3])
	})

	t.Run("empty", func(t *testing.T) {
		msg := n.formatStandings("League table", nil)
		require.Len(t, msg.Blocks.BlockSet, 2)
		section := msg.Blocks.BlockSet[1].(*slackapi.SectionBlock)
		assert.Equal(t, "No teams registered yet.", section.Text.Text)
	})

	t.Run("slash command response", func(t *testing.T) {
		resp, err := n.FormatStandingsResponse("Cup", nil)
		require.NoError(t, err)
		_, ok := resp.(slackapi.Message)
		assert.True(t, ok)
	})
}
