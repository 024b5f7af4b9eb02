package slack

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"
	"time"

	"github.com/charmbracelet/log"
	"github.com/mauv0809/touchline/internal/league"
	"github.com/mauv0809/touchline/internal/metrics"
	"github.com/mauv0809/touchline/internal/notifier"
	"github.com/mauv0809/touchline/internal/standings"
	"github.com/slack-go/slack"
)

// slackClient is an interface that contains the methods from the slack.Client that we use.
// This allows for easy mocking in tests.
type slackClient interface {
	PostMessageContext(ctx context.Context, channelID string, options ...slack.MsgOption) (string, string, error)
}

var _ notifier.Notifier = &Notifier{}

const timeLayout = "Monday 02 Jan, 15:04"

// Notifier handles sending notifications to Slack.
type Notifier struct {
	api       slackClient
	channelID string
	metrics   metrics.Metrics
	loc       *time.Location
}

// NewNotifier creates a new Notifier. Kick-off times are rendered in the
// named time zone, falling back to UTC when it cannot be loaded.
func NewNotifier(token, channelID, timezone string, metrics metrics.Metrics) *Notifier {
	return NewNotifierWithAPI(slack.New(token), channelID, metrics).WithTimezone(timezone)
}

// NewNotifierWithAPI creates a new Notifier with a specific slack.Client instance.
// Useful for tests that need to intercept API calls.
func NewNotifierWithAPI(api slackClient, channelID string, metrics metrics.Metrics) *Notifier {
	return &Notifier{
		api:       api,
		channelID: channelID,
		metrics:   metrics,
		loc:       time.UTC,
	}
}

// WithTimezone sets the zone used for kick-off times.
func (s *Notifier) WithTimezone(timezone string) *Notifier {
	if timezone == "" {
		return s
	}
	loc, err := time.LoadLocation(timezone)
	if err != nil {
		log.Warn("Unknown timezone, using UTC", "timezone", timezone, "error", err)
		return s
	}
	s.loc = loc
	return s
}

func (s *Notifier) sendMessage(message slack.Message, dryRun bool) (string, string, error) {
	if dryRun {
		jsonMsg, _ := json.MarshalIndent(message, "", "  ")
		log.Info("[Dry Run] Would send Slack message", "channel", s.channelID, "message", string(jsonMsg))
		return "dry-run-channel", "dry-run-ts", nil
	}

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	channelID, timestamp, err := s.api.PostMessageContext(
		ctx,
		s.channelID,
		slack.MsgOptionBlocks(message.Blocks.BlockSet...),
		slack.MsgOptionAsUser(true),
	)

	if err != nil {
		s.metrics.IncSlackNotifFailed()
		log.Error("Failed to send Slack message", "error", err, "channel", s.channelID)
		return "", "", fmt.Errorf("failed to post message: %w", err)
	}

	s.metrics.IncSlackNotifSent()
	log.Info("Successfully sent Slack message", "channel", channelID, "timestamp", timestamp)
	return channelID, timestamp, nil
}

func (s *Notifier) SendFixtureNotification(card notifier.MatchCard, dryRun bool) error {
	_, _, err := s.sendMessage(s.formatFixture(card), dryRun)
	return err
}

func (s *Notifier) SendResultNotification(card notifier.MatchCard, dryRun bool) error {
	_, _, err := s.sendMessage(s.formatResult(card), dryRun)
	return err
}

func (s *Notifier) SendStandings(title string, rows []standings.Row, dryRun bool) error {
	_, _, err := s.sendMessage(s.formatStandings(title, rows), dryRun)
	return err
}

// FormatStandingsResponse formats a table for a slash command response.
func (s *Notifier) FormatStandingsResponse(title string, rows []standings.Row) (any, error) {
	return s.formatStandings(title, rows), nil
}

// FormatNotFoundResponse formats a not-found reply for a slash command response.
func (s *Notifier) FormatNotFoundResponse(query string) (any, error) {
	return s.formatNotFound(query), nil
}

func plain(text string) *slack.TextBlockObject {
	return slack.NewTextBlockObject("plain_text", text, true, false)
}

func (s *Notifier) kickOff(t time.Time) string {
	if t.IsZero() {
		return "TBD"
	}
	return t.In(s.loc).Format(timeLayout)
}

// formatFixture creates the Slack message for a newly scheduled match.
func (s *Notifier) formatFixture(card notifier.MatchCard) slack.Message {
	blocks := []slack.Block{
		slack.NewHeaderBlock(plain(":calendar: Match scheduled")),
	}

	details := fmt.Sprintf("%s vs %s\nKick-off: %s", card.Home.Name, card.Away.Name, s.kickOff(card.Match.ScheduledAt))
	if card.Match.ArenaName != "" {
		details += "\nArena: " + card.Match.ArenaName
	}
	blocks = append(blocks, slack.NewSectionBlock(plain(details), nil, nil))
	blocks = append(blocks, slack.NewContextBlock("", plain(matchTypeLabel(card.Match.Type))))

	return slack.NewBlockMessage(blocks...)
}

// formatResult creates the Slack message for a finished match.
func (s *Notifier) formatResult(card notifier.MatchCard) slack.Message {
	m := card.Match
	blocks := []slack.Block{
		slack.NewHeaderBlock(plain(":stopwatch: Full time")),
	}

	score := fmt.Sprintf("%s %d - %d %s", card.Home.Name, m.HomeScore, m.AwayScore, card.Away.Name)
	blocks = append(blocks, slack.NewSectionBlock(plain(score), nil, nil))

	var verdict string
	switch {
	case m.HomeScore > m.AwayScore:
		verdict = fmt.Sprintf(":trophy: %s take the win", card.Home.Name)
	case m.HomeScore < m.AwayScore:
		verdict = fmt.Sprintf(":trophy: %s take the win", card.Away.Name)
	default:
		verdict = ":handshake: Points shared"
	}
	blocks = append(blocks, slack.NewSectionBlock(plain(verdict), nil, nil))

	if m.Recap != "" {
		blocks = append(blocks, slack.NewDividerBlock())
		blocks = append(blocks, slack.NewSectionBlock(plain(m.Recap), nil, nil))
	}

	contextText := matchTypeLabel(m.Type)
	if m.ArenaName != "" {
		contextText += " | " + m.ArenaName
	}
	blocks = append(blocks, slack.NewContextBlock("", plain(contextText)))

	return slack.NewBlockMessage(blocks...)
}

// formatStandings renders the table as a preformatted block so columns line up.
func (s *Notifier) formatStandings(title string, rows []standings.Row) slack.Message {
	blocks := []slack.Block{
		slack.NewHeaderBlock(plain(":trophy: " + title)),
	}

	if len(rows) == 0 {
		blocks = append(blocks, slack.NewSectionBlock(plain("No teams registered yet."), nil, nil))
		return slack.NewBlockMessage(blocks...)
	}

	var b strings.Builder
	b.WriteString("```\n")
	fmt.Fprintf(&b, "%-3s %-18s %3s %3s %3s %3s %4s %4s\n", "#", "Team", "P", "W", "D", "L", "GD", "Pts")
	for _, row := range rows {
		fmt.Fprintf(&b, "%-3d %-18s %3d %3d %3d %3d %+4d %4d\n",
			row.Rank,
			truncate(row.Team.Name, 18),
			row.Team.Played,
			row.Team.Wins,
			row.Team.Draws,
			row.Team.Losses,
			row.GoalDifference,
			row.Team.Points,
		)
	}
	b.WriteString("```")
	blocks = append(blocks, slack.NewSectionBlock(slack.NewTextBlockObject("mrkdwn", b.String(), false, false), nil, nil))

	return slack.NewBlockMessage(blocks...)
}

func (s *Notifier) formatNotFound(query string) slack.Message {
	text := fmt.Sprintf(":mag: Nothing found for '%s'. Try /standings without arguments for the league table.", query)
	return slack.NewBlockMessage(slack.NewSectionBlock(plain(text), nil, nil))
}

func matchTypeLabel(t league.MatchType) string {
	switch t {
	case league.MatchTypeFriendly:
		return "Friendly"
	case league.MatchTypeKnockout:
		return "Knockout"
	default:
		return "League match"
	}
}

func truncate(s string, n int) string {
	r := []rune(s)
	if len(r) <= n {
		return s
	}
	return strings.TrimRight(string(r[:n-1]), " ") + "."
}
