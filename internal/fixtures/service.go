package fixtures

import (
	"context"
	"fmt"
	"time"

	"github.com/charmbracelet/log"
	"github.com/google/uuid"
	"github.com/mauv0809/touchline/internal/league"
	"github.com/mauv0809/touchline/internal/metrics"
	"github.com/mauv0809/touchline/internal/pubsub"
	"github.com/mauv0809/touchline/internal/recap"
	"github.com/mauv0809/touchline/internal/standings"
	"github.com/mauv0809/touchline/internal/timeline"
)

// New creates a fixture service.
func New(store Store, pubsub pubsub.PubSubClient, metrics metrics.Metrics, recap recap.RecapClient) *Service {
	return &Service{
		store:   store,
		pubsub:  pubsub,
		metrics: metrics,
		recap:   recap,
		now:     time.Now,
	}
}

// Challenge creates a match waiting for the away team to accept.
func (s *Service) Challenge(req Challenge) (*league.Match, error) {
	if req.HomeTeamID == req.AwayTeamID {
		return nil, ErrSameTeam
	}
	if req.Type == "" {
		req.Type = league.MatchTypeFriendly
	}
	switch req.Type {
	case league.MatchTypeLeague, league.MatchTypeFriendly, league.MatchTypeKnockout:
	default:
		return nil, fmt.Errorf("%w: %s", ErrInvalidMatchType, req.Type)
	}
	for _, id := range []string{req.HomeTeamID, req.AwayTeamID} {
		if _, err := s.store.GetTeam(id); err != nil {
			return nil, fmt.Errorf("team %s: %w", id, err)
		}
	}

	match := &league.Match{
		ID:                 uuid.New().String(),
		TournamentID:       req.TournamentID,
		HomeTeamID:         req.HomeTeamID,
		AwayTeamID:         req.AwayTeamID,
		Status:             league.MatchWaitingAcceptance,
		Type:               req.Type,
		ArenaName:          req.ArenaName,
		ScheduledAt:        req.ScheduledAt.UTC(),
		NotificationStatus: league.NotificationNew,
	}
	if err := s.store.UpsertMatch(match); err != nil {
		return nil, fmt.Errorf("failed to create match: %w", err)
	}
	log.Info("Created match challenge", "matchID", match.ID, "home", match.HomeTeamID, "away", match.AwayTeamID)
	return match, nil
}

// Accept schedules a challenged match.
func (s *Service) Accept(matchID string, dryRun bool) (*league.Match, error) {
	return s.transition(matchID, league.MatchScheduled, func(m *league.Match) {}, dryRun, league.MatchWaitingAcceptance)
}

// Decline removes a challenge that has not been accepted.
func (s *Service) Decline(matchID string, dryRun bool) error {
	match, err := s.store.GetMatch(matchID)
	if err != nil {
		return err
	}
	if match.Status != league.MatchWaitingAcceptance {
		return fmt.Errorf("%w: %s is %s", ErrInvalidTransition, matchID, match.Status)
	}
	if dryRun {
		log.Info("[Dry Run] Would have declined match challenge", "matchID", matchID)
		return nil
	}
	if err := s.store.DeleteMatch(matchID); err != nil {
		return fmt.Errorf("failed to delete match: %w", err)
	}
	log.Info("Declined match challenge", "matchID", matchID)
	return nil
}

// Start kicks off a scheduled match.
func (s *Service) Start(matchID string, dryRun bool) (*league.Match, error) {
	return s.transition(matchID, league.MatchLive, func(m *league.Match) {
		started := s.now().UTC()
		m.StartedAt = &started
		m.Period = 1
	}, dryRun, league.MatchScheduled)
}

// RecordEvent appends an event to a live match and keeps the stored score in
// step with the timeline. A dry run validates and returns the event without
// storing it.
func (s *Service) RecordEvent(matchID string, event league.MatchEvent, dryRun bool) (*league.MatchEvent, error) {
	match, err := s.store.GetMatch(matchID)
	if err != nil {
		return nil, err
	}
	if match.Status != league.MatchLive {
		return nil, fmt.Errorf("%w: events need a live match, %s is %s", ErrInvalidTransition, matchID, match.Status)
	}
	if err := validateEvent(*match, event); err != nil {
		return nil, err
	}

	event.ID = uuid.New().String()
	event.MatchID = matchID
	event.CreatedAt = s.now().UTC()
	if event.Period == 0 {
		event.Period = max(match.Period, 1)
	}
	if dryRun {
		log.Info("[Dry Run] Would have recorded match event", "matchID", matchID, "type", event.Type, "minute", event.Minute)
		return &event, nil
	}
	if err := s.store.AddEvent(&event); err != nil {
		return nil, fmt.Errorf("failed to record event: %w", err)
	}
	s.metrics.IncMatchEvents(string(event.Type))

	events, err := s.store.GetEvents(matchID)
	if err != nil {
		return nil, fmt.Errorf("failed to load events: %w", err)
	}
	match.HomeScore, match.AwayScore = timeline.Score(*match, events)
	match.Period = max(match.Period, timeline.CurrentPeriod(events))
	if err := s.store.UpsertMatch(match); err != nil {
		return nil, fmt.Errorf("failed to update match: %w", err)
	}
	return &event, nil
}

func validateEvent(match league.Match, event league.MatchEvent) error {
	switch event.Type {
	case league.EventGoal, league.EventOwnGoal, league.EventYellowCard, league.EventRedCard, league.EventSubstitution:
		if !match.Involves(event.TeamID) {
			return fmt.Errorf("%w: team %q is not playing", ErrInvalidEvent, event.TeamID)
		}
	case league.EventPeriodStart, league.EventPeriodEnd:
	default:
		return fmt.Errorf("%w: unknown type %q", ErrInvalidEvent, event.Type)
	}
	if event.Minute < 0 || event.Period < 0 {
		return fmt.Errorf("%w: negative minute or period", ErrInvalidEvent)
	}
	return nil
}

// Finish ends a match. When goals were recorded on the timeline they decide
// the score; otherwise the supplied score is used. Player stats of both
// squads are updated and match-finished is published. A dry run returns the
// finished match without storing or publishing anything.
func (s *Service) Finish(matchID string, homeScore, awayScore int, dryRun bool) (*league.Match, error) {
	if homeScore < 0 || awayScore < 0 {
		return nil, ErrInvalidScore
	}
	events, err := s.store.GetEvents(matchID)
	if err != nil {
		return nil, fmt.Errorf("failed to load events: %w", err)
	}

	match, err := s.transition(matchID, league.MatchFinished, func(m *league.Match) {
		if timeline.HasGoals(events) {
			m.HomeScore, m.AwayScore = timeline.Score(*m, events)
		} else {
			m.HomeScore, m.AwayScore = homeScore, awayScore
		}
	}, dryRun, league.MatchScheduled, league.MatchLive)
	if err != nil {
		return nil, err
	}
	if dryRun {
		return match, nil
	}

	for _, teamID := range []string{match.HomeTeamID, match.AwayTeamID} {
		if err := s.updateStats(teamID, events); err != nil {
			log.Error("Failed to update player stats", "error", err, "teamID", teamID, "matchID", matchID)
		}
	}

	msg := pubsub.MatchFinishedMessage{
		MatchID:      match.ID,
		TournamentID: match.TournamentID,
		HomeTeamID:   match.HomeTeamID,
		AwayTeamID:   match.AwayTeamID,
		HomeScore:    match.HomeScore,
		AwayScore:    match.AwayScore,
		Counts:       standings.Counts(*match),
	}
	if err := s.pubsub.SendMessage(pubsub.EventMatchFinished, msg); err != nil {
		log.Error("Failed to publish match finished", "error", err, "matchID", matchID)
	}
	return match, nil
}

// updateStats credits every squad member with an appearance and adds the
// match's goals, assists and cards.
func (s *Service) updateStats(teamID string, events []league.MatchEvent) error {
	team, err := s.store.GetTeam(teamID)
	if err != nil {
		return err
	}
	if len(team.Roster) == 0 {
		return nil
	}
	players := timeline.ApplyPlayerStats(team.Roster, events)
	for i := range players {
		players[i].Stats.MatchesPlayed++
	}
	return s.store.UpdatePlayerStats(players)
}

// Timeline returns the sorted events and derived score of a match.
func (s *Service) Timeline(matchID string) (timeline.Summary, error) {
	match, err := s.store.GetMatch(matchID)
	if err != nil {
		return timeline.Summary{}, err
	}
	events, err := s.store.GetEvents(matchID)
	if err != nil {
		return timeline.Summary{}, fmt.Errorf("failed to load events: %w", err)
	}
	return timeline.Build(*match, events, s.now()), nil
}

// GenerateRecap writes and stores an AI recap of a finished match.
func (s *Service) GenerateRecap(ctx context.Context, matchID string) (string, error) {
	match, err := s.store.GetMatch(matchID)
	if err != nil {
		return "", err
	}
	if match.Status != league.MatchFinished {
		return "", fmt.Errorf("%w: recaps need a finished match, %s is %s", ErrInvalidTransition, matchID, match.Status)
	}
	home, err := s.store.GetTeam(match.HomeTeamID)
	if err != nil {
		return "", fmt.Errorf("home team %s: %w", match.HomeTeamID, err)
	}
	away, err := s.store.GetTeam(match.AwayTeamID)
	if err != nil {
		return "", fmt.Errorf("away team %s: %w", match.AwayTeamID, err)
	}
	events, err := s.store.GetEvents(matchID)
	if err != nil {
		return "", fmt.Errorf("failed to load events: %w", err)
	}

	text, err := s.recap.Generate(ctx, recap.MatchSummary{Match: *match, Home: *home, Away: *away, Events: events})
	if err != nil {
		s.metrics.IncRecapsFailed()
		return "", fmt.Errorf("failed to generate recap: %w", err)
	}
	if err := s.store.SaveRecap(matchID, text); err != nil {
		return "", fmt.Errorf("failed to save recap: %w", err)
	}
	s.metrics.IncRecapsGenerated()
	log.Info("Saved match recap", "matchID", matchID, "length", len(text))
	return text, nil
}

func (s *Service) transition(matchID string, to league.MatchStatus, apply func(*league.Match), dryRun bool, from ...league.MatchStatus) (*league.Match, error) {
	match, err := s.store.GetMatch(matchID)
	if err != nil {
		return nil, err
	}
	allowed := false
	for _, status := range from {
		if match.Status == status {
			allowed = true
			break
		}
	}
	if !allowed {
		return nil, fmt.Errorf("%w: %s is %s, cannot become %s", ErrInvalidTransition, matchID, match.Status, to)
	}
	apply(match)
	match.Status = to
	if dryRun {
		log.Info("[Dry Run] Would have changed match status", "matchID", matchID, "status", to)
		return match, nil
	}
	if err := s.store.UpsertMatch(match); err != nil {
		return nil, fmt.Errorf("failed to update match: %w", err)
	}
	log.Info("Match status changed", "matchID", matchID, "status", to)
	return match, nil
}
