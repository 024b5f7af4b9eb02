package processor

import (
	"fmt"
	"time"

	"github.com/charmbracelet/log"
	"github.com/mauv0809/touchline/internal/league"
	"github.com/mauv0809/touchline/internal/metrics"
	"github.com/mauv0809/touchline/internal/notifier"
	"github.com/mauv0809/touchline/internal/pubsub"
	"github.com/mauv0809/touchline/internal/standings"
)

// New creates a new Processor.
func New(store Store, notifier Notifier, metrics metrics.Metrics, pubsub pubsub.PubSubClient) *Processor {
	return &Processor{
		store:    store,
		pubsub:   pubsub,
		notifier: notifier,
		metrics:  metrics,
		now:      time.Now,
	}
}

// ProcessMatches fetches finished matches that need processing and advances them through the state machine.
func (p *Processor) ProcessMatches(dryRun bool) {
	log.Info("Starting match processing...")
	p.metrics.IncProcessorRuns()
	matches, err := p.store.GetMatchesForProcessing()
	if err != nil {
		log.Error("Failed to get matches for processing", "error", err)
		return
	}

	if len(matches) == 0 {
		log.Info("No matches to process.")
		return
	}

	log.Info("Found matches to process", "count", len(matches))
	for i := range matches {
		startTime := time.Now()
		p.processMatch(&matches[i], dryRun)
		p.metrics.ObserveProcessingDuration(time.Since(startTime).Seconds())
	}
	log.Info("Match processing finished.")
}

func (p *Processor) processMatch(match *league.Match, dryRun bool) {
	if match.NotificationStatus == "" {
		match.NotificationStatus = league.NotificationNew
	}
	log.Info("Processing match", "matchID", match.ID, "initial_status", match.NotificationStatus)
	for {
		currentState := match.NotificationStatus
		log.Debug("Evaluating match state", "matchID", match.ID, "status", currentState)

		switch currentState {
		case league.NotificationNew:
			if !p.withinNotifyWindow(*match) {
				log.Info("Match result is too old to announce. Skipping notification.", "matchID", match.ID)
				p.updateStatus(match, league.NotificationResultNotified, dryRun)
				break
			}
			card, err := p.card(*match)
			if err != nil {
				log.Error("Failed to resolve teams for result notification", "error", err, "matchID", match.ID)
				return
			}
			log.Info("Sending result notification.", "matchID", match.ID)
			if err := p.notifier.SendResultNotification(card, dryRun); err != nil {
				log.Error("Failed to send result notification", "error", err, "matchID", match.ID)
				return
			}
			p.updateStatus(match, league.NotificationResultNotified, dryRun)

		case league.NotificationResultNotified:
			if standings.Counts(*match) {
				log.Info("League result recorded. Requesting standings refresh.", "matchID", match.ID)
				msg := pubsub.StandingsRefreshMessage{TournamentID: match.TournamentID, MatchID: match.ID}
				if dryRun {
					log.Info("[Dry Run] Would have published standings refresh", "matchID", match.ID)
				} else if err := p.pubsub.SendMessage(pubsub.EventStandingsRefresh, msg); err != nil {
					log.Error("Failed to publish standings refresh", "error", err, "matchID", match.ID)
					return
				}
			} else {
				log.Debug("Match does not count towards standings", "matchID", match.ID, "type", match.Type)
			}
			p.updateStatus(match, league.NotificationStandingsPublished, dryRun)

		case league.NotificationStandingsPublished:
			log.Info("Standings published. Marking match as complete.", "matchID", match.ID)
			p.updateStatus(match, league.NotificationCompleted, dryRun)
			p.metrics.IncMatchesProcessed()

		case league.NotificationCompleted:
			log.Debug("Match is complete. No further processing needed.", "matchID", match.ID)
			return

		default:
			log.Warn("Unknown notification status", "status", currentState, "matchID", match.ID)
			return
		}

		// If the status hasn't changed, we're done with this match for now.
		if match.NotificationStatus == currentState {
			log.Debug("Match state did not change. Finished processing for now.", "matchID", match.ID, "status", currentState)
			break
		}
	}
	log.Info("Finished processing match", "matchID", match.ID, "final_status", match.NotificationStatus)
}

func (p *Processor) withinNotifyWindow(match league.Match) bool {
	ref := match.ScheduledAt
	if match.StartedAt != nil {
		ref = *match.StartedAt
	}
	if ref.IsZero() {
		return true
	}
	return p.now().Sub(ref) < notifyWindow
}

func (p *Processor) card(match league.Match) (notifier.MatchCard, error) {
	home, err := p.store.GetTeam(match.HomeTeamID)
	if err != nil {
		return notifier.MatchCard{}, fmt.Errorf("home team %s: %w", match.HomeTeamID, err)
	}
	away, err := p.store.GetTeam(match.AwayTeamID)
	if err != nil {
		return notifier.MatchCard{}, fmt.Errorf("away team %s: %w", match.AwayTeamID, err)
	}
	return notifier.MatchCard{Match: match, Home: *home, Away: *away}, nil
}

// Table computes the current standings, for one tournament or, with an empty
// tournamentID, for every team and match. The title names the table.
func (p *Processor) Table(tournamentID string) (string, []standings.Row, error) {
	teams, err := p.store.GetAllTeams()
	if err != nil {
		return "", nil, fmt.Errorf("failed to load teams: %w", err)
	}
	matches, err := p.store.GetAllMatches()
	if err != nil {
		return "", nil, fmt.Errorf("failed to load matches: %w", err)
	}

	title := "League table"
	var table []league.Team
	if tournamentID == "" {
		table = standings.Compute(teams, matches)
	} else {
		tournament, err := p.store.GetTournament(tournamentID)
		if err != nil {
			return "", nil, err
		}
		title = tournament.Name
		table = standings.ForTournament(*tournament, teams, matches)
	}
	p.metrics.IncStandingsComputed()
	return title, standings.Rows(table), nil
}

// PublishStandings posts the current table to the notifier.
func (p *Processor) PublishStandings(tournamentID string, dryRun bool) error {
	title, rows, err := p.Table(tournamentID)
	if err != nil {
		return err
	}
	log.Info("Publishing standings", "tournamentID", tournamentID, "teams", len(rows))
	return p.notifier.SendStandings(title, rows, dryRun)
}

// NotifyFixture announces a newly scheduled match.
func (p *Processor) NotifyFixture(match league.Match, dryRun bool) error {
	card, err := p.card(match)
	if err != nil {
		return err
	}
	return p.notifier.SendFixtureNotification(card, dryRun)
}

func (p *Processor) updateStatus(match *league.Match, newStatus league.NotificationStatus, dryRun bool) {
	if dryRun {
		log.Info("[Dry Run] Would update match status", "matchID", match.ID, "from", match.NotificationStatus, "to", newStatus)
		match.NotificationStatus = newStatus // Update in-memory for the loop
		return
	}

	err := p.store.UpdateNotificationStatus(match.ID, newStatus)
	if err != nil {
		log.Error("Failed to update notification status", "error", err, "matchID", match.ID)
	} else {
		log.Debug("Successfully updated status", "matchID", match.ID, "from", match.NotificationStatus, "to", newStatus)
		match.NotificationStatus = newStatus // Keep the in-memory object in sync
	}
}
