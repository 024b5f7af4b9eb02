package handlers

import (
	"net/http"

	"github.com/charmbracelet/log"
	"github.com/mauv0809/touchline/internal/processor"
	"github.com/mauv0809/touchline/internal/pubsub"
)

// StandingsRefreshHandler receives standings-refresh push deliveries and
// posts the affected table.
func StandingsRefreshHandler(proc *processor.Processor, pubsubClient pubsub.PubSubClient) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		rawData, err := pubsub.DecodePushRequest(r.Body)
		if err != nil {
			log.Error("Failed to decode push request", "error", err)
			http.Error(w, "Invalid push request", http.StatusBadRequest)
			return
		}
		var msg pubsub.StandingsRefreshMessage
		if err := pubsubClient.ProcessMessage(rawData, &msg); err != nil {
			log.Error("Failed to decode standings refresh message", "error", err)
			http.Error(w, "Invalid message payload", http.StatusBadRequest)
			return
		}
		log.Info("Received standings refresh", "tournamentID", msg.TournamentID, "matchID", msg.MatchID)
		if err := proc.PublishStandings(msg.TournamentID, IsDryRunFromContext(r)); err != nil {
			// Acknowledge anyway; a redelivery would post the same failing table.
			log.Error("Failed to publish standings", "error", err, "tournamentID", msg.TournamentID)
		}
		w.Write([]byte("OK"))
	}
}

// MatchFinishedHandler receives match-finished push deliveries and runs the
// processor so the result is announced without waiting for the next tick.
func MatchFinishedHandler(proc *processor.Processor, pubsubClient pubsub.PubSubClient) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		rawData, err := pubsub.DecodePushRequest(r.Body)
		if err != nil {
			log.Error("Failed to decode push request", "error", err)
			http.Error(w, "Invalid push request", http.StatusBadRequest)
			return
		}
		var msg pubsub.MatchFinishedMessage
		if err := pubsubClient.ProcessMessage(rawData, &msg); err != nil {
			log.Error("Failed to decode match finished message", "error", err)
			http.Error(w, "Invalid message payload", http.StatusBadRequest)
			return
		}
		log.Info("Received match finished", "matchID", msg.MatchID, "score", []int{msg.HomeScore, msg.AwayScore})
		proc.ProcessMatches(IsDryRunFromContext(r))
		w.Write([]byte("OK"))
	}
}
