package handlers

import (
	"encoding/json"
	"net/http"
	"strings"

	"github.com/charmbracelet/log"
	"github.com/mauv0809/touchline/internal/league"
	"github.com/mauv0809/touchline/internal/metrics"
	"github.com/mauv0809/touchline/internal/notifier"
	"github.com/mauv0809/touchline/internal/processor"
	"github.com/slack-go/slack"
)

// respondWithSlackMsg is a helper to format and write a Slack message as an HTTP response.
func respondWithSlackMsg(w http.ResponseWriter, msg slack.Message) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusOK)
	if err := json.NewEncoder(w).Encode(msg); err != nil {
		log.Error("Failed to encode slack message to JSON", "error", err)
	}
}

// findTournament matches the command text against tournament IDs and names,
// ignoring case.
func findTournament(tournaments []league.Tournament, query string) (league.Tournament, bool) {
	for _, t := range tournaments {
		if t.ID == query || strings.EqualFold(t.Name, query) {
			return t, true
		}
	}
	return league.Tournament{}, false
}

// StandingsCommandHandler answers /standings [tournament].
func StandingsCommandHandler(store league.LeagueStore, proc *processor.Processor, notifier notifier.Notifier, usage metrics.MetricsStore) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if err := r.ParseForm(); err != nil {
			http.Error(w, "Error parsing form", http.StatusBadRequest)
			return
		}
		usage.Increment(metrics.KeySlashCommands)
		query := strings.TrimSpace(r.FormValue("text"))
		log.Info("Received standings command", "query", query, "user", r.FormValue("user_name"))

		var msg any
		tournamentID := ""
		if query != "" {
			tournaments, err := store.GetAllTournaments()
			if err != nil {
				http.Error(w, "Failed to get tournaments", http.StatusInternalServerError)
				log.Error("Failed to get tournaments from store", "error", err)
				return
			}
			tournament, ok := findTournament(tournaments, query)
			if !ok {
				log.Warn("Could not find tournament", "query", query)
				msg, err = notifier.FormatNotFoundResponse(query)
				if err != nil {
					http.Error(w, "Failed to format response", http.StatusInternalServerError)
					return
				}
			}
			tournamentID = tournament.ID
		}

		if msg == nil {
			title, rows, err := proc.Table(tournamentID)
			if err != nil {
				http.Error(w, "Failed to compute standings", http.StatusInternalServerError)
				log.Error("Failed to compute standings", "error", err)
				return
			}
			msg, err = notifier.FormatStandingsResponse(title, rows)
			if err != nil {
				http.Error(w, "Failed to format standings", http.StatusInternalServerError)
				log.Error("Failed to format standings", "error", err)
				return
			}
		}

		slackMsg, ok := msg.(slack.Message)
		if !ok {
			http.Error(w, "Invalid message format for Slack", http.StatusInternalServerError)
			log.Error("Failed to cast message to slack.Message")
			return
		}
		respondWithSlackMsg(w, slackMsg)
	}
}
