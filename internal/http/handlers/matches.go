package handlers

import (
	"net/http"

	"github.com/charmbracelet/log"
	"github.com/mauv0809/touchline/internal/fixtures"
	"github.com/mauv0809/touchline/internal/league"
	"github.com/mauv0809/touchline/internal/metrics"
	"github.com/mauv0809/touchline/internal/processor"
)

func ListMatchesHandler(store league.LeagueStore) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		matches, err := store.GetAllMatches()
		if err != nil {
			http.Error(w, "Failed to get matches", http.StatusInternalServerError)
			log.Error("Failed to get matches from store", "error", err)
			return
		}
		if status := r.URL.Query().Get("status"); status != "" {
			filtered := matches[:0]
			for _, m := range matches {
				if string(m.Status) == status {
					filtered = append(filtered, m)
				}
			}
			matches = filtered
		}
		writeJSON(w, http.StatusOK, matches)
	}
}

func GetMatchHandler(store league.LeagueStore) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		match, err := store.GetMatch(r.PathValue("matchID"))
		if err != nil {
			writeError(w, "Failed to get match", err)
			return
		}
		writeJSON(w, http.StatusOK, match)
	}
}

// ChallengeHandler creates a match awaiting acceptance.
func ChallengeHandler(service *fixtures.Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req fixtures.Challenge
		if !decodeJSON(w, r, &req) {
			return
		}
		if IsDryRunFromContext(r) {
			log.Info("[Dry Run] Would have created match challenge", "home", req.HomeTeamID, "away", req.AwayTeamID)
			writeJSON(w, http.StatusOK, req)
			return
		}
		match, err := service.Challenge(req)
		if err != nil {
			writeError(w, "Failed to create match", err)
			return
		}
		writeJSON(w, http.StatusCreated, match)
	}
}

// AcceptHandler schedules a match and announces the fixture.
func AcceptHandler(service *fixtures.Service, proc *processor.Processor) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		dryRun := IsDryRunFromContext(r)
		match, err := service.Accept(r.PathValue("matchID"), dryRun)
		if err != nil {
			writeError(w, "Failed to accept match", err)
			return
		}
		if err := proc.NotifyFixture(*match, dryRun); err != nil {
			log.Error("Failed to announce fixture", "error", err, "matchID", match.ID)
		}
		writeJSON(w, http.StatusOK, match)
	}
}

func DeclineHandler(service *fixtures.Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if err := service.Decline(r.PathValue("matchID"), IsDryRunFromContext(r)); err != nil {
			writeError(w, "Failed to decline match", err)
			return
		}
		w.WriteHeader(http.StatusNoContent)
	}
}

func StartHandler(service *fixtures.Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		match, err := service.Start(r.PathValue("matchID"), IsDryRunFromContext(r))
		if err != nil {
			writeError(w, "Failed to start match", err)
			return
		}
		writeJSON(w, http.StatusOK, match)
	}
}

type finishRequest struct {
	HomeScore int `json:"home_score"`
	AwayScore int `json:"away_score"`
}

// FinishHandler ends a match. The body is optional when goals were recorded
// as events.
func FinishHandler(service *fixtures.Service, usage metrics.MetricsStore) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req finishRequest
		if r.ContentLength != 0 && !decodeJSON(w, r, &req) {
			return
		}
		dryRun := IsDryRunFromContext(r)
		match, err := service.Finish(r.PathValue("matchID"), req.HomeScore, req.AwayScore, dryRun)
		if err != nil {
			writeError(w, "Failed to finish match", err)
			return
		}
		if !dryRun {
			usage.Increment(metrics.KeyMatchesFinished)
		}
		writeJSON(w, http.StatusOK, match)
	}
}

func RecordEventHandler(service *fixtures.Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var event league.MatchEvent
		if !decodeJSON(w, r, &event) {
			return
		}
		dryRun := IsDryRunFromContext(r)
		recorded, err := service.RecordEvent(r.PathValue("matchID"), event, dryRun)
		if err != nil {
			writeError(w, "Failed to record event", err)
			return
		}
		if dryRun {
			writeJSON(w, http.StatusOK, recorded)
			return
		}
		writeJSON(w, http.StatusCreated, recorded)
	}
}

func TimelineHandler(service *fixtures.Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		summary, err := service.Timeline(r.PathValue("matchID"))
		if err != nil {
			writeError(w, "Failed to build timeline", err)
			return
		}
		writeJSON(w, http.StatusOK, summary)
	}
}

func RecapHandler(service *fixtures.Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		text, err := service.GenerateRecap(r.Context(), r.PathValue("matchID"))
		if err != nil {
			writeError(w, "Failed to generate recap", err)
			return
		}
		writeJSON(w, http.StatusOK, map[string]string{"recap": text})
	}
}
