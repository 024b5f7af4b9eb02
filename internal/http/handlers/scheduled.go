package handlers

import (
	"fmt"
	"net/http"

	"github.com/charmbracelet/log"
	"github.com/mauv0809/touchline/internal/processor"
)

// ProcessMatchesHandler runs the processor once, for external schedulers.
func ProcessMatchesHandler(proc *processor.Processor) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		isDryRun := IsDryRunFromContext(r)
		log.Info("Manual match processing triggered", "dryRun", isDryRun)
		proc.ProcessMatches(isDryRun)
		w.WriteHeader(http.StatusOK)
		fmt.Fprint(w, "Processing complete")
	}
}

// DigestHandler posts the overall standings, or a tournament's with
// ?tournament=ID.
func DigestHandler(proc *processor.Processor) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		tournamentID := r.URL.Query().Get("tournament")
		if err := proc.PublishStandings(tournamentID, IsDryRunFromContext(r)); err != nil {
			writeError(w, "Failed to publish standings", err)
			return
		}
		fmt.Fprint(w, "Standings published")
	}
}
