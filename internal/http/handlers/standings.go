package handlers

import (
	"net/http"

	"github.com/mauv0809/touchline/internal/metrics"
	"github.com/mauv0809/touchline/internal/processor"
	"github.com/mauv0809/touchline/internal/standings"
)

type standingsResponse struct {
	Title string          `json:"title"`
	Rows  []standings.Row `json:"rows"`
}

// StandingsHandler serves the overall table, or a tournament's table when the
// route carries a tournamentID.
func StandingsHandler(proc *processor.Processor, usage metrics.MetricsStore) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		usage.Increment(metrics.KeyStandingsRequests)
		title, rows, err := proc.Table(r.PathValue("tournamentID"))
		if err != nil {
			writeError(w, "Failed to compute standings", err)
			return
		}
		writeJSON(w, http.StatusOK, standingsResponse{Title: title, Rows: rows})
	}
}
