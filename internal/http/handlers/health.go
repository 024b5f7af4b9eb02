package handlers

import (
	"fmt"
	"net/http"

	"github.com/charmbracelet/log"
	"github.com/mauv0809/touchline/internal/league"
	"github.com/mauv0809/touchline/internal/metrics"
)

func HealthCheckHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		log.Debug("Received health check request")
		w.WriteHeader(http.StatusOK)
		fmt.Fprintf(w, "OK!")
	}
}

func ClearStoreHandler(store league.LeagueStore) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if IsDryRunFromContext(r) {
			log.Info("[Dry Run] Would have cleared the store")
			fmt.Fprint(w, "Dry run: store not cleared")
			return
		}
		log.Info("Received request to clear entire store")
		store.Clear()
		w.WriteHeader(http.StatusOK)
		fmt.Fprint(w, "Store cleared!")
		log.Info("Store cleared successfully")
	}
}

// UsageHandler reports the persisted usage counters.
func UsageHandler(store metrics.MetricsStore) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		counters, err := store.GetAll()
		if err != nil {
			http.Error(w, "Failed to get usage counters", http.StatusInternalServerError)
			log.Error("Failed to get usage counters", "error", err)
			return
		}
		writeJSON(w, http.StatusOK, counters)
	}
}
