package handlers

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/charmbracelet/log"
	"github.com/mauv0809/touchline/internal/fixtures"
	"github.com/mauv0809/touchline/internal/formation"
	"github.com/mauv0809/touchline/internal/league"
	"github.com/mauv0809/touchline/internal/recap"
)

// ContextKey is a custom type to avoid key collisions in context.
type ContextKey string

const (
	DryRunKey ContextKey = "dryRun"
)

// maxBodyBytes bounds JSON request bodies.
const maxBodyBytes = 1 << 20

// IsDryRunFromContext is a helper to safely retrieve the dry_run flag from the request context.
func IsDryRunFromContext(r *http.Request) bool {
	dryRun, ok := r.Context().Value(DryRunKey).(bool)
	return ok && dryRun
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		log.Error("Failed to write response", "error", err)
	}
}

func decodeJSON(w http.ResponseWriter, r *http.Request, v any) bool {
	r.Body = http.MaxBytesReader(w, r.Body, maxBodyBytes)
	if err := json.NewDecoder(r.Body).Decode(v); err != nil {
		log.Debug("Rejected request body", "error", err, "path", r.URL.Path)
		http.Error(w, "Invalid JSON", http.StatusBadRequest)
		return false
	}
	return true
}

// statusFor maps domain errors onto HTTP status codes.
func statusFor(err error) int {
	switch {
	case errors.Is(err, league.ErrTeamNotFound),
		errors.Is(err, league.ErrMatchNotFound),
		errors.Is(err, league.ErrTournamentNotFound),
		errors.Is(err, league.ErrPlayerNotFound),
		errors.Is(err, formation.ErrSlotNotFound),
		errors.Is(err, formation.ErrUnknownPreset):
		return http.StatusNotFound
	case errors.Is(err, fixtures.ErrInvalidTransition),
		errors.Is(err, league.ErrPlayerOnOtherTeam),
		errors.Is(err, formation.ErrAlreadyOnField):
		return http.StatusConflict
	case errors.Is(err, fixtures.ErrSameTeam),
		errors.Is(err, fixtures.ErrInvalidMatchType),
		errors.Is(err, fixtures.ErrInvalidEvent),
		errors.Is(err, fixtures.ErrInvalidScore),
		errors.Is(err, formation.ErrNotInRoster),
		errors.Is(err, formation.ErrNoPendingSwap):
		return http.StatusBadRequest
	case errors.Is(err, recap.ErrNotConfigured):
		return http.StatusServiceUnavailable
	default:
		return http.StatusInternalServerError
	}
}

// writeError logs and writes err with the matching status code. Internal
// errors are not echoed to the client.
func writeError(w http.ResponseWriter, msg string, err error) {
	status := statusFor(err)
	if status == http.StatusInternalServerError {
		log.Error(msg, "error", err)
		http.Error(w, msg, status)
		return
	}
	log.Debug(msg, "error", err, "status", status)
	http.Error(w, err.Error(), status)
}
