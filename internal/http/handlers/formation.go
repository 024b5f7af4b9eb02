package handlers

import (
	"fmt"
	"net/http"

	"github.com/charmbracelet/log"
	"github.com/mauv0809/touchline/internal/formation"
	"github.com/mauv0809/touchline/internal/league"
	"github.com/mauv0809/touchline/internal/metrics"
	"github.com/mauv0809/touchline/internal/pubsub"
)

// FormationView is a team's formation together with its bench.
type FormationView struct {
	TeamID    string                    `json:"team_id"`
	MatchID   string                    `json:"match_id,omitempty"`
	Sport     league.SportType          `json:"sport"`
	Positions []league.TacticalPosition `json:"positions"`
	Bench     []league.Player           `json:"bench"`
}

// FormationService loads formations into an engine and persists the result
// of each edit.
type FormationService struct {
	store   league.LeagueStore
	pubsub  pubsub.PubSubClient
	metrics metrics.Metrics
	usage   metrics.MetricsStore
}

func NewFormationService(store league.LeagueStore, pubsub pubsub.PubSubClient, metrics metrics.Metrics, usage metrics.MetricsStore) *FormationService {
	return &FormationService{store: store, pubsub: pubsub, metrics: metrics, usage: usage}
}

// load builds an engine for the team. A match formation that has never been
// saved starts from the team's default formation.
func (s *FormationService) load(teamID, matchID string) (*league.Team, *formation.Engine, error) {
	team, err := s.store.GetTeam(teamID)
	if err != nil {
		return nil, nil, err
	}
	var positions []league.TacticalPosition
	if matchID != "" {
		match, err := s.store.GetMatch(matchID)
		if err != nil {
			return nil, nil, err
		}
		if !match.Involves(teamID) {
			return nil, nil, fmt.Errorf("%w: team %s does not play in %s", league.ErrMatchNotFound, teamID, matchID)
		}
		if positions, err = s.store.GetFormation(teamID, matchID); err != nil {
			return nil, nil, err
		}
	}
	if positions == nil {
		positions = team.DefaultFormation
	}
	return team, formation.New(team.Sport, team.Roster, onRoster(positions, team.Roster)), nil
}

// onRoster drops occupied slots whose player has left the squad.
func onRoster(positions []league.TacticalPosition, roster []league.Player) []league.TacticalPosition {
	ids := make(map[string]struct{}, len(roster))
	for _, p := range roster {
		ids[p.ID] = struct{}{}
	}
	out := make([]league.TacticalPosition, 0, len(positions))
	for _, p := range positions {
		if !p.IsEmpty() {
			if _, ok := ids[p.PlayerID]; !ok {
				continue
			}
		}
		out = append(out, p)
	}
	return out
}

func (s *FormationService) save(team *league.Team, matchID, operation string, engine *formation.Engine, dryRun bool) error {
	positions := engine.Positions()
	if dryRun {
		log.Info("[Dry Run] Would have saved formation", "teamID", team.ID, "matchID", matchID, "operation", operation)
		return nil
	}
	if err := s.store.SaveFormation(team.ID, matchID, positions); err != nil {
		return fmt.Errorf("failed to save formation: %w", err)
	}
	s.metrics.IncFormationUpdates(operation)
	s.usage.Increment(metrics.KeyFormationsSaved)
	log.Info("Saved formation", "teamID", team.ID, "matchID", matchID, "operation", operation, "slots", len(positions))

	msg := pubsub.FormationUpdatedMessage{TeamID: team.ID, MatchID: matchID, Operation: operation, Slots: len(positions)}
	if err := s.pubsub.SendMessage(pubsub.EventFormationUpdated, msg); err != nil {
		log.Error("Failed to publish formation update", "error", err, "teamID", team.ID)
	}
	return nil
}

func view(team *league.Team, matchID string, engine *formation.Engine) FormationView {
	return FormationView{
		TeamID:    team.ID,
		MatchID:   matchID,
		Sport:     team.Sport,
		Positions: engine.Positions(),
		Bench:     engine.Bench(),
	}
}

// edit runs one engine operation against the requested formation and saves
// the outcome.
func (s *FormationService) edit(w http.ResponseWriter, r *http.Request, operation string, apply func(*league.Team, *formation.Engine) error) {
	teamID, matchID := r.PathValue("teamID"), r.URL.Query().Get("match")
	team, engine, err := s.load(teamID, matchID)
	if err != nil {
		writeError(w, "Failed to load formation", err)
		return
	}
	if err := apply(team, engine); err != nil {
		writeError(w, "Failed to update formation", err)
		return
	}
	if err := s.save(team, matchID, operation, engine, IsDryRunFromContext(r)); err != nil {
		writeError(w, "Failed to save formation", err)
		return
	}
	writeJSON(w, http.StatusOK, view(team, matchID, engine))
}

func (s *FormationService) GetHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		matchID := r.URL.Query().Get("match")
		team, engine, err := s.load(r.PathValue("teamID"), matchID)
		if err != nil {
			writeError(w, "Failed to load formation", err)
			return
		}
		writeJSON(w, http.StatusOK, view(team, matchID, engine))
	}
}

type presetRequest struct {
	Preset string `json:"preset"`
}

func (s *FormationService) PresetHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req presetRequest
		if !decodeJSON(w, r, &req) {
			return
		}
		s.edit(w, r, "preset", func(team *league.Team, e *formation.Engine) error {
			_, err := e.ApplyPreset(req.Preset, team.Roster)
			return err
		})
	}
}

type moveRequest struct {
	ID string  `json:"id"`
	X  float64 `json:"x"`
	Y  float64 `json:"y"`
}

func (s *FormationService) MoveHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req moveRequest
		if !decodeJSON(w, r, &req) {
			return
		}
		s.edit(w, r, "move", func(_ *league.Team, e *formation.Engine) error {
			if !e.Move(req.ID, formation.Clamp(req.X), formation.Clamp(req.Y)) {
				return formation.ErrSlotNotFound
			}
			return nil
		})
	}
}

type swapRequest struct {
	Slot  string `json:"slot"`
	Bench string `json:"bench"`
}

func (s *FormationService) SwapHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req swapRequest
		if !decodeJSON(w, r, &req) {
			return
		}
		s.edit(w, r, "swap", func(_ *league.Team, e *formation.Engine) error {
			return e.Swap(req.Slot, req.Bench)
		})
	}
}

type clearRequest struct {
	ID string `json:"id"`
}

func (s *FormationService) ClearHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req clearRequest
		if !decodeJSON(w, r, &req) {
			return
		}
		s.edit(w, r, "clear", func(_ *league.Team, e *formation.Engine) error {
			if !e.ClearSlot(req.ID) {
				return formation.ErrSlotNotFound
			}
			return nil
		})
	}
}

type slotRequest struct {
	X float64 `json:"x"`
	Y float64 `json:"y"`
}

func (s *FormationService) AddSlotHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req slotRequest
		if !decodeJSON(w, r, &req) {
			return
		}
		s.edit(w, r, "add_slot", func(_ *league.Team, e *formation.Engine) error {
			e.AddEmptySlot(formation.Clamp(req.X), formation.Clamp(req.Y))
			return nil
		})
	}
}

// PresetsHandler lists the preset catalogue of a sport. Unknown sports get
// the default catalogue.
func PresetsHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, http.StatusOK, formation.CatalogueFor(r.URL.Query().Get("sport")))
	}
}
