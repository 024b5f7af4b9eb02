package handlers

import (
	"net/http"
	"strings"
	"time"

	"github.com/charmbracelet/log"
	"github.com/google/uuid"
	"github.com/mauv0809/touchline/internal/league"
)

type teamRequest struct {
	ID        string          `json:"id"`
	Name      string          `json:"name"`
	ShortCode string          `json:"short_code"`
	Sport     string          `json:"sport"`
	LogoURL   string          `json:"logo_url"`
	Roster    []league.Player `json:"roster"`
}

func ListTeamsHandler(store league.LeagueStore) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		teams, err := store.GetAllTeams()
		if err != nil {
			http.Error(w, "Failed to get teams", http.StatusInternalServerError)
			log.Error("Failed to get teams from store", "error", err)
			return
		}
		writeJSON(w, http.StatusOK, teams)
	}
}

// CreateTeamHandler creates a team, or updates it when the ID exists. A
// request without a roster keeps the stored squad.
func CreateTeamHandler(store league.LeagueStore) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req teamRequest
		if !decodeJSON(w, r, &req) {
			return
		}
		if strings.TrimSpace(req.Name) == "" {
			http.Error(w, "Team name is required.", http.StatusBadRequest)
			return
		}
		sport := league.SportFootball
		if req.Sport != "" {
			parsed, ok := league.ParseSportType(req.Sport)
			if !ok {
				http.Error(w, "Unknown sport: "+req.Sport, http.StatusBadRequest)
				return
			}
			sport = parsed
		}
		team := &league.Team{
			ID:        req.ID,
			Name:      strings.TrimSpace(req.Name),
			ShortCode: req.ShortCode,
			Sport:     sport,
			LogoURL:   req.LogoURL,
			Roster:    uniquePlayers(req.Roster),
			CreatedAt: time.Now().UTC(),
		}
		if team.ID == "" {
			team.ID = uuid.New().String()
		}

		if IsDryRunFromContext(r) {
			log.Info("[Dry Run] Would have saved team", "teamID", team.ID)
			writeJSON(w, http.StatusOK, team)
			return
		}
		if err := store.UpsertTeam(team); err != nil {
			writeError(w, "Failed to save team", err)
			return
		}
		saved, err := store.GetTeam(team.ID)
		if err != nil {
			writeError(w, "Failed to load saved team", err)
			return
		}
		log.Info("Saved team", "teamID", saved.ID, "players", len(saved.Roster))
		writeJSON(w, http.StatusCreated, saved)
	}
}

// uniquePlayers assigns missing IDs and drops repeated ones, keeping squad order.
func uniquePlayers(players []league.Player) []league.Player {
	if players == nil {
		return nil
	}
	seen := make(map[string]struct{}, len(players))
	out := make([]league.Player, 0, len(players))
	for _, p := range players {
		if p.ID == "" {
			p.ID = uuid.New().String()
		}
		if _, dup := seen[p.ID]; dup {
			continue
		}
		seen[p.ID] = struct{}{}
		out = append(out, p)
	}
	return out
}

func GetTeamHandler(store league.LeagueStore) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		team, err := store.GetTeam(r.PathValue("teamID"))
		if err != nil {
			writeError(w, "Failed to get team", err)
			return
		}
		writeJSON(w, http.StatusOK, team)
	}
}

func DeleteTeamHandler(store league.LeagueStore) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		teamID := r.PathValue("teamID")
		if IsDryRunFromContext(r) {
			log.Info("[Dry Run] Would have deleted team", "teamID", teamID)
			w.WriteHeader(http.StatusNoContent)
			return
		}
		if err := store.DeleteTeam(teamID); err != nil {
			writeError(w, "Failed to delete team", err)
			return
		}
		w.WriteHeader(http.StatusNoContent)
	}
}

// AddPlayerHandler appends a player to the end of a squad.
func AddPlayerHandler(store league.LeagueStore) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		teamID := r.PathValue("teamID")
		var player league.Player
		if !decodeJSON(w, r, &player) {
			return
		}
		if strings.TrimSpace(player.Name) == "" {
			http.Error(w, "Player name is required.", http.StatusBadRequest)
			return
		}
		if player.ID == "" {
			player.ID = uuid.New().String()
		}
		player.Stats = league.PlayerStats{}

		if IsDryRunFromContext(r) {
			log.Info("[Dry Run] Would have added player", "teamID", teamID, "playerID", player.ID)
			writeJSON(w, http.StatusOK, player)
			return
		}
		if err := store.UpsertPlayer(teamID, player); err != nil {
			writeError(w, "Failed to add player", err)
			return
		}
		log.Info("Added player", "teamID", teamID, "playerID", player.ID)
		writeJSON(w, http.StatusCreated, player)
	}
}

func RemovePlayerHandler(store league.LeagueStore) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		teamID, playerID := r.PathValue("teamID"), r.PathValue("playerID")
		if IsDryRunFromContext(r) {
			log.Info("[Dry Run] Would have removed player", "teamID", teamID, "playerID", playerID)
			w.WriteHeader(http.StatusNoContent)
			return
		}
		if err := store.RemovePlayer(teamID, playerID); err != nil {
			writeError(w, "Failed to remove player", err)
			return
		}
		log.Info("Removed player", "teamID", teamID, "playerID", playerID)
		w.WriteHeader(http.StatusNoContent)
	}
}

type tournamentRequest struct {
	ID      string   `json:"id"`
	Name    string   `json:"name"`
	Sport   string   `json:"sport"`
	TeamIDs []string `json:"team_ids"`
}

func ListTournamentsHandler(store league.LeagueStore) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		tournaments, err := store.GetAllTournaments()
		if err != nil {
			http.Error(w, "Failed to get tournaments", http.StatusInternalServerError)
			log.Error("Failed to get tournaments from store", "error", err)
			return
		}
		writeJSON(w, http.StatusOK, tournaments)
	}
}

func CreateTournamentHandler(store league.LeagueStore) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req tournamentRequest
		if !decodeJSON(w, r, &req) {
			return
		}
		if strings.TrimSpace(req.Name) == "" {
			http.Error(w, "Tournament name is required.", http.StatusBadRequest)
			return
		}
		sport, ok := league.ParseSportType(req.Sport)
		if !ok {
			sport = league.SportFootball
		}
		for _, teamID := range req.TeamIDs {
			if _, err := store.GetTeam(teamID); err != nil {
				writeError(w, "Failed to register tournament team", err)
				return
			}
		}
		tournament := &league.Tournament{ID: req.ID, Name: strings.TrimSpace(req.Name), Sport: sport, TeamIDs: req.TeamIDs}
		if tournament.ID == "" {
			tournament.ID = uuid.New().String()
		}
		if IsDryRunFromContext(r) {
			log.Info("[Dry Run] Would have saved tournament", "tournamentID", tournament.ID)
			writeJSON(w, http.StatusOK, tournament)
			return
		}
		if err := store.UpsertTournament(tournament); err != nil {
			writeError(w, "Failed to save tournament", err)
			return
		}
		log.Info("Saved tournament", "tournamentID", tournament.ID, "teams", len(tournament.TeamIDs))
		writeJSON(w, http.StatusCreated, tournament)
	}
}
