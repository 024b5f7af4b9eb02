package league

import (
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/charmbracelet/log"
	"github.com/vmihailenco/msgpack/v5"
)

// New creates a new LeagueStore.
func New(db *sql.DB) LeagueStore {
	return &store{
		db: db,
	}
}

// UpsertTeam inserts or updates a team. A nil Roster keeps the stored squad.
// A non-nil Roster becomes the squad in slice order: listed players are
// added or updated, unlisted ones are removed, and stored stats are kept.
func (s *store) UpsertTeam(team *Team) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if team.CreatedAt.IsZero() {
		team.CreatedAt = time.Now().UTC()
	}

	tx, err := s.db.Begin()
	if err != nil {
		return err
	}

	_, err = tx.Exec(`
		INSERT INTO teams (id, name, short_code, sport, logo_url, created_at)
		VALUES (?, ?, ?, ?, ?, ?)
		ON CONFLICT(id) DO UPDATE SET
			name = excluded.name,
			short_code = excluded.short_code,
			sport = excluded.sport,
			logo_url = excluded.logo_url;
	`, team.ID, team.Name, team.ShortCode, team.Sport, team.LogoURL, toUnix(team.CreatedAt))
	if err != nil {
		tx.Rollback()
		return fmt.Errorf("failed to upsert team %s: %w", team.ID, err)
	}

	if team.Roster != nil {
		if err := syncRoster(tx, team.ID, team.Roster); err != nil {
			tx.Rollback()
			return err
		}
	}

	if err := tx.Commit(); err != nil {
		return err
	}
	log.Info("Upserted team", "teamID", team.ID, "name", team.Name, "roster", len(team.Roster))
	return nil
}

func syncRoster(tx *sql.Tx, teamID string, roster []Player) error {
	stmt, err := tx.Prepare(`
		INSERT INTO players (id, team_id, name, shirt_number, position, squad_order)
		VALUES (?, ?, ?, ?, ?, ?)
		ON CONFLICT(id) DO UPDATE SET
			name = excluded.name,
			shirt_number = excluded.shirt_number,
			position = excluded.position,
			squad_order = excluded.squad_order;
	`)
	if err != nil {
		return err
	}
	defer stmt.Close()

	keep := make(map[string]bool, len(roster))
	for i, p := range roster {
		if err := checkOwner(tx, teamID, p.ID); err != nil {
			return err
		}
		if _, err := stmt.Exec(p.ID, teamID, p.Name, p.ShirtNumber, p.Position, i); err != nil {
			return fmt.Errorf("failed to upsert player %s: %w", p.ID, err)
		}
		keep[p.ID] = true
	}

	rows, err := tx.Query("SELECT id FROM players WHERE team_id = ?", teamID)
	if err != nil {
		return err
	}
	var departed []string
	for rows.Next() {
		var id string
		if err := rows.Scan(&id); err != nil {
			rows.Close()
			return err
		}
		if !keep[id] {
			departed = append(departed, id)
		}
	}
	rows.Close()
	if err := rows.Err(); err != nil {
		return err
	}

	for _, id := range departed {
		if _, err := tx.Exec("DELETE FROM players WHERE id = ? AND team_id = ?", id, teamID); err != nil {
			return fmt.Errorf("failed to remove player %s: %w", id, err)
		}
	}
	if len(departed) > 0 {
		log.Debug("Removed departed players", "teamID", teamID, "players", departed)
	}
	return nil
}

// checkOwner fails when the player is registered with a different team.
func checkOwner(q interface {
	QueryRow(query string, args ...any) *sql.Row
}, teamID, playerID string) error {
	var owner string
	err := q.QueryRow("SELECT team_id FROM players WHERE id = ?", playerID).Scan(&owner)
	if errors.Is(err, sql.ErrNoRows) {
		return nil
	}
	if err != nil {
		return err
	}
	if owner != teamID {
		return fmt.Errorf("%w: %s plays for %s", ErrPlayerOnOtherTeam, playerID, owner)
	}
	return nil
}

// GetTeam returns a team with its roster and default formation.
func (s *store) GetTeam(teamID string) (*Team, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	team, err := s.scanTeam(s.db.QueryRow(`
		SELECT id, name, short_code, sport, logo_url, created_at
		FROM teams WHERE id = ?
	`, teamID))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrTeamNotFound
		}
		log.Error("Failed to query team", "error", err, "teamID", teamID)
		return nil, fmt.Errorf("database error: %w", err)
	}

	rosters, err := s.loadRosters(teamID)
	if err != nil {
		return nil, err
	}
	team.Roster = rosters[teamID]

	team.DefaultFormation, err = s.loadFormation(teamID, "")
	if err != nil {
		return nil, err
	}
	return team, nil
}

// GetAllTeams returns every team with its roster, in registration order.
func (s *store) GetAllTeams() ([]Team, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	rows, err := s.db.Query(`
		SELECT id, name, short_code, sport, logo_url, created_at
		FROM teams ORDER BY created_at, id
	`)
	if err != nil {
		log.Error("Failed to query all teams", "error", err)
		return nil, err
	}
	defer rows.Close()

	var teams []Team
	for rows.Next() {
		team, err := s.scanTeam(rows)
		if err != nil {
			log.Error("Failed to scan team row", "error", err)
			continue
		}
		teams = append(teams, *team)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}

	rosters, err := s.loadRosters("")
	if err != nil {
		return nil, err
	}
	for i := range teams {
		teams[i].Roster = rosters[teams[i].ID]
	}
	return teams, nil
}

func (s *store) DeleteTeam(teamID string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	res, err := s.db.Exec("DELETE FROM teams WHERE id = ?", teamID)
	if err != nil {
		return err
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return ErrTeamNotFound
	}
	log.Info("Deleted team", "teamID", teamID)
	return nil
}

// UpsertPlayer adds a player to the end of a team's squad, or updates the
// player's details in place. Stats are left alone on update. A player
// registered with another team is rejected with ErrPlayerOnOtherTeam.
func (s *store) UpsertPlayer(teamID string, player Player) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	var exists bool
	if err := s.db.QueryRow("SELECT EXISTS(SELECT 1 FROM teams WHERE id = ?)", teamID).Scan(&exists); err != nil {
		return err
	}
	if !exists {
		return ErrTeamNotFound
	}

	if err := checkOwner(s.db, teamID, player.ID); err != nil {
		return err
	}

	_, err := s.db.Exec(`
		INSERT INTO players (id, team_id, name, shirt_number, position, squad_order)
		VALUES (?, ?, ?, ?, ?, (SELECT COALESCE(MAX(squad_order) + 1, 0) FROM players WHERE team_id = ?))
		ON CONFLICT(id) DO UPDATE SET
			name = excluded.name,
			shirt_number = excluded.shirt_number,
			position = excluded.position;
	`, player.ID, teamID, player.Name, player.ShirtNumber, player.Position, teamID)
	if err != nil {
		log.Error("Failed to upsert player", "error", err, "playerID", player.ID)
		return err
	}
	log.Info("Upserted player", "teamID", teamID, "playerID", player.ID, "name", player.Name)
	return nil
}

func (s *store) RemovePlayer(teamID, playerID string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	res, err := s.db.Exec("DELETE FROM players WHERE id = ? AND team_id = ?", playerID, teamID)
	if err != nil {
		return err
	}
	if n, _ := res.RowsAffected(); n > 0 {
		log.Info("Removed player", "teamID", teamID, "playerID", playerID)
		return nil
	}

	var exists bool
	if err := s.db.QueryRow("SELECT EXISTS(SELECT 1 FROM teams WHERE id = ?)", teamID).Scan(&exists); err != nil {
		return err
	}
	if !exists {
		return ErrTeamNotFound
	}
	return ErrPlayerNotFound
}

// UpdatePlayerStats overwrites the stored stats of each player.
func (s *store) UpdatePlayerStats(players []Player) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	tx, err := s.db.Begin()
	if err != nil {
		return err
	}
	stmt, err := tx.Prepare(`
		UPDATE players SET goals = ?, assists = ?, yellow_cards = ?, red_cards = ?, matches_played = ?
		WHERE id = ?
	`)
	if err != nil {
		tx.Rollback()
		return err
	}
	defer stmt.Close()

	for _, p := range players {
		if _, err := stmt.Exec(p.Stats.Goals, p.Stats.Assists, p.Stats.YellowCards, p.Stats.RedCards, p.Stats.MatchesPlayed, p.ID); err != nil {
			tx.Rollback()
			return fmt.Errorf("failed to update stats of player %s: %w", p.ID, err)
		}
	}
	return tx.Commit()
}

func (s *store) UpsertTournament(tournament *Tournament) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	tx, err := s.db.Begin()
	if err != nil {
		return err
	}
	_, err = tx.Exec(`
		INSERT INTO tournaments (id, name, sport) VALUES (?, ?, ?)
		ON CONFLICT(id) DO UPDATE SET name = excluded.name, sport = excluded.sport;
	`, tournament.ID, tournament.Name, tournament.Sport)
	if err != nil {
		tx.Rollback()
		return err
	}
	if _, err := tx.Exec("DELETE FROM tournament_teams WHERE tournament_id = ?", tournament.ID); err != nil {
		tx.Rollback()
		return err
	}
	for i, teamID := range tournament.TeamIDs {
		_, err := tx.Exec("INSERT INTO tournament_teams (tournament_id, team_id, position) VALUES (?, ?, ?)", tournament.ID, teamID, i)
		if err != nil {
			tx.Rollback()
			return fmt.Errorf("failed to register team %s: %w", teamID, err)
		}
	}
	if err := tx.Commit(); err != nil {
		return err
	}
	log.Info("Upserted tournament", "tournamentID", tournament.ID, "teams", len(tournament.TeamIDs))
	return nil
}

func (s *store) GetTournament(tournamentID string) (*Tournament, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	var t Tournament
	err := s.db.QueryRow("SELECT id, name, sport FROM tournaments WHERE id = ?", tournamentID).Scan(&t.ID, &t.Name, &t.Sport)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrTournamentNotFound
		}
		return nil, fmt.Errorf("database error: %w", err)
	}
	t.TeamIDs, err = s.loadTournamentTeams(tournamentID)
	if err != nil {
		return nil, err
	}
	return &t, nil
}

func (s *store) GetAllTournaments() ([]Tournament, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	rows, err := s.db.Query("SELECT id, name, sport FROM tournaments ORDER BY name")
	if err != nil {
		return nil, err
	}
	var tournaments []Tournament
	for rows.Next() {
		var t Tournament
		if err := rows.Scan(&t.ID, &t.Name, &t.Sport); err != nil {
			log.Error("Failed to scan tournament row", "error", err)
			continue
		}
		tournaments = append(tournaments, t)
	}
	rows.Close()

	for i := range tournaments {
		tournaments[i].TeamIDs, err = s.loadTournamentTeams(tournaments[i].ID)
		if err != nil {
			return nil, err
		}
	}
	return tournaments, nil
}

func (s *store) loadTournamentTeams(tournamentID string) ([]string, error) {
	rows, err := s.db.Query("SELECT team_id FROM tournament_teams WHERE tournament_id = ? ORDER BY position", tournamentID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var ids []string
	for rows.Next() {
		var id string
		if err := rows.Scan(&id); err != nil {
			return nil, err
		}
		ids = append(ids, id)
	}
	return ids, rows.Err()
}

// UpsertMatch inserts a new match or updates an existing one. It does not
// change the notification status or recap of an existing match.
func (s *store) UpsertMatch(match *Match) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	status := match.NotificationStatus
	if status == "" {
		status = NotificationNew
	}
	var startedAt sql.NullInt64
	if match.StartedAt != nil {
		startedAt = sql.NullInt64{Int64: toUnix(*match.StartedAt), Valid: true}
	}

	_, err := s.db.Exec(`
		INSERT INTO matches (id, tournament_id, home_team_id, away_team_id, status, match_type, home_score, away_score, arena_name, scheduled_at, started_at, period, notification_status, recap)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
		ON CONFLICT(id) DO UPDATE SET
			tournament_id = excluded.tournament_id,
			home_team_id = excluded.home_team_id,
			away_team_id = excluded.away_team_id,
			status = excluded.status,
			match_type = excluded.match_type,
			home_score = excluded.home_score,
			away_score = excluded.away_score,
			arena_name = excluded.arena_name,
			scheduled_at = excluded.scheduled_at,
			started_at = excluded.started_at,
			period = excluded.period;
	`, match.ID, match.TournamentID, match.HomeTeamID, match.AwayTeamID, match.Status, match.Type,
		match.HomeScore, match.AwayScore, match.ArenaName, toUnix(match.ScheduledAt), startedAt, match.Period,
		status, match.Recap)
	if err != nil {
		log.Error("Failed to upsert match", "error", err, "matchID", match.ID)
		return err
	}
	return nil
}

const matchColumns = `id, tournament_id, home_team_id, away_team_id, status, match_type, home_score, away_score, arena_name, scheduled_at, started_at, period, notification_status, recap`

func (s *store) GetMatch(matchID string) (*Match, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	match, err := s.scanMatch(s.db.QueryRow("SELECT "+matchColumns+" FROM matches WHERE id = ?", matchID))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrMatchNotFound
		}
		return nil, fmt.Errorf("database error: %w", err)
	}
	return match, nil
}

// GetAllMatches retrieves all matches, oldest first.
func (s *store) GetAllMatches() ([]Match, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.queryMatches("SELECT " + matchColumns + " FROM matches ORDER BY scheduled_at, id")
}

func (s *store) DeleteMatch(matchID string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	res, err := s.db.Exec("DELETE FROM matches WHERE id = ?", matchID)
	if err != nil {
		return err
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return ErrMatchNotFound
	}
	return nil
}

// GetMatchesForProcessing retrieves finished matches whose notifications
// have not completed.
func (s *store) GetMatchesForProcessing() ([]Match, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.queryMatches("SELECT "+matchColumns+" FROM matches WHERE status = ? AND notification_status != ? ORDER BY scheduled_at, id",
		MatchFinished, NotificationCompleted)
}

// UpdateNotificationStatus transitions a match to a new notification state.
func (s *store) UpdateNotificationStatus(matchID string, status NotificationStatus) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	_, err := s.db.Exec("UPDATE matches SET notification_status = ? WHERE id = ?", status, matchID)
	return err
}

func (s *store) SaveRecap(matchID, recap string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	res, err := s.db.Exec("UPDATE matches SET recap = ? WHERE id = ?", recap, matchID)
	if err != nil {
		return err
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return ErrMatchNotFound
	}
	return nil
}

func (s *store) queryMatches(query string, args ...any) ([]Match, error) {
	rows, err := s.db.Query(query, args...)
	if err != nil {
		log.Error("Failed to query matches", "error", err)
		return nil, err
	}
	defer rows.Close()

	var matches []Match
	for rows.Next() {
		match, err := s.scanMatch(rows)
		if err != nil {
			log.Error("Failed to scan match row", "error", err)
			continue
		}
		matches = append(matches, *match)
	}
	return matches, rows.Err()
}

// scanMatch is a helper function to scan a single match row.
func (s *store) scanMatch(scanner interface{ Scan(...any) error }) (*Match, error) {
	var match Match
	var scheduledAt int64
	var startedAt sql.NullInt64
	err := scanner.Scan(
		&match.ID, &match.TournamentID, &match.HomeTeamID, &match.AwayTeamID, &match.Status, &match.Type,
		&match.HomeScore, &match.AwayScore, &match.ArenaName, &scheduledAt, &startedAt, &match.Period,
		&match.NotificationStatus, &match.Recap,
	)
	if err != nil {
		return nil, err
	}
	match.ScheduledAt = fromUnix(scheduledAt)
	if startedAt.Valid {
		started := fromUnix(startedAt.Int64)
		match.StartedAt = &started
	}
	return &match, nil
}

func (s *store) AddEvent(event *MatchEvent) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if event.CreatedAt.IsZero() {
		event.CreatedAt = time.Now().UTC()
	}
	_, err := s.db.Exec(`
		INSERT INTO match_events (id, match_id, event_type, team_id, player_id, assist_player_id, period, minute, created_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)
	`, event.ID, event.MatchID, event.Type, event.TeamID, event.PlayerID, event.AssistPlayerID,
		event.Period, event.Minute, event.CreatedAt.UnixMilli())
	if err != nil {
		log.Error("Failed to add match event", "error", err, "matchID", event.MatchID)
		return err
	}
	log.Debug("Recorded match event", "matchID", event.MatchID, "type", event.Type, "minute", event.Minute)
	return nil
}

func (s *store) GetEvents(matchID string) ([]MatchEvent, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	rows, err := s.db.Query(`
		SELECT id, match_id, event_type, team_id, player_id, assist_player_id, period, minute, created_at
		FROM match_events WHERE match_id = ?
		ORDER BY period, minute, created_at
	`, matchID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var events []MatchEvent
	for rows.Next() {
		var e MatchEvent
		var createdAt int64
		if err := rows.Scan(&e.ID, &e.MatchID, &e.Type, &e.TeamID, &e.PlayerID, &e.AssistPlayerID, &e.Period, &e.Minute, &createdAt); err != nil {
			log.Error("Failed to scan event row", "error", err)
			continue
		}
		e.CreatedAt = time.UnixMilli(createdAt).UTC()
		events = append(events, e)
	}
	return events, rows.Err()
}

// SaveFormation stores a formation as a msgpack blob. An empty matchID saves
// the team's default formation.
func (s *store) SaveFormation(teamID, matchID string, positions []TacticalPosition) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	blob, err := msgpack.Marshal(positions)
	if err != nil {
		return fmt.Errorf("failed to encode formation: %w", err)
	}
	_, err = s.db.Exec(`
		INSERT INTO formations (team_id, match_id, positions, updated_at) VALUES (?, ?, ?, ?)
		ON CONFLICT(team_id, match_id) DO UPDATE SET
			positions = excluded.positions,
			updated_at = excluded.updated_at;
	`, teamID, matchID, blob, time.Now().Unix())
	if err != nil {
		log.Error("Failed to save formation", "error", err, "teamID", teamID, "matchID", matchID)
		return err
	}
	log.Info("Saved formation", "teamID", teamID, "matchID", matchID, "slots", len(positions))
	return nil
}

// GetFormation returns the stored formation, or nil when none was saved.
func (s *store) GetFormation(teamID, matchID string) ([]TacticalPosition, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.loadFormation(teamID, matchID)
}

func (s *store) loadFormation(teamID, matchID string) ([]TacticalPosition, error) {
	var blob []byte
	err := s.db.QueryRow("SELECT positions FROM formations WHERE team_id = ? AND match_id = ?", teamID, matchID).Scan(&blob)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	var positions []TacticalPosition
	if err := msgpack.Unmarshal(blob, &positions); err != nil {
		return nil, fmt.Errorf("failed to decode formation of team %s: %w", teamID, err)
	}
	return positions, nil
}

func (s *store) Clear() {
	s.mu.Lock()
	defer s.mu.Unlock()

	tx, err := s.db.Begin()
	if err != nil {
		log.Error("Failed to begin transaction for clearing store", "error", err)
		return
	}
	for _, table := range []string{"match_events", "formations", "matches", "tournament_teams", "tournaments", "players", "teams", "metrics"} {
		if _, err := tx.Exec("DELETE FROM " + table); err != nil {
			log.Error("Failed to clear table", "table", table, "error", err)
			tx.Rollback()
			return
		}
	}
	if err := tx.Commit(); err != nil {
		log.Error("Failed to commit transaction for clearing store", "error", err)
	}
}

func (s *store) scanTeam(scanner interface{ Scan(...any) error }) (*Team, error) {
	var team Team
	var createdAt int64
	if err := scanner.Scan(&team.ID, &team.Name, &team.ShortCode, &team.Sport, &team.LogoURL, &createdAt); err != nil {
		return nil, err
	}
	team.CreatedAt = fromUnix(createdAt)
	return &team, nil
}

// loadRosters groups players by team in squad order. An empty teamID loads
// every roster.
func (s *store) loadRosters(teamID string) (map[string][]Player, error) {
	query := `
		SELECT team_id, id, name, shirt_number, position, goals, assists, yellow_cards, red_cards, matches_played
		FROM players`
	var args []any
	if teamID != "" {
		query += " WHERE team_id = ?"
		args = append(args, teamID)
	}
	query += " ORDER BY team_id, squad_order, id"

	rows, err := s.db.Query(query, args...)
	if err != nil {
		log.Error("Failed to query players", "error", err)
		return nil, err
	}
	defer rows.Close()

	rosters := make(map[string][]Player)
	for rows.Next() {
		var owner string
		var p Player
		if err := rows.Scan(&owner, &p.ID, &p.Name, &p.ShirtNumber, &p.Position,
			&p.Stats.Goals, &p.Stats.Assists, &p.Stats.YellowCards, &p.Stats.RedCards, &p.Stats.MatchesPlayed); err != nil {
			log.Error("Failed to scan player row", "error", err)
			continue
		}
		rosters[owner] = append(rosters[owner], p)
	}
	return rosters, rows.Err()
}

func toUnix(t time.Time) int64 {
	if t.IsZero() {
		return 0
	}
	return t.Unix()
}

func fromUnix(sec int64) time.Time {
	if sec == 0 {
		return time.Time{}
	}
	return time.Unix(sec, 0).UTC()
}
