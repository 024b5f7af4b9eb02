package league

import "sync"

// MockStore is a mock implementation of the LeagueStore interface for testing.
// It is safe for concurrent use. Methods without a Func fall back to zero
// values.
type MockStore struct {
	mu sync.Mutex

	// Spies for method calls
	UpsertTeamFunc               func(team *Team) error
	GetTeamFunc                  func(teamID string) (*Team, error)
	GetAllTeamsFunc              func() ([]Team, error)
	DeleteTeamFunc               func(teamID string) error
	UpsertPlayerFunc             func(teamID string, player Player) error
	RemovePlayerFunc             func(teamID, playerID string) error
	UpdatePlayerStatsFunc        func(players []Player) error
	UpsertTournamentFunc         func(tournament *Tournament) error
	GetTournamentFunc            func(tournamentID string) (*Tournament, error)
	GetAllTournamentsFunc        func() ([]Tournament, error)
	UpsertMatchFunc              func(match *Match) error
	GetMatchFunc                 func(matchID string) (*Match, error)
	GetAllMatchesFunc            func() ([]Match, error)
	DeleteMatchFunc              func(matchID string) error
	GetMatchesForProcessingFunc  func() ([]Match, error)
	UpdateNotificationStatusFunc func(matchID string, status NotificationStatus) error
	SaveRecapFunc                func(matchID, recap string) error
	AddEventFunc                 func(event *MatchEvent) error
	GetEventsFunc                func(matchID string) ([]MatchEvent, error)
	SaveFormationFunc            func(teamID, matchID string, positions []TacticalPosition) error
	GetFormationFunc             func(teamID, matchID string) ([]TacticalPosition, error)
	ClearFunc                    func()

	// Call records
	UpsertTeamCalls   []*Team
	UpsertPlayerCalls []struct {
		TeamID string
		Player Player
	}
	UpdatePlayerStatsCalls        [][]Player
	UpsertMatchCalls              []*Match
	DeleteMatchCalls              []string
	UpdateNotificationStatusCalls []struct {
		MatchID string
		Status  NotificationStatus
	}
	SaveRecapCalls []struct {
		MatchID string
		Recap   string
	}
	AddEventCalls      []*MatchEvent
	SaveFormationCalls []struct {
		TeamID    string
		MatchID   string
		Positions []TacticalPosition
	}
}

// NewMock creates a new mock instance.
func NewMock() *MockStore {
	return &MockStore{}
}

// Reset clears all call records.
func (m *MockStore) Reset() {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.UpsertTeamCalls = nil
	m.UpsertPlayerCalls = nil
	m.UpdatePlayerStatsCalls = nil
	m.UpsertMatchCalls = nil
	m.DeleteMatchCalls = nil
	m.UpdateNotificationStatusCalls = nil
	m.SaveRecapCalls = nil
	m.AddEventCalls = nil
	m.SaveFormationCalls = nil
}

func (m *MockStore) UpsertTeam(team *Team) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.UpsertTeamCalls = append(m.UpsertTeamCalls, team)
	if m.UpsertTeamFunc != nil {
		return m.UpsertTeamFunc(team)
	}
	return nil
}

func (m *MockStore) GetTeam(teamID string) (*Team, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.GetTeamFunc != nil {
		return m.GetTeamFunc(teamID)
	}
	return nil, ErrTeamNotFound
}

func (m *MockStore) GetAllTeams() ([]Team, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.GetAllTeamsFunc != nil {
		return m.GetAllTeamsFunc()
	}
	return nil, nil
}

func (m *MockStore) DeleteTeam(teamID string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.DeleteTeamFunc != nil {
		return m.DeleteTeamFunc(teamID)
	}
	return nil
}

func (m *MockStore) UpsertPlayer(teamID string, player Player) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.UpsertPlayerCalls = append(m.UpsertPlayerCalls, struct {
		TeamID string
		Player Player
	}{teamID, player})
	if m.UpsertPlayerFunc != nil {
		return m.UpsertPlayerFunc(teamID, player)
	}
	return nil
}

func (m *MockStore) RemovePlayer(teamID, playerID string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.RemovePlayerFunc != nil {
		return m.RemovePlayerFunc(teamID, playerID)
	}
	return nil
}

func (m *MockStore) UpdatePlayerStats(players []Player) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.UpdatePlayerStatsCalls = append(m.UpdatePlayerStatsCalls, players)
	if m.UpdatePlayerStatsFunc != nil {
		return m.UpdatePlayerStatsFunc(players)
	}
	return nil
}

func (m *MockStore) UpsertTournament(tournament *Tournament) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.UpsertTournamentFunc != nil {
		return m.UpsertTournamentFunc(tournament)
	}
	return nil
}

func (m *MockStore) GetTournament(tournamentID string) (*Tournament, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.GetTournamentFunc != nil {
		return m.GetTournamentFunc(tournamentID)
	}
	return nil, ErrTournamentNotFound
}

func (m *MockStore) GetAllTournaments() ([]Tournament, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.GetAllTournamentsFunc != nil {
		return m.GetAllTournamentsFunc()
	}
	return nil, nil
}

func (m *MockStore) UpsertMatch(match *Match) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	copied := *match
	m.UpsertMatchCalls = append(m.UpsertMatchCalls, &copied)
	if m.UpsertMatchFunc != nil {
		return m.UpsertMatchFunc(match)
	}
	return nil
}

func (m *MockStore) GetMatch(matchID string) (*Match, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.GetMatchFunc != nil {
		return m.GetMatchFunc(matchID)
	}
	return nil, ErrMatchNotFound
}

func (m *MockStore) GetAllMatches() ([]Match, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.GetAllMatchesFunc != nil {
		return m.GetAllMatchesFunc()
	}
	return nil, nil
}

func (m *MockStore) DeleteMatch(matchID string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.DeleteMatchCalls = append(m.DeleteMatchCalls, matchID)
	if m.DeleteMatchFunc != nil {
		return m.DeleteMatchFunc(matchID)
	}
	return nil
}

func (m *MockStore) GetMatchesForProcessing() ([]Match, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.GetMatchesForProcessingFunc != nil {
		return m.GetMatchesForProcessingFunc()
	}
	return nil, nil
}

func (m *MockStore) UpdateNotificationStatus(matchID string, status NotificationStatus) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.UpdateNotificationStatusCalls = append(m.UpdateNotificationStatusCalls, struct {
		MatchID string
		Status  NotificationStatus
	}{matchID, status})
	if m.UpdateNotificationStatusFunc != nil {
		return m.UpdateNotificationStatusFunc(matchID, status)
	}
	return nil
}

func (m *MockStore) SaveRecap(matchID, recap string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.SaveRecapCalls = append(m.SaveRecapCalls, struct {
		MatchID string
		Recap   string
	}{matchID, recap})
	if m.SaveRecapFunc != nil {
		return m.SaveRecapFunc(matchID, recap)
	}
	return nil
}

func (m *MockStore) AddEvent(event *MatchEvent) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.AddEventCalls = append(m.AddEventCalls, event)
	if m.AddEventFunc != nil {
		return m.AddEventFunc(event)
	}
	return nil
}

func (m *MockStore) GetEvents(matchID string) ([]MatchEvent, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.GetEventsFunc != nil {
		return m.GetEventsFunc(matchID)
	}
	return nil, nil
}

func (m *MockStore) SaveFormation(teamID, matchID string, positions []TacticalPosition) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.SaveFormationCalls = append(m.SaveFormationCalls, struct {
		TeamID    string
		MatchID   string
		Positions []TacticalPosition
	}{teamID, matchID, positions})
	if m.SaveFormationFunc != nil {
		return m.SaveFormationFunc(teamID, matchID, positions)
	}
	return nil
}

func (m *MockStore) GetFormation(teamID, matchID string) ([]TacticalPosition, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.GetFormationFunc != nil {
		return m.GetFormationFunc(teamID, matchID)
	}
	return nil, nil
}

func (m *MockStore) Clear() {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.ClearFunc != nil {
		m.ClearFunc()
	}
}
