package notifier

import (
	"sync"

	"github.com/mauv0809/touchline/internal/standings"
)

// Mock is a mock implementation of the Notifier interface for testing.
// It is safe for concurrent use.
type Mock struct {
	mu sync.Mutex

	// Spies
	SendFixtureNotificationFunc func(card MatchCard, dryRun bool) error
	SendResultNotificationFunc  func(card MatchCard, dryRun bool) error
	SendStandingsFunc           func(title string, rows []standings.Row, dryRun bool) error
	FormatStandingsResponseFunc func(title string, rows []standings.Row) (any, error)
	FormatNotFoundResponseFunc  func(query string) (any, error)

	// Call records
	SendFixtureNotificationCalls []MatchCard
	SendResultNotificationCalls  []MatchCard
	SendStandingsCalls           []struct {
		Title string
		Rows  []standings.Row
	}
	DryRunCalls int

	// Call records for format functions
	LastStandingsResponse any
	LastNotFoundResponse  any
}

var _ Notifier = (*Mock)(nil)

// NewMock creates a new mock instance.
func NewMock() *Mock {
	return &Mock{}
}

// Reset clears all call records.
func (m *Mock) Reset() {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.SendFixtureNotificationCalls = nil
	m.SendResultNotificationCalls = nil
	m.SendStandingsCalls = nil
	m.DryRunCalls = 0
	m.LastStandingsResponse = nil
	m.LastNotFoundResponse = nil
}

func (m *Mock) SendFixtureNotification(card MatchCard, dryRun bool) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.SendFixtureNotificationCalls = append(m.SendFixtureNotificationCalls, card)
	if dryRun {
		m.DryRunCalls++
	}
	if m.SendFixtureNotificationFunc != nil {
		return m.SendFixtureNotificationFunc(card, dryRun)
	}
	return nil
}

func (m *Mock) SendResultNotification(card MatchCard, dryRun bool) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.SendResultNotificationCalls = append(m.SendResultNotificationCalls, card)
	if dryRun {
		m.DryRunCalls++
	}
	if m.SendResultNotificationFunc != nil {
		return m.SendResultNotificationFunc(card, dryRun)
	}
	return nil
}

func (m *Mock) SendStandings(title string, rows []standings.Row, dryRun bool) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.SendStandingsCalls = append(m.SendStandingsCalls, struct {
		Title string
		Rows  []standings.Row
	}{title, rows})
	if dryRun {
		m.DryRunCalls++
	}
	if m.SendStandingsFunc != nil {
		return m.SendStandingsFunc(title, rows, dryRun)
	}
	return nil
}

func (m *Mock) FormatStandingsResponse(title string, rows []standings.Row) (any, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.FormatStandingsResponseFunc != nil {
		resp, err := m.FormatStandingsResponseFunc(title, rows)
		m.LastStandingsResponse = resp
		return resp, err
	}
	resp := map[string]any{"title": title, "rows": len(rows)}
	m.LastStandingsResponse = resp
	return resp, nil
}

func (m *Mock) FormatNotFoundResponse(query string) (any, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.FormatNotFoundResponseFunc != nil {
		resp, err := m.FormatNotFoundResponseFunc(query)
		m.LastNotFoundResponse = resp
		return resp, err
	}
	resp := map[string]any{"text": "not found: " + query}
	m.LastNotFoundResponse = resp
	return resp, nil
}
