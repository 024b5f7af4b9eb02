package metrics

import "sync"

// Mock is a mock implementation of the Metrics interface for testing.
// It is safe for concurrent use.
type Mock struct {
	mu                  sync.Mutex
	processorRuns       int
	matchesProcessed    int
	processingDurations []float64
	slackNotifSent      int
	slackNotifFailed    int
	formationUpdates    map[string]int
	matchEvents         map[string]int
	standingsComputed   int
	recapsGenerated     int
	recapsFailed        int
	startupTime         float64
}

var _ Metrics = (*Mock)(nil)

// NewMock creates a new mock instance.
func NewMock() *Mock {
	return &Mock{
		processingDurations: make([]float64, 0),
		formationUpdates:    make(map[string]int),
		matchEvents:         make(map[string]int),
	}
}

func (m *Mock) IncProcessorRuns() {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.processorRuns++
}

func (m *Mock) IncMatchesProcessed() {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.matchesProcessed++
}

func (m *Mock) ObserveProcessingDuration(duration float64) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.processingDurations = append(m.processingDurations, duration)
}

func (m *Mock) IncSlackNotifSent() {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.slackNotifSent++
}

func (m *Mock) IncSlackNotifFailed() {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.slackNotifFailed++
}

func (m *Mock) IncFormationUpdates(operation string) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.formationUpdates[operation]++
}

func (m *Mock) IncMatchEvents(eventType string) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.matchEvents[eventType]++
}

func (m *Mock) IncStandingsComputed() {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.standingsComputed++
}

func (m *Mock) IncRecapsGenerated() {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.recapsGenerated++
}

func (m *Mock) IncRecapsFailed() {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.recapsFailed++
}

func (m *Mock) SetStartupTime(duration float64) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.startupTime = duration
}

// ProcessorRuns returns the number of times IncProcessorRuns was called.
func (m *Mock) ProcessorRuns() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.processorRuns
}

// MatchesProcessed returns the number of times IncMatchesProcessed was called.
func (m *Mock) MatchesProcessed() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.matchesProcessed
}

// SlackNotifSent returns the number of times IncSlackNotifSent was called.
func (m *Mock) SlackNotifSent() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.slackNotifSent
}

// SlackNotifFailed returns the number of times IncSlackNotifFailed was called.
func (m *Mock) SlackNotifFailed() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.slackNotifFailed
}

// FormationUpdates returns how often IncFormationUpdates was called for operation.
func (m *Mock) FormationUpdates(operation string) int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.formationUpdates[operation]
}

// MatchEvents returns how often IncMatchEvents was called for eventType.
func (m *Mock) MatchEvents(eventType string) int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.matchEvents[eventType]
}

func (m *Mock) StandingsComputed() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.standingsComputed
}

func (m *Mock) RecapsGenerated() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.recapsGenerated
}

func (m *Mock) RecapsFailed() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.recapsFailed
}

// StoreMock is an in-memory MetricsStore for testing.
type StoreMock struct {
	mu     sync.Mutex
	counts map[string]int
}

var _ MetricsStore = (*StoreMock)(nil)

func NewStoreMock() *StoreMock {
	return &StoreMock{counts: make(map[string]int)}
}

func (m *StoreMock) Increment(key string) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.counts[key]++
}

func (m *StoreMock) GetAll() (map[string]int, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	out := make(map[string]int, len(m.counts))
	for k, v := range m.counts {
		out[k] = v
	}
	return out, nil
}
