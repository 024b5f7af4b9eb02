package metrics

// Metrics defines the interface for collecting application metrics.
// This decouples the application from the specific metrics implementation (e.g., Prometheus).
type Metrics interface {
	IncProcessorRuns()
	IncMatchesProcessed()
	ObserveProcessingDuration(duration float64)
	IncSlackNotifSent()
	IncSlackNotifFailed()
	IncFormationUpdates(operation string)
	IncMatchEvents(eventType string)
	IncStandingsComputed()
	IncRecapsGenerated()
	IncRecapsFailed()
	SetStartupTime(duration float64)
}

// MetricsStore persists usage counters across restarts.
type MetricsStore interface {
	Increment(key string)
	GetAll() (map[string]int, error)
}
