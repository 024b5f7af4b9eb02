package metrics

import "github.com/prometheus/client_golang/prometheus"

// Service holds all the Prometheus metrics for the application.
type Service struct {
	ProcessorRuns      prometheus.Counter
	MatchesProcessed   prometheus.Counter
	ProcessingDuration prometheus.Histogram
	SlackNotifSent     prometheus.Counter
	SlackNotifFailed   prometheus.Counter
	FormationUpdates   *prometheus.CounterVec
	MatchEvents        *prometheus.CounterVec
	StandingsComputed  prometheus.Counter
	RecapsGenerated    prometheus.Counter
	RecapsFailed       prometheus.Counter
	StartupTimeSeconds prometheus.Gauge
}

// Usage counter keys persisted by MetricsStore.
const (
	KeyStandingsRequests = "standings_requests"
	KeySlashCommands     = "slash_commands"
	KeyFormationsSaved   = "formations_saved"
	KeyMatchesFinished   = "matches_finished"
)
