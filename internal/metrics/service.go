package metrics

import (
	"net/http"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

var _ Metrics = (*Service)(nil)

// NewMetricsHandler returns an http.Handler for the given Gatherer.
// If no gatherer is provided, it uses the default one.
func NewMetricsHandler(gatherer ...prometheus.Gatherer) http.Handler {
	gath := prometheus.DefaultGatherer
	if len(gatherer) > 0 {
		gath = gatherer[0]
	}
	return promhttp.HandlerFor(gath, promhttp.HandlerOpts{})
}

// NewService creates and registers the Prometheus metrics.
// If no registerer is provided, it uses the default Prometheus registerer.
func NewService(registerer ...prometheus.Registerer) *Service {
	reg := prometheus.DefaultRegisterer
	if len(registerer) > 0 {
		reg = registerer[0]
	}

	s := &Service{
		ProcessorRuns: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "touchline_processor_runs_total",
			Help: "The total number of times the match processor has run.",
		}),
		MatchesProcessed: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "touchline_matches_processed_total",
			Help: "The total number of finished matches taken through notification.",
		}),
		ProcessingDuration: prometheus.NewHistogram(prometheus.HistogramOpts{
			Name:    "touchline_match_processing_duration_seconds",
			Help:    "The duration of individual match processing.",
			Buckets: []float64{0.005, 0.01, 0.025, 0.05, 0.1, 0.25, 0.5, 1, 2.5, 5, 10},
		}),
		SlackNotifSent: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "touchline_slack_notifications_sent_total",
			Help: "The total number of Slack notifications successfully sent.",
		}),
		SlackNotifFailed: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "touchline_slack_notifications_failed_total",
			Help: "The total number of Slack notifications that failed to send.",
		}),
		FormationUpdates: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "touchline_formation_updates_total",
			Help: "Formation edits by operation.",
		}, []string{"operation"}),
		MatchEvents: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "touchline_match_events_total",
			Help: "Live match events recorded, by type.",
		}, []string{"type"}),
		StandingsComputed: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "touchline_standings_computed_total",
			Help: "The total number of league tables computed.",
		}),
		RecapsGenerated: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "touchline_recaps_generated_total",
			Help: "The total number of match recaps generated.",
		}),
		RecapsFailed: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "touchline_recaps_failed_total",
			Help: "The total number of match recap requests that failed.",
		}),
		StartupTimeSeconds: prometheus.NewGauge(prometheus.GaugeOpts{
			Name: "touchline_startup_duration_seconds",
			Help: "The duration of the application startup in seconds.",
		}),
	}

	reg.MustRegister(
		s.ProcessorRuns,
		s.MatchesProcessed,
		s.ProcessingDuration,
		s.SlackNotifSent,
		s.SlackNotifFailed,
		s.FormationUpdates,
		s.MatchEvents,
		s.StandingsComputed,
		s.RecapsGenerated,
		s.RecapsFailed,
		s.StartupTimeSeconds,
	)

	return s
}

func (s *Service) IncProcessorRuns() {
	s.ProcessorRuns.Inc()
}

func (s *Service) IncMatchesProcessed() {
	s.MatchesProcessed.Inc()
}

func (s *Service) ObserveProcessingDuration(duration float64) {
	s.ProcessingDuration.Observe(duration)
}

func (s *Service) IncSlackNotifSent() {
	s.SlackNotifSent.Inc()
}

func (s *Service) IncSlackNotifFailed() {
	s.SlackNotifFailed.Inc()
}

func (s *Service) IncFormationUpdates(operation string) {
	s.FormationUpdates.WithLabelValues(operation).Inc()
}

func (s *Service) IncMatchEvents(eventType string) {
	s.MatchEvents.WithLabelValues(eventType).Inc()
}

func (s *Service) IncStandingsComputed() {
	s.StandingsComputed.Inc()
}

func (s *Service) IncRecapsGenerated() {
	s.RecapsGenerated.Inc()
}

func (s *Service) IncRecapsFailed() {
	s.RecapsFailed.Inc()
}

func (s *Service) SetStartupTime(duration float64) {
	s.StartupTimeSeconds.Set(duration)
}
