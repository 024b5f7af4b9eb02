package http

import (
	"net/http"

	"github.com/mauv0809/touchline/internal/config"
	"github.com/mauv0809/touchline/internal/fixtures"
	"github.com/mauv0809/touchline/internal/http/handlers"
	"github.com/mauv0809/touchline/internal/league"
	"github.com/mauv0809/touchline/internal/metrics"
	"github.com/mauv0809/touchline/internal/notifier"
	"github.com/mauv0809/touchline/internal/processor"
	"github.com/mauv0809/touchline/internal/pubsub"
)

type Server struct {
	Store          league.LeagueStore
	Metrics        metrics.Metrics
	Usage          metrics.MetricsStore
	MetricsHandler http.Handler
	Cfg            config.Config
	Notifier       notifier.Notifier
	Processor      *processor.Processor
	Fixtures       *fixtures.Service
	Formations     *handlers.FormationService
	Router         *http.ServeMux
	pubsub         pubsub.PubSubClient
	limiter        *ipLimiter
	handler        http.Handler
}
