package http

import (
	"net/http"

	"github.com/charmbracelet/log"
	"github.com/mauv0809/touchline/internal/config"
	"github.com/mauv0809/touchline/internal/fixtures"
	"github.com/mauv0809/touchline/internal/http/handlers"
	"github.com/mauv0809/touchline/internal/league"
	"github.com/mauv0809/touchline/internal/metrics"
	"github.com/mauv0809/touchline/internal/notifier"
	"github.com/mauv0809/touchline/internal/processor"
	"github.com/mauv0809/touchline/internal/pubsub"
	"github.com/rs/cors"
)

func NewServer(store league.LeagueStore, metricsSvc metrics.Metrics, usage metrics.MetricsStore, metricsHandler http.Handler, cfg config.Config, notifier notifier.Notifier, processor *processor.Processor, fixtures *fixtures.Service, pubsub pubsub.PubSubClient) *Server {
	server := &Server{
		Store:          store,
		Metrics:        metricsSvc,
		Usage:          usage,
		MetricsHandler: metricsHandler,
		Cfg:            cfg,
		Notifier:       notifier,
		Processor:      processor,
		Fixtures:       fixtures,
		Formations:     handlers.NewFormationService(store, pubsub, metricsSvc, usage),
		Router:         http.NewServeMux(),
		pubsub:         pubsub,
	}
	if cfg.HTTP.RateLimitRequests > 0 && cfg.HTTP.RateLimitWindow > 0 {
		server.limiter = newIPLimiter(cfg.HTTP.RateLimitRequests, cfg.HTTP.RateLimitWindow)
	}

	server.routes()
	server.handler = cors.New(cors.Options{
		AllowedOrigins: cfg.HTTP.AllowedOrigins,
		AllowedMethods: []string{http.MethodGet, http.MethodPost, http.MethodDelete, http.MethodOptions},
		AllowedHeaders: []string{"Accept", "Content-Type"},
	}).Handler(server.Router)
	return server
}

func (s *Server) routes() {
	// All handlers are wrapped with middleware using the Chain helper.
	// Client-facing routes are rate limited; push and health routes are not.
	api := func(h http.Handler) http.Handler {
		return Chain(h, paramsMiddleware, s.rateLimitMiddleware)
	}
	f := s.Formations

	s.Router.Handle("GET /metrics", s.MetricsHandler)
	s.Router.Handle("GET /health", Chain(handlers.HealthCheckHandler(), paramsMiddleware))
	s.Router.Handle("GET /usage", api(handlers.UsageHandler(s.Usage)))
	s.Router.Handle("POST /clear", api(handlers.ClearStoreHandler(s.Store)))

	s.Router.Handle("GET /teams", api(handlers.ListTeamsHandler(s.Store)))
	s.Router.Handle("POST /teams", api(handlers.CreateTeamHandler(s.Store)))
	s.Router.Handle("GET /teams/{teamID}", api(handlers.GetTeamHandler(s.Store)))
	s.Router.Handle("DELETE /teams/{teamID}", api(handlers.DeleteTeamHandler(s.Store)))
	s.Router.Handle("POST /teams/{teamID}/players", api(handlers.AddPlayerHandler(s.Store)))
	s.Router.Handle("DELETE /teams/{teamID}/players/{playerID}", api(handlers.RemovePlayerHandler(s.Store)))

	s.Router.Handle("GET /teams/{teamID}/formation", api(f.GetHandler()))
	s.Router.Handle("POST /teams/{teamID}/formation/preset", api(f.PresetHandler()))
	s.Router.Handle("POST /teams/{teamID}/formation/move", api(f.MoveHandler()))
	s.Router.Handle("POST /teams/{teamID}/formation/swap", api(f.SwapHandler()))
	s.Router.Handle("POST /teams/{teamID}/formation/clear", api(f.ClearHandler()))
	s.Router.Handle("POST /teams/{teamID}/formation/slots", api(f.AddSlotHandler()))
	s.Router.Handle("GET /presets", api(handlers.PresetsHandler()))

	s.Router.Handle("GET /tournaments", api(handlers.ListTournamentsHandler(s.Store)))
	s.Router.Handle("POST /tournaments", api(handlers.CreateTournamentHandler(s.Store)))
	s.Router.Handle("GET /tournaments/{tournamentID}/standings", api(handlers.StandingsHandler(s.Processor, s.Usage)))
	s.Router.Handle("GET /standings", api(handlers.StandingsHandler(s.Processor, s.Usage)))

	s.Router.Handle("GET /matches", api(handlers.ListMatchesHandler(s.Store)))
	s.Router.Handle("POST /matches", api(handlers.ChallengeHandler(s.Fixtures)))
	s.Router.Handle("GET /matches/{matchID}", api(handlers.GetMatchHandler(s.Store)))
	s.Router.Handle("POST /matches/{matchID}/accept", api(handlers.AcceptHandler(s.Fixtures, s.Processor)))
	s.Router.Handle("POST /matches/{matchID}/decline", api(handlers.DeclineHandler(s.Fixtures)))
	s.Router.Handle("POST /matches/{matchID}/start", api(handlers.StartHandler(s.Fixtures)))
	s.Router.Handle("POST /matches/{matchID}/finish", api(handlers.FinishHandler(s.Fixtures, s.Usage)))
	s.Router.Handle("POST /matches/{matchID}/events", api(handlers.RecordEventHandler(s.Fixtures)))
	s.Router.Handle("GET /matches/{matchID}/timeline", api(handlers.TimelineHandler(s.Fixtures)))
	s.Router.Handle("POST /matches/{matchID}/recap", api(handlers.RecapHandler(s.Fixtures)))

	s.Router.Handle("POST /process", Chain(handlers.ProcessMatchesHandler(s.Processor), paramsMiddleware))
	s.Router.Handle("POST /digest", Chain(handlers.DigestHandler(s.Processor), paramsMiddleware))
	s.Router.Handle("POST /pubsub/standings-refresh", Chain(handlers.StandingsRefreshHandler(s.Processor, s.pubsub), paramsMiddleware))
	s.Router.Handle("POST /pubsub/match-finished", Chain(handlers.MatchFinishedHandler(s.Processor, s.pubsub), paramsMiddleware))

	if s.Cfg.Slack.SigningSecret == "" {
		log.Warn("SLACK_SIGNING_SECRET is not set, slash commands are not verified")
	}
	s.Router.Handle("POST /slack/command/standings", Chain(
		handlers.StandingsCommandHandler(s.Store, s.Processor, s.Notifier, s.Usage),
		paramsMiddleware, slackVerificationMiddleware(s.Cfg.Slack.SigningSecret),
	))
}

func (s *Server) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	s.handler.ServeHTTP(w, r)
}
