package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/charmbracelet/log"
	"github.com/mauv0809/touchline/internal/config"
	"github.com/mauv0809/touchline/internal/database"
	"github.com/mauv0809/touchline/internal/fixtures"
	server "github.com/mauv0809/touchline/internal/http"
	"github.com/mauv0809/touchline/internal/league"
	"github.com/mauv0809/touchline/internal/metrics"
	"github.com/mauv0809/touchline/internal/notifier/slack"
	"github.com/mauv0809/touchline/internal/processor"
	"github.com/mauv0809/touchline/internal/pubsub"
	"github.com/mauv0809/touchline/internal/recap"
	"github.com/mauv0809/touchline/internal/scheduler"
	"golang.org/x/sync/errgroup"
)

const shutdownTimeout = 30 * time.Second

func main() {
	startTime := time.Now()
	log.SetFormatter(log.JSONFormatter)
	cfg := config.Load()

	db, dbTeardown, err := database.InitDB(cfg.DBName, cfg.Turso.PrimaryURL, cfg.Turso.AuthToken)
	dbInitDuration := time.Since(startTime)
	log.Info("Database initialization time recorded", "duration_ms", dbInitDuration.Milliseconds())
	if err != nil {
		log.Fatalf("Failed to initialize database: %s", err)
	}
	defer func() {
		log.Info("Closing database connection")
		dbTeardown()
	}()

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	leagueStore := league.New(db)
	usage := metrics.New(db)
	metricsSvc := metrics.NewService()
	metricsHandler := metrics.NewMetricsHandler()

	ps, err := pubsub.New(ctx, cfg.ProjectID)
	if err != nil {
		log.Fatalf("Failed to initialize pubsub: %s", err)
	}
	defer ps.Close()

	notifier := slack.NewNotifier(cfg.Slack.Token, cfg.Slack.ChannelID, cfg.Timezone, metricsSvc)
	recapClient, err := recap.NewClient(ctx, cfg.Recap.APIURL, cfg.Recap.APIKey, cfg.Recap.Model)
	if err != nil {
		log.Fatalf("Failed to initialize recap client: %s", err)
	}
	proc := processor.New(leagueStore, notifier, metricsSvc, ps)
	fixtureSvc := fixtures.New(leagueStore, ps, metricsSvc, recapClient)

	sched, err := scheduler.New()
	if err != nil {
		log.Fatalf("Failed to initialize scheduler: %s", err)
	}
	if err := scheduler.RegisterJobs(sched, proc, cfg.Schedule.ProcessCron, cfg.Schedule.DigestCron); err != nil {
		log.Fatalf("Failed to register scheduled jobs: %s", err)
	}

	s := server.NewServer(
		leagueStore,
		metricsSvc,
		usage,
		metricsHandler,
		cfg,
		notifier,
		proc,
		fixtureSvc,
		ps,
	)

	startupDuration := time.Since(startTime)
	metricsSvc.SetStartupTime(startupDuration.Seconds())
	log.Info("Startup time recorded", "duration_ms", startupDuration.Milliseconds())

	srv := &http.Server{
		Addr:              ":" + cfg.Port,
		Handler:           s,
		ReadHeaderTimeout: 10 * time.Second,
	}

	g, ctx := errgroup.WithContext(ctx)

	g.Go(func() error {
		log.Info("Server started", "port", cfg.Port)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return fmt.Errorf("server error: %w", err)
		}
		return nil
	})

	g.Go(func() error {
		sched.Start()
		<-ctx.Done()
		log.Info("Shutdown signal received")

		if err := sched.Stop(); err != nil {
			log.Error("Scheduler shutdown failed", "error", err)
		}
		shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
		defer cancel()
		if err := srv.Shutdown(shutdownCtx); err != nil {
			return fmt.Errorf("server shutdown failed: %w", err)
		}
		log.Info("Server gracefully stopped")
		return nil
	})

	if err := g.Wait(); err != nil {
		log.Error("Server terminated with error", "error", err)
	}
	log.Info("Server process shutting down")
}
