package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/charmbracelet/log"
	"github.com/joho/godotenv"
)

const (
	defaultTimezone          = "UTC"
	defaultProcessCron       = "*/5 * * * *"
	defaultDigestCron        = "0 9 * * 1"
	defaultRateLimitRequests = 60
	defaultRateLimitWindow   = 60
)

// Load reads configuration from environment variables and .env file.
func Load() Config {
	err := godotenv.Load()
	if err != nil {
		log.Info("No .env file found, reading from environment variables")
	}
	cfg, err := FromLookup(os.LookupEnv)
	if err != nil {
		log.Fatalf("Error: %v", err)
	}
	return cfg
}

// FromLookup builds a Config from a lookup function such as os.LookupEnv.
func FromLookup(lookup func(string) (string, bool)) (Config, error) {
	var missing []string
	// A helper function to get a required env var.
	getEnv := func(key string) string {
		if value, ok := lookup(key); ok && value != "" {
			return value
		}
		missing = append(missing, key)
		return ""
	}
	optional := func(key, fallback string) string {
		if value, ok := lookup(key); ok {
			return value
		}
		return fallback
	}
	number := func(key string, fallback int) (int, error) {
		raw, ok := lookup(key)
		if !ok || raw == "" {
			return fallback, nil
		}
		n, err := strconv.Atoi(raw)
		if err != nil || n <= 0 {
			return 0, fmt.Errorf("environment variable %s must be a positive integer, got %q", key, raw)
		}
		return n, nil
	}

	cfg := Config{
		DBName:   getEnv("DB_NAME"),
		Port:     getEnv("PORT"),
		Timezone: optional("TIMEZONE", defaultTimezone),
		Slack: SlackConfig{
			Token:         optional("SLACK_BOT_TOKEN", ""),
			ChannelID:     optional("SLACK_CHANNEL_ID", ""),
			SigningSecret: optional("SLACK_SIGNING_SECRET", ""),
		},
		Turso: TursoConfig{
			PrimaryURL: optional("TURSO_PRIMARY_URL", ""),
			AuthToken:  optional("TURSO_AUTH_TOKEN", ""),
		},
		ProjectID: optional("GCP_PROJECT", ""),
		Recap: RecapConfig{
			APIURL: optional("RECAP_API_URL", ""),
			APIKey: optional("RECAP_API_KEY", ""),
			Model:  optional("RECAP_MODEL", ""),
		},
		Schedule: ScheduleConfig{
			ProcessCron: optional("PROCESS_CRON", defaultProcessCron),
			DigestCron:  optional("DIGEST_CRON", defaultDigestCron),
		},
	}
	if len(missing) > 0 {
		return Config{}, fmt.Errorf("required environment variables not set: %s", strings.Join(missing, ", "))
	}

	for _, origin := range strings.Split(optional("CORS_ALLOWED_ORIGINS", "*"), ",") {
		if origin = strings.TrimSpace(origin); origin != "" {
			cfg.HTTP.AllowedOrigins = append(cfg.HTTP.AllowedOrigins, origin)
		}
	}
	requests, err := number("RATE_LIMIT_REQUESTS", defaultRateLimitRequests)
	if err != nil {
		return Config{}, err
	}
	window, err := number("RATE_LIMIT_WINDOW_SECONDS", defaultRateLimitWindow)
	if err != nil {
		return Config{}, err
	}
	cfg.HTTP.RateLimitRequests = requests
	cfg.HTTP.RateLimitWindow = time.Duration(window) * time.Second

	if _, err := time.LoadLocation(cfg.Timezone); err != nil {
		return Config{}, fmt.Errorf("invalid TIMEZONE %q: %w", cfg.Timezone, err)
	}
	return cfg, nil
}
