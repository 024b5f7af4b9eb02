package config

import "time"

// Config holds all configuration for the application.
type Config struct {
	DBName    string
	Port      string
	Timezone  string
	Slack     SlackConfig
	Turso     TursoConfig
	ProjectID string
	Recap     RecapConfig
	HTTP      HTTPConfig
	Schedule  ScheduleConfig
}

type SlackConfig struct {
	Token         string
	ChannelID     string
	SigningSecret string
}

type TursoConfig struct {
	PrimaryURL string
	AuthToken  string
}

type RecapConfig struct {
	APIURL string
	APIKey string
	Model  string
}

type HTTPConfig struct {
	AllowedOrigins    []string
	RateLimitRequests int
	RateLimitWindow   time.Duration
}

// ScheduleConfig holds cron expressions. An empty expression disables the job.
type ScheduleConfig struct {
	ProcessCron string
	DigestCron  string
}
