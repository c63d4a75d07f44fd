package config

import (
	"errors"
	"fmt"
	"os"
	"strconv"
	"time"

	"github.com/charmbracelet/log"
	"github.com/joho/godotenv"
)

// Load reads configuration from environment variables and .env file.
func Load() Config {
	err := godotenv.Load()
	if err != nil {
		log.Info("No .env file found, reading from environment variables")
	}

	cfg, err := FromEnv(os.LookupEnv)
	if err != nil {
		log.Fatalf("Error: %s", err)
	}
	return cfg
}

// FromEnv builds a Config from lookup, which has the signature of os.LookupEnv.
func FromEnv(lookup func(string) (string, bool)) (Config, error) {
	var errs []error

	// A helper function to get a required env var.
	getEnv := func(key string) string {
		if value, ok := lookup(key); ok && value != "" {
			return value
		}
		errs = append(errs, fmt.Errorf("required environment variable %s is not set", key))
		return ""
	}
	getEnvDefault := func(key, fallback string) string {
		if value, ok := lookup(key); ok && value != "" {
			return value
		}
		return fallback
	}
	getDuration := func(key string, fallback time.Duration) time.Duration {
		value, ok := lookup(key)
		if !ok || value == "" {
			return fallback
		}
		d, err := time.ParseDuration(value)
		if err != nil {
			errs = append(errs, fmt.Errorf("invalid duration in %s: %w", key, err))
		}
		return d
	}
	getInt := func(key string, fallback int) int {
		value, ok := lookup(key)
		if !ok || value == "" {
			return fallback
		}
		n, err := strconv.Atoi(value)
		if err != nil {
			errs = append(errs, fmt.Errorf("invalid integer in %s: %w", key, err))
		}
		return n
	}

	cfg := Config{
		DBName:            getEnv("DB_NAME"),
		MigrationsDir:     getEnvDefault("MIGRATIONS_DIR", "./migrations"),
		Port:              getEnv("PORT"),
		LocationsFile:     getEnvDefault("LOCATIONS_FILE", ""),
		DefaultMaxPlayers: getInt("DEFAULT_MAX_PLAYERS", 16),
		ProjectID:         getEnvDefault("GCP_PROJECT", ""),
		Turso: TursoConfig{
			PrimaryURL: getEnvDefault("TURSO_PRIMARY_URL", ""),
			AuthToken:  getEnvDefault("TURSO_AUTH_TOKEN", ""),
		},
		Redis: RedisConfig{
			URL:     getEnvDefault("REDIS_URL", ""),
			LockTTL: getDuration("ROOM_LOCK_TTL", 10*time.Second),
		},
		Slack: SlackConfig{
			Token:         getEnvDefault("SLACK_BOT_TOKEN", ""),
			ChannelID:     getEnvDefault("SLACK_CHANNEL_ID", ""),
			SigningSecret: getEnvDefault("SLACK_SIGNING_SECRET", ""),
		},
		Auth: AuthConfig{
			JWTSecret:      getEnv("JWT_SECRET"),
			ExchangeSecret: getEnvDefault("AUTH_EXCHANGE_SECRET", ""),
			TokenTTL:       getDuration("TOKEN_TTL", 7*24*time.Hour),
		},
		Expiry: ExpiryConfig{
			SubmissionTTL: getDuration("SCORE_SUBMISSION_TTL", 0),
			CheckInterval: getDuration("EXPIRY_CHECK_INTERVAL", 5*time.Minute),
		},
	}
	if cfg.DefaultMaxPlayers < 2 {
		errs = append(errs, fmt.Errorf("DEFAULT_MAX_PLAYERS must be at least 2, got %d", cfg.DefaultMaxPlayers))
	}
	if cfg.Slack.Token != "" && cfg.Slack.ChannelID == "" {
		errs = append(errs, errors.New("SLACK_CHANNEL_ID is required when SLACK_BOT_TOKEN is set"))
	}
	return cfg, errors.Join(errs...)
}
