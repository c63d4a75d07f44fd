package config

import "time"

// Config holds all configuration for the application.
type Config struct {
	DBName            string
	MigrationsDir     string
	Port              string
	LocationsFile     string
	DefaultMaxPlayers int
	ProjectID         string
	Turso             TursoConfig
	Redis             RedisConfig
	Slack             SlackConfig
	Auth              AuthConfig
	Expiry            ExpiryConfig
}

type TursoConfig struct {
	PrimaryURL string
	AuthToken  string
}

// RedisConfig enables the shared room lock when URL is set.
type RedisConfig struct {
	URL     string
	LockTTL time.Duration
}

// SlackConfig enables moderator notifications when Token is set and the
// moderator slash commands when SigningSecret is set.
type SlackConfig struct {
	Token         string
	ChannelID     string
	SigningSecret string
}

type AuthConfig struct {
	JWTSecret      string
	ExchangeSecret string
	TokenTTL       time.Duration
}

// ExpiryConfig drives the job that closes abandoned score submissions.
// A zero SubmissionTTL disables it.
type ExpiryConfig struct {
	SubmissionTTL time.Duration
	CheckInterval time.Duration
}
