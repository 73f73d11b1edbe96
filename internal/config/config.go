// Package config loads application configuration from environment variables.
package config

import (
	"fmt"
	"os"
	"strings"
	"time"
)

// Config holds the application configuration loaded from environment variables.
type Config struct {
	ListenAddr     string
	DBDSN          string
	PollInterval   time.Duration
	GitHubToken    string
	GitHubUsername string
	LinearUser     string
	FixturesPath   string
}

// HasGitHubCredentials returns true when both GitHubToken and GitHubUsername
// are non-empty. Used by the composition root to decide whether to create a
// live GitHub entity source or fall back to the fixture source.
func (c *Config) HasGitHubCredentials() bool {
	return c.GitHubToken != "" && c.GitHubUsername != ""
}

// UsesPostgres reports whether DBDSN selects the PostgreSQL settings store.
// Anything else is treated as a SQLite file path.
func (c *Config) UsesPostgres() bool {
	return strings.HasPrefix(c.DBDSN, "postgres://") || strings.HasPrefix(c.DBDSN, "postgresql://")
}

// Load reads configuration from environment variables and returns a validated Config.
// GitHub credentials (PANELDOCK_GITHUB_TOKEN, PANELDOCK_GITHUB_USERNAME) are optional;
// if absent, the code-hosting plugin is served from fixtures.
// Optional variables with defaults: PANELDOCK_POLL_INTERVAL (2m),
// PANELDOCK_LISTEN_ADDR (127.0.0.1:8080), PANELDOCK_DB_DSN (paneldock.db).
func Load() (*Config, error) {
	listenAddr := "127.0.0.1:8080"
	if v, ok := os.LookupEnv("PANELDOCK_LISTEN_ADDR"); ok {
		listenAddr = v
	}

	dbDSN := "paneldock.db"
	if v, ok := os.LookupEnv("PANELDOCK_DB_DSN"); ok {
		dbDSN = v
	}

	pollInterval := 2 * time.Minute
	if v, ok := os.LookupEnv("PANELDOCK_POLL_INTERVAL"); ok {
		parsed, err := time.ParseDuration(v)
		if err != nil {
			return nil, fmt.Errorf("PANELDOCK_POLL_INTERVAL has invalid duration %q: %w", v, err)
		}
		pollInterval = parsed
	}

	return &Config{
		ListenAddr:     listenAddr,
		DBDSN:          dbDSN,
		PollInterval:   pollInterval,
		GitHubToken:    os.Getenv("PANELDOCK_GITHUB_TOKEN"),
		GitHubUsername: os.Getenv("PANELDOCK_GITHUB_USERNAME"),
		LinearUser:     os.Getenv("PANELDOCK_LINEAR_USER"),
		FixturesPath:   os.Getenv("PANELDOCK_FIXTURES_PATH"),
	}, nil
}
