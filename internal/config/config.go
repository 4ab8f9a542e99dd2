// Package config provides application configuration management.
package config

import (
	"fmt"
	"os"
	"strconv"
	"time"
)

// Config defines the application configuration interface.
type Config interface {
	GetServerPort() string
	GetDatabasePath() string
	GetEnvironment() string
	GetLogLevel() string
	IsProduction() bool
}

// ServerConfig interface for server-specific configuration.
type ServerConfig interface {
	GetServerPort() string
	GetReadTimeout() time.Duration
	GetWriteTimeout() time.Duration
	GetIdleTimeout() time.Duration
}

// ProviderConfig interface for GitHub OAuth and API configuration.
type ProviderConfig interface {
	GetGitHubClientID() string
	GetGitHubClientSecret() string
	GetGitHubRedirectURL() string
	GetGitHubReadToken() string
	GetProviderTimeout() time.Duration
}

// AppConfig implements all configuration interfaces.
type AppConfig struct {
	serverPort         string
	databasePath       string
	environment        string
	logLevel           string
	readTimeout        time.Duration
	writeTimeout       time.Duration
	idleTimeout        time.Duration
	githubClientID     string
	githubClientSecret string
	githubRedirectURL  string
	githubReadToken    string
	providerTimeout    time.Duration
	stateTTL           time.Duration
	sweepInterval      time.Duration
	commitWindowDays   int
	maxCommitResults   int
	rateLimitEnabled   bool
	redisAddr          string
	redisPassword      string
	redisDB            int
}

// NewConfig creates a new configuration instance with default values
// and overrides from environment variables.
func NewConfig() *AppConfig {
	return &AppConfig{
		serverPort:         getEnvString("SERVER_PORT", "8080"),
		databasePath:       getEnvString("DATABASE_PATH", "data/volunteer.db"),
		environment:        getEnvString("ENVIRONMENT", "development"),
		logLevel:           getEnvString("LOG_LEVEL", "info"),
		readTimeout:        getEnvDuration("READ_TIMEOUT", "15s"),
		writeTimeout:       getEnvDuration("WRITE_TIMEOUT", "15s"),
		idleTimeout:        getEnvDuration("IDLE_TIMEOUT", "60s"),
		githubClientID:     getEnvString("GITHUB_CLIENT_ID", ""),
		githubClientSecret: getEnvString("GITHUB_CLIENT_SECRET", ""),
		githubRedirectURL:  getEnvString("GITHUB_REDIRECT_URL", "http://localhost:8080/oauth/callback"),
		githubReadToken:    getEnvString("GITHUB_READ_TOKEN", ""),
		providerTimeout:    getEnvDuration("PROVIDER_TIMEOUT", "15s"),
		stateTTL:           getEnvDuration("OAUTH_STATE_TTL", "10m"),
		sweepInterval:      getEnvDuration("STATE_SWEEP_INTERVAL", "5m"),
		commitWindowDays:   getEnvInt("COMMIT_WINDOW_DAYS", 7),
		maxCommitResults:   getEnvInt("MAX_COMMIT_RESULTS", 25),
		rateLimitEnabled:   getEnvBool("RATE_LIMIT_ENABLED", true),
		redisAddr:          getEnvString("REDIS_ADDR", ""),
		redisPassword:      getEnvString("REDIS_PASSWORD", ""),
		redisDB:            getEnvInt("REDIS_DB", 0),
	}
}

// GetServerPort returns the server port configuration.
func (c *AppConfig) GetServerPort() string {
	return c.serverPort
}

// GetDatabasePath returns the SQLite database file path.
func (c *AppConfig) GetDatabasePath() string {
	return c.databasePath
}

// GetEnvironment returns the application environment configuration.
func (c *AppConfig) GetEnvironment() string {
	return c.environment
}

// GetLogLevel returns the log level configuration.
func (c *AppConfig) GetLogLevel() string {
	return c.logLevel
}

// IsProduction returns true if the application is running in production environment.
func (c *AppConfig) IsProduction() bool {
	return c.environment == "production"
}

// GetReadTimeout returns the server read timeout configuration.
func (c *AppConfig) GetReadTimeout() time.Duration {
	return c.readTimeout
}

// GetWriteTimeout returns the server write timeout configuration.
func (c *AppConfig) GetWriteTimeout() time.Duration {
	return c.writeTimeout
}

// GetIdleTimeout returns the server idle timeout configuration.
func (c *AppConfig) GetIdleTimeout() time.Duration {
	return c.idleTimeout
}

// GetGitHubClientID returns the OAuth app client ID.
func (c *AppConfig) GetGitHubClientID() string {
	return c.githubClientID
}

// GetGitHubClientSecret returns the OAuth app client secret.
func (c *AppConfig) GetGitHubClientSecret() string {
	return c.githubClientSecret
}

// GetGitHubRedirectURL returns the OAuth callback URL.
func (c *AppConfig) GetGitHubRedirectURL() string {
	return c.githubRedirectURL
}

// GetGitHubReadToken returns the read-only token used for commit lookups.
func (c *AppConfig) GetGitHubReadToken() string {
	return c.githubReadToken
}

// GetProviderTimeout returns the per-call timeout for provider requests.
func (c *AppConfig) GetProviderTimeout() time.Duration {
	return c.providerTimeout
}

// GetStateTTL returns how long an issued state token stays redeemable.
func (c *AppConfig) GetStateTTL() time.Duration {
	return c.stateTTL
}

// GetSweepInterval returns how often expired state tokens are purged.
func (c *AppConfig) GetSweepInterval() time.Duration {
	return c.sweepInterval
}

// GetCommitWindowDays returns the trailing lookup window in days.
func (c *AppConfig) GetCommitWindowDays() int {
	return c.commitWindowDays
}

// GetMaxCommitResults returns the candidate list cap.
func (c *AppConfig) GetMaxCommitResults() int {
	return c.maxCommitResults
}

// IsRateLimitEnabled returns whether API rate limiting is active.
func (c *AppConfig) IsRateLimitEnabled() bool {
	return c.rateLimitEnabled
}

// GetRedisAddr returns the Redis address for distributed rate limiting.
// Empty means in-memory rate limiting only.
func (c *AppConfig) GetRedisAddr() string {
	return c.redisAddr
}

// GetRedisPassword returns the Redis password.
func (c *AppConfig) GetRedisPassword() string {
	return c.redisPassword
}

// GetRedisDB returns the Redis database number.
func (c *AppConfig) GetRedisDB() int {
	return c.redisDB
}

// Validate checks if the configuration is valid.
func (c *AppConfig) Validate() error {
	if c.serverPort == "" {
		return fmt.Errorf("server port cannot be empty")
	}

	if c.databasePath == "" {
		return fmt.Errorf("database path cannot be empty")
	}

	if c.environment != "development" && c.environment != "staging" && c.environment != "production" {
		return fmt.Errorf("environment must be one of: development, staging, production")
	}

	if c.IsProduction() {
		if c.githubClientID == "" || c.githubClientSecret == "" {
			return fmt.Errorf("GitHub OAuth credentials are required in production")
		}
	}

	if c.commitWindowDays <= 0 {
		return fmt.Errorf("commit window must be at least one day")
	}

	if c.maxCommitResults <= 0 {
		return fmt.Errorf("max commit results must be positive")
	}

	if c.stateTTL <= 0 {
		return fmt.Errorf("state TTL must be positive")
	}

	return nil
}

// Helper functions for environment variable parsing.
func getEnvString(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getEnvInt(key string, defaultValue int) int {
	if value := os.Getenv(key); value != "" {
		if intValue, err := strconv.Atoi(value); err == nil {
			return intValue
		}
	}
	return defaultValue
}

func getEnvBool(key string, defaultValue bool) bool {
	if value := os.Getenv(key); value != "" {
		if boolValue, err := strconv.ParseBool(value); err == nil {
			return boolValue
		}
	}
	return defaultValue
}

func getEnvDuration(key, defaultValue string) time.Duration {
	if value := os.Getenv(key); value != "" {
		if duration, err := time.ParseDuration(value); err == nil {
			return duration
		}
	}
	if duration, err := time.ParseDuration(defaultValue); err == nil {
		return duration
	}
	return time.Second
}
