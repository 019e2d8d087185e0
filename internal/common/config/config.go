package config

import "fmt"

// Config is the main application configuration struct.
type Config struct {
	App       AppConfig       `mapstructure:"app"`
	Server    ServerConfig    `mapstructure:"server"`
	Database  DatabaseConfig  `mapstructure:"database"`
	Providers ProvidersConfig `mapstructure:"providers"`
	Refresh   RefreshConfig   `mapstructure:"refresh"`
	Logging   LoggingConfig   `mapstructure:"logging"`
}

// --- Core App/Infrastructure Config ---

type AppConfig struct {
	Name        string `mapstructure:"name"`
	Version     string `mapstructure:"version"`
	Environment string `mapstructure:"environment"`
}

// ServerConfig holds the HTTP trigger surface settings. CronSecret is the
// bearer token the scheduled refresh endpoint requires.
type ServerConfig struct {
	Port       int    `mapstructure:"port"`
	CronSecret string `mapstructure:"cron_secret"`
}

type DatabaseConfig struct {
	Postgres PostgresConfig `mapstructure:"postgres"`
	Redis    RedisConfig    `mapstructure:"redis"`
}

type PostgresConfig struct {
	Host           string `mapstructure:"host"`
	Port           int    `mapstructure:"port"`
	Database       string `mapstructure:"database"`
	User           string `mapstructure:"user"`
	Password       string `mapstructure:"password"`
	MaxConnections int    `mapstructure:"max_connections"`
	MaxIdle        int    `mapstructure:"max_idle"`
	SSLMode        string `mapstructure:"sslmode"`
}

// GetDSN returns the PostgreSQL connection string
func (p PostgresConfig) GetDSN() string {
	return fmt.Sprintf(
		"host=%s port=%d user=%s password=%s dbname=%s sslmode=%s",
		p.Host, p.Port, p.User, p.Password, p.Database, p.SSLMode,
	)
}

type RedisConfig struct {
	Address  string `mapstructure:"address"`
	Password string `mapstructure:"password"`
	DB       int    `mapstructure:"db"`
}

// --- Provider Configuration ---

// ProvidersConfig holds per-platform API settings. Base URLs are
// configurable so tests can point adapters at local stubs.
type ProvidersConfig struct {
	Codeforces ProviderConfig `mapstructure:"codeforces"`
	LeetCode   LeetCodeConfig `mapstructure:"leetcode"`
	CodeChef   ProviderConfig `mapstructure:"codechef"`
}

// ProviderConfig holds the settings shared by every provider adapter.
type ProviderConfig struct {
	BaseURL    string `mapstructure:"base_url"`
	MaxRetries int    `mapstructure:"max_retries"`
	Timeout    int    `mapstructure:"timeout"`     // milliseconds, per attempt
	RetryDelay int    `mapstructure:"retry_delay"` // milliseconds, base backoff
}

// LeetCodeConfig extends ProviderConfig with the fallback stats endpoint.
type LeetCodeConfig struct {
	ProviderConfig `mapstructure:",squash"`
	FallbackURL    string `mapstructure:"fallback_url"`
}

// --- Refresh Pipeline Configuration ---

// RefreshConfig holds batch-run settings. PacingDelay is the wait inserted
// between sequential per-user refreshes to respect provider rate limits.
type RefreshConfig struct {
	PacingDelay int `mapstructure:"pacing_delay"` // milliseconds
}

// LoggingConfig holds logging settings.
type LoggingConfig struct {
	Level  string `mapstructure:"level"`
	Format string `mapstructure:"format"`
	Output string `mapstructure:"output"`
}
