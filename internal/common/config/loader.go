package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

func Load() (*Config, error) {
	loadEnvFile()

	// Base config
	viper.SetConfigName("config")
	viper.SetConfigType("yaml")
	viper.AddConfigPath("./configs")
	viper.AddConfigPath("../../configs")
	viper.AddConfigPath(".")

	// Enable ENV override like SERVER_CRON_SECRET
	viper.SetEnvKeyReplacer(strings.NewReplacer(".", "_", "-", "_"))
	viper.AutomaticEnv()

	env := os.Getenv("APP_ENVIRONMENT")
	if env == "" {
		env = "development"
	}

	if err := viper.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
			return nil, fmt.Errorf("error reading base config: %w", err)
		}
	}

	// Environment-specific overrides, e.g. config.production.yaml
	envConfigFile := fmt.Sprintf("config.%s", env)
	viper.SetConfigName(envConfigFile)
	_ = viper.MergeInConfig() // ignore error if not found

	expandEnvVars(viper.GetViper())

	var cfg Config
	if err := viper.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("failed to unmarshal config: %w", err)
	}

	applyDefaults(&cfg)

	if err := validateConfig(&cfg); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}

	return &cfg, nil
}

// loadEnvFile tries .env in the usual locations so the loader works when
// invoked from the repo root, a package directory, or a test directory.
func loadEnvFile() {
	possiblePaths := []string{
		".env",
		"../.env",
		"../../.env",
		"../../../.env",
	}

	if rootDir := findProjectRoot(); rootDir != "" {
		possiblePaths = append(possiblePaths, filepath.Join(rootDir, ".env"))
	}

	for _, path := range possiblePaths {
		if _, err := os.Stat(path); err == nil {
			if err := godotenv.Load(path); err == nil {
				return
			}
		}
	}
}

// expandEnvVars resolves ${VAR} placeholders in string values, so secrets
// can live in the environment while the YAML stays committed.
func expandEnvVars(v *viper.Viper) {
	for _, key := range v.AllKeys() {
		val := v.GetString(key)
		if strings.Contains(val, "${") {
			v.Set(key, os.ExpandEnv(val))
		}
	}
}

// findProjectRoot walks up from the working directory looking for go.mod.
func findProjectRoot() string {
	dir, err := os.Getwd()
	if err != nil {
		return ""
	}
	for {
		if _, err := os.Stat(filepath.Join(dir, "go.mod")); err == nil {
			return dir
		}
		parent := filepath.Dir(dir)
		if parent == dir {
			return ""
		}
		dir = parent
	}
}

func applyDefaults(cfg *Config) {
	if cfg.App.Name == "" {
		cfg.App.Name = "rating-tracker"
	}
	if cfg.App.Environment == "" {
		cfg.App.Environment = "development"
	}
	if cfg.Server.Port == 0 {
		cfg.Server.Port = 8080
	}
	if cfg.Database.Postgres.Host == "" {
		cfg.Database.Postgres.Host = "localhost"
	}
	if cfg.Database.Postgres.Port == 0 {
		cfg.Database.Postgres.Port = 5432
	}
	if cfg.Database.Postgres.MaxConnections == 0 {
		cfg.Database.Postgres.MaxConnections = 10
	}
	if cfg.Database.Postgres.MaxIdle == 0 {
		cfg.Database.Postgres.MaxIdle = 5
	}
	if cfg.Database.Postgres.SSLMode == "" {
		cfg.Database.Postgres.SSLMode = "disable"
	}
	if cfg.Database.Redis.Address == "" {
		cfg.Database.Redis.Address = "localhost:6379"
	}
	if cfg.Logging.Level == "" {
		cfg.Logging.Level = "info"
	}
	if cfg.Logging.Format == "" {
		cfg.Logging.Format = "json"
	}
	if cfg.Refresh.PacingDelay == 0 {
		cfg.Refresh.PacingDelay = 500
	}

	applyProviderDefaults(&cfg.Providers.Codeforces, "https://codeforces.com/api", 3)
	applyProviderDefaults(&cfg.Providers.LeetCode.ProviderConfig, "https://alfa-leetcode-api-x0kj.onrender.com", 2)
	applyProviderDefaults(&cfg.Providers.CodeChef, "https://codechef-api.vercel.app", 3)
	if cfg.Providers.LeetCode.FallbackURL == "" {
		cfg.Providers.LeetCode.FallbackURL = "https://leetcode-stats-api.herokuapp.com"
	}
}

func applyProviderDefaults(p *ProviderConfig, baseURL string, retries int) {
	if p.BaseURL == "" {
		p.BaseURL = baseURL
	}
	if p.MaxRetries == 0 {
		p.MaxRetries = retries
	}
	if p.Timeout == 0 {
		p.Timeout = 5000
	}
	if p.RetryDelay == 0 {
		p.RetryDelay = 1000
	}
}

func validateConfig(cfg *Config) error {
	if cfg.Server.Port <= 0 || cfg.Server.Port > 65535 {
		return fmt.Errorf("server.port must be in (0, 65535]")
	}
	if cfg.Refresh.PacingDelay < 0 {
		return fmt.Errorf("refresh.pacing_delay must not be negative")
	}
	for name, p := range map[string]ProviderConfig{
		"codeforces": cfg.Providers.Codeforces,
		"leetcode":   cfg.Providers.LeetCode.ProviderConfig,
		"codechef":   cfg.Providers.CodeChef,
	} {
		if p.MaxRetries <= 0 {
			return fmt.Errorf("providers.%s.max_retries must be positive", name)
		}
		if p.Timeout <= 0 {
			return fmt.Errorf("providers.%s.timeout must be positive", name)
		}
	}
	return nil
}
